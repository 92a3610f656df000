package models

// Settings defaults
const (
	DefaultMoviesDir           = "/mnt/storage/movies"
	DefaultTVDir               = "/mnt/storage/tvshows"
	DefaultFriendlyName        = "DIY Media Server"
	DefaultSSDPIntervalSeconds = 1800
)

// View identifies one of the three primary panels
type View string

// View constants
const (
	ViewDashboard View = "dashboard"
	ViewLibrary   View = "library"
	ViewSettings  View = "settings"
)

// IsValid reports whether v is a known view
func (v View) IsValid() bool {
	switch v {
	case ViewDashboard, ViewLibrary, ViewSettings:
		return true
	default:
		return false
	}
}

// Filter selects which media types the library panel shows
type Filter string

// Filter constants
const (
	FilterAll   Filter = "all"
	FilterMovie Filter = "movie"
	FilterTV    Filter = "tv"
)

// IsValid reports whether f is a known filter
func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterMovie, FilterTV:
		return true
	default:
		return false
	}
}

// Matches reports whether an item of type t passes the filter
func (f Filter) Matches(t MediaType) bool {
	return f == FilterAll || string(f) == string(t)
}

// Title returns the library header for the filter
func (f Filter) Title() string {
	switch f {
	case FilterMovie:
		return "Movies"
	case FilterTV:
		return "TV Shows"
	default:
		return "Media Library"
	}
}
