package shell

import "github.com/stwalsh4118/diymedia/internal/models"

// Nav entry placements
const (
	PlacementSidebar = "sidebar"
	PlacementBottom  = "bottom"
)

// NavEntry is one navigation affordance. Selecting it sets View and, when
// present, Filter.
type NavEntry struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	Placement string         `json:"placement"`
	View      models.View    `json:"view"`
	Filter    *models.Filter `json:"filter,omitempty"`
	Active    bool           `json:"active"`
}

func filterPtr(f models.Filter) *models.Filter {
	return &f
}

// navigation builds the sidebar and bottom bar entries for view and filter.
// Library entries in the sidebar are active only when both view and filter match.
func navigation(view models.View, filter models.Filter) []NavEntry {
	libraryEntry := func(id, label string, f models.Filter) NavEntry {
		return NavEntry{
			ID:        id,
			Label:     label,
			Placement: PlacementSidebar,
			View:      models.ViewLibrary,
			Filter:    filterPtr(f),
			Active:    view == models.ViewLibrary && filter == f,
		}
	}

	return []NavEntry{
		{ID: "dashboard", Label: "Dashboard", Placement: PlacementSidebar, View: models.ViewDashboard, Active: view == models.ViewDashboard},
		libraryEntry("library-all", "All Media", models.FilterAll),
		libraryEntry("library-movies", "Movies", models.FilterMovie),
		libraryEntry("library-tv", "TV Shows", models.FilterTV),
		{ID: "settings", Label: "Settings", Placement: PlacementSidebar, View: models.ViewSettings, Active: view == models.ViewSettings},

		// The bottom bar library button keeps the current filter
		{ID: "home", Label: "Home", Placement: PlacementBottom, View: models.ViewDashboard, Active: view == models.ViewDashboard},
		{ID: "library", Label: "Library", Placement: PlacementBottom, View: models.ViewLibrary, Active: view == models.ViewLibrary},
		{ID: "system", Label: "Settings", Placement: PlacementBottom, View: models.ViewSettings, Active: view == models.ViewSettings},
	}
}
