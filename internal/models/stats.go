package models

// BandwidthSample is one point of the dashboard network traffic chart
type BandwidthSample struct {
	Time string  `json:"time"`
	Mbps float64 `json:"mbps"`
}

// StorageStats describes the storage tile
type StorageStats struct {
	UsedTB  float64 `json:"used_tb"`
	TotalTB float64 `json:"total_tb"`
}

// PercentUsed returns used/total as a percentage, 0 when total is unknown
func (s StorageStats) PercentUsed() float64 {
	if s.TotalTB <= 0 {
		return 0
	}
	return s.UsedTB / s.TotalTB * 100
}

// ServerStats holds the static dashboard tiles
type ServerStats struct {
	CPUUsage        float64      `json:"cpu_usage"`
	CPUNote         string       `json:"cpu_note"`
	MemoryUsage     float64      `json:"memory_usage"`
	Uptime          string       `json:"uptime"`
	ActiveStreams   int          `json:"active_streams"`
	StreamsNote     string       `json:"streams_note"`
	Storage         StorageStats `json:"storage"`
	ServiceRunning  bool         `json:"service_running"`
	ServiceLabel    string       `json:"service_label"`
	ServiceEndpoint string       `json:"service_endpoint"`
}
