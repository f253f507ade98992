package models

// Region is one entry of the region directory.
type Region struct {
	Name        string `json:"name"`
	StationName string `json:"stationName"`
}

// RegionList is the directory listing.
type RegionList struct {
	Default string   `json:"default"`
	Items   []Region `json:"items"`
}

// SaveSettingsRequest is the body of PUT /v1/settings.
type SaveSettingsRequest struct {
	RegionName string `json:"regionName" validate:"required"`
}

// RefreshAccepted is returned when a fetch cycle was started.
type RefreshAccepted struct {
	RegionName string `json:"regionName"`
	IsLoading  bool   `json:"isLoading"`
}
