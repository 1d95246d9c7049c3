package config

// Location is a searchable map location offered in the client dropdown
type Location struct {
	Name      string    `json:"name"`
	Center    []float64 `json:"center"`
	ZoomLevel int       `json:"zoom_level"`
}

// SupportedLocations is the list of locations offered by the application.
// The first entry is the fallback when geolocation is unavailable.
var SupportedLocations = []Location{
	{
		Name:      "houston",
		Center:    []float64{29.7604, -95.3698},
		ZoomLevel: 11,
	},
	{
		Name:      "miami",
		Center:    []float64{25.7617, -80.1918},
		ZoomLevel: 12,
	},
	{
		Name:      "new-york",
		Center:    []float64{40.7128, -74.0060},
		ZoomLevel: 12,
	},
	// Add more locations here as needed
}

// GetLocationNames returns a list of supported location names
func GetLocationNames() []string {
	names := make([]string, len(SupportedLocations))
	for i, loc := range SupportedLocations {
		names[i] = loc.Name
	}
	return names
}

// GetLocationByName returns a location configuration by name
func GetLocationByName(name string) *Location {
	for _, loc := range SupportedLocations {
		if loc.Name == name {
			return &loc
		}
	}
	return nil
}
