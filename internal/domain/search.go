package domain

// ViewMode is the active top-level display state.
type ViewMode string

const (
	ViewSearch    ViewMode = "search"
	ViewFavorites ViewMode = "favorites"
)

// RadiusChoicesKm are the search radii offered by the search form.
var RadiusChoicesKm = []float64{0.5, 1, 2, 5}

// ValidRadius reports whether r is one of the offered radii.
func ValidRadius(r float64) bool {
	for _, c := range RadiusChoicesKm {
		if r == c {
			return true
		}
	}
	return false
}

// DefaultCenter is the map center used when neither a requested location nor a
// valid result is available (Paris). The only hardcoded geographic default.
var DefaultCenter = Coords{Lat: 48.8566, Lng: 2.3522}

type SearchState struct {
	Address string       `json:"address"`
	Radius  float64      `json:"radius"` // km
	Loading bool         `json:"loading"`
	Error   string       `json:"error,omitempty"` // empty when none
	Results []Restaurant `json:"results"`
	Center  Coords       `json:"center"`
}

// SearchQuery describes one restaurant search. Location, when set, carries
// precise device coordinates and takes precedence over Address for the
// upstream service and for center resolution.
type SearchQuery struct {
	Address  string
	Radius   float64 // km
	Location *Coords
}
