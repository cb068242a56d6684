package domain

import "math"

// Coords is a WGS84 latitude/longitude pair.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Restaurant struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Rating      float64  `json:"rating"`
	ReviewCount *int     `json:"reviewCount,omitempty"`
	Cuisine     string   `json:"cuisine"`
	PriceLevel  string   `json:"priceLevel"` // open vocabulary, e.g. €, €€, €€€, €€€€
	Address     string   `json:"address"`
	Description string   `json:"description"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Reviews     []Review `json:"reviews,omitempty"`
}

// Coords returns the restaurant position.
func (r Restaurant) Coords() Coords { return Coords{Lat: r.Lat, Lng: r.Lng} }

type Review struct {
	Author string  `json:"author"`
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
}

// Stars is the review rating rounded to the nearest whole star for display.
func (v Review) Stars() int { return int(math.Round(v.Rating)) }
