package model

// GroupPlace is a place already saved in a travel group, as listed by the
// group's places endpoint.
type GroupPlace struct {
	LinkID      int64   `json:"link_id"`
	PlaceID     int64   `json:"place_id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	PlaceType   string  `json:"place_type"`
	Description string  `json:"description"`
}

func (g GroupPlace) Position() LatLng { return LatLng{Lat: g.Lat, Lng: g.Lng} }
