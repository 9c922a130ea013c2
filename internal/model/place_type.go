package model

import "strings"

// PlaceType is the category a group member assigns to a saved place.
type PlaceType string

const (
	PlaceTypeRestaurant    PlaceType = "RESTAURANT"
	PlaceTypeCafe          PlaceType = "CAFE"
	PlaceTypeAttraction    PlaceType = "ATTRACTION"
	PlaceTypeShopping      PlaceType = "SHOPPING"
	PlaceTypePark          PlaceType = "PARK"
	PlaceTypeMuseum        PlaceType = "MUSEUM"
	PlaceTypeAccommodation PlaceType = "ACCOMMODATION"
	PlaceTypeOther         PlaceType = "OTHER"
)

// PlaceTypes lists the server's choices in display order.
var PlaceTypes = []PlaceType{
	PlaceTypeRestaurant,
	PlaceTypeCafe,
	PlaceTypeAttraction,
	PlaceTypeShopping,
	PlaceTypePark,
	PlaceTypeMuseum,
	PlaceTypeAccommodation,
	PlaceTypeOther,
}

var placeTypeLabels = map[PlaceType]string{
	PlaceTypeRestaurant:    "Restaurant",
	PlaceTypeCafe:          "Cafe",
	PlaceTypeAttraction:    "Attraction",
	PlaceTypeShopping:      "Shopping",
	PlaceTypePark:          "Park",
	PlaceTypeMuseum:        "Museum / exhibition",
	PlaceTypeAccommodation: "Accommodation",
	PlaceTypeOther:         "Other",
}

// Label is the human-readable name; unknown types print as-is.
func (t PlaceType) Label() string {
	if l, ok := placeTypeLabels[PlaceType(strings.ToUpper(string(t)))]; ok {
		return l
	}
	return string(t)
}

// Next cycles through PlaceTypes, starting over after the last one.
func (t PlaceType) Next() PlaceType {
	for i, pt := range PlaceTypes {
		if pt == t {
			return PlaceTypes[(i+1)%len(PlaceTypes)]
		}
	}
	return PlaceTypes[0]
}
