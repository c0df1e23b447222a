// Package domain contains the core data types for the airport taxi booking API.
// It has no dependencies on other internal packages and is imported by every
// layer (catalog, pricing, flow, repo, service, handler).
package domain

// Category groups vehicle offerings by class.
type Category string

const (
	CategorySedan     Category = "sedan"
	CategoryExecutive Category = "executive"
	CategorySUV       Category = "suv"
	CategoryLuxury    Category = "luxury"
	CategoryVan       Category = "van"
)

// VehicleOffering is one entry of the static vehicle catalog.
// Offerings are defined at process start and never mutated.
type VehicleOffering struct {
	ID                  int      `json:"id"`
	Name                string   `json:"name"`
	Category            Category `json:"category"`
	PassengerCapacity   int      `json:"passenger_capacity"`
	LuggageCapacity     int      `json:"luggage_capacity"`
	BaseFare            float64  `json:"base_fare"`
	RatePerDistanceUnit float64  `json:"rate_per_distance_unit"`
	Features            []string `json:"features"`
	Description         string   `json:"description"`
}

// Fits reports whether the offering can carry the requested party.
func (v VehicleOffering) Fits(passengers, luggage int) bool {
	return v.PassengerCapacity >= passengers && v.LuggageCapacity >= luggage
}

// Airport is a pickup or drop-off point selectable by code when a
// location type is LocationAirport.
type Airport struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
