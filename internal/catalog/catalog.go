// Package catalog holds the static vehicle fleet and airport list.
// Both are defined identically on every process start and never mutated;
// callers receive copies so they cannot alter the shared definitions.
package catalog

import (
	"fmt"

	"github.com/pkordes/airport-taxi/backend/internal/domain"
)

var vehicles = []domain.VehicleOffering{
	{
		ID:                  1,
		Name:                "Economy Sedan",
		Category:            domain.CategorySedan,
		PassengerCapacity:   3,
		LuggageCapacity:     2,
		BaseFare:            15,
		RatePerDistanceUnit: 2.5,
		Features:            []string{"Air Conditioning", "GPS Navigation", "Bluetooth"},
		Description:         "Perfect for solo travelers or small groups looking for an affordable ride.",
	},
	{
		ID:                  2,
		Name:                "Comfort Sedan",
		Category:            domain.CategorySedan,
		PassengerCapacity:   4,
		LuggageCapacity:     3,
		BaseFare:            20,
		RatePerDistanceUnit: 3.0,
		Features:            []string{"Air Conditioning", "GPS Navigation", "Bluetooth", "Premium Sound"},
		Description:         "Enhanced comfort with extra space for a relaxing journey.",
	},
	{
		ID:                  3,
		Name:                "Executive Sedan",
		Category:            domain.CategoryExecutive,
		PassengerCapacity:   4,
		LuggageCapacity:     3,
		BaseFare:            35,
		RatePerDistanceUnit: 4.5,
		Features:            []string{"Leather Seats", "Wi-Fi", "Premium Sound", "Complimentary Water", "USB Charging"},
		Description:         "Luxury travel experience with premium amenities and professional service.",
	},
	{
		ID:                  4,
		Name:                "SUV",
		Category:            domain.CategorySUV,
		PassengerCapacity:   6,
		LuggageCapacity:     5,
		BaseFare:            30,
		RatePerDistanceUnit: 4.0,
		Features:            []string{"Air Conditioning", "GPS Navigation", "Third Row Seating", "Spacious Cargo"},
		Description:         "Spacious vehicle ideal for families or groups with extra luggage.",
	},
	{
		ID:                  5,
		Name:                "Luxury SUV",
		Category:            domain.CategoryLuxury,
		PassengerCapacity:   6,
		LuggageCapacity:     5,
		BaseFare:            50,
		RatePerDistanceUnit: 5.5,
		Features:            []string{"Leather Seats", "Wi-Fi", "Premium Sound", "Climate Control", "Complimentary Refreshments"},
		Description:         "Ultimate luxury and comfort for discerning travelers.",
	},
	{
		ID:                  6,
		Name:                "Van",
		Category:            domain.CategoryVan,
		PassengerCapacity:   8,
		LuggageCapacity:     8,
		BaseFare:            40,
		RatePerDistanceUnit: 4.5,
		Features:            []string{"Air Conditioning", "GPS Navigation", "Extra Luggage Space", "USB Charging"},
		Description:         "Perfect for large groups or families with extensive luggage requirements.",
	},
	{
		ID:                  7,
		Name:                "Luxury Van",
		Category:            domain.CategoryLuxury,
		PassengerCapacity:   10,
		LuggageCapacity:     10,
		BaseFare:            60,
		RatePerDistanceUnit: 6.0,
		Features:            []string{"Leather Seats", "Wi-Fi", "Premium Entertainment", "Climate Control", "VIP Service"},
		Description:         "Premium group transportation with first-class amenities.",
	},
}

var airports = []domain.Airport{
	{Code: "LHR", Name: "London Heathrow"},
	{Code: "LGW", Name: "London Gatwick"},
	{Code: "STN", Name: "London Stansted"},
	{Code: "LTN", Name: "London Luton"},
	{Code: "LCY", Name: "London City"},
	{Code: "SEN", Name: "London Southend"},
	{Code: "MAN", Name: "Manchester"},
	{Code: "BHX", Name: "Birmingham"},
}

// Catalog is a read-only view over a fixed list of offerings.
// The zero value is an empty catalog; use Default for the production fleet.
type Catalog struct {
	offerings []domain.VehicleOffering
}

// Default returns the production fleet.
func Default() *Catalog {
	return &Catalog{offerings: vehicles}
}

// New builds a catalog over the given offerings, preserving their order.
// IDs must be unique.
func New(offerings []domain.VehicleOffering) (*Catalog, error) {
	seen := make(map[int]struct{}, len(offerings))
	for _, o := range offerings {
		if _, dup := seen[o.ID]; dup {
			return nil, fmt.Errorf("catalog.New: duplicate vehicle id %d", o.ID)
		}
		seen[o.ID] = struct{}{}
	}
	return &Catalog{offerings: cloneAll(offerings)}, nil
}

// All returns every offering in catalog order.
func (c *Catalog) All() []domain.VehicleOffering {
	return cloneAll(c.offerings)
}

// ByID returns the offering with the given id.
// Returns domain.ErrNotFound if no offering has that id.
func (c *Catalog) ByID(id int) (domain.VehicleOffering, error) {
	for _, o := range c.offerings {
		if o.ID == id {
			return clone(o), nil
		}
	}
	return domain.VehicleOffering{}, fmt.Errorf("catalog.ByID %d: %w", id, domain.ErrNotFound)
}

// Available returns the offerings that can carry passengers and luggage,
// in catalog order. An empty, non-nil slice means nothing fits.
func (c *Catalog) Available(passengers, luggage int) []domain.VehicleOffering {
	out := []domain.VehicleOffering{}
	for _, o := range c.offerings {
		if o.Fits(passengers, luggage) {
			out = append(out, clone(o))
		}
	}
	return out
}

// Airports returns the airports selectable as trip endpoints.
func Airports() []domain.Airport {
	out := make([]domain.Airport, len(airports))
	copy(out, airports)
	return out
}

// AirportByCode looks up an airport by its code.
func AirportByCode(code string) (domain.Airport, bool) {
	for _, a := range airports {
		if a.Code == code {
			return a, true
		}
	}
	return domain.Airport{}, false
}

func clone(o domain.VehicleOffering) domain.VehicleOffering {
	o.Features = append([]string(nil), o.Features...)
	return o
}

func cloneAll(in []domain.VehicleOffering) []domain.VehicleOffering {
	out := make([]domain.VehicleOffering, len(in))
	for i, o := range in {
		out[i] = clone(o)
	}
	return out
}
