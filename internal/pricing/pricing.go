// Package pricing computes fares for catalog vehicles.
//
// Two independent figures exist and must not be merged:
//   - the promotional display price shown while choosing a vehicle
//     (flat discount on one-way, return leg at 95% of the one-way base), and
//   - the charged total billed at payment (no one-way discount, return leg at
//     90% of the one-way base).
//
// Distance is a fixed estimate; no routing is performed.
package pricing

import (
	"math"
	"strconv"

	"github.com/pkordes/airport-taxi/backend/internal/domain"
)

const (
	// EstimatedDistance is the assumed trip length in distance units.
	EstimatedDistance = 25.0

	// FlatDiscount is taken off the one-way promotional price.
	FlatDiscount = 3.0

	// PromoReturnMultiplier prices the return leg on the promotional display.
	PromoReturnMultiplier = 0.95

	// ChargedReturnMultiplier prices the return leg of the charged total.
	ChargedReturnMultiplier = 0.9
)

// PromotionalPrice is the marketing figure set for one vehicle.
// Return fields are only populated for round trips; ReturnOriginal is always
// set so the struck-through "before" price can be shown either way.
type PromotionalPrice struct {
	OneWayOriginal float64 `json:"one_way_original"`
	OneWay         float64 `json:"one_way"`
	ReturnOriginal int64   `json:"return_original"`
	Return         *int64  `json:"return,omitempty"`
	ReturnDiscount int64   `json:"return_discount"`
}

// Quote bundles both figures for one vehicle.
type Quote struct {
	Vehicle      domain.VehicleOffering `json:"vehicle"`
	Promotional  PromotionalPrice       `json:"promotional"`
	ChargedTotal string                 `json:"charged_total"`
}

// OneWayBase is the undiscounted single-leg fare.
func OneWayBase(v domain.VehicleOffering) float64 {
	return v.BaseFare + v.RatePerDistanceUnit*EstimatedDistance
}

// PromotionalDisplayPrice computes the figures shown on the vehicle
// selection screen. Return values are rounded to whole currency units and the
// discount badge is the difference of the two rounded numbers.
func PromotionalDisplayPrice(v domain.VehicleOffering, isRoundTrip bool) PromotionalPrice {
	base := OneWayBase(v)
	p := PromotionalPrice{
		OneWayOriginal: base,
		OneWay:         math.Max(base-FlatDiscount, 0),
		ReturnOriginal: roundHalfUp(base * 2),
	}
	if isRoundTrip {
		ret := roundHalfUp(base + base*PromoReturnMultiplier)
		p.Return = &ret
		p.ReturnDiscount = p.ReturnOriginal - ret
	}
	return p
}

// ChargedTotalAmount is the amount billed at payment, before formatting.
func ChargedTotalAmount(v domain.VehicleOffering, isRoundTrip bool) float64 {
	base := OneWayBase(v)
	if isRoundTrip {
		return base + base*ChargedReturnMultiplier
	}
	return base
}

// ChargedTotal is ChargedTotalAmount formatted with two decimals, the form
// stored on the session and shown at payment.
func ChargedTotal(v domain.VehicleOffering, isRoundTrip bool) string {
	return FormatAmount(ChargedTotalAmount(v, isRoundTrip))
}

// QuoteFor returns both figures for v.
func QuoteFor(v domain.VehicleOffering, isRoundTrip bool) Quote {
	return Quote{
		Vehicle:      v,
		Promotional:  PromotionalDisplayPrice(v, isRoundTrip),
		ChargedTotal: ChargedTotal(v, isRoundTrip),
	}
}

// FormatAmount renders a currency amount with exactly two decimals, rounding
// half a penny up: 0.125 is "0.13".
func FormatAmount(amount float64) string {
	pence := roundHalfUp(amount * 100)
	return strconv.FormatFloat(float64(pence)/100, 'f', 2, 64)
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
