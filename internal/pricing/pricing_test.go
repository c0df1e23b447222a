package pricing_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/airport-taxi/backend/internal/catalog"
	"github.com/pkordes/airport-taxi/backend/internal/domain"
	"github.com/pkordes/airport-taxi/backend/internal/pricing"
)

func economy() domain.VehicleOffering {
	return domain.VehicleOffering{ID: 1, Name: "Economy Sedan", BaseFare: 15, RatePerDistanceUnit: 2.5}
}

func TestOneWayBase(t *testing.T) {
	assert.Equal(t, 77.5, pricing.OneWayBase(economy()))
}

func TestChargedTotal_OneWay(t *testing.T) {
	assert.Equal(t, "77.50", pricing.ChargedTotal(economy(), false))
}

func TestChargedTotal_RoundTrip(t *testing.T) {
	assert.Equal(t, "147.25", pricing.ChargedTotal(economy(), true))
}

func TestPromotionalDisplayPrice_OneWay(t *testing.T) {
	p := pricing.PromotionalDisplayPrice(economy(), false)

	assert.Equal(t, 77.5, p.OneWayOriginal)
	assert.Equal(t, 74.5, p.OneWay)
	assert.EqualValues(t, 155, p.ReturnOriginal)
	assert.Nil(t, p.Return, "return price is not offered on a one-way trip")
	assert.Zero(t, p.ReturnDiscount)
}

func TestPromotionalDisplayPrice_RoundTrip(t *testing.T) {
	p := pricing.PromotionalDisplayPrice(economy(), true)

	require.NotNil(t, p.Return)
	// 77.5 + 77.5*0.95 = 151.125 -> 151
	assert.EqualValues(t, 151, *p.Return)
	assert.EqualValues(t, 155, p.ReturnOriginal)
	assert.EqualValues(t, 4, p.ReturnDiscount)
}

func TestPromotionalDisplayPrice_NeverNegative(t *testing.T) {
	free := domain.VehicleOffering{BaseFare: 0, RatePerDistanceUnit: 0.1} // base 2.5

	p := pricing.PromotionalDisplayPrice(free, false)

	assert.Equal(t, 0.0, p.OneWay)
}

// TestFormulasStayIndependent checks both formulas on every catalog vehicle:
// the charged round trip is base*1.9 and the promotional return is
// round(base*1.95). They must disagree whenever the base is non-zero.
func TestFormulasStayIndependent(t *testing.T) {
	for _, v := range catalog.Default().All() {
		base := pricing.OneWayBase(v)

		charged := pricing.ChargedTotalAmount(v, true)
		assert.InDelta(t, base*1.9, charged, 1e-9, v.Name)
		assert.Equal(t, pricing.FormatAmount(base*1.9), pricing.ChargedTotal(v, true), v.Name)

		promo := pricing.PromotionalDisplayPrice(v, true)
		require.NotNil(t, promo.Return)
		assert.EqualValues(t, int64(math.Floor(base*1.95+0.5)), *promo.Return, v.Name)
		assert.NotEqual(t, charged, float64(*promo.Return), v.Name)
	}
}

func TestMonotonicInBaseFareAndRate(t *testing.T) {
	for _, roundTrip := range []bool{false, true} {
		prev := domain.VehicleOffering{BaseFare: 0, RatePerDistanceUnit: 1}
		for fare := 1.0; fare <= 100; fare += 7 {
			next := prev
			next.BaseFare = fare
			assertNotCheaper(t, prev, next, roundTrip)
			prev = next
		}

		prev = domain.VehicleOffering{BaseFare: 10, RatePerDistanceUnit: 0}
		for rate := 0.25; rate <= 10; rate += 0.75 {
			next := prev
			next.RatePerDistanceUnit = rate
			assertNotCheaper(t, prev, next, roundTrip)
			prev = next
		}
	}
}

func assertNotCheaper(t *testing.T, lo, hi domain.VehicleOffering, roundTrip bool) {
	t.Helper()
	assert.LessOrEqual(t, pricing.ChargedTotalAmount(lo, roundTrip), pricing.ChargedTotalAmount(hi, roundTrip))

	pLo := pricing.PromotionalDisplayPrice(lo, roundTrip)
	pHi := pricing.PromotionalDisplayPrice(hi, roundTrip)
	assert.LessOrEqual(t, pLo.OneWay, pHi.OneWay)
	assert.LessOrEqual(t, pLo.ReturnOriginal, pHi.ReturnOriginal)
	if roundTrip {
		assert.LessOrEqual(t, *pLo.Return, *pHi.Return)
	}
}

func TestQuoteFor_Idempotent(t *testing.T) {
	v := economy()

	assert.Equal(t, pricing.QuoteFor(v, true), pricing.QuoteFor(v, true))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.00", pricing.FormatAmount(0))
	assert.Equal(t, "95.00", pricing.FormatAmount(95))
	assert.Equal(t, "289.75", pricing.FormatAmount(289.75))
}

func TestFormatAmount_HalfPennyRoundsUp(t *testing.T) {
	assert.Equal(t, "0.13", pricing.FormatAmount(0.125))
	assert.Equal(t, "2.38", pricing.FormatAmount(2.375))
}

func TestChargedTotal_HalfPennyFare(t *testing.T) {
	v := domain.VehicleOffering{BaseFare: 0.125}

	assert.Equal(t, "0.13", pricing.ChargedTotal(v, false))
}
