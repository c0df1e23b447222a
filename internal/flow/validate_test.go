package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/airport-taxi/backend/internal/domain"
	"github.com/pkordes/airport-taxi/backend/internal/flow"
)

func TestValidatePassenger_Valid(t *testing.T) {
	assert.Empty(t, flow.ValidatePassenger(validPassenger()))
}

func TestValidatePassenger_AllRequiredMissing(t *testing.T) {
	errs := flow.ValidatePassenger(domain.Passenger{})

	require.Len(t, errs, 6)
	for _, f := range []string{"first_name", "last_name", "email", "address1", "city", "postcode"} {
		assert.True(t, errs.Has(f), f)
	}
}

func TestValidatePassenger_MalformedEmail(t *testing.T) {
	for _, email := range []string{"john", "john@example", "jo hn@example.com", "@example.com"} {
		p := validPassenger()
		p.Email = email

		errs := flow.ValidatePassenger(p)

		require.Len(t, errs, 1, email)
		assert.Equal(t, domain.FieldError{Field: "email", Message: "Enter a valid email"}, errs[0])
	}
}

func TestValidatePassenger_OptionalFieldsMayBeBlank(t *testing.T) {
	p := validPassenger()
	p.Telephone, p.Mobile, p.Emergency, p.Address2, p.State = "", "", "", "", ""

	assert.Empty(t, flow.ValidatePassenger(p))
}

func TestValidatePassenger_UnsupportedCountry(t *testing.T) {
	p := validPassenger()
	p.Country = "Atlantis"

	errs := flow.ValidatePassenger(p)

	assert.True(t, errs.Has("country"))
}

func TestValidateTrip_Valid(t *testing.T) {
	assert.Empty(t, flow.ValidateTrip(validTrip()))
}

func TestValidateTrip_RoundTripNeedsReturn(t *testing.T) {
	trip := validTrip()
	trip.IsRoundTrip = true

	errs := flow.ValidateTrip(trip)

	assert.True(t, errs.Has("return_date"))
	assert.True(t, errs.Has("return_time"))
}

func TestValidateTrip_ReturnBeforePickup(t *testing.T) {
	trip := validTrip()
	trip.IsRoundTrip = true
	trip.ReturnDate = "2026-04-10"
	trip.ReturnTime = "08:00"

	errs := flow.ValidateTrip(trip)

	require.Len(t, errs, 1)
	assert.Equal(t, "return_date", errs[0].Field)
}

func TestValidateTrip_BadFormats(t *testing.T) {
	trip := validTrip()
	trip.PickupDate = "10/04/2026"
	trip.PickupTime = "2pm"
	trip.Luggage = -1
	trip.ToLocationType = "harbour"

	errs := flow.ValidateTrip(trip)

	for _, f := range []string{"pickup_date", "pickup_time", "luggage", "to_location_type"} {
		assert.True(t, errs.Has(f), f)
	}
}

func TestValidateTrip_CustomLocationsAcceptFreeText(t *testing.T) {
	trip := validTrip()
	trip.FromLocationType = domain.LocationCustom
	trip.FromLocation = "Kings Cross Station"

	assert.Empty(t, flow.ValidateTrip(trip))
}

func TestNormalizeCard(t *testing.T) {
	got := flow.NormalizeCard(domain.Card{
		Number: "4242424242424242999",
		Name:   "  John Smith ",
		Expiry: "1/2/29x",
		CVV:    "12a345",
	})

	assert.Equal(t, "4242 4242 4242 4242", got.Number)
	assert.Equal(t, "John Smith", got.Name)
	assert.Equal(t, "12/29", got.Expiry)
	assert.Equal(t, "1234", got.CVV)
}

func TestNormalizeCard_ShortInputs(t *testing.T) {
	got := flow.NormalizeCard(domain.Card{Number: "4242 42", Expiry: "1"})

	assert.Equal(t, "4242 42", got.Number)
	assert.Equal(t, "1", got.Expiry)
}

func TestValidateCard(t *testing.T) {
	errs := flow.ValidateCard(domain.Card{Number: "4242 4242 4242 4242"})

	require.Len(t, errs, 3)
	assert.False(t, errs.Has("card_number"))
}

func TestValidateCard_NumberWithoutDigits(t *testing.T) {
	card := flow.NormalizeCard(domain.Card{Number: "abcd-efgh", Name: "John Smith", Expiry: "1229", CVV: "123"})

	errs := flow.ValidateCard(card)

	require.Len(t, errs, 1)
	assert.Equal(t, domain.FieldError{Field: "card_number", Message: "Enter a valid card number"}, errs[0])
}

func TestValidateCard_NumberTooShort(t *testing.T) {
	errs := flow.ValidateCard(flow.NormalizeCard(domain.Card{Number: "4242 42", Name: "J", Expiry: "1229", CVV: "123"}))

	assert.True(t, errs.Has("card_number"))
}
