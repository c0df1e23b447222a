package flow

import (
	"regexp"
	"strings"
	"time"

	"github.com/pkordes/airport-taxi/backend/internal/catalog"
	"github.com/pkordes/airport-taxi/backend/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	msgRequired = "Required"

	minCardDigits = 12
)

// DefaultCountry is assumed when the passenger leaves country blank.
const DefaultCountry = "United Kingdom"

// Countries lists the billing countries accepted on the passenger form.
var Countries = []string{
	"United Kingdom",
	"United States",
	"France",
	"Germany",
	"India",
	"United Arab Emirates",
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateTrip checks the trip form. It returns nil when the trip is valid.
func ValidateTrip(t domain.TripDetails) domain.FieldErrors {
	var errs domain.FieldErrors
	add := func(field, msg string) { errs = append(errs, domain.FieldError{Field: field, Message: msg}) }

	checkLocation := func(prefix string, typ domain.LocationType, loc string) {
		if !typ.Valid() {
			add(prefix+"_location_type", "Must be airport or custom")
		}
		switch {
		case loc == "":
			add(prefix+"_location", msgRequired)
		case typ == domain.LocationAirport:
			if _, ok := catalog.AirportByCode(loc); !ok {
				add(prefix+"_location", "Unknown airport")
			}
		}
	}
	checkLocation("from", t.FromLocationType, t.FromLocation)
	checkLocation("to", t.ToLocationType, t.ToLocation)

	if t.Passengers < 1 {
		add("passengers", "Must be at least 1")
	}
	if t.Luggage < 0 {
		add("luggage", "Must not be negative")
	}

	pickup, pickupOK := checkDateTime(add, "pickup", t.PickupDate, t.PickupTime)
	if t.IsRoundTrip {
		ret, retOK := checkDateTime(add, "return", t.ReturnDate, t.ReturnTime)
		if pickupOK && retOK && ret.Before(pickup) {
			add("return_date", "Return must not be before pickup")
		}
	}
	return errs
}

func checkDateTime(add func(string, string), prefix, date, clock string) (time.Time, bool) {
	ok := true
	var d, c time.Time
	var err error
	if date == "" {
		add(prefix+"_date", msgRequired)
		ok = false
	} else if d, err = time.Parse(dateLayout, date); err != nil {
		add(prefix+"_date", "Enter a valid date")
		ok = false
	}
	if clock == "" {
		add(prefix+"_time", msgRequired)
		ok = false
	} else if c, err = time.Parse(timeLayout, clock); err != nil {
		add(prefix+"_time", "Enter a valid time")
		ok = false
	}
	if !ok {
		return time.Time{}, false
	}
	return d.Add(time.Duration(c.Hour())*time.Hour + time.Duration(c.Minute())*time.Minute), true
}

// ValidatePassenger checks the passenger form: each required field must be
// non-blank and the email must look like an address. One error per field.
func ValidatePassenger(p domain.Passenger) domain.FieldErrors {
	var errs domain.FieldErrors
	required := []struct {
		field string
		value string
	}{
		{"first_name", p.FirstName},
		{"last_name", p.LastName},
		{"email", p.Email},
		{"address1", p.Address1},
		{"city", p.City},
		{"postcode", p.Postcode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, domain.FieldError{Field: r.field, Message: msgRequired})
		}
	}
	if strings.TrimSpace(p.Email) != "" && !emailPattern.MatchString(p.Email) {
		errs = append(errs, domain.FieldError{Field: "email", Message: "Enter a valid email"})
	}
	if p.Country != "" && !supportedCountry(p.Country) {
		errs = append(errs, domain.FieldError{Field: "country", Message: "Unsupported country"})
	}
	return errs
}

// ValidateCard checks that every card field was filled in and that the
// number is made of digits, at least minCardDigits of them.
// Card data is expected to be normalized with NormalizeCard first.
func ValidateCard(c domain.Card) domain.FieldErrors {
	var errs domain.FieldErrors
	for _, f := range []struct {
		field string
		value string
	}{
		{"card_number", c.Number},
		{"card_name", c.Name},
		{"expiry", c.Expiry},
		{"cvv", c.CVV},
	} {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, domain.FieldError{Field: f.field, Message: msgRequired})
		}
	}
	if num := strings.ReplaceAll(c.Number, " ", ""); num != "" && (digitsOnly(num) != num || len(num) < minCardDigits) {
		errs = append(errs, domain.FieldError{Field: "card_number", Message: "Enter a valid card number"})
	}
	return errs
}

// NormalizeCard formats raw card input the way the payment form does:
// number in groups of four (max 19 chars), expiry as MM/YY, CVV up to 4 digits.
func NormalizeCard(c domain.Card) domain.Card {
	num := strings.Join(chunk(strings.ReplaceAll(c.Number, " ", ""), 4), " ")
	if len(num) > 19 {
		num = num[:19]
	}

	exp := digitsOnly(c.Expiry)
	if len(exp) >= 2 {
		exp = exp[:2] + "/" + exp[2:min(len(exp), 4)]
	}

	cvv := digitsOnly(c.CVV)
	if len(cvv) > 4 {
		cvv = cvv[:4]
	}

	return domain.Card{
		Number: num,
		Name:   strings.TrimSpace(c.Name),
		Expiry: exp,
		CVV:    cvv,
	}
}

func normalizeTrip(t domain.TripDetails) domain.TripDetails {
	t.FromLocation = strings.TrimSpace(t.FromLocation)
	t.ToLocation = strings.TrimSpace(t.ToLocation)
	if t.FromLocationType == domain.LocationAirport {
		t.FromLocation = strings.ToUpper(t.FromLocation)
	}
	if t.ToLocationType == domain.LocationAirport {
		t.ToLocation = strings.ToUpper(t.ToLocation)
	}
	if !t.IsRoundTrip {
		t.ReturnDate = ""
		t.ReturnTime = ""
	}
	return t
}

func normalizePassenger(p domain.Passenger) domain.Passenger {
	for _, f := range []*string{
		&p.FirstName, &p.LastName, &p.Email, &p.Telephone, &p.Mobile, &p.Emergency,
		&p.Address1, &p.Address2, &p.City, &p.Postcode, &p.Country, &p.State,
	} {
		*f = strings.TrimSpace(*f)
	}
	if p.Country == "" {
		p.Country = DefaultCountry
	}
	return p
}

func supportedCountry(c string) bool {
	for _, s := range Countries {
		if s == c {
			return true
		}
	}
	return false
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func chunk(s string, n int) []string {
	var out []string
	for len(s) > n {
		out = append(out, s[:n])
		s = s[n:]
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
