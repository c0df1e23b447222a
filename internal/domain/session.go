package domain

import (
	"time"

	"github.com/google/uuid"
)

// LocationType says how a trip endpoint is expressed.
type LocationType string

const (
	// LocationAirport means the location is an airport code from the airport list.
	LocationAirport LocationType = "airport"
	// LocationCustom means the location is free text entered by the traveller.
	LocationCustom LocationType = "custom"
)

// Valid reports whether t is one of the known location types.
func (t LocationType) Valid() bool {
	return t == LocationAirport || t == LocationCustom
}

// TripDetails are the fields written by the trip form step.
// Dates are "2006-01-02" and times are "15:04"; return fields are empty
// unless IsRoundTrip is set.
type TripDetails struct {
	FromLocationType LocationType `json:"from_location_type"`
	FromLocation     string       `json:"from_location"`
	ToLocationType   LocationType `json:"to_location_type"`
	ToLocation       string       `json:"to_location"`
	Passengers       int          `json:"passengers"`
	Luggage          int          `json:"luggage"`
	IsRoundTrip      bool         `json:"is_round_trip"`
	PickupDate       string       `json:"pickup_date"`
	PickupTime       string       `json:"pickup_time"`
	ReturnDate       string       `json:"return_date,omitempty"`
	ReturnTime       string       `json:"return_time,omitempty"`
}

// Passenger holds the contact and billing details written by the passenger
// info step.
type Passenger struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Telephone string `json:"telephone,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	Emergency string `json:"emergency,omitempty"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	State     string `json:"state,omitempty"`
}

// FullName joins first and last name.
func (p Passenger) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// BookingSession is the record carried across the booking steps for one
// user journey. Each step reads the fields earlier steps wrote and adds its
// own. It is serialized as JSON into the session store.
//
// SelectedVehicleID references the catalog; TotalPrice is the charged total
// formatted with two decimals and is written together with the selection.
type BookingSession struct {
	ID                uuid.UUID   `json:"id"`
	Step              Step        `json:"step"`
	Trip              TripDetails `json:"trip"`
	SelectedVehicleID *int        `json:"selected_vehicle_id,omitempty"`
	TotalPrice        string      `json:"total_price,omitempty"`
	Passenger         *Passenger  `json:"passenger,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// HasSelectedVehicle reports whether the vehicle selection step has run.
func (s *BookingSession) HasSelectedVehicle() bool {
	return s != nil && s.SelectedVehicleID != nil
}

// HasPassenger reports whether the passenger info step has run.
func (s *BookingSession) HasPassenger() bool {
	return s != nil && s.Passenger != nil
}

// Card is the payment form input. It never leaves the request that carries it
// and is not stored in the session.
type Card struct {
	Number string `json:"card_number"`
	Name   string `json:"card_name"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// LastFour returns the last four digits of the card number, or "" if the
// number has fewer than four digits.
func (c Card) LastFour() string {
	digits := make([]rune, 0, len(c.Number))
	for _, r := range c.Number {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < 4 {
		return ""
	}
	return string(digits[len(digits)-4:])
}

// Confirmation is produced once payment succeeds. The session it came from
// has already been cleared when a Confirmation is returned.
type Confirmation struct {
	Reference     string        `json:"reference"`
	SessionID     uuid.UUID     `json:"session_id"`
	VehicleName   string        `json:"vehicle_name"`
	From          string        `json:"from"`
	To            string        `json:"to"`
	IsRoundTrip   bool          `json:"is_round_trip"`
	TotalPaid     string        `json:"total_paid"`
	PassengerName string        `json:"passenger_name"`
	Email         string        `json:"email"`
	CardLastFour  string        `json:"card_last_four"`
	PaidAt        time.Time     `json:"paid_at"`
	RedirectAfter time.Duration `json:"-"`
}
