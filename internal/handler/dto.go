package handler

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/airport-taxi/backend/internal/domain"
	"github.com/pkordes/airport-taxi/backend/internal/pricing"
	"github.com/pkordes/airport-taxi/backend/internal/service"
)

type healthResponse struct {
	Status string `json:"status"`
}

// tripRequest is the trip form. Omitted fields take the form's defaults.
// Dates are parsed on decode; a blank date is sent as null or omitted.
type tripRequest struct {
	FromLocationType *domain.LocationType `json:"from_location_type"`
	FromLocation     string               `json:"from_location"`
	ToLocationType   *domain.LocationType `json:"to_location_type"`
	ToLocation       string               `json:"to_location"`
	Passengers       *int                 `json:"passengers"`
	Luggage          *int                 `json:"luggage"`
	IsRoundTrip      bool                 `json:"is_round_trip"`
	PickupDate       *openapi_types.Date  `json:"pickup_date"`
	PickupTime       string               `json:"pickup_time"`
	ReturnDate       *openapi_types.Date  `json:"return_date"`
	ReturnTime       string               `json:"return_time"`
}

func (t tripRequest) toDomain() domain.TripDetails {
	out := domain.TripDetails{
		FromLocationType: domain.LocationAirport,
		FromLocation:     t.FromLocation,
		ToLocationType:   domain.LocationCustom,
		ToLocation:       t.ToLocation,
		Passengers:       1,
		Luggage:          1,
		IsRoundTrip:      t.IsRoundTrip,
		PickupDate:       fromDate(t.PickupDate),
		PickupTime:       t.PickupTime,
		ReturnDate:       fromDate(t.ReturnDate),
		ReturnTime:       t.ReturnTime,
	}
	if t.FromLocationType != nil {
		out.FromLocationType = *t.FromLocationType
	}
	if t.ToLocationType != nil {
		out.ToLocationType = *t.ToLocationType
	}
	if t.Passengers != nil {
		out.Passengers = *t.Passengers
	}
	if t.Luggage != nil {
		out.Luggage = *t.Luggage
	}
	return out
}

type selectVehicleRequest struct {
	VehicleID *int `json:"vehicle_id"`
}

// stepResponse is the body of a guard redirect.
type stepResponse struct {
	Step domain.Step `json:"step"`
}

type vehicleSelectionResponse struct {
	SessionID   uuid.UUID       `json:"session_id"`
	Passengers  int             `json:"passengers"`
	Luggage     int             `json:"luggage"`
	IsRoundTrip bool            `json:"is_round_trip"`
	Vehicles    []pricing.Quote `json:"vehicles"`
	Message     string          `json:"message,omitempty"`
}

type passengerFormResponse struct {
	Passenger domain.Passenger `json:"passenger"`
	Countries []string         `json:"countries"`
}

type paymentSummaryResponse struct {
	SessionID     uuid.UUID              `json:"session_id"`
	Vehicle       domain.VehicleOffering `json:"vehicle"`
	From          string                 `json:"from"`
	To            string                 `json:"to"`
	IsRoundTrip   bool                   `json:"is_round_trip"`
	PickupDate    openapi_types.Date     `json:"pickup_date"`
	PickupTime    string                 `json:"pickup_time"`
	ReturnDate    *openapi_types.Date    `json:"return_date,omitempty"`
	ReturnTime    string                 `json:"return_time,omitempty"`
	Passengers    int                    `json:"passengers"`
	Luggage       int                    `json:"luggage"`
	PassengerName string                 `json:"passenger_name"`
	TotalPrice    string                 `json:"total_price"`
}

func summaryToResponse(sum service.PaymentSummary) paymentSummaryResponse {
	trip := sum.Trip
	resp := paymentSummaryResponse{
		SessionID:     sum.SessionID,
		Vehicle:       sum.Vehicle,
		From:          trip.FromLocation,
		To:            trip.ToLocation,
		IsRoundTrip:   trip.IsRoundTrip,
		PickupDate:    toDate(trip.PickupDate),
		PickupTime:    trip.PickupTime,
		ReturnTime:    trip.ReturnTime,
		Passengers:    trip.Passengers,
		Luggage:       trip.Luggage,
		PassengerName: sum.PassengerName,
		TotalPrice:    sum.TotalPrice,
	}
	if trip.IsRoundTrip {
		d := toDate(trip.ReturnDate)
		resp.ReturnDate = &d
	}
	return resp
}

// toDate converts a validated YYYY-MM-DD string. Sessions only hold dates
// that passed validation, so a parse failure yields the zero date.
func toDate(s string) openapi_types.Date {
	t, err := time.Parse(openapi_types.DateFormat, s)
	if err != nil {
		return openapi_types.Date{}
	}
	return openapi_types.Date{Time: t}
}

func fromDate(d *openapi_types.Date) string {
	if d == nil {
		return ""
	}
	return d.Format(openapi_types.DateFormat)
}

type confirmationResponse struct {
	domain.Confirmation
	RedirectAfterSeconds float64     `json:"redirect_after_seconds"`
	Next                 domain.Step `json:"next_step"`
}

func confirmationToResponse(c domain.Confirmation) confirmationResponse {
	return confirmationResponse{
		Confirmation:         c,
		RedirectAfterSeconds: c.RedirectAfter.Seconds(),
		Next:                 domain.StepTripForm,
	}
}
