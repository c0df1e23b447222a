// Package handler implements the HTTP handlers for the airport taxi booking API.
// All handlers are methods on Server. Methods are split into files by area
// (health.go, catalog.go, booking.go, steps.go) but share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/airport-taxi/backend/internal/catalog"
	"github.com/pkordes/airport-taxi/backend/internal/domain"
	"github.com/pkordes/airport-taxi/backend/internal/service"
)

// BookingServicer defines the booking operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the session store or payment processor.
type BookingServicer interface {
	StartBooking(ctx context.Context, trip domain.TripDetails) (domain.BookingSession, error)
	ResubmitTrip(ctx context.Context, id uuid.UUID, trip domain.TripDetails) (domain.BookingSession, error)
	Get(ctx context.Context, id uuid.UUID) (domain.BookingSession, error)
	Abandon(ctx context.Context, id uuid.UUID) error
	EnterVehicleSelection(ctx context.Context, id uuid.UUID) (service.VehicleSelection, error)
	SelectVehicle(ctx context.Context, id uuid.UUID, vehicleID int) (domain.BookingSession, error)
	EnterPassengerInfo(ctx context.Context, id uuid.UUID) (domain.Passenger, error)
	SubmitPassenger(ctx context.Context, id uuid.UUID, p domain.Passenger) (domain.BookingSession, error)
	EnterPayment(ctx context.Context, id uuid.UUID) (service.PaymentSummary, error)
	Pay(ctx context.Context, id uuid.UUID, card domain.Card) (domain.Confirmation, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	bookings BookingServicer
	catalog  *catalog.Catalog
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(bookings BookingServicer, c *catalog.Catalog, logger *slog.Logger) *Server {
	return &Server{bookings: bookings, catalog: c, log: logger}
}

// Routes returns the API router. Mount it under "/" in main.go.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Get("/vehicles", s.ListVehicles)
	r.Get("/vehicles/{vehicleId}", s.GetVehicle)
	r.Get("/airports", s.ListAirports)

	r.Post("/bookings", s.StartBooking)
	r.Route("/bookings/{id}", func(r chi.Router) {
		r.Get("/", s.GetBooking)
		r.Delete("/", s.AbandonBooking)
		r.Put("/trip", s.ResubmitTrip)

		r.Get("/vehicles", s.EnterVehicleSelection)
		r.Post("/vehicle", s.SelectVehicle)

		r.Get("/passenger", s.EnterPassengerInfo)
		r.Put("/passenger", s.SubmitPassenger)

		r.Get("/payment", s.EnterPayment)
		r.Post("/payment", s.Pay)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, notFoundBody("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
	})
	return r
}

// NewHealthHandler returns a router serving only what needs no booking
// service: health, the API document and the catalog.
func NewHealthHandler() http.Handler {
	return NewServer(nil, catalog.Default(), slog.Default()).Routes()
}
