// Package flow is the booking step sequencer: an explicit finite-state model
// over the five booking steps with a single transition function and an entry
// guard. It is pure; persisting the resulting session is the caller's job.
package flow

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/airport-taxi/backend/internal/catalog"
	"github.com/pkordes/airport-taxi/backend/internal/domain"
	"github.com/pkordes/airport-taxi/backend/internal/pricing"
)

// ErrInvalidTransition is returned when an event cannot fire from the
// current step at all (e.g. selecting a vehicle after confirmation).
var ErrInvalidTransition = errors.New("invalid step transition")

// State is a position in the flow. Session is nil when no session exists,
// which is the case before the trip form is submitted and after confirmation.
type State struct {
	Step    domain.Step
	Session *domain.BookingSession
}

// Start is the state of a fresh visitor.
func Start() State {
	return State{Step: domain.StepTripForm}
}

// FromSession derives the state of a stored session. A nil session is Start.
func FromSession(s *domain.BookingSession) State {
	if s == nil {
		return Start()
	}
	return State{Step: s.Step, Session: s}
}

// Event is an input to Transition.
type Event interface {
	// source is the step whose view emits the event.
	source() domain.Step
}

// SubmitTrip is the trip form submission.
type SubmitTrip struct{ Trip domain.TripDetails }

// SelectVehicle is the vehicle selection submission.
type SelectVehicle struct{ VehicleID int }

// SubmitPassenger is the passenger info submission.
type SubmitPassenger struct{ Passenger domain.Passenger }

// CompletePayment fires once the payment processor approved the charge.
type CompletePayment struct{}

// ConfirmationElapsed fires when the confirmation screen's delay ran out.
type ConfirmationElapsed struct{}

func (SubmitTrip) source() domain.Step          { return domain.StepTripForm }
func (SelectVehicle) source() domain.Step       { return domain.StepVehicleSelection }
func (SubmitPassenger) source() domain.Step     { return domain.StepPassengerInfo }
func (CompletePayment) source() domain.Step     { return domain.StepPayment }
func (ConfirmationElapsed) source() domain.Step { return domain.StepConfirmed }

// Machine applies events to states. It holds the catalog used to resolve
// vehicle selections plus a clock and id source so tests are deterministic.
type Machine struct {
	catalog *catalog.Catalog
	now     func() time.Time
	newID   func() uuid.UUID
}

// Option customises a Machine.
type Option func(*Machine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithIDs overrides uuid.New for new sessions.
func WithIDs(newID func() uuid.UUID) Option {
	return func(m *Machine) { m.newID = newID }
}

// New builds a Machine over the given catalog.
func New(c *catalog.Catalog, opts ...Option) *Machine {
	m := &Machine{catalog: c, now: time.Now, newID: uuid.New}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Catalog returns the catalog the machine resolves vehicles against.
func (m *Machine) Catalog() *catalog.Catalog {
	return m.catalog
}

// Transition is the only place steps change.
//
//	TripForm         --SubmitTrip-->          VehicleSelection (session created or trip replaced)
//	VehicleSelection --SelectVehicle-->       PassengerInfo    (vehicle + total price written)
//	PassengerInfo    --SubmitPassenger-->     Payment          (passenger written)
//	Payment          --CompletePayment-->     Confirmed        (session cleared)
//	Confirmed        --ConfirmationElapsed--> TripForm
//
// Before an event is applied, the entry guard of its source step runs; a
// failing guard yields a *domain.RedirectError and the state is unchanged.
// Field validation failures yield domain.FieldErrors, state unchanged.
// The input session is never mutated.
func (m *Machine) Transition(cur State, ev Event) (State, error) {
	if cur.Step == domain.StepConfirmed {
		if _, ok := ev.(ConfirmationElapsed); ok {
			return Start(), nil
		}
		return cur, fmt.Errorf("flow.Transition %T from %s: %w", ev, cur.Step, ErrInvalidTransition)
	}

	if err := Enter(ev.source(), cur.Session); err != nil {
		return cur, err
	}

	switch e := ev.(type) {
	case SubmitTrip:
		return m.submitTrip(cur, e)
	case SelectVehicle:
		return m.selectVehicle(cur, e)
	case SubmitPassenger:
		return m.submitPassenger(cur, e)
	case CompletePayment:
		return State{Step: domain.StepConfirmed}, nil
	default:
		return cur, fmt.Errorf("flow.Transition %T from %s: %w", ev, cur.Step, ErrInvalidTransition)
	}
}

func (m *Machine) submitTrip(cur State, e SubmitTrip) (State, error) {
	trip := normalizeTrip(e.Trip)
	if errs := ValidateTrip(trip); len(errs) > 0 {
		return cur, errs
	}

	now := m.now().UTC()
	var next domain.BookingSession
	if cur.Session != nil {
		next = *cur.Session
	} else {
		next = domain.BookingSession{ID: m.newID(), CreatedAt: now}
	}
	next.Trip = trip
	// A new trip invalidates everything priced against the old one.
	next.SelectedVehicleID = nil
	next.TotalPrice = ""
	next.Passenger = nil
	next.Step = domain.StepVehicleSelection
	next.UpdatedAt = now
	return FromSession(&next), nil
}

func (m *Machine) selectVehicle(cur State, e SelectVehicle) (State, error) {
	v, err := m.catalog.ByID(e.VehicleID)
	if err != nil {
		return cur, domain.FieldErrors{{Field: "vehicle_id", Message: "Unknown vehicle"}}
	}
	trip := cur.Session.Trip
	if !v.Fits(trip.Passengers, trip.Luggage) {
		return cur, domain.FieldErrors{{Field: "vehicle_id", Message: "Vehicle cannot carry this party"}}
	}

	next := *cur.Session
	id := v.ID
	next.SelectedVehicleID = &id
	next.TotalPrice = pricing.ChargedTotal(v, trip.IsRoundTrip)
	next.Step = domain.StepPassengerInfo
	next.UpdatedAt = m.now().UTC()
	return FromSession(&next), nil
}

func (m *Machine) submitPassenger(cur State, e SubmitPassenger) (State, error) {
	p := normalizePassenger(e.Passenger)
	if errs := ValidatePassenger(p); len(errs) > 0 {
		return cur, errs
	}

	next := *cur.Session
	next.Passenger = &p
	next.Step = domain.StepPayment
	next.UpdatedAt = m.now().UTC()
	return FromSession(&next), nil
}

// Guard returns the step a visitor asking for target should actually see.
//   - no session: TripForm
//   - PassengerInfo or Payment without a selected vehicle: VehicleSelection
//   - Payment without passenger details: PassengerInfo
//
// Any other request is granted.
func Guard(target domain.Step, s *domain.BookingSession) domain.Step {
	switch target {
	case domain.StepTripForm, domain.StepConfirmed:
		return target
	}
	if s == nil {
		return domain.StepTripForm
	}
	if target == domain.StepVehicleSelection {
		return target
	}
	if !s.HasSelectedVehicle() {
		return domain.StepVehicleSelection
	}
	if target == domain.StepPayment && !s.HasPassenger() {
		return domain.StepPassengerInfo
	}
	return target
}

// Enter runs Guard and reports a redirect as a *domain.RedirectError.
func Enter(target domain.Step, s *domain.BookingSession) error {
	if to := Guard(target, s); to != target {
		return &domain.RedirectError{To: to}
	}
	return nil
}
