// Package service contains the business logic for the airport taxi booking API.
// BookingService loads a session, runs one step of the flow state machine
// against it, and writes the result back. No storage code lives here;
// services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/airport-taxi/backend/internal/catalog"
	"github.com/pkordes/airport-taxi/backend/internal/domain"
	"github.com/pkordes/airport-taxi/backend/internal/events"
	"github.com/pkordes/airport-taxi/backend/internal/flow"
	"github.com/pkordes/airport-taxi/backend/internal/payment"
	"github.com/pkordes/airport-taxi/backend/internal/pricing"
	"github.com/pkordes/airport-taxi/backend/internal/repo"
)

// Charger performs a card charge. *payment.Processor satisfies it.
type Charger interface {
	Charge(ctx context.Context, req payment.Request) (payment.Receipt, error)
}

// BookingConfig holds the timing knobs of the booking flow.
type BookingConfig struct {
	// PaymentTimeout bounds one charge, including the simulated delay.
	PaymentTimeout time.Duration
	// ConfirmationRedirect is how long clients show the confirmation before
	// returning to the trip form.
	ConfirmationRedirect time.Duration
	// PaidMarkTTL is how long a charged session stays marked paid. It should
	// cover the session TTL so an uncleared session can never be paid twice.
	PaidMarkTTL time.Duration
}

const defaultPaidMarkTTL = 24 * time.Hour

// VehicleSelection is what the vehicle selection step shows.
type VehicleSelection struct {
	Session domain.BookingSession
	Quotes  []pricing.Quote
}

// PaymentSummary is what the payment step shows above the card form.
type PaymentSummary struct {
	SessionID     uuid.UUID
	Vehicle       domain.VehicleOffering
	Trip          domain.TripDetails
	PassengerName string
	TotalPrice    string
}

// BookingService drives a booking session through the flow.
type BookingService struct {
	store    repo.SessionStore
	lock     repo.PaymentLock
	machine  *flow.Machine
	payments Charger
	events   events.Publisher
	log      *slog.Logger
	cfg      BookingConfig
}

// NewBookingService constructs a BookingService.
func NewBookingService(
	store repo.SessionStore,
	lock repo.PaymentLock,
	machine *flow.Machine,
	payments Charger,
	publisher events.Publisher,
	logger *slog.Logger,
	cfg BookingConfig,
) *BookingService {
	if cfg.PaidMarkTTL <= 0 {
		cfg.PaidMarkTTL = defaultPaidMarkTTL
	}
	return &BookingService{
		store:    store,
		lock:     lock,
		machine:  machine,
		payments: payments,
		events:   publisher,
		log:      logger,
		cfg:      cfg,
	}
}

// Catalog returns the vehicle catalog bookings are priced against.
func (s *BookingService) Catalog() *catalog.Catalog {
	return s.machine.Catalog()
}

// StartBooking submits the trip form for a new visitor and stores the
// resulting session.
func (s *BookingService) StartBooking(ctx context.Context, trip domain.TripDetails) (domain.BookingSession, error) {
	next, err := s.machine.Transition(flow.Start(), flow.SubmitTrip{Trip: trip})
	if err != nil {
		return domain.BookingSession{}, fmt.Errorf("service.BookingService.StartBooking: %w", err)
	}
	if err := s.save(ctx, next); err != nil {
		return domain.BookingSession{}, fmt.Errorf("service.BookingService.StartBooking: %w", err)
	}
	s.log.InfoContext(ctx, "booking started", "session_id", next.Session.ID, "step", next.Step)
	return *next.Session, nil
}

// ResubmitTrip replaces the trip on an existing session. The vehicle
// selection and passenger details are discarded because they were priced
// and checked against the old trip.
func (s *BookingService) ResubmitTrip(ctx context.Context, id uuid.UUID, trip domain.TripDetails) (domain.BookingSession, error) {
	cur, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.BookingSession{}, fmt.Errorf("service.BookingService.ResubmitTrip: %w", err)
	}
	next, err := s.advance(ctx, &cur, flow.SubmitTrip{Trip: trip})
	if err != nil {
		return domain.BookingSession{}, fmt.Errorf("service.BookingService.ResubmitTrip: %w", err)
	}
	return next, nil
}

// Get returns the stored session. Returns domain.ErrNotFound if there is none.
func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (domain.BookingSession, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.BookingSession{}, fmt.Errorf("service.BookingService.Get: %w", err)
	}
	return sess, nil
}

// Abandon clears the session. Abandoning an unknown session is not an error.
func (s *BookingService) Abandon(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.BookingService.Abandon: %w", err)
	}
	s.log.InfoContext(ctx, "booking abandoned", "session_id", id)
	return nil
}

// EnterVehicleSelection runs the vehicle selection entry guard and returns
// every vehicle that fits the party, priced, in catalog order.
// The quote list is empty (not nil) when nothing fits.
func (s *BookingService) EnterVehicleSelection(ctx context.Context, id uuid.UUID) (VehicleSelection, error) {
	sess, err := s.enter(ctx, id, domain.StepVehicleSelection)
	if err != nil {
		return VehicleSelection{}, fmt.Errorf("service.BookingService.EnterVehicleSelection: %w", err)
	}

	trip := sess.Trip
	available := s.Catalog().Available(trip.Passengers, trip.Luggage)
	quotes := make([]pricing.Quote, len(available))
	for i, v := range available {
		quotes[i] = pricing.QuoteFor(v, trip.IsRoundTrip)
	}
	return VehicleSelection{Session: *sess, Quotes: quotes}, nil
}

// SelectVehicle records the chosen vehicle and its charged total.
func (s *BookingService) SelectVehicle(ctx context.Context, id uuid.UUID, vehicleID int) (domain.BookingSession, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return domain.BookingSession{}, fmt.Errorf("service.BookingService.SelectVehicle: %w", err)
	}
	next, err := s.advance(ctx, sess, flow.SelectVehicle{VehicleID: vehicleID})
	if err != nil {
		return domain.BookingSession{}, fmt.Errorf("service.BookingService.SelectVehicle: %w", err)
	}
	return next, nil
}

// EnterPassengerInfo runs the passenger step entry guard and returns the
// details to prefill the form with: whatever was submitted before, or an
// empty form with the default country.
func (s *BookingService) EnterPassengerInfo(ctx context.Context, id uuid.UUID) (domain.Passenger, error) {
	sess, err := s.enter(ctx, id, domain.StepPassengerInfo)
	if err != nil {
		return domain.Passenger{}, fmt.Errorf("service.BookingService.EnterPassengerInfo: %w", err)
	}
	if sess.Passenger != nil {
		return *sess.Passenger, nil
	}
	return domain.Passenger{Country: flow.DefaultCountry}, nil
}

// SubmitPassenger validates and records the passenger details.
func (s *BookingService) SubmitPassenger(ctx context.Context, id uuid.UUID, p domain.Passenger) (domain.BookingSession, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return domain.BookingSession{}, fmt.Errorf("service.BookingService.SubmitPassenger: %w", err)
	}
	next, err := s.advance(ctx, sess, flow.SubmitPassenger{Passenger: p})
	if err != nil {
		return domain.BookingSession{}, fmt.Errorf("service.BookingService.SubmitPassenger: %w", err)
	}
	return next, nil
}

// EnterPayment runs the payment step entry guard and returns the summary
// shown above the card form.
func (s *BookingService) EnterPayment(ctx context.Context, id uuid.UUID) (PaymentSummary, error) {
	sess, err := s.enter(ctx, id, domain.StepPayment)
	if err != nil {
		return PaymentSummary{}, fmt.Errorf("service.BookingService.EnterPayment: %w", err)
	}
	v, err := s.Catalog().ByID(*sess.SelectedVehicleID)
	if err != nil {
		return PaymentSummary{}, fmt.Errorf("service.BookingService.EnterPayment: %w", err)
	}
	return PaymentSummary{
		SessionID:     sess.ID,
		Vehicle:       v,
		Trip:          sess.Trip,
		PassengerName: sess.Passenger.FullName(),
		TotalPrice:    sess.TotalPrice,
	}, nil
}

// Pay charges the card for the session's total, clears the session, and
// returns the confirmation. Only one Pay per session runs at a time; a
// concurrent call gets domain.ErrPaymentInProgress. If the charge fails the
// session is left untouched so the visitor can retry. Once the charge has
// succeeded the confirmation is always returned; clearing the session is
// best effort, and the paid mark keeps a leftover session from being charged
// again.
func (s *BookingService) Pay(ctx context.Context, id uuid.UUID, card domain.Card) (domain.Confirmation, error) {
	card = flow.NormalizeCard(card)
	if errs := flow.ValidateCard(card); len(errs) > 0 {
		return domain.Confirmation{}, fmt.Errorf("service.BookingService.Pay: %w", errs)
	}

	ok, err := s.lock.Acquire(ctx, id, s.cfg.PaymentTimeout+time.Minute)
	if err != nil {
		return domain.Confirmation{}, fmt.Errorf("service.BookingService.Pay: %w", err)
	}
	if !ok {
		return domain.Confirmation{}, fmt.Errorf("service.BookingService.Pay: %w", domain.ErrPaymentInProgress)
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), id); err != nil {
			s.log.WarnContext(ctx, "release payment lock", "session_id", id, "error", err)
		}
	}()

	paid, err := s.lock.Paid(ctx, id)
	if err != nil {
		return domain.Confirmation{}, fmt.Errorf("service.BookingService.Pay: %w", err)
	}
	if paid {
		s.clear(ctx, id)
		return domain.Confirmation{}, fmt.Errorf("service.BookingService.Pay: %w", &domain.RedirectError{To: domain.StepTripForm})
	}

	// Read after locking: a payment that finished while we waited has
	// already cleared the session.
	sess, err := s.enter(ctx, id, domain.StepPayment)
	if err != nil {
		return domain.Confirmation{}, fmt.Errorf("service.BookingService.Pay: %w", err)
	}
	v, err := s.Catalog().ByID(*sess.SelectedVehicleID)
	if err != nil {
		return domain.Confirmation{}, fmt.Errorf("service.BookingService.Pay: %w", err)
	}

	chargeCtx, cancel := context.WithTimeout(ctx, s.cfg.PaymentTimeout)
	defer cancel()
	rcpt, err := s.payments.Charge(chargeCtx, payment.Request{SessionID: id, Amount: sess.TotalPrice, Card: card})
	if err != nil {
		s.log.InfoContext(ctx, "payment failed", "session_id", id, "error", err)
		return domain.Confirmation{}, fmt.Errorf("service.BookingService.Pay: %w", err)
	}

	if err := s.lock.MarkPaid(context.WithoutCancel(ctx), id, s.cfg.PaidMarkTTL); err != nil {
		s.log.WarnContext(ctx, "mark session paid", "session_id", id, "error", err)
	}
	if _, err := s.machine.Transition(flow.FromSession(sess), flow.CompletePayment{}); err != nil {
		s.log.WarnContext(ctx, "complete payment transition", "session_id", id, "error", err)
	}
	s.clear(ctx, id)

	conf := domain.Confirmation{
		Reference:     reference(rcpt.TransactionID),
		SessionID:     id,
		VehicleName:   v.Name,
		From:          sess.Trip.FromLocation,
		To:            sess.Trip.ToLocation,
		IsRoundTrip:   sess.Trip.IsRoundTrip,
		TotalPaid:     rcpt.Amount,
		PassengerName: sess.Passenger.FullName(),
		Email:         sess.Passenger.Email,
		CardLastFour:  rcpt.CardLastFour,
		PaidAt:        rcpt.ProcessedAt,
		RedirectAfter: s.cfg.ConfirmationRedirect,
	}
	s.log.InfoContext(ctx, "booking confirmed",
		"session_id", id,
		"reference", conf.Reference,
		"vehicle_id", v.ID,
		"total", conf.TotalPaid,
	)

	if err := s.events.PublishBookingConfirmed(ctx, conf); err != nil {
		s.log.WarnContext(ctx, "publish booking confirmed", "reference", conf.Reference, "error", err)
	}
	return conf, nil
}

// load reads the session, treating a missing session as nil so the flow
// guards can redirect to the trip form.
func (s *BookingService) load(ctx context.Context, id uuid.UUID) (*domain.BookingSession, error) {
	sess, err := s.store.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// enter loads the session and runs the entry guard for target.
func (s *BookingService) enter(ctx context.Context, id uuid.UUID, target domain.Step) (*domain.BookingSession, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := flow.Enter(target, sess); err != nil {
		s.log.DebugContext(ctx, "step guard redirect", "session_id", id, "target", target, "error", err)
		return nil, err
	}
	return sess, nil
}

// advance applies ev to sess and stores the result.
func (s *BookingService) advance(ctx context.Context, sess *domain.BookingSession, ev flow.Event) (domain.BookingSession, error) {
	next, err := s.machine.Transition(flow.FromSession(sess), ev)
	if err != nil {
		return domain.BookingSession{}, err
	}
	if err := s.save(ctx, next); err != nil {
		return domain.BookingSession{}, err
	}
	s.log.InfoContext(ctx, "booking step completed", "session_id", next.Session.ID, "step", next.Step)
	return *next.Session, nil
}

// clear deletes a paid session. The charge already happened, so a failure is
// only logged.
func (s *BookingService) clear(ctx context.Context, id uuid.UUID) {
	if err := s.store.Delete(context.WithoutCancel(ctx), id); err != nil {
		s.log.WarnContext(ctx, "clear paid session", "session_id", id, "error", err)
	}
}

func (s *BookingService) save(ctx context.Context, st flow.State) error {
	if st.Session == nil {
		return fmt.Errorf("no session in state %s", st.Step)
	}
	return s.store.Put(ctx, *st.Session)
}

// reference derives the customer-facing booking reference from the
// payment transaction id.
func reference(txID uuid.UUID) string {
	return "ATX-" + strings.ToUpper(strings.ReplaceAll(txID.String(), "-", "")[:8])
}
