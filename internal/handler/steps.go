package handler

import (
	"fmt"
	"net/http"

	"github.com/pkordes/airport-taxi/backend/internal/domain"
	"github.com/pkordes/airport-taxi/backend/internal/flow"
	"github.com/pkordes/airport-taxi/backend/internal/receipt"
)

// EnterVehicleSelection handles GET /bookings/{id}/vehicles.
// Nothing fitting the party is not an error: the list is empty and a
// message explains why.
func (s *Server) EnterVehicleSelection(w http.ResponseWriter, r *http.Request) {
	id, ok := stepSessionID(w, r)
	if !ok {
		return
	}
	sel, err := s.bookings.EnterVehicleSelection(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, sessionNotFound)
		return
	}

	trip := sel.Session.Trip
	resp := vehicleSelectionResponse{
		SessionID:   sel.Session.ID,
		Passengers:  trip.Passengers,
		Luggage:     trip.Luggage,
		IsRoundTrip: trip.IsRoundTrip,
		Vehicles:    sel.Quotes,
	}
	if len(sel.Quotes) == 0 {
		resp.Message = fmt.Sprintf(
			"No vehicles can carry %d passengers with %d pieces of luggage. Try fewer passengers or less luggage.",
			trip.Passengers, trip.Luggage)
	}
	writeJSON(w, http.StatusOK, resp)
}

// SelectVehicle handles POST /bookings/{id}/vehicle.
func (s *Server) SelectVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := stepSessionID(w, r)
	if !ok {
		return
	}
	var req selectVehicleRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.VehicleID == nil {
		writeJSON(w, http.StatusUnprocessableEntity,
			validationBody(domain.FieldErrors{{Field: "vehicle_id", Message: "Required"}}))
		return
	}

	sess, err := s.bookings.SelectVehicle(r.Context(), id, *req.VehicleID)
	if err != nil {
		s.writeError(w, r, err, sessionNotFound)
		return
	}
	w.Header().Set("Location", stepPath(sess.Step, sess.ID))
	writeJSON(w, http.StatusOK, sess)
}

// EnterPassengerInfo handles GET /bookings/{id}/passenger and returns the
// prefill for the passenger form.
func (s *Server) EnterPassengerInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := stepSessionID(w, r)
	if !ok {
		return
	}
	p, err := s.bookings.EnterPassengerInfo(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, sessionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, passengerFormResponse{Passenger: p, Countries: flow.Countries})
}

// SubmitPassenger handles PUT /bookings/{id}/passenger.
func (s *Server) SubmitPassenger(w http.ResponseWriter, r *http.Request) {
	id, ok := stepSessionID(w, r)
	if !ok {
		return
	}
	var req domain.Passenger
	if !s.decode(w, r, &req) {
		return
	}

	sess, err := s.bookings.SubmitPassenger(r.Context(), id, req)
	if err != nil {
		s.writeError(w, r, err, sessionNotFound)
		return
	}
	w.Header().Set("Location", stepPath(sess.Step, sess.ID))
	writeJSON(w, http.StatusOK, sess)
}

// EnterPayment handles GET /bookings/{id}/payment.
func (s *Server) EnterPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := stepSessionID(w, r)
	if !ok {
		return
	}
	sum, err := s.bookings.EnterPayment(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, sessionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, summaryToResponse(sum))
}

// Pay handles POST /bookings/{id}/payment.
// Use ?format=pdf to receive the receipt as a PDF; default is JSON.
func (s *Server) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := stepSessionID(w, r)
	if !ok {
		return
	}
	var card domain.Card
	if !s.decode(w, r, &card) {
		return
	}

	conf, err := s.bookings.Pay(r.Context(), id, card)
	if err != nil {
		s.writeError(w, r, err, sessionNotFound)
		return
	}

	if r.URL.Query().Get("format") == "pdf" {
		b, err := receipt.Render(conf)
		if err != nil {
			// The charge went through; fall back to JSON rather than fail.
			s.log.ErrorContext(r.Context(), "render receipt", "reference", conf.Reference, "error", err)
		} else {
			w.Header().Set("Content-Type", receipt.ContentType)
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", receipt.Filename(conf)))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(b)
			return
		}
	}
	writeJSON(w, http.StatusOK, confirmationToResponse(conf))
}
