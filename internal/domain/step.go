package domain

// Step is a state of the booking flow.
type Step string

const (
	StepTripForm         Step = "trip_form"
	StepVehicleSelection Step = "vehicle_selection"
	StepPassengerInfo    Step = "passenger_info"
	StepPayment          Step = "payment"
	StepConfirmed        Step = "confirmed"
)

// Steps lists every step in flow order.
var Steps = []Step{
	StepTripForm,
	StepVehicleSelection,
	StepPassengerInfo,
	StepPayment,
	StepConfirmed,
}

// Index returns the position of s in Steps, or -1 for an unknown step.
func (s Step) Index() int {
	for i, st := range Steps {
		if st == s {
			return i
		}
	}
	return -1
}

// Before reports whether s comes strictly earlier in the flow than other.
func (s Step) Before(other Step) bool {
	return s.Index() < other.Index()
}
