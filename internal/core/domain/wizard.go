package domain

import (
	"strconv"
	"strings"
)

// WizardStep is the state of the two-step reservation form.
type WizardStep string

const (
	StepCustomerInfo       WizardStep = "customer_info"
	StepReservationDetails WizardStep = "reservation_details"
	StepSuccess            WizardStep = "success"
)

// validSteps defines the allowed wizard transitions. Success is terminal.
var validSteps = map[WizardStep][]WizardStep{
	StepCustomerInfo:       {StepReservationDetails},
	StepReservationDetails: {StepCustomerInfo, StepSuccess},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s WizardStep) CanTransitionTo(next WizardStep) bool {
	for _, allowed := range validSteps[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Messages shown in the wizard's error overlay.
const (
	MsgCustomerFieldsRequired = "Please fill in all required customer fields"
	MsgDetailsFieldsRequired  = "Please fill in all required reservation fields"
	MsgInvalidTable           = "Please select a valid table"
	MsgInvalidPartySize       = "Please enter a valid party size"
	MsgSubmitFailed           = "Failed to create reservation. Please try again."
	MsgSubmitInFlight         = "Your reservation is already being submitted"
	MsgTablesLoadFailed       = "Failed to load tables"
	MsgReservationCreated     = "Reservation created successfully! Redirecting to reservations..."
)

// CustomerInfo is collected in the first wizard step.
type CustomerInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Complete reports whether every customer field is non-empty.
func (c CustomerInfo) Complete() bool {
	return c.FirstName != "" && c.LastName != "" && c.Email != "" && c.Phone != ""
}

// ReservationDetails is collected in the second wizard step. TableID and
// PartySize arrive as form text and are parsed at submission time.
type ReservationDetails struct {
	TableID         string `json:"tableId"`
	ReservationDate string `json:"reservationDate"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	PartySize       string `json:"partySize"`
	SpecialRequests string `json:"specialRequests"`
}

// Complete reports whether every required detail field is non-empty.
func (d ReservationDetails) Complete() bool {
	return d.TableID != "" && d.ReservationDate != "" && d.StartTime != "" &&
		d.EndTime != "" && d.PartySize != ""
}

// Wizard holds the reservation form state for one browser session.
type Wizard struct {
	Step     WizardStep         `json:"step"`
	Customer CustomerInfo       `json:"customer"`
	Details  ReservationDetails `json:"details"`
	Error    string             `json:"error,omitempty"`
	Loading  bool               `json:"loading,omitempty"`
	Result   *Reservation       `json:"result,omitempty"`
}

// NewWizard returns a wizard in its initial step.
func NewWizard() *Wizard {
	return &Wizard{Step: StepCustomerInfo}
}

// Advance records the customer fields and moves to the details step when
// they are all present. On violation the wizard stays put and Error is set.
func (w *Wizard) Advance(info CustomerInfo) error {
	if w.Step != StepCustomerInfo {
		return ErrInvalidWizardStep
	}
	w.Customer = info
	if !info.Complete() {
		w.Error = MsgCustomerFieldsRequired
		return NewValidationError(MsgCustomerFieldsRequired)
	}
	w.Error = ""
	w.Step = StepReservationDetails
	return nil
}

// Back returns to the customer step. Entered values are kept.
func (w *Wizard) Back() error {
	if !w.Step.CanTransitionTo(StepCustomerInfo) {
		return ErrInvalidWizardStep
	}
	w.Error = ""
	w.Step = StepCustomerInfo
	return nil
}

// Prepare records the details and builds the reservation and customer
// payloads for submission. It performs no I/O; a validation error leaves the
// wizard in the details step with Error set.
func (w *Wizard) Prepare(details ReservationDetails) (Customer, Reservation, error) {
	if w.Step != StepReservationDetails {
		return Customer{}, Reservation{}, ErrInvalidWizardStep
	}
	w.Details = details
	if !details.Complete() {
		return w.reject(MsgDetailsFieldsRequired)
	}

	tableID, err := strconv.ParseInt(strings.TrimSpace(details.TableID), 10, 64)
	if err != nil {
		return w.reject(MsgInvalidTable)
	}
	partySize, err := strconv.Atoi(strings.TrimSpace(details.PartySize))
	if err != nil {
		return w.reject(MsgInvalidPartySize)
	}

	customer := Customer{
		FirstName: w.Customer.FirstName,
		LastName:  w.Customer.LastName,
		Email:     w.Customer.Email,
		Phone:     w.Customer.Phone,
	}
	reservation := Reservation{
		TableID:         tableID,
		ReservationDate: details.ReservationDate,
		StartTime:       details.StartTime,
		EndTime:         details.EndTime,
		PartySize:       partySize,
		Status:          StatusPending,
		SpecialRequests: details.SpecialRequests,
	}
	w.Error = ""
	return customer, reservation, nil
}

// Fail sets the error overlay without changing the step.
func (w *Wizard) Fail(msg string) {
	w.Loading = false
	w.Error = msg
}

// Complete moves the wizard to its terminal step.
func (w *Wizard) Complete(r *Reservation) {
	w.Loading = false
	w.Error = ""
	w.Result = r
	w.Step = StepSuccess
}

func (w *Wizard) reject(msg string) (Customer, Reservation, error) {
	w.Error = msg
	return Customer{}, Reservation{}, NewValidationError(msg)
}
