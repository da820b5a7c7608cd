package domain

import (
	"errors"
	"testing"
)

func validCustomer() CustomerInfo {
	return CustomerInfo{FirstName: "Ana", LastName: "Diaz", Email: "ana@example.com", Phone: "555-1212"}
}

func validDetails() ReservationDetails {
	return ReservationDetails{
		TableID:         "3",
		ReservationDate: "2025-05-01",
		StartTime:       "19:00",
		EndTime:         "20:30",
		PartySize:       "4",
	}
}

func TestWizardStep_Transitions(t *testing.T) {
	cases := []struct {
		from, to WizardStep
		want     bool
	}{
		{StepCustomerInfo, StepReservationDetails, true},
		{StepCustomerInfo, StepSuccess, false},
		{StepReservationDetails, StepCustomerInfo, true},
		{StepReservationDetails, StepSuccess, true},
		{StepSuccess, StepCustomerInfo, false},
		{StepSuccess, StepReservationDetails, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestWizard_Advance_RequiresAllCustomerFields(t *testing.T) {
	blanks := []func(*CustomerInfo){
		func(c *CustomerInfo) { c.FirstName = "" },
		func(c *CustomerInfo) { c.LastName = "" },
		func(c *CustomerInfo) { c.Email = "" },
		func(c *CustomerInfo) { c.Phone = "" },
	}
	for i, blank := range blanks {
		w := NewWizard()
		info := validCustomer()
		blank(&info)

		err := w.Advance(info)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
		if w.Step != StepCustomerInfo {
			t.Fatalf("case %d: expected to stay in customer step, got %s", i, w.Step)
		}
		if w.Error != MsgCustomerFieldsRequired {
			t.Fatalf("case %d: unexpected error message %q", i, w.Error)
		}
	}
}

func TestWizard_Advance_Success(t *testing.T) {
	w := NewWizard()
	if err := w.Advance(validCustomer()); err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}
	if w.Step != StepReservationDetails {
		t.Fatalf("expected details step, got %s", w.Step)
	}
	if w.Error != "" {
		t.Fatalf("expected error cleared, got %q", w.Error)
	}
}

func TestWizard_Back_PreservesFields(t *testing.T) {
	w := NewWizard()
	_ = w.Advance(validCustomer())
	_, _, _ = w.Prepare(ReservationDetails{TableID: "3", ReservationDate: "2025-05-01"})

	if err := w.Back(); err != nil {
		t.Fatalf("Back returned error: %v", err)
	}
	if w.Step != StepCustomerInfo {
		t.Fatalf("expected customer step, got %s", w.Step)
	}
	if w.Customer != validCustomer() {
		t.Fatalf("customer fields lost: %+v", w.Customer)
	}
	if w.Details.TableID != "3" || w.Details.ReservationDate != "2025-05-01" {
		t.Fatalf("details lost: %+v", w.Details)
	}

	if err := w.Advance(w.Customer); err != nil {
		t.Fatalf("re-advance failed: %v", err)
	}
	if w.Details.TableID != "3" {
		t.Fatalf("details lost after re-advance: %+v", w.Details)
	}
}

func TestWizard_Back_FromCustomerStepRejected(t *testing.T) {
	w := NewWizard()
	if err := w.Back(); !errors.Is(err, ErrInvalidWizardStep) {
		t.Fatalf("expected ErrInvalidWizardStep, got %v", err)
	}
}

func TestWizard_Prepare_RequiresAllDetailFields(t *testing.T) {
	blanks := []func(*ReservationDetails){
		func(d *ReservationDetails) { d.TableID = "" },
		func(d *ReservationDetails) { d.ReservationDate = "" },
		func(d *ReservationDetails) { d.StartTime = "" },
		func(d *ReservationDetails) { d.EndTime = "" },
		func(d *ReservationDetails) { d.PartySize = "" },
	}
	for i, blank := range blanks {
		w := NewWizard()
		_ = w.Advance(validCustomer())
		details := validDetails()
		blank(&details)

		if _, _, err := w.Prepare(details); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
		if w.Step != StepReservationDetails {
			t.Fatalf("case %d: expected details step, got %s", i, w.Step)
		}
	}
}

func TestWizard_Prepare_RejectsNonNumericInput(t *testing.T) {
	w := NewWizard()
	_ = w.Advance(validCustomer())

	d := validDetails()
	d.TableID = "three"
	if _, _, err := w.Prepare(d); err == nil || w.Error != MsgInvalidTable {
		t.Fatalf("expected invalid table error, got %v (%q)", err, w.Error)
	}

	d = validDetails()
	d.PartySize = "many"
	if _, _, err := w.Prepare(d); err == nil || w.Error != MsgInvalidPartySize {
		t.Fatalf("expected invalid party size error, got %v (%q)", err, w.Error)
	}
}

func TestWizard_Prepare_BuildsPayloads(t *testing.T) {
	w := NewWizard()
	_ = w.Advance(validCustomer())
	d := validDetails()
	d.SpecialRequests = "window seat"

	customer, reservation, err := w.Prepare(d)
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if customer.ID != 0 || customer.FirstName != "Ana" || customer.Phone != "555-1212" {
		t.Fatalf("unexpected customer payload: %+v", customer)
	}
	if reservation.TableID != 3 || reservation.PartySize != 4 {
		t.Fatalf("numeric fields not parsed: %+v", reservation)
	}
	if reservation.Status != StatusPending {
		t.Fatalf("expected pending status, got %s", reservation.Status)
	}
	if reservation.SpecialRequests != "window seat" {
		t.Fatalf("special requests dropped: %+v", reservation)
	}
	if w.Step != StepReservationDetails {
		t.Fatalf("Prepare must not change step, got %s", w.Step)
	}
}

func TestWizard_FailAndComplete(t *testing.T) {
	w := NewWizard()
	_ = w.Advance(validCustomer())
	w.Loading = true

	w.Fail(MsgSubmitFailed)
	if w.Step != StepReservationDetails || w.Loading || w.Error != MsgSubmitFailed {
		t.Fatalf("unexpected state after Fail: %+v", w)
	}

	w.Complete(&Reservation{ID: 7})
	if w.Step != StepSuccess || w.Error != "" || w.Result == nil || w.Result.ID != 7 {
		t.Fatalf("unexpected state after Complete: %+v", w)
	}
}
