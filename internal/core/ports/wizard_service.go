package ports

import (
	"context"
	"time"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
)

// SubmitResult is returned when the wizard reaches its terminal step.
type SubmitResult struct {
	Reservation   *domain.Reservation
	RedirectURL   string
	RedirectAfter time.Duration
}

// WizardService drives the reservation wizard for one browser session.
// Every method returns the wizard state to render, even on error.
type WizardService interface {
	Load(ctx context.Context, sessionID string) (*domain.Wizard, error)
	Advance(ctx context.Context, sessionID string, info domain.CustomerInfo) (*domain.Wizard, error)
	Back(ctx context.Context, sessionID string) (*domain.Wizard, error)
	Submit(ctx context.Context, sessionID string, details domain.ReservationDetails) (*domain.Wizard, *SubmitResult, error)
	Reset(ctx context.Context, sessionID string) error
}

// ReservationLister backs the reservation listing page.
type ReservationLister interface {
	ListReservations(ctx context.Context) ([]domain.Reservation, error)
}

// CompensationJob asks for an orphaned customer to be removed.
type CompensationJob struct {
	CustomerID int64
	SessionID  string
	Reason     string
}

// Compensator accepts compensation jobs for asynchronous processing.
type Compensator interface {
	Enqueue(job CompensationJob)
}

// CompensationService processes one compensation job.
type CompensationService interface {
	Compensate(ctx context.Context, job CompensationJob) error
}

// OrphanRepository stores customers that could not be compensated.
type OrphanRepository interface {
	Record(ctx context.Context, o *domain.OrphanedCustomer) error
}
