package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

type compensationService struct {
	gateway ports.ReservationGateway
	orphans ports.OrphanRepository
	log     zerolog.Logger
	now     func() time.Time
}

// NewCompensationService returns a CompensationService that deletes the
// orphaned customer and falls back to recording it in the orphan ledger.
func NewCompensationService(gateway ports.ReservationGateway, orphans ports.OrphanRepository, log zerolog.Logger) ports.CompensationService {
	return &compensationService{
		gateway: gateway,
		orphans: orphans,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Compensate removes the customer left behind by a failed reservation.
func (s *compensationService) Compensate(ctx context.Context, job ports.CompensationJob) error {
	err := s.gateway.DeleteCustomer(ctx, job.CustomerID)
	if err == nil {
		s.log.Info().Int64("customer_id", job.CustomerID).Str("session_id", job.SessionID).Msg("orphaned customer removed")
		return nil
	}
	// A 404 or 405 may mean the backend has no delete route at all, so the
	// customer is recorded rather than assumed gone.
	orphan := &domain.OrphanedCustomer{
		CustomerID: job.CustomerID,
		SessionID:  job.SessionID,
		Reason:     job.Reason,
		RecordedAt: s.now(),
	}
	if recErr := s.orphans.Record(ctx, orphan); recErr != nil {
		return fmt.Errorf("compensate customer %d: delete: %v; record orphan: %w", job.CustomerID, err, recErr)
	}

	s.log.Warn().Err(err).Int64("customer_id", job.CustomerID).Msg("customer delete failed, orphan recorded")
	return fmt.Errorf("compensate customer %d: %w", job.CustomerID, err)
}

// EmptyReservationLister backs the reservation listing page. The backend
// exposes no listing contract for this front end yet, so the page always
// shows the empty state.
type EmptyReservationLister struct{}

func (EmptyReservationLister) ListReservations(context.Context) ([]domain.Reservation, error) {
	return []domain.Reservation{}, nil
}
