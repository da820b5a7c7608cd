package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

type stubOrphanRepo struct {
	recorded  []*domain.OrphanedCustomer
	recordErr error
}

func (r *stubOrphanRepo) Record(_ context.Context, o *domain.OrphanedCustomer) error {
	if r.recordErr != nil {
		return r.recordErr
	}
	r.recorded = append(r.recorded, o)
	return nil
}

func newCompensation(gw *stubReservationGateway, repo *stubOrphanRepo) *compensationService {
	svc := NewCompensationService(gw, repo, discardLogger).(*compensationService)
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 19, 0, 0, 0, time.UTC) }
	return svc
}

func TestCompensation_DeleteSucceeds(t *testing.T) {
	gw := &stubReservationGateway{}
	repo := &stubOrphanRepo{}
	svc := newCompensation(gw, repo)

	if err := svc.Compensate(context.Background(), ports.CompensationJob{CustomerID: 42, SessionID: "sid"}); err != nil {
		t.Fatalf("Compensate returned error: %v", err)
	}
	if len(gw.calls) != 1 || gw.calls[0] != "deleteCustomer" {
		t.Fatalf("expected one delete call, got %v", gw.calls)
	}
	if len(repo.recorded) != 0 {
		t.Fatalf("nothing should be recorded on success")
	}
}

func TestCompensation_NotFoundOrNotAllowedRecordsOrphan(t *testing.T) {
	for _, status := range []int{404, 405} {
		gw := &stubReservationGateway{
			deleteCustomerFn: func(ctx context.Context, id int64) error {
				return &domain.BackendError{Op: "delete customer", Status: status}
			},
		}
		repo := &stubOrphanRepo{}

		err := newCompensation(gw, repo).Compensate(context.Background(), ports.CompensationJob{CustomerID: 42, SessionID: "sid"})
		if err == nil {
			t.Fatalf("status %d: expected error", status)
		}
		if len(repo.recorded) != 1 || repo.recorded[0].CustomerID != 42 {
			t.Fatalf("status %d: expected orphan 42 recorded, got %+v", status, repo.recorded)
		}
	}
}

func TestCompensation_DeleteFailsRecordsOrphan(t *testing.T) {
	gw := &stubReservationGateway{
		deleteCustomerFn: func(ctx context.Context, id int64) error {
			return &domain.BackendError{Op: "delete customer", Status: 500}
		},
	}
	repo := &stubOrphanRepo{}

	err := newCompensation(gw, repo).Compensate(context.Background(), ports.CompensationJob{
		CustomerID: 42, SessionID: "sid", Reason: "create reservation: conflict",
	})
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if len(repo.recorded) != 1 {
		t.Fatalf("expected one orphan recorded, got %d", len(repo.recorded))
	}
	o := repo.recorded[0]
	if o.CustomerID != 42 || o.SessionID != "sid" || o.Reason != "create reservation: conflict" || o.RecordedAt.IsZero() {
		t.Fatalf("unexpected orphan: %+v", o)
	}
}

func TestCompensation_RecordFails(t *testing.T) {
	gw := &stubReservationGateway{
		deleteCustomerFn: func(ctx context.Context, id int64) error { return errors.New("timeout") },
	}
	repo := &stubOrphanRepo{recordErr: errors.New("mongo down")}

	if err := newCompensation(gw, repo).Compensate(context.Background(), ports.CompensationJob{CustomerID: 42}); err == nil {
		t.Fatalf("expected error when both delete and record fail")
	}
}

func TestEmptyReservationLister(t *testing.T) {
	got, err := EmptyReservationLister{}.ListReservations(context.Background())
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %v %v", got, err)
	}
}
