package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

const (
	defaultRedirectURL   = "/reservations"
	defaultRedirectAfter = 3 * time.Second
)

// WizardOptions configures the success redirect.
type WizardOptions struct {
	RedirectURL   string
	RedirectAfter time.Duration
	StateTTL      time.Duration
}

// WizardService runs the reservation wizard. State is kept per browser
// session in the session storage so each request picks up where the last
// one left off.
type WizardService struct {
	gateway     ports.ReservationGateway
	storage     ports.SessionStorage
	guard       ports.SubmitGuard
	compensator ports.Compensator
	opts        WizardOptions
	log         zerolog.Logger
}

// NewWizardService wires the wizard. compensator may be nil, in which case
// an orphaned customer is only logged.
func NewWizardService(
	gateway ports.ReservationGateway,
	storage ports.SessionStorage,
	guard ports.SubmitGuard,
	compensator ports.Compensator,
	opts WizardOptions,
	log zerolog.Logger,
) *WizardService {
	if opts.RedirectURL == "" {
		opts.RedirectURL = defaultRedirectURL
	}
	if opts.RedirectAfter <= 0 {
		opts.RedirectAfter = defaultRedirectAfter
	}
	if opts.StateTTL <= 0 {
		opts.StateTTL = defaultSessionTTL
	}
	return &WizardService{
		gateway:     gateway,
		storage:     storage,
		guard:       guard,
		compensator: compensator,
		opts:        opts,
		log:         log,
	}
}

// Load returns the stored wizard. A finished wizard starts over.
func (s *WizardService) Load(ctx context.Context, sessionID string) (*domain.Wizard, error) {
	w, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if w.Step == domain.StepSuccess {
		if err := s.Reset(ctx, sessionID); err != nil {
			return nil, err
		}
		return domain.NewWizard(), nil
	}
	return w, nil
}

// Advance moves from customer info to reservation details.
func (s *WizardService) Advance(ctx context.Context, sessionID string, info domain.CustomerInfo) (*domain.Wizard, error) {
	w, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	stepErr := w.Advance(info)
	if err := s.save(ctx, sessionID, w); err != nil {
		return w, err
	}
	return w, stepErr
}

// Back returns to customer info without losing entered values.
func (s *WizardService) Back(ctx context.Context, sessionID string) (*domain.Wizard, error) {
	w, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	stepErr := w.Back()
	if err := s.save(ctx, sessionID, w); err != nil {
		return w, err
	}
	return w, stepErr
}

// Submit validates the details, then creates the customer and, only once
// that succeeded, the reservation. A reservation failure leaves an orphaned
// customer which is handed to the compensator.
func (s *WizardService) Submit(ctx context.Context, sessionID string, details domain.ReservationDetails) (*domain.Wizard, *ports.SubmitResult, error) {
	w, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	customer, reservation, err := w.Prepare(details)
	if err != nil {
		if saveErr := s.save(ctx, sessionID, w); saveErr != nil {
			s.log.Warn().Err(saveErr).Str("session_id", sessionID).Msg("failed to save wizard state")
		}
		return w, nil, err
	}

	token, acquired, err := s.guard.Acquire(ctx, sessionID)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("submit guard unavailable, submitting anyway")
	} else if !acquired {
		w.Error = domain.MsgSubmitInFlight
		return w, nil, domain.ErrSubmissionInFlight
	}
	if acquired {
		defer func() {
			if err := s.guard.Release(context.WithoutCancel(ctx), sessionID, token); err != nil {
				s.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to release submit guard")
			}
		}()
	}
	w.Loading = true

	created, err := s.gateway.CreateCustomer(ctx, customer)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("create customer failed")
		return s.fail(ctx, sessionID, w, fmt.Errorf("create customer: %w", err))
	}

	reservation.CustomerID = created.ID
	res, err := s.gateway.CreateReservation(ctx, reservation)
	if err != nil {
		s.log.Error().Err(err).
			Str("session_id", sessionID).
			Int64("customer_id", created.ID).
			Msg("create reservation failed, customer orphaned")
		s.compensate(sessionID, created.ID, err)
		return s.fail(ctx, sessionID, w, fmt.Errorf("create reservation: %w", err))
	}

	w.Complete(res)
	if err := s.save(ctx, sessionID, w); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to save wizard state")
	}

	s.log.Info().
		Str("session_id", sessionID).
		Int64("reservation_id", res.ID).
		Int64("customer_id", created.ID).
		Msg("reservation created")

	return w, &ports.SubmitResult{
		Reservation:   res,
		RedirectURL:   s.opts.RedirectURL,
		RedirectAfter: s.opts.RedirectAfter,
	}, nil
}

// Reset discards the stored wizard.
func (s *WizardService) Reset(ctx context.Context, sessionID string) error {
	if err := s.storage.Delete(ctx, storageKey(sessionID, wizardEntry)); err != nil {
		return fmt.Errorf("reset wizard: %w", err)
	}
	return nil
}

func (s *WizardService) fail(ctx context.Context, sessionID string, w *domain.Wizard, cause error) (*domain.Wizard, *ports.SubmitResult, error) {
	w.Fail(domain.MsgSubmitFailed)
	if err := s.save(ctx, sessionID, w); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to save wizard state")
	}
	return w, nil, cause
}

func (s *WizardService) compensate(sessionID string, customerID int64, cause error) {
	if s.compensator == nil {
		return
	}
	s.compensator.Enqueue(ports.CompensationJob{
		CustomerID: customerID,
		SessionID:  sessionID,
		Reason:     cause.Error(),
	})
}

func (s *WizardService) load(ctx context.Context, sessionID string) (*domain.Wizard, error) {
	raw, found, err := s.storage.Get(ctx, storageKey(sessionID, wizardEntry))
	if err != nil {
		return nil, fmt.Errorf("load wizard: %w", err)
	}
	if !found {
		return domain.NewWizard(), nil
	}

	var w domain.Wizard
	if err := json.Unmarshal(raw, &w); err != nil || w.Step == "" {
		s.log.Warn().Str("session_id", sessionID).Msg("discarding unreadable wizard state")
		return domain.NewWizard(), nil
	}
	// A stored loading flag belongs to a request that is no longer running.
	w.Loading = false
	return &w, nil
}

func (s *WizardService) save(ctx context.Context, sessionID string, w *domain.Wizard) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("save wizard: encode: %w", err)
	}
	if err := s.storage.Set(ctx, storageKey(sessionID, wizardEntry), raw, s.opts.StateTTL); err != nil {
		return fmt.Errorf("save wizard: %w", err)
	}
	return nil
}
