// File: services/wizard/service.go
package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	sessionRepo "clinicbooking/database/repository/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultWizardService keeps each wizard session in the session store and
// replays one controller operation per request.
type DefaultWizardService struct {
	Sessions  sessionRepo.SessionStore
	Catalog   Catalog
	Submitter Submitter
	TimeSlots []string
	Now       func() time.Time
	Logger    *zap.Logger
}

func (s *DefaultWizardService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// closedNotifier publishes close events through the session store.
type closedNotifier struct {
	sessions sessionRepo.SessionStore
}

func (n closedNotifier) WizardClosed(ctx context.Context, sessionID string) error {
	return n.sessions.PublishClosed(ctx, sessionID)
}

func (s *DefaultWizardService) newController() *Controller {
	return NewController(Dependencies{
		Catalog:   s.Catalog,
		Submitter: s.Submitter,
		Host:      closedNotifier{sessions: s.Sessions},
		TimeSlots: s.TimeSlots,
		Now:       s.Now,
	})
}

func (s *DefaultWizardService) load(ctx context.Context, sessionID string) (*Controller, error) {
	state, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !state.Open {
		return nil, ErrSessionClosed
	}
	c := s.newController()
	c.Restore(*state)
	return c, nil
}

// save writes the controller state only if no other request wrote the session
// since it was loaded.
func (s *DefaultWizardService) save(ctx context.Context, c *Controller) error {
	state := c.State()
	return s.Sessions.CompareAndSave(ctx, &state)
}

// renderAfter renders the controller and attaches opErr. A domain error from
// the operation wins over a rendering failure.
func renderAfter(ctx context.Context, c *Controller, opErr error) (*StepView, error) {
	view, err := c.Render(ctx)
	if opErr != nil {
		return view, opErr
	}
	return view, err
}

// mutate loads a session, applies op and persists the result when op succeeds.
// Edits are refused while a submission holds the session.
func (s *DefaultWizardService) mutate(ctx context.Context, sessionID string, op func(*Controller) error) (*StepView, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	inFlight, err := s.Sessions.SubmitInFlight(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if inFlight {
		return renderAfter(ctx, c, ErrSubmissionInFlight)
	}
	// Operations fail before touching state, so c still matches the store.
	if err := op(c); err != nil {
		return renderAfter(ctx, c, err)
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c.Render(ctx)
}

// Open creates a session. A request with IsOpen false renders nothing.
func (s *DefaultWizardService) Open(ctx context.Context, req OpenRequest) (*StepView, error) {
	if !req.IsOpen {
		return nil, nil
	}
	c := s.newController()
	sessionID := uuid.New().String()
	c.Open(sessionID, req.PreSelectedExpert, req.PreSelectedService)
	state := c.State()
	if err := s.Sessions.Save(ctx, &state); err != nil {
		return nil, err
	}
	s.logger().Info("Open: booking wizard opened",
		zap.String("sessionID", sessionID),
		zap.String("preSelectedExpert", req.PreSelectedExpert),
		zap.String("preSelectedService", req.PreSelectedService))
	return c.Render(ctx)
}

func (s *DefaultWizardService) View(ctx context.Context, sessionID string) (*StepView, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return c.Render(ctx)
}

func (s *DefaultWizardService) SelectField(ctx context.Context, sessionID, field, value string) (*StepView, error) {
	return s.mutate(ctx, sessionID, func(c *Controller) error {
		return c.SelectField(field, value)
	})
}

// Advance applies the completeness gate before moving forward.
func (s *DefaultWizardService) Advance(ctx context.Context, sessionID string) (*StepView, error) {
	return s.mutate(ctx, sessionID, func(c *Controller) error {
		if !c.CanAdvance() {
			st := c.State()
			return &IncompleteStepError{Step: st.Step.String(), Missing: MissingFields(st.Step, st.Draft)}
		}
		c.Advance()
		return nil
	})
}

func (s *DefaultWizardService) Retreat(ctx context.Context, sessionID string) (*StepView, error) {
	return s.mutate(ctx, sessionID, func(c *Controller) error {
		c.Retreat()
		return nil
	})
}

func (s *DefaultWizardService) ShiftMonth(ctx context.Context, sessionID string, delta int) (*StepView, error) {
	return s.mutate(ctx, sessionID, func(c *Controller) error {
		return c.ShiftMonth(delta)
	})
}

func (s *DefaultWizardService) SelectDate(ctx context.Context, sessionID, date string) (*StepView, error) {
	return s.mutate(ctx, sessionID, func(c *Controller) error {
		applied, err := c.SelectDate(date)
		if err == nil && !applied {
			s.logger().Debug("SelectDate: ignored past day", zap.String("sessionID", sessionID), zap.String("date", date))
		}
		return err
	})
}

func (s *DefaultWizardService) SelectTime(ctx context.Context, sessionID, slot string) (*StepView, error) {
	return s.mutate(ctx, sessionID, func(c *Controller) error {
		return c.SelectTime(slot)
	})
}

func (s *DefaultWizardService) Reset(ctx context.Context, sessionID string) (*StepView, error) {
	return s.mutate(ctx, sessionID, func(c *Controller) error {
		return c.Reset()
	})
}

// Submit holds the per-session submit lock while the booking is created. The
// session is loaded under the lock, and the result is kept only if nothing
// else wrote the session during the submission.
func (s *DefaultWizardService) Submit(ctx context.Context, sessionID string) (*StepView, error) {
	logger := s.logger().With(zap.String("sessionID", sessionID))

	token, acquired, err := s.Sessions.AcquireSubmitLock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		c, err := s.load(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return renderAfter(ctx, c, ErrSubmissionInFlight)
	}
	defer func() {
		if err := s.Sessions.ReleaseSubmitLock(context.Background(), sessionID, token); err != nil {
			logger.Warn("Submit: failed to release submit lock", zap.Error(err))
		}
	}()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	booking, err := c.Submit(ctx)
	if err != nil {
		logger.Info("Submit: booking not created", zap.Error(err))
		return renderAfter(ctx, c, err)
	}

	err = s.save(ctx, c)
	switch {
	case err == nil:
	case errors.Is(err, sessionRepo.ErrSessionNotFound):
		logger.Warn("Submit: session closed during submission, result discarded", zap.String("bookingID", booking.ID))
		return nil, ErrSessionClosed
	case errors.Is(err, sessionRepo.ErrVersionConflict):
		logger.Warn("Submit: session changed during submission, result discarded", zap.String("bookingID", booking.ID))
		current, loadErr := s.load(ctx, sessionID)
		if loadErr != nil {
			return nil, ErrSubmissionSuperseded
		}
		return renderAfter(ctx, current, ErrSubmissionSuperseded)
	default:
		return nil, fmt.Errorf("booking %s created but session could not be saved: %w", booking.ID, err)
	}
	logger.Info("Submit: booking created", zap.String("bookingID", booking.ID))
	return c.Render(ctx)
}

// Close ends the session. Unknown or expired sessions are treated as closed.
func (s *DefaultWizardService) Close(ctx context.Context, sessionID string) error {
	c, err := s.load(ctx, sessionID)
	if errors.Is(err, sessionRepo.ErrSessionNotFound) || errors.Is(err, ErrSessionClosed) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	if err := c.Close(ctx); err != nil {
		s.logger().Warn("Close: host notification failed", zap.String("sessionID", sessionID), zap.Error(err))
	}
	s.logger().Info("Close: booking wizard closed", zap.String("sessionID", sessionID))
	return nil
}
