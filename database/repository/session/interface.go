package sessionRepo

import (
	"context"
	"errors"

	"clinicbooking/models"
)

// ErrSessionNotFound is returned when a wizard session does not exist or has expired.
var ErrSessionNotFound = errors.New("booking wizard session not found or expired")

// ErrVersionConflict is returned by CompareAndSave when another request wrote
// the session after it was loaded.
var ErrVersionConflict = errors.New("booking wizard session was changed by another request")

// SessionStore persists booking wizard sessions between requests.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.WizardState, error)
	// Save writes the state unconditionally and refreshes its TTL.
	Save(ctx context.Context, state *models.WizardState) error
	// CompareAndSave writes the state only while the stored version still equals
	// state.Version, then bumps state.Version to the written version.
	CompareAndSave(ctx context.Context, state *models.WizardState) error
	Delete(ctx context.Context, sessionID string) error
	// AcquireSubmitLock returns the owner token, or ok=false when another
	// submission holds the lock.
	AcquireSubmitLock(ctx context.Context, sessionID string) (token string, ok bool, err error)
	// ReleaseSubmitLock removes the lock only if it is still owned by token.
	ReleaseSubmitLock(ctx context.Context, sessionID, token string) error
	SubmitInFlight(ctx context.Context, sessionID string) (bool, error)
	// PublishClosed announces that the host closed the session.
	PublishClosed(ctx context.Context, sessionID string) error
}
