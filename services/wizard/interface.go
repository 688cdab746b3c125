package wizard

import (
	"context"

	"clinicbooking/models"
)

// Catalog is the read-only lookup the wizard resolves slugs against.
type Catalog interface {
	Experts(ctx context.Context) ([]models.Expert, error)
	Services(ctx context.Context) ([]models.Service, error)
}

// Submitter persists a finished booking.
type Submitter interface {
	CreateBooking(ctx context.Context, input models.BookingInput) (*models.Booking, error)
}

// HostNotifier is told when a wizard session ends.
type HostNotifier interface {
	WizardClosed(ctx context.Context, sessionID string) error
}

// OpenRequest mirrors the host embedding contract.
type OpenRequest struct {
	IsOpen             bool
	PreSelectedExpert  string
	PreSelectedService string
}

// WizardService drives persisted wizard sessions, one operation per call.
// Every method returns the view after the operation; on a domain error the
// view reflects the unchanged session when it could still be rendered.
type WizardService interface {
	Open(ctx context.Context, req OpenRequest) (*StepView, error)
	View(ctx context.Context, sessionID string) (*StepView, error)
	SelectField(ctx context.Context, sessionID, field, value string) (*StepView, error)
	Advance(ctx context.Context, sessionID string) (*StepView, error)
	Retreat(ctx context.Context, sessionID string) (*StepView, error)
	ShiftMonth(ctx context.Context, sessionID string, delta int) (*StepView, error)
	SelectDate(ctx context.Context, sessionID, date string) (*StepView, error)
	SelectTime(ctx context.Context, sessionID, slot string) (*StepView, error)
	Submit(ctx context.Context, sessionID string) (*StepView, error)
	Reset(ctx context.Context, sessionID string) (*StepView, error)
	Close(ctx context.Context, sessionID string) error
}
