package booking

import (
	"context"

	bookingRepo "clinicbooking/database/repository/booking"
	"clinicbooking/models"

	"go.uber.org/zap"
)

// BookingService turns a completed wizard draft into a stored appointment request.
type BookingService interface {
	CreateBooking(ctx context.Context, input models.BookingInput) (*models.Booking, error)
}

// Notifier is told about every stored booking. Failures never undo the booking.
type Notifier interface {
	BookingCreated(ctx context.Context, booking *models.Booking) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	Notifier Notifier // optional
	Logger   *zap.Logger
}
