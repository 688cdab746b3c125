// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"

	"clinicbooking/models"
)

// BookingRepository persists appointment requests.
type BookingRepository interface {
	// Insert stores the booking and returns the stored document, including its assigned ID.
	Insert(ctx context.Context, booking *models.Booking) (*models.Booking, error)
}
