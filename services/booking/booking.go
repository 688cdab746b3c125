// File: services/booking/booking.go
package booking

import (
	"context"
	"strings"

	"clinicbooking/models"

	"go.uber.org/zap"
)

func missing(pairs ...string) []string {
	var out []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			out = append(out, pairs[i])
		}
	}
	return out
}

func validateBookingInput(in models.BookingInput) error {
	if f := missing("expert_id", in.ExpertID, "service_id", in.ServiceID); len(f) > 0 {
		return &ValidationError{Category: CategorySelection, Fields: f}
	}
	if f := missing("first_name", in.FirstName, "last_name", in.LastName, "email", in.Email, "phone", in.Phone); len(f) > 0 {
		return &ValidationError{Category: CategoryPersonalInfo, Fields: f}
	}
	if f := missing("date", in.Date, "time", in.Time); len(f) > 0 {
		return &ValidationError{Category: CategoryDateTime, Fields: f}
	}
	return nil
}

// normalize trims contact fields, lowercases the email and marks the booking pending.
func normalize(in models.BookingInput) *models.Booking {
	modality := strings.TrimSpace(in.Type)
	if modality == "" {
		modality = models.ModalityInPerson
	}
	return &models.Booking{
		ExpertID:  in.ExpertID,
		ServiceID: in.ServiceID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Date:      in.Date,
		Time:      in.Time,
		Type:      modality,
		Note:      strings.TrimSpace(in.Note),
		Status:    models.BookingStatusPending,
	}
}

// CreateBooking validates the input, normalizes it and performs a single insert.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, input models.BookingInput) (*models.Booking, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := validateBookingInput(input); err != nil {
		logger.Info("CreateBooking: rejected incomplete booking", zap.Error(err))
		return nil, err
	}

	record := normalize(input)
	created, err := s.Repo.Insert(ctx, record)
	if err != nil {
		logger.Error("CreateBooking: store rejected booking",
			zap.String("expertID", record.ExpertID),
			zap.String("date", record.Date),
			zap.Error(err))
		return nil, &StorageError{Err: err}
	}

	logger.Info("CreateBooking: booking created",
		zap.String("bookingID", created.ID),
		zap.String("expertID", created.ExpertID),
		zap.String("serviceID", created.ServiceID),
		zap.String("date", created.Date),
		zap.String("time", created.Time))

	if s.Notifier != nil {
		if err := s.Notifier.BookingCreated(ctx, created); err != nil {
			logger.Warn("CreateBooking: failed to queue booking notification", zap.String("bookingID", created.ID), zap.Error(err))
		}
	}
	return created, nil
}
