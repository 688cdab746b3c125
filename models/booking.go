package models

import "time"

// Booking status values.
const (
	BookingStatusPending = "pending"
)

// Booking is an appointment request as persisted in the bookings collection.
type Booking struct {
	ID        string    `bson:"id" json:"id"`                 // Unique booking identifier (UUID)
	ExpertID  string    `bson:"expert_id" json:"expert_id"`   // Expert who was requested
	ServiceID string    `bson:"service_id" json:"service_id"` // Service that was requested
	FirstName string    `bson:"first_name" json:"first_name"`
	LastName  string    `bson:"last_name" json:"last_name"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone" json:"phone"`
	Date      string    `bson:"date" json:"date"` // Appointment day in "YYYY-MM-DD" format
	Time      string    `bson:"time" json:"time"` // Slot label, e.g. "10:00"
	Type      string    `bson:"type" json:"type"` // Modality: "yuz_yuze" or "online"
	Note      string    `bson:"note,omitempty" json:"note,omitempty"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// BookingInput is what the wizard hands to the booking service on submit.
type BookingInput struct {
	ExpertID  string `json:"expert_id"`
	ServiceID string `json:"service_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Type      string `json:"type"`
	Note      string `json:"note,omitempty"`
}
