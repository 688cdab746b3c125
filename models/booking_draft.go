package models

import (
	"errors"
	"fmt"
)

// ErrUnknownField is returned for a draft field name that does not exist.
var ErrUnknownField = errors.New("unknown draft field")

// Appointment modalities.
const (
	ModalityInPerson = "yuz_yuze"
	ModalityOnline   = "online"
)

// Draft field names accepted by BookingDraft.Set.
const (
	FieldService   = "service"
	FieldExpert    = "expert"
	FieldDate      = "date"
	FieldTime      = "time"
	FieldType      = "type"
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldNote      = "note"
)

// BookingDraft is the form state collected across the wizard steps.
// Every field is a string; the empty string means unset.
type BookingDraft struct {
	Service   string `json:"service"`
	Expert    string `json:"expert"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Type      string `json:"type"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Note      string `json:"note"`
}

// NewBookingDraft returns the initial draft, seeded with any pre-selection.
func NewBookingDraft(expert, service string) BookingDraft {
	return BookingDraft{
		Service: service,
		Expert:  expert,
		Type:    ModalityInPerson,
	}
}

func (d *BookingDraft) field(name string) (*string, error) {
	switch name {
	case FieldService:
		return &d.Service, nil
	case FieldExpert:
		return &d.Expert, nil
	case FieldDate:
		return &d.Date, nil
	case FieldTime:
		return &d.Time, nil
	case FieldType:
		return &d.Type, nil
	case FieldFirstName:
		return &d.FirstName, nil
	case FieldLastName:
		return &d.LastName, nil
	case FieldEmail:
		return &d.Email, nil
	case FieldPhone:
		return &d.Phone, nil
	case FieldNote:
		return &d.Note, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownField, name)
}

// Set writes one field. No validation happens here.
func (d *BookingDraft) Set(name, value string) error {
	f, err := d.field(name)
	if err != nil {
		return err
	}
	*f = value
	return nil
}

// Get reads one field by name.
func (d BookingDraft) Get(name string) (string, error) {
	f, err := d.field(name)
	if err != nil {
		return "", err
	}
	return *f, nil
}
