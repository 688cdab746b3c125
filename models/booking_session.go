package models

import "time"

// WizardStep is a position in the booking wizard.
type WizardStep int

const (
	StepServiceSelection WizardStep = iota
	StepExpertSelection
	StepDateTimeSelection
	StepPersonalInfo
	StepSuccess
)

var stepKeys = map[WizardStep]string{
	StepServiceSelection:  "service",
	StepExpertSelection:   "expert",
	StepDateTimeSelection: "datetime",
	StepPersonalInfo:      "personal",
	StepSuccess:           "success",
}

func (s WizardStep) String() string {
	if k, ok := stepKeys[s]; ok {
		return k
	}
	return "unknown"
}

// WizardState holds one booking wizard session between requests.
type WizardState struct {
	SessionID          string       `json:"sessionId"`
	Open               bool         `json:"open"`
	PreSelectedExpert  string       `json:"preSelectedExpert,omitempty"`
	PreSelectedService string       `json:"preSelectedService,omitempty"`
	Step               WizardStep   `json:"step"`
	Draft              BookingDraft `json:"draft"`
	AnchorYear         int          `json:"anchorYear"`  // calendar month on display, view only
	AnchorMonth        time.Month   `json:"anchorMonth"` // 1-12
	Booking            *Booking     `json:"booking,omitempty"`
	Version            uint64       `json:"version"` // bumped on every conditional write
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// ExpertPreSelected reports whether the host opened the wizard for a specific expert.
func (s WizardState) ExpertPreSelected() bool {
	return s.PreSelectedExpert != ""
}
