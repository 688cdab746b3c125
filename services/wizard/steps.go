package wizard

import (
	"strings"

	"clinicbooking/models"
)

var stepLabels = map[models.WizardStep]string{
	models.StepServiceSelection:  "Hizmet Seçimi",
	models.StepExpertSelection:   "Uzman Seçimi",
	models.StepDateTimeSelection: "Tarih ve Saat",
	models.StepPersonalInfo:      "Kişisel Bilgiler",
	models.StepSuccess:           "Onay",
}

// FirstStep is the opening step: ExpertSelection when an expert was
// pre-selected by the host, ServiceSelection otherwise.
func FirstStep(expertPreSelected bool) models.WizardStep {
	if expertPreSelected {
		return models.StepExpertSelection
	}
	return models.StepServiceSelection
}

// requiredFields lists the draft fields each step needs before moving on.
//
// ServiceSelection asks for the expert as well even though its screen only
// picks a service. Kept as observed in the live site; see DESIGN.md.
func requiredFields(step models.WizardStep) []string {
	switch step {
	case models.StepServiceSelection:
		return []string{models.FieldService, models.FieldExpert}
	case models.StepExpertSelection:
		return []string{models.FieldExpert}
	case models.StepDateTimeSelection:
		return []string{models.FieldDate, models.FieldTime}
	case models.StepPersonalInfo:
		return []string{models.FieldFirstName, models.FieldLastName, models.FieldEmail, models.FieldPhone}
	}
	return nil
}

// MissingFields returns the required fields of step that are still empty or
// blank, matching how submission trims them.
func MissingFields(step models.WizardStep, draft models.BookingDraft) []string {
	var out []string
	for _, f := range requiredFields(step) {
		if v, _ := draft.Get(f); strings.TrimSpace(v) == "" {
			out = append(out, f)
		}
	}
	return out
}

// StepComplete is the completeness predicate that gates forward navigation.
func StepComplete(step models.WizardStep, draft models.BookingDraft) bool {
	return len(MissingFields(step, draft)) == 0
}

// Progress item states.
const (
	ProgressDone     = "done"
	ProgressCurrent  = "current"
	ProgressUpcoming = "upcoming"
)

// ProgressItem is one entry of the step indicator.
type ProgressItem struct {
	Number int    `json:"number"`
	Key    string `json:"key"`
	Label  string `json:"label"`
	State  string `json:"state"`
}

// Progress derives the step indicator from the current step. With an expert
// pre-selected the service step is hidden but the remaining steps keep their
// full-flow numbers, so the indicator starts at 2.
func Progress(current models.WizardStep, expertPreSelected bool) []ProgressItem {
	first := FirstStep(expertPreSelected)
	items := make([]ProgressItem, 0, int(models.StepSuccess))
	for step := first; step < models.StepSuccess; step++ {
		state := ProgressUpcoming
		switch {
		case step < current:
			state = ProgressDone
		case step == current:
			state = ProgressCurrent
		}
		items = append(items, ProgressItem{
			Number: int(step) + 1,
			Key:    step.String(),
			Label:  stepLabels[step],
			State:  state,
		})
	}
	return items
}
