package wizard

import (
	"strings"
	"time"

	"clinicbooking/models"
)

// maxSpecialties is how many specialties an expert card shows before the ellipsis.
const maxSpecialties = 3

const ellipsis = "..."

var modalityLabels = map[string]string{
	models.ModalityInPerson: "Yüz Yüze",
	models.ModalityOnline:   "Online",
}

// StepView is everything a host needs to paint the current wizard screen.
// Exactly one of the step payloads is set.
type StepView struct {
	SessionID  string              `json:"sessionId"`
	Step       string              `json:"step"`
	StepIndex  int                 `json:"stepIndex"`
	Progress   []ProgressItem      `json:"progress"`
	Draft      models.BookingDraft `json:"draft"`
	CanAdvance bool                `json:"canAdvance"`
	CanRetreat bool                `json:"canRetreat"`
	Missing    []string            `json:"missing,omitempty"`

	Service      *ServiceStepView      `json:"service,omitempty"`
	Expert       *ExpertStepView       `json:"expert,omitempty"`
	DateTime     *DateTimeStepView     `json:"dateTime,omitempty"`
	PersonalInfo *PersonalInfoStepView `json:"personalInfo,omitempty"`
	Success      *SuccessStepView      `json:"success,omitempty"`
}

type ServiceOption struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	Selected    bool   `json:"selected"`
}

type ServiceStepView struct {
	Options []ServiceOption `json:"options"`
}

// RenderServiceStep lists services for single selection by slug.
func RenderServiceStep(services []models.Service, selected string) *ServiceStepView {
	opts := make([]ServiceOption, 0, len(services))
	for _, s := range services {
		opts = append(opts, ServiceOption{
			Slug:        s.Slug,
			Name:        s.Name,
			Description: s.Description,
			Icon:        s.Icon,
			Category:    s.Category,
			Selected:    s.Slug == selected,
		})
	}
	return &ServiceStepView{Options: opts}
}

type ExpertOption struct {
	Slug             string   `json:"slug"`
	Name             string   `json:"name"`
	Title            string   `json:"title"`
	Image            string   `json:"image"`
	Experience       int      `json:"experience"`
	Specialties      []string `json:"specialties"`
	MoreSpecialties  bool     `json:"moreSpecialties"`
	SpecialtySummary string   `json:"specialtySummary"`
	Selected         bool     `json:"selected"`
}

type ExpertStepView struct {
	Options []ExpertOption `json:"options"`
}

// SpecialtySummary keeps the first three specialties and appends an ellipsis
// marker when more exist.
func SpecialtySummary(specialties []string) ([]string, bool, string) {
	shown := specialties
	more := len(specialties) > maxSpecialties
	if more {
		shown = specialties[:maxSpecialties]
	}
	summary := strings.Join(shown, ", ")
	if more {
		summary += ellipsis
	}
	return append([]string(nil), shown...), more, summary
}

// RenderExpertStep lists experts for single selection by slug.
func RenderExpertStep(experts []models.Expert, selected string) *ExpertStepView {
	opts := make([]ExpertOption, 0, len(experts))
	for _, e := range experts {
		shown, more, summary := SpecialtySummary(e.Specialties)
		opts = append(opts, ExpertOption{
			Slug:             e.Slug,
			Name:             e.Name,
			Title:            e.Title,
			Image:            e.Image,
			Experience:       e.Experience,
			Specialties:      shown,
			MoreSpecialties:  more,
			SpecialtySummary: summary,
			Selected:         e.Slug == selected,
		})
	}
	return &ExpertStepView{Options: opts}
}

type TimeSlotOption struct {
	Time     string `json:"time"`
	Selected bool   `json:"selected"`
}

type DateTimeStepView struct {
	Calendar Calendar         `json:"calendar"`
	Slots    []TimeSlotOption `json:"slots"`
}

// RenderDateTimeStep shows the anchor month and the flat slot list.
func RenderDateTimeStep(year int, month time.Month, now time.Time, draft models.BookingDraft, slots []string) *DateTimeStepView {
	opts := make([]TimeSlotOption, 0, len(slots))
	for _, s := range slots {
		opts = append(opts, TimeSlotOption{Time: s, Selected: s == draft.Time})
	}
	return &DateTimeStepView{
		Calendar: BuildCalendar(year, month, now, draft.Date),
		Slots:    opts,
	}
}

type ModalityOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type PersonalInfoStepView struct {
	FirstName  string           `json:"firstName"`
	LastName   string           `json:"lastName"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone"`
	Note       string           `json:"note"`
	Modalities []ModalityOption `json:"modalities"`
}

// RenderPersonalInfoStep echoes the contact fields and offers both modalities.
func RenderPersonalInfoStep(draft models.BookingDraft) *PersonalInfoStepView {
	return &PersonalInfoStepView{
		FirstName: draft.FirstName,
		LastName:  draft.LastName,
		Email:     draft.Email,
		Phone:     draft.Phone,
		Note:      draft.Note,
		Modalities: []ModalityOption{
			{Value: models.ModalityInPerson, Label: modalityLabels[models.ModalityInPerson], Selected: draft.Type == models.ModalityInPerson},
			{Value: models.ModalityOnline, Label: modalityLabels[models.ModalityOnline], Selected: draft.Type == models.ModalityOnline},
		},
	}
}

type SuccessStepView struct {
	BookingID   string   `json:"bookingId,omitempty"`
	ServiceName string   `json:"serviceName"`
	ExpertName  string   `json:"expertName"`
	ExpertTitle string   `json:"expertTitle"`
	Date        string   `json:"date"`
	DateLabel   string   `json:"dateLabel"`
	Time        string   `json:"time"`
	Modality    string   `json:"modality"`
	FullName    string   `json:"fullName"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Note        string   `json:"note,omitempty"`
	Actions     []string `json:"actions"`
}

// RenderSuccessStep summarizes the finalized draft. expert and service may be
// nil when the catalog entry disappeared after submission.
func RenderSuccessStep(draft models.BookingDraft, expert *models.Expert, service *models.Service, booking *models.Booking) *SuccessStepView {
	v := &SuccessStepView{
		ServiceName: draft.Service,
		ExpertName:  draft.Expert,
		Date:        draft.Date,
		DateLabel:   FormatDisplayDay(draft.Date),
		Time:        draft.Time,
		Modality:    modalityLabels[draft.Type],
		FullName:    strings.TrimSpace(draft.FirstName + " " + draft.LastName),
		Email:       draft.Email,
		Phone:       draft.Phone,
		Note:        draft.Note,
		Actions:     []string{"close"},
	}
	if expert != nil {
		v.ExpertName = expert.Name
		v.ExpertTitle = expert.Title
	}
	if service != nil {
		v.ServiceName = service.Name
	}
	if booking != nil {
		v.BookingID = booking.ID
		v.Email = booking.Email
	}
	return v
}
