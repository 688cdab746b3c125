package wizard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"clinicbooking/models"
)

// ErrFinalized is returned when the draft is edited after a successful submit.
var ErrFinalized = errors.New("booking has already been submitted")

// Dependencies are the collaborators of a Controller.
type Dependencies struct {
	Catalog   Catalog
	Submitter Submitter
	Host      HostNotifier // optional
	TimeSlots []string
	Now       func() time.Time
}

// Controller owns one booking wizard: the current step, the draft and the
// transition rules between steps. It does not check completeness on
// Advance; callers gate forward navigation with CanAdvance.
type Controller struct {
	mu    sync.Mutex
	deps  Dependencies
	state models.WizardState

	// generation changes on Open, Reset and Close so a submission that
	// finishes afterwards can tell its result is stale.
	generation uint64
	submitting bool
}

// NewController returns a closed controller. Call Open or Restore before use.
func NewController(deps Dependencies) *Controller {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Controller{deps: deps}
}

func (c *Controller) touch() {
	c.state.UpdatedAt = c.deps.Now()
}

func (c *Controller) resetLocked() {
	now := c.deps.Now()
	c.state.Draft = models.NewBookingDraft(c.state.PreSelectedExpert, c.state.PreSelectedService)
	c.state.Step = FirstStep(c.state.ExpertPreSelected())
	c.state.AnchorYear, c.state.AnchorMonth = now.Year(), now.Month()
	c.state.Booking = nil
	c.generation++
	c.touch()
}

// Open starts a fresh session with optional pre-selected expert and service slugs.
func (c *Controller) Open(sessionID, preSelectedExpert, preSelectedService string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = models.WizardState{
		SessionID:          sessionID,
		Open:               true,
		PreSelectedExpert:  preSelectedExpert,
		PreSelectedService: preSelectedService,
		CreatedAt:          c.deps.Now(),
	}
	c.resetLocked()
}

// Restore loads a previously persisted session.
func (c *Controller) Restore(state models.WizardState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	if state.Booking != nil {
		b := *state.Booking
		c.state.Booking = &b
	}
	if c.state.AnchorMonth == 0 {
		now := c.deps.Now()
		c.state.AnchorYear, c.state.AnchorMonth = now.Year(), now.Month()
	}
}

// State returns a copy of the current session state.
func (c *Controller) State() models.WizardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	if s.Booking != nil {
		b := *s.Booking
		s.Booking = &b
	}
	return s
}

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

func (c *Controller) editableLocked() error {
	if !c.state.Open {
		return ErrSessionClosed
	}
	if c.state.Step == models.StepSuccess {
		return ErrFinalized
	}
	return nil
}

// SelectField writes one draft field. Values are not validated.
func (c *Controller) SelectField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return err
	}
	if err := c.state.Draft.Set(field, value); err != nil {
		return err
	}
	c.touch()
	return nil
}

// SelectDate stores an ISO day in the draft. Days before today are ignored
// and reported with false.
func (c *Controller) SelectDate(iso string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return false, err
	}
	now := c.deps.Now()
	day, err := ParseDay(iso, now.Location())
	if err != nil {
		return false, err
	}
	if IsPastDay(day, now) {
		return false, nil
	}
	c.state.Draft.Date = FormatDay(day)
	c.touch()
	return true, nil
}

// SelectTime picks one of the offered slots. Picking the current slot again keeps it.
func (c *Controller) SelectTime(slot string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return err
	}
	if !slices.Contains(c.deps.TimeSlots, slot) {
		return fmt.Errorf("%w: %q", ErrUnknownTimeSlot, slot)
	}
	c.state.Draft.Time = slot
	c.touch()
	return nil
}

// ShiftMonth moves the calendar anchor. The selected date is left alone.
func (c *Controller) ShiftMonth(delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Open {
		return ErrSessionClosed
	}
	c.state.AnchorYear, c.state.AnchorMonth = ShiftMonth(c.state.AnchorYear, c.state.AnchorMonth, delta)
	c.touch()
	return nil
}

// CanAdvance evaluates the current step's completeness predicate.
func (c *Controller) CanAdvance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Step < models.StepPersonalInfo && StepComplete(c.state.Step, c.state.Draft)
}

// Advance moves to the next step up to PersonalInfo. Success is only reached
// through Submit. It reports whether the step changed.
func (c *Controller) Advance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Open || c.state.Step >= models.StepPersonalInfo {
		return false
	}
	c.state.Step++
	c.touch()
	return true
}

// Retreat moves back one step, never before the opening step and never out of Success.
func (c *Controller) Retreat() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Open || c.state.Step == models.StepSuccess {
		return false
	}
	if c.state.Step <= FirstStep(c.state.ExpertPreSelected()) {
		return false
	}
	c.state.Step--
	c.touch()
	return true
}

// Reset restores the opening draft and step.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Open {
		return ErrSessionClosed
	}
	c.resetLocked()
	return nil
}

// Close resets the session, marks it closed and notifies the host.
// Closing an already closed session is a no-op.
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.Open {
		c.mu.Unlock()
		return nil
	}
	c.resetLocked()
	c.state.Open = false
	id := c.state.SessionID
	c.mu.Unlock()

	if c.deps.Host == nil {
		return nil
	}
	if err := c.deps.Host.WizardClosed(ctx, id); err != nil {
		return fmt.Errorf("failed to notify host of closed session %s: %w", id, err)
	}
	return nil
}

// Submit resolves the selections, hands the draft to the Submitter and moves
// to Success. On any error the step and draft are left untouched. A result
// that arrives after Close is dropped with ErrSessionClosed, one that arrives
// after Reset with ErrSubmissionSuperseded.
func (c *Controller) Submit(ctx context.Context) (*models.Booking, error) {
	c.mu.Lock()
	switch {
	case !c.state.Open:
		c.mu.Unlock()
		return nil, ErrSessionClosed
	case c.state.Step != models.StepPersonalInfo:
		c.mu.Unlock()
		return nil, ErrNotOnPersonalInfo
	case c.submitting:
		c.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	c.submitting = true
	draft := c.state.Draft
	gen := c.generation
	c.mu.Unlock()

	booking, err := c.submit(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if gen != c.generation {
		if !c.state.Open {
			return nil, ErrSessionClosed
		}
		return nil, ErrSubmissionSuperseded
	}
	if err != nil {
		return nil, err
	}
	c.state.Step = models.StepSuccess
	c.state.Booking = booking
	c.touch()
	return booking, nil
}

func (c *Controller) submit(ctx context.Context, draft models.BookingDraft) (*models.Booking, error) {
	input := models.BookingInput{
		FirstName: draft.FirstName,
		LastName:  draft.LastName,
		Email:     draft.Email,
		Phone:     draft.Phone,
		Date:      draft.Date,
		Time:      draft.Time,
		Type:      draft.Type,
		Note:      draft.Note,
	}

	// Empty slugs fall through to the submitter, which names the missing selection.
	if draft.Expert != "" {
		experts, err := c.deps.Catalog.Experts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load experts: %w", err)
		}
		e := models.FindExpertBySlug(experts, draft.Expert)
		if e == nil {
			return nil, &LookupError{Selection: "expert", Slug: draft.Expert}
		}
		input.ExpertID = e.ID
	}
	if draft.Service != "" {
		services, err := c.deps.Catalog.Services(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load services: %w", err)
		}
		s := models.FindServiceBySlug(services, draft.Service)
		if s == nil {
			return nil, &LookupError{Selection: "service", Slug: draft.Service}
		}
		input.ServiceID = s.ID
	}

	return c.deps.Submitter.CreateBooking(ctx, input)
}

// Render builds the view for the current step, fetching only the catalog
// lists that step needs.
func (c *Controller) Render(ctx context.Context) (*StepView, error) {
	state := c.State()
	if !state.Open {
		return nil, ErrSessionClosed
	}
	expertPre := state.ExpertPreSelected()

	v := &StepView{
		SessionID:  state.SessionID,
		Step:       state.Step.String(),
		StepIndex:  int(state.Step),
		Progress:   Progress(state.Step, expertPre),
		Draft:      state.Draft,
		CanAdvance: state.Step < models.StepPersonalInfo && StepComplete(state.Step, state.Draft),
		CanRetreat: state.Step != models.StepSuccess && state.Step > FirstStep(expertPre),
		Missing:    MissingFields(state.Step, state.Draft),
	}

	switch state.Step {
	case models.StepServiceSelection:
		services, err := c.deps.Catalog.Services(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load services: %w", err)
		}
		v.Service = RenderServiceStep(services, state.Draft.Service)
	case models.StepExpertSelection:
		experts, err := c.deps.Catalog.Experts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load experts: %w", err)
		}
		v.Expert = RenderExpertStep(experts, state.Draft.Expert)
	case models.StepDateTimeSelection:
		v.DateTime = RenderDateTimeStep(state.AnchorYear, state.AnchorMonth, c.deps.Now(), state.Draft, c.deps.TimeSlots)
	case models.StepPersonalInfo:
		v.PersonalInfo = RenderPersonalInfoStep(state.Draft)
	case models.StepSuccess:
		var expert *models.Expert
		var service *models.Service
		if experts, err := c.deps.Catalog.Experts(ctx); err == nil {
			expert = models.FindExpertBySlug(experts, state.Draft.Expert)
		}
		if services, err := c.deps.Catalog.Services(ctx); err == nil {
			service = models.FindServiceBySlug(services, state.Draft.Service)
		}
		v.Success = RenderSuccessStep(state.Draft, expert, service, state.Booking)
	}
	return v, nil
}
