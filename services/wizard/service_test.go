package wizard

import (
	"context"
	"sync"
	"testing"
	"time"

	sessionRepo "clinicbooking/database/repository/session"
	"clinicbooking/models"
	"clinicbooking/services/booking"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	mr     *miniredis.Miniredis
	client *redis.Client
	store  sessionRepo.SessionStore
	svc    *DefaultWizardService
}

func newServiceFixture(t *testing.T, submitter Submitter) *serviceFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := sessionRepo.NewRedisSessionStore(client, 30*time.Minute, 10*time.Second)
	return &serviceFixture{
		mr:     mr,
		client: client,
		store:  store,
		svc: &DefaultWizardService{
			Sessions:  store,
			Catalog:   newFakeCatalog(),
			Submitter: submitter,
			TimeSlots: testSlots,
			Now:       fixedNow,
		},
	}
}

// walkToPersonalInfo opens a session and fills the scenario draft through the service.
func walkToPersonalInfo(t *testing.T, svc *DefaultWizardService) string {
	t.Helper()
	ctx := context.Background()
	view, err := svc.Open(ctx, OpenRequest{IsOpen: true})
	require.NoError(t, err)
	id := view.SessionID

	for k, v := range scenarioFields() {
		_, err := svc.SelectField(ctx, id, k, v)
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		_, err := svc.Advance(ctx, id)
		require.NoError(t, err)
	}
	view, err = svc.View(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "personal", view.Step)
	return id
}

func TestWizardService_OpenClosedRendersNothing(t *testing.T) {
	f := newServiceFixture(t, &booking.DefaultBookingService{Repo: &memoryBookingRepo{}})

	view, err := f.svc.Open(context.Background(), OpenRequest{IsOpen: false})
	require.NoError(t, err)
	assert.Nil(t, view)
	assert.Empty(t, f.mr.Keys())
}

func TestWizardService_OpenPersistsSession(t *testing.T) {
	f := newServiceFixture(t, &booking.DefaultBookingService{Repo: &memoryBookingRepo{}})
	ctx := context.Background()

	view, err := f.svc.Open(ctx, OpenRequest{IsOpen: true, PreSelectedExpert: "mehmet-kaya"})
	require.NoError(t, err)
	require.NotEmpty(t, view.SessionID)
	assert.Equal(t, "expert", view.Step)
	require.NotNil(t, view.Expert)

	st, err := f.store.Get(ctx, view.SessionID)
	require.NoError(t, err)
	assert.True(t, st.Open)
	assert.Equal(t, "mehmet-kaya", st.Draft.Expert)
	assert.Equal(t, models.ModalityInPerson, st.Draft.Type)
}

func TestWizardService_AdvanceIsGated(t *testing.T) {
	f := newServiceFixture(t, &booking.DefaultBookingService{Repo: &memoryBookingRepo{}})
	ctx := context.Background()
	view, err := f.svc.Open(ctx, OpenRequest{IsOpen: true})
	require.NoError(t, err)
	id := view.SessionID

	_, err = f.svc.SelectField(ctx, id, models.FieldService, "bireysel-terapi")
	require.NoError(t, err)

	view, err = f.svc.Advance(ctx, id)
	var incomplete *IncompleteStepError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{models.FieldExpert}, incomplete.Missing)
	require.NotNil(t, view)
	assert.Equal(t, "service", view.Step)
	assert.Equal(t, "bireysel-terapi", view.Draft.Service)

	_, err = f.svc.SelectField(ctx, id, models.FieldExpert, "dr-ayse-demir")
	require.NoError(t, err)
	view, err = f.svc.Advance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "expert", view.Step)

	view, err = f.svc.Retreat(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "service", view.Step)
}

func TestWizardService_UnknownSession(t *testing.T) {
	f := newServiceFixture(t, &booking.DefaultBookingService{Repo: &memoryBookingRepo{}})

	_, err := f.svc.View(context.Background(), "missing")
	assert.ErrorIs(t, err, sessionRepo.ErrSessionNotFound)
	assert.NoError(t, f.svc.Close(context.Background(), "missing"))
}

func TestWizardService_SessionExpires(t *testing.T) {
	f := newServiceFixture(t, &booking.DefaultBookingService{Repo: &memoryBookingRepo{}})
	ctx := context.Background()
	view, err := f.svc.Open(ctx, OpenRequest{IsOpen: true})
	require.NoError(t, err)

	f.mr.FastForward(31 * time.Minute)
	_, err = f.svc.View(ctx, view.SessionID)
	assert.ErrorIs(t, err, sessionRepo.ErrSessionNotFound)
}

func TestWizardService_CalendarOperations(t *testing.T) {
	f := newServiceFixture(t, &booking.DefaultBookingService{Repo: &memoryBookingRepo{}})
	ctx := context.Background()
	view, err := f.svc.Open(ctx, OpenRequest{IsOpen: true, PreSelectedExpert: "dr-ayse-demir"})
	require.NoError(t, err)
	id := view.SessionID
	_, err = f.svc.Advance(ctx, id)
	require.NoError(t, err)

	view, err = f.svc.SelectDate(ctx, id, "2024-03-08")
	require.NoError(t, err)
	assert.Empty(t, view.Draft.Date)

	view, err = f.svc.SelectDate(ctx, id, "2024-03-21")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-21", view.Draft.Date)

	view, err = f.svc.ShiftMonth(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, time.April, view.DateTime.Calendar.Month)
	assert.Equal(t, "2024-03-21", view.Draft.Date)

	_, err = f.svc.SelectTime(ctx, id, "12:30")
	assert.ErrorIs(t, err, ErrUnknownTimeSlot)
	view, err = f.svc.SelectTime(ctx, id, "11:00")
	require.NoError(t, err)
	assert.Equal(t, "11:00", view.Draft.Time)
	assert.True(t, view.CanAdvance)
}

func TestWizardService_SubmitScenario(t *testing.T) {
	repo := &memoryBookingRepo{}
	f := newServiceFixture(t, &booking.DefaultBookingService{Repo: repo})
	ctx := context.Background()
	id := walkToPersonalInfo(t, f.svc)

	view, err := f.svc.Submit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "success", view.Step)
	require.NotNil(t, view.Success)
	assert.Equal(t, "bk-1", view.Success.BookingID)
	assert.Equal(t, []string{"close"}, view.Success.Actions)

	require.Equal(t, 1, repo.count())
	assert.Equal(t, "ali@x.com", repo.inserted[0].Email)

	st, err := f.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StepSuccess, st.Step)
	require.NotNil(t, st.Booking)

	// Lock is released after the submission.
	inFlight, err := f.store.SubmitInFlight(ctx, id)
	require.NoError(t, err)
	assert.False(t, inFlight)
}

func TestWizardService_SubmitValidationKeepsSession(t *testing.T) {
	repo := &memoryBookingRepo{}
	f := newServiceFixture(t, &booking.DefaultBookingService{Repo: repo})
	ctx := context.Background()
	id := walkToPersonalInfo(t, f.svc)
	_, err := f.svc.SelectField(ctx, id, models.FieldEmail, "")
	require.NoError(t, err)

	view, err := f.svc.Submit(ctx, id)
	var vErr *booking.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, booking.CategoryPersonalInfo, vErr.Category)
	require.NotNil(t, view)
	assert.Equal(t, "personal", view.Step)
	assert.Equal(t, "Ali", view.Draft.FirstName)
	assert.Equal(t, 0, repo.count())
}

func TestWizardService_SubmitRejectedWhileLockHeld(t *testing.T) {
	repo := &memoryBookingRepo{}
	f := newServiceFixture(t, &booking.DefaultBookingService{Repo: repo})
	ctx := context.Background()
	id := walkToPersonalInfo(t, f.svc)

	_, acquired, err := f.store.AcquireSubmitLock(ctx, id)
	require.NoError(t, err)
	require.True(t, acquired)

	view, err := f.svc.Submit(ctx, id)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	require.NotNil(t, view)
	assert.Equal(t, "personal", view.Step)
	assert.Equal(t, 0, repo.count())
}

func TestWizardService_ConcurrentSubmitsCreateOneBooking(t *testing.T) {
	sub := newBlockingSubmitter()
	f := newServiceFixture(t, sub)
	ctx := context.Background()
	id := walkToPersonalInfo(t, f.svc)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(ctx, id)
		done <- err
	}()
	<-sub.started

	_, err := f.svc.Submit(ctx, id)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(sub.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, sub.callCount())
}

func TestWizardService_CloseDuringSubmitDiscardsResult(t *testing.T) {
	sub := newBlockingSubmitter()
	f := newServiceFixture(t, sub)
	ctx := context.Background()
	id := walkToPersonalInfo(t, f.svc)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(ctx, id)
		done <- err
	}()
	<-sub.started

	require.NoError(t, f.svc.Close(ctx, id))
	close(sub.release)

	assert.ErrorIs(t, <-done, ErrSessionClosed)
	_, err := f.store.Get(ctx, id)
	assert.ErrorIs(t, err, sessionRepo.ErrSessionNotFound, "a late result must not revive the session")
}

// pausingStore holds the first AcquireSubmitLock call until the test lets it go.
type pausingStore struct {
	sessionRepo.SessionStore
	once   sync.Once
	paused chan struct{}
	resume chan struct{}
}

func newPausingStore(inner sessionRepo.SessionStore) *pausingStore {
	return &pausingStore{SessionStore: inner, paused: make(chan struct{}), resume: make(chan struct{})}
}

func (p *pausingStore) AcquireSubmitLock(ctx context.Context, sessionID string) (string, bool, error) {
	first := false
	p.once.Do(func() { first = true })
	if first {
		close(p.paused)
		<-p.resume
	}
	return p.SessionStore.AcquireSubmitLock(ctx, sessionID)
}

func TestWizardService_SubmitAfterCompletedSubmitCreatesNoBooking(t *testing.T) {
	repo := &memoryBookingRepo{}
	f := newServiceFixture(t, &booking.DefaultBookingService{Repo: repo})
	ctx := context.Background()
	id := walkToPersonalInfo(t, f.svc)

	store := newPausingStore(f.store)
	f.svc.Sessions = store

	type result struct {
		view *StepView
		err  error
	}
	done := make(chan result, 1)
	go func() {
		view, err := f.svc.Submit(ctx, id)
		done <- result{view, err}
	}()
	<-store.paused

	view, err := f.svc.Submit(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "success", view.Step)

	close(store.resume)
	late := <-done
	assert.ErrorIs(t, late.err, ErrNotOnPersonalInfo)
	require.NotNil(t, late.view)
	assert.Equal(t, "success", late.view.Step)

	assert.Equal(t, 1, repo.count())
	st, err := f.store.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, st.Booking)
	assert.Equal(t, "bk-1", st.Booking.ID)
}

func TestWizardService_EditsRejectedDuringSubmit(t *testing.T) {
	sub := newBlockingSubmitter()
	f := newServiceFixture(t, sub)
	ctx := context.Background()
	id := walkToPersonalInfo(t, f.svc)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(ctx, id)
		done <- err
	}()
	<-sub.started

	view, err := f.svc.Reset(ctx, id)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	require.NotNil(t, view)
	assert.Equal(t, "personal", view.Step)

	_, err = f.svc.SelectField(ctx, id, models.FieldEmail, "other@x.com")
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(sub.release)
	require.NoError(t, <-done)

	st, err := f.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StepSuccess, st.Step)
	assert.Equal(t, "ALI@X.com", st.Draft.Email)

	// Once the lock is gone, edits go through again.
	view, err = f.svc.Reset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "service", view.Step)
}

func TestWizardService_SubmitDiscardedWhenSessionRewritten(t *testing.T) {
	sub := newBlockingSubmitter()
	f := newServiceFixture(t, sub)
	ctx := context.Background()
	id := walkToPersonalInfo(t, f.svc)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(ctx, id)
		done <- err
	}()
	<-sub.started

	// A writer that does not go through the submit lock resets the session.
	st, err := f.store.Get(ctx, id)
	require.NoError(t, err)
	st.Step = models.StepServiceSelection
	st.Draft = models.NewBookingDraft("", "")
	require.NoError(t, f.store.CompareAndSave(ctx, st))

	close(sub.release)
	assert.ErrorIs(t, <-done, ErrSubmissionSuperseded)

	st, err = f.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StepServiceSelection, st.Step)
	assert.Nil(t, st.Booking)
	assert.Empty(t, st.Draft.Service)
}

func TestWizardService_StaleEditIsRejected(t *testing.T) {
	f := newServiceFixture(t, &booking.DefaultBookingService{Repo: &memoryBookingRepo{}})
	ctx := context.Background()
	id := walkToPersonalInfo(t, f.svc)

	stale, err := f.store.Get(ctx, id)
	require.NoError(t, err)

	_, err = f.svc.Reset(ctx, id)
	require.NoError(t, err)

	stale.Step = models.StepSuccess
	assert.ErrorIs(t, f.store.CompareAndSave(ctx, stale), sessionRepo.ErrVersionConflict)

	st, err := f.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StepServiceSelection, st.Step)
}

func TestWizardService_ClosePublishesEvent(t *testing.T) {
	f := newServiceFixture(t, &booking.DefaultBookingService{Repo: &memoryBookingRepo{}})
	ctx := context.Background()
	view, err := f.svc.Open(ctx, OpenRequest{IsOpen: true})
	require.NoError(t, err)

	pubsub := f.client.Subscribe(ctx, sessionRepo.ClosedChannel)
	t.Cleanup(func() { _ = pubsub.Close() })
	_, err = pubsub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, f.svc.Close(ctx, view.SessionID))

	select {
	case msg := <-pubsub.Channel():
		assert.Equal(t, view.SessionID, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("no close event published")
	}

	_, err = f.svc.View(ctx, view.SessionID)
	assert.ErrorIs(t, err, sessionRepo.ErrSessionNotFound)
}

func TestWizardService_ResetRestoresPreSelection(t *testing.T) {
	f := newServiceFixture(t, &booking.DefaultBookingService{Repo: &memoryBookingRepo{}})
	ctx := context.Background()
	view, err := f.svc.Open(ctx, OpenRequest{IsOpen: true, PreSelectedExpert: "dr-ayse-demir", PreSelectedService: "bireysel-terapi"})
	require.NoError(t, err)
	id := view.SessionID

	_, err = f.svc.SelectField(ctx, id, models.FieldExpert, "mehmet-kaya")
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, id)
	require.NoError(t, err)

	view, err = f.svc.Reset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "expert", view.Step)
	assert.Equal(t, models.NewBookingDraft("dr-ayse-demir", "bireysel-terapi"), view.Draft)
}
