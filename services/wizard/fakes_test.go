package wizard

import (
	"context"
	"sync"
	"time"

	"clinicbooking/models"
)

var trt = time.FixedZone("TRT", 3*60*60)

// 2024-03-10 01:30 local is still the 9th in UTC.
func fixedNow() time.Time {
	return time.Date(2024, time.March, 10, 1, 30, 0, 0, trt)
}

var testSlots = []string{"09:00", "10:00", "11:00", "14:00"}

type fakeCatalog struct {
	experts  []models.Expert
	services []models.Service
	err      error
}

func (f *fakeCatalog) Experts(ctx context.Context) ([]models.Expert, error) {
	return f.experts, f.err
}

func (f *fakeCatalog) Services(ctx context.Context) ([]models.Service, error) {
	return f.services, f.err
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		experts: []models.Expert{
			{ID: "exp-001", Slug: "dr-ayse-demir", Name: "Dr. Ayşe Demir", Title: "Klinik Psikolog",
				Specialties: []string{"BDT", "Kaygı", "Depresyon", "Travma"}},
			{ID: "exp-002", Slug: "mehmet-kaya", Name: "Mehmet Kaya", Title: "Uzman Psikolog",
				Specialties: []string{"Çift Terapisi"}},
		},
		services: []models.Service{
			{ID: "svc-001", Slug: "bireysel-terapi", Name: "Bireysel Terapi"},
			{ID: "svc-002", Slug: "cift-terapisi", Name: "Çift Terapisi"},
		},
	}
}

// blockingSubmitter parks every call until release is closed.
type blockingSubmitter struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func newBlockingSubmitter() *blockingSubmitter {
	return &blockingSubmitter{started: make(chan struct{}, 8), release: make(chan struct{})}
}

func (f *blockingSubmitter) CreateBooking(ctx context.Context, in models.BookingInput) (*models.Booking, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	f.started <- struct{}{}
	<-f.release
	return &models.Booking{ID: "bk-late", ExpertID: in.ExpertID, Status: models.BookingStatusPending}, nil
}

func (f *blockingSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memoryBookingRepo stands in for MongoDB behind the real booking service.
type memoryBookingRepo struct {
	mu       sync.Mutex
	inserted []models.Booking
	err      error
}

func (r *memoryBookingRepo) Insert(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	stored := *b
	stored.ID = "bk-" + string(rune('0'+len(r.inserted)+1))
	r.inserted = append(r.inserted, stored)
	return &stored, nil
}

func (r *memoryBookingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inserted)
}

type recordingHost struct {
	closed []string
}

func (h *recordingHost) WizardClosed(ctx context.Context, sessionID string) error {
	h.closed = append(h.closed, sessionID)
	return nil
}
