package sessionRepo

import (
	"context"
	"testing"
	"time"

	"clinicbooking/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *redis.Client, SessionStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client, NewRedisSessionStore(client, 30*time.Minute, 10*time.Second)
}

func TestRedisSessionStore_SaveAndGet(t *testing.T) {
	_, _, store := newTestStore(t)
	ctx := context.Background()

	state := &models.WizardState{
		SessionID:         "sess-1",
		Open:              true,
		PreSelectedExpert: "dr-ayse-demir",
		Step:              models.StepExpertSelection,
		Draft:             models.NewBookingDraft("dr-ayse-demir", ""),
		AnchorYear:        2024,
		AnchorMonth:       time.March,
	}
	require.NoError(t, store.Save(ctx, state))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepExpertSelection, got.Step)
	assert.Equal(t, "dr-ayse-demir", got.Draft.Expert)
	assert.Equal(t, models.ModalityInPerson, got.Draft.Type)
	assert.Equal(t, time.March, got.AnchorMonth)
}

func TestRedisSessionStore_MissingAndExpired(t *testing.T) {
	mr, _, store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Save(ctx, &models.WizardState{SessionID: "short"}))
	mr.FastForward(31 * time.Minute)

	_, err = store.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionStore_Delete(t *testing.T) {
	_, _, store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &models.WizardState{SessionID: "gone"}))
	require.NoError(t, store.Delete(ctx, "gone"))

	_, err := store.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionStore_CompareAndSave(t *testing.T) {
	_, _, store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &models.WizardState{SessionID: "cas", Step: models.StepServiceSelection}))

	first, err := store.Get(ctx, "cas")
	require.NoError(t, err)
	stale, err := store.Get(ctx, "cas")
	require.NoError(t, err)

	first.Step = models.StepExpertSelection
	require.NoError(t, store.CompareAndSave(ctx, first))
	assert.Equal(t, uint64(1), first.Version)

	stale.Step = models.StepSuccess
	assert.ErrorIs(t, store.CompareAndSave(ctx, stale), ErrVersionConflict)

	got, err := store.Get(ctx, "cas")
	require.NoError(t, err)
	assert.Equal(t, models.StepExpertSelection, got.Step)
	assert.Equal(t, uint64(1), got.Version)

	require.NoError(t, store.Delete(ctx, "cas"))
	assert.ErrorIs(t, store.CompareAndSave(ctx, got), ErrSessionNotFound)
}

func TestRedisSessionStore_SubmitLock(t *testing.T) {
	mr, _, store := newTestStore(t)
	ctx := context.Background()

	token, ok, err := store.AcquireSubmitLock(ctx, "s")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, token)

	held, err := store.SubmitInFlight(ctx, "s")
	require.NoError(t, err)
	assert.True(t, held)

	_, ok, err = store.AcquireSubmitLock(ctx, "s")
	require.NoError(t, err)
	assert.False(t, ok, "second acquire must fail while the first holds the lock")

	require.NoError(t, store.ReleaseSubmitLock(ctx, "s", token))
	held, err = store.SubmitInFlight(ctx, "s")
	require.NoError(t, err)
	assert.False(t, held)

	_, ok, err = store.AcquireSubmitLock(ctx, "s")
	require.NoError(t, err)
	assert.True(t, ok)

	// A lock left behind by a crashed request expires on its own.
	mr.FastForward(11 * time.Second)
	_, ok, err = store.AcquireSubmitLock(ctx, "s")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisSessionStore_ReleaseKeepsLockOfNewerOwner(t *testing.T) {
	mr, _, store := newTestStore(t)
	ctx := context.Background()

	oldToken, ok, err := store.AcquireSubmitLock(ctx, "s")
	require.NoError(t, err)
	require.True(t, ok)

	// The first submission outlives its lock and a second one takes over.
	mr.FastForward(11 * time.Second)
	newToken, ok, err := store.AcquireSubmitLock(ctx, "s")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, oldToken, newToken)

	require.NoError(t, store.ReleaseSubmitLock(ctx, "s", oldToken))

	held, err := store.SubmitInFlight(ctx, "s")
	require.NoError(t, err)
	assert.True(t, held, "a stale owner must not release the current lock")

	require.NoError(t, store.ReleaseSubmitLock(ctx, "s", newToken))
	held, err = store.SubmitInFlight(ctx, "s")
	require.NoError(t, err)
	assert.False(t, held)
}

func TestRedisSessionStore_PublishClosed(t *testing.T) {
	_, client, store := newTestStore(t)
	ctx := context.Background()

	sub := client.Subscribe(ctx, ClosedChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, store.PublishClosed(ctx, "sess-9"))

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, ClosedChannel, msg.Channel)
		assert.Equal(t, "sess-9", msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("no close event received")
	}
}
