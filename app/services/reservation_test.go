package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/app/requests"
	"github.com/lidosole/lidosole/pkg/apperr"
)

// recordingFeed captures websocket broadcasts for assertions.
type recordingFeed struct {
	messages []interface{}
}

func (f *recordingFeed) BroadcastJSON(v interface{}) { f.messages = append(f.messages, v) }

func window(hours int) (time.Time, time.Time) {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	return start, start.Add(time.Duration(hours) * time.Hour)
}

func TestReservationInsertMarksUmbrellaBusy(t *testing.T) {
	db := newTestDB(t)
	feed := &recordingFeed{}
	reservations := NewReservationService(db, feed)
	ctx := context.Background()

	umbrella := seedUmbrella(t, db, "A", 1)
	start, end := window(2)

	res, err := reservations.Insert(ctx, 1, requests.Reservation{
		UmbrellaID: umbrella.ID, Start: start, End: end,
	})
	require.NoError(t, err)
	assert.Equal(t, umbrella.ID, res.UmbrellaID)

	var reloaded models.Umbrella
	require.NoError(t, db.First(&reloaded, umbrella.ID).Error)
	assert.True(t, reloaded.Busy)
	assert.Len(t, feed.messages, 1)
}

func TestReservationInsertBusyUmbrella(t *testing.T) {
	db := newTestDB(t)
	reservations := NewReservationService(db, nil)
	ctx := context.Background()

	umbrella := seedUmbrella(t, db, "A", 1)
	start, end := window(2)

	_, err := reservations.Insert(ctx, 1, requests.Reservation{
		UmbrellaID: umbrella.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	// Second booking for the same seat, different user and window.
	_, err = reservations.Insert(ctx, 2, requests.Reservation{
		UmbrellaID: umbrella.ID, Start: start.Add(time.Hour), End: end.Add(time.Hour),
	})
	assert.True(t, apperr.IsInvalid(err))

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestReservationInsertDuplicateWindow(t *testing.T) {
	db := newTestDB(t)
	reservations := NewReservationService(db, nil)
	ctx := context.Background()

	first := seedUmbrella(t, db, "A", 1)
	second := seedUmbrella(t, db, "A", 2)
	start, end := window(2)

	_, err := reservations.Insert(ctx, 1, requests.Reservation{
		UmbrellaID: first.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	// Same user, same exact window, even on a different free seat.
	_, err = reservations.Insert(ctx, 1, requests.Reservation{
		UmbrellaID: second.ID, Start: start, End: end,
	})
	assert.True(t, apperr.IsConflict(err))
}

func TestReservationInsertMissingUmbrella(t *testing.T) {
	db := newTestDB(t)
	reservations := NewReservationService(db, nil)
	start, end := window(2)

	_, err := reservations.Insert(context.Background(), 1, requests.Reservation{
		UmbrellaID: 999, Start: start, End: end,
	})
	assert.True(t, apperr.IsInvalid(err))
}

func TestReservationDeleteFreesUmbrella(t *testing.T) {
	db := newTestDB(t)
	reservations := NewReservationService(db, nil)
	ctx := context.Background()

	umbrella := seedUmbrella(t, db, "B", 3)
	start, end := window(2)

	res, err := reservations.Insert(ctx, 1, requests.Reservation{
		UmbrellaID: umbrella.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	require.NoError(t, reservations.Delete(ctx, 1, res.ID))

	var reloaded models.Umbrella
	require.NoError(t, db.First(&reloaded, umbrella.ID).Error)
	assert.False(t, reloaded.Busy)

	err = reservations.Delete(ctx, 1, res.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestReservationRebookAfterCancel(t *testing.T) {
	db := newTestDB(t)
	reservations := NewReservationService(db, nil)
	ctx := context.Background()

	umbrella := seedUmbrella(t, db, "A", 1)
	start, end := window(2)

	res, err := reservations.Insert(ctx, 1, requests.Reservation{
		UmbrellaID: umbrella.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	require.NoError(t, reservations.Delete(ctx, 1, res.ID))

	// Cancelling frees the window: the same user can book it again.
	rebooked, err := reservations.Insert(ctx, 1, requests.Reservation{
		UmbrellaID: umbrella.ID, Start: start, End: end,
	})
	require.NoError(t, err)
	assert.NotEqual(t, res.ID, rebooked.ID)

	var reloaded models.Umbrella
	require.NoError(t, db.First(&reloaded, umbrella.ID).Error)
	assert.True(t, reloaded.Busy)
}

func TestReservationUpdateDuplicateWindow(t *testing.T) {
	db := newTestDB(t)
	reservations := NewReservationService(db, nil)
	ctx := context.Background()

	first := seedUmbrella(t, db, "A", 1)
	second := seedUmbrella(t, db, "A", 2)
	start, end := window(2)

	_, err := reservations.Insert(ctx, 1, requests.Reservation{
		UmbrellaID: first.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	other, err := reservations.Insert(ctx, 1, requests.Reservation{
		UmbrellaID: second.ID, Start: start.Add(3 * time.Hour), End: end.Add(3 * time.Hour),
	})
	require.NoError(t, err)

	// Moving the second booking onto the first one's window conflicts.
	_, err = reservations.Update(ctx, 1, other.ID, requests.Reservation{
		UmbrellaID: second.ID, Start: start, End: end,
	})
	assert.True(t, apperr.IsConflict(err))

	// Keeping its own window untouched still updates fine.
	updated, err := reservations.Update(ctx, 1, other.ID, requests.Reservation{
		UmbrellaID: second.ID, Start: start.Add(3 * time.Hour), End: end.Add(3 * time.Hour),
		Notes: "front row",
	})
	require.NoError(t, err)
	assert.Equal(t, "front row", updated.Notes)
}

func TestReservationUpdateReleasesOldUmbrella(t *testing.T) {
	db := newTestDB(t)
	reservations := NewReservationService(db, nil)
	ctx := context.Background()

	old := seedUmbrella(t, db, "A", 1)
	next := seedUmbrella(t, db, "A", 2)
	start, end := window(2)

	res, err := reservations.Insert(ctx, 1, requests.Reservation{
		UmbrellaID: old.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	updated, err := reservations.Update(ctx, 1, res.ID, requests.Reservation{
		UmbrellaID: next.ID, Start: start, End: end,
	})
	require.NoError(t, err)
	assert.Equal(t, next.ID, updated.UmbrellaID)

	var oldReloaded, nextReloaded models.Umbrella
	require.NoError(t, db.First(&oldReloaded, old.ID).Error)
	require.NoError(t, db.First(&nextReloaded, next.ID).Error)
	assert.False(t, oldReloaded.Busy, "previous seat must be released")
	assert.True(t, nextReloaded.Busy)
}

func TestReservationUpdateRejectsBusyTarget(t *testing.T) {
	db := newTestDB(t)
	reservations := NewReservationService(db, nil)
	ctx := context.Background()

	mine := seedUmbrella(t, db, "A", 1)
	taken := seedUmbrella(t, db, "A", 2)
	start, end := window(2)

	res, err := reservations.Insert(ctx, 1, requests.Reservation{
		UmbrellaID: mine.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	_, err = reservations.Insert(ctx, 2, requests.Reservation{
		UmbrellaID: taken.ID, Start: start.Add(time.Hour), End: end.Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = reservations.Update(ctx, 1, res.ID, requests.Reservation{
		UmbrellaID: taken.ID, Start: start, End: end,
	})
	assert.True(t, apperr.IsInvalid(err))

	// My seat stays busy and my reservation stays put.
	var reloaded models.Umbrella
	require.NoError(t, db.First(&reloaded, mine.ID).Error)
	assert.True(t, reloaded.Busy)
}

func TestUmbrellaDeleteBusyRejected(t *testing.T) {
	db := newTestDB(t)
	umbrellas := NewUmbrellaService(db, nil)
	reservations := NewReservationService(db, nil)
	ctx := context.Background()

	umbrella := seedUmbrella(t, db, "C", 1)
	start, end := window(2)
	_, err := reservations.Insert(ctx, 1, requests.Reservation{
		UmbrellaID: umbrella.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	err = umbrellas.Delete(ctx, umbrella.ID)
	assert.True(t, apperr.IsInvalid(err))
}

func TestUmbrellaInsertDuplicatePosition(t *testing.T) {
	db := newTestDB(t)
	umbrellas := NewUmbrellaService(db, nil)
	ctx := context.Background()

	_, err := umbrellas.Insert(ctx, requests.Umbrella{Letter: "a", Number: 1})
	require.NoError(t, err)

	_, err = umbrellas.Insert(ctx, requests.Umbrella{Letter: "A", Number: 1})
	assert.True(t, apperr.IsConflict(err))
}
