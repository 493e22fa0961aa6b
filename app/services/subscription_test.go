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
	"github.com/lidosole/lidosole/pkg/cache"
)

func TestSubscriptionInsertDefaultsToActive(t *testing.T) {
	subs := NewSubscriptionService(newTestDB(t), cache.Nop())
	ctx := context.Background()

	start := time.Now().Truncate(time.Second)
	created, err := subs.Insert(ctx, 1, requests.Subscription{
		Start: start, Finish: start.AddDate(0, 3, 0), Price: 450,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, created.Status)
	assert.Equal(t, uint(1), created.UserID)
}

func TestSubscriptionOwnerScoping(t *testing.T) {
	subs := NewSubscriptionService(newTestDB(t), cache.Nop())
	ctx := context.Background()

	start := time.Now().Truncate(time.Second)
	created, err := subs.Insert(ctx, 1, requests.Subscription{
		Start: start, Finish: start.AddDate(0, 3, 0), Price: 450,
	})
	require.NoError(t, err)

	_, err = subs.Get(ctx, 2, created.ID)
	assert.True(t, apperr.IsNotFound(err))

	_, err = subs.Get(ctx, 0, created.ID)
	assert.NoError(t, err)

	err = subs.Delete(ctx, 2, created.ID)
	assert.True(t, apperr.IsNotFound(err))

	require.NoError(t, subs.Delete(ctx, 1, created.ID))
	_, err = subs.Get(ctx, 1, created.ID)
	assert.True(t, apperr.IsNotFound(err))
}
