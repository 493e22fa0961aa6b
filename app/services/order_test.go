package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/app/requests"
	"github.com/lidosole/lidosole/pkg/apperr"
	"github.com/lidosole/lidosole/pkg/orm"
)

func confirmOrder(t *testing.T, db *gorm.DB, userID uint) uint {
	t.Helper()

	carts := NewCartService(db)
	cola := seedProduct(t, db, "Cola", nil, 2.50)
	_, err := carts.Save(context.Background(), userID, requests.SaveCartItem{ProductID: cola.ID, Quantity: 2})
	require.NoError(t, err)

	order, err := carts.Confirm(context.Background(), userID)
	require.NoError(t, err)
	return order.ID
}

func TestOrderOwnerScoping(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderService(db)
	ctx := context.Background()

	orderID := confirmOrder(t, db, 1)

	// The owner sees it; another user does not; staff (scope 0) does.
	_, err := orders.Get(ctx, 1, orderID)
	assert.NoError(t, err)

	_, err = orders.Get(ctx, 2, orderID)
	assert.True(t, apperr.IsNotFound(err))

	_, err = orders.Get(ctx, 0, orderID)
	assert.NoError(t, err)
}

func TestOrderUpdateStatusVersionConflict(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderService(db)
	ctx := context.Background()

	orderID := confirmOrder(t, db, 1)

	updated, err := orders.UpdateStatus(ctx, 1, orderID, models.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, updated.Status)

	// Simulate a stale writer by bumping the version underneath.
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("version", 99).Error)

	_, err = orders.UpdateStatus(ctx, 1, orderID, models.OrderStatusShipped)
	assert.True(t, apperr.IsConflict(err))
}

func TestOrderDeleteCascadesToDetails(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderService(db)
	ctx := context.Background()

	orderID := confirmOrder(t, db, 1)

	require.NoError(t, orders.Delete(ctx, 1, orderID))

	var detailCount int64
	db.Model(&models.OrderDetail{}).Count(&detailCount)
	assert.Zero(t, detailCount)

	err := orders.Delete(ctx, 1, orderID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestOrderExpireStale(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderService(db)
	ctx := context.Background()

	stale := models.Order{UserID: 1, Status: models.OrderStatusNew, Date: time.Now().Add(-40 * 24 * time.Hour)}
	fresh := models.Order{UserID: 1, Status: models.OrderStatusNew, Date: time.Now()}
	paid := models.Order{UserID: 1, Status: models.OrderStatusPaid, Date: time.Now().Add(-40 * 24 * time.Hour)}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Create(&fresh).Error)
	require.NoError(t, db.Create(&paid).Error)

	expired, err := orders.ExpireStale(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, expired)

	// Paid orders never expire; only the stale New order is gone.
	_, _, err = orders.GetList(ctx, 1, orm.PageRequest{})
	require.NoError(t, err)

	var visible int64
	db.Model(&models.Order{}).Count(&visible)
	assert.EqualValues(t, 2, visible)
}

func TestOrderPurgeHardDeletes(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderService(db)
	ctx := context.Background()

	orderID := confirmOrder(t, db, 1)
	require.NoError(t, orders.Delete(ctx, 1, orderID))

	// Backdate the soft delete beyond the retention window.
	past := time.Now().Add(-100 * 24 * time.Hour)
	require.NoError(t, db.Unscoped().Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("deleted_at", past).Error)

	purged, err := orders.Purge(ctx, 90*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	var total int64
	db.Unscoped().Model(&models.Order{}).Count(&total)
	assert.Zero(t, total)
}
