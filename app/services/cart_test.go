package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/app/requests"
	"github.com/lidosole/lidosole/pkg/apperr"
)

func TestCartSaveClampsQuantityToStock(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	ctx := context.Background()

	ten := 10
	cola := seedProduct(t, db, "Cola", &ten, 2.50)

	cart, err := carts.Save(ctx, 1, requests.SaveCartItem{ProductID: cola.ID, Quantity: 15})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 10, cart.Items[0].Quantity)
	assert.Equal(t, 2.50, cart.Items[0].Price)
}

func TestCartSaveUnlimitedStockKeepsQuantity(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	ctx := context.Background()

	spremuta := seedProduct(t, db, "Spremuta", nil, 4.00)

	cart, err := carts.Save(ctx, 1, requests.SaveCartItem{ProductID: spremuta.ID, Quantity: 50})
	require.NoError(t, err)
	assert.Equal(t, 50, cart.Items[0].Quantity)
}

func TestCartSaveMissingProduct(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)

	_, err := carts.Save(context.Background(), 1, requests.SaveCartItem{ProductID: 999, Quantity: 1})
	assert.True(t, apperr.IsInvalid(err))
}

func TestCartConfirmEmptyCart(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Cart{UserID: 1}).Error)

	_, err := carts.Confirm(ctx, 1)
	assert.True(t, apperr.IsInvalid(err))

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)
}

func TestCartConfirmNoCart(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)

	_, err := carts.Confirm(context.Background(), 42)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCartConfirmCreatesOrderAndClearsCart(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	ctx := context.Background()

	ten := 10
	cola := seedProduct(t, db, "Cola", &ten, 2.50)
	_, err := carts.Save(ctx, 1, requests.SaveCartItem{ProductID: cola.ID, Quantity: 3, Notes: "cold"})
	require.NoError(t, err)

	order, err := carts.Confirm(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusNew, order.Status)
	assert.Equal(t, uint(1), order.UserID)
	require.Len(t, order.Details, 1)
	assert.Equal(t, cola.ID, order.Details[0].ProductID)
	assert.Equal(t, 3, order.Details[0].Quantity)
	assert.Equal(t, 2.50, order.Details[0].Price)
	assert.Equal(t, "cold", order.Details[0].Notes)

	// The cart survives but is empty, so confirming again is rejected.
	cart, err := carts.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = carts.Confirm(ctx, 1)
	assert.True(t, apperr.IsInvalid(err))
}

func TestCartRemoveItem(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	ctx := context.Background()

	cola := seedProduct(t, db, "Cola", nil, 2.50)
	cart, err := carts.Save(ctx, 1, requests.SaveCartItem{ProductID: cola.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, carts.RemoveItem(ctx, 1, cart.Items[0].ID))

	err = carts.RemoveItem(ctx, 1, cart.Items[0].ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCartDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	ctx := context.Background()

	cola := seedProduct(t, db, "Cola", nil, 2.50)
	_, err := carts.Save(ctx, 1, requests.SaveCartItem{ProductID: cola.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, carts.Delete(ctx, 1))

	var itemCount int64
	db.Model(&models.CartItem{}).Count(&itemCount)
	assert.Zero(t, itemCount)

	_, err = carts.Get(ctx, 1)
	assert.True(t, apperr.IsNotFound(err))
}
