// Package jobs registers the periodic housekeeping tasks.
package jobs

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/app/services"
	"github.com/lidosole/lidosole/config"
	"github.com/lidosole/lidosole/pkg/logger"
	"github.com/lidosole/lidosole/pkg/metrics"
	"github.com/lidosole/lidosole/pkg/schedule"
)

// Register wires the housekeeping tasks into the scheduler. Call once at
// boot, then schedule.Start.
func Register(db *gorm.DB) {
	orders := services.NewOrderService(db)

	schedule.Hourly().
		Name("orders.housekeeping").
		WithoutOverlapping().
		Run(func() { ordersHousekeeping(orders) })

	schedule.Every(30).Minutes().
		Name("carts.clamp").
		WithoutOverlapping().
		Run(func() { clampCarts(db) })
}

// ordersHousekeeping expires stale New orders and purges soft-deleted ones
// past their retention window.
func ordersHousekeeping(orders *services.OrderService) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	expiry := time.Duration(config.OrderExpiryDays()) * 24 * time.Hour
	expired, err := orders.ExpireStale(ctx, expiry)
	if err != nil {
		metrics.JobRuns.WithLabelValues("orders.housekeeping", "error").Inc()
		logger.Error("jobs: expire stale orders", "error", err)
		return
	}

	retention := time.Duration(config.OrderPurgeDays()) * 24 * time.Hour
	purged, err := orders.Purge(ctx, retention)
	if err != nil {
		metrics.JobRuns.WithLabelValues("orders.housekeeping", "error").Inc()
		logger.Error("jobs: purge orders", "error", err)
		return
	}

	metrics.JobRuns.WithLabelValues("orders.housekeeping", "ok").Inc()
	if expired > 0 || purged > 0 {
		logger.Info("jobs: orders housekeeping", "expired", expired, "purged", purged)
	}
}

// clampCarts re-applies the stock clamp to cart items whose product stock
// shrank since they were added.
func clampCarts(db *gorm.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var items []models.CartItem
	err := db.WithContext(ctx).
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("products.quantity IS NOT NULL AND cart_items.quantity > products.quantity").
		Where("products.deleted_at IS NULL").
		Find(&items).Error
	if err != nil {
		metrics.JobRuns.WithLabelValues("carts.clamp", "error").Inc()
		logger.Error("jobs: find over-stock cart items", "error", err)
		return
	}

	clamped := 0
	for _, item := range items {
		var product models.Product
		if err := db.WithContext(ctx).First(&product, item.ProductID).Error; err != nil {
			continue
		}
		if product.Quantity == nil || item.Quantity <= *product.Quantity {
			continue
		}
		err := db.WithContext(ctx).Model(&models.CartItem{}).
			Where("id = ?", item.ID).
			Update("quantity", *product.Quantity).Error
		if err != nil {
			logger.Error("jobs: clamp cart item", "item_id", item.ID, "error", err)
			continue
		}
		clamped++
	}

	metrics.JobRuns.WithLabelValues("carts.clamp", "ok").Inc()
	if clamped > 0 {
		logger.Info("jobs: clamped cart items", "count", clamped)
	}
}
