package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/app/responses"
	"github.com/lidosole/lidosole/pkg/apperr"
	"github.com/lidosole/lidosole/pkg/orm"
)

// orderSortKeys is the closed list of orderBy values accepted on order lists.
var orderSortKeys = map[string]string{
	"id":     "id",
	"date":   "date",
	"status": "status",
}

// OrderService reads and maintains orders created from confirmed carts.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// GetList pages through the orders owned by userID. Admins pass userID 0 to
// list across all users.
func (s *OrderService) GetList(ctx context.Context, userID uint, req orm.PageRequest) ([]responses.Order, orm.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&models.Order{}).Preload("Details")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}

	orders, page, err := orm.Page[models.Order](q, req, orderSortKeys)
	if err != nil {
		return nil, page, err
	}
	return responses.NewOrderList(orders), page, nil
}

// Get returns one order, scoped to its owner unless userID is 0.
func (s *OrderService) Get(ctx context.Context, userID uint, id uint) (responses.Order, error) {
	order, err := s.load(ctx, userID, id)
	if err != nil {
		return responses.Order{}, err
	}
	return responses.NewOrder(order), nil
}

// UpdateStatus moves an order to a new status under the version guard; a
// concurrent update of the same row surfaces as Conflict.
func (s *OrderService) UpdateStatus(ctx context.Context, userID uint, id uint, status string) (responses.Order, error) {
	order, err := s.load(ctx, userID, id)
	if err != nil {
		return responses.Order{}, err
	}

	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]interface{}{
			"status":  status,
			"version": order.Version + 1,
		})
	if res.Error != nil {
		return responses.Order{}, res.Error
	}
	if res.RowsAffected == 0 {
		return responses.Order{}, apperr.Conflictf("order %d was modified concurrently", id)
	}

	order.Status = status
	order.Version++
	return responses.NewOrder(order), nil
}

// Delete soft-deletes an order together with its details.
func (s *OrderService) Delete(ctx context.Context, userID uint, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("id = ?", id)
		if userID != 0 {
			q = q.Where("user_id = ?", userID)
		}
		res := q.Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFoundf("order %d not found", id)
		}
		return tx.Where("order_id = ?", id).Delete(&models.OrderDetail{}).Error
	})
}

// ExpireStale soft-deletes orders still in status new after cutoff days.
// Returns the number of expired orders.
func (s *OrderService) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	var expired int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Order{}).
			Where("status = ? AND date < ?", models.OrderStatusNew, cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("order_id IN ?", ids).Delete(&models.OrderDetail{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Order{})
		expired = res.RowsAffected
		return res.Error
	})
	return expired, err
}

// Purge hard-deletes orders soft-deleted before cutoff, details included.
func (s *OrderService) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	var purged int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Unscoped().Model(&models.Order{}).
			Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Unscoped().Where("order_id IN ?", ids).
			Delete(&models.OrderDetail{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Where("id IN ?", ids).Delete(&models.Order{})
		purged = res.RowsAffected
		return res.Error
	})
	return purged, err
}

func (s *OrderService) load(ctx context.Context, userID uint, id uint) (models.Order, error) {
	var order models.Order
	q := s.db.WithContext(ctx).Preload("Details")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order, apperr.NotFoundf("order %d not found", id)
		}
		return order, err
	}
	return order, nil
}
