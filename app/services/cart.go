// Package services holds the domain services. Each service receives its
// collaborators (gorm handle, cache, storage, websocket hub) at construction
// and exposes context-threaded methods returning wire models from
// app/responses. Domain failures come back as apperr values; anything else
// is an infrastructure error wrapped with %w.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/app/requests"
	"github.com/lidosole/lidosole/app/responses"
	"github.com/lidosole/lidosole/pkg/apperr"
	"github.com/lidosole/lidosole/pkg/metrics"
)

// CartService manages the one active cart per user.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// Get returns the user's cart with its items.
func (s *CartService) Get(ctx context.Context, userID uint) (responses.Cart, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return responses.Cart{}, err
	}
	return responses.NewCart(cart), nil
}

// Save adds a product to the user's cart, creating the cart on first use.
// The requested quantity is silently clamped to the product's stock when the
// product tracks one; the item price is a snapshot of the product price.
func (s *CartService) Save(ctx context.Context, userID uint, req requests.SaveCartItem) (responses.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Invalidf("product %d does not exist", req.ProductID)
			}
			return err
		}

		if err := tx.Where(models.Cart{UserID: userID}).
			FirstOrCreate(&cart).Error; err != nil {
			return err
		}

		quantity := req.Quantity
		if product.Quantity != nil && quantity > *product.Quantity {
			quantity = *product.Quantity
		}

		item := models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  quantity,
			Price:     product.Price,
			Notes:     req.Notes,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		return tx.Preload("Items").First(&cart, cart.ID).Error
	})
	if err != nil {
		return responses.Cart{}, err
	}
	return responses.NewCart(cart), nil
}

// RemoveItem deletes one item from the user's cart.
func (s *CartService) RemoveItem(ctx context.Context, userID uint, itemID uint) error {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("cart_id = ?", cart.ID).
		Delete(&models.CartItem{}, itemID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("cart item %d not found", itemID)
	}
	return nil
}

// Delete removes the user's cart and all of its items.
func (s *CartService) Delete(ctx context.Context, userID uint) error {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Cart{}, cart.ID).Error
	})
}

// Confirm turns the user's cart into a new order. Every cart item becomes an
// order detail carrying the price snapshot, and the cart is emptied in the
// same transaction so a confirmed cart cannot be confirmed twice.
func (s *CartService) Confirm(ctx context.Context, userID uint) (responses.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("no cart for user %d", userID)
			}
			return err
		}
		if len(cart.Items) == 0 {
			return apperr.Invalidf("cannot confirm an empty cart")
		}

		order = models.Order{
			UserID: cart.UserID,
			Status: models.OrderStatusNew,
			Date:   time.Now(),
		}
		for _, item := range cart.Items {
			order.Details = append(order.Details, models.OrderDetail{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
				Notes:     item.Notes,
			})
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return responses.Order{}, err
	}

	metrics.OrdersConfirmed.Inc()
	return responses.NewOrder(order), nil
}

func (s *CartService) load(ctx context.Context, userID uint) (models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cart, apperr.NotFoundf("no cart for user %d", userID)
		}
		return cart, err
	}
	return cart, nil
}
