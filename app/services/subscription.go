package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/app/requests"
	"github.com/lidosole/lidosole/app/responses"
	"github.com/lidosole/lidosole/pkg/apperr"
	"github.com/lidosole/lidosole/pkg/cache"
	"github.com/lidosole/lidosole/pkg/orm"
)

const subscriptionTTL = 10 * time.Minute

var subscriptionSortKeys = map[string]string{
	"id":     "id",
	"price":  "price",
	"status": "status",
}

// SubscriptionService manages season passes with cache-aside reads on single
// lookups.
type SubscriptionService struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewSubscriptionService(db *gorm.DB, c *cache.Cache) *SubscriptionService {
	return &SubscriptionService{db: db, cache: c}
}

func subscriptionKey(id uint) string { return fmt.Sprintf("subscription:%d", id) }

// Insert creates a subscription for the user.
func (s *SubscriptionService) Insert(ctx context.Context, userID uint, req requests.Subscription) (responses.Subscription, error) {
	status := req.Status
	if status == "" {
		status = models.SubscriptionStatusActive
	}

	sub := models.Subscription{
		UserID: userID,
		Start:  req.Start,
		Finish: req.Finish,
		Price:  req.Price,
		Status: status,
		Notes:  req.Notes,
	}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return responses.Subscription{}, err
	}

	out := responses.NewSubscription(sub)
	_ = s.cache.Set(ctx, subscriptionKey(sub.ID), out, subscriptionTTL)
	return out, nil
}

// GetList pages through the user's subscriptions; userID 0 lists all.
func (s *SubscriptionService) GetList(ctx context.Context, userID uint, req orm.PageRequest) ([]responses.Subscription, orm.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&models.Subscription{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	subs, page, err := orm.Page[models.Subscription](q, req, subscriptionSortKeys)
	if err != nil {
		return nil, page, err
	}
	return responses.NewSubscriptionList(subs), page, nil
}

// Get returns one subscription, trying the cache first.
func (s *SubscriptionService) Get(ctx context.Context, userID uint, id uint) (responses.Subscription, error) {
	var cached responses.Subscription
	if s.cache.Get(ctx, subscriptionKey(id), &cached) {
		if userID != 0 && cached.UserID != userID {
			return responses.Subscription{}, apperr.NotFoundf("subscription %d not found", id)
		}
		return cached, nil
	}

	sub, err := s.load(ctx, userID, id)
	if err != nil {
		return responses.Subscription{}, err
	}

	out := responses.NewSubscription(sub)
	_ = s.cache.Set(ctx, subscriptionKey(id), out, subscriptionTTL)
	return out, nil
}

// Update rewrites a subscription and refreshes the cached copy.
func (s *SubscriptionService) Update(ctx context.Context, userID uint, id uint, req requests.Subscription) (responses.Subscription, error) {
	sub, err := s.load(ctx, userID, id)
	if err != nil {
		return responses.Subscription{}, err
	}

	sub.Start = req.Start
	sub.Finish = req.Finish
	sub.Price = req.Price
	if req.Status != "" {
		sub.Status = req.Status
	}
	sub.Notes = req.Notes
	if err := s.db.WithContext(ctx).Save(&sub).Error; err != nil {
		return responses.Subscription{}, err
	}

	out := responses.NewSubscription(sub)
	_ = s.cache.Set(ctx, subscriptionKey(id), out, subscriptionTTL)
	return out, nil
}

// Delete soft-deletes a subscription and drops it from the cache.
func (s *SubscriptionService) Delete(ctx context.Context, userID uint, id uint) error {
	q := s.db.WithContext(ctx)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	res := q.Delete(&models.Subscription{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("subscription %d not found", id)
	}

	_ = s.cache.Del(ctx, subscriptionKey(id))
	return nil
}

func (s *SubscriptionService) load(ctx context.Context, userID uint, id uint) (models.Subscription, error) {
	var sub models.Subscription
	q := s.db.WithContext(ctx)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sub, apperr.NotFoundf("subscription %d not found", id)
		}
		return sub, err
	}
	return sub, nil
}
