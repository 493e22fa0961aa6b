package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/app/requests"
	"github.com/lidosole/lidosole/app/responses"
	"github.com/lidosole/lidosole/pkg/apperr"
	"github.com/lidosole/lidosole/pkg/orm"
)

// Broadcaster pushes umbrella state changes to connected clients. The
// websocket hub satisfies it; services accept nil when no feed is running.
type Broadcaster interface {
	BroadcastJSON(v interface{})
}

var umbrellaSortKeys = map[string]string{
	"id":     "id",
	"letter": "letter",
	"number": "number",
	"busy":   "busy",
}

// UmbrellaService manages the beach seat map.
type UmbrellaService struct {
	db   *gorm.DB
	feed Broadcaster
}

func NewUmbrellaService(db *gorm.DB, feed Broadcaster) *UmbrellaService {
	return &UmbrellaService{db: db, feed: feed}
}

// Insert adds a seat; the (letter, number) pair must be unused.
func (s *UmbrellaService) Insert(ctx context.Context, req requests.Umbrella) (responses.Umbrella, error) {
	letter := strings.ToUpper(strings.TrimSpace(req.Letter))

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Umbrella{}).
		Where("letter = ? AND number = ?", letter, req.Number).
		Count(&count).Error; err != nil {
		return responses.Umbrella{}, err
	}
	if count > 0 {
		return responses.Umbrella{}, apperr.Conflictf("umbrella %s%d already exists", letter, req.Number)
	}

	umbrella := models.Umbrella{Letter: letter, Number: req.Number}
	if err := s.db.WithContext(ctx).Create(&umbrella).Error; err != nil {
		return responses.Umbrella{}, err
	}
	return responses.NewUmbrella(umbrella), nil
}

// GetList pages through the seat map.
func (s *UmbrellaService) GetList(ctx context.Context, req orm.PageRequest) ([]responses.Umbrella, orm.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&models.Umbrella{})
	umbrellas, page, err := orm.Page[models.Umbrella](q, req, umbrellaSortKeys)
	if err != nil {
		return nil, page, err
	}
	return responses.NewUmbrellaList(umbrellas), page, nil
}

// Get returns one seat.
func (s *UmbrellaService) Get(ctx context.Context, id uint) (responses.Umbrella, error) {
	umbrella, err := s.load(ctx, id)
	if err != nil {
		return responses.Umbrella{}, err
	}
	return responses.NewUmbrella(umbrella), nil
}

// Update moves a seat to a new (letter, number) position.
func (s *UmbrellaService) Update(ctx context.Context, id uint, req requests.Umbrella) (responses.Umbrella, error) {
	umbrella, err := s.load(ctx, id)
	if err != nil {
		return responses.Umbrella{}, err
	}

	letter := strings.ToUpper(strings.TrimSpace(req.Letter))
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Umbrella{}).
		Where("letter = ? AND number = ? AND id <> ?", letter, req.Number, id).
		Count(&count).Error; err != nil {
		return responses.Umbrella{}, err
	}
	if count > 0 {
		return responses.Umbrella{}, apperr.Conflictf("umbrella %s%d already exists", letter, req.Number)
	}

	umbrella.Letter = letter
	umbrella.Number = req.Number
	if err := s.db.WithContext(ctx).Save(&umbrella).Error; err != nil {
		return responses.Umbrella{}, err
	}
	return responses.NewUmbrella(umbrella), nil
}

// UpdateStatus force-sets the busy flag (admin override) and notifies the
// live feed.
func (s *UmbrellaService) UpdateStatus(ctx context.Context, id uint, busy bool) (responses.Umbrella, error) {
	umbrella, err := s.load(ctx, id)
	if err != nil {
		return responses.Umbrella{}, err
	}

	umbrella.Busy = busy
	if err := s.db.WithContext(ctx).Save(&umbrella).Error; err != nil {
		return responses.Umbrella{}, err
	}

	s.notify(umbrella)
	return responses.NewUmbrella(umbrella), nil
}

// Delete removes a free seat. Busy seats must be released first.
func (s *UmbrellaService) Delete(ctx context.Context, id uint) error {
	umbrella, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if umbrella.Busy {
		return apperr.Invalidf("umbrella %s%d is busy", umbrella.Letter, umbrella.Number)
	}

	res := s.db.WithContext(ctx).Delete(&models.Umbrella{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("umbrella %d not found", id)
	}
	return nil
}

func (s *UmbrellaService) load(ctx context.Context, id uint) (models.Umbrella, error) {
	var umbrella models.Umbrella
	if err := s.db.WithContext(ctx).First(&umbrella, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return umbrella, apperr.NotFoundf("umbrella %d not found", id)
		}
		return umbrella, err
	}
	return umbrella, nil
}

func (s *UmbrellaService) notify(u models.Umbrella) {
	if s.feed == nil {
		return
	}
	s.feed.BroadcastJSON(map[string]interface{}{
		"umbrella": u.Letter,
		"number":   u.Number,
		"busy":     u.Busy,
	})
}
