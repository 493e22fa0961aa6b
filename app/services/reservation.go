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
	"github.com/lidosole/lidosole/pkg/metrics"
	"github.com/lidosole/lidosole/pkg/orm"
)

var reservationSortKeys = map[string]string{
	"id":    "id",
	"start": "start_time",
	"end":   "end_time",
}

// ReservationService drives the umbrella booking state machine. Claiming a
// seat marks it busy and creates the reservation row in one transaction, so
// a crash can never leave a busy seat without a reservation.
type ReservationService struct {
	db   *gorm.DB
	feed Broadcaster
}

func NewReservationService(db *gorm.DB, feed Broadcaster) *ReservationService {
	return &ReservationService{db: db, feed: feed}
}

// Insert books an umbrella for the user. An identical (user, start, end)
// tuple conflicts; a missing or busy umbrella is rejected without touching
// its state.
func (s *ReservationService) Insert(ctx context.Context, userID uint, req requests.Reservation) (responses.Reservation, error) {
	var reservation models.Reservation
	var umbrella models.Umbrella

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Reservation{}).
			Where("user_id = ? AND start_time = ? AND end_time = ?", userID, req.Start, req.End).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			metrics.ReservationsRejected.WithLabelValues("duplicate").Inc()
			return apperr.Conflictf("reservation for this window already exists")
		}

		if err := tx.First(&umbrella, req.UmbrellaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				metrics.ReservationsRejected.WithLabelValues("missing").Inc()
				return apperr.Invalidf("umbrella %d does not exist", req.UmbrellaID)
			}
			return err
		}
		if umbrella.Busy {
			metrics.ReservationsRejected.WithLabelValues("busy").Inc()
			return apperr.Invalidf("umbrella %s%d is already busy", umbrella.Letter, umbrella.Number)
		}

		// First writer wins: the busy flip only succeeds while the seat is
		// still free, so a concurrent claim loses here instead of
		// double-booking.
		res := tx.Model(&models.Umbrella{}).
			Where("id = ? AND busy = ?", umbrella.ID, false).
			Update("busy", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			metrics.ReservationsRejected.WithLabelValues("busy").Inc()
			return apperr.Invalidf("umbrella %s%d is already busy", umbrella.Letter, umbrella.Number)
		}
		umbrella.Busy = true

		reservation = models.Reservation{
			UserID:     userID,
			UmbrellaID: umbrella.ID,
			Start:      req.Start,
			End:        req.End,
			Notes:      req.Notes,
			Price:      req.Price,
		}
		return tx.Create(&reservation).Error
	})
	if err != nil {
		return responses.Reservation{}, err
	}

	metrics.ReservationsCreated.Inc()
	s.notify(umbrella)
	return responses.NewReservation(reservation), nil
}

// GetList pages through the user's reservations; userID 0 lists all.
func (s *ReservationService) GetList(ctx context.Context, userID uint, req orm.PageRequest) ([]responses.Reservation, orm.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&models.Reservation{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	reservations, page, err := orm.Page[models.Reservation](q, req, reservationSortKeys)
	if err != nil {
		return nil, page, err
	}
	return responses.NewReservationList(reservations), page, nil
}

// Get returns one reservation, owner-scoped unless userID is 0.
func (s *ReservationService) Get(ctx context.Context, userID uint, id uint) (responses.Reservation, error) {
	reservation, err := s.load(ctx, userID, id)
	if err != nil {
		return responses.Reservation{}, err
	}
	return responses.NewReservation(reservation), nil
}

// Update rewrites a reservation. Moving it onto a window the user already
// holds elsewhere conflicts. When the umbrella assignment changes, the new
// seat is claimed and the previous one released in the same transaction.
func (s *ReservationService) Update(ctx context.Context, userID uint, id uint, req requests.Reservation) (responses.Reservation, error) {
	var reservation models.Reservation
	var changed []models.Umbrella

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		reservation, err = s.loadTx(tx, userID, id)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Reservation{}).
			Where("user_id = ? AND start_time = ? AND end_time = ? AND id <> ?",
				reservation.UserID, req.Start, req.End, reservation.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			metrics.ReservationsRejected.WithLabelValues("duplicate").Inc()
			return apperr.Conflictf("reservation for this window already exists")
		}

		if req.UmbrellaID != reservation.UmbrellaID {
			var target models.Umbrella
			if err := tx.First(&target, req.UmbrellaID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Invalidf("umbrella %d does not exist", req.UmbrellaID)
				}
				return err
			}
			if target.Busy {
				return apperr.Invalidf("umbrella %s%d is already busy", target.Letter, target.Number)
			}

			res := tx.Model(&models.Umbrella{}).
				Where("id = ? AND busy = ?", target.ID, false).
				Update("busy", true)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.Invalidf("umbrella %s%d is already busy", target.Letter, target.Number)
			}
			target.Busy = true

			var old models.Umbrella
			if err := tx.First(&old, reservation.UmbrellaID).Error; err != nil {
				return err
			}
			if err := tx.Model(&old).Update("busy", false).Error; err != nil {
				return err
			}
			old.Busy = false
			changed = append(changed, target, old)
			reservation.UmbrellaID = target.ID
		}

		res := tx.Model(&models.Reservation{}).
			Where("id = ? AND version = ?", reservation.ID, reservation.Version).
			Updates(map[string]interface{}{
				"umbrella_id": reservation.UmbrellaID,
				"start_time":  req.Start,
				"end_time":    req.End,
				"notes":       req.Notes,
				"price":       req.Price,
				"version":     reservation.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflictf("reservation %d was modified concurrently", id)
		}

		reservation.Start = req.Start
		reservation.End = req.End
		reservation.Notes = req.Notes
		reservation.Price = req.Price
		reservation.Version++
		return nil
	})
	if err != nil {
		return responses.Reservation{}, err
	}

	for _, u := range changed {
		s.notify(u)
	}
	return responses.NewReservation(reservation), nil
}

// Delete cancels a reservation and frees its umbrella.
func (s *ReservationService) Delete(ctx context.Context, userID uint, id uint) error {
	var umbrella models.Umbrella

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := s.loadTx(tx, userID, id)
		if err != nil {
			return err
		}

		if err := tx.First(&umbrella, reservation.UmbrellaID).Error; err != nil {
			return err
		}
		if err := tx.Model(&umbrella).Update("busy", false).Error; err != nil {
			return err
		}
		umbrella.Busy = false

		res := tx.Delete(&models.Reservation{}, reservation.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFoundf("reservation %d not found", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notify(umbrella)
	return nil
}

func (s *ReservationService) load(ctx context.Context, userID uint, id uint) (models.Reservation, error) {
	return s.loadTx(s.db.WithContext(ctx), userID, id)
}

func (s *ReservationService) loadTx(tx *gorm.DB, userID uint, id uint) (models.Reservation, error) {
	var reservation models.Reservation
	q := tx
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return reservation, apperr.NotFoundf("reservation %d not found", id)
		}
		return reservation, err
	}
	return reservation, nil
}

func (s *ReservationService) notify(u models.Umbrella) {
	if s.feed == nil {
		return
	}
	s.feed.BroadcastJSON(map[string]interface{}{
		"umbrella": strings.ToUpper(u.Letter),
		"number":   u.Number,
		"busy":     u.Busy,
	})
}
