package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/app/requests"
	"github.com/lidosole/lidosole/app/responses"
	"github.com/lidosole/lidosole/pkg/apperr"
	"github.com/lidosole/lidosole/pkg/orm"
)

var commentSortKeys = map[string]string{
	"id":    "id",
	"score": "score",
	"title": "title",
}

// CommentService manages user reviews.
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// Insert posts a review; one review per (user, title).
func (s *CommentService) Insert(ctx context.Context, userID uint, req requests.Comment) (responses.Comment, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("user_id = ? AND title = ?", userID, req.Title).
		Count(&count).Error; err != nil {
		return responses.Comment{}, err
	}
	if count > 0 {
		return responses.Comment{}, apperr.Conflictf("you already posted a review titled %q", req.Title)
	}

	comment := models.Comment{
		UserID: userID,
		Score:  req.Score,
		Title:  req.Title,
		Body:   req.Body,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return responses.Comment{}, err
	}
	return responses.NewComment(comment), nil
}

// GetList pages through all reviews.
func (s *CommentService) GetList(ctx context.Context, req orm.PageRequest) ([]responses.Comment, orm.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&models.Comment{})
	comments, page, err := orm.Page[models.Comment](q, req, commentSortKeys)
	if err != nil {
		return nil, page, err
	}
	return responses.NewCommentList(comments), page, nil
}

// Get returns one review.
func (s *CommentService) Get(ctx context.Context, id uint) (responses.Comment, error) {
	comment, err := s.load(ctx, id)
	if err != nil {
		return responses.Comment{}, err
	}
	return responses.NewComment(comment), nil
}

// Update rewrites the caller's own review.
func (s *CommentService) Update(ctx context.Context, userID uint, id uint, req requests.Comment) (responses.Comment, error) {
	comment, err := s.load(ctx, id)
	if err != nil {
		return responses.Comment{}, err
	}
	if comment.UserID != userID {
		return responses.Comment{}, apperr.NotFoundf("comment %d not found", id)
	}

	comment.Score = req.Score
	comment.Title = req.Title
	comment.Body = req.Body
	if err := s.db.WithContext(ctx).Save(&comment).Error; err != nil {
		return responses.Comment{}, err
	}
	return responses.NewComment(comment), nil
}

// Delete removes the caller's own review; userID 0 skips the owner check.
func (s *CommentService) Delete(ctx context.Context, userID uint, id uint) error {
	q := s.db.WithContext(ctx)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	res := q.Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("comment %d not found", id)
	}
	return nil
}

func (s *CommentService) load(ctx context.Context, id uint) (models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return comment, apperr.NotFoundf("comment %d not found", id)
		}
		return comment, err
	}
	return comment, nil
}
