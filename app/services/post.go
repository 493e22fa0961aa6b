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

var postSortKeys = map[string]string{
	"id":    "id",
	"title": "title",
}

// PostService manages the blog.
type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// Insert creates a post; titles are globally unique.
func (s *PostService) Insert(ctx context.Context, req requests.Post) (responses.Post, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("title = ?", req.Title).Count(&count).Error; err != nil {
		return responses.Post{}, err
	}
	if count > 0 {
		return responses.Post{}, apperr.Conflictf("post %q already exists", req.Title)
	}

	post := models.Post{Title: req.Title, Content: req.Content, Published: req.Published}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return responses.Post{}, err
	}
	return responses.NewPost(post), nil
}

// GetList pages through posts. When publishedOnly is set, drafts are hidden.
func (s *PostService) GetList(ctx context.Context, publishedOnly bool, req orm.PageRequest) ([]responses.Post, orm.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&models.Post{})
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	posts, page, err := orm.Page[models.Post](q, req, postSortKeys)
	if err != nil {
		return nil, page, err
	}
	return responses.NewPostList(posts), page, nil
}

// Get returns one post.
func (s *PostService) Get(ctx context.Context, id uint) (responses.Post, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return responses.Post{}, err
	}
	return responses.NewPost(post), nil
}

// Update rewrites a post.
func (s *PostService) Update(ctx context.Context, id uint, req requests.Post) (responses.Post, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return responses.Post{}, err
	}

	post.Title = req.Title
	post.Content = req.Content
	post.Published = req.Published
	if err := s.db.WithContext(ctx).Save(&post).Error; err != nil {
		return responses.Post{}, err
	}
	return responses.NewPost(post), nil
}

// Delete hard-deletes a post.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("post %d not found", id)
	}
	return nil
}

func (s *PostService) load(ctx context.Context, id uint) (models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return post, apperr.NotFoundf("post %d not found", id)
		}
		return post, err
	}
	return post, nil
}
