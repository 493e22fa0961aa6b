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

var categorySortKeys = map[string]string{
	"id":   "id",
	"name": "name",
}

// CategoryService manages product categories.
type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// Insert creates a category; the (name, description) pair must be unused.
func (s *CategoryService) Insert(ctx context.Context, req requests.Category) (responses.Category, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("name = ? AND description = ?", req.Name, req.Description).
		Count(&count).Error; err != nil {
		return responses.Category{}, err
	}
	if count > 0 {
		return responses.Category{}, apperr.Conflictf("category %q already exists", req.Name)
	}

	category := models.Category{Name: req.Name, Description: req.Description}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return responses.Category{}, err
	}
	return responses.NewCategory(category), nil
}

// GetList pages through categories.
func (s *CategoryService) GetList(ctx context.Context, req orm.PageRequest) ([]responses.Category, orm.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&models.Category{})
	categories, page, err := orm.Page[models.Category](q, req, categorySortKeys)
	if err != nil {
		return nil, page, err
	}
	return responses.NewCategoryList(categories), page, nil
}

// Get returns one category.
func (s *CategoryService) Get(ctx context.Context, id uint) (responses.Category, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return responses.Category{}, err
	}
	return responses.NewCategory(category), nil
}

// Update rewrites name and description.
func (s *CategoryService) Update(ctx context.Context, id uint, req requests.Category) (responses.Category, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return responses.Category{}, err
	}

	category.Name = req.Name
	category.Description = req.Description
	if err := s.db.WithContext(ctx).Save(&category).Error; err != nil {
		return responses.Category{}, err
	}
	return responses.NewCategory(category), nil
}

// Delete hard-deletes a category. Deleting an absent id is NotFound.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("category %d not found", id)
	}
	return nil
}

func (s *CategoryService) load(ctx context.Context, id uint) (models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return category, apperr.NotFoundf("category %d not found", id)
		}
		return category, err
	}
	return category, nil
}
