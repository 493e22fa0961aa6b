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

var productSortKeys = map[string]string{
	"id":    "id",
	"name":  "name",
	"price": "price",
}

// ProductService manages the soft-deletable catalogue.
type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// Insert creates a product. A product with the same name, quantity and price
// already in the catalogue conflicts; a missing category is rejected.
func (s *ProductService) Insert(ctx context.Context, req requests.Product) (responses.Product, error) {
	var catCount int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", req.CategoryID).Count(&catCount).Error; err != nil {
		return responses.Product{}, err
	}
	if catCount == 0 {
		return responses.Product{}, apperr.Invalidf("category %d does not exist", req.CategoryID)
	}

	dup := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("name = ? AND price = ?", req.Name, req.Price)
	if req.Quantity == nil {
		dup = dup.Where("quantity IS NULL")
	} else {
		dup = dup.Where("quantity = ?", *req.Quantity)
	}
	var count int64
	if err := dup.Count(&count).Error; err != nil {
		return responses.Product{}, err
	}
	if count > 0 {
		return responses.Product{}, apperr.Conflictf("product %q already exists", req.Name)
	}

	product := models.Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		Price:       req.Price,
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return responses.Product{}, err
	}
	return responses.NewProduct(product), nil
}

// GetList pages through live products, optionally filtered by category.
func (s *ProductService) GetList(ctx context.Context, categoryID uint, req orm.PageRequest) ([]responses.Product, orm.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{})
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	products, page, err := orm.Page[models.Product](q, req, productSortKeys)
	if err != nil {
		return nil, page, err
	}
	return responses.NewProductList(products), page, nil
}

// Get returns one product.
func (s *ProductService) Get(ctx context.Context, id uint) (responses.Product, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return responses.Product{}, err
	}
	return responses.NewProduct(product), nil
}

// Update rewrites a product in place.
func (s *ProductService) Update(ctx context.Context, id uint, req requests.Product) (responses.Product, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return responses.Product{}, err
	}

	product.CategoryID = req.CategoryID
	product.Name = req.Name
	product.Description = req.Description
	product.Quantity = req.Quantity
	product.Price = req.Price
	if err := s.db.WithContext(ctx).Save(&product).Error; err != nil {
		return responses.Product{}, err
	}
	return responses.NewProduct(product), nil
}

// Delete soft-deletes a product.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("product %d not found", id)
	}
	return nil
}

func (s *ProductService) load(ctx context.Context, id uint) (models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return product, apperr.NotFoundf("product %d not found", id)
		}
		return product, err
	}
	return product, nil
}
