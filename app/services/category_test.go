package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidosole/lidosole/app/requests"
	"github.com/lidosole/lidosole/pkg/apperr"
	"github.com/lidosole/lidosole/pkg/orm"
)

func TestCategoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryService(db)
	ctx := context.Background()

	created, err := categories.Insert(ctx, requests.Category{
		Name: "Drinks", Description: "Beverages",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := categories.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drinks", fetched.Name)
	assert.Equal(t, "Beverages", fetched.Description)
}

func TestCategoryInsertDuplicatePair(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryService(db)
	ctx := context.Background()

	_, err := categories.Insert(ctx, requests.Category{Name: "Drinks", Description: "Beverages"})
	require.NoError(t, err)

	_, err = categories.Insert(ctx, requests.Category{Name: "Drinks", Description: "Beverages"})
	assert.True(t, apperr.IsConflict(err))

	// Same name with a different description is a distinct category.
	_, err = categories.Insert(ctx, requests.Category{Name: "Drinks", Description: "Cocktails"})
	assert.NoError(t, err)
}

func TestCategoryDeleteIdempotence(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryService(db)
	ctx := context.Background()

	created, err := categories.Insert(ctx, requests.Category{Name: "Drinks", Description: "Beverages"})
	require.NoError(t, err)

	require.NoError(t, categories.Delete(ctx, created.ID))

	err = categories.Delete(ctx, created.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCategoryListPaginationProbe(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryService(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := categories.Insert(ctx, requests.Category{
			Name:        "Category",
			Description: string(rune('A' + i)),
		})
		require.NoError(t, err)
	}

	page0, meta, err := categories.GetList(ctx, orm.PageRequest{PageIndex: 0, ItemsPerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page0, 2)
	assert.EqualValues(t, 5, meta.TotalCount)
	assert.True(t, meta.HasNextPage)

	_, meta, err = categories.GetList(ctx, orm.PageRequest{PageIndex: 2, ItemsPerPage: 2})
	require.NoError(t, err)
	assert.False(t, meta.HasNextPage)
}

func TestCategoryListRejectsUnknownSortKey(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryService(db)

	_, _, err := categories.GetList(context.Background(), orm.PageRequest{
		OrderBy: "name; DROP TABLE categories",
	})
	assert.True(t, apperr.IsInvalid(err))
}

func TestProductInsertRequiresCategory(t *testing.T) {
	db := newTestDB(t)
	products := NewProductService(db)

	_, err := products.Insert(context.Background(), requests.Product{
		CategoryID: 999, Name: "Cola", Price: 2.50,
	})
	assert.True(t, apperr.IsInvalid(err))
}

func TestProductSoftDeleteHidesFromList(t *testing.T) {
	db := newTestDB(t)
	products := NewProductService(db)
	ctx := context.Background()

	cola := seedProduct(t, db, "Cola", nil, 2.50)

	require.NoError(t, products.Delete(ctx, cola.ID))

	_, err := products.Get(ctx, cola.ID)
	assert.True(t, apperr.IsNotFound(err))

	list, meta, err := products.GetList(ctx, 0, orm.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, meta.TotalCount)
}
