package orm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lidosole/lidosole/pkg/apperr"
)

type towel struct {
	ID    uint `gorm:"primarykey"`
	Name  string
	Color string
}

var towelSortKeys = map[string]string{
	"name":  "name",
	"color": "color",
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&towel{}))
	return db
}

func seedTowels(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&towel{
			Name:  fmt.Sprintf("towel-%02d", i),
			Color: "blue",
		}).Error)
	}
}

func TestPageDefaultsAndProbe(t *testing.T) {
	db := newTestDB(t)
	seedTowels(t, db, 25)

	rows, page, err := Page[towel](db.Model(&towel{}), PageRequest{}, towelSortKeys)
	require.NoError(t, err)

	assert.Len(t, rows, 20)
	assert.EqualValues(t, 25, page.TotalCount)
	assert.True(t, page.HasNextPage)

	rows, page, err = Page[towel](db.Model(&towel{}), PageRequest{PageIndex: 1}, towelSortKeys)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.False(t, page.HasNextPage)
}

func TestPageExactBoundaryHasNoNextPage(t *testing.T) {
	db := newTestDB(t)
	seedTowels(t, db, 20)

	rows, page, err := Page[towel](db.Model(&towel{}), PageRequest{ItemsPerPage: 20}, towelSortKeys)
	require.NoError(t, err)
	assert.Len(t, rows, 20)
	assert.False(t, page.HasNextPage)
}

func TestPageClampsOversizedRequests(t *testing.T) {
	db := newTestDB(t)
	seedTowels(t, db, 3)

	_, page, err := Page[towel](db.Model(&towel{}), PageRequest{
		PageIndex:    -4,
		ItemsPerPage: 10_000,
	}, towelSortKeys)
	require.NoError(t, err)
	assert.Equal(t, 0, page.PageIndex)
	assert.Equal(t, 100, page.ItemsPerPage)
}

func TestPageOrdersByWhitelistedKey(t *testing.T) {
	db := newTestDB(t)
	seedTowels(t, db, 5)

	rows, _, err := Page[towel](db.Model(&towel{}), PageRequest{
		OrderBy: "name", Descending: true,
	}, towelSortKeys)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "towel-04", rows[0].Name)
	assert.Equal(t, "towel-00", rows[4].Name)
}

func TestSortClause(t *testing.T) {
	clause, err := SortClause(towelSortKeys, " Name ", false)
	require.NoError(t, err)
	assert.Equal(t, "name ASC", clause)

	clause, err = SortClause(towelSortKeys, "color", true)
	require.NoError(t, err)
	assert.Equal(t, "color DESC", clause)

	clause, err = SortClause(towelSortKeys, "", true)
	require.NoError(t, err)
	assert.Empty(t, clause)
}

func TestSortClauseRejectsUnknownKeys(t *testing.T) {
	for _, key := range []string{"id", "name, color", "name; DROP TABLE towels", "created_at"} {
		_, err := SortClause(towelSortKeys, key, false)
		assert.True(t, apperr.IsInvalid(err), "key %q must be rejected", key)
	}
}
