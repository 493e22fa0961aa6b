// Package orm supplies the query helpers shared by all repositories:
// page-based listing with a has-next-page probe and closed-list sorting.
package orm

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lidosole/lidosole/pkg/apperr"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination is the listing metadata returned alongside every page.
type Pagination struct {
	PageIndex    int   `json:"pageIndex"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalCount   int64 `json:"totalCount"`
	HasNextPage  bool  `json:"hasNextPage"`
}

// PageRequest carries the client's paging/sorting choices.
// PageIndex is 0-based.
type PageRequest struct {
	PageIndex    int
	ItemsPerPage int
	OrderBy      string
	Descending   bool
}

func (p PageRequest) normalized() PageRequest {
	if p.PageIndex < 0 {
		p.PageIndex = 0
	}
	if p.ItemsPerPage <= 0 {
		p.ItemsPerPage = defaultPageSize
	}
	if p.ItemsPerPage > maxPageSize {
		p.ItemsPerPage = maxPageSize
	}
	return p
}

// SortClause resolves the client's orderBy key against a closed whitelist of
// key → column mappings. Free-text ordering expressions are rejected; only
// enumerated keys reach the SQL layer.
func SortClause(allowed map[string]string, key string, desc bool) (string, error) {
	if key == "" {
		return "", nil
	}
	col, ok := allowed[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return "", apperr.Invalidf("unknown sort key %q", key)
	}
	if desc {
		return col + " DESC", nil
	}
	return col + " ASC", nil
}

// Page executes q for a single page of T.
//
// It counts the filtered rows for TotalCount, then fetches ItemsPerPage+1
// rows: the presence of the extra row decides HasNextPage and the row itself
// is dropped from the result.
func Page[T any](q *gorm.DB, req PageRequest, allowed map[string]string) ([]T, Pagination, error) {
	req = req.normalized()

	clause, err := SortClause(allowed, req.OrderBy, req.Descending)
	if err != nil {
		return nil, Pagination{}, err
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("orm: count: %w", err)
	}

	if clause != "" {
		q = q.Order(clause)
	}

	var rows []T
	err = q.
		Offset(req.PageIndex * req.ItemsPerPage).
		Limit(req.ItemsPerPage + 1).
		Find(&rows).Error
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("orm: page: %w", err)
	}

	hasNext := len(rows) > req.ItemsPerPage
	if hasNext {
		rows = rows[:req.ItemsPerPage]
	}

	return rows, Pagination{
		PageIndex:    req.PageIndex,
		ItemsPerPage: req.ItemsPerPage,
		TotalCount:   total,
		HasNextPage:  hasNext,
	}, nil
}
