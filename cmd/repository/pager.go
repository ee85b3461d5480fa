package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/model"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/repository/query"
)

// Querier is the subset of *sql.DB and *sql.Tx the repositories need.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PageLimits bounds the page size a caller may request.
type PageLimits struct {
	DefaultSize int
	MaxSize     int
}

// Clamp normalizes a requested page: numbers below 1 become 1, a missing size
// becomes the default and oversized pages are cut to the maximum.
func (l PageLimits) Clamp(pageNumber, pageSize int) (int, int) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = l.DefaultSize
	}
	if l.MaxSize > 0 && pageSize > l.MaxSize {
		pageSize = l.MaxSize
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return pageNumber, pageSize
}

// Paginate counts the rows matched by b, then loads the requested page.
// A page past the end yields an empty list with the real totals.
func Paginate[T any](ctx context.Context, db Querier, b *query.Builder, pageNumber, pageSize int, limits PageLimits, scan func(*sql.Rows) (T, error)) (*model.PageList[T], error) {
	pageNumber, pageSize = limits.Clamp(pageNumber, pageSize)

	countSQL, countArgs := b.Count().Build()
	var total int64
	if err := db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count query: %w", err)
	}

	page := &model.PageList[T]{
		Items:    []T{},
		MetaData: model.NewMetaData(total, pageNumber, pageSize),
	}
	if total == 0 || int64(pageNumber-1) > (total-1)/int64(pageSize) {
		return page, nil
	}
	offset := int64(pageNumber-1) * int64(pageSize)

	pageSQL, pageArgs := b.Offset(offset).Limit(int64(pageSize)).Build()
	rows, err := db.QueryContext(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("page query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		page.Items = append(page.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return page, nil
}
