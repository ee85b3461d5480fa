package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/model"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/repository/query"
)

var (
	ErrProductNotFound = errors.New("product not found")
	// ErrNoRowsAffected reports a write that changed nothing.
	ErrNoRowsAffected = errors.New("no rows affected")
)

// ProductRepo defines persistence for catalog products.
type ProductRepo interface {
	List(ctx context.Context, params model.ProductParams) (*model.PageList[model.Product], error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Filters(ctx context.Context) (*model.Filters, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id int64) error
}

type sqlProductRepo struct {
	db     Querier
	limits PageLimits
}

// NewProductRepo builds a repository over a PostgreSQL handle.
func NewProductRepo(db Querier, limits PageLimits) ProductRepo {
	return &sqlProductRepo{db: db, limits: limits}
}

// List runs the filter pipeline and returns one page of products.
func (r *sqlProductRepo) List(ctx context.Context, params model.ProductParams) (*model.PageList[model.Product], error) {
	page, err := Paginate(ctx, r.db, ProductQuery(params), params.PageNumber, params.PageSize, r.limits, scanProductRows)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return page, nil
}

func (r *sqlProductRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	q, args := BaseProducts().Where(query.Eq("id", id)).Build()
	p, err := scanProduct(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

// Filters scans the whole table for distinct brands and types.
func (r *sqlProductRepo) Filters(ctx context.Context) (*model.Filters, error) {
	brands, err := r.distinct(ctx, "brand")
	if err != nil {
		return nil, err
	}
	types, err := r.distinct(ctx, "type")
	if err != nil {
		return nil, err
	}
	return &model.Filters{Brands: brands, Types: types}, nil
}

func (r *sqlProductRepo) distinct(ctx context.Context, column string) ([]string, error) {
	q := fmt.Sprintf("SELECT DISTINCT %[1]s FROM %[2]s ORDER BY %[1]s;", column, productsTable)
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("distinct %s: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// Create inserts p and sets its generated id.
func (r *sqlProductRepo) Create(ctx context.Context, p *model.Product) error {
	q := `INSERT INTO products (name, description, price, picture_url, public_id, type, brand, quantity_in_stock)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id;`
	err := r.db.QueryRowContext(ctx, q,
		p.Name, p.Description, p.Price, p.PictureURL, p.PublicID, p.Type, p.Brand, p.QuantityInStock,
	).Scan(&p.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRowsAffected
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *sqlProductRepo) Update(ctx context.Context, p *model.Product) error {
	q := `UPDATE products SET name = $1, description = $2, price = $3, picture_url = $4, public_id = $5,
type = $6, brand = $7, quantity_in_stock = $8 WHERE id = $9;`
	res, err := r.db.ExecContext(ctx, q,
		p.Name, p.Description, p.Price, p.PictureURL, p.PublicID, p.Type, p.Brand, p.QuantityInStock, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return checkAffected(res)
}

func (r *sqlProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1;", id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.PictureURL, &p.PublicID, &p.Type, &p.Brand, &p.QuantityInStock)
	return p, err
}

func scanProductRows(rows *sql.Rows) (model.Product, error) {
	return scanProduct(rows)
}
