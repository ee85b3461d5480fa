package repository

import (
	"strings"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/model"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/repository/query"
)

const productsTable = "products"

var productColumns = []string{
	"id", "name", "description", "price", "picture_url", "public_id", "type", "brand", "quantity_in_stock",
}

// BaseProducts is the unfiltered product query every list starts from.
func BaseProducts() *query.Builder {
	return query.From(productsTable).Select(productColumns...)
}

// Sort orders by the requested key, falling back to name for unknown keys.
// id is always the final tie-breaker so pages are stable.
func Sort(b *query.Builder, orderBy string) *query.Builder {
	switch orderBy {
	case model.OrderByPrice, model.OrderByPriceAsc:
		b = b.OrderBy("price", query.Asc)
	case model.OrderByPriceDesc:
		b = b.OrderBy("price", query.Desc)
	default:
		b = b.OrderBy("name", query.Asc)
	}
	return b.ThenBy("id", query.Asc)
}

// Search narrows to products whose name contains term, ignoring case.
func Search(b *query.Builder, term string) *query.Builder {
	term = strings.TrimSpace(term)
	if term == "" {
		return b
	}
	return b.Where(query.Like(term, "name"))
}

// Filter keeps products whose brand and type are members of the given lists.
// An empty list does not restrict that column.
func Filter(b *query.Builder, brands, types []string) *query.Builder {
	if len(brands) > 0 {
		b = b.Where(query.AnyOf("brand", brands))
	}
	if len(types) > 0 {
		b = b.Where(query.AnyOf("type", types))
	}
	return b
}

// ProductQuery runs the whole pipeline for a set of list params.
func ProductQuery(params model.ProductParams) *query.Builder {
	b := BaseProducts()
	b = Sort(b, params.OrderBy)
	b = Search(b, params.SearchTerm)
	return Filter(b, params.Brands, params.Types)
}
