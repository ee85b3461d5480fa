package model

import "strings"

// Order-by keys accepted on the product list. Anything else sorts by name.
const (
	OrderByName      = "name"
	OrderByPrice     = "price"
	OrderByPriceAsc  = "priceAsc"
	OrderByPriceDesc = "priceDesc"
)

// ProductParams is the query input of the product list.
type ProductParams struct {
	SearchTerm string
	OrderBy    string
	Brands     []string
	Types      []string
	PageNumber int
	PageSize   int
}

// SplitList turns "a, b,,c" into [a b c].
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
