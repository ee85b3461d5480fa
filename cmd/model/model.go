package model

// Product is the catalog entity. Price is stored in minor currency units.
type Product struct {
	ID              int64  `json:"id" db:"id"`
	Name            string `json:"name" db:"name"`
	Description     string `json:"description" db:"description"`
	Price           int64  `json:"price" db:"price"`
	PictureURL      string `json:"pictureUrl" db:"picture_url"`
	PublicID        string `json:"publicId,omitempty" db:"public_id"`
	Type            string `json:"type" db:"type"`
	Brand           string `json:"brand" db:"brand"`
	QuantityInStock int    `json:"quantityInStock" db:"quantity_in_stock"`
}

// Filters lists the distinct brands and types present in the catalog.
type Filters struct {
	Brands []string `json:"brands"`
	Types  []string `json:"types"`
}

const (
	RoleAdmin  = "Admin"
	RoleMember = "Member"
)

type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
	Role     string `json:"role" db:"role"`
}
