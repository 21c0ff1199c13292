package domain

import "time"

// Product represents a catalog product as returned by the backend.
type Product struct {
	ID          string    `json:"id"`
	DesignNo    string    `json:"design_no"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Material    string    `json:"material"`
	Color       string    `json:"color"`
	ImageURL    string    `json:"image_url"`
	Category    string    `json:"category"`
	InStock     bool      `json:"in_stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// Snapshot captures the product fields the cart keeps. The snapshot is taken
// at add-to-cart time and is not re-synced with the catalog afterwards.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		Name:     p.Name,
		Price:    p.Price,
		Material: p.Material,
		Color:    p.Color,
		ImageURL: p.ImageURL,
	}
}

// ProductSnapshot is a denormalized copy of the product fields a cart line
// needs for display and totals.
type ProductSnapshot struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Material string  `json:"material"`
	Color    string  `json:"color"`
	ImageURL string  `json:"image_url"`
}

// ProductInput holds the fields for creating or updating a product through
// the admin API.
type ProductInput struct {
	DesignNo    string  `json:"design_no" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gte=0"`
	Material    string  `json:"material" validate:"required"`
	Color       string  `json:"color" validate:"required"`
	ImageURL    string  `json:"image_url" validate:"required"`
	Category    string  `json:"category" validate:"required"`
}

// Category is one entry of the fixed storefront category list.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
