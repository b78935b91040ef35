package domain

import "time"

// Product is a sellable item in an organization's catalog.
type Product struct {
	ID             string
	OrganizationID string
	Name           string
	Category       string
	Manufacturer   string
	Price          float64
	Stock          int
	Active         bool
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// CategoryInventory aggregates inventory per category.
type CategoryInventory struct {
	Category      string
	TotalProducts int
	TotalValue    float64
	LowStock      int
}

// ProductSalesStats aggregates sales for a single product.
type ProductSalesStats struct {
	TotalSales    float64
	TotalQuantity int
}
