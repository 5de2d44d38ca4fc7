package models

import "time"

// Product represents a catalog product persisted in the store.
// CreatedAt and UpdatedAt are stamped by the service layer, so GORM's
// automatic timestamp tracking is disabled for both. UpdatedAt stays nil
// until the first successful update.
type Product struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Name          string     `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=1,max=100"`
	Description   string     `json:"description" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Price         float64    `json:"price" validate:"gte=0"`
	Category      string     `json:"category" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	StockQuantity int        `json:"stockQuantity" validate:"gte=0"`
	SKU           string     `json:"sku" gorm:"column:sku;uniqueIndex;type:varchar(50);not null" validate:"required,max=50"`
	IsActive      bool       `json:"isActive"`
	IsAvailable   bool       `json:"isAvailable"`
	CreatedAt     time.Time  `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt     *time.Time `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

// CreateProductRequest is the payload for creating a product.
// IsActive defaults to true when absent; IsAvailable cannot be set on
// creation and is always forced to true.
type CreateProductRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=100"`
	Description   string  `json:"description" validate:"omitempty,max=500"`
	Price         float64 `json:"price" validate:"gte=0"`
	Category      string  `json:"category" validate:"required,max=100"`
	StockQuantity int     `json:"stockQuantity" validate:"gte=0"`
	SKU           string  `json:"sku" validate:"required,max=50"`
	IsActive      *bool   `json:"isActive"`
}

// UpdateProductRequest is the payload for updating a product.
// Name, Description, Price, Category and StockQuantity always replace the
// stored values. SKU is applied only when non-empty and different from the
// current value; IsActive and IsAvailable only when present.
type UpdateProductRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=100"`
	Description   string  `json:"description" validate:"omitempty,max=500"`
	Price         float64 `json:"price" validate:"gte=0"`
	Category      string  `json:"category" validate:"required,max=100"`
	StockQuantity int     `json:"stockQuantity" validate:"gte=0"`
	SKU           string  `json:"sku" validate:"omitempty,max=50"`
	IsActive      *bool   `json:"isActive"`
	IsAvailable   *bool   `json:"isAvailable"`
}

// ProductFilter holds the optional conjunctive filters for listing products.
// Category and Name are substring matches; MinPrice and MaxPrice are
// inclusive bounds. A nil/empty field imposes no constraint.
type ProductFilter struct {
	Category string
	Name     string
	MinPrice *float64
	MaxPrice *float64
}
