package repositories

import (
	"katalog/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(filter models.ProductFilter) ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	ExistsBySKU(sku string, excludeID uint) (bool, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
}
