package repositories

import (
	"fmt"
	"strings"
	"sync"

	"katalog/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It mirrors the GORM implementation's semantics, including the unique
// constraint on SKU, so it can stand in for the real store in tests.
type MockProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

func matchesFilter(p models.Product, filter models.ProductFilter) bool {
	if filter.Category != "" && !strings.Contains(p.Category, filter.Category) {
		return false
	}
	if filter.Name != "" && !strings.Contains(p.Name, filter.Name) {
		return false
	}
	if filter.MinPrice != nil && p.Price < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
		return false
	}
	return true
}

// List returns all products matching the filter.
func (r *MockProductRepository) List(filter models.ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if matchesFilter(p, filter) {
			productList = append(productList, p)
		}
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d not found", id)
	}
	return &product, nil
}

// ExistsBySKU reports whether a product other than excludeID holds the SKU.
func (r *MockProductRepository) ExistsBySKU(sku string, excludeID uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.skuTaken(sku, excludeID), nil
}

func (r *MockProductRepository) skuTaken(sku string, excludeID uint) bool {
	for _, p := range r.products {
		if p.SKU == sku && p.ID != excludeID {
			return true
		}
	}
	return false
}

// Create adds a new product, assigning it the next free ID.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.skuTaken(product.SKU, 0) {
		return fmt.Errorf("product with SKU %s already exists", product.SKU)
	}
	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
	} else if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %d not found for update", product.ID)
	}
	if r.skuTaken(product.SKU, product.ID) {
		return fmt.Errorf("product with SKU %s already exists", product.SKU)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %d not found for deletion", id)
	}
	delete(r.products, id)
	return nil
}
