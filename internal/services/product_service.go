package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/pkg/rabbitmq"
)

// ProductService handles business logic related to the product catalog.
type ProductService struct {
	repo     repositories.ProductRepository
	mqClient *rabbitmq.Client // optional, nil disables event publishing
}

// NewProductService creates a new ProductService. mqClient may be nil, in
// which case catalog change events are not published.
func NewProductService(repo repositories.ProductRepository, mqClient *rabbitmq.Client) *ProductService {
	return &ProductService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// ListProducts retrieves all products matching the given filter.
// An empty filter returns every product in the store.
func (s *ProductService) ListProducts(filter models.ProductFilter) ([]models.Product, error) {
	return s.repo.List(filter)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// ListProductsByCategory retrieves all products whose category contains the
// given value, with the same substring semantics as the list filter.
func (s *ProductService) ListProductsByCategory(category string) ([]models.Product, error) {
	return s.repo.List(models.ProductFilter{Category: category})
}

// CreateProduct creates a new product from the request.
// The SKU must not be held by any existing product; IsActive defaults to
// true when absent; IsAvailable and CreatedAt are always set by the server.
// The SKU pre-check is an early exit only: the store's unique index is the
// real guarantee, and a duplicate-key error from the insert surfaces as the
// same conflict.
func (s *ProductService) CreateProduct(req *models.CreateProductRequest) (*models.Product, error) {
	exists, err := s.repo.ExistsBySKU(req.SKU, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check SKU %s: %w", req.SKU, err)
	}
	if exists {
		return nil, fmt.Errorf("product with SKU %s already exists", req.SKU)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		StockQuantity: req.StockQuantity,
		SKU:           req.SKU,
		IsActive:      isActive,
		IsAvailable:   true,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}

	s.publishEvent("product.created", product)
	return product, nil
}

// UpdateProduct applies the request to an existing product.
// Name, Description, Price, Category and StockQuantity always replace the
// stored values. SKU is replaced only when non-empty and different from the
// current one, after re-checking uniqueness against all other products.
// IsActive and IsAvailable are applied only when present. UpdatedAt is
// stamped on every successful call, even when no value changed.
func (s *ProductService) UpdateProduct(id uint, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.SKU != "" && req.SKU != product.SKU {
		exists, err := s.repo.ExistsBySKU(req.SKU, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check SKU %s: %w", req.SKU, err)
		}
		if exists {
			return nil, fmt.Errorf("product with SKU %s already exists", req.SKU)
		}
		product.SKU = req.SKU
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Category = req.Category
	product.StockQuantity = req.StockQuantity

	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	now := time.Now().UTC()
	product.UpdatedAt = &now

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}

	s.publishEvent("product.updated", product)
	return product, nil
}

// DeleteProduct permanently removes a product by its ID.
// Deleting a nonexistent ID is an error, not a silent success.
func (s *ProductService) DeleteProduct(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.publishEvent("product.deleted", &models.Product{ID: id})
	return nil
}

// publishEvent publishes a catalog change event to RabbitMQ. Publishing is
// best-effort: failures are logged and never surfaced to the caller.
func (s *ProductService) publishEvent(eventType string, product *models.Product) {
	if s.mqClient == nil {
		return
	}

	eventPayload := map[string]interface{}{
		"productID": product.ID,
		"sku":       product.SKU,
		"name":      product.Name,
		"category":  product.Category,
	}

	body, err := json.Marshal(eventPayload)
	if err != nil {
		log.Printf("Failed to marshal catalog event to JSON: %v", err)
		return
	}
	if err := s.mqClient.PublishCatalogEvent(eventType, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %d: %v", eventType, product.ID, err)
	}
}
