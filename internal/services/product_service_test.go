package services_test

import (
	"fmt"
	"testing"
	"time"

	"katalog/internal/models"
	"katalog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(filter models.ProductFilter) ([]models.Product, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(sku string, excludeID uint) (bool, error) {
	args := m.Called(sku, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestProductService_ListProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expectedProducts := []models.Product{
		{ID: 1, Name: "Product A", Category: "Tools", SKU: "T-001", Price: 10.0, StockQuantity: 100},
		{ID: 2, Name: "Product B", Category: "Tools", SKU: "T-002", Price: 20.0, StockQuantity: 50},
	}

	// The filter is handed to the repository untouched.
	minPrice := 10.0
	maxPrice := 20.0
	filter := models.ProductFilter{Category: "Tools", MinPrice: &minPrice, MaxPrice: &maxPrice}
	mockRepo.On("List", filter).Return(expectedProducts, nil).Once()

	products, err := service.ListProducts(filter)

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_ListProductsByCategory(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expectedProducts := []models.Product{
		{ID: 1, Name: "Hammer", Category: "Tools", SKU: "T-001", Price: 10.0},
	}

	// Category listing reuses the list filter's substring semantics.
	mockRepo.On("List", models.ProductFilter{Category: "Tool"}).Return(expectedProducts, nil).Once()

	products, err := service.ListProductsByCategory("Tool")
	assert.NoError(t, err)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)

	// An unmatched category is an empty list, not an error.
	mockRepo.On("List", models.ProductFilter{Category: "Garden"}).Return([]models.Product{}, nil).Once()
	products, err = service.ListProductsByCategory("Garden")
	assert.NoError(t, err)
	assert.Empty(t, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expectedProduct := &models.Product{ID: 1, Name: "Product A", SKU: "A-001", Price: 10.0}

	// Test successful retrieval
	mockRepo.On("GetByID", uint(1)).Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(1)
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Test product not found
	mockRepo.On("GetByID", uint(99)).Return(nil, fmt.Errorf("product with ID 99 not found")).Once()
	product, err = service.GetProductByID(99)
	assert.Error(t, err)
	assert.Nil(t, product)
	assert.Contains(t, err.Error(), "not found")
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	req := &models.CreateProductRequest{
		Name:          "Widget",
		Price:         9.99,
		Category:      "Tools",
		StockQuantity: 5,
		SKU:           "W-001",
	}

	mockRepo.On("ExistsBySKU", "W-001", uint(0)).Return(false, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Product).ID = 7 // store-assigned ID
	}).Return(nil).Once()

	before := time.Now().UTC()
	product, err := service.CreateProduct(req)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), product.ID)
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, "W-001", product.SKU)
	assert.True(t, product.IsActive, "IsActive defaults to true when absent")
	assert.True(t, product.IsAvailable, "IsAvailable is always true on creation")
	assert.Nil(t, product.UpdatedAt, "UpdatedAt stays unset until the first update")
	assert.False(t, product.CreatedAt.Before(before))
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_ExplicitInactive(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	inactive := false
	req := &models.CreateProductRequest{
		Name:     "Widget",
		Category: "Tools",
		SKU:      "W-002",
		IsActive: &inactive,
	}

	mockRepo.On("ExistsBySKU", "W-002", uint(0)).Return(false, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := service.CreateProduct(req)
	assert.NoError(t, err)
	assert.False(t, product.IsActive)
	assert.True(t, product.IsAvailable, "creation cannot set IsAvailable")
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_DuplicateSKU(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	req := &models.CreateProductRequest{Name: "Widget", Category: "Tools", SKU: "W-001"}

	// The advisory pre-check reports the conflict.
	mockRepo.On("ExistsBySKU", "W-001", uint(0)).Return(true, nil).Once()
	product, err := service.CreateProduct(req)
	assert.Error(t, err)
	assert.Nil(t, product)
	assert.Contains(t, err.Error(), "already exists")
	mockRepo.AssertExpectations(t)

	// A duplicate-key error from the store surfaces as the same conflict
	// even when the pre-check raced past a concurrent insert.
	mockRepo.On("ExistsBySKU", "W-001", uint(0)).Return(false, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).
		Return(fmt.Errorf("product with SKU W-001 already exists")).Once()
	product, err = service.CreateProduct(req)
	assert.Error(t, err)
	assert.Nil(t, product)
	assert.Contains(t, err.Error(), "already exists")
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	existing := func() *models.Product {
		return &models.Product{
			ID: 1, Name: "Widget", Description: "A widget", Price: 9.99,
			Category: "Tools", StockQuantity: 5, SKU: "W-001",
			IsActive: true, IsAvailable: true, CreatedAt: created,
		}
	}

	req := &models.UpdateProductRequest{
		Name:          "Widget",
		Description:   "A widget",
		Price:         9.99,
		Category:      "Tools",
		StockQuantity: 0,
	}

	mockRepo.On("GetByID", uint(1)).Return(existing(), nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := service.UpdateProduct(1, req)
	assert.NoError(t, err)
	assert.Equal(t, 0, product.StockQuantity, "the five scalar fields are always replaced")
	assert.Equal(t, "W-001", product.SKU, "empty request SKU leaves the stored SKU alone")
	assert.True(t, product.IsActive, "absent IsActive is not applied")
	assert.True(t, product.IsAvailable, "absent IsAvailable is not applied")
	assert.NotNil(t, product.UpdatedAt, "UpdatedAt is stamped on every successful update")
	assert.Equal(t, created, product.CreatedAt, "CreatedAt is immutable")
	mockRepo.AssertExpectations(t)

	// Same SKU as the product's own: no uniqueness check, still succeeds.
	sameSKU := *req
	sameSKU.SKU = "W-001"
	mockRepo.On("GetByID", uint(1)).Return(existing(), nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Product")).Return(nil).Once()
	_, err = service.UpdateProduct(1, &sameSKU)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Optional booleans are applied when present.
	unavailable := false
	withFlags := *req
	withFlags.IsAvailable = &unavailable
	mockRepo.On("GetByID", uint(1)).Return(existing(), nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Product")).Return(nil).Once()
	product, err = service.UpdateProduct(1, &withFlags)
	assert.NoError(t, err)
	assert.False(t, product.IsAvailable)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct_SKUConflict(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	existing := &models.Product{ID: 1, Name: "Widget", Category: "Tools", SKU: "W-001"}

	req := &models.UpdateProductRequest{Name: "Widget", Category: "Tools", SKU: "W-002"}

	// Another product already holds the requested SKU.
	mockRepo.On("GetByID", uint(1)).Return(existing, nil).Once()
	mockRepo.On("ExistsBySKU", "W-002", uint(1)).Return(true, nil).Once()
	product, err := service.UpdateProduct(1, req)
	assert.Error(t, err)
	assert.Nil(t, product)
	assert.Contains(t, err.Error(), "already exists")
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	req := &models.UpdateProductRequest{Name: "Ghost", Category: "Tools"}

	mockRepo.On("GetByID", uint(99)).Return(nil, fmt.Errorf("product with ID 99 not found")).Once()
	product, err := service.UpdateProduct(99, req)
	assert.Error(t, err)
	assert.Nil(t, product)
	assert.Contains(t, err.Error(), "not found")
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	// Test successful deletion
	mockRepo.On("Delete", uint(1)).Return(nil).Once()
	err := service.DeleteProduct(1)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Deleting a nonexistent ID fails instead of succeeding silently.
	mockRepo.On("Delete", uint(99)).Return(fmt.Errorf("product with ID 99 not found for deletion")).Once()
	err = service.DeleteProduct(99)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found for deletion")
	mockRepo.AssertExpectations(t)
}
