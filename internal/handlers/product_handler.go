package handlers

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"katalog/internal/middleware"
	"katalog/internal/models"
	"katalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
// Reads are public; creating and updating require the manager role,
// deleting requires admin. The role check runs before dispatch, so the
// service never sees an unauthorized request.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authService *services.AuthService) {
	productRoutes := router.Group("/products")

	productRoutes.Get("/", h.HandleListProducts)
	// Must be registered before "/:id" so "by-category" is not read as an ID.
	productRoutes.Get("/by-category/:category", h.HandleListByCategory)
	productRoutes.Get("/:id", h.HandleGetProduct)

	auth := middleware.AuthRequired(authService)
	productRoutes.Post("/", auth, middleware.RequireRoles(models.RoleManager, models.RoleAdmin), h.HandleCreateProduct)
	productRoutes.Put("/:id", auth, middleware.RequireRoles(models.RoleManager, models.RoleAdmin), h.HandleUpdateProduct)
	productRoutes.Delete("/:id", auth, middleware.RequireRoles(models.RoleAdmin), h.HandleDeleteProduct)
}

// parseProductID parses the ":id" route parameter.
func parseProductID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid product ID %q", c.Params("id"))
	}
	return uint(id), nil
}

// parsePriceQuery parses an optional decimal query parameter.
func parsePriceQuery(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q", key, raw)
	}
	return &value, nil
}

// HandleListProducts retrieves all products, optionally filtered by
// category, name (substring matches) and an inclusive price range.
// All supplied filters are combined with AND.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	minPrice, err := parsePriceQuery(c, "minPrice")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	maxPrice, err := parsePriceQuery(c, "maxPrice")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	filter := models.ProductFilter{
		Category: c.Query("category"),
		Name:     c.Query("name"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}

	products, err := h.service.ListProducts(filter)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		log.Printf("Error getting product by ID %d: %v", id, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %d not found", id),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleListByCategory retrieves all products whose category contains the
// given path segment. An unmatched category yields an empty list, not an
// error.
func (h *ProductHandler) HandleListByCategory(c *fiber.Ctx) error {
	category := c.Params("category")

	products, err := h.service.ListProductsByCategory(category)
	if err != nil {
		log.Printf("Error listing products by category %s: %v", category, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleCreateProduct creates a new product. Responds 201 with the created
// product and a Location header addressing the get route, or 409 when the
// SKU is already taken.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrorMessages(err),
		})
	}

	product, err := h.service.CreateProduct(&req)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		if strings.Contains(err.Error(), "already exists") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with SKU %s already exists", req.SKU),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}

	c.Location(fmt.Sprintf("/api/v1/products/%d", product.ID))
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates an existing product. Responds 204 on success,
// 404 when the ID does not exist, or 409 when the new SKU is already taken
// by another product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrorMessages(err),
		})
	}

	if _, err := h.service.UpdateProduct(id, &req); err != nil {
		log.Printf("Error updating product %d: %v", id, err)
		if strings.Contains(err.Error(), "already exists") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with SKU %s already exists", req.SKU),
			})
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %d not found", id),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteProduct permanently removes a product. Responds 204 on
// success or 404 when the ID does not exist, including repeated deletes.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	if err := h.service.DeleteProduct(id); err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %d not found", id),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// validationErrorMessages flattens validator errors into a field -> message map.
func validationErrorMessages(err error) map[string]string {
	errorMessages := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return errorMessages
}
