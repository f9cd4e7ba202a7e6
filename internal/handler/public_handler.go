package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"dangstore-backend/internal/domain"
	"dangstore-backend/internal/middleware"
	"dangstore-backend/internal/service/product"
	"dangstore-backend/internal/service/review"
)

// PublicHandler serves the storefront without authentication: the
// catalog, individual products by slug, and their reviews.
type PublicHandler struct {
	productService product.Service
	reviewService  review.Service
}

func NewPublicHandler(productService product.Service, reviewService review.Service) *PublicHandler {
	return &PublicHandler{
		productService: productService,
		reviewService:  reviewService,
	}
}

func (h *PublicHandler) ListCatalog(c *fiber.Ctx) error {
	params := getPaginationParams(c)

	var category *domain.ProductCategory
	if q := c.Query("category"); q != "" {
		cat := domain.ProductCategory(q)
		if !cat.IsValid() {
			return middleware.BadRequest("Invalid product category")
		}
		category = &cat
	}

	result, err := h.productService.ListCatalog(c.Context(), category, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *PublicHandler) GetProduct(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return middleware.BadRequest("Product slug is required")
	}

	found, err := h.productService.GetBySlug(c.Context(), slug)
	if err != nil {
		if err == domain.ErrProductNotFound {
			return middleware.NotFound("Product not found")
		}
		return err
	}

	if !found.IsActive {
		return middleware.NotFound("Product not found")
	}

	return c.Status(fiber.StatusOK).JSON(found)
}

func (h *PublicHandler) SearchProducts(c *fiber.Ctx) error {
	query := c.Query("q")
	limit := c.QueryInt("limit", 10)

	if len(query) < 2 {
		return middleware.BadRequest("Search query must be at least 2 characters")
	}

	results, err := h.productService.Search(c.Context(), query, limit)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"results": results})
}

func (h *PublicHandler) ListReviews(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return middleware.BadRequest("Invalid product ID")
	}

	params := getPaginationParams(c)

	result, err := h.reviewService.ListByProduct(c.Context(), productID, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *PublicHandler) GetRating(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return middleware.BadRequest("Invalid product ID")
	}

	summary, err := h.reviewService.RatingSummary(c.Context(), productID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}
