package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"dangstore-backend/internal/domain"
	"dangstore-backend/internal/middleware"
	"dangstore-backend/internal/service/product"
)

// ProductHandler covers the admin side of the catalog. The customer
// facing endpoints live in PublicHandler.
type ProductHandler struct {
	productService product.Service
}

func NewProductHandler(productService product.Service) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	created, err := h.productService.Create(c.Context(), userID, input)
	if err != nil {
		switch err {
		case product.ErrInvalidCategory:
			return middleware.BadRequest("Invalid product category")
		case product.ErrSlugTaken:
			return middleware.Conflict("A product with this slug already exists")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)

	var category *domain.ProductCategory
	if q := c.Query("category"); q != "" {
		cat := domain.ProductCategory(q)
		if !cat.IsValid() {
			return middleware.BadRequest("Invalid product category")
		}
		category = &cat
	}

	activeOnly := c.Query("active_only") == "true"

	result, err := h.productService.List(c.Context(), activeOnly, category, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return middleware.BadRequest("Invalid product ID")
	}

	found, err := h.productService.GetByID(c.Context(), productID)
	if err != nil {
		if err == domain.ErrProductNotFound {
			return middleware.NotFound("Product not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(found)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return middleware.BadRequest("Invalid product ID")
	}

	var input domain.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.productService.Update(c.Context(), productID, userID, input)
	if err != nil {
		switch err {
		case domain.ErrProductNotFound:
			return middleware.NotFound("Product not found")
		case product.ErrInvalidCategory:
			return middleware.BadRequest("Invalid product category")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return middleware.BadRequest("Invalid product ID")
	}

	if err := h.productService.Delete(c.Context(), productID, userID); err != nil {
		if err == domain.ErrProductNotFound {
			return middleware.NotFound("Product not found")
		}
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
