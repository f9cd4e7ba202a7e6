package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"dangstore-backend/internal/domain"
	"dangstore-backend/internal/middleware"
	"dangstore-backend/internal/service/review"
)

type ReviewHandler struct {
	reviewService review.Service
}

func NewReviewHandler(reviewService review.Service) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return middleware.BadRequest("Invalid product ID")
	}

	var input domain.CreateReviewInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	created, err := h.reviewService.Create(c.Context(), productID, userID, input)
	if err != nil {
		switch err {
		case review.ErrInvalidRating:
			return middleware.BadRequest("Rating must be between 1 and 5")
		case domain.ErrProductNotFound:
			return middleware.NotFound("Product not found")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	reviewID, err := uuid.Parse(c.Params("reviewId"))
	if err != nil {
		return middleware.BadRequest("Invalid review ID")
	}

	var input domain.UpdateReviewInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.reviewService.Update(c.Context(), userID, reviewID, middleware.IsAdmin(c), input)
	if err != nil {
		switch err {
		case domain.ErrReviewNotFound:
			return middleware.NotFound("Review not found")
		case review.ErrInvalidRating:
			return middleware.BadRequest("Rating must be between 1 and 5")
		case review.ErrNotReviewer:
			return middleware.Forbidden("You can only edit your own reviews")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	reviewID, err := uuid.Parse(c.Params("reviewId"))
	if err != nil {
		return middleware.BadRequest("Invalid review ID")
	}

	if err := h.reviewService.Delete(c.Context(), userID, reviewID, middleware.IsAdmin(c)); err != nil {
		switch err {
		case domain.ErrReviewNotFound:
			return middleware.NotFound("Review not found")
		case review.ErrNotReviewer:
			return middleware.Forbidden("You can only delete your own reviews")
		}
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
