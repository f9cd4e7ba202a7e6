package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"dangstore-backend/internal/domain"
	"dangstore-backend/internal/middleware"
	"dangstore-backend/internal/service/media"
)

type MediaHandler struct {
	mediaService media.Service
}

func NewMediaHandler(mediaService media.Service) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("File is required")
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	fileReader, err := file.Open()
	if err != nil {
		return middleware.BadRequest("Failed to read file")
	}
	defer fileReader.Close()

	uploaded, err := h.mediaService.Upload(c.Context(), userID, file.Filename, file.Size, mimeType, fileReader)
	if err != nil {
		switch err {
		case media.ErrUnsupportedType:
			return middleware.BadRequest("Only JPEG, PNG, WebP and SVG files are accepted")
		case media.ErrFileTooLarge:
			return middleware.BadRequest("File size must be less than 10MB")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(uploaded)
}

func (h *MediaHandler) Get(c *fiber.Ctx) error {
	mediaID, err := uuid.Parse(c.Params("mediaId"))
	if err != nil {
		return middleware.BadRequest("Invalid media ID")
	}

	found, err := h.mediaService.GetByID(c.Context(), mediaID)
	if err != nil {
		if err == domain.ErrMediaNotFound {
			return middleware.NotFound("Media not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(found)
}

func (h *MediaHandler) ListMine(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	params := getPaginationParams(c)

	result, err := h.mediaService.ListByUploader(c.Context(), userID, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *MediaHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	mediaID, err := uuid.Parse(c.Params("mediaId"))
	if err != nil {
		return middleware.BadRequest("Invalid media ID")
	}

	if err := h.mediaService.Delete(c.Context(), userID, mediaID, middleware.IsAdmin(c)); err != nil {
		switch err {
		case domain.ErrMediaNotFound:
			return middleware.NotFound("Media not found")
		case media.ErrNotUploader:
			return middleware.Forbidden("You can only delete your own files")
		}
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
