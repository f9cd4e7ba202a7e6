package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"dangstore-backend/internal/domain"
	"dangstore-backend/internal/middleware"
	"dangstore-backend/internal/service/order"
)

type OrderHandler struct {
	orderService order.Service
}

func NewOrderHandler(orderService order.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	created, err := h.orderService.Create(c.Context(), userID, input)
	if err != nil {
		switch err {
		case domain.ErrEmptyOrder:
			return middleware.BadRequest("Order must contain at least one item")
		case order.ErrBlankOrderItem:
			return middleware.BadRequest("Each item needs a product or a custom design")
		case domain.ErrProductNotFound:
			return middleware.BadRequest("Order references an unknown product")
		case domain.ErrMediaNotFound:
			return middleware.BadRequest("Order references an unknown design file")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	params := getPaginationParams(c)

	result, err := h.orderService.ListByCustomer(c.Context(), userID, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)

	var status *domain.OrderStatus
	if q := c.Query("status"); q != "" {
		s := domain.OrderStatus(q)
		if !s.IsValid() {
			return middleware.BadRequest("Invalid order status")
		}
		status = &s
	}

	result, err := h.orderService.List(c.Context(), status, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return middleware.BadRequest("Invalid order ID")
	}

	found, err := h.orderService.GetByID(c.Context(), userID, orderID, middleware.IsAdmin(c))
	if err != nil {
		if err == domain.ErrOrderNotFound {
			return middleware.NotFound("Order not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(found)
}

func (h *OrderHandler) Quote(c *fiber.Ctx) error {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return middleware.BadRequest("Invalid order ID")
	}

	var input domain.QuoteOrderInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.PriceCents < 1 {
		return middleware.BadRequest("Quoted price must be positive")
	}

	quoted, err := h.orderService.Quote(c.Context(), adminID, orderID, input)
	if err != nil {
		switch err {
		case domain.ErrOrderNotFound:
			return middleware.NotFound("Order not found")
		case domain.ErrInvalidOrderTransition:
			return middleware.Conflict("Order cannot be quoted in its current status")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(quoted)
}

func (h *OrderHandler) Accept(c *fiber.Ctx) error {
	return h.decide(c, true)
}

func (h *OrderHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, false)
}

func (h *OrderHandler) decide(c *fiber.Ctx, accepted bool) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return middleware.BadRequest("Invalid order ID")
	}

	decided, err := h.orderService.Decide(c.Context(), userID, orderID, accepted)
	if err != nil {
		switch err {
		case domain.ErrOrderNotFound:
			return middleware.NotFound("Order not found")
		case domain.ErrInvalidOrderTransition:
			return middleware.Conflict("Order has no open quote to decide on")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(decided)
}

func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return middleware.BadRequest("Invalid order ID")
	}

	completed, err := h.orderService.Complete(c.Context(), adminID, orderID)
	if err != nil {
		switch err {
		case domain.ErrOrderNotFound:
			return middleware.NotFound("Order not found")
		case domain.ErrInvalidOrderTransition:
			return middleware.Conflict("Only accepted orders can be completed")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(completed)
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return middleware.BadRequest("Invalid order ID")
	}

	cancelled, err := h.orderService.Cancel(c.Context(), userID, orderID, middleware.IsAdmin(c))
	if err != nil {
		switch err {
		case domain.ErrOrderNotFound:
			return middleware.NotFound("Order not found")
		case domain.ErrInvalidOrderTransition:
			return middleware.Conflict("Order cannot be cancelled in its current status")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(cancelled)
}
