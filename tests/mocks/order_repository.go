package mocks

import (
	"context"
	"time"

	"dangstore-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params domain.PaginationParams) ([]domain.Order, int64, error) {
	args := m.Called(ctx, customerID, params)
	return args.Get(0).([]domain.Order), args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepository) List(ctx context.Context, status *domain.OrderStatus, params domain.PaginationParams) ([]domain.Order, int64, error) {
	args := m.Called(ctx, status, params)
	return args.Get(0).([]domain.Order), args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepository) UpdateStatus(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepository) CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepository) LastOrderAt(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}
