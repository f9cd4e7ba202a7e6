package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Publisher stands in for the realtime hub.
type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(userID uuid.UUID, event string, data interface{}) int {
	args := m.Called(userID, event, data)
	return args.Int(0)
}
