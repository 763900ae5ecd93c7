package services

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock for the EventPublisher interface
type MockEventPublisher struct {
	mock.Mock
}

// Publish records the call and returns the configured error
func (m *MockEventPublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	args := m.Called(ctx, eventType, data)
	return args.Error(0)
}
