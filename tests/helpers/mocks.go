package helpers

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSMSSender records SMS sends.
type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) Send(ctx context.Context, phone, templateCode string, params map[string]string) error {
	args := m.Called(ctx, phone, templateCode, params)
	return args.Error(0)
}

// MockPublisher records event publishes.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	args := m.Called(ctx, topic, payload)
	return args.Error(0)
}
