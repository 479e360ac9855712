package testutils

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockEventProducer struct {
	mock.Mock
}

func (m *MockEventProducer) Send(ctx context.Context, topic string, key string, message interface{}) error {
	args := m.Called(ctx, topic, key, message)
	return args.Error(0)
}

type MockQueueClient struct {
	mock.Mock
}

func (m *MockQueueClient) PutResult(ctx context.Context, header, body string) error {
	args := m.Called(ctx, header, body)
	return args.Error(0)
}
