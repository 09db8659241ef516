package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, key string, v any) error {
	return m.Called(key, v).Error(0)
}

func (m *mockPublisher) Close() error { return nil }

func TestEmitSwallowsErrors(t *testing.T) {
	p := &mockPublisher{}
	ev := BookingEvent{Status: "confirmed"}
	p.On("Publish", BookingCreated, ev).Return(assert.AnError)

	Emit(context.Background(), p, BookingCreated, ev)
	p.AssertExpectations(t)
}

func TestEmitNilAndNop(t *testing.T) {
	Emit(context.Background(), nil, PaymentCompleted, PaymentEvent{})
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), PaymentCompleted, nil))
	assert.NoError(t, NopPublisher{}.Close())
}
