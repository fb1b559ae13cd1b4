package eventbus

import (
	"MediVerify/internal/core/ports"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventBus_FanOut(t *testing.T) {
	nopLogger := zerolog.Nop()
	bus := NewInMemoryEventBus(time.Second, &nopLogger)

	var hits atomic.Int32
	handler := func(ctx context.Context, e ports.Event) error {
		assert.Equal(t, ports.TopicDoctorReviewed, e.Topic)
		hits.Add(1)
		return nil
	}
	bus.Subscribe(ports.TopicDoctorReviewed, handler)
	bus.Subscribe(ports.TopicDoctorReviewed, handler)
	bus.Subscribe(ports.TopicAbhaVerified, func(ctx context.Context, e ports.Event) error {
		t.Error("wrong topic delivered")
		return nil
	})

	require.NoError(t, bus.Publish(testContext(t), ports.TopicDoctorReviewed, "payload"))
	require.NoError(t, bus.Wait(testContext(t)))
	assert.Equal(t, int32(2), hits.Load())
}

func TestInMemoryEventBus_HandlerOutlivesPublisherContext(t *testing.T) {
	nopLogger := zerolog.Nop()
	bus := NewInMemoryEventBus(time.Second, &nopLogger)

	var sawCancel atomic.Bool
	bus.Subscribe("t", func(ctx context.Context, e ports.Event) error {
		time.Sleep(10 * time.Millisecond)
		sawCancel.Store(ctx.Err() != nil)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Publish(ctx, "t", nil))
	cancel()

	require.NoError(t, bus.Wait(context.Background()))
	assert.False(t, sawCancel.Load())
}

func TestInMemoryEventBus_FailuresAndPanicsAreContained(t *testing.T) {
	nopLogger := zerolog.Nop()
	bus := NewInMemoryEventBus(time.Second, &nopLogger)

	var ok atomic.Bool
	bus.Subscribe("t", func(ctx context.Context, e ports.Event) error { return errors.New("nope") })
	bus.Subscribe("t", func(ctx context.Context, e ports.Event) error { panic("boom") })
	bus.Subscribe("t", func(ctx context.Context, e ports.Event) error { ok.Store(true); return nil })

	require.NoError(t, bus.Publish(testContext(t), "t", nil))
	require.NoError(t, bus.Wait(testContext(t)))
	assert.True(t, ok.Load())

	assert.NoError(t, bus.Publish(testContext(t), "nobody-listens", nil))
}
