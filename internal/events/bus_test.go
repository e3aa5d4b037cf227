package events

import (
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus(quietLogger())

	var mu sync.Mutex
	var got []Event
	require.NoError(t, bus.Subscribe(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev)
	}))

	bus.Publish(SaleCreated, map[string]int{"id": 1})
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, SaleCreated, got[0].Name)
	assert.Equal(t, map[string]int{"id": 1}, got[0].Payload)
	assert.False(t, got[0].At.IsZero())
}

func TestBusPublishSurvivesPanickingSubscriber(t *testing.T) {
	bus := NewBus(quietLogger())

	require.NoError(t, bus.Subscribe(func(Event) { panic("boom") }))

	assert.NotPanics(t, func() {
		bus.Publish(ProductUpdated, nil)
		bus.Wait()
	})
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus(quietLogger())

	assert.NotPanics(t, func() { bus.Publish(SaleDeleted, 5) })
}
