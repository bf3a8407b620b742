package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_HappyPath(t *testing.T) {
	path := []OrderStatus{
		StatusPending, StatusConfirmed, StatusPreparing,
		StatusReady, StatusOutForDelivery, StatusDelivered,
	}
	for i := 0; i < len(path)-1; i++ {
		assert.True(t, CanTransition(path[i], path[i+1]), "%s -> %s", path[i], path[i+1])
	}
}

func TestCanTransition_CancelFromAnyNonTerminal(t *testing.T) {
	for from := range validNext {
		if from.IsTerminal() {
			assert.False(t, CanTransition(from, StatusCancelled), "terminal %s must not cancel", from)
			continue
		}
		assert.True(t, CanTransition(from, StatusCancelled), "%s -> cancelled", from)
	}
}

func TestCanTransition_NoSkips(t *testing.T) {
	assert.False(t, CanTransition(StatusPending, StatusReady))
	assert.False(t, CanTransition(StatusReady, StatusDelivered))
	assert.False(t, CanTransition(StatusDelivered, StatusPending))
	assert.False(t, CanTransition(StatusCancelled, StatusConfirmed))
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, OrderStatus("ready").Valid())
	assert.False(t, OrderStatus("READY").Valid())
	assert.False(t, OrderStatus("shipped").Valid())
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusOutForDelivery.IsTerminal())
}
