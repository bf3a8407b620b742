package channel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Driver channel event kinds.
const (
	EventNewAvailableOrder = "new_available_order"
	EventOrderUnavailable  = "order_unavailable"
	EventOrderUpdate       = "order_update"
)

// Envelope is the wire frame on a driver channel.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Bus is the transport behind per-driver ephemeral channels. Production
// traffic rides Redis pub/sub; tests swap in an in-memory bus.
type Bus interface {
	Publish(ctx context.Context, driverID, event string, payload any) error
	Subscribe(driverID string, fn func(event string, payload []byte)) (func(), error)
}

func channelName(driverID string) string {
	return fmt.Sprintf("driver:events:%s", driverID)
}

// RedisBus maps each driver to one pub/sub channel. Messages are dropped if
// nobody is subscribed, which is the ephemeral contract: durability comes
// from the mailbox, not from the channel.
type RedisBus struct {
	Client redis.UniversalClient
}

func NewRedisBus(client redis.UniversalClient) *RedisBus {
	return &RedisBus{Client: client}
}

func (b *RedisBus) Publish(ctx context.Context, driverID, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(Envelope{Event: event, Payload: raw})
	if err != nil {
		return err
	}
	return b.Client.Publish(ctx, channelName(driverID), frame).Err()
}

func (b *RedisBus) Subscribe(driverID string, fn func(event string, payload []byte)) (func(), error) {
	sub := b.Client.Subscribe(context.Background(), channelName(driverID))
	if _, err := sub.Receive(context.Background()); err != nil {
		_ = sub.Close()
		return nil, err
	}

	go func() {
		for msg := range sub.Channel() {
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				continue
			}
			fn(env.Event, env.Payload)
		}
	}()

	return func() { _ = sub.Close() }, nil
}
