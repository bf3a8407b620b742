package channel

import (
	"context"
	"sync"

	"dispatch-service/src/pkg/log"
)

// Handlers are the caller-supplied callbacks for one driver subscription.
// Nil handlers mean the caller does not care about that event kind.
type Handlers struct {
	NewAvailableOrder func(payload []byte)
	OrderUnavailable  func(payload []byte)
	OrderUpdate       func(payload []byte)
}

type subscription struct {
	driverID string
	cancel   func()
	once     sync.Once
}

// Registry owns every open driver subscription for one service instance.
// It replaces the old ambient map of channel handles: lifecycle is explicit,
// and CloseAll tears everything down on shutdown.
type Registry struct {
	bus Bus
	log log.Log

	mu   sync.Mutex
	subs map[*subscription]struct{}
}

func NewRegistry(bus Bus, logger log.Log) *Registry {
	return &Registry{
		bus:  bus,
		log:  logger,
		subs: make(map[*subscription]struct{}),
	}
}

// SubscribeDriver opens the driver's logical channel and dispatches events
// to the handlers. The returned function tears the subscription down;
// calling it more than once is safe, never calling it leaks the
// subscription for the client's lifetime.
func (r *Registry) SubscribeDriver(driverID string, handlers Handlers) (func(), error) {
	dispatch := func(event string, payload []byte) {
		switch event {
		case EventNewAvailableOrder:
			if handlers.NewAvailableOrder != nil {
				handlers.NewAvailableOrder(payload)
			}
		case EventOrderUnavailable:
			if handlers.OrderUnavailable != nil {
				handlers.OrderUnavailable(payload)
			}
		case EventOrderUpdate:
			if handlers.OrderUpdate != nil {
				handlers.OrderUpdate(payload)
			}
		default:
			r.log.Info("channel-registry", "unknown driver event "+event, "SubscribeDriver", driverID)
		}
	}

	cancel, err := r.bus.Subscribe(driverID, dispatch)
	if err != nil {
		return nil, err
	}

	sub := &subscription{driverID: driverID, cancel: cancel}
	r.mu.Lock()
	r.subs[sub] = struct{}{}
	r.mu.Unlock()

	return func() {
		sub.once.Do(func() {
			sub.cancel()
			r.mu.Lock()
			delete(r.subs, sub)
			r.mu.Unlock()
		})
	}, nil
}

// Publish sends one event to one driver's channel. Best effort: the caller
// decides whether an error is worth more than a log line.
func (r *Registry) Publish(ctx context.Context, driverID, event string, payload any) error {
	return r.bus.Publish(ctx, driverID, event, payload)
}

// CloseAll tears down every open subscription. For shutdown paths and tests.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	subs := make([]*subscription, 0, len(r.subs))
	for sub := range r.subs {
		subs = append(subs, sub)
	}
	r.subs = make(map[*subscription]struct{})
	r.mu.Unlock()

	for _, sub := range subs {
		sub.once.Do(sub.cancel)
	}
}
