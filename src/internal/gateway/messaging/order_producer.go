package messaging

import (
	"dispatch-service/src/internal/model"
	kafka "dispatch-service/src/pkg/kafka/confluent"
	"dispatch-service/src/pkg/log"
)

const (
	TopicOrderEvents       = "order-events"
	TopicPushNotifications = "push-notifications"
)

// OrderProducer publishes order change-feed events. Keyed by order id so
// every event of one order lands on the same partition in order.
type OrderProducer struct {
	ChangeProducer Producer[*model.OrderChangeEvent]
}

func NewOrderProducer(producer kafka.Producer, log log.Log) *OrderProducer {
	return &OrderProducer{
		ChangeProducer: Producer[*model.OrderChangeEvent]{
			Producer: producer,
			Topic:    TopicOrderEvents,
			Log:      log,
		},
	}
}

func (p *OrderProducer) SendOrderChange(event *model.OrderChangeEvent) error {
	return p.ChangeProducer.Send(event)
}
