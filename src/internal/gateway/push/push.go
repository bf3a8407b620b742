package push

import (
	"context"

	"dispatch-service/src/internal/gateway/messaging"
	"dispatch-service/src/internal/model"
	kafka "dispatch-service/src/pkg/kafka/confluent"
	"dispatch-service/src/pkg/log"

	"github.com/google/uuid"
)

// Push display channels.
const (
	ChannelOrders   = "orders"
	ChannelSystem   = "system"
	ChannelMessages = "messages"
)

// Notifier shows a push notification to one recipient. Fire-and-forget:
// no delivery receipt ever comes back to this service.
type Notifier interface {
	Show(ctx context.Context, push *model.PushEvent) error
}

// KafkaNotifier hands pushes to the device gateways via the
// push-notifications topic.
type KafkaNotifier struct {
	producer messaging.Producer[*model.PushEvent]
}

func NewKafkaNotifier(producer kafka.Producer, logger log.Log) *KafkaNotifier {
	return &KafkaNotifier{
		producer: messaging.Producer[*model.PushEvent]{
			Producer: producer,
			Topic:    messaging.TopicPushNotifications,
			Log:      logger,
		},
	}
}

func (n *KafkaNotifier) Show(_ context.Context, push *model.PushEvent) error {
	if push.ID == "" {
		push.ID = uuid.NewString()
	}
	return n.producer.Send(push)
}
