package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/gateway/channel"
	"dispatch-service/src/internal/gateway/messaging"
	"dispatch-service/src/internal/gateway/push"
	"dispatch-service/src/internal/model"
	kafka "dispatch-service/src/pkg/kafka/confluent"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"

	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"
)

// StatusNotifier is the orchestrator entry point the bridge drives.
type StatusNotifier interface {
	SendOrderStatusNotification(ctx context.Context, request *model.SendStatusNotificationRequest) utils.Result
}

// OrderEventBridge reacts to every writer of the order table through the
// change feed, not just this service's own usecases. Status transitions go
// to the orchestrator; a driver assignment additionally gets a transient
// push and an order_update channel event (the durable driver mailbox row
// stays with the orchestrator's out_for_delivery handler, so one transition
// produces one durable record).
type OrderEventBridge struct {
	Log          log.Log
	Notification StatusNotifier
	Channels     *channel.Registry
	Push         push.Notifier
	Consumer     kafka.Consumer
}

func NewOrderEventBridge(
	logger log.Log,
	notification StatusNotifier,
	channels *channel.Registry,
	notifier push.Notifier,
	consumer kafka.Consumer,
) *OrderEventBridge {
	return &OrderEventBridge{
		Log:          logger,
		Notification: notification,
		Channels:     channels,
		Push:         notifier,
		Consumer:     consumer,
	}
}

// Start subscribes the bridge to the order change feed.
func (b *OrderEventBridge) Start() {
	if b.Consumer == nil {
		b.Log.Error("order-bridge", "kafka consumer disabled, realtime bridge inactive", "Start", "")
		return
	}
	b.Consumer.SetHandler(b)
	b.Consumer.Subscribe(messaging.TopicOrderEvents)
}

func (b *OrderEventBridge) Stop() {
	if b.Consumer != nil {
		b.Consumer.Close()
	}
}

func (b *OrderEventBridge) HandleMessage(message *k.Message) {
	var event model.OrderChangeEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		b.Log.Error("order-bridge", fmt.Sprintf("undecodable change event: %v", err), "HandleMessage", string(message.Key))
		return
	}
	b.handleChange(context.Background(), &event)
}

func (b *OrderEventBridge) handleChange(ctx context.Context, event *model.OrderChangeEvent) {
	after := event.After
	if after == nil {
		return
	}
	before := event.Before

	statusChanged := before == nil || before.Status != after.Status
	alreadyFinal := before != nil && entity.OrderStatus(before.Status).IsTerminal()

	if statusChanged && !alreadyFinal {
		result := b.Notification.SendOrderStatusNotification(ctx, &model.SendStatusNotificationRequest{
			OrderID: after.ID,
			Status:  after.Status,
		})
		if result.Error != nil {
			b.Log.Error("order-bridge", fmt.Sprintf("status notification failed: %v", result.Error), "handleChange", after.ID)
		}
	}

	driverAssigned := after.DriverID != nil && (before == nil || before.DriverID == nil)
	if driverAssigned {
		b.notifyDriverAssigned(ctx, after)
	}
}

func (b *OrderEventBridge) notifyDriverAssigned(ctx context.Context, after *model.OrderSnapshot) {
	driverID := *after.DriverID
	payload := model.OrderDataPayload{
		OrderID:     after.ID,
		OrderNumber: after.OrderNumber,
		Action:      "view_delivery",
	}

	if err := b.Channels.Publish(ctx, driverID, channel.EventOrderUpdate, after); err != nil {
		b.Log.Error("order-bridge", fmt.Sprintf("order_update publish failed: %v", err), "notifyDriverAssigned", driverID)
	}

	if err := b.Push.Show(ctx, &model.PushEvent{
		RecipientRole: string(entity.RoleDriver),
		RecipientID:   driverID,
		Title:         "New Delivery Assignment",
		Body:          fmt.Sprintf("You are assigned to order #%s. Head to the restaurant for pickup.", after.OrderNumber),
		Channel:       push.ChannelOrders,
		Data:          payload,
	}); err != nil {
		b.Log.Error("order-bridge", fmt.Sprintf("assignment push failed: %v", err), "notifyDriverAssigned", driverID)
	}
}
