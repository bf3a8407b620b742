package converter

import (
	"encoding/json"
	"time"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/model"

	"github.com/google/uuid"
)

func OrderToSnapshot(order *entity.Order) *model.OrderSnapshot {
	if order == nil {
		return nil
	}
	return &model.OrderSnapshot{
		ID:               order.ID,
		OrderNumber:      order.OrderNumber,
		Status:           string(order.Status),
		RestaurantID:     order.RestaurantID,
		CustomerID:       order.CustomerID,
		DriverID:         order.DriverID,
		DeliveryFee:      order.DeliveryFee,
		FinalAmount:      order.FinalAmount,
		DeliveryAddress:  order.DeliveryAddress,
		DriverAssignedAt: order.DriverAssignedAt,
		UpdatedAt:        order.UpdatedAt,
	}
}

func OrdersToChangeEvent(before, after *entity.Order) *model.OrderChangeEvent {
	return &model.OrderChangeEvent{
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Before:     OrderToSnapshot(before),
		After:      OrderToSnapshot(after),
	}
}

func NotificationToResponse(n *entity.Notification) *model.NotificationResponse {
	response := &model.NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Type:      string(n.Type),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
	if len(n.Data) > 0 {
		response.Data = json.RawMessage(n.Data)
	}
	return response
}
