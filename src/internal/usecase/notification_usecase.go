package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/gateway/push"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/repository"
	httpError "dispatch-service/src/pkg/http-error"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
)

// NotificationUseCase is the order-status state machine: for each
// transition it decides who hears about it, with what content, and which
// side effects fire (driver fan-out on ready, delayed follow-up on
// delivered).
type NotificationUseCase struct {
	Log                    log.Log
	Validate               *validator.Validate
	OrderRepository        repository.OrderStore
	DriverRepository       repository.DriverDirectory
	PartyRepository        repository.PartyStore
	NotificationRepository repository.MailboxStore
	Push                   push.Notifier
	Dispatch               *DispatchUseCase
	Reminders              ReminderScheduler
}

func NewNotificationUseCase(
	logger log.Log,
	validate *validator.Validate,
	orderRepository repository.OrderStore,
	driverRepository repository.DriverDirectory,
	partyRepository repository.PartyStore,
	notificationRepository repository.MailboxStore,
	notifier push.Notifier,
	dispatch *DispatchUseCase,
	reminders ReminderScheduler,
) *NotificationUseCase {
	return &NotificationUseCase{
		Log:                    logger,
		Validate:               validate,
		OrderRepository:        orderRepository,
		DriverRepository:       driverRepository,
		PartyRepository:        partyRepository,
		NotificationRepository: notificationRepository,
		Push:                   notifier,
		Dispatch:               dispatch,
		Reminders:              reminders,
	}
}

// SendOrderStatusNotification fans out the role-specific messages for one
// status change. A failed order lookup aborts the call with nothing sent;
// once enrichment succeeds, a failure for one recipient is logged and the
// remaining recipients are still attempted.
func (c *NotificationUseCase) SendOrderStatusNotification(ctx context.Context, request *model.SendStatusNotificationRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("notification-usecase", errObj.Message, "SendOrderStatusNotification", utils.ConvertString(request))
		return result
	}

	status := entity.OrderStatus(request.Status)
	if !status.Valid() {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("unknown order status %q", request.Status)
		result.Error = errObj
		c.Log.Error("notification-usecase", errObj.Message, "SendOrderStatusNotification", "")
		return result
	}

	nctx, errObj := c.buildContext(ctx, request.OrderID)
	if errObj != nil {
		result.Error = errObj
		return result
	}

	switch status {
	case entity.StatusPending:
		c.handlePending(ctx, nctx)
	case entity.StatusConfirmed:
		c.handleConfirmed(ctx, nctx)
	case entity.StatusPreparing:
		c.handlePreparing(ctx, nctx)
	case entity.StatusReady:
		c.handleReady(ctx, nctx)
	case entity.StatusOutForDelivery:
		c.handleOutForDelivery(ctx, nctx)
	case entity.StatusDelivered:
		c.handleDelivered(ctx, nctx)
	case entity.StatusCancelled:
		c.handleCancelled(ctx, nctx)
	default:
		// unreachable after Valid(), but a new status added to the enum
		// without a handler should fail loudly, not vanish here
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("no notification handler for status %q", status)
		result.Error = errObj
		return result
	}

	result.Data = model.SendStatusNotificationRequest{OrderID: request.OrderID, Status: request.Status}
	return result
}

// buildContext loads the order plus its stakeholders. Only the order itself
// is fatal; each peripheral lookup is isolated so one failure degrades the
// content instead of aborting the call.
func (c *NotificationUseCase) buildContext(ctx context.Context, orderID string) (*model.NotificationContext, *httpError.CommonError) {
	order, err := c.OrderRepository.FindByID(ctx, orderID)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("order with id %s not found", orderID)
		c.Log.Error("notification-usecase", errObj.Message, "buildContext", utils.ConvertString(err))
		return nil, errObj
	}

	nctx := &model.NotificationContext{
		Order:       order,
		OrderNumber: order.OrderNumber,
	}

	if customer, err := c.PartyRepository.FindCustomer(ctx, order.CustomerID); err != nil {
		c.Log.Error("notification-usecase", fmt.Sprintf("customer lookup failed: %v", err), "buildContext", order.CustomerID)
	} else {
		nctx.CustomerName = customer.FullName
	}

	if restaurant, err := c.PartyRepository.FindRestaurant(ctx, order.RestaurantID); err != nil {
		c.Log.Error("notification-usecase", fmt.Sprintf("restaurant lookup failed: %v", err), "buildContext", order.RestaurantID)
	} else {
		nctx.RestaurantName = restaurant.Name
		nctx.RestaurantPhone = restaurant.Phone
	}

	if items, err := c.OrderRepository.FindItems(ctx, order.ID); err != nil {
		c.Log.Error("notification-usecase", fmt.Sprintf("item lookup failed: %v", err), "buildContext", order.ID)
	} else {
		for _, item := range items {
			nctx.ItemNames = append(nctx.ItemNames, item.Name)
			nctx.ItemCount += item.Quantity
		}
	}

	if order.DriverID != nil {
		if driver, err := c.DriverRepository.FindByID(ctx, *order.DriverID); err != nil {
			c.Log.Error("notification-usecase", fmt.Sprintf("driver lookup failed: %v", err), "buildContext", *order.DriverID)
		} else {
			nctx.DriverName = driver.FullName
		}
	}

	if order.EstimatedDelivery != nil {
		if minutes := int(time.Until(*order.EstimatedDelivery).Minutes()); minutes > 0 {
			nctx.EstimatedMinutes = &minutes
		}
	}

	return nctx, nil
}

func (c *NotificationUseCase) handlePending(ctx context.Context, nctx *model.NotificationContext) {
	payload := c.payload(nctx)
	c.toCustomer(ctx, nctx, "Order Placed",
		fmt.Sprintf("Your order #%s at %s has been placed.", nctx.OrderNumber, nctx.RestaurantName),
		entity.NotificationOrder, payload)
	c.toRestaurant(ctx, nctx, "New Order",
		fmt.Sprintf("New order #%s (%d items) from %s.", nctx.OrderNumber, nctx.ItemCount, nctx.CustomerName),
		entity.NotificationOrder, payload)
}

func (c *NotificationUseCase) handleConfirmed(ctx context.Context, nctx *model.NotificationContext) {
	payload := c.payload(nctx)
	c.toCustomer(ctx, nctx, "Order Confirmed",
		fmt.Sprintf("%s confirmed your order #%s.", nctx.RestaurantName, nctx.OrderNumber),
		entity.NotificationOrder, payload)
	c.toRestaurant(ctx, nctx, "Order Confirmed",
		fmt.Sprintf("Order #%s marked as confirmed.", nctx.OrderNumber),
		entity.NotificationSystem, payload)
}

func (c *NotificationUseCase) handlePreparing(ctx context.Context, nctx *model.NotificationContext) {
	c.toCustomer(ctx, nctx, "Order Being Prepared",
		fmt.Sprintf("%s is preparing your order #%s.", nctx.RestaurantName, nctx.OrderNumber),
		entity.NotificationOrder, c.payload(nctx))
}

func (c *NotificationUseCase) handleReady(ctx context.Context, nctx *model.NotificationContext) {
	payload := c.payload(nctx)
	c.toCustomer(ctx, nctx, "Order Ready",
		fmt.Sprintf("Order #%s is ready — a driver will pick it up shortly.", nctx.OrderNumber),
		entity.NotificationOrder, payload)
	c.toRestaurant(ctx, nctx, "Ready For Pickup",
		fmt.Sprintf("Order #%s is ready for pickup.", nctx.OrderNumber),
		entity.NotificationOrder, payload)

	// Driver fan-out shares one code path with the direct broadcast entry
	// point; with zero candidates BroadcastAvailableOrder already sends the
	// restaurant its "no drivers" notice.
	broadcast := c.Dispatch.BroadcastAvailableOrder(ctx, &model.BroadcastOrderRequest{OrderID: nctx.Order.ID})
	if broadcast.Error != nil {
		c.Log.Error("notification-usecase", fmt.Sprintf("ready fan-out: %v", broadcast.Error), "handleReady", nctx.Order.ID)
	}
}

func (c *NotificationUseCase) handleOutForDelivery(ctx context.Context, nctx *model.NotificationContext) {
	payload := c.payload(nctx)
	c.toCustomer(ctx, nctx, "Order On The Way",
		fmt.Sprintf("%s is on the way with your order #%s.", nctx.DriverName, nctx.OrderNumber),
		entity.NotificationDelivery, payload)
	c.toRestaurant(ctx, nctx, "Order Picked Up",
		fmt.Sprintf("Order #%s was picked up by %s.", nctx.OrderNumber, nctx.DriverName),
		entity.NotificationSystem, payload)
	c.toDriver(ctx, nctx, "Delivery In Progress",
		fmt.Sprintf("Deliver order #%s to %s — %s.", nctx.OrderNumber, nctx.CustomerName, nctx.Order.DeliveryAddress),
		entity.NotificationDelivery, payload)
}

func (c *NotificationUseCase) handleDelivered(ctx context.Context, nctx *model.NotificationContext) {
	payload := c.payload(nctx)
	c.toCustomer(ctx, nctx, "Order Delivered",
		fmt.Sprintf("Order #%s has been delivered. Enjoy!", nctx.OrderNumber),
		entity.NotificationOrder, payload)
	c.toRestaurant(ctx, nctx, "Order Delivered",
		fmt.Sprintf("Order #%s was delivered to the customer.", nctx.OrderNumber),
		entity.NotificationSystem, payload)

	earningPayload := payload
	earningPayload.Amount = nctx.Order.DeliveryFee * DriverEarningsShare
	c.toDriver(ctx, nctx, "Delivery Completed",
		fmt.Sprintf("Order #%s completed. You earned $%.2f.", nctx.OrderNumber, earningPayload.Amount),
		entity.NotificationEarning, earningPayload)

	c.scheduleRatingReminder(ctx, nctx)
}

func (c *NotificationUseCase) handleCancelled(ctx context.Context, nctx *model.NotificationContext) {
	payload := c.payload(nctx)
	c.toCustomer(ctx, nctx, "Order Cancelled",
		fmt.Sprintf("Order #%s was cancelled. Any payment will be refunded to your original method.", nctx.OrderNumber),
		entity.NotificationOrder, payload)
	c.toRestaurant(ctx, nctx, "Order Cancelled",
		fmt.Sprintf("Order #%s has been cancelled.", nctx.OrderNumber),
		entity.NotificationSystem, payload)
	c.toDriver(ctx, nctx, "Delivery Unassigned",
		fmt.Sprintf("Order #%s was cancelled and removed from your deliveries.", nctx.OrderNumber),
		entity.NotificationAssignment, payload)
}

func (c *NotificationUseCase) scheduleRatingReminder(ctx context.Context, nctx *model.NotificationContext) {
	payload := &model.RatingReminderPayload{
		OrderID:        nctx.Order.ID,
		OrderNumber:    nctx.OrderNumber,
		CustomerID:     nctx.Order.CustomerID,
		RestaurantName: nctx.RestaurantName,
	}

	if c.Reminders == nil {
		// Non-durable fallback: the reminder dies with the process. Known
		// reliability gap when asynq is disabled in config.
		c.Log.Error("notification-usecase", "asynq disabled, rating reminder is in-process only and lost on restart", "scheduleRatingReminder", nctx.Order.ID)
		time.AfterFunc(RatingReminderDelay, func() {
			c.DeliverRatingReminder(context.Background(), payload)
		})
		return
	}

	if err := c.Reminders.Schedule(ctx, payload, RatingReminderDelay); err != nil {
		c.Log.Error("notification-usecase", fmt.Sprintf("failed to schedule rating reminder: %v", err), "scheduleRatingReminder", nctx.Order.ID)
	}
}

// HandleRatingReminder is the asynq handler for the delayed follow-up.
func (c *NotificationUseCase) HandleRatingReminder(ctx context.Context, task *asynq.Task) error {
	var payload model.RatingReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		c.Log.Error("notification-usecase", fmt.Sprintf("bad reminder payload: %v", err), "HandleRatingReminder", "")
		return err
	}
	c.DeliverRatingReminder(ctx, &payload)
	return nil
}

func (c *NotificationUseCase) DeliverRatingReminder(ctx context.Context, payload *model.RatingReminderPayload) {
	data := model.OrderDataPayload{
		OrderID:        payload.OrderID,
		OrderNumber:    payload.OrderNumber,
		RestaurantName: payload.RestaurantName,
		Action:         "rate_order",
	}
	body := fmt.Sprintf("How was your order #%s from %s? Tap to leave a rating.", payload.OrderNumber, payload.RestaurantName)

	c.deliver(ctx, entity.RoleCustomer, payload.CustomerID, "Rate Your Order", body,
		entity.NotificationRating, push.ChannelOrders, data)
}

// SendToUser is the narrow manager façade for one-off addressed messages.
func (c *NotificationUseCase) SendToUser(ctx context.Context, request *model.SendToUserRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("notification-usecase", errObj.Message, "SendToUser", utils.ConvertString(request))
		return result
	}

	channelName := push.ChannelMessages
	if entity.NotificationType(request.Type) == entity.NotificationOrder {
		channelName = push.ChannelOrders
	}
	c.deliver(ctx, entity.RecipientRole(request.Role), request.UserID, request.Title, request.Body,
		entity.NotificationType(request.Type), channelName, request.Data)

	result.Data = request
	return result
}

func (c *NotificationUseCase) payload(nctx *model.NotificationContext) model.OrderDataPayload {
	return model.OrderDataPayload{
		OrderID:        nctx.Order.ID,
		OrderNumber:    nctx.OrderNumber,
		Amount:         nctx.Order.FinalAmount,
		RestaurantName: nctx.RestaurantName,
		CustomerName:   nctx.CustomerName,
	}
}

func (c *NotificationUseCase) toCustomer(ctx context.Context, nctx *model.NotificationContext, title, body string, typ entity.NotificationType, payload model.OrderDataPayload) {
	c.deliver(ctx, entity.RoleCustomer, nctx.Order.CustomerID, title, body, typ, push.ChannelOrders, payload)
}

func (c *NotificationUseCase) toRestaurant(ctx context.Context, nctx *model.NotificationContext, title, body string, typ entity.NotificationType, payload model.OrderDataPayload) {
	channelName := push.ChannelOrders
	if typ == entity.NotificationSystem {
		channelName = push.ChannelSystem
	}
	c.deliver(ctx, entity.RoleRestaurant, nctx.Order.RestaurantID, title, body, typ, channelName, payload)
}

// toDriver only fires when the order has an assigned driver.
func (c *NotificationUseCase) toDriver(ctx context.Context, nctx *model.NotificationContext, title, body string, typ entity.NotificationType, payload model.OrderDataPayload) {
	if nctx.Order.DriverID == nil {
		return
	}
	c.deliver(ctx, entity.RoleDriver, *nctx.Order.DriverID, title, body, typ, push.ChannelOrders, payload)
}

// deliver writes the mailbox row and mirrors it to a push. Each failure is
// a DeliveryFailure: logged, never propagated, so the remaining recipients
// of the same pass still get their attempt.
func (c *NotificationUseCase) deliver(ctx context.Context, role entity.RecipientRole, recipientID, title, body string, typ entity.NotificationType, channelName string, payload model.OrderDataPayload) {
	notification := &entity.Notification{
		RecipientID: recipientID,
		Title:       title,
		Body:        body,
		Type:        typ,
		Data:        mustMarshal(payload),
	}

	var err error
	switch role {
	case entity.RoleCustomer:
		err = c.NotificationRepository.InsertForCustomer(ctx, notification)
	case entity.RoleRestaurant:
		err = c.NotificationRepository.InsertForRestaurant(ctx, notification)
	case entity.RoleDriver:
		err = c.NotificationRepository.InsertForDriver(ctx, notification)
	}
	if err != nil {
		c.Log.Error("notification-usecase", fmt.Sprintf("mailbox insert failed: %v", err), "deliver", fmt.Sprintf("%s:%s", role, recipientID))
	}

	if err := c.Push.Show(ctx, &model.PushEvent{
		RecipientRole: string(role),
		RecipientID:   recipientID,
		Title:         title,
		Body:          body,
		Channel:       channelName,
		Data:          payload,
	}); err != nil {
		c.Log.Error("notification-usecase", fmt.Sprintf("push failed: %v", err), "deliver", fmt.Sprintf("%s:%s", role, recipientID))
	}
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
