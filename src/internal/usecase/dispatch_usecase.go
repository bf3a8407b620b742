package usecase

import (
	"context"
	"fmt"
	"time"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/gateway/channel"
	"dispatch-service/src/internal/gateway/push"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/model/converter"
	"dispatch-service/src/internal/repository"
	"dispatch-service/src/pkg/geo"
	httpError "dispatch-service/src/pkg/http-error"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// DriverEarningsShare is the driver's cut of the delivery fee shown in the
// broadcast earnings estimate.
const DriverEarningsShare = 0.8

// OrderChangePublisher feeds the order change stream that the realtime
// bridge consumes.
type OrderChangePublisher interface {
	SendOrderChange(event *model.OrderChangeEvent) error
}

type DispatchUseCase struct {
	Log                    log.Log
	Validate               *validator.Validate
	OrderRepository        repository.OrderStore
	DriverRepository       repository.DriverDirectory
	PartyRepository        repository.PartyStore
	NotificationRepository repository.MailboxStore
	Channels               *channel.Registry
	Push                   push.Notifier
	OrderProducer          OrderChangePublisher
}

func NewDispatchUseCase(
	logger log.Log,
	validate *validator.Validate,
	orderRepository repository.OrderStore,
	driverRepository repository.DriverDirectory,
	partyRepository repository.PartyStore,
	notificationRepository repository.MailboxStore,
	channels *channel.Registry,
	notifier push.Notifier,
	orderProducer OrderChangePublisher,
) *DispatchUseCase {
	return &DispatchUseCase{
		Log:                    logger,
		Validate:               validate,
		OrderRepository:        orderRepository,
		DriverRepository:       driverRepository,
		PartyRepository:        partyRepository,
		NotificationRepository: notificationRepository,
		Channels:               channels,
		Push:                   notifier,
		OrderProducer:          orderProducer,
	}
}

// BroadcastAvailableOrder offers a ready order to every online available
// driver. With zero candidates the restaurant gets one "no drivers" notice
// and the result carries a NoCapacity error. Per-driver sends are best
// effort: one failed driver never aborts the rest.
func (c *DispatchUseCase) BroadcastAvailableOrder(ctx context.Context, request *model.BroadcastOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("dispatch-usecase", errObj.Message, "BroadcastAvailableOrder", utils.ConvertString(request))
		return result
	}

	order, err := c.OrderRepository.FindByID(ctx, request.OrderID)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("order with id %s not found", request.OrderID)
		result.Error = errObj
		c.Log.Error("dispatch-usecase", errObj.Message, "BroadcastAvailableOrder", utils.ConvertString(err))
		return result
	}

	if order.Status != entity.StatusReady || order.DriverID != nil {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("order %s is not open for dispatch (status=%s)", order.ID, order.Status)
		result.Error = errObj
		c.Log.Error("dispatch-usecase", errObj.Message, "BroadcastAvailableOrder", "")
		return result
	}

	// Restaurant lookup and item count only enrich the offer; either may
	// degrade without blocking the broadcast.
	var restaurant *entity.Restaurant
	restaurant, err = c.PartyRepository.FindRestaurant(ctx, order.RestaurantID)
	if err != nil {
		c.Log.Error("dispatch-usecase", fmt.Sprintf("restaurant lookup failed: %v", err), "BroadcastAvailableOrder", order.RestaurantID)
		restaurant = nil
	}

	itemCount := 0
	if items, itemsErr := c.OrderRepository.FindItems(ctx, order.ID); itemsErr != nil {
		c.Log.Error("dispatch-usecase", fmt.Sprintf("item lookup failed: %v", itemsErr), "BroadcastAvailableOrder", order.ID)
	} else {
		for _, item := range items {
			itemCount += item.Quantity
		}
	}

	candidates, err := c.DriverRepository.FindOnlineAvailable(ctx)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("driver lookup failed: %v", err)
		result.Error = errObj
		c.Log.Error("dispatch-usecase", errObj.Message, "BroadcastAvailableOrder", "")
		return result
	}

	if len(candidates) == 0 {
		c.notifyRestaurantNoDrivers(ctx, order, restaurant)
		result.Data = model.BroadcastOrderResponse{Dispatched: false, DriversNotified: 0}
		result.Error = httpError.NewNoCapacity()
		return result
	}

	notified := 0
	for _, candidate := range candidates {
		view := c.buildBroadcastView(order, restaurant, candidate, itemCount)
		c.offerToDriver(ctx, candidate.DriverID, view)
		notified++
	}

	result.Data = model.BroadcastOrderResponse{Dispatched: true, DriversNotified: notified}
	return result
}

func (c *DispatchUseCase) buildBroadcastView(order *entity.Order, restaurant *entity.Restaurant, candidate entity.AvailableDriver, itemCount int) *model.AvailableOrderBroadcast {
	view := &model.AvailableOrderBroadcast{
		OrderID:           order.ID,
		OrderNumber:       order.OrderNumber,
		ItemCount:         itemCount,
		DeliveryFee:       order.DeliveryFee,
		EstimatedEarnings: order.DeliveryFee * DriverEarningsShare,
		DeliveryAddress:   order.DeliveryAddress,
	}
	if restaurant != nil {
		view.RestaurantName = restaurant.Name
		view.RestaurantAddress = restaurant.Address
	}

	// Distance and ETA only when both ends have a known position. A driver
	// that never reported one gets the offer without them, not with zeros.
	if restaurant != nil && restaurant.Lat != nil && restaurant.Lng != nil &&
		candidate.LastLat != nil && candidate.LastLng != nil {
		km := geo.DistanceKm(*candidate.LastLat, *candidate.LastLng, *restaurant.Lat, *restaurant.Lng)
		minutes := geo.EstimatedMinutes(km)
		view.DistanceKm = &km
		view.EstimatedMinutes = &minutes
	}

	return view
}

func (c *DispatchUseCase) offerToDriver(ctx context.Context, driverID string, view *model.AvailableOrderBroadcast) {
	if err := c.Channels.Publish(ctx, driverID, channel.EventNewAvailableOrder, view); err != nil {
		c.Log.Error("dispatch-usecase", fmt.Sprintf("channel publish failed: %v", err), "offerToDriver", driverID)
	}

	body := fmt.Sprintf("Order #%s from %s — estimated earnings $%.2f", view.OrderNumber, view.RestaurantName, view.EstimatedEarnings)
	payload := model.OrderDataPayload{
		OrderID:        view.OrderID,
		OrderNumber:    view.OrderNumber,
		Amount:         view.EstimatedEarnings,
		RestaurantName: view.RestaurantName,
		Action:         "accept_delivery",
	}

	notification := &entity.Notification{
		RecipientID: driverID,
		Title:       "New Delivery Available",
		Body:        body,
		Type:        entity.NotificationDelivery,
		Data:        mustMarshal(payload),
	}
	if err := c.NotificationRepository.InsertForDriver(ctx, notification); err != nil {
		c.Log.Error("dispatch-usecase", fmt.Sprintf("driver mailbox insert failed: %v", err), "offerToDriver", driverID)
	}

	if err := c.Push.Show(ctx, &model.PushEvent{
		RecipientRole: string(entity.RoleDriver),
		RecipientID:   driverID,
		Title:         "New Delivery Available",
		Body:          body,
		Channel:       push.ChannelOrders,
		Data:          payload,
	}); err != nil {
		c.Log.Error("dispatch-usecase", fmt.Sprintf("push failed: %v", err), "offerToDriver", driverID)
	}
}

func (c *DispatchUseCase) notifyRestaurantNoDrivers(ctx context.Context, order *entity.Order, restaurant *entity.Restaurant) {
	restaurantName := ""
	if restaurant != nil {
		restaurantName = restaurant.Name
	}
	payload := model.OrderDataPayload{
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		RestaurantName: restaurantName,
	}
	body := fmt.Sprintf("No drivers are currently available for order #%s. We will keep trying.", order.OrderNumber)

	notification := &entity.Notification{
		RecipientID: order.RestaurantID,
		Title:       "No Drivers Available",
		Body:        body,
		Type:        entity.NotificationSystem,
		Data:        mustMarshal(payload),
	}
	if err := c.NotificationRepository.InsertForRestaurant(ctx, notification); err != nil {
		c.Log.Error("dispatch-usecase", fmt.Sprintf("restaurant mailbox insert failed: %v", err), "notifyRestaurantNoDrivers", order.RestaurantID)
	}

	if err := c.Push.Show(ctx, &model.PushEvent{
		RecipientRole: string(entity.RoleRestaurant),
		RecipientID:   order.RestaurantID,
		Title:         "No Drivers Available",
		Body:          body,
		Channel:       push.ChannelSystem,
		Data:          payload,
	}); err != nil {
		c.Log.Error("dispatch-usecase", fmt.Sprintf("push failed: %v", err), "notifyRestaurantNoDrivers", order.RestaurantID)
	}
}

// AcceptOrder claims a ready order for one driver. Correctness rests solely
// on the conditional update inside ClaimForDriver: everyone who loses the
// race gets a StateConflict and must re-fetch instead of retrying blindly.
func (c *DispatchUseCase) AcceptOrder(ctx context.Context, request *model.AcceptOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("dispatch-usecase", errObj.Message, "AcceptOrder", utils.ConvertString(request))
		return result
	}

	driver, err := c.DriverRepository.FindByID(ctx, request.DriverID)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("driver with id %s not found", request.DriverID)
		result.Error = errObj
		c.Log.Error("dispatch-usecase", errObj.Message, "AcceptOrder", utils.ConvertString(err))
		return result
	}

	before, err := c.OrderRepository.FindByID(ctx, request.OrderID)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("order with id %s not found", request.OrderID)
		result.Error = errObj
		c.Log.Error("dispatch-usecase", errObj.Message, "AcceptOrder", utils.ConvertString(err))
		return result
	}

	now := time.Now()
	claimed, err := c.OrderRepository.ClaimForDriver(ctx, request.OrderID, driver.ID, now)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("failed to claim order: %v", err)
		result.Error = errObj
		c.Log.Error("dispatch-usecase", errObj.Message, "AcceptOrder", "")
		return result
	}
	if !claimed {
		errObj := httpError.NewConflict()
		errObj.Message = "order already claimed by another driver or no longer ready"
		result.Error = errObj
		c.Log.Error("dispatch-usecase", errObj.Message, "AcceptOrder", request.OrderID)
		return result
	}

	after := *before
	after.Status = entity.StatusOutForDelivery
	after.DriverID = &driver.ID
	after.DriverAssignedAt = &now
	after.DriverAcceptedAt = &now
	after.UpdatedAt = now

	if err := c.DriverRepository.SetAvailability(ctx, driver.ID, entity.DriverBusy); err != nil {
		c.Log.Error("dispatch-usecase", fmt.Sprintf("failed to flip driver availability: %v", err), "AcceptOrder", driver.ID)
	}

	c.notifyRestaurantDriverAssigned(ctx, &after, driver)
	c.retractOfferFromOthers(ctx, after.ID, driver.ID)

	// Everything status-driven (customer "on the way", driver instructions)
	// rides the change feed so the bridge reacts to this writer like any
	// other.
	if err := c.OrderProducer.SendOrderChange(converter.OrdersToChangeEvent(before, &after)); err != nil {
		c.Log.Error("dispatch-usecase", fmt.Sprintf("failed to publish order change: %v", err), "AcceptOrder", after.ID)
	}

	result.Data = model.AcceptOrderResponse{
		OrderID:          after.ID,
		DriverID:         driver.ID,
		Status:           string(after.Status),
		DriverAcceptedAt: now,
	}
	return result
}

func (c *DispatchUseCase) notifyRestaurantDriverAssigned(ctx context.Context, order *entity.Order, driver *entity.Driver) {
	payload := model.OrderDataPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
	}
	body := fmt.Sprintf("%s accepted order #%s and is heading to you.", driver.FullName, order.OrderNumber)

	notification := &entity.Notification{
		RecipientID: order.RestaurantID,
		Title:       "Driver Assigned",
		Body:        body,
		Type:        entity.NotificationAssignment,
		Data:        mustMarshal(payload),
	}
	if err := c.NotificationRepository.InsertForRestaurant(ctx, notification); err != nil {
		c.Log.Error("dispatch-usecase", fmt.Sprintf("restaurant mailbox insert failed: %v", err), "notifyRestaurantDriverAssigned", order.RestaurantID)
	}

	if err := c.Push.Show(ctx, &model.PushEvent{
		RecipientRole: string(entity.RoleRestaurant),
		RecipientID:   order.RestaurantID,
		Title:         "Driver Assigned",
		Body:          body,
		Channel:       push.ChannelSystem,
		Data:          payload,
	}); err != nil {
		c.Log.Error("dispatch-usecase", fmt.Sprintf("push failed: %v", err), "notifyRestaurantDriverAssigned", order.RestaurantID)
	}
}

// retractOfferFromOthers tells every remaining online available driver to
// drop the stale offer from their UI. Advisory cleanup only: the conditional
// update already settled who won.
func (c *DispatchUseCase) retractOfferFromOthers(ctx context.Context, orderID, winnerID string) {
	candidates, err := c.DriverRepository.FindOnlineAvailable(ctx)
	if err != nil {
		c.Log.Error("dispatch-usecase", fmt.Sprintf("driver lookup for retraction failed: %v", err), "retractOfferFromOthers", orderID)
		return
	}

	payload := map[string]string{"orderId": orderID}
	for _, candidate := range candidates {
		if candidate.DriverID == winnerID {
			continue
		}
		if err := c.Channels.Publish(ctx, candidate.DriverID, channel.EventOrderUnavailable, payload); err != nil {
			c.Log.Error("dispatch-usecase", fmt.Sprintf("retraction publish failed: %v", err), "retractOfferFromOthers", candidate.DriverID)
		}
	}
}
