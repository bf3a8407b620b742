package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/gateway/channel"
	"dispatch-service/src/internal/model"
	httpError "dispatch-service/src/pkg/http-error"
	"dispatch-service/src/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifFixture struct {
	orders    *fakeOrderStore
	drivers   *fakeDriverDirectory
	parties   *fakePartyStore
	mailbox   *fakeMailbox
	bus       *memoryBus
	push      *fakePush
	scheduler *fakeScheduler
	uc        *NotificationUseCase
}

func newNotifFixture() *notifFixture {
	f := &notifFixture{
		orders:    newFakeOrderStore(),
		drivers:   newFakeDriverDirectory(),
		parties:   newFakePartyStore(),
		mailbox:   newFakeMailbox(),
		bus:       newMemoryBus(),
		push:      &fakePush{},
		scheduler: &fakeScheduler{},
	}
	registry := channel.NewRegistry(f.bus, log.Log{})
	dispatch := NewDispatchUseCase(log.Log{}, validator.New(),
		f.orders, f.drivers, f.parties, f.mailbox, registry, f.push, &fakeChangePublisher{})
	f.uc = NewNotificationUseCase(log.Log{}, validator.New(),
		f.orders, f.drivers, f.parties, f.mailbox, f.push, dispatch, f.scheduler)
	return f
}

func (f *notifFixture) addOrder(id string, status entity.OrderStatus, driverID *string) *entity.Order {
	order := &entity.Order{
		ID:              id,
		OrderNumber:     "7731",
		Status:          status,
		RestaurantID:    "rest-1",
		CustomerID:      "cust-1",
		DriverID:        driverID,
		Subtotal:        30,
		DeliveryFee:     6,
		Tax:             3,
		FinalAmount:     39,
		DeliveryAddress: "5 Ocean Drive",
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	f.orders.orders[id] = order
	f.orders.items[id] = []entity.OrderItem{
		{ID: "i1", OrderID: id, Name: "Soto Ayam", Quantity: 1, Price: 12},
	}
	f.parties.restaurants["rest-1"] = &entity.Restaurant{ID: "rest-1", Name: "Warung Sedap", Phone: "+62-811", Address: "1 Market Road"}
	f.parties.customers["cust-1"] = &entity.Customer{ID: "cust-1", FullName: "Ari Customer"}
	if driverID != nil {
		f.drivers.drivers[*driverID] = &entity.Driver{
			ID: *driverID, FullName: "Budi Driver", Online: true, Availability: entity.DriverBusy,
		}
	}
	return order
}

func (f *notifFixture) send(t *testing.T, orderID, status string) error {
	t.Helper()
	result := f.uc.SendOrderStatusNotification(context.Background(),
		&model.SendStatusNotificationRequest{OrderID: orderID, Status: status})
	return result.Error
}

func TestSendOrderStatusNotification_RecipientMatrix(t *testing.T) {
	driverID := "drv-1"
	cases := []struct {
		name        string
		status      string
		driver      *string
		customer    int
		restaurant  int
		driverCount int
	}{
		{"pending", "pending", nil, 1, 1, 0},
		{"confirmed", "confirmed", nil, 1, 1, 0},
		{"preparing", "preparing", nil, 1, 0, 0},
		{"out_for_delivery", "out_for_delivery", &driverID, 1, 1, 1},
		{"delivered", "delivered", &driverID, 1, 1, 1},
		{"cancelled", "cancelled", &driverID, 1, 1, 1},
		// unassigned orders never produce driver messages
		{"cancelled_without_driver", "cancelled", nil, 1, 1, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newNotifFixture()
			f.addOrder("ord-1", entity.StatusPending, tc.driver)

			require.NoError(t, f.send(t, "ord-1", tc.status))

			assert.Equal(t, tc.customer, f.mailbox.count(entity.RoleCustomer), "customer rows")
			assert.Equal(t, tc.restaurant, f.mailbox.count(entity.RoleRestaurant), "restaurant rows")
			assert.Equal(t, tc.driverCount, f.mailbox.count(entity.RoleDriver), "driver rows")
		})
	}
}

func TestSendOrderStatusNotification_ReadyFansOutToDrivers(t *testing.T) {
	f := newNotifFixture()
	f.addOrder("ord-1", entity.StatusReady, nil)
	f.drivers.drivers["d1"] = &entity.Driver{ID: "d1", FullName: "Idle Driver", Online: true, Availability: entity.DriverAvailable}

	require.NoError(t, f.send(t, "ord-1", "ready"))

	assert.Equal(t, 1, f.mailbox.count(entity.RoleCustomer))
	assert.Equal(t, 1, f.mailbox.count(entity.RoleRestaurant))
	assert.Equal(t, 1, f.mailbox.count(entity.RoleDriver), "fan-out writes the offer to the idle driver")
	assert.Len(t, f.bus.forDriver("d1", channel.EventNewAvailableOrder), 1)
}

func TestSendOrderStatusNotification_ReadyNoDriversStillSucceeds(t *testing.T) {
	f := newNotifFixture()
	f.addOrder("ord-1", entity.StatusReady, nil)

	// NO_CAPACITY from the fan-out is logged, not surfaced to the caller
	require.NoError(t, f.send(t, "ord-1", "ready"))

	titles := []string{}
	for _, n := range f.mailbox.all(entity.RoleRestaurant) {
		titles = append(titles, n.Title)
	}
	assert.Contains(t, titles, "Ready For Pickup")
	assert.Contains(t, titles, "No Drivers Available")
}

func TestSendOrderStatusNotification_DeliveredEarningAndReminder(t *testing.T) {
	driverID := "drv-1"
	f := newNotifFixture()
	f.addOrder("ord-1", entity.StatusOutForDelivery, &driverID)

	require.NoError(t, f.send(t, "ord-1", "delivered"))

	driverMail := f.mailbox.all(entity.RoleDriver)
	require.Len(t, driverMail, 1)
	assert.Equal(t, entity.NotificationEarning, driverMail[0].Type)
	assert.Contains(t, driverMail[0].Body, "$4.80", "driver share of the 6.00 delivery fee")

	var data model.OrderDataPayload
	require.NoError(t, json.Unmarshal(driverMail[0].Data, &data))
	assert.InDelta(t, 4.8, data.Amount, 1e-9)

	require.Len(t, f.scheduler.scheduled, 1)
	reminder := f.scheduler.scheduled[0]
	assert.Equal(t, RatingReminderDelay, reminder.delay)
	assert.Equal(t, "ord-1", reminder.payload.OrderID)
	assert.Equal(t, "7731", reminder.payload.OrderNumber)
	assert.Equal(t, "cust-1", reminder.payload.CustomerID)
	assert.Equal(t, "Warung Sedap", reminder.payload.RestaurantName)
}

func TestSendOrderStatusNotification_OrderNotFound(t *testing.T) {
	f := newNotifFixture()

	err := f.send(t, "missing", "pending")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*httpError.CommonError).ResponseCode)
	assert.Equal(t, 0, f.mailbox.count(entity.RoleCustomer))
	assert.Equal(t, 0, f.mailbox.count(entity.RoleRestaurant))
}

func TestSendOrderStatusNotification_UnknownStatus(t *testing.T) {
	f := newNotifFixture()
	f.addOrder("ord-1", entity.StatusPending, nil)

	err := f.send(t, "ord-1", "teleported")
	require.Error(t, err)
	assert.Equal(t, "BAD_REQUEST", err.(*httpError.CommonError).ResponseCode)
}

func TestSendOrderStatusNotification_EnrichmentDegrades(t *testing.T) {
	f := newNotifFixture()
	f.addOrder("ord-1", entity.StatusPending, nil)
	f.parties.restaurantErr = errors.New("party service down")
	f.orders.itemsErr = errors.New("items table locked")

	require.NoError(t, f.send(t, "ord-1", "pending"))

	customerMail := f.mailbox.all(entity.RoleCustomer)
	require.Len(t, customerMail, 1)
	// restaurant name degrades to empty, the message still goes out
	assert.Contains(t, customerMail[0].Body, "#7731")
	assert.Equal(t, 1, f.mailbox.count(entity.RoleRestaurant))
}

func TestSendOrderStatusNotification_OneFailedRecipientDoesNotStopOthers(t *testing.T) {
	f := newNotifFixture()
	f.addOrder("ord-1", entity.StatusPending, nil)
	f.mailbox.failRole[entity.RoleCustomer] = errors.New("insert failed")

	require.NoError(t, f.send(t, "ord-1", "pending"))

	assert.Equal(t, 0, f.mailbox.count(entity.RoleCustomer))
	assert.Equal(t, 1, f.mailbox.count(entity.RoleRestaurant), "restaurant still notified")
	// push mirror is attempted independently of the mailbox insert
	assert.Len(t, f.push.events, 2)
}

func TestHandleRatingReminder(t *testing.T) {
	f := newNotifFixture()

	payload, err := json.Marshal(&model.RatingReminderPayload{
		OrderID:        "ord-1",
		OrderNumber:    "7731",
		CustomerID:     "cust-1",
		RestaurantName: "Warung Sedap",
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.HandleRatingReminder(context.Background(), asynq.NewTask(TypeRatingReminder, payload)))

	customerMail := f.mailbox.all(entity.RoleCustomer)
	require.Len(t, customerMail, 1)
	assert.Equal(t, "Rate Your Order", customerMail[0].Title)
	assert.Equal(t, entity.NotificationRating, customerMail[0].Type)
	assert.Contains(t, customerMail[0].Body, "#7731")
	assert.Contains(t, customerMail[0].Body, "Warung Sedap")
	assert.Equal(t, "cust-1", customerMail[0].RecipientID)

	var data model.OrderDataPayload
	require.NoError(t, json.Unmarshal(customerMail[0].Data, &data))
	assert.Equal(t, "rate_order", data.Action)
}

func TestHandleRatingReminder_BadPayload(t *testing.T) {
	f := newNotifFixture()

	err := f.uc.HandleRatingReminder(context.Background(), asynq.NewTask(TypeRatingReminder, []byte("{not json")))
	require.Error(t, err)
	assert.Equal(t, 0, f.mailbox.count(entity.RoleCustomer))
}

func TestSendToUser(t *testing.T) {
	f := newNotifFixture()

	result := f.uc.SendToUser(context.Background(), &model.SendToUserRequest{
		Role:   "driver",
		UserID: "drv-9",
		Title:  "Account Notice",
		Body:   "Your documents were approved.",
		Type:   "system",
	})
	require.NoError(t, result.Error)

	driverMail := f.mailbox.all(entity.RoleDriver)
	require.Len(t, driverMail, 1)
	assert.Equal(t, "drv-9", driverMail[0].RecipientID)
	assert.Equal(t, "Account Notice", driverMail[0].Title)

	require.Len(t, f.push.events, 1)
	assert.Equal(t, "driver", f.push.events[0].RecipientRole)
}

func TestSendToUser_InvalidRole(t *testing.T) {
	f := newNotifFixture()

	result := f.uc.SendToUser(context.Background(), &model.SendToUserRequest{
		Role:   "admin",
		UserID: "u1",
		Title:  "t",
		Body:   "b",
		Type:   "system",
	})
	require.Error(t, result.Error)
	commonErr := result.Error.(*httpError.CommonError)
	assert.Equal(t, "BAD_REQUEST", commonErr.ResponseCode)
	assert.True(t, strings.Contains(commonErr.Message, "validation"))
}
