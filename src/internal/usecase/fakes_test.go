package usecase

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/model"
)

type fakeOrderStore struct {
	mu       sync.Mutex
	orders   map[string]*entity.Order
	items    map[string][]entity.OrderItem
	findErr  error
	itemsErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: make(map[string]*entity.Order),
		items:  make(map[string][]entity.OrderItem),
	}
}

func (s *fakeOrderStore) FindByID(_ context.Context, id string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	order, ok := s.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *order
	return &cp, nil
}

func (s *fakeOrderStore) FindItems(_ context.Context, orderID string) ([]entity.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.itemsErr != nil {
		return nil, s.itemsErr
	}
	return s.items[orderID], nil
}

func (s *fakeOrderStore) ClaimForDriver(_ context.Context, orderID, driverID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return false, nil
	}
	if order.Status != entity.StatusReady || order.DriverID != nil {
		return false, nil
	}
	id := driverID
	order.Status = entity.StatusOutForDelivery
	order.DriverID = &id
	order.DriverAssignedAt = &at
	order.DriverAcceptedAt = &at
	order.UpdatedAt = at
	return true, nil
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, orderID string, status entity.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.orders[orderID]; ok {
		order.Status = status
	}
	return nil
}

type fakeDriverDirectory struct {
	mu      sync.Mutex
	drivers map[string]*entity.Driver
}

func newFakeDriverDirectory() *fakeDriverDirectory {
	return &fakeDriverDirectory{drivers: make(map[string]*entity.Driver)}
}

func (d *fakeDriverDirectory) FindByID(_ context.Context, id string) (*entity.Driver, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	driver, ok := d.drivers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *driver
	return &cp, nil
}

func (d *fakeDriverDirectory) FindOnlineAvailable(_ context.Context) ([]entity.AvailableDriver, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []entity.AvailableDriver
	for _, driver := range d.drivers {
		if driver.Online && driver.Availability == entity.DriverAvailable {
			out = append(out, entity.AvailableDriver{
				DriverID: driver.ID,
				FullName: driver.FullName,
				LastLat:  driver.LastLat,
				LastLng:  driver.LastLng,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DriverID < out[j].DriverID })
	return out, nil
}

func (d *fakeDriverDirectory) SetAvailability(_ context.Context, driverID string, availability entity.DriverAvailability) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if driver, ok := d.drivers[driverID]; ok {
		driver.Availability = availability
	}
	return nil
}

type fakePartyStore struct {
	restaurants   map[string]*entity.Restaurant
	customers     map[string]*entity.Customer
	restaurantErr error
	customerErr   error
}

func newFakePartyStore() *fakePartyStore {
	return &fakePartyStore{
		restaurants: make(map[string]*entity.Restaurant),
		customers:   make(map[string]*entity.Customer),
	}
}

func (p *fakePartyStore) FindRestaurant(_ context.Context, id string) (*entity.Restaurant, error) {
	if p.restaurantErr != nil {
		return nil, p.restaurantErr
	}
	restaurant, ok := p.restaurants[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return restaurant, nil
}

func (p *fakePartyStore) FindCustomer(_ context.Context, id string) (*entity.Customer, error) {
	if p.customerErr != nil {
		return nil, p.customerErr
	}
	customer, ok := p.customers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return customer, nil
}

type fakeMailbox struct {
	mu       sync.Mutex
	byRole   map[entity.RecipientRole][]entity.Notification
	failRole map[entity.RecipientRole]error
}

func newFakeMailbox() *fakeMailbox {
	return &fakeMailbox{
		byRole:   make(map[entity.RecipientRole][]entity.Notification),
		failRole: make(map[entity.RecipientRole]error),
	}
}

func (m *fakeMailbox) insert(role entity.RecipientRole, n *entity.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failRole[role]; err != nil {
		return err
	}
	cp := *n
	cp.RecipientRole = role
	m.byRole[role] = append(m.byRole[role], cp)
	return nil
}

func (m *fakeMailbox) InsertForCustomer(_ context.Context, n *entity.Notification) error {
	return m.insert(entity.RoleCustomer, n)
}

func (m *fakeMailbox) InsertForRestaurant(_ context.Context, n *entity.Notification) error {
	return m.insert(entity.RoleRestaurant, n)
}

func (m *fakeMailbox) InsertForDriver(_ context.Context, n *entity.Notification) error {
	return m.insert(entity.RoleDriver, n)
}

func (m *fakeMailbox) FindByRecipient(_ context.Context, role entity.RecipientRole, recipientID string, unreadOnly bool) ([]entity.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Notification
	for _, n := range m.byRole[role] {
		if n.RecipientID == recipientID && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *fakeMailbox) MarkRead(_ context.Context, notificationID, recipientID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for role := range m.byRole {
		for i := range m.byRole[role] {
			n := &m.byRole[role][i]
			if n.ID == notificationID && n.RecipientID == recipientID && !n.Read {
				now := time.Now()
				n.Read = true
				n.ReadAt = &now
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *fakeMailbox) count(role entity.RecipientRole) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byRole[role])
}

func (m *fakeMailbox) all(role entity.RecipientRole) []entity.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.Notification(nil), m.byRole[role]...)
}

type fakePush struct {
	mu     sync.Mutex
	events []model.PushEvent
	err    error
}

func (p *fakePush) Show(_ context.Context, event *model.PushEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, *event)
	return nil
}

type fakeChangePublisher struct {
	mu     sync.Mutex
	events []*model.OrderChangeEvent
	err    error
}

func (p *fakeChangePublisher) SendOrderChange(event *model.OrderChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type busMessage struct {
	driverID string
	event    string
	payload  []byte
}

// memoryBus is the in-process channel.Bus used by tests: synchronous
// dispatch, everything recorded.
type memoryBus struct {
	mu        sync.Mutex
	published []busMessage
	subs      map[string][]func(event string, payload []byte)
}

func newMemoryBus() *memoryBus {
	return &memoryBus{subs: make(map[string][]func(event string, payload []byte))}
}

func (b *memoryBus) Publish(_ context.Context, driverID, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.published = append(b.published, busMessage{driverID: driverID, event: event, payload: raw})
	handlers := append(([]func(string, []byte))(nil), b.subs[driverID]...)
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(event, raw)
	}
	return nil
}

func (b *memoryBus) Subscribe(driverID string, fn func(event string, payload []byte)) (func(), error) {
	b.mu.Lock()
	b.subs[driverID] = append(b.subs[driverID], fn)
	b.mu.Unlock()
	return func() {}, nil
}

func (b *memoryBus) forDriver(driverID, event string) []busMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []busMessage
	for _, m := range b.published {
		if m.driverID == driverID && m.event == event {
			out = append(out, m)
		}
	}
	return out
}

type scheduledReminder struct {
	payload *model.RatingReminderPayload
	delay   time.Duration
}

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []scheduledReminder
	err       error
}

func (s *fakeScheduler) Schedule(_ context.Context, payload *model.RatingReminderPayload, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.scheduled = append(s.scheduled, scheduledReminder{payload: payload, delay: delay})
	return nil
}
