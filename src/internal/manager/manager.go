package manager

import (
	"context"
	"sync"

	"dispatch-service/src/internal/delivery/stream"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/usecase"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

// Manager is the process-wide composition root for notifications. It is an
// owned handle, not package state: construct one, Start it once, pass it
// around. Tests build their own instead of resetting globals.
type Manager struct {
	log          log.Log
	notification *usecase.NotificationUseCase
	bridge       *stream.OrderEventBridge

	startOnce sync.Once
	stopOnce  sync.Once
}

func New(logger log.Log, notification *usecase.NotificationUseCase, bridge *stream.OrderEventBridge) *Manager {
	return &Manager{
		log:          logger,
		notification: notification,
		bridge:       bridge,
	}
}

// Start wires the realtime bridge. Safe to call more than once; only the
// first call does anything.
func (m *Manager) Start() {
	m.startOnce.Do(func() {
		m.bridge.Start()
		m.log.Info("notification-manager", "realtime bridge started", "Start", "")
	})
}

func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		m.bridge.Stop()
		m.log.Info("notification-manager", "realtime bridge stopped", "Stop", "")
	})
}

// SendOrderNotification is the façade other subsystems call for an explicit
// status fan-out.
func (m *Manager) SendOrderNotification(ctx context.Context, orderID, status string) utils.Result {
	return m.notification.SendOrderStatusNotification(ctx, &model.SendStatusNotificationRequest{
		OrderID: orderID,
		Status:  status,
	})
}

// SendToUser delivers one addressed message to one recipient role.
func (m *Manager) SendToUser(ctx context.Context, request *model.SendToUserRequest) utils.Result {
	return m.notification.SendToUser(ctx, request)
}
