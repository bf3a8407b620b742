package route

import (
	"dispatch-service/src/internal/delivery/http"

	"github.com/gofiber/fiber/v2"
)

type RouteConfig struct {
	App                    *fiber.App
	DispatchController     *http.DispatchController
	NotificationController *http.NotificationController
	AuthMiddleware         fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	c.SetupAuthRoute()
}

func (c *RouteConfig) SetupAuthRoute() {
	c.App.Use(c.AuthMiddleware)

	c.App.Post("/orders/v1/:orderId/broadcast", c.DispatchController.BroadcastOrder)
	c.App.Post("/orders/v1/:orderId/accept", c.DispatchController.AcceptOrder)
	c.App.Post("/orders/v1/:orderId/status", c.NotificationController.SendStatusNotification)

	c.App.Get("/notifications/v1", c.NotificationController.ListNotifications)
	c.App.Patch("/notifications/v1/:notificationId/read", c.NotificationController.MarkRead)
}
