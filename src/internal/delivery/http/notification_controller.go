package http

import (
	"dispatch-service/src/internal/delivery/http/middleware"
	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/model/converter"
	"dispatch-service/src/internal/repository"
	"dispatch-service/src/internal/usecase"
	httpError "dispatch-service/src/pkg/http-error"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	Log     log.Log
	UseCase *usecase.NotificationUseCase
	Mailbox repository.MailboxStore
}

func NewNotificationController(useCase *usecase.NotificationUseCase, mailbox repository.MailboxStore, logger log.Log) *NotificationController {
	return &NotificationController{
		Log:     logger,
		UseCase: useCase,
		Mailbox: mailbox,
	}
}

// SendStatusNotification is the operator/webhook entry into the
// orchestrator for callers outside the realtime bridge.
func (c *NotificationController) SendStatusNotification(ctx *fiber.Ctx) error {
	request := new(model.SendStatusNotificationRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("NotificationController.SendStatusNotification", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.OrderID = ctx.Params("orderId")

	result := c.UseCase.SendOrderStatusNotification(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Send Status Notification", fiber.StatusOK, ctx)
}

// ListNotifications returns the caller's mailbox, newest first.
func (c *NotificationController) ListNotifications(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	role := entity.RecipientRole(auth.Metadata.Role)
	unreadOnly := ctx.QueryBool("unread")

	notifications, err := c.Mailbox.FindByRecipient(ctx.Context(), role, auth.Metadata.UserID, unreadOnly)
	if err != nil {
		c.Log.Error("NotificationController.ListNotifications", err.Error(), "mailbox", auth.Metadata.UserID)
		return utils.ResponseError(httpError.NewInternalServerError(), ctx)
	}

	responses := make([]*model.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, converter.NotificationToResponse(&notifications[i]))
	}

	return utils.Response(responses, "List Notifications", fiber.StatusOK, ctx)
}

// MarkRead acknowledges one mailbox row for the authenticated recipient.
func (c *NotificationController) MarkRead(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	ok, err := c.Mailbox.MarkRead(ctx.Context(), ctx.Params("notificationId"), auth.Metadata.UserID)
	if err != nil {
		c.Log.Error("NotificationController.MarkRead", err.Error(), "mailbox", auth.Metadata.UserID)
		return utils.ResponseError(httpError.NewInternalServerError(), ctx)
	}
	if !ok {
		return utils.ResponseError(httpError.NewNotFound(), ctx)
	}

	return utils.Response(nil, "Mark Read", fiber.StatusOK, ctx)
}
