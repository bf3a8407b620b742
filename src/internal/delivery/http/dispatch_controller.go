package http

import (
	"dispatch-service/src/internal/delivery/http/middleware"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/usecase"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type DispatchController struct {
	Log     log.Log
	UseCase *usecase.DispatchUseCase
}

func NewDispatchController(useCase *usecase.DispatchUseCase, logger log.Log) *DispatchController {
	return &DispatchController{
		Log:     logger,
		UseCase: useCase,
	}
}

// BroadcastOrder is the restaurant "mark ready" action handler.
func (c *DispatchController) BroadcastOrder(ctx *fiber.Ctx) error {
	request := &model.BroadcastOrderRequest{
		OrderID: ctx.Params("orderId"),
	}
	result := c.UseCase.BroadcastAvailableOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Broadcast Available Order", fiber.StatusOK, ctx)
}

// AcceptOrder is the driver accept action handler; the driver id comes from
// the bearer claim, never the body.
func (c *DispatchController) AcceptOrder(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := &model.AcceptOrderRequest{
		OrderID:  ctx.Params("orderId"),
		DriverID: auth.Metadata.UserID,
	}
	result := c.UseCase.AcceptOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Accept Order", fiber.StatusOK, ctx)
}
