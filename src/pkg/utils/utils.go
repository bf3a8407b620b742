package utils

import (
	"encoding/json"
	"fmt"
	"strconv"

	httpError "dispatch-service/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
)

// Result is the uniform usecase return value. Expected business outcomes
// (state conflict, no capacity) come back in Error as *httpError.CommonError
// so controllers can translate them without type switches on raw errors.
type Result struct {
	Data  interface{}
	Error error
}

type baseResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
}

func Response(data interface{}, message string, code int, ctx *fiber.Ctx) error {
	return ctx.Status(code).JSON(baseResponse{
		Success: true,
		Message: message,
		Code:    code,
		Data:    data,
	})
}

func ResponseError(err error, ctx *fiber.Ctx) error {
	if commonErr, ok := err.(*httpError.CommonError); ok {
		return ctx.Status(commonErr.Code).JSON(baseResponse{
			Success: false,
			Message: commonErr.Message,
			Code:    commonErr.Code,
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(baseResponse{
		Success: false,
		Message: err.Error(),
		Code:    fiber.StatusInternalServerError,
	})
}

// ConvertString marshals any value for log metadata.
func ConvertString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case error:
		return val.Error()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%+v", v)
		}
		return string(data)
	}
}

func ConvertInt(v interface{}) int {
	switch val := v.(type) {
	case int:
		return val
	case string:
		n, _ := strconv.Atoi(val)
		return n
	case float64:
		return int(val)
	default:
		return 0
	}
}
