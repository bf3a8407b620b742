package httpError

import "net/http"

// CommonError is the structured error carried inside utils.Result. Expected
// business outcomes (conflict on a lost claim race, no available drivers)
// travel as values of this type, never as panics.
type CommonError struct {
	Code         int    `json:"code"`
	ResponseCode string `json:"responseCode"`
	Message      string `json:"message"`
}

func (e *CommonError) Error() string {
	return e.Message
}

func NewBadRequest() *CommonError {
	return &CommonError{
		Code:         http.StatusBadRequest,
		ResponseCode: "BAD_REQUEST",
		Message:      "bad request",
	}
}

func NewNotFound() *CommonError {
	return &CommonError{
		Code:         http.StatusNotFound,
		ResponseCode: "NOT_FOUND",
		Message:      "resource not found",
	}
}

// NewConflict covers state conflicts: an order already claimed by another
// driver, or no longer in the status the caller expected.
func NewConflict() *CommonError {
	return &CommonError{
		Code:         http.StatusConflict,
		ResponseCode: "STATE_CONFLICT",
		Message:      "resource state conflict",
	}
}

// NewNoCapacity covers the zero-candidate broadcast outcome.
func NewNoCapacity() *CommonError {
	return &CommonError{
		Code:         http.StatusUnprocessableEntity,
		ResponseCode: "NO_CAPACITY",
		Message:      "no drivers available",
	}
}

func NewUnauthorized() *CommonError {
	return &CommonError{
		Code:         http.StatusUnauthorized,
		ResponseCode: "UNAUTHORIZED",
		Message:      "unauthorized",
	}
}

func NewInternalServerError() *CommonError {
	return &CommonError{
		Code:         http.StatusInternalServerError,
		ResponseCode: "INTERNAL_SERVER_ERROR",
		Message:      "internal server error",
	}
}
