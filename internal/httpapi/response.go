package httpapi

import (
	"booking-admin-service/internal/booking"
	"booking-admin-service/internal/fees"
	"booking-admin-service/internal/payout"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse maps the domain error taxonomy onto HTTP statuses and
// machine-readable codes. Unrecognized errors are reported as persistence
// failures without leaking internals.
func ErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, payout.ErrNotFound):
		return errorStatus(c, fiber.StatusNotFound, "NOT_FOUND", err.Error(), false)
	case errors.Is(err, booking.ErrUnknownAction):
		return errorStatus(c, fiber.StatusBadRequest, "UNKNOWN_ACTION", err.Error(), false)
	case errors.Is(err, booking.ErrInvalidTransition):
		return errorStatus(c, fiber.StatusBadRequest, "INVALID_TRANSITION", err.Error(), false)
	case errors.Is(err, fees.ErrInvalidAmount):
		return errorStatus(c, fiber.StatusBadRequest, "INVALID_AMOUNT", err.Error(), false)
	case errors.Is(err, payout.ErrInvalidPaymentState):
		return errorStatus(c, fiber.StatusBadRequest, "INVALID_PAYMENT_STATE", err.Error(), false)
	case errors.Is(err, payout.ErrTransferUnconfirmed):
		return errorStatus(c, fiber.StatusBadGateway, "TRANSFER_UNCONFIRMED", err.Error(), true)
	default:
		return errorStatus(c, fiber.StatusInternalServerError, "PERSISTENCE_FAILURE", "Failed to apply the requested change", false)
	}
}

func errorStatus(c *fiber.Ctx, status int, code, message string, retryable bool) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
		Error: &APIError{
			Code:      code,
			Message:   message,
			Retryable: retryable,
		},
	})
}
