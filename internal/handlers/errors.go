package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/example/chiya/internal/cart"
	"github.com/example/chiya/internal/dashboard"
	"github.com/example/chiya/internal/gateway"
	"github.com/example/chiya/internal/ordering"
)

// ErrorHandler renders every handler error as {"success": false, "error": ...}.
// Domain errors map to client statuses; anything else is logged and hidden.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, msg := classify(err)
		if code >= fiber.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Method(),
				"path":   c.Path(),
			}).Error("request failed")
		}
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   msg,
		})
	}
}

func classify(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	var verr *ordering.ValidationError
	if errors.As(err, &verr) {
		return fiber.StatusBadRequest, verr.Msg
	}

	switch {
	case errors.Is(err, cart.ErrSessionNotFound),
		errors.Is(err, cart.ErrItemNotInCart),
		errors.Is(err, gateway.ErrNotFound):
		return fiber.StatusNotFound, rootMessage(err)

	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, ordering.ErrEmptyCart),
		errors.Is(err, ordering.ErrNothingToAdd),
		errors.Is(err, dashboard.ErrInvalidDate):
		return fiber.StatusBadRequest, rootMessage(err)

	case errors.Is(err, cart.ErrDecreaseBelowOriginal),
		errors.Is(err, cart.ErrRemoveOriginal):
		return fiber.StatusUnprocessableEntity, rootMessage(err)

	case errors.Is(err, cart.ErrUpdateInProgress),
		errors.Is(err, cart.ErrNoUpdateInProgress),
		errors.Is(err, ordering.ErrOrderClosed),
		errors.Is(err, dashboard.ErrTransitionNotAllowed):
		return fiber.StatusConflict, rootMessage(err)

	case errors.Is(err, gateway.ErrInvalidCredentials),
		errors.Is(err, gateway.ErrUnauthenticated):
		return fiber.StatusUnauthorized, rootMessage(err)

	case errors.Is(err, gateway.ErrWriteFailed):
		return fiber.StatusBadGateway, gateway.ErrWriteFailed.Error()
	}

	return fiber.StatusInternalServerError, "internal server error"
}

// rootMessage drops wrapping context added for logs.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
