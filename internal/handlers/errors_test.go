package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/example/chiya/internal/cart"
	"github.com/example/chiya/internal/dashboard"
	"github.com/example/chiya/internal/gateway"
	"github.com/example/chiya/internal/ordering"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{fiber.NewError(fiber.StatusUnauthorized, "invalid token"), fiber.StatusUnauthorized, "invalid token"},
		{&ordering.ValidationError{Msg: "table_number is required"}, fiber.StatusBadRequest, "table_number is required"},
		{fmt.Errorf("update order: %w", gateway.ErrWriteFailed), fiber.StatusBadGateway, gateway.ErrWriteFailed.Error()},
		{cart.ErrRemoveOriginal, fiber.StatusUnprocessableEntity, cart.ErrRemoveOriginal.Error()},
		{cart.ErrUpdateInProgress, fiber.StatusConflict, cart.ErrUpdateInProgress.Error()},
		{dashboard.ErrTransitionNotAllowed, fiber.StatusConflict, dashboard.ErrTransitionNotAllowed.Error()},
		{ordering.ErrNothingToAdd, fiber.StatusBadRequest, "nothing to add"},
		{gateway.ErrNotFound, fiber.StatusNotFound, "order not found"},
		{gateway.ErrInvalidCredentials, fiber.StatusUnauthorized, "invalid credentials"},
		{errors.New("pq: connection refused"), fiber.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		code, msg := classify(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
		assert.Equal(t, tc.msg, msg, tc.err.Error())
	}
}
