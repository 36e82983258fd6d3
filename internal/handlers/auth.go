package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/chiya/internal/gateway"
	"github.com/example/chiya/internal/middleware"
	"github.com/example/chiya/internal/utils"
)

// AuthHandler bundles dependencies for staff authentication endpoints.
type AuthHandler struct {
	auth gateway.AuthProvider
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth gateway.AuthProvider) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login signs a staff member in and returns a session token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	session, err := h.auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    session,
	})
}

// Logout revokes the current session token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, ok := middleware.GetCurrentToken(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.auth.SignOut(c.UserContext(), token); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

// Me returns the signed-in staff member.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentStaff(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{"success": true, "data": identity})
}
