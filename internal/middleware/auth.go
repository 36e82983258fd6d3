package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/chiya/internal/gateway"
)

const (
	identityContextKey = "currentStaff"
	tokenContextKey    = "currentToken"
)

// AuthMiddleware resolves the staff session token and stores the identity in context.
// EventSource clients cannot set headers, so the token may also come as ?token=.
func AuthMiddleware(auth gateway.AuthProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}

		identity, err := auth.Identify(c.UserContext(), token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(identityContextKey, identity)
		c.Locals(tokenContextKey, token)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if token := c.Query("token"); token != "" {
			return token, nil
		}
		return "", fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// GetCurrentStaff extracts the authenticated staff member from context.
func GetCurrentStaff(c *fiber.Ctx) (gateway.Identity, bool) {
	identity, ok := c.Locals(identityContextKey).(gateway.Identity)
	return identity, ok
}

// GetCurrentToken returns the session token the request was authenticated with.
func GetCurrentToken(c *fiber.Ctx) (string, bool) {
	token, ok := c.Locals(tokenContextKey).(string)
	return token, ok && token != ""
}
