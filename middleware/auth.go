package middleware

import (
	"strings"

	"tour-leads/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// RequirePermissions creates a middleware requiring one of the given permissions
func RequirePermissions(permissions ...string) fiber.Handler {
	return IsAuthenticated(permissions)
}

// RequireAuthentication only requires valid authentication; handlers behind
// it scope their queries to the token's subject.
func RequireAuthentication() fiber.Handler {
	return IsAuthenticated([]string{constants.PermAny})
}

// UserUUID extracts the subject uuid from the verified claims on the context.
// Returns "" when the request was unauthenticated.
func UserUUID(c *fiber.Ctx) string {
	claims, ok := c.Locals("user").(jwt.MapClaims)
	if !ok {
		return ""
	}
	uuid, _ := claims["uuid"].(string)
	return uuid
}

// OptionalUserUUID verifies a bearer token when one is present on an
// otherwise public route. Unauthenticated or invalid tokens yield "".
func OptionalUserUUID(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	var token string
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return ""
		}
		token = parts[1]
	} else {
		token = c.Cookies("access")
	}
	if token == "" {
		return ""
	}

	claims, err := VerifyJWT(token)
	if err != nil {
		return ""
	}
	uuid, _ := claims["uuid"].(string)
	return uuid
}
