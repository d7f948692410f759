package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
)

const (
	// AuthUserLocalKey holds the caller's user identifier in Fiber locals.
	AuthUserLocalKey = "auth_user_id"
	// AuthRoleLocalKey holds the caller's role claim in Fiber locals.
	AuthRoleLocalKey = "auth_role"
)

// Auth extracts the caller identity from a Bearer token issued by the
// external identity provider (HS256, "sub" and "role" claims).
//
// The middleware never rejects a request: a missing or unparseable token
// simply leaves the request unauthenticated, and the policy checks at
// the start of each handler decide what that caller may do.
func Auth(secret, issuer string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(raw, "Bearer ") {
			return c.Next()
		}
		tokenStr := strings.TrimPrefix(raw, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		}, jwt.WithIssuer(issuer), jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			return c.Next()
		}

		sub, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		if sub == "" {
			return c.Next()
		}

		c.Locals(AuthUserLocalKey, sub)
		c.Locals(AuthRoleLocalKey, role)

		return c.Next()
	}
}

// Caller returns the authenticated caller's id and role claim, and
// whether the request carries a valid identity at all.
func Caller(c *fiber.Ctx) (userID, role string, authenticated bool) {
	userID, _ = c.Locals(AuthUserLocalKey).(string)
	role, _ = c.Locals(AuthRoleLocalKey).(string)
	return userID, role, userID != ""
}
