package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/llsaimur/papertrails/internal/config"
)

const (
	// UserIDLocalKey holds the authenticated subject (the provider's user id).
	UserIDLocalKey = "user_id"
	// UserEmailLocalKey holds the email claim, when present.
	UserEmailLocalKey = "user_email"
	// UserTokenLocalKey holds the raw bearer token, needed for calls made to
	// the identity provider on the user's behalf.
	UserTokenLocalKey = "user_token"
)

// Auth validates the Supabase-issued bearer token (HS256, shared secret) and
// stores the subject, email and raw token in context locals.
func Auth(cfg config.AuthConfig) fiber.Handler {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30 * time.Second),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		if _, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		}, opts...); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(UserIDLocalKey, sub)
		if email, ok := claims["email"].(string); ok {
			c.Locals(UserEmailLocalKey, email)
		}
		c.Locals(UserTokenLocalKey, raw)

		return c.Next()
	}
}
