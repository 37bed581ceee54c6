package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/llsaimur/papertrails/internal/http/middleware"
	"github.com/llsaimur/papertrails/internal/service"
)

// RegisterUser signs a new account up at the identity provider and mirrors
// the profile locally.
func RegisterUser(svc service.UserService) fiber.Handler {
	type body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	return func(c *fiber.Ctx) error {
		var b body
		if err := c.BodyParser(&b); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		user, err := svc.Register(c.UserContext(), service.RegisterInput{
			Name:     b.Name,
			Email:    b.Email,
			Password: b.Password,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

// LoginUser exchanges credentials for a provider-issued access token.
func LoginUser(svc service.UserService) fiber.Handler {
	type body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	return func(c *fiber.Ctx) error {
		var b body
		if err := c.BodyParser(&b); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		res, err := svc.Login(c.UserContext(), b.Email, b.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// Me returns the authenticated account's profile.
func Me(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := svc.Me(c.UserContext(), ownerFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(user)
	}
}

// SendPasswordReset asks the identity provider to email a reset link.
func SendPasswordReset(svc service.UserService) fiber.Handler {
	type body struct {
		Email string `json:"email"`
	}
	return func(c *fiber.Ctx) error {
		var b body
		if err := c.BodyParser(&b); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		if err := svc.SendPasswordReset(c.UserContext(), b.Email); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Password reset email sent"})
	}
}

// UpdateEmail changes the account email. The provider call runs under the
// caller's own bearer token, taken from context locals.
func UpdateEmail(svc service.UserService) fiber.Handler {
	type body struct {
		Email string `json:"email"`
	}
	return func(c *fiber.Ctx) error {
		var b body
		if err := c.BodyParser(&b); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		token, _ := c.Locals(middleware.UserTokenLocalKey).(string)
		user, err := svc.UpdateEmail(c.UserContext(), ownerFromCtx(c), token, b.Email)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(user)
	}
}
