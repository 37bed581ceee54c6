package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/llsaimur/papertrails/internal/http/middleware"
	"github.com/llsaimur/papertrails/internal/paperless"
	"github.com/llsaimur/papertrails/internal/service"
	"github.com/llsaimur/papertrails/internal/supabase"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking
// internal errors. code is a machine-readable short code, message a safe
// human-readable one.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates service and remote-client errors into HTTP
// responses. The three remote outcomes stay distinct on purpose: a failed
// remote task is a gateway error, an unknown remote status is an internal
// contract violation, and a remote rejection is the caller's fault.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrCategoryNotFound):
		return writeError(c, fiber.StatusNotFound, "CATEGORY_NOT_FOUND", "category not found")
	case errors.Is(err, service.ErrUserNotFound):
		return writeError(c, fiber.StatusNotFound, "USER_NOT_FOUND", "user not found")
	case errors.Is(err, service.ErrDuplicateDocument):
		return writeError(c, fiber.StatusConflict, "DUPLICATE_DOCUMENT", "a document with the same title already exists in this category")
	case errors.Is(err, service.ErrCategoryNameTaken):
		return writeError(c, fiber.StatusConflict, "CATEGORY_EXISTS", "a category with this name already exists")
	case errors.Is(err, service.ErrEmailTaken):
		return writeError(c, fiber.StatusConflict, "EMAIL_TAKEN", "email is already registered")
	case errors.Is(err, service.ErrFileRequired):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	case errors.Is(err, service.ErrNotProcessed):
		return writeError(c, fiber.StatusBadRequest, "NOT_PROCESSED", "document has not finished processing yet")
	case errors.Is(err, service.ErrFileNotReady):
		return writeError(c, fiber.StatusBadRequest, "FILE_NOT_READY", "document file not available yet")
	case errors.Is(err, service.ErrEmailRequired),
		errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrCategoryNameRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, service.ErrRemoteProcessing):
		return writeError(c, fiber.StatusBadGateway, "REMOTE_PROCESSING_FAILED", "document processing failed")
	case errors.Is(err, paperless.ErrUnknownStatus):
		return writeError(c, fiber.StatusInternalServerError, "UNKNOWN_REMOTE_STATUS", "unexpected processing status")
	case errors.Is(err, paperless.ErrRemoteNotFound):
		return writeError(c, fiber.StatusNotFound, "REMOTE_NOT_FOUND", "remote document not found")
	case errors.Is(err, paperless.ErrRemoteRejected):
		return writeError(c, fiber.StatusBadRequest, "REMOTE_REJECTED", "remote service rejected the request")
	case errors.Is(err, paperless.ErrRemoteUnreachable):
		return writeError(c, fiber.StatusInternalServerError, "REMOTE_UNREACHABLE", "remote service unavailable")
	}

	var authErr *supabase.AuthError
	if errors.As(err, &authErr) && authErr.StatusCode < 500 {
		return writeError(c, fiber.StatusBadRequest, "AUTH_FAILED", "authentication failed")
	}

	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "authentication required")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
