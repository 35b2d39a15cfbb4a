package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docqa/internal/extract"
	"docqa/internal/gemini"
	"docqa/internal/http/middleware"
	"docqa/internal/service"
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

// writeError writes a standardized JSON error response.
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

// writeServiceError maps domain errors onto HTTP status codes and stable
// error codes. Every extraction and generation failure lands here; the
// session stays usable for a retry regardless of the outcome.
func writeServiceError(c *fiber.Ctx, err error) error {
	var svcErr *gemini.ServiceError

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "session not found")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	case errors.Is(err, service.ErrQuestionRequired):
		return writeError(c, fiber.StatusBadRequest, "QUESTION_REQUIRED", "question is required")
	case errors.Is(err, service.ErrFilenameRequired):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FILE_TYPE",
			"supported file types: .txt, .md, .pdf, .docx")
	case errors.Is(err, extract.ErrCapabilityUnavailable):
		return writeError(c, fiber.StatusUnprocessableEntity, "CAPABILITY_UNAVAILABLE", err.Error())
	case errors.Is(err, extract.ErrDecodeFailure):
		return writeError(c, fiber.StatusUnprocessableEntity, "DECODE_FAILED", err.Error())
	case errors.Is(err, extract.ErrParseFailure):
		return writeError(c, fiber.StatusUnprocessableEntity, "EXTRACTION_FAILED", err.Error())
	case errors.As(err, &svcErr):
		// The generation service's own message is passed through to the user.
		return writeError(c, fiber.StatusBadGateway, "GENERATION_SERVICE_ERROR", svcErr.Message)
	case errors.Is(err, gemini.ErrUnexpected):
		return writeError(c, fiber.StatusBadGateway, "GENERATION_FAILED", "answer generation failed")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses for errors escaping the route handlers.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "uploaded file exceeds the size limit")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
