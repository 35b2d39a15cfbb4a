package handler

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docqa/internal/model"
	"docqa/internal/service"
)

// allowedExtensions is the upload accept-list. The extractor fails closed on
// anything else too; rejecting here gives the user a clear message up front.
var allowedExtensions = map[string]struct{}{
	".txt":  {},
	".md":   {},
	".pdf":  {},
	".docx": {},
}

// sessionResponse is the client-facing view of a session. The full document
// text is never returned; clients get a truncated preview.
type sessionResponse struct {
	ID         string              `json:"id"`
	Filename   string              `json:"filename"`
	UploadedAt time.Time           `json:"uploaded_at"`
	Preview    string              `json:"preview"`
	LastResult *model.AnswerResult `json:"last_result,omitempty"`
}

func newSessionResponse(s *model.Session) sessionResponse {
	return sessionResponse{
		ID:         s.ID,
		Filename:   s.Filename,
		UploadedAt: s.UploadedAt,
		Preview:    service.Preview(s.DocumentText),
		LastResult: s.LastResult,
	}
}

type askRequest struct {
	Question string `json:"question"`
}

// HealthCheck reports service health. There are no backing dependencies to
// probe; the generator is only exercised on demand.
func HealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a bare liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// CreateSession handles document upload (multipart/form-data, field name: file),
// extracts its text and opens a new question-answering session.
func CreateSession(svc service.QAService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if _, ok := allowedExtensions[ext]; !ok {
			return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FILE_TYPE",
				"supported file types: .txt, .md, .pdf, .docx")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
		}

		session, err := svc.Upload(c.UserContext(), fh.Filename, data)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(newSessionResponse(session))
	}
}

// GetSession returns a session's metadata, preview and last answer.
func GetSession(svc service.QAService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		session, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newSessionResponse(session))
	}
}

// AskQuestion generates an answer against the session's document. Asking
// again issues a new independent request and overwrites the previous result.
func AskQuestion(svc service.QAService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req askRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON with a question field")
		}

		res, err := svc.Ask(c.UserContext(), id, req.Question)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// DeleteSession discards a session.
func DeleteSession(svc service.QAService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, svc service.QAService) {
	app.Get("/health", HealthCheck())
	app.Get("/healthz", LivenessProbe())

	app.Post("/sessions", CreateSession(svc))
	app.Get("/sessions/:id", GetSession(svc))
	app.Post("/sessions/:id/ask", AskQuestion(svc))
	app.Delete("/sessions/:id", DeleteSession(svc))
}
