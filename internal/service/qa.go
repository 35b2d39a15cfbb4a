package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docqa/internal/extract"
	"docqa/internal/model"
	"docqa/internal/repository"
)

var (
	ErrIDRequired       = errors.New("session id is required")
	ErrFilenameRequired = errors.New("filename is required")
	ErrQuestionRequired = errors.New("question is required")
	ErrSessionNotFound  = errors.New("session not found")
)

// PreviewLimit is the maximum number of characters of extracted text exposed
// to clients; longer documents are truncated with a trailing ellipsis marker.
const PreviewLimit = 2000

// previewEllipsis marks a truncated preview.
const previewEllipsis = "..."

// Preview returns at most PreviewLimit characters of text, appending an
// ellipsis marker only when truncation actually happened.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLimit {
		return text
	}
	return string(runes[:PreviewLimit]) + previewEllipsis
}

// AnswerGenerator produces an answer to a question given the full document
// text. Implemented by the Gemini client; substituted with mocks in tests.
type AnswerGenerator interface {
	Generate(ctx context.Context, documentText, question string) (string, error)
}

// AskResult pairs a session with its freshly generated answer.
type AskResult struct {
	SessionID string             `json:"session_id"`
	Result    model.AnswerResult `json:"result"`
}

// QAService defines the use cases of the document question-answering flow.
type QAService interface {
	// Upload extracts text from the uploaded file and creates a new session
	// holding it. Extraction errors pass through with their extract tags.
	Upload(ctx context.Context, filename string, data []byte) (*model.Session, error)

	// Get returns a session by its ID.
	Get(ctx context.Context, id string) (*model.Session, error)

	// Ask generates an answer for the question against the session's document
	// text and overwrites the session's previous result.
	Ask(ctx context.Context, id, question string) (*AskResult, error)

	// Delete discards a session.
	Delete(ctx context.Context, id string) error
}

// qaService is a concrete implementation of QAService.
type qaService struct {
	extractor extract.Extractor
	gen       AnswerGenerator
	repo      repository.SessionRepository
}

// NewQAService constructs a new QAService.
func NewQAService(extractor extract.Extractor, gen AnswerGenerator, repo repository.SessionRepository) QAService {
	return &qaService{extractor: extractor, gen: gen, repo: repo}
}

func (s *qaService) Upload(ctx context.Context, filename string, data []byte) (*model.Session, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, ErrFilenameRequired
	}

	// Empty extracted text is allowed; the generator is told about it by the
	// document itself, not by us.
	text, err := s.extractor.Extract(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		ID:           uuid.New().String(),
		Filename:     filename,
		DocumentText: text,
		UploadedAt:   time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return stored, nil
}

func (s *qaService) Get(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *qaService) Ask(ctx context.Context, id, question string) (*AskResult, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrQuestionRequired
	}

	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	answer, err := s.gen.Generate(ctx, session.DocumentText, question)
	if err != nil {
		return nil, err
	}

	result := &model.AnswerResult{
		Question:   question,
		Answer:     answer,
		AnsweredAt: time.Now().UTC(),
	}
	if err := s.repo.SaveResult(ctx, id, result); err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}
	return &AskResult{SessionID: id, Result: *result}, nil
}

func (s *qaService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, id)
}
