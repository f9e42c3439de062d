package app

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"pkm-backend/internal/ai"
	"pkm-backend/internal/model"
	"pkm-backend/internal/repository"
)

// Sampling temperatures per operation, matching how deterministic each
// one needs to be.
const (
	cleanupTemperature  = 0.3
	rephraseTemperature = 0.5
	chatTemperature     = 0.6
	searchTemperature   = 0.2

	maxChatHistory = 5
)

// Generator is the generation-client capability the facade needs.
type Generator interface {
	Generate(ctx context.Context, req ai.GenerateRequest) (string, error)
	ListModels(ctx context.Context) ([]string, error)
	CheckHealth(ctx context.Context) bool
	DefaultModel() string
}

// ModelListCache caches the installed-model list between requests.
type ModelListCache interface {
	Get(ctx context.Context) ([]string, bool, error)
	Set(ctx context.Context, models []string) error
}

// SessionSink records one AI session audit entry per invocation.
type SessionSink interface {
	Record(ctx context.Context, session model.AISession) error
}

// SearchRanking is one entry of the model's relevance ranking, indexed
// into the note list that was sent.
type SearchRanking struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
	Snippet        string  `json:"snippet"`
}

// AIService composes the prompt templates with the generation client.
// Every operation is a single round trip; failures propagate to the
// caller, which owns envelope construction and audit logging.
type AIService struct {
	generator  Generator
	modelCache ModelListCache
	logger     *log.Logger
}

func NewAIService(generator Generator, modelCache ModelListCache, logger *log.Logger) *AIService {
	if logger == nil {
		logger = log.Default()
	}
	return &AIService{
		generator:  generator,
		modelCache: modelCache,
		logger:     logger,
	}
}

func (s *AIService) DefaultModel() string {
	return s.generator.DefaultModel()
}

// Cleanup rewrites text per the cleanup type. The result is returned,
// never written back to the source note.
func (s *AIService) Cleanup(ctx context.Context, text, cleanupType string) (string, error) {
	return s.generator.Generate(ctx, ai.GenerateRequest{
		Prompt:      ai.CleanupUserPrompt(text),
		System:      ai.CleanupSystemPrompt(cleanupType),
		Temperature: cleanupTemperature,
	})
}

// Rephrase rewrites text in the requested style.
func (s *AIService) Rephrase(ctx context.Context, text, style string) (string, error) {
	return s.generator.Generate(ctx, ai.GenerateRequest{
		Prompt:      ai.RephraseUserPrompt(text),
		System:      ai.RephraseSystemPrompt(style),
		Temperature: rephraseTemperature,
	})
}

// ChatWithNotes answers a question against the supplied note contents.
// Stateless: conversation continuity comes from the caller-supplied
// history, of which only the most recent entries are used.
func (s *AIService) ChatWithNotes(ctx context.Context, message string, noteContents, history []string) (string, error) {
	return s.generator.Generate(ctx, ai.GenerateRequest{
		Prompt:      ai.ChatUserPrompt(message, noteContents, history, maxChatHistory),
		System:      ai.ChatSystemPrompt(),
		Temperature: chatTemperature,
	})
}

// SearchNotes asks the model to rank the supplied note contents against
// the query. A generation failure is returned as an error; a response
// that does not parse as a ranking yields an empty result and a warning,
// not an error.
func (s *AIService) SearchNotes(ctx context.Context, query string, noteContents []string) ([]SearchRanking, error) {
	raw, err := s.generator.Generate(ctx, ai.GenerateRequest{
		Prompt:      ai.SearchUserPrompt(query, noteContents),
		System:      ai.SearchSystemPrompt(),
		Temperature: searchTemperature,
	})
	if err != nil {
		return nil, err
	}

	var rankings []SearchRanking
	if err := json.Unmarshal([]byte(extractJSONArray(raw)), &rankings); err != nil {
		s.logger.Printf("warn: failed to parse search ranking as JSON: %v", err)
		return []SearchRanking{}, nil
	}
	return rankings, nil
}

// ListModels returns the installed model names, going through the cache
// when one is configured. Any upstream failure yields an empty list and
// a logged warning rather than a stale or implied model name.
func (s *AIService) ListModels(ctx context.Context) []string {
	if s.modelCache != nil {
		if models, hit, err := s.modelCache.Get(ctx); err == nil && hit {
			return models
		}
	}

	models, err := s.generator.ListModels(ctx)
	if err != nil {
		s.logger.Printf("warn: failed to list ollama models: %v", err)
		return []string{}
	}
	if s.modelCache != nil {
		if err := s.modelCache.Set(ctx, models); err != nil {
			s.logger.Printf("warn: failed to cache model list: %v", err)
		}
	}
	return models
}

// CheckHealth reports whether the generation backend is reachable.
func (s *AIService) CheckHealth(ctx context.Context) bool {
	return s.generator.CheckHealth(ctx)
}

// extractJSONArray trims surrounding prose the model may wrap around the
// ranking array; returns the input unchanged if no array brackets exist.
func extractJSONArray(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

// DBSessionSink writes audit records straight to the database. Used when
// the async pipeline is disabled.
type DBSessionSink struct {
	repo *repository.AISessionRepository
}

func NewDBSessionSink(repo *repository.AISessionRepository) *DBSessionSink {
	return &DBSessionSink{repo: repo}
}

func (s *DBSessionSink) Record(ctx context.Context, session model.AISession) error {
	return s.repo.Create(&session)
}
