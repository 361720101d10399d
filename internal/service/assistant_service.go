package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inventory-tracker/internal/assistant"
	"inventory-tracker/internal/domain"
	"inventory-tracker/internal/metrics"
	"inventory-tracker/internal/repository"

	"go.uber.org/zap"
)

// Suggestion is the restock plan saved to the activity log
type Suggestion struct {
	Lines []string `json:"lines"`
	Saved bool     `json:"saved"`
}

// AssistantService answers questions about the caller's current inventory.
// Questions never modify stored state; only SaveSuggestions writes.
type AssistantService interface {
	Ask(ctx context.Context, message, locale string) (assistant.Response, error)
	SaveSuggestions(ctx context.Context, locale string) (*Suggestion, error)
	Intro(locale string) string
}

type assistantService struct {
	engine   *assistant.Engine
	items    repository.ItemRepository
	recorder *activityRecorder
	logger   *zap.Logger
}

// NewAssistantService creates a new instance of AssistantService
func NewAssistantService(
	engine *assistant.Engine,
	items repository.ItemRepository,
	activity repository.ActivityRepository,
	logger *zap.Logger,
) AssistantService {
	return &assistantService{
		engine:   engine,
		items:    items,
		recorder: &activityRecorder{repo: activity, logger: logger, now: time.Now},
		logger:   logger,
	}
}

func (s *assistantService) load(ctx context.Context) ([]domain.Item, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.items.List(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	return items, nil
}

func (s *assistantService) Ask(ctx context.Context, message, locale string) (assistant.Response, error) {
	items, err := s.load(ctx)
	if err != nil {
		return assistant.Response{}, err
	}

	resp := s.engine.GenerateResponse(items, message, locale)
	metrics.AssistantQueries.WithLabelValues(string(resp.Intent)).Inc()

	s.logger.Debug("Assistant answered",
		zap.String("intent", string(resp.Intent)),
		zap.Int("items", len(items)),
	)
	return resp, nil
}

func (s *assistantService) SaveSuggestions(ctx context.Context, locale string) (*Suggestion, error) {
	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	lines := s.engine.RestockPlan(items, locale)
	if len(lines) == 0 {
		return &Suggestion{Lines: []string{}}, nil
	}

	userID, _ := owner(ctx)
	s.recorder.record(ctx, userID, domain.ActionAssistantSuggest, "",
		strings.Join(lines, "; "), domain.SuggestionPayload(lines))

	return &Suggestion{Lines: lines, Saved: true}, nil
}

func (s *assistantService) Intro(locale string) string {
	return s.engine.Intro(locale)
}
