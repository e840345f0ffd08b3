package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/wichananm65/bike-catalog/internal/bike"
	"github.com/wichananm65/bike-catalog/pkg/llm"
)

const (
	temperature = 0.7
	maxTokens   = 500
)

// Outcome labels reported to a Recorder.
const (
	OutcomeOK            = "ok"
	OutcomeStoreError    = "store_error"
	OutcomeUpstreamError = "upstream_error"
)

// BikeLister is satisfied by *bike.Service.
type BikeLister interface {
	List(ctx context.Context) ([]bike.Bike, error)
}

type Recorder interface {
	RecommendationOutcome(outcome string)
}

type Service struct {
	bikes    BikeLister
	client   llm.Client
	recorder Recorder
}

type Option func(*Service)

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// NewService builds the recommendation pipeline. A nil client makes every
// recommendation fail with llm.ErrUpstream.
func NewService(bikes BikeLister, client llm.Client, opts ...Option) *Service {
	s := &Service{bikes: bikes, client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend reads the whole inventory, builds the prompt around question and
// returns the completion text verbatim. The question is not validated.
func (s *Service) Recommend(ctx context.Context, question string) (string, error) {
	text, err := s.recommend(ctx, question)
	s.record(err)
	return text, err
}

func (s *Service) recommend(ctx context.Context, question string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("%w: completion service is not configured", llm.ErrUpstream)
	}

	bikes, err := s.bikes.List(ctx)
	if err != nil {
		return "", err
	}

	prompt := BuildPrompt(bikes, question)
	return s.client.Chat(ctx, prompt.Messages(), llm.WithTemperature(temperature), llm.WithMaxTokens(maxTokens))
}

func (s *Service) record(err error) {
	if s.recorder == nil {
		return
	}
	switch {
	case err == nil:
		s.recorder.RecommendationOutcome(OutcomeOK)
	case errors.Is(err, bike.ErrStoreUnavailable):
		s.recorder.RecommendationOutcome(OutcomeStoreError)
	default:
		s.recorder.RecommendationOutcome(OutcomeUpstreamError)
	}
}
