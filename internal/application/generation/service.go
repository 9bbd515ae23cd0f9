// Package generation sequences one metered generation call: expiry check,
// quota reservation, provider call, extraction and persistence.
package generation

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/studyforge/studyforge/internal/application/extraction"
	"github.com/studyforge/studyforge/internal/application/subscription"
	"github.com/studyforge/studyforge/internal/application/usage"
	"github.com/studyforge/studyforge/internal/domain/artifact"
	"github.com/studyforge/studyforge/internal/shared/logger"
	"github.com/studyforge/studyforge/internal/shared/utils/logutil"
)

// Generator is the external provider: prompt in, free text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type StatusChecker interface {
	CheckStatus(ctx context.Context, accountID string) (*subscription.Status, error)
}

type QuotaReserver interface {
	TryReserve(ctx context.Context, accountID string) (usage.Reservation, error)
}

// Renderer turns a chat reply into sanitized HTML.
type Renderer interface {
	Render(text string) (string, error)
}

// Metrics receives one observation per generation call. Nil is allowed.
type Metrics interface {
	ObserveGeneration(kind artifact.Kind, outcome string, elapsed time.Duration)
}

const (
	// DefaultListLimit applies when the caller gives no limit.
	DefaultListLimit = 50
	// MaxListLimit is the largest page ListArtifacts returns.
	MaxListLimit = 200
	// RecentPerKind is how many artifacts Stats returns for each kind.
	RecentPerKind = 5
)

type Service struct {
	lifecycle StatusChecker
	ledger    QuotaReserver
	generator Generator
	extractor *extraction.Extractor
	artifacts artifact.Repository
	renderer  Renderer
	metrics   Metrics
	timeout   time.Duration
	logger    logger.Interface
}

type Option func(*Service)

// WithTimeout bounds each provider call. Zero leaves it unbounded.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithRenderer(r Renderer) Option {
	return func(s *Service) {
		s.renderer = r
	}
}

func NewService(
	lifecycle StatusChecker,
	ledger QuotaReserver,
	generator Generator,
	extractor *extraction.Extractor,
	artifacts artifact.Repository,
	logger logger.Interface,
	opts ...Option,
) *Service {
	s := &Service{
		lifecycle: lifecycle,
		ledger:    ledger,
		generator: generator,
		extractor: extractor,
		artifacts: artifacts,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// call describes one generation request.
type call struct {
	kind      artifact.Kind
	schema    extraction.Schema
	source    string
	prompt    string
	accountID *string
	finish    func(artifact.Payload) artifact.Payload
}

func (s *Service) GenerateChat(ctx context.Context, prompt string, accountID *string) (*artifact.Artifact, error) {
	return s.run(ctx, call{
		kind:      artifact.KindChat,
		schema:    extraction.SchemaChat,
		source:    prompt,
		prompt:    chatPrompt(prompt),
		accountID: accountID,
		finish:    s.renderChat,
	})
}

func (s *Service) GenerateQuiz(ctx context.Context, topic string, accountID *string) (*artifact.Artifact, error) {
	return s.run(ctx, call{
		kind:      artifact.KindQuiz,
		schema:    extraction.SchemaQuiz,
		source:    topic,
		prompt:    quizPrompt(topic),
		accountID: accountID,
	})
}

func (s *Service) EvaluateAnswer(ctx context.Context, question, answer string, accountID *string) (*artifact.Artifact, error) {
	return s.run(ctx, call{
		kind:      artifact.KindEvaluation,
		schema:    extraction.SchemaEvaluation,
		source:    question,
		prompt:    evaluationPrompt(question, answer),
		accountID: accountID,
		finish: func(p artifact.Payload) artifact.Payload {
			eval := p.(artifact.AnswerEvaluation)
			eval.Question = question
			eval.Answer = answer
			return eval
		},
	})
}

func (s *Service) GenerateMindMap(ctx context.Context, topic string, accountID *string) (*artifact.Artifact, error) {
	return s.run(ctx, call{
		kind:      artifact.KindMindMap,
		schema:    extraction.SchemaMindMap,
		source:    topic,
		prompt:    mindMapPrompt(topic),
		accountID: accountID,
	})
}

func (s *Service) run(ctx context.Context, c call) (*artifact.Artifact, error) {
	start := time.Now()
	outcome := "success"
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveGeneration(c.kind, outcome, time.Since(start))
		}
	}()

	if c.accountID != nil {
		if _, err := s.lifecycle.CheckStatus(ctx, *c.accountID); err != nil {
			outcome = "account_error"
			return nil, accountFailure(err)
		}
		res, err := s.ledger.TryReserve(ctx, *c.accountID)
		if err != nil {
			outcome = "account_error"
			return nil, accountFailure(err)
		}
		if !res.Granted() {
			outcome = "quota_exceeded"
			return nil, accountFailure(res.Reason)
		}
	}

	raw, err := s.generate(ctx, c.prompt)
	if err != nil {
		outcome = "provider_error"
		s.logger.Warnw("provider call failed", "kind", c.kind, "account_id", derefOr(c.accountID, ""), "error", err)
		return nil, providerFailure(err)
	}

	payload, err := s.extractor.Extract(raw, c.schema)
	if err != nil {
		outcome = "malformed_response"
		s.logger.Warnw("provider response rejected",
			"kind", c.kind,
			"error", err,
			"raw_excerpt", logutil.Excerpt(raw, 200),
		)
		return nil, malformed(err)
	}
	if c.finish != nil {
		payload = c.finish(payload)
	}

	a, err := artifact.New(c.source, raw, payload, c.accountID)
	if err != nil {
		outcome = "storage_error"
		return nil, storageFailure(err)
	}
	if err := s.artifacts.Create(ctx, a); err != nil {
		outcome = "storage_error"
		s.logger.Errorw("failed to persist artifact", "kind", c.kind, "error", err)
		return nil, storageFailure(err)
	}

	s.logger.Infow("artifact generated",
		"artifact_id", a.SID(),
		"kind", c.kind,
		"account_id", derefOr(c.accountID, ""),
		"elapsed", time.Since(start),
	)
	return a, nil
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", errors.Join(ErrProviderTimeout, err)
	}
	return raw, err
}

func (s *Service) renderChat(p artifact.Payload) artifact.Payload {
	reply := p.(artifact.ChatReply)
	if s.renderer == nil {
		return reply
	}
	html, err := s.renderer.Render(reply.Text)
	if err != nil {
		s.logger.Warnw("failed to render chat reply", "error", err)
		return reply
	}
	reply.HTML = html
	return reply
}

// ListArtifacts returns an account's artifacts, or only anonymous ones when
// accountID is nil. kind nil lists every kind.
func (s *Service) ListArtifacts(ctx context.Context, kind *artifact.Kind, accountID *string, limit int) ([]*artifact.Artifact, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	filter := artifact.ListFilter{Kind: kind, Limit: limit}
	if accountID != nil {
		filter.OwnerID = accountID
	} else {
		filter.Anonymous = true
	}

	items, err := s.artifacts.List(ctx, filter)
	if err != nil {
		return nil, storageFailure(err)
	}
	return items, nil
}

// Stats summarizes an account's usage and history.
type Stats struct {
	Status *subscription.Status
	Counts map[artifact.Kind]int64
	Recent map[artifact.Kind][]*artifact.Artifact
	Total  int64
}

// Stats loads the per-kind counts and the latest artifacts of each kind
// concurrently.
func (s *Service) Stats(ctx context.Context, accountID string) (*Stats, error) {
	status, err := s.lifecycle.CheckStatus(ctx, accountID)
	if err != nil {
		return nil, accountFailure(err)
	}

	g, gctx := errgroup.WithContext(ctx)

	var counts map[artifact.Kind]int64
	g.Go(func() error {
		var err error
		counts, err = s.artifacts.CountByKind(gctx, accountID)
		return err
	})

	recent := make([][]*artifact.Artifact, len(artifact.Kinds))
	for i, kind := range artifact.Kinds {
		g.Go(func() error {
			items, err := s.artifacts.List(gctx, artifact.ListFilter{
				Kind:    &kind,
				OwnerID: &accountID,
				Limit:   RecentPerKind,
			})
			if err != nil {
				return err
			}
			recent[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, storageFailure(err)
	}

	stats := &Stats{
		Status: status,
		Counts: make(map[artifact.Kind]int64, len(artifact.Kinds)),
		Recent: make(map[artifact.Kind][]*artifact.Artifact, len(artifact.Kinds)),
	}
	for i, kind := range artifact.Kinds {
		stats.Counts[kind] = counts[kind]
		stats.Total += counts[kind]
		stats.Recent[kind] = recent[i]
	}
	return stats, nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
