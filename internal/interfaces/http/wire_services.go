package http

import (
	"fmt"

	"gorm.io/gorm"

	accountapp "github.com/studyforge/studyforge/internal/application/account"
	"github.com/studyforge/studyforge/internal/application/extraction"
	"github.com/studyforge/studyforge/internal/application/generation"
	"github.com/studyforge/studyforge/internal/application/subscription"
	"github.com/studyforge/studyforge/internal/application/usage"
	"github.com/studyforge/studyforge/internal/domain/plan"
	"github.com/studyforge/studyforge/internal/infrastructure/auth"
	"github.com/studyforge/studyforge/internal/infrastructure/config"
	"github.com/studyforge/studyforge/internal/infrastructure/email"
	"github.com/studyforge/studyforge/internal/infrastructure/generator"
	"github.com/studyforge/studyforge/internal/infrastructure/metrics"
	"github.com/studyforge/studyforge/internal/infrastructure/repository"
	"github.com/studyforge/studyforge/internal/shared/logger"
	"github.com/studyforge/studyforge/internal/shared/services/markdown"
)

// Services bundles the application layer. The HTTP container and the admin
// CLI both build it so they share one wiring.
type Services struct {
	Catalog    *plan.Catalog
	JWT        *auth.JWTService
	Lifecycle  *subscription.Lifecycle
	Ledger     *usage.Ledger
	Accounts   *accountapp.Service
	Generation *generation.Service
}

// NewServices wires repositories and application services over db. m may be
// nil, in which case nothing is observed.
func NewServices(db *gorm.DB, cfg *config.Config, log logger.Interface, m *metrics.Metrics) (*Services, error) {
	catalog, err := plan.NewCatalog(cfg.Plans.FreeRequests)
	if err != nil {
		return nil, fmt.Errorf("failed to build plan catalog: %w", err)
	}

	jwtSvc, err := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	accountRepo := repository.NewAccountRepository(db, log)
	artifactRepo := repository.NewArtifactRepository(db, log)

	recorders := subscription.Recorders{subscription.NewLogRecorder(log)}
	if cfg.Email.Enabled() {
		recorders = append(recorders, email.NewTransitionNotifier(&cfg.Email, catalog, log))
	}

	var ledgerMetrics usage.Metrics
	genOpts := []generation.Option{
		generation.WithTimeout(cfg.Generator.Timeout()),
		generation.WithRenderer(markdown.NewRenderer()),
	}
	if m != nil {
		recorders = append(recorders, m)
		ledgerMetrics = m
		genOpts = append(genOpts, generation.WithMetrics(m))
	}

	lifecycle := subscription.NewLifecycle(accountRepo, catalog, log,
		subscription.WithPeriod(cfg.Subscription.Period()),
		subscription.WithRecorder(recorders),
	)
	ledger := usage.NewLedger(accountRepo, catalog, ledgerMetrics, log)

	accounts := accountapp.NewService(
		accountRepo,
		auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost),
		jwtSvc,
		lifecycle,
		ledger,
		log,
	)

	gen := generation.NewService(
		lifecycle,
		ledger,
		generator.NewGeminiClient(&cfg.Generator, log),
		extraction.NewExtractor(),
		artifactRepo,
		log,
		genOpts...,
	)

	return &Services{
		Catalog:    catalog,
		JWT:        jwtSvc,
		Lifecycle:  lifecycle,
		Ledger:     ledger,
		Accounts:   accounts,
		Generation: gen,
	}, nil
}
