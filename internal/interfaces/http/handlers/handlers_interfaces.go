package handlers

import (
	"context"

	accountapp "github.com/studyforge/studyforge/internal/application/account"
	"github.com/studyforge/studyforge/internal/application/generation"
	"github.com/studyforge/studyforge/internal/domain/artifact"
	"github.com/studyforge/studyforge/internal/domain/plan"
)

// Service interfaces the handlers depend on; the application services
// satisfy them and tests substitute stubs.

type authService interface {
	Register(ctx context.Context, cmd accountapp.RegisterCommand) (*accountapp.SessionDTO, error)
	Login(ctx context.Context, cmd accountapp.LoginCommand) (*accountapp.SessionDTO, error)
}

type accountService interface {
	Status(ctx context.Context, accountID string) (*accountapp.StatusDTO, error)
	Upgrade(ctx context.Context, accountID string, billingRef *string) (*accountapp.StatusDTO, error)
	Downgrade(ctx context.Context, accountID string) (*accountapp.StatusDTO, error)
	ResetUsage(ctx context.Context, accountID string) (*accountapp.StatusDTO, error)
}

type generationService interface {
	GenerateChat(ctx context.Context, prompt string, accountID *string) (*artifact.Artifact, error)
	GenerateQuiz(ctx context.Context, topic string, accountID *string) (*artifact.Artifact, error)
	EvaluateAnswer(ctx context.Context, question, answer string, accountID *string) (*artifact.Artifact, error)
	GenerateMindMap(ctx context.Context, topic string, accountID *string) (*artifact.Artifact, error)
	ListArtifacts(ctx context.Context, kind *artifact.Kind, accountID *string, limit int) ([]*artifact.Artifact, error)
	Stats(ctx context.Context, accountID string) (*generation.Stats, error)
}

type planCatalog interface {
	AllPlans() map[plan.Tier]plan.Definition
	LimitsFor(tier plan.Tier) (plan.Definition, error)
}
