package handlers

import (
	"context"

	accountapp "github.com/studyforge/studyforge/internal/application/account"
	"github.com/studyforge/studyforge/internal/application/generation"
	"github.com/studyforge/studyforge/internal/domain/artifact"
)

type mockAuthService struct {
	session  *accountapp.SessionDTO
	err      error
	register accountapp.RegisterCommand
}

func (m *mockAuthService) Register(_ context.Context, cmd accountapp.RegisterCommand) (*accountapp.SessionDTO, error) {
	m.register = cmd
	return m.session, m.err
}

func (m *mockAuthService) Login(_ context.Context, _ accountapp.LoginCommand) (*accountapp.SessionDTO, error) {
	return m.session, m.err
}

type mockAccountService struct {
	status     *accountapp.StatusDTO
	err        error
	accountID  string
	billingRef *string
}

func (m *mockAccountService) Status(_ context.Context, accountID string) (*accountapp.StatusDTO, error) {
	m.accountID = accountID
	return m.status, m.err
}

func (m *mockAccountService) Upgrade(_ context.Context, accountID string, billingRef *string) (*accountapp.StatusDTO, error) {
	m.accountID = accountID
	m.billingRef = billingRef
	return m.status, m.err
}

func (m *mockAccountService) Downgrade(_ context.Context, accountID string) (*accountapp.StatusDTO, error) {
	m.accountID = accountID
	return m.status, m.err
}

func (m *mockAccountService) ResetUsage(_ context.Context, accountID string) (*accountapp.StatusDTO, error) {
	m.accountID = accountID
	return m.status, m.err
}

type mockGenerationService struct {
	artifact  *artifact.Artifact
	artifacts []*artifact.Artifact
	stats     *generation.Stats
	err       error

	accountID *string
	kind      *artifact.Kind
	limit     int
	inputs    []string
}

func (m *mockGenerationService) GenerateChat(_ context.Context, prompt string, accountID *string) (*artifact.Artifact, error) {
	m.inputs, m.accountID = []string{prompt}, accountID
	return m.artifact, m.err
}

func (m *mockGenerationService) GenerateQuiz(_ context.Context, topic string, accountID *string) (*artifact.Artifact, error) {
	m.inputs, m.accountID = []string{topic}, accountID
	return m.artifact, m.err
}

func (m *mockGenerationService) EvaluateAnswer(_ context.Context, question, answer string, accountID *string) (*artifact.Artifact, error) {
	m.inputs, m.accountID = []string{question, answer}, accountID
	return m.artifact, m.err
}

func (m *mockGenerationService) GenerateMindMap(_ context.Context, topic string, accountID *string) (*artifact.Artifact, error) {
	m.inputs, m.accountID = []string{topic}, accountID
	return m.artifact, m.err
}

func (m *mockGenerationService) ListArtifacts(_ context.Context, kind *artifact.Kind, accountID *string, limit int) ([]*artifact.Artifact, error) {
	m.kind, m.accountID, m.limit = kind, accountID, limit
	return m.artifacts, m.err
}

func (m *mockGenerationService) Stats(_ context.Context, accountID string) (*generation.Stats, error) {
	m.accountID = &accountID
	return m.stats, m.err
}
