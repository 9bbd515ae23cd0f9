// Package account is the application facade for registration, login and
// the account-facing lifecycle operations.
package account

import (
	"context"
	"errors"

	"github.com/studyforge/studyforge/internal/application/common"
	"github.com/studyforge/studyforge/internal/application/subscription"
	"github.com/studyforge/studyforge/internal/domain/account"
	apperrors "github.com/studyforge/studyforge/internal/shared/errors"
	"github.com/studyforge/studyforge/internal/shared/logger"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// TokenIssuer signs access tokens; expiresIn is in seconds.
type TokenIssuer interface {
	IssueFor(accountID, role, tier string) (token string, expiresIn int64, err error)
}

// Lifecycle is the subset of subscription.Lifecycle this facade drives.
type Lifecycle interface {
	CheckStatus(ctx context.Context, accountID string) (*subscription.Status, error)
	Upgrade(ctx context.Context, accountID string, billingRef *string) (*subscription.Status, error)
	Downgrade(ctx context.Context, accountID string) (*subscription.Status, error)
}

type UsageResetter interface {
	Reset(ctx context.Context, accountID string) error
}

type Service struct {
	accounts  account.Repository
	hasher    PasswordHasher
	tokens    TokenIssuer
	lifecycle Lifecycle
	ledger    UsageResetter
	logger    logger.Interface
}

func NewService(
	accounts account.Repository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	lifecycle Lifecycle,
	ledger UsageResetter,
	logger logger.Interface,
) *Service {
	return &Service{
		accounts:  accounts,
		hasher:    hasher,
		tokens:    tokens,
		lifecycle: lifecycle,
		ledger:    ledger,
		logger:    logger,
	}
}

// Register creates a free account with a zero counter and signs it in.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*SessionDTO, error) {
	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, apperrors.NewValidationError("Password cannot be used", err.Error())
	}

	acc, err := account.NewAccount(cmd.Email, cmd.Name, hash)
	if err != nil {
		if errors.Is(err, account.ErrInvalidEmail) {
			return nil, common.ToAppError(err)
		}
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.accounts.Create(ctx, acc); err != nil {
		if !errors.Is(err, account.ErrEmailTaken) {
			s.logger.Errorw("failed to create account", "error", err)
		}
		return nil, common.ToAppError(err)
	}

	s.logger.Infow("account registered", "account_id", acc.SID())
	return s.session(acc)
}

// Login checks the password and issues a fresh access token. Unknown emails
// and wrong passwords produce the same error.
func (s *Service) Login(ctx context.Context, cmd LoginCommand) (*SessionDTO, error) {
	invalid := apperrors.NewUnauthorizedError("Invalid email or password")

	email, err := account.NormalizeEmail(cmd.Email)
	if err != nil {
		return nil, invalid
	}
	acc, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, invalid
		}
		return nil, common.ToAppError(err)
	}
	if err := s.hasher.Verify(cmd.Password, acc.PasswordHash()); err != nil {
		s.logger.Warnw("login failed", "account_id", acc.SID())
		return nil, invalid
	}

	// Tier in the token reflects the normalized state.
	status, err := s.lifecycle.CheckStatus(ctx, acc.SID())
	if err != nil {
		return nil, common.ToAppError(err)
	}
	acc, err = s.accounts.GetByID(ctx, status.AccountID)
	if err != nil {
		return nil, common.ToAppError(err)
	}
	return s.session(acc)
}

// Status is the non-consuming read path; it also normalizes expiry.
func (s *Service) Status(ctx context.Context, accountID string) (*StatusDTO, error) {
	st, err := s.lifecycle.CheckStatus(ctx, accountID)
	if err != nil {
		return nil, common.ToAppError(err)
	}
	return ToStatusDTO(st), nil
}

func (s *Service) Upgrade(ctx context.Context, accountID string, billingRef *string) (*StatusDTO, error) {
	st, err := s.lifecycle.Upgrade(ctx, accountID, billingRef)
	if err != nil {
		return nil, common.ToAppError(err)
	}
	return ToStatusDTO(st), nil
}

func (s *Service) Downgrade(ctx context.Context, accountID string) (*StatusDTO, error) {
	st, err := s.lifecycle.Downgrade(ctx, accountID)
	if err != nil {
		return nil, common.ToAppError(err)
	}
	return ToStatusDTO(st), nil
}

// ResetUsage is administrative.
func (s *Service) ResetUsage(ctx context.Context, accountID string) (*StatusDTO, error) {
	if err := s.ledger.Reset(ctx, accountID); err != nil {
		return nil, common.ToAppError(err)
	}
	return s.Status(ctx, accountID)
}

// SetRole is administrative and only reachable from the CLI.
func (s *Service) SetRole(ctx context.Context, email string, role account.Role) (*AccountDTO, error) {
	normalized, err := account.NormalizeEmail(email)
	if err != nil {
		return nil, common.ToAppError(err)
	}
	acc, err := s.accounts.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, common.ToAppError(err)
	}
	if err := s.accounts.SetRole(ctx, acc.SID(), role); err != nil {
		return nil, common.ToAppError(err)
	}
	acc, err = s.accounts.GetByID(ctx, acc.SID())
	if err != nil {
		return nil, common.ToAppError(err)
	}
	s.logger.Infow("account role changed", "account_id", acc.SID(), "role", role)
	dto := toAccountDTO(acc)
	return &dto, nil
}

func (s *Service) session(acc *account.Account) (*SessionDTO, error) {
	token, expiresIn, err := s.tokens.IssueFor(acc.SID(), acc.Role().String(), acc.Tier().String())
	if err != nil {
		s.logger.Errorw("failed to issue token", "account_id", acc.SID(), "error", err)
		return nil, apperrors.NewInternalError("Failed to issue access token")
	}
	return &SessionDTO{
		Account:     toAccountDTO(acc),
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}, nil
}
