package account

import (
	"time"

	"github.com/studyforge/studyforge/internal/application/subscription"
	"github.com/studyforge/studyforge/internal/domain/account"
)

type RegisterCommand struct {
	Email    string
	Name     string
	Password string
}

type LoginCommand struct {
	Email    string
	Password string
}

// AccountDTO is the public view of an account.
type AccountDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Tier      string    `json:"tier"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionDTO is returned by register and login.
type SessionDTO struct {
	Account     AccountDTO `json:"account"`
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresIn   int64      `json:"expires_in"`
}

// StatusDTO is the accountStatus read model.
type StatusDTO struct {
	AccountID          string     `json:"account_id"`
	Tier               string     `json:"tier"`
	RequestsUsed       int        `json:"requests_used"`
	Ceiling            int        `json:"ceiling"`
	Remaining          int        `json:"remaining"`
	CanRequest         bool       `json:"can_request"`
	Features           []string   `json:"features"`
	SubscriptionStatus string     `json:"subscription_status"`
	SubscriptionEnd    *time.Time `json:"subscription_end,omitempty"`
}

func toAccountDTO(a *account.Account) AccountDTO {
	return AccountDTO{
		ID:        a.SID(),
		Email:     a.Email(),
		Name:      a.Name(),
		Role:      a.Role().String(),
		Tier:      a.Tier().String(),
		CreatedAt: a.CreatedAt(),
	}
}

// ToStatusDTO converts the lifecycle read model.
func ToStatusDTO(s *subscription.Status) *StatusDTO {
	return &StatusDTO{
		AccountID:          s.AccountID,
		Tier:               s.Tier.String(),
		RequestsUsed:       s.RequestsUsed,
		Ceiling:            s.Ceiling,
		Remaining:          s.Remaining,
		CanRequest:         s.CanRequest,
		Features:           s.Features,
		SubscriptionStatus: s.SubscriptionStatus.String(),
		SubscriptionEnd:    s.SubscriptionEnd,
	}
}
