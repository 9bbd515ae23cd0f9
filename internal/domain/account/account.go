// Package account models a metered account: its identity, its plan tier,
// its request counter and the subscription window that decides the tier.
package account

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/studyforge/studyforge/internal/domain/plan"
	"github.com/studyforge/studyforge/internal/shared/id"
)

// Role separates administrators from ordinary accounts.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole accepts only known roles.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}

// Account is the aggregate root. The counter and the subscription fields are
// only ever changed in storage by single conditional statements; the values
// held here are a snapshot.
type Account struct {
	id           uint
	sid          string
	email        string
	name         string
	passwordHash string
	role         Role
	subscription Subscription
	requestsUsed int
	createdAt    time.Time
	updatedAt    time.Time
}

// NewAccount creates a free, inactive account with a zero counter.
func NewAccount(email, name, passwordHash string) (*Account, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}

	sid, err := id.NewAccountID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account ID: %w", err)
	}

	now := time.Now().UTC()
	return &Account{
		sid:          sid,
		email:        normalized,
		name:         name,
		passwordHash: passwordHash,
		role:         RoleUser,
		subscription: FreeSubscription(),
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// AccountData carries persisted state into ReconstructAccount.
type AccountData struct {
	ID                 uint
	SID                string
	Email              string
	Name               string
	PasswordHash       string
	Role               Role
	Tier               plan.Tier
	RequestsUsed       int
	SubscriptionStatus Status
	SubscriptionEndAt  *time.Time
	BillingRef         *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ReconstructAccount rebuilds an account loaded from storage.
func ReconstructAccount(d AccountData) (*Account, error) {
	if d.ID == 0 {
		return nil, fmt.Errorf("account ID cannot be zero")
	}
	if d.SID == "" {
		return nil, fmt.Errorf("account SID is required")
	}
	if _, err := plan.ParseTier(string(d.Tier)); err != nil {
		return nil, err
	}
	if d.RequestsUsed < 0 {
		return nil, fmt.Errorf("requests used cannot be negative")
	}
	role := d.Role
	if role == "" {
		role = RoleUser
	}

	return &Account{
		id:           d.ID,
		sid:          d.SID,
		email:        d.Email,
		name:         d.Name,
		passwordHash: d.PasswordHash,
		role:         role,
		subscription: Subscription{
			Tier:       d.Tier,
			Status:     d.SubscriptionStatus,
			EndAt:      d.SubscriptionEndAt,
			BillingRef: d.BillingRef,
		},
		requestsUsed: d.RequestsUsed,
		createdAt:    d.CreatedAt,
		updatedAt:    d.UpdatedAt,
	}, nil
}

// NormalizeEmail trims, lower-cases and syntax-checks an address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func (a *Account) ID() uint {
	return a.id
}

// SID returns the public "acc_" identifier.
func (a *Account) SID() string {
	return a.sid
}

func (a *Account) Email() string {
	return a.email
}

func (a *Account) Name() string {
	return a.name
}

func (a *Account) PasswordHash() string {
	return a.passwordHash
}

func (a *Account) Role() Role {
	return a.role
}

func (a *Account) IsAdmin() bool {
	return a.role == RoleAdmin
}

func (a *Account) Tier() plan.Tier {
	return a.subscription.Tier
}

func (a *Account) RequestsUsed() int {
	return a.requestsUsed
}

// Subscription returns a copy of the subscription state.
func (a *Account) Subscription() Subscription {
	return a.subscription.clone()
}

func (a *Account) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Account) UpdatedAt() time.Time {
	return a.updatedAt
}

// SetID is used by the persistence layer after insert.
func (a *Account) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("account ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("account ID cannot be zero")
	}
	a.id = id
	return nil
}

// CanMakeRequest answers with the same rule the usage ledger reserves with,
// so the two never disagree for the same stored state.
func (a *Account) CanMakeRequest(catalog *plan.Catalog) (bool, error) {
	def, err := catalog.LimitsFor(a.subscription.Tier)
	if err != nil {
		return false, err
	}
	return def.Allows(a.requestsUsed), nil
}

// IsLapsed reports whether a premium window has ended before now.
func (a *Account) IsLapsed(now time.Time) bool {
	return a.subscription.IsLapsed(now)
}
