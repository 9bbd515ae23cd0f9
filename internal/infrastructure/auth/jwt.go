// Package auth issues and verifies bearer credentials and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "studyforge"

var ErrInvalidToken = errors.New("invalid token")

// Claims identify the account behind a request. Tier is informational;
// quota decisions always re-read the account.
type Claims struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
	Tier      string `json:"tier"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed access token and its expiry.
type IssuedToken struct {
	AccessToken string
	ExpiresAt   time.Time
	ExpiresIn   int64
}

type JWTService struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

// NewJWTService requires a non-empty secret; configuration validation makes
// sure one is present before the server starts.
func NewJWTService(secret string, accessExpMinutes int) (*JWTService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if accessExpMinutes <= 0 {
		accessExpMinutes = 60
	}
	return &JWTService{
		secret:    []byte(secret),
		accessTTL: time.Duration(accessExpMinutes) * time.Minute,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *JWTService) Issue(accountID, role, tier string) (*IssuedToken, error) {
	now := s.now()
	exp := now.Add(s.accessTTL)

	claims := &Claims{
		AccountID: accountID,
		Role:      role,
		Tier:      tier,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &IssuedToken{
		AccessToken: signed,
		ExpiresAt:   exp,
		ExpiresIn:   int64(s.accessTTL.Seconds()),
	}, nil
}

// IssueFor adapts Issue to the account service's token issuer contract.
func (s *JWTService) IssueFor(accountID, role, tier string) (string, int64, error) {
	tok, err := s.Issue(accountID, role, tier)
	if err != nil {
		return "", 0, err
	}
	return tok.AccessToken, tok.ExpiresIn, nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.AccountID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
