package mappers

import (
	"fmt"

	"github.com/studyforge/studyforge/internal/domain/account"
	"github.com/studyforge/studyforge/internal/domain/plan"
	"github.com/studyforge/studyforge/internal/infrastructure/persistence/models"
)

type AccountMapper interface {
	ToEntity(model *models.AccountModel) (*account.Account, error)
	ToModel(entity *account.Account) *models.AccountModel
}

type accountMapper struct{}

func NewAccountMapper() AccountMapper {
	return &accountMapper{}
}

func (m *accountMapper) ToEntity(model *models.AccountModel) (*account.Account, error) {
	if model == nil {
		return nil, nil
	}

	role, err := account.ParseRole(model.Role)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", model.SID, err)
	}
	tier, err := plan.ParseTier(model.PlanTier)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", model.SID, err)
	}

	return account.ReconstructAccount(account.AccountData{
		ID:                 model.ID,
		SID:                model.SID,
		Email:              model.Email,
		Name:               model.Name,
		PasswordHash:       model.PasswordHash,
		Role:               role,
		Tier:               tier,
		RequestsUsed:       model.RequestsUsed,
		SubscriptionStatus: account.Status(model.SubscriptionStatus),
		SubscriptionEndAt:  model.SubscriptionEndAt,
		BillingRef:         model.BillingRef,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	})
}

func (m *accountMapper) ToModel(entity *account.Account) *models.AccountModel {
	if entity == nil {
		return nil
	}
	sub := entity.Subscription()
	return &models.AccountModel{
		ID:                 entity.ID(),
		SID:                entity.SID(),
		Email:              entity.Email(),
		Name:               entity.Name(),
		PasswordHash:       entity.PasswordHash(),
		Role:               entity.Role().String(),
		PlanTier:           sub.Tier.String(),
		RequestsUsed:       entity.RequestsUsed(),
		SubscriptionStatus: sub.Status.String(),
		SubscriptionEndAt:  sub.EndAt,
		BillingRef:         sub.BillingRef,
		CreatedAt:          entity.CreatedAt(),
		UpdatedAt:          entity.UpdatedAt(),
	}
}
