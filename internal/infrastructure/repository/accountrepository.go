package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/studyforge/studyforge/internal/domain/account"
	"github.com/studyforge/studyforge/internal/domain/plan"
	"github.com/studyforge/studyforge/internal/infrastructure/persistence/mappers"
	"github.com/studyforge/studyforge/internal/infrastructure/persistence/models"
	apperrors "github.com/studyforge/studyforge/internal/shared/errors"
	"github.com/studyforge/studyforge/internal/shared/logger"
)

// AccountRepository stores accounts through GORM. Quota and subscription
// changes are each one UPDATE whose WHERE clause carries the precondition,
// so the database row decides races.
type AccountRepository struct {
	db     *gorm.DB
	mapper mappers.AccountMapper
	logger logger.Interface
}

func NewAccountRepository(db *gorm.DB, logger logger.Interface) *AccountRepository {
	return &AccountRepository{
		db:     db,
		mapper: mappers.NewAccountMapper(),
		logger: logger,
	}
}

var _ account.Repository = (*AccountRepository)(nil)

func (r *AccountRepository) Create(ctx context.Context, entity *account.Account) error {
	model := r.mapper.ToModel(entity)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return account.ErrEmailTaken
		}
		r.logger.Errorw("failed to create account", "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set account ID: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, sid string) (*account.Account, error) {
	return r.first(ctx, "sid = ?", sid)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *AccountRepository) first(ctx context.Context, query string, arg string) (*account.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrAccountNotFound
		}
		r.logger.Errorw("failed to load account", "error", err)
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map account model", "sid", model.SID, "error", err)
		return nil, fmt.Errorf("failed to map account: %w", err)
	}
	return entity, nil
}

func (r *AccountRepository) IncrementUsage(ctx context.Context, sid string, tier plan.Tier, ceiling int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("sid = ? AND plan_tier = ? AND requests_used < ?", sid, tier.String(), ceiling).
		Updates(map[string]interface{}{
			"requests_used": gorm.Expr("requests_used + 1"),
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to increment usage", "sid", sid, "error", result.Error)
		return false, fmt.Errorf("failed to increment usage: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *AccountRepository) ResetUsage(ctx context.Context, sid string) error {
	return r.update(ctx, sid, map[string]interface{}{
		"requests_used": 0,
	})
}

func (r *AccountRepository) ApplySubscription(ctx context.Context, sid string, sub account.Subscription) error {
	var endAt *time.Time
	if sub.EndAt != nil {
		utc := sub.EndAt.UTC()
		endAt = &utc
	}
	return r.update(ctx, sid, map[string]interface{}{
		"plan_tier":           sub.Tier.String(),
		"subscription_status": sub.Status.String(),
		"subscription_end_at": endAt,
		"billing_ref":         sub.BillingRef,
	})
}

func (r *AccountRepository) SetRole(ctx context.Context, sid string, role account.Role) error {
	return r.update(ctx, sid, map[string]interface{}{
		"role": role.String(),
	})
}

// update applies an unconditional change; a missing row is ErrAccountNotFound.
func (r *AccountRepository) update(ctx context.Context, sid string, values map[string]interface{}) error {
	values["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("sid = ?", sid).
		Updates(values)
	if result.Error != nil {
		r.logger.Errorw("failed to update account", "sid", sid, "error", result.Error)
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) ExpireSubscription(ctx context.Context, sid string, now time.Time) (bool, error) {
	free := account.FreeSubscription()
	result := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("sid = ? AND plan_tier = ? AND subscription_end_at IS NOT NULL AND subscription_end_at < ?",
			sid, plan.TierPremium.String(), now.UTC()).
		Updates(map[string]interface{}{
			"plan_tier":           free.Tier.String(),
			"subscription_status": free.Status.String(),
			"subscription_end_at": nil,
			"billing_ref":         nil,
			"updated_at":          now.UTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to expire subscription", "sid", sid, "error", result.Error)
		return false, fmt.Errorf("failed to expire subscription: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *AccountRepository) ListLapsed(ctx context.Context, now time.Time, limit int) ([]string, error) {
	var sids []string
	query := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("plan_tier = ? AND subscription_end_at IS NOT NULL AND subscription_end_at < ?",
			plan.TierPremium.String(), now.UTC()).
		Order("subscription_end_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Pluck("sid", &sids).Error; err != nil {
		r.logger.Errorw("failed to list lapsed accounts", "error", err)
		return nil, fmt.Errorf("failed to list lapsed accounts: %w", err)
	}
	return sids, nil
}
