package models

import (
	"time"

	"github.com/studyforge/studyforge/internal/shared/constants"
)

// AccountModel is the row shape of the accounts table. Quota and
// subscription columns are only changed through single UPDATE statements.
type AccountModel struct {
	ID                 uint   `gorm:"primarykey"`
	SID                string `gorm:"column:sid;uniqueIndex;not null;size:32"`
	Email              string `gorm:"uniqueIndex;not null;size:255"`
	Name               string `gorm:"not null;size:100"`
	PasswordHash       string `gorm:"not null;size:255"`
	Role               string `gorm:"not null;size:16;default:user"`
	PlanTier           string `gorm:"not null;size:16;default:free"`
	RequestsUsed       int    `gorm:"not null;default:0"`
	SubscriptionStatus string `gorm:"not null;size:16;default:inactive"`
	SubscriptionEndAt  *time.Time
	BillingRef         *string `gorm:"size:255"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (AccountModel) TableName() string {
	return constants.TableAccounts
}
