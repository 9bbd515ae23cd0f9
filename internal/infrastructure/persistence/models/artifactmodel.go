package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/studyforge/studyforge/internal/shared/constants"
)

// ArtifactModel stores one generated artifact. Payload holds the typed
// result as JSON; Kind selects how it is decoded.
type ArtifactModel struct {
	ID          uint           `gorm:"primarykey"`
	SID         string         `gorm:"column:sid;uniqueIndex;not null;size:32"`
	Kind        string         `gorm:"not null;size:16;index:idx_artifacts_kind_created,priority:1"`
	Source      string         `gorm:"type:text;not null"`
	RawResponse string         `gorm:"type:text;not null"`
	Payload     datatypes.JSON `gorm:"not null"`
	OwnerSID    *string        `gorm:"column:owner_sid;size:32"`
	CreatedAt   time.Time      `gorm:"index:idx_artifacts_kind_created,priority:2"`
}

func (ArtifactModel) TableName() string {
	return constants.TableArtifacts
}
