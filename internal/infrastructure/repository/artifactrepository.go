package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/studyforge/studyforge/internal/domain/artifact"
	"github.com/studyforge/studyforge/internal/infrastructure/persistence/mappers"
	"github.com/studyforge/studyforge/internal/infrastructure/persistence/models"
	"github.com/studyforge/studyforge/internal/shared/logger"
)

type ArtifactRepository struct {
	db     *gorm.DB
	mapper mappers.ArtifactMapper
	logger logger.Interface
}

func NewArtifactRepository(db *gorm.DB, logger logger.Interface) *ArtifactRepository {
	return &ArtifactRepository{
		db:     db,
		mapper: mappers.NewArtifactMapper(),
		logger: logger,
	}
}

var _ artifact.Repository = (*ArtifactRepository)(nil)

func (r *ArtifactRepository) Create(ctx context.Context, entity *artifact.Artifact) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map artifact: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create artifact", "kind", model.Kind, "error", err)
		return fmt.Errorf("failed to create artifact: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set artifact ID: %w", err)
	}
	return nil
}

func (r *ArtifactRepository) List(ctx context.Context, filter artifact.ListFilter) ([]*artifact.Artifact, error) {
	query := r.db.WithContext(ctx).Model(&models.ArtifactModel{})

	if filter.Kind != nil {
		query = query.Where("kind = ?", filter.Kind.String())
	}
	switch {
	case filter.Anonymous:
		query = query.Where("owner_sid IS NULL")
	case filter.OwnerID != nil:
		query = query.Where("owner_sid = ?", *filter.OwnerID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var list []*models.ArtifactModel
	if err := query.Order("created_at DESC").Order("id DESC").Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list artifacts", "error", err)
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	entities, err := r.mapper.ToEntities(list)
	if err != nil {
		r.logger.Errorw("failed to map artifacts", "error", err)
		return nil, fmt.Errorf("failed to map artifacts: %w", err)
	}
	return entities, nil
}

type kindCount struct {
	Kind  string
	Total int64
}

func (r *ArtifactRepository) CountByKind(ctx context.Context, ownerID string) (map[artifact.Kind]int64, error) {
	var rows []kindCount
	err := r.db.WithContext(ctx).
		Model(&models.ArtifactModel{}).
		Select("kind, COUNT(*) AS total").
		Where("owner_sid = ?", ownerID).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to count artifacts", "owner_sid", ownerID, "error", err)
		return nil, fmt.Errorf("failed to count artifacts: %w", err)
	}

	counts := make(map[artifact.Kind]int64, len(artifact.Kinds))
	for _, k := range artifact.Kinds {
		counts[k] = 0
	}
	for _, row := range rows {
		kind, err := artifact.ParseKind(row.Kind)
		if err != nil {
			r.logger.Warnw("skipping unknown artifact kind", "kind", row.Kind)
			continue
		}
		counts[kind] = row.Total
	}
	return counts, nil
}
