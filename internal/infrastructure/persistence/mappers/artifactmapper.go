package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/studyforge/studyforge/internal/domain/artifact"
	"github.com/studyforge/studyforge/internal/infrastructure/persistence/models"
)

type ArtifactMapper interface {
	ToEntity(model *models.ArtifactModel) (*artifact.Artifact, error)
	ToModel(entity *artifact.Artifact) (*models.ArtifactModel, error)
	ToEntities(models []*models.ArtifactModel) ([]*artifact.Artifact, error)
}

type artifactMapper struct{}

func NewArtifactMapper() ArtifactMapper {
	return &artifactMapper{}
}

func (m *artifactMapper) ToEntity(model *models.ArtifactModel) (*artifact.Artifact, error) {
	if model == nil {
		return nil, nil
	}

	kind, err := artifact.ParseKind(model.Kind)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", model.SID, err)
	}
	payload, err := decodePayload(kind, model.Payload)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", model.SID, err)
	}

	return artifact.Reconstruct(model.ID, model.SID, model.Source, model.RawResponse, payload, model.OwnerSID, model.CreatedAt)
}

func (m *artifactMapper) ToModel(entity *artifact.Artifact) (*models.ArtifactModel, error) {
	if entity == nil {
		return nil, nil
	}

	data, err := json.Marshal(entity.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", entity.Kind(), err)
	}

	return &models.ArtifactModel{
		ID:          entity.ID(),
		SID:         entity.SID(),
		Kind:        entity.Kind().String(),
		Source:      entity.Source(),
		RawResponse: entity.Raw(),
		Payload:     datatypes.JSON(data),
		OwnerSID:    entity.OwnerID(),
		CreatedAt:   entity.CreatedAt(),
	}, nil
}

func (m *artifactMapper) ToEntities(list []*models.ArtifactModel) ([]*artifact.Artifact, error) {
	out := make([]*artifact.Artifact, 0, len(list))
	for _, model := range list {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

func decodePayload(kind artifact.Kind, data []byte) (artifact.Payload, error) {
	switch kind {
	case artifact.KindChat:
		var p artifact.ChatReply
		err := json.Unmarshal(data, &p)
		return p, err
	case artifact.KindQuiz:
		var p artifact.Quiz
		err := json.Unmarshal(data, &p)
		return p, err
	case artifact.KindEvaluation:
		var p artifact.AnswerEvaluation
		err := json.Unmarshal(data, &p)
		return p, err
	case artifact.KindMindMap:
		var p artifact.MindMap
		err := json.Unmarshal(data, &p)
		return p, err
	default:
		return nil, fmt.Errorf("%w: %s", artifact.ErrUnknownKind, kind)
	}
}
