package handlers

import (
	"time"

	accountapp "github.com/studyforge/studyforge/internal/application/account"
	"github.com/studyforge/studyforge/internal/application/generation"
	"github.com/studyforge/studyforge/internal/domain/artifact"
)

// ArtifactDTO is the public view of an artifact. The raw provider text is
// kept server side.
type ArtifactDTO struct {
	ID        string           `json:"id"`
	Kind      string           `json:"kind"`
	Source    string           `json:"source"`
	Payload   artifact.Payload `json:"payload"`
	CreatedAt time.Time        `json:"created_at"`
}

func toArtifactDTO(a *artifact.Artifact) ArtifactDTO {
	return ArtifactDTO{
		ID:        a.SID(),
		Kind:      a.Kind().String(),
		Source:    a.Source(),
		Payload:   a.Payload(),
		CreatedAt: a.CreatedAt(),
	}
}

func toArtifactDTOs(items []*artifact.Artifact) []ArtifactDTO {
	out := make([]ArtifactDTO, 0, len(items))
	for _, a := range items {
		out = append(out, toArtifactDTO(a))
	}
	return out
}

// StatsDTO is the account dashboard: quota status plus per-kind activity.
type StatsDTO struct {
	Status *accountapp.StatusDTO    `json:"status"`
	Counts map[string]int64         `json:"counts"`
	Recent map[string][]ArtifactDTO `json:"recent"`
	Total  int64                    `json:"total"`
}

func toStatsDTO(s *generation.Stats) StatsDTO {
	dto := StatsDTO{
		Status: accountapp.ToStatusDTO(s.Status),
		Counts: make(map[string]int64, len(s.Counts)),
		Recent: make(map[string][]ArtifactDTO, len(s.Recent)),
		Total:  s.Total,
	}
	for kind, n := range s.Counts {
		dto.Counts[kind.String()] = n
	}
	for kind, items := range s.Recent {
		dto.Recent[kind.String()] = toArtifactDTOs(items)
	}
	return dto
}
