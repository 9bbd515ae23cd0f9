// Package artifact models the validated outputs of generation calls.
// Artifacts are appended once and only read afterwards.
package artifact

import (
	"fmt"
	"time"

	"github.com/studyforge/studyforge/internal/shared/id"
)

type Artifact struct {
	id        uint
	sid       string
	source    string
	raw       string
	payload   Payload
	ownerID   *string
	createdAt time.Time
}

// New builds an artifact for a payload the extractor has already validated.
// ownerID is nil for anonymous calls.
func New(source, raw string, payload Payload, ownerID *string) (*Artifact, error) {
	if payload == nil {
		return nil, fmt.Errorf("payload is required")
	}
	sid, err := id.NewArtifactID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate artifact ID: %w", err)
	}
	return &Artifact{
		sid:       sid,
		source:    source,
		raw:       raw,
		payload:   payload,
		ownerID:   copyString(ownerID),
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds an artifact loaded from storage.
func Reconstruct(id uint, sid, source, raw string, payload Payload, ownerID *string, createdAt time.Time) (*Artifact, error) {
	if id == 0 {
		return nil, fmt.Errorf("artifact ID cannot be zero")
	}
	if payload == nil {
		return nil, fmt.Errorf("payload is required")
	}
	return &Artifact{
		id:        id,
		sid:       sid,
		source:    source,
		raw:       raw,
		payload:   payload,
		ownerID:   copyString(ownerID),
		createdAt: createdAt,
	}, nil
}

func (a *Artifact) ID() uint {
	return a.id
}

func (a *Artifact) SID() string {
	return a.sid
}

func (a *Artifact) Kind() Kind {
	return a.payload.Kind()
}

// Source is the prompt or topic the artifact was generated from.
func (a *Artifact) Source() string {
	return a.source
}

// Raw is the unprocessed provider text.
func (a *Artifact) Raw() string {
	return a.raw
}

func (a *Artifact) Payload() Payload {
	return a.payload
}

func (a *Artifact) OwnerID() *string {
	return copyString(a.ownerID)
}

func (a *Artifact) CreatedAt() time.Time {
	return a.createdAt
}

// SetID is used by the persistence layer after insert.
func (a *Artifact) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("artifact ID is already set")
	}
	a.id = id
	return nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
