// Package artifacttest provides an in-memory artifact.Repository for tests.
package artifacttest

import (
	"context"
	"sync"

	"github.com/studyforge/studyforge/internal/domain/artifact"
)

type Repository struct {
	mu    sync.Mutex
	items []*artifact.Artifact

	// Err, when set, is returned by every method.
	Err error
}

var _ artifact.Repository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Create(_ context.Context, a *artifact.Artifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if err := a.SetID(uint(len(r.items) + 1)); err != nil {
		return err
	}
	r.items = append(r.items, a)
	return nil
}

// All returns every stored artifact in insertion order.
func (r *Repository) All() []*artifact.Artifact {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*artifact.Artifact(nil), r.items...)
}

func (r *Repository) List(_ context.Context, f artifact.ListFilter) ([]*artifact.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*artifact.Artifact
	for i := len(r.items) - 1; i >= 0; i-- {
		a := r.items[i]
		if f.Kind != nil && a.Kind() != *f.Kind {
			continue
		}
		owner := a.OwnerID()
		switch {
		case f.Anonymous:
			if owner != nil {
				continue
			}
		case f.OwnerID != nil:
			if owner == nil || *owner != *f.OwnerID {
				continue
			}
		}
		out = append(out, a)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (r *Repository) CountByKind(_ context.Context, ownerID string) (map[artifact.Kind]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make(map[artifact.Kind]int64)
	for _, a := range r.items {
		if owner := a.OwnerID(); owner != nil && *owner == ownerID {
			out[a.Kind()]++
		}
	}
	return out, nil
}
