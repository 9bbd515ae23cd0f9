package artifact

import "context"

// ListFilter narrows List. Nil fields do not filter; Anonymous selects only
// artifacts without an owner and overrides OwnerID.
type ListFilter struct {
	Kind      *Kind
	OwnerID   *string
	Anonymous bool
	Limit     int
}

// Repository is append-only.
type Repository interface {
	Create(ctx context.Context, a *Artifact) error

	// List returns matching artifacts, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Artifact, error)

	// CountByKind counts an owner's artifacts per kind.
	CountByKind(ctx context.Context, ownerID string) (map[Kind]int64, error)
}
