package domain

import (
	"context"

	"github.com/google/uuid"
)

type UserStore interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]User, error)
	Update(ctx context.Context, u *User) error
}

type ProjectStore interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Project, error)
	ListAll(ctx context.Context, limit, offset int) ([]Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type FeatureStore interface {
	Create(ctx context.Context, f *Feature) error
	CreateBatch(ctx context.Context, features []*Feature) error
	GetByID(ctx context.Context, id uuid.UUID) (*Feature, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Feature, error)
	Update(ctx context.Context, f *Feature) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBatch(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) (int64, error)
}

type ComparisonStore interface {
	Create(ctx context.Context, c *Comparison) error
	GetByID(ctx context.Context, id uuid.UUID) (*Comparison, error)
	// ListActive returns non-deleted comparisons for a project, optionally
	// filtered by dimension (nil means all dimensions).
	ListActive(ctx context.Context, projectID uuid.UUID, dim *Dimension) ([]Comparison, error)
	ListIncludingDeleted(ctx context.Context, projectID uuid.UUID) ([]Comparison, error)
	// LatestActive returns the most recent non-deleted comparison for a
	// dimension, or ErrNotFound.
	LatestActive(ctx context.Context, projectID uuid.UUID, dim Dimension) (*Comparison, error)
	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error
	// DeleteByDimension soft-deletes every active comparison for a
	// dimension (all dimensions when dim is nil) and returns the count.
	DeleteByDimension(ctx context.Context, projectID uuid.UUID, dim *Dimension, deletedBy uuid.UUID) (int64, error)
}

type ScoreStore interface {
	// Upsert writes a belief, inserting or replacing the (feature,
	// dimension) row.
	Upsert(ctx context.Context, s *Score) error
	GetByFeature(ctx context.Context, featureID uuid.UUID, dim Dimension) (*Score, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, dim Dimension) ([]Score, error)
	// ResetDimension removes persisted beliefs so features fall back to the
	// prior. Returns the number of rows removed.
	ResetDimension(ctx context.Context, projectID uuid.UUID, dim Dimension) (int64, error)
}

type ModelConfigStore interface {
	Upsert(ctx context.Context, m *ModelConfig) error
	// Get returns the stored tunables for a dimension, or ErrNotFound when
	// the project still runs on defaults.
	Get(ctx context.Context, projectID uuid.UUID, dim Dimension) (*ModelConfig, error)
}
