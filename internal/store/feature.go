package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oneselect/oneselect/internal/domain"
)

type FeatureStore struct {
	db *pgxpool.Pool
}

func NewFeatureStore(db *pgxpool.Pool) *FeatureStore {
	return &FeatureStore{db: db}
}

func (s *FeatureStore) Create(ctx context.Context, f *domain.Feature) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO features (project_id, name, description, tags)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		f.ProjectID, f.Name, f.Description, f.Tags,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

// CreateBatch inserts features in one transaction so bulk import is
// all-or-nothing.
func (s *FeatureStore) CreateBatch(ctx context.Context, features []*domain.Feature) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, f := range features {
		err := tx.QueryRow(ctx,
			`INSERT INTO features (project_id, name, description, tags)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at, updated_at`,
			f.ProjectID, f.Name, f.Description, f.Tags,
		).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *FeatureStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Feature, error) {
	f := &domain.Feature{}
	err := s.db.QueryRow(ctx,
		`SELECT id, project_id, name, description, tags, created_at, updated_at
		 FROM features WHERE id = $1`,
		id,
	).Scan(&f.ID, &f.ProjectID, &f.Name, &f.Description, &f.Tags, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *FeatureStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Feature, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, project_id, name, description, tags, created_at, updated_at
		 FROM features WHERE project_id = $1
		 ORDER BY created_at`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []domain.Feature
	for rows.Next() {
		var f domain.Feature
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Name, &f.Description, &f.Tags, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

func (s *FeatureStore) Update(ctx context.Context, f *domain.Feature) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE features SET name = $2, description = $3, tags = $4, updated_at = now()
		 WHERE id = $1`,
		f.ID, f.Name, f.Description, f.Tags,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *FeatureStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM features WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *FeatureStore) DeleteBatch(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM features WHERE project_id = $1 AND id = ANY($2)`,
		projectID, ids,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
