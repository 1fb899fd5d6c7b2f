package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oneselect/oneselect/internal/domain"
)

type ComparisonStore struct {
	db *pgxpool.Pool
}

func NewComparisonStore(db *pgxpool.Pool) *ComparisonStore {
	return &ComparisonStore{db: db}
}

const comparisonColumns = `id, project_id, feature_a_id, feature_b_id, choice, dimension, user_id, created_at, deleted_at, deleted_by`

func (s *ComparisonStore) Create(ctx context.Context, c *domain.Comparison) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO comparisons (project_id, feature_a_id, feature_b_id, choice, dimension, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		c.ProjectID, c.FeatureAID, c.FeatureBID, c.Choice, c.Dimension, c.UserID,
	).Scan(&c.ID, &c.CreatedAt)
}

func (s *ComparisonStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comparison, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+comparisonColumns+` FROM comparisons
		 WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	return scanComparison(row)
}

func (s *ComparisonStore) ListActive(ctx context.Context, projectID uuid.UUID, dim *domain.Dimension) ([]domain.Comparison, error) {
	query := `SELECT ` + comparisonColumns + ` FROM comparisons
		 WHERE project_id = $1 AND deleted_at IS NULL`
	args := []any{projectID}
	if dim != nil {
		query += ` AND dimension = $2`
		args = append(args, *dim)
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComparisons(rows)
}

func (s *ComparisonStore) ListIncludingDeleted(ctx context.Context, projectID uuid.UUID) ([]domain.Comparison, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+comparisonColumns+` FROM comparisons
		 WHERE project_id = $1 ORDER BY created_at DESC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComparisons(rows)
}

func (s *ComparisonStore) LatestActive(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) (*domain.Comparison, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+comparisonColumns+` FROM comparisons
		 WHERE project_id = $1 AND dimension = $2 AND deleted_at IS NULL
		 ORDER BY created_at DESC LIMIT 1`,
		projectID, dim,
	)
	return scanComparison(row)
}

func (s *ComparisonStore) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE comparisons SET deleted_at = now(), deleted_by = $2
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, deletedBy,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ComparisonStore) DeleteByDimension(ctx context.Context, projectID uuid.UUID, dim *domain.Dimension, deletedBy uuid.UUID) (int64, error) {
	query := `UPDATE comparisons SET deleted_at = now(), deleted_by = $2
		 WHERE project_id = $1 AND deleted_at IS NULL`
	args := []any{projectID, deletedBy}
	if dim != nil {
		query += ` AND dimension = $3`
		args = append(args, *dim)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanComparison(row pgx.Row) (*domain.Comparison, error) {
	c := &domain.Comparison{}
	err := row.Scan(&c.ID, &c.ProjectID, &c.FeatureAID, &c.FeatureBID, &c.Choice, &c.Dimension, &c.UserID, &c.CreatedAt, &c.DeletedAt, &c.DeletedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func scanComparisons(rows pgx.Rows) ([]domain.Comparison, error) {
	var comps []domain.Comparison
	for rows.Next() {
		var c domain.Comparison
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.FeatureAID, &c.FeatureBID, &c.Choice, &c.Dimension, &c.UserID, &c.CreatedAt, &c.DeletedAt, &c.DeletedBy); err != nil {
			return nil, err
		}
		comps = append(comps, c)
	}
	return comps, rows.Err()
}
