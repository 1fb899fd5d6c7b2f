package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oneselect/oneselect/internal/domain"
)

type ScoreStore struct {
	db *pgxpool.Pool
}

func NewScoreStore(db *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{db: db}
}

func (s *ScoreStore) Upsert(ctx context.Context, sc *domain.Score) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO scores (feature_id, dimension, mean, stddev)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (feature_id, dimension)
		 DO UPDATE SET mean = EXCLUDED.mean, stddev = EXCLUDED.stddev, updated_at = now()
		 RETURNING updated_at`,
		sc.FeatureID, sc.Dimension, sc.Mean, sc.StdDev,
	).Scan(&sc.UpdatedAt)
}

func (s *ScoreStore) GetByFeature(ctx context.Context, featureID uuid.UUID, dim domain.Dimension) (*domain.Score, error) {
	sc := &domain.Score{}
	err := s.db.QueryRow(ctx,
		`SELECT feature_id, dimension, mean, stddev, updated_at
		 FROM scores WHERE feature_id = $1 AND dimension = $2`,
		featureID, dim,
	).Scan(&sc.FeatureID, &sc.Dimension, &sc.Mean, &sc.StdDev, &sc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sc, nil
}

func (s *ScoreStore) ListByProject(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) ([]domain.Score, error) {
	rows, err := s.db.Query(ctx,
		`SELECT s.feature_id, s.dimension, s.mean, s.stddev, s.updated_at
		 FROM scores s JOIN features f ON s.feature_id = f.id
		 WHERE f.project_id = $1 AND s.dimension = $2`,
		projectID, dim,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []domain.Score
	for rows.Next() {
		var sc domain.Score
		if err := rows.Scan(&sc.FeatureID, &sc.Dimension, &sc.Mean, &sc.StdDev, &sc.UpdatedAt); err != nil {
			return nil, err
		}
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}

func (s *ScoreStore) ResetDimension(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM scores WHERE dimension = $2
		 AND feature_id IN (SELECT id FROM features WHERE project_id = $1)`,
		projectID, dim,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
