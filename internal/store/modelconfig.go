package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oneselect/oneselect/internal/domain"
)

type ModelConfigStore struct {
	db *pgxpool.Pool
}

func NewModelConfigStore(db *pgxpool.Pool) *ModelConfigStore {
	return &ModelConfigStore{db: db}
}

func (s *ModelConfigStore) Upsert(ctx context.Context, m *domain.ModelConfig) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO model_configs
		 (project_id, dimension, prior_mean, prior_stddev, logistic_scale,
		  tie_multiplier, much_better_multiplier, closeness_scale, target_variance)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (project_id, dimension) DO UPDATE SET
		   prior_mean = EXCLUDED.prior_mean,
		   prior_stddev = EXCLUDED.prior_stddev,
		   logistic_scale = EXCLUDED.logistic_scale,
		   tie_multiplier = EXCLUDED.tie_multiplier,
		   much_better_multiplier = EXCLUDED.much_better_multiplier,
		   closeness_scale = EXCLUDED.closeness_scale,
		   target_variance = EXCLUDED.target_variance,
		   updated_at = now()
		 RETURNING updated_at`,
		m.ProjectID, m.Dimension, m.PriorMean, m.PriorStdDev, m.LogisticScale,
		m.TieMultiplier, m.MuchBetterMultiplier, m.ClosenessScale, m.TargetVariance,
	).Scan(&m.UpdatedAt)
}

func (s *ModelConfigStore) Get(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) (*domain.ModelConfig, error) {
	m := &domain.ModelConfig{}
	err := s.db.QueryRow(ctx,
		`SELECT project_id, dimension, prior_mean, prior_stddev, logistic_scale,
		        tie_multiplier, much_better_multiplier, closeness_scale, target_variance, updated_at
		 FROM model_configs WHERE project_id = $1 AND dimension = $2`,
		projectID, dim,
	).Scan(&m.ProjectID, &m.Dimension, &m.PriorMean, &m.PriorStdDev, &m.LogisticScale,
		&m.TieMultiplier, &m.MuchBetterMultiplier, &m.ClosenessScale, &m.TargetVariance, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}
