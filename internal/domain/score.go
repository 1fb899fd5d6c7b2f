package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/oneselect/oneselect/internal/ranking"
)

// Score is the persisted Gaussian belief for one feature along one dimension.
// Beliefs are created lazily at the prior on first observation and mutated
// only through the ranking update.
type Score struct {
	FeatureID uuid.UUID `json:"feature_id"`
	Dimension Dimension `json:"dimension"`
	Mean      float64   `json:"mean"`
	StdDev    float64   `json:"stddev"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s Score) Belief() ranking.Belief {
	return ranking.Belief{Mean: s.Mean, StdDev: s.StdDev}
}

// BeliefMap indexes scores by feature id string for the ranking core.
func BeliefMap(scores []Score) map[string]ranking.Belief {
	m := make(map[string]ranking.Belief, len(scores))
	for _, s := range scores {
		m[s.FeatureID.String()] = s.Belief()
	}
	return m
}

// ModelConfig holds the per-project tunables that govern Bayesian updates
// and pair selection for one dimension.
type ModelConfig struct {
	ProjectID            uuid.UUID `json:"project_id"`
	Dimension            Dimension `json:"dimension"`
	PriorMean            float64   `json:"prior_mean"`
	PriorStdDev          float64   `json:"prior_stddev"`
	LogisticScale        float64   `json:"logistic_scale"`
	TieMultiplier        float64   `json:"tie_multiplier"`
	MuchBetterMultiplier float64   `json:"much_better_multiplier"`
	ClosenessScale       float64   `json:"closeness_scale"`
	TargetVariance       float64   `json:"target_variance"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// DefaultModelConfig returns the stock tunables for a dimension.
func DefaultModelConfig(projectID uuid.UUID, dim Dimension) ModelConfig {
	return ModelConfig{
		ProjectID:            projectID,
		Dimension:            dim,
		PriorMean:            ranking.DefaultPriorMean,
		PriorStdDev:          ranking.DefaultPriorStdDev,
		LogisticScale:        ranking.DefaultLogisticScale,
		TieMultiplier:        ranking.DefaultTieMultiplier,
		MuchBetterMultiplier: ranking.DefaultMuchBetterMultiplier,
		ClosenessScale:       ranking.DefaultClosenessScale,
		TargetVariance:       0.01,
	}
}

// RankingConfig materializes the tunables as a core config.
func (m ModelConfig) RankingConfig() ranking.Config {
	cfg := ranking.DefaultConfig()
	cfg.PriorMean = m.PriorMean
	cfg.PriorStdDev = m.PriorStdDev
	cfg.LogisticScale = m.LogisticScale
	cfg.TieMultiplier = m.TieMultiplier
	cfg.MuchBetterMultiplier = m.MuchBetterMultiplier
	cfg.ClosenessScale = m.ClosenessScale
	return cfg
}
