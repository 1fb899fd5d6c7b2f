package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oneselect/oneselect/internal/domain"
	"github.com/oneselect/oneselect/internal/ranking"
	"github.com/oneselect/oneselect/internal/store"
)

var ErrInvalidModelConfig = errors.New("invalid model configuration")

// ModelConfigService manages the per-project ranking tunables. Updating a
// config replays beliefs for the dimension so stored scores reflect the new
// parameters.
type ModelConfigService struct {
	configs     domain.ModelConfigStore
	comparisons *ComparisonService
	logger      *zap.Logger
}

func NewModelConfigService(ms domain.ModelConfigStore, cs *ComparisonService, logger *zap.Logger) *ModelConfigService {
	return &ModelConfigService{configs: ms, comparisons: cs, logger: logger}
}

// Get returns the effective tunables for a dimension, defaults included.
func (s *ModelConfigService) Get(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) (*domain.ModelConfig, error) {
	if !domain.ValidDimension(string(dim)) {
		return nil, ErrInvalidDimension
	}
	mc, err := s.configs.Get(ctx, projectID, dim)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			def := domain.DefaultModelConfig(projectID, dim)
			return &def, nil
		}
		return nil, err
	}
	return mc, nil
}

// Update validates and stores new tunables, then replays the dimension's
// history so persisted beliefs match the new parameters.
func (s *ModelConfigService) Update(ctx context.Context, mc *domain.ModelConfig) error {
	if !domain.ValidDimension(string(mc.Dimension)) {
		return ErrInvalidDimension
	}
	if err := validateModelConfig(mc); err != nil {
		return err
	}

	lock := s.comparisons.dimensionLock(mc.ProjectID, mc.Dimension)
	lock.Lock()
	defer lock.Unlock()

	if err := s.configs.Upsert(ctx, mc); err != nil {
		return err
	}
	if err := s.comparisons.replayBeliefs(ctx, mc.ProjectID, mc.Dimension); err != nil {
		return err
	}

	s.logger.Info("model config updated",
		zap.String("project_id", mc.ProjectID.String()),
		zap.String("dimension", string(mc.Dimension)))
	return nil
}

func validateModelConfig(mc *domain.ModelConfig) error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"prior_stddev", mc.PriorStdDev > 0},
		{"logistic_scale", mc.LogisticScale > 0},
		{"tie_multiplier", mc.TieMultiplier > 0 && mc.TieMultiplier <= 1},
		{"much_better_multiplier", mc.MuchBetterMultiplier >= 1},
		{"closeness_scale", mc.ClosenessScale > 0},
		{"target_variance", mc.TargetVariance > 0 && mc.TargetVariance <= mc.PriorStdDev*mc.PriorStdDev},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s out of range", ErrInvalidModelConfig, c.name)
		}
	}
	return nil
}

// PreviewStep is one simulated comparison in a config preview.
type PreviewStep struct {
	Outcome        string  `json:"outcome"`
	MeanA          float64 `json:"mean_a"`
	StdDevA        float64 `json:"stddev_a"`
	MeanB          float64 `json:"mean_b"`
	StdDevB        float64 `json:"stddev_b"`
	WinProbability float64 `json:"win_probability"`
}

// Preview simulates a short sequence of updates between two fresh items so a
// user can see how candidate tunables behave before saving them. Nothing is
// persisted.
func (s *ModelConfigService) Preview(mc *domain.ModelConfig, steps int) ([]PreviewStep, error) {
	if err := validateModelConfig(mc); err != nil {
		return nil, err
	}
	if steps <= 0 {
		steps = 5
	}

	cfg := mc.RankingConfig()
	a, b := cfg.Prior(), cfg.Prior()

	out := make([]PreviewStep, 0, steps)
	for i := 0; i < steps; i++ {
		p := ranking.WinProbability(a, b)
		a, b = cfg.Update(a, b, ranking.OutcomeAWins)
		out = append(out, PreviewStep{
			Outcome:        "a_wins",
			MeanA:          a.Mean,
			StdDevA:        a.StdDev,
			MeanB:          b.Mean,
			StdDevB:        b.StdDev,
			WinProbability: p,
		})
	}
	return out, nil
}
