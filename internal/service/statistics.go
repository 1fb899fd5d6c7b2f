package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oneselect/oneselect/internal/domain"
	"github.com/oneselect/oneselect/internal/ranking"
)

// DimensionStatistics summarizes one ranking axis of a project.
type DimensionStatistics struct {
	Dimension       domain.Dimension           `json:"dimension"`
	ComparisonCount int                        `json:"comparison_count"`
	Progress        ranking.Snapshot           `json:"progress"`
	Inconsistency   ranking.InconsistencyStats `json:"inconsistency"`
}

// ProjectStatistics is the full per-project activity report.
type ProjectStatistics struct {
	ProjectID          uuid.UUID             `json:"project_id"`
	FeatureCount       int                   `json:"feature_count"`
	TotalComparisons   int                   `json:"total_comparisons"`
	DeletedComparisons int                   `json:"deleted_comparisons"`
	Dimensions         []DimensionStatistics `json:"dimensions"`
	Contributors       map[string]int        `json:"contributors"`
}

type StatisticsService struct {
	comparisons *ComparisonService
	features    domain.FeatureStore
	compStore   domain.ComparisonStore
	logger      *zap.Logger
}

func NewStatisticsService(cs *ComparisonService, fs domain.FeatureStore, comps domain.ComparisonStore, logger *zap.Logger) *StatisticsService {
	return &StatisticsService{comparisons: cs, features: fs, compStore: comps, logger: logger}
}

// ProjectStatistics aggregates feature counts, comparison activity per
// dimension, contributor counts, and the progress snapshot for each axis.
func (s *StatisticsService) ProjectStatistics(ctx context.Context, projectID uuid.UUID, targetCertainty float64) (*ProjectStatistics, error) {
	features, err := s.features.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	all, err := s.compStore.ListIncludingDeleted(ctx, projectID)
	if err != nil {
		return nil, err
	}

	stats := &ProjectStatistics{
		ProjectID:    projectID,
		FeatureCount: len(features),
		Contributors: make(map[string]int),
	}

	activeByDim := make(map[domain.Dimension]int)
	for _, c := range all {
		if c.DeletedAt != nil {
			stats.DeletedComparisons++
			continue
		}
		stats.TotalComparisons++
		activeByDim[c.Dimension]++
		if c.UserID != nil {
			stats.Contributors[c.UserID.String()]++
		}
	}

	for _, dim := range domain.Dimensions() {
		progress, err := s.comparisons.Progress(ctx, projectID, dim, targetCertainty)
		if err != nil {
			return nil, err
		}
		inconsistency, err := s.comparisons.InconsistencyStats(ctx, projectID, dim)
		if err != nil {
			return nil, err
		}
		stats.Dimensions = append(stats.Dimensions, DimensionStatistics{
			Dimension:       dim,
			ComparisonCount: activeByDim[dim],
			Progress:        progress,
			Inconsistency:   inconsistency,
		})
	}
	return stats, nil
}
