package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oneselect/oneselect/internal/domain"
	"github.com/oneselect/oneselect/internal/store"
)

var (
	ErrEmptyFeatureName = errors.New("feature name cannot be empty")
	ErrEmptyBatch       = errors.New("feature batch cannot be empty")
	ErrBatchTooLarge    = errors.New("feature batch exceeds the maximum size")
)

// MaxBatchSize bounds one bulk feature insert.
const MaxBatchSize = 200

type FeatureService struct {
	features domain.FeatureStore
	logger   *zap.Logger
}

func NewFeatureService(fs domain.FeatureStore, logger *zap.Logger) *FeatureService {
	return &FeatureService{features: fs, logger: logger}
}

// FeatureInput is one feature to create.
type FeatureInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (in FeatureInput) toFeature(projectID uuid.UUID) (*domain.Feature, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrEmptyFeatureName
	}
	return &domain.Feature{
		ProjectID:   projectID,
		Name:        name,
		Description: in.Description,
		Tags:        in.Tags,
	}, nil
}

func (s *FeatureService) Create(ctx context.Context, projectID uuid.UUID, in FeatureInput) (*domain.Feature, error) {
	f, err := in.toFeature(projectID)
	if err != nil {
		return nil, err
	}
	if err := s.features.Create(ctx, f); err != nil {
		return nil, err
	}
	s.logger.Info("feature created",
		zap.String("project_id", projectID.String()),
		zap.String("feature_id", f.ID.String()))
	return f, nil
}

// CreateBatch inserts up to MaxBatchSize features atomically.
func (s *FeatureService) CreateBatch(ctx context.Context, projectID uuid.UUID, inputs []FeatureInput) ([]*domain.Feature, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(inputs) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	features := make([]*domain.Feature, 0, len(inputs))
	for _, in := range inputs {
		f, err := in.toFeature(projectID)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	if err := s.features.CreateBatch(ctx, features); err != nil {
		return nil, err
	}

	s.logger.Info("feature batch created",
		zap.String("project_id", projectID.String()),
		zap.Int("count", len(features)))
	return features, nil
}

func (s *FeatureService) List(ctx context.Context, projectID uuid.UUID) ([]domain.Feature, error) {
	return s.features.ListByProject(ctx, projectID)
}

// Get returns a feature scoped to a project.
func (s *FeatureService) Get(ctx context.Context, projectID, featureID uuid.UUID) (*domain.Feature, error) {
	f, err := s.features.GetByID(ctx, featureID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrFeatureNotFound
		}
		return nil, err
	}
	if f.ProjectID != projectID {
		return nil, ErrFeatureNotFound
	}
	return f, nil
}

func (s *FeatureService) Update(ctx context.Context, projectID, featureID uuid.UUID, in FeatureInput) (*domain.Feature, error) {
	f, err := s.Get(ctx, projectID, featureID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrEmptyFeatureName
	}
	f.Name = name
	f.Description = in.Description
	f.Tags = in.Tags

	if err := s.features.Update(ctx, f); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrFeatureNotFound
		}
		return nil, err
	}
	return f, nil
}

// Delete removes one feature. Comparisons referencing it cascade away in the
// store, so callers should treat rankings as stale afterward.
func (s *FeatureService) Delete(ctx context.Context, projectID, featureID uuid.UUID) error {
	if _, err := s.Get(ctx, projectID, featureID); err != nil {
		return err
	}
	if err := s.features.Delete(ctx, featureID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrFeatureNotFound
		}
		return err
	}
	return nil
}

// DeleteBatch removes several features of one project and reports how many
// actually existed.
func (s *FeatureService) DeleteBatch(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrEmptyBatch
	}
	return s.features.DeleteBatch(ctx, projectID, ids)
}
