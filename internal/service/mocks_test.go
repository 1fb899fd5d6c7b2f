package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/oneselect/oneselect/internal/domain"
	"github.com/oneselect/oneselect/internal/store"
)

type mockFeatureStore struct {
	features map[uuid.UUID]*domain.Feature
}

func newMockFeatureStore() *mockFeatureStore {
	return &mockFeatureStore{features: make(map[uuid.UUID]*domain.Feature)}
}

func (m *mockFeatureStore) Create(ctx context.Context, f *domain.Feature) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now()
	cp := *f
	m.features[f.ID] = &cp
	return nil
}

func (m *mockFeatureStore) CreateBatch(ctx context.Context, features []*domain.Feature) error {
	for _, f := range features {
		if err := m.Create(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockFeatureStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Feature, error) {
	f, ok := m.features[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *mockFeatureStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Feature, error) {
	var out []domain.Feature
	for _, f := range m.features {
		if f.ProjectID == projectID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockFeatureStore) Update(ctx context.Context, f *domain.Feature) error {
	if _, ok := m.features[f.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *f
	m.features[f.ID] = &cp
	return nil
}

func (m *mockFeatureStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.features[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.features, id)
	return nil
}

func (m *mockFeatureStore) DeleteBatch(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) (int64, error) {
	var n int64
	for _, id := range ids {
		if f, ok := m.features[id]; ok && f.ProjectID == projectID {
			delete(m.features, id)
			n++
		}
	}
	return n, nil
}

type mockComparisonStore struct {
	comparisons []*domain.Comparison
}

func newMockComparisonStore() *mockComparisonStore {
	return &mockComparisonStore{}
}

func (m *mockComparisonStore) Create(ctx context.Context, c *domain.Comparison) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	cp := *c
	m.comparisons = append(m.comparisons, &cp)
	return nil
}

func (m *mockComparisonStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comparison, error) {
	for _, c := range m.comparisons {
		if c.ID == id && c.DeletedAt == nil {
			cp := *c
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockComparisonStore) ListActive(ctx context.Context, projectID uuid.UUID, dim *domain.Dimension) ([]domain.Comparison, error) {
	var out []domain.Comparison
	for _, c := range m.comparisons {
		if c.ProjectID != projectID || c.DeletedAt != nil {
			continue
		}
		if dim != nil && c.Dimension != *dim {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockComparisonStore) ListIncludingDeleted(ctx context.Context, projectID uuid.UUID) ([]domain.Comparison, error) {
	var out []domain.Comparison
	for _, c := range m.comparisons {
		if c.ProjectID == projectID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockComparisonStore) LatestActive(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) (*domain.Comparison, error) {
	for i := len(m.comparisons) - 1; i >= 0; i-- {
		c := m.comparisons[i]
		if c.ProjectID == projectID && c.Dimension == dim && c.DeletedAt == nil {
			cp := *c
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockComparisonStore) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	for _, c := range m.comparisons {
		if c.ID == id && c.DeletedAt == nil {
			now := time.Now()
			by := deletedBy
			c.DeletedAt = &now
			c.DeletedBy = &by
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *mockComparisonStore) DeleteByDimension(ctx context.Context, projectID uuid.UUID, dim *domain.Dimension, deletedBy uuid.UUID) (int64, error) {
	var n int64
	for _, c := range m.comparisons {
		if c.ProjectID != projectID || c.DeletedAt != nil {
			continue
		}
		if dim != nil && c.Dimension != *dim {
			continue
		}
		now := time.Now()
		by := deletedBy
		c.DeletedAt = &now
		c.DeletedBy = &by
		n++
	}
	return n, nil
}

type scoreKey struct {
	featureID uuid.UUID
	dim       domain.Dimension
}

type mockScoreStore struct {
	features *mockFeatureStore
	scores   map[scoreKey]*domain.Score
}

func newMockScoreStore(features *mockFeatureStore) *mockScoreStore {
	return &mockScoreStore{features: features, scores: make(map[scoreKey]*domain.Score)}
}

func (m *mockScoreStore) Upsert(ctx context.Context, s *domain.Score) error {
	s.UpdatedAt = time.Now()
	cp := *s
	m.scores[scoreKey{s.FeatureID, s.Dimension}] = &cp
	return nil
}

func (m *mockScoreStore) GetByFeature(ctx context.Context, featureID uuid.UUID, dim domain.Dimension) (*domain.Score, error) {
	s, ok := m.scores[scoreKey{featureID, dim}]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockScoreStore) ListByProject(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) ([]domain.Score, error) {
	var out []domain.Score
	for _, s := range m.scores {
		if s.Dimension != dim {
			continue
		}
		if f, ok := m.features.features[s.FeatureID]; !ok || f.ProjectID != projectID {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockScoreStore) ResetDimension(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) (int64, error) {
	var n int64
	for k, s := range m.scores {
		if s.Dimension != dim {
			continue
		}
		if f, ok := m.features.features[s.FeatureID]; !ok || f.ProjectID != projectID {
			continue
		}
		delete(m.scores, k)
		n++
	}
	return n, nil
}

type configKey struct {
	projectID uuid.UUID
	dim       domain.Dimension
}

type mockModelConfigStore struct {
	configs map[configKey]*domain.ModelConfig
}

func newMockModelConfigStore() *mockModelConfigStore {
	return &mockModelConfigStore{configs: make(map[configKey]*domain.ModelConfig)}
}

func (m *mockModelConfigStore) Upsert(ctx context.Context, mc *domain.ModelConfig) error {
	mc.UpdatedAt = time.Now()
	cp := *mc
	m.configs[configKey{mc.ProjectID, mc.Dimension}] = &cp
	return nil
}

func (m *mockModelConfigStore) Get(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) (*domain.ModelConfig, error) {
	mc, ok := m.configs[configKey{projectID, dim}]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *mc
	return &cp, nil
}

type mockUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserStore) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return store.ErrConflict
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *mockUserStore) Update(ctx context.Context, u *domain.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}
