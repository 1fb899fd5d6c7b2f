package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oneselect/oneselect/internal/domain"
	"github.com/oneselect/oneselect/internal/ranking"
	"github.com/oneselect/oneselect/internal/store"
)

var (
	ErrInvalidDimension    = errors.New("invalid dimension")
	ErrSameFeature         = errors.New("cannot compare a feature with itself")
	ErrFeatureNotFound     = errors.New("feature not found")
	ErrFeatureWrongProject = errors.New("feature does not belong to this project")
	ErrInvalidChoice       = errors.New("invalid choice for this project's comparison mode")
	ErrNoComparisons       = errors.New("no comparisons to undo")
	ErrComparisonNotFound  = errors.New("comparison not found")
)

// ComparisonService drives the ranking loop: it feeds the pure ranking core
// with features, active comparisons, and persisted beliefs, and writes back
// the belief updates. Submissions for the same (project, dimension) are
// serialized here so the read-modify-write over beliefs never loses an
// update; reads need no lock.
type ComparisonService struct {
	features    domain.FeatureStore
	comparisons domain.ComparisonStore
	scores      domain.ScoreStore
	configs     domain.ModelConfigStore
	logger      *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewComparisonService(fs domain.FeatureStore, cs domain.ComparisonStore, ss domain.ScoreStore, ms domain.ModelConfigStore, logger *zap.Logger) *ComparisonService {
	return &ComparisonService{
		features:    fs,
		comparisons: cs,
		scores:      ss,
		configs:     ms,
		logger:      logger,
		locks:       make(map[string]*sync.Mutex),
	}
}

// dimensionLock returns the writer lock for one (project, dimension).
func (s *ComparisonService) dimensionLock(projectID uuid.UUID, dim domain.Dimension) *sync.Mutex {
	key := fmt.Sprintf("%s/%s", projectID, dim)
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// dimensionState is the in-memory snapshot the ranking core operates on.
type dimensionState struct {
	cfg      ranking.Config
	features []domain.Feature
	comps    []domain.Comparison
	itemIDs  []string
	rcomps   []ranking.Comparison
	beliefs  map[string]ranking.Belief
}

func (s *ComparisonService) loadState(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) (*dimensionState, error) {
	cfg, err := s.rankingConfig(ctx, projectID, dim)
	if err != nil {
		return nil, err
	}

	features, err := s.features.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	comps, err := s.comparisons.ListActive(ctx, projectID, &dim)
	if err != nil {
		return nil, err
	}

	scores, err := s.scores.ListByProject(ctx, projectID, dim)
	if err != nil {
		return nil, err
	}

	st := &dimensionState{
		cfg:      cfg,
		features: features,
		comps:    comps,
		rcomps:   domain.RankingComparisons(comps),
		beliefs:  domain.BeliefMap(scores),
	}
	st.itemIDs = make([]string, 0, len(features))
	for _, f := range features {
		st.itemIDs = append(st.itemIDs, f.ID.String())
	}
	return st, nil
}

// rankingConfig loads the project's stored tunables, falling back to
// defaults when none were configured.
func (s *ComparisonService) rankingConfig(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) (ranking.Config, error) {
	mc, err := s.configs.Get(ctx, projectID, dim)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ranking.DefaultConfig(), nil
		}
		return ranking.Config{}, err
	}
	return mc.RankingConfig(), nil
}

// NextPairResult is the pair to present, or nil features when the dimension
// is resolved to the requested certainty.
type NextPairResult struct {
	FeatureA *domain.Feature
	FeatureB *domain.Feature
	Progress ranking.Snapshot
}

// Complete reports that no further comparison is needed.
func (r *NextPairResult) Complete() bool {
	return r.FeatureA == nil
}

// NextPair selects the most informative remaining pair for a dimension.
// Fewer than two features is a legitimate transient state and yields a
// complete result, not an error.
func (s *ComparisonService) NextPair(ctx context.Context, projectID uuid.UUID, dim domain.Dimension, targetCertainty float64) (*NextPairResult, error) {
	if !domain.ValidDimension(string(dim)) {
		return nil, ErrInvalidDimension
	}

	st, err := s.loadState(ctx, projectID, dim)
	if err != nil {
		return nil, err
	}

	result := &NextPairResult{
		Progress: st.cfg.Progress(st.itemIDs, st.rcomps, st.beliefs, targetCertainty),
	}

	pair := st.cfg.NextPair(st.itemIDs, st.rcomps, st.beliefs, targetCertainty)
	if pair == nil {
		return result, nil
	}

	for i := range st.features {
		switch st.features[i].ID.String() {
		case pair.A:
			result.FeatureA = &st.features[i]
		case pair.B:
			result.FeatureB = &st.features[i]
		}
	}
	return result, nil
}

// SubmitInput is one user judgement to record.
type SubmitInput struct {
	ProjectID  uuid.UUID
	FeatureAID uuid.UUID
	FeatureBID uuid.UUID
	Choice     domain.Choice
	Dimension  domain.Dimension
	UserID     uuid.UUID
	Mode       domain.ComparisonMode
}

// SubmitResult carries the stored comparison, the two updated beliefs, and
// the post-submission inconsistency statistics.
type SubmitResult struct {
	Comparison *domain.Comparison
	ScoreA     domain.Score
	ScoreB     domain.Score
	Stats      ranking.InconsistencyStats
}

// Submit validates and records a comparison, applies the Bayesian update to
// the two beliefs involved, and persists them. All validation happens before
// any mutation.
func (s *ComparisonService) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if !domain.ValidDimension(string(in.Dimension)) {
		return nil, ErrInvalidDimension
	}
	if in.FeatureAID == in.FeatureBID {
		return nil, ErrSameFeature
	}
	if !domain.ValidChoice(string(in.Choice), in.Mode) {
		return nil, ErrInvalidChoice
	}

	featA, err := s.projectFeature(ctx, in.ProjectID, in.FeatureAID)
	if err != nil {
		return nil, err
	}
	featB, err := s.projectFeature(ctx, in.ProjectID, in.FeatureBID)
	if err != nil {
		return nil, err
	}

	lock := s.dimensionLock(in.ProjectID, in.Dimension)
	lock.Lock()
	defer lock.Unlock()

	cfg, err := s.rankingConfig(ctx, in.ProjectID, in.Dimension)
	if err != nil {
		return nil, err
	}

	beliefA, err := s.loadBelief(ctx, cfg, in.FeatureAID, in.Dimension)
	if err != nil {
		return nil, err
	}
	beliefB, err := s.loadBelief(ctx, cfg, in.FeatureBID, in.Dimension)
	if err != nil {
		return nil, err
	}

	updatedA, updatedB := cfg.Update(beliefA, beliefB, in.Choice.Outcome())

	comp := &domain.Comparison{
		ProjectID:  in.ProjectID,
		FeatureAID: in.FeatureAID,
		FeatureBID: in.FeatureBID,
		Choice:     in.Choice,
		Dimension:  in.Dimension,
		UserID:     &in.UserID,
	}
	if err := s.comparisons.Create(ctx, comp); err != nil {
		return nil, err
	}

	result := &SubmitResult{
		Comparison: comp,
		ScoreA:     domain.Score{FeatureID: in.FeatureAID, Dimension: in.Dimension, Mean: updatedA.Mean, StdDev: updatedA.StdDev},
		ScoreB:     domain.Score{FeatureID: in.FeatureBID, Dimension: in.Dimension, Mean: updatedB.Mean, StdDev: updatedB.StdDev},
	}
	if err := s.scores.Upsert(ctx, &result.ScoreA); err != nil {
		return nil, err
	}
	if err := s.scores.Upsert(ctx, &result.ScoreB); err != nil {
		return nil, err
	}

	comps, err := s.comparisons.ListActive(ctx, in.ProjectID, &in.Dimension)
	if err != nil {
		return nil, err
	}
	result.Stats = ranking.Stats(domain.RankingComparisons(comps))

	s.logger.Info("comparison recorded",
		zap.String("project_id", in.ProjectID.String()),
		zap.String("dimension", string(in.Dimension)),
		zap.String("feature_a", featA.Name),
		zap.String("feature_b", featB.Name),
		zap.String("choice", string(in.Choice)),
		zap.Int("cycle_count", result.Stats.CycleCount))

	return result, nil
}

func (s *ComparisonService) projectFeature(ctx context.Context, projectID, featureID uuid.UUID) (*domain.Feature, error) {
	f, err := s.features.GetByID(ctx, featureID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrFeatureNotFound
		}
		return nil, err
	}
	if f.ProjectID != projectID {
		return nil, ErrFeatureWrongProject
	}
	return f, nil
}

func (s *ComparisonService) loadBelief(ctx context.Context, cfg ranking.Config, featureID uuid.UUID, dim domain.Dimension) (ranking.Belief, error) {
	sc, err := s.scores.GetByFeature(ctx, featureID, dim)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return cfg.Prior(), nil
		}
		return ranking.Belief{}, err
	}
	return sc.Belief(), nil
}

// Undo soft-deletes the most recent comparison for a dimension and rebuilds
// beliefs by replaying the remaining history from the prior.
func (s *ComparisonService) Undo(ctx context.Context, projectID uuid.UUID, dim domain.Dimension, userID uuid.UUID) (uuid.UUID, error) {
	if !domain.ValidDimension(string(dim)) {
		return uuid.Nil, ErrInvalidDimension
	}

	lock := s.dimensionLock(projectID, dim)
	lock.Lock()
	defer lock.Unlock()

	last, err := s.comparisons.LatestActive(ctx, projectID, dim)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return uuid.Nil, ErrNoComparisons
		}
		return uuid.Nil, err
	}

	if err := s.comparisons.SoftDelete(ctx, last.ID, userID); err != nil {
		return uuid.Nil, err
	}

	if err := s.replayBeliefs(ctx, projectID, dim); err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("comparison undone",
		zap.String("project_id", projectID.String()),
		zap.String("dimension", string(dim)),
		zap.String("comparison_id", last.ID.String()))

	return last.ID, nil
}

// replayBeliefs recomputes every belief for a dimension by folding the
// active comparison history over the prior, then persists the result. Undo
// and comparison deletion need this because a single Bayesian update is not
// invertible in isolation.
func (s *ComparisonService) replayBeliefs(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) error {
	cfg, err := s.rankingConfig(ctx, projectID, dim)
	if err != nil {
		return err
	}

	comps, err := s.comparisons.ListActive(ctx, projectID, &dim)
	if err != nil {
		return err
	}

	beliefs := make(map[string]ranking.Belief)
	for _, c := range comps {
		rc := c.Ranking()
		a := cfg.BeliefOf(beliefs, rc.A)
		b := cfg.BeliefOf(beliefs, rc.B)
		beliefs[rc.A], beliefs[rc.B] = cfg.Update(a, b, rc.Outcome)
	}

	if _, err := s.scores.ResetDimension(ctx, projectID, dim); err != nil {
		return err
	}
	for id, belief := range beliefs {
		featureID, err := uuid.Parse(id)
		if err != nil {
			return err
		}
		sc := domain.Score{FeatureID: featureID, Dimension: dim, Mean: belief.Mean, StdDev: belief.StdDev}
		if err := s.scores.Upsert(ctx, &sc); err != nil {
			return err
		}
	}
	return nil
}

// Delete soft-deletes one comparison and replays beliefs for its dimension.
func (s *ComparisonService) Delete(ctx context.Context, projectID, comparisonID, userID uuid.UUID) error {
	comp, err := s.comparisons.GetByID(ctx, comparisonID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrComparisonNotFound
		}
		return err
	}
	if comp.ProjectID != projectID {
		return ErrComparisonNotFound
	}

	lock := s.dimensionLock(projectID, comp.Dimension)
	lock.Lock()
	defer lock.Unlock()

	if err := s.comparisons.SoftDelete(ctx, comparisonID, userID); err != nil {
		return err
	}
	return s.replayBeliefs(ctx, projectID, comp.Dimension)
}

// Reset soft-deletes all comparisons for a dimension (or every dimension
// when dim is nil) and restores beliefs to the prior.
func (s *ComparisonService) Reset(ctx context.Context, projectID uuid.UUID, dim *domain.Dimension, userID uuid.UUID) (int64, error) {
	if dim != nil && !domain.ValidDimension(string(*dim)) {
		return 0, ErrInvalidDimension
	}

	dims := domain.Dimensions()
	if dim != nil {
		dims = []domain.Dimension{*dim}
	}

	var removed int64
	for _, d := range dims {
		lock := s.dimensionLock(projectID, d)
		lock.Lock()
		dimCopy := d
		n, err := s.comparisons.DeleteByDimension(ctx, projectID, &dimCopy, userID)
		if err == nil {
			_, err = s.scores.ResetDimension(ctx, projectID, d)
		}
		lock.Unlock()
		if err != nil {
			return removed, err
		}
		removed += n
	}

	s.logger.Info("comparisons reset",
		zap.String("project_id", projectID.String()),
		zap.Int64("removed", removed))
	return removed, nil
}

// Progress returns the blended confidence snapshot for a dimension.
func (s *ComparisonService) Progress(ctx context.Context, projectID uuid.UUID, dim domain.Dimension, targetCertainty float64) (ranking.Snapshot, error) {
	if !domain.ValidDimension(string(dim)) {
		return ranking.Snapshot{}, ErrInvalidDimension
	}
	st, err := s.loadState(ctx, projectID, dim)
	if err != nil {
		return ranking.Snapshot{}, err
	}
	return st.cfg.Progress(st.itemIDs, st.rcomps, st.beliefs, targetCertainty), nil
}

// Estimates returns the practical comparison-count estimates for the usual
// certainty thresholds.
func (s *ComparisonService) Estimates(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) (map[string]int, error) {
	if !domain.ValidDimension(string(dim)) {
		return nil, ErrInvalidDimension
	}
	features, err := s.features.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	n := len(features)
	return map[string]int{
		"70%": ranking.PracticalEstimate(n, 0.70),
		"80%": ranking.PracticalEstimate(n, 0.80),
		"90%": ranking.PracticalEstimate(n, 0.90),
		"95%": ranking.PracticalEstimate(n, 0.95),
	}, nil
}

// Cycle is a detected inconsistency with resolved feature names.
type Cycle struct {
	FeatureIDs   []uuid.UUID      `json:"feature_ids"`
	FeatureNames []string         `json:"feature_names"`
	Length       int              `json:"length"`
	Dimension    domain.Dimension `json:"dimension"`
}

// Inconsistencies returns every comparison cycle for a dimension.
func (s *ComparisonService) Inconsistencies(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) ([]Cycle, error) {
	if !domain.ValidDimension(string(dim)) {
		return nil, ErrInvalidDimension
	}
	st, err := s.loadState(ctx, projectID, dim)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(st.features))
	for _, f := range st.features {
		names[f.ID.String()] = f.Name
	}

	var cycles []Cycle
	for _, raw := range ranking.FindCycles(st.rcomps) {
		c := Cycle{Length: len(raw), Dimension: dim}
		for _, id := range raw {
			parsed, err := uuid.Parse(id)
			if err != nil {
				return nil, err
			}
			c.FeatureIDs = append(c.FeatureIDs, parsed)
			c.FeatureNames = append(c.FeatureNames, names[id])
		}
		cycles = append(cycles, c)
	}
	return cycles, nil
}

// InconsistencyStats summarizes cycle involvement for a dimension.
func (s *ComparisonService) InconsistencyStats(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) (ranking.InconsistencyStats, error) {
	if !domain.ValidDimension(string(dim)) {
		return ranking.InconsistencyStats{}, ErrInvalidDimension
	}
	comps, err := s.comparisons.ListActive(ctx, projectID, &dim)
	if err != nil {
		return ranking.InconsistencyStats{}, err
	}
	return ranking.Stats(domain.RankingComparisons(comps)), nil
}

// ResolutionPair is the suggested re-comparison for breaking a cycle, with
// features resolved.
type ResolutionPair struct {
	FeatureA            *domain.Feature `json:"feature_a"`
	FeatureB            *domain.Feature `json:"feature_b"`
	CombinedUncertainty float64         `json:"combined_uncertainty"`
}

// SuggestResolutionPair returns the weakest-link pair among detected cycles,
// or nil when the dimension is consistent.
func (s *ComparisonService) SuggestResolutionPair(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) (*ResolutionPair, error) {
	if !domain.ValidDimension(string(dim)) {
		return nil, ErrInvalidDimension
	}
	st, err := s.loadState(ctx, projectID, dim)
	if err != nil {
		return nil, err
	}

	pair := st.cfg.SuggestResolutionPair(st.rcomps, st.beliefs)
	if pair == nil {
		return nil, nil
	}

	result := &ResolutionPair{CombinedUncertainty: pair.CombinedUncertainty}
	for i := range st.features {
		switch st.features[i].ID.String() {
		case pair.A:
			result.FeatureA = &st.features[i]
		case pair.B:
			result.FeatureB = &st.features[i]
		}
	}
	return result, nil
}

// ListActive exposes the active comparison history for a project.
func (s *ComparisonService) ListActive(ctx context.Context, projectID uuid.UUID, dim *domain.Dimension) ([]domain.Comparison, error) {
	if dim != nil && !domain.ValidDimension(string(*dim)) {
		return nil, ErrInvalidDimension
	}
	return s.comparisons.ListActive(ctx, projectID, dim)
}

// Get returns one active comparison scoped to a project.
func (s *ComparisonService) Get(ctx context.Context, projectID, comparisonID uuid.UUID) (*domain.Comparison, error) {
	comp, err := s.comparisons.GetByID(ctx, comparisonID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrComparisonNotFound
		}
		return nil, err
	}
	if comp.ProjectID != projectID {
		return nil, ErrComparisonNotFound
	}
	return comp, nil
}
