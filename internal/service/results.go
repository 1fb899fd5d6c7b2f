package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oneselect/oneselect/internal/domain"
	"github.com/oneselect/oneselect/internal/ranking"
	"github.com/oneselect/oneselect/internal/store"
)

var ErrInvalidExportFormat = errors.New("invalid export format")

// confidence interval half-width for a 95% normal interval
const ciZ = 1.96

// RankedFeature is one feature's position in a dimension ranking.
type RankedFeature struct {
	Rank        int       `json:"rank"`
	FeatureID   uuid.UUID `json:"feature_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Score       float64   `json:"score"`
	StdDev      float64   `json:"std_dev"`
	CILow       float64   `json:"ci_low"`
	CIHigh      float64   `json:"ci_high"`
}

// QuadrantFeature places a feature on the value/complexity plane.
type QuadrantFeature struct {
	FeatureID  uuid.UUID `json:"feature_id"`
	Name       string    `json:"name"`
	Value      float64   `json:"value"`
	Complexity float64   `json:"complexity"`
	Quadrant   string    `json:"quadrant"`
}

// Quadrants partitions features by the median of each dimension.
type Quadrants struct {
	QuickWins        []QuadrantFeature `json:"quick_wins"`
	Strategic        []QuadrantFeature `json:"strategic"`
	FillIns          []QuadrantFeature `json:"fill_ins"`
	Avoid            []QuadrantFeature `json:"avoid"`
	MedianValue      float64           `json:"median_value"`
	MedianComplexity float64           `json:"median_complexity"`
}

// ResultsService reads persisted beliefs and turns them into rankings,
// quadrant placements, and exports. It never mutates state.
type ResultsService struct {
	features domain.FeatureStore
	scores   domain.ScoreStore
	configs  domain.ModelConfigStore
	logger   *zap.Logger
}

func NewResultsService(fs domain.FeatureStore, ss domain.ScoreStore, ms domain.ModelConfigStore, logger *zap.Logger) *ResultsService {
	return &ResultsService{features: fs, scores: ss, configs: ms, logger: logger}
}

// Ranking returns features ordered by posterior mean for one dimension.
// Features never compared sit at the prior. Ties on mean break by name so
// the order is stable.
func (s *ResultsService) Ranking(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) ([]RankedFeature, error) {
	if !domain.ValidDimension(string(dim)) {
		return nil, ErrInvalidDimension
	}

	features, beliefs, err := s.loadBeliefs(ctx, projectID, dim)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedFeature, 0, len(features))
	for _, f := range features {
		b := beliefs[f.ID.String()]
		ranked = append(ranked, RankedFeature{
			FeatureID:   f.ID,
			Name:        f.Name,
			Description: f.Description,
			Score:       b.Mean,
			StdDev:      b.StdDev,
			CILow:       b.Mean - ciZ*b.StdDev,
			CIHigh:      b.Mean + ciZ*b.StdDev,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

func (s *ResultsService) loadBeliefs(ctx context.Context, projectID uuid.UUID, dim domain.Dimension) ([]domain.Feature, map[string]ranking.Belief, error) {
	features, err := s.features.ListByProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	cfg := ranking.DefaultConfig()
	if mc, err := s.configs.Get(ctx, projectID, dim); err == nil {
		cfg = mc.RankingConfig()
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, nil, err
	}

	scores, err := s.scores.ListByProject(ctx, projectID, dim)
	if err != nil {
		return nil, nil, err
	}

	beliefs := domain.BeliefMap(scores)
	for _, f := range features {
		id := f.ID.String()
		if _, ok := beliefs[id]; !ok {
			beliefs[id] = cfg.Prior()
		}
	}
	return features, beliefs, nil
}

// Quadrants classifies every feature against the per-dimension medians:
// high value at low complexity is a quick win, high value at high
// complexity a strategic bet, low value at low complexity a fill-in, and
// low value at high complexity one to avoid.
func (s *ResultsService) Quadrants(ctx context.Context, projectID uuid.UUID) (*Quadrants, error) {
	features, valueBeliefs, err := s.loadBeliefs(ctx, projectID, domain.DimensionValue)
	if err != nil {
		return nil, err
	}
	_, complexityBeliefs, err := s.loadBeliefs(ctx, projectID, domain.DimensionComplexity)
	if err != nil {
		return nil, err
	}

	values := make([]float64, 0, len(features))
	complexities := make([]float64, 0, len(features))
	for _, f := range features {
		id := f.ID.String()
		values = append(values, valueBeliefs[id].Mean)
		complexities = append(complexities, complexityBeliefs[id].Mean)
	}

	q := &Quadrants{
		QuickWins:        []QuadrantFeature{},
		Strategic:        []QuadrantFeature{},
		FillIns:          []QuadrantFeature{},
		Avoid:            []QuadrantFeature{},
		MedianValue:      median(values),
		MedianComplexity: median(complexities),
	}

	for _, f := range features {
		id := f.ID.String()
		qf := QuadrantFeature{
			FeatureID:  f.ID,
			Name:       f.Name,
			Value:      valueBeliefs[id].Mean,
			Complexity: complexityBeliefs[id].Mean,
		}
		highValue := qf.Value >= q.MedianValue
		highComplexity := qf.Complexity >= q.MedianComplexity
		switch {
		case highValue && !highComplexity:
			qf.Quadrant = "quick_win"
			q.QuickWins = append(q.QuickWins, qf)
		case highValue && highComplexity:
			qf.Quadrant = "strategic"
			q.Strategic = append(q.Strategic, qf)
		case !highValue && !highComplexity:
			qf.Quadrant = "fill_in"
			q.FillIns = append(q.FillIns, qf)
		default:
			qf.Quadrant = "avoid"
			q.Avoid = append(q.Avoid, qf)
		}
	}
	return q, nil
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Export renders both dimension rankings as CSV or JSON. The content type
// for the payload is returned alongside it.
func (s *ResultsService) Export(ctx context.Context, projectID uuid.UUID, format string) ([]byte, string, error) {
	type exportRow struct {
		Dimension domain.Dimension `json:"dimension"`
		RankedFeature
	}

	var rows []exportRow
	for _, dim := range domain.Dimensions() {
		ranked, err := s.Ranking(ctx, projectID, dim)
		if err != nil {
			return nil, "", err
		}
		for _, r := range ranked {
			rows = append(rows, exportRow{Dimension: dim, RankedFeature: r})
		}
	}

	switch format {
	case "json", "":
		payload, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return nil, "", err
		}
		return payload, "application/json", nil
	case "csv":
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write([]string{"dimension", "rank", "feature_id", "name", "score", "std_dev", "ci_low", "ci_high"}); err != nil {
			return nil, "", err
		}
		for _, r := range rows {
			record := []string{
				string(r.Dimension),
				strconv.Itoa(r.Rank),
				r.FeatureID.String(),
				r.Name,
				formatFloat(r.Score),
				formatFloat(r.StdDev),
				formatFloat(r.CILow),
				formatFloat(r.CIHigh),
			}
			if err := w.Write(record); err != nil {
				return nil, "", err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "text/csv", nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidExportFormat, format)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
