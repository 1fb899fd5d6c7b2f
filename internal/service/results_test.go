package service

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/oneselect/oneselect/internal/domain"
)

func newResultsFixture(t *testing.T, featureNames ...string) (*comparisonFixture, *ResultsService) {
	t.Helper()
	fx := newComparisonFixture(t, featureNames...)
	results := NewResultsService(fx.features, fx.scores, fx.configs, zap.NewNop())
	return fx, results
}

func TestRanking_OrderAndIntervals(t *testing.T) {
	fx, results := newResultsFixture(t, "alpha", "beta", "gamma")
	ctx := context.Background()

	fx.submit(t, "alpha", "beta", domain.ChoiceFeatureA)
	fx.submit(t, "beta", "gamma", domain.ChoiceFeatureA)

	ranked, err := results.Ranking(ctx, fx.projectID, domain.DimensionValue)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 3 {
		t.Fatalf("ranked = %d features, want 3", len(ranked))
	}

	if ranked[0].Name != "alpha" || ranked[2].Name != "gamma" {
		t.Errorf("order = [%s %s %s], want alpha first and gamma last",
			ranked[0].Name, ranked[1].Name, ranked[2].Name)
	}
	for i, r := range ranked {
		if r.Rank != i+1 {
			t.Errorf("rank[%d] = %d, want %d", i, r.Rank, i+1)
		}
		if r.CILow >= r.Score || r.CIHigh <= r.Score {
			t.Errorf("%s interval [%v, %v] should bracket score %v", r.Name, r.CILow, r.CIHigh, r.Score)
		}
	}
}

func TestRanking_UncomparedFeatureSitsAtPrior(t *testing.T) {
	fx, results := newResultsFixture(t, "alpha", "beta", "untouched")

	fx.submit(t, "alpha", "beta", domain.ChoiceFeatureA)

	ranked, err := results.Ranking(context.Background(), fx.projectID, domain.DimensionValue)
	if err != nil {
		t.Fatal(err)
	}

	for _, r := range ranked {
		if r.Name == "untouched" {
			if r.Score != 0 || r.StdDev != 1 {
				t.Errorf("untouched feature belief = (%v, %v), want prior (0, 1)", r.Score, r.StdDev)
			}
		}
	}
}

func TestQuadrants_Classification(t *testing.T) {
	fx, results := newResultsFixture(t, "win", "pit")
	ctx := context.Background()

	// win is high value, pit is high complexity
	fx.submit(t, "win", "pit", domain.ChoiceFeatureA)
	if _, err := fx.svc.Submit(ctx, SubmitInput{
		ProjectID:  fx.projectID,
		FeatureAID: fx.ids["pit"],
		FeatureBID: fx.ids["win"],
		Choice:     domain.ChoiceFeatureA,
		Dimension:  domain.DimensionComplexity,
		UserID:     fx.userID,
		Mode:       domain.ModeGraded,
	}); err != nil {
		t.Fatal(err)
	}

	q, err := results.Quadrants(ctx, fx.projectID)
	if err != nil {
		t.Fatal(err)
	}

	if len(q.QuickWins) != 1 || q.QuickWins[0].Name != "win" {
		t.Errorf("quick wins = %+v, want [win]", q.QuickWins)
	}
	if len(q.Avoid) != 1 || q.Avoid[0].Name != "pit" {
		t.Errorf("avoid = %+v, want [pit]", q.Avoid)
	}
	if q.MedianValue <= q.Avoid[0].Value || q.MedianValue >= q.QuickWins[0].Value {
		t.Errorf("median value %v should sit between the two features", q.MedianValue)
	}
}

func TestExport_CSVAndJSON(t *testing.T) {
	fx, results := newResultsFixture(t, "alpha", "beta")
	ctx := context.Background()

	fx.submit(t, "alpha", "beta", domain.ChoiceFeatureA)

	payload, contentType, err := results.Export(ctx, fx.projectID, "csv")
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "text/csv" {
		t.Errorf("content type = %s, want text/csv", contentType)
	}
	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	// header plus two features per dimension
	if len(lines) != 5 {
		t.Errorf("csv lines = %d, want 5", len(lines))
	}
	if !strings.HasPrefix(lines[0], "dimension,rank,feature_id,name") {
		t.Errorf("unexpected csv header: %s", lines[0])
	}

	payload, contentType, err = results.Export(ctx, fx.projectID, "json")
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "application/json" {
		t.Errorf("content type = %s, want application/json", contentType)
	}
	if !strings.Contains(string(payload), `"dimension"`) {
		t.Error("json export should carry dimension fields")
	}

	if _, _, err := results.Export(ctx, fx.projectID, "xml"); err == nil {
		t.Error("unknown format should be rejected")
	}
}
