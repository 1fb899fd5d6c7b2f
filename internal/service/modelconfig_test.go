package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/oneselect/oneselect/internal/domain"
)

func newModelConfigFixture(t *testing.T) (*comparisonFixture, *ModelConfigService) {
	t.Helper()
	fx := newComparisonFixture(t, "alpha", "beta")
	svc := NewModelConfigService(fx.configs, fx.svc, zap.NewNop())
	return fx, svc
}

func TestModelConfig_DefaultsWhenUnset(t *testing.T) {
	fx, svc := newModelConfigFixture(t)

	mc, err := svc.Get(context.Background(), fx.projectID, domain.DimensionValue)
	if err != nil {
		t.Fatal(err)
	}
	if mc.PriorStdDev != 1.0 || mc.TieMultiplier != 0.8 || mc.MuchBetterMultiplier != 2.0 {
		t.Errorf("unexpected defaults: %+v", mc)
	}
}

func TestModelConfig_Validation(t *testing.T) {
	fx, svc := newModelConfigFixture(t)
	ctx := context.Background()

	bad := domain.DefaultModelConfig(fx.projectID, domain.DimensionValue)
	bad.PriorStdDev = 0
	if err := svc.Update(ctx, &bad); !errors.Is(err, ErrInvalidModelConfig) {
		t.Errorf("zero prior stddev: got %v, want ErrInvalidModelConfig", err)
	}

	bad = domain.DefaultModelConfig(fx.projectID, domain.DimensionValue)
	bad.TieMultiplier = 1.5
	if err := svc.Update(ctx, &bad); !errors.Is(err, ErrInvalidModelConfig) {
		t.Errorf("tie multiplier above 1: got %v, want ErrInvalidModelConfig", err)
	}

	bad = domain.DefaultModelConfig(fx.projectID, "priority")
	if err := svc.Update(ctx, &bad); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("bad dimension: got %v, want ErrInvalidDimension", err)
	}
}

func TestModelConfig_UpdateReplaysBeliefs(t *testing.T) {
	fx, svc := newModelConfigFixture(t)
	ctx := context.Background()

	before := fx.submit(t, "alpha", "beta", domain.ChoiceFeatureA)

	mc := domain.DefaultModelConfig(fx.projectID, domain.DimensionValue)
	mc.LogisticScale = 3.0
	if err := svc.Update(ctx, &mc); err != nil {
		t.Fatal(err)
	}

	after, err := fx.scores.GetByFeature(ctx, fx.ids["alpha"], domain.DimensionValue)
	if err != nil {
		t.Fatal(err)
	}
	// a larger logistic scale damps each observation, so the replayed mean
	// moves less than the original did
	if after.Mean >= before.ScoreA.Mean {
		t.Errorf("replayed mean %v should fall below original %v under scale 3.0", after.Mean, before.ScoreA.Mean)
	}
	if after.Mean <= 0 {
		t.Errorf("winner mean should stay positive, got %v", after.Mean)
	}

	stored, err := svc.Get(ctx, fx.projectID, domain.DimensionValue)
	if err != nil {
		t.Fatal(err)
	}
	if stored.LogisticScale != 3.0 {
		t.Errorf("stored logistic scale = %v, want 3.0", stored.LogisticScale)
	}
}

func TestModelConfig_Preview(t *testing.T) {
	fx, svc := newModelConfigFixture(t)

	mc := domain.DefaultModelConfig(fx.projectID, domain.DimensionValue)
	steps, err := svc.Preview(&mc, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 3 {
		t.Fatalf("steps = %d, want 3", len(steps))
	}

	// repeated wins push the means apart and shrink uncertainty
	if steps[2].MeanA <= steps[0].MeanA {
		t.Errorf("mean should keep rising: %v then %v", steps[0].MeanA, steps[2].MeanA)
	}
	if steps[2].StdDevA >= steps[0].StdDevA {
		t.Errorf("stddev should keep shrinking: %v then %v", steps[0].StdDevA, steps[2].StdDevA)
	}
	if steps[0].WinProbability != 0.5 {
		t.Errorf("first win probability = %v, want 0.5 for equal priors", steps[0].WinProbability)
	}

	// nothing was persisted
	if _, err := fx.configs.Get(context.Background(), fx.projectID, domain.DimensionValue); err == nil {
		t.Error("preview should not store a config")
	}
}
