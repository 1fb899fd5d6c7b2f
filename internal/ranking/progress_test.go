package ranking

import (
	"math"
	"testing"
)

func TestProgress_EmptyItemSet(t *testing.T) {
	cfg := DefaultConfig()
	snap := cfg.Progress(nil, nil, nil, 0.9)
	if snap.TransitiveCoverage != 0 || snap.EffectiveConfidence != 0 || snap.CycleCount != 0 {
		t.Errorf("empty snapshot = %+v", snap)
	}
	if snap.ComparisonsRemaining != 0 {
		t.Errorf("remaining = %d, want 0", snap.ComparisonsRemaining)
	}
}

func TestProgress_FreshProject(t *testing.T) {
	// Reset semantics: no comparisons, prior beliefs.
	cfg := DefaultConfig()
	items := []string{"A", "B", "C"}

	snap := cfg.Progress(items, nil, nil, 0.9)
	if snap.TransitiveCoverage != 0 {
		t.Errorf("coverage = %f, want 0", snap.TransitiveCoverage)
	}
	if snap.CycleCount != 0 {
		t.Errorf("cycles = %d, want 0", snap.CycleCount)
	}
	// Prior stddev 1.0 makes bayesian confidence 0, so effective confidence
	// is bounded to 0 as well.
	if snap.BayesianConfidence != 0 {
		t.Errorf("bayesian confidence = %f, want 0", snap.BayesianConfidence)
	}
	if snap.EffectiveConfidence != 0 {
		t.Errorf("effective confidence = %f, want 0", snap.EffectiveConfidence)
	}
	if snap.ConsistencyScore != 1 {
		t.Errorf("consistency = %f, want 1", snap.ConsistencyScore)
	}
}

func TestProgress_CompleteAndConsistent(t *testing.T) {
	cfg := DefaultConfig()
	items := []string{"A", "B", "C", "D"}
	history := comps(
		[3]string{"A", "B", "a"},
		[3]string{"B", "C", "a"},
		[3]string{"C", "D", "a"},
	)

	snap := cfg.Progress(items, history, nil, 0.9)
	if snap.TransitiveCoverage != 1.0 {
		t.Errorf("coverage = %f, want 1.0", snap.TransitiveCoverage)
	}
	if snap.CycleCount != 0 {
		t.Errorf("cycles = %d", snap.CycleCount)
	}
	if snap.EffectiveConfidence != 1.0 {
		t.Errorf("effective confidence = %f, want 1.0", snap.EffectiveConfidence)
	}
	if snap.ComparisonsDone != 3 {
		t.Errorf("done = %d, want 3", snap.ComparisonsDone)
	}
}

func TestProgress_CompleteWithCycleCapped(t *testing.T) {
	cfg := DefaultConfig()
	items := []string{"A", "B", "C"}
	history := comps(
		[3]string{"A", "B", "a"},
		[3]string{"B", "C", "a"},
		[3]string{"C", "A", "a"},
	)

	snap := cfg.Progress(items, history, nil, 0.9)
	if snap.TransitiveCoverage != 1.0 {
		t.Errorf("coverage = %f, want 1.0 (cycle connects everything)", snap.TransitiveCoverage)
	}
	if snap.CycleCount != 1 {
		t.Errorf("cycles = %d, want 1", snap.CycleCount)
	}
	// 1 cycle over 3 unique pairs: consistency 2/3, and full-coverage-with-
	// cycles caps at min(0.95, consistency).
	want := 1 - 1.0/3.0
	if math.Abs(snap.ConsistencyScore-want) > 1e-12 {
		t.Errorf("consistency = %f, want %f", snap.ConsistencyScore, want)
	}
	if math.Abs(snap.EffectiveConfidence-want) > 1e-12 {
		t.Errorf("effective confidence = %f, want %f", snap.EffectiveConfidence, want)
	}
}

func TestProgress_ConsistencyFloor(t *testing.T) {
	if got := consistencyScore(10, 3); got != 0.5 {
		t.Errorf("consistency = %f, want floor 0.5", got)
	}
	if got := consistencyScore(0, 0); got != 1.0 {
		t.Errorf("no comparisons consistency = %f, want 1.0", got)
	}
}

func TestPracticalEstimate(t *testing.T) {
	if got := PracticalEstimate(1, 0.9); got != 0 {
		t.Errorf("n=1 estimate = %d, want 0", got)
	}
	// (0.5 + 0.27) * 8 * 3 = 18.48 -> 19
	if got := PracticalEstimate(8, 0.9); got != 19 {
		t.Errorf("n=8 estimate = %d, want 19", got)
	}
	if PracticalEstimate(100, 0.9) >= 100*99/2 {
		t.Error("practical estimate should beat exhaustive N^2 comparison")
	}
}

func TestTheoreticalMinimum(t *testing.T) {
	cases := map[int]int{0: 0, 1: 0, 2: 1, 3: 3, 4: 5, 8: 16}
	for n, want := range cases {
		if got := TheoreticalMinimum(n); got != want {
			t.Errorf("TheoreticalMinimum(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestProgress_RemainingNeverNegative(t *testing.T) {
	cfg := DefaultConfig()
	items := []string{"A", "B"}
	history := comps(
		[3]string{"A", "B", "a"},
		[3]string{"A", "B", "a"},
		[3]string{"A", "B", "a"},
	)
	snap := cfg.Progress(items, history, nil, 0.9)
	if snap.ComparisonsRemaining != 0 {
		t.Errorf("remaining = %d, want clamp at 0", snap.ComparisonsRemaining)
	}
}
