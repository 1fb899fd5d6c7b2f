package ranking

import (
	"math"
	"reflect"
	"testing"
)

func TestFindCycles_SimpleTriangle(t *testing.T) {
	cycles := FindCycles(comps(
		[3]string{"A", "B", "a"},
		[3]string{"B", "C", "a"},
		[3]string{"C", "A", "a"},
	))

	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(cycles))
	}
	if !reflect.DeepEqual(cycles[0], []string{"A", "B", "C"}) {
		t.Errorf("cycle = %v, want normalized [A B C]", cycles[0])
	}
}

func TestFindCycles_AcyclicChain(t *testing.T) {
	cycles := FindCycles(comps(
		[3]string{"A", "B", "a"},
		[3]string{"B", "C", "a"},
		[3]string{"A", "C", "a"},
	))
	if len(cycles) != 0 {
		t.Errorf("acyclic graph produced cycles: %v", cycles)
	}
}

func TestFindCycles_MultipleIndependent(t *testing.T) {
	cycles := FindCycles(comps(
		[3]string{"A", "B", "a"},
		[3]string{"B", "C", "a"},
		[3]string{"C", "A", "a"},
		[3]string{"D", "E", "a"},
		[3]string{"E", "F", "a"},
		[3]string{"F", "D", "a"},
	))
	if len(cycles) != 2 {
		t.Fatalf("got %d cycles, want 2: %v", len(cycles), cycles)
	}
}

func TestFindCycles_NormalizationDeduplicates(t *testing.T) {
	// Same triangle entered from a different starting node must not produce
	// a second rotation of the cycle.
	cycles := FindCycles(comps(
		[3]string{"C", "A", "a"},
		[3]string{"A", "B", "a"},
		[3]string{"B", "C", "a"},
	))
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1: %v", len(cycles), cycles)
	}
	if cycles[0][0] != "A" {
		t.Errorf("cycle should start at smallest id, got %v", cycles[0])
	}
}

func TestFindCycles_TiesDoNotCycle(t *testing.T) {
	cycles := FindCycles(comps(
		[3]string{"A", "B", "tie"},
		[3]string{"B", "A", "tie"},
	))
	if len(cycles) != 0 {
		t.Errorf("ties produced cycles: %v", cycles)
	}
}

func TestStats_NoComparisons(t *testing.T) {
	s := Stats(nil)
	if s.CycleCount != 0 || s.TotalComparisons != 0 || s.InconsistencyPercentage != 0 {
		t.Errorf("empty stats = %+v", s)
	}
}

func TestStats_FullyInconsistent(t *testing.T) {
	s := Stats(comps(
		[3]string{"A", "B", "a"},
		[3]string{"B", "C", "a"},
		[3]string{"C", "A", "a"},
	))
	if s.CycleCount != 1 {
		t.Errorf("cycle count = %d, want 1", s.CycleCount)
	}
	if s.TotalComparisons != 3 {
		t.Errorf("total = %d, want 3", s.TotalComparisons)
	}
	if s.InconsistencyPercentage != 100.0 {
		t.Errorf("percentage = %f, want 100", s.InconsistencyPercentage)
	}
}

func TestStats_PartialInconsistency(t *testing.T) {
	// Triangle among A,B,C plus an uninvolved D comparison: 3 of 4 records
	// participate in the cycle.
	s := Stats(comps(
		[3]string{"A", "B", "a"},
		[3]string{"B", "C", "a"},
		[3]string{"C", "A", "a"},
		[3]string{"A", "D", "a"},
	))
	if s.CycleCount != 1 {
		t.Errorf("cycle count = %d, want 1", s.CycleCount)
	}
	if s.InconsistencyPercentage != 75.0 {
		t.Errorf("percentage = %f, want 75", s.InconsistencyPercentage)
	}
}

func TestSuggestResolutionPair_NoCycle(t *testing.T) {
	cfg := DefaultConfig()
	pair := cfg.SuggestResolutionPair(comps(
		[3]string{"A", "B", "a"},
		[3]string{"B", "C", "a"},
	), nil)
	if pair != nil {
		t.Errorf("acyclic graph suggested %+v", pair)
	}
}

func TestSuggestResolutionPair_WeakestLink(t *testing.T) {
	cfg := DefaultConfig()
	beliefs := map[string]Belief{
		"A": {Mean: 0, StdDev: 0.2},
		"B": {Mean: 0, StdDev: 0.9},
		"C": {Mean: 0, StdDev: 0.8},
	}

	pair := cfg.SuggestResolutionPair(comps(
		[3]string{"A", "B", "a"},
		[3]string{"B", "C", "a"},
		[3]string{"C", "A", "a"},
	), beliefs)

	if pair == nil {
		t.Fatal("expected a resolution pair")
	}
	// B-C carries the highest combined uncertainty (1.7).
	if pair.A != "B" || pair.B != "C" {
		t.Errorf("pair = %s-%s, want B-C", pair.A, pair.B)
	}
	if math.Abs(pair.CombinedUncertainty-1.7) > 1e-9 {
		t.Errorf("combined uncertainty = %f, want 1.7", pair.CombinedUncertainty)
	}
}

func TestSuggestResolutionPair_TieBreakLowestKey(t *testing.T) {
	cfg := DefaultConfig()
	// Uniform priors: every in-cycle edge scores the same, selection must be
	// deterministic toward the lowest pair key.
	pair := cfg.SuggestResolutionPair(comps(
		[3]string{"C", "A", "a"},
		[3]string{"A", "B", "a"},
		[3]string{"B", "C", "a"},
	), nil)
	if pair == nil {
		t.Fatal("expected a resolution pair")
	}
	if pair.A != "A" || pair.B != "B" {
		t.Errorf("pair = %s-%s, want A-B", pair.A, pair.B)
	}
}
