package ranking

import (
	"reflect"
	"testing"
)

func comps(specs ...[3]string) []Comparison {
	var out []Comparison
	for _, s := range specs {
		var o Outcome
		switch s[2] {
		case "a":
			o = OutcomeAWins
		case "b":
			o = OutcomeBWins
		case "tie":
			o = OutcomeTie
		}
		out = append(out, Comparison{A: s[0], B: s[1], Outcome: o})
	}
	return out
}

func TestBuildGraph_EdgesAndTies(t *testing.T) {
	g := BuildGraph(comps(
		[3]string{"A", "B", "a"},
		[3]string{"B", "C", "b"},
		[3]string{"A", "D", "tie"},
	))

	if got := g.OutEdges("A"); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("OutEdges(A) = %v, want [B]", got)
	}
	if got := g.OutEdges("C"); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("OutEdges(C) = %v, want [B]", got)
	}
	if g.Tied(NewPairKey("B", "C")) {
		t.Error("B-C should not be tied")
	}
	if !g.Tied(NewPairKey("D", "A")) {
		t.Error("A-D tie not recorded")
	}
	if got := g.Nodes(); !reflect.DeepEqual(got, []string{"A", "B", "C", "D"}) {
		t.Errorf("Nodes = %v", got)
	}
}

func TestGraph_HasPath(t *testing.T) {
	g := BuildGraph(comps(
		[3]string{"A", "B", "a"},
		[3]string{"B", "C", "a"},
	))

	if !g.HasPath("A", "C") {
		t.Error("A should reach C through B")
	}
	if g.HasPath("C", "A") {
		t.Error("C should not reach A")
	}
	if g.HasPath("A", "A") {
		t.Error("trivial self-path should be false")
	}
}

func TestNewPairKey_Normalizes(t *testing.T) {
	if NewPairKey("b", "a") != NewPairKey("a", "b") {
		t.Error("pair keys should be order independent")
	}
	p := NewPairKey("z", "m")
	if p.Lo != "m" || p.Hi != "z" {
		t.Errorf("pair key not sorted: %+v", p)
	}
}

func TestClosure_Soundness(t *testing.T) {
	// A beats B, B beats C: A-C is known by transitivity with no direct
	// comparison.
	g := BuildGraph(comps(
		[3]string{"A", "B", "a"},
		[3]string{"B", "C", "a"},
	))
	cl := NewClosure(g)

	if !cl.Reachable("A", "C") {
		t.Error("closure missed transitive A->C")
	}
	if !cl.Known(NewPairKey("A", "C")) {
		t.Error("A-C should be a known pair")
	}
	if cl.Known(NewPairKey("A", "D")) {
		t.Error("pair with unseen item should be uncertain")
	}
}

func TestClosure_TieCountsAsKnown(t *testing.T) {
	g := BuildGraph(comps([3]string{"A", "B", "tie"}))
	cl := NewClosure(g)

	if !cl.Known(NewPairKey("A", "B")) {
		t.Error("tied pair should count as known")
	}
	// But ties do not chain: a tie gives no direction to follow.
	if cl.Reachable("A", "B") || cl.Reachable("B", "A") {
		t.Error("tie should not create reachability")
	}
}

func TestClosure_Coverage(t *testing.T) {
	items := []string{"A", "B", "C", "D"}

	// Chain A>B>C>D resolves all six pairs.
	cl := NewClosure(BuildGraph(comps(
		[3]string{"A", "B", "a"},
		[3]string{"B", "C", "a"},
		[3]string{"C", "D", "a"},
	)))
	if cov := cl.Coverage(items); cov != 1.0 {
		t.Errorf("chain coverage = %f, want 1.0", cov)
	}

	// A single comparison resolves one of six.
	cl = NewClosure(BuildGraph(comps([3]string{"A", "B", "a"})))
	if cov := cl.Coverage(items); cov != 1.0/6.0 {
		t.Errorf("coverage = %f, want 1/6", cov)
	}

	// Fewer than two items.
	if cov := cl.Coverage([]string{"A"}); cov != 0 {
		t.Errorf("single-item coverage = %f, want 0", cov)
	}
}

func TestClosure_UncertainPairs(t *testing.T) {
	items := []string{"A", "B", "C"}
	cl := NewClosure(BuildGraph(comps([3]string{"A", "B", "a"})))

	got := cl.UncertainPairs(items)
	want := []PairKey{{Lo: "A", Hi: "C"}, {Lo: "B", Hi: "C"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UncertainPairs = %v, want %v", got, want)
	}
}
