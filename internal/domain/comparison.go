package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/oneselect/oneselect/internal/ranking"
)

// Dimension is the axis a comparison judges. The set is closed: logic is
// parametrized by dimension, never duplicated per dimension.
type Dimension string

const (
	DimensionComplexity Dimension = "complexity"
	DimensionValue      Dimension = "value"
)

// Dimensions lists every supported dimension.
func Dimensions() []Dimension {
	return []Dimension{DimensionComplexity, DimensionValue}
}

func ValidDimension(d string) bool {
	switch Dimension(d) {
	case DimensionComplexity, DimensionValue:
		return true
	}
	return false
}

// Choice is the recorded judgement of a comparison. Binary projects use the
// first three; graded projects add the "much better" pair.
type Choice string

const (
	ChoiceFeatureA    Choice = "feature_a"
	ChoiceFeatureB    Choice = "feature_b"
	ChoiceTie         Choice = "tie"
	ChoiceAMuchBetter Choice = "a_much_better"
	ChoiceBMuchBetter Choice = "b_much_better"
)

func ValidChoice(c string, mode ComparisonMode) bool {
	switch Choice(c) {
	case ChoiceFeatureA, ChoiceFeatureB, ChoiceTie:
		return true
	case ChoiceAMuchBetter, ChoiceBMuchBetter:
		return mode == ModeGraded
	}
	return false
}

// Outcome maps the stored choice onto the ranking model's outcome.
func (c Choice) Outcome() ranking.Outcome {
	switch c {
	case ChoiceFeatureB:
		return ranking.OutcomeBWins
	case ChoiceTie:
		return ranking.OutcomeTie
	case ChoiceAMuchBetter:
		return ranking.OutcomeAMuchBetter
	case ChoiceBMuchBetter:
		return ranking.OutcomeBMuchBetter
	default:
		return ranking.OutcomeAWins
	}
}

type Comparison struct {
	ID         uuid.UUID  `json:"id"`
	ProjectID  uuid.UUID  `json:"project_id"`
	FeatureAID uuid.UUID  `json:"feature_a_id"`
	FeatureBID uuid.UUID  `json:"feature_b_id"`
	Choice     Choice     `json:"choice"`
	Dimension  Dimension  `json:"dimension"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	DeletedBy  *uuid.UUID `json:"deleted_by,omitempty"`
}

// Ranking converts to the core model's comparison record.
func (c Comparison) Ranking() ranking.Comparison {
	return ranking.Comparison{
		A:       c.FeatureAID.String(),
		B:       c.FeatureBID.String(),
		Outcome: c.Choice.Outcome(),
	}
}

// RankingComparisons converts a comparison list for the core.
func RankingComparisons(comps []Comparison) []ranking.Comparison {
	out := make([]ranking.Comparison, 0, len(comps))
	for _, c := range comps {
		out = append(out, c.Ranking())
	}
	return out
}
