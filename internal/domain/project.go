package domain

import (
	"time"

	"github.com/google/uuid"
)

type ComparisonMode string

const (
	// ModeBinary offers a plain A/B/tie choice.
	ModeBinary ComparisonMode = "binary"
	// ModeGraded offers a five-point scale including "much better".
	ModeGraded ComparisonMode = "graded"
)

func ValidComparisonMode(m string) bool {
	switch ComparisonMode(m) {
	case ModeBinary, ModeGraded:
		return true
	}
	return false
}

type Project struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	OwnerID        uuid.UUID      `json:"owner_id"`
	ComparisonMode ComparisonMode `json:"comparison_mode"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
