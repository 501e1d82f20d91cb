// Package validation scores extraction output by cross-checking the AI
// item set against the independent rule-based baseline. Scores are
// advisory: they feed monitoring metrics, never correctness decisions on
// later jobs.
package validation

import "time"

// Result is the per-job scoring record produced by the validator.
type Result struct {
	Source                 string    `json:"source"`
	CrossValidationScore   float64   `json:"cross_validation_score"`
	ContextCoherenceScore  float64   `json:"context_coherence_score"`
	KeywordScore           float64   `json:"keyword_score"`
	StructuralScore        float64   `json:"structural_score"`
	OverallConfidence      float64   `json:"overall_confidence"`
	PossibleFalsePositives []string  `json:"possible_false_positives,omitempty"`
	PossibleFalseNegatives []string  `json:"possible_false_negatives,omitempty"`
	Timestamp              time.Time `json:"timestamp"`
}

// Overall confidence weights.
const (
	weightCrossValidation  = 0.3
	weightContextCoherence = 0.3
	weightKeyword          = 0.2
	weightStructural       = 0.2
)
