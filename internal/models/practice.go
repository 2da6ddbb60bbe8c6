package models

// MaxHistoryEntries caps the attempt history; oldest entries drop first.
const MaxHistoryEntries = 1000

// HintKind identifies which piece of word metadata a hint reveals.
type HintKind string

const (
	HintDefinition   HintKind = "definition"
	HintUsageExample HintKind = "usageExample"
	HintOrigin       HintKind = "origin"
)

// Valid reports whether the hint kind is one of the known kinds.
func (k HintKind) Valid() bool {
	switch k {
	case HintDefinition, HintUsageExample, HintOrigin:
		return true
	}
	return false
}

// Evaluation is the tri-state result of checking an answer.
type Evaluation string

const (
	EvaluationPending   Evaluation = "pending"
	EvaluationCorrect   Evaluation = "correct"
	EvaluationIncorrect Evaluation = "incorrect"
)

// PracticeAttempt captures a single answer submission for historical insights
type PracticeAttempt struct {
	Word       string     `json:"word"`
	Correct    bool       `json:"correct"`
	Difficulty Difficulty `json:"difficulty"`
	Timestamp  int64      `json:"timestamp"` // unix milliseconds
}

// Statistics holds aggregate practice session statistics
type Statistics struct {
	Attempted     int     `json:"wordsAttempted"`
	Correct       int     `json:"wordsCorrect"`
	Incorrect     int     `json:"wordsIncorrect"`
	CurrentStreak int     `json:"currentStreak"`
	MaxStreak     int     `json:"maxStreak"`
	Accuracy      float64 `json:"accuracy"` // percentage, 0-100
}
