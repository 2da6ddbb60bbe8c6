package models

import "fmt"

// Difficulty is the difficulty tier assigned to a word.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists all valid difficulty tiers in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty converts a string into a Difficulty, rejecting unknown values.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Valid reports whether the difficulty is one of the known tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// GradeBand categorizes words by educational level.
type GradeBand string

const (
	GradeBandK2  GradeBand = "k-2"
	GradeBand35  GradeBand = "3-5"
	GradeBand68  GradeBand = "6-8"
	GradeBand912 GradeBand = "9-12"
)

// WordEntry represents a single word in the dictionary
type WordEntry struct {
	Word         string     `json:"word"`
	Difficulty   Difficulty `json:"difficulty"`
	Definition   string     `json:"definition"`
	UsageExample string     `json:"usageExample,omitempty"`
	Origin       string     `json:"origin,omitempty"`
	Phonetic     string     `json:"phonetic,omitempty"`
	Category     string     `json:"category,omitempty"`
	GradeBand    GradeBand  `json:"gradeBand,omitempty"`
}

// WordSet is a collection of words with dictionary metadata
type WordSet struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	Language    string      `json:"language"`
	GradeBand   GradeBand   `json:"gradeBand,omitempty"`
	Words       []WordEntry `json:"words"`
}
