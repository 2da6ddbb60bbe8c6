package practice

import (
	"math/rand"
	"time"

	"spellingbee/internal/models"
)

// RandomSource supplies the randomness for word selection. Isolating it
// behind an interface keeps selection deterministic under test while
// production uses a time-seeded source.
type RandomSource interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

type mathRandSource struct {
	r *rand.Rand
}

func (s *mathRandSource) Float64() float64 {
	return s.r.Float64()
}

// NewRandomSource returns a time-seeded random source for production use.
func NewRandomSource() RandomSource {
	return &mathRandSource{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// selectNextWord picks a uniformly random unused word honoring the active
// difficulty filter. Once every eligible word has been shown the cycle
// restarts. A filter matching no words yields nil until the filter changes.
// Callers must hold s.mu.
func (s *Session) selectNextWord() *models.WordEntry {
	candidates := s.availableWords()

	if len(candidates) == 0 {
		s.usedWords = make(map[string]struct{})
		candidates = s.availableWords()
	}

	if len(candidates) == 0 {
		return nil
	}

	idx := int(s.rng.Float64() * float64(len(candidates)))
	if idx >= len(candidates) {
		idx = len(candidates) - 1
	}

	word := candidates[idx]
	return &word
}

// availableWords filters the pool by usage and the active difficulty filter.
// Callers must hold s.mu.
func (s *Session) availableWords() []models.WordEntry {
	var words []models.WordEntry
	for _, word := range s.wordPool {
		if _, used := s.usedWords[word.Word]; used {
			continue
		}
		if !s.matchesFilter(word) {
			continue
		}
		words = append(words, word)
	}
	return words
}

// matchesFilter reports whether a word passes the difficulty filter. An
// empty filter admits every tier. Callers must hold s.mu.
func (s *Session) matchesFilter(word models.WordEntry) bool {
	if len(s.selectedDifficulties) == 0 {
		return true
	}
	for _, tier := range s.selectedDifficulties {
		if word.Difficulty == tier {
			return true
		}
	}
	return false
}
