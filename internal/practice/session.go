package practice

import (
	"strings"
	"sync"
	"time"

	"spellingbee/internal/models"
)

// HistoryStore persists practice attempts. Load is called once at session
// creation. Append returns the canonical trimmed history; on persistence
// failure it returns an empty list and the session falls back to its own
// in-memory mirror.
type HistoryStore interface {
	Load() []models.PracticeAttempt
	Append(attempt models.PracticeAttempt) []models.PracticeAttempt
}

// Session is the practice state machine. It owns the current word, user
// input, evaluation result, hint state, usage tracking, statistics and the
// attempt history. Every method is atomic; no method performs blocking I/O
// beyond the history store's append, which swallows its own failures.
type Session struct {
	mu sync.Mutex

	wordPool             []models.WordEntry
	usedWords            map[string]struct{}
	selectedDifficulties []models.Difficulty

	currentWord *models.WordEntry
	userInput   string
	evaluation  models.Evaluation

	hintVisible bool
	hintKind    models.HintKind // last-used kind, retained across hides

	stats   models.Statistics
	history []models.PracticeAttempt

	store HistoryStore
	rng   RandomSource
	now   func() time.Time
}

// NewSession creates a practice session with zeroed statistics and history
// loaded from the store.
func NewSession(store HistoryStore, rng RandomSource) *Session {
	return &Session{
		usedWords:  make(map[string]struct{}),
		evaluation: models.EvaluationPending,
		history:    store.Load(),
		store:      store,
		rng:        rng,
		now:        time.Now,
	}
}

// SetWordPool replaces the word pool and clears usage tracking. An empty
// pool is legal; selection then yields no word.
func (s *Session) SetWordPool(words []models.WordEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wordPool = make([]models.WordEntry, len(words))
	copy(s.wordPool, words)
	s.usedWords = make(map[string]struct{})
}

// SetUserInput stores the learner's input verbatim. Sanitization is the
// caller's responsibility.
func (s *Session) SetUserInput(input string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userInput = input
}

// SetDifficultyFilter replaces the difficulty filter and clears usage
// tracking. If the current word no longer matches a non-empty filter, a
// replacement is selected immediately; a still-matching word is kept so
// valid progress is not discarded.
func (s *Session) SetDifficultyFilter(tiers []models.Difficulty) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedDifficulties = make([]models.Difficulty, len(tiers))
	copy(s.selectedDifficulties, tiers)
	s.usedWords = make(map[string]struct{})

	if s.keepCurrentWord() {
		// The kept word is already on screen; it opens the new cycle.
		s.usedWords[s.currentWord.Word] = struct{}{}
		return
	}
	s.setCurrentWord(s.selectNextWord())
}

// keepCurrentWord reports whether the current word survives the active
// difficulty filter.
func (s *Session) keepCurrentWord() bool {
	if s.currentWord == nil {
		return false
	}
	if len(s.selectedDifficulties) == 0 {
		return true
	}
	return s.matchesFilter(*s.currentWord)
}

// CheckAnswer evaluates the current input against the current word. With no
// current word it is a no-op. Statistics, streaks and history are updated
// atomically; the attempt is handed to the history store, whose failures
// never surface here.
func (s *Session) CheckAnswer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentWord == nil {
		return
	}

	correct := normalizeAnswer(s.userInput) == normalizeAnswer(s.currentWord.Word)

	s.stats.Attempted++
	if correct {
		s.stats.Correct++
		s.stats.CurrentStreak++
		s.evaluation = models.EvaluationCorrect
	} else {
		s.stats.Incorrect++
		s.stats.CurrentStreak = 0
		s.evaluation = models.EvaluationIncorrect
	}
	if s.stats.CurrentStreak > s.stats.MaxStreak {
		s.stats.MaxStreak = s.stats.CurrentStreak
	}
	s.stats.Accuracy = accuracy(s.stats.Correct, s.stats.Attempted)

	s.usedWords[s.currentWord.Word] = struct{}{}

	attempt := models.PracticeAttempt{
		Word:       s.currentWord.Word,
		Correct:    correct,
		Difficulty: s.currentWord.Difficulty,
		Timestamp:  s.now().UnixMilli(),
	}
	s.recordAttempt(attempt)
}

// recordAttempt appends to history via the store. An empty return signals a
// persistence failure, not a cleared history; the in-memory mirror is
// extended instead.
func (s *Session) recordAttempt(attempt models.PracticeAttempt) {
	persisted := s.store.Append(attempt)
	if len(persisted) > 0 {
		s.history = persisted
		return
	}

	s.history = append(s.history, attempt)
	if len(s.history) > models.MaxHistoryEntries {
		s.history = s.history[len(s.history)-models.MaxHistoryEntries:]
	}
}

// NextWord advances to the next word under the current filters, resetting
// input, evaluation and hint state. A nil current word afterwards means the
// pool is empty under the active filter; that is the defined empty state,
// not an error.
func (s *Session) NextWord() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCurrentWord(s.selectNextWord())
}

// setCurrentWord loads a word and resets transient answer state. The word
// counts against the current cycle as soon as it is presented, answered or
// not, so repeated advancing cannot re-present it before exhaustion.
func (s *Session) setCurrentWord(word *models.WordEntry) {
	s.currentWord = word
	if word != nil {
		s.usedWords[word.Word] = struct{}{}
	}
	s.userInput = ""
	s.evaluation = models.EvaluationPending
	s.hintVisible = false
	s.hintKind = ""
}

// ToggleHint flips hint visibility. With an explicit kind the hint always
// ends visible showing that kind, so repeated calls are idempotent. Without
// one, re-showing restores the last-used kind, defaulting to the definition.
func (s *Session) ToggleHint(kind ...models.HintKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(kind) > 0 {
		s.hintVisible = true
		s.hintKind = kind[0]
		return
	}

	if s.hintVisible {
		s.hintVisible = false
		return
	}
	s.hintVisible = true
	if s.hintKind == "" {
		s.hintKind = models.HintDefinition
	}
}

// ResetSession zeroes statistics and clears the current word, input,
// evaluation, hint and usage tracking. The word pool and persisted history
// are preserved.
func (s *Session) ResetSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats = models.Statistics{}
	s.currentWord = nil
	s.userInput = ""
	s.evaluation = models.EvaluationPending
	s.hintVisible = false
	s.hintKind = ""
	s.usedWords = make(map[string]struct{})
}

// CurrentWord returns a copy of the current word, or nil in the empty state.
func (s *Session) CurrentWord() *models.WordEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentWord == nil {
		return nil
	}
	word := *s.currentWord
	return &word
}

// UserInput returns the learner's current input.
func (s *Session) UserInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userInput
}

// Evaluation returns the tri-state result of the last answer check.
func (s *Session) Evaluation() models.Evaluation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluation
}

// HintState returns hint visibility and, when visible, the hint kind.
func (s *Session) HintState() (bool, models.HintKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hintVisible {
		return false, ""
	}
	return true, s.hintKind
}

// Statistics returns a snapshot of the session statistics.
func (s *Session) Statistics() models.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// History returns a copy of the attempt history, oldest first.
func (s *Session) History() []models.PracticeAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]models.PracticeAttempt, len(s.history))
	copy(history, s.history)
	return history
}

// normalizeAnswer lowers and trims a candidate answer for comparison.
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// accuracy computes the percentage of correct attempts.
func accuracy(correct, attempted int) float64 {
	if attempted == 0 {
		return 0
	}
	return float64(correct) / float64(attempted) * 100
}
