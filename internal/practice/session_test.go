package practice

import (
	"strconv"
	"testing"

	"spellingbee/internal/history"
	"spellingbee/internal/models"
)

// fixedSource returns a repeating sequence of values, making selection
// deterministic.
type fixedSource struct {
	values []float64
	next   int
}

func (s *fixedSource) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// failingStore simulates a persistence collaborator that always fails,
// returning empty lists.
type failingStore struct{}

func (failingStore) Load() []models.PracticeAttempt { return nil }
func (failingStore) Append(models.PracticeAttempt) []models.PracticeAttempt {
	return nil
}

func newTestSession(words ...models.WordEntry) *Session {
	s := NewSession(history.NewMemoryStore(), &fixedSource{})
	s.SetWordPool(words)
	return s
}

func testPool() []models.WordEntry {
	return []models.WordEntry{
		{Word: "cat", Difficulty: models.DifficultyEasy, Definition: "a small feline"},
		{Word: "dog", Difficulty: models.DifficultyEasy, Definition: "a loyal canine"},
		{Word: "xylophone", Difficulty: models.DifficultyHard, Definition: "a percussion instrument"},
	}
}

func TestCheckAnswerNormalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  models.Evaluation
	}{
		{"exact match", "apple", models.EvaluationCorrect},
		{"mixed case with whitespace", "  ApPLe  ", models.EvaluationCorrect},
		{"uppercase", "APPLE", models.EvaluationCorrect},
		{"misspelled", "aple", models.EvaluationIncorrect},
		{"empty input", "", models.EvaluationIncorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(models.WordEntry{Word: "apple", Difficulty: models.DifficultyEasy})
			s.NextWord()
			s.SetUserInput(tt.input)
			s.CheckAnswer()

			if got := s.Evaluation(); got != tt.want {
				t.Errorf("Evaluation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckAnswerWithoutWordIsNoOp(t *testing.T) {
	s := newTestSession()
	s.SetUserInput("anything")
	s.CheckAnswer()

	if got := s.Evaluation(); got != models.EvaluationPending {
		t.Errorf("Evaluation() = %v, want pending", got)
	}
	if stats := s.Statistics(); stats.Attempted != 0 {
		t.Errorf("Attempted = %d, want 0", stats.Attempted)
	}
}

func TestStatisticsInvariant(t *testing.T) {
	s := newTestSession(testPool()...)

	inputs := []string{"cat", "wrong", "dog", "wrong", "wrong", "xylophone"}
	for _, input := range inputs {
		s.NextWord()
		s.SetUserInput(input)
		s.CheckAnswer()

		stats := s.Statistics()
		if stats.Correct+stats.Incorrect != stats.Attempted {
			t.Fatalf("invariant broken: correct %d + incorrect %d != attempted %d",
				stats.Correct, stats.Incorrect, stats.Attempted)
		}
		if stats.CurrentStreak > stats.MaxStreak {
			t.Fatalf("currentStreak %d > maxStreak %d", stats.CurrentStreak, stats.MaxStreak)
		}
	}
}

func TestStreakSequence(t *testing.T) {
	s := newTestSession(models.WordEntry{Word: "cat", Difficulty: models.DifficultyEasy})

	// correct, correct, incorrect, correct
	answers := []string{"cat", "cat", "nope", "cat"}
	wantStreaks := []int{1, 2, 0, 1}

	for i, answer := range answers {
		s.NextWord()
		s.SetUserInput(answer)
		s.CheckAnswer()

		if got := s.Statistics().CurrentStreak; got != wantStreaks[i] {
			t.Errorf("after attempt %d: CurrentStreak = %d, want %d", i+1, got, wantStreaks[i])
		}
	}

	if got := s.Statistics().MaxStreak; got != 2 {
		t.Errorf("MaxStreak = %d, want 2", got)
	}
}

func TestAccuracy(t *testing.T) {
	s := newTestSession(models.WordEntry{Word: "cat", Difficulty: models.DifficultyEasy})

	if got := s.Statistics().Accuracy; got != 0 {
		t.Errorf("accuracy before any attempt = %v, want 0", got)
	}

	s.NextWord()
	s.SetUserInput("cat")
	s.CheckAnswer()
	s.NextWord()
	s.SetUserInput("wrong")
	s.CheckAnswer()

	if got := s.Statistics().Accuracy; got != 50 {
		t.Errorf("accuracy after 1/2 = %v, want 50", got)
	}
}

func TestCycleCompleteReshuffle(t *testing.T) {
	s := newTestSession(testPool()...)

	seen := make(map[string]struct{})
	for i := 0; i < 3; i++ {
		s.NextWord()
		word := s.CurrentWord()
		if word == nil {
			t.Fatalf("NextWord() %d returned no word with a non-empty pool", i+1)
		}
		if _, dup := seen[word.Word]; dup {
			t.Fatalf("word %q repeated within a single cycle", word.Word)
		}
		seen[word.Word] = struct{}{}
		s.SetUserInput(word.Word)
		s.CheckAnswer()
	}

	// Fourth call starts a fresh cycle; it must still yield a word.
	s.NextWord()
	if s.CurrentWord() == nil {
		t.Fatal("NextWord() after exhaustion returned no word; cycle should reset")
	}
}

func TestNextWordWithoutAnsweringDoesNotRepeat(t *testing.T) {
	s := newTestSession(testPool()...)

	// Skipping counts as presentation: a word joins the cycle the moment it
	// is shown, even when the learner never answers.
	seen := make(map[string]struct{})
	for i := 0; i < 3; i++ {
		s.NextWord()
		word := s.CurrentWord()
		if word == nil {
			t.Fatalf("NextWord() %d returned no word with a non-empty pool", i+1)
		}
		if _, dup := seen[word.Word]; dup {
			t.Fatalf("word %q re-presented within a single cycle of skipped words", word.Word)
		}
		seen[word.Word] = struct{}{}
	}

	s.NextWord()
	if s.CurrentWord() == nil {
		t.Fatal("NextWord() after a skipped-through cycle returned no word")
	}
}

func TestFilterStarvation(t *testing.T) {
	s := newTestSession(
		models.WordEntry{Word: "cat", Difficulty: models.DifficultyEasy},
		models.WordEntry{Word: "dog", Difficulty: models.DifficultyEasy},
	)
	s.SetDifficultyFilter([]models.Difficulty{models.DifficultyHard})

	for i := 0; i < 5; i++ {
		s.NextWord()
		if word := s.CurrentWord(); word != nil {
			t.Fatalf("NextWord() under a starving filter returned %q, want none", word.Word)
		}
	}

	// Clearing the filter ends the empty state.
	s.SetDifficultyFilter(nil)
	s.NextWord()
	if s.CurrentWord() == nil {
		t.Fatal("NextWord() after clearing the filter returned no word")
	}
}

func TestDifficultyFilterScenario(t *testing.T) {
	s := newTestSession(testPool()...)
	s.SetDifficultyFilter([]models.Difficulty{models.DifficultyEasy})

	for i := 0; i < 6; i++ {
		s.NextWord()
		word := s.CurrentWord()
		if word == nil {
			t.Fatalf("NextWord() %d returned no word with eligible easy words", i+1)
		}
		if word.Difficulty != models.DifficultyEasy {
			t.Fatalf("NextWord() returned %q with difficulty %s, filter allows only easy",
				word.Word, word.Difficulty)
		}
		s.SetUserInput(word.Word)
		s.CheckAnswer()
	}
}

func TestSetDifficultyFilterKeepsMatchingWord(t *testing.T) {
	s := newTestSession(testPool()...)
	s.NextWord()
	before := s.CurrentWord()
	if before == nil {
		t.Fatal("expected a current word")
	}

	s.SetDifficultyFilter([]models.Difficulty{before.Difficulty})

	after := s.CurrentWord()
	if after == nil || after.Word != before.Word {
		t.Errorf("current word changed from %q despite matching the new filter", before.Word)
	}
}

func TestSetDifficultyFilterKeptWordOpensNewCycle(t *testing.T) {
	s := newTestSession(
		models.WordEntry{Word: "cat", Difficulty: models.DifficultyEasy},
		models.WordEntry{Word: "dog", Difficulty: models.DifficultyEasy},
	)
	s.NextWord()
	kept := s.CurrentWord()
	if kept == nil {
		t.Fatal("expected a current word")
	}

	s.SetDifficultyFilter([]models.Difficulty{models.DifficultyEasy})

	// The kept word already counts against the fresh cycle, so advancing
	// must present the other word instead of repeating it.
	s.NextWord()
	next := s.CurrentWord()
	if next == nil {
		t.Fatal("NextWord() returned no word with an eligible pool")
	}
	if next.Word == kept.Word {
		t.Errorf("word %q re-presented immediately after the filter change kept it", kept.Word)
	}
}

func TestSetDifficultyFilterReplacesMismatchedWord(t *testing.T) {
	s := newTestSession(testPool()...)

	// Force the hard word to be current.
	s.SetDifficultyFilter([]models.Difficulty{models.DifficultyHard})
	s.NextWord()
	if word := s.CurrentWord(); word == nil || word.Difficulty != models.DifficultyHard {
		t.Fatal("setup failed: expected the hard word to be current")
	}

	s.SetDifficultyFilter([]models.Difficulty{models.DifficultyEasy})

	word := s.CurrentWord()
	if word == nil {
		t.Fatal("expected an immediate replacement word")
	}
	if word.Difficulty != models.DifficultyEasy {
		t.Errorf("replacement word difficulty = %s, want easy", word.Difficulty)
	}
}

func TestToggleHint(t *testing.T) {
	s := newTestSession(testPool()...)
	s.NextWord()

	// Explicit kind is idempotent.
	s.ToggleHint(models.HintDefinition)
	s.ToggleHint(models.HintDefinition)
	visible, kind := s.HintState()
	if !visible || kind != models.HintDefinition {
		t.Errorf("after double explicit toggle: visible=%v kind=%v, want visible definition", visible, kind)
	}

	// Bare toggle hides.
	s.ToggleHint()
	if visible, _ := s.HintState(); visible {
		t.Error("hint still visible after bare toggle")
	}

	// Re-showing restores the last-used kind.
	s.ToggleHint(models.HintOrigin)
	s.ToggleHint()
	s.ToggleHint()
	visible, kind = s.HintState()
	if !visible || kind != models.HintOrigin {
		t.Errorf("re-shown hint: visible=%v kind=%v, want visible origin", visible, kind)
	}
}

func TestToggleHintDefaultsToDefinition(t *testing.T) {
	s := newTestSession(testPool()...)
	s.NextWord()

	s.ToggleHint()
	visible, kind := s.HintState()
	if !visible || kind != models.HintDefinition {
		t.Errorf("first bare toggle: visible=%v kind=%v, want visible definition", visible, kind)
	}
}

func TestNextWordResetsTransientState(t *testing.T) {
	s := newTestSession(testPool()...)
	s.NextWord()
	s.SetUserInput("something")
	s.CheckAnswer()
	s.ToggleHint(models.HintOrigin)

	s.NextWord()

	if got := s.UserInput(); got != "" {
		t.Errorf("UserInput() = %q, want empty", got)
	}
	if got := s.Evaluation(); got != models.EvaluationPending {
		t.Errorf("Evaluation() = %v, want pending", got)
	}
	if visible, _ := s.HintState(); visible {
		t.Error("hint still visible after NextWord()")
	}
}

func TestResetSession(t *testing.T) {
	s := newTestSession(testPool()...)
	s.NextWord()
	s.SetUserInput("cat")
	s.CheckAnswer()

	historyBefore := len(s.History())
	s.ResetSession()

	if stats := s.Statistics(); stats != (models.Statistics{}) {
		t.Errorf("statistics not zeroed: %+v", stats)
	}
	if s.CurrentWord() != nil {
		t.Error("current word not cleared")
	}
	if got := len(s.History()); got != historyBefore {
		t.Errorf("history length changed from %d to %d on reset", historyBefore, got)
	}

	// The pool survives a reset.
	s.NextWord()
	if s.CurrentWord() == nil {
		t.Error("word pool lost on reset")
	}
}

func TestHistoryCapWithMemoryStore(t *testing.T) {
	store := history.NewMemoryStore()
	s := NewSession(store, &fixedSource{})
	pool := make([]models.WordEntry, 0, models.MaxHistoryEntries+1)
	for i := 0; i < models.MaxHistoryEntries+1; i++ {
		pool = append(pool, models.WordEntry{
			Word:       "word" + strconv.Itoa(i),
			Difficulty: models.DifficultyEasy,
		})
	}
	s.SetWordPool(pool)

	for i := 0; i < models.MaxHistoryEntries+1; i++ {
		s.NextWord()
		s.SetUserInput("nope")
		s.CheckAnswer()
	}

	got := s.History()
	if len(got) != models.MaxHistoryEntries {
		t.Fatalf("history length = %d, want %d", len(got), models.MaxHistoryEntries)
	}
}

func TestHistoryFallbackWhenStoreFails(t *testing.T) {
	s := NewSession(failingStore{}, &fixedSource{})
	s.SetWordPool(testPool())

	s.NextWord()
	word := s.CurrentWord()
	s.SetUserInput(word.Word)
	s.CheckAnswer()

	got := s.History()
	if len(got) != 1 {
		t.Fatalf("history length = %d, want 1 (in-memory fallback)", len(got))
	}
	if got[0].Word != word.Word || !got[0].Correct {
		t.Errorf("fallback attempt = %+v, want correct attempt for %q", got[0], word.Word)
	}
}

func TestHistoryLoadedAtCreation(t *testing.T) {
	store := history.NewMemoryStore()
	store.Append(models.PracticeAttempt{Word: "cat", Correct: true, Difficulty: models.DifficultyEasy, Timestamp: 1})

	s := NewSession(store, &fixedSource{})
	if got := s.History(); len(got) != 1 || got[0].Word != "cat" {
		t.Errorf("History() = %v, want the persisted attempt", got)
	}
}

func TestEmptyPoolYieldsNoWord(t *testing.T) {
	s := newTestSession()
	s.NextWord()
	if s.CurrentWord() == nil {
		return
	}
	t.Error("NextWord() on an empty pool produced a word")
}

func TestSetWordPoolClearsUsedWords(t *testing.T) {
	s := newTestSession(models.WordEntry{Word: "cat", Difficulty: models.DifficultyEasy})
	s.NextWord()
	s.SetUserInput("cat")
	s.CheckAnswer()

	s.SetWordPool([]models.WordEntry{{Word: "cat", Difficulty: models.DifficultyEasy}})
	s.NextWord()
	if s.CurrentWord() == nil {
		t.Error("word unavailable after pool replacement; usedWords should have been cleared")
	}
}
