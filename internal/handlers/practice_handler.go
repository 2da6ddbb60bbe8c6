package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"spellingbee/internal/catalog"
	"spellingbee/internal/models"
	"spellingbee/internal/security"
)

// PracticeHandler handles practice session HTTP requests
type PracticeHandler struct {
	registry *SessionRegistry
	words    *models.WordSet
	secret   string
	tokenTTL time.Duration
	log      *zap.Logger
}

// NewPracticeHandler creates a new practice handler
func NewPracticeHandler(registry *SessionRegistry, words *models.WordSet, secret string, tokenTTL time.Duration, log *zap.Logger) *PracticeHandler {
	return &PracticeHandler{
		registry: registry,
		words:    words,
		secret:   secret,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// CreateSession starts a new practice session and returns a signed token
func (h *PracticeHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := h.registry.Create(h.tokenTTL)

	token, err := security.IssueSessionToken(h.secret, sessionID, h.tokenTTL)
	if err != nil {
		h.registry.Remove(sessionID)
		respondWithError(w, h.log, http.StatusInternalServerError, "Failed to create session", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, "session_token", token, time.Now().Add(h.tokenTTL)))

	h.log.Info("practice session created", zap.String("session_id", sessionID))
	respondWithJSON(w, http.StatusCreated, sessionResponse{SessionID: sessionID, Token: token})
}

// SetWords loads the word pool from the dictionary, optionally filtered by
// grade band.
func (h *PracticeHandler) SetWords(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	var req wordsRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	pool := h.words.Words
	if req.GradeBand != "" {
		pool = catalog.WordsForGradeBand(h.words, models.GradeBand(req.GradeBand))
		if len(pool) == 0 {
			respondWithError(w, h.log, http.StatusBadRequest, "No words for grade band "+req.GradeBand, nil)
			return
		}
	}

	session.SetWordPool(pool)
	respondWithJSON(w, http.StatusOK, wordsResponse{Count: len(pool)})
}

// NextWord advances the session to the next word
func (h *PracticeHandler) NextWord(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	session.NextWord()
	respondWithJSON(w, http.StatusOK, newStateResponse(session))
}

// SetInput records the user's typed answer without checking it
func (h *PracticeHandler) SetInput(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	var req inputRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	session.SetUserInput(req.Input)
	respondWithJSON(w, http.StatusOK, newStateResponse(session))
}

// CheckAnswer evaluates the current input against the current word
func (h *PracticeHandler) CheckAnswer(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	var req answerRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Input != nil {
		session.SetUserInput(*req.Input)
	}
	session.CheckAnswer()
	respondWithJSON(w, http.StatusOK, newStateResponse(session))
}

// ToggleHint toggles hint visibility, or shows a specific hint kind
func (h *PracticeHandler) ToggleHint(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	var req hintRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Kind == "" {
		session.ToggleHint()
	} else {
		kind := models.HintKind(req.Kind)
		if !kind.Valid() {
			respondWithError(w, h.log, http.StatusBadRequest, "Unknown hint kind "+req.Kind, nil)
			return
		}
		session.ToggleHint(kind)
	}
	respondWithJSON(w, http.StatusOK, newStateResponse(session))
}

// SetFilter updates the difficulty filter
func (h *PracticeHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	var req filterRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tiers := make([]models.Difficulty, 0, len(req.Difficulties))
	for _, raw := range req.Difficulties {
		tier, err := models.ParseDifficulty(raw)
		if err != nil {
			respondWithError(w, h.log, http.StatusBadRequest, "Unknown difficulty "+raw, err)
			return
		}
		tiers = append(tiers, tier)
	}

	session.SetDifficultyFilter(tiers)
	respondWithJSON(w, http.StatusOK, newStateResponse(session))
}

// ResetSession clears statistics and transient state
func (h *PracticeHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	session.ResetSession()
	respondWithJSON(w, http.StatusOK, newStateResponse(session))
}

// GetStats returns the statistics snapshot
func (h *PracticeHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	respondWithJSON(w, http.StatusOK, session.Statistics())
}

// GetHistory returns the attempt history in chronological order
func (h *PracticeHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	attempts := session.History()
	if attempts == nil {
		attempts = []models.PracticeAttempt{}
	}
	respondWithJSON(w, http.StatusOK, historyResponse{Attempts: attempts})
}

// decodeBody parses a JSON request body. An empty body decodes to the
// zero value so endpoints with all-optional fields accept bare POSTs.
func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(dst)
}
