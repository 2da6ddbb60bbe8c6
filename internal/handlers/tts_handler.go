package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"spellingbee/internal/speech"
)

// TTSHandler handles text-to-speech HTTP requests
type TTSHandler struct {
	coordinator *speech.Coordinator
	log         *zap.Logger
}

// NewTTSHandler creates a new TTS handler
func NewTTSHandler(coordinator *speech.Coordinator, log *zap.Logger) *TTSHandler {
	return &TTSHandler{
		coordinator: coordinator,
		log:         log,
	}
}

// Speak pronounces the given text through the bound engine
func (h *TTSHandler) Speak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		respondWithError(w, h.log, http.StatusBadRequest, "Text is required", nil)
		return
	}

	opts := speech.Options{
		Language: req.Language,
		Rate:     req.Rate,
		Pitch:    req.Pitch,
		Volume:   req.Volume,
	}

	if err := h.coordinator.Speak(r.Context(), req.Text, opts); err != nil {
		respondWithError(w, h.log, http.StatusBadGateway, "Speech synthesis failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, speakResponse{Engine: h.coordinator.Engine()})
}

// Voices lists the voices available on the bound engine
func (h *TTSHandler) Voices(w http.ResponseWriter, r *http.Request) {
	voices, err := h.coordinator.Voices(r.Context())
	if err != nil {
		respondWithError(w, h.log, http.StatusBadGateway, "Failed to list voices", err)
		return
	}
	if voices == nil {
		voices = []speech.Voice{}
	}
	respondWithJSON(w, http.StatusOK, voices)
}
