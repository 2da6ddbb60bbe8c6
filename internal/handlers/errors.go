package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, log *zap.Logger, status int, userMsg string, err error) {
	if err != nil {
		log.Warn(userMsg, zap.Int("status", status), zap.Error(err))
	}
	respondWithJSON(w, status, errorResponse{Error: userMsg})
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
