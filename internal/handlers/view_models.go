package handlers

import (
	"spellingbee/internal/models"
	"spellingbee/internal/practice"
)

// sessionResponse is returned when a new session is created.
type sessionResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

// stateResponse is the session snapshot returned by state-changing endpoints.
type stateResponse struct {
	Word        *models.WordEntry `json:"word"`
	UserInput   string            `json:"userInput"`
	Evaluation  models.Evaluation `json:"evaluation"`
	HintVisible bool              `json:"hintVisible"`
	HintKind    models.HintKind   `json:"hintKind,omitempty"`
	HintText    string            `json:"hintText,omitempty"`
	Statistics  models.Statistics `json:"statistics"`
}

func newStateResponse(s *practice.Session) stateResponse {
	resp := stateResponse{
		Word:       s.CurrentWord(),
		UserInput:  s.UserInput(),
		Evaluation: s.Evaluation(),
		Statistics: s.Statistics(),
	}

	visible, kind := s.HintState()
	resp.HintVisible = visible
	if visible {
		resp.HintKind = kind
		resp.HintText = hintText(resp.Word, kind)
	}
	return resp
}

func hintText(word *models.WordEntry, kind models.HintKind) string {
	if word == nil {
		return ""
	}
	switch kind {
	case models.HintDefinition:
		return word.Definition
	case models.HintUsageExample:
		return word.UsageExample
	case models.HintOrigin:
		return word.Origin
	}
	return ""
}

type historyResponse struct {
	Attempts []models.PracticeAttempt `json:"attempts"`
}

type wordsRequest struct {
	GradeBand string `json:"gradeBand,omitempty"`
}

type wordsResponse struct {
	Count int `json:"count"`
}

type inputRequest struct {
	Input string `json:"input"`
}

type answerRequest struct {
	Input *string `json:"input,omitempty"`
}

type hintRequest struct {
	Kind string `json:"kind,omitempty"`
}

type filterRequest struct {
	Difficulties []string `json:"difficulties"`
}

type speakRequest struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Rate     float64 `json:"rate,omitempty"`
	Pitch    float64 `json:"pitch,omitempty"`
	Volume   float64 `json:"volume,omitempty"`
}

type speakResponse struct {
	Engine string `json:"engine"`
}
