package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const openTTSRequestTimeout = 10 * time.Second

// OpenTTSEngine is the HTTP tier: a thin client for an OpenTTS server.
// Synthesized audio is cached on disk keyed by the spoken text, then played
// through a local player when one is available.
type OpenTTSEngine struct {
	baseURL  string
	voice    string
	audioDir string
	client   *http.Client
	player   *Player

	mu     sync.Mutex
	cancel context.CancelFunc
}

// ttsRequest is the OpenTTS synthesis request body.
type ttsRequest struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice,omitempty"`
	Rate  float64 `json:"rate"`
	Pitch float64 `json:"pitch"`
}

// NewOpenTTSEngine creates an OpenTTS client. Construction always succeeds;
// an empty base URL simply makes the engine unsupported.
func NewOpenTTSEngine(baseURL, voice, audioDir string) *OpenTTSEngine {
	return &OpenTTSEngine{
		baseURL:  strings.TrimRight(baseURL, "/"),
		voice:    voice,
		audioDir: audioDir,
		client:   &http.Client{Timeout: openTTSRequestTimeout},
		player:   NewPlayer(),
	}
}

func (e *OpenTTSEngine) Name() string { return "opentts" }

func (e *OpenTTSEngine) IsSupported() bool { return e.baseURL != "" }

// Speak synthesizes text through the OpenTTS server, caches the audio and
// plays it. An in-flight request is canceled first.
func (e *OpenTTSEngine) Speak(ctx context.Context, text string, opts Options) error {
	if !e.IsSupported() {
		return fmt.Errorf("opentts: %w", ErrUnsupported)
	}
	opts = opts.withDefaults()

	ctx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.cancel = cancel
	e.mu.Unlock()
	defer cancel()

	path, err := e.synthesizeToFile(ctx, text, opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	// Playback is best-effort; a cached file with no local player is still
	// a successful synthesis.
	if !e.player.Available() {
		return nil
	}
	if err := e.player.Play(ctx, path); err != nil {
		return fmt.Errorf("opentts: %w", err)
	}
	return nil
}

// synthesizeToFile fetches audio for text, reusing a cached file when one
// exists.
func (e *OpenTTSEngine) synthesizeToFile(ctx context.Context, text string, opts Options) (string, error) {
	filename := fmt.Sprintf("word_%s.wav", sanitizeFilename(text))
	path := filepath.Join(e.audioDir, filename)

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	body, err := json.Marshal(ttsRequest{
		Text:  text,
		Voice: e.voice,
		Rate:  opts.Rate,
		Pitch: opts.Pitch,
	})
	if err != nil {
		return "", fmt.Errorf("opentts: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/tts", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("opentts: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("opentts: synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("opentts: unexpected status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(e.audioDir, 0o755); err != nil {
		return "", fmt.Errorf("opentts: create audio directory: %w", err)
	}
	outFile, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("opentts: create audio file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("opentts: write audio file: %w", err)
	}

	return path, nil
}

// Cancel stops the in-flight request or playback; safe to call when idle.
func (e *OpenTTSEngine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// Voices queries the server's voice catalog. OpenTTS returns a map keyed by
// voice ID.
func (e *OpenTTSEngine) Voices(ctx context.Context) ([]Voice, error) {
	if !e.IsSupported() {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/api/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("opentts: create request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opentts: voices request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("opentts: unexpected status code: %d", resp.StatusCode)
	}

	var catalog map[string]Voice
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("opentts: decode voices: %w", err)
	}

	voices := make([]Voice, 0, len(catalog))
	for id, voice := range catalog {
		if voice.ID == "" {
			voice.ID = id
		}
		voices = append(voices, voice)
	}
	return voices, nil
}

// sanitizeFilename makes text safe for a cache filename.
func sanitizeFilename(text string) string {
	sanitized := strings.ToLower(strings.TrimSpace(text))
	return strings.ReplaceAll(sanitized, " ", "_")
}
