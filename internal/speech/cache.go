package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// audioExtensions are the cached-audio formats probed in order.
var audioExtensions = []string{".wav", ".mp3"}

// CacheEngine is the offline tier: it plays pre-generated audio files from
// the audio cache directory and synthesizes nothing itself. It covers hosts
// with neither a local synthesizer nor a reachable OpenTTS server.
type CacheEngine struct {
	audioDir string
	player   *Player

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewCacheEngine creates a cache engine over the given audio directory.
func NewCacheEngine(audioDir string) *CacheEngine {
	return &CacheEngine{audioDir: audioDir, player: NewPlayer()}
}

func (e *CacheEngine) Name() string { return "cache" }

// IsSupported reports whether the cache holds any playable audio.
func (e *CacheEngine) IsSupported() bool {
	if !e.player.Available() {
		return false
	}
	entries, err := os.ReadDir(e.audioDir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		for _, known := range audioExtensions {
			if ext == known {
				return true
			}
		}
	}
	return false
}

// Speak plays the cached audio for text. A cache miss is an error; this
// engine cannot synthesize.
func (e *CacheEngine) Speak(ctx context.Context, text string, opts Options) error {
	if !e.IsSupported() {
		return fmt.Errorf("cache: %w", ErrUnsupported)
	}

	path, ok := e.lookup(text)
	if !ok {
		return fmt.Errorf("cache: no cached audio for %q", text)
	}

	ctx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.cancel = cancel
	e.mu.Unlock()
	defer cancel()

	if err := e.player.Play(ctx, path); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// lookup finds the cached file for text, trying each known extension.
func (e *CacheEngine) lookup(text string) (string, bool) {
	base := "word_" + sanitizeFilename(text)
	for _, ext := range audioExtensions {
		path := filepath.Join(e.audioDir, base+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Cancel stops in-flight playback; safe to call when idle.
func (e *CacheEngine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// Voices returns an empty list; cached files carry no voice metadata.
func (e *CacheEngine) Voices(ctx context.Context) ([]Voice, error) {
	return nil, nil
}
