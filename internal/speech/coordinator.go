package speech

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"spellingbee/internal/config"
)

// EngineKind names a speech backend in configuration.
type EngineKind string

const (
	EngineEspeak  EngineKind = "espeak"
	EngineOpenTTS EngineKind = "opentts"
	EngineCache   EngineKind = "cache"
)

// defaultFallbackOrder is the canonical probe order: native synthesizer,
// then HTTP, then offline cache.
var defaultFallbackOrder = []EngineKind{EngineEspeak, EngineOpenTTS, EngineCache}

// Coordinator binds one speech engine at construction and manages the
// request lifecycle. Engine resolution is not re-evaluated per call; a
// coordinator instance speaks through the same engine for its lifetime.
type Coordinator struct {
	engine Engine
	log    *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewCoordinator resolves an engine by ordered capability probing. An
// explicit preference is attempted first; if unsupported, probing continues
// from the tier after the preference in the fallback order. When nothing is
// supported the last engine in the chain is bound anyway and every Speak
// fails with its descriptive error, matching best-effort pronunciation.
func NewCoordinator(cfg config.TTS, log *zap.Logger) (*Coordinator, error) {
	order, err := fallbackOrder(cfg)
	if err != nil {
		return nil, err
	}

	candidates := make([]Engine, 0, len(order)+1)
	if cfg.PreferredEngine != "" {
		preferred, err := buildEngine(EngineKind(cfg.PreferredEngine), cfg)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, preferred)
		order = tiersAfter(order, EngineKind(cfg.PreferredEngine))
	}
	for _, kind := range order {
		engine, err := buildEngine(kind, cfg)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, engine)
	}

	engine := resolve(candidates)

	if !engine.IsSupported() {
		log.Warn("no supported speech engine found; speech requests will fail",
			zap.String("engine", engine.Name()))
	} else {
		log.Info("speech engine resolved", zap.String("engine", engine.Name()))
	}

	return &Coordinator{engine: engine, log: log}, nil
}

// fallbackOrder parses the configured probe order, defaulting to
// native → HTTP → offline.
func fallbackOrder(cfg config.TTS) ([]EngineKind, error) {
	if len(cfg.FallbackOrder) == 0 {
		return defaultFallbackOrder, nil
	}

	order := make([]EngineKind, 0, len(cfg.FallbackOrder))
	for _, name := range cfg.FallbackOrder {
		kind := EngineKind(name)
		switch kind {
		case EngineEspeak, EngineOpenTTS, EngineCache:
			order = append(order, kind)
		default:
			return nil, fmt.Errorf("speech: unknown engine %q in fallback order", name)
		}
	}
	return order, nil
}

// tiersAfter returns the chain tiers following kind, or the whole chain
// when kind is not part of it.
func tiersAfter(order []EngineKind, kind EngineKind) []EngineKind {
	for i, candidate := range order {
		if candidate == kind {
			return order[i+1:]
		}
	}
	return order
}

// resolve picks the first supported candidate. With none supported the last
// tier is returned; its Speak then reports the descriptive failure.
func resolve(candidates []Engine) Engine {
	for _, candidate := range candidates {
		if candidate.IsSupported() {
			return candidate
		}
	}
	return candidates[len(candidates)-1]
}

// buildEngine constructs a backend. Construction never fails for mere lack
// of support; IsSupported carries that verdict.
func buildEngine(kind EngineKind, cfg config.TTS) (Engine, error) {
	switch kind {
	case EngineEspeak:
		return NewEspeakEngine(cfg.Voice), nil
	case EngineOpenTTS:
		return NewOpenTTSEngine(cfg.OpenTTSBaseURL, cfg.Voice, cfg.AudioCacheDir), nil
	case EngineCache:
		return NewCacheEngine(cfg.AudioCacheDir), nil
	default:
		return nil, fmt.Errorf("speech: unknown engine %q", kind)
	}
}

// Engine returns the name of the bound engine.
func (c *Coordinator) Engine() string {
	return c.engine.Name()
}

// Speak delegates to the bound engine under a per-request context. Exactly
// one request is live per coordinator; a new request cancels the previous
// one even when the engine itself cannot.
func (c *Coordinator) Speak(ctx context.Context, text string, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.engine.Cancel()
	c.mu.Unlock()
	defer cancel()

	return c.engine.Speak(ctx, text, opts)
}

// Cancel stops in-flight playback; safe to call when idle.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	c.engine.Cancel()
}

// Voices lists the bound engine's voices, best-effort.
func (c *Coordinator) Voices(ctx context.Context) ([]Voice, error) {
	return c.engine.Voices(ctx)
}
