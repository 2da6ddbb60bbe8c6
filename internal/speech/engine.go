// Package speech provides the text-to-speech abstraction: one capability
// contract, three interchangeable engines and a coordinator that selects an
// engine by ordered capability probing.
package speech

import (
	"context"
	"errors"
)

// ErrUnsupported is returned by Speak on an engine whose capability probe
// failed. Callers are expected to check IsSupported first; seeing this error
// indicates a wiring mistake, not a runtime condition.
var ErrUnsupported = errors.New("engine is not supported on this host")

// Options configures a single speech request.
type Options struct {
	Language string  // BCP-47 language tag, default "en-US"
	Rate     float64 // speaking rate multiplier in [0.1, 10], default 1
	Pitch    float64 // pitch multiplier, default 1
	Volume   float64 // volume in [0, 1], default 1
}

// withDefaults fills unset option fields with their documented defaults and
// clamps rate and volume to their legal ranges.
func (o Options) withDefaults() Options {
	if o.Language == "" {
		o.Language = "en-US"
	}
	if o.Rate == 0 {
		o.Rate = 1
	}
	if o.Rate < 0.1 {
		o.Rate = 0.1
	}
	if o.Rate > 10 {
		o.Rate = 10
	}
	if o.Pitch == 0 {
		o.Pitch = 1
	}
	if o.Volume == 0 {
		o.Volume = 1
	}
	if o.Volume < 0 {
		o.Volume = 0
	}
	if o.Volume > 1 {
		o.Volume = 1
	}
	return o
}

// Voice describes a synthesizer voice.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	Gender   string `json:"gender,omitempty"`
}

// Engine is the capability contract implemented by every speech backend.
type Engine interface {
	// Name identifies the engine in errors and logs.
	Name() string

	// IsSupported is a synchronous capability probe; it never fails.
	IsSupported() bool

	// Speak synthesizes and plays text. Any in-flight request on the same
	// engine is canceled first; the newest request wins. Speak on an
	// unsupported engine fails fast with ErrUnsupported.
	Speak(ctx context.Context, text string, opts Options) error

	// Cancel stops in-flight playback. It is an idempotent no-op when
	// nothing is playing.
	Cancel()

	// Voices lists available voice descriptors, best-effort. Engines
	// without an enumerable-voice concept return an empty list.
	Voices(ctx context.Context) ([]Voice, error)
}
