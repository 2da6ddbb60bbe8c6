package speech

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// espeak defaults; option multipliers scale these.
const (
	espeakBaseRate      = 175 // words per minute
	espeakBasePitch     = 50  // 0-99
	espeakBaseAmplitude = 100 // 0-200
)

// espeakBinaries are probed in order for a local synthesizer.
var espeakBinaries = []string{"espeak-ng", "espeak"}

// EspeakEngine speaks through a local espeak binary. It is the native tier:
// the cheapest engine and the first probed by the default fallback chain.
type EspeakEngine struct {
	binary string
	voice  string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewEspeakEngine probes PATH for an espeak binary. Construction always
// succeeds; IsSupported reports whether a binary was found.
func NewEspeakEngine(voice string) *EspeakEngine {
	e := &EspeakEngine{voice: voice}
	for _, name := range espeakBinaries {
		if path, err := exec.LookPath(name); err == nil {
			e.binary = path
			break
		}
	}
	return e
}

func (e *EspeakEngine) Name() string { return "espeak" }

func (e *EspeakEngine) IsSupported() bool { return e.binary != "" }

// Speak runs the espeak binary, which plays through the platform audio
// device. An in-flight request is canceled first.
func (e *EspeakEngine) Speak(ctx context.Context, text string, opts Options) error {
	if !e.IsSupported() {
		return fmt.Errorf("espeak: %w", ErrUnsupported)
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

	args := []string{
		"-v", e.voiceArg(opts.Language),
		"-s", strconv.Itoa(int(espeakBaseRate * opts.Rate)),
		"-p", strconv.Itoa(int(espeakBasePitch * opts.Pitch)),
		"-a", strconv.Itoa(int(espeakBaseAmplitude * opts.Volume)),
		text,
	}

	if err := exec.CommandContext(ctx, e.binary, args...).Run(); err != nil {
		if ctx.Err() != nil {
			// Superseded or canceled; not a synthesis failure.
			return nil
		}
		return fmt.Errorf("espeak: synthesis failed: %w", err)
	}
	return nil
}

// Cancel stops in-flight playback; safe to call when idle.
func (e *EspeakEngine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// voiceArg maps a BCP-47 tag to an espeak voice name, preferring an
// explicitly configured voice.
func (e *EspeakEngine) voiceArg(language string) string {
	if e.voice != "" {
		return e.voice
	}
	return strings.ToLower(language)
}

// Voices parses `espeak --voices` output.
func (e *EspeakEngine) Voices(ctx context.Context) ([]Voice, error) {
	if !e.IsSupported() {
		return nil, nil
	}

	out, err := exec.CommandContext(ctx, e.binary, "--voices").Output()
	if err != nil {
		return nil, fmt.Errorf("espeak: listing voices failed: %w", err)
	}
	return parseEspeakVoices(out), nil
}

// parseEspeakVoices reads the columnar voice listing. Expected columns:
// Pty Language Age/Gender VoiceName File Other.
func parseEspeakVoices(out []byte) []Voice {
	var voices []Voice
	scanner := bufio.NewScanner(bytes.NewReader(out))
	first := true
	for scanner.Scan() {
		if first {
			// Header row.
			first = false
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}

		gender := ""
		if parts := strings.SplitN(fields[2], "/", 2); len(parts) == 2 {
			switch parts[1] {
			case "M":
				gender = "male"
			case "F":
				gender = "female"
			}
		}

		voices = append(voices, Voice{
			ID:       fields[3],
			Name:     fields[3],
			Language: fields[1],
			Gender:   gender,
		})
	}
	return voices
}
