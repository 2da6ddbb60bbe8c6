package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenTTSSynthesizeToFile(t *testing.T) {
	var gotReq ttsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tts" {
			t.Errorf("request path = %s, want /api/tts", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("request method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Write([]byte("RIFF-fake-wav-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	engine := NewOpenTTSEngine(server.URL, "coqui-tts:en_ljspeech", dir)

	path, err := engine.synthesizeToFile(context.Background(), "Xylophone", Options{}.withDefaults())
	if err != nil {
		t.Fatalf("synthesizeToFile() error = %v", err)
	}

	if gotReq.Text != "Xylophone" {
		t.Errorf("request text = %q, want Xylophone", gotReq.Text)
	}
	if gotReq.Voice != "coqui-tts:en_ljspeech" {
		t.Errorf("request voice = %q", gotReq.Voice)
	}
	if gotReq.Rate != 1 || gotReq.Pitch != 1 {
		t.Errorf("request rate/pitch = %v/%v, want 1/1", gotReq.Rate, gotReq.Pitch)
	}

	want := filepath.Join(dir, "word_xylophone.wav")
	if path != want {
		t.Errorf("cached path = %s, want %s", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "RIFF-fake-wav-bytes" {
		t.Errorf("cached audio = %q, err = %v", data, err)
	}
}

func TestOpenTTSReusesCachedAudio(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	engine := NewOpenTTSEngine(server.URL, "", t.TempDir())

	for i := 0; i < 2; i++ {
		if _, err := engine.synthesizeToFile(context.Background(), "cat", Options{}.withDefaults()); err != nil {
			t.Fatalf("synthesizeToFile() call %d error = %v", i+1, err)
		}
	}

	if requests != 1 {
		t.Errorf("server received %d requests, want 1 (second call should hit the cache)", requests)
	}
}

func TestOpenTTSErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "engine busy", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	engine := NewOpenTTSEngine(server.URL, "", t.TempDir())

	_, err := engine.synthesizeToFile(context.Background(), "cat", Options{}.withDefaults())
	if err == nil {
		t.Fatal("synthesizeToFile() succeeded on a 503 response")
	}
}

func TestOpenTTSVoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/voices" {
			t.Errorf("request path = %s, want /api/voices", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]Voice{
			"coqui-tts:en_ljspeech": {Name: "ljspeech", Language: "en", Gender: "female"},
		})
	}))
	defer server.Close()

	engine := NewOpenTTSEngine(server.URL, "", t.TempDir())

	voices, err := engine.Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices() error = %v", err)
	}
	if len(voices) != 1 {
		t.Fatalf("len(voices) = %d, want 1", len(voices))
	}
	if voices[0].ID != "coqui-tts:en_ljspeech" {
		t.Errorf("voice ID = %q, want the catalog key", voices[0].ID)
	}
}

func TestOpenTTSUnsupportedWithoutBaseURL(t *testing.T) {
	engine := NewOpenTTSEngine("", "", t.TempDir())

	if engine.IsSupported() {
		t.Error("IsSupported() = true without a base URL")
	}
	if err := engine.Speak(context.Background(), "cat", Options{}); err == nil {
		t.Error("Speak() on an unsupported engine succeeded")
	}
}
