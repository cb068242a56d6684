package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benoitgrasset/restoFinderIA/internal/domain"
)

func modelAnswer(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	})
	return string(b)
}

func TestSearch_RequestShape(t *testing.T) {
	var captured genRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.WriteHeader(200)
		_, _ = w.Write([]byte(modelAnswer("[]")))
	}))
	defer ts.Close()

	cl, err := New(ts.URL, "test-key", "gemini-2.5-flash", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	loc := domain.Coords{Lat: 48.85, Lng: 2.35}
	got, err := cl.Search(context.Background(), domain.SearchQuery{
		Address: "Ma position actuelle", Radius: 1, Location: &loc,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "[]" {
		t.Fatalf("unexpected answer text: %q", got)
	}

	if len(captured.Tools) != 1 || captured.Tools[0].GoogleMaps == nil {
		t.Fatalf("maps grounding tool missing: %+v", captured.Tools)
	}
	if captured.ToolConfig == nil ||
		captured.ToolConfig.RetrievalConfig.LatLng != (latLng{Latitude: 48.85, Longitude: 2.35}) {
		t.Fatalf("precision hint missing: %+v", captured.ToolConfig)
	}
	if captured.GenerationConfig.Temperature != 0.7 {
		t.Fatalf("unexpected temperature: %v", captured.GenerationConfig.Temperature)
	}
	prompt := captured.Contents[0].Parts[0].Text
	if !strings.Contains(prompt, "Latitude: 48.85") || !strings.Contains(prompt, "Rayon de recherche : 1 km") {
		t.Fatalf("prompt not built from query: %q", prompt)
	}
}

func TestSearch_NoHintOmitsToolConfig(t *testing.T) {
	var captured genRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.WriteHeader(200)
		_, _ = w.Write([]byte(modelAnswer("[]")))
	}))
	defer ts.Close()

	cl, _ := New(ts.URL, "test-key", "", 100)
	if _, err := cl.Search(context.Background(), domain.SearchQuery{Address: "Paris", Radius: 2}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if captured.ToolConfig != nil {
		t.Fatalf("toolConfig must be omitted without a precision hint: %+v", captured.ToolConfig)
	}
	if !strings.Contains(captured.Contents[0].Parts[0].Text, `l'adresse suivante : "Paris"`) {
		t.Fatalf("address not embedded: %q", captured.Contents[0].Parts[0].Text)
	}
}

func TestSearch_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_, _ = w.Write([]byte(modelAnswer("ok")))
		}
	}))
	defer ts.Close()

	cl, _ := New(ts.URL, "test-key", "", 100)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := cl.Search(ctx, domain.SearchQuery{Address: "Paris", Radius: 1})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "ok" {
		t.Fatalf("unexpected answer: %q", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestSearch_AuthFailureIsServiceUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(403)
		_, _ = w.Write([]byte(`{"error":"forbidden"}`))
	}))
	defer ts.Close()

	cl, _ := New(ts.URL, "test-key", "", 100)
	_, err := cl.Search(context.Background(), domain.SearchQuery{Address: "Paris", Radius: 1})
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("want ErrServiceUnavailable, got %v", err)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New("http://x", "", "", 1); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
