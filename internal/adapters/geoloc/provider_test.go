package geoloc_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benoitgrasset/restoFinderIA/internal/adapters/geoloc"
	"github.com/benoitgrasset/restoFinderIA/internal/domain"
)

func TestLocate_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`{"status":"success","lat":48.8566,"lon":2.3522}`))
	}))
	defer ts.Close()

	p := geoloc.New(ts.URL, time.Second)
	got, err := p.Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != (domain.Coords{Lat: 48.8566, Lng: 2.3522}) {
		t.Fatalf("unexpected coords: %+v", got)
	}
}

func TestLocate_UnconfiguredIsUnsupported(t *testing.T) {
	p := geoloc.New("", time.Second)
	_, err := p.Locate(context.Background())
	if !errors.Is(err, domain.ErrNoLocationPermission) {
		t.Fatalf("want ErrNoLocationPermission, got %v", err)
	}
}

func TestLocate_SlowLookupTimesOut(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{"lat":1,"lon":1}`))
	}))
	defer ts.Close()

	p := geoloc.New(ts.URL, 50*time.Millisecond)
	_, err := p.Locate(context.Background())
	if !errors.Is(err, domain.ErrLocationTimeout) {
		t.Fatalf("want ErrLocationTimeout, got %v", err)
	}
}

func TestLocate_FailedLookupIsDenied(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`{"status":"fail"}`))
	}))
	defer ts.Close()

	p := geoloc.New(ts.URL, time.Second)
	_, err := p.Locate(context.Background())
	if !errors.Is(err, domain.ErrNoLocationPermission) {
		t.Fatalf("want ErrNoLocationPermission, got %v", err)
	}
}
