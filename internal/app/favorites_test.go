package app

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/benoitgrasset/restoFinderIA/internal/domain"
)

// ---- fakes ----

type fakeKV struct {
	data    map[string]string
	failSet bool
	sets    int
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Set(ctx context.Context, key, value string) error {
	f.sets++
	if f.failSet {
		return errors.New("kv write refused")
	}
	if f.data == nil {
		f.data = map[string]string{}
	}
	f.data[key] = value
	return nil
}

// ---- tests ----

func TestFavorites_ToggleTwiceRestoresCollection(t *testing.T) {
	kv := &fakeKV{}
	s := NewFavoritesStore(kv, "favs")
	ctx := context.Background()

	a := domain.Restaurant{ID: "a", Name: "A"}
	b := domain.Restaurant{ID: "b", Name: "B"}
	for _, r := range []domain.Restaurant{a, b} {
		if !s.Toggle(ctx, r) {
			t.Fatalf("first toggle of %s should add", r.ID)
		}
	}
	before := s.List()

	// add-then-remove of a new entry cancels out exactly
	x := domain.Restaurant{ID: "x", Name: "X"}
	if !s.Toggle(ctx, x) {
		t.Fatalf("toggle of new entry should add")
	}
	if s.Toggle(ctx, x) {
		t.Fatalf("second toggle should remove")
	}
	if got := s.List(); !reflect.DeepEqual(got, before) {
		t.Fatalf("double toggle must restore exact content and order: %v vs %v", got, before)
	}
	if got := pluckIDs(before); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("insertion order lost: %v", got)
	}
}

func TestFavorites_EveryMutationRepersists(t *testing.T) {
	kv := &fakeKV{}
	s := NewFavoritesStore(kv, "favs")
	ctx := context.Background()

	s.Toggle(ctx, domain.Restaurant{ID: "a"})
	s.Toggle(ctx, domain.Restaurant{ID: "b"})
	s.Toggle(ctx, domain.Restaurant{ID: "a"})
	if kv.sets != 3 {
		t.Fatalf("expected one persist per mutation, got %d", kv.sets)
	}

	var persisted []domain.Restaurant
	if err := json.Unmarshal([]byte(kv.data["favs"]), &persisted); err != nil {
		t.Fatalf("bad blob: %v", err)
	}
	if len(persisted) != 1 || persisted[0].ID != "b" {
		t.Fatalf("unexpected persisted set: %v", persisted)
	}
}

func TestFavorites_PersistFailureIsSwallowed(t *testing.T) {
	kv := &fakeKV{failSet: true}
	s := NewFavoritesStore(kv, "favs")

	if !s.Toggle(context.Background(), domain.Restaurant{ID: "a"}) {
		t.Fatalf("toggle should still succeed in memory")
	}
	if !s.Contains("a") {
		t.Fatalf("in-memory mutation must stand despite persist failure")
	}
}

func TestFavorites_LoadRoundTrip(t *testing.T) {
	kv := &fakeKV{}
	first := NewFavoritesStore(kv, "favs")
	ctx := context.Background()
	first.Toggle(ctx, domain.Restaurant{ID: "a", Name: "A"})
	first.Toggle(ctx, domain.Restaurant{ID: "b", Name: "B"})

	second := NewFavoritesStore(kv, "favs")
	second.Load(ctx)
	if got := pluckIDs(second.List()); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("round trip lost data: %v", got)
	}
}

func TestFavorites_CorruptBlobResetsSilently(t *testing.T) {
	kv := &fakeKV{data: map[string]string{"favs": "{not json"}}
	s := NewFavoritesStore(kv, "favs")
	s.Load(context.Background())
	if s.Count() != 0 {
		t.Fatalf("corrupt blob must yield an empty set")
	}
}

func pluckIDs(rs []domain.Restaurant) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}
