package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/benoitgrasset/restoFinderIA/internal/app"
	"github.com/benoitgrasset/restoFinderIA/internal/domain"
)

// Handlers is the presentational boundary: each endpoint maps onto one of
// the callbacks the UI layer consumes.
type Handlers struct {
	Search    *app.SearchService
	Favorites *app.FavoritesStore
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/state", h.getState)
	s.mux.Post("/v1/search", h.postSearch)
	s.mux.Post("/v1/locate", h.postLocate)
	s.mux.Post("/v1/filters/category", h.postCategory)
	s.mux.Post("/v1/filters/price", h.postPrice)
	s.mux.Post("/v1/favorites/{id}", h.toggleFavorite)
	s.mux.Post("/v1/view", h.postView)
	s.mux.Post("/v1/select", h.postSelect)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// ---- view DTOs ----

type restaurantDTO struct {
	domain.Restaurant
	Distance string `json:"distance,omitempty"`
	Favorite bool   `json:"favorite"`
}

type stateDTO struct {
	Address          string          `json:"address"`
	Radius           float64         `json:"radius"`
	Loading          bool            `json:"loading"`
	Error            string          `json:"error,omitempty"`
	Center           domain.Coords   `json:"center"`
	View             domain.ViewMode `json:"view"`
	Categories       []string        `json:"categories"`
	SelectedCategory string          `json:"selectedCategory,omitempty"`
	SelectedPrices   []string        `json:"selectedPrices"`
	SelectedID       string          `json:"selectedId,omitempty"`
	Restaurants      []restaurantDTO `json:"restaurants"`
	FavoriteCount    int             `json:"favoriteCount"`
}

func (h *Handlers) currentState() stateDTO {
	snap := h.Search.Snapshot()
	out := stateDTO{
		Address:          snap.State.Address,
		Radius:           snap.State.Radius,
		Loading:          snap.State.Loading,
		Error:            snap.State.Error,
		Center:           snap.State.Center,
		View:             snap.View,
		Categories:       snap.Categories,
		SelectedCategory: snap.SelectedCategory,
		SelectedPrices:   snap.SelectedPrices,
		SelectedID:       snap.SelectedID,
		Restaurants:      make([]restaurantDTO, 0, len(snap.Filtered)),
		FavoriteCount:    snap.FavoriteCount,
	}
	for _, r := range snap.Filtered {
		out.Restaurants = append(out.Restaurants, restaurantDTO{
			Restaurant: r,
			Distance:   h.Search.Distance(r),
			Favorite:   h.Favorites.Contains(r.ID),
		})
	}
	return out
}

// ---- endpoints ----

func (h *Handlers) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.currentState())
}

func (h *Handlers) postSearch(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Address string  `json:"address"`
		Radius  float64 `json:"radius"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON {address, radius}")
		return
	}
	if in.Address == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid address", "address must not be empty")
		return
	}
	if !domain.ValidRadius(in.Radius) {
		writeProblem(w, http.StatusBadRequest, "Invalid radius", "radius must be one of 0.5, 1, 2, 5")
		return
	}
	h.Search.Search(r.Context(), in.Address, in.Radius, nil)
	writeJSON(w, http.StatusOK, h.currentState())
}

func (h *Handlers) postLocate(w http.ResponseWriter, r *http.Request) {
	// the endpoint only exists for user-initiated lookups; the silent
	// startup variant runs in-process
	h.Search.LocateAndSearch(r.Context(), true)
	writeJSON(w, http.StatusOK, h.currentState())
}

func (h *Handlers) postCategory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Category == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON {category}")
		return
	}
	h.Search.ToggleCategory(in.Category)
	writeJSON(w, http.StatusOK, h.currentState())
}

func (h *Handlers) postPrice(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Price string `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Price == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON {price}")
		return
	}
	h.Search.TogglePrice(in.Price)
	writeJSON(w, http.StatusOK, h.currentState())
}

// toggleFavorite resolves the id against the active snapshot and the saved
// set, so unfavoriting works from the favorites view too.
func (h *Handlers) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	target, ok := h.lookup(id)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "no restaurant with this id in the current lists")
		return
	}
	added := h.Favorites.Toggle(r.Context(), target)
	writeJSON(w, http.StatusOK, map[string]any{"favorite": added, "favoriteCount": h.Favorites.Count()})
}

func (h *Handlers) lookup(id string) (domain.Restaurant, bool) {
	for _, r := range h.Search.Snapshot().State.Results {
		if r.ID == id {
			return r, true
		}
	}
	for _, r := range h.Favorites.List() {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Restaurant{}, false
}

func (h *Handlers) postView(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Mode domain.ViewMode `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil ||
		(in.Mode != domain.ViewSearch && in.Mode != domain.ViewFavorites) {
		writeProblem(w, http.StatusBadRequest, "Invalid body", `expected JSON {mode: "search"|"favorites"}`)
		return
	}
	h.Search.SetView(in.Mode)
	writeJSON(w, http.StatusOK, h.currentState())
}

func (h *Handlers) postSelect(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON {id}")
		return
	}
	h.Search.Select(in.ID)
	writeJSON(w, http.StatusOK, h.currentState())
}
