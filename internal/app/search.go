package app

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/benoitgrasset/restoFinderIA/internal/domain"
	"github.com/benoitgrasset/restoFinderIA/internal/geo"
)

// User-facing strings. The product UI is French.
const (
	msgSearchFailed   = "Impossible de récupérer les restaurants. Veuillez réessayer."
	msgLocationFailed = "Impossible de vous géolocaliser. Vérifiez vos permissions."

	// CurrentLocationLabel is the sentinel address meaning the search ran on
	// device coordinates, not on a geocoded free-text address.
	CurrentLocationLabel = "Ma position actuelle"
)

// SearchService owns the top-level search state machine plus the view mode,
// filter selections and card selection. All state is read through Snapshot,
// which is atomic with respect to mutations.
type SearchService struct {
	client        domain.SearchClient
	locator       domain.LocationProvider
	favorites     *FavoritesStore
	defaultRadius float64

	mu               sync.Mutex
	seq              uint64 // last issued request, for stale-response fencing
	state            domain.SearchState
	view             domain.ViewMode
	selectedCategory string
	selectedPrices   map[string]bool
	selectedID       string
}

func NewSearchService(client domain.SearchClient, locator domain.LocationProvider, favorites *FavoritesStore, defaultRadiusKm float64) *SearchService {
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = 1
	}
	return &SearchService{
		client:         client,
		locator:        locator,
		favorites:      favorites,
		defaultRadius:  defaultRadiusKm,
		state:          domain.SearchState{Radius: defaultRadiusKm, Center: domain.DefaultCenter},
		view:           domain.ViewSearch,
		selectedPrices: map[string]bool{},
	}
}

// Search issues a new search: the state moves to loading immediately, the
// previous error, the filter selections, the card selection and the favorites
// view are all cleared, then the outcome of the upstream call is applied.
// Each request carries a sequence number; a completion that is no longer the
// latest issued request is discarded, so a slow stale response can never
// overwrite newer state. On failure the previous results are left untouched
// and a fixed user-facing message is set.
func (s *SearchService) Search(ctx context.Context, address string, radius float64, loc *domain.Coords) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state.Address = address
	s.state.Radius = radius
	s.state.Loading = true
	s.state.Error = ""
	s.selectedCategory = ""
	s.selectedPrices = map[string]bool{}
	s.selectedID = ""
	s.view = domain.ViewSearch
	s.mu.Unlock()

	raw, err := s.client.Search(ctx, domain.SearchQuery{Address: address, Radius: radius, Location: loc})
	if err != nil {
		log.Error().Err(err).Str("address", address).Float64("radius", radius).Msg("search call failed")
		s.fail(seq)
		return
	}
	results, center, err := parseSearchResponse(raw, loc)
	if err != nil {
		s.fail(seq)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		log.Debug().Uint64("seq", seq).Uint64("latest", s.seq).Msg("discarding stale search response")
		return
	}
	s.state.Loading = false
	s.state.Results = results
	s.state.Center = center
	log.Info().Int("results", len(results)).Str("address", address).Msg("search ok")
}

func (s *SearchService) fail(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return
	}
	s.state.Loading = false
	s.state.Error = msgSearchFailed
}

// LocateAndSearch resolves the device position and, on success, searches
// around it with the default radius under the current-location label. A
// location failure surfaces to the user only when the request was user
// initiated; the best-effort startup call stays silent.
func (s *SearchService) LocateAndSearch(ctx context.Context, userInitiated bool) {
	if userInitiated {
		s.mu.Lock()
		s.state.Loading = true
		s.state.Error = ""
		s.mu.Unlock()
	}

	loc, err := s.locator.Locate(ctx)
	if err != nil {
		log.Info().Err(err).Bool("user_initiated", userInitiated).Msg("geolocation failed")
		s.mu.Lock()
		s.state.Loading = false
		if userInitiated {
			s.state.Error = msgLocationFailed
		}
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.state.Center = loc
	s.mu.Unlock()
	s.Search(ctx, CurrentLocationLabel, s.defaultRadius, &loc)
}

// SetView switches between the search results and the favorites list.
func (s *SearchService) SetView(v domain.ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
}

// ToggleCategory selects a cuisine; reselecting the active one clears it.
func (s *SearchService) ToggleCategory(c string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedCategory == c {
		s.selectedCategory = ""
		return
	}
	s.selectedCategory = c
}

// TogglePrice flips membership of p in the selected price tiers.
func (s *SearchService) TogglePrice(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedPrices[p] {
		delete(s.selectedPrices, p)
		return
	}
	s.selectedPrices[p] = true
}

// Select marks a restaurant card/marker as active ("" clears).
func (s *SearchService) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = id
}

// Snapshot is the atomic view handed to the presentation layer: the raw
// search state plus every derived value the list and map need.
type Snapshot struct {
	State            domain.SearchState
	View             domain.ViewMode
	SelectedCategory string
	SelectedPrices   []string
	SelectedID       string
	Categories       []string
	Filtered         []domain.Restaurant
	FavoriteCount    int
}

func (s *SearchService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Results = make([]domain.Restaurant, len(s.state.Results))
	copy(st.Results, s.state.Results)

	active := st.Results
	if s.view == domain.ViewFavorites {
		active = s.favorites.List()
	}

	prices := make([]string, 0, len(s.selectedPrices))
	for p := range s.selectedPrices {
		prices = append(prices, p)
	}
	sort.Strings(prices)

	return Snapshot{
		State:            st,
		View:             s.view,
		SelectedCategory: s.selectedCategory,
		SelectedPrices:   prices,
		SelectedID:       s.selectedID,
		Categories:       Categories(active),
		Filtered:         ApplyFilters(active, s.selectedCategory, s.selectedPrices),
		FavoriteCount:    s.favorites.Count(),
	}
}

// Distance renders the display distance from the current map center to r.
func (s *SearchService) Distance(r domain.Restaurant) string {
	s.mu.Lock()
	center := s.state.Center
	s.mu.Unlock()
	p := r.Coords()
	return geo.FormatDistance(&center, &p)
}
