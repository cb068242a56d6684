package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/benoitgrasset/restoFinderIA/internal/adapters/gemini"
	"github.com/benoitgrasset/restoFinderIA/internal/adapters/geoloc"
	server "github.com/benoitgrasset/restoFinderIA/internal/adapters/http_server"
	"github.com/benoitgrasset/restoFinderIA/internal/adapters/observability"
	redisad "github.com/benoitgrasset/restoFinderIA/internal/adapters/redis"
	"github.com/benoitgrasset/restoFinderIA/internal/app"
	"github.com/benoitgrasset/restoFinderIA/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	kv := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	favorites := app.NewFavoritesStore(kv, cfg.FavoritesKey)
	favorites.Load(context.Background())
	log.Info().Int("favorites", favorites.Count()).Msg("favorites loaded")

	client, err := gemini.New(cfg.GeminiBase, cfg.GeminiKey, cfg.GeminiModel, cfg.GeminiRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Gemini client")
	}
	locator := geoloc.New(cfg.GeoIPBase, cfg.LocationTimeout)
	search := app.NewSearchService(client, locator, favorites, cfg.DefaultRadiusKm)

	// best-effort startup geolocation; failures stay silent
	go search.LocateAndSearch(context.Background(), false)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Search: search, Favorites: favorites})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
