package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	GeminiBase      string
	GeminiKey       string
	GeminiModel     string
	GeminiRPS       int
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	FavoritesKey    string
	GeoIPBase       string
	LocationTimeout time.Duration
	DefaultRadiusKm float64
}

func Load() Config {
	// best-effort .env for local runs; real env always wins
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ":9100"),
		GeminiBase:      env("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiKey:       env("GEMINI_API_KEY", ""),
		GeminiModel:     env("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiRPS:       atoi("GEMINI_RPS", 2),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		FavoritesKey:    env("FAVORITES_KEY", "restoFinderFavorites"),
		GeoIPBase:       env("GEOIP_BASE_URL", ""),
		LocationTimeout: time.Duration(atoi("LOCATION_TIMEOUT_SECONDS", 10)) * time.Second,
		DefaultRadiusKm: atof("DEFAULT_RADIUS_KM", 1),
	}
	if c.GeminiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
