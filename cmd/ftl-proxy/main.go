// ftl-proxy serves parsed tournament state over HTTP: pool bundles,
// fencer search, and elimination brackets, backed by the shared cache.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Remco28/fencer-schedules/pkg/bulk"
	"github.com/Remco28/fencer-schedules/pkg/cache"
	"github.com/Remco28/fencer-schedules/pkg/client"
	"github.com/Remco28/fencer-schedules/pkg/logging"
	"github.com/Remco28/fencer-schedules/pkg/parser"
)

func main() {
	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "") == "true",
		Output: os.Stderr,
	})

	port := getEnv("PORT", "8080")

	store, err := buildStore(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize cache store")
	}

	ftlClient, err := client.New(client.Config{
		BaseURL:     getEnv("FTL_BASE_URL", ""),
		UserAgent:   getEnv("USER_AGENT", ""),
		Timeout:     getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		MaxAttempts: getEnvInt("MAX_ATTEMPTS", 3),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create upstream client")
	}

	fetcher, err := bulk.New(bulk.Config{
		Client:  ftlClient,
		Store:   store,
		Workers: getEnvInt("WORKERS", bulk.DefaultWorkers),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create fetcher")
	}

	addr := ":" + port
	logger.Info().Str("addr", addr).Msg("Starting ftl-proxy")

	if err := http.ListenAndServe(addr, newMux(fetcher)); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// buildStore returns a Redis-backed store when REDIS_URL is set, otherwise
// the in-memory default.
func buildStore(logger zerolog.Logger) (cache.Store, error) {
	ttl := getEnvDuration("CACHE_TTL", cache.DefaultTTL)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return cache.NewMemoryStore(ttl), nil
	}

	redisClient := redis.NewClient(&redis.Options{Addr: redisURL})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	logger.Info().Str("redis", redisURL).Msg("Connected to Redis")

	return cache.NewRedisStore(redisClient, ttl)
}

func newMux(fetcher *bulk.Fetcher) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/pools/{eventID}/{roundID}", poolsHandler(fetcher))
	mux.HandleFunc("GET /api/pools/{eventID}/{roundID}/fencer", searchHandler(fetcher))
	mux.HandleFunc("GET /api/de/{eventID}/{roundID}", tableauHandler(fetcher))
	return mux
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func poolsHandler(fetcher *bulk.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, roundID, ok := pathIDs(w, r)
		if !ok {
			return
		}

		bundle, err := fetcher.PoolsBundle(r.Context(), eventID, roundID, forceRefresh(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bundle)
	}
}

func searchHandler(fetcher *bulk.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, roundID, ok := pathIDs(w, r)
		if !ok {
			return
		}

		name := r.URL.Query().Get("name")
		if name == "" {
			writeReason(w, http.StatusBadRequest, "invalid_request", "name query parameter is required")
			return
		}

		result, err := fetcher.SearchFencer(r.Context(), eventID, roundID, name, forceRefresh(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func tableauHandler(fetcher *bulk.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, roundID, ok := pathIDs(w, r)
		if !ok {
			return
		}

		tableau, err := fetcher.FetchTableau(r.Context(), eventID, roundID, forceRefresh(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tableau)
	}
}

var idRe = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

func pathIDs(w http.ResponseWriter, r *http.Request) (eventID, roundID string, ok bool) {
	eventID = r.PathValue("eventID")
	roundID = r.PathValue("roundID")
	if !idRe.MatchString(eventID) || !idRe.MatchString(roundID) {
		writeReason(w, http.StatusBadRequest, "invalid_request", "event and round ids must be alphanumeric")
		return "", "", false
	}
	return eventID, roundID, true
}

func forceRefresh(r *http.Request) bool {
	v := r.URL.Query().Get("force_refresh")
	return v == "true" || v == "1"
}

// writeError maps the error taxonomy onto response statuses: transport
// failures are gateway problems, parse and validation failures are ours,
// and not-yet-posted results are a retryable 425.
func writeError(w http.ResponseWriter, err error) {
	var (
		notYet       *bulk.NotYetAvailableError
		parseErr     *parser.ParseError
		valErr       *parser.ValidationError
		transportErr *client.TransportError
		statusErr    *client.StatusError
	)

	switch {
	case errors.As(err, &notYet):
		writeReason(w, http.StatusTooEarly, "not_yet_available", err.Error())
	case errors.As(err, &parseErr):
		writeReason(w, http.StatusInternalServerError, "parse_failure", err.Error())
	case errors.As(err, &valErr):
		writeReason(w, http.StatusInternalServerError, "validation_failure", err.Error())
	case errors.As(err, &transportErr):
		if errors.Is(err, context.DeadlineExceeded) {
			writeReason(w, http.StatusGatewayTimeout, "gateway_timeout", err.Error())
			return
		}
		writeReason(w, http.StatusBadGateway, "upstream_unavailable", err.Error())
	case errors.As(err, &statusErr):
		writeReason(w, http.StatusBadGateway, "upstream_unavailable", err.Error())
	default:
		writeReason(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func writeReason(w http.ResponseWriter, status int, reason, detail string) {
	writeJSON(w, status, map[string]string{
		"reason": reason,
		"error":  detail,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
