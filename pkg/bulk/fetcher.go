// Package bulk orchestrates the cache-or-fetch read paths: single payload
// operations, the parallel pools bundle, the bracket, and fencer search.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Remco28/fencer-schedules/pkg/cache"
	"github.com/Remco28/fencer-schedules/pkg/client"
	"github.com/Remco28/fencer-schedules/pkg/parser"
)

// DefaultWorkers bounds the per-pool fan-out.
const DefaultWorkers = 8

// Config holds the orchestrator configuration.
type Config struct {
	// Client is the upstream transport (required).
	Client *client.Client

	// Store is the payload cache. Defaults to an in-memory store with
	// cache.DefaultTTL.
	Store cache.Store

	// Workers bounds concurrent pool fetches. Defaults to DefaultWorkers.
	Workers int
}

// Fetcher resolves parsed tournament state through the cache and the
// upstream transport.
type Fetcher struct {
	client  *client.Client
	store   cache.Store
	workers int
	logger  zerolog.Logger
}

// New creates a Fetcher.
func New(cfg Config) (*Fetcher, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if cfg.Store == nil {
		cfg.Store = cache.NewMemoryStore(cache.DefaultTTL)
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be >= 1 (got %d)", cfg.Workers)
	}

	return &Fetcher{
		client:  cfg.Client,
		store:   cfg.Store,
		workers: cfg.Workers,
		logger:  log.With().Str("component", "bulk-fetcher").Logger(),
	}, nil
}

// fetchRaw returns the payload for key, from the cache unless force is
// set or the entry is missing/expired. Fresh payloads are written back;
// a cache write failure is logged but never fails the read.
func (f *Fetcher) fetchRaw(ctx context.Context, key cache.Key, path string, force bool) ([]byte, error) {
	if !force {
		entry, err := f.store.Get(ctx, key)
		if err == nil {
			f.logger.Debug().Str("key", key.String()).Msg("Cache hit")
			return entry.Body, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			f.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache read failed")
		}
	}

	body, err := f.client.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	entry := &cache.Entry{Body: body, FetchedAt: time.Now()}
	if err := f.store.Set(ctx, key, entry); err != nil {
		f.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache write failed")
	}
	return body, nil
}

// FetchPoolIDs resolves the round's pool identifier listing.
func (f *Fetcher) FetchPoolIDs(ctx context.Context, eventID, roundID string, force bool) (*parser.PoolIDList, error) {
	key := cache.Key{Kind: cache.KindPoolIDs, EventID: eventID, RoundID: roundID}
	body, err := f.fetchRaw(ctx, key, client.PoolScoresPath(eventID, roundID), force)
	if err != nil {
		return nil, err
	}
	return parser.ParsePoolIDs(string(body), roundID)
}

// FetchPoolDetail resolves a single pool's parsed scoresheet.
func (f *Fetcher) FetchPoolDetail(ctx context.Context, eventID, roundID, poolID string, force bool) (*parser.PoolDetail, error) {
	key := cache.Key{Kind: cache.KindPoolHTML, EventID: eventID, RoundID: roundID, PoolID: poolID}
	body, err := f.fetchRaw(ctx, key, client.PoolDetailPath(eventID, roundID, poolID), force)
	if err != nil {
		return nil, err
	}
	return parser.ParsePoolDetail(string(body), poolID)
}

// FetchPoolResults resolves the round's results records. Before the round
// closes the upstream answers with a 4xx or an empty array; both surface
// as *NotYetAvailableError.
func (f *Fetcher) FetchPoolResults(ctx context.Context, eventID, roundID string, force bool) ([]parser.PoolResult, error) {
	key := cache.Key{Kind: cache.KindPoolResults, EventID: eventID, RoundID: roundID}
	body, err := f.fetchRaw(ctx, key, client.PoolResultsPath(eventID, roundID), force)
	if err != nil {
		var statusErr *client.StatusError
		if errors.As(err, &statusErr) && statusErr.ClientError() {
			return nil, &NotYetAvailableError{EventID: eventID, RoundID: roundID, Err: err}
		}
		return nil, err
	}

	results, err := parser.ParsePoolResults(body)
	if err != nil {
		if errors.Is(err, parser.ErrEmptyResults) {
			return nil, &NotYetAvailableError{EventID: eventID, RoundID: roundID, Err: err}
		}
		return nil, err
	}
	return results, nil
}

// FetchTableau resolves the parsed elimination bracket for a DE round.
func (f *Fetcher) FetchTableau(ctx context.Context, eventID, roundID string, force bool) (*parser.Tableau, error) {
	key := cache.Key{Kind: cache.KindTableau, EventID: eventID, RoundID: roundID}
	body, err := f.fetchRaw(ctx, key, client.TableauPath(eventID, roundID), force)
	if err != nil {
		return nil, err
	}
	return parser.ParseTableau(string(body), eventID, roundID)
}
