package bulk

import (
	"context"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Remco28/fencer-schedules/pkg/parser"
)

// Prometheus metrics for bundle assembly.
var (
	ftlBundlesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ftl_bundles_total",
		Help: "Total pools-bundle requests by outcome",
	}, []string{"status"})

	ftlBundleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ftl_bundle_duration_seconds",
		Help:    "Wall time to assemble a complete pools bundle",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})
)

// Bundle is the aggregate state of one pool round: the identifier
// listing, every pool's parsed scoresheet, and the results records.
type Bundle struct {
	EventID string              `json:"event_id"`
	RoundID string              `json:"round_id"`
	PoolIDs []string            `json:"pool_ids"`
	Pools   []parser.PoolDetail `json:"pools"`
	Results []parser.PoolResult `json:"results"`
}

// PoolsBundle assembles the full bundle for a round. Pool pages are
// fetched under the bounded worker pool while the results feed is fetched
// concurrently. The fan-out is fail-fast: the first pool failure cancels
// outstanding work and returns a *PoolError naming the pool. Results that
// are not posted yet surface as *NotYetAvailableError.
func (f *Fetcher) PoolsBundle(ctx context.Context, eventID, roundID string, force bool) (*Bundle, error) {
	start := time.Now()
	bundle, err := f.poolsBundle(ctx, eventID, roundID, force, true)
	if err != nil {
		ftlBundlesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	ftlBundlesTotal.WithLabelValues("ok").Inc()
	ftlBundleDuration.Observe(time.Since(start).Seconds())
	return bundle, nil
}

func (f *Fetcher) poolsBundle(ctx context.Context, eventID, roundID string, force, includeResults bool) (*Bundle, error) {
	ids, err := f.FetchPoolIDs(ctx, eventID, roundID, force)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type resultsOut struct {
		records []parser.PoolResult
		err     error
	}
	resCh := make(chan resultsOut, 1)
	if includeResults {
		go func() {
			records, err := f.FetchPoolResults(ctx, eventID, roundID, force)
			resCh <- resultsOut{records: records, err: err}
		}()
	}

	n := len(ids.PoolIDs)
	type poolOut struct {
		detail *parser.PoolDetail
		err    *PoolError
	}
	queue := make(chan string, n)
	out := make(chan poolOut, n)

	workers := f.workers
	if workers > n {
		workers = n
	}
	for w := 0; w < workers; w++ {
		go func() {
			for poolID := range queue {
				// Stop picking up real work once the bundle is doomed.
				if ctx.Err() != nil {
					out <- poolOut{err: &PoolError{PoolID: poolID, Err: ctx.Err()}}
					continue
				}
				detail, err := f.FetchPoolDetail(ctx, eventID, roundID, poolID, force)
				if err != nil {
					out <- poolOut{err: &PoolError{PoolID: poolID, Err: err}}
					continue
				}
				out <- poolOut{detail: detail}
			}
		}()
	}

	for _, poolID := range ids.PoolIDs {
		queue <- poolID
	}
	close(queue)

	byID := make(map[string]*parser.PoolDetail, n)
	var firstErr *PoolError
	for i := 0; i < n; i++ {
		o := <-out
		if o.err != nil {
			if firstErr == nil {
				firstErr = o.err
				cancel()
			}
			continue
		}
		byID[o.detail.PoolID] = o.detail
	}
	if firstErr != nil {
		f.logger.Warn().
			Str("event_id", eventID).
			Str("round_id", roundID).
			Str("pool_id", firstErr.PoolID).
			Err(firstErr.Err).
			Msg("Bundle aborted on pool failure")
		return nil, firstErr
	}

	// Assemble by pool-id key so concurrent completion order never leaks
	// into output order.
	pools := make([]parser.PoolDetail, 0, n)
	for _, poolID := range ids.PoolIDs {
		if detail, ok := byID[poolID]; ok {
			pools = append(pools, *detail)
		}
	}
	sort.SliceStable(pools, func(i, j int) bool {
		return pools[i].PoolNumber < pools[j].PoolNumber
	})

	var results []parser.PoolResult
	if includeResults {
		ro := <-resCh
		if ro.err != nil {
			return nil, ro.err
		}
		results = ro.records
	}

	f.logger.Info().
		Str("event_id", eventID).
		Str("round_id", roundID).
		Int("pools", len(pools)).
		Int("results", len(results)).
		Msg("Bundle assembled")

	return &Bundle{
		EventID: eventID,
		RoundID: roundID,
		PoolIDs: ids.PoolIDs,
		Pools:   pools,
		Results: results,
	}, nil
}
