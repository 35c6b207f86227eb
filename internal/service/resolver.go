package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"stockpulse/internal/models"
	"stockpulse/internal/repository"
)

// Resolver answers free-text security searches. Local matches win; only a
// local miss reaches the ingestion pipeline, and identical in-flight
// queries coalesce into a single upstream call.
type Resolver struct {
	Store  repository.Store
	Ingest *IngestService
	Logger *zap.Logger

	// CoalesceTTL evicts stuck in-flight entries; duplicates arriving
	// after the TTL trigger a fresh ingestion instead of waiting forever.
	CoalesceTTL time.Duration

	mu       sync.Mutex
	inflight map[string]*inflightIngest
}

type inflightIngest struct {
	done     chan struct{}
	started  time.Time
	security *models.Security
	err      error
}

// Resolve searches locally first and falls back to first-time ingestion.
// An upstream miss or adapter failure yields an empty result set, never
// an error the caller must branch on; the search contract is "whatever
// could be established".
func (r *Resolver) Resolve(ctx context.Context, query string, page repository.PageParams) ([]models.Security, int64, error) {
	items, total, err := r.Store.SearchSecurities(ctx, query, page)
	if err != nil {
		return nil, 0, err
	}
	if total > 0 {
		return items, total, nil
	}

	security, err := r.ingestCoalesced(ctx, query)
	if err != nil {
		if !errors.Is(err, ErrTickerNotFound) {
			r.log().Warn("search-triggered ingestion failed", zap.String("query", query), zap.Error(err))
		}
		return []models.Security{}, 0, nil
	}
	return []models.Security{*security}, 1, nil
}

// ingestCoalesced runs at most one ingestion per normalized query at a
// time. The first caller owns the call; duplicates wait on its result.
func (r *Resolver) ingestCoalesced(ctx context.Context, query string) (*models.Security, error) {
	key := normalizeQuery(query)

	r.mu.Lock()
	if r.inflight == nil {
		r.inflight = map[string]*inflightIngest{}
	}
	if call, ok := r.inflight[key]; ok && !r.expired(call) {
		r.mu.Unlock()
		select {
		case <-call.done:
			return call.security, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := &inflightIngest{done: make(chan struct{}), started: time.Now()}
	r.inflight[key] = call
	r.mu.Unlock()

	call.security, call.err = r.Ingest.Ingest(ctx, query)
	close(call.done)

	r.mu.Lock()
	if r.inflight[key] == call {
		delete(r.inflight, key)
	}
	r.mu.Unlock()

	return call.security, call.err
}

func (r *Resolver) expired(call *inflightIngest) bool {
	ttl := r.CoalesceTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return time.Since(call.started) > ttl
}

func (r *Resolver) log() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
