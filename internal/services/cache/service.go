// Package cache implements the TTL gate in front of the document fetch. One
// slot holds the last fetched document; reads within the TTL are served from
// the slot, and a failed refresh falls back to the stale copy rather than
// surfacing an error.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
)

// ErrUnavailable is returned when no document has ever been fetched and the
// fetch fails. Handlers translate it to a 503 response.
var ErrUnavailable = errors.New("compatibility document unavailable")

// FetchFunc loads the current document bytes from the backing store.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Service is the single-slot document cache.
type Service struct {
	mu        sync.Mutex
	fetch     FetchFunc
	ttl       time.Duration
	logger    arbor.ILogger
	data      json.RawMessage
	fetchedAt time.Time
	now       func() time.Time
}

// NewService builds a cache around fetch with the given TTL.
func NewService(fetch FetchFunc, ttl time.Duration, logger arbor.ILogger) *Service {
	return &Service{
		fetch:  fetch,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the cached document, refreshing it when the slot is empty or
// older than the TTL. A failed refresh serves the previous copy; only a
// failure with an empty slot returns ErrUnavailable.
func (s *Service) Get(ctx context.Context) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data != nil && s.now().Sub(s.fetchedAt) < s.ttl {
		return s.data, nil
	}

	data, err := s.fetch(ctx)
	if err != nil {
		if s.data != nil {
			s.logger.Warn().Err(err).
				Float64("age_seconds", s.now().Sub(s.fetchedAt).Seconds()).
				Msg("Refresh failed; serving stale document")
			return s.data, nil
		}
		s.logger.Error().Err(err).Msg("Fetch failed with no cached document")
		return nil, ErrUnavailable
	}

	s.data = data
	s.fetchedAt = s.now()
	return s.data, nil
}

// Clear empties the slot so the next Get refetches.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	s.fetchedAt = time.Time{}
	s.logger.Info().Msg("Cache cleared")
}

// Age returns the time since the cached document was fetched, and whether a
// document is cached at all.
func (s *Service) Age() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return 0, false
	}
	return s.now().Sub(s.fetchedAt), true
}

// TTL returns the configured freshness window.
func (s *Service) TTL() time.Duration {
	return s.ttl
}
