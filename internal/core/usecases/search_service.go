package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/antipodes/internal/core/domain"
	"github.com/samirrijal/antipodes/internal/core/ports"
	"github.com/samirrijal/antipodes/internal/pkg/metrics"
	"github.com/samirrijal/antipodes/internal/pkg/telemetry"
)

const maxSearchLimit = 20

// SearchService resolves search-box queries into places.
type SearchService struct {
	places   ports.PlaceSearcher
	cache    ports.CacheService
	cacheTTL int
	limit    int
	tracer   trace.Tracer
}

// NewSearchService creates a new SearchService. cache may be nil.
func NewSearchService(places ports.PlaceSearcher, cache ports.CacheService, cacheTTL, limit int) *SearchService {
	if limit <= 0 || limit > maxSearchLimit {
		limit = 5
	}
	return &SearchService{
		places:   places,
		cache:    cache,
		cacheTTL: cacheTTL,
		limit:    limit,
		tracer:   otel.Tracer(tracerName),
	}
}

// Search returns the places matching query.
func (s *SearchService) Search(ctx context.Context, query string) (_ []domain.Place, err error) {
	query = strings.Join(strings.Fields(query), " ")
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}

	ctx, span := s.tracer.Start(ctx, telemetry.SpanSearch, trace.WithAttributes(attribute.String(telemetry.AttrQuery, query)))
	start := time.Now()
	defer func() {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	// Try cache
	cacheKey := fmt.Sprintf("places:search:%s:%d", strings.ToLower(query), s.limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var places []domain.Place
			if err := json.Unmarshal(data, &places); err == nil {
				metrics.CacheHits.WithLabelValues("search").Inc()
				return places, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("search").Inc()
	}

	places, err := s.places.Search(ctx, query, s.limit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	span.SetAttributes(attribute.Int(telemetry.AttrPlaces, len(places)))

	if s.cache != nil && s.cacheTTL > 0 {
		if data, err := json.Marshal(places); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}

	return places, nil
}
