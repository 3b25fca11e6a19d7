package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/antipodes/internal/core/domain"
	"github.com/samirrijal/antipodes/internal/core/usecases"
)

// --- Mock PlaceSearcher ---

type mockSearcher struct {
	searchFn func(ctx context.Context, query string, limit int) ([]domain.Place, error)
	calls    int
}

func (m *mockSearcher) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	m.calls++
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}

// --- Mock CacheService ---

type mockCache struct {
	data map[string][]byte
	ttl  map[string]int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}, ttl: map[string]int{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.data[key] = value
	m.ttl[key] = ttlSeconds
	return nil
}

// --- Tests ---

func TestSearchService_EmptyQuery(t *testing.T) {
	svc := usecases.NewSearchService(&mockSearcher{}, nil, 0, 5)
	if _, err := svc.Search(context.Background(), "   "); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestSearchService_NormalizesQueryAndLimit(t *testing.T) {
	searcher := &mockSearcher{
		searchFn: func(ctx context.Context, query string, limit int) ([]domain.Place, error) {
			if query != "Bilbao Spain" {
				t.Errorf("expected normalized query, got %q", query)
			}
			if limit != 5 {
				t.Errorf("expected limit clamped to 5, got %d", limit)
			}
			return []domain.Place{{Name: "Bilbao"}}, nil
		},
	}

	svc := usecases.NewSearchService(searcher, nil, 0, 999)
	places, err := svc.Search(context.Background(), "  Bilbao   Spain ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 1 || places[0].Name != "Bilbao" {
		t.Errorf("unexpected places %+v", places)
	}
}

func TestSearchService_ReadThroughCache(t *testing.T) {
	searcher := &mockSearcher{
		searchFn: func(ctx context.Context, query string, limit int) ([]domain.Place, error) {
			return []domain.Place{{
				Name:     "Santiago",
				Geometry: &domain.PlaceGeometry{Location: &domain.Coordinate{Lat: -33.4, Lng: -70.6}},
			}}, nil
		},
	}
	cache := newMockCache()
	svc := usecases.NewSearchService(searcher, cache, 300, 5)

	first, err := svc.Search(context.Background(), "Santiago")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Search(context.Background(), "santiago")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if searcher.calls != 1 {
		t.Errorf("expected searcher to be called once, got %d", searcher.calls)
	}
	if len(second) != 1 || second[0].Geometry == nil || *second[0].Geometry.Location != *first[0].Geometry.Location {
		t.Errorf("cached places differ: %+v", second)
	}
	if ttl := cache.ttl["places:search:santiago:5"]; ttl != 300 {
		t.Errorf("expected ttl 300, got %d", ttl)
	}
}

func TestSearchService_ProviderError(t *testing.T) {
	searcher := &mockSearcher{
		searchFn: func(ctx context.Context, query string, limit int) ([]domain.Place, error) {
			return nil, errors.New("upstream down")
		},
	}
	cache := newMockCache()
	svc := usecases.NewSearchService(searcher, cache, 300, 5)

	if _, err := svc.Search(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
	if len(cache.data) != 0 {
		t.Error("errors must not be cached")
	}
}
