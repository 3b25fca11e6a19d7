package valkey

import (
	"testing"

	"github.com/samirrijal/antipodes/internal/core/ports"
)

var _ ports.CacheService = (*Cache)(nil)

func TestCache_Key(t *testing.T) {
	tests := []struct {
		prefix string
		key    string
		want   string
	}{
		{"antipodes", "places:search:bilbao:5", "antipodes:places:search:bilbao:5"},
		{"", "places:search:bilbao:5", "places:search:bilbao:5"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			c := &Cache{prefix: tt.prefix}
			if got := c.key(tt.key); got != tt.want {
				t.Errorf("key(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
