package mapsdk

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/samirrijal/antipodes/internal/adapters/mercator"
	"github.com/samirrijal/antipodes/internal/adapters/nominatim"
	"github.com/samirrijal/antipodes/internal/core/domain"
)

// Libraries the application cannot run without.
var requiredLibraries = []string{"places", "marker"}

var knownLibraries = map[string]bool{
	"core":     true,
	"maps":     true,
	"places":   true,
	"marker":   true,
	"geometry": true,
}

// Options configures Load.
type Options struct {
	APIKey    string
	Libraries []string
	Width     int
	Height    int
	Geocoder  nominatim.Options
	// CheckStatus probes the geocoder before returning.
	CheckStatus bool
}

// SDK is the loaded map toolkit: two map surfaces and a place searcher.
type SDK struct {
	Primary   *mercator.Surface
	Mirror    *mercator.Surface
	Places    *nominatim.Client
	Libraries []string
}

// Load validates the requested libraries and builds the map surfaces and the
// geocoder. Every failure wraps domain.ErrSDKLoad.
func Load(ctx context.Context, opts Options) (*SDK, error) {
	libs, err := resolveLibraries(opts.Libraries)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSDKLoad, err)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid map size %dx%d", domain.ErrSDKLoad, opts.Width, opts.Height)
	}

	geo := opts.Geocoder
	if geo.APIKey == "" {
		geo.APIKey = opts.APIKey
	}
	places := nominatim.NewClient(geo)

	if opts.CheckStatus {
		if err := places.Status(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrSDKLoad, err)
		}
	}

	slog.InfoContext(ctx, "map sdk loaded", "libraries", strings.Join(libs, ","), "size", fmt.Sprintf("%dx%d", opts.Width, opts.Height))
	return &SDK{
		Primary:   mercator.New(domain.Primary, opts.Width, opts.Height),
		Mirror:    mercator.New(domain.Mirror, opts.Width, opts.Height),
		Places:    places,
		Libraries: libs,
	}, nil
}

// resolveLibraries normalizes, deduplicates and checks the library list.
func resolveLibraries(requested []string) ([]string, error) {
	seen := make(map[string]bool, len(requested))
	var unknown []string
	for _, l := range requested {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" || seen[l] {
			continue
		}
		if !knownLibraries[l] {
			unknown = append(unknown, l)
			continue
		}
		seen[l] = true
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown libraries: %s", strings.Join(unknown, ", "))
	}

	var missing []string
	for _, r := range requiredLibraries {
		if !seen[r] {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required libraries: %s", strings.Join(missing, ", "))
	}

	libs := make([]string, 0, len(seen))
	for l := range seen {
		libs = append(libs, l)
	}
	sort.Strings(libs)
	return libs, nil
}
