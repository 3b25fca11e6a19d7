package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/samirrijal/antipodes/internal/adapters/mapsdk"
	natsadapter "github.com/samirrijal/antipodes/internal/adapters/nats"
	"github.com/samirrijal/antipodes/internal/adapters/nominatim"
	"github.com/samirrijal/antipodes/internal/adapters/timezone"
	"github.com/samirrijal/antipodes/internal/adapters/tui"
	"github.com/samirrijal/antipodes/internal/adapters/valkey"
	"github.com/samirrijal/antipodes/internal/core/domain"
	"github.com/samirrijal/antipodes/internal/core/ports"
	"github.com/samirrijal/antipodes/internal/core/usecases"
	"github.com/samirrijal/antipodes/internal/pkg/config"
	"github.com/samirrijal/antipodes/internal/pkg/logging"
	"github.com/samirrijal/antipodes/internal/pkg/metrics"
	"github.com/samirrijal/antipodes/internal/pkg/telemetry"
)

const serviceName = "antipodes"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "antipodes",
		Short: "Two maps, one showing the other side of the Earth",
		Long: `antipodes shows a map and, next to it, a mirror map centred on the
antipode of whatever the first one shows. Panning or zooming either map moves
the other; searching places markers on both.

Run without arguments for the interactive view.`,
		SilenceUsage: true,
		RunE:         runInteractive,
	}

	root.AddCommand(
		newPointCmd(),
		newViewportCmd(),
		newSearchCmd(),
		newWatchCmd(),
	)
	return root
}

// app holds the adapters shared by the commands that talk to backends.
type app struct {
	cfg       *config.Config
	cache     ports.CacheService
	publisher ports.EventPublisher
	closers   []func()
}

// setup loads configuration and connects the optional backends. With
// logToFile set, logs go to log.file instead of stderr, or nowhere when
// log.file is empty.
func setup(ctx context.Context, logToFile bool) (*app, error) {
	cfg, err := config.Load(serviceName)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	a := &app{cfg: cfg}

	w, closeLog, err := logWriter(cfg.Log.File, logToFile)
	if err != nil {
		return nil, err
	}
	if closeLog != nil {
		a.closers = append(a.closers, closeLog)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, w)

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			a.closers = append(a.closers, shutdown)
		}
	}

	// Cache
	if cfg.Valkey.Addr != "" {
		cache, err := valkey.New(ctx, cfg.Valkey.Addr, serviceName)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			a.cache = cache
			a.closers = append(a.closers, cache.Close)
		}
	}

	// NATS
	if cfg.NATS.URL != "" {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			a.publisher = pub
			a.closers = append(a.closers, pub.Close)
		}
	}

	return a, nil
}

// logWriter picks the log destination. The interactive UI owns the terminal,
// so without a log file its logs are dropped.
func logWriter(file string, toFile bool) (io.Writer, func(), error) {
	if !toFile {
		return os.Stderr, nil, nil
	}
	if file == "" {
		return io.Discard, nil, nil
	}
	f, err := logging.OpenFile(file)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// close exports metrics and releases backends in reverse order.
func (a *app) close() {
	if a.cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			slog.Warn("metrics export failed", "error", err)
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *app) geocoder() nominatim.Options {
	return nominatim.Options{
		BaseURL:   a.cfg.Nominatim.BaseURL,
		UserAgent: a.cfg.Nominatim.UserAgent,
		APIKey:    a.cfg.Maps.APIKey,
		Timeout:   secondsOf(a.cfg.Nominatim.TimeoutSeconds),
	}
}

func (a *app) searchService(places ports.PlaceSearcher) *usecases.SearchService {
	return usecases.NewSearchService(places, a.cache, a.cfg.Valkey.TTLSeconds, a.cfg.Nominatim.Limit)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// The terminal belongs to the UI.
	a, err := setup(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()
	cfg := a.cfg

	sdk, err := mapsdk.Load(ctx, mapsdk.Options{
		APIKey:      cfg.Maps.APIKey,
		Libraries:   cfg.Maps.Libraries,
		Width:       cfg.Maps.Width,
		Height:      cfg.Maps.Height,
		Geocoder:    a.geocoder(),
		CheckStatus: cfg.Nominatim.CheckStatus,
	})
	if err != nil {
		slog.Error("map sdk", "error", err)
		return err
	}

	var tz ports.TimezoneService
	if svc, err := timezone.NewService(); err != nil {
		slog.Warn("timezone lookup disabled", "error", err)
	} else {
		tz = svc
	}

	syncSvc := usecases.NewSyncService(usecases.NewSession(sdk.Primary, sdk.Mirror), a.publisher)

	startCtx, span := otel.Tracer(serviceName).Start(ctx, telemetry.SpanStartup)
	err = syncSvc.Open(startCtx, domain.Coordinate{Lat: cfg.Start.Lat, Lng: cfg.Start.Lng}, cfg.Start.Zoom)
	span.End()
	if err != nil {
		return err
	}

	model, err := tui.New(ctx,
		tui.Elements{Primary: sdk.Primary, Mirror: sdk.Mirror, Input: tui.NewSearchInput("type a place and press enter")},
		tui.Deps{Sync: syncSvc, Search: a.searchService(sdk.Places), Timezones: tz},
	)
	if err != nil {
		slog.Error("ui", "error", err)
		return err
	}

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	if m, ok := final.(*tui.Model); ok && m.Err() != nil {
		fmt.Fprintf(os.Stderr, "last error: %v\n", m.Err())
	}
	return nil
}
