package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	natsadapter "github.com/samirrijal/antipodes/internal/adapters/nats"
	"github.com/samirrijal/antipodes/internal/adapters/nominatim"
	"github.com/samirrijal/antipodes/internal/core/domain"
	"github.com/samirrijal/antipodes/internal/core/usecases"
)

func newPointCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "point LAT LNG",
		Short:   "Print the antipode of a coordinate",
		Example: "  antipodes point -- -33.4265 -70.6656",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			c := domain.Coordinate{Lat: v[0], Lng: v[1]}
			a, err := usecases.ComputeAntipode(c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", c, a)
			return nil
		},
	}
}

func newViewportCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "viewport NORTH SOUTH EAST WEST",
		Short:   "Print the antipodal viewport of a bounding box",
		Example: "  antipodes viewport 15 5 15 5",
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			in := domain.Viewport{North: v[0], South: v[1], East: v[2], West: v[3]}
			out, err := usecases.ComputeViewportAntipode(&in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", in, out)
			return nil
		},
	}
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search places and print each with its antipode",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx, false)
			if err != nil {
				return err
			}
			defer a.close()

			svc := a.searchService(nominatim.NewClient(a.geocoder()))
			places, err := svc.Search(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(places) == 0 {
				fmt.Fprintln(out, "no places found")
				return nil
			}
			for _, p := range places {
				fmt.Fprintln(out, describePlace(p))
			}
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream sync and search records published by running sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx, false)
			if err != nil {
				return err
			}
			defer a.close()
			if a.cfg.NATS.URL == "" {
				return fmt.Errorf("watch: nats.url is not configured")
			}

			sub, err := natsadapter.NewSubscriber(a.cfg.NATS.URL, a.cfg.NATS.SubjectPrefix)
			if err != nil {
				return err
			}
			defer sub.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			if err := sub.SubscribeSync(ctx, func(_ context.Context, rec *domain.SyncRecord) error {
				return enc.Encode(map[string]any{"type": "sync", "record": rec})
			}); err != nil {
				return err
			}
			if err := sub.SubscribeSearch(ctx, func(_ context.Context, rec *domain.SearchRecord) error {
				return enc.Encode(map[string]any{"type": "search", "record": rec})
			}); err != nil {
				return err
			}

			<-ctx.Done()
			return nil
		},
	}
}

func describePlace(p domain.Place) string {
	title := p.Title()
	switch {
	case p.Geometry == nil:
		return fmt.Sprintf("%s: no geometry", title)
	case p.Geometry.Location == nil:
		return fmt.Sprintf("%s: no location", title)
	}

	a, err := usecases.ComputeAntipode(*p.Geometry.Location)
	if err != nil {
		return fmt.Sprintf("%s: %v", title, err)
	}
	line := fmt.Sprintf("%s: %s -> %s", title, p.Geometry.Location, a)
	if vp := p.Geometry.Viewport; vp != nil {
		if av, err := usecases.ComputeViewportAntipode(vp); err == nil {
			line += fmt.Sprintf("\n  viewport %s -> %s", vp, av)
		}
	}
	return line
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %q is not a number", i+1, s)
		}
		out[i] = f
	}
	return out, nil
}

func secondsOf(n int) time.Duration { return time.Duration(n) * time.Second }
