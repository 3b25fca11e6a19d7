package mapsdk_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samirrijal/antipodes/internal/adapters/mapsdk"
	"github.com/samirrijal/antipodes/internal/adapters/nominatim"
	"github.com/samirrijal/antipodes/internal/core/domain"
)

func TestLoad(t *testing.T) {
	sdk, err := mapsdk.Load(context.Background(), mapsdk.Options{
		Libraries: []string{" Marker", "places", "places", "geometry"},
		Width:     640,
		Height:    480,
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if sdk.Primary == nil || sdk.Mirror == nil || sdk.Places == nil {
		t.Fatal("expected surfaces and searcher")
	}
	if sdk.Primary.ID() != domain.Primary || sdk.Mirror.ID() != domain.Mirror {
		t.Error("surfaces bound to the wrong maps")
	}
	if w, h := sdk.Mirror.Size(); w != 640 || h != 480 {
		t.Errorf("mirror size %dx%d", w, h)
	}
	want := []string{"geometry", "marker", "places"}
	if len(sdk.Libraries) != len(want) {
		t.Fatalf("libraries = %v, want %v", sdk.Libraries, want)
	}
	for i := range want {
		if sdk.Libraries[i] != want[i] {
			t.Errorf("libraries = %v, want %v", sdk.Libraries, want)
		}
	}
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name string
		opts mapsdk.Options
	}{
		{"missing marker", mapsdk.Options{Libraries: []string{"places"}, Width: 10, Height: 10}},
		{"missing places", mapsdk.Options{Libraries: []string{"marker"}, Width: 10, Height: 10}},
		{"unknown library", mapsdk.Options{Libraries: []string{"places", "marker", "drawing"}, Width: 10, Height: 10}},
		{"no size", mapsdk.Options{Libraries: []string{"places", "marker"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mapsdk.Load(context.Background(), tt.opts)
			if !errors.Is(err, domain.ErrSDKLoad) {
				t.Errorf("error = %v, want ErrSDKLoad", err)
			}
		})
	}
}

func TestLoad_StatusProbe(t *testing.T) {
	var gotKey string
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		_, _ = w.Write([]byte(`{"status":0,"message":"OK"}`))
	}))
	defer healthy.Close()

	_, err := mapsdk.Load(context.Background(), mapsdk.Options{
		APIKey:      "k-123",
		Libraries:   []string{"places", "marker"},
		Width:       10,
		Height:      10,
		Geocoder:    nominatim.Options{BaseURL: healthy.URL},
		CheckStatus: true,
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if gotKey != "k-123" {
		t.Errorf("api key not forwarded to geocoder, got %q", gotKey)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer down.Close()

	_, err = mapsdk.Load(context.Background(), mapsdk.Options{
		Libraries:   []string{"places", "marker"},
		Width:       10,
		Height:      10,
		Geocoder:    nominatim.Options{BaseURL: down.URL, RetryBackoff: time.Millisecond},
		CheckStatus: true,
	})
	if !errors.Is(err, domain.ErrSDKLoad) {
		t.Errorf("error = %v, want ErrSDKLoad", err)
	}
}
