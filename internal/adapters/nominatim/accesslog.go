package nominatim

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// accessLog is an http.RoundTripper that logs every geocoder request with
// method, path, status and latency. The api key never reaches the log.
type accessLog struct {
	next http.RoundTripper
}

func (t accessLog) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	latency := time.Since(start)

	attrs := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("host", req.URL.Host),
		slog.String("path", req.URL.Path),
		slog.String("latency", latency.String()),
	}

	level := slog.LevelDebug
	switch {
	case err != nil:
		attrs = append(attrs, slog.String("error", err.Error()))
		level = slog.LevelError
	case resp.StatusCode >= 500:
		level = slog.LevelError
	case resp.StatusCode >= 400:
		level = slog.LevelWarn
	}
	if resp != nil {
		attrs = append(attrs, slog.Int("status", resp.StatusCode))
	}

	slog.LogAttrs(req.Context(), level, fmt.Sprintf("%s %s", req.Method, req.URL.Path), attrs...)
	return resp, err
}
