package router

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/primer-realty/internal/http/httpx"
	"github.com/wolfman30/primer-realty/pkg/logging"
)

// Check pings one backing dependency.
type Check func(ctx context.Context) error

const readyTimeout = 3 * time.Second

func healthHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readyHandler runs every check concurrently and reports each result.
func readyHandler(checks map[string]Check, logger *logging.Logger) http.HandlerFunc {
	if logger == nil {
		logger = logging.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		results := make(map[string]string, len(checks))
		names := make([]string, 0, len(checks))
		for name := range checks {
			names = append(names, name)
		}
		out := make([]error, len(names))

		var g errgroup.Group
		for i, name := range names {
			i, name := i, name
			g.Go(func() error {
				out[i] = checks[name](ctx)
				return nil
			})
		}
		_ = g.Wait()

		status := http.StatusOK
		for i, name := range names {
			if out[i] != nil {
				logger.Warn("readiness check failed", "dependency", name, "error", out[i])
				results[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		httpx.WriteJSON(w, status, map[string]any{"status": overall, "checks": results})
	}
}
