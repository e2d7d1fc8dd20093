package healthcheck

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// HealthCheck is the health check handler. With no checks registered it
// always answers ok.
type HealthCheck struct {
	timeout time.Duration

	mu     sync.RWMutex
	checks map[string]Check
}

// New creates a HealthCheck whose checks share timeout.
func New(timeout time.Duration) *HealthCheck {
	return &HealthCheck{
		timeout: timeout,
		checks:  make(map[string]Check),
	}
}

// AddCheck registers check under name, replacing any previous one.
func (hc *HealthCheck) AddCheck(name string, check Check) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[name] = check
}

// Status runs every check and returns the failing ones by name.
func (hc *HealthCheck) Status(ctx context.Context) map[string]error {
	if hc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, hc.timeout)
		defer cancel()
	}

	hc.mu.RLock()
	defer hc.mu.RUnlock()

	failed := make(map[string]error)
	for name, check := range hc.checks {
		if err := check(ctx); err != nil {
			failed[name] = err
		}
	}
	return failed
}

// Err runs every check and returns the first failure in name order.
func (hc *HealthCheck) Err(ctx context.Context) error {
	failed := hc.Status(ctx)
	if len(failed) == 0 {
		return nil
	}

	names := make([]string, 0, len(failed))
	for name := range failed {
		names = append(names, name)
	}
	slices.Sort(names)
	return fmt.Errorf("%s: %w", names[0], failed[names[0]])
}

// Handler is used to control the flow of GET /health endpoint
func (hc *HealthCheck) Handler(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if IsHealthCheckRequest(r) {
			hc.ServeHTTP(w, r)

			return
		}

		h.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

// ServeHTTP answers "ok", or 503 listing the failing checks.
func (hc *HealthCheck) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	failed := hc.Status(r.Context())
	if len(failed) == 0 {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
		return
	}

	names := make([]string, 0, len(failed))
	for name := range failed {
		names = append(names, name)
	}
	slices.Sort(names)

	w.WriteHeader(http.StatusServiceUnavailable)
	for _, name := range names {
		fmt.Fprintf(w, "%s: %v\n", name, failed[name])
	}
}

// IsHealthCheckRequest is used to check if the request is a health check request
func IsHealthCheckRequest(r *http.Request) bool {
	return r.Method == http.MethodGet && r.URL.Path == "/health"
}
