// Package health implements liveness and readiness probes. Registered checks
// run periodically in the background; the HTTP endpoints report the most
// recent results without executing checks inline.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes one component. It returns nil when the component is
// healthy.
type CheckFunc func(ctx context.Context) error

// check holds one registered probe and its last observed result.
type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	lastErr atomic.Pointer[error]
}

func (c *check) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.fn(ctx)
	c.lastErr.Store(&err)
}

func (c *check) err() error {
	if p := c.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// Health manages the probes of a service. The zero state is not ready; call
// SetReady(true) once initialization completes and SetReady(false) when
// draining.
type Health struct {
	ready atomic.Bool

	mu        sync.Mutex
	liveness  []*check
	readiness []*check
	cancel    context.CancelFunc
}

func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a probe answering "is this process functional",
// e.g. a goroutine leak detector.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, &check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a probe answering "can this process serve
// traffic", e.g. database connectivity.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readiness = append(h.readiness, &check{name: name, timeout: timeout, fn: fn})
}

// Start runs every registered check once immediately and then at the given
// interval until Stop is called or ctx is cancelled. Register all checks
// before calling Start.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	checks := append(append([]*check{}, h.liveness...), h.readiness...)
	h.mu.Unlock()

	for _, c := range checks {
		go func(c *check) {
			c.run(ctx)
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					c.run(ctx)
				}
			}
		}(c)
	}
}

// Stop cancels the background check goroutines. Safe to call more than once.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// SetReady flips the manual readiness gate.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves the liveness probe: 200 when every liveness check
// passes, otherwise 503 with the failing checks listed.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	checks := append([]*check{}, h.liveness...)
	h.mu.Unlock()

	writeStatus(w, failures(checks))
}

// ReadyEndpoint serves the readiness probe: 200 when the service is marked
// ready and every readiness check passes.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	checks := append([]*check{}, h.readiness...)
	h.mu.Unlock()

	failing := failures(checks)
	if !h.ready.Load() {
		failing["_readiness"] = "service is not ready"
	}
	writeStatus(w, failing)
}

func failures(checks []*check) map[string]string {
	failing := make(map[string]string)
	for _, c := range checks {
		if err := c.err(); err != nil {
			failing[c.name] = err.Error()
		}
	}
	return failing
}

func writeStatus(w http.ResponseWriter, failing map[string]string) {
	resp := statusResponse{Status: "ok"}
	status := http.StatusOK
	if len(failing) > 0 {
		resp.Status = "unhealthy"
		resp.Checks = failing
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
