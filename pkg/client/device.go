package client

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
)

// SentinelDeviceID is the fallback identifier used when resolution fails.
// Every caller that falls back shares this value and therefore shares one
// tenant; resolution failure degrades scoping, it never fails a request.
const SentinelDeviceID = "unknown-device"

// Source produces the platform installation identifier.
type Source func(ctx context.Context) (string, error)

type resolverState int

const (
	stateUnresolved resolverState = iota
	stateResolving
	stateResolved
)

// Resolver memoizes one asynchronous device-identity resolution for the
// process lifetime. Concurrent early callers share the single in-flight
// resolution; the outcome (real id or sentinel) is terminal.
type Resolver struct {
	source Source

	mu    sync.Mutex
	state resolverState
	id    string
	done  chan struct{}
}

// NewResolver builds a resolver around the given source. A nil source
// uses DefaultSource.
func NewResolver(source Source) *Resolver {
	if source == nil {
		source = DefaultSource
	}
	return &Resolver{source: source, done: make(chan struct{})}
}

// DeviceID returns the resolved device identifier, starting resolution on
// first use and waiting for it to finish. The only error is context
// cancellation while waiting; source failure yields the sentinel.
func (r *Resolver) DeviceID(ctx context.Context) (string, error) {
	r.mu.Lock()
	switch r.state {
	case stateResolved:
		id := r.id
		r.mu.Unlock()
		return id, nil
	case stateUnresolved:
		r.state = stateResolving
		r.mu.Unlock()
		// resolution is process-scoped; do not tie it to one caller's ctx
		go r.resolve(context.Background())
	default:
		r.mu.Unlock()
	}

	select {
	case <-r.done:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	r.mu.Lock()
	id := r.id
	r.mu.Unlock()
	return id, nil
}

func (r *Resolver) resolve(ctx context.Context) {
	id, err := r.source(ctx)
	if err != nil || strings.TrimSpace(id) == "" {
		id = SentinelDeviceID
	}
	r.mu.Lock()
	r.id = strings.TrimSpace(id)
	r.state = stateResolved
	r.mu.Unlock()
	close(r.done)
}

// DefaultSource reads the machine id the way desktop platforms expose it.
// Mobile platforms inject their own Source (ANDROID_ID, identifierForVendor).
func DefaultSource(ctx context.Context) (string, error) {
	for _, path := range []string{"/etc/machine-id", "/var/lib/dbus/machine-id"} {
		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if id := strings.TrimSpace(string(b)); id != "" {
			return id, nil
		}
	}
	return "", errors.New("no machine id available")
}

// StaticSource returns a source that always yields the given id. Useful
// for tests and tools.
func StaticSource(id string) Source {
	return func(context.Context) (string, error) { return id, nil }
}
