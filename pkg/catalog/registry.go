package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Backend is a Catalog bound to a database connection.
type Backend interface {
	Catalog

	// Connect establishes a connection using cfg.
	Connect(ctx context.Context, cfg Config) error

	// Close releases the connection.
	Close() error

	// Name returns the registered backend name.
	Name() string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Backend)
)

// Register adds a backend factory to the registry under the lowercased name.
// Called by backend implementations in their init() functions.
func Register(name string, factory func(*slog.Logger) Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = factory
}

// Get retrieves a backend factory by name.
func Get(name string) (func(*slog.Logger) Backend, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// NewBackend creates an unconnected backend for cfg.Type.
// The logger is passed to the backend constructor (nil uses a discard logger).
func NewBackend(cfg Config, logger *slog.Logger) (Backend, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("backend type not specified")
	}

	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownBackendError{
			Type:      cfg.Type,
			Available: ListBackends(),
		}
	}
	return factory(logger), nil
}

// Open creates a backend for cfg and connects it.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Backend, error) {
	b, err := NewBackend(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := b.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBackends returns all registered backend names (sorted).
func ListBackends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend type is registered.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// UnknownBackendError is returned when an unknown backend type is requested.
type UnknownBackendError struct {
	Type      string
	Available []string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown backend type %q\nAvailable backends: %v\nHint: Check your target.type in pgask.yaml", e.Type, e.Available)
}
