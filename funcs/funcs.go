// Package funcs provides a registry of named function extractors so
// declarative mapping documents can reference functions by name.
package funcs

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/h3llf1r33/data-reflector/reflector"
)

var (
	// ErrUnknownFunction indicates a lookup for a name that was never
	// registered.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrInvalidRegistration indicates an empty name or nil function.
	ErrInvalidRegistration = errors.New("invalid registration")
)

// Registry maps names to function extractors. It is safe for concurrent use.
type Registry struct {
	mu  sync.RWMutex
	fns map[string]reflector.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]reflector.Extractor)}
}

// Register adds fn under name, replacing any previous registration.
func (r *Registry) Register(name string, fn reflector.Extractor) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidRegistration)
	}
	if fn == nil {
		return fmt.Errorf("%w: function for %q is nil", ErrInvalidRegistration, name)
	}

	r.mu.Lock()
	r.fns[name] = fn
	r.mu.Unlock()
	return nil
}

// Lookup returns the extractor registered under name.
func (r *Registry) Lookup(name string) (reflector.Extractor, error) {
	r.mu.RLock()
	fn, ok := r.fns[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}

	return fn, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry of builtin extractors:
//
//	uuid, uuidv4  random UUID string
//	now           current time, RFC 3339
//	timestamp     current Unix time in seconds
//	input         the input object itself
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = &Registry{fns: builtins()}
	})

	return defaultRegistry
}

func builtins() map[string]reflector.Extractor {
	return map[string]reflector.Extractor{
		"uuid":      generateUUID,
		"uuidv4":    generateUUID, // Alias for uuid
		"now":       timeNow,
		"timestamp": timeUnix,
		"input":     identity,
	}
}

func generateUUID(any) (any, error) {
	return uuid.New().String(), nil
}

func timeNow(any) (any, error) {
	return time.Now().Format(time.RFC3339), nil
}

func timeUnix(any) (any, error) {
	return time.Now().Unix(), nil
}

func identity(input any) (any, error) {
	return input, nil
}

// Constant returns an extractor that always yields v, useful for injecting
// fixed values into mapped output.
func Constant(v any) reflector.Extractor {
	return func(any) (any, error) {
		return v, nil
	}
}
