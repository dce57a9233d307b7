// Package query evaluates JSONPath expressions against decoded JSON data.
//
// The default implementation is backed by github.com/theory/jsonpath
// (RFC 9535). The Evaluator interface keeps the engine's query language
// replaceable and gives callers direct access to raw evaluation.
package query

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/theory/jsonpath"
)

// ErrInvalidPath indicates a path expression failed to compile.
var ErrInvalidPath = errors.New("invalid path expression")

// Evaluator resolves path expressions against decoded JSON data
// (map[string]any objects, []any arrays, primitives).
type Evaluator interface {
	// First resolves a simple expression to at most one value. An
	// unresolved path yields (nil, nil), not an error.
	First(expr string, input any) (any, error)

	// Select resolves an expression to all matches, in document order. No
	// matches yields an empty, non-nil slice.
	Select(expr string, input any) ([]any, error)
}

// IsComplex reports whether expr can resolve to more than one value: any
// expression using a wildcard, a filter, or recursive descent. Everything
// else is a simple expression resolving to at most one value.
func IsComplex(expr string) bool {
	return strings.ContainsAny(expr, "*?") || strings.Contains(expr, "..")
}

// pathEvaluator backs Evaluator with theory/jsonpath and caches compiled
// paths, so mappings reused across calls do not re-parse their expressions.
type pathEvaluator struct {
	mu    sync.RWMutex
	cache map[string]*jsonpath.Path
}

// New returns the default JSONPath evaluator. It is safe for concurrent use.
func New() Evaluator {
	return &pathEvaluator{cache: make(map[string]*jsonpath.Path)}
}

func (e *pathEvaluator) First(expr string, input any) (any, error) {
	path, err := e.compile(expr)
	if err != nil {
		return nil, err
	}

	results := path.Select(input)
	if len(results) == 0 {
		return nil, nil
	}

	return results[0], nil
}

func (e *pathEvaluator) Select(expr string, input any) ([]any, error) {
	path, err := e.compile(expr)
	if err != nil {
		return nil, err
	}

	results := path.Select(input)

	matches := make([]any, 0, len(results))
	return append(matches, results...), nil
}

func (e *pathEvaluator) compile(expr string) (*jsonpath.Path, error) {
	e.mu.RLock()
	path, ok := e.cache[expr]
	e.mu.RUnlock()
	if ok {
		return path, nil
	}

	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPath, expr, err)
	}

	e.mu.Lock()
	e.cache[expr] = path
	e.mu.Unlock()

	return path, nil
}
