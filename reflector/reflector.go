// Package reflector implements a declarative object-mapping engine: given an
// input object and a mapping describing, field by field, how to derive each
// output value, Reflect assembles a fresh output object.
//
// Each field is computed by one of three extractor kinds: a path-query
// expression evaluated against the input, a function receiving the whole
// input, or a nested mapping applied recursively against the same top-level
// input. Queried composites are screened for reference cycles before they are
// admitted into the output.
package reflector

import (
	"fmt"

	"github.com/h3llf1r33/data-reflector/query"
)

// DefaultMaxDepth bounds nested-mapping recursion. Mappings deeper than this
// fail with ErrMaxDepth instead of exhausting the stack.
const DefaultMaxDepth = 1000

// Engine evaluates mappings against input objects. The zero value is not
// usable; construct with New. An Engine is safe for concurrent use as long as
// the inputs and extractor functions themselves are not mutated concurrently.
type Engine struct {
	eval     query.Evaluator
	maxDepth int
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvaluator replaces the path-query evaluator.
func WithEvaluator(eval query.Evaluator) Option {
	return func(e *Engine) {
		e.eval = eval
	}
}

// WithMaxDepth sets the nested-mapping recursion limit.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// New creates an Engine with the default JSONPath evaluator.
func New(opts ...Option) *Engine {
	e := &Engine{
		eval:     query.New(),
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

var defaultEngine = New()

// Reflect evaluates mapping against input using a shared default engine and
// returns the assembled output object. See Engine.Reflect.
func Reflect(mapping Mapping, input any) (map[string]any, error) {
	return defaultEngine.Reflect(mapping, input)
}

// Reflect evaluates every field of mapping against input and returns a new
// object whose keys are exactly the mapping's keys. The input is never
// mutated. Evaluation stops at the first failing field: no partial output is
// returned. Errors raised by function extractors propagate unwrapped.
func (e *Engine) Reflect(mapping Mapping, input any) (map[string]any, error) {
	return e.reflect(mapping, input, 0)
}

func (e *Engine) reflect(mapping Mapping, input any, depth int) (map[string]any, error) {
	if depth > e.maxDepth {
		return nil, fmt.Errorf("%w: more than %d nested mappings", ErrMaxDepth, e.maxDepth)
	}

	output := make(map[string]any, len(mapping))
	for _, field := range mapping {
		value, err := e.dispatch(field.Spec, input, depth)
		if err != nil {
			return nil, err
		}
		output[field.Key] = value
	}

	return output, nil
}

// dispatch routes one mapping entry to its extractor kind.
func (e *Engine) dispatch(spec Spec, input any, depth int) (any, error) {
	switch s := spec.(type) {
	case nestedSpec:
		return e.reflect(Mapping(s), input, depth+1)
	case funcSpec:
		return s(input)
	case querySpec:
		return e.extractQuery(string(s), input)
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrInvalidSpec)
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidSpec, spec)
	}
}

// extractQuery evaluates a path expression and screens composite results for
// reference cycles before they re-enter the output.
//
// Simple expressions resolve to at most one value; an unresolved path yields
// nil, not an error. Complex expressions (wildcard, filter, recursive
// descent) resolve to a sequence of zero or more matches, screened per
// element.
func (e *Engine) extractQuery(expr string, input any) (any, error) {
	if query.IsComplex(expr) {
		matches, err := e.eval.Select(expr, input)
		if err != nil {
			return nil, err
		}

		for _, match := range matches {
			if HasCycle(match) {
				return nil, fmt.Errorf("query %q: %w", expr, ErrCircular)
			}
		}

		return matches, nil
	}

	value, err := e.eval.First(expr, input)
	if err != nil {
		return nil, err
	}

	if HasCycle(value) {
		return nil, fmt.Errorf("query %q: %w", expr, ErrCircular)
	}

	return value, nil
}
