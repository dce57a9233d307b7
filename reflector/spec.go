package reflector

import (
	"fmt"
	"maps"
	"slices"
)

// Spec describes how to compute one output field. It is a closed union over
// three kinds: a path-query expression, a function over the whole input, or a
// nested mapping evaluated against the same top-level input.
type Spec interface {
	isSpec()
}

// Extractor is the signature of a function extractor. It receives the whole
// input object, never a narrowed sub-object.
type Extractor func(input any) (any, error)

type (
	querySpec  string
	funcSpec   Extractor
	nestedSpec Mapping
)

func (querySpec) isSpec()  {}
func (funcSpec) isSpec()   {}
func (nestedSpec) isSpec() {}

// Query returns a spec that evaluates a path expression against the input.
func Query(expr string) Spec {
	return querySpec(expr)
}

// Func returns a spec that invokes fn with the input object.
func Func(fn Extractor) Spec {
	return funcSpec(fn)
}

// Nested returns a spec that applies m against the same top-level input,
// producing a nested output object.
func Nested(m Mapping) Spec {
	return nestedSpec(m)
}

// Field is a single output key paired with the spec that computes its value.
type Field struct {
	Key  string
	Spec Spec
}

// Mapping is an ordered collection of output fields. It is immutable during a
// Reflect call and may be reused across calls.
type Mapping []Field

// Map builds a Mapping from fields in evaluation order.
func Map(fields ...Field) Mapping {
	return Mapping(fields)
}

// SpecOf classifies a raw value as one of the three extractor kinds:
// strings become query specs, Extractor functions become function specs, and
// Mappings or plain maps become nested mappings. Anything else is rejected
// with ErrInvalidSpec.
func SpecOf(v any) (Spec, error) {
	switch spec := v.(type) {
	case Spec:
		return spec, nil
	case string:
		return querySpec(spec), nil
	case Extractor:
		return funcSpec(spec), nil
	case func(any) (any, error):
		return funcSpec(spec), nil
	case Mapping:
		return nestedSpec(spec), nil
	case map[string]any:
		nested, err := FromMap(spec)
		if err != nil {
			return nil, err
		}
		return nestedSpec(nested), nil
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrInvalidSpec)
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidSpec, v)
	}
}

// FromMap builds a Mapping from a plain map, classifying each value with
// SpecOf. Keys are evaluated in sorted order since map iteration order is not
// deterministic.
func FromMap(m map[string]any) (Mapping, error) {
	mapping := make(Mapping, 0, len(m))
	for _, key := range slices.Sorted(maps.Keys(m)) {
		spec, err := SpecOf(m[key])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		mapping = append(mapping, Field{Key: key, Spec: spec})
	}
	return mapping, nil
}
