// Package mappingfile decodes declarative mapping documents from YAML into
// runtime mappings.
//
// A document lists output fields in evaluation order. Each field carries
// exactly one extractor: a JSONPath query, the name of a registered function,
// or a nested field list.
//
//	fields:
//	  - key: name
//	    query: $.user.name
//	  - key: id
//	    fn: uuid
//	  - key: address
//	    fields:
//	      - key: city
//	        query: $.user.city
package mappingfile

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/h3llf1r33/data-reflector/funcs"
	"github.com/h3llf1r33/data-reflector/reflector"
)

// ErrParser is the sentinel error for all mapping document failures.
// It allows error wrapping and consistent error checks using errors.Is().
var ErrParser = fmt.Errorf("mapping parser error")

// Document is the YAML shape of a mapping file.
type Document struct {
	Fields []FieldSpec `yaml:"fields"`
}

// FieldSpec is one output field. Exactly one of Query, Fn, or Fields must be
// set.
type FieldSpec struct {
	Key    string      `yaml:"key"`              // Output field name
	Query  string      `yaml:"query,omitempty"`  // JSONPath expression
	Fn     string      `yaml:"fn,omitempty"`     // Registered function name
	Fields []FieldSpec `yaml:"fields,omitempty"` // Nested mapping
}

// Parse decodes a mapping document and resolves function names against
// registry. A nil registry resolves against the builtin registry.
func Parse(r io.Reader, registry *funcs.Registry) (reflector.Mapping, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read document: %v", ErrParser, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParser, err)
	}

	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("%w: document has no fields", ErrParser)
	}

	if registry == nil {
		registry = funcs.Default()
	}

	return build(doc.Fields, registry)
}

func build(specs []FieldSpec, registry *funcs.Registry) (reflector.Mapping, error) {
	mapping := make(reflector.Mapping, 0, len(specs))
	seen := make(map[string]struct{}, len(specs))

	for i, fs := range specs {
		if fs.Key == "" {
			return nil, fmt.Errorf("%w: field %d has no key", ErrParser, i)
		}
		if _, ok := seen[fs.Key]; ok {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrParser, fs.Key)
		}
		seen[fs.Key] = struct{}{}

		spec, err := buildSpec(fs, registry)
		if err != nil {
			return nil, err
		}

		mapping = append(mapping, reflector.Field{Key: fs.Key, Spec: spec})
	}

	return mapping, nil
}

func buildSpec(fs FieldSpec, registry *funcs.Registry) (reflector.Spec, error) {
	set := 0
	if fs.Query != "" {
		set++
	}
	if fs.Fn != "" {
		set++
	}
	if len(fs.Fields) > 0 {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: field %q must set exactly one of query, fn, fields", ErrParser, fs.Key)
	}

	switch {
	case fs.Query != "":
		return reflector.Query(fs.Query), nil
	case fs.Fn != "":
		fn, err := registry.Lookup(fs.Fn)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrParser, fs.Key, err)
		}
		return reflector.Func(fn), nil
	default:
		nested, err := build(fs.Fields, registry)
		if err != nil {
			return nil, err
		}
		return reflector.Nested(nested), nil
	}
}
