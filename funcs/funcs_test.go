package funcs

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDefaultBuiltins(t *testing.T) {
	registry := Default()

	t.Run("uuid", func(t *testing.T) {
		for _, name := range []string{"uuid", "uuidv4"} {
			fn, err := registry.Lookup(name)
			if err != nil {
				t.Fatalf("Lookup(%q) failed: %v", name, err)
			}

			value, err := fn(nil)
			if err != nil {
				t.Fatalf("%s extractor failed: %v", name, err)
			}

			s, ok := value.(string)
			if !ok {
				t.Fatalf("%s extractor returned %T, want string", name, value)
			}
			if _, err := uuid.Parse(s); err != nil {
				t.Errorf("%s extractor returned invalid UUID %q: %v", name, s, err)
			}
		}
	})

	t.Run("now", func(t *testing.T) {
		fn, err := registry.Lookup("now")
		if err != nil {
			t.Fatalf("Lookup(now) failed: %v", err)
		}

		value, err := fn(nil)
		if err != nil {
			t.Fatalf("now extractor failed: %v", err)
		}

		if _, err := time.Parse(time.RFC3339, value.(string)); err != nil {
			t.Errorf("now extractor returned invalid RFC 3339 time: %v", err)
		}
	})

	t.Run("timestamp", func(t *testing.T) {
		fn, err := registry.Lookup("timestamp")
		if err != nil {
			t.Fatalf("Lookup(timestamp) failed: %v", err)
		}

		value, err := fn(nil)
		if err != nil {
			t.Fatalf("timestamp extractor failed: %v", err)
		}

		if ts, ok := value.(int64); !ok || ts <= 0 {
			t.Errorf("timestamp extractor returned %v (%T), want positive int64", value, value)
		}
	})

	t.Run("input", func(t *testing.T) {
		fn, err := registry.Lookup("input")
		if err != nil {
			t.Fatalf("Lookup(input) failed: %v", err)
		}

		input := map[string]any{"k": "v"}
		value, err := fn(input)
		if err != nil {
			t.Fatalf("input extractor failed: %v", err)
		}

		// Identity, not a copy.
		if m, ok := value.(map[string]any); !ok || m["k"] != "v" {
			t.Errorf("input extractor returned %v, want the input itself", value)
		}
	})
}

func TestLookupUnknown(t *testing.T) {
	_, err := Default().Lookup("no-such-function")
	if !errors.Is(err, ErrUnknownFunction) {
		t.Errorf("expected ErrUnknownFunction, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		fnName  string
		fn      func(any) (any, error)
		wantErr bool
	}{
		{name: "valid", fnName: "custom", fn: func(any) (any, error) { return 1, nil }},
		{name: "empty name", fnName: "", fn: func(any) (any, error) { return 1, nil }, wantErr: true},
		{name: "nil function", fnName: "custom", fn: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			err := registry.Register(tt.fnName, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRegistration) {
					t.Errorf("expected ErrInvalidRegistration, got %v", err)
				}
				return
			}

			if _, err := registry.Lookup(tt.fnName); err != nil {
				t.Errorf("Lookup() after Register() failed: %v", err)
			}
		})
	}
}

func TestRegisterReplaces(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("f", Constant("first")); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if err := registry.Register("f", Constant("second")); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	fn, err := registry.Lookup("f")
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	value, _ := fn(nil)
	if value != "second" {
		t.Errorf("Lookup() resolved %v, want the replacement", value)
	}
}

func TestConstant(t *testing.T) {
	fn := Constant(42)
	value, err := fn("ignored input")
	if err != nil {
		t.Fatalf("Constant extractor failed: %v", err)
	}
	if value != 42 {
		t.Errorf("Constant extractor returned %v, want 42", value)
	}
}
