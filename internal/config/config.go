// Package config parses command-line arguments for the reflect tool.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/h3llf1r33/data-reflector/internal/exit"
)

var (
	ErrNoArguments   = errors.New("no arguments provided")
	ErrNoMappingFile = errors.New("no mapping file specified")
)

// Config represents the complete configuration for the reflect tool.
type Config struct {
	MappingFile string   // YAML mapping document
	InputFiles  []string // JSON inputs; empty means stdin
	NDJSON      bool     // Treat input as newline-delimited JSON documents
	Compact     bool     // Compact instead of indented output
	RateLimit   float64  // Documents per second (0 = unlimited)
}

// Validate returns an error if the configuration is unusable.
func (c *Config) Validate() error {
	if c.MappingFile == "" {
		return ErrNoMappingFile
	}

	if _, err := os.Stat(c.MappingFile); err != nil {
		return fmt.Errorf("mapping file %s not found: %w", c.MappingFile, err)
	}

	for _, file := range c.InputFiles {
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("input file %s not found: %w", file, err)
		}
	}

	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Usage and errors are reported through exit results instead.
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		mappingFile = fs.String("m", "", "Path to YAML mapping document (required)")
		ndjson      = fs.Bool("ndjson", false, "Treat input as newline-delimited JSON documents")
		compact     = fs.Bool("compact", false, "Emit compact JSON instead of indented")
		rateLimit   = fs.Float64("rate", 0, "Rate limit in documents per second (0 for unlimited)")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	config := &Config{
		MappingFile: *mappingFile,
		InputFiles:  fs.Args(),
		NDJSON:      *ndjson,
		Compact:     *compact,
		RateLimit:   *rateLimit,
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `reflect - declarative JSON object mapping

Usage: reflect -m mapping.yaml [options] [file1] [file2] ...

Reads JSON documents from the given files (or stdin when none are given),
applies the mapping to each, and writes the reflected objects to stdout.

Options:
  -m file      Path to YAML mapping document (required)
  -ndjson      Treat input as newline-delimited JSON documents
  -compact     Emit compact JSON instead of indented
  -rate n      Rate limit in documents per second (0 for unlimited)
  -h           Show this help
`
}
