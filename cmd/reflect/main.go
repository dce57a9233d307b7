// Command reflect applies a declarative YAML mapping to JSON documents.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/h3llf1r33/data-reflector/funcs"
	"github.com/h3llf1r33/data-reflector/internal/config"
	"github.com/h3llf1r33/data-reflector/internal/exit"
	"github.com/h3llf1r33/data-reflector/internal/ratelimit"
	"github.com/h3llf1r33/data-reflector/mappingfile"
	"github.com/h3llf1r33/data-reflector/reflector"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, exitResult := config.Parse(os.Args)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	mapping, exitResult := loadMapping(cfg.MappingFile)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p := &processor{
		engine:  reflector.New(),
		mapping: mapping,
		limiter: ratelimit.New(cfg.RateLimit),
		ndjson:  cfg.NDJSON,
		encoder: newEncoder(os.Stdout, cfg.Compact),
	}

	if exitResult := p.processAll(ctx, cfg.InputFiles); exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	return 0
}

func loadMapping(path string) (reflector.Mapping, *exit.Result) {
	f, err := os.Open(path)
	if err != nil {
		return nil, exit.Errorf("Error: open mapping: %v\n", err)
	}
	defer f.Close()

	mapping, err := mappingfile.Parse(f, funcs.Default())
	if err != nil {
		return nil, exit.Errorf("Error: parse mapping %s: %v\n", path, err)
	}

	return mapping, nil
}

func newEncoder(w io.Writer, compact bool) *json.Encoder {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc
}

type processor struct {
	engine  *reflector.Engine
	mapping reflector.Mapping
	limiter *ratelimit.Limiter
	ndjson  bool
	encoder *json.Encoder
}

// processAll reflects every input source in order, stopping at the first
// failure.
func (p *processor) processAll(ctx context.Context, files []string) *exit.Result {
	if len(files) == 0 {
		return p.processReader(ctx, os.Stdin, "stdin")
	}

	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			return exit.Errorf("Error: open input: %v\n", err)
		}

		result := p.processReader(ctx, f, file)
		f.Close()
		if result != nil {
			return result
		}
	}

	return nil
}

func (p *processor) processReader(ctx context.Context, r io.Reader, name string) *exit.Result {
	if !p.ndjson {
		var input any
		if err := json.NewDecoder(r).Decode(&input); err != nil {
			return exit.Errorf("Error: decode %s: %v\n", name, err)
		}
		return p.reflectOne(ctx, input, name)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var input any
		if err := json.Unmarshal(scanner.Bytes(), &input); err != nil {
			return exit.Errorf("Error: decode %s line %d: %v\n", name, line, err)
		}

		if result := p.reflectOne(ctx, input, fmt.Sprintf("%s line %d", name, line)); result != nil {
			return result
		}
	}

	if err := scanner.Err(); err != nil {
		return exit.Errorf("Error: read %s: %v\n", name, err)
	}

	return nil
}

func (p *processor) reflectOne(ctx context.Context, input any, name string) *exit.Result {
	if err := p.limiter.Wait(ctx); err != nil {
		return exit.Errorf("Error: interrupted: %v\n", err)
	}

	output, err := p.engine.Reflect(p.mapping, input)
	if err != nil {
		return exit.Errorf("Error: reflect %s: %v\n", name, err)
	}

	if err := p.encoder.Encode(output); err != nil {
		return exit.Errorf("Error: encode output for %s: %v\n", name, err)
	}

	return nil
}
