// Package logger holds the process-wide zerolog instance. Init builds it
// once at startup; every other package pulls it with Get or receives it
// through constructor injection.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger built by Init.
type Options struct {
	// Level is the minimum level emitted: trace, debug, info, warn or
	// error. Anything unrecognised falls back to info.
	Level string
	// Pretty switches from JSON lines to colourised console output.
	// Meant for local development only.
	Pretty bool
	// Service, when set, is stamped on every event as the service field.
	Service string
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	instance zerolog.Logger
	once     sync.Once
	ready    bool
)

// Init builds the singleton. Subsequent calls return the logger from the
// first call unchanged.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
		if err != nil || lvl == zerolog.NoLevel {
			lvl = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(lvl)

		ctx := zerolog.New(out).Level(lvl).With().Timestamp().Caller()
		if opts.Service != "" {
			ctx = ctx.Str("service", opts.Service)
		}
		instance = ctx.Logger()
		ready = true
	})
	return instance
}

// Get returns the singleton. It panics when Init has not run, which points
// at a wiring bug rather than a runtime condition worth handling.
func Get() zerolog.Logger {
	if !ready {
		panic("logger: Get() called before Init()")
	}
	return instance
}

// Reset discards the singleton so the next Init rebuilds it. Test helper.
func Reset() {
	once = sync.Once{}
	instance = zerolog.Logger{}
	ready = false
}
