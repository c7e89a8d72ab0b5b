package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
)

// ErrQuietVerbose is returned when both quiet and verbose output are requested.
var ErrQuietVerbose = errors.New("cannot use --quiet and --verbose together")

// Options describes how the CLI wants to log.
type Options struct {
	// Verbosity is the number of -v flags.
	Verbosity int
	// Quiet restricts output to errors.
	Quiet bool
	// Format of the primary (stderr) output.
	Format Format
	// File, when set, receives JSON lines in addition to the primary output.
	File string
	// Output is the primary writer; os.Stderr if nil.
	Output io.Writer
}

// Level resolves the effective level for the options.
func (o Options) Level() slog.Level {
	if o.Quiet {
		return slog.LevelError
	}
	return LevelFromVerbosity(o.Verbosity)
}

// Setup builds the CLI logger. The returned close function releases the
// log file, if one was opened, and is always safe to call.
func Setup(o Options) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	if o.Quiet && o.Verbosity > 0 {
		return nil, noop, ErrQuietVerbose
	}

	out := o.Output
	if out == nil {
		out = os.Stderr
	}
	level := o.Level()
	primary := newFormatHandler(out, o.Format, level)

	if o.File == "" {
		return slog.New(primary), noop, nil
	}

	f, err := os.OpenFile(o.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, noop, errors.Wrapf(err, "opening log file %s", o.File)
	}
	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})
	return slog.New(fanout{primary, fileHandler}), f.Close, nil
}

// fanout dispatches records to every enabled handler.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
