package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/folio/log"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-format flag, this method is called, allowing
// us to configure the logger early enough to affect error messages during
// parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"debug,info,warn,error" help:"Set log level."`
	Format     logFormat `default:"text"    enum:"json,text"             help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                              help:"Set timestamp format."`
	Caller     bool      `default:"false"                                help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                 help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) func() {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() {}
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before Kong begins parsing. This ensures the
// logger is configured properly regardless of flag position on the
// command line.
func (f *logConfig) scan(args []string) {
	opts := make([]log.Option, 0, 3)

	value := func(i int, arg string) (string, bool) {
		if _, v, ok := strings.Cut(arg, "="); ok {
			return v, true
		}

		if i+1 < len(args) {
			return args[i+1], true
		}

		return "", false
	}

	for i, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--log-level"):
			if v, ok := value(i, arg); ok {
				opts = append(opts, log.WithLevel(log.ParseLevel(v)))
			}

		case strings.HasPrefix(arg, "--log-format"):
			if v, ok := value(i, arg); ok {
				opts = append(opts, log.WithFormat(log.ParseFormat(v)))
			}

		case strings.HasPrefix(arg, "--log-pretty"), strings.HasPrefix(arg, "--no-log-pretty"):
			enable := !strings.HasPrefix(arg, "--no-")
			if _, v, ok := strings.Cut(arg, "="); ok {
				if b, err := strconv.ParseBool(v); err == nil {
					enable = b
				}
			}

			opts = append(opts, log.WithPretty(enable))
		}
	}

	if len(opts) > 0 {
		log.Config(opts...)
	}
}
