// Package tqlog is Tinqer-Go's structured logger, built on log/slog
// with lumberjack for file rotation. It supports "json" and "text"
// output formats. The compiler packages do not log; cmd/main.go is the
// one caller in this module.
// There is no HTTP surface in this module, so no access-log format.
package tqlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger construction settings.
type Config struct {
	Filename   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
	Level      slog.Level
	Format     string // "json" | "text"
	CallerSkip int
	Writer     io.Writer
	AddSource  bool
}

// Option configures a Config.
type Option func(*Config)

func WithFilename(filename string) Option { return func(c *Config) { c.Filename = filename } }
func WithMaxSize(n int) Option            { return func(c *Config) { c.MaxSize = n } }
func WithMaxBackups(n int) Option         { return func(c *Config) { c.MaxBackups = n } }
func WithMaxAge(n int) Option             { return func(c *Config) { c.MaxAge = n } }
func WithCompress(compress bool) Option   { return func(c *Config) { c.Compress = compress } }
func WithLevel(level slog.Level) Option   { return func(c *Config) { c.Level = level } }
func WithLevelStr(level string) Option    { return func(c *Config) { c.Level = LevelFromStr(level) } }
func WithFormat(format string) Option     { return func(c *Config) { c.Format = format } }
func WithCallerSkip(skip int) Option      { return func(c *Config) { c.CallerSkip = skip } }
func WithWriter(w io.Writer) Option       { return func(c *Config) { c.Writer = w } }
func WithAddSource(add bool) Option       { return func(c *Config) { c.AddSource = add } }

// Logger wraps *slog.Logger so Tinqer-Go call sites get printf-style
// helpers alongside slog's structured API.
type Logger struct {
	*slog.Logger
}

var defaultConfig = &Config{Level: slog.LevelInfo, Format: "text", AddSource: true}
var defaultLogger = newFromConfig(defaultConfig)

func copyConfig(src *Config) *Config {
	cp := *src
	return &cp
}

// New builds a Logger from the package defaults plus opts, without
// altering the package-level default logger.
func New(opts ...Option) *Logger {
	cfg := copyConfig(defaultConfig)
	for _, opt := range opts {
		opt(cfg)
	}
	return newFromConfig(cfg)
}

func newFromConfig(cfg *Config) *Logger {
	var writer io.Writer
	switch {
	case cfg.Writer != nil:
		writer = cfg.Writer
	case cfg.Filename != "":
		writer = &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
	default:
		writer = os.Stdout
	}

	hOpts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey && cfg.AddSource {
				pc, file, line, ok := runtime.Caller(4 + cfg.CallerSkip)
				if ok {
					fn := runtime.FuncForPC(pc)
					return slog.String(a.Key, fmt.Sprintf("%s(%d),%s", filepath.Base(file), line, filepath.Base(fn.Name())))
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(writer, hOpts)
	} else {
		handler = slog.NewTextHandler(writer, hOpts)
	}
	return &Logger{slog.New(handler)}
}

func LevelFromStr(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitDefault reconfigures the package-level default logger in place.
func InitDefault(opts ...Option) {
	for _, opt := range opts {
		opt(defaultConfig)
	}
	defaultLogger = newFromConfig(defaultConfig)
	slog.SetDefault(defaultLogger.Logger)
}

// Default returns the package-level default logger.
func Default() *Logger { return defaultLogger }

var skipLoggers sync.Map

// Skip returns a cached Logger that reports its caller skip frames
// above the compiler internals that call into tqlog, so log lines
// point at the caller's code rather than this package.
func Skip(skip int) *Logger {
	if v, ok := skipLoggers.Load(skip); ok {
		return v.(*Logger)
	}
	var l *Logger
	if skip <= 0 {
		l = New(WithAddSource(false))
	} else {
		l = New(WithCallerSkip(skip))
	}
	skipLoggers.Store(skip, l)
	return l
}

func innerLog() *Logger { return Skip(1) }

type printfAttr struct {
	format string
	args   []any
}

func (a printfAttr) LogValue() slog.Value {
	return slog.StringValue(fmt.Sprintf(a.format, a.args...))
}

func (l *Logger) Infof(format string, args ...any) {
	l.LogAttrs(context.Background(), slog.LevelInfo, "", slog.Any("msg", printfAttr{format, args}))
}

func (l *Logger) Debugf(format string, args ...any) {
	l.LogAttrs(context.Background(), slog.LevelDebug, "", slog.Any("msg", printfAttr{format, args}))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.LogAttrs(context.Background(), slog.LevelWarn, "", slog.Any("msg", printfAttr{format, args}))
}

func (l *Logger) Errorf(format string, args ...any) error {
	pa := printfAttr{format, args}
	l.LogAttrs(context.Background(), slog.LevelError, "", slog.Any("msg", pa))
	return errors.New(pa.LogValue().String())
}

func Infof(format string, args ...any)  { innerLog().Infof(format, args...) }
func Debugf(format string, args ...any) { innerLog().Debugf(format, args...) }
func Warnf(format string, args ...any)  { innerLog().Warnf(format, args...) }
func Errorf(format string, args ...any) error {
	return innerLog().Errorf(format, args...)
}
