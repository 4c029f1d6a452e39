// Package logger wraps zerolog with the service-context conventions used
// across the pipeline: a structured, leveled logger that every crawler,
// the orchestrator, and the scoring engine log through instead of the
// standard library's log package.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog.Logger with a few convenience constructors.
type Logger struct {
	zerolog.Logger
}

// Config holds logger configuration.
type Config struct {
	Level   string
	Pretty  bool
	Service string
	Version string
	LogFile string
}

// New creates a new structured logger.
func New(cfg Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var output zerolog.LevelWriter
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	} else {
		output = os.Stdout
	}

	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, err
		}
		output = zerolog.MultiLevelWriter(output, file)
	}

	l := zerolog.New(output).With().
		Timestamp().
		Str("service", cfg.Service).
		Str("version", cfg.Version).
		Logger()

	return &Logger{l}, nil
}

// NewDefault builds a logger from environment defaults, for entrypoints
// that haven't loaded a config file yet.
func NewDefault(service string) *Logger {
	cfg := Config{
		Level:   getEnv("LOG_LEVEL", "info"),
		Pretty:  getEnv("LOG_PRETTY", "false") == "true",
		Service: service,
		Version: getEnv("APP_VERSION", "dev"),
	}

	l, err := New(cfg)
	if err != nil {
		fallback := log.With().Str("service", service).Logger()
		return &Logger{fallback}
	}
	return l
}

// WithFields returns a derived logger carrying the given context fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{ctx.Logger()}
}

// WithField returns a derived logger carrying a single context field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{l.With().Interface(key, value).Logger()}
}

// WithError returns a derived logger carrying an error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{l.With().Err(err).Logger()}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

var global *Logger

// Init sets the package-level logger from cfg.
func Init(cfg Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	global = l
	return nil
}

// InitDefault sets the package-level logger from environment defaults.
func InitDefault(service string) {
	global = NewDefault(service)
}

// Get returns the package-level logger, lazily initializing it.
func Get() *Logger {
	if global == nil {
		InitDefault("trendradar")
	}
	return global
}
