package obs

import (
	"io"
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"

	"dqx0.com/go/rawhttp/internal/config"
)

// NewLogger creates a JSON logger writing to output. Debug events are
// dropped unless debug is set.
func NewLogger(debug bool, output io.Writer) zerolog.Logger {
	if output == nil {
		output = os.Stderr
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Init builds the process logger from the logging config. With file
// logging enabled, output goes to a rotating file, and also to stderr in
// debug mode. The returned closer releases the file and is never nil.
func Init(debug bool, cfg config.LogConfig) (zerolog.Logger, io.Closer) {
	if !cfg.LogToFile {
		return NewLogger(debug, os.Stderr), nopCloser{}
	}
	fileLogger := &lumberjack.Logger{
		Filename:   cfg.LogFilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	var output io.Writer = fileLogger
	if debug {
		output = io.MultiWriter(fileLogger, os.Stderr)
	}
	return NewLogger(debug, output), fileLogger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
