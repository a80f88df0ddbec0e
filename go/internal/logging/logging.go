// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mcdev12/draftwatch/go/internal/fsutil"
)

const (
	// retention of the rotated log files
	maxBackups = 14
	maxAgeDays = 14
	maxSizeMB  = 50
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup points the global logger at logFile, or at stderr when logFile is
// empty, and sets the global level. The returned Closer flushes the log file.
func Setup(logFile, level string) (io.Closer, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var out io.Writer
	var closer io.Closer = nopCloser{}
	if logFile == "" {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	} else {
		if err := fsutil.EnsureParentDirs(logFile); err != nil {
			return nil, err
		}
		rotating := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		}
		out = rotating
		closer = rotating
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger

	return closer, nil
}
