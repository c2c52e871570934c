// Package logger builds the zerolog loggers used across paperwork.go.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const (
	permission = 0664
)

// Builder collects the destination before the logger is made.
type Builder struct {
	writer io.Writer
	path   string
}

// Log is a made logger plus the file it writes to, if any. Callers owning
// a Log with a LogFile are responsible for closing it.
type Log struct {
	LogFile *os.File
	Logger  zerolog.Logger
}

func New() *Builder {
	return &Builder{}
}

// FromPath makes the logger append to the file at path.
func (build *Builder) FromPath(path string) *Builder {
	build.path = path
	return build
}

// FromBuffer makes the logger write to w.
func (build *Builder) FromBuffer(w io.Writer) *Builder {
	build.writer = w
	return build
}

// Make builds the logger. Without a destination it writes to stdout.
func (build *Builder) Make() (log *Log, err error) {
	log = new(Log)
	writer := build.writer
	if writer == nil {
		writer = os.Stdout
	}
	if build.path != "" {
		log.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		writer = zerolog.SyncWriter(log.LogFile)
	}
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
	return
}
