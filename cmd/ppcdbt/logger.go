package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// newLogger returns a console logger writing to w at the named level.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return zerolog.New(newConsoleWriter(w)).Level(lvl).
		With().Timestamp().Logger(), nil
}

func newConsoleWriter(w io.Writer) zerolog.ConsoleWriter {
	cw := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.RFC3339}

	cw.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}

	cw.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s=", i)
	}

	return cw
}
