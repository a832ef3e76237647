package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

func isConsole(format string) bool {
	switch strings.ToLower(format) {
	case FormatConsole, FormatPretty, "text":
		return true
	}
	return false
}

const (
	ansiReset = "\033[0m"
	ansiBlue  = "\033[34m"
)

var levelColors = map[string]string{
	"DBG": "\033[36m",
	"INF": "\033[32m",
	"WRN": "\033[33m",
	"ERR": "\033[31m",
	"FTL": "\033[35m",
}

func paint(color, s string, plain bool) string {
	if plain || color == "" {
		return s
	}
	return color + s + ansiReset
}

// consoleWriter prints "[VOI][INF] message key:value" lines; the service
// prefix is the first three letters of the service name.
func consoleWriter(cfg *Config, serviceName string, w io.Writer) zerolog.ConsoleWriter {
	prefix := ""
	if len(serviceName) >= 3 && serviceName != "default" {
		prefix = paint(ansiBlue, "["+strings.ToUpper(serviceName[:3])+"]", cfg.NoColor)
	}
	return zerolog.ConsoleWriter{
		Out:           w,
		NoColor:       cfg.NoColor,
		TimeFormat:    "15:04:05",
		FieldsExclude: []string{FieldService},
		FormatLevel: func(i any) string {
			lvl := strings.ToUpper(fmt.Sprint(i))
			if short, ok := zerolog.FormattedLevels[levelOf(lvl)]; ok {
				lvl = short
			}
			return prefix + paint(levelColors[lvl], "["+lvl+"]", cfg.NoColor)
		},
		FormatFieldName: func(i any) string { return fmt.Sprint(i) + ":" },
	}
}

func levelOf(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel
	}
	return lvl
}
