package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const ansiReset = "\033[0m"

var levelStyle = map[string]struct{ tag, color string }{
	"trace": {"TRC", "\033[90m"},
	"debug": {"DBG", "\033[36m"},
	"info":  {"INF", "\033[32m"},
	"warn":  {"WRN", "\033[33m"},
	"error": {"ERR", "\033[31m"},
	"fatal": {"FTL", "\033[35m"},
}

// consoleWriter prints "HH:MM:SS [SVC][LVL] message key:value". SVC is
// the first three letters of the service name.
func consoleWriter(out io.Writer, service string, noColor bool) zerolog.ConsoleWriter {
	prefix := ""
	if len(service) >= 3 {
		prefix = "[" + strings.ToUpper(service[:3]) + "]"
		if !noColor {
			prefix = "\033[34m" + prefix + ansiReset
		}
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(v any) string {
			name := fmt.Sprint(v)
			style, ok := levelStyle[name]
			if !ok {
				return prefix + "[" + strings.ToUpper(name) + "]"
			}
			if noColor {
				return prefix + "[" + style.tag + "]"
			}
			return prefix + style.color + "[" + style.tag + "]" + ansiReset
		},
		FormatFieldName: func(v any) string { return fmt.Sprint(v) + ":" },
	}
}
