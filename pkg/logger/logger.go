// Package logger provides leveled, channel-scoped logging for milky.
//
// A "channel" is a short subsystem tag ("milky", "api", "gateway") that
// prefixes every line so multi-connection logs stay readable.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type Level int32

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	}
	return "?"
}

var (
	level  atomic.Int32
	mu     sync.Mutex
	output io.Writer = os.Stderr
)

func init() {
	level.Store(int32(INFO))
}

// SetLevel sets the minimum level that will be emitted.
func SetLevel(l Level) {
	level.Store(int32(l))
}

// SetOutput redirects log output. Intended for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func emit(l Level, channel, msg string, fields map[string]any) {
	if int32(l) < level.Load() {
		return
	}

	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(l.String())
	sb.WriteString("]")
	if channel != "" {
		sb.WriteString(" [")
		sb.WriteString(channel)
		sb.WriteString("]")
	}
	sb.WriteString(" ")
	sb.WriteString(msg)

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%v", k, fields[k])
		}
	}
	sb.WriteString("\n")

	mu.Lock()
	defer mu.Unlock()
	io.WriteString(output, sb.String())
}

func Debug(msg string) { emit(DEBUG, "", msg, nil) }
func Info(msg string)  { emit(INFO, "", msg, nil) }
func Warn(msg string)  { emit(WARN, "", msg, nil) }
func Error(msg string) { emit(ERROR, "", msg, nil) }

func DebugC(channel, msg string) { emit(DEBUG, channel, msg, nil) }
func InfoC(channel, msg string)  { emit(INFO, channel, msg, nil) }
func WarnC(channel, msg string)  { emit(WARN, channel, msg, nil) }
func ErrorC(channel, msg string) { emit(ERROR, channel, msg, nil) }

func DebugCF(channel, msg string, fields map[string]any) { emit(DEBUG, channel, msg, fields) }
func InfoCF(channel, msg string, fields map[string]any)  { emit(INFO, channel, msg, fields) }
func WarnCF(channel, msg string, fields map[string]any)  { emit(WARN, channel, msg, fields) }
func ErrorCF(channel, msg string, fields map[string]any) { emit(ERROR, channel, msg, fields) }
