// Package logger provides the leveled logger shared by the server and
// the client facade. Because shellviz is instrumentation inside someone
// else's program, everything above DEBUG is kept terse: a transport
// failure is a single WARN line, never a panic.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type Level int

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
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level. Unknown values fall back
// to INFO.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

type Logger struct {
	mu      sync.Mutex
	level   Level
	outputs []io.Writer
}

func NewLogger(level Level, outputs []io.Writer) *Logger {
	return &Logger{
		level:   level,
		outputs: outputs,
	}
}

func (l *Logger) log(level Level, message string) {
	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] %s shellviz: %s\n", timestamp, level.String(), message)

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, output := range l.outputs {
		output.Write([]byte(line))
	}
}

func (l *Logger) Debug(format string, args ...any) { l.logf(DEBUG, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.logf(INFO, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.logf(WARN, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.logf(ERROR, format, args...) }

func (l *Logger) logf(level Level, format string, args ...any) {
	if len(args) == 0 {
		l.log(level, format)
		return
	}
	l.log(level, fmt.Sprintf(format, args...))
}

// CreateLogFile opens (or creates) the log file, rotating it first if
// it has grown past maxSizeMB.
func CreateLogFile(logPath string, maxSizeMB int) (*os.File, error) {
	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err == nil && maxSizeMB > 0 && info.Size() > int64(maxSizeMB)*1024*1024 {
		file.Close()
		rotateLog(logPath)
		file, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file after rotation: %w", err)
		}
	}

	return file, nil
}

func rotateLog(logPath string) {
	timestamp := time.Now().Format("20060102-150405")
	os.Rename(logPath, fmt.Sprintf("%s.%s", logPath, timestamp))
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

// SetGlobalLogger sets the shared logger instance.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// GetGlobalLogger returns the shared logger, creating a stderr INFO
// logger on first use. SHELLVIZ_LOG_LEVEL overrides the default level.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		level := INFO
		if v := os.Getenv("SHELLVIZ_LOG_LEVEL"); v != "" {
			level = ParseLevel(v)
		}
		globalLogger = NewLogger(level, []io.Writer{os.Stderr})
	}
	return globalLogger
}

// Package-level convenience functions on the shared logger.
func Debug(format string, args ...any) { GetGlobalLogger().Debug(format, args...) }
func Info(format string, args ...any)  { GetGlobalLogger().Info(format, args...) }
func Warn(format string, args ...any)  { GetGlobalLogger().Warn(format, args...) }
func Error(format string, args ...any) { GetGlobalLogger().Error(format, args...) }
