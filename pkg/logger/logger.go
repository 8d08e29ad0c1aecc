package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Leveled logger shared by the user, task and submission services.
// Every line carries a timestamp, the level and the service tag set with SetService.

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu      sync.RWMutex
	logger  *log.Logger = log.New(os.Stdout, "", 0)
	level   Level       = LevelInfo
	service string
)

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Unknown values fall back to info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = parseLevel(l)
}

func parseLevel(l string) Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// SetService tags subsequent lines with the service name.
func SetService(name string) {
	mu.Lock()
	defer mu.Unlock()
	service = name
}

// SetOutput redirects log output; tests use it to capture lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, "", 0)
}

func header(lvl string) string {
	mu.RLock()
	svc := service
	mu.RUnlock()
	h := fmt.Sprintf("%s [%s] ", time.Now().Format(time.RFC3339), strings.ToUpper(lvl))
	if svc != "" {
		h += "(" + svc + ") "
	}
	return h
}

func shouldLog(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func output() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func logf(l Level, name, format string, v ...interface{}) {
	if !shouldLog(l) {
		return
	}
	output().Printf(header(name)+format, v...)
}

func Debugf(format string, v ...interface{}) { logf(LevelDebug, "debug", format, v...) }
func Infof(format string, v ...interface{})  { logf(LevelInfo, "info", format, v...) }
func Warnf(format string, v ...interface{})  { logf(LevelWarn, "warn", format, v...) }
func Errorf(format string, v ...interface{}) { logf(LevelError, "error", format, v...) }

func Fatalf(format string, v ...interface{}) {
	output().Printf(header("fatal")+format, v...)
	os.Exit(1)
}

func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}
