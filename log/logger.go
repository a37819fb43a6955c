// Package log wraps log/slog with the leveled helpers and per-module gating
// used across the compressor. Trace output is off unless the module is
// enabled, so hot interpreter paths stay quiet by default.
package log

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LevelTrace sits below slog.LevelDebug; it carries the step-by-step
// interpreter and flattener traces.
const LevelTrace slog.Level = -8

var (
	mu      sync.RWMutex
	level   = new(slog.LevelVar)
	root    *slog.Logger
	modules = map[string]bool{}
	allMods bool
)

func init() {
	level.Set(slog.LevelInfo)
	root = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// InitLogger sets the global verbosity. Accepted levels: trace, debug, info,
// warn, error.
func InitLogger(name string) {
	switch strings.ToLower(name) {
	case "trace":
		level.Set(LevelTrace)
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}
}

// EnableModules turns on trace output for a comma-separated module list;
// "all" enables every module.
func EnableModules(csv string) {
	mu.Lock()
	defer mu.Unlock()
	for _, m := range strings.Split(csv, ",") {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if m == "all" {
			allMods = true
			continue
		}
		modules[m] = true
	}
}

// ModuleEnabled reports whether trace output is on for module m.
func ModuleEnabled(m string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return allMods || modules[m]
}

// Trace logs a step-level message for module m when that module is enabled.
func Trace(m string, msg string, ctx ...any) {
	if !ModuleEnabled(m) {
		return
	}
	args := append([]any{"module", m}, ctx...)
	root.Log(context.Background(), LevelTrace, msg, args...)
}

func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }
