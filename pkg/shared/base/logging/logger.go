// 指示: miu200521358
// Package logging はレベル付きロガーと既定ロガーを提供する。
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogLevel はログレベルを表す。
type LogLevel = slog.Level

const (
	LOG_LEVEL_VERBOSE LogLevel = slog.LevelDebug - 4
	LOG_LEVEL_DEBUG   LogLevel = slog.LevelDebug
	LOG_LEVEL_INFO    LogLevel = slog.LevelInfo
	LOG_LEVEL_WARN    LogLevel = slog.LevelWarn
	LOG_LEVEL_ERROR   LogLevel = slog.LevelError
)

// VerboseIndex は冗長ログの出力チャネルを表す。
type VerboseIndex int

const (
	// VERBOSE_INDEX_MERGE はマージの再割当追跡を表す。
	VERBOSE_INDEX_MERGE VerboseIndex = iota
	// VERBOSE_INDEX_IO はPMX読み書きの追跡を表す。
	VERBOSE_INDEX_IO
)

// ILogger はロガーの契約を表す。
type ILogger interface {
	Verbose(index VerboseIndex, msg string, params ...any)
	Debug(msg string, params ...any)
	Info(msg string, params ...any)
	Warn(msg string, params ...any)
	Error(msg string, params ...any)
	IsVerboseEnabled(index VerboseIndex) bool
	Level() LogLevel
}

// Logger は slog を用いたロガー実装。
type Logger struct {
	mu       sync.RWMutex
	handler  *slog.Logger
	level    *slog.LevelVar
	verboses map[VerboseIndex]bool
}

var (
	defaultLogger ILogger = NewLogger(os.Stderr, LOG_LEVEL_INFO)
	defaultMu     sync.RWMutex
)

// NewLogger はロガーを生成する。
func NewLogger(w io.Writer, level LogLevel) *Logger {
	levelVar := &slog.LevelVar{}
	levelVar.Set(level)
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar})
	return &Logger{
		handler:  slog.New(handler),
		level:    levelVar,
		verboses: map[VerboseIndex]bool{},
	}
}

// DefaultLogger は既定ロガーを返す。
func DefaultLogger() ILogger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger は既定ロガーを差し替える。nil は無視する。
func SetDefaultLogger(logger ILogger) {
	if logger == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// ParseLevel は設定文字列からログレベルを解決する。
func ParseLevel(value string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "info":
		return LOG_LEVEL_INFO, nil
	case "verbose":
		return LOG_LEVEL_VERBOSE, nil
	case "debug":
		return LOG_LEVEL_DEBUG, nil
	case "warn", "warning":
		return LOG_LEVEL_WARN, nil
	case "error":
		return LOG_LEVEL_ERROR, nil
	}
	return LOG_LEVEL_INFO, fmt.Errorf("ログレベルが不正です: %s", value)
}

// SetLevel はログレベルを変更する。
func (l *Logger) SetLevel(level LogLevel) {
	l.level.Set(level)
}

// Level は現在のログレベルを返す。
func (l *Logger) Level() LogLevel {
	return l.level.Level()
}

// EnableVerbose は冗長ログのチャネルを有効にする。
func (l *Logger) EnableVerbose(index VerboseIndex) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verboses[index] = true
}

// IsVerboseEnabled は冗長ログのチャネルが有効か判定する。
func (l *Logger) IsVerboseEnabled(index VerboseIndex) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verboses[index] && l.level.Level() <= LOG_LEVEL_VERBOSE
}

// Verbose は冗長ログを出力する。
func (l *Logger) Verbose(index VerboseIndex, msg string, params ...any) {
	if !l.IsVerboseEnabled(index) {
		return
	}
	l.log(LOG_LEVEL_VERBOSE, msg, params...)
}

// Debug はデバッグログを出力する。
func (l *Logger) Debug(msg string, params ...any) {
	l.log(LOG_LEVEL_DEBUG, msg, params...)
}

// Info は情報ログを出力する。
func (l *Logger) Info(msg string, params ...any) {
	l.log(LOG_LEVEL_INFO, msg, params...)
}

// Warn は警告ログを出力する。
func (l *Logger) Warn(msg string, params ...any) {
	l.log(LOG_LEVEL_WARN, msg, params...)
}

// Error はエラーログを出力する。
func (l *Logger) Error(msg string, params ...any) {
	l.log(LOG_LEVEL_ERROR, msg, params...)
}

func (l *Logger) log(level LogLevel, msg string, params ...any) {
	ctx := context.Background()
	if !l.handler.Enabled(ctx, level) {
		return
	}
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	l.handler.Log(ctx, level, msg)
}
