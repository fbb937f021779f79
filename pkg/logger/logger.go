package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"hls-service/pkg/config"
)

// Logger wraps a logrus logger configured from service configuration.
type Logger struct {
	entry *logrus.Logger
	file  *os.File
}

var (
	globalMu     sync.RWMutex
	globalLogger = &Logger{entry: logrus.StandardLogger()}
)

// NewLogger 根据配置创建日志器
func NewLogger(cfg *config.Config) *Logger {
	l := logrus.New()

	level := logrus.InfoLevel
	if cfg != nil {
		if parsed, err := logrus.ParseLevel(strings.ToLower(cfg.Log.Level)); err == nil {
			level = parsed
		}
	}
	l.SetLevel(level)

	if cfg != nil && strings.EqualFold(cfg.Log.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logger := &Logger{entry: l}

	var out io.Writer = os.Stdout
	if cfg != nil && strings.EqualFold(cfg.Log.Output, "file") && cfg.Log.Filename != "" {
		if f, err := os.OpenFile(cfg.Log.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			out = f
			logger.file = f
		}
	}
	l.SetOutput(out)

	return logger
}

// SetGlobalLogger 设置全局日志器
func SetGlobalLogger(l *Logger) {
	if l == nil {
		return
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

func get() *logrus.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger.entry
}

// Close flushes and closes the log file if one is open.
func (l *Logger) Close() {
	if l.file != nil {
		_ = l.file.Close()
	}
}

func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }

// Package-level helpers route through the global logger.

func Infof(format string, args ...interface{})  { get().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { get().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { get().Errorf(format, args...) }
func Debugf(format string, args ...interface{}) { get().Debugf(format, args...) }

// Info logs with structured fields.
func Info(msg string, fields map[string]interface{}) {
	get().WithFields(logrus.Fields(fields)).Info(msg)
}

// Warn logs with structured fields.
func Warn(msg string, fields map[string]interface{}) {
	get().WithFields(logrus.Fields(fields)).Warn(msg)
}

// Error logs with structured fields.
func Error(msg string, fields map[string]interface{}) {
	get().WithFields(logrus.Fields(fields)).Error(msg)
}

// Debug logs with optional structured fields.
func Debug(msg string, fields ...map[string]interface{}) {
	if len(fields) > 0 {
		get().WithFields(logrus.Fields(fields[0])).Debug(msg)
		return
	}
	get().Debug(msg)
}

// Fatal logs the message and exits.
func Fatal(msg string) {
	get().Fatal(msg)
}
