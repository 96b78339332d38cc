package logging

import "os"

var globalLogger *Logger

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	globalLogger = New(Config{
		Level:       level,
		Output:      os.Stdout,
		EnableColor: os.Getenv("LOG_COLOR") != "false",
	})
}

// Configure replaces the global logger.
func Configure(config Config) {
	globalLogger = New(config)
}

// GetGlobalLogger returns the global logger instance.
func GetGlobalLogger() *Logger {
	return globalLogger
}

// Package-level logging through the global logger.

func Debug(args ...interface{}) { globalLogger.Debug(args...) }
func Info(args ...interface{})  { globalLogger.Info(args...) }
func Warn(args ...interface{})  { globalLogger.Warn(args...) }
func Error(args ...interface{}) { globalLogger.Error(args...) }
func Fatal(args ...interface{}) { globalLogger.Fatal(args...) }

func Debugf(format string, args ...interface{}) { globalLogger.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { globalLogger.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { globalLogger.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { globalLogger.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { globalLogger.Fatalf(format, args...) }

// WithPrefix returns a child of the global logger scoped to a component.
func WithPrefix(prefix string) *Logger {
	return globalLogger.WithPrefix(prefix)
}
