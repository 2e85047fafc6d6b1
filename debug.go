package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const debugLogName = "cyber-calendar-debug.log"

var (
	logger   = newDiscardLogger()
	debugMu  sync.Mutex
	debugLog *os.File
)

func newDiscardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)
	return log
}

// EnableDebugLogging points the logger at a file in the temp dir. The terminal
// belongs to the UI, so nothing is ever written to stdout.
func EnableDebugLogging(enabled bool) {
	debugMu.Lock()
	defer debugMu.Unlock()
	if !enabled {
		logger.SetOutput(io.Discard)
		logger.SetLevel(logrus.PanicLevel)
		return
	}
	if debugLog == nil {
		path := filepath.Join(os.TempDir(), debugLogName)
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return
		}
		debugLog = file
	}
	configureLogger(logger, debugLog)
}

func configureLogger(log *logrus.Logger, out io.Writer) {
	level, err := logrus.ParseLevel(envOr("LOG_LEVEL", "debug"))
	if err != nil {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: true,
		})
	}
	log.SetOutput(out)
}

func DebugLogf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func closeDebugLog() {
	debugMu.Lock()
	defer debugMu.Unlock()
	if debugLog != nil {
		_ = debugLog.Close()
		debugLog = nil
	}
	logger.SetOutput(io.Discard)
}
