package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

var (
	globalLogger log.Logger
	loggerInit   sync.Once
	loggerMu     sync.RWMutex
)

func GlobalLogger() log.Logger {
	loggerInit.Do(func() {
		loggerMu.Lock()
		defer loggerMu.Unlock()
		if globalLogger == nil {
			globalLogger = NewLogger(os.Stderr, level.AllowInfo())
		}
	})
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return globalLogger
}

// SetGlobalLogger replaces the logger returned by GlobalLogger.
func SetGlobalLogger(logger log.Logger) {
	loggerInit.Do(func() {})
	loggerMu.Lock()
	defer loggerMu.Unlock()
	globalLogger = logger
}

func NewLogger(w io.Writer, allow level.Option) log.Logger {
	logger := log.NewJSONLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, allow)
	logger = log.With(logger, "caller", log.DefaultCaller, "ts", log.DefaultTimestamp)
	return logger
}

// ParseLevel maps a LOG_LEVEL value to a go-kit level filter.
func ParseLevel(name string) (level.Option, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return level.AllowDebug(), nil
	case "", "info":
		return level.AllowInfo(), nil
	case "warn", "warning":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	case "none":
		return level.AllowNone(), nil
	}
	return nil, fmt.Errorf("unknown log level %q", name)
}
