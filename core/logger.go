package core

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/wasm96/engine"
	"github.com/wippyai/wasm96/host"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
	loggerMu   sync.Mutex
)

// Logger returns the runtime logger, a no-op logger by default
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		loggerMu.Lock()
		defer loggerMu.Unlock()
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	loggerMu.Lock()
	defer loggerMu.Unlock()
	return logger
}

// SetLogger installs l as the runtime, engine and host logger. A nil
// logger restores the no-op logger everywhere.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
	engine.SetLogger(l.Named("engine"))
	host.SetLogger(l.Named("host"))
}
