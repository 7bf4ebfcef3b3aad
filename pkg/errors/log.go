package errors

import (
	"sync"

	"github.com/iotaledger/hive.go/log"
)

// LogHandler is an ErrorHandler that writes errors to a hive.go logger.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Logger receives the output. A root logger is created on first use when nil.
	Logger log.Logger

	once sync.Once
}

func (h *LogHandler) logger() log.Logger {
	h.once.Do(func() {
		if h.Logger == nil {
			h.Logger = log.NewLogger()
		}
	})
	return h.Logger
}

// HandleError logs a BindError.
func (h *LogHandler) HandleError(err *BindError) {
	if err == nil {
		return
	}
	if h.Verbose {
		if err.Binder != "" {
			h.logger().LogErrorf("[bindable error] %s [%s] binder=%s: %v", err.Op, err.Kind, err.Binder, err.Err)
		} else {
			h.logger().LogErrorf("[bindable error] %s [%s]: %v", err.Op, err.Kind, err.Err)
		}
		if err.StackTrace != "" {
			h.logger().LogErrorf("Stack trace:\n%s", err.StackTrace)
		}
	} else {
		h.logger().LogErrorf("[bindable error] %s: %v", err.Op, err.Err)
	}
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Op != "" {
		h.logger().LogErrorf("[bindable panic] %s: %v", err.Op, err.Value)
	} else {
		h.logger().LogErrorf("[bindable panic] %v", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		h.logger().LogErrorf("Stack trace:\n%s", err.StackTrace)
	}
}
