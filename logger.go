package billow

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/billow/backend"
)

// nopHandler is a slog.Handler that discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// devices in use by open voxelizers, for logger propagation.
var (
	devicesMu sync.Mutex
	devices   = map[backend.Device]int{}
)

// SetLogger configures the logger for billow and the devices it drives.
// By default billow is silent. Pass nil to silence it again.
//
// Log levels used by billow:
//   - [slog.LevelDebug]: pass dispatch details (footprints, workgroups)
//   - [slog.LevelInfo]: device selection
//   - [slog.LevelWarn]: fallbacks and release errors
//   - [slog.LevelError]: aborted voxelizations
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	devicesMu.Lock()
	defer devicesMu.Unlock()
	for d := range devices {
		propagateLogger(d, l)
	}
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

type loggerSetter interface {
	SetLogger(*slog.Logger)
}

func propagateLogger(d backend.Device, l *slog.Logger) {
	if ls, ok := d.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}

// trackDevice hands the current logger to d and keeps it updated.
func trackDevice(d backend.Device) {
	devicesMu.Lock()
	defer devicesMu.Unlock()
	devices[d]++
	propagateLogger(d, Logger())
}

func untrackDevice(d backend.Device) {
	devicesMu.Lock()
	defer devicesMu.Unlock()
	if devices[d] <= 1 {
		delete(devices, d)
		return
	}
	devices[d]--
}
