package billow

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/billow/backend/software"
)

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("nopHandler.Enabled(%v) = true, want false", level)
		}
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("nopHandler.Handle() = %v, want nil", err)
	}
	if _, ok := h.WithAttrs([]slog.Attr{slog.String("key", "val")}).(nopHandler); !ok {
		t.Error("WithAttrs() should return nopHandler")
	}
	if _, ok := h.WithGroup("group").(nopHandler); !ok {
		t.Error("WithGroup() should return nopHandler")
	}
}

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(custom)
	if Logger() != custom {
		t.Fatal("Logger() did not return the custom logger")
	}

	vx := newVoxelizer(t, newCube(t))
	if err := vx.Voxelize(frontFrame()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "voxelizer ready") {
		t.Errorf("expected construction to be logged, got: %s", buf.String())
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should produce a disabled logger")
	}
}

// loggingDevice records the logger handed to it.
type loggingDevice struct {
	*software.Device
	mu     sync.Mutex
	logger *slog.Logger
}

func (d *loggingDevice) SetLogger(l *slog.Logger) {
	d.mu.Lock()
	d.logger = l
	d.mu.Unlock()
}

func (d *loggingDevice) current() *slog.Logger {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.logger
}

func TestSetLoggerPropagatesToDevice(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	first := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	SetLogger(first)

	sw := software.NewWithWorkers(1)
	if err := sw.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(sw.Close)
	dev := &loggingDevice{Device: sw}

	vx, err := NewVoxelizer(newCube(t), 8, 8, WithDevice(dev))
	if err != nil {
		t.Fatal(err)
	}
	if dev.current() != first {
		t.Error("NewVoxelizer did not hand the current logger to the device")
	}

	second := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	SetLogger(second)
	if dev.current() != second {
		t.Error("SetLogger did not propagate to the device")
	}

	if err := vx.Close(); err != nil {
		t.Fatal(err)
	}
	SetLogger(first)
	if dev.current() != second {
		t.Error("closed voxelizer's device still receives loggers")
	}
}

func TestLoggerConcurrentAccess(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	const goroutines = 100
	for range goroutines {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Logger().Debug("concurrent read")
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
			SetLogger(nil)
		}()
	}
	wg.Wait()
}

func BenchmarkLoggerDisabledLog(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("message", "key", "value")
	}
}
