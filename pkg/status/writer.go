package status

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/sakhura/loginapp/pkg/logging"
)

// MetricsProvider supplies the runtime figures reported in the running file
type MetricsProvider interface {
	GetActiveConnections() int32
	GetStartTime() time.Time
	GetLoginCounts() (successes, failures int64)
}

type startRecord struct {
	TimestampUnix  int64  `yaml:"timestamp_unix"`
	TimestampHuman string `yaml:"timestamp_human"`
	PID            int    `yaml:"pid"`
	Version        string `yaml:"version"`
}

type stopRecord struct {
	TimestampUnix  int64  `yaml:"timestamp_unix"`
	TimestampHuman string `yaml:"timestamp_human"`
	Reason         string `yaml:"reason"`
	UptimeSeconds  int64  `yaml:"uptime_seconds"`
}

type runningRecord struct {
	TimestampUnix     int64  `yaml:"timestamp_unix"`
	UptimeSeconds     int64  `yaml:"uptime_seconds"`
	ActiveConnections int32  `yaml:"active_connections"`
	LoginSuccesses    int64  `yaml:"login_successes"`
	LoginFailures     int64  `yaml:"login_failures"`
	MemoryAllocMB     uint64 `yaml:"memory_alloc_mb"`
	Goroutines        int    `yaml:"goroutines"`
}

const humanTime = "Mon Jan 02 15:04:05 2006"

// Writer maintains last_start, last_stop and running files in a directory
// so external tooling can tell whether the server is healthy.
type Writer struct {
	fs              afero.Fs
	dir             string
	updateInterval  time.Duration
	pid             int
	version         string
	metricsProvider MetricsProvider
	now             func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a status Writer, creating dir if needed. updateInterval must be positive.
func New(fs afero.Fs, dir string, updateInterval time.Duration, version string) (*Writer, error) {
	if updateInterval <= 0 {
		return nil, fmt.Errorf("status update interval must be positive, got %v", updateInterval)
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create status directory: %w", err)
	}

	return &Writer{
		fs:             fs,
		dir:            dir,
		updateInterval: updateInterval,
		pid:            os.Getpid(),
		version:        version,
		now:            time.Now,
		stopCh:         make(chan struct{}),
	}, nil
}

// SetMetricsProvider sets the provider for runtime metrics
func (w *Writer) SetMetricsProvider(provider MetricsProvider) {
	w.metricsProvider = provider
}

// WriteStartFile records startup time, pid and version
func (w *Writer) WriteStartFile() error {
	now := w.now()
	if err := w.atomicWrite("last_start", startRecord{
		TimestampUnix:  now.Unix(),
		TimestampHuman: now.Format(humanTime),
		PID:            w.pid,
		Version:        w.version,
	}); err != nil {
		return fmt.Errorf("failed to write last_start: %w", err)
	}

	logging.App.Info("Wrote status file", "file", "last_start")
	return nil
}

// WriteStopFile records why and after how long the server stopped
func (w *Writer) WriteStopFile(reason string, uptime time.Duration) error {
	now := w.now()
	if err := w.atomicWrite("last_stop", stopRecord{
		TimestampUnix:  now.Unix(),
		TimestampHuman: now.Format(humanTime),
		Reason:         reason,
		UptimeSeconds:  int64(uptime.Seconds()),
	}); err != nil {
		return fmt.Errorf("failed to write last_stop: %w", err)
	}

	logging.App.Info("Wrote status file", "file", "last_stop", "reason", reason)
	return nil
}

// StartHeartbeat writes the running file now and then every updateInterval
func (w *Writer) StartHeartbeat() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.updateInterval)
		defer ticker.Stop()

		for {
			if err := w.writeRunningFile(); err != nil {
				logging.App.Error("Failed to write running file", "error", err)
			}
			select {
			case <-ticker.C:
			case <-w.stopCh:
				return
			}
		}
	}()

	logging.App.Info("Started status heartbeat", "interval", w.updateInterval)
}

// Stop stops the heartbeat. It is safe to call more than once.
func (w *Writer) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		logging.App.Info("Stopped status heartbeat")
	})
}

func (w *Writer) writeRunningFile() error {
	now := w.now()
	record := runningRecord{
		TimestampUnix: now.Unix(),
		Goroutines:    runtime.NumGoroutine(),
	}

	if w.metricsProvider != nil {
		if start := w.metricsProvider.GetStartTime(); !start.IsZero() {
			record.UptimeSeconds = int64(now.Sub(start).Seconds())
		}
		record.ActiveConnections = w.metricsProvider.GetActiveConnections()
		record.LoginSuccesses, record.LoginFailures = w.metricsProvider.GetLoginCounts()
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	record.MemoryAllocMB = memStats.Alloc / 1024 / 1024

	if err := w.atomicWrite("running", record); err != nil {
		return fmt.Errorf("failed to write running: %w", err)
	}

	logging.App.Debug("Updated running file", "active_connections", record.ActiveConnections, "goroutines", record.Goroutines)
	return nil
}

// atomicWrite marshals v as YAML into a temp file and renames it over name
func (w *Writer) atomicWrite(name string, v interface{}) error {
	content, err := yaml.Marshal(v)
	if err != nil {
		return err
	}

	path := filepath.Join(w.dir, name)
	tmpPath := path + ".tmp"
	if err := afero.WriteFile(w.fs, tmpPath, content, 0644); err != nil {
		return err
	}
	if err := w.fs.Rename(tmpPath, path); err != nil {
		w.fs.Remove(tmpPath)
		return err
	}
	return nil
}
