package status

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type mockMetricsProvider struct {
	activeConnections int32
	startTime         time.Time
	successes         int64
	failures          int64
}

func (m *mockMetricsProvider) GetActiveConnections() int32 { return m.activeConnections }
func (m *mockMetricsProvider) GetStartTime() time.Time     { return m.startTime }
func (m *mockMetricsProvider) GetLoginCounts() (int64, int64) {
	return m.successes, m.failures
}

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func newTestWriter(t *testing.T) (*Writer, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	w, err := New(fs, "/run/loginapp", time.Hour, "v1.2.3")
	require.NoError(t, err)
	w.now = func() time.Time { return fixedNow }
	return w, fs
}

func readRecord(t *testing.T, fs afero.Fs, path string) map[string]interface{} {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &m))
	return m
}

func TestNew(t *testing.T) {
	w, fs := newTestWriter(t)

	assert.Equal(t, "v1.2.3", w.version)
	assert.NotZero(t, w.pid)

	exists, err := afero.DirExists(fs, "/run/loginapp")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNew_RejectsNonPositiveInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -5 * time.Second} {
		w, err := New(afero.NewMemMapFs(), "/status", interval, "dev")
		assert.Error(t, err)
		assert.Nil(t, w)
	}
}

func TestWriteStartFile(t *testing.T) {
	w, fs := newTestWriter(t)
	require.NoError(t, w.WriteStartFile())

	m := readRecord(t, fs, "/run/loginapp/last_start")
	assert.Equal(t, fixedNow.Unix(), int64(m["timestamp_unix"].(int)))
	assert.Equal(t, "Mon May 04 10:00:00 2026", m["timestamp_human"])
	assert.Equal(t, "v1.2.3", m["version"])
	assert.Contains(t, m, "pid")

	_, err := fs.Stat("/run/loginapp/last_start.tmp")
	assert.Error(t, err, "temp file should be renamed away")
}

func TestWriteStopFile(t *testing.T) {
	w, fs := newTestWriter(t)
	require.NoError(t, w.WriteStopFile("signal", 90*time.Second))

	m := readRecord(t, fs, "/run/loginapp/last_stop")
	assert.Equal(t, "signal", m["reason"])
	assert.Equal(t, 90, m["uptime_seconds"])
}

func TestWriteRunningFile(t *testing.T) {
	w, fs := newTestWriter(t)
	w.SetMetricsProvider(&mockMetricsProvider{
		activeConnections: 2,
		startTime:         fixedNow.Add(-time.Minute),
		successes:         7,
		failures:          3,
	})
	require.NoError(t, w.writeRunningFile())

	m := readRecord(t, fs, "/run/loginapp/running")
	assert.Equal(t, 2, m["active_connections"])
	assert.Equal(t, 60, m["uptime_seconds"])
	assert.Equal(t, 7, m["login_successes"])
	assert.Equal(t, 3, m["login_failures"])
	assert.Contains(t, m, "goroutines")
}

func TestHeartbeat(t *testing.T) {
	w, fs := newTestWriter(t)
	w.StartHeartbeat()

	assert.Eventually(t, func() bool {
		ok, _ := afero.Exists(fs, "/run/loginapp/running")
		return ok
	}, time.Second, 10*time.Millisecond)

	w.Stop()
	w.Stop()
}
