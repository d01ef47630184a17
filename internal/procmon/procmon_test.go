package procmon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script in t.TempDir() and
// returns its path.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "converter.sh")
	full := "#!/bin/sh\n" + body
	require.NoError(t, os.WriteFile(path, []byte(full), 0o755))
	return path
}

func drainDone(t *testing.T, h *Handle) Result {
	t.Helper()
	select {
	case res := <-h.Done:
		return res
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for Done")
		return Result{}
	}
}

func TestRun_Success(t *testing.T) {
	script := writeScript(t, `
echo "extracting archive"
echo "processing data"
echo "completed successfully"
exit 0
`)
	m := New(script, Options{})
	h := m.Run(context.Background())

	var percents []int
	for p := range h.Progress {
		percents = append(percents, p.Percent)
	}
	res := drainDone(t, h)

	assert.Equal(t, StatusSucceeded, res.Status)
	assert.Equal(t, 0, res.ExitCode)
	require.NotEmpty(t, percents)
	for i := 1; i < len(percents); i++ {
		assert.GreaterOrEqual(t, percents[i], percents[i-1], "progress must be monotonic")
	}
	assert.Equal(t, 100, percents[len(percents)-1])
}

func TestRun_Failure(t *testing.T) {
	script := writeScript(t, `
echo "something went wrong" 1>&2
exit 1
`)
	m := New(script, Options{})
	h := m.Run(context.Background())
	for range h.Progress {
	}
	res := drainDone(t, h)

	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Stderr, "something went wrong")
}

func TestRun_Cancel(t *testing.T) {
	script := writeScript(t, `sleep 30`)
	m := New(script, Options{GracePeriod: 200 * time.Millisecond})
	h := m.Run(context.Background())

	go func() {
		for range h.Progress {
		}
	}()

	time.Sleep(100 * time.Millisecond)
	h.Cancel()

	res := drainDone(t, h)
	assert.Equal(t, StatusCancelled, res.Status)
}

func TestRun_CancelIsIdempotent(t *testing.T) {
	script := writeScript(t, `sleep 5`)
	m := New(script, Options{GracePeriod: 100 * time.Millisecond})
	h := m.Run(context.Background())

	go func() {
		for range h.Progress {
		}
	}()

	assert.NotPanics(t, func() {
		h.Cancel()
		h.Cancel()
		h.Cancel()
	})
	drainDone(t, h)
}

func TestRun_TimeoutKillsProcess(t *testing.T) {
	script := writeScript(t, `sleep 30`)
	m := New(script, Options{Timeout: 100 * time.Millisecond})
	h := m.Run(context.Background())

	go func() {
		for range h.Progress {
		}
	}()

	res := drainDone(t, h)
	assert.Equal(t, StatusKilledAfterTimeout, res.Status)
}

func TestProbe_MissingConverter(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "does-not-exist"), Options{})
	err := m.Probe(context.Background())
	assert.Error(t, err)
}

func TestProbe_Success(t *testing.T) {
	script := writeScript(t, `
if [ "$1" = "--version" ]; then
  echo "converter 1.0"
  exit 0
fi
exit 1
`)
	m := New(script, Options{})
	err := m.Probe(context.Background())
	assert.NoError(t, err)
}

func TestOptions_DefaultsApplied(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, DefaultTimeout, opts.Timeout)
	assert.Equal(t, DefaultInitTimeout, opts.InitTimeout)
	assert.Equal(t, DefaultGracePeriod, opts.GracePeriod)
}
