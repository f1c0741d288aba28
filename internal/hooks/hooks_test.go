package hooks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type call struct {
	script string
	env    []string
}

type recorder struct {
	mu    sync.Mutex
	calls []call
	fail  map[string]error
}

func (r *recorder) exec(_ context.Context, path string, env []string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{script: filepath.Base(path), env: env})
	return []byte("output"), r.fail[filepath.Base(path)]
}

func (r *recorder) scripts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.script)
	}
	return out
}

func writeScript(t *testing.T, dir, point, name string, mode os.FileMode) {
	t.Helper()
	pointDir := filepath.Join(dir, point)
	require.NoError(t, os.MkdirAll(pointDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pointDir, name), []byte("#!/bin/sh\n"), mode))
}

func newTestRunner(t *testing.T, opts Options) (*Runner, *recorder) {
	t.Helper()
	r := NewRunner(opts)
	rec := &recorder{fail: map[string]error{}}
	r.exec = rec.exec
	return r, rec
}

func TestScriptsAreExecutableAndSorted(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, PointHighlight, "20-notify", 0o755)
	writeScript(t, dir, PointHighlight, "10-log", 0o755)
	writeScript(t, dir, PointHighlight, "README", 0o644)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, PointHighlight, "lib"), 0o755))

	r := NewRunner(Options{Dir: dir})

	require.Equal(t, []string{
		filepath.Join(dir, PointHighlight, "10-log"),
		filepath.Join(dir, PointHighlight, "20-notify"),
	}, r.Scripts(PointHighlight))
	require.Empty(t, r.Scripts(PointAlertFinished))
	require.Empty(t, NewRunner(Options{}).Scripts(PointHighlight))
}

func TestRunSyncPassesEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, PointAlertFinished, "10-log", 0o755)
	r, rec := newTestRunner(t, Options{Dir: dir, Async: false})

	require.NoError(t, r.Run(PointAlertFinished, map[string]string{"reason": "clicked", "slot": "3"}))

	require.Len(t, rec.calls, 1)
	env := rec.calls[0].env
	require.Equal(t, "BUFFERBELL_HOOK_POINT=alert-finished", env[0])
	require.Contains(t, env[1], "BUFFERBELL_HOOK_TIMESTAMP=")
	require.Equal(t, []string{"BUFFERBELL_REASON=clicked", "BUFFERBELL_SLOT=3"}, env[2:])
}

func TestRunSyncFailureModes(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, PointHighlight, "10-bad", 0o755)
	writeScript(t, dir, PointHighlight, "20-good", 0o755)

	for _, mode := range []string{FailureWarn, FailureIgnore} {
		r, rec := newTestRunner(t, Options{Dir: dir, FailureMode: mode})
		rec.fail["10-bad"] = errors.New("exit status 1")
		require.NoError(t, r.Run(PointHighlight, nil), mode)
		require.Equal(t, []string{"10-bad", "20-good"}, rec.scripts(), mode)
	}

	r, rec := newTestRunner(t, Options{Dir: dir, FailureMode: FailureAbort})
	rec.fail["10-bad"] = errors.New("exit status 1")
	err := r.Run(PointHighlight, nil)
	require.ErrorContains(t, err, "hook 10-bad failed")
	require.Equal(t, []string{"10-bad"}, rec.scripts())
}

func TestRunAsyncRunsInBackground(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, PointHighlight, "10-a", 0o755)
	writeScript(t, dir, PointHighlight, "20-b", 0o755)
	r, rec := newTestRunner(t, Options{Dir: dir, Async: true})

	require.NoError(t, r.Run(PointHighlight, map[string]string{"buffer_id": "irc.libera.#go"}))
	r.Wait()

	require.ElementsMatch(t, []string{"10-a", "20-b"}, rec.scripts())
}

func TestRunAsyncRespectsLimit(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, PointHighlight, "10-a", 0o755)
	writeScript(t, dir, PointHighlight, "20-b", 0o755)
	r := NewRunner(Options{Dir: dir, Async: true, MaxAsync: 1})

	release := make(chan struct{})
	var mu sync.Mutex
	var ran []string
	r.exec = func(_ context.Context, path string, _ []string) ([]byte, error) {
		mu.Lock()
		ran = append(ran, filepath.Base(path))
		mu.Unlock()
		<-release
		return nil, nil
	}

	require.NoError(t, r.Run(PointHighlight, nil))
	close(release)
	r.Wait()

	require.Equal(t, []string{"10-a"}, ran)
}

func TestRunTimesOut(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, PointHighlight, "10-slow", 0o755)
	r := NewRunner(Options{Dir: dir, FailureMode: FailureAbort, Timeout: 10 * time.Millisecond})
	r.exec = func(ctx context.Context, _ string, _ []string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	err := r.Run(PointHighlight, nil)
	require.ErrorContains(t, err, "timed out")
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(Options{})
	require.Equal(t, FailureWarn, r.opts.FailureMode)
	require.Equal(t, DefaultTimeout, r.opts.Timeout)
	require.Equal(t, DefaultMaxAsync, r.opts.MaxAsync)
}
