package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cristianoliveira/bufferbell/internal/hooks"
	"github.com/cristianoliveira/bufferbell/internal/lifecycle"
	"github.com/cristianoliveira/bufferbell/internal/logging"
	"github.com/stretchr/testify/require"
)

type warnLog struct {
	logging.Logger
	warnings []string
}

func (w *warnLog) Warn(msg string, args ...any) { w.warnings = append(w.warnings, msg) }

func TestFinishedHooksLogsAbort(t *testing.T) {
	dir := t.TempDir()
	pointDir := filepath.Join(dir, hooks.PointAlertFinished)
	require.NoError(t, os.MkdirAll(pointDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pointDir, "10-fail"), []byte("#!/bin/sh\nexit 1\n"), 0o755))

	runner := hooks.NewRunner(hooks.Options{Dir: dir, FailureMode: hooks.FailureAbort})
	log := &warnLog{Logger: logging.Nop()}

	finishedHooks(runner, log)(3, lifecycle.ReasonClicked)

	require.Equal(t, []string{"alert-finished hook aborted"}, log.warnings)
}

func TestFinishedHooksQuietWithoutScripts(t *testing.T) {
	runner := hooks.NewRunner(hooks.Options{Dir: t.TempDir(), FailureMode: hooks.FailureAbort})
	log := &warnLog{Logger: logging.Nop()}

	finishedHooks(runner, log)(1, lifecycle.ReasonExpired)

	require.Empty(t, log.warnings)
}
