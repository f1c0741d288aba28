// Package hooks runs user scripts when alerts are raised and finished.
//
// Scripts live in <hooks_dir>/<point>/ and run in name order. Each receives
// the event as BUFFERBELL_* environment variables.
package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/bufferbell/internal/config"
	"github.com/cristianoliveira/bufferbell/internal/logging"
)

// Hook points.
const (
	PointHighlight     = "highlight"
	PointAlertFinished = "alert-finished"
)

// Failure modes.
const (
	FailureWarn   = "warn"
	FailureIgnore = "ignore"
	FailureAbort  = "abort"
)

const (
	// DefaultTimeout bounds a single script.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxAsync bounds the number of scripts running in the background.
	DefaultMaxAsync = 10
)

// Options configures a Runner.
type Options struct {
	Dir         string
	FailureMode string
	Async       bool
	Timeout     time.Duration
	MaxAsync    int
	Logger      logging.Logger
}

// OptionsFromConfig reads hook options from the loaded configuration.
func OptionsFromConfig() Options {
	return Options{
		Dir:         config.Get("hooks_dir", ""),
		FailureMode: config.Get("hooks_failure_mode", FailureWarn),
		Async:       config.GetBool("hooks_async", true),
		Timeout:     time.Duration(config.GetInt("hooks_timeout", int(DefaultTimeout/time.Second))) * time.Second,
		MaxAsync:    config.GetInt("hooks_max_async", DefaultMaxAsync),
	}
}

// Runner executes hook scripts.
type Runner struct {
	opts Options
	log  logging.Logger
	exec func(ctx context.Context, path string, env []string) ([]byte, error)

	mu      sync.Mutex
	pending int
	wg      sync.WaitGroup
}

// NewRunner creates a Runner.
func NewRunner(opts Options) *Runner {
	if opts.FailureMode == "" {
		opts.FailureMode = FailureWarn
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxAsync <= 0 {
		opts.MaxAsync = DefaultMaxAsync
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Runner{opts: opts, log: log, exec: runScript}
}

func runScript(ctx context.Context, path string, env []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path)
	cmd.Env = append(os.Environ(), env...)
	return cmd.CombinedOutput()
}

// Scripts returns the executable scripts for point, sorted by name.
func (r *Runner) Scripts(point string) []string {
	if r.opts.Dir == "" {
		return nil
	}
	dir := filepath.Join(r.opts.Dir, point)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var scripts []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Mode()&0111 == 0 {
			continue
		}
		scripts = append(scripts, filepath.Join(dir, e.Name()))
	}
	sort.Strings(scripts)
	return scripts
}

// Run executes the scripts for point with vars exported as BUFFERBELL_<KEY>.
// In async mode scripts run in the background and Run returns nil; scripts
// over the concurrency limit are skipped. In sync mode an abort failure
// mode stops at the first failing script and returns its error.
func (r *Runner) Run(point string, vars map[string]string) error {
	scripts := r.Scripts(point)
	if len(scripts) == 0 {
		return nil
	}
	env := buildEnv(point, vars)
	r.log.Debug("running hooks", "point", point, "scripts", len(scripts))

	for _, script := range scripts {
		if !r.opts.Async {
			if err := r.runOne(script, env); err != nil && r.opts.FailureMode == FailureAbort {
				return err
			}
			continue
		}
		if !r.acquire() {
			r.log.Warn("too many pending hooks, skipping", "script", script, "max", r.opts.MaxAsync)
			continue
		}
		go func(script string) {
			defer r.release()
			_ = r.runOne(script, env)
		}(script)
	}
	return nil
}

func (r *Runner) runOne(script string, env []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.opts.Timeout)
	defer cancel()

	start := time.Now()
	out, err := r.exec(ctx, script, env)
	if err == nil {
		r.log.Debug("hook completed", "script", script, "duration", time.Since(start))
		return nil
	}
	if ctx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("timed out after %s: %w", r.opts.Timeout, err)
	}
	err = fmt.Errorf("hook %s failed: %w", filepath.Base(script), err)
	if r.opts.FailureMode != FailureIgnore {
		r.log.Warn("hook failed", "script", script, "error", err, "output", strings.TrimSpace(string(out)))
	}
	return err
}

func (r *Runner) acquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending >= r.opts.MaxAsync {
		return false
	}
	r.pending++
	r.wg.Add(1)
	return true
}

func (r *Runner) release() {
	r.mu.Lock()
	r.pending--
	r.mu.Unlock()
	r.wg.Done()
}

// Wait blocks until every background script has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// buildEnv exports vars in key order after the hook point and timestamp.
func buildEnv(point string, vars map[string]string) []string {
	env := []string{
		"BUFFERBELL_HOOK_POINT=" + point,
		"BUFFERBELL_HOOK_TIMESTAMP=" + time.Now().Format(time.RFC3339),
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, "BUFFERBELL_"+strings.ToUpper(k)+"="+vars[k])
	}
	return env
}
