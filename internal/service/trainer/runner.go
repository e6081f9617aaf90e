package trainer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"ForecastOps/pkg/logger"
)

const (
	edaNotebook         = "01_EDA_Preprocessing.ipynb"
	experimentsNotebook = "02_Model_Experiments.ipynb"
)

// Runner executes the external training notebooks as subprocesses. The
// ticker and run id travel to the job via environment variables so
// concurrent runs never share process-global state.
type Runner struct {
	logger       *logger.Logger
	notebooksDir string
	command      []string
	phaseTimeout time.Duration
}

// Option configures Runner.
type Option func(*Runner)

// WithCommand overrides the notebook execution command. The notebook
// path is appended as the final argument.
func WithCommand(cmd []string) Option {
	return func(r *Runner) {
		if len(cmd) > 0 {
			r.command = cmd
		}
	}
}

// WithPhaseTimeout sets the per-phase wall-clock limit.
func WithPhaseTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.phaseTimeout = d
		}
	}
}

// NewRunner creates a notebook runner rooted at notebooksDir.
func NewRunner(lgr *logger.Logger, notebooksDir string, opts ...Option) *Runner {
	r := &Runner{
		logger:       lgr,
		notebooksDir: notebooksDir,
		command:      []string{"jupyter", "nbconvert", "--to", "notebook", "--execute", "--inplace"},
		phaseTimeout: 30 * time.Minute,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Check verifies both notebooks are present before a run starts.
func (r *Runner) Check() error {
	for _, nb := range []string{edaNotebook, experimentsNotebook} {
		if _, err := os.Stat(filepath.Join(r.notebooksDir, nb)); err != nil {
			return fmt.Errorf("notebook %s not found in %s", nb, r.notebooksDir)
		}
	}
	return nil
}

// RunEDA executes the EDA/preprocessing notebook.
func (r *Runner) RunEDA(ctx context.Context, symbol string, runID int64) error {
	return r.runNotebook(ctx, edaNotebook, symbol, runID)
}

// RunExperiments executes the model experiments notebook.
func (r *Runner) RunExperiments(ctx context.Context, symbol string, runID int64) error {
	return r.runNotebook(ctx, experimentsNotebook, symbol, runID)
}

func (r *Runner) runNotebook(ctx context.Context, notebook, symbol string, runID int64) error {
	runCtx, cancel := context.WithTimeout(ctx, r.phaseTimeout)
	defer cancel()

	args := append(append([]string{}, r.command[1:]...), notebook)
	cmd := exec.CommandContext(runCtx, r.command[0], args...)
	cmd.Dir = r.notebooksDir
	cmd.Env = append(os.Environ(),
		"TICKER="+symbol,
		"RUN_ID="+strconv.FormatInt(runID, 10),
	)

	start := time.Now()
	r.logger.Info("notebook execution started",
		logger.String("notebook", notebook),
		logger.String("ticker", symbol),
		logger.Int64("run_id", runID))

	out, err := cmd.CombinedOutput()
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("notebook %s timed out after %s", notebook, r.phaseTimeout)
		}
		return fmt.Errorf("notebook %s failed: %w: %s", notebook, err, tail(out, 512))
	}

	r.logger.Info("notebook execution finished",
		logger.String("notebook", notebook),
		logger.String("ticker", symbol),
		logger.Int64("run_id", runID),
		logger.Duration("elapsed", elapsed))
	return nil
}

// tail returns the last n bytes of subprocess output for error context.
func tail(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return "..." + string(b[len(b)-n:])
}
