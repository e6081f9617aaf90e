package trainer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ForecastOps/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	lgr, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return lgr
}

func notebooksDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestCheckMissingNotebooks(t *testing.T) {
	r := NewRunner(newTestLogger(t), notebooksDir(t))

	err := r.Check()
	if err == nil {
		t.Fatal("expected error for empty notebooks dir")
	}
	if !strings.Contains(err.Error(), "01_EDA_Preprocessing.ipynb") {
		t.Fatalf("error should name the missing notebook: %v", err)
	}
}

func TestCheckPartialNotebooks(t *testing.T) {
	r := NewRunner(newTestLogger(t), notebooksDir(t, "01_EDA_Preprocessing.ipynb"))

	err := r.Check()
	if err == nil {
		t.Fatal("expected error when experiments notebook missing")
	}
	if !strings.Contains(err.Error(), "02_Model_Experiments.ipynb") {
		t.Fatalf("error should name the missing notebook: %v", err)
	}
}

func TestCheckAllNotebooksPresent(t *testing.T) {
	r := NewRunner(newTestLogger(t), notebooksDir(t, "01_EDA_Preprocessing.ipynb", "02_Model_Experiments.ipynb"))

	if err := r.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestRunEDASucceeds(t *testing.T) {
	dir := notebooksDir(t, "01_EDA_Preprocessing.ipynb", "02_Model_Experiments.ipynb")
	r := NewRunner(newTestLogger(t), dir, WithCommand([]string{"true"}))

	if err := r.RunEDA(context.Background(), "AAPL", 1); err != nil {
		t.Fatalf("run eda: %v", err)
	}
}

func TestRunExperimentsFailureIncludesOutput(t *testing.T) {
	dir := notebooksDir(t, "01_EDA_Preprocessing.ipynb", "02_Model_Experiments.ipynb")
	r := NewRunner(newTestLogger(t), dir, WithCommand([]string{"sh", "-c", "echo kernel died; exit 1"}))

	err := r.RunExperiments(context.Background(), "AAPL", 1)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(err.Error(), "02_Model_Experiments.ipynb") {
		t.Fatalf("error should name the notebook: %v", err)
	}
	if !strings.Contains(err.Error(), "kernel died") {
		t.Fatalf("error should carry subprocess output: %v", err)
	}
}

func TestRunNotebookTimeout(t *testing.T) {
	dir := notebooksDir(t, "01_EDA_Preprocessing.ipynb", "02_Model_Experiments.ipynb")
	r := NewRunner(newTestLogger(t), dir,
		WithCommand([]string{"sh", "-c", "sleep 5"}),
		WithPhaseTimeout(50*time.Millisecond),
	)

	err := r.RunEDA(context.Background(), "AAPL", 1)
	if err == nil {
		t.Fatal("expected timeout")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("expected timeout error, got %v", err)
	}
}
