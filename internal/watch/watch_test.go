package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/sqldoclint/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatch(t *testing.T, paths []string, fn Func, logger *slog.Logger) (calls chan []string, stop func()) {
	t.Helper()
	if logger == nil {
		logger = testutil.NewTestLogger(t)
	}
	calls = make(chan []string, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, paths, Options{Debounce: 20 * time.Millisecond, Logger: logger},
			func(ctx context.Context, changed []string) error {
				calls <- changed
				if fn != nil {
					return fn(ctx, changed)
				}
				return nil
			})
	}()

	stop = func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("watch did not stop")
		}
	}
	return calls, stop
}

func next(t *testing.T, calls chan []string) []string {
	t.Helper()
	select {
	case c := <-calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for check")
		return nil
	}
}

func TestRun_InitialAndChange(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.md")
	require.NoError(t, os.WriteFile(a, []byte("# A\n"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("# B\n"), 0o600))

	calls, stop := startWatch(t, []string{a, b}, nil, nil)
	defer stop()

	assert.Equal(t, []string{a, b}, next(t, calls))

	// several quick writes collapse into one check
	for range 3 {
		require.NoError(t, os.WriteFile(b, []byte("# B changed\n"), 0o600))
	}
	assert.Equal(t, []string{b}, next(t, calls))
}

func TestRun_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(a, []byte("# A\n"), 0o600))

	calls, stop := startWatch(t, []string{a}, nil, nil)
	defer stop()
	next(t, calls)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.md"), []byte("x"), 0o600))
	select {
	case c := <-calls:
		t.Fatalf("unexpected check for %v", c)
	case <-time.After(150 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(a, []byte("# A2\n"), 0o600))
	assert.Equal(t, []string{a}, next(t, calls))
}

func TestRun_ErrorsDoNotStopLoop(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(a, []byte("# A\n"), 0o600))

	logger, logs := testutil.NewCaptureLogger()
	calls, stop := startWatch(t, []string{a}, func(context.Context, []string) error {
		return errors.New("unterminated fence")
	}, logger)
	defer stop()
	next(t, calls)

	require.NoError(t, os.WriteFile(a, []byte("# A2\n"), 0o600))
	assert.Equal(t, []string{a}, next(t, calls))
	assert.Contains(t, logs.String(), "check failed")
	assert.Contains(t, logs.String(), "unterminated fence")
}

func TestRun_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "a.md")
	err := Run(context.Background(), []string{missing}, Options{}, func(context.Context, []string) error {
		t.Fatal("check must not run")
		return nil
	})
	assert.ErrorContains(t, err, "failed to watch")
}
