package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/flowcheck/pkg/errors"
)

func TestRunReruns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "intents"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Config{Paths: []string{dir}, Debounce: 50 * time.Millisecond}, func(context.Context) error {
			calls <- struct{}{}
			return errors.New("reported, not fatal")
		})
	}()

	waitCall(t, calls)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "intents", "booking_cancel.json"), []byte(`{}`), 0o644))
	waitCall(t, calls)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop")
	}
}

func TestRunMissingPath(t *testing.T) {
	err := Run(context.Background(), Config{Paths: []string{filepath.Join(t.TempDir(), "missing")}}, func(context.Context) error {
		t.Fatal("must not run")
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.As(err, new(*errors.IOError)))
}

func TestRelevant(t *testing.T) {
	s := newPathSet()
	s.dirs[filepath.Clean("/p/intents")] = struct{}{}
	s.files[filepath.Clean("/p/flows.yaml")] = struct{}{}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"file in watched tree", fsnotify.Event{Name: "/p/intents/a.json", Op: fsnotify.Write}, true},
		{"watched file", fsnotify.Event{Name: "/p/flows.yaml", Op: fsnotify.Write}, true},
		{"sibling of watched file", fsnotify.Event{Name: "/p/README.md", Op: fsnotify.Write}, false},
		{"chmod only", fsnotify.Event{Name: "/p/intents/a.json", Op: fsnotify.Chmod}, false},
		{"hidden file", fsnotify.Event{Name: "/p/intents/.a.json.tmp", Op: fsnotify.Create}, false},
		{"editor backup", fsnotify.Event{Name: "/p/intents/a.json~", Op: fsnotify.Create}, false},
		{"swap file", fsnotify.Event{Name: "/p/intents/a.json.swp", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.relevant(tt.event))
		})
	}
}

func waitCall(t *testing.T, calls <-chan struct{}) {
	t.Helper()
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("run was not called")
	}
}
