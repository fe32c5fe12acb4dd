package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestNewFileWatcher(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NotNil(t, watcher.watcher)
	assert.NotNil(t, watcher.debouncer)
	assert.NotNil(t, watcher.logger)
	assert.Empty(t, watcher.filters)
	assert.Empty(t, watcher.handlers)
}

func TestFileWatcherAddFilterAndHandler(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	watcher.AddFilter(YAMLFilter)
	watcher.AddFilter(NoHiddenFilter)
	assert.Len(t, watcher.filters, 2)

	watcher.AddHandler(func(events []ChangeEvent) error { return nil })
	assert.Len(t, watcher.handlers, 1)
}

func TestFileWatcherAddPath(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NoError(t, watcher.AddPath(t.TempDir()))
	assert.Error(t, watcher.AddPath("/non/existent/path"))

	err = watcher.AddPath("../../../etc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "traversal")
}

func TestFileWatcherAddRecursive(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))

	require.NoError(t, watcher.AddRecursive(root))

	watched := watcher.watcher.WatchList()
	assert.Contains(t, watched, root)
	assert.Contains(t, watched, filepath.Join(root, "a", "b"))
	assert.NotContains(t, watched, filepath.Join(root, ".git"))
}

func TestFileWatcherDeliversSnippetChanges(t *testing.T) {
	watcher, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	dir := t.TempDir()
	require.NoError(t, watcher.AddRecursive(dir))
	watcher.AddFilter(YAMLFilter)
	watcher.AddFilter(NoHiddenFilter)

	var (
		mu       sync.Mutex
		received []ChangeEvent
	)
	watcher.AddHandler(func(events []ChangeEvent) error {
		mu.Lock()
		received = append(received, events...)
		mu.Unlock()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.yaml"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte("snippets: []"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, event := range received {
		assert.Equal(t, filepath.Join(dir, "extra.yaml"), event.Path)
	}
}

func TestFileWatcherWatchesNewDirectories(t *testing.T) {
	watcher, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	dir := t.TempDir()
	require.NoError(t, watcher.AddPath(dir))
	watcher.AddFilter(YAMLFilter)

	var (
		mu    sync.Mutex
		paths []string
	)
	watcher.AddHandler(func(events []ChangeEvent) error {
		mu.Lock()
		for _, e := range events {
			paths = append(paths, e.Path)
		}
		mu.Unlock()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	sub := filepath.Join(dir, "more")
	require.NoError(t, os.Mkdir(sub, 0755))

	assert.Eventually(t, func() bool {
		for _, w := range watcher.watcher.WatchList() {
			if w == sub {
				return true
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)

	target := filepath.Join(sub, "later.yaml")
	require.NoError(t, os.WriteFile(target, []byte("snippets: []"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, p := range paths {
			if p == target {
				return true
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)
}

func TestFilters(t *testing.T) {
	testCases := []struct {
		path   string
		yaml   bool
		hidden bool
		temp   bool
	}{
		{"snippets/a.yaml", true, true, true},
		{"snippets/b.YML", true, true, true},
		{"snippets/.a.yaml", true, false, true},
		{"snippets/a.yaml~", false, true, false},
		{"snippets/a.yaml.swp", false, true, false},
		{"snippets/#a.yaml#", false, true, false},
		{"snippets/readme.md", false, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.yaml, YAMLFilter(tc.path), "yaml")
			assert.Equal(t, tc.hidden, NoHiddenFilter(tc.path), "hidden")
			assert.Equal(t, tc.temp, NoEditorTempFilter(tc.path), "temp")
		})
	}
}

func TestDebouncer(t *testing.T) {
	debouncer := newDebouncer(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go debouncer.start(ctx)

	debouncer.events <- ChangeEvent{Path: "b.yaml", Type: EventTypeCreated}
	debouncer.events <- ChangeEvent{Path: "b.yaml", Type: EventTypeModified}
	debouncer.events <- ChangeEvent{Path: "a.yaml", Type: EventTypeModified}

	select {
	case events := <-debouncer.output:
		require.Len(t, events, 2)
		assert.Equal(t, "a.yaml", events[0].Path)
		assert.Equal(t, "b.yaml", events[1].Path)
		assert.Equal(t, EventTypeModified, events[1].Type)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced events were not delivered")
	}
}

func TestFileWatcherHandlerErrorDoesNotStopProcessing(t *testing.T) {
	watcher, err := NewFileWatcher(20*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	var (
		mu    sync.Mutex
		calls int
	)
	watcher.AddHandler(func(events []ChangeEvent) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return fmt.Errorf("reload failed")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	watcher.debouncer.output <- []ChangeEvent{{Path: "a.yaml"}}
	watcher.debouncer.output <- []ChangeEvent{{Path: "b.yaml"}}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 2
	}, time.Second, 10*time.Millisecond)
}
