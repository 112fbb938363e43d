package requests

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brettbedarf/codecollab/filetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchForestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nodes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: a.js\n  type: file\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan []filetree.NodeView, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchForestFile(ctx, path, 20*time.Millisecond, func(f []filetree.NodeView) {
			select {
			case changes <- f:
			default:
			}
		})
	}()

	// Writes before the watch is registered are lost, so keep saving until
	// one is seen.
	var got []filetree.NodeView
	require.Eventually(t, func() bool {
		select {
		case got = <-changes:
			return true
		default:
		}
		_ = os.WriteFile(path, []byte("- name: b.js\n  type: file\n  content: x\n- name: lib\n  type: directory\n"), 0o600)
		return false
	}, 5*time.Second, 50*time.Millisecond)

	require.Len(t, got, 2)
	assert.Equal(t, "b.js", got[0].Name)
	assert.Equal(t, "lib", got[1].Name)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatchForestFile_IgnoresSiblingsAndBadSaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nodes.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan []filetree.NodeView, 16)
	done := make(chan error, 1)
	go func() {
		done <- WatchForestFile(ctx, path, 20*time.Millisecond, func(f []filetree.NodeView) {
			select {
			case changes <- f:
			default:
			}
		})
	}()

	require.Eventually(t, func() bool {
		select {
		case <-changes:
			return true
		default:
		}
		_ = os.WriteFile(path, []byte(`[{"name":"x.js","type":"file"}]`), 0o600)
		return false
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`[]`), 0o600))
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	// Drain anything queued by the warm-up saves, then confirm neither the
	// sibling nor the broken save is delivered.
	time.Sleep(200 * time.Millisecond)
	for len(changes) > 0 {
		f := <-changes
		assert.Len(t, f, 1, "only the valid forest is ever delivered")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatchForestFile_MissingDir(t *testing.T) {
	t.Parallel()

	err := WatchForestFile(context.Background(), filepath.Join(t.TempDir(), "nope", "nodes.yaml"), 0, func([]filetree.NodeView) {})
	require.Error(t, err)
}
