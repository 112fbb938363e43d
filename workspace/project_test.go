package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/brettbedarf/codecollab"
	"github.com/brettbedarf/codecollab/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func openStarter(t *testing.T, opts ...Option) *Project {
	t.Helper()
	w, _ := newWorkspace(t, append([]Option{WithStarter(true)}, opts...)...)
	p, err := w.Open(context.Background(), "p1")
	require.NoError(t, err)
	return p
}

func TestProject_Create_EmitsEvent(t *testing.T) {
	t.Parallel()
	obs := &mocks.MockObserver{}
	obs.On("OnEvent", mock.Anything, codecollab.Event{
		Op:      codecollab.OpCreate,
		Project: "p1",
		Path:    "/src/hooks",
		Kind:    codecollab.DirKind,
		At:      fixedNow,
	}).Once()
	p := openStarter(t, WithObservers(obs))

	v, err := p.Create(context.Background(), codecollab.CreateRequest{Name: "hooks", Kind: codecollab.DirKind, ParentPath: "/src"})

	require.NoError(t, err)
	assert.Equal(t, "/src/hooks", v.Path)
	obs.AssertExpectations(t)
}

func TestProject_Create_FailureIsSilent(t *testing.T) {
	t.Parallel()
	obs := &mocks.MockObserver{}
	p := openStarter(t, WithObservers(obs))
	before := p.Snapshot()

	_, err := p.Create(context.Background(), codecollab.CreateRequest{Name: "x.js", Kind: codecollab.FileKind, ParentPath: "/nope"})

	assert.ErrorIs(t, err, codecollab.ErrParentNotFound)
	assert.Equal(t, before, p.Snapshot())
	obs.AssertNotCalled(t, "OnEvent", mock.Anything, mock.Anything)
}

func TestProject_CreateFile_Selects(t *testing.T) {
	t.Parallel()
	p := openStarter(t)

	_, err := p.Create(context.Background(), codecollab.CreateRequest{Name: "new.js", Kind: codecollab.FileKind, ParentPath: "/src/utils"})
	require.NoError(t, err)

	sel, ok := p.Selected()
	assert.True(t, ok)
	assert.Equal(t, "/src/utils/new.js", sel)
}

func TestProject_Rename_MovesViewState(t *testing.T) {
	t.Parallel()
	obs := &mocks.MockObserver{}
	obs.On("OnEvent", mock.Anything, mock.MatchedBy(func(ev codecollab.Event) bool {
		return ev.Op == codecollab.OpRename && ev.Path == "/src" && ev.NewPath == "/lib"
	})).Once()
	p := openStarter(t, WithObservers(obs))
	ctx := context.Background()
	for _, dir := range []string{"/src", "/src/components", "/public"} {
		expanded, err := p.ToggleFolder(dir)
		require.NoError(t, err)
		require.True(t, expanded)
	}

	renamed, err := p.Rename(ctx, codecollab.RenameRequest{Path: "/src", NewName: "lib"})

	require.NoError(t, err)
	assert.True(t, renamed)
	assert.Equal(t, []string{"/lib", "/lib/components", "/public"}, p.View().Expanded)
	sel, _ := p.Selected()
	assert.Equal(t, "/lib/components/Button.jsx", sel)
	_, ok := p.Lookup("/lib/utils/helpers.js")
	assert.True(t, ok)
	obs.AssertExpectations(t)
}

func TestProject_Rename_Noop(t *testing.T) {
	t.Parallel()
	obs := &mocks.MockObserver{}
	p := openStarter(t, WithObservers(obs))

	renamed, err := p.Rename(context.Background(), codecollab.RenameRequest{Path: "/missing", NewName: "x"})

	require.NoError(t, err)
	assert.False(t, renamed)
	obs.AssertNotCalled(t, "OnEvent", mock.Anything, mock.Anything)
}

func TestProject_Delete_ForgetsViewState(t *testing.T) {
	t.Parallel()
	p := openStarter(t)
	ctx := context.Background()
	_, err := p.ToggleFolder("/src")
	require.NoError(t, err)
	_, err = p.ToggleFolder("/src/utils")
	require.NoError(t, err)
	_, err = p.ToggleFolder("/public")
	require.NoError(t, err)

	removed, err := p.Delete(ctx, "/src")

	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"/public"}, p.View().Expanded)
	_, ok := p.Selected()
	assert.False(t, ok, "selection inside the deleted subtree is cleared")

	removed, err = p.Delete(ctx, "/src")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestProject_ToggleFolder(t *testing.T) {
	t.Parallel()
	p := openStarter(t)

	on, err := p.ToggleFolder("/src")
	require.NoError(t, err)
	off, err := p.ToggleFolder("/src")
	require.NoError(t, err)

	assert.True(t, on)
	assert.False(t, off)
	assert.Empty(t, p.View().Expanded)

	_, err = p.ToggleFolder("/README.md")
	assert.ErrorIs(t, err, codecollab.ErrNotFound)
	_, err = p.ToggleFolder("/missing")
	assert.ErrorIs(t, err, codecollab.ErrNotFound)
}

func TestProject_CollapseAll(t *testing.T) {
	t.Parallel()
	p := openStarter(t)
	_, _ = p.ToggleFolder("/src")
	_, _ = p.ToggleFolder("/public")

	p.CollapseAll()

	assert.Empty(t, p.View().Expanded)
}

func TestProject_UpdateContentAndSelect(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	w, kv := newWorkspace(t, WithStarter(true))
	p, err := w.Open(ctx, "p1")
	require.NoError(t, err)

	updated, err := p.UpdateContent(ctx, codecollab.ContentRequest{Path: "/README.md", Content: "# Hi"})
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = p.UpdateContent(ctx, codecollab.ContentRequest{Path: "/src", Content: "x"})
	require.NoError(t, err)
	assert.False(t, updated)

	selected, err := p.Select(ctx, "/README.md")
	require.NoError(t, err)
	assert.True(t, selected)

	selected, err = p.Select(ctx, "/public")
	require.NoError(t, err)
	assert.False(t, selected)

	stored := storedSnapshot(t, kv, "p1")
	assert.Equal(t, "/README.md", stored.Selected)
	assert.Equal(t, "/README.md", stored.Forest[3].Path)
	assert.Equal(t, "# Hi", *stored.Forest[3].Content)
}

func TestProject_PersistFailure_KeepsChange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := &mocks.MockContentStore{}
	kv.On("Get", mock.Anything, "projects/p1/tree").Return(nil, false, nil)
	kv.On("Set", mock.Anything, "projects/p1/tree", mock.Anything).Return(nil).Once()
	kv.On("Set", mock.Anything, "projects/p1/tree", mock.Anything).Return(errors.New("disk full"))
	obs := &mocks.MockObserver{}
	obs.On("OnEvent", mock.Anything, mock.Anything).Once()
	w := New(kv, WithObservers(obs))
	p, err := w.Open(ctx, "p1")
	require.NoError(t, err)

	_, err = p.Create(ctx, codecollab.CreateRequest{Name: "a.txt", Kind: codecollab.FileKind})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	_, ok := p.Lookup("/a.txt")
	assert.True(t, ok)
	obs.AssertExpectations(t)
}

func TestProject_ConcurrentMutations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	var (
		mu     sync.Mutex
		events []codecollab.Event
	)
	obs := codecollab.ObserverFunc(func(_ context.Context, ev codecollab.Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})
	w, _ := newWorkspace(t, WithObservers(obs))
	p, err := w.Open(ctx, "p1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			_, err := p.Create(ctx, codecollab.CreateRequest{Name: fmt.Sprintf("f%02d.txt", i), Kind: codecollab.FileKind})
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	assert.Len(t, p.Snapshot().Forest, 50)
	assert.Len(t, events, 50)
	p.mu.Lock()
	defer p.mu.Unlock()
	assert.NoError(t, p.tree.Verify())
}
