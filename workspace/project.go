package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/brettbedarf/codecollab"
	"github.com/brettbedarf/codecollab/filetree"
	"github.com/brettbedarf/codecollab/internal/util"
)

// Project is one live project tree. All methods are safe for concurrent use;
// mutations are applied one at a time, persisted, then reported to observers
// in the order they were applied.
type Project struct {
	id string

	mu      sync.Mutex
	tree    *filetree.Store
	view    ViewState
	removed bool

	kv        codecollab.ContentStore
	observers []codecollab.Observer
	now       func() time.Time
}

// View is the externally visible state of a project
type View struct {
	ID       string            `json:"id"`
	Tree     filetree.Snapshot `json:"tree"`
	Expanded []string          `json:"expanded"`
}

const (
	projectKeyPrefix = "projects/"
	treeKeySuffix    = "/tree"
)

func treeKey(projectID string) string {
	return projectKeyPrefix + projectID + treeKeySuffix
}

func projectIDFromKey(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, projectKeyPrefix)
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, treeKeySuffix)
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// live reports [codecollab.ErrNotFound] once the project has been removed.
// Callers hold mu.
func (p *Project) live() error {
	if p.removed {
		return fmt.Errorf("%w: project %s was removed", codecollab.ErrNotFound, p.id)
	}
	return nil
}

func (p *Project) ID() string {
	return p.id
}

func (p *Project) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return View{
		ID:       p.id,
		Tree:     p.tree.Snapshot(),
		Expanded: p.view.Expanded(),
	}
}

func (p *Project) Snapshot() filetree.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tree.Snapshot()
}

// Lookup returns a detached copy of the node at path
func (p *Project) Lookup(path string) (filetree.NodeView, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.tree.FindByPath(path)
	if !ok {
		return filetree.NodeView{}, false
	}
	return n.View(), true
}

// Selected returns the selected file path, if any
func (p *Project) Selected() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tree.Selected()
}

func (p *Project) Create(ctx context.Context, req codecollab.CreateRequest) (filetree.NodeView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.live(); err != nil {
		return filetree.NodeView{}, err
	}

	n, err := p.tree.Create(req.Name, req.Kind, req.ParentPath)
	if err != nil {
		return filetree.NodeView{}, err
	}
	view := n.View()
	err = p.commit(ctx, codecollab.Event{Op: codecollab.OpCreate, Path: view.Path, Kind: view.Type})
	return view, err
}

// Delete removes path and its subtree. Missing paths report false and no error.
func (p *Project) Delete(ctx context.Context, path string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.live(); err != nil {
		return false, err
	}

	n, ok := p.tree.FindByPath(path)
	if !ok {
		return false, nil
	}
	kind := n.Kind()
	if !p.tree.Delete(path) {
		return false, nil
	}
	p.view.forget(path)
	return true, p.commit(ctx, codecollab.Event{Op: codecollab.OpDelete, Path: path, Kind: kind})
}

func (p *Project) Rename(ctx context.Context, req codecollab.RenameRequest) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.live(); err != nil {
		return false, err
	}

	n, ok := p.tree.FindByPath(req.Path)
	if !ok {
		return false, nil
	}
	renamed, err := p.tree.Rename(req.Path, req.NewName)
	if err != nil || !renamed {
		return false, err
	}
	newPath := n.Path()
	p.view.move(req.Path, newPath)
	return true, p.commit(ctx, codecollab.Event{
		Op:      codecollab.OpRename,
		Path:    req.Path,
		NewPath: newPath,
		Kind:    n.Kind(),
	})
}

func (p *Project) UpdateContent(ctx context.Context, req codecollab.ContentRequest) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.live(); err != nil {
		return false, err
	}

	if !p.tree.UpdateContent(req.Path, req.Content) {
		return false, nil
	}
	return true, p.commit(ctx, codecollab.Event{Op: codecollab.OpContent, Path: req.Path, Kind: codecollab.FileKind})
}

// Select marks the file at path as selected. Directories and missing paths
// report false.
func (p *Project) Select(ctx context.Context, path string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.live(); err != nil {
		return false, err
	}

	if cur, _ := p.tree.Selected(); cur == path {
		return true, nil
	}
	if !p.tree.Select(path) {
		return false, nil
	}
	return true, p.commit(ctx, codecollab.Event{Op: codecollab.OpSelect, Path: path, Kind: codecollab.FileKind})
}

// ToggleFolder flips the expanded flag of the directory at path and returns
// the new value. Fails with [codecollab.ErrNotFound] unless path is a
// directory.
func (p *Project) ToggleFolder(path string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n, ok := p.tree.FindByPath(path)
	if !ok || !n.IsDir() {
		return false, fmt.Errorf("%w: directory %s", codecollab.ErrNotFound, path)
	}
	return p.view.Toggle(path), nil
}

func (p *Project) CollapseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.view.CollapseAll()
}

// persist writes the current snapshot to the content store. Callers hold mu.
func (p *Project) persist(ctx context.Context) error {
	data, err := json.Marshal(p.tree.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode project %s: %w", p.id, err)
	}
	if err := p.kv.Set(ctx, treeKey(p.id), data); err != nil {
		return fmt.Errorf("failed to persist project %s: %w", p.id, err)
	}
	return nil
}

// commit persists the tree and notifies observers of ev. The in-memory change
// stands even if persisting fails. Callers hold mu.
func (p *Project) commit(ctx context.Context, ev codecollab.Event) error {
	logger := util.GetLogger("Project.commit")

	if err := p.live(); err != nil {
		return err
	}
	err := p.persist(ctx)
	if err != nil {
		logger.Error().Err(err).Str("project", p.id).Str("op", string(ev.Op)).Msg("Persist failed")
	}

	ev.Project = p.id
	ev.At = p.now()
	for _, obs := range p.observers {
		obs.OnEvent(ctx, ev)
	}
	return err
}
