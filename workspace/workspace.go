// Package workspace keeps live project trees, serializes mutations per
// project and persists every change through a [codecollab.ContentStore].
package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/brettbedarf/codecollab"
	"github.com/brettbedarf/codecollab/filetree"
	"github.com/brettbedarf/codecollab/internal/util"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/sync/singleflight"
)

type Workspace struct {
	kv        codecollab.ContentStore
	projects  *xsync.Map[string, *Project]
	loads     singleflight.Group
	observers []codecollab.Observer
	seed      bool
	treeOpts  []filetree.Option
	now       func() time.Time
	newID     func() string
}

// Option configures a [Workspace]
type Option func(*Workspace)

// WithObservers adds observers notified after every project mutation
func WithObservers(obs ...codecollab.Observer) Option {
	return func(w *Workspace) {
		w.observers = append(w.observers, obs...)
	}
}

// WithStarter controls whether new projects are seeded with the starter layout
func WithStarter(seed bool) Option {
	return func(w *Workspace) {
		w.seed = seed
	}
}

// WithTreeOptions passes options to every project's [filetree.Store]
func WithTreeOptions(opts ...filetree.Option) Option {
	return func(w *Workspace) {
		w.treeOpts = append(w.treeOpts, opts...)
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *Workspace) {
		w.now = now
	}
}

// WithProjectIDs replaces the UUID generator used by [Workspace.NewProject]
func WithProjectIDs(fn func() string) Option {
	return func(w *Workspace) {
		w.newID = fn
	}
}

func New(kv codecollab.ContentStore, opts ...Option) *Workspace {
	w := &Workspace{
		kv:       kv,
		projects: xsync.NewMap[string, *Project](),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Open returns the live project id. A project not yet in memory is loaded
// from the content store, or created (and persisted) if it was never
// stored. If the stored selection is gone the first file is selected.
// Concurrent opens of the same id share one load.
func (w *Workspace) Open(ctx context.Context, id string) (*Project, error) {
	if err := filetree.ValidateName(id); err != nil {
		return nil, fmt.Errorf("project id: %w", err)
	}
	if p, ok := w.projects.Load(id); ok {
		return p, nil
	}

	// The load is shared, so one caller going away must not fail the rest
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := w.loads.Do(id, func() (any, error) {
		if p, ok := w.projects.Load(id); ok {
			return p, nil
		}
		return w.load(loadCtx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Project), nil
}

func (w *Workspace) load(ctx context.Context, id string) (*Project, error) {
	logger := util.GetLogger("Workspace.Open")

	tree, fresh, err := w.loadTree(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := tree.Selected(); !ok {
		if first, ok := tree.FirstFile(); ok {
			tree.Select(first.Path())
		}
	}

	p := &Project{
		id:        id,
		tree:      tree,
		view:      newViewState(),
		kv:        w.kv,
		observers: w.observers,
		now:       w.now,
	}
	if fresh {
		if err := p.persist(ctx); err != nil {
			return nil, err
		}
	}
	w.projects.Store(id, p)
	logger.Info().Str("project", id).Bool("new", fresh).Int("nodes", tree.Len()).Msg("Opened project")
	return p, nil
}

// loadTree reads the stored tree for id. fresh is true when nothing was
// stored and a new tree was built.
func (w *Workspace) loadTree(ctx context.Context, id string) (tree *filetree.Store, fresh bool, err error) {
	data, ok, err := w.kv.Get(ctx, treeKey(id))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read project %s: %w", id, err)
	}
	if ok {
		var snap filetree.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, false, fmt.Errorf("failed to decode project %s: %w", id, err)
		}
		tree, err := filetree.NewStoreFromSnapshot(snap, w.treeOpts...)
		if err != nil {
			return nil, false, fmt.Errorf("stored project %s is invalid: %w", id, err)
		}
		return tree, false, nil
	}

	tree = filetree.NewStore(w.treeOpts...)
	if w.seed {
		forest, err := StarterForest()
		if err != nil {
			return nil, false, err
		}
		if err := tree.Load(filetree.Snapshot{Forest: forest}); err != nil {
			return nil, false, fmt.Errorf("failed to seed project %s: %w", id, err)
		}
	}
	return tree, true, nil
}

// NewProject opens a project under a freshly generated id
func (w *Workspace) NewProject(ctx context.Context) (*Project, error) {
	return w.Open(ctx, w.newID())
}

// Import creates or replaces project id with forest, for seeding from
// definition files.
func (w *Workspace) Import(ctx context.Context, id string, forest []filetree.NodeView) (*Project, error) {
	p, err := w.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.live(); err != nil {
		return nil, err
	}
	if err := p.tree.Load(filetree.Snapshot{Forest: forest}); err != nil {
		return nil, err
	}
	if first, ok := p.tree.FirstFile(); ok {
		p.tree.Select(first.Path())
	}
	p.view.CollapseAll()
	return p, p.persist(ctx)
}

// Get returns a project only if it is already live
func (w *Workspace) Get(id string) (*Project, bool) {
	return w.projects.Load(id)
}

// Projects lists the ids of every stored or live project in sorted order.
// A project that is live but whose first persist failed is still listed.
func (w *Workspace) Projects(ctx context.Context) ([]string, error) {
	keys, err := w.kv.Keys(ctx, projectKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	ids := make([]string, 0, len(keys)+w.projects.Size())
	for _, k := range keys {
		if id, ok := projectIDFromKey(k); ok {
			ids = append(ids, id)
		}
	}
	w.projects.Range(func(id string, _ *Project) bool {
		ids = append(ids, id)
		return true
	})
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// Remove drops project id from memory and deletes its stored tree. A
// [Project] obtained before the remove is retired: its mutations fail with
// [codecollab.ErrNotFound] and never write the tree back.
func (w *Workspace) Remove(ctx context.Context, id string) error {
	logger := util.GetLogger("Workspace.Remove")

	if p, ok := w.projects.LoadAndDelete(id); ok {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.removed = true
	}
	if err := w.kv.Delete(ctx, treeKey(id)); err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	logger.Info().Str("project", id).Msg("Removed project")
	return nil
}
