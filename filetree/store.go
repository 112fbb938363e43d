package filetree

import (
	"fmt"
	"slices"

	"github.com/brettbedarf/codecollab"
	"github.com/brettbedarf/codecollab/internal/util"
	"github.com/google/uuid"
)

// Store owns an ordered forest of nodes plus the currently selected file.
//
// Store is not safe for concurrent use. Callers serving several clients must
// serialize mutations per store (see the workspace package).
type Store struct {
	roots    []*Node
	byPath   map[string]*Node // path index; kept in step with every mutation
	selected string           // "" means nothing selected
	newID    func() string
}

// Option configures a [Store]
type Option func(*Store)

// WithIDGenerator replaces the default UUID generator. Generated IDs must
// be unique for the lifetime of the store.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		byPath: make(map[string]*Node),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Roots returns the forest's root nodes in display order in a new slice
func (s *Store) Roots() []*Node {
	out := make([]*Node, len(s.roots))
	copy(out, s.roots)
	return out
}

// Len returns the total number of nodes in the forest
func (s *Store) Len() int {
	return len(s.byPath)
}

// FindByPath looks up a node by exact path. A miss is a normal outcome.
func (s *Store) FindByPath(path string) (*Node, bool) {
	n, ok := s.byPath[path]
	return n, ok
}

// FindByPath runs a depth-first search over forest and returns the first
// node whose path matches exactly.
func FindByPath(forest []*Node, path string) (*Node, bool) {
	for _, n := range forest {
		if n.path == path {
			return n, true
		}
		if n.IsDir() {
			if found, ok := FindByPath(n.children, path); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// Create appends a new node named name to the directory at parentPath, or to
// the forest root when parentPath is empty. Creating a file selects it.
//
// Fails with [codecollab.ErrParentNotFound] if parentPath does not resolve to
// a directory and with [codecollab.ErrPathExists] if the new path is taken.
// The forest is unchanged on error.
func (s *Store) Create(name string, kind codecollab.NodeKind, parentPath string) (*Node, error) {
	logger := util.GetLogger("Store.Create")

	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if kind != codecollab.FileKind && kind != codecollab.DirKind {
		return nil, fmt.Errorf("unknown node kind %q", kind)
	}

	var parent *Node
	if !isRootPath(parentPath) {
		p, ok := s.byPath[parentPath]
		if !ok || !p.IsDir() {
			logger.Debug().Str("parent", parentPath).Str("name", name).Msg("Parent directory not found")
			return nil, fmt.Errorf("%w: %s", codecollab.ErrParentNotFound, parentPath)
		}
		parent = p
	}

	newPath := JoinPath(parentPath, name)
	if _, exists := s.byPath[newPath]; exists {
		return nil, fmt.Errorf("%w: %s", codecollab.ErrPathExists, newPath)
	}

	node := &Node{
		id:   s.newID(),
		name: name,
		kind: kind,
		path: newPath,
	}
	s.attach(parent, node)

	if kind == codecollab.FileKind {
		s.selected = newPath
	}
	logger.Debug().Str("path", newPath).Str("kind", string(kind)).Msg("Created node")
	return node, nil
}

// Delete removes the node at path together with its subtree. The selection
// is cleared if it pointed into the removed subtree. Deleting a missing path
// is a no-op; removed reports whether anything was detached.
func (s *Store) Delete(path string) (removed bool) {
	logger := util.GetLogger("Store.Delete")

	n, ok := s.byPath[path]
	if !ok {
		logger.Trace().Str("path", path).Msg("Nothing to delete")
		return false
	}

	s.detach(n)
	gone := n.subtree()
	for _, d := range gone {
		delete(s.byPath, d.path)
	}

	if s.selected != "" && IsWithin(s.selected, path) {
		s.selected = ""
	}
	logger.Debug().Str("path", path).Int("nodes", len(gone)).Msg("Deleted subtree")
	return true
}

// Rename replaces the last segment of path with newName and rewrites the
// path of every descendant. A selection inside the renamed subtree follows
// the rename. Missing paths and same-name renames are no-ops.
//
// Fails with [codecollab.ErrPathExists] before any change if a sibling
// already uses newName.
func (s *Store) Rename(path, newName string) (renamed bool, err error) {
	logger := util.GetLogger("Store.Rename")

	if err := ValidateName(newName); err != nil {
		return false, err
	}
	n, ok := s.byPath[path]
	if !ok {
		logger.Trace().Str("path", path).Msg("Nothing to rename")
		return false, nil
	}
	if n.name == newName {
		return false, nil
	}

	newPath := JoinPath(n.ParentPath(), newName)
	if _, exists := s.byPath[newPath]; exists {
		return false, fmt.Errorf("%w: %s", codecollab.ErrPathExists, newPath)
	}

	oldPath := n.path
	moved := n.subtree()
	for _, d := range moved {
		delete(s.byPath, d.path)
	}
	n.name = newName
	for _, d := range moved {
		d.path = newPath + d.path[len(oldPath):]
		s.byPath[d.path] = d
	}

	if s.selected != "" && IsWithin(s.selected, oldPath) {
		s.selected = newPath + s.selected[len(oldPath):]
	}
	logger.Debug().Str("from", oldPath).Str("to", newPath).Int("nodes", len(moved)).Msg("Renamed node")
	return true, nil
}

// UpdateContent replaces the content of the file at path. Directories and
// missing paths are left untouched and report false.
func (s *Store) UpdateContent(path, content string) (updated bool) {
	n, ok := s.byPath[path]
	if !ok || n.IsDir() {
		return false
	}
	n.content = content
	return true
}

// Selected returns the selected file path; ok is false when nothing is selected
func (s *Store) Selected() (path string, ok bool) {
	return s.selected, s.selected != ""
}

// Select marks the file at path as selected. Only existing files can be
// selected; anything else leaves the selection unchanged and reports false.
func (s *Store) Select(path string) bool {
	n, ok := s.byPath[path]
	if !ok || n.IsDir() {
		return false
	}
	s.selected = path
	return true
}

func (s *Store) ClearSelection() {
	s.selected = ""
}

// FirstFile returns the first file in depth-first display order
func (s *Store) FirstFile() (*Node, bool) {
	var found *Node
	s.Walk(func(n *Node, _ int) bool {
		if !n.IsDir() {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Walk visits every node depth-first in display order. Returning false from
// fn stops the walk.
func (s *Store) Walk(fn func(n *Node, depth int) bool) {
	walk(s.roots, 0, fn)
}

func walk(nodes []*Node, depth int, fn func(*Node, int) bool) bool {
	for _, n := range nodes {
		if !fn(n, depth) {
			return false
		}
		if !walk(n.children, depth+1, fn) {
			return false
		}
	}
	return true
}

// Verify checks the forest's structural invariants: path consistency, path
// uniqueness, kind-specific fields and index coherence.
func (s *Store) Verify() error {
	seen := make(map[string]struct{}, len(s.byPath))
	var err error
	s.Walk(func(n *Node, _ int) bool {
		if want := JoinPath(n.ParentPath(), n.name); n.path != want {
			err = fmt.Errorf("node %s: path %q, want %q", n.id, n.path, want)
			return false
		}
		if _, dup := seen[n.path]; dup {
			err = fmt.Errorf("duplicate path %q", n.path)
			return false
		}
		seen[n.path] = struct{}{}
		if !n.IsDir() && len(n.children) > 0 {
			err = fmt.Errorf("file %q has children", n.path)
			return false
		}
		if n.IsDir() && n.content != "" {
			err = fmt.Errorf("directory %q has content", n.path)
			return false
		}
		if indexed, ok := s.byPath[n.path]; !ok || indexed != n {
			err = fmt.Errorf("path index out of date for %q", n.path)
			return false
		}
		for _, ch := range n.children {
			if ch.parent != n {
				err = fmt.Errorf("child %q does not point back to %q", ch.path, n.path)
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}
	if len(seen) != len(s.byPath) {
		return fmt.Errorf("path index holds %d entries for %d nodes", len(s.byPath), len(seen))
	}
	if s.selected != "" {
		if n, ok := s.byPath[s.selected]; !ok || n.IsDir() {
			return fmt.Errorf("selection %q does not name a file", s.selected)
		}
	}
	return nil
}

// attach appends node to parent's children, or to the forest root if parent is nil
func (s *Store) attach(parent, node *Node) {
	node.parent = parent
	if parent == nil {
		s.roots = append(s.roots, node)
	} else {
		parent.children = append(parent.children, node)
	}
	s.byPath[node.path] = node
}

// detach unlinks n from its parent (or the root list), preserving sibling order
func (s *Store) detach(n *Node) {
	siblings := &s.roots
	if n.parent != nil {
		siblings = &n.parent.children
	}
	if i := slices.Index(*siblings, n); i >= 0 {
		*siblings = slices.Delete(*siblings, i, i+1)
	}
	n.parent = nil
}

func invalidName(name, reason string) error {
	return fmt.Errorf("%w %q: %s", codecollab.ErrInvalidName, name, reason)
}
