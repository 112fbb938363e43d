package filetree

import (
	"fmt"

	"github.com/brettbedarf/codecollab"
	"github.com/brettbedarf/codecollab/internal/util"
)

// NodeView is a detached, serializable copy of a [Node] and its subtree.
// Extension and Language are derived on snapshot and ignored by [Store.Load].
type NodeView struct {
	ID        string              `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string              `json:"name" yaml:"name"`
	Type      codecollab.NodeKind `json:"type" yaml:"type"`
	Path      string              `json:"path,omitempty" yaml:"path,omitempty"`
	Content   *string             `json:"content,omitempty" yaml:"content,omitempty"`
	Extension string              `json:"extension,omitempty" yaml:"-"`
	Language  string              `json:"language,omitempty" yaml:"-"`
	Children  []NodeView          `json:"children,omitempty" yaml:"children,omitempty"`
}

// Snapshot is a read-only copy of a store's forest and selection for renderers
// and persistence.
type Snapshot struct {
	Forest   []NodeView `json:"forest"`
	Selected string     `json:"selected,omitempty"`
}

// Snapshot deep-copies the forest. Later mutations of the store do not
// affect the returned value.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Forest:   viewsOf(s.roots),
		Selected: s.selected,
	}
}

// View returns a detached copy of n and its subtree
func (n *Node) View() NodeView {
	v := NodeView{
		ID:   n.id,
		Name: n.name,
		Type: n.kind,
		Path: n.path,
	}
	if n.IsDir() {
		v.Children = viewsOf(n.children)
		return v
	}
	content := n.content
	v.Content = &content
	v.Extension = Extension(n.name)
	v.Language = LanguageFor(v.Extension)
	return v
}

func viewsOf(nodes []*Node) []NodeView {
	out := make([]NodeView, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.View())
	}
	return out
}

// NewStoreFromSnapshot builds a store holding snap. See [Store.Load].
func NewStoreFromSnapshot(snap Snapshot, opts ...Option) (*Store, error) {
	s := NewStore(opts...)
	if err := s.Load(snap); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the store's forest with snap.Forest. Paths are derived from
// names; a view carrying a path that disagrees with its position is
// rejected, as are duplicate paths, files with children and directories with
// content. Existing IDs are kept and missing ones generated. The selection
// is restored only if it still names a file.
//
// Load is all-or-nothing: on error the store is left as it was.
func (s *Store) Load(snap Snapshot) error {
	logger := util.GetLogger("Store.Load")

	next := &Store{
		byPath: make(map[string]*Node),
		newID:  s.newID,
	}
	ids := make(map[string]struct{})
	if err := next.loadInto(nil, snap.Forest, ids); err != nil {
		logger.Debug().Err(err).Msg("Rejected snapshot")
		return err
	}
	if snap.Selected != "" {
		next.Select(snap.Selected)
	}

	s.roots = next.roots
	s.byPath = next.byPath
	s.selected = next.selected
	logger.Debug().Int("nodes", len(s.byPath)).Msg("Loaded snapshot")
	return nil
}

func (s *Store) loadInto(parent *Node, views []NodeView, ids map[string]struct{}) error {
	parentPath := ""
	if parent != nil {
		parentPath = parent.path
	}
	for _, v := range views {
		if err := ValidateName(v.Name); err != nil {
			return fmt.Errorf("under %q: %w", parentPath, err)
		}
		kind, err := codecollab.ParseNodeKind(string(v.Type))
		if err != nil {
			return fmt.Errorf("%s: %w", JoinPath(parentPath, v.Name), err)
		}

		p := JoinPath(parentPath, v.Name)
		if v.Path != "" && v.Path != p {
			return fmt.Errorf("node %q: path %q does not match its position %q", v.Name, v.Path, p)
		}
		if _, exists := s.byPath[p]; exists {
			return fmt.Errorf("%w: %s", codecollab.ErrPathExists, p)
		}

		id := v.ID
		if id == "" {
			id = s.newID()
		}
		if _, dup := ids[id]; dup {
			return fmt.Errorf("duplicate node id %q at %s", id, p)
		}
		ids[id] = struct{}{}

		n := &Node{id: id, name: v.Name, kind: kind, path: p}
		switch kind {
		case codecollab.FileKind:
			if len(v.Children) > 0 {
				return fmt.Errorf("file %q has children", p)
			}
			if v.Content != nil {
				n.content = *v.Content
			}
		case codecollab.DirKind:
			if v.Content != nil && *v.Content != "" {
				return fmt.Errorf("directory %q has content", p)
			}
		}
		s.attach(parent, n)

		if kind == codecollab.DirKind {
			if err := s.loadInto(n, v.Children, ids); err != nil {
				return err
			}
		}
	}
	return nil
}
