package filetree

import (
	"strings"

	"github.com/brettbedarf/codecollab"
)

// Node is a single file or directory owned by a [Store].
// Nodes are only created through [Store.Create] or [Store.Load] and are
// mutated in place by the store; callers must treat them as read-only.
type Node struct {
	id       string
	name     string // Last path segment
	kind     codecollab.NodeKind
	path     string // Always parent.path + "/" + name; roots are "/" + name
	content  string // Files only
	parent   *Node  // nil for roots
	children []*Node
}

func (n *Node) ID() string {
	return n.id
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) Kind() codecollab.NodeKind {
	return n.kind
}

// Path returns the absolute slash-separated path of the node
func (n *Node) Path() string {
	return n.path
}

func (n *Node) IsDir() bool {
	return n.kind == codecollab.DirKind
}

// Content returns the file's text. ok is false for directories.
func (n *Node) Content() (content string, ok bool) {
	if n.IsDir() {
		return "", false
	}
	return n.content, true
}

// Children returns the node's children in display order in a new slice.
// Files always return nil.
func (n *Node) Children() []*Node {
	if !n.IsDir() {
		return nil
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ParentPath returns the path of the owning directory or "" for roots
func (n *Node) ParentPath() string {
	if n.parent == nil {
		return ""
	}
	return n.parent.path
}

// subtree returns n followed by all of its descendants in depth-first order
func (n *Node) subtree() []*Node {
	out := []*Node{n}
	for _, ch := range n.children {
		out = append(out, ch.subtree()...)
	}
	return out
}

var _ codecollab.NodeInfo = (*Node)(nil)

// JoinPath computes a child path. An empty parent (or "/") is the forest root.
func JoinPath(parentPath, name string) string {
	if isRootPath(parentPath) {
		return "/" + name
	}
	return parentPath + "/" + name
}

func isRootPath(p string) bool {
	return p == "" || p == "/"
}

// IsWithin reports whether p is prefix itself or one of its descendants
func IsWithin(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

// ValidateName checks that name can be used as a single path segment
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return invalidName(name, "empty")
	case strings.Contains(name, "/"):
		return invalidName(name, "contains '/'")
	case name == "." || name == "..":
		return invalidName(name, "reserved")
	}
	return nil
}
