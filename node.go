package codecollab

import (
	"fmt"
	"strings"
)

// NodeKind valid kinds are FileKind "file", DirKind "directory"
type NodeKind string

const (
	FileKind NodeKind = "file"
	DirKind  NodeKind = "directory"
)

// ParseNodeKind accepts the wire spellings of a kind. "dir" is kept as an
// alias for older node definition files.
func ParseNodeKind(s string) (NodeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(FileKind):
		return FileKind, nil
	case string(DirKind), "dir":
		return DirKind, nil
	}
	return "", fmt.Errorf("unknown node type %q", s)
}

// NodeInfo provides read-only access to node information for external consumers
type NodeInfo interface {
	// ID returns the node's stable unique identifier
	ID() string

	// Name returns the node's name (last path component)
	Name() string

	// Kind reports whether the node is a file or a directory
	Kind() NodeKind

	// Path returns the absolute path to the node
	Path() string
}
