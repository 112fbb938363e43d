// Package codecollab contains core domain types and interfaces shared by the
// project tree store, its persistence adapters and the API layers.
package codecollab

import "time"

// Op names the kind of tree mutation reported in an [Event]
type Op string

const (
	OpCreate  Op = "create"
	OpDelete  Op = "delete"
	OpRename  Op = "rename"
	OpContent Op = "content"
	OpSelect  Op = "select"
)

// Event describes a completed mutation of a project's tree.
// NewPath is only set for renames.
type Event struct {
	Op      Op        `json:"op"`
	Project string    `json:"project"`
	Path    string    `json:"path"`
	NewPath string    `json:"new_path,omitempty"`
	Kind    NodeKind  `json:"kind,omitempty"`
	At      time.Time `json:"at"`
}
