package workspace

import (
	"maps"
	"slices"

	"github.com/brettbedarf/codecollab/filetree"
)

// ViewState is per-project presentation state kept apart from the tree: the
// set of expanded directory paths.
type ViewState struct {
	expanded map[string]bool
}

func newViewState() ViewState {
	return ViewState{expanded: make(map[string]bool)}
}

// Toggle flips path's expanded flag and returns the new value
func (v *ViewState) Toggle(path string) bool {
	if v.expanded[path] {
		delete(v.expanded, path)
		return false
	}
	v.expanded[path] = true
	return true
}

func (v *ViewState) Expand(path string) {
	v.expanded[path] = true
}

func (v *ViewState) IsExpanded(path string) bool {
	return v.expanded[path]
}

func (v *ViewState) CollapseAll() {
	clear(v.expanded)
}

// Expanded returns the expanded paths in sorted order
func (v *ViewState) Expanded() []string {
	return slices.Sorted(maps.Keys(v.expanded))
}

// forget drops path and everything beneath it
func (v *ViewState) forget(path string) {
	maps.DeleteFunc(v.expanded, func(p string, _ bool) bool {
		return filetree.IsWithin(p, path)
	})
}

// move rewrites expanded keys under oldPath to sit under newPath
func (v *ViewState) move(oldPath, newPath string) {
	var moved []string
	for p := range v.expanded {
		if filetree.IsWithin(p, oldPath) {
			moved = append(moved, p)
		}
	}
	for _, p := range moved {
		delete(v.expanded, p)
		v.expanded[newPath+p[len(oldPath):]] = true
	}
}
