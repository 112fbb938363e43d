package codecollab

// CreateRequest has the fields needed to add a node to a project tree.
// An empty ParentPath inserts at the forest root.
type CreateRequest struct {
	Name       string
	Kind       NodeKind
	ParentPath string
}

// RenameRequest renames the node at Path, keeping its parent
type RenameRequest struct {
	Path    string
	NewName string
}

// ShareRequest creates a snippet from free-typed content. Language is
// derived from FileName when empty.
type ShareRequest struct {
	Content  string
	FileName string
	Language string
}

// ContentRequest replaces the content of the file at Path
type ContentRequest struct {
	Path    string
	Content string
}
