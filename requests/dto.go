package requests

// CreateRequestDTO is the JSON representation of [codecollab.CreateRequest]
type CreateRequestDTO struct {
	Name       string `json:"name"`
	Type       string `json:"type"`                  // "file", "directory" or "dir"
	ParentPath string `json:"parent_path,omitempty"` // Empty or "/" for the forest root
}

// RenameRequestDTO is the JSON representation of [codecollab.RenameRequest]
type RenameRequestDTO struct {
	Path    string `json:"path"`
	NewName string `json:"new_name"`
}

// ContentRequestDTO is the JSON representation of [codecollab.ContentRequest]
type ContentRequestDTO struct {
	Path    string  `json:"path"`
	Content *string `json:"content"` // Required; "" clears the file
}

// ShareRequestDTO is the JSON representation of [codecollab.ShareRequest]
type ShareRequestDTO struct {
	Content  *string `json:"content"` // Required
	FileName string  `json:"file_name,omitempty"`
	Language string  `json:"language,omitempty"`
}

// SnippetContentDTO replaces the content of a shared snippet
type SnippetContentDTO struct {
	Content *string `json:"content"` // Required; "" clears the snippet
}

// PathRequestDTO carries a single path, for delete, select, toggle and share
type PathRequestDTO struct {
	Path string `json:"path"`
}
