package filetree

import "strings"

// Extension returns the lower-cased text after the last '.' in name, or ""
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

var languages = map[string]string{
	"js":   "javascript",
	"jsx":  "javascript",
	"mjs":  "javascript",
	"ts":   "typescript",
	"tsx":  "typescript",
	"html": "html",
	"css":  "css",
	"json": "json",
	"md":   "markdown",
	"go":   "go",
	"py":   "python",
	"yaml": "yaml",
	"yml":  "yaml",
	"svg":  "image",
	"png":  "image",
	"jpg":  "image",
	"jpeg": "image",
	"gif":  "image",
}

// LanguageFor maps a file extension to the editor language used for
// highlighting. Unknown extensions are "plaintext".
func LanguageFor(ext string) string {
	if lang, ok := languages[strings.ToLower(ext)]; ok {
		return lang
	}
	return "plaintext"
}
