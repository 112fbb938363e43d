package requests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brettbedarf/codecollab"
	"github.com/brettbedarf/codecollab/filetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalCreateRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want codecollab.CreateRequest
	}{
		{"file", `{"name":"a.js","type":"file","parent_path":"/src"}`, codecollab.CreateRequest{Name: "a.js", Kind: codecollab.FileKind, ParentPath: "/src"}},
		{"directory", `{"name":"lib","type":"directory"}`, codecollab.CreateRequest{Name: "lib", Kind: codecollab.DirKind}},
		{"dir alias", `{"name":"lib","type":"dir","parent_path":"/"}`, codecollab.CreateRequest{Name: "lib", Kind: codecollab.DirKind, ParentPath: "/"}},
		{"empty name passes through", `{"name":"","type":"file"}`, codecollab.CreateRequest{Kind: codecollab.FileKind}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := UnmarshalCreateRequest([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnmarshal_BadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func([]byte) error
		body string
	}{
		{"create unknown type", func(b []byte) error { _, err := UnmarshalCreateRequest(b); return err }, `{"name":"a","type":"symlink"}`},
		{"create missing type", func(b []byte) error { _, err := UnmarshalCreateRequest(b); return err }, `{"name":"a"}`},
		{"create bad json", func(b []byte) error { _, err := UnmarshalCreateRequest(b); return err }, `{"name":`},
		{"rename missing path", func(b []byte) error { _, err := UnmarshalRenameRequest(b); return err }, `{"new_name":"b"}`},
		{"content missing content", func(b []byte) error { _, err := UnmarshalContentRequest(b); return err }, `{"path":"/a"}`},
		{"content missing path", func(b []byte) error { _, err := UnmarshalContentRequest(b); return err }, `{"content":"x"}`},
		{"share missing content", func(b []byte) error { _, err := UnmarshalShareRequest(b); return err }, `{"file_name":"a.js"}`},
		{"share bad json", func(b []byte) error { _, err := UnmarshalShareRequest(b); return err }, `[`},
		{"snippet content missing", func(b []byte) error { _, err := UnmarshalSnippetContent(b); return err }, `{}`},
		{"path missing", func(b []byte) error { _, err := UnmarshalPath(b); return err }, `{}`},
		{"path wrong type", func(b []byte) error { _, err := UnmarshalPath(b); return err }, `{"path":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, tt.fn([]byte(tt.body)), ErrBadRequest)
		})
	}
}

func TestUnmarshalContentRequest_EmptyContentAllowed(t *testing.T) {
	t.Parallel()

	got, err := UnmarshalContentRequest([]byte(`{"path":"/a.txt","content":""}`))

	require.NoError(t, err)
	assert.Equal(t, codecollab.ContentRequest{Path: "/a.txt"}, got)
}

func TestUnmarshalShareRequest(t *testing.T) {
	t.Parallel()

	got, err := UnmarshalShareRequest([]byte(`{"content":"print(1)","file_name":"main.py"}`))
	require.NoError(t, err)
	assert.Equal(t, codecollab.ShareRequest{Content: "print(1)", FileName: "main.py"}, got)

	content, err := UnmarshalSnippetContent([]byte(`{"content":""}`))
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestUnmarshalRenameRequest(t *testing.T) {
	t.Parallel()

	got, err := UnmarshalRenameRequest([]byte(`{"path":"/src","new_name":"lib"}`))

	require.NoError(t, err)
	assert.Equal(t, codecollab.RenameRequest{Path: "/src", NewName: "lib"}, got)
}

func TestLoadForestFile(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"nodes.yaml": "- name: src\n  type: dir\n  children:\n    - name: main.go\n      type: file\n      content: package main\n",
		"nodes.json": `[{"name":"src","type":"dir","children":[{"name":"main.go","type":"file","content":"package main"}]}]`,
	}

	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

			forest, err := LoadForestFile(path)
			require.NoError(t, err)

			s, err := filetree.NewStoreFromSnapshot(filetree.Snapshot{Forest: forest})
			require.NoError(t, err)
			n, ok := s.FindByPath("/src/main.go")
			require.True(t, ok)
			content, _ := n.Content()
			assert.Equal(t, "package main", content)
		})
	}
}

func TestLoadForestFile_Errors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := LoadForestFile(filepath.Join(dir, "missing.yaml"))
	assert.True(t, os.IsNotExist(err))

	txt := filepath.Join(dir, "nodes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o600))
	_, err = LoadForestFile(txt)
	assert.ErrorContains(t, err, "unknown forest file extension")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = LoadForestFile(bad)
	assert.Error(t, err)
}
