package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/brettbedarf/codecollab"
	"github.com/brettbedarf/codecollab/requests"
	"github.com/brettbedarf/codecollab/share"
	"github.com/brettbedarf/codecollab/workspace"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 8 << 20

type handlers struct {
	ws     *workspace.Workspace
	shares *share.Service
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", requests.ErrBadRequest, err)
	}
	return data, nil
}

// project opens the project named in the URL, writing the error response
// itself on failure.
func (h *handlers) project(w http.ResponseWriter, r *http.Request) (*workspace.Project, bool) {
	p, err := h.ws.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		sendErr(w, r, err)
		return nil, false
	}
	return p, true
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, http.StatusOK, "CodeCollab API is healthy", nil)
}

// listProjects returns stored projects as well as live ones, so a restarted
// server with a durable store still lists everything it holds.
func (h *handlers) listProjects(w http.ResponseWriter, r *http.Request) {
	ids, err := h.ws.Projects(r.Context())
	if err != nil {
		sendErr(w, r, err)
		return
	}
	sendSuccess(w, http.StatusOK, "", ids)
}

func (h *handlers) createProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.ws.NewProject(r.Context())
	if err != nil {
		sendErr(w, r, err)
		return
	}
	sendSuccess(w, http.StatusCreated, "Project created", p.View())
}

func (h *handlers) getProject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	sendSuccess(w, http.StatusOK, "", p.View())
}

func (h *handlers) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.ws.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		sendErr(w, r, err)
		return
	}
	sendSuccess(w, http.StatusOK, "Project removed", nil)
}

func (h *handlers) getNode(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	path := r.URL.Query().Get("path")
	node, found := p.Lookup(path)
	if !found {
		sendErr(w, r, fmt.Errorf("%w: %s", codecollab.ErrNotFound, path))
		return
	}
	sendSuccess(w, http.StatusOK, "", node)
}

func (h *handlers) createNode(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	req, err := requests.UnmarshalCreateRequest(body)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	node, err := p.Create(r.Context(), req)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	sendSuccess(w, http.StatusCreated, "Node created", node)
}

func (h *handlers) deleteNode(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	path, err := requests.UnmarshalPath(body)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	removed, err := p.Delete(r.Context(), path)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	sendSuccess(w, http.StatusOK, "", map[string]bool{"removed": removed})
}

func (h *handlers) renameNode(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	req, err := requests.UnmarshalRenameRequest(body)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	renamed, err := p.Rename(r.Context(), req)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	sendSuccess(w, http.StatusOK, "", map[string]bool{"renamed": renamed})
}

func (h *handlers) updateContent(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	req, err := requests.UnmarshalContentRequest(body)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	updated, err := p.UpdateContent(r.Context(), req)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	sendSuccess(w, http.StatusOK, "", map[string]bool{"updated": updated})
}

func (h *handlers) selectFile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	path, err := requests.UnmarshalPath(body)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	selected, err := p.Select(r.Context(), path)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	sendSuccess(w, http.StatusOK, "", map[string]bool{"selected": selected})
}

func (h *handlers) toggleFolder(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	path, err := requests.UnmarshalPath(body)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	expanded, err := p.ToggleFolder(path)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	sendSuccess(w, http.StatusOK, "", map[string]any{"path": path, "expanded": expanded})
}

func (h *handlers) collapseAll(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	p.CollapseAll()
	sendSuccess(w, http.StatusOK, "", p.View())
}

func (h *handlers) shareFile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	path, err := requests.UnmarshalPath(body)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	node, found := p.Lookup(path)
	if !found {
		sendErr(w, r, fmt.Errorf("%w: %s", codecollab.ErrNotFound, path))
		return
	}
	sn, err := h.shares.SaveFile(r.Context(), node)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	sendSuccess(w, http.StatusCreated, "Snippet shared", sn)
}

func (h *handlers) getSnippet(w http.ResponseWriter, r *http.Request) {
	sn, err := h.shares.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		sendErr(w, r, err)
		return
	}
	sendSuccess(w, http.StatusOK, "", sn)
}

func (h *handlers) createSnippet(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	req, err := requests.UnmarshalShareRequest(body)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	sn, err := h.shares.Save(r.Context(), share.Snippet{
		Content:  req.Content,
		FileName: req.FileName,
		Language: req.Language,
	})
	if err != nil {
		sendErr(w, r, err)
		return
	}
	sendSuccess(w, http.StatusCreated, "Snippet shared", sn)
}

func (h *handlers) updateSnippet(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	content, err := requests.UnmarshalSnippetContent(body)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	sn, err := h.shares.Update(r.Context(), chi.URLParam(r, "id"), content)
	if err != nil {
		sendErr(w, r, err)
		return
	}
	sendSuccess(w, http.StatusOK, "", sn)
}
