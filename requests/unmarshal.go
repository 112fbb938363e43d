package requests

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brettbedarf/codecollab"
)

// ErrBadRequest wraps every decoding and field validation failure
var ErrBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// GetNodeType extracts the node kind from JSON without full unmarshaling
func GetNodeType(data []byte) (codecollab.NodeKind, error) {
	var meta struct {
		Type string `json:"type"`
	}
	if err := decode(data, &meta); err != nil {
		return "", err
	}
	kind, err := codecollab.ParseNodeKind(meta.Type)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return kind, nil
}

// UnmarshalCreateRequest decodes a create body. Name validation is left to
// the store so it reports [codecollab.ErrInvalidName].
func UnmarshalCreateRequest(data []byte) (codecollab.CreateRequest, error) {
	kind, err := GetNodeType(data)
	if err != nil {
		return codecollab.CreateRequest{}, err
	}
	var dto CreateRequestDTO
	if err := decode(data, &dto); err != nil {
		return codecollab.CreateRequest{}, err
	}
	return codecollab.CreateRequest{
		Name:       dto.Name,
		Kind:       kind,
		ParentPath: dto.ParentPath,
	}, nil
}

func UnmarshalRenameRequest(data []byte) (codecollab.RenameRequest, error) {
	var dto RenameRequestDTO
	if err := decode(data, &dto); err != nil {
		return codecollab.RenameRequest{}, err
	}
	if dto.Path == "" {
		return codecollab.RenameRequest{}, badRequest("path is required")
	}
	return codecollab.RenameRequest{Path: dto.Path, NewName: dto.NewName}, nil
}

func UnmarshalContentRequest(data []byte) (codecollab.ContentRequest, error) {
	var dto ContentRequestDTO
	if err := decode(data, &dto); err != nil {
		return codecollab.ContentRequest{}, err
	}
	if dto.Path == "" {
		return codecollab.ContentRequest{}, badRequest("path is required")
	}
	if dto.Content == nil {
		return codecollab.ContentRequest{}, badRequest("content is required")
	}
	return codecollab.ContentRequest{Path: dto.Path, Content: *dto.Content}, nil
}

func UnmarshalShareRequest(data []byte) (codecollab.ShareRequest, error) {
	var dto ShareRequestDTO
	if err := decode(data, &dto); err != nil {
		return codecollab.ShareRequest{}, err
	}
	if dto.Content == nil {
		return codecollab.ShareRequest{}, badRequest("content is required")
	}
	return codecollab.ShareRequest{
		Content:  *dto.Content,
		FileName: dto.FileName,
		Language: dto.Language,
	}, nil
}

// UnmarshalSnippetContent decodes a {"content": ...} body
func UnmarshalSnippetContent(data []byte) (string, error) {
	var dto SnippetContentDTO
	if err := decode(data, &dto); err != nil {
		return "", err
	}
	if dto.Content == nil {
		return "", badRequest("content is required")
	}
	return *dto.Content, nil
}

// UnmarshalPath decodes a {"path": ...} body
func UnmarshalPath(data []byte) (string, error) {
	var dto PathRequestDTO
	if err := decode(data, &dto); err != nil {
		return "", err
	}
	if dto.Path == "" {
		return "", badRequest("path is required")
	}
	return dto.Path, nil
}
