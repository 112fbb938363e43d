// Package share stores read-only snippets of file content under a
// shareable id.
package share

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brettbedarf/codecollab"
	"github.com/brettbedarf/codecollab/filetree"
	"github.com/brettbedarf/codecollab/internal/util"
	"github.com/google/uuid"
)

var ErrInvalidSnippet = errors.New("invalid snippet")

type Snippet struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	FileName  string    `json:"file_name,omitempty"`
	Language  string    `json:"language,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

type Service struct {
	kv    codecollab.ContentStore
	now   func() time.Time
	newID func() string
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

func NewService(kv codecollab.ContentStore, opts ...Option) *Service {
	s := &Service{
		kv:    kv,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func snippetKey(id string) string {
	return "snippets/" + id
}

// Save stores sn under a new id and returns the stored copy. Any id or
// timestamp on sn is replaced. The language is derived from the file name
// when not given.
func (s *Service) Save(ctx context.Context, sn Snippet) (Snippet, error) {
	logger := util.GetLogger("Share.Save")

	if strings.TrimSpace(sn.Content) == "" {
		return Snippet{}, fmt.Errorf("%w: empty content", ErrInvalidSnippet)
	}
	sn.ID = s.newID()
	sn.CreatedAt = s.now().UTC()
	sn.UpdatedAt = time.Time{}
	if sn.Language == "" && sn.FileName != "" {
		sn.Language = filetree.LanguageFor(filetree.Extension(sn.FileName))
	}

	if err := s.put(ctx, sn); err != nil {
		return Snippet{}, err
	}
	logger.Debug().Str("id", sn.ID).Str("file", sn.FileName).Int("bytes", len(sn.Content)).Msg("Saved snippet")
	return sn, nil
}

// SaveFile shares the content of a file node
func (s *Service) SaveFile(ctx context.Context, file filetree.NodeView) (Snippet, error) {
	if file.Type != codecollab.FileKind || file.Content == nil {
		return Snippet{}, fmt.Errorf("%w: %s is not a file", ErrInvalidSnippet, file.Path)
	}
	return s.Save(ctx, Snippet{
		Content:  *file.Content,
		FileName: file.Name,
		Language: file.Language,
	})
}

// Update replaces the content of an existing snippet, keeping its name,
// language and creation time. Empty content is allowed so a live share can be
// cleared. Unknown ids fail with [codecollab.ErrNotFound].
func (s *Service) Update(ctx context.Context, id, content string) (Snippet, error) {
	logger := util.GetLogger("Share.Update")

	sn, err := s.Get(ctx, id)
	if err != nil {
		return Snippet{}, err
	}
	sn.Content = content
	sn.UpdatedAt = s.now().UTC()

	if err := s.put(ctx, sn); err != nil {
		return Snippet{}, err
	}
	logger.Debug().Str("id", sn.ID).Int("bytes", len(sn.Content)).Msg("Updated snippet")
	return sn, nil
}

func (s *Service) put(ctx context.Context, sn Snippet) error {
	data, err := json.Marshal(sn)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, snippetKey(sn.ID), data); err != nil {
		return fmt.Errorf("failed to store snippet: %w", err)
	}
	return nil
}

// Get returns the snippet stored under id or [codecollab.ErrNotFound]
func (s *Service) Get(ctx context.Context, id string) (Snippet, error) {
	if id == "" || strings.Contains(id, "/") {
		return Snippet{}, fmt.Errorf("%w: snippet %q", codecollab.ErrNotFound, id)
	}
	data, ok, err := s.kv.Get(ctx, snippetKey(id))
	if err != nil {
		return Snippet{}, err
	}
	if !ok {
		return Snippet{}, fmt.Errorf("%w: snippet %s", codecollab.ErrNotFound, id)
	}
	var sn Snippet
	if err := json.Unmarshal(data, &sn); err != nil {
		return Snippet{}, fmt.Errorf("failed to decode snippet %s: %w", id, err)
	}
	return sn, nil
}
