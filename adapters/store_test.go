package adapters

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/brettbedarf/codecollab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contentStoreCases runs the same contract checks against every backend
func contentStoreCases(t *testing.T, open func(t *testing.T) codecollab.ContentStore) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := open(t)
		v, ok, err := s.Get(ctx, "projects/none/tree")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("set get overwrite", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Set(ctx, "k", []byte("one")))
		require.NoError(t, s.Set(ctx, "k", []byte("two")))

		v, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("two"), v)
	})

	t.Run("empty value is present", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Set(ctx, "empty", []byte{}))

		v, ok, err := s.Get(ctx, "empty")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, v)
	})

	t.Run("values are copied", func(t *testing.T) {
		s := open(t)
		in := []byte("abc")
		require.NoError(t, s.Set(ctx, "k", in))
		in[0] = 'X'

		out, _, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), out)
		out[0] = 'Y'

		again, _, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run("delete", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Set(ctx, "k", []byte("v")))
		require.NoError(t, s.Delete(ctx, "k"))
		require.NoError(t, s.Delete(ctx, "k"), "deleting an absent key is not an error")

		_, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("prefix keys are distinct", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Set(ctx, "snippets/ab", []byte("long")))

		_, ok, err := s.Get(ctx, "snippets/a")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("keys by prefix", func(t *testing.T) {
		s := open(t)
		for _, k := range []string{"projects/b/tree", "snippets/x", "projects/a/tree", "projectsX"} {
			require.NoError(t, s.Set(ctx, k, []byte("v")))
		}

		keys, err := s.Keys(ctx, "projects/")
		require.NoError(t, err)
		assert.Equal(t, []string{"projects/a/tree", "projects/b/tree"}, keys)

		none, err := s.Keys(ctx, "nothing/")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("cancelled context", func(t *testing.T) {
		s := open(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		assert.ErrorIs(t, s.Set(cctx, "k", []byte("v")), context.Canceled)
	})
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	contentStoreCases(t, func(t *testing.T) codecollab.ContentStore {
		s, err := MemoryProvider{}.Open(codecollab.StoreOptions{})
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestBoltStore(t *testing.T) {
	t.Parallel()
	contentStoreCases(t, func(t *testing.T) codecollab.ContentStore {
		s, err := BoltProvider{}.Open(codecollab.StoreOptions{Path: filepath.Join(t.TempDir(), "kv.db")})
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestBoltStore_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := OpenBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "projects/p1/tree", []byte(`{"forest":[]}`)))
	require.NoError(t, s.Close())

	s, err = OpenBoltStore(path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(ctx, "projects/p1/tree")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"forest":[]}`, string(v))
}

func TestBoltStore_RequiresPath(t *testing.T) {
	t.Parallel()

	_, err := OpenBoltStore("")
	assert.Error(t, err)
}

func TestMemoryStore_Len(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "a", nil))
	require.NoError(t, s.Set(ctx, "b", []byte("x")))

	assert.Equal(t, 2, s.Len())
}
