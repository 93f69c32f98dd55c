package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	data := []byte("IWAD some archive bytes")

	k1, err := Key(bytes.NewReader(data), "E1M1", 4096)
	require.NoError(t, err)
	k2, err := Key(bytes.NewReader(data), "E1M1", 4096)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 16)

	for _, other := range []struct {
		data  []byte
		level string
		size  int
	}{
		{[]byte("IWAD other archive bytes"), "E1M1", 4096},
		{data, "E1M2", 4096},
		{data, "E1M1", 2048},
	} {
		k, err := Key(bytes.NewReader(other.data), other.level, other.size)
		require.NoError(t, err)
		assert.NotEqual(t, k1, k)
	}
}

func TestKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doom.wad")
	require.NoError(t, os.WriteFile(path, []byte("PWAD"), 0644))

	k, err := KeyFile(path, "MAP01", 512)
	require.NoError(t, err)
	want, err := Key(bytes.NewReader([]byte("PWAD")), "MAP01", 512)
	require.NoError(t, err)
	assert.Equal(t, want, k)

	_, err = KeyFile(filepath.Join(t.TempDir(), "missing.wad"), "MAP01", 512)
	assert.Error(t, err)
}

func TestStore_PutGet(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nested", "cache"))
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.Get("abc")
	assert.False(t, ok)

	payload := bytes.Repeat([]byte("wall"), 1000)
	require.NoError(t, s.Put("abc", payload))

	got, ok := s.Get("abc")
	require.True(t, ok)
	assert.Equal(t, payload, got)

	info, err := os.Stat(filepath.Join(s.Dir(), "abc"+fileExt))
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(len(payload)))

	require.NoError(t, s.Put("abc", []byte("replaced")))
	got, ok = s.Get("abc")
	require.True(t, ok)
	assert.Equal(t, []byte("replaced"), got)

	require.NoError(t, s.Remove("abc"))
	_, ok = s.Get("abc")
	assert.False(t, ok)
	assert.NoError(t, s.Remove("abc"))
}

func TestStore_CorruptEntryIsMiss(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "bad"+fileExt), []byte("not zstd"), 0644))
	_, ok := s.Get("bad")
	assert.False(t, ok)
}
