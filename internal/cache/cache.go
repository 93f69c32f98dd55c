// Package cache keeps encoded level bundles on disk, keyed by archive
// content and build options, so repeated loads skip the decode pipeline.
package cache

import (
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/wadmesh/internal/logger"
)

const fileExt = ".wmb.zst"

// Key hashes the archive content together with the level name and atlas
// size. Different archives, levels or atlas sizes never share a key.
func Key(r io.Reader, level string, atlasSize int) (string, error) {
	d := xxhash.New()
	if _, err := io.Copy(d, r); err != nil {
		return "", errors.Wrap(err, "hashing archive")
	}
	_, _ = d.WriteString("\x00" + level + "\x00" + strconv.Itoa(atlasSize))
	return hex.EncodeToString(d.Sum(nil)), nil
}

// KeyFile is Key over the archive at path.
func KeyFile(path, level string, atlasSize int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open %q", path)
	}
	defer f.Close()
	return Key(f, level, atlasSize)
}

// Store is a directory of zstd-compressed entries.
type Store struct {
	dir string
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Open creates dir if needed and returns a store rooted there.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create cache dir %q", dir)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, errors.Wrap(err, "creating zstd encoder")
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, errors.Wrap(err, "creating zstd decoder")
	}
	return &Store{dir: dir, enc: enc, dec: dec}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

// Get returns the entry stored under key. Missing and unreadable entries
// are both reported as a miss.
func (s *Store) Get(key string) ([]byte, bool) {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debug("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	data, err := s.dec.DecodeAll(raw, nil)
	if err != nil {
		logger.Debug("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, true
}

// Put compresses data and stores it under key, replacing any previous
// entry atomically.
func (s *Store) Put(key string, data []byte) error {
	compressed := s.enc.EncodeAll(data, nil)

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating cache entry")
	}
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "writing cache entry %s", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "writing cache entry %s", key)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "committing cache entry %s", key)
	}

	logger.Debug("cache entry stored",
		zap.String("key", key),
		zap.Int("bytes", len(data)),
		zap.Int("compressed", len(compressed)))
	return nil
}

// Remove deletes the entry under key, if any.
func (s *Store) Remove(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing cache entry %s", key)
	}
	return nil
}

// Close releases the codec resources.
func (s *Store) Close() {
	s.enc.Close()
	s.dec.Close()
}
