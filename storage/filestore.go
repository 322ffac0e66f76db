package storage

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nulsworld/libnuls-go/codec"
)

// FileStore implements Store using the local filesystem.
// Files are stored at: {baseDir}/{hex(key[:1])}/{hex(key)}
// Each file starts with one Scheme byte followed by the (compressed) body.
type FileStore struct {
	baseDir string
	scheme  Scheme
	mu      sync.RWMutex
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithCompression sets the scheme used for newly written files. Files
// written under another scheme remain readable.
func WithCompression(s Scheme) Option {
	return func(fs *FileStore) { fs.scheme = s }
}

// NewFileStore creates a new file-based content store. The directory is
// created if it does not exist.
func NewFileStore(baseDir string, opts ...Option) (*FileStore, error) {
	if baseDir == "" {
		return nil, ErrInvalidBaseDir
	}

	fs := &FileStore{baseDir: baseDir}
	for _, opt := range opts {
		opt(fs)
	}
	if _, err := Compress(nil, fs.scheme); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return fs, nil
}

// KeyToPath converts a key to its filesystem path: {base}/{ab}/{abcdef...}
func KeyToPath(baseDir string, key []byte) string {
	hexKey := hex.EncodeToString(key)
	return filepath.Join(baseDir, hexKey[:2], hexKey)
}

// ContentKey returns the key content is stored under.
func ContentKey(content []byte) []byte {
	return codec.DoubleHash(content)
}

// ParseRef decodes a hex content reference into a key.
func ParseRef(ref string) ([]byte, error) {
	key, err := hex.DecodeString(ref)
	if err != nil || len(key) != KeySize {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return key, nil
}

func validateKey(key []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidKey, len(key))
	}
	return nil
}

// PushContent stores content and returns its hex reference. It lets the
// store stand in for a remote content service when working offline.
func (fs *FileStore) PushContent(ctx context.Context, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := ContentKey(content)
	if err := fs.Put(key, content); err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

// Fetch retrieves content by its hex reference.
func (fs *FileStore) Fetch(ref string) ([]byte, error) {
	key, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}
	return fs.Get(key)
}

// Put stores content under key.
func (fs *FileStore) Put(key []byte, content []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if len(content) == 0 {
		return ErrEmptyContent
	}
	if !bytes.Equal(key, ContentKey(content)) {
		return ErrKeyMismatch
	}

	body, err := Compress(content, fs.scheme)
	if err != nil {
		return err
	}
	data := make([]byte, 0, len(body)+1)
	data = append(data, byte(fs.scheme))
	data = append(data, body...)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	path := KeyToPath(fs.baseDir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return nil
}

// Get retrieves content by key, verifying it still hashes to key.
func (fs *FileStore) Get(key []byte) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	data, err := os.ReadFile(KeyToPath(fs.baseDir, key))
	fs.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrCorrupted)
	}

	content, err := Decompress(data[1:], Scheme(data[0]))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(key, ContentKey(content)) {
		return nil, fmt.Errorf("%w: hash mismatch", ErrCorrupted)
	}
	return content, nil
}

// Has checks if content exists for the given key.
func (fs *FileStore) Has(key []byte) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, err := os.Stat(KeyToPath(fs.baseDir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return true, nil
}

// Delete removes content by key.
func (fs *FileStore) Delete(key []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(KeyToPath(fs.baseDir, key)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return nil
}

// Size returns the on-disk size for key, including the scheme byte.
func (fs *FileStore) Size(key []byte) (int64, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	info, err := os.Stat(KeyToPath(fs.baseDir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return info.Size(), nil
}

// List returns all stored keys by scanning the shard directories.
// Entries that are not 64-character hex names are skipped.
func (fs *FileStore) List() ([][]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	entries, err := os.ReadDir(fs.baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	var result [][]byte
	for _, entry := range entries {
		if !entry.IsDir() || len(entry.Name()) != 2 {
			continue
		}

		files, err := os.ReadDir(filepath.Join(fs.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			key, err := hex.DecodeString(f.Name())
			if err != nil || len(key) != KeySize {
				continue
			}
			result = append(result, key)
		}
	}
	return result, nil
}
