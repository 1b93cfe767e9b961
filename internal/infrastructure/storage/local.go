package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gsme/workorder-system/internal/core/ports"
)

// LocalStore keeps artifacts on the local filesystem under a single root
// directory. Keys are flat file names of the form
// <orderID>_<timestamp>_<original name>, so concurrent uploads for different
// orders and repeated uploads for the same order never collide.
type LocalStore struct {
	root string
	now  func() time.Time
}

var _ ports.ArtifactStore = (*LocalStore)(nil)

// NewLocalStore creates the root directory if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		return nil, errors.New("local storage path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStore{root: root, now: time.Now}, nil
}

func (s *LocalStore) Save(_ context.Context, orderID int64, originalName string, r io.Reader) (string, error) {
	key := fmt.Sprintf("%d_%d_%s", orderID, s.now().UTC().UnixNano(), sanitizeName(originalName))

	// O_EXCL guards the fresh-key contract: a key is never reused, so an
	// existing file under it means the key generator is broken.
	f, err := os.OpenFile(filepath.Join(s.root, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create artifact file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close artifact: %w", err)
	}
	return key, nil
}

func (s *LocalStore) Retrieve(_ context.Context, key string) (*ports.ArtifactContent, error) {
	f, err := os.Open(filepath.Join(s.root, filepath.Base(key)))
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	return &ports.ArtifactContent{Body: f, Filename: downloadName(key)}, nil
}

// Delete removes the file; an already-absent key counts as success.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(s.root, filepath.Base(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove artifact: %w", err)
	}
	return nil
}

// sanitizeName strips path components and characters that have no business
// in a storage key.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// downloadName recovers the original file name portion of a key for the
// Content-Disposition header. Local keys are <orderID>_<ts>_<name>, remote
// keys <orderID>/<ts>_<name>; the name is whatever follows the timestamp.
func downloadName(key string) string {
	base := filepath.Base(key)
	parts := strings.SplitN(base, "_", 3)
	switch {
	case strings.Contains(key, "/") && len(parts) >= 2 && parts[1] != "":
		return strings.Join(parts[1:], "_")
	case len(parts) == 3 && parts[2] != "":
		return parts[2]
	}
	return base
}
