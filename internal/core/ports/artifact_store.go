package ports

import (
	"context"
	"io"
)

// ArtifactContent is the result of retrieving an artifact. Exactly one of
// Body or RedirectURL is set: the local backend streams bytes, the remote
// backend hands back a time-limited signed URL for the caller to redirect to.
type ArtifactContent struct {
	Body        io.ReadCloser
	RedirectURL string
	Filename    string
}

// ArtifactStore abstracts where uploaded deliverables live. Implementations
// must mint a fresh key on every Save (a retried upload never overwrites an
// existing object) and must treat deleting an absent key as success.
type ArtifactStore interface {
	// Save stores the file under a key namespaced by the owning work order
	// and returns that key. The returned key is the single source of truth;
	// callers overwrite any previously recorded reference with it.
	Save(ctx context.Context, orderID int64, originalName string, r io.Reader) (string, error)

	// Retrieve produces the artifact content for the given key.
	Retrieve(ctx context.Context, key string) (*ArtifactContent, error)

	// Delete removes the artifact. An already-absent key is not an error.
	Delete(ctx context.Context, key string) error
}
