package ports

import "context"

// Contract for storing exported route files.
type ArtifactStore interface {
	// Put stores data under key and returns its location.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}
