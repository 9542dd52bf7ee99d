// Pluggable binary object storage for cover images.
package storage

import "context"

// Storage is the contract every backend implements. Paths are relative,
// forward-slash separated object names like "covers/<id>.png".
type Storage interface {
	// Upload writes data at path, creating intermediate structure and
	// overwriting any existing object. Returns the stored path.
	Upload(ctx context.Context, path string, data []byte) (string, error)
	// Download returns the object bytes, apperrors.NotFoundError when the
	// object is absent, apperrors.StorageError on any other failure.
	Download(ctx context.Context, path string) ([]byte, error)
	// Delete removes the object. Deleting an absent object is not an error.
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	URL(ctx context.Context, path string) (string, error)
}
