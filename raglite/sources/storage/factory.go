package storage

import (
	"fmt"

	"raglite/raglite/config"
)

// New selects the active backend from configuration. Called once at process
// start; the returned instance is shared for the process lifetime.
func New(cfg config.Config) (Storage, error) {
	switch cfg.StorageType {
	case "local":
		return NewLocalStorage(cfg.StorageDir)
	case "minio":
		return NewMinIOStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
