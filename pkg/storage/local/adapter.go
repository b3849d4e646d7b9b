// Package local provides a local file system implementation of the storage adapter interface.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopseed/shopseed/pkg/storage"
	"github.com/shopseed/shopseed/pkg/support/logger"
)

const (
	// ProviderType defines the type identifier for this local storage provider.
	ProviderType = "local"
)

// localAdapter implements the storage.Connection interface for local file system operations.
type localAdapter struct {
	baseDir string
}

// Verify that localAdapter implements the storage.Connection interface.
var _ storage.Connection = (*localAdapter)(nil)

// NewLocalAdapter creates a new localAdapter rooted at baseDir.
// It validates baseDir and attempts to create it if it doesn't exist.
func NewLocalAdapter(baseDir string) (storage.Connection, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("local storage adapter: base dir must be specified in configuration")
	}
	info, err := os.Stat(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(baseDir, 0755); err != nil {
				return nil, fmt.Errorf("local storage adapter: failed to create base dir '%s': %w", baseDir, err)
			}
		} else {
			return nil, fmt.Errorf("local storage adapter: failed to stat base dir '%s': %w", baseDir, err)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("local storage adapter: base dir '%s' is not a directory", baseDir)
	}

	return &localAdapter{baseDir: baseDir}, nil
}

// Upload writes data to a file under the adapter's base directory. The object
// name may contain slashes; intermediate directories are created as needed.
// Path traversal outside the base directory is rejected.
func (a *localAdapter) Upload(ctx context.Context, objectName string, data io.Reader, contentType string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	cleaned := filepath.Clean(objectName)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return fmt.Errorf("local storage adapter: invalid object name '%s'", objectName)
	}
	target := filepath.Join(a.baseDir, cleaned)

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("local storage adapter: failed to create directory for '%s': %w", target, err)
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("local storage adapter: failed to create file '%s': %w", target, err)
	}
	defer f.Close()

	n, err := io.Copy(f, data)
	if err != nil {
		return fmt.Errorf("local storage adapter: failed to write '%s': %w", target, err)
	}
	logger.Debugf("Local storage adapter wrote %d bytes to '%s' (content type: %s).", n, target, contentType)
	return nil
}

// Type returns the type of the adapter, which is "local".
func (a *localAdapter) Type() string {
	return ProviderType
}

// Close does nothing for the local file system adapter as it holds no special resources.
func (a *localAdapter) Close() error {
	return nil
}
