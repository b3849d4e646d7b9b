// Package storage defines the minimal storage contract used by export steps.
// It abstracts object writes so the export job does not care whether the
// destination is a local directory or a remote bucket.
package storage

import (
	"context"
	"io"
)

// Connection represents a data storage destination for exported artifacts.
type Connection interface {
	// Upload writes data to the specified object name within the destination.
	// contentType is the MIME type of the data.
	Upload(ctx context.Context, objectName string, data io.Reader, contentType string) error
	// Type returns the adapter type (e.g., "local").
	Type() string
	// Close releases any resources held by the connection.
	Close() error
}
