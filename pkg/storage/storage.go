// Package storage persists pipeline run artifacts (per-invoice text
// dumps, JSON exports) on the local filesystem.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// FileInfo contains metadata about a stored artifact
type FileInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Path        string    `json:"path"` // Internal storage path
	CreatedAt   time.Time `json:"created_at"`
}

// Store defines the interface for artifact storage operations
type Store interface {
	// Put stores an artifact under the current run and returns its metadata
	Put(ctx context.Context, name string, contentType string, r io.Reader) (*FileInfo, error)

	// Open retrieves a stored artifact by its ID
	Open(ctx context.Context, fileID uuid.UUID) (io.ReadCloser, *FileInfo, error)

	// List returns all artifacts of the current run
	List(ctx context.Context) ([]*FileInfo, error)

	// GetInfo returns metadata for an artifact without opening it
	GetInfo(ctx context.Context, fileID uuid.UUID) (*FileInfo, error)

	// RunDir returns the directory the current run writes to
	RunDir() string
}
