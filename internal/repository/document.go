package repository

import (
	"context"

	"dms/internal/model"
)

// DocumentPatch is a partial metadata update; only non-nil fields are
// written. Any successful update refreshes the last-modified timestamp,
// even when every field is absent or unchanged.
type DocumentPatch struct {
	FileName *string
	IsPublic *bool
}

// DocumentRepository defines data access for document metadata and
// content using SQL queries only. No business logic here — strictly
// persistence operations. Multi-row writes are each one transaction.
type DocumentRepository interface {
	// CreateWithContent inserts the metadata row, its paired content row,
	// and finalizes the file name as "{id}{ext}" — all in one transaction.
	// The returned record carries the server-assigned id and final name.
	CreateWithContent(ctx context.Context, doc *model.DocumentMetadata, content *model.DocumentContent, ext string) (*model.DocumentMetadata, error)

	// FindByID returns a metadata record with its tag names. A missing
	// row surfaces as sql.ErrNoRows.
	FindByID(ctx context.Context, id int64) (*model.DocumentMetadata, error)

	// FindContent returns the content row for a document.
	FindContent(ctx context.Context, id int64) (*model.DocumentContent, error)

	// UpdateMetadata applies a partial patch and refreshes the
	// last-modified timestamp, returning the updated record.
	UpdateMetadata(ctx context.Context, id int64, p DocumentPatch) (*model.DocumentMetadata, error)

	// ReplaceContent overwrites payload and checksum together, and the
	// metadata size, mime label, and last-modified timestamp, in one
	// transaction. The file name is left untouched.
	ReplaceContent(ctx context.Context, id int64, content *model.DocumentContent, mimeType string) error

	// ListReport returns the read-only projection consumed by the report
	// export collaborator.
	ListReport(ctx context.Context) ([]model.DocumentReport, error)
}
