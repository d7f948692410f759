package repository

import "context"

// TagRepository resolves tag names to ids and links them to documents.
// The UNIQUE constraint on tags.name is the authoritative guard against
// duplicate tag rows under concurrent requests; implementations absorb
// a lost insert race by re-reading the winner's id.
type TagRepository interface {
	// ResolveOrCreate maps each requested name to a tag id, creating
	// exactly one row per name that has no existing match.
	ResolveOrCreate(ctx context.Context, names []string) (map[string]int64, error)

	// Link attaches tags to a document, skipping pairs that already
	// exist, and returns the number of links actually created.
	// Reapplying the same set is idempotent and creates zero.
	Link(ctx context.Context, documentID int64, tagIDs []int64) (int, error)
}
