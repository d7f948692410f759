package postgres

import (
	"context"
	"database/sql"
	"errors"

	"dms/internal/repository"
)

// TagPostgres is a PostgreSQL implementation of repository.TagRepository.
type TagPostgres struct {
	db *sql.DB
}

// NewTagPostgres creates a new TagPostgres repository.
func NewTagPostgres(db *sql.DB) *TagPostgres {
	return &TagPostgres{db: db}
}

var _ repository.TagRepository = (*TagPostgres)(nil)

// ResolveOrCreate looks up all requested names in one pass and inserts a
// row for each missing one. Inserts use ON CONFLICT (name) DO NOTHING, so
// a concurrent request creating the same tag never fails this one: when the
// insert returns no row the winner's id is re-read instead.
func (r *TagPostgres) ResolveOrCreate(ctx context.Context, names []string) (map[string]int64, error) {
	resolved := make(map[string]int64, len(names))
	if len(names) == 0 {
		return resolved, nil
	}

	const qSelect = `SELECT id, name FROM tags WHERE name = ANY($1)`
	rows, err := r.db.QueryContext(ctx, qSelect, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		resolved[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const qInsert = `INSERT INTO tags (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id`
	const qByName = `SELECT id FROM tags WHERE name = $1`
	for _, name := range names {
		if _, ok := resolved[name]; ok {
			continue
		}
		var id int64
		err := r.db.QueryRowContext(ctx, qInsert, name).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			// Lost the race: someone else just created it, use theirs.
			err = r.db.QueryRowContext(ctx, qByName, name).Scan(&id)
		}
		if err != nil {
			return nil, err
		}
		resolved[name] = id
	}

	return resolved, nil
}

// Link inserts (document, tag) pairs, skipping ones that already exist, and
// reports how many new links were created.
func (r *TagPostgres) Link(ctx context.Context, documentID int64, tagIDs []int64) (int, error) {
	const q = `
		INSERT INTO document_tags (document_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (document_id, tag_id) DO NOTHING
	`
	created := 0
	for _, tagID := range tagIDs {
		res, err := r.db.ExecContext(ctx, q, documentID, tagID)
		if err != nil {
			return created, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return created, err
		}
		created += int(n)
	}
	return created, nil
}
