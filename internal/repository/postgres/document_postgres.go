package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"dms/internal/model"
	"dms/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const metadataColumns = `id, COALESCE(file_name, ''), user_id, is_public, created_at, last_modified_at, mime_type, file_size`

func scanMetadata(row interface{ Scan(...any) error }) (*model.DocumentMetadata, error) {
	var d model.DocumentMetadata
	if err := row.Scan(
		&d.ID,
		&d.FileName,
		&d.UserID,
		&d.IsPublic,
		&d.CreatedDate,
		&d.LastModified,
		&d.MimeType,
		&d.FileSize,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateWithContent inserts metadata and content and finalizes the derived
// file name inside a single transaction. The name embeds the server-assigned
// id, so the insert necessarily runs before the name is known; wrapping both
// steps in one transaction means a failure at any point leaves neither an
// orphaned content row nor a null-named metadata row behind.
func (r *DocumentPostgres) CreateWithContent(ctx context.Context, doc *model.DocumentMetadata, content *model.DocumentContent, ext string) (*model.DocumentMetadata, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const qInsert = `
		INSERT INTO documents (user_id, is_public, mime_type, file_size)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, last_modified_at
	`
	out := &model.DocumentMetadata{
		UserID:   doc.UserID,
		IsPublic: doc.IsPublic,
		MimeType: doc.MimeType,
		FileSize: doc.FileSize,
	}
	if err := tx.QueryRowContext(ctx, qInsert,
		doc.UserID, doc.IsPublic, doc.MimeType, doc.FileSize,
	).Scan(&out.ID, &out.CreatedDate, &out.LastModified); err != nil {
		return nil, err
	}

	const qContent = `
		INSERT INTO document_contents (document_id, checksum, content)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.ExecContext(ctx, qContent, out.ID, content.Checksum, content.Content); err != nil {
		return nil, err
	}

	out.FileName = fmt.Sprintf("%d%s", out.ID, ext)
	const qName = `UPDATE documents SET file_name = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, qName, out.FileName, out.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID fetches a metadata record and its tag names.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.DocumentMetadata, error) {
	q := `SELECT ` + metadataColumns + ` FROM documents WHERE id = $1`
	d, err := scanMetadata(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}

	const qTags = `
		SELECT t.name
		FROM tags t
		JOIN document_tags dt ON dt.tag_id = t.id
		WHERE dt.document_id = $1
		ORDER BY t.name
	`
	rows, err := r.db.QueryContext(ctx, qTags, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		d.Tags = append(d.Tags, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// FindContent fetches the content row for a document.
func (r *DocumentPostgres) FindContent(ctx context.Context, id int64) (*model.DocumentContent, error) {
	const q = `SELECT document_id, checksum, content FROM document_contents WHERE document_id = $1`
	var c model.DocumentContent
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.DocumentID, &c.Checksum, &c.Content); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateMetadata applies the patch with COALESCE over the present fields and
// unconditionally refreshes last_modified_at, returning the updated record.
func (r *DocumentPostgres) UpdateMetadata(ctx context.Context, id int64, p repository.DocumentPatch) (*model.DocumentMetadata, error) {
	q := `
		UPDATE documents
		SET file_name        = COALESCE($2, file_name),
		    is_public        = COALESCE($3, is_public),
		    last_modified_at = now()
		WHERE id = $1
		RETURNING ` + metadataColumns
	return scanMetadata(r.db.QueryRowContext(ctx, q, id, p.FileName, p.IsPublic))
}

// ReplaceContent overwrites the content row (payload and checksum together)
// and the dependent metadata fields in one transaction. A missing content or
// metadata row surfaces as sql.ErrNoRows.
func (r *DocumentPostgres) ReplaceContent(ctx context.Context, id int64, content *model.DocumentContent, mimeType string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const qContent = `
		UPDATE document_contents
		SET checksum = $2, content = $3
		WHERE document_id = $1
	`
	res, err := tx.ExecContext(ctx, qContent, id, content.Checksum, content.Content)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return sql.ErrNoRows
	}

	const qMeta = `
		UPDATE documents
		SET file_size = $2, mime_type = $3, last_modified_at = now()
		WHERE id = $1
	`
	res, err = tx.ExecContext(ctx, qMeta, id, int64(len(content.Content)), mimeType)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return sql.ErrNoRows
	}

	return tx.Commit()
}

// ListReport builds the report projection in two passes: one over metadata,
// one over tag links, merged in memory.
func (r *DocumentPostgres) ListReport(ctx context.Context) ([]model.DocumentReport, error) {
	const qDocs = `
		SELECT id, COALESCE(file_name, ''), user_id, is_public, created_at, last_modified_at, file_size
		FROM documents
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, qDocs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]model.DocumentReport, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var rep model.DocumentReport
		if err := rows.Scan(
			&rep.DocumentID,
			&rep.FileName,
			&rep.CreatedBy,
			&rep.IsPublic,
			&rep.CreatedDate,
			&rep.LastModified,
			&rep.FileSize,
		); err != nil {
			return nil, err
		}
		rep.Tags = []string{}
		index[rep.DocumentID] = len(reports)
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const qTags = `
		SELECT dt.document_id, t.name
		FROM document_tags dt
		JOIN tags t ON t.id = dt.tag_id
		ORDER BY dt.document_id, t.name
	`
	tagRows, err := r.db.QueryContext(ctx, qTags)
	if err != nil {
		return nil, err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var docID int64
		var name string
		if err := tagRows.Scan(&docID, &name); err != nil {
			return nil, err
		}
		if i, ok := index[docID]; ok {
			reports[i].Tags = append(reports[i].Tags, name)
		}
	}
	if err := tagRows.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}
