package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dms/internal/checksum"
	"dms/internal/filetype"
	"dms/internal/model"
	"dms/internal/repository"
)

var (
	ErrInvalidID    = errors.New("invalid document id")
	ErrNotFound     = errors.New("document not found")
	ErrFileRequired = errors.New("no file was uploaded")
)

// AuditWarning is attached to an otherwise successful result when the
// audit append failed. The triggering mutation is never rolled back for
// a failed audit write, but the failure is not swallowed either.
const AuditWarning = "audit log entry could not be recorded"

// UploadInput carries everything needed to ingest a new document.
type UploadInput struct {
	UserID   string
	IsPublic bool
	Tags     []string
	Payload  []byte
}

// UpdateInput is a partial metadata patch. Only non-nil fields are
// applied; Tags only ever adds links, it never removes them.
type UpdateInput struct {
	UserID   string
	FileName *string
	IsPublic *bool
	Tags     []string
}

// MutationResult pairs the resulting record with an optional
// warning about the decoupled audit append.
type MutationResult struct {
	Document *model.DocumentMetadata `json:"document"`
	Warning  string                  `json:"warning,omitempty"`
}

// DownloadResult is the raw content of a document plus the stored
// name and MIME label it should be served under.
type DownloadResult struct {
	FileName string
	MimeType string
	IsPublic bool
	Content  []byte
}

// UserInfo is the identity collaborator's view of a document owner.
type UserInfo struct {
	DisplayName string
	Email       string
}

// UserDirectory resolves user identifiers to display information. It is
// owned by the identity collaborator; this core only consumes it when
// building the report projection.
type UserDirectory interface {
	Lookup(ctx context.Context, userID string) (UserInfo, error)
}

// ClaimsDirectory is the default UserDirectory: it knows nothing beyond
// the identifier itself and echoes it back as the display name.
type ClaimsDirectory struct{}

func (ClaimsDirectory) Lookup(_ context.Context, userID string) (UserInfo, error) {
	return UserInfo{DisplayName: userID}, nil
}

// DocumentService defines the use cases of the ingestion and metadata
// lifecycle engine. Role and visibility gating happen at the HTTP layer
// via the policy package; these methods assume the caller was allowed.
type DocumentService interface {
	// Upload validates and classifies the payload, stores metadata and
	// content atomically, applies tags, and records an audit entry.
	Upload(ctx context.Context, in UploadInput) (*MutationResult, error)

	// Get returns a document's metadata including tag names.
	Get(ctx context.Context, id int64) (*model.DocumentMetadata, error)

	// Download returns the exact stored bytes with the stored name and
	// MIME label.
	Download(ctx context.Context, id int64) (*DownloadResult, error)

	// Update applies a partial metadata patch, links any newly supplied
	// tags, and records an audit entry. The last-modified timestamp is
	// refreshed even when the patch changes nothing.
	Update(ctx context.Context, id int64, in UpdateInput) (*MutationResult, error)

	// ReplaceContent overwrites a document's payload and checksum
	// together, updates the dependent metadata, and records an audit
	// entry. The file name keeps its original pattern.
	ReplaceContent(ctx context.Context, id int64, userID string, payload []byte) (*MutationResult, error)

	// Report returns the read-only projection for the report export
	// collaborator, with owner info resolved through the directory.
	Report(ctx context.Context) ([]model.DocumentReport, error)
}

type documentService struct {
	docs  repository.DocumentRepository
	tags  repository.TagRepository
	audit repository.AuditRepository
	users UserDirectory
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(docs repository.DocumentRepository, tags repository.TagRepository, audit repository.AuditRepository, users UserDirectory) DocumentService {
	if users == nil {
		users = ClaimsDirectory{}
	}
	return &documentService{docs: docs, tags: tags, audit: audit, users: users}
}

func (s *documentService) Upload(ctx context.Context, in UploadInput) (*MutationResult, error) {
	if len(in.Payload) == 0 {
		return nil, ErrFileRequired
	}
	typ, err := filetype.Detect(in.Payload)
	if err != nil {
		return nil, err
	}

	doc := &model.DocumentMetadata{
		UserID:   in.UserID,
		IsPublic: in.IsPublic,
		MimeType: typ.MIME,
		FileSize: int64(len(in.Payload)),
	}
	content := &model.DocumentContent{
		Checksum: checksum.Sum(in.Payload),
		Content:  in.Payload,
	}
	stored, err := s.docs.CreateWithContent(ctx, doc, content, typ.Ext)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	if err := s.applyTags(ctx, stored.ID, in.Tags); err != nil {
		return nil, err
	}
	stored.Tags = normalizeTags(in.Tags)

	res := &MutationResult{Document: stored}
	if err := s.audit.Append(ctx, model.ActionUpload, in.UserID, stored.ID); err != nil {
		res.Warning = AuditWarning
	}
	return res, nil
}

func (s *documentService) Get(ctx context.Context, id int64) (*model.DocumentMetadata, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Download(ctx context.Context, id int64) (*DownloadResult, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := s.docs.FindContent(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &DownloadResult{
		FileName: doc.FileName,
		MimeType: doc.MimeType,
		IsPublic: doc.IsPublic,
		Content:  content.Content,
	}, nil
}

func (s *documentService) Update(ctx context.Context, id int64, in UpdateInput) (*MutationResult, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	patch := repository.DocumentPatch{FileName: in.FileName, IsPublic: in.IsPublic}
	if _, err := s.docs.UpdateMetadata(ctx, id, patch); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update document: %w", err)
	}
	if err := s.applyTags(ctx, id, in.Tags); err != nil {
		return nil, err
	}

	// Re-read so the response carries the full record including tags.
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &MutationResult{Document: doc}
	if err := s.audit.Append(ctx, model.ActionEditMetadata, in.UserID, id); err != nil {
		res.Warning = AuditWarning
	}
	return res, nil
}

func (s *documentService) ReplaceContent(ctx context.Context, id int64, userID string, payload []byte) (*MutationResult, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	if len(payload) == 0 {
		return nil, ErrFileRequired
	}
	typ, err := filetype.Detect(payload)
	if err != nil {
		return nil, err
	}

	content := &model.DocumentContent{
		Checksum: checksum.Sum(payload),
		Content:  payload,
	}
	if err := s.docs.ReplaceContent(ctx, id, content, typ.MIME); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("replace content: %w", err)
	}

	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &MutationResult{Document: doc}
	if err := s.audit.Append(ctx, model.ActionEditContent, userID, id); err != nil {
		res.Warning = AuditWarning
	}
	return res, nil
}

func (s *documentService) Report(ctx context.Context) ([]model.DocumentReport, error) {
	reports, err := s.docs.ListReport(ctx)
	if err != nil {
		return nil, err
	}
	for i := range reports {
		info, err := s.users.Lookup(ctx, reports[i].CreatedBy)
		if err != nil {
			// Directory lookups are best-effort; the raw id stands in.
			continue
		}
		reports[i].CreatedBy = info.DisplayName
		reports[i].Email = info.Email
	}
	return reports, nil
}

// applyTags resolves the supplied names and links them to the document.
// Missing tags are created; existing links are skipped, so reapplying
// the same set is a no-op.
func (s *documentService) applyTags(ctx context.Context, docID int64, names []string) error {
	names = normalizeTags(names)
	if len(names) == 0 {
		return nil
	}
	resolved, err := s.tags.ResolveOrCreate(ctx, names)
	if err != nil {
		return fmt.Errorf("resolve tags: %w", err)
	}
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		ids = append(ids, resolved[name])
	}
	if _, err := s.tags.Link(ctx, docID, ids); err != nil {
		return fmt.Errorf("link tags: %w", err)
	}
	return nil
}

// normalizeTags trims whitespace and drops empties and duplicates while
// preserving order. Comparison is case-sensitive, matching the tag
// uniqueness rule.
func normalizeTags(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
