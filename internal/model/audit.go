package model

import "time"

// AuditAction labels a mutating operation in the audit trail.
type AuditAction string

const (
	ActionUpload       AuditAction = "Upload"
	ActionEditMetadata AuditAction = "EditMetadata"
	ActionEditContent  AuditAction = "EditContent"
)

// AuditLog is an append-only record of who performed which mutating
// action on which document. Rows are never updated or deleted.
type AuditLog struct {
	ID         int64       `json:"id"`
	Action     AuditAction `json:"action"`
	UserID     string      `json:"userId"`
	DocumentID int64       `json:"documentId"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// DocumentReport is the read-only projection consumed by the report
// export collaborator. This core exposes the data; it owns no
// spreadsheet/PDF formatting.
type DocumentReport struct {
	DocumentID   int64     `json:"documentId"`
	FileName     string    `json:"fileName"`
	CreatedDate  time.Time `json:"createdDate"`
	LastModified time.Time `json:"lastModifiedDate"`
	FileSize     int64     `json:"fileSize"`
	IsPublic     bool      `json:"isPublic"`
	CreatedBy    string    `json:"createdBy"`
	Email        string    `json:"email,omitempty"`
	Tags         []string  `json:"tags"`
}
