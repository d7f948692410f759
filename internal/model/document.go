package model

import "time"

// DocumentMetadata is the registry record for an uploaded document.
// It is a pure domain model with no database-specific dependencies or tags;
// the repository layer owns column mapping.
type DocumentMetadata struct {
	ID           int64     `json:"id"`
	FileName     string    `json:"fileName"`
	UserID       string    `json:"userId"`
	IsPublic     bool      `json:"isPublic"`
	CreatedDate  time.Time `json:"createdDate"`
	LastModified time.Time `json:"lastModifiedDate"`
	MimeType     string    `json:"mimeType"`
	FileSize     int64     `json:"fileSize"`
	Tags         []string  `json:"tags,omitempty"`
}

// DocumentContent holds the raw payload and its checksum, keyed one-to-one
// to the owning metadata row. The checksum is always the SHA-256 digest of
// Content; the two fields are only ever written together.
type DocumentContent struct {
	DocumentID int64  `json:"documentId"`
	Checksum   string `json:"checksum"`
	Content    []byte `json:"-"`
}

// Tag is a shared label; names are unique and case-sensitive.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
