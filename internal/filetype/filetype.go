package filetype

import "errors"

// MaxFileSize is the upper bound for uploaded payloads, inclusive:
// a payload of exactly 5 MiB is accepted.
const MaxFileSize = 5 * 1024 * 1024

var (
	// ErrTooLarge is returned before any classification is attempted.
	ErrTooLarge = errors.New("file exceeds the 5 MiB size limit")
	// ErrUnrecognized is returned when the leading bytes match no known signature.
	ErrUnrecognized = errors.New("unrecognized file type")
)

// Type describes a detected file format.
type Type struct {
	Label string
	MIME  string
	Ext   string
}

var (
	typePDF = Type{
		Label: "PDF",
		MIME:  "application/pdf",
		Ext:   ".pdf",
	}
	typeDOCX = Type{
		Label: "DOCX",
		MIME:  "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Ext:   ".docx",
	}
)

// Detect classifies a payload by its magic-byte signature after enforcing
// the size ceiling. Supported signatures: %PDF (25 50 44 46) and the ZIP
// container used by DOCX (50 4B 03 04).
//
// The check is signature-only: any payload sharing a magic prefix passes,
// regardless of its internal structure. That is an accepted limitation of
// this validator, not something it tries to compensate for.
func Detect(b []byte) (Type, error) {
	if len(b) > MaxFileSize {
		return Type{}, ErrTooLarge
	}
	if len(b) < 4 {
		return Type{}, ErrUnrecognized
	}
	switch {
	case b[0] == 0x25 && b[1] == 0x50 && b[2] == 0x44 && b[3] == 0x46:
		return typePDF, nil
	case b[0] == 0x50 && b[1] == 0x4B && b[2] == 0x03 && b[3] == 0x04:
		return typeDOCX, nil
	}
	return Type{}, ErrUnrecognized
}
