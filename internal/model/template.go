package model

import (
	"fmt"
	"time"
)

// DocumentKind identifies which business record a template renders.
type DocumentKind string

const (
	KindProposal DocumentKind = "proposal"
	KindBilling  DocumentKind = "billing"
)

// ParseDocumentKind validates a kind supplied by the caller (e.g. a URL segment).
func ParseDocumentKind(s string) (DocumentKind, error) {
	switch DocumentKind(s) {
	case KindProposal, KindBilling:
		return DocumentKind(s), nil
	}
	return "", fmt.Errorf("unknown document kind %q", s)
}

// Template is the single stored template slot for one document kind.
// At most one row exists per kind; uploading a replacement discards the
// previous one (last-write-wins, no versioning).
type Template struct {
	ID           string       `json:"id"`
	DocumentKind DocumentKind `json:"document_kind"`
	Filename     string       `json:"filename"`
	StoragePath  string       `json:"storage_path"`
	Size         int64        `json:"size"`
	UploadedAt   time.Time    `json:"uploaded_at"`
}
