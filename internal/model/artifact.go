package model

import "fmt"

// Format is the delivery format a caller requests for a rendered document.
type Format string

const (
	FormatDocx Format = "docx"
	FormatPDF  Format = "pdf"
)

// ParseFormat validates a caller-supplied format selector. An empty value
// defaults to best-effort PDF.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "":
		return FormatPDF, nil
	case string(FormatDocx), string(FormatPDF):
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// ContentType returns the MIME type delivered for this format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// Ext returns the filename extension, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// Artifact is a rendered document, returned once and discarded.
// Fallback is set when the caller's requested format could not be produced
// and the bytes carry a substitute format instead.
type Artifact struct {
	Bytes       []byte
	ContentType string
	Filename    string
	Fallback    bool
}
