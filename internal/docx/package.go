package docx

// Package docx reads, repairs and fills Word packages (zipped OOXML).
// Only the main document part is ever rewritten; every other archive entry
// round-trips byte-identical.

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
)

const documentPart = "word/document.xml"

// ErrNotPackage marks input that is not a structurally valid docx archive.
var ErrNotPackage = errors.New("not a valid docx package")

// ReadPart extracts one named entry from the package archive.
func ReadPart(pkg []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPackage, err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: missing %s", ErrNotPackage, name)
}

// ReplacePart writes a new archive with the named entry replaced by content.
// All other entries are copied raw so their bytes are untouched.
func ReplacePart(pkg []byte, name string, content []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPackage, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	replaced := false
	for _, f := range zr.File {
		if f.Name == name {
			w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
			if err != nil {
				return nil, fmt.Errorf("create %s: %w", name, err)
			}
			if _, err := w.Write(content); err != nil {
				return nil, fmt.Errorf("write %s: %w", name, err)
			}
			replaced = true
			continue
		}
		if err := zw.Copy(f); err != nil {
			return nil, fmt.Errorf("copy %s: %w", f.Name, err)
		}
	}
	if !replaced {
		return nil, fmt.Errorf("%w: missing %s", ErrNotPackage, name)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}
