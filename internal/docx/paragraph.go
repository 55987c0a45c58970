package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// paragraph is one <w:p> element of the document part, located by its raw
// byte span so untouched paragraphs can be copied through verbatim.
type paragraph struct {
	start int    // offset of '<' of the opening <w:p> tag
	end   int    // offset just past the closing </w:p> tag
	text  string // concatenated <w:t> text of all runs in the paragraph
	pPr   []byte // raw paragraph-properties element, nil if absent
}

// scanParagraphs walks the document part and returns every paragraph with
// its raw span, merged run text and formatting-properties element. Word
// never nests paragraphs, so a flat scan is sufficient (table-cell
// paragraphs are still complete <w:p> elements and are picked up too).
func scanParagraphs(doc []byte) ([]paragraph, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))

	var paras []paragraph
	var cur *paragraph
	var text strings.Builder
	depth := 0
	inText := false
	pPrStart := int64(-1)

	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document part: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case cur == nil && t.Name.Local == "p":
				cur = &paragraph{start: int(off)}
				depth = 1
			case cur != nil:
				depth++
				if t.Name.Local == "pPr" && cur.pPr == nil && pPrStart < 0 {
					pPrStart = off
				}
				if t.Name.Local == "t" {
					inText = true
				}
			}
		case xml.EndElement:
			if cur == nil {
				continue
			}
			if t.Name.Local == "t" {
				inText = false
			}
			if t.Name.Local == "pPr" && pPrStart >= 0 && cur.pPr == nil {
				cur.pPr = doc[pPrStart:dec.InputOffset()]
				pPrStart = -1
			}
			depth--
			if depth == 0 {
				cur.end = int(dec.InputOffset())
				cur.text = text.String()
				paras = append(paras, *cur)
				cur = nil
				text.Reset()
				inText = false
				pPrStart = -1
			}
		case xml.CharData:
			if cur != nil && inText {
				text.Write(t)
			}
		}
	}
	if cur != nil {
		return nil, fmt.Errorf("parse document part: unterminated paragraph")
	}
	return paras, nil
}

// escapeText prepares a string for embedding in a <w:t> element. Control
// characters invalid in XML become spaces; markup characters are escaped,
// ampersand first so entities are not double-escaped.
func escapeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	out = strings.ReplaceAll(out, "&", "&amp;")
	out = strings.ReplaceAll(out, "<", "&lt;")
	out = strings.ReplaceAll(out, ">", "&gt;")
	out = strings.ReplaceAll(out, `"`, "&quot;")
	return out
}
