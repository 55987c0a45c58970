package docx

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	openMarker  = "{{"
	closeMarker = "}}"
)

// Normalize repairs a template package so placeholder tokens become
// substitutable. Word stores paragraph text as independently styled runs,
// and a token typed in a word processor is frequently split across runs by
// autocorrect or formatting history. For every paragraph whose merged run
// text contains the open marker, the paragraph's run content is replaced by
// a single run holding the merged text, keeping the paragraph-properties
// element. Paragraphs without a marker are copied through byte-for-byte.
func Normalize(pkg []byte) ([]byte, error) {
	doc, err := ReadPart(pkg, documentPart)
	if err != nil {
		return nil, err
	}

	paras, err := scanParagraphs(doc)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Grow(len(doc))
	last := 0
	changed := false
	for _, p := range paras {
		if !strings.Contains(p.text, openMarker) {
			continue
		}
		out.Write(doc[last:p.start])
		if err := writeMergedParagraph(&out, doc, p); err != nil {
			return nil, err
		}
		last = p.end
		changed = true
	}
	if !changed {
		return pkg, nil
	}
	out.Write(doc[last:])

	return ReplacePart(pkg, documentPart, out.Bytes())
}

// writeMergedParagraph emits the paragraph rebuilt as its original opening
// tag, the untouched pPr element, and one run carrying the merged text.
func writeMergedParagraph(out *bytes.Buffer, doc []byte, p paragraph) error {
	raw := doc[p.start:p.end]
	tagEnd := bytes.IndexByte(raw, '>')
	if tagEnd < 0 {
		return fmt.Errorf("malformed paragraph at offset %d", p.start)
	}
	out.Write(raw[:tagEnd+1]) // original <w:p ...> tag, attributes preserved
	if p.pPr != nil {
		out.Write(p.pPr)
	}
	out.WriteString(`<w:r><w:t xml:space="preserve">`)
	out.WriteString(escapeText(p.text))
	out.WriteString(`</w:t></w:r></w:p>`)
	return nil
}
