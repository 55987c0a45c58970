package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"docgen/internal/viewmodel"
)

// UnresolvedFieldError reports a template token that names no view-model
// field. Unresolved tokens fail the render rather than emitting blank text,
// so template/view-model mismatches surface immediately.
type UnresolvedFieldError struct {
	Field string
}

func (e *UnresolvedFieldError) Error() string {
	return fmt.Sprintf("unresolved placeholder %q", e.Field)
}

// Render substitutes the view model into a normalized package, producing a
// new valid package. Two substitution modes exist:
//
//   - {{name}} scalars resolve against the view-model fields (or, inside a
//     section, against the current row first).
//   - {{#name}}...{{/name}} sections repeat once per row of the named
//     collection. A conditional section with zero rows is excluded from the
//     output entirely, marker paragraphs included.
//
// A section whose markers share one paragraph repeats its inner text per
// row, joined by line breaks. Markers on their own paragraphs repeat the
// complete paragraphs between them.
func Render(pkg []byte, vm *viewmodel.ViewModel) ([]byte, error) {
	doc, err := ReadPart(pkg, documentPart)
	if err != nil {
		return nil, err
	}
	rendered, err := renderDocument(doc, vm)
	if err != nil {
		return nil, err
	}
	return ReplacePart(pkg, documentPart, rendered)
}

func renderDocument(doc []byte, vm *viewmodel.ViewModel) ([]byte, error) {
	paras, err := scanParagraphs(doc)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Grow(len(doc))
	last := 0
	for i := 0; i < len(paras); i++ {
		p := paras[i]
		out.Write(doc[last:p.start])

		name, hasOpen := sectionOpen(p.text)
		switch {
		case hasOpen && strings.Contains(p.text, sectionCloseMarker(name)):
			rendered, err := substituteParagraph(doc[p.start:p.end], vm, nil)
			if err != nil {
				return nil, err
			}
			out.Write(rendered)
			last = p.end

		case hasOpen:
			rows, ok := vm.Sections[name]
			if !ok {
				return nil, &UnresolvedFieldError{Field: "#" + name}
			}
			j := i + 1
			for ; j < len(paras); j++ {
				if strings.Contains(paras[j].text, sectionCloseMarker(name)) {
					break
				}
			}
			if j == len(paras) {
				return nil, fmt.Errorf("section %q is never closed", name)
			}
			for _, row := range rows {
				for k := i + 1; k < j; k++ {
					rendered, err := substituteParagraph(doc[paras[k].start:paras[k].end], vm, row)
					if err != nil {
						return nil, err
					}
					out.Write(rendered)
				}
			}
			last = paras[j].end
			i = j

		case strings.Contains(p.text, openMarker+"/"):
			return nil, fmt.Errorf("section close without matching open in %q", p.text)

		default:
			rendered, err := substituteParagraph(doc[p.start:p.end], vm, nil)
			if err != nil {
				return nil, err
			}
			out.Write(rendered)
			last = p.end
		}
	}
	out.Write(doc[last:])
	return out.Bytes(), nil
}

// sectionOpen extracts the name of the first section-open marker in text.
func sectionOpen(text string) (string, bool) {
	i := strings.Index(text, openMarker+"#")
	if i < 0 {
		return "", false
	}
	rest := text[i+len(openMarker)+1:]
	j := strings.Index(rest, closeMarker)
	if j < 0 {
		return "", false
	}
	return rest[:j], true
}

func sectionCloseMarker(name string) string {
	return openMarker + "/" + name + closeMarker
}

// substituteParagraph rewrites every <w:t> element of a raw paragraph whose
// text contains a marker. Elements without markers keep their exact bytes.
func substituteParagraph(raw []byte, vm *viewmodel.ViewModel, row map[string]string) ([]byte, error) {
	spans, err := scanTextSpans(raw)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Grow(len(raw))
	last := 0
	for _, sp := range spans {
		if !strings.Contains(sp.text, openMarker) {
			continue
		}
		expanded, err := expandText(sp.text, vm, row)
		if err != nil {
			return nil, err
		}
		out.Write(raw[last:sp.start])
		writeTextContent(&out, expanded)
		last = sp.end
	}
	out.Write(raw[last:])
	return out.Bytes(), nil
}

// writeTextContent emits escaped text as <w:t> content, turning embedded
// newlines into run breaks.
func writeTextContent(out *bytes.Buffer, text string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			out.WriteString(`</w:t><w:br/><w:t xml:space="preserve">`)
		}
		out.WriteString(escapeText(line))
	}
}

// expandText expands inline section blocks, then substitutes scalar tokens.
func expandText(text string, vm *viewmodel.ViewModel, row map[string]string) (string, error) {
	for {
		name, ok := sectionOpen(text)
		if !ok {
			break
		}
		open := openMarker + "#" + name + closeMarker
		closing := sectionCloseMarker(name)
		start := strings.Index(text, open)
		end := strings.Index(text, closing)
		if end < 0 {
			return "", fmt.Errorf("section %q is never closed", name)
		}
		rows, found := vm.Sections[name]
		if !found {
			return "", &UnresolvedFieldError{Field: "#" + name}
		}
		inner := text[start+len(open) : end]
		expanded := make([]string, 0, len(rows))
		for _, r := range rows {
			line, err := substituteScalars(inner, vm, r)
			if err != nil {
				return "", err
			}
			expanded = append(expanded, line)
		}
		text = text[:start] + strings.Join(expanded, "\n") + text[end+len(closing):]
	}
	return substituteScalars(text, vm, row)
}

func substituteScalars(text string, vm *viewmodel.ViewModel, row map[string]string) (string, error) {
	var out strings.Builder
	for {
		i := strings.Index(text, openMarker)
		if i < 0 {
			out.WriteString(text)
			return out.String(), nil
		}
		out.WriteString(text[:i])
		rest := text[i+len(openMarker):]
		j := strings.Index(rest, closeMarker)
		if j < 0 {
			return "", fmt.Errorf("unterminated placeholder near %q", text[i:])
		}
		name := rest[:j]
		value, ok := resolve(name, vm, row)
		if !ok {
			return "", &UnresolvedFieldError{Field: name}
		}
		out.WriteString(value)
		text = rest[j+len(closeMarker):]
	}
}

// resolve looks a field up in the current section row first, then in the
// top-level fields. Names are case-sensitive by contract.
func resolve(name string, vm *viewmodel.ViewModel, row map[string]string) (string, bool) {
	if row != nil {
		if v, ok := row[name]; ok {
			return v, true
		}
	}
	v, ok := vm.Fields[name]
	return v, ok
}

// textSpan is the content span of one <w:t> element within a raw paragraph.
type textSpan struct {
	start int    // offset just past the <w:t ...> start tag
	end   int    // offset of '<' of the </w:t> end tag
	text  string // unescaped element text
}

func scanTextSpans(raw []byte) ([]textSpan, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))

	var spans []textSpan
	var cur *textSpan
	var text strings.Builder
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse paragraph: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				cur = &textSpan{start: int(dec.InputOffset())}
			}
		case xml.EndElement:
			if t.Name.Local == "t" && cur != nil {
				cur.end = int(off)
				cur.text = text.String()
				spans = append(spans, *cur)
				cur = nil
				text.Reset()
			}
		case xml.CharData:
			if cur != nil {
				text.Write(t)
			}
		}
	}
	return spans, nil
}
