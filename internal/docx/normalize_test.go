package docx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_MergesSplitPlaceholderRuns(t *testing.T) {
	// "{{clientName}}" split across three independently styled runs, the way
	// word processors leave tokens after autocorrect.
	body := `<w:p><w:pPr><w:jc w:val="center"/></w:pPr>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t>{{client</w:t></w:r>` +
		`<w:r><w:t>Na</w:t></w:r>` +
		`<w:r><w:rPr><w:i/></w:rPr><w:t>me}}</w:t></w:r></w:p>`
	pkg := buildTestPackage(t, body, nil)

	out, err := Normalize(pkg)
	require.NoError(t, err)

	doc, err := ReadPart(out, documentPart)
	require.NoError(t, err)
	assert.Contains(t, string(doc), `<w:t xml:space="preserve">{{clientName}}</w:t>`)
	// The paragraph's formatting-properties element survives unchanged.
	assert.Contains(t, string(doc), `<w:pPr><w:jc w:val="center"/></w:pPr>`)

	paras, err := scanParagraphs(doc)
	require.NoError(t, err)
	require.Len(t, paras, 1)
	assert.Equal(t, "{{clientName}}", paras[0].text)
}

func TestNormalize_LeavesMarkerlessParagraphsUntouched(t *testing.T) {
	plain := `<w:p w:rsidR="00AB12"><w:r><w:t>Plain </w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>styled</w:t></w:r></w:p>`
	body := plain + `<w:p><w:r><w:t>{{total}}</w:t></w:r></w:p>`
	pkg := buildTestPackage(t, body, nil)

	out, err := Normalize(pkg)
	require.NoError(t, err)

	doc, err := ReadPart(out, documentPart)
	require.NoError(t, err)
	// Byte-for-byte: the multi-run paragraph keeps its exact markup.
	assert.Contains(t, string(doc), plain)
}

func TestNormalize_NoMarkersReturnsInputUnchanged(t *testing.T) {
	pkg := buildTestPackage(t, `<w:p><w:r><w:t>nothing to do</w:t></w:r></w:p>`, nil)

	out, err := Normalize(pkg)
	require.NoError(t, err)
	assert.Equal(t, pkg, out)
}

func TestNormalize_RejectsCorruptPackage(t *testing.T) {
	_, err := Normalize([]byte("garbage"))
	assert.ErrorIs(t, err, ErrNotPackage)
}

func TestEscapeText(t *testing.T) {
	assert.Equal(t, "a &amp;&lt;&gt;&quot; b", escapeText(`a &<>" b`))
	// Ampersand escapes first, so pre-existing entities do not double-escape
	// into &amp;lt;-style garbage on top of raw markup characters.
	assert.Equal(t, "&amp;amp;", escapeText("&amp;"))
	// Control characters invalid in XML text become spaces.
	assert.Equal(t, "a b", escapeText("a\x00b"))
	assert.Equal(t, "a\tb", escapeText("a\tb"))
}

func TestNormalize_PreservesOtherArchiveEntries(t *testing.T) {
	media := []byte{1, 2, 3, 4}
	body := `<w:p><w:r><w:t>{{x</w:t></w:r><w:r><w:t>}}</w:t></w:r></w:p>`
	pkg := buildTestPackage(t, body, map[string][]byte{"word/media/img.png": media})

	out, err := Normalize(pkg)
	require.NoError(t, err)

	entries := readEntries(t, out)
	assert.Equal(t, media, entries["word/media/img.png"])
	assert.True(t, strings.Contains(string(entries[documentPart]), "{{x}}"))
}
