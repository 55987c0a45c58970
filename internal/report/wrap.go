package report

import "strings"

// measureFunc reports the rendered width of a string in the current font.
type measureFunc func(string) float64

// wrapText splits text into lines no wider than maxWidth. Explicit newlines
// split first; words then pack greedily left-to-right onto each line. A
// single word wider than maxWidth is placed alone on its own line rather
// than dropped or truncated.
func wrapText(text string, maxWidth float64, measure measureFunc) []string {
	var lines []string
	for _, seg := range strings.Split(text, "\n") {
		words := strings.Fields(seg)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if measure(candidate) <= maxWidth {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = w
		}
		lines = append(lines, line)
	}
	return lines
}
