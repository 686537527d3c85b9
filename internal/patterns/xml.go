package patterns

import (
	"bytes"
	"regexp"
)

var reOpenTag = regexp.MustCompile(`<(\w+)>`)

// findXMLElements matches <name>...</name> where the closing tag repeats the
// opening name and both sit on the same line. The shortest such element
// starting at the leftmost opening tag wins; scanning resumes after it.
func findXMLElements(data []byte) [][]int {
	var out [][]int
	for pos := 0; pos < len(data); {
		loc := reOpenTag.FindSubmatchIndex(data[pos:])
		if loc == nil {
			break
		}
		start, openEnd := pos+loc[0], pos+loc[1]
		name := data[pos+loc[2] : pos+loc[3]]

		line := data[openEnd:]
		if nl := bytes.IndexByte(line, '\n'); nl >= 0 {
			line = line[:nl]
		}
		closing := make([]byte, 0, len(name)+3)
		closing = append(closing, "</"...)
		closing = append(closing, name...)
		closing = append(closing, '>')

		if i := bytes.Index(line, closing); i >= 0 {
			end := openEnd + i + len(closing)
			out = append(out, []int{start, end})
			pos = end
			continue
		}
		pos = start + 1
	}
	return out
}
