// Package ignore reads .ledgerprobeignore files: one glob per line, '#'
// comments, a trailing '/' for directories.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// FileName is looked up at the root of every walked directory.
const FileName = ".ledgerprobeignore"

type Matcher struct {
	globs []string
}

// Load parses an ignore file.
func Load(path string) (Matcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return Matcher{}, err
	}
	defer f.Close()

	var m Matcher
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		anchored := strings.HasPrefix(line, "/")
		line = strings.TrimPrefix(line, "/")
		if strings.HasSuffix(line, "/") {
			line += "**"
		}
		m.globs = append(m.globs, line)
		if !anchored && !strings.Contains(strings.TrimSuffix(line, "/**"), "/") {
			// unanchored: also match at any depth
			m.globs = append(m.globs, "**/"+line)
		}
	}
	return m, sc.Err()
}

// Match reports whether the slash- or OS-separated relative path is ignored.
func (m Matcher) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, g := range m.globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}

// Empty reports whether the matcher ignores nothing.
func (m Matcher) Empty() bool { return len(m.globs) == 0 }
