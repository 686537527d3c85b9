// Package files edits VCS ignore files on behalf of the CLI.
package files

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledgerprobe/ledgerprobe/internal/audit"
	"github.com/ledgerprobe/ledgerprobe/internal/cache"
)

// AppendIgnore ensures the given pattern is present in .gitignore at root.
// It creates the file if missing. Idempotent.
func AppendIgnore(root, pattern string) error {
	path := filepath.Join(root, ".gitignore")
	existing := map[string]bool{}
	endsWithNewline := true
	if b, err := os.ReadFile(path); err == nil {
		sc := bufio.NewScanner(strings.NewReader(string(b)))
		for sc.Scan() {
			existing[strings.TrimSpace(sc.Text())] = true
		}
		endsWithNewline = len(b) == 0 || b[len(b)-1] == '\n'
	}
	if existing[pattern] {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if !endsWithNewline {
		pattern = "\n" + pattern
	}
	_, err = f.WriteString(pattern + "\n")
	return err
}

// GeneratedFiles lists the files ledgerprobe writes next to analyzed data.
func GeneratedFiles() []string {
	return []string{cache.FileName, audit.FileName}
}
