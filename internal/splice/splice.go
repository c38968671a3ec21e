// Package splice registers a generated module in the project's aggregating
// router file.
package splice

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/polycore/internal/filesystem"
	"github.com/jakoblorz/polycore/internal/models"
)

var (
	ErrImportAnchorNotFound = errors.New("router file has no import statement")
	ErrExportAnchorNotFound = errors.New("router file has no default export")
	ErrAnchorOrder          = errors.New("router file exports before its last import")
)

// Outcome reports what SpliceFile did to the router file.
type Outcome string

const (
	OutcomeSpliced Outcome = "spliced"
	OutcomeSkipped Outcome = "skipped"
)

// Registration describes the two lines added for one module.
type Registration struct {
	Name       models.EntityName
	RouterName string
	ImportPath string
}

// ImportLine is the statement importing the module's router.
func (r Registration) ImportLine() string {
	return fmt.Sprintf("import %s from '%s';", r.Name.RoutesIdent(), r.ImportPath)
}

// UseLine mounts the module's router at its pluralized path.
func (r Registration) UseLine() string {
	return fmt.Sprintf("%s.use('/%s', %s);", r.RouterName, r.Name.Plural(), r.Name.RoutesIdent())
}

// Splice inserts the import after the last import statement and the use
// statement right before the default export. No other line changes.
func Splice(content []byte, reg Registration) ([]byte, error) {
	text := string(content)
	eol := "\n"
	if strings.Contains(text, "\r\n") {
		eol = "\r\n"
	}

	lines := strings.Split(text, "\n")
	cr := ""
	if eol == "\r\n" {
		cr = "\r"
	}

	lastImport := -1
	exportAt := -1
	var comments blockComments
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSuffix(lines[i], "\r")
		if comments.scan(line) {
			continue
		}
		if isImport(line) {
			end := statementEnd(lines, i)
			lastImport = end
			i = end
			continue
		}
		if exportAt == -1 && strings.HasPrefix(line, "export default") {
			exportAt = i
		}
	}

	if lastImport == -1 {
		return nil, ErrImportAnchorNotFound
	}
	if exportAt == -1 {
		return nil, ErrExportAnchorNotFound
	}
	if exportAt < lastImport {
		return nil, ErrAnchorOrder
	}

	out := make([]string, 0, len(lines)+2)
	out = append(out, lines[:lastImport+1]...)
	out = append(out, reg.ImportLine()+cr)
	out = append(out, lines[lastImport+1:exportAt]...)
	out = append(out, reg.UseLine()+cr)
	out = append(out, lines[exportAt:]...)

	return []byte(strings.Join(out, "\n")), nil
}

// SpliceFile applies Splice to the file at path. A missing file is skipped.
func SpliceFile(fs filesystem.FileSystem, path string, reg Registration) (Outcome, error) {
	if !fs.Exists(path) {
		return OutcomeSkipped, nil
	}

	info, err := fs.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat router file: %w", err)
	}

	content, err := fs.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read router file: %w", err)
	}

	updated, err := Splice(content, reg)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	if err := fs.WriteFile(path, updated, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("failed to write router file: %w", err)
	}

	return OutcomeSpliced, nil
}

// ImportPath returns the ESM specifier routerFile uses to import target.
// TypeScript sources are referenced by their emitted .js name.
func ImportPath(routerFile, target string) (string, error) {
	rel, err := filepath.Rel(filepath.Dir(routerFile), target)
	if err != nil {
		return "", fmt.Errorf("failed to relate %s to %s: %w", target, routerFile, err)
	}

	rel = filepath.ToSlash(rel)
	if ext := path.Ext(rel); ext == ".ts" {
		rel = strings.TrimSuffix(rel, ext) + ".js"
	}
	if !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel, nil
}

func isImport(line string) bool {
	return strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "import{")
}

// statementEnd returns the index of the line that closes the import
// statement starting at lines[start].
func statementEnd(lines []string, start int) int {
	first := strings.TrimSpace(lines[start])
	if strings.Contains(first, " from ") || strings.HasSuffix(first, ";") || isSideEffectImport(first) {
		return start
	}

	for i := start + 1; i < len(lines); i++ {
		t := strings.TrimSpace(lines[i])
		if strings.HasPrefix(t, "from ") || strings.Contains(t, " from ") || strings.HasSuffix(t, ";") {
			return i
		}
	}
	return start
}

func isSideEffectImport(line string) bool {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "import"))
	return strings.HasPrefix(rest, "'") || strings.HasPrefix(rest, "\"")
}

// blockComments tracks whether scanning is inside a /* */ comment. Quoted
// strings and line comments are skipped so '/*' in a route path does not
// open one.
type blockComments struct {
	open bool
}

// scan advances past line and reports whether the line began inside a
// block comment.
func (c *blockComments) scan(line string) bool {
	started := c.open
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]
		next := byte(0)
		if i+1 < len(line) {
			next = line[i+1]
		}

		switch {
		case c.open:
			if ch == '*' && next == '/' {
				c.open = false
				i++
			}
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '/' && next == '/':
			return started
		case ch == '/' && next == '*':
			c.open = true
			i++
		}
	}
	return started
}
