package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	gitignore "github.com/denormal/go-gitignore"
	"github.com/jakoblorz/polycore/internal/filesystem"
)

// TemplateSuffix marks files that are rendered before being written. The
// suffix is dropped from the destination name.
const TemplateSuffix = ".tmpl"

// Ignorer reports whether a path relative to the copied tree is skipped.
type Ignorer func(rel string, isDir bool) bool

// CopyOptions configures CopyTree.
type CopyOptions struct {
	// Data is passed to *.tmpl files. When nil, they are copied verbatim.
	Data any

	Ignore Ignorer
}

// CopyReport lists the destination paths CopyTree touched.
type CopyReport struct {
	Written []string
	Skipped []string
}

// CopyTree copies srcRoot of src into destRoot. Files that already exist at
// the destination are kept and reported as skipped.
func CopyTree(src fs.FS, srcRoot string, dst filesystem.FileSystem, destRoot string, opts CopyOptions) (*CopyReport, error) {
	info, err := fs.Stat(src, srcRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to copy template: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to copy template: %s is not a directory", srcRoot)
	}

	report := &CopyReport{}
	err = fs.WalkDir(src, srcRoot, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel := relPath(srcRoot, p)
		if rel == "" {
			return dst.MkdirAll(destRoot, 0755)
		}

		if opts.Ignore != nil && opts.Ignore(rel, d.IsDir()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		target := filepath.Join(destRoot, filepath.FromSlash(rel))
		if d.IsDir() {
			return dst.MkdirAll(target, 0755)
		}

		content, err := fs.ReadFile(src, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		if opts.Data != nil && strings.HasSuffix(rel, TemplateSuffix) {
			target = strings.TrimSuffix(target, TemplateSuffix)
			if content, err = renderFile(p, content, opts.Data); err != nil {
				return err
			}
		}

		if dst.Exists(target) {
			report.Skipped = append(report.Skipped, target)
			return nil
		}

		if err := dst.WriteFile(target, content, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		report.Written = append(report.Written, target)
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("failed to copy template: %w", err)
	}

	return report, nil
}

func relPath(root, p string) string {
	if p == root {
		return ""
	}
	if root == "." {
		return p
	}
	return strings.TrimPrefix(p, root+"/")
}

func renderFile(name string, content []byte, data any) ([]byte, error) {
	tmpl, err := template.New(path.Base(name)).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// GitIgnoreFilter builds an Ignorer from the .gitignore at root of src.
// It returns nil when there is none.
func GitIgnoreFilter(src fs.FS, root string) (Ignorer, error) {
	data, err := fs.ReadFile(src, path.Join(root, ".gitignore"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}

	ignore := gitignore.New(bytes.NewReader(data), "/", nil)
	return func(rel string, isDir bool) bool {
		match := ignore.Relative(rel, isDir)
		return match != nil && match.Ignore()
	}, nil
}
