package filesystem

import (
	"bytes"
	"io"
	"io/fs"
	"path/filepath"
)

// DirFS exposes the tree under dir of fsys as an fs.FS. Template trees read
// from disk and from the mock go through the same FileSystem.
func DirFS(fsys FileSystem, dir string) fs.FS {
	return &dirFS{fsys: fsys, dir: filepath.Clean(dir)}
}

type dirFS struct {
	fsys FileSystem
	dir  string
}

var (
	_ fs.ReadFileFS = (*dirFS)(nil)
	_ fs.ReadDirFS  = (*dirFS)(nil)
	_ fs.StatFS     = (*dirFS)(nil)
)

func (d *dirFS) resolve(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	return filepath.Join(d.dir, filepath.FromSlash(name)), nil
}

func (d *dirFS) Open(name string) (fs.File, error) {
	full, err := d.resolve("open", name)
	if err != nil {
		return nil, err
	}

	info, err := d.fsys.Stat(full)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		entries, err := d.fsys.ReadDir(full)
		if err != nil {
			return nil, err
		}
		return &openDir{info: info, entries: entries}, nil
	}

	data, err := d.fsys.ReadFile(full)
	if err != nil {
		return nil, err
	}
	return &openFile{info: info, Reader: bytes.NewReader(data)}, nil
}

func (d *dirFS) ReadFile(name string) ([]byte, error) {
	full, err := d.resolve("read", name)
	if err != nil {
		return nil, err
	}
	return d.fsys.ReadFile(full)
}

func (d *dirFS) ReadDir(name string) ([]fs.DirEntry, error) {
	full, err := d.resolve("readdir", name)
	if err != nil {
		return nil, err
	}
	return d.fsys.ReadDir(full)
}

func (d *dirFS) Stat(name string) (fs.FileInfo, error) {
	full, err := d.resolve("stat", name)
	if err != nil {
		return nil, err
	}
	return d.fsys.Stat(full)
}

type openFile struct {
	*bytes.Reader
	info fs.FileInfo
}

func (f *openFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *openFile) Close() error               { return nil }

type openDir struct {
	info    fs.FileInfo
	entries []fs.DirEntry
	offset  int
}

func (d *openDir) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *openDir) Close() error               { return nil }

func (d *openDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.Name(), Err: fs.ErrInvalid}
}

func (d *openDir) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.offset += n
	return rest[:n], nil
}
