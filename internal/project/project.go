package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jakoblorz/polycore/internal/filesystem"
)

// ManifestFileName is the manifest every generated project carries at its root.
const ManifestFileName = "package.json"

// ErrNotAProject is returned when no package.json is found from the start
// directory upwards.
var ErrNotAProject = errors.New("not a project: package.json not found")

// Project is a generated API project on disk.
type Project struct {
	// RootPath is the directory containing package.json
	RootPath string

	// ManifestPath is the absolute path to package.json
	ManifestPath string

	// Manifest is the parsed package.json
	Manifest *Manifest
}

// Manifest represents the subset of package.json polycore reads.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Private         bool              `json:"private"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Detect finds the project containing startDir by walking up the directory
// tree looking for package.json.
func Detect(fs filesystem.FileSystem, startDir string) (*Project, error) {
	manifestPath, found := findFileUp(fs, startDir, ManifestFileName)
	if !found {
		return nil, fmt.Errorf("%w (searched from %s)", ErrNotAProject, startDir)
	}

	manifest, err := ReadManifest(fs, manifestPath)
	if err != nil {
		return nil, err
	}

	return &Project{
		RootPath:     filepath.Dir(manifestPath),
		ManifestPath: manifestPath,
		Manifest:     manifest,
	}, nil
}

// ReadManifest reads and parses a package.json file.
func ReadManifest(fs filesystem.FileSystem, path string) (*Manifest, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ManifestFileName, err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if manifest.Dependencies == nil {
		manifest.Dependencies = map[string]string{}
	}

	return &manifest, nil
}

// Path joins elements onto the project root.
func (p *Project) Path(elem ...string) string {
	return filepath.Join(append([]string{p.RootPath}, elem...)...)
}
