package project

import (
	"errors"
	"testing"

	"github.com/jakoblorz/polycore/internal/filesystem"
	"github.com/stretchr/testify/require"
)

func TestDetect_ManifestInStartDir(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/workspace/api/package.json", []byte(`{
  "name": "api",
  "version": "1.0.0",
  "dependencies": {"express": "^4.18.2", "@prisma/client": "^5.7.0"},
  "devDependencies": {"prisma": "^5.7.0"}
}`))

	p, err := Detect(fs, "/workspace/api")
	require.NoError(t, err)
	require.Equal(t, "/workspace/api", p.RootPath)
	require.Equal(t, "/workspace/api/package.json", p.ManifestPath)
	require.Equal(t, "api", p.Manifest.Name)
	require.Equal(t, "^5.7.0", p.Manifest.Dependencies["@prisma/client"])
	require.Equal(t, "^5.7.0", p.Manifest.DevDependencies["prisma"])
	require.Equal(t, "/workspace/api/src/routes.ts", p.Path("src", "routes.ts"))
}

func TestDetect_WalksUp(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/workspace/api/package.json", []byte(`{"name": "api", "dependencies": {"mongoose": "^8.0.3"}}`))
	fs.AddDir("/workspace/api/src/modules/user")

	p, err := Detect(fs, "/workspace/api/src/modules/user")
	require.NoError(t, err)
	require.Equal(t, "/workspace/api", p.RootPath)
}

func TestDetect_NotAProject(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/workspace/empty")

	_, err := Detect(fs, "/workspace/empty")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotAProject))
}

func TestDetect_InvalidManifest(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/workspace/api/package.json", []byte(`this is not json`))

	_, err := Detect(fs, "/workspace/api")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse")
	require.False(t, errors.Is(err, ErrNotAProject))
}

func TestReadManifest_NoDependencies(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/workspace/package.json", []byte(`{"name": "bare"}`))

	m, err := ReadManifest(fs, "/workspace/package.json")
	require.NoError(t, err)
	require.NotNil(t, m.Dependencies)
	require.Empty(t, m.Dependencies)
}
