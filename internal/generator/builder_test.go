package generator

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/jakoblorz/polycore/internal/filesystem"
	"github.com/jakoblorz/polycore/internal/stack"
)

const projectRoot = "/work/api"

const defaultRouter = `import { Router } from 'express';

const router = Router();

export default router;
`

// projectBuilder assembles a generated project in a mock filesystem.
type projectBuilder struct {
	t      *testing.T
	fs     *filesystem.MockFileSystem
	deps   map[string]string
	router *string
	files  map[string]string
}

func newProject(t *testing.T) *projectBuilder {
	t.Helper()

	router := defaultRouter
	return &projectBuilder{
		t:      t,
		fs:     filesystem.NewMockFileSystem(),
		deps:   map[string]string{"express": "^4.19.2"},
		router: &router,
		files:  map[string]string{},
	}
}

func (b *projectBuilder) withDeps(names ...string) *projectBuilder {
	for _, name := range names {
		b.deps[name] = "*"
	}
	return b
}

func (b *projectBuilder) prisma() *projectBuilder    { return b.withDeps(stack.DepPrisma) }
func (b *projectBuilder) sequelize() *projectBuilder { return b.withDeps(stack.DepSequelize) }
func (b *projectBuilder) mongoose() *projectBuilder  { return b.withDeps(stack.DepMongoose) }

func (b *projectBuilder) withRouter(content string) *projectBuilder {
	b.router = &content
	return b
}

func (b *projectBuilder) withoutRouter() *projectBuilder {
	b.router = nil
	return b
}

func (b *projectBuilder) withFile(rel, content string) *projectBuilder {
	b.files[rel] = content
	return b
}

func (b *projectBuilder) build() *filesystem.MockFileSystem {
	b.t.Helper()

	manifest, err := json.MarshalIndent(map[string]any{
		"name":         "api",
		"version":      "1.0.0",
		"dependencies": b.deps,
	}, "", "  ")
	if err != nil {
		b.t.Fatalf("failed to marshal manifest: %v", err)
	}

	b.fs.AddFile(filepath.Join(projectRoot, "package.json"), manifest)
	b.fs.AddDir(filepath.Join(projectRoot, "src"))
	if b.router != nil {
		b.fs.AddFile(filepath.Join(projectRoot, "src", "routes.ts"), []byte(*b.router))
	}
	for rel, content := range b.files {
		b.fs.AddFile(filepath.Join(projectRoot, rel), []byte(content))
	}
	b.fs.SetCurrentDir(projectRoot)

	return b.fs
}
