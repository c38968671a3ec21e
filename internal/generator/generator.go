// Package generator materializes a CRUD module inside an existing project:
// it detects the persistence stack, renders the artifacts, writes them and
// registers the module's routes.
package generator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jakoblorz/polycore/internal/config"
	"github.com/jakoblorz/polycore/internal/filesystem"
	"github.com/jakoblorz/polycore/internal/models"
	"github.com/jakoblorz/polycore/internal/project"
	"github.com/jakoblorz/polycore/internal/render"
	"github.com/jakoblorz/polycore/internal/splice"
	"github.com/jakoblorz/polycore/internal/stack"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// State is a step of a module generation run.
type State string

const (
	StateIdle            State = "idle"
	StateDetecting       State = "detecting"
	StateAwaitingVariant State = "awaiting-variant"
	StateRendering       State = "rendering"
	StateCollisionCheck  State = "collision-check"
	StateWriting         State = "writing"
	StateSplicing        State = "splicing"
	StateDone            State = "done"
	StateFailed          State = "failed"
)

const stagingIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// VariantChooser answers the SQL or NoSQL question for hybrid projects.
type VariantChooser interface {
	UseRelational(ctx context.Context, s models.Stack) (bool, error)
}

// ChooserFunc adapts a function to VariantChooser.
type ChooserFunc func(ctx context.Context, s models.Stack) (bool, error)

func (f ChooserFunc) UseRelational(ctx context.Context, s models.Stack) (bool, error) {
	return f(ctx, s)
}

// Request names the module to generate and where to start looking for the project.
type Request struct {
	Name string
	Dir  string
}

// RouterResult describes what happened to the aggregating router file.
type RouterResult struct {
	Path    string
	Outcome splice.Outcome
}

// Result is the outcome of a generation run. It is also returned alongside
// a *SpliceError, since the module files exist at that point.
type Result struct {
	Name      models.EntityName
	Stack     models.Stack
	Variant   models.Variant
	Project   *project.Project
	ModuleDir string
	Files     []string
	Router    RouterResult
	Hints     []string
}

// Generator runs module generations against a filesystem.
type Generator struct {
	fs       filesystem.FileSystem
	chooser  VariantChooser
	renderer *render.Renderer
	logger   *zap.Logger
	newID    func() (string, error)
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger state transitions are reported to.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithRenderer replaces the embedded module templates.
func WithRenderer(r *render.Renderer) Option {
	return func(g *Generator) {
		g.renderer = r
	}
}

// WithIDFunc sets the generator of staging directory suffixes.
func WithIDFunc(fn func() (string, error)) Option {
	return func(g *Generator) {
		g.newID = fn
	}
}

// New creates a Generator. chooser may be nil when only non-hybrid projects
// are expected.
func New(fs filesystem.FileSystem, chooser VariantChooser, opts ...Option) *Generator {
	g := &Generator{
		fs:      fs,
		chooser: chooser,
		logger:  zap.NewNop(),
		newID: func() (string, error) {
			return gonanoid.Generate(stagingIDAlphabet, 10)
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateModule runs one generation. On a splice failure both the Result
// and a *SpliceError are returned.
func (g *Generator) GenerateModule(ctx context.Context, req Request) (result *Result, err error) {
	if err := models.ValidateEntityName(req.Name); err != nil {
		return nil, err
	}

	name := models.NewEntityName(req.Name)
	log := g.logger.With(zap.String("module", name.Lower))

	state := StateIdle
	transition := func(next State) {
		log.Debug("state transition", zap.String("from", string(state)), zap.String("to", string(next)))
		state = next
	}
	defer func() {
		if err != nil {
			log.Debug("generation failed", zap.String("state", string(state)), zap.Error(err))
			transition(StateFailed)
		}
	}()

	dir := req.Dir
	if dir == "" {
		if dir, err = g.fs.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	transition(StateDetecting)
	proj, err := project.Detect(g.fs, dir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(g.fs, proj.RootPath)
	if err != nil {
		return nil, err
	}

	detected, err := stack.Detect(proj.Manifest.Dependencies)
	if err != nil {
		return nil, err
	}
	log.Debug("stack detected", zap.String("stack", string(detected)), zap.String("root", proj.RootPath))

	useRelational := true
	if detected.IsHybrid() {
		transition(StateAwaitingVariant)
		if g.chooser == nil {
			return nil, fmt.Errorf("%s project requires a database choice", detected.Label())
		}
		useRelational, err = g.chooser.UseRelational(ctx, detected)
		if err != nil {
			return nil, err
		}
	}
	variant := stack.ResolveVariant(detected, useRelational)

	transition(StateRendering)
	renderer := g.renderer
	if renderer == nil {
		renderer, err = render.Default()
		if err != nil {
			return nil, err
		}
	}
	artifacts, err := renderer.Render(name, variant)
	if err != nil {
		return nil, err
	}

	transition(StateCollisionCheck)
	moduleDir := proj.Path(cfg.ModulesDir, name.Lower)
	if g.fs.Exists(moduleDir) {
		return nil, fmt.Errorf("%w: %s", ErrModuleExists, moduleDir)
	}

	transition(StateWriting)
	if err := g.write(ctx, moduleDir, artifacts); err != nil {
		return nil, err
	}

	result = &Result{
		Name:      name,
		Stack:     detected,
		Variant:   variant,
		Project:   proj,
		ModuleDir: moduleDir,
		Hints:     hintsFor(name, variant),
	}
	for _, fileName := range artifacts.FileNames() {
		result.Files = append(result.Files, filepath.Join(moduleDir, fileName))
	}

	transition(StateSplicing)
	routerPath := proj.Path(cfg.RouterFile)
	result.Router.Path = routerPath

	importPath, err := splice.ImportPath(routerPath, filepath.Join(moduleDir, models.RoleRoutes.FileName(name)))
	if err != nil {
		return result, &SpliceError{RouterPath: routerPath, Err: err}
	}

	outcome, err := splice.SpliceFile(g.fs, routerPath, splice.Registration{
		Name:       name,
		RouterName: cfg.RouterName,
		ImportPath: importPath,
	})
	if err != nil {
		return result, &SpliceError{RouterPath: routerPath, Err: err}
	}
	result.Router.Outcome = outcome

	transition(StateDone)
	return result, nil
}

// write stages every artifact in a hidden sibling directory and renames it
// into place, so a failed run leaves no module directory behind.
func (g *Generator) write(ctx context.Context, moduleDir string, artifacts *models.ArtifactSet) error {
	parent := filepath.Dir(moduleDir)
	if err := g.fs.MkdirAll(parent, 0755); err != nil {
		return &WriteError{Path: parent, Err: err}
	}

	id, err := g.newID()
	if err != nil {
		return fmt.Errorf("failed to generate staging id: %w", err)
	}

	staging := filepath.Join(parent, fmt.Sprintf(".%s-%s.tmp", filepath.Base(moduleDir), id))
	if err := g.fs.MkdirAll(staging, 0755); err != nil {
		return &WriteError{Path: staging, Err: err}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, artifact := range artifacts.Artifacts {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			if err := g.fs.WriteFile(filepath.Join(staging, artifact.FileName), artifact.Content, 0644); err != nil {
				return &WriteError{Path: filepath.Join(moduleDir, artifact.FileName), Err: err}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		g.discard(staging)
		return err
	}

	if err := g.fs.Rename(staging, moduleDir); err != nil {
		g.discard(staging)
		return &WriteError{Path: moduleDir, Err: err}
	}

	return nil
}

func (g *Generator) discard(staging string) {
	if err := g.fs.RemoveAll(staging); err != nil {
		g.logger.Warn("failed to remove staging directory", zap.String("path", staging), zap.Error(err))
	}
}
