// Package scaffold creates new API projects from the embedded project
// templates.
package scaffold

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/polycore/internal/filesystem"
	"github.com/jakoblorz/polycore/internal/git"
	"github.com/jakoblorz/polycore/internal/models"
	"github.com/jakoblorz/polycore/internal/toolchain"
	"go.uber.org/zap"
)

//go:embed all:templates/project
var projectTemplates embed.FS

const (
	embeddedRoot = "templates/project"

	// CommonTemplate holds the files shared by every stack.
	CommonTemplate = "common"

	envExample = ".env.example"
	envFile    = ".env"
)

// ErrProjectExists is returned when the target directory is already present.
var ErrProjectExists = errors.New("directory already exists")

// StepStatus is the outcome of an optional init step.
type StepStatus string

const (
	StepSkipped StepStatus = "skipped"
	StepDone    StepStatus = "done"
	StepFailed  StepStatus = "failed"
)

// StepResult reports an optional step. Failures are warnings, not errors.
type StepResult struct {
	Status StepStatus
	Err    error
	// Reason is set when a requested step was skipped anyway.
	Reason string
}

// Request describes the project to create.
type Request struct {
	ProjectName string

	// Dir is the parent directory; defaults to the working directory
	Dir string

	Answers Answers

	// Output receives npm install output
	Stdout io.Writer
	Stderr io.Writer
}

// Result summarizes a created project.
type Result struct {
	ProjectName string
	ProjectDir  string
	Template    string
	Stack       models.Stack
	Files       []string
	EnvCreated  bool
	Git         StepResult
	Install     StepResult
}

// Scaffolder creates projects.
type Scaffolder struct {
	fs        filesystem.FileSystem
	git       git.GitClient
	runner    toolchain.Runner
	templates fs.FS
	root      string
	ignore    Ignorer
	logger    *zap.Logger
}

// Option configures a Scaffolder.
type Option func(*Scaffolder) error

// WithLogger sets the debug logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scaffolder) error {
		s.logger = logger
		return nil
	}
}

// WithTemplates uses root of fsys instead of the embedded templates. Paths
// matched by the .gitignore at root are not copied.
func WithTemplates(fsys fs.FS, root string) Option {
	return func(s *Scaffolder) error {
		ignore, err := GitIgnoreFilter(fsys, root)
		if err != nil {
			return err
		}
		s.templates = fsys
		s.root = root
		s.ignore = ignore
		return nil
	}
}

// New creates a Scaffolder writing to fs.
func New(fs filesystem.FileSystem, gitClient git.GitClient, runner toolchain.Runner, opts ...Option) (*Scaffolder, error) {
	s := &Scaffolder{
		fs:        fs,
		git:       gitClient,
		runner:    runner,
		templates: projectTemplates,
		root:      embeddedRoot,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// templateData is what *.tmpl project files are rendered with.
type templateData struct {
	ProjectName string
	Stack       string
	Label       string
}

// Init creates the project described by req.
func (s *Scaffolder) Init(ctx context.Context, req Request) (*Result, error) {
	if err := ValidateProjectName(req.ProjectName); err != nil {
		return nil, err
	}

	parent := req.Dir
	if parent == "" {
		wd, err := s.fs.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		parent = wd
	}

	projectDir := filepath.Join(parent, req.ProjectName)
	if s.fs.Exists(projectDir) {
		return nil, fmt.Errorf("%w: %s", ErrProjectExists, projectDir)
	}

	templateName := req.Answers.TemplateName()
	stack, ok := StackForTemplate(templateName)
	if !ok {
		return nil, fmt.Errorf("template not found: %s", templateName)
	}
	if !s.hasTree(templateName) {
		return nil, fmt.Errorf("template not found: %s", templateName)
	}

	log := s.logger.With(zap.String("project", req.ProjectName), zap.String("template", templateName))
	result := &Result{
		ProjectName: req.ProjectName,
		ProjectDir:  projectDir,
		Template:    templateName,
		Stack:       stack,
		Git:         StepResult{Status: StepSkipped},
		Install:     StepResult{Status: StepSkipped},
	}

	data := templateData{
		ProjectName: req.ProjectName,
		Stack:       string(stack),
		Label:       stack.Label(),
	}

	// Stack files first so they win over the shared ones.
	for _, tree := range []string{templateName, CommonTemplate} {
		if tree == CommonTemplate && !s.hasTree(tree) {
			continue
		}
		report, err := CopyTree(s.templates, s.templatePath(tree), s.fs, projectDir, CopyOptions{
			Data:   data,
			Ignore: s.scopedIgnore(tree),
		})
		if err != nil {
			return nil, err
		}
		log.Debug("copied template tree", zap.String("tree", tree),
			zap.Int("written", len(report.Written)), zap.Int("skipped", len(report.Skipped)))
		result.Files = append(result.Files, report.Written...)
	}

	created, err := s.copyEnv(projectDir)
	if err != nil {
		return nil, err
	}
	result.EnvCreated = created

	if req.Answers.Git {
		result.Git = s.initGit(ctx, parent, projectDir)
		log.Debug("git init", zap.String("status", string(result.Git.Status)), zap.Error(result.Git.Err))
	}

	if req.Answers.Install {
		stdout, stderr := req.Stdout, req.Stderr
		if stdout == nil {
			stdout = io.Discard
		}
		if stderr == nil {
			stderr = io.Discard
		}
		result.Install = s.step(func() error {
			return toolchain.NpmInstall(ctx, s.runner, projectDir, stdout, stderr)
		})
		log.Debug("npm install", zap.String("status", string(result.Install.Status)), zap.Error(result.Install.Err))
	}

	return result, nil
}

func (s *Scaffolder) templatePath(name string) string {
	if s.root == "." || s.root == "" {
		return name
	}
	return s.root + "/" + name
}

func (s *Scaffolder) hasTree(name string) bool {
	info, err := fs.Stat(s.templates, s.templatePath(name))
	return err == nil && info.IsDir()
}

// scopedIgnore applies the root .gitignore to paths inside one tree.
func (s *Scaffolder) scopedIgnore(tree string) Ignorer {
	if s.ignore == nil {
		return nil
	}
	return func(rel string, isDir bool) bool {
		return s.ignore(tree+"/"+rel, isDir)
	}
}

func (s *Scaffolder) copyEnv(projectDir string) (bool, error) {
	src := filepath.Join(projectDir, envExample)
	dst := filepath.Join(projectDir, envFile)
	if !s.fs.Exists(src) || s.fs.Exists(dst) {
		return false, nil
	}

	content, err := s.fs.ReadFile(src)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", envExample, err)
	}
	if err := s.fs.WriteFile(dst, content, 0600); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", envFile, err)
	}
	return true, nil
}

// initGit runs git init unless parent already belongs to a work tree.
func (s *Scaffolder) initGit(ctx context.Context, parent, projectDir string) StepResult {
	client := s.git.WithContext(ctx)
	if inside, err := client.IsGitRepo(parent); err == nil && inside {
		return StepResult{Status: StepSkipped, Reason: "already inside a git repository"}
	}
	return s.step(func() error {
		return client.Init(projectDir)
	})
}

func (s *Scaffolder) step(fn func() error) StepResult {
	if err := fn(); err != nil {
		return StepResult{Status: StepFailed, Err: err}
	}
	return StepResult{Status: StepDone}
}

// ValidateProjectName rejects names that are not a single directory name.
func ValidateProjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("project name is required")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid project name %q: must be a directory name", name)
	}
	return nil
}
