package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jakoblorz/polycore/internal/filesystem"
	"github.com/jakoblorz/polycore/internal/scaffold"
	"github.com/jakoblorz/polycore/internal/tui/prompt"
	"github.com/jakoblorz/polycore/internal/tui/report"
	"github.com/spf13/cobra"
)

// InitCommand handles the init command
type InitCommand struct {
	deps    Dependencies
	globals *globals

	db          string
	orm         string
	git         bool
	install     bool
	yes         bool
	templateDir string
}

// NewInitCommand creates a new init command
func NewInitCommand(deps Dependencies, g *globals) *cobra.Command {
	cmd := &InitCommand{deps: deps, globals: g}

	cobraCmd := &cobra.Command{
		Use:   "init <projectName>",
		Short: "Create a new API project",
		Long: `Create a new Express + TypeScript API project in ./<projectName>.

Answers not given as flags are asked interactively, or take their defaults
(SQL, Prisma, git init, no install) with --yes.`,
		Args: func(c *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf(c.CommandPath(), "expected <projectName>, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.db, "db", "", "Database type (sql, nosql or hybrid)")
	cobraCmd.Flags().StringVar(&cmd.orm, "orm", "", "SQL ORM (prisma or sequelize)")
	cobraCmd.Flags().BoolVar(&cmd.git, "git", true, "Initialize a git repository")
	cobraCmd.Flags().BoolVar(&cmd.install, "install", false, "Run npm install")
	cobraCmd.Flags().BoolVarP(&cmd.yes, "yes", "y", false, "Use defaults for everything not given as a flag")
	cobraCmd.Flags().StringVar(&cmd.templateDir, "template-dir", "", "Read project templates from this directory")

	return cobraCmd
}

// Run executes the init command
func (c *InitCommand) Run(cmd *cobra.Command, args []string) error {
	if err := scaffold.ValidateProjectName(args[0]); err != nil {
		return usageError(cmd.CommandPath(), err)
	}

	preset, err := c.preset(cmd)
	if err != nil {
		return err
	}

	var answers scaffold.Answers
	if c.yes {
		answers = preset.Fill()
	} else {
		answers, err = c.deps.Prompt.Run(cmd.Context(), args[0], preset)
		if errors.Is(err, prompt.ErrAborted) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to run prompts: %w", err)
		}
	}

	opts := []scaffold.Option{scaffold.WithLogger(c.globals.logger(cmd))}
	if c.templateDir != "" {
		dir, err := c.resolveTemplateDir()
		if err != nil {
			return err
		}
		opts = append(opts, scaffold.WithTemplates(filesystem.DirFS(c.deps.FS, dir), "."))
	}

	s, err := scaffold.New(c.deps.FS, c.deps.Git, c.deps.Runner, opts...)
	if err != nil {
		return err
	}

	result, err := s.Init(cmd.Context(), scaffold.Request{
		ProjectName: args[0],
		Answers:     answers,
		Stdout:      cmd.OutOrStdout(),
		Stderr:      cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), report.RenderInit(result))
	return nil
}

func (c *InitCommand) resolveTemplateDir() (string, error) {
	if filepath.IsAbs(c.templateDir) {
		return c.templateDir, nil
	}
	wd, err := c.deps.FS.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(wd, c.templateDir), nil
}

func (c *InitCommand) preset(cmd *cobra.Command) (prompt.Preset, error) {
	var preset prompt.Preset

	if c.db != "" {
		db, err := scaffold.ParseDatabaseType(c.db)
		if err != nil {
			return preset, usageError(cmd.CommandPath(), err)
		}
		preset.Database = db
	}
	if c.orm != "" {
		orm, err := scaffold.ParseORM(c.orm)
		if err != nil {
			return preset, usageError(cmd.CommandPath(), err)
		}
		preset.ORM = orm
	}
	if cmd.Flags().Changed("git") {
		preset.Git = &c.git
	}
	if cmd.Flags().Changed("install") {
		preset.Install = &c.install
	}

	return preset, nil
}
