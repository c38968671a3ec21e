package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jakoblorz/polycore/internal/generator"
	"github.com/jakoblorz/polycore/internal/models"
	"github.com/jakoblorz/polycore/internal/stack"
	"github.com/jakoblorz/polycore/internal/tui/prompt"
	"github.com/jakoblorz/polycore/internal/tui/report"
	"github.com/spf13/cobra"
)

// GenerateTypeModule is the only supported generate type.
const GenerateTypeModule = "module"

// GenerateCommand handles the generate command
type GenerateCommand struct {
	deps    Dependencies
	globals *globals

	db  string
	dir string
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(deps Dependencies, g *globals) *cobra.Command {
	cmd := &GenerateCommand{deps: deps, globals: g}

	cobraCmd := &cobra.Command{
		Use:     "generate <type> <name>",
		Aliases: []string{"g"},
		Short:   "Generate code inside an existing project",
		Long: `Generate a CRUD module (controller, service, routes, dto and model where
the stack needs one) and register its routes in src/routes.ts.

The persistence stack is detected from package.json. Hybrid projects ask
whether the module uses SQL or NoSQL unless --db is given.`,
		Example: "  polycore generate module product\n  polycore g module order --db nosql",
		Args: func(c *cobra.Command, args []string) error {
			if len(args) != 2 {
				return usageErrorf(c.CommandPath(), "expected <type> and <name>, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.db, "db", "", "Database for hybrid projects (sql or nosql)")
	cobraCmd.Flags().StringVar(&cmd.dir, "dir", "", "Directory inside the project (defaults to the working directory)")

	return cobraCmd
}

// Run executes the generate command
func (c *GenerateCommand) Run(cmd *cobra.Command, args []string) error {
	kind, name := args[0], args[1]
	if kind != GenerateTypeModule {
		return usageErrorf(cmd.CommandPath(), "unsupported type %q: only %q can be generated", kind, GenerateTypeModule)
	}
	if err := models.ValidateEntityName(name); err != nil {
		return usageError(cmd.CommandPath(), err)
	}

	chooser := c.deps.Chooser
	if c.db != "" {
		useRelational, err := stack.ParseDatabaseAnswer(c.db)
		if err != nil {
			return usageError(cmd.CommandPath(), err)
		}
		chooser = generator.ChooserFunc(func(context.Context, models.Stack) (bool, error) {
			return useRelational, nil
		})
	}

	gen := generator.New(c.deps.FS, chooser, generator.WithLogger(c.globals.logger(cmd)))
	result, err := gen.GenerateModule(cmd.Context(), generator.Request{Name: name, Dir: c.dir})
	if errors.Is(err, prompt.ErrAborted) {
		return nil
	}

	if result != nil {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), report.RenderModule(result))
	}

	return err
}
