package cli

import (
	"context"
	"fmt"

	"github.com/jakoblorz/polycore/internal/filesystem"
	"github.com/jakoblorz/polycore/internal/generator"
	"github.com/jakoblorz/polycore/internal/git"
	"github.com/jakoblorz/polycore/internal/logging"
	"github.com/jakoblorz/polycore/internal/scaffold"
	"github.com/jakoblorz/polycore/internal/toolchain"
	"github.com/jakoblorz/polycore/internal/tui/prompt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is the release polycore was built as, set with
// -ldflags "-X github.com/jakoblorz/polycore/internal/cli.Version=v1.2.3".
var Version = "dev"

// Dependencies are the collaborators the commands run against.
type Dependencies struct {
	FS      filesystem.FileSystem
	Git     git.GitClient
	Runner  toolchain.Runner
	Chooser generator.VariantChooser
	Prompt  InitPrompter
}

// InitPrompter collects the init answers the flags left open.
type InitPrompter interface {
	Run(ctx context.Context, projectName string, preset prompt.Preset) (scaffold.Answers, error)
}

// globals holds the persistent flags shared by every command.
type globals struct {
	verbose bool
}

func (g *globals) logger(cmd *cobra.Command) *zap.Logger {
	return logging.New(cmd.ErrOrStderr(), g.verbose)
}

// NewRootCommand creates the root command
func NewRootCommand(deps Dependencies) *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "polycore",
		Short: "Scaffold Express + TypeScript APIs and their CRUD modules",
		Long: `A CLI tool for scaffolding backend projects.

Projects are created for SQL (Prisma or Sequelize), NoSQL (MongoDB) or hybrid
stacks, and modules are generated for whichever stack a project uses.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Print debug logs to stderr")

	rootCmd.AddCommand(NewInitCommand(deps, g))
	rootCmd.AddCommand(NewGenerateCommand(deps, g))
	rootCmd.AddCommand(NewDoctorCommand(deps))

	return rootCmd
}

// Execute runs the root command against the real system
func Execute(ctx context.Context) error {
	deps := Dependencies{
		FS:      filesystem.NewOSFileSystem(),
		Git:     git.NewOSGitClient(),
		Runner:  toolchain.NewOSRunner(),
		Chooser: prompt.NewDatabaseChooser(),
		Prompt:  prompt.NewInitFlow(),
	}

	if err := NewRootCommand(deps).ExecuteContext(ctx); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
