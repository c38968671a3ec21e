package cli

import (
	"fmt"

	"github.com/jakoblorz/polycore/internal/doctor"
	"github.com/jakoblorz/polycore/internal/tui/report"
	"github.com/spf13/cobra"
)

// DoctorCommand handles the doctor command
type DoctorCommand struct {
	deps Dependencies
}

// NewDoctorCommand creates a new doctor command
func NewDoctorCommand(deps Dependencies) *cobra.Command {
	cmd := &DoctorCommand{deps: deps}

	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that node, npm, git and tsc are installed",
		Args:  cobra.NoArgs,
		RunE:  cmd.Run,
	}
}

// Run executes the doctor command
func (c *DoctorCommand) Run(cmd *cobra.Command, args []string) error {
	r := doctor.New(c.deps.Runner, c.deps.Git).Run(cmd.Context())

	_, _ = fmt.Fprint(cmd.OutOrStdout(), report.RenderDoctor(r))

	return r.Err()
}
