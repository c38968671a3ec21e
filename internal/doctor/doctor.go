// Package doctor checks that the tools generated projects rely on are installed.
package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/jakoblorz/polycore/internal/git"
	"github.com/jakoblorz/polycore/internal/toolchain"
)

// ErrMissingRequirements is returned by Report.Err when a required tool is missing.
var ErrMissingRequirements = errors.New("some required dependencies are missing")

// Check describes one tool version check.
type Check struct {
	Name     string
	Command  string
	Args     []string
	Required bool
}

// DefaultChecks are the tools a generated project needs.
var DefaultChecks = []Check{
	{Name: "Node.js", Command: "node", Args: []string{"--version"}, Required: true},
	{Name: "npm", Command: "npm", Args: []string{"--version"}, Required: true},
	{Name: "Git", Command: "git", Args: []string{"--version"}, Required: false},
	{Name: "TypeScript", Command: "tsc", Args: []string{"--version"}, Required: false},
}

// Status is the outcome of a single check.
type Status string

const (
	StatusOK       Status = "ok"
	StatusMissing  Status = "missing"
	StatusOptional Status = "optional-missing"
)

// CheckResult is one evaluated check.
type CheckResult struct {
	Check   Check
	Status  Status
	Version string
	Err     error
}

// Report collects the results of a doctor run.
type Report struct {
	Results []CheckResult
}

// Passed reports whether every required tool was found.
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if res.Status == StatusMissing {
			return false
		}
	}
	return true
}

// Err returns ErrMissingRequirements naming the missing tools, or nil.
func (r *Report) Err() error {
	var missing []string
	for _, res := range r.Results {
		if res.Status == StatusMissing {
			missing = append(missing, res.Check.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrMissingRequirements, missing)
}

// Doctor runs the checks.
type Doctor struct {
	runner toolchain.Runner
	git    git.GitClient
	checks []Check
}

// New creates a Doctor running DefaultChecks. The git client answers the
// git version lookup so it matches what init uses.
func New(runner toolchain.Runner, gitClient git.GitClient) *Doctor {
	return &Doctor{
		runner: runner,
		git:    gitClient,
		checks: DefaultChecks,
	}
}

// WithChecks replaces the list of checks.
func (d *Doctor) WithChecks(checks []Check) *Doctor {
	d.checks = checks
	return d
}

// Run evaluates every check in order. It never fails itself; use Report.Err.
func (d *Doctor) Run(ctx context.Context) *Report {
	report := &Report{}
	for _, check := range d.checks {
		report.Results = append(report.Results, d.run(ctx, check))
	}
	return report
}

func (d *Doctor) run(ctx context.Context, check Check) CheckResult {
	var (
		version string
		err     error
	)
	if check.Command == "git" && d.git != nil {
		version, err = d.git.WithContext(ctx).Version()
	} else {
		version, err = d.runner.Output(ctx, "", check.Command, check.Args...)
	}

	result := CheckResult{Check: check, Version: version, Err: err}
	switch {
	case err == nil:
		result.Status = StatusOK
	case check.Required:
		result.Status = StatusMissing
	default:
		result.Status = StatusOptional
	}
	return result
}
