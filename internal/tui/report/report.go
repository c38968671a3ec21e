// Package report renders command outcomes for the terminal.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/polycore/internal/doctor"
	"github.com/jakoblorz/polycore/internal/generator"
	"github.com/jakoblorz/polycore/internal/scaffold"
	"github.com/jakoblorz/polycore/internal/splice"
	"github.com/jakoblorz/polycore/internal/tui"
)

// RenderModule renders the outcome of generate module. result may come with
// a splice failure, in which case the router line says so.
func RenderModule(result *generator.Result) string {
	var b strings.Builder

	root := result.Project.RootPath
	b.WriteString(tui.SuccessStyle.Render(fmt.Sprintf("✓ Module %s generated", result.Name.Lower)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Stack:   %s\n", result.Stack.Label()))
	b.WriteString(fmt.Sprintf("Variant: %s\n\n", result.Variant))

	b.WriteString(fmt.Sprintf("Created %d file(s) in %s:\n", len(result.Files), tui.PathStyle.Render(relTo(root, result.ModuleDir))))
	for _, file := range result.Files {
		b.WriteString(fmt.Sprintf("  + %s\n", filepath.Base(file)))
	}
	b.WriteString("\n")

	router := relTo(root, result.Router.Path)
	switch result.Router.Outcome {
	case splice.OutcomeSpliced:
		b.WriteString(tui.SuccessStyle.Render("✓ Routes registered"))
		b.WriteString(fmt.Sprintf(" in %s at /%s\n", router, result.Name.Plural()))
	case splice.OutcomeSkipped:
		b.WriteString(tui.WarningStyle.Render("⚠ Router not updated"))
		b.WriteString(fmt.Sprintf(": %s not found, register %s yourself\n", router, result.Name.RoutesIdent()))
	default:
		b.WriteString(tui.ErrorStyle.Render("✗ Router not updated"))
		b.WriteString(fmt.Sprintf(": could not splice %s, register %s yourself\n", router, result.Name.RoutesIdent()))
	}

	for _, hint := range result.Hints {
		title, snippet, found := strings.Cut(hint, "\n\n")
		b.WriteString("\n")
		b.WriteString(tui.SubtleStyle.Render(title))
		b.WriteString("\n")
		if found {
			b.WriteString(tui.BorderStyle.Render(snippet))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderInit renders the outcome of init including next steps.
func RenderInit(result *scaffold.Result) string {
	var b strings.Builder

	b.WriteString(tui.SuccessStyle.Render(fmt.Sprintf("✓ Project %s created", result.ProjectName)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Template: %s\n", result.Template))
	b.WriteString(fmt.Sprintf("Stack:    %s\n", result.Stack.Label()))
	b.WriteString(fmt.Sprintf("Files:    %d\n", len(result.Files)))
	if result.EnvCreated {
		b.WriteString("Env:      .env created from .env.example\n")
	}

	b.WriteString(renderStep("Git repository initialized", "Git initialization failed (git may not be installed)", "Git init skipped", result.Git))
	b.WriteString(renderStep("Dependencies installed", "Failed to install dependencies", "Install skipped", result.Install))

	b.WriteString("\n")
	b.WriteString(tui.TitleStyle.Render("Next steps:"))
	b.WriteString("\n")
	b.WriteString(tui.CommandStyle.Render(fmt.Sprintf("  cd %s", result.ProjectName)))
	b.WriteString("\n")
	if result.Install.Status != scaffold.StepDone {
		b.WriteString(tui.CommandStyle.Render("  npm install"))
		b.WriteString("\n")
	}
	b.WriteString(tui.WarningStyle.Render("  Edit .env with your database credentials"))
	b.WriteString("\n")
	b.WriteString(tui.CommandStyle.Render("  npm run dev"))
	b.WriteString("\n")

	return b.String()
}

func renderStep(done, failed, skipped string, step scaffold.StepResult) string {
	switch {
	case step.Status == scaffold.StepDone:
		return tui.SuccessStyle.Render("✓ "+done) + "\n"
	case step.Status == scaffold.StepFailed:
		return tui.WarningStyle.Render("⚠ "+failed) + tui.SubtleStyle.Render(fmt.Sprintf(" (%v)", step.Err)) + "\n"
	case step.Reason != "":
		return tui.SubtleStyle.Render(fmt.Sprintf("- %s: %s", skipped, step.Reason)) + "\n"
	default:
		return ""
	}
}

// RenderDoctor renders one line per check and a verdict.
func RenderDoctor(r *doctor.Report) string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Running system health checks..."))
	b.WriteString("\n")

	for _, res := range r.Results {
		switch res.Status {
		case doctor.StatusOK:
			b.WriteString(tui.SuccessStyle.Render(fmt.Sprintf("✓ %s: %s", res.Check.Name, res.Version)))
		case doctor.StatusMissing:
			b.WriteString(tui.ErrorStyle.Render(fmt.Sprintf("✗ %s: Not found (REQUIRED)", res.Check.Name)))
		default:
			b.WriteString(tui.WarningStyle.Render(fmt.Sprintf("⚠ %s: Not found (optional)", res.Check.Name)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if r.Passed() {
		b.WriteString(tui.SuccessStyle.Render("All required dependencies are installed!"))
	} else {
		b.WriteString(tui.ErrorStyle.Render("Some required dependencies are missing."))
	}
	b.WriteString("\n")

	return b.String()
}

func relTo(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
