package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/jakoblorz/polycore/internal/doctor"
	"github.com/jakoblorz/polycore/internal/generator"
	"github.com/jakoblorz/polycore/internal/models"
	"github.com/jakoblorz/polycore/internal/project"
	"github.com/jakoblorz/polycore/internal/scaffold"
	"github.com/jakoblorz/polycore/internal/splice"
	"github.com/stretchr/testify/require"
)

// requireOrdered checks that each part occurs in out after the previous one.
func requireOrdered(t *testing.T, out string, parts ...string) {
	t.Helper()

	rest := out
	for _, part := range parts {
		i := strings.Index(rest, part)
		require.GreaterOrEqual(t, i, 0, "%q missing or out of order in:\n%s", part, out)
		rest = rest[i+len(part):]
	}
}

func moduleResult(outcome splice.Outcome) *generator.Result {
	name := models.NewEntityName("invoice")
	return &generator.Result{
		Name:      name,
		Stack:     models.StackSequelize,
		Variant:   models.VariantSequelize,
		Project:   &project.Project{RootPath: "/work/api"},
		ModuleDir: "/work/api/src/modules/invoice",
		Files: []string{
			"/work/api/src/modules/invoice/invoice.model.ts",
			"/work/api/src/modules/invoice/invoice.routes.ts",
		},
		Router: generator.RouterResult{Path: "/work/api/src/routes.ts", Outcome: outcome},
	}
}

func TestRenderModule(t *testing.T) {
	out := RenderModule(moduleResult(splice.OutcomeSpliced))
	require.Contains(t, out, "Module invoice generated")
	require.Contains(t, out, "src/modules/invoice")
	require.Contains(t, out, "+ invoice.model.ts")
	require.Contains(t, out, "Routes registered")
	require.Contains(t, out, "at /invoices")
	requireOrdered(t, out,
		"Module invoice generated",
		"Stack:   SQL (Sequelize)",
		"Variant: sequelize",
		"Created 2 file(s) in",
		"  + invoice.model.ts\n",
		"  + invoice.routes.ts\n",
		"Routes registered",
		" in src/routes.ts at /invoices\n",
	)
}

func TestRenderModule_RouterStates(t *testing.T) {
	skipped := RenderModule(moduleResult(splice.OutcomeSkipped))
	require.Contains(t, skipped, "src/routes.ts not found, register invoiceRoutes yourself")

	failed := RenderModule(moduleResult(""))
	require.Contains(t, failed, "could not splice src/routes.ts")
}

func TestRenderModule_Hints(t *testing.T) {
	result := moduleResult(splice.OutcomeSpliced)
	result.Hints = []string{"Add the model:\n\nmodel Invoice {}"}

	out := RenderModule(result)
	require.Contains(t, out, "Add the model:")
	require.Contains(t, out, "model Invoice {}")
}

func TestRenderInit(t *testing.T) {
	result := &scaffold.Result{
		ProjectName: "shop",
		ProjectDir:  "/work/shop",
		Template:    "sql-prisma",
		Stack:       models.StackPrisma,
		Files:       []string{"/work/shop/package.json"},
		EnvCreated:  true,
		Git:         scaffold.StepResult{Status: scaffold.StepDone},
		Install:     scaffold.StepResult{Status: scaffold.StepSkipped},
	}

	out := RenderInit(result)
	require.Contains(t, out, "Project shop created")
	require.Contains(t, out, "Git repository initialized")
	require.NotContains(t, out, "Dependencies installed")
	require.Contains(t, out, "cd shop")
	require.Contains(t, out, "npm install")
	requireOrdered(t, out,
		"Project shop created",
		"Template: sql-prisma\n",
		"Files:    1\n",
		"Env:      .env created from .env.example\n",
		"Git repository initialized",
		"Next steps:",
		"cd shop",
		"npm install",
		"Edit .env with your database credentials",
		"npm run dev",
	)
}

func TestRenderInit_Warnings(t *testing.T) {
	result := &scaffold.Result{
		ProjectName: "shop",
		Template:    "nosql",
		Stack:       models.StackMongoose,
		Git:         scaffold.StepResult{Status: scaffold.StepFailed, Err: errors.New("exec: git not found")},
		Install:     scaffold.StepResult{Status: scaffold.StepDone},
	}

	out := RenderInit(result)
	require.Contains(t, out, "Git initialization failed")
	require.Contains(t, out, "exec: git not found")
	require.Contains(t, out, "Dependencies installed")
	require.NotContains(t, out, "  npm install")
}

func TestRenderInit_GitSkippedInsideRepository(t *testing.T) {
	result := &scaffold.Result{
		ProjectName: "shop",
		Template:    "sql-prisma",
		Stack:       models.StackPrisma,
		Git:         scaffold.StepResult{Status: scaffold.StepSkipped, Reason: "already inside a git repository"},
	}

	out := RenderInit(result)
	require.Contains(t, out, "Git init skipped: already inside a git repository")
	require.NotContains(t, out, "Git repository initialized")
	require.NotContains(t, out, "Install skipped")
}

func TestRenderDoctor(t *testing.T) {
	r := &doctor.Report{Results: []doctor.CheckResult{
		{Check: doctor.DefaultChecks[0], Status: doctor.StatusOK, Version: "v20.11.0"},
		{Check: doctor.DefaultChecks[1], Status: doctor.StatusMissing},
		{Check: doctor.DefaultChecks[3], Status: doctor.StatusOptional},
	}}

	out := RenderDoctor(r)
	require.Contains(t, out, "Node.js: v20.11.0")
	require.Contains(t, out, "npm: Not found (REQUIRED)")
	require.Contains(t, out, "TypeScript: Not found (optional)")
	require.Contains(t, out, "Some required dependencies are missing.")
	requireOrdered(t, out,
		"Running system health checks...",
		"Node.js: v20.11.0",
		"npm: Not found (REQUIRED)",
		"TypeScript: Not found (optional)",
		"Some required dependencies are missing.",
	)
	require.NotContains(t, out, "All required dependencies are installed!")
}
