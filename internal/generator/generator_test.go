package generator

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/jakoblorz/polycore/internal/models"
	"github.com/jakoblorz/polycore/internal/project"
	"github.com/jakoblorz/polycore/internal/splice"
	"github.com/jakoblorz/polycore/internal/stack"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func fixedID() (string, error) { return "staging01", nil }

func answer(useRelational bool) VariantChooser {
	return ChooserFunc(func(ctx context.Context, s models.Stack) (bool, error) {
		return useRelational, nil
	})
}

func moduleFiles(dir string, names ...string) []string {
	files := make([]string, 0, len(names))
	for _, name := range names {
		files = append(files, filepath.Join(dir, name))
	}
	return files
}

func TestGenerateModule_Prisma(t *testing.T) {
	fs := newProject(t).prisma().build()
	gen := New(fs, nil, WithIDFunc(fixedID))

	result, err := gen.GenerateModule(context.Background(), Request{Name: "Invoice", Dir: projectRoot})
	require.NoError(t, err)

	moduleDir := filepath.Join(projectRoot, "src", "modules", "invoice")
	require.Equal(t, models.StackPrisma, result.Stack)
	require.Equal(t, models.VariantPrisma, result.Variant)
	require.Equal(t, moduleDir, result.ModuleDir)
	require.Equal(t, moduleFiles(moduleDir,
		"invoice.dto.ts", "invoice.service.ts", "invoice.controller.ts", "invoice.routes.ts",
	), result.Files)
	require.Equal(t, []string{
		filepath.Join(moduleDir, "invoice.controller.ts"),
		filepath.Join(moduleDir, "invoice.dto.ts"),
		filepath.Join(moduleDir, "invoice.routes.ts"),
		filepath.Join(moduleDir, "invoice.service.ts"),
	}, fs.ListFiles(moduleDir))

	require.Equal(t, splice.OutcomeSpliced, result.Router.Outcome)
	router, err := fs.ReadFile(filepath.Join(projectRoot, "src", "routes.ts"))
	require.NoError(t, err)
	require.Contains(t, string(router), "import invoiceRoutes from './modules/invoice/invoice.routes.js';")
	require.Contains(t, string(router), "router.use('/invoices', invoiceRoutes);")
	snaps.MatchSnapshot(t, string(router))

	require.Len(t, result.Hints, 1)
	require.Contains(t, result.Hints[0], "model Invoice {")
}

func TestGenerateModule_Sequelize(t *testing.T) {
	fs := newProject(t).sequelize().build()
	gen := New(fs, nil, WithIDFunc(fixedID))

	result, err := gen.GenerateModule(context.Background(), Request{Name: "order", Dir: projectRoot})
	require.NoError(t, err)

	moduleDir := filepath.Join(projectRoot, "src", "modules", "order")
	require.Equal(t, models.VariantSequelize, result.Variant)
	require.Equal(t, moduleFiles(moduleDir,
		"order.model.ts", "order.dto.ts", "order.service.ts", "order.controller.ts", "order.routes.ts",
	), result.Files)
	require.Len(t, fs.ListFiles(moduleDir), 5)
	require.Empty(t, result.Hints)

	model, err := fs.ReadFile(filepath.Join(moduleDir, "order.model.ts"))
	require.NoError(t, err)
	require.Contains(t, string(model), "tableName: 'orders',")
}

func TestGenerateModule_HybridAsksForVariant(t *testing.T) {
	tests := []struct {
		name          string
		deps          []string
		useRelational bool
		stack         models.Stack
		variant       models.Variant
	}{
		{"prisma sql", []string{stack.DepPrisma, stack.DepMongoose}, true, models.StackHybridPrisma, models.VariantPrisma},
		{"prisma nosql", []string{stack.DepPrisma, stack.DepMongoose}, false, models.StackHybridPrisma, models.VariantMongoose},
		{"sequelize sql", []string{stack.DepSequelize, stack.DepMongoose}, true, models.StackHybridSequelize, models.VariantSequelize},
		{"sequelize nosql", []string{stack.DepSequelize, stack.DepMongoose}, false, models.StackHybridSequelize, models.VariantMongoose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newProject(t).withDeps(tt.deps...).build()

			var asked []models.Stack
			chooser := ChooserFunc(func(ctx context.Context, s models.Stack) (bool, error) {
				asked = append(asked, s)
				return tt.useRelational, nil
			})

			result, err := New(fs, chooser, WithIDFunc(fixedID)).
				GenerateModule(context.Background(), Request{Name: "product", Dir: projectRoot})
			require.NoError(t, err)
			require.Equal(t, []models.Stack{tt.stack}, asked)
			require.Equal(t, tt.stack, result.Stack)
			require.Equal(t, tt.variant, result.Variant)
		})
	}
}

func TestGenerateModule_NonHybridNeverAsks(t *testing.T) {
	fs := newProject(t).mongoose().build()
	chooser := ChooserFunc(func(ctx context.Context, s models.Stack) (bool, error) {
		t.Fatalf("chooser must not be consulted for %s", s)
		return false, nil
	})

	result, err := New(fs, chooser, WithIDFunc(fixedID)).
		GenerateModule(context.Background(), Request{Name: "note", Dir: projectRoot})
	require.NoError(t, err)
	require.Equal(t, models.VariantMongoose, result.Variant)
}

func TestGenerateModule_HybridWithoutChooser(t *testing.T) {
	fs := newProject(t).prisma().mongoose().build()

	_, err := New(fs, nil).GenerateModule(context.Background(), Request{Name: "product", Dir: projectRoot})
	require.Error(t, err)
	require.Empty(t, fs.ListFiles(filepath.Join(projectRoot, "src", "modules")))
}

func TestGenerateModule_ChooserErrorWritesNothing(t *testing.T) {
	fs := newProject(t).sequelize().mongoose().build()
	aborted := errors.New("user aborted")
	chooser := ChooserFunc(func(ctx context.Context, s models.Stack) (bool, error) {
		return false, aborted
	})

	_, err := New(fs, chooser).GenerateModule(context.Background(), Request{Name: "product", Dir: projectRoot})
	require.ErrorIs(t, err, aborted)
	require.False(t, fs.Exists(filepath.Join(projectRoot, "src", "modules")))
}

func TestGenerateModule_DetectionFailureWritesNothing(t *testing.T) {
	fs := newProject(t).build()
	before, err := fs.ReadFile(filepath.Join(projectRoot, "src", "routes.ts"))
	require.NoError(t, err)

	_, err = New(fs, answer(true)).GenerateModule(context.Background(), Request{Name: "invoice", Dir: projectRoot})

	var detectionErr *stack.DetectionError
	require.ErrorAs(t, err, &detectionErr)
	require.Equal(t, []string{"express"}, detectionErr.Declared)
	require.False(t, fs.Exists(filepath.Join(projectRoot, "src", "modules")))

	after, err := fs.ReadFile(filepath.Join(projectRoot, "src", "routes.ts"))
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestGenerateModule_NotAProject(t *testing.T) {
	fs := newProject(t).build()
	require.NoError(t, fs.RemoveAll(filepath.Join(projectRoot, "package.json")))

	_, err := New(fs, nil).GenerateModule(context.Background(), Request{Name: "invoice", Dir: projectRoot})
	require.ErrorIs(t, err, project.ErrNotAProject)
}

func TestGenerateModule_FromSubdirectory(t *testing.T) {
	fs := newProject(t).prisma().build()
	fs.AddDir(filepath.Join(projectRoot, "src", "core"))

	result, err := New(fs, nil, WithIDFunc(fixedID)).
		GenerateModule(context.Background(), Request{Name: "invoice", Dir: filepath.Join(projectRoot, "src", "core")})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(projectRoot, "src", "modules", "invoice"), result.ModuleDir)
}

func TestGenerateModule_DefaultsToWorkingDirectory(t *testing.T) {
	fs := newProject(t).prisma().build()

	result, err := New(fs, nil, WithIDFunc(fixedID)).
		GenerateModule(context.Background(), Request{Name: "invoice"})
	require.NoError(t, err)
	require.Equal(t, projectRoot, result.Project.RootPath)
}

func TestGenerateModule_ExistingModule(t *testing.T) {
	fs := newProject(t).prisma().build()
	gen := New(fs, nil, WithIDFunc(fixedID))

	_, err := gen.GenerateModule(context.Background(), Request{Name: "invoice", Dir: projectRoot})
	require.NoError(t, err)

	router, err := fs.ReadFile(filepath.Join(projectRoot, "src", "routes.ts"))
	require.NoError(t, err)
	controllerPath := filepath.Join(projectRoot, "src", "modules", "invoice", "invoice.controller.ts")
	require.NoError(t, fs.WriteFile(controllerPath, []byte("// edited by hand\n"), 0644))

	_, err = gen.GenerateModule(context.Background(), Request{Name: "Invoice", Dir: projectRoot})
	require.ErrorIs(t, err, ErrModuleExists)

	controller, err := fs.ReadFile(controllerPath)
	require.NoError(t, err)
	require.Equal(t, "// edited by hand\n", string(controller))

	routerAfter, err := fs.ReadFile(filepath.Join(projectRoot, "src", "routes.ts"))
	require.NoError(t, err)
	require.Equal(t, router, routerAfter)
}

func TestGenerateModule_WriteFailureLeavesNothingBehind(t *testing.T) {
	fs := newProject(t).sequelize().build()
	diskFull := errors.New("no space left on device")
	fs.WriteFileHook = func(path string) error {
		if strings.HasSuffix(path, ".service.ts") {
			return diskFull
		}
		return nil
	}

	_, err := New(fs, nil, WithIDFunc(fixedID)).
		GenerateModule(context.Background(), Request{Name: "order", Dir: projectRoot})

	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	require.ErrorIs(t, err, diskFull)
	require.Equal(t, filepath.Join(projectRoot, "src", "modules", "order", "order.service.ts"), writeErr.Path)

	modulesDir := filepath.Join(projectRoot, "src", "modules")
	require.False(t, fs.Exists(filepath.Join(modulesDir, "order")))
	require.False(t, fs.Exists(filepath.Join(modulesDir, ".order-staging01.tmp")))
	require.Empty(t, fs.ListFiles(modulesDir))

	router, err := fs.ReadFile(filepath.Join(projectRoot, "src", "routes.ts"))
	require.NoError(t, err)
	require.Equal(t, defaultRouter, string(router))
}

func TestGenerateModule_RouterAbsentIsSkipped(t *testing.T) {
	fs := newProject(t).prisma().withoutRouter().build()

	result, err := New(fs, nil, WithIDFunc(fixedID)).
		GenerateModule(context.Background(), Request{Name: "invoice", Dir: projectRoot})
	require.NoError(t, err)
	require.Equal(t, splice.OutcomeSkipped, result.Router.Outcome)
	require.Len(t, result.Files, 4)
	require.False(t, fs.Exists(filepath.Join(projectRoot, "src", "routes.ts")))
}

func TestGenerateModule_SpliceFailureKeepsModule(t *testing.T) {
	fs := newProject(t).prisma().withRouter("const router = Router();\n").build()

	result, err := New(fs, nil, WithIDFunc(fixedID)).
		GenerateModule(context.Background(), Request{Name: "invoice", Dir: projectRoot})

	var spliceErr *SpliceError
	require.ErrorAs(t, err, &spliceErr)
	require.ErrorIs(t, err, splice.ErrImportAnchorNotFound)
	require.Equal(t, filepath.Join(projectRoot, "src", "routes.ts"), spliceErr.RouterPath)

	require.NotNil(t, result)
	require.Len(t, fs.ListFiles(result.ModuleDir), 4)
	require.Empty(t, result.Router.Outcome)
}

func TestGenerateModule_ProjectConfig(t *testing.T) {
	router := `import { Router } from 'express';

export const api = Router();

export default api;
`
	fs := newProject(t).prisma().withoutRouter().
		withFile("polycore.yaml", "modulesDir: src/features\nrouterFile: src/http/index.ts\nrouterName: api\n").
		withFile("src/http/index.ts", router).
		build()

	result, err := New(fs, nil, WithIDFunc(fixedID)).
		GenerateModule(context.Background(), Request{Name: "invoice", Dir: projectRoot})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(projectRoot, "src", "features", "invoice"), result.ModuleDir)
	require.Equal(t, filepath.Join(projectRoot, "src", "http", "index.ts"), result.Router.Path)

	content, err := fs.ReadFile(result.Router.Path)
	require.NoError(t, err)
	require.Contains(t, string(content), "import invoiceRoutes from '../features/invoice/invoice.routes.js';")
	require.Contains(t, string(content), "api.use('/invoices', invoiceRoutes);\nexport default api;")
}

func TestGenerateModule_InvalidName(t *testing.T) {
	for _, name := range []string{"  ", "../../../outside", "order-item", "src/invoice"} {
		t.Run(name, func(t *testing.T) {
			fs := newProject(t).prisma().build()
			before := fs.ListFiles("/")

			result, err := New(fs, nil).GenerateModule(context.Background(), Request{Name: name, Dir: projectRoot})
			require.ErrorIs(t, err, models.ErrInvalidEntityName)
			require.Nil(t, result)

			require.Equal(t, before, fs.ListFiles("/"))
			require.False(t, fs.Exists("/work/outside"))
		})
	}
}

func TestGenerateModule_LogsStateTransitions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	fs := newProject(t).prisma().mongoose().build()

	_, err := New(fs, answer(false), WithIDFunc(fixedID), WithLogger(zap.New(core))).
		GenerateModule(context.Background(), Request{Name: "invoice", Dir: projectRoot})
	require.NoError(t, err)

	var states []string
	for _, entry := range logs.FilterMessage("state transition").All() {
		states = append(states, entry.ContextMap()["to"].(string))
	}
	require.Equal(t, []string{
		string(StateDetecting),
		string(StateAwaitingVariant),
		string(StateRendering),
		string(StateCollisionCheck),
		string(StateWriting),
		string(StateSplicing),
		string(StateDone),
	}, states)
}

func TestGenerateModule_LogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	fs := newProject(t).build()

	_, err := New(fs, nil, WithLogger(zap.New(core))).
		GenerateModule(context.Background(), Request{Name: "invoice", Dir: projectRoot})
	require.Error(t, err)

	failed := logs.FilterMessage("generation failed").All()
	require.Len(t, failed, 1)
	require.Equal(t, string(StateDetecting), failed[0].ContextMap()["state"])
}

func TestPrismaModel(t *testing.T) {
	snaps.MatchSnapshot(t, PrismaModel(models.NewEntityName("Invoice")))
}
