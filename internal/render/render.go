package render

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/adrg/frontmatter"
	"github.com/jakoblorz/polycore/internal/models"
)

//go:embed templates/module/*.tmpl
var moduleTemplates embed.FS

const moduleTemplateDir = "templates/module"

// templateMeta is the front matter every module template starts with.
type templateMeta struct {
	Role     string   `yaml:"role"`
	Variants []string `yaml:"variants"`
}

// templateData is what module templates are executed with.
type templateData struct {
	Lower    string
	TypeName string
	Plural   string
	Variant  string
}

// Renderer renders the source files of a module. It is safe for concurrent use.
type Renderer struct {
	templates map[models.Variant]map[models.ArtifactRole]*template.Template
}

var (
	defaultRenderer     *Renderer
	defaultRendererErr  error
	defaultRendererOnce sync.Once
)

// Default returns the renderer built from the embedded module templates.
func Default() (*Renderer, error) {
	defaultRendererOnce.Do(func() {
		defaultRenderer, defaultRendererErr = New(moduleTemplates, moduleTemplateDir)
	})
	return defaultRenderer, defaultRendererErr
}

// New loads every *.tmpl file in dir of fsys. Each file declares the role it
// renders and the variants it applies to in its front matter. Every variant
// must end up with exactly the roles models.RequiredRoles lists.
func New(fsys fs.FS, dir string) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[models.Variant]map[models.ArtifactRole]*template.Template),
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		if err := r.load(fsys, path.Join(dir, entry.Name())); err != nil {
			return nil, err
		}
	}

	if err := r.verify(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Renderer) load(fsys fs.FS, name string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", name, err)
	}

	var meta templateMeta
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return fmt.Errorf("failed to parse front matter of %s: %w", name, err)
	}

	role, err := models.ParseArtifactRole(meta.Role)
	if err != nil {
		return fmt.Errorf("template %s: %w", name, err)
	}
	if len(meta.Variants) == 0 {
		return fmt.Errorf("template %s: no variants declared", name)
	}

	tmpl, err := template.New(path.Base(name)).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(strings.TrimLeft(string(body), "\r\n"))
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	for _, raw := range meta.Variants {
		variant, err := models.ParseVariant(raw)
		if err != nil {
			return fmt.Errorf("template %s: %w", name, err)
		}

		byRole, ok := r.templates[variant]
		if !ok {
			byRole = make(map[models.ArtifactRole]*template.Template)
			r.templates[variant] = byRole
		}
		if existing, dup := byRole[role]; dup {
			return fmt.Errorf("template %s: %s/%s already provided by %s", name, variant, role, existing.Name())
		}
		byRole[role] = tmpl
	}

	return nil
}

func (r *Renderer) verify() error {
	for _, variant := range models.Variants {
		byRole := r.templates[variant]
		required := models.RequiredRoles(variant)

		for _, role := range required {
			if _, ok := byRole[role]; !ok {
				return fmt.Errorf("no %s template for variant %s", role, variant)
			}
		}
		if len(byRole) != len(required) {
			var roles []string
			for role := range byRole {
				roles = append(roles, string(role))
			}
			sort.Strings(roles)
			return fmt.Errorf("variant %s has unexpected roles: %s", variant, strings.Join(roles, ", "))
		}
	}
	return nil
}

// Render produces the artifact set for one module. It never touches disk
// and returns an error only for an unknown variant.
func (r *Renderer) Render(name models.EntityName, variant models.Variant) (*models.ArtifactSet, error) {
	byRole, ok := r.templates[variant]
	if !ok {
		return nil, fmt.Errorf("no templates for variant %q", variant)
	}

	data := templateData{
		Lower:    name.Lower,
		TypeName: name.TypeName,
		Plural:   name.Plural(),
		Variant:  string(variant),
	}

	set := &models.ArtifactSet{Name: name, Variant: variant}
	for _, role := range models.RequiredRoles(variant) {
		var buf bytes.Buffer
		if err := byRole[role].Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("failed to render %s for %s: %w", role, variant, err)
		}

		set.Add(models.Artifact{
			Role:     role,
			FileName: role.FileName(name),
			Content:  buf.Bytes(),
		})
	}

	return set, nil
}
