package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/polycore/internal/filesystem"
	"gopkg.in/yaml.v3"
)

// FileNames are the config file names looked up in the project root, in order.
var FileNames = []string{"polycore.yaml", ".polycore.yaml"}

const (
	DefaultModulesDir = "src/modules"
	DefaultRouterFile = "src/routes.ts"
	DefaultRouterName = "router"
)

// Config holds per-project generator settings. Paths are relative to the
// project root.
type Config struct {
	// ModulesDir is where module directories are created
	ModulesDir string `yaml:"modulesDir"`

	// RouterFile is the aggregating router source that new modules are spliced into
	RouterFile string `yaml:"routerFile"`

	// RouterName is the variable the router file registers routes on
	RouterName string `yaml:"routerName"`

	// Path is the file the config was loaded from, empty for defaults
	Path string `yaml:"-"`
}

// Default returns the settings that match the project templates shipped with init.
func Default() *Config {
	return &Config{
		ModulesDir: DefaultModulesDir,
		RouterFile: DefaultRouterFile,
		RouterName: DefaultRouterName,
	}
}

// Load reads the project config from projectRoot. A missing file yields the defaults.
func Load(fs filesystem.FileSystem, projectRoot string) (*Config, error) {
	cfg := Default()

	for _, name := range FileNames {
		path := filepath.Join(projectRoot, name)
		if !fs.Exists(path) {
			continue
		}

		data, err := fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		cfg.Path = path
		break
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that configured paths stay inside the project.
func (c *Config) Validate() error {
	for field, value := range map[string]string{"modulesDir": c.ModulesDir, "routerFile": c.RouterFile} {
		if filepath.IsAbs(value) {
			return fmt.Errorf("invalid %s %q: must be relative to the project root", field, value)
		}
		if clean := filepath.ToSlash(filepath.Clean(value)); clean == ".." || strings.HasPrefix(clean, "../") {
			return fmt.Errorf("invalid %s %q: must not leave the project root", field, value)
		}
	}
	if strings.ContainsAny(c.RouterName, " \t\n.;()") {
		return fmt.Errorf("invalid routerName %q: must be an identifier", c.RouterName)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.ModulesDir) == "" {
		c.ModulesDir = DefaultModulesDir
	}
	if strings.TrimSpace(c.RouterFile) == "" {
		c.RouterFile = DefaultRouterFile
	}
	if strings.TrimSpace(c.RouterName) == "" {
		c.RouterName = DefaultRouterName
	}
}
