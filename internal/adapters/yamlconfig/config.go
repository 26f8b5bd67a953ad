// Package yamlconfig implements ports.ConfigSource over a YAML file.
//
// The file is read on every Load so edits take effect on the next operation.
// A missing file is not an error: defaults apply.
package yamlconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/corey/brkit/internal/ports"
	"gopkg.in/yaml.v3"
)

// Defaults for fields left unset.
const (
	DefaultSettleDelay  = 750 * time.Millisecond
	DefaultAttempts     = 2
	DefaultCleanupDelay = time.Second
)

// FileNames lists where a workspace config is looked for, in priority order,
// relative to the workspace root.
var FileNames = []string{"brkit.yaml", filepath.Join(".brkit", "config.yaml")}

// yamlConfig is the YAML-serialized form of ports.Config.
type yamlConfig struct {
	Engine struct {
		Executable   string   `yaml:"executable"`
		WorkDir      string   `yaml:"workdir"`
		Helper       string   `yaml:"helper"`
		HelperArgs   []string `yaml:"helper_args"`
		SettleDelay  string   `yaml:"settle_delay"`
		Attempts     int      `yaml:"attempts"`
		CleanupDelay string   `yaml:"cleanup_delay"`
	} `yaml:"engine"`
	// Decoded by hand to keep the configured order.
	Extensions yaml.Node `yaml:"extensions"`
	Decompile  struct {
		Style string `yaml:"style"`
	} `yaml:"decompile"`
	Editor  string   `yaml:"editor"`
	Exclude []string `yaml:"exclude"`
}

// Source loads configuration from the first existing file among its candidates.
type Source struct {
	candidates []string
}

// New returns a Source that reads the first existing file among paths.
func New(paths ...string) *Source {
	return &Source{candidates: paths}
}

// ForWorkspace returns a Source looking for FileNames under root.
func ForWorkspace(root string) *Source {
	paths := make([]string, len(FileNames))
	for i, name := range FileNames {
		paths[i] = filepath.Join(root, name)
	}
	return New(paths...)
}

// Path returns the file Load would read, or "" if none exists.
func (s *Source) Path() string {
	for _, p := range s.candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads and decodes the configuration.
func (s *Source) Load() (*ports.Config, error) {
	for _, p := range s.candidates {
		data, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		return cfg, nil
	}
	return Parse(nil)
}

// Parse decodes YAML bytes into a config with defaults applied.
func Parse(data []byte) (*ports.Config, error) {
	var yc yamlConfig
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &yc); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg := &ports.Config{
		Engine: ports.EngineConfig{
			Executable: yc.Engine.Executable,
			WorkDir:    yc.Engine.WorkDir,
			Helper:     yc.Engine.Helper,
			HelperArgs: yc.Engine.HelperArgs,
			Attempts:   yc.Engine.Attempts,
		},
		DecompileStyle: yc.Decompile.Style,
		Editor:         yc.Editor,
		Exclude:        yc.Exclude,
	}

	var err error
	if cfg.Engine.SettleDelay, err = parseDuration("engine.settle_delay", yc.Engine.SettleDelay, DefaultSettleDelay); err != nil {
		return nil, err
	}
	if cfg.Engine.CleanupDelay, err = parseDuration("engine.cleanup_delay", yc.Engine.CleanupDelay, DefaultCleanupDelay); err != nil {
		return nil, err
	}
	if cfg.Engine.Attempts <= 0 {
		cfg.Engine.Attempts = DefaultAttempts
	}
	if cfg.Extensions, err = decodeExtensions(&yc.Extensions); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseDuration(field, v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", field, v)
	}
	return d, nil
}

// decodeExtensions accepts either an ordered mapping (".br: .brs") or a list of
// {compiled, source} objects.
func decodeExtensions(n *yaml.Node) ([]ports.ExtensionPair, error) {
	if n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null") {
		return nil, nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		pairs := make([]ports.ExtensionPair, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("extensions: line %d: expected \"compiled: source\"", k.Line)
			}
			pairs = append(pairs, ports.ExtensionPair{Compiled: k.Value, Source: v.Value})
		}
		return pairs, nil
	case yaml.SequenceNode:
		var list []struct {
			Compiled string `yaml:"compiled"`
			Source   string `yaml:"source"`
		}
		if err := n.Decode(&list); err != nil {
			return nil, fmt.Errorf("extensions: %w", err)
		}
		pairs := make([]ports.ExtensionPair, len(list))
		for i, e := range list {
			pairs[i] = ports.ExtensionPair{Compiled: e.Compiled, Source: e.Source}
		}
		return pairs, nil
	default:
		return nil, fmt.Errorf("extensions: line %d: expected a mapping or a list", n.Line)
	}
}
