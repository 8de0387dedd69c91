package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the default config filename looked up in the working
// directory when --config is not given.
const ConfigFile = "neurotrace.yaml"

// Config holds reconstruct defaults. Flags set explicitly on the command
// line win over config values.
type Config struct {
	Out     string `yaml:"out"`
	Format  string `yaml:"format"`
	Workers int    `yaml:"workers"`
}

// LoadConfig reads a YAML config file. An empty path falls back to
// ConfigFile in the working directory; a missing default file is not an
// error.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}
