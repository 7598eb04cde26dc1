package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DefaultConfigFile is looked up in the working directory when no -config
// flag is given.
const DefaultConfigFile = "zap.json"

// DefaultRuntime executes emitted programs.
const DefaultRuntime = "node"

// Config is the project configuration shared by the zap tools. Command line
// flags override it.
type Config struct {
	Verbose     bool     `json:"verbose"`
	Debug       bool     `json:"debug"`
	OutDir      string   `json:"out_dir,omitempty"`
	Runtime     string   `json:"runtime"`
	RuntimeArgs []string `json:"runtime_args,omitempty"`

	// Compiler is a semver constraint the running compiler must satisfy,
	// such as ">= 0.1, < 1".
	Compiler string `json:"compiler,omitempty"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{Runtime: DefaultRuntime}
}

// LoadConfig loads configuration from file. A missing file yields the
// defaults; a file whose compiler constraint rejects Version is an error.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Runtime == "" {
		config.Runtime = DefaultRuntime
	}

	if err := CheckCompatibility(config.Compiler); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	return config, nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CheckCompatibility reports whether Version satisfies constraint. An empty
// constraint accepts every version.
func CheckCompatibility(constraint string) error {
	if strings.TrimSpace(constraint) == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid compiler constraint %q: %w", constraint, err)
	}

	v := semver.MustParse(Version)
	if ok, reasons := c.Validate(v); !ok {
		msgs := make([]string, len(reasons))
		for i, reason := range reasons {
			msgs[i] = reason.Error()
		}
		return fmt.Errorf("zap %s does not satisfy %q: %s", Version, constraint, strings.Join(msgs, "; "))
	}

	return nil
}
