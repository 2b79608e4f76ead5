package lox

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls one pipeline run.
type Config struct {
	// Filename is attached to lexer and parser diagnostics.
	Filename string `yaml:"filename"`
	// StrictDivision turns division by zero into ErrDivisionByZero instead
	// of an IEEE infinity or NaN.
	StrictDivision bool `yaml:"strict_division"`
	// Workers bounds the concurrent runner; zero means one per CPU.
	Workers int `yaml:"workers"`

	// Output receives printed values. Nil means os.Stdout.
	Output io.Writer `yaml:"-"`
	// Registry supplies native functions. Nil means the global registry.
	Registry *FunctionRegistry `yaml:"-"`
}

// LoadConfig reads the serializable fields of a Config from a YAML file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.Workers < 0 {
		return cfg, fmt.Errorf("config %s: workers must not be negative", path)
	}
	return cfg, nil
}
