package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Search configures the MCTS driver. It is threaded explicitly through the
// entry points rather than held in process-wide state.
type Search struct {
	Simulations int     `yaml:"simulations"`
	Exploration float64 `yaml:"exploration"`
	MaxDepth    int     `yaml:"max_depth"`
	Temperature float64 `yaml:"temperature"`
	Parallelism int     `yaml:"parallelism"`
	// OracleURL points at the policy/value service. Empty selects the
	// uniform stub oracle.
	OracleURL string `yaml:"oracle_url"`
}

// Server configures the agent HTTP service.
type Server struct {
	Addr      string `yaml:"addr"`
	BoardSize int    `yaml:"board_size"`
}

type Config struct {
	Search Search `yaml:"search"`
	Server Server `yaml:"server"`
}

func Default() Config {
	return Config{
		Search: Search{
			Simulations: 200,
			Exploration: 1.0,
			MaxDepth:    256,
			Temperature: 0,
			Parallelism: 1,
		},
		Server: Server{
			Addr:      ":8080",
			BoardSize: 5,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Search.Simulations <= 0 {
		return fmt.Errorf("simulations must be positive, got %d", c.Search.Simulations)
	}
	if c.Search.Exploration <= 0 {
		return fmt.Errorf("exploration must be positive, got %v", c.Search.Exploration)
	}
	if c.Search.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive, got %d", c.Search.MaxDepth)
	}
	if c.Search.Temperature < 0 {
		return fmt.Errorf("temperature must not be negative, got %v", c.Search.Temperature)
	}
	if c.Search.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be positive, got %d", c.Search.Parallelism)
	}
	if c.Server.BoardSize < 3 || c.Server.BoardSize > 8 {
		return fmt.Errorf("board_size must be 3..8, got %d", c.Server.BoardSize)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}
	return nil
}
