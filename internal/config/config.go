// Package config loads tool configuration from HCL files. Engines never
// read files themselves; they take the plain structs this package
// produces.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/dromedary/camel-odds/internal/board"
	"github.com/dromedary/camel-odds/internal/predict"
)

// Config is the complete tool configuration.
type Config struct {
	Board      *BoardBlock      `hcl:"board,block"`
	Payouts    *PayoutsBlock    `hcl:"payouts,block"`
	Simulation *SimulationBlock `hcl:"simulation,block"`
	Server     *ServerBlock     `hcl:"server,block"`
}

// BoardBlock overrides the board geometry
type BoardBlock struct {
	TrackLength int   `hcl:"track_length,optional"`
	FinishLine  int   `hcl:"finish_line,optional"`
	Racers      int   `hcl:"racers,optional"`
	CrazyPair   *bool `hcl:"crazy_pair,optional"`
	DiceFaces   int   `hcl:"dice_faces,optional"`
	OasisShift  int   `hcl:"oasis_shift,optional"`
	DesertShift int   `hcl:"desert_shift,optional"`
}

// PayoutsBlock overrides the betting schedule
type PayoutsBlock struct {
	LegTiers     []int `hcl:"leg_tiers,optional"`
	RaceTiers    []int `hcl:"race_tiers,optional"`
	SecondPayout int   `hcl:"second_payout,optional"`
	MissPenalty  int   `hcl:"miss_penalty,optional"`
}

// SimulationBlock overrides simulation defaults
type SimulationBlock struct {
	Trials  int `hcl:"trials,optional"`
	Workers int `hcl:"workers,optional"`
}

// ServerBlock configures the odds service
type ServerBlock struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// Default returns the standard configuration
func Default() *Config {
	return &Config{
		Simulation: &SimulationBlock{Trials: 10000},
		Server: &ServerBlock{
			Address:  "localhost",
			Port:     8585,
			LogLevel: "info",
		},
	}
}

// Load reads an HCL configuration file, falling back to defaults when the
// file does not exist
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if cfg.Simulation == nil {
		cfg.Simulation = &SimulationBlock{}
	}
	if cfg.Simulation.Trials == 0 {
		cfg.Simulation.Trials = 10000
	}
	if cfg.Server == nil {
		cfg.Server = &ServerBlock{}
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8585
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}

	return &cfg, nil
}

// BoardConfig materializes the board geometry, applying defaults for
// anything the file left out
func (c *Config) BoardConfig() board.Config {
	bc := board.DefaultConfig()
	if c.Board == nil {
		return bc
	}
	if c.Board.TrackLength > 0 {
		bc.TrackLength = c.Board.TrackLength
	}
	if c.Board.FinishLine > 0 {
		bc.FinishLine = c.Board.FinishLine
	}
	if c.Board.Racers > 0 {
		bc.RacerCount = c.Board.Racers
	}
	if c.Board.CrazyPair != nil {
		bc.CrazyPair = *c.Board.CrazyPair
	}
	if c.Board.DiceFaces > 0 {
		bc.DiceFaces = c.Board.DiceFaces
	}
	if c.Board.OasisShift > 0 {
		bc.OasisShift = c.Board.OasisShift
	}
	if c.Board.DesertShift > 0 {
		bc.DesertShift = c.Board.DesertShift
	}
	return bc
}

// Schedule materializes the betting schedule
func (c *Config) Schedule() predict.Schedule {
	sched := predict.DefaultSchedule()
	if c.Payouts == nil {
		return sched
	}
	if len(c.Payouts.LegTiers) > 0 {
		sched.LegTiers = c.Payouts.LegTiers
	}
	if len(c.Payouts.RaceTiers) > 0 {
		sched.RaceTiers = c.Payouts.RaceTiers
	}
	if c.Payouts.SecondPayout > 0 {
		sched.SecondPayout = c.Payouts.SecondPayout
	}
	if c.Payouts.MissPenalty > 0 {
		sched.MissPenalty = c.Payouts.MissPenalty
	}
	return sched
}

// ListenAddr returns the host:port the odds service binds
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Validate rejects unusable configuration
func (c *Config) Validate() error {
	if err := c.BoardConfig().Validate(); err != nil {
		return err
	}
	if c.Simulation != nil && c.Simulation.Trials < 0 {
		return fmt.Errorf("simulation trials %d: must be non-negative", c.Simulation.Trials)
	}
	if c.Server != nil && (c.Server.Port < 1 || c.Server.Port > 65535) {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	return nil
}
