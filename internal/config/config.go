// Package config loads optional run parameters for the gbacore CLI from a
// TOML file, so a run can be repeated without restating every flag.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Run holds the subset of CLI flags a config file may supply. Flags passed
// explicitly on the command line override the corresponding config value.
type Run struct {
	BIOS     string `toml:"bios"`
	ROM      string `toml:"rom"`
	PC       uint32 `toml:"pc"`
	MaxSteps int    `toml:"max_steps"`
	Trace    bool   `toml:"trace"`
}

// Load parses a TOML config file at path into a Run.
func Load(path string) (*Run, error) {
	var r Run
	if _, err := toml.DecodeFile(path, &r); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}
	return &r, nil
}
