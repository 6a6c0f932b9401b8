// Package config loads Vellum's runtime limits from the environment,
// promoting github.com/caarlos0/env/v6 from an indirect dependency of
// mainer (teacher go.mod) to a directly used one, the way SPEC_FULL.md's
// ambient-stack expansion calls for.
package config

import "github.com/caarlos0/env/v6"

// Config carries the resource limits a Thread runs under (SPEC_FULL.md
// §3), sourced from VELLUM_-prefixed environment variables so the same
// binary can be tuned per-deployment without a recompile.
type Config struct {
	MaxRegisterStackBytes int  `env:"VELLUM_MAX_REGISTER_STACK_BYTES" envDefault:"16777216"`
	MaxCallStackDepth     int  `env:"VELLUM_MAX_CALL_STACK_DEPTH" envDefault:"256"`
	MaxSteps              int64 `env:"VELLUM_MAX_STEPS" envDefault:"10000000"`
	EnableJIT             bool `env:"VELLUM_ENABLE_JIT" envDefault:"false"`
}

// Load reads Config from the process environment, applying the defaults
// above for anything unset.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// MaxRegisters derives a per-frame register ceiling from the configured
// stack budget, assuming one register holds at most a 16-byte
// types.Value-shaped slot (an interface header).
func (c Config) MaxRegisters() int {
	const wordSize = 16
	n := c.MaxRegisterStackBytes / wordSize
	if n <= 0 {
		return 1 << 14
	}
	return n
}
