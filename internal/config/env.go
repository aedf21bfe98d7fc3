package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// RunOptions are the knobs of the simsvc command. Environment variables set
// the defaults; command line flags override them.
type RunOptions struct {
	Balance  string   `env:"SIM_BALANCE"`
	Policies []string `env:"SIM_POLICY" envSeparator:"," envDefault:"random"`
	Trials   int      `env:"SIM_TRIALS" envDefault:"1000"`
	Seed     int64    `env:"SIM_SEED" envDefault:"12345"`
	Workers  int      `env:"SIM_WORKERS" envDefault:"8"`
	Out      string   `env:"SIM_OUT" envDefault:"out.json"`
	Record   bool     `env:"SIM_RECORD" envDefault:"true"`
	LogLevel string   `env:"SIM_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads RunOptions from the process environment.
func ParseEnv() (RunOptions, error) {
	var opts RunOptions
	if err := env.Parse(&opts); err != nil {
		return RunOptions{}, fmt.Errorf("parse env: %w", err)
	}
	return opts, nil
}

// ParseEnvMap is ParseEnv over an explicit variable set.
func ParseEnvMap(vars map[string]string) (RunOptions, error) {
	var opts RunOptions
	if err := env.ParseWithOptions(&opts, env.Options{Environment: vars}); err != nil {
		return RunOptions{}, fmt.Errorf("parse env: %w", err)
	}
	return opts, nil
}
