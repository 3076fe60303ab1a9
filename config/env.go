package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Env process-wide settings read from the environment (and an optional .env file).
type Env struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// LoadEnv reads Env from the environment.
func LoadEnv() (Env, error) {
	// .env is optional
	_ = godotenv.Load()

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, errors.Wrap(err, "process env")
	}
	return env, nil
}

// Logger builds a zap logger: json production encoding by default, console
// development encoding when LOG_FORMAT=console.
func (e Env) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(e.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid LOG_LEVEL %q", e.LogLevel)
	}

	cfg := zap.NewProductionConfig()
	if e.LogFormat == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = level

	return cfg.Build()
}
