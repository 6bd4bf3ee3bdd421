package ambfworld

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/restartfu/gophig"
	"github.com/smell-of-curry/ambf-world/ambfworld/util"
	"github.com/smell-of-curry/ambf-world/ambfworld/world"
)

// ConfigPath is the default location of the configuration file.
const ConfigPath = "./config.toml"

// Environment variables read from the process or from a .env file. They take
// precedence over config.toml so secrets can stay out of it.
const (
	EnvSentryDsn        = "AMBFWORLD_SENTRY_DSN"
	EnvAuthorizationKey = "AMBFWORLD_AUTHORIZATION_KEY"
)

// Config holds the tool configuration: logging, error reporting, loader
// strictness and the inspection service.
type Config struct {
	AMBFWorld struct {
		SentryDsn   string
		LogLevel    string // Can be "debug", "info", "warn", "error"
		Environment string
	}
	Loader struct {
		DuplicateKeys string // Can be "last", "first", "reject"
		Advisory      bool
	}
	Service struct {
		GinAddress       string
		WorldPath        string
		AuthorizationKey string
		ReloadInterval   util.Duration
	}
}

// DefaultConfig returns a config with prefilled default values.
func DefaultConfig() Config {
	c := Config{}

	c.AMBFWorld.SentryDsn = ""
	c.AMBFWorld.LogLevel = "info"
	c.AMBFWorld.Environment = "production"

	c.Loader.DuplicateKeys = world.LastWins.String()
	c.Loader.Advisory = false

	c.Service.GinAddress = ":8080"
	c.Service.WorldPath = "resources/worlds"
	c.Service.AuthorizationKey = ""
	c.Service.ReloadInterval = util.Duration(30 * time.Second)

	return c
}

// LoaderOptions converts the loader section into world loader options.
func (c Config) LoaderOptions() (world.Options, error) {
	policy, err := world.ParseDuplicatePolicy(c.Loader.DuplicateKeys)
	if err != nil {
		return world.Options{}, err
	}
	return world.Options{
		Duplicates: policy,
		Advisory:   c.Loader.Advisory,
	}, nil
}

// ParseLogLevel returns the appropriate slog.Level based on string configuration.
// Returns an error if the provided log level string is not recognized.
func ParseLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unrecognized log level: %q", level)
	}
}

// ReadConfig loads the configuration from path.
// If the file doesn't exist, it creates a new one with default values.
// Values from the environment, or from a .env file next to the process, are
// applied on top.
func ReadConfig(path string) (Config, error) {
	g := gophig.NewGophig[Config](path, gophig.TOMLMarshaler{}, os.ModePerm)
	_, err := g.LoadConf()
	if errors.Is(err, os.ErrNotExist) {
		err = g.SaveConf(DefaultConfig())
		if err != nil {
			return Config{}, err
		}
	}
	c, err := g.LoadConf()
	if err != nil {
		return Config{}, err
	}
	if err = applyEnv(&c, ".env"); err != nil {
		return Config{}, err
	}
	return c, nil
}

// applyEnv overrides secrets with environment values. A missing env file is
// not an error.
func applyEnv(c *Config, envFile string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	if dsn, ok := os.LookupEnv(EnvSentryDsn); ok {
		c.AMBFWorld.SentryDsn = dsn
	}
	if key, ok := os.LookupEnv(EnvAuthorizationKey); ok {
		c.Service.AuthorizationKey = key
	}
	return nil
}
