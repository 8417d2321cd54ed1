package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProfileProd = "prod"

	// devAdminPassword is used for the base accounts outside prod when none is configured.
	devAdminPassword = "1234"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	App struct {
		Profile string
	}
	Log struct {
		Level string
	}
	Seed struct {
		// Samples enables the sample member fixtures. Defaults to true
		// outside the prod profile when not set explicitly.
		Samples       bool   `mapstructure:"-"`
		AdminPassword string `mapstructure:"admin_password"`
	}
	Auth struct {
		BcryptCost int `mapstructure:"bcrypt_cost"`
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.App.Profile, ProfileProd)
}

// Validate reports settings the process cannot start without.
func (c Config) Validate() error {
	if c.IsProduction() && c.Seed.AdminPassword == "" {
		return errors.New("seed admin password is required in the prod profile")
	}
	return nil
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// optional .env; never overrides the real environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("SSS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.path", "data/sss.db")
	v.SetDefault("app.profile", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("seed.admin_password", "")
	v.SetDefault("auth.bcrypt_cost", 0)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.App.Profile = strings.ToLower(strings.TrimSpace(cfg.App.Profile))

	if v.IsSet("seed.samples") {
		cfg.Seed.Samples = v.GetBool("seed.samples")
	} else {
		cfg.Seed.Samples = !cfg.IsProduction()
	}

	cfg.Seed.AdminPassword = strings.TrimSpace(cfg.Seed.AdminPassword)
	if cfg.Seed.AdminPassword == "" && !cfg.IsProduction() {
		cfg.Seed.AdminPassword = devAdminPassword
	}

	return cfg, nil
}
