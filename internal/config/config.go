package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/gamify"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Rules     RulesConfig     `yaml:"rules"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// RulesConfig carries the gamification constants. The defaults are the
// catalog values the legacy client shipped with; they are configuration, not
// derived numbers, so deployments can tune them without code changes.
type RulesConfig struct {
	XPPerWorkout      int `yaml:"xp_per_workout"`
	XPPerHardWorkout  int `yaml:"xp_per_hard_workout"`
	PointsPerWorkout  int `yaml:"points_per_workout"`
	XPPerGift         int `yaml:"xp_per_gift"`
	BadgeBonus        int `yaml:"badge_bonus"`
	LevelXP           int `yaml:"level_xp"`
	WeeklyTeamTarget  int `yaml:"weekly_team_target"`
	MonthlyTeamTarget int `yaml:"monthly_team_target"`
	YearlyTeamTarget  int `yaml:"yearly_team_target"`
}

// GamifyRules maps the loaded constants onto the scoring engine's rule set.
func (r RulesConfig) GamifyRules() gamify.Rules {
	return gamify.Rules{
		XPPerWorkout:      r.XPPerWorkout,
		XPPerHardWorkout:  r.XPPerHardWorkout,
		PointsPerWorkout:  r.PointsPerWorkout,
		XPPerGift:         r.XPPerGift,
		BadgeBonus:        r.BadgeBonus,
		LevelXP:           r.LevelXP,
		WeeklyTeamTarget:  r.WeeklyTeamTarget,
		MonthlyTeamTarget: r.MonthlyTeamTarget,
		YearlyTeamTarget:  r.YearlyTeamTarget,
	}
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix FITTRIBE_ and underscore-separated paths:
//
//	FITTRIBE_SERVER_HOST, FITTRIBE_SERVER_PORT,
//	FITTRIBE_DB_HOST, FITTRIBE_DB_PORT, FITTRIBE_DB_NAME,
//	FITTRIBE_DB_USER, FITTRIBE_DB_PASSWORD, FITTRIBE_DB_SSLMODE,
//	FITTRIBE_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.Rules.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FITTRIBE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("FITTRIBE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FITTRIBE_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("FITTRIBE_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("FITTRIBE_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("FITTRIBE_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("FITTRIBE_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("FITTRIBE_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("FITTRIBE_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

// applyDefaults fills zero-valued rule constants with the legacy catalog
// values. A config file only needs to name the constants it changes.
func (r *RulesConfig) applyDefaults() {
	if r.XPPerWorkout == 0 {
		r.XPPerWorkout = 100
	}
	if r.XPPerHardWorkout == 0 {
		r.XPPerHardWorkout = 100
	}
	if r.PointsPerWorkout == 0 {
		r.PointsPerWorkout = 10
	}
	if r.XPPerGift == 0 {
		r.XPPerGift = 20
	}
	if r.BadgeBonus == 0 {
		r.BadgeBonus = 50
	}
	if r.LevelXP == 0 {
		r.LevelXP = 500
	}
	if r.WeeklyTeamTarget == 0 {
		r.WeeklyTeamTarget = 9
	}
	if r.MonthlyTeamTarget == 0 {
		r.MonthlyTeamTarget = 36
	}
	if r.YearlyTeamTarget == 0 {
		r.YearlyTeamTarget = 400
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Rules.XPPerHardWorkout < c.Rules.XPPerWorkout {
		return fmt.Errorf("rules.xp_per_hard_workout must be >= rules.xp_per_workout")
	}
	return nil
}
