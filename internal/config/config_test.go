package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "fittribe"
  user: "fittribe"
  password: "secret"
  sslmode: "disable"
auth:
  api_key: "test-key-123"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "fittribe" {
		t.Errorf("database.name = %q, want %q", cfg.Database.Name, "fittribe")
	}
	if cfg.Auth.APIKey != "test-key-123" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "test-key-123")
	}
}

// TestRuleDefaults verifies the legacy catalog constants fill in when the
// config file omits the rules section entirely.
func TestRuleDefaults(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Rules.XPPerWorkout != 100 {
		t.Errorf("xp_per_workout = %d, want 100", cfg.Rules.XPPerWorkout)
	}
	if cfg.Rules.XPPerHardWorkout != 100 {
		t.Errorf("xp_per_hard_workout = %d, want 100", cfg.Rules.XPPerHardWorkout)
	}
	if cfg.Rules.PointsPerWorkout != 10 {
		t.Errorf("points_per_workout = %d, want 10", cfg.Rules.PointsPerWorkout)
	}
	if cfg.Rules.BadgeBonus != 50 {
		t.Errorf("badge_bonus = %d, want 50", cfg.Rules.BadgeBonus)
	}
	if cfg.Rules.LevelXP != 500 {
		t.Errorf("level_xp = %d, want 500", cfg.Rules.LevelXP)
	}
	if cfg.Rules.WeeklyTeamTarget != 9 {
		t.Errorf("weekly_team_target = %d, want 9", cfg.Rules.WeeklyTeamTarget)
	}
}

// TestHardWorkoutFloor verifies the "type B scores at least as high as type A"
// contract is enforced at config load, not scattered through scoring code.
func TestHardWorkoutFloor(t *testing.T) {
	yaml := validYAML + `
rules:
  xp_per_workout: 100
  xp_per_hard_workout: 80
`
	if _, err := Load(writeTemp(t, yaml)); err == nil {
		t.Fatal("expected validation error for hard workout XP below standard")
	}
}

// TestEnvOverride verifies that FITTRIBE_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("FITTRIBE_DB_HOST", "override-host")
	t.Setenv("FITTRIBE_AUTH_API_KEY", "env-key")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "override-host" {
		t.Errorf("database.host = %q, want %q", cfg.Database.Host, "override-host")
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "env-key")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("database.port = %d, want 5432 (YAML value)", cfg.Database.Port)
	}
}

// TestLoadMissingFile verifies a clear error when the config path is wrong.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// TestDSN verifies connection string assembly and the sslmode default.
func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Name: "fittribe", User: "u", Password: "p"}
	want := "postgres://u:p@db:5432/fittribe?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
