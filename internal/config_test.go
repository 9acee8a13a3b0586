package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.RequestsPerMinute != 12 {
		t.Errorf("RequestsPerMinute = %d, want 12", config.RequestsPerMinute)
	}
	if config.Burst != 5 {
		t.Errorf("Burst = %d, want 5", config.Burst)
	}
	if config.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q, want %q", config.UserAgent, DefaultUserAgent)
	}
	if err := config.ValidateConfig(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vrcfetch.toml")
	content := `
user_agent = "tester/2.0 (tester@example.com)"
requests_per_minute = 6
burst = 2
auth_file = "/tmp/user-auth.json"

[log]
level = "debug"
debug = true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config := DefaultConfig()
	if err := config.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if config.UserAgent != "tester/2.0 (tester@example.com)" {
		t.Errorf("UserAgent = %q", config.UserAgent)
	}
	if config.RequestsPerMinute != 6 || config.Burst != 2 {
		t.Errorf("quota = %d/%d, want 6/2", config.RequestsPerMinute, config.Burst)
	}
	if config.AuthFile != "/tmp/user-auth.json" {
		t.Errorf("AuthFile = %q", config.AuthFile)
	}
	if config.LogLevel != "debug" || !config.EnableDebug {
		t.Errorf("log settings not applied: level=%q debug=%v", config.LogLevel, config.EnableDebug)
	}
	if config.DefaultTimeout != 30 {
		t.Errorf("unset timeout should keep default, got %d", config.DefaultTimeout)
	}
}

func TestConfig_LoadFileMissingIsIgnored(t *testing.T) {
	config := DefaultConfig()
	if err := config.LoadFile(filepath.Join(t.TempDir(), "absent.toml")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}

func TestConfig_LoadFileInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("user_agent = "), 0o600); err != nil {
		t.Fatal(err)
	}

	err := DefaultConfig().LoadFile(path)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "config_file" {
		t.Errorf("Field = %q, want config_file", validationErr.Field)
	}
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VRCFETCH_USER_AGENT", "env-agent/1.0")
	t.Setenv("VRCFETCH_REQUESTS_PER_MINUTE", "0")
	t.Setenv("VRCFETCH_BURST", "not-a-number")
	t.Setenv("VRCFETCH_QUIET", "1")

	config := DefaultConfig()
	config.LoadFromEnv()

	if config.UserAgent != "env-agent/1.0" {
		t.Errorf("UserAgent = %q", config.UserAgent)
	}
	if config.RequestsPerMinute != 0 {
		t.Errorf("RequestsPerMinute = %d, want 0", config.RequestsPerMinute)
	}
	if config.Burst != 5 {
		t.Errorf("invalid burst should be ignored, got %d", config.Burst)
	}
	if !config.QuietMode {
		t.Error("QuietMode should be enabled")
	}
}

func TestConfig_LoadFromEnvReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("VRCFETCH_AUTH_FILE=from-dotenv.json\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VRCFETCH_AUTH_FILE", "")
	os.Unsetenv("VRCFETCH_AUTH_FILE")

	config := DefaultConfig()
	config.LoadFromEnv()

	if config.AuthFile != "from-dotenv.json" {
		t.Errorf("AuthFile = %q, want from-dotenv.json", config.AuthFile)
	}
}

func TestConfig_ValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty_user_agent", func(c *Config) { c.UserAgent = "  " }, true},
		{"negative_rate", func(c *Config) { c.RequestsPerMinute = -1 }, true},
		{"zero_rate_disables", func(c *Config) { c.RequestsPerMinute = 0 }, false},
		{"zero_burst", func(c *Config) { c.Burst = 0 }, true},
		{"zero_timeout", func(c *Config) { c.DefaultTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			err := config.ValidateConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
