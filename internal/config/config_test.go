package config

import (
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestLoad_defaultsAndEnv(t *testing.T) {
	t.Setenv("MARVEL_PUBLIC_KEY", "pub")
	t.Setenv("BROWSER_PAGE_SIZE", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port got %d, want 8000", cfg.Server.Port)
	}
	if cfg.Marvel.PublicKey != "pub" {
		t.Errorf("Marvel.PublicKey got %q, want %q", cfg.Marvel.PublicKey, "pub")
	}
	if cfg.Browser.PageSize != 50 {
		t.Errorf("Browser.PageSize got %d, want 50", cfg.Browser.PageSize)
	}
	if got := cfg.Themes["marvel"].Fallback; got != "/assets/images/marvel-placeholder.jpg" {
		t.Errorf("marvel fallback got %q", got)
	}
	if cfg.Redis.Addr() != "localhost:6379" {
		t.Errorf("Redis.Addr got %q", cfg.Redis.Addr())
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			HTTP:    HTTPConfig{MaxWorkers: 1, MaxRequestsPerSecond: 1},
			Browser: BrowserConfig{PageSize: 20},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero page size", func(c *Config) { c.Browser.PageSize = 0 }, true},
		{"negative workers", func(c *Config) { c.HTTP.MaxWorkers = -1 }, true},
		{"zero rps", func(c *Config) { c.HTTP.MaxRequestsPerSecond = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid()
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate got %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	t.Parallel()

	d := DatabaseConfig{Host: "db", Port: 5433, Name: "multiverse", User: "u", Password: "p"}
	want := "host=db port=5433 user=u password=p dbname=multiverse sslmode=disable"
	if got := d.DSN(); got != want {
		t.Fatalf("DSN got %q, want %q", got, want)
	}
}

func TestApplyLogLevel(t *testing.T) {
	prev := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(prev) })

	(&Config{Log: LogConfig{Level: "debug"}}).ApplyLogLevel()
	if log.GetLevel() != log.DebugLevel {
		t.Fatalf("level got %v, want debug", log.GetLevel())
	}

	(&Config{Log: LogConfig{Level: "loud"}}).ApplyLogLevel()
	if log.GetLevel() != log.InfoLevel {
		t.Fatalf("level got %v, want info", log.GetLevel())
	}
}
