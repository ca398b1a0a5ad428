package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if cfg.Storage.Driver != DriverFile {
		t.Errorf("Expected file driver, got %s", cfg.Storage.Driver)
	}
	if cfg.Storage.DataDir != "./data" {
		t.Errorf("Expected data dir ./data, got %s", cfg.Storage.DataDir)
	}
	if cfg.Scheduler.Interval != 30*time.Second {
		t.Errorf("Expected reminder interval 30s, got %s", cfg.Scheduler.Interval)
	}
	if cfg.Scheduler.Timezone != "Asia/Tehran" {
		t.Errorf("Expected timezone Asia/Tehran, got %s", cfg.Scheduler.Timezone)
	}
	if cfg.AI.TextModel != "gemini-2.5-flash" {
		t.Errorf("Expected default text model, got %s", cfg.AI.TextModel)
	}
	if cfg.Office.ActiveUserID != "admin-1" {
		t.Errorf("Expected active user admin-1, got %s", cfg.Office.ActiveUserID)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	clearConfigEnvVars()
	os.Setenv("PORT", "9090")
	os.Setenv("ENV", "production")
	os.Setenv("STORAGE_DRIVER", "Postgres")
	os.Setenv("DB_HOST", "db")
	os.Setenv("DB_PASSWORD", "secret")
	os.Setenv("DB_POOL_MIN", "2")
	os.Setenv("DB_POOL_MAX", "8")
	os.Setenv("REMINDER_INTERVAL", "1m")
	os.Setenv("TIMEZONE", "UTC")
	os.Setenv("CORS_ORIGINS", "https://app.example.com")
	defer clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Storage.Driver != DriverPostgres {
		t.Errorf("Expected postgres driver, got %s", cfg.Storage.Driver)
	}
	if cfg.Database.Host != "db" {
		t.Errorf("Expected host db, got %s", cfg.Database.Host)
	}
	if cfg.Database.PoolMax != 8 {
		t.Errorf("Expected pool max 8, got %d", cfg.Database.PoolMax)
	}
	if cfg.Scheduler.Interval != time.Minute {
		t.Errorf("Expected 1m interval, got %s", cfg.Scheduler.Interval)
	}
	if cfg.Scheduler.Location() != time.UTC {
		t.Errorf("Expected UTC location")
	}
	if len(cfg.CORS.Origins) != 1 || cfg.CORS.Origins[0] != "https://app.example.com" {
		t.Errorf("Unexpected CORS origins %v", cfg.CORS.Origins)
	}
}

func TestLoad_PostgresWithoutPassword(t *testing.T) {
	clearConfigEnvVars()
	os.Setenv("STORAGE_DRIVER", "postgres")
	defer clearConfigEnvVars()

	_, err := Load()
	if err == nil {
		t.Error("Expected error when DB_PASSWORD is missing for postgres driver")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080", Env: "development"},
			Storage:   StorageConfig{Driver: DriverMemory},
			Database:  DatabaseConfig{Host: "localhost", Port: "5432", Name: "estatedesk", User: "postgres", Password: "postgres", PoolMin: 1, PoolMax: 4},
			Redis:     RedisConfig{Addr: "localhost:6379"},
			CORS:      CORSConfig{Origins: []string{"http://localhost:3000"}},
			Scheduler: SchedulerConfig{Interval: time.Second, Timezone: "UTC"},
			AI:        AIConfig{Timeout: time.Second},
			Office:    OfficeConfig{ActiveUserID: "admin-1"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid memory config", mutate: func(c *Config) {}, wantErr: false},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "sqlite" }, wantErr: true},
		{name: "file driver without dir", mutate: func(c *Config) { c.Storage.Driver = DriverFile }, wantErr: true},
		{name: "postgres pool min above max", mutate: func(c *Config) {
			c.Storage.Driver = DriverPostgres
			c.Database.PoolMin = 10
		}, wantErr: true},
		{name: "postgres valid", mutate: func(c *Config) { c.Storage.Driver = DriverPostgres }, wantErr: false},
		{name: "redis without addr", mutate: func(c *Config) {
			c.Storage.Driver = DriverRedis
			c.Redis.Addr = ""
		}, wantErr: true},
		{name: "missing CORS origins", mutate: func(c *Config) { c.CORS.Origins = nil }, wantErr: true},
		{name: "zero interval", mutate: func(c *Config) { c.Scheduler.Interval = 0 }, wantErr: true},
		{name: "bad timezone", mutate: func(c *Config) { c.Scheduler.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "zero AI timeout", mutate: func(c *Config) { c.AI.Timeout = 0 }, wantErr: true},
		{name: "missing active user", mutate: func(c *Config) { c.Office.ActiveUserID = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "single origin", input: "http://localhost:3000", expect: []string{"http://localhost:3000"}},
		{name: "origins with spaces", input: " http://a , http://b ", expect: []string{"http://a", "http://b"}},
		{name: "empty string", input: "", expect: []string{}},
		{name: "only commas", input: ",,,", expect: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseOrigins(tt.input)
			if len(result) != len(tt.expect) {
				t.Fatalf("Expected %d origins, got %d", len(tt.expect), len(result))
			}
			for i, origin := range result {
				if origin != tt.expect[i] {
					t.Errorf("Expected origin %s at index %d, got %s", tt.expect[i], i, origin)
				}
			}
		})
	}
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "STORAGE_DRIVER", "DATA_DIR",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "DB_POOL_MIN", "DB_POOL_MAX",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_PREFIX",
		"CORS_ORIGINS", "REMINDER_INTERVAL", "TIMEZONE",
		"AI_TIMEOUT", "AI_TEXT_MODEL", "AI_IMAGE_MODEL", "ACTIVE_USER_ID",
	} {
		os.Unsetenv(key)
	}
}
