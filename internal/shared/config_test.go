package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.API.BaseURL != "https://musics-system-2.onrender.com" {
		t.Errorf("base url = %q", config.API.BaseURL)
	}
	if config.API.CatalogCacheMinutes != 5 {
		t.Errorf("catalog cache minutes = %d, want 5", config.API.CatalogCacheMinutes)
	}
	if config.API.UsersCacheMinutes != 10 {
		t.Errorf("users cache minutes = %d, want 10", config.API.UsersCacheMinutes)
	}
	if config.Player.Command != "mpv" {
		t.Errorf("player command = %q, want mpv", config.Player.Command)
	}
	if config.Player.Volume != 0.7 {
		t.Errorf("player volume = %v, want 0.7", config.Player.Volume)
	}
	if config.Storage.Path != "" {
		t.Errorf("storage path should default to empty, got %q", config.Storage.Path)
	}
}

func TestCacheTTLs(t *testing.T) {
	t.Run("ConfiguredMinutes", func(t *testing.T) {
		api := APIConfig{CatalogCacheMinutes: 2, UsersCacheMinutes: 30}
		if got := api.CatalogTTL(); got != 2*time.Minute {
			t.Errorf("catalog ttl = %v", got)
		}
		if got := api.UsersTTL(); got != 30*time.Minute {
			t.Errorf("users ttl = %v", got)
		}
	})

	t.Run("ZeroFallsBackToDefaults", func(t *testing.T) {
		var api APIConfig
		if got := api.CatalogTTL(); got != 5*time.Minute {
			t.Errorf("catalog ttl = %v, want 5m", got)
		}
		if got := api.UsersTTL(); got != 10*time.Minute {
			t.Errorf("users ttl = %v, want 10m", got)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("ParsesFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[api]
base_url = "http://localhost:9999"
catalog_cache_minutes = 1

[player]
command = "ffplay"
volume = 0.4
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if config.API.BaseURL != "http://localhost:9999" {
			t.Errorf("base url = %q", config.API.BaseURL)
		}
		if config.Player.Command != "ffplay" {
			t.Errorf("player command = %q", config.Player.Command)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
			t.Error("expected an error for a missing file")
		}
	})

	t.Run("MalformedFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		os.WriteFile(path, []byte("[api\nbase_url"), 0644)

		if _, err := LoadConfig(path); err == nil {
			t.Error("expected an error for malformed TOML")
		}
	})

	t.Run("EnvironmentWins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		os.WriteFile(path, []byte("[api]\nbase_url = \"http://from-file\"\n"), 0644)
		t.Setenv("TUNEDECK_API_URL", "http://from-env")

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if config.API.BaseURL != "http://from-env" {
			t.Errorf("base url = %q, environment should override the file", config.API.BaseURL)
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	t.Run("WritesExampleConfig", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("created config did not parse: %v", err)
		}
		if config.API.BaseURL == "" {
			t.Error("created config should carry the default base url")
		}
	})

	t.Run("RefusesToOverwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		os.WriteFile(path, []byte("# mine"), 0644)

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected an error when the file already exists")
		}
	})
}
