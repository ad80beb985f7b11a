// This test file verifies the configuration loading logic using Viper.

package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults when no config file", func(t *testing.T) {
		// Ensure no config file exists for this test
		os.Remove("config.yml")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		// Check if default values are set
		if cfg.Port != 44001 {
			t.Errorf("Expected default port 44001, got %d", cfg.Port)
		}
		if cfg.PollInterval != 2 {
			t.Errorf("Expected default poll interval 2, got %d", cfg.PollInterval)
		}
		if cfg.Database.Path != "./sltk.db" {
			t.Errorf("Expected default db path './sltk.db', got '%s'", cfg.Database.Path)
		}
		if cfg.Dropbox.Root != "/sltk/dropbox" {
			t.Errorf("Expected default dropbox root '/sltk/dropbox', got '%s'", cfg.Dropbox.Root)
		}
		if cfg.History.DefaultLimit != 50 {
			t.Errorf("Expected default history limit 50, got %d", cfg.History.DefaultLimit)
		}
	})

	t.Run("Loads from config file", func(t *testing.T) {
		// Create a temporary config file for this test
		configContent := `
port: 9999
poll_interval: 1
database:
  path: "/tmp/test.db"
dropbox:
  root: "/tmp/test-dropbox"
unknown_setting: "should be ignored"
`
		// Create the config file in the current directory so Viper can find it.
		// Note: `t.TempDir()` is not used here because Viper looks in the CWD.
		configPath := "config.yml"
		if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
			t.Fatalf("Failed to write test config file: %v", err)
		}
		// Clean up the file after the test
		defer os.Remove(configPath)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		// Check if values from the file were loaded
		if cfg.Port != 9999 {
			t.Errorf("Expected port 9999, got %d", cfg.Port)
		}
		if cfg.PollInterval != 1 {
			t.Errorf("Expected poll interval 1, got %d", cfg.PollInterval)
		}
		if cfg.Database.Path != "/tmp/test.db" {
			t.Errorf("Expected db path '/tmp/test.db', got '%s'", cfg.Database.Path)
		}
		if cfg.Dropbox.Root != "/tmp/test-dropbox" {
			t.Errorf("Expected dropbox root '/tmp/test-dropbox', got '%s'", cfg.Dropbox.Root)
		}
		if cfg.HealthProbe != 30 {
			t.Errorf("Expected default health interval of 30, got %d", cfg.HealthProbe)
		}
	})
}
