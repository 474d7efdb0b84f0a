package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:    "file",
			Directory: filepath.Join("data", "linkboard"),
			Key:       "linkboard",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			Database: "linkboard",
			Username: "user",
		},
		Notifications: NotificationsConfig{
			Webhook: WebhookConfig{
				Permission:       "default",
				MaxRetryAttempts: 2,
				RetryDelay:       500 * time.Millisecond,
			},
		},
		Reminders: RemindersConfig{
			MaxTimerDelay:     (1<<31 - 1) * time.Millisecond,
			HighlightAttempts: 10,
			HighlightInterval: 200 * time.Millisecond,
			NotifyTimeout:     10 * time.Second,
		},
		Dashboard: DashboardConfig{
			DefaultTitle: "My Dashboard",
			MaxIconBytes: 512 * 1024,
		},
		LinkMeta: LinkMetaConfig{
			Timeout: 10 * time.Second,
		},
	}
}

func TestConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		env               map[string]string
		want              func() *Config
		wantErrorContains []string
	}{
		{
			name:          "no config file uses defaults",
			configContent: "",
			want:          defaultConfig,
		},
		{
			name: "valid config file with custom values",
			configContent: `storage:
  driver: mysql
  key: team
database:
  host: db.example.com
  port: 3307
  params:
    charset: utf8mb4
notifications:
  webhook:
    url: https://hooks.example.com/notify
    permission: granted
reminders:
  max_timer_delay: 1h
  highlight_attempts: 3
dashboard:
  default_title: Team Board
`,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Storage.Driver = "mysql"
				cfg.Storage.Key = "team"
				cfg.Database.Host = "db.example.com"
				cfg.Database.Port = 3307
				cfg.Database.Params = map[string]string{"charset": "utf8mb4"}
				cfg.Notifications.Webhook.URL = "https://hooks.example.com/notify"
				cfg.Notifications.Webhook.Permission = "granted"
				cfg.Reminders.MaxTimerDelay = time.Hour
				cfg.Reminders.HighlightAttempts = 3
				cfg.Dashboard.DefaultTitle = "Team Board"
				return cfg
			},
		},
		{
			name: "explicit config file path",
			configContent: `storage:
  driver: memory
`,
			useExplicitPath: true,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Storage.Driver = "memory"
				return cfg
			},
		},
		{
			name: "secrets from environment",
			configContent: `notifications:
  webhook:
    url: https://hooks.example.com/notify
`,
			env: map[string]string{
				"LINKBOARD_DB_PASSWORD":   "secret",
				"LINKBOARD_WEBHOOK_TOKEN": "token-1",
			},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Database.Password = "secret"
				cfg.Notifications.Webhook.URL = "https://hooks.example.com/notify"
				cfg.Notifications.Webhook.Token = "token-1"
				return cfg
			},
		},
		{
			name: "invalid YAML format",
			configContent: `storage:
  driver: file
  invalid yaml format here [[[
`,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "invalid values are reported together",
			configContent: `storage:
  driver: sqlite
notifications:
  webhook:
    url: not a url
    permission: maybe
`,
			wantErrorContains: []string{
				"invalid configuration",
				"driver must be one of [file mysql memory]",
				"url must be a valid URL",
				"notifications.webhook.permission must be one of default, granted or denied",
			},
		},
		{
			name: "file driver requires a directory",
			configContent: `storage:
  directory: ""
`,
			wantErrorContains: []string{
				"directory is a required field",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			tempDir := t.TempDir()

			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "linkboard.yml")
				require.NoError(t, os.WriteFile(configPath, []byte(tt.configContent), 0644))
			} else {
				if tt.configContent != "" {
					require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yml"), []byte(tt.configContent), 0644))
				}
				origDir, err := os.Getwd()
				require.NoError(t, err)
				require.NoError(t, os.Chdir(tempDir))
				t.Cleanup(func() { _ = os.Chdir(origDir) })
			}

			loader, err := NewConfigLoader(configPath)
			require.NoError(t, err)
			got, err := loader.Load()

			if len(tt.wantErrorContains) > 0 {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func TestConfigLoader_LoadMissingExplicitFile(t *testing.T) {
	loader, err := NewConfigLoader(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	_, err = loader.Load()
	assert.Error(t, err)
}
