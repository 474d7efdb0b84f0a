// Package testutil provides shared test helpers for creating config files and dashboard fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// StorageKey is the storage key used by configs from SetupTestConfig.
const StorageKey = "linkboard"

// LegacyDocument is a stored dashboard in the oldest supported shape. It has top-level notes
// fields and size tags instead of pixel sizes.
const LegacyDocument = `{
  "title": "Home",
  "groups": [
    {"id": "g1", "name": "Daily", "size": "lg", "items": [
      {"id": "i1", "title": "Mail", "url": "https://mail.example.com", "type": "bogus"}
    ]}
  ],
  "notes": "buy milk",
  "notesPos": 0,
  "customReminders": [
    {"id": "r1", "title": "Tea", "at": "2025-03-01T09:30:00Z"}
  ]
}`

// DataDir returns the storage directory used by configs from SetupTestConfig.
func DataDir(tmpDir string) string {
	return filepath.Join(tmpDir, "data")
}

// SetupTestConfig creates a config file storing the dashboard under tmpDir with the file driver.
// Extra YAML is appended verbatim. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, extra ...string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(DataDir(tmpDir), 0755))

	configContent := fmt.Sprintf(`storage:
  driver: file
  directory: %s
  key: %s
reminders:
  highlight_attempts: 1
  highlight_interval: 1ms
`,
		DataDir(tmpDir),
		StorageKey,
	)
	for _, e := range extra {
		configContent += e
	}

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// WriteDocument stores contents as the dashboard document for a config from SetupTestConfig.
// Returns the path to the document file.
func WriteDocument(t *testing.T, tmpDir string, contents string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(DataDir(tmpDir), 0755))
	path := filepath.Join(DataDir(tmpDir), StorageKey+".json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

// ReadDocument returns the stored dashboard document for a config from SetupTestConfig.
func ReadDocument(t *testing.T, tmpDir string) []byte {
	t.Helper()

	contents, err := os.ReadFile(filepath.Join(DataDir(tmpDir), StorageKey+".json"))
	require.NoError(t, err)
	return contents
}
