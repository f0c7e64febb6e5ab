package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"github.com/ha1tch/litebird/parser"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "litebird.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, parser.DefaultMaxDepth, cfg.MaxDepth)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
max_depth: 64
stop_on_error: true
log_level: debug
verify_sqlite: true
`)
	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, Config{MaxDepth: 64, StopOnError: true, LogLevel: "debug", VerifySQLite: true}, cfg)
	assert.Equal(t, hclog.Debug, cfg.Level())
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Load(writeConfig(t, "stop_on_error: true\n"))
	assert.NoError(t, err)
	assert.Equal(t, parser.DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, hclog.Warn, cfg.Level())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "max_dept: 3\n"},
		{"negative depth", "max_depth: -1\n"},
		{"bad level", "log_level: loud\n"},
		{"not yaml", "max_depth: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestParserOptions(t *testing.T) {
	logger := hclog.NewNullLogger()
	opts := Config{MaxDepth: 10, StopOnError: true}.ParserOptions(logger)
	assert.Equal(t, 10, opts.MaxDepth)
	assert.True(t, opts.StopOnError)
	assert.Equal(t, logger, opts.Logger)
}
