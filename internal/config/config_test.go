package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	werrors "git.home.luguber.info/inful/ws/internal/errors"
)

// isolate points HOME at an empty directory and clears WS_* overrides.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{EnvThreads, EnvBuildCommand, EnvGraphCommand, EnvLogLevel, EnvLogFormat} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_NoFileGivesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, cfg.Path)
	assert.Equal(t, DefaultBuildCommand, cfg.Build.Command)
	assert.Equal(t, 5, cfg.Build.Threads)
	assert.Equal(t, 10, cfg.Run.Threads)
	assert.Equal(t, "lightblue", cfg.Graph.PaintColor)
	assert.Equal(t, "dot -Tsvg -O", cfg.Graph.Renderer)
	assert.Equal(t, map[string]string{"dra": "Dra", "adn": "Adn"}, cfg.Graph.Recipes)
	assert.Equal(t, "7d", cfg.Logs.Retention)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_WorkspaceFileWinsOverHome(t *testing.T) {
	isolate(t)
	home := os.Getenv("HOME")
	root := t.TempDir()
	writeFile(t, filepath.Join(home, ".config", "ws", "config.yaml"), "build:\n  threads: 2\n")
	writeFile(t, filepath.Join(root, WorkspaceFile), "build:\n  threads: 3\n")

	cfg, err := Load("", root)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Build.Threads)
	assert.Equal(t, filepath.Join(root, WorkspaceFile), cfg.Path)

	cfg, err = Load("", "")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Build.Threads, "home file is the fallback")
}

func TestLoad_ExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, `
build:
  command: "build release"
graph:
  paint_color: red
  recipes:
    core: Core
`)

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "build release", cfg.Build.Command)
	assert.Equal(t, "red", cfg.Graph.PaintColor)
	assert.Equal(t, map[string]string{"core": "Core"}, cfg.Graph.Recipes)
}

func TestLoad_MissingExplicitPathIsConfigError(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.Error(t, err)
	assert.True(t, werrors.IsCategory(err, werrors.CategoryConfig))
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "build:\n  thread: 3\n")

	_, err := Load(path, "")
	require.Error(t, err)
	assert.True(t, werrors.IsCategory(err, werrors.CategoryConfig))
}

func TestLoad_EnvExpansionAndOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("WS_TEST_TARGET", "release")
	t.Setenv(EnvThreads, "7")
	t.Setenv(EnvLogFormat, "json")
	path := filepath.Join(t.TempDir(), "ws.yaml")
	writeFile(t, path, "build:\n  command: \"build ${WS_TEST_TARGET}\"\n  threads: 2\n")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "build release", cfg.Build.Command)
	assert.Equal(t, 7, cfg.Build.Threads)
	assert.Equal(t, 7, cfg.Run.Threads)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_InvalidThreadsOverride(t *testing.T) {
	isolate(t)
	t.Setenv(EnvThreads, "many")

	_, err := Load("", "")
	require.Error(t, err)
	assert.True(t, werrors.IsCategory(err, werrors.CategoryValidation))
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".env"), "WS_DOTENV_ONLY=from-file\nWS_DOTENV_SHARED=from-file\n")
	t.Setenv("WS_DOTENV_SHARED", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("WS_DOTENV_ONLY") })

	_, err := Load("", root)
	require.NoError(t, err)
	assert.Equal(t, "from-file", os.Getenv("WS_DOTENV_ONLY"))
	assert.Equal(t, "from-env", os.Getenv("WS_DOTENV_SHARED"))
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte("run:\n  threads: 1\nlogs:\n  retention: 2w\n"), &cfg))
	require.NoError(t, ApplyDefaults(&cfg))

	assert.Equal(t, 1, cfg.Run.Threads)
	assert.Equal(t, "2w", cfg.Logs.Retention)
	assert.Equal(t, 5, cfg.Build.Threads)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative build threads", func(c *Config) { c.Build.Threads = -1 }},
		{"zero run threads", func(c *Config) { c.Run.Threads = 0 }},
		{"reserved recipe", func(c *Config) { c.Graph.Recipes = map[string]string{"all": "X"} }},
		{"bad recipe name", func(c *Config) { c.Graph.Recipes = map[string]string{"a b": "X"} }},
		{"empty prefix", func(c *Config) { c.Graph.Recipes = map[string]string{"x": ""} }},
		{"bad retention", func(c *Config) { c.Logs.Retention = "soon" }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, werrors.IsCategory(err, werrors.CategoryValidation))
		})
	}

	assert.NoError(t, Validate(Default()))
}

func TestSave_RoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "sub", "ws.yaml")
	cfg := Default()
	cfg.Build.Threads = 9

	require.NoError(t, Save(cfg, path))
	loaded, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 9, loaded.Build.Threads)
	assert.Equal(t, cfg.Graph, loaded.Graph)
}

func TestRetention(t *testing.T) {
	d, err := Default().Retention()
	require.NoError(t, err)
	assert.Equal(t, "168h0m0s", d.String())
}

func TestNormalizeLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" WARNING "))
	assert.Equal(t, LogLevel(""), NormalizeLogLevel("trace"))
	assert.Equal(t, "DEBUG", LogLevelDebug.SlogLevel().String())
	assert.Equal(t, "INFO", LogLevel("").SlogLevel().String())
}
