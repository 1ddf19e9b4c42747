package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atlanticdynamic/scribe/internal/config"
	"github.com/atlanticdynamic/scribe/internal/config/errz"
	"github.com/atlanticdynamic/scribe/internal/config/logs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("testdata", "full.toml"))
	require.NoError(t, err)

	assert.Equal(t, config.VersionLatest, cfg.Version)
	assert.Equal(t, logs.FormatJSON, cfg.Logging.Format)
	assert.Equal(t, logs.LevelDebug, cfg.Logging.Level)
	assert.Equal(t, "stdout", cfg.Logging.Output)

	assert.Equal(t, "scripts", cfg.Environment.ExtensionsDir)
	assert.Equal(t, []string{"https://example.com/helpers.star"}, cfg.Environment.Extensions)
	assert.False(t, cfg.Environment.PerformanceStats)
	assert.Equal(t, uint64(1_000_000), cfg.Environment.MaxSteps)

	assert.True(t, cfg.Console.Echo)
	assert.False(t, cfg.Console.Color)
	assert.Equal(t, "scribe> ", cfg.Console.Prompt)

	assert.True(t, cfg.Control.Enabled())
	assert.Equal(t, "127.0.0.1:8765", cfg.Control.Listen)
	assert.Equal(t, "/control", cfg.Control.Path)
}

func TestLoadFile_Interpolation(t *testing.T) {
	t.Setenv("SCRIBE_TEST_EXT_DIR", "/opt/scribe/ext")

	cfg, err := LoadFile(filepath.Join("testdata", "full.toml"))
	require.NoError(t, err)
	assert.Equal(t, "/opt/scribe/ext", cfg.Environment.ExtensionsDir)
}

func TestNewLoaderFromFilePath_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewLoaderFromFilePath(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrFailedToLoadConfig)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: v1"), 0o600))
	_, err = NewLoaderFromFilePath(path)
	assert.ErrorIs(t, err, ErrUnsupportedExtension)
}

func TestTomlLoader_Load(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  string
		wantErr error
		check   func(t *testing.T, cfg *config.Config)
	}{
		{
			name:   "defaults when sections are absent",
			source: `version = "v1"`,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, logs.FormatText, cfg.Logging.Format)
				assert.Equal(t, logs.LevelInfo, cfg.Logging.Level)
				assert.Equal(t, logs.DefaultOutput, cfg.Logging.Output)
				assert.Equal(t, config.DefaultExtensionGlob, cfg.Environment.ExtensionGlob)
				assert.True(t, cfg.Environment.PerformanceStats)
				assert.True(t, cfg.Console.Color)
				assert.Equal(t, config.DefaultPrompt, cfg.Console.Prompt)
				assert.False(t, cfg.Control.Enabled())
				assert.Equal(t, config.DefaultControlPath, cfg.Control.Path)
			},
		},
		{
			name:   "missing version means latest",
			source: "[console]\necho = true\n",
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, config.VersionLatest, cfg.Version)
				assert.True(t, cfg.Console.Echo)
			},
		},
		{
			name:    "unsupported version",
			source:  `version = "v2"`,
			wantErr: ErrUnsupportedConfigVer,
		},
		{
			name:    "malformed toml",
			source:  "version = ",
			wantErr: ErrParseToml,
		},
		{
			name:    "unknown field",
			source:  "[console]\nbell = true\n",
			wantErr: ErrUnknownField,
		},
		{
			name:    "invalid level",
			source:  "[logging]\nlevel = \"chatty\"\n",
			wantErr: logs.ErrInvalidLogLevel,
		},
		{
			name:    "invalid listen address",
			source:  "[control]\nlisten = \"not-an-address\"\n",
			wantErr: errz.ErrInvalidAddress,
		},
		{
			name:    "missing variable without default",
			source:  "[control]\nlisten = \"${SCRIBE_SURELY_UNSET_VAR}\"\n",
			wantErr: ErrInterpolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := NewTomlLoader([]byte(tt.source)).Load()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestNewLoaderFromReader(t *testing.T) {
	t.Parallel()

	l, err := NewLoaderFromReader(strings.NewReader(`version = "v1"`))
	require.NoError(t, err)
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, config.VersionLatest, cfg.Version)

	_, err = NewLoaderFromReader(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoSourceProvided)
}

func TestDefault(t *testing.T) {
	t.Setenv("SCRIBE_EXTENSIONS", "/etc/scribe/ext")

	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "/etc/scribe/ext", cfg.Environment.ExtensionsDir)
}
