package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yuzeguitarist/qrgen/internal/app"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "qrgen.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, app.DefaultListen, cfg.Listen)
	assert.Equal(t, app.DefaultQRDir, cfg.QRDir)
	assert.Equal(t, 15, cfg.QR.BoxSize)
	assert.Equal(t, 5, cfg.QR.Border)
	assert.Equal(t, "highest", cfg.QR.Level)
	assert.Equal(t, 10, cfg.Names.StemLength)
	assert.False(t, cfg.Names.Unique)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestPrecedence(t *testing.T) {
	path := writeConfig(t, `
listen: "0.0.0.0:9000"
qr_dir: /srv/qr
qr:
  box_size: 8
log:
  level: debug
`)
	t.Setenv("QRGEN_QR_DIR", "/env/qr")
	t.Setenv("QRGEN_LOG_LEVEL", "warn")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("listen", "", "")
	fs.String("log-level", "", "")
	require.NoError(t, fs.Parse([]string{"--log-level", "error"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Listen, "file beats default, unset flag does not override")
	assert.Equal(t, "/env/qr", cfg.QRDir, "env beats file")
	assert.Equal(t, "error", cfg.Log.Level, "flag beats env")
	assert.Equal(t, 8, cfg.QR.BoxSize)
	assert.Equal(t, 5, cfg.QR.Border)
}

func TestValidate(t *testing.T) {
	path := writeConfig(t, `
qr:
  box_size: 0
  level: ultra
names:
  stem_length: 0
log:
  format: xml
`)
	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error correction level")
	assert.Contains(t, err.Error(), "stem_length")
	assert.Contains(t, err.Error(), "log.format")
}

func TestMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestYAMLMasksSecrets(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	cfg.CSRFKey = "0123456789abcdef"

	b, err := cfg.YAML()
	require.NoError(t, err)
	assert.NotContains(t, string(b), "0123456789abcdef")

	var back Config
	require.NoError(t, yaml.Unmarshal(b, &back))
	assert.Equal(t, cfg.Listen, back.Listen)
	assert.Equal(t, cfg.QR, back.QR)
	assert.Equal(t, "0123456789abcdef", cfg.CSRFKey, "original untouched")
}
