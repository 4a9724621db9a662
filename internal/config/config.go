package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/yuzeguitarist/qrgen/internal/app"
	"github.com/yuzeguitarist/qrgen/internal/artifact"
	"github.com/yuzeguitarist/qrgen/internal/qr"
)

const EnvPrefix = "QRGEN"

type Config struct {
	Listen     string      `mapstructure:"listen" yaml:"listen"`
	QRDir      string      `mapstructure:"qr_dir" yaml:"qr_dir"`
	QR         QRConfig    `mapstructure:"qr" yaml:"qr"`
	Names      NamesConfig `mapstructure:"names" yaml:"names"`
	SessionKey string      `mapstructure:"session_key" yaml:"session_key,omitempty"`
	CSRFKey    string      `mapstructure:"csrf_key" yaml:"csrf_key,omitempty"`
	AuditLog   string      `mapstructure:"audit_log" yaml:"audit_log,omitempty"`
	Log        LogConfig   `mapstructure:"log" yaml:"log"`
}

type QRConfig struct {
	BoxSize int    `mapstructure:"box_size" yaml:"box_size"`
	Border  int    `mapstructure:"border" yaml:"border"`
	Level   string `mapstructure:"level" yaml:"level"`
}

type NamesConfig struct {
	StemLength int  `mapstructure:"stem_length" yaml:"stem_length"`
	Unique     bool `mapstructure:"unique" yaml:"unique"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"listen":     "listen",
	"qr-dir":     "qr_dir",
	"unique":     "names.unique",
	"csrf-key":   "csrf_key",
	"audit-log":  "audit_log",
	"log-level":  "log.level",
	"log-format": "log.format",
}

func setDefaults(v *viper.Viper) {
	d := qr.DefaultOptions()
	v.SetDefault("listen", app.DefaultListen)
	v.SetDefault("qr_dir", app.DefaultQRDir)
	v.SetDefault("qr.box_size", d.BoxSize)
	v.SetDefault("qr.border", d.Border)
	v.SetDefault("qr.level", "highest")
	v.SetDefault("names.stem_length", artifact.DefaultStemLength)
	v.SetDefault("names.unique", false)
	v.SetDefault("session_key", "")
	v.SetDefault("csrf_key", "")
	v.SetDefault("audit_log", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load layers defaults, the optional YAML file at path, QRGEN_* environment
// variables and any flags in fs that were set explicitly.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Listen) == "" {
		errs = append(errs, errors.New("listen required"))
	}
	if strings.TrimSpace(c.QRDir) == "" {
		errs = append(errs, errors.New("qr_dir required"))
	}
	if _, err := c.QROptions(); err != nil {
		errs = append(errs, err)
	}
	if c.Names.StemLength < 1 {
		errs = append(errs, fmt.Errorf("names.stem_length must be positive, got %d", c.Names.StemLength))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func (c *Config) QROptions() (qr.Options, error) {
	level, err := qr.ParseLevel(c.QR.Level)
	if err != nil {
		return qr.Options{}, err
	}
	o := qr.Options{BoxSize: c.QR.BoxSize, Border: c.QR.Border, Level: level}
	if o.BoxSize < 1 {
		return qr.Options{}, fmt.Errorf("qr.box_size must be positive, got %d", o.BoxSize)
	}
	if o.Border < 0 {
		return qr.Options{}, fmt.Errorf("qr.border must not be negative, got %d", o.Border)
	}
	return o, nil
}

func (c *Config) Namer() artifact.Namer {
	return artifact.Namer{StemLength: c.Names.StemLength, Unique: c.Names.Unique}
}

// YAML renders the configuration with secrets masked.
func (c *Config) YAML() ([]byte, error) {
	cp := *c
	cp.SessionKey = app.Mask(cp.SessionKey)
	cp.CSRFKey = app.Mask(cp.CSRFKey)
	return yaml.Marshal(&cp)
}
