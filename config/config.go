/*
Package config loads the add2 configuration from a JSON or TOML file and
from environment variables, and converts it into runner and component
configuration.

*/
package config

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gammazero/nexus/v3/stdlog"
	"github.com/gammazero/nexus/v3/transport/serialize"
	"github.com/joeshaw/envdecode"
	"github.com/rs/zerolog"

	"github.com/wampkit/add2/component"
	"github.com/wampkit/add2/logging"
	"github.com/wampkit/add2/runner"
)

// ErrInvalidConfig is returned, wrapped, by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the file and environment configuration.  Durations are strings
// in time.ParseDuration format.
type Config struct {
	URL           string `json:"url" toml:"url" env:"ADD2_URL"`
	Realm         string `json:"realm" toml:"realm" env:"ADD2_REALM"`
	Serialization string `json:"serialization" toml:"serialization" env:"ADD2_SERIALIZATION"`

	AuthID      string   `json:"authid" toml:"authid" env:"ADD2_AUTHID"`
	Secret      string   `json:"secret" toml:"secret" env:"ADD2_SECRET"`
	AuthMethods []string `json:"authmethods" toml:"authmethods" env:"ADD2_AUTHMETHODS"`

	ResponseTimeout string `json:"response_timeout" toml:"response_timeout" env:"ADD2_RESPONSE_TIMEOUT"`

	Reconnect     bool   `json:"reconnect" toml:"reconnect" env:"ADD2_RECONNECT"`
	RetryInterval string `json:"retry_interval" toml:"retry_interval" env:"ADD2_RETRY_INTERVAL"`
	MaxRetries    int    `json:"max_retries" toml:"max_retries" env:"ADD2_MAX_RETRIES"`

	AbortOnRegisterFailure bool `json:"abort_on_register_failure" toml:"abort_on_register_failure" env:"ADD2_ABORT_ON_REGISTER_FAILURE"`

	TLS struct {
		CertFile   string `json:"cert_file" toml:"cert_file" env:"ADD2_TLS_CERT_FILE"`
		KeyFile    string `json:"key_file" toml:"key_file" env:"ADD2_TLS_KEY_FILE"`
		SkipVerify bool   `json:"skip_verify" toml:"skip_verify" env:"ADD2_TLS_SKIP_VERIFY"`
	} `json:"tls" toml:"tls"`

	Log struct {
		Path    string `json:"path" toml:"path" env:"ADD2_LOG_PATH"`
		Level   string `json:"level" toml:"level" env:"ADD2_LOG_LEVEL"`
		JSON    bool   `json:"json" toml:"json" env:"ADD2_LOG_JSON"`
		NoColor bool   `json:"no_color" toml:"no_color" env:"ADD2_LOG_NOCOLOR"`
	} `json:"log" toml:"log"`

	Debug bool `json:"debug" toml:"debug" env:"ADD2_DEBUG"`

	// Router, when Listen is set, runs an embedded router serving Realm.
	Router struct {
		Listen string `json:"listen" toml:"listen" env:"ADD2_ROUTER_LISTEN"`
	} `json:"router" toml:"router"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		URL:             runner.DefaultURL,
		Realm:           runner.DefaultRealm,
		Serialization:   "json",
		ResponseTimeout: "5s",
		RetryInterval:   "2s",
	}
}

// Load reads the file at path over the defaults, applies environment
// overrides, and validates the result.  Files ending in .toml are decoded as
// TOML, anything else as JSON.  An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, c); err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err = json.Unmarshal(b, c); err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	err := envdecode.Decode(c)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("load environment: %w", err)
	}
	return nil
}

// Validate checks values that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	if _, err := c.serialization(); err != nil {
		return err
	}
	if _, err := parseDuration("response_timeout", c.ResponseTimeout); err != nil {
		return err
	}
	if _, err := parseDuration("retry_interval", c.RetryInterval); err != nil {
		return err
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max_retries must not be negative", ErrInvalidConfig)
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		return fmt.Errorf("%w: tls cert_file and key_file must be set together", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) serialization() (serialize.Serialization, error) {
	switch strings.ToLower(c.Serialization) {
	case "", "json":
		return serialize.JSON, nil
	case "msgpack":
		return serialize.MSGPACK, nil
	case "cbor":
		return serialize.CBOR, nil
	}
	return 0, fmt.Errorf("%w: serialization must be one of: json, msgpack, cbor", ErrInvalidConfig)
}

func parseDuration(name, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, name)
	}
	return d, nil
}

// TLSConfig returns the client TLS configuration, or nil when the URL does
// not use TLS and no client certificate is configured.
func (c *Config) TLSConfig() (*tls.Config, error) {
	secure := strings.HasPrefix(c.URL, "wss:") || strings.HasPrefix(c.URL, "https:") ||
		strings.HasPrefix(c.URL, "tcps:")
	if !secure && c.TLS.CertFile == "" && !c.TLS.SkipVerify {
		return nil, nil
	}
	tlscfg := &tls.Config{
		InsecureSkipVerify: c.TLS.SkipVerify,
	}
	if c.TLS.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.TLS.CertFile, c.TLS.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("error loading X509 key pair: %w", err)
		}
		tlscfg.Certificates = append(tlscfg.Certificates, cert)
	}
	return tlscfg, nil
}

// LogConfig returns the logging configuration.  The output writer is left to
// the caller.
func (c *Config) LogConfig() logging.Config {
	lvl, _ := logging.ParseLevel(c.Log.Level)
	if c.Debug && lvl > zerolog.DebugLevel {
		lvl = zerolog.DebugLevel
	}
	cfg := logging.DefaultConfig()
	cfg.Level = lvl
	cfg.JSON = c.Log.JSON
	cfg.NoColor = c.Log.NoColor || c.Log.Path != ""
	return cfg
}

// RunnerConfig returns the runner configuration.
func (c *Config) RunnerConfig(logger stdlog.StdLog) (runner.Config, error) {
	ser, err := c.serialization()
	if err != nil {
		return runner.Config{}, err
	}
	rspTimeout, err := parseDuration("response_timeout", c.ResponseTimeout)
	if err != nil {
		return runner.Config{}, err
	}
	retry, err := parseDuration("retry_interval", c.RetryInterval)
	if err != nil {
		return runner.Config{}, err
	}
	tlscfg, err := c.TLSConfig()
	if err != nil {
		return runner.Config{}, err
	}
	return runner.Config{
		URL:                    c.URL,
		Realm:                  c.Realm,
		Serialization:          ser,
		TLS:                    tlscfg,
		ResponseTimeout:        rspTimeout,
		Reconnect:              c.Reconnect,
		RetryInterval:          retry,
		MaxRetries:             c.MaxRetries,
		AbortOnRegisterFailure: c.AbortOnRegisterFailure,
		Logger:                 logger,
		Debug:                  c.Debug,
	}, nil
}

// ComponentConfig returns the configuration handed to each AppSession.
func (c *Config) ComponentConfig() component.Config {
	return component.Config{
		Realm:       c.Realm,
		AuthID:      c.AuthID,
		Secret:      c.Secret,
		AuthMethods: c.AuthMethods,
	}
}
