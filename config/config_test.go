package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gammazero/nexus/v3/transport/serialize"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/wampkit/add2/runner"
)

const jsonConfig = `{
	"url": "ws://router.example:8000/ws",
	"realm": "com.myapp",
	"serialization": "msgpack",
	"authid": "jdoe",
	"secret": "squeemishosafradge",
	"response_timeout": "3s",
	"reconnect": true,
	"retry_interval": "250ms",
	"max_retries": 4,
	"log": {"level": "warn"}
}`

const tomlConfig = `
url = "ws://router.example:8000/ws"
realm = "com.myapp"
serialization = "msgpack"
authid = "jdoe"
secret = "squeemishosafradge"
response_timeout = "3s"
reconnect = true
retry_interval = "250ms"
max_retries = 4

[log]
level = "warn"
`

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "ws://localhost:8080/ws", cfg.URL)
	require.Equal(t, "realm1", cfg.Realm)

	rcfg, err := cfg.RunnerConfig(nil)
	require.NoError(t, err)
	require.Equal(t, serialize.JSON, rcfg.Serialization)
	require.Equal(t, 5*time.Second, rcfg.ResponseTimeout)
	require.Nil(t, rcfg.TLS)
	require.False(t, rcfg.Reconnect)
	require.False(t, rcfg.AbortOnRegisterFailure)

	_, err = runner.New(rcfg)
	require.NoError(t, err)
}

func TestLoadJSONAndTOMLAgree(t *testing.T) {
	fromJSON, err := Load(writeFile(t, "add2.json", jsonConfig))
	require.NoError(t, err)
	fromTOML, err := Load(writeFile(t, "add2.toml", tomlConfig))
	require.NoError(t, err)
	require.Equal(t, fromJSON, fromTOML)

	rcfg, err := fromTOML.RunnerConfig(nil)
	require.NoError(t, err)
	require.Equal(t, "ws://router.example:8000/ws", rcfg.URL)
	require.Equal(t, "com.myapp", rcfg.Realm)
	require.Equal(t, serialize.MSGPACK, rcfg.Serialization)
	require.Equal(t, 3*time.Second, rcfg.ResponseTimeout)
	require.Equal(t, 250*time.Millisecond, rcfg.RetryInterval)
	require.Equal(t, 4, rcfg.MaxRetries)
	require.True(t, rcfg.Reconnect)

	ccfg := fromTOML.ComponentConfig()
	require.Equal(t, "com.myapp", ccfg.Realm)
	require.Equal(t, "jdoe", ccfg.AuthID)
	require.Equal(t, "squeemishosafradge", ccfg.Secret)

	require.Equal(t, zerolog.WarnLevel, fromJSON.LogConfig().Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ADD2_REALM", "env.realm")
	t.Setenv("ADD2_SERIALIZATION", "cbor")
	t.Setenv("ADD2_LOG_LEVEL", "debug")
	t.Setenv("ADD2_ABORT_ON_REGISTER_FAILURE", "true")

	cfg, err := Load(writeFile(t, "add2.json", jsonConfig))
	require.NoError(t, err)
	require.Equal(t, "env.realm", cfg.Realm)
	require.Equal(t, "ws://router.example:8000/ws", cfg.URL, "unset env var must not override file")
	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.AbortOnRegisterFailure)

	rcfg, err := cfg.RunnerConfig(nil)
	require.NoError(t, err)
	require.Equal(t, serialize.CBOR, rcfg.Serialization)
	require.True(t, rcfg.AbortOnRegisterFailure)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = Load(writeFile(t, "bad.json", `{"url": `))
	require.ErrorContains(t, err, "bad.json")

	_, err = Load(writeFile(t, "bad.toml", `url = `))
	require.ErrorContains(t, err, "bad.toml")

	for name, content := range map[string]string{
		"serialization": `{"serialization": "xml"}`,
		"timeout":       `{"response_timeout": "soon"}`,
		"negative":      `{"retry_interval": "-1s"}`,
		"retries":       `{"max_retries": -2}`,
		"tls":           `{"tls": {"cert_file": "cert.pem"}}`,
		"level":         `{"log": {"level": "loud"}}`,
	} {
		_, err = Load(writeFile(t, name+".json", content))
		require.ErrorIs(t, err, ErrInvalidConfig, name)
	}
}

func TestTLSConfig(t *testing.T) {
	cfg := Default()
	tlscfg, err := cfg.TLSConfig()
	require.NoError(t, err)
	require.Nil(t, tlscfg)

	cfg.URL = "wss://router.example/ws"
	tlscfg, err = cfg.TLSConfig()
	require.NoError(t, err)
	require.NotNil(t, tlscfg)
	require.False(t, tlscfg.InsecureSkipVerify)

	cfg.TLS.SkipVerify = true
	tlscfg, err = cfg.TLSConfig()
	require.NoError(t, err)
	require.True(t, tlscfg.InsecureSkipVerify)

	cfg.TLS.CertFile = "no-such-cert.pem"
	cfg.TLS.KeyFile = "no-such-key.pem"
	_, err = cfg.TLSConfig()
	require.ErrorContains(t, err, "X509")
}

func TestLogConfig(t *testing.T) {
	cfg := Default()
	require.Equal(t, zerolog.InfoLevel, cfg.LogConfig().Level)

	cfg.Debug = true
	require.Equal(t, zerolog.DebugLevel, cfg.LogConfig().Level)

	cfg.Log.Path = "/var/log/add2.log"
	require.True(t, cfg.LogConfig().NoColor)
}
