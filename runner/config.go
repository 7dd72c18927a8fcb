package runner

import (
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/gammazero/nexus/v3/stdlog"
	"github.com/gammazero/nexus/v3/transport/serialize"
	"github.com/gammazero/nexus/v3/wamp"
)

const (
	// DefaultURL is the router the runner connects to when none is given.
	DefaultURL = "ws://localhost:8080/ws"
	// DefaultRealm is the realm joined when neither the runner configuration
	// nor the session handler names one.
	DefaultRealm = "realm1"

	defaultResponseTimeout = 5 * time.Second
	defaultRetryInterval   = 2 * time.Second
)

// Config configures a Runner.
type Config struct {
	// URL of the router.  The scheme selects the transport: ws, wss, http,
	// https, tcp, tcps, or unix.
	URL string

	// Realm is joined when the handler's JoinRequest does not name one.
	Realm string

	// Serialization is JSON (the zero value), MSGPACK, or CBOR.
	Serialization serialize.Serialization

	// TLS, if not nil, is used for wss and tcps connections.
	TLS *tls.Config

	// ResponseTimeout bounds how long the client waits for router replies.
	ResponseTimeout time.Duration

	// HelloDetails are sent in HELLO in addition to authid and authmethods.
	HelloDetails wamp.Dict

	// Reconnect starts a new connection attempt, with a new handler, after
	// a session ends or fails to connect.
	Reconnect bool
	// RetryInterval is the delay between connection attempts.
	RetryInterval time.Duration
	// MaxRetries limits consecutive failed connection attempts.  Zero means
	// no limit.
	MaxRetries int

	// AbortOnRegisterFailure leaves the session if any registration made
	// during join failed.  By default the session stays joined.
	AbortOnRegisterFailure bool

	// Logger is used by the runner and the nexus client.
	Logger stdlog.StdLog

	// Debug enables debug logging in the runner and the nexus client.
	Debug bool

	// Dial connects and joins a session.  Defaults to DialNet.
	Dial DialFunc
}

func (c *Config) setDefaults() {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Realm == "" {
		c.Realm = DefaultRealm
	}
	if c.ResponseTimeout == 0 {
		c.ResponseTimeout = defaultResponseTimeout
	}
	if c.RetryInterval == 0 {
		c.RetryInterval = defaultRetryInterval
	}
	if c.Dial == nil {
		c.Dial = DialNet
	}
}

func (c *Config) validate(customDial bool) error {
	if c.ResponseTimeout < 0 {
		return fmt.Errorf("negative response timeout: %s", c.ResponseTimeout)
	}
	if c.RetryInterval < 0 {
		return fmt.Errorf("negative retry interval: %s", c.RetryInterval)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("negative max retries: %d", c.MaxRetries)
	}
	if customDial {
		return nil
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid router url: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss", "http", "https", "tcp", "tcps", "unix":
	default:
		return fmt.Errorf("unsupported router url scheme %q", u.Scheme)
	}
	return nil
}
