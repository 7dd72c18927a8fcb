/*
Package runner connects session handlers to a WAMP router and drives them
through the session lifecycle: connect, challenge, join, leave, disconnect.

The WAMP protocol itself is handled by the nexus client.  A Runner creates a
new component.Handler for every connection attempt, so no state is carried
from one session to the next.

*/
package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gammazero/nexus/v3/client"
	"github.com/gammazero/nexus/v3/stdlog"
	"github.com/gammazero/nexus/v3/wamp"

	"github.com/wampkit/add2/component"
)

var (
	// ErrConnect is returned, wrapped, when the router cannot be reached or
	// the realm cannot be joined.
	ErrConnect = errors.New("connect failed")

	// ErrRegistration is returned, wrapped, when AbortOnRegisterFailure is
	// set and a handler reports a failed registration.
	ErrRegistration = errors.New("registration failed")

	// ErrRetriesExhausted is returned, wrapped, when MaxRetries consecutive
	// attempts have failed.
	ErrRetriesExhausted = errors.New("connection retries exhausted")
)

// Factory creates the handler for one connection attempt.
type Factory func() component.Handler

// Runner drives session handlers against a router.
type Runner struct {
	cfg   Config
	log   stdlog.StdLog
	state atomic.Int32
}

// New creates a Runner.  Missing fields in cfg are set to their defaults.
func New(cfg Config) (*Runner, error) {
	customDial := cfg.Dial != nil
	cfg.setDefaults()
	if err := cfg.validate(customDial); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Runner{
		cfg: cfg,
		log: cfg.Logger,
	}, nil
}

// State returns the lifecycle state of the current connection attempt.
func (r *Runner) State() State { return State(r.state.Load()) }

func (r *Runner) setState(s State) {
	r.state.Store(int32(s))
	if r.cfg.Debug {
		r.log.Println("runner state:", s)
	}
}

// Run connects a handler from newHandler and blocks until ctx is canceled or
// the session ends.  With Reconnect set, a new handler is created and
// connected after every session end or failed attempt, until ctx is canceled,
// MaxRetries consecutive attempts fail, or a registration failure aborts the
// session.
//
// Canceling ctx is a normal shutdown and Run returns nil.
func (r *Runner) Run(ctx context.Context, newHandler Factory) error {
	var failures int
	for {
		joined, err := r.runSession(ctx, newHandler())
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrRegistration) || !r.cfg.Reconnect {
			return err
		}
		if joined {
			failures = 0
		} else {
			failures++
			r.log.Println("connection attempt failed:", err)
			if r.cfg.MaxRetries != 0 && failures >= r.cfg.MaxRetries {
				return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, failures, err)
			}
		}
		r.log.Printf("reconnecting in %s", r.cfg.RetryInterval)
		timer := time.NewTimer(r.cfg.RetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// runSession runs one connection attempt.  It returns true if the realm was
// joined.
func (r *Runner) runSession(ctx context.Context, h component.Handler) (bool, error) {
	r.setState(Unconnected)

	r.setState(Connected)
	req := h.OnConnect()
	if req.Realm == "" {
		req.Realm = r.cfg.Realm
	}

	r.setState(Joining)
	cli, err := r.cfg.Dial(ctx, r.cfg.URL, r.clientConfig(h, req))
	if err != nil {
		r.setState(Disconnected)
		h.OnDisconnect()
		return false, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	r.setState(Joined)
	details := joinDetails(cli, req.Realm)
	if r.cfg.Debug {
		r.log.Printf("joined realm %s as session %v:\n%s", details.Realm,
			details.Session, spew.Sdump(details.Details))
	}

	var sessErr error
	if regErr := h.OnJoin(cli, details).Err(); regErr != nil && r.cfg.AbortOnRegisterFailure {
		sessErr = fmt.Errorf("%w: %w", ErrRegistration, regErr)
	} else {
		select {
		case <-ctx.Done():
		case <-cli.Done():
		}
	}

	r.setState(Leaving)
	leave := &component.LeaveDetails{Reason: wamp.CloseNormal}
	select {
	case <-cli.Done():
		leave = &component.LeaveDetails{ByRouter: true}
	default:
		cli.Close()
		select {
		case <-cli.Done():
		case <-time.After(r.cfg.ResponseTimeout):
			r.log.Println("timed out waiting for client to close")
		}
	}
	h.OnLeave(leave)
	r.setState(Left)

	h.OnDisconnect()
	r.setState(Disconnected)
	return true, sessErr
}

// clientConfig builds the nexus client configuration for a join request.
// Every requested authmethod is answered by the handler's OnChallenge.
func (r *Runner) clientConfig(h component.Handler, req component.JoinRequest) client.Config {
	hello := wamp.Dict{}
	for k, v := range r.cfg.HelloDetails {
		hello[k] = v
	}
	if req.AuthID != "" {
		hello["authid"] = req.AuthID
	}

	var authHandlers map[string]client.AuthFunc
	if len(req.AuthMethods) != 0 {
		authHandlers = make(map[string]client.AuthFunc, len(req.AuthMethods))
		for _, method := range req.AuthMethods {
			authHandlers[method] = h.OnChallenge
		}
	}

	return client.Config{
		Realm:           req.Realm,
		HelloDetails:    hello,
		AuthHandlers:    authHandlers,
		ResponseTimeout: r.cfg.ResponseTimeout,
		Serialization:   r.cfg.Serialization,
		TlsCfg:          r.cfg.TLS,
		Logger:          r.log,
		Debug:           r.cfg.Debug,
	}
}

func joinDetails(cli *client.Client, realm string) *component.JoinDetails {
	rd := cli.RealmDetails()
	d := &component.JoinDetails{
		Session: cli.ID(),
		Realm:   realm,
		Details: rd,
	}
	d.AuthID, _ = wamp.AsString(rd["authid"])
	d.AuthRole, _ = wamp.AsString(rd["authrole"])
	d.AuthMethod, _ = wamp.AsString(rd["authmethod"])
	return d
}
