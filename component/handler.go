/*
Package component provides the application session that the runner drives
through the WAMP session lifecycle, and the add2 procedure it registers.

*/
package component

import (
	"github.com/gammazero/nexus/v3/client"
	"github.com/gammazero/nexus/v3/wamp"
)

// Config is the read-only configuration handed to a session handler when the
// runner constructs it.
type Config struct {
	// Realm is the URI of the realm to join.
	Realm string

	// AuthID is the authentication ID announced in HELLO.  Empty means
	// anonymous.
	AuthID string

	// Secret is the shared secret used to answer a wampcra challenge, or the
	// ticket for ticket authentication.
	Secret string

	// AuthMethods lists the authmethods offered in HELLO.  When empty and a
	// Secret is set, wampcra is offered.
	AuthMethods []string
}

// JoinRequest is returned by OnConnect and tells the runner how to join.
type JoinRequest struct {
	Realm       string
	AuthID      string
	AuthMethods []string
}

// JoinDetails describes the session established by the router's WELCOME.
type JoinDetails struct {
	Session    wamp.ID
	Realm      string
	AuthID     string
	AuthRole   string
	AuthMethod string
	Details    wamp.Dict
}

// LeaveDetails describes why a session ended.
type LeaveDetails struct {
	Reason wamp.URI
	// ByRouter is true when the router, not the client, ended the session.
	ByRouter bool
}

// Session is the part of a joined WAMP client a handler may use.
// *client.Client implements Session.
type Session interface {
	ID() wamp.ID
	Register(procedure string, fn client.InvocationHandler, options wamp.Dict) error
	Unregister(procedure string) error
}

// Handler receives the lifecycle notifications of one connection attempt.
// Notifications arrive in the order OnConnect, OnChallenge (zero or more
// times), OnJoin, OnLeave, OnDisconnect.  OnJoin and OnLeave are skipped when
// the join fails.
type Handler interface {
	OnConnect() JoinRequest
	OnChallenge(challenge *wamp.Challenge) (signature string, details wamp.Dict)
	OnJoin(s Session, details *JoinDetails) JoinResult
	OnLeave(details *LeaveDetails)
	OnDisconnect()
}

var _ Session = (*client.Client)(nil)
