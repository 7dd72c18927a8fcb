package component

import (
	"github.com/gammazero/nexus/v3/stdlog"
	"github.com/gammazero/nexus/v3/wamp"
	"github.com/gammazero/nexus/v3/wamp/crsign"
)

const (
	authMethodCRA    = "wampcra"
	authMethodTicket = "ticket"
)

// AppSession is the application component.  Once joined it registers add2 as
// ProcedureAdd2.  A new AppSession is created for every connection attempt.
type AppSession struct {
	cfg Config
	log stdlog.StdLog
}

// NewAppSession creates an AppSession with the given configuration.
func NewAppSession(cfg Config, logger stdlog.StdLog) *AppSession {
	s := &AppSession{
		cfg: cfg,
		log: logger,
	}
	s.log.Println("component created")
	return s
}

// OnConnect requests to join the configured realm.
func (s *AppSession) OnConnect() JoinRequest {
	s.log.Println("transport connected")
	req := JoinRequest{
		Realm:       s.cfg.Realm,
		AuthID:      s.cfg.AuthID,
		AuthMethods: s.cfg.AuthMethods,
	}
	if len(req.AuthMethods) == 0 && s.cfg.Secret != "" {
		req.AuthMethods = []string{authMethodCRA}
	}
	return req
}

// OnChallenge answers an authentication challenge with the configured secret.
// Without a secret, or for an unknown authmethod, the signature is empty and
// the router decides.
func (s *AppSession) OnChallenge(challenge *wamp.Challenge) (string, wamp.Dict) {
	s.log.Println("authentication challenge received")
	if s.cfg.Secret == "" {
		return "", wamp.Dict{}
	}
	switch challenge.AuthMethod {
	case authMethodCRA:
		return crsign.RespondChallenge(s.cfg.Secret, challenge, nil), wamp.Dict{}
	case authMethodTicket:
		return s.cfg.Secret, wamp.Dict{}
	}
	return "", wamp.Dict{}
}

// OnJoin registers add2.  A registration error is logged and reported in the
// result, never returned or panicked.
func (s *AppSession) OnJoin(sess Session, details *JoinDetails) JoinResult {
	s.log.Println("session joined")
	reg := RegisterResult{Procedure: ProcedureAdd2}
	reg.Err = sess.Register(ProcedureAdd2, Add2Handler, nil)
	if reg.Err != nil {
		s.log.Printf("could not register procedure: %s", reg.Err)
	} else {
		s.log.Println("procedure registered")
	}
	return JoinResult{Registrations: []RegisterResult{reg}}
}

// OnLeave is called when the session ends.
func (s *AppSession) OnLeave(details *LeaveDetails) {
	s.log.Println("session left")
}

// OnDisconnect is called when the transport is gone.
func (s *AppSession) OnDisconnect() {
	s.log.Println("transport disconnected")
}

var _ Handler = (*AppSession)(nil)
