package runner

import (
	"context"

	"github.com/gammazero/nexus/v3/client"
	"github.com/gammazero/nexus/v3/router"
)

// DialFunc connects to a router and joins the realm in cfg.
type DialFunc func(ctx context.Context, routerURL string, cfg client.Config) (*client.Client, error)

// DialNet connects over the network.  The URL scheme selects websocket,
// TCP rawsocket, or Unix rawsocket, with TLS for wss, https, and tcps.
func DialNet(ctx context.Context, routerURL string, cfg client.Config) (*client.Client, error) {
	return client.ConnectNet(ctx, routerURL, cfg)
}

// DialLocal returns a DialFunc that attaches to an in-process router,
// ignoring the URL.
func DialLocal(r router.Router) DialFunc {
	return func(ctx context.Context, _ string, cfg client.Config) (*client.Client, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return client.ConnectLocal(r, cfg)
	}
}
