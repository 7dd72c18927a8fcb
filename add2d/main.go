/*
Callee service that joins a WAMP realm and provides the com.myapp.add2
procedure.

*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gammazero/nexus/v3/router"
	"github.com/gammazero/nexus/v3/wamp"
	"github.com/google/uuid"

	"github.com/wampkit/add2/component"
	"github.com/wampkit/add2/config"
	"github.com/wampkit/add2/logging"
	"github.com/wampkit/add2/runner"
)

const version = "0.1.0"

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-c add2.json]\n", os.Args[0])
}

func main() {
	os.Exit(mainWithCode())
}

func mainWithCode() int {
	var cfgFile string
	var showVersion bool
	fs := flag.NewFlagSet("add2d", flag.ExitOnError)
	fs.StringVar(&cfgFile, "c", "", "Path to config file (.json or .toml)")
	fs.BoolVar(&showVersion, "version", false, "print version")
	fs.Usage = usage
	if err := fs.Parse(os.Args[1:]); err != nil {
		return 1
	}
	if showVersion {
		fmt.Println("version", version)
		return 0
	}

	conf, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logCfg := conf.LogConfig()
	if conf.Log.Path != "" {
		// Open the file to log to.
		f, err := os.OpenFile(conf.Log.Path, os.O_RDWR|os.O_CREATE|os.O_APPEND,
			0644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer f.Close()
		logCfg.Output = f
	}
	logger := logging.New(logCfg)

	if err = run(conf, logger); err != nil {
		logger.Errorf("%s", err)
		return 1
	}
	return 0
}

func run(conf *config.Config, logger *logging.Logger) error {
	if conf.Router.Listen != "" {
		closer, err := startRouter(conf, logger)
		if err != nil {
			return err
		}
		defer closer()
	}

	rcfg, err := conf.RunnerConfig(logger)
	if err != nil {
		return err
	}
	rn, err := runner.New(rcfg)
	if err != nil {
		return err
	}

	compCfg := conf.ComponentConfig()
	newHandler := func() component.Handler {
		return component.NewAppSession(compCfg, logger.With("instance", uuid.NewString()))
	}

	// Leave the realm if SIGINT (CTRL-c) or SIGTERM received.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- rn.Run(ctx, newHandler)
	}()

	select {
	case err = <-errc:
		return err
	case <-ctx.Done():
	}

	// If the session does not end in a few seconds, exit with error.
	logger.Print("Leaving realm...")
	select {
	case err = <-errc:
		return err
	case <-time.After(5 * time.Second):
		return errors.New("session took too long to close")
	}
}

// startRouter runs an embedded router that serves the configured realm over
// websocket, and returns a function that stops it.
func startRouter(conf *config.Config, logger *logging.Logger) (func(), error) {
	rlog := logger.With("component", "router")
	r, err := router.NewRouter(&router.Config{
		RealmConfigs: []*router.RealmConfig{
			{
				URI:           wamp.URI(conf.Realm),
				StrictURI:     true,
				AnonymousAuth: true,
				AllowDisclose: true,
			},
		},
		Debug: conf.Debug,
	}, rlog)
	if err != nil {
		return nil, err
	}
	wss := router.NewWebsocketServer(r)
	closer, err := wss.ListenAndServe(conf.Router.Listen)
	if err != nil {
		r.Close()
		return nil, err
	}
	rlog.Printf("Listening for websocket connections on ws://%s/", conf.Router.Listen)
	return func() {
		closer.Close()
		r.Close()
	}, nil
}
