// Command jobportal is a terminal front end for the job board API.
//
// Configuration is read from the environment and .env, see internal/config.
// The session is kept in STATE_PATH between runs.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/config"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/state"
)

func main() {
	cfg := config.LoadClientConfig()
	if !cfg.Logging {
		log.SetOutput(discard{})
	}

	app, err := state.NewApp(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	if _, err := app.Session.Restore(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "could not restore session: %v\n", err)
	}

	c := &cli{app: app, out: os.Stdout, in: bufio.NewReader(os.Stdin)}
	code := 0
	if err := c.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		code = 1
	}

	stop()
	if err := app.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close: %v\n", err)
	}
	os.Exit(code)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
