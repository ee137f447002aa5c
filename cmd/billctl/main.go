// Command billctl works the clinic billing API from a terminal: it logs in,
// lists and filters bills, creates them and prints invoices.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"jyotikabilling/client"
	"jyotikabilling/config"
	"jyotikabilling/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".billctl-session.json"
	}
	return filepath.Join(dir, "billctl", "session.json")
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "billctl",
		Usage: "clinic billing from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Value:   "http://localhost:8080/api",
				EnvVars: []string{"BILLING_API_URL"},
				Usage:   "base URL of the billing API",
			},
			&cli.StringFlag{
				Name:    "session",
				Value:   defaultSessionFile(),
				EnvVars: []string{"BILLING_SESSION_FILE"},
				Usage:   "file holding the login session",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			config.SetLogLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			listCommand(),
			addCommand(),
			updateCommand(),
			showCommand(),
			deleteCommand(),
			bulkPrintCommand(),
		},
	}
}

func newClient(c *cli.Context) *client.Client {
	return client.New(c.String("api"), client.NewFileTokenStore(c.String("session")))
}

func newStore(c *cli.Context) (*store.Store, *client.Client) {
	api := newClient(c)
	return store.New(api), api
}
