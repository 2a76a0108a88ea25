// Package cli implements the interactive taskkeeper command-line client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// App holds the state of one interactive session.
type App struct {
	api    *api.Client
	reader *bufio.Reader
	out    io.Writer
	email  string
}

// NewApp creates a CLI bound to stdin/stdout and the configured server.
func NewApp(c *config.Config) *App {
	return newApp(api.New(c.ServerURL, c.RequestTimeout), os.Stdin, os.Stdout)
}

func newApp(client *api.Client, in io.Reader, out io.Writer) *App {
	return &App{api: client, reader: bufio.NewReader(in), out: out}
}

// Run checks the server and starts the prompt loop. It returns when the
// input is exhausted or the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to taskkeeper CLI (type 'help' for commands)")
	if err := a.Health(ctx); err != nil {
		fmt.Fprintln(a.out, "Warning:", err)
	}
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.api.Token() != ""
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "(guest)"
	}
	return fmt.Sprintf("(%s)", a.email)
}

// checkSession drops the local token when the server no longer accepts it.
func (a *App) checkSession(err error) error {
	if errors.Is(err, common.ErrorUnauthorized) && a.isLoggedIn() {
		a.api.SetToken("")
		a.email = ""
		return fmt.Errorf("%w; please log in again", err)
	}
	return err
}

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	return nil
}

var errNotLoggedIn = errors.New("not logged in")

// Health reports whether the server is reachable and healthy.
func (a *App) Health(ctx context.Context) error {
	if err := a.api.Health(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Server is up.")
	return nil
}
