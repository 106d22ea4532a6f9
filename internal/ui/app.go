package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/assistant-app/console/internal/api"
	"github.com/assistant-app/console/internal/config"
	"github.com/assistant-app/console/internal/session"
	"github.com/assistant-app/console/internal/theme"
)

// View names the screens the console can show.
type View string

const (
	ViewHome      View = "home"
	ViewSignIn    View = "signin"
	ViewSignUp    View = "signup"
	ViewDashboard View = "dashboard"

	viewQuit View = "quit"
)

// App drives the console views. All state outside the injected contexts lives
// for a single view mount and is rebuilt on navigation, so logout is a full
// teardown.
type App struct {
	cfg     *config.Config
	client  *api.Client
	session *session.Context
	themes  *theme.Context

	in   *bufio.Reader
	out  io.Writer
	view View
}

// New wires the app around its contexts.
func New(cfg *config.Config, client *api.Client, sess *session.Context, themes *theme.Context, in io.Reader, out io.Writer) *App {
	return &App{
		cfg:     cfg,
		client:  client,
		session: sess,
		themes:  themes,
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Run owns the view loop until the user quits or input ends.
func (a *App) Run(ctx context.Context) error {
	// A restored session lands straight on the dashboard; the guard bounces
	// it back out if the user is gone.
	if a.session.Authenticated() {
		a.view = ViewDashboard
	} else {
		a.view = ViewHome
	}

	a.session.SetLogoutHandler(func() {
		a.view = ViewSignIn
	})

	for a.view != viewQuit {
		switch a.view {
		case ViewHome:
			a.runHome()
		case ViewSignIn:
			a.runSignIn(ctx)
		case ViewSignUp:
			a.runSignUp(ctx)
		case ViewDashboard:
			if next := Guard(a.session, ViewDashboard); next != ViewDashboard {
				a.view = next
				continue
			}
			a.runDashboard(ctx)
		default:
			a.view = ViewHome
		}
	}
	return nil
}

// readLine prompts and reads one trimmed line. EOF quits the app.
func (a *App) readLine(prompt string) (string, bool) {
	fmt.Fprint(a.out, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		a.view = viewQuit
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

func (a *App) printError(message string) {
	pal := a.themes.Palette()
	a.printf("%s", pal.Error.Render(message))
}

func (a *App) printMuted(message string) {
	pal := a.themes.Palette()
	a.printf("%s", pal.Muted.Render(message))
}
