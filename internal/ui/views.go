package ui

import (
	"context"
	"regexp"
)

// Presentation-layer validation only; the API performs no field checks.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (a *App) runHome() {
	pal := a.themes.Palette()
	a.printf("")
	a.printf("%s", pal.Banner.Render("Welcome to the Assistant App"))
	a.printf("%s", pal.Muted.Render("Your personal assistant to streamline daily tasks."))

	choice, ok := a.readLine(pal.Prompt.Render("[1] Sign In  [2] Sign Up  [q] Quit > "))
	if !ok {
		return
	}
	switch choice {
	case "1", "signin":
		a.view = ViewSignIn
	case "2", "signup":
		a.view = ViewSignUp
	case "q", "quit":
		a.view = viewQuit
	}
}

func (a *App) runSignIn(ctx context.Context) {
	pal := a.themes.Palette()
	a.printf("")
	a.printf("%s", pal.Banner.Render("Sign In"))
	a.printMuted("Leave email empty to go back.")

	email, ok := a.readLine(pal.Prompt.Render("Email: "))
	if !ok {
		return
	}
	if email == "" {
		a.view = ViewHome
		return
	}
	if !emailPattern.MatchString(email) {
		a.printError("Please enter a valid email address.")
		return
	}

	password, ok := a.readLine(pal.Prompt.Render("Password: "))
	if !ok {
		return
	}
	if password == "" {
		a.printError("Password is required.")
		return
	}

	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		a.printError(err.Error())
		return
	}
	if err := a.session.Login(resp.User, resp.Token); err != nil {
		a.printError("Failed to save your session: " + err.Error())
		return
	}

	a.view = ViewDashboard
}

func (a *App) runSignUp(ctx context.Context) {
	pal := a.themes.Palette()
	a.printf("")
	a.printf("%s", pal.Banner.Render("Sign Up"))
	a.printMuted("Leave name empty to go back.")

	name, ok := a.readLine(pal.Prompt.Render("Full name: "))
	if !ok {
		return
	}
	if name == "" {
		a.view = ViewHome
		return
	}

	email, ok := a.readLine(pal.Prompt.Render("Email: "))
	if !ok {
		return
	}
	if !emailPattern.MatchString(email) {
		a.printError("Please enter a valid email address.")
		return
	}

	password, ok := a.readLine(pal.Prompt.Render("Password: "))
	if !ok {
		return
	}
	if password == "" {
		a.printError("Password is required.")
		return
	}

	if _, err := a.client.Register(ctx, name, email, password); err != nil {
		a.printError(err.Error())
		return
	}

	a.printf("Account created. Please sign in.")
	a.view = ViewSignIn
}
