package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/assistant-app/console/internal/assistant"
	"github.com/assistant-app/console/internal/model/chat"
	"github.com/assistant-app/console/internal/observability"
	"github.com/assistant-app/console/internal/voice"
)

const unsupportedVoiceMessage = "Your environment does not support voice recognition."

// runDashboard hosts the assistant widget until logout or quit. The
// conversation loop and any recognizer live only for this mount.
func (a *App) runDashboard(ctx context.Context) {
	pal := a.themes.Palette()
	user := a.session.User()
	if user == nil {
		return
	}

	a.printf("")
	a.printf("%s", pal.Banner.Render(fmt.Sprintf("Welcome, %s!", displayName(user.Name))))
	a.printMuted("Talk to your assistant or give commands to get started.")
	a.printMuted("Commands: /voice /history /theme /logout /quit")

	if payload, err := a.client.FetchDashboard(ctx); err != nil {
		observability.Logger().Warn("dashboard fetch failed", "error", err)
	} else if greeting, ok := payload["greeting"].(string); ok {
		a.printMuted(greeting)
	}

	loop := assistant.New(a.client,
		assistant.WithSpeakingDelay(a.cfg.UI.SpeakingDelay),
		assistant.WithStateHandler(a.renderState),
		assistant.WithEntryHandler(a.renderEntry),
	)
	defer loop.Close()

	var recognizer *voice.Recognizer
	defer func() {
		if recognizer != nil {
			recognizer.Close()
		}
	}()

	for a.session.Authenticated() {
		line, ok := a.readLine(pal.Prompt.Render("> "))
		if !ok {
			return
		}

		switch line {
		case "":
			continue
		case "/logout":
			a.session.Logout()
		case "/quit":
			a.view = viewQuit
			return
		case "/theme":
			next := a.themes.Toggle()
			a.printMuted(fmt.Sprintf("Theme set to %s.", next))
		case "/history":
			a.renderHistory(loop.Transcript())
		case "/voice":
			recognizer = a.toggleVoice(ctx, recognizer, loop)
		default:
			loop.Submit(ctx, line)
		}
	}
}

func (a *App) toggleVoice(ctx context.Context, recognizer *voice.Recognizer, loop *assistant.Loop) *voice.Recognizer {
	if recognizer != nil && recognizer.IsListening() {
		recognizer.Stop()
		a.printMuted("Voice capture stopped.")
		return recognizer
	}

	recognizer = voice.New(voice.Config{
		URL:      a.cfg.Speech.RecognizeURL,
		Language: a.cfg.Speech.Language,
		Recorder: a.cfg.Speech.Recorder,
	})
	recognizer.OnResult = func(text string) {
		a.printMuted("You said: " + text)
	}
	recognizer.OnTranscript = func(text string) {
		loop.Submit(ctx, text)
	}
	recognizer.OnError = func(err error) {
		a.printError("Voice capture failed: " + err.Error())
	}

	if err := recognizer.Start(ctx); err != nil {
		if errors.Is(err, voice.ErrUnsupported) {
			a.printError(unsupportedVoiceMessage)
		} else {
			a.printError("Could not start voice capture: " + err.Error())
		}
		return nil
	}

	a.printMuted("Listening... use /voice again to stop.")
	return recognizer
}

func (a *App) renderState(state assistant.State) {
	pal := a.themes.Palette()
	a.printf("%s", pal.Indicator.Render("● "+string(state)))
}

func (a *App) renderEntry(entry chat.Entry) {
	pal := a.themes.Palette()
	if entry.Sender == chat.SenderUser {
		a.printf("%s %s", pal.User.Render("You:"), entry.Message)
		return
	}
	a.printf("%s %s", pal.Assistant.Render("Assistant:"), entry.Message)
}

func (a *App) renderHistory(entries []chat.Entry) {
	if len(entries) == 0 {
		a.printMuted("No conversation yet.")
		return
	}
	pal := a.themes.Palette()
	for _, entry := range entries {
		label := pal.Assistant.Render("Assistant:")
		if entry.Sender == chat.SenderUser {
			label = pal.User.Render("You:")
		}
		a.printf("%s %s %s", label, TruncateText(entry.Message, 72), pal.Muted.Render(RelativeTime(entry.CreatedAt)))
	}
}

func displayName(name string) string {
	if name == "" {
		return "User"
	}
	return name
}
