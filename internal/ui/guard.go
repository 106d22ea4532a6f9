package ui

import "github.com/assistant-app/console/internal/session"

// Guard protects a view behind authentication. When no user is present the
// pending navigation is replaced with the sign-in view (not stacked), so
// backing out never lands on the guarded screen. It is re-evaluated on every
// transition, so a logout while a protected view is mounted redirects on the
// next render.
func Guard(sess *session.Context, target View) View {
	if sess.User() == nil {
		return ViewSignIn
	}
	return target
}
