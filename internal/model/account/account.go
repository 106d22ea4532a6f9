package account

// UserRecord is the user payload returned by the server. The client treats it
// as opaque beyond existence checks.
type UserRecord struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the authenticated identity plus credential token held by the
// client. Token and User are set and cleared together.
type Session struct {
	User  *UserRecord
	Token string
}

// Authenticated reports whether the session carries a signed-in user.
func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}
