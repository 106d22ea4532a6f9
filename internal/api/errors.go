package api

// Fixed user-facing messages, carried over from the web client.
const (
	GenericErrorMessage = "Something went wrong. Please try again."
	NetworkErrorMessage = "Unable to connect to the server. Check your internet connection."
)

// TransportError covers unreachable-server and timeout failures. Its message
// is the generic connectivity string; the underlying cause stays available
// for diagnostics via Unwrap.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return NetworkErrorMessage }

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response with the server's own message, surfaced
// verbatim where call sites display errors.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string { return e.Detail }

// AuthError wraps failures of the auth operations. Detail is the server
// message when one exists, otherwise the transport-level message.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string { return e.Detail }

// errorPayload matches the error body shapes the backend emits.
type errorPayload struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Err     string `json:"error"`
}

func (p errorPayload) detail() string {
	switch {
	case p.Detail != "":
		return p.Detail
	case p.Message != "":
		return p.Message
	default:
		return p.Err
	}
}
