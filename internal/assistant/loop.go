package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/assistant-app/console/internal/api"
	"github.com/assistant-app/console/internal/model/chat"
	"github.com/assistant-app/console/internal/observability"
)

// State drives the assistant indicator.
type State string

const (
	StateIdle      State = "idle"
	StateListening State = "listening"
	StateSpeaking  State = "speaking"
)

const (
	// DefaultSpeakingDelay is how long the speaking indicator stays up after a
	// successful reply before returning to idle.
	DefaultSpeakingDelay = 2 * time.Second

	processingPlaceholder = "I'm processing your request..."
	apologyMessage        = "Sorry, I encountered an error processing your request."
)

// Commander issues assistant commands; *api.Client satisfies it.
type Commander interface {
	SendCommand(ctx context.Context, command string) (*api.CommandResponse, error)
}

// Loop coordinates user input, assistant calls, and the conversation log for
// one mount of the assistant widget. The log is append-only and discarded
// with the loop.
//
// Overlapping submissions are permitted: their completions race and the log
// appends in completion order.
type Loop struct {
	commander     Commander
	speakingDelay time.Duration
	onState       func(State)
	onEntry       func(chat.Entry)

	mu     sync.Mutex
	state  State
	log    []chat.Entry
	closed bool
}

// Option customises a Loop.
type Option func(*Loop)

// WithSpeakingDelay overrides the speaking-to-idle delay.
func WithSpeakingDelay(d time.Duration) Option {
	return func(l *Loop) { l.speakingDelay = d }
}

// WithStateHandler registers an observer for state transitions.
func WithStateHandler(fn func(State)) Option {
	return func(l *Loop) { l.onState = fn }
}

// WithEntryHandler registers an observer for conversation log appends.
func WithEntryHandler(fn func(chat.Entry)) Option {
	return func(l *Loop) { l.onEntry = fn }
}

// New builds an idle loop around the given commander.
func New(commander Commander, opts ...Option) *Loop {
	l := &Loop{
		commander:     commander,
		speakingDelay: DefaultSpeakingDelay,
		state:         StateIdle,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Submit runs one command through the loop. Empty or whitespace-only input is
// ignored with no state change and no log entry. The user entry is appended
// before Submit returns; the assistant call completes asynchronously.
func (l *Loop) Submit(ctx context.Context, command string) {
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}

	l.setState(StateListening)
	l.append(chat.SenderUser, command)

	go l.dispatch(ctx, command)
}

func (l *Loop) dispatch(ctx context.Context, command string) {
	resp, err := l.commander.SendCommand(ctx, command)
	if err != nil {
		observability.Logger().Error("assistant command failed", "error", err)
		l.setState(StateIdle)
		l.append(chat.SenderAssistant, apologyMessage)
		return
	}

	l.setState(StateSpeaking)
	message := resp.Response
	if message == "" {
		message = processingPlaceholder
	}
	l.append(chat.SenderAssistant, message)

	time.AfterFunc(l.speakingDelay, func() {
		l.setState(StateIdle)
	})
}

// State returns the current indicator state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Transcript returns a copy of the conversation log in append order.
func (l *Loop) Transcript() []chat.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	copied := make([]chat.Entry, len(l.log))
	copy(copied, l.log)
	return copied
}

// Close detaches the loop. In-flight calls are not cancelled, but their late
// completions no longer change state, append entries, or notify observers.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}

func (l *Loop) setState(next State) {
	l.mu.Lock()
	if l.closed || l.state == next {
		l.mu.Unlock()
		return
	}
	l.state = next
	fn := l.onState
	l.mu.Unlock()

	if fn != nil {
		fn(next)
	}
}

func (l *Loop) append(sender chat.Sender, message string) {
	entry := chat.Entry{
		ID:        uuid.NewString(),
		Sender:    sender,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.log = append(l.log, entry)
	fn := l.onEntry
	l.mu.Unlock()

	if fn != nil {
		fn(entry)
	}
}
