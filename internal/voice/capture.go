package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/assistant-app/console/internal/observability"
)

// ErrUnsupported reports that voice capture cannot run in this environment,
// either because no recognition endpoint is configured or because no recorder
// was found on PATH. The app degrades to text-only input.
var ErrUnsupported = errors.New("voice recognition is not supported in this environment")

// Config describes one recognition session.
type Config struct {
	// URL is the websocket endpoint of the speech-recognition service.
	URL string
	// Language is the recognition language tag, e.g. "en-US".
	Language string
	// Recorder overrides the audio capture command, e.g. "arecord -q ...".
	Recorder string
}

// AudioSource opens the capture stream. Closing the reader ends the utterance.
type AudioSource func(ctx context.Context) (io.ReadCloser, error)

// frame is the wire format exchanged with the recognition service. The client
// sends a config frame, binary audio, then an end frame; the service replies
// with result frames terminated by an end or error frame.
type frame struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	Language  string `json:"language,omitempty"`
	Format    string `json:"format,omitempty"`
	ConnectID string `json:"connectId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Recognizer wraps a single speech-recognition session. Each result frame's
// text replaces the transcript; on natural end a non-empty transcript is
// delivered exactly once through OnTranscript and then cleared. Errors stop
// the session with no automatic restart.
type Recognizer struct {
	cfg    Config
	dialer *websocket.Dialer
	source AudioSource

	// OnResult observes every recognized utterance (for display).
	OnResult func(text string)
	// OnTranscript receives the final transcript once per session.
	OnTranscript func(text string)
	// OnError receives capability-level failures during the session.
	OnError func(err error)

	mu         sync.Mutex
	listening  bool
	transcript string
	audio      io.ReadCloser
	conn       *websocket.Conn
}

// New builds a recognizer for the given config.
func New(cfg Config) *Recognizer {
	r := &Recognizer{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 30 * time.Second,
		},
	}
	r.source = recorderSource(cfg.Recorder)
	return r
}

// SetAudioSource replaces the recorder subprocess with a custom stream.
func (r *Recognizer) SetAudioSource(source AudioSource) {
	r.source = source
}

// IsListening reports whether a capture session is active.
func (r *Recognizer) IsListening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

// Transcript returns the current (undelivered) transcript.
func (r *Recognizer) Transcript() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transcript
}

// Start begins a capture session. It fails fast with ErrUnsupported when the
// capability is unavailable. Starting while already listening is a no-op.
func (r *Recognizer) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.listening {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	if r.cfg.URL == "" {
		return ErrUnsupported
	}

	audio, err := r.source(ctx)
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("X-Connect-Id", uuid.NewString())
	conn, resp, err := r.dialer.DialContext(ctx, r.cfg.URL, header)
	if err != nil {
		audio.Close()
		return fmt.Errorf("connect to recognition service: %w", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	cfgFrame := frame{
		Type:     "config",
		Language: r.cfg.Language,
		Format:   "wav",
	}
	if err := conn.WriteJSON(cfgFrame); err != nil {
		audio.Close()
		conn.Close()
		return fmt.Errorf("configure recognition session: %w", err)
	}

	r.mu.Lock()
	r.listening = true
	r.transcript = ""
	r.audio = audio
	r.conn = conn
	r.mu.Unlock()

	go r.pump(audio, conn)
	go r.listen(conn)
	return nil
}

// Stop halts capture. The recognition service still finishes the utterance,
// so a pending transcript is delivered as on natural end. Safe to call when
// not listening.
func (r *Recognizer) Stop() {
	r.mu.Lock()
	audio := r.audio
	r.mu.Unlock()
	if audio != nil {
		audio.Close()
	}
}

// Close tears the session down immediately, discarding any pending
// transcript.
func (r *Recognizer) Close() {
	r.teardown()
}

// pump streams audio to the service, then signals end of utterance.
func (r *Recognizer) pump(audio io.ReadCloser, conn *websocket.Conn) {
	defer audio.Close()

	buf := make([]byte, 3200)
	for {
		n, err := audio.Read(buf)
		if n > 0 {
			if werr := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			_ = conn.WriteJSON(frame{Type: "end"})
			return
		}
	}
}

func (r *Recognizer) listen(conn *websocket.Conn) {
	defer r.teardown()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			r.reportError(fmt.Errorf("recognition stream closed: %w", err))
			return
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			continue
		}

		switch f.Type {
		case "result":
			r.setTranscript(f.Text)
		case "error":
			r.reportError(errors.New(f.Error))
			return
		case "end":
			r.finish()
			return
		}
	}
}

// setTranscript replaces (not appends) the buffered transcript.
func (r *Recognizer) setTranscript(text string) {
	r.mu.Lock()
	r.transcript = text
	r.mu.Unlock()

	if r.OnResult != nil {
		r.OnResult(text)
	}
}

// finish delivers a non-empty transcript exactly once, then clears it.
func (r *Recognizer) finish() {
	r.mu.Lock()
	text := r.transcript
	r.transcript = ""
	r.mu.Unlock()

	if text != "" && r.OnTranscript != nil {
		r.OnTranscript(text)
	}
}

func (r *Recognizer) reportError(err error) {
	r.mu.Lock()
	live := r.listening
	r.mu.Unlock()
	if !live {
		return
	}

	observability.Logger().Error("voice capture error", "error", err)
	if r.OnError != nil {
		r.OnError(err)
	}
}

func (r *Recognizer) teardown() {
	r.mu.Lock()
	if !r.listening {
		r.mu.Unlock()
		return
	}
	r.listening = false
	audio := r.audio
	conn := r.conn
	r.audio = nil
	r.conn = nil
	r.mu.Unlock()

	if audio != nil {
		audio.Close()
	}
	if conn != nil {
		conn.Close()
	}
}

// Known capture commands, first match on PATH wins.
var recorderCandidates = [][]string{
	{"arecord", "-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "wav", "-"},
	{"rec", "-q", "-t", "wav", "-"},
	{"sox", "-d", "-q", "-t", "wav", "-"},
}

func recorderSource(override string) AudioSource {
	return func(ctx context.Context) (io.ReadCloser, error) {
		argv := recorderCommand(override)
		if argv == nil {
			return nil, ErrUnsupported
		}

		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("open recorder pipe: %w", err)
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("start recorder: %w", err)
		}
		return &processReader{reader: stdout, cmd: cmd}, nil
	}
}

func recorderCommand(override string) []string {
	if override != "" {
		argv := strings.Fields(override)
		if len(argv) == 0 {
			return nil
		}
		if _, err := exec.LookPath(argv[0]); err != nil {
			return nil
		}
		return argv
	}

	for _, argv := range recorderCandidates {
		if _, err := exec.LookPath(argv[0]); err == nil {
			return argv
		}
	}
	return nil
}

// processReader ties the capture stream to its recorder process so closing
// the reader also stops recording.
type processReader struct {
	reader io.ReadCloser
	cmd    *exec.Cmd
	once   sync.Once
}

func (p *processReader) Read(b []byte) (int, error) {
	return p.reader.Read(b)
}

func (p *processReader) Close() error {
	p.once.Do(func() {
		p.reader.Close()
		if p.cmd.Process != nil {
			_ = p.cmd.Process.Kill()
		}
		_ = p.cmd.Wait()
	})
	return nil
}
