package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// recognitionServer drains the client session, then replies with the scripted
// frames. When immediate is set the script plays without waiting for the end
// frame (the error-path shape).
func recognitionServer(t *testing.T, script []frame, immediate bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		if !immediate {
			for {
				messageType, raw, err := conn.ReadMessage()
				if err != nil {
					return
				}
				if messageType != websocket.TextMessage {
					continue
				}
				var f frame
				if json.Unmarshal(raw, &f) != nil {
					continue
				}
				if f.Type == "end" {
					break
				}
			}
		}

		for _, f := range script {
			if err := conn.WriteJSON(f); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func staticAudio(data []byte) AudioSource {
	return func(ctx context.Context) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestStartFailsFastWithoutEndpoint(t *testing.T) {
	r := New(Config{})
	if err := r.Start(context.Background()); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestStartFailsFastWithoutRecorder(t *testing.T) {
	srv := recognitionServer(t, nil, false)
	defer srv.Close()

	r := New(Config{URL: wsURL(srv), Recorder: "no-such-recorder-binary"})
	if err := r.Start(context.Background()); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestTranscriptReplacedThenDeliveredOnce(t *testing.T) {
	srv := recognitionServer(t, []frame{
		{Type: "result", Text: "book a"},
		{Type: "result", Text: "book a meeting tomorrow"},
		{Type: "end"},
	}, false)
	defer srv.Close()

	r := New(Config{URL: wsURL(srv), Language: "en-US"})
	r.SetAudioSource(staticAudio([]byte("fake-wav-bytes")))

	var results []string
	var delivered []string
	var done atomic.Bool
	r.OnResult = func(text string) { results = append(results, text) }
	r.OnTranscript = func(text string) {
		delivered = append(delivered, text)
		done.Store(true)
	}

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitUntil(t, done.Load)
	waitUntil(t, func() bool { return !r.IsListening() })

	if len(delivered) != 1 || delivered[0] != "book a meeting tomorrow" {
		t.Fatalf("expected single delivery of the final transcript, got %v", delivered)
	}
	if len(results) != 2 {
		t.Fatalf("expected two interim results, got %v", results)
	}
	if r.Transcript() != "" {
		t.Fatalf("expected transcript cleared after delivery, got %q", r.Transcript())
	}
}

func TestEmptyTranscriptNotDelivered(t *testing.T) {
	srv := recognitionServer(t, []frame{{Type: "end"}}, false)
	defer srv.Close()

	r := New(Config{URL: wsURL(srv)})
	r.SetAudioSource(staticAudio(nil))

	delivered := false
	r.OnTranscript = func(string) { delivered = true }

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitUntil(t, func() bool { return !r.IsListening() })

	if delivered {
		t.Fatalf("expected no delivery for empty transcript")
	}
}

func TestServiceErrorStopsSessionWithoutDelivery(t *testing.T) {
	srv := recognitionServer(t, []frame{
		{Type: "result", Text: "partial"},
		{Type: "error", Error: "audio rejected"},
	}, true)
	defer srv.Close()

	r := New(Config{URL: wsURL(srv)})
	r.SetAudioSource(staticAudio([]byte("fake-wav-bytes")))

	var failed atomic.Bool
	delivered := false
	r.OnTranscript = func(string) { delivered = true }
	r.OnError = func(err error) {
		if !strings.Contains(err.Error(), "audio rejected") {
			t.Errorf("unexpected error %v", err)
		}
		failed.Store(true)
	}

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitUntil(t, failed.Load)
	waitUntil(t, func() bool { return !r.IsListening() })

	if delivered {
		t.Fatalf("expected no delivery after service error")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	r := New(Config{})
	r.Stop()
	r.Stop()

	srv := recognitionServer(t, []frame{
		{Type: "result", Text: "stop test"},
		{Type: "end"},
	}, false)
	defer srv.Close()

	r = New(Config{URL: wsURL(srv)})
	r.SetAudioSource(staticAudio([]byte("fake-wav-bytes")))

	var done atomic.Bool
	r.OnTranscript = func(string) { done.Store(true) }

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	r.Stop()
	r.Stop()

	waitUntil(t, done.Load)
	waitUntil(t, func() bool { return !r.IsListening() })
}

func TestStartWhileListeningIsNoOp(t *testing.T) {
	srv := recognitionServer(t, []frame{{Type: "end"}}, false)
	defer srv.Close()

	block := make(chan struct{})
	r := New(Config{URL: wsURL(srv)})
	r.SetAudioSource(func(ctx context.Context) (io.ReadCloser, error) {
		return io.NopCloser(blockingReader{unblock: block}), nil
	})

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !r.IsListening() {
		t.Fatalf("expected listening session")
	}
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("second start should be a no-op, got %v", err)
	}

	close(block)
	waitUntil(t, func() bool { return !r.IsListening() })
}

type blockingReader struct {
	unblock chan struct{}
}

func (b blockingReader) Read(p []byte) (int, error) {
	<-b.unblock
	return 0, io.EOF
}
