package stub

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/assistant-app/console/internal/api"
)

// The console client run end to end against the stub backend.
func TestClientAgainstStubBackend(t *testing.T) {
	srv := httptest.NewServer(NewRouter(New()))
	defer srv.Close()

	var token string
	client := api.New(srv.URL, api.WithTokenSource(func() string { return token }))
	ctx := context.Background()

	if _, err := client.Register(ctx, "Ada", "ada@example.com", "hunter2"); err != nil {
		t.Fatalf("register: %v", err)
	}

	login, err := client.Login(ctx, "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	token = login.Token

	validate, err := client.ValidateToken(ctx)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !validate.IsTokenValid {
		t.Fatalf("expected valid token")
	}

	reply, err := client.SendCommand(ctx, "what's the weather")
	if err != nil {
		t.Fatalf("send command: %v", err)
	}
	if !strings.Contains(reply.Response, "weather") {
		t.Fatalf("unexpected reply %q", reply.Response)
	}

	dashboard, err := client.FetchDashboard(ctx)
	if err != nil {
		t.Fatalf("fetch dashboard: %v", err)
	}
	if dashboard["greeting"] != "Welcome back, Ada!" {
		t.Fatalf("unexpected dashboard %+v", dashboard)
	}
}

func TestRecognizeSessionReturnsCannedTranscript(t *testing.T) {
	srv := httptest.NewServer(NewRouter(New()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/speech/recognize"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	if err := conn.WriteJSON(speechFrame{Type: "config", Language: "en-US", Format: "wav"}); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte("fake-wav-bytes")); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	if err := conn.WriteJSON(speechFrame{Type: "end"}); err != nil {
		t.Fatalf("write end: %v", err)
	}

	var result speechFrame
	if err := conn.ReadJSON(&result); err != nil {
		t.Fatalf("read result: %v", err)
	}
	if result.Type != "result" || result.Text != simulatedTranscript {
		t.Fatalf("unexpected result frame %+v", result)
	}

	var end speechFrame
	if err := conn.ReadJSON(&end); err != nil {
		t.Fatalf("read end: %v", err)
	}
	if end.Type != "end" {
		t.Fatalf("expected end frame, got %+v", end)
	}
}
