package stub

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func postJSON(t *testing.T, router http.Handler, path string, body map[string]string, token string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func registerAndLogin(t *testing.T, router http.Handler) string {
	t.Helper()
	resp := postJSON(t, router, "/auth/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "hunter2",
	}, "")
	if resp.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.Code)
	}

	resp = postJSON(t, router, "/auth/login", map[string]string{
		"email": "ada@example.com", "password": "hunter2",
	}, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.Code)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode login body: %v", err)
	}
	if body.Token == "" {
		t.Fatalf("expected a token")
	}
	return body.Token
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	router := NewRouter(New())
	registerAndLogin(t, router)

	resp := postJSON(t, router, "/auth/register", map[string]string{
		"name": "Ada Again", "email": "ada@example.com", "password": "hunter2",
	}, "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Email already registered") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	router := NewRouter(New())
	registerAndLogin(t, router)

	resp := postJSON(t, router, "/auth/login", map[string]string{
		"email": "ada@example.com", "password": "wrong",
	}, "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Invalid email or password") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestCommandRequiresBearerToken(t *testing.T) {
	router := NewRouter(New())

	resp := postJSON(t, router, "/assistant/command", map[string]string{"command": "hello"}, "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestCommandReturnsCannedGreeting(t *testing.T) {
	router := NewRouter(New())
	token := registerAndLogin(t, router)

	resp := postJSON(t, router, "/assistant/command", map[string]string{"command": "hello there"}, token)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !strings.Contains(body.Response, "Hello Ada!") {
		t.Fatalf("expected greeting, got %q", body.Response)
	}
}

func TestCommandRejectsEmptyCommand(t *testing.T) {
	router := NewRouter(New())
	token := registerAndLogin(t, router)

	resp := postJSON(t, router, "/assistant/command", map[string]string{"command": "   "}, token)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestValidateWithToken(t *testing.T) {
	router := NewRouter(New())
	token := registerAndLogin(t, router)

	req := httptest.NewRequest(http.MethodGet, "/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"isTokenValid":true`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestDashboardGreetsUser(t *testing.T) {
	router := NewRouter(New())
	token := registerAndLogin(t, router)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Welcome back, Ada!") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}
