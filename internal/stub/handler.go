// Package stub implements a local development stand-in for the remote
// Assistant App backend, close enough to the real contract for the console
// client and its tests.
package stub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/assistant-app/console/pkg/httputil"
)

type user struct {
	ID    string
	Name  string
	Email string
	hash  []byte
}

// Handler serves the stubbed API from in-memory state.
type Handler struct {
	mu     sync.Mutex
	users  map[string]*user  // keyed by email
	tokens map[string]string // token -> email
}

// New creates an empty stub backend.
func New() *Handler {
	return &Handler{
		users:  make(map[string]*user),
		tokens: make(map[string]string),
	}
}

// RegisterRoutes wires the stub endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
	r.Get("/auth/validate", h.requireAuth(h.handleValidate))
	r.Post("/assistant/command", h.requireAuth(h.handleCommand))
	r.Post("/assistant/voice", h.requireAuth(h.handleVoice))
	r.Get("/dashboard", h.requireAuth(h.handleDashboard))
	r.Get("/speech/recognize", h.handleRecognize)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Name == "" || payload.Email == "" || payload.Password == "" {
		httputil.RespondError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.users[payload.Email]; exists {
		httputil.RespondError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	h.users[payload.Email] = &user{
		ID:    uuid.NewString(),
		Name:  payload.Name,
		Email: payload.Email,
		hash:  hash,
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    map[string]string{"name": payload.Name, "email": payload.Email},
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	account, ok := h.users[payload.Email]
	if !ok || bcrypt.CompareHashAndPassword(account.hash, []byte(payload.Password)) != nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token := uuid.NewString()
	h.tokens[token] = account.Email

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]string{
			"id":    account.ID,
			"name":  account.Name,
			"email": account.Email,
		},
	})
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"isTokenValid": true})
}

func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Command string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Command) == "" {
		httputil.RespondError(w, http.StatusBadRequest, "command is required")
		return
	}

	account := h.currentUser(r)
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"response": cannedResponse(account.Name, payload.Command),
		"status":   "success",
	})
}

func (h *Handler) handleVoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, _, err := r.FormFile("audio")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	transcribed := "This is a simulated transcription of your voice command"
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"response": fmt.Sprintf("I heard: '%s'. I'm processing your request...", transcribed),
		"status":   "success",
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	account := h.currentUser(r)
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"greeting": fmt.Sprintf("Welcome back, %s!", account.Name),
		"tips": []string{
			"Type a command to talk to your assistant.",
			"Use /voice to speak instead of typing.",
		},
	})
}

func cannedResponse(name, command string) string {
	lower := strings.ToLower(command)
	switch {
	case strings.Contains(lower, "hello") || strings.Contains(lower, "hi"):
		return fmt.Sprintf("Hello %s! How can I assist you today?", name)
	case strings.Contains(lower, "weather"):
		return "I can help you check the weather, but I need integration with a weather API first."
	case strings.Contains(lower, "order") && strings.Contains(lower, "food"):
		return "I can help you order food! Please specify what you'd like to order."
	default:
		return fmt.Sprintf("I received your command: '%s'. I'm processing it now...", command)
	}
}
