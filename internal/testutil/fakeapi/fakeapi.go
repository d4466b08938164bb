// Package fakeapi runs an in-process stand-in for the Plant Disease Detector
// API, for tests of the HTTP client and everything built on it.
//
// The default handlers keep registered users in memory, issue one fixed
// token, require it for logout and history, and answer uploads with a
// configurable result. Any route can be replaced with Handle. Every request
// is counted and its Authorization header recorded.
package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// Token is issued by the default login handler.
const Token = "fake-access-token"

type user struct {
	Name     string
	Email    string
	Password string
}

// Server is safe for concurrent use.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	users     map[string]user
	overrides map[string]http.HandlerFunc
	calls     map[string]int
	auth      map[string]string
	uploads   []Upload

	// Result is returned by the default upload handler.
	Result map[string]any
	// Diseases is returned by GET /diseases/all.
	Diseases []map[string]any
	// History is returned by GET /history/all to authenticated callers.
	History []map[string]any
}

// Upload is one file received by the default upload handler.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		users:     make(map[string]user),
		overrides: make(map[string]http.HandlerFunc),
		calls:     make(map[string]int),
		auth:      make(map[string]string),
		Result: map[string]any{
			"diseases_name":  "Tomato__Late_blight",
			"reason":         "Phytophthora infestans",
			"recommendation": "Remove affected leaves and apply fungicide",
		},
		Diseases: []map[string]any{},
		History:  []map[string]any{},
	}

	r := mux.NewRouter()
	s.route(r, http.MethodGet, "/", s.ping)
	s.route(r, http.MethodPost, "/auth/login", s.login)
	s.route(r, http.MethodPost, "/auth/register", s.register)
	s.route(r, http.MethodPost, "/users/logout", s.logout)
	s.route(r, http.MethodPost, "/diseases/upload", s.upload)
	s.route(r, http.MethodGet, "/diseases/all", s.diseases)
	s.route(r, http.MethodGet, "/history/all", s.history)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

func key(method, path string) string { return method + " " + path }

func (s *Server) route(r *mux.Router, method, path string, def http.HandlerFunc) {
	k := key(method, path)
	r.HandleFunc(path, func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		s.calls[k]++
		s.auth[k] = req.Header.Get("Authorization")
		h, ok := s.overrides[k]
		s.mu.Unlock()

		if ok {
			h(w, req)
			return
		}
		def(w, req)
	}).Methods(method)
}

// Handle replaces the handler of one route.
func (s *Server) Handle(method, path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[key(method, path)] = h
}

// AddUser registers an account the default login handler accepts.
func (s *Server) AddUser(name, email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = user{Name: name, Email: email, Password: password}
}

// Calls returns how many requests reached the route.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key(method, path)]
}

// Authorization returns the Authorization header of the last request to
// the route.
func (s *Server) Authorization(method, path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth[key(method, path)]
}

// Uploads returns the files received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Detail writes a FastAPI-style validation error body.
func Detail(w http.ResponseWriter, status int, msgs ...string) {
	items := make([]map[string]any, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, map[string]any{"msg": m, "loc": []string{"body"}})
	}
	WriteJSON(w, status, map[string]any{"detail": items})
}

func authorized(req *http.Request) bool {
	return req.Header.Get("Authorization") == "Bearer "+Token
}

func (s *Server) ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = io.WriteString(w, "Plant Disease Detector API")
}

func (s *Server) login(w http.ResponseWriter, req *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		Detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	s.mu.Lock()
	u, ok := s.users[in.Email]
	s.mu.Unlock()

	if !ok || u.Password != in.Password {
		Detail(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"access_token": Token, "token_type": "bearer"})
}

func (s *Server) register(w http.ResponseWriter, req *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		Detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	s.mu.Lock()
	_, exists := s.users[in.Email]
	if !exists {
		s.users[in.Email] = user{Name: in.Name, Email: in.Email, Password: in.Password}
	}
	s.mu.Unlock()

	if exists {
		WriteJSON(w, http.StatusConflict, map[string]any{"detail": "user already exists"})
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"name": in.Name, "email": in.Email})
}

func (s *Server) logout(w http.ResponseWriter, req *http.Request) {
	if !authorized(req) {
		WriteJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Not authenticated"})
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) upload(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseMultipartForm(10 << 20); err != nil {
		Detail(w, http.StatusUnprocessableEntity, "invalid form")
		return
	}
	f, hdr, err := req.FormFile("file")
	if err != nil {
		Detail(w, http.StatusUnprocessableEntity, "field required")
		return
	}
	defer f.Close()
	data, _ := io.ReadAll(f)

	s.mu.Lock()
	s.uploads = append(s.uploads, Upload{
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Data:        data,
	})
	result := s.Result
	s.mu.Unlock()

	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) diseases(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	list := s.Diseases
	s.mu.Unlock()
	WriteJSON(w, http.StatusOK, list)
}

func (s *Server) history(w http.ResponseWriter, req *http.Request) {
	if !authorized(req) {
		WriteJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Not authenticated"})
		return
	}
	s.mu.Lock()
	list := s.History
	s.mu.Unlock()
	WriteJSON(w, http.StatusOK, list)
}
