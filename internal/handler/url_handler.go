package handler

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Siddarth2230/shortlink/internal/middleware"
	"github.com/Siddarth2230/shortlink/internal/models"
	"github.com/Siddarth2230/shortlink/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var shortenedTmpl = template.Must(template.ParseFS(templateFS, "templates/shortened.html"))

// maxFormBytes caps the /shorten body; URLs are limited to 2 KiB anyway.
const maxFormBytes = 8 << 10

// Shortener is the write side used by the handlers.
type Shortener interface {
	Create(ctx context.Context, rawURL string) (*models.Link, error)
	CreateCustom(ctx context.Context, rawURL, code string) (*models.Link, error)
}

// Resolver is the read side used by the handlers.
type Resolver interface {
	Resolve(ctx context.Context, code string) (string, error)
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// healthTimeout bounds each dependency check in /healthz.
const healthTimeout = 2 * time.Second

type URLHandler struct {
	shortener Shortener
	resolver  Resolver
	baseURL   string // without trailing slash; empty means derive from the request
	checks    []namedCheck
}

type namedCheck struct {
	name  string
	check HealthCheck
}

func NewURLHandler(shortener Shortener, resolver Resolver, baseURL string) *URLHandler {
	return &URLHandler{
		shortener: shortener,
		resolver:  resolver,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// AddHealthCheck makes /healthz fail with 503 while check returns an error.
func (h *URLHandler) AddHealthCheck(name string, check HealthCheck) {
	h.checks = append(h.checks, namedCheck{name: name, check: check})
}

// Register mounts every route on r. The catch-all redirect goes last so it
// cannot shadow the fixed paths.
func (h *URLHandler) Register(r *mux.Router) {
	r.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)
	r.HandleFunc("/shorten", h.ShortenForm).Methods(http.MethodPost)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/links", h.ShortenURL).Methods(http.MethodPost)
	api.HandleFunc("/links/{shortCode}", h.GetLink).Methods(http.MethodGet)

	r.HandleFunc("/{shortCode}", h.RedirectURL).Methods(http.MethodGet, http.MethodHead)
}

// POST /shorten (form-encoded, used by the browser UI)
func (h *URLHandler) ShortenForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeText(w, http.StatusBadRequest, "invalid form body")
		return
	}
	rawURL := r.PostFormValue("url")
	if strings.TrimSpace(rawURL) == "" {
		writeText(w, http.StatusBadRequest, "URL is required")
		return
	}

	link, err := h.create(r.Context(), rawURL, r.PostFormValue("code"))
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("ShortenForm error (request_id=%s): %v", middleware.RequestIDFrom(r.Context()), err)
		}
		writeText(w, status, msg)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := shortenedTmpl.Execute(w, map[string]string{
		"Code":     link.Code,
		"ShortURL": h.shortURL(r, link.Code),
		"LongURL":  link.TargetURL,
	}); err != nil {
		log.Printf("Template execution error: %v", err)
	}
}

// POST /api/v1/links
func (h *URLHandler) ShortenURL(w http.ResponseWriter, r *http.Request) {
	var req models.ShortenRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	link, err := h.create(r.Context(), req.URL, req.CustomCode)
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("ShortenURL error (request_id=%s): %v", middleware.RequestIDFrom(r.Context()), err)
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusCreated, models.ShortenResponse{
		ShortCode: link.Code,
		ShortURL:  h.shortURL(r, link.Code),
		LongURL:   link.TargetURL,
	})
}

// GET /{shortCode} - redirect to long URL
func (h *URLHandler) RedirectURL(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["shortCode"]

	longURL, err := h.resolver.Resolve(r.Context(), code)
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("RedirectURL error (request_id=%s): %v", middleware.RequestIDFrom(r.Context()), err)
		}
		writeText(w, status, msg)
		return
	}

	// 302 so browsers don't pin the mapping forever.
	http.Redirect(w, r, longURL, http.StatusFound)
}

// GET /api/v1/links/{shortCode}
func (h *URLHandler) GetLink(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["shortCode"]

	longURL, err := h.resolver.Resolve(r.Context(), code)
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("GetLink error (request_id=%s): %v", middleware.RequestIDFrom(r.Context()), err)
		}
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, models.ResolveResponse{ShortCode: code, LongURL: longURL})
}

// GET /healthz
func (h *URLHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	for _, c := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		err := c.check(ctx)
		cancel()
		if err != nil {
			log.Printf("Healthz: %s unavailable: %v", c.name, err)
			writeText(w, http.StatusServiceUnavailable, c.name+" unavailable")
			return
		}
	}
	writeText(w, http.StatusOK, "ok")
}

func (h *URLHandler) create(ctx context.Context, rawURL, code string) (*models.Link, error) {
	if code != "" {
		return h.shortener.CreateCustom(ctx, rawURL, code)
	}
	return h.shortener.Create(ctx, rawURL)
}

func (h *URLHandler) shortURL(r *http.Request, code string) string {
	base := h.baseURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/" + code
}

// statusFor maps service errors to an HTTP status and a message safe to
// show the user.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidURL), errors.Is(err, service.ErrInvalidCode):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrCodeTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "short code not found"
	case errors.Is(err, service.ErrGenerationExhausted):
		return http.StatusInternalServerError, "could not allocate a short code, please try again"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(msg)); err != nil {
		log.Printf("writeText error: %v", err)
	}
}

// helper: write JSON response
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON encode error: %v", err)
	}
}

// helper: write an error message in JSON form { "error": "msg" }
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
