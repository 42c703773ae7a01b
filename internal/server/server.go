// Package server exposes the sticker gallery over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/maax3v3/diecut/internal/datauri"
	"github.com/maax3v3/diecut/internal/gallery"
	"github.com/maax3v3/diecut/internal/generator"
	"github.com/maax3v3/diecut/internal/imaging"
)

// maxBodyBytes bounds JSON request bodies, which may carry data URIs.
const maxBodyBytes = 48 << 20

// Server routes HTTP requests to the gallery, the generator and the
// background remover.
type Server struct {
	store   *gallery.Store
	gen     generator.Generator
	remover gallery.Remover
	log     *slog.Logger
	timeout time.Duration
}

// Config holds the collaborators of a Server.
type Config struct {
	Store     *gallery.Store
	Generator generator.Generator
	Remover   gallery.Remover
	Logger    *slog.Logger

	// Timeout bounds each request. 0 means two minutes.
	Timeout time.Duration
}

// New creates a Server.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Server{
		store:   cfg.Store,
		gen:     cfg.Generator,
		remover: cfg.Remover,
		log:     logger,
		timeout: timeout,
	}
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/themes", s.listThemes)
	r.Post("/remove-background", s.removeBackground)

	r.Route("/stickers", func(r chi.Router) {
		r.Get("/", s.listStickers)
		r.Post("/", s.createSticker)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSticker)
			r.Delete("/", s.deleteSticker)
			r.Post("/remix", s.remixSticker)
			r.Post("/background", s.toggleBackground)
			r.Get("/image", s.stickerImage)
		})
	})
	return r
}

type themeJSON struct {
	Name        generator.Theme `json:"name"`
	Description string          `json:"description"`
}

func (s *Server) listThemes(w http.ResponseWriter, r *http.Request) {
	themes := generator.Themes()
	out := make([]themeJSON, len(themes))
	for i, t := range themes {
		out[i] = themeJSON{Name: t, Description: t.Description()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listStickers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

type createRequest struct {
	Prompt string `json:"prompt"`
	Theme  string `json:"theme"`
}

func (s *Server) createSticker(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	theme, err := generator.ParseTheme(req.Theme)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.generate(w, r, req.Prompt, theme)
}

func (s *Server) remixSticker(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.generate(w, r, st.Prompt, st.Theme)
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request, prompt string, theme generator.Theme) {
	img, err := s.gen.Generate(r.Context(), prompt, theme)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	st := s.store.Add(img, prompt, theme)
	s.log.Info("sticker created", "id", st.ID, "theme", st.Theme)
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) getSticker(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) deleteSticker(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Remove(chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleBackground(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.ToggleBackground(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) stickerImage(w http.ResponseWriter, r *http.Request) {
	uri, st, err := s.store.Current(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	mime, data, err := datauri.Parse(uri)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", `attachment; filename="`+gallery.Filename(st)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type imageJSON struct {
	Image string `json:"image"`
}

func (s *Server) removeBackground(w http.ResponseWriter, r *http.Request) {
	var req imageJSON
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.remover.RemoveBackground(r.Context(), req.Image)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, imageJSON{Image: out})
}

// fail maps domain errors to HTTP status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, gallery.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, generator.ErrEmptyPrompt), errors.Is(err, imaging.ErrDecode):
		status = http.StatusBadRequest
	case errors.Is(err, imaging.ErrSurface):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, generator.ErrGeneration):
		status = http.StatusBadGateway
	}
	if status >= 500 {
		s.log.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
	}
	writeError(w, status, err.Error())
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
