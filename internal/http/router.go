package http

import (
	"bytes"
	_ "embed"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"imgsort/internal/log"
	"imgsort/internal/session"
	"imgsort/internal/watch"
)

//go:embed help.md
var helpMarkdown []byte

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Session *session.Session
	Watcher *watch.Watcher // optional, retargeted on directory changes
}

// Server serialises every request against one session.
type Server struct {
	mu       sync.Mutex
	session  *session.Session
	watcher  *watch.Watcher
	helpHTML []byte
}

// NewServer renders the help page and wraps s.
func NewServer(s *session.Session) (*Server, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>imgsort</title></head>\n<body>\n")
	if err := md.Convert(helpMarkdown, &buf); err != nil {
		return nil, err
	}
	buf.WriteString("</body>\n</html>\n")
	return &Server{session: s, helpHTML: buf.Bytes()}, nil
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) (http.Handler, *Server, error) {
	srv, err := NewServer(deps.Session)
	if err != nil {
		return nil, nil, err
	}
	srv.watcher = deps.Watcher

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", srv.handleSession)
		r.Post("/annotate", srv.handleAnnotate)
		r.Post("/back", srv.handleBack)
		r.Post("/skip", srv.handleSkip)
		r.Post("/directory", srv.handleDirectory)
		r.Post("/categories", srv.handleCategories)
		r.Post("/keywords", srv.handleKeywords)
		r.Post("/reset", srv.handleReset)
		r.Post("/hide", srv.handleHide)
		r.Post("/clamp", srv.handleClamp)
		r.Post("/move", srv.handleMove)
		r.Post("/move-keyword", srv.handleMoveKeyword)
	})
	r.Get("/images/{name}", srv.handleImage)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(srv.helpHTML); err != nil {
			log.LogWithError(err).Debug("failed to write help page")
		}
	})

	return r, srv, nil
}
