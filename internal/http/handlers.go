package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"imgsort/internal/errors"
	"imgsort/internal/keyword"
	"imgsort/internal/log"
	"imgsort/internal/organize"
	"imgsort/internal/session"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// MoveResponse reports a reconcile run alongside the refreshed view.
type MoveResponse struct {
	BatchID  string       `json:"batch_id"`
	Mode     string       `json:"mode"`
	DryRun   bool         `json:"dry_run"`
	Messages []string     `json:"messages"`
	Moved    []string     `json:"moved"`
	Error    string       `json:"error,omitempty"`
	View     session.View `json:"view"`
}

type annotateRequest struct {
	Label string `json:"label"`
}

type directoryRequest struct {
	Path string `json:"path"`
}

type categoriesRequest struct {
	Categories string `json:"categories"`
}

type keywordsRequest struct {
	Keywords  string `json:"keywords"`
	Separator string `json:"separator"`
	Mode      string `json:"mode"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.session.View())
}

func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	var req annotateRequest
	if !decode(w, r, &req) {
		return
	}
	s.apply(w, func(sess *session.Session) error { return sess.Annotate(req.Label) })
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.apply(w, func(sess *session.Session) error { sess.Back(); return nil })
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	s.apply(w, func(sess *session.Session) error { sess.Skip(); return nil })
}

func (s *Server) handleDirectory(w http.ResponseWriter, r *http.Request) {
	var req directoryRequest
	if !decode(w, r, &req) {
		return
	}
	s.apply(w, func(sess *session.Session) error {
		if err := sess.ChangeDirectory(req.Path); err != nil {
			return err
		}
		if s.watcher != nil {
			if err := s.watcher.Retarget(sess.Directory()); err != nil {
				log.LogWithError(err).Warn("could not watch directory")
			}
		}
		return nil
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	var req categoriesRequest
	if !decode(w, r, &req) {
		return
	}
	s.apply(w, func(sess *session.Session) error { return sess.ChangeCategories(req.Categories) })
}

func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	var req keywordsRequest
	if !decode(w, r, &req) {
		return
	}
	phrases := keyword.ParsePhrases(req.Keywords)
	s.apply(w, func(sess *session.Session) error {
		if len(phrases) == 0 {
			sess.ClearKeywords()
			return nil
		}
		sess.SetKeywords(keyword.NewSpec(phrases, req.Separator, keyword.ParseMode(req.Mode)))
		return nil
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.apply(w, func(sess *session.Session) error { return sess.ResetAnnotations() })
}

func (s *Server) handleHide(w http.ResponseWriter, r *http.Request) {
	s.apply(w, func(sess *session.Session) error { sess.ToggleHide(); return nil })
}

func (s *Server) handleClamp(w http.ResponseWriter, r *http.Request) {
	s.apply(w, func(sess *session.Session) error { sess.ToggleClamp(); return nil })
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	s.move(w, func(sess *session.Session) (*organize.Report, error) { return sess.MoveFiles() })
}

func (s *Server) handleMoveKeyword(w http.ResponseWriter, r *http.Request) {
	s.move(w, func(sess *session.Session) (*organize.Report, error) { return sess.MoveFilesByKeyword() })
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	s.mu.Lock()
	path, ok := s.session.Path(name)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, errors.NewFileError("image not in listing", name, errors.FileNotFound, nil))
		return
	}
	http.ServeFile(w, r, path)
}

// apply runs fn under the session lock and answers with the resulting view.
func (s *Server) apply(w http.ResponseWriter, fn func(*session.Session) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.session); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.View())
}

func (s *Server) move(w http.ResponseWriter, fn func(*session.Session) (*organize.Report, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := fn(s.session)
	if report == nil {
		writeError(w, statusFor(err), err)
		return
	}

	resp := MoveResponse{
		BatchID:  report.BatchID,
		Mode:     string(report.Mode),
		DryRun:   report.DryRun,
		Messages: report.Messages(),
		Moved:    report.Moved(),
		View:     s.session.View(),
	}
	if resp.Moved == nil {
		resp.Moved = []string{}
	}
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = statusFor(err)
	}
	writeJSON(w, status, resp)
}

// statusFor maps an error kind onto an HTTP status.
func statusFor(err error) int {
	switch errors.KindOf(err) {
	case errors.InvalidInputData, errors.InvalidDirectory, errors.InvalidPath, errors.InvalidGroup:
		return http.StatusBadRequest
	case errors.FileNotFound:
		return http.StatusNotFound
	case errors.FileAccessDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, errors.NewInvalidInputError("invalid request body", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.LogWithError(err).Error("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	if kind := errors.KindOf(err); kind != errors.Unknown {
		resp.Kind = kind.String()
	}
	writeJSON(w, status, resp)
}
