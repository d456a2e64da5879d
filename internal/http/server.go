package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"imgsort/internal/log"
	"imgsort/internal/watch"
)

// Follow refreshes the session on every watcher event until the channel
// closes or ctx is done.
func (s *Server) Follow(ctx context.Context, w *watch.Watcher) {
	events := w.FileChannel()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			log.LogWithFields(log.F("file", ev.Path)).Debug("directory changed")
			s.mu.Lock()
			s.session.Refresh()
			s.mu.Unlock()
		}
	}
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.LogWithFields(log.F("addr", addr)).Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("HTTP server stopped")
	return nil
}
