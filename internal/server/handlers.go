package server

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/pedigree/pkg/buildinfo"
	"github.com/matzehuels/pedigree/pkg/cache"
	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/export"
	"github.com/matzehuels/pedigree/pkg/graph"
	"github.com/matzehuels/pedigree/pkg/httputil"
	"github.com/matzehuels/pedigree/pkg/pedigree/edit"
)

const writeWait = 10 * time.Second

// Status is the body of GET /api/status.
type Status struct {
	Session  string `json:"session"`
	Path     string `json:"path,omitempty"`
	Dirty    bool   `json:"dirty"`
	Busy     string `json:"busy,omitempty"`
	Revision uint64 `json:"revision"`
	Nodes    int    `json:"nodes"`
	Edges    int    `json:"edges"`
	Clients  int    `json:"clients"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.UserAgent(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	doc := s.sess.Snapshot()
	task, _ := s.sess.Busy()
	httputil.WriteJSON(w, http.StatusOK, Status{
		Session:  s.sess.ID.String(),
		Path:     s.sess.Path(),
		Dirty:    s.sess.Dirty(),
		Busy:     task,
		Revision: s.sess.Editor().Store().Revision(),
		Nodes:    len(doc.Nodes),
		Edges:    len(doc.Edges),
		Clients:  s.hub.Len(),
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	data, err := graph.Marshal(s.sess.Snapshot())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	etag := fmt.Sprintf("%q", cache.Hash(data))
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.Write(data)
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := s.sess.Load(r.Context(), body, "http"); err != nil {
		httputil.WriteError(w, err)
		return
	}
	s.handleGetDocument(w, r)
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httputil.WriteError(w, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read intent"))
		return
	}
	in, err := edit.ParseIntent(data)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := s.sess.Dispatch(in)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.SaveFile(r.Context(), ""); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"path":     s.sess.Path(),
		"revision": s.sess.Editor().Store().Revision(),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	a, err := s.sess.Export(r.Context(), f)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", a.ContentType)
	if a.Cached {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	disposition := "inline"
	if r.URL.Query().Has("download") {
		disposition = "attachment"
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, a.Filename))
	w.Write(a.Data)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	id, events, cancel := s.hub.Subscribe()
	defer cancel()
	s.logger.Debug("client connected", "client", id)

	data, err := graph.Marshal(s.sess.Snapshot())
	if err != nil {
		return
	}
	first := Event{Type: EventSnapshot, Revision: s.sess.Editor().Store().Revision(), Document: data}
	if err := s.send(conn, first); err != nil {
		return
	}

	// Clients only listen; reading detects when they go away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			s.logger.Debug("client disconnected", "client", id)
			return
		case ev, ok := <-events:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(writeWait))
				return
			}
			if err := s.send(conn, ev); err != nil {
				return
			}
		}
	}
}

func (s *Server) send(conn *websocket.Conn, ev Event) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(ev); err != nil {
		s.logger.Debug("websocket write failed", "error", err)
		return err
	}
	return nil
}
