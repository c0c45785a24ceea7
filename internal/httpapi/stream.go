package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// streamKeepAlive is how often an idle event stream sends a comment line so
// proxies and clients do not drop it.
const streamKeepAlive = 15 * time.Second

// handleCommunityStream pushes community events to the client as server-sent
// events until the client disconnects or the server shuts down.
//
// The server's write timeout would cut the stream off, so it is cleared for
// this response.
func (s *Server) handleCommunityStream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.writeError(w, r, fmt.Errorf("clearing stream write deadline: %w", err))
		return
	}
	sub, cancel := s.feed.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.logger.Warn("community stream cannot flush", zap.Error(err))
		return
	}

	interval := s.keepAlive
	if interval <= 0 {
		interval = streamKeepAlive
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case ev, open := <-sub.Events():
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.Warn("encoding community event", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
