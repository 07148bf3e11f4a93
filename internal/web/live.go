package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/libsearch/internal/resource"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// liveMessage carries a resolved collection to a page rendered as loading.
type liveMessage struct {
	Kind  string          `json:"kind"`
	Items []resource.Item `json:"items"`
}

// handleLive sends the collection the visitor's last view of kind is waiting
// on, once that fetch completes. A failed fetch, or a visitor with no such
// view, is sent as an empty list.
func (a *App) handleLive(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if _, ok := a.clients[kind]; !ok {
		http.Error(w, "unknown collection", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Debug("live: websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	// The client never sends; reading only surfaces a close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	msg := liveMessage{Kind: kind, Items: []resource.Item{}}
	if s := a.lookupSession(r); s != nil {
		if col := s.collection(kind); col != nil {
			select {
			case <-col.Done():
			case <-closed:
				return
			}
			msg.Items = col.Items()
		}
	}
	if err := conn.WriteJSON(msg); err != nil {
		a.logger.Debug("live: websocket write", zap.Error(err))
		return
	}
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
