package recognition

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/word-popper/constants"
)

// WebSocketHandler accepts browser pages running the Web Speech API
// Result frames are decoded and pushed into a FeedSource
// The page is told to start on connect and receives stop/start when listening toggles
type WebSocketHandler struct {
	feed     *FeedSource
	upgrader websocket.Upgrader
	lang     string

	mu    sync.Mutex
	peers map[*wsConn]struct{}
}

// NewWebSocketHandler creates a handler feeding the given source
func NewWebSocketHandler(feed *FeedSource, lang string) *WebSocketHandler {
	if lang == "" {
		lang = constants.RecognitionLang
	}
	h := &WebSocketHandler{
		feed: feed,
		lang: lang,
		upgrader: websocket.Upgrader{
			// Local page served from another port during development
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		peers: make(map[*wsConn]struct{}),
	}
	feed.SetNotify(func(listening bool) {
		if listening {
			h.Broadcast(StartFrame("", h.lang, constants.MaxAlternatives))
		} else {
			h.Broadcast(StopFrame())
		}
	})
	return h
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[recognition] ws upgrade: %v", err)
		return
	}

	ws := newWSConn(conn)
	h.mu.Lock()
	h.peers[ws] = struct{}{}
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.peers, ws)
		h.mu.Unlock()
		_ = ws.shutdown("bye")
	}()

	ws.keepalive()
	if err := ws.write(websocket.TextMessage, StartFrame(r.URL.Query().Get("session_id"), h.lang, constants.MaxAlternatives)); err != nil {
		return
	}

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[recognition] ws read: %v", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		ws.extendRead()

		hyp, err := Decode(payload, h.feed.Name())
		if err != nil {
			var remote *RemoteError
			if errors.As(err, &remote) {
				if !remote.Benign() {
					h.feed.Fail(err)
				}
				continue
			}
			log.Printf("[recognition] ws: skip payload: %v", err)
			continue
		}
		h.feed.Push(hyp)
	}
}

// Broadcast sends a control frame to every connected page
func (h *WebSocketHandler) Broadcast(frame []byte) int {
	h.mu.Lock()
	peers := make([]*wsConn, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	sent := 0
	for _, p := range peers {
		if err := p.write(websocket.TextMessage, frame); err == nil {
			sent++
		}
	}
	return sent
}

// Peers returns the number of connected pages
func (h *WebSocketHandler) Peers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}
