package recognition

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/word-popper/constants"
	"github.com/lixenwraith/word-popper/core"
)

// BridgeConfig configures the websocket ASR bridge client
type BridgeConfig struct {
	URL             string
	Lang            string
	MaxAlternatives int
	SessionID       func() string // Tags each session, nil = none
	Dialer          *websocket.Dialer
}

// BridgeSource dials a websocket recognizer per subscription
// Each Listen opens a fresh connection; text frames carry JSON results
type BridgeSource struct {
	cfg BridgeConfig

	mu     sync.Mutex
	active *bridgeSession
	closed bool
}

type bridgeSession struct {
	*stream
	ws *wsConn
}

// NewBridgeSource creates a bridge client
func NewBridgeSource(cfg BridgeConfig) *BridgeSource {
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	if cfg.MaxAlternatives <= 0 {
		cfg.MaxAlternatives = constants.MaxAlternatives
	}
	if cfg.Lang == "" {
		cfg.Lang = constants.RecognitionLang
	}
	return &BridgeSource{cfg: cfg}
}

func (b *BridgeSource) Name() string { return "bridge" }

// Listen dials the bridge and sends the start control frame
// A handshake rejection means the bridge does not serve recognition and maps to ErrUnavailable
func (b *BridgeSource) Listen(ctx context.Context) (Subscription, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}
	b.mu.Unlock()

	if b.cfg.URL == "" {
		return nil, fmt.Errorf("bridge url empty: %w", ErrUnavailable)
	}
	u, err := url.Parse(b.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid bridge url: %w: %w", ErrUnavailable, err)
	}

	sessionID := ""
	if b.cfg.SessionID != nil {
		sessionID = b.cfg.SessionID()
		q := u.Query()
		q.Set("session_id", sessionID)
		u.RawQuery = q.Encode()
	}

	conn, resp, err := b.cfg.Dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if errors.Is(err, websocket.ErrBadHandshake) {
			status := 0
			if resp != nil {
				status = resp.StatusCode
			}
			return nil, fmt.Errorf("bridge handshake (status %d): %w", status, ErrUnavailable)
		}
		return nil, fmt.Errorf("dial bridge: %w", err)
	}

	ws := newWSConn(conn)
	if err := ws.write(websocket.TextMessage, StartFrame(sessionID, b.cfg.Lang, b.cfg.MaxAlternatives)); err != nil {
		_ = ws.shutdown("start failed")
		return nil, fmt.Errorf("send start: %w", err)
	}

	sess := &bridgeSession{ws: ws}
	sess.stream = newStream(ctx, constants.StreamBufferSize, func() error {
		_ = ws.write(websocket.TextMessage, StopFrame())
		return ws.shutdown("stop")
	})

	b.mu.Lock()
	prev := b.active
	b.active = sess
	b.mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}

	ws.keepalive()
	core.Go(func() { b.readLoop(sess) })
	return sess, nil
}

func (b *BridgeSource) readLoop(sess *bridgeSession) {
	// Stream end from any cause releases the socket
	defer func() { _ = sess.Close() }()

	for {
		messageType, payload, err := sess.ws.conn.ReadMessage()
		if err != nil {
			if sess.ws.closed() || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				sess.finish(nil)
				return
			}
			sess.finish(fmt.Errorf("bridge read: %w", err))
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		sess.ws.extendRead()

		h, err := Decode(payload, b.Name())
		if err != nil {
			var remote *RemoteError
			if errors.As(err, &remote) {
				if remote.Benign() {
					continue
				}
				sess.finish(err)
				return
			}
			log.Printf("[recognition] bridge: skip payload: %v", err)
			continue
		}
		if !sess.send(Result{Hypothesis: h}) {
			return
		}
	}
}

// Close ends the active session and rejects further Listen calls
func (b *BridgeSource) Close() error {
	b.mu.Lock()
	b.closed = true
	sess := b.active
	b.active = nil
	b.mu.Unlock()
	if sess != nil {
		return sess.Close()
	}
	return nil
}
