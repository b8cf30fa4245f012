package recognition

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

// fakeBridge is a recognizer that replays scripted frames after the start frame
type fakeBridge struct {
	frames    []string
	closeWith int // 0 = keep open
	started   chan []byte
	sessionID chan string
}

func (fb *fakeBridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	fb.sessionID <- r.URL.Query().Get("session_id")

	_, start, err := conn.ReadMessage()
	if err != nil {
		return
	}
	fb.started <- start

	for _, f := range fb.frames {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
			return
		}
	}
	if fb.closeWith != 0 {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fb.closeWith, "done"))
		return
	}
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func newFakeBridge(frames []string, closeWith int) (*fakeBridge, *httptest.Server) {
	fb := &fakeBridge{
		frames:    frames,
		closeWith: closeWith,
		started:   make(chan []byte, 4),
		sessionID: make(chan string, 4),
	}
	srv := httptest.NewServer(fb)
	return fb, srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestBridgeDeliversResults(t *testing.T) {
	fb, srv := newFakeBridge([]string{
		`{"text":"ca","is_final":false}`,
		`garbage`,
		`{"error":"no-speech"}`,
		`{"text":"cat","is_final":true}`,
	}, 0)
	defer srv.Close()

	src := NewBridgeSource(BridgeConfig{
		URL:       wsURL(srv),
		SessionID: func() string { return "sess-1" },
	})
	defer src.Close()

	sub, err := src.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer sub.Close()

	if got := <-fb.sessionID; got != "sess-1" {
		t.Errorf("session_id = %q", got)
	}
	if start := <-fb.started; FrameType(start) != "start" {
		t.Errorf("first frame = %s", start)
	}

	r, _ := recv(t, sub)
	if r.Hypothesis.Text != "ca" || r.Hypothesis.Final {
		t.Errorf("partial = %+v", r.Hypothesis)
	}
	r, _ = recv(t, sub)
	if r.Hypothesis.Text != "cat" || !r.Hypothesis.Final || r.Hypothesis.Source != "bridge" {
		t.Errorf("final = %+v", r.Hypothesis)
	}
}

func TestBridgeNormalCloseEndsWithoutError(t *testing.T) {
	_, srv := newFakeBridge([]string{`{"text":"sun","is_final":true}`}, websocket.CloseNormalClosure)
	defer srv.Close()

	src := NewBridgeSource(BridgeConfig{URL: wsURL(srv)})
	sub, err := src.Listen(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	r, ok := recv(t, sub)
	if !ok || r.Hypothesis.Text != "sun" {
		t.Fatalf("result = %+v", r)
	}
	r, ok = recv(t, sub)
	if ok {
		t.Errorf("expected closed channel, got %+v", r)
	}
}

func TestBridgeRemoteErrorEndsStream(t *testing.T) {
	_, srv := newFakeBridge([]string{`{"error":"network"}`}, 0)
	defer srv.Close()

	src := NewBridgeSource(BridgeConfig{URL: wsURL(srv)})
	sub, err := src.Listen(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	r, _ := recv(t, sub)
	var remote *RemoteError
	if !errors.As(r.Err, &remote) || remote.Code != "network" {
		t.Errorf("result = %+v, want network RemoteError", r)
	}
	if _, ok := recv(t, sub); ok {
		t.Error("stream should end after a remote error")
	}
}

func TestBridgeHandshakeRejectedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	src := NewBridgeSource(BridgeConfig{URL: wsURL(srv)})
	_, err := src.Listen(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Listen = %v, want ErrUnavailable", err)
	}
}

func TestBridgeDialFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	src := NewBridgeSource(BridgeConfig{URL: url})
	_, err := src.Listen(context.Background())
	if err == nil || errors.Is(err, ErrUnavailable) {
		t.Fatalf("Listen = %v, want transient dial error", err)
	}
}

func TestBridgeEmptyURLAndClosed(t *testing.T) {
	src := NewBridgeSource(BridgeConfig{})
	if _, err := src.Listen(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("empty url Listen = %v", err)
	}
	_ = src.Close()
	if _, err := src.Listen(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("closed Listen = %v", err)
	}
}
