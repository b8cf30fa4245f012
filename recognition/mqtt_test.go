package recognition

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// doneToken is an already-completed paho token
type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t doneToken) Error() error { return t.err }

type fakeMessage struct {
	paho.Message
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string   { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

// fakeMQTT records the calls MQTTSource makes on a paho client
type fakeMQTT struct {
	paho.Client
	opts       *paho.ClientOptions
	connectErr error

	mu           sync.Mutex
	connected    bool
	handlers     map[string]paho.MessageHandler
	published    map[string][][]byte
	unsubscribed []string
}

func (c *fakeMQTT) Connect() paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connectErr == nil {
		c.connected = true
	}
	return doneToken{err: c.connectErr}
}

func (c *fakeMQTT) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeMQTT) IsConnectionOpen() bool { return c.IsConnected() }

func (c *fakeMQTT) Disconnect(uint) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
}

func (c *fakeMQTT) Subscribe(topic string, _ byte, h paho.MessageHandler) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = h
	return doneToken{}
}

func (c *fakeMQTT) Unsubscribe(topics ...string) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range topics {
		delete(c.handlers, t)
		c.unsubscribed = append(c.unsubscribed, t)
	}
	return doneToken{}
}

func (c *fakeMQTT) Publish(topic string, _ byte, _ bool, payload any) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published[topic] = append(c.published[topic], payload.([]byte))
	return doneToken{}
}

func (c *fakeMQTT) deliver(topic, payload string) {
	c.mu.Lock()
	h := c.handlers[topic]
	c.mu.Unlock()
	if h != nil {
		h(c, fakeMessage{topic: topic, payload: []byte(payload)})
	}
}

func newFakeMQTTSource(connectErr error) (*MQTTSource, *fakeMQTT) {
	fake := &fakeMQTT{
		connectErr: connectErr,
		handlers:   make(map[string]paho.MessageHandler),
		published:  make(map[string][][]byte),
	}
	src := NewMQTTSource(MQTTConfig{
		BrokerURL: "tcp://broker:1883",
		ClientID:  "test",
		Topic:     "wordpop/recognition",
		NewClient: func(o *paho.ClientOptions) paho.Client {
			fake.opts = o
			return fake
		},
	})
	return src, fake
}

func TestMQTTSourceDelivers(t *testing.T) {
	src, fake := newFakeMQTTSource(nil)
	defer src.Close()

	sub, err := src.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	if got := fake.published[src.ControlTopic()]; len(got) != 1 || FrameType(got[0]) != "start" {
		t.Fatalf("control frames = %q", got)
	}

	fake.deliver("wordpop/recognition", `{"text":"yes","is_final":true}`)
	fake.deliver("wordpop/recognition", `{{{`)
	fake.deliver("wordpop/recognition", `{"text":"no","is_final":true}`)

	r, _ := recv(t, sub)
	if r.Hypothesis.Text != "yes" || r.Hypothesis.Source != "mqtt" {
		t.Errorf("first = %+v", r)
	}
	r, _ = recv(t, sub)
	if r.Hypothesis.Text != "no" {
		t.Errorf("second = %+v", r)
	}

	_ = sub.Close()
	if len(fake.unsubscribed) != 1 {
		t.Errorf("unsubscribed = %v", fake.unsubscribed)
	}
	if got := fake.published[src.ControlTopic()]; FrameType(got[len(got)-1]) != "stop" {
		t.Errorf("last control frame = %s", got[len(got)-1])
	}
}

func TestMQTTConnectionLostEndsStream(t *testing.T) {
	src, fake := newFakeMQTTSource(nil)
	defer src.Close()

	sub, err := src.Listen(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	fake.opts.OnConnectionLost(fake, errors.New("eof"))

	r, ok := recv(t, sub)
	if !ok || r.Err == nil {
		t.Fatalf("result = %+v, want error", r)
	}
	if _, ok := recv(t, sub); ok {
		t.Error("stream should close after connection loss")
	}
}

func TestMQTTConnectFailure(t *testing.T) {
	src, _ := newFakeMQTTSource(errors.New("refused"))
	_, err := src.Listen(context.Background())
	if err == nil || errors.Is(err, ErrUnavailable) {
		t.Fatalf("Listen = %v, want transient error", err)
	}
}

func TestMQTTMissingTopicUnavailable(t *testing.T) {
	src := NewMQTTSource(MQTTConfig{BrokerURL: "tcp://broker:1883"})
	if _, err := src.Listen(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Listen = %v, want ErrUnavailable", err)
	}
}

func TestMQTTStaleCloseKeepsNewerSubscription(t *testing.T) {
	src, fake := newFakeMQTTSource(nil)
	defer src.Close()

	old, err := src.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen old: %v", err)
	}
	live, err := src.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen live: %v", err)
	}

	// The earlier subscription is released after the newer one took over
	_ = old.Close()

	fake.mu.Lock()
	unsubscribed := append([]string(nil), fake.unsubscribed...)
	fake.mu.Unlock()
	if len(unsubscribed) != 0 {
		t.Fatalf("stale close unsubscribed %v", unsubscribed)
	}

	fake.deliver("wordpop/recognition", `{"text":"cat","is_final":true}`)
	r, _ := recv(t, live)
	if r.Hypothesis.Text != "cat" {
		t.Fatalf("live subscription got %+v", r)
	}

	_ = live.Close()
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.unsubscribed) != 1 {
		t.Errorf("unsubscribed = %v, want one entry from the live close", fake.unsubscribed)
	}
}
