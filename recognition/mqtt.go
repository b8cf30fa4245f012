package recognition

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/lixenwraith/word-popper/constants"
)

// MQTTConfig configures the MQTT recognition subscriber
type MQTTConfig struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
	Topic     string // Results topic; Topic + "/control" receives start/stop frames
	Lang      string
	SessionID func() string

	// NewClient overrides client construction, nil = paho.NewClient
	NewClient func(*paho.ClientOptions) paho.Client
}

// MQTTSource subscribes to a results topic published by an external recognizer
// The broker connection outlives subscriptions; each Listen subscribes afresh
type MQTTSource struct {
	cfg MQTTConfig

	mu     sync.Mutex
	client paho.Client
	active *stream
	closed bool
}

// NewMQTTSource creates an MQTT source; the connection opens on first Listen
func NewMQTTSource(cfg MQTTConfig) *MQTTSource {
	if cfg.NewClient == nil {
		cfg.NewClient = paho.NewClient
	}
	if cfg.Lang == "" {
		cfg.Lang = constants.RecognitionLang
	}
	return &MQTTSource{cfg: cfg}
}

func (m *MQTTSource) Name() string { return "mqtt" }

// ControlTopic is where start and stop frames are published
func (m *MQTTSource) ControlTopic() string {
	return m.cfg.Topic + "/control"
}

func (m *MQTTSource) connect() (paho.Client, error) {
	if m.client != nil && m.client.IsConnectionOpen() {
		return m.client, nil
	}

	opts := paho.NewClientOptions().
		AddBroker(m.cfg.BrokerURL).
		SetClientID(m.cfg.ClientID).
		SetAutoReconnect(false).
		SetConnectTimeout(constants.MQTTConnectWait)

	if m.cfg.Username != "" {
		opts.SetUsername(m.cfg.Username)
		opts.SetPassword(m.cfg.Password)
	}

	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Printf("[recognition] mqtt connection lost: %v", err)
		m.mu.Lock()
		s := m.active
		m.active = nil
		m.mu.Unlock()
		if s != nil {
			s.finish(fmt.Errorf("mqtt connection lost: %w", err))
		}
	})

	client := m.cfg.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(constants.MQTTConnectWait) {
		return nil, fmt.Errorf("mqtt connect %s: timeout", m.cfg.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", m.cfg.BrokerURL, err)
	}
	m.client = client
	return client, nil
}

// Listen connects if needed, subscribes to the results topic and publishes a start frame
func (m *MQTTSource) Listen(ctx context.Context) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if m.cfg.BrokerURL == "" || m.cfg.Topic == "" {
		return nil, fmt.Errorf("mqtt broker or topic empty: %w", ErrUnavailable)
	}

	client, err := m.connect()
	if err != nil {
		return nil, err
	}

	if m.active != nil {
		m.active.finish(nil)
	}

	topic := m.cfg.Topic
	var s *stream
	s = newStream(ctx, constants.StreamBufferSize, func() error {
		// A newer Listen owns the shared topic; leave its subscription alone
		m.mu.Lock()
		superseded := m.active != nil && m.active != s
		if m.active == s {
			m.active = nil
		}
		m.mu.Unlock()
		if superseded {
			return nil
		}

		client.Publish(m.ControlTopic(), 1, false, StopFrame())
		return pahoWait(client.Unsubscribe(topic))
	})

	handler := func(_ paho.Client, msg paho.Message) {
		h, err := Decode(msg.Payload(), m.Name())
		if err != nil {
			var remote *RemoteError
			if errors.As(err, &remote) && !remote.Benign() {
				s.finish(err)
				return
			}
			if remote == nil {
				log.Printf("[recognition] mqtt: skip payload on %s: %v", msg.Topic(), err)
			}
			return
		}
		s.send(Result{Hypothesis: h})
	}

	if err := pahoWait(client.Subscribe(topic, 1, handler)); err != nil {
		s.finish(nil)
		return nil, fmt.Errorf("mqtt subscribe %s: %w", topic, err)
	}

	sessionID := ""
	if m.cfg.SessionID != nil {
		sessionID = m.cfg.SessionID()
	}
	client.Publish(m.ControlTopic(), 1, false, StartFrame(sessionID, m.cfg.Lang, constants.MaxAlternatives))

	m.active = s
	return s, nil
}

// Close ends the active subscription and disconnects
func (m *MQTTSource) Close() error {
	m.mu.Lock()
	m.closed = true
	s := m.active
	client := m.client
	m.active = nil
	m.client = nil
	m.mu.Unlock()

	if s != nil {
		_ = s.Close()
	}
	if client != nil && client.IsConnected() {
		client.Disconnect(uint(constants.MQTTQuiesceMs))
	}
	return nil
}

// pahoWait bounds a token wait for callers without a deadline
func pahoWait(t paho.Token) error {
	if !t.WaitTimeout(constants.MQTTConnectWait) {
		return fmt.Errorf("mqtt: timed out after %v", constants.MQTTConnectWait)
	}
	return t.Error()
}
