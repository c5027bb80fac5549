package pose

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"arc-sound.klederson.com/internal/config"
	"arc-sound.klederson.com/internal/log"
)

// ArmMsg is sent via tea.Program.Send when an arm pose arrives.
type ArmMsg struct {
	Arm Arm
}

// FeedErrorMsg reports a rejected message or a lost connection.
type FeedErrorMsg struct {
	Err error
}

// FeedStateMsg reports the connection coming up or going down.
type FeedStateMsg struct {
	Connected bool
	Source    string
}

// Sender is the part of tea.Program the feeds use.
type Sender interface {
	Send(msg tea.Msg)
}

// Feed produces arm poses for the program.
type Feed interface {
	Start(p Sender) error
	Stop()
}

// Client is a websocket connection to the pose tracker.
type Client struct {
	url      string
	greeting string
	logger   *slog.Logger

	mu   sync.Mutex // guards conn and writes
	conn *websocket.Conn
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithGreeting sends text once the connection is up.
func WithGreeting(text string) ClientOption {
	return func(c *Client) { c.greeting = text }
}

// WithClientLogger sets the logger.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for url. Nothing is dialled until Dial.
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{url: url}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.With("component", "pose")
	}
	return c
}

// URL returns the feed endpoint.
func (c *Client) URL() string { return c.url }

// Dial opens the connection and sends the greeting, if any.
func (c *Client) Dial(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: config.PoseDialTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return &ConnectionError{Op: "dial", URL: c.url, Cause: err}
	}
	conn.SetReadLimit(config.PoseReadLimit)

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.logger.Info("pose feed connected", "url", c.url)

	if c.greeting != "" {
		if err := c.SendText(c.greeting); err != nil {
			return err
		}
	}
	return nil
}

// SendText writes one text message.
func (c *Client) SendText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return &ConnectionError{Op: "write", URL: c.url, Cause: err}
	}
	return nil
}

// Run reads messages until ctx is cancelled or the connection fails.
// Malformed messages go to onBad and reading continues. Cancellation and a
// normal close by the server return nil; anything else is a *ConnectionError.
func (c *Client) Run(ctx context.Context, onArm func(Arm), onBad func(error)) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info("pose feed closed", "url", c.url)
				return nil
			}
			return &ConnectionError{Op: "read", URL: c.url, Cause: err}
		}

		arm, err := ParseArm(data)
		if err != nil {
			c.logger.Warn("pose message skipped", "error", err, "bytes", len(data))
			if onBad != nil {
				onBad(err)
			}
			continue
		}
		arm.Received = time.Now()
		c.logger.Debug("pose received", "wrist", arm.Wrist)
		if onArm != nil {
			onArm(arm)
		}
	}
}

// Close sends a close frame and releases the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	conn := c.conn
	c.conn = nil

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return conn.Close()
}

// WebsocketFeed runs a Client in the background and forwards its output as tea messages.
type WebsocketFeed struct {
	client *Client
	cancel context.CancelFunc
}

// NewWebsocketFeed wraps client as a Feed.
func NewWebsocketFeed(client *Client) *WebsocketFeed {
	return &WebsocketFeed{client: client}
}

// Start dials and begins reading. A dial failure is returned and not retried.
// Messages are only sent from the reader goroutine, so Start is safe to call
// before the program runs.
func (f *WebsocketFeed) Start(p Sender) error {
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel

	if err := f.client.Dial(ctx); err != nil {
		cancel()
		return err
	}

	send := func(msg tea.Msg) {
		if ctx.Err() == nil {
			p.Send(msg)
		}
	}
	go func() {
		send(FeedStateMsg{Connected: true, Source: f.client.URL()})
		err := f.client.Run(ctx,
			func(arm Arm) { send(ArmMsg{Arm: arm}) },
			func(err error) { send(FeedErrorMsg{Err: err}) },
		)
		if err != nil && !errors.Is(err, context.Canceled) {
			send(FeedErrorMsg{Err: err})
		}
		send(FeedStateMsg{Connected: false, Source: f.client.URL()})
	}()
	return nil
}

// Stop closes the connection. It does not wait for the reader goroutine,
// which exits once its read fails.
func (f *WebsocketFeed) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
	_ = f.client.Close()
}
