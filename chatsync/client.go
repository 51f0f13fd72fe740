package chatsync

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/chatsync/chatsync-go/chatsync/internal"
	"github.com/chatsync/chatsync-go/chatsync/rest"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Client is the synchronization core for one chat session: it owns the
// persistent server connection, the login handshake, the online-user
// roster and the message transcript. A presentation layer reads
// snapshots via State/Session/Roster/Transcript and feeds the two user
// intents through SubmitUsername and SendMessage.
type Client struct {
	cfg        Config
	logger     Logger
	dispatcher Dispatcher
	writeCh    chan Emit

	mu       sync.Mutex
	state    ConnectionState
	conn     *internal.Conn
	rest     *rest.Client
	cancel   context.CancelFunc
	connID   string
	loginTmr *time.Timer

	session    session
	roster     roster
	transcript transcript

	onStateChange  func(StateEvent)
	onRosterChange func([]User)
	onLogin        func()
	onMessage      func(Message)
	onError        func(error)
}

// NewClient constructs a client with provided config.
// Use DefaultConfig() as a starting point and modify as needed.
// Set a timeout to 0 to disable it.
func NewClient(cfg Config) *Client {
	c := &Client{
		cfg:     cfg,
		logger:  noopLogger{},
		writeCh: make(chan Emit, 16),
	}
	// The dispatch table is fixed here, once per client. Handlers for
	// roster and message events stay inert until the session is
	// authenticated.
	c.dispatcher.SetOnLoggedIn(c.handleLoggedIn)
	c.dispatcher.SetOnNewConnection(c.handleRosterInvalidated)
	c.dispatcher.SetOnConnectionClosed(c.handleRosterInvalidated)
	c.dispatcher.SetOnMessage(c.handleMessage)
	c.dispatcher.SetOnError(c.fireError)
	return c
}

// SetLogger overrides logger (optional).
func (c *Client) SetLogger(l Logger) {
	if l == nil {
		return
	}
	c.logger = l
}

// OnMessage registers a callback for messages appended to the
// transcript from the server. Register callbacks before Connect.
func (c *Client) OnMessage(fn func(Message)) { c.onMessage = fn }

// OnRosterChange registers a callback invoked with each newly applied
// roster snapshot.
func (c *Client) OnRosterChange(fn func([]User)) { c.onRosterChange = fn }

// OnLogin registers a callback invoked when the server accepts the
// username submission.
func (c *Client) OnLogin(fn func()) { c.onLogin = fn }

// OnStateChange registers a callback for connection state transitions.
func (c *Client) OnStateChange(fn func(StateEvent)) { c.onStateChange = fn }

// OnError registers a callback for asynchronously observed failures:
// transport drops, roster fetch failures, login timeouts.
func (c *Client) OnError(fn func(error)) { c.onError = fn }

// Connect dials the server and starts the read and write loops. The
// transport-level connect signal is the successful dial itself.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return NewError(ErrorConnection, "already connected")
	}
	c.mu.Unlock()

	if c.cfg.Address == "" {
		return NewError(ErrorInvalidConfig, "empty address")
	}

	c.setState(StateConnecting, nil)

	conn, err := internal.Dial(ctx, c.cfg.wsURL(), c.cfg.HandshakeTimeout, c.cfg.ReadTimeout, c.cfg.WriteTimeout)
	if err != nil {
		c.setState(StateDisconnected, err)
		return WrapError(ErrorConnection, "dial failed", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	c.conn = conn
	c.rest = rest.NewClient(c.cfg.httpBaseURL())
	c.connID = uuid.NewString()
	c.cancel = cancel
	c.mu.Unlock()

	c.setState(StateConnected, nil)

	go c.readLoop(runCtx)
	go c.writeLoop(runCtx)
	return nil
}

// SubmitUsername records the username optimistically, locks further
// submissions, and emits the login attempt. The server's only answer
// is the loggedin event; there is no rejection event, so a rejected
// name leaves the session in Submitting.
func (c *Client) SubmitUsername(ctx context.Context, username string) error {
	if c.State() != StateConnected {
		return NewError(ErrorNotConnected, "not connected")
	}
	if err := c.session.submit(username); err != nil {
		return err
	}

	if c.cfg.LoginTimeout > 0 {
		c.mu.Lock()
		c.loginTmr = time.AfterFunc(c.cfg.LoginTimeout, func() {
			if c.session.authenticated() {
				return
			}
			c.fireError(NewError(ErrorTimeout, "no loggedin event within login timeout"))
		})
		c.mu.Unlock()
	}

	sess := c.session.snapshot()
	return c.send(ctx, Emit{Event: emitSetUsername, Data: SetUsernamePayload{Username: sess.Username}})
}

// SendMessage appends the message to the local transcript synchronously
// and emits it for broadcast. The transcript entry carries this
// client's connection id and a composition-time timestamp.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if c.State() != StateConnected {
		return NewError(ErrorNotConnected, "not connected")
	}
	sess := c.session.snapshot()
	if !sess.Authenticated {
		return NewError(ErrorNotAuthenticated, "login before sending messages")
	}

	msg := Message{
		ID:           uuid.NewString(),
		Text:         text,
		Sender:       sess.Username,
		ConnectionID: c.ConnectionID(),
		Timestamp:    time.Now().UnixMilli(),
	}
	c.transcript.appendLocal(msg)
	return c.send(ctx, Emit{Event: emitSendMessage, Data: msg})
}

// State returns the current connection state.
func (c *Client) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns a snapshot of the login handshake state.
func (c *Client) Session() Session {
	return c.session.snapshot()
}

// Roster returns a copy of the last fetched online-user snapshot.
func (c *Client) Roster() []User {
	return c.roster.snapshot()
}

// Transcript returns a copy of the message history in arrival order.
func (c *Client) Transcript() []Message {
	return c.transcript.snapshot()
}

// ConnectionID returns this client's connection identifier, minted per
// Connect and stamped on every outgoing message.
func (c *Client) ConnectionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connID
}

// Close shuts down the client and closes the connection. This is the
// full disconnect that resets the session to Anonymous.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.loginTmr != nil {
		c.loginTmr.Stop()
		c.loginTmr = nil
	}
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	c.session.reset()
	c.setState(StateDisconnected, nil)
	if conn != nil {
		return conn.Close(websocket.StatusNormalClosure, "client close")
	}
	return nil
}

// send enqueues one emit for the write loop. It never queues while
// disconnected: invoking it without a live connection is an error.
func (c *Client) send(ctx context.Context, e Emit) error {
	c.mu.Lock()
	connected := c.state == StateConnected
	c.mu.Unlock()
	if !connected {
		return NewError(ErrorNotConnected, "not connected")
	}

	select {
	case c.writeCh <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readLoop is the single goroutine on which every protocol event
// handler runs, so handlers never interleave with each other.
func (c *Client) readLoop(ctx context.Context) {
	conn := c.currentConn()
	if conn == nil {
		return
	}
	for {
		var p Push
		if err := conn.Read(ctx, &p); err != nil {
			if isExpectedDisconnect(ctx, err) {
				c.setState(StateDisconnected, nil)
				return
			}
			c.logger.Warn("read loop exit", map[string]any{"error": err.Error()})
			c.fireError(WrapError(ErrorDisconnected, "connection read failed", err))
			c.setState(StateDisconnected, err)
			return
		}
		c.dispatcher.Dispatch(p)
	}
}

func (c *Client) writeLoop(ctx context.Context) {
	conn := c.currentConn()
	if conn == nil {
		return
	}
	for {
		select {
		case e := <-c.writeCh:
			if err := conn.Write(ctx, e); err != nil {
				c.logger.Warn("write loop exit", map[string]any{"error": err.Error()})
				c.fireError(WrapError(ErrorConnection, "connection write failed", err))
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) currentConn() *internal.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

func (c *Client) handleLoggedIn() {
	if !c.session.loggedIn() {
		return
	}
	c.mu.Lock()
	if c.loginTmr != nil {
		c.loginTmr.Stop()
		c.loginTmr = nil
	}
	c.mu.Unlock()

	c.logger.Info("logged in", map[string]any{"username": c.session.snapshot().Username})
	c.refreshRoster()
	if c.onLogin != nil {
		c.onLogin()
	}
}

// handleRosterInvalidated re-pulls the full roster rather than patching
// it, which keeps the snapshot consistent even when membership events
// are missed or reordered.
func (c *Client) handleRosterInvalidated() {
	if !c.session.authenticated() {
		return
	}
	c.refreshRoster()
}

func (c *Client) handleMessage(m Message) {
	if !c.session.authenticated() {
		return
	}
	if !c.transcript.appendRemote(m, c.cfg.FilterOwnMessages, c.ConnectionID()) {
		return
	}
	if c.onMessage != nil {
		c.onMessage(m)
	}
}

// refreshRoster fetches the roster snapshot in the background. Fetches
// are fire-and-forget; overlapping fetches race and the last response
// to complete wins, which is sound because each response is a full
// snapshot. A failed fetch leaves the roster untouched.
func (c *Client) refreshRoster() {
	c.mu.Lock()
	rc := c.rest
	c.mu.Unlock()
	if rc == nil {
		return
	}

	go func() {
		ctx := context.Background()
		if c.cfg.RosterTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.cfg.RosterTimeout)
			defer cancel()
		}

		fetched, err := rc.OnlineUsers(ctx)
		if err != nil {
			c.logger.Warn("roster fetch failed", map[string]any{"error": err.Error()})
			c.fireError(WrapError(ErrorRosterFetch, "roster fetch failed", err))
			return
		}

		users := make([]User, len(fetched))
		for i, u := range fetched {
			users[i] = User{ID: u.ID, Username: u.Username}
		}
		c.roster.replace(users)
		c.logger.Debug("roster replaced", map[string]any{"users": len(users)})
		if c.onRosterChange != nil {
			c.onRosterChange(users)
		}
	}()
}

func (c *Client) fireError(err error) {
	if c.onError != nil && err != nil {
		c.onError(err)
	}
}

func (c *Client) setState(newState ConnectionState, cause error) {
	c.mu.Lock()
	old := c.state
	if old == newState {
		c.mu.Unlock()
		return
	}
	c.state = newState
	c.mu.Unlock()

	fields := map[string]any{"from": old.String(), "to": newState.String()}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	c.logger.Info("connection state changed", fields)

	if c.onStateChange != nil {
		c.onStateChange(StateEvent{OldState: old, NewState: newState, Error: cause})
	}
}

func isExpectedDisconnect(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if ctx != nil && ctx.Err() != nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	default:
		return false
	}
}
