package snakes

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Socket represents the connection with a snakes server and handles events.
type Socket struct {
	url    string
	name   string
	opts   options
	logger *slog.Logger

	mu     sync.Mutex
	state  State
	err    error
	conn   Conn
	outbox chan outgoing
	quit   chan struct{}
	cancel context.CancelFunc
	done   chan struct{}

	listenersMu    sync.RWMutex
	eventListeners map[EventName]map[CallbackId]EventCallback
}

type outgoing struct {
	cmd   Command
	frame []byte
}

// Connect starts connecting to the server at address and returns immediately with a
// socket in the connecting state. The protocol can be omitted.
//
// Once the connection is open, a SetName command carrying name is sent before anything else.
// Cancelling ctx closes the socket.
func Connect(ctx context.Context, address, name string, opts ...Option) (*Socket, error) {
	url, err := websocketURL(address)
	if err != nil {
		return nil, &ConnectError{Address: address, Err: err}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.sendBuffer < 1 {
		o.sendBuffer = 1
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s := &Socket{
		url:            url,
		name:           name,
		opts:           o,
		logger:         o.logger.With("component", "socket", "url", url),
		state:          StateConnecting,
		outbox:         make(chan outgoing, o.sendBuffer),
		quit:           make(chan struct{}),
		cancel:         cancel,
		done:           make(chan struct{}),
		eventListeners: make(map[EventName]map[CallbackId]EventCallback),
	}

	go s.run(runCtx)
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()

	return s, nil
}

// URL returns the normalized url of the server.
func (s *Socket) URL() string {
	return s.url
}

// Name returns the display name sent in the handshake.
func (s *Socket) Name() string {
	return s.name
}

// State returns the current connection state.
func (s *Socket) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the cause of a failed connection wrapped in a FailedError, or nil.
func (s *Socket) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateFailed {
		return &FailedError{Err: s.err}
	}
	return nil
}

// Done is closed after the socket reached a terminal state and all listeners have been notified.
func (s *Socket) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the socket is terminal or ctx is done.
// It returns nil after a graceful close and a FailedError after a transport error.
func (s *Socket) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Send queues a command for the server without waiting for it to be written.
// SetName cannot be sent manually.
func (s *Socket) Send(cmd Command) error {
	if cmd != nil && cmd.Tag() == CommandSetName {
		return ErrHandshakeCommand
	}
	frame, err := Encode(cmd)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enqueue(outgoing{cmd: cmd, frame: frame})
}

// enqueue must be called with s.mu held.
func (s *Socket) enqueue(out outgoing) error {
	switch s.state {
	case StateConnecting:
		return ErrNotOpen
	case StateClosed:
		return ErrClosed
	case StateFailed:
		return &FailedError{Err: s.err}
	}
	select {
	case s.outbox <- out:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close closes the connection. It is safe to call in any state and does nothing if the
// socket is already terminal.
func (s *Socket) Close() error {
	s.terminate(nil)
	return nil
}

// On registers a callback that is triggered when the event is received.
func (s *Socket) On(event EventName, callback EventCallback) CallbackId {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	if s.eventListeners[event] == nil {
		s.eventListeners[event] = make(map[CallbackId]EventCallback)
	}

	id := CallbackId(uuid.New())
	s.eventListeners[event][id] = callback
	return id
}

// Once registers a callback that is triggered only the first time the event is received.
func (s *Socket) Once(event EventName, callback EventCallback) CallbackId {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	if s.eventListeners[event] == nil {
		s.eventListeners[event] = make(map[CallbackId]EventCallback)
	}

	id := CallbackId(uuid.New())
	s.eventListeners[event][id] = func(event Event) {
		s.RemoveCallback(id)
		callback(event)
	}
	return id
}

// RemoveCallback deletes the callback with the specified id.
func (s *Socket) RemoveCallback(id CallbackId) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	for _, callbacks := range s.eventListeners {
		delete(callbacks, id)
	}
}

func (s *Socket) run(ctx context.Context) {
	defer close(s.done)

	dialCtx, cancel := context.WithTimeout(ctx, s.opts.handshakeTimeout)
	conn, err := s.opts.transport.Dial(dialCtx, s.url)
	cancel()
	if err != nil {
		s.terminate(&ConnectError{Address: s.url, Err: err})
		s.notifyClose()
		return
	}

	if !s.open(conn) {
		conn.Close()
		s.notifyClose()
		return
	}
	s.logger.Info("connection open", "name", s.name)
	for _, l := range s.opts.listeners {
		l.OnOpen(s)
	}

	go s.writeLoop(conn)

	for {
		frame, err := conn.ReadMessage()
		if err != nil {
			if errors.Is(err, ErrInvalidMessageType) {
				s.decodeFailed(&DecodeError{Err: err})
				continue
			}
			if errors.Is(err, ErrClosed) {
				err = nil
			}
			s.terminate(err)
			break
		}
		if s.State().Terminal() {
			break
		}
		s.handleFrame(frame)
	}
	s.notifyClose()
}

// open moves the socket to the open state and queues the handshake.
// It returns false if the socket was closed while connecting.
func (s *Socket) open(conn Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConnecting {
		return false
	}
	s.state = StateOpen
	s.conn = conn

	cmd := SetName{Name: s.name}
	frame, err := Encode(cmd)
	if err != nil {
		// A string payload always encodes.
		panic(err)
	}
	s.outbox <- outgoing{cmd: cmd, frame: frame}
	return true
}

// terminate moves the socket to closed (cause == nil) or failed.
func (s *Socket) terminate(cause error) {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	if cause == nil {
		s.state = StateClosed
	} else {
		s.state = StateFailed
		s.err = cause
	}
	conn := s.conn
	close(s.quit)
	s.cancel()
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

func (s *Socket) notifyClose() {
	err := s.Err()
	if err != nil {
		s.logger.Error("connection failed", "error", err)
	} else {
		s.logger.Info("connection closed")
	}
	for _, l := range s.opts.listeners {
		l.OnClose(s, err)
	}
}

func (s *Socket) writeLoop(conn Conn) {
	for {
		select {
		case out := <-s.outbox:
			if err := conn.WriteMessage(out.frame); err != nil {
				s.terminate(err)
				return
			}
			s.logger.Debug("sent command", "command", out.cmd.Tag())
			for _, hook := range s.opts.sentHooks {
				hook(out.cmd, out.frame)
			}
		case <-s.quit:
			return
		}
	}
}

func (s *Socket) handleFrame(frame []byte) {
	decode := Decode
	if s.opts.strict {
		decode = DecodeStrict
	}
	event, err := decode(frame)
	if err != nil {
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			decodeErr = &DecodeError{Frame: frame, Err: err}
		}
		s.decodeFailed(decodeErr)
		return
	}

	s.triggerEventListeners(event)
	for _, l := range s.opts.listeners {
		l.OnEvent(s, event)
	}

	if s.opts.responder == nil {
		return
	}
	cmd := s.opts.responder(event)
	if cmd == nil {
		return
	}
	if err := s.Send(cmd); err != nil {
		s.logger.Warn("failed to send response", "event", event.Name, "error", err)
		for _, l := range s.opts.listeners {
			l.OnSendError(s, cmd, err)
		}
	}
}

func (s *Socket) decodeFailed(err *DecodeError) {
	s.logger.Warn("dropping inbound frame", "error", err)
	for _, l := range s.opts.listeners {
		l.OnDecodeError(s, err)
	}
}

func (s *Socket) triggerEventListeners(event Event) {
	s.listenersMu.RLock()
	listeners := make([]EventCallback, 0, len(s.eventListeners[event.Name]))
	for _, cb := range s.eventListeners[event.Name] {
		listeners = append(listeners, cb)
	}
	s.listenersMu.RUnlock()

	for _, cb := range listeners {
		cb(event)
	}
}
