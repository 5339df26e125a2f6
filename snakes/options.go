package snakes

import (
	"io"
	"log/slog"
	"time"
)

const (
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultSendBuffer       = 16
)

// Responder decides how to answer an event. A nil command sends nothing.
type Responder func(event Event) Command

// Constant returns a Responder that answers every event with cmd.
func Constant(cmd Command) Responder {
	return func(Event) Command {
		return cmd
	}
}

// Listener is notified about the lifecycle of a Socket.
// All methods are called from the same goroutine, in the order the transport delivers them.
type Listener interface {
	OnOpen(s *Socket)
	OnEvent(s *Socket, event Event)
	OnDecodeError(s *Socket, err *DecodeError)
	// OnSendError is called when the command a Responder returned could not be queued.
	OnSendError(s *Socket, cmd Command, err error)
	// OnClose is called once the socket is terminal. err is nil for a graceful close.
	OnClose(s *Socket, err error)
}

// ListenerFuncs implements Listener with optional functions.
type ListenerFuncs struct {
	Open        func(s *Socket)
	Event       func(s *Socket, event Event)
	DecodeError func(s *Socket, err *DecodeError)
	SendError   func(s *Socket, cmd Command, err error)
	Close       func(s *Socket, err error)
}

func (l ListenerFuncs) OnOpen(s *Socket) {
	if l.Open != nil {
		l.Open(s)
	}
}

func (l ListenerFuncs) OnEvent(s *Socket, event Event) {
	if l.Event != nil {
		l.Event(s, event)
	}
}

func (l ListenerFuncs) OnDecodeError(s *Socket, err *DecodeError) {
	if l.DecodeError != nil {
		l.DecodeError(s, err)
	}
}

func (l ListenerFuncs) OnSendError(s *Socket, cmd Command, err error) {
	if l.SendError != nil {
		l.SendError(s, cmd, err)
	}
}

func (l ListenerFuncs) OnClose(s *Socket, err error) {
	if l.Close != nil {
		l.Close(s, err)
	}
}

// SentHook is called from the writer goroutine after a frame has been written.
type SentHook func(cmd Command, frame []byte)

type options struct {
	transport        Transport
	responder        Responder
	listeners        []Listener
	sentHooks        []SentHook
	logger           *slog.Logger
	handshakeTimeout time.Duration
	sendBuffer       int
	strict           bool
}

type Option func(o *options)

func defaultOptions() options {
	return options{
		transport:        WebsocketTransport{},
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		handshakeTimeout: DefaultHandshakeTimeout,
		sendBuffer:       DefaultSendBuffer,
	}
}

// WithTransport replaces the default WebSocket transport.
func WithTransport(transport Transport) Option {
	return func(o *options) {
		o.transport = transport
	}
}

// WithResponder sets the function that answers inbound events.
// Without a responder no commands are sent in response to events.
func WithResponder(responder Responder) Option {
	return func(o *options) {
		o.responder = responder
	}
}

func WithListener(listener Listener) Option {
	return func(o *options) {
		o.listeners = append(o.listeners, listener)
	}
}

func WithSentHook(hook SentHook) Option {
	return func(o *options) {
		o.sentHooks = append(o.sentHooks, hook)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHandshakeTimeout bounds the time between Connect and the connection being open.
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.handshakeTimeout = timeout
	}
}

// WithSendBuffer sets the number of commands that can be queued before Send fails with ErrSendBufferFull.
// A Responder reply that does not fit is dropped and reported through Listener.OnSendError.
func WithSendBuffer(size int) Option {
	return func(o *options) {
		o.sendBuffer = size
	}
}

// WithStrictEvents makes inbound frames that are not a known server event fail to decode.
func WithStrictEvents() Option {
	return func(o *options) {
		o.strict = true
	}
}
