package snakes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is an established message-oriented connection.
//
// ReadMessage returns the next text frame. It returns ErrClosed once the peer closed the
// connection gracefully and an error wrapping ErrInvalidMessageType for non-text frames.
// ReadMessage is only called from one goroutine and WriteMessage only from another one.
// Close may be called concurrently with both.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteMessage(frame []byte) error
	Close() error
}

// Transport establishes connections.
type Transport interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

const (
	defaultReadLimit    = 1 << 20
	defaultWriteTimeout = 10 * time.Second
	closeGracePeriod    = 5 * time.Second
)

// WebsocketTransport dials WebSocket servers. The zero value uses websocket.DefaultDialer.
type WebsocketTransport struct {
	Dialer       *websocket.Dialer
	Header       http.Header
	ReadLimit    int64
	WriteTimeout time.Duration
}

func (t WebsocketTransport) Dial(ctx context.Context, url string) (Conn, error) {
	dialer := t.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	wsConn, resp, err := dialer.DialContext(ctx, url, t.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to create websocket connection (http %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to create websocket connection: %w", err)
	}

	readLimit := t.ReadLimit
	if readLimit == 0 {
		readLimit = defaultReadLimit
	}
	wsConn.SetReadLimit(readLimit)

	writeTimeout := t.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &websocketConn{wsConn: wsConn, writeTimeout: writeTimeout}, nil
}

type websocketConn struct {
	wsConn       *websocket.Conn
	writeTimeout time.Duration
}

func (c *websocketConn) ReadMessage() ([]byte, error) {
	msgType, msg, err := c.wsConn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived, websocket.CloseGoingAway) {
			return nil, ErrClosed
		}
		return nil, err
	}
	if msgType != websocket.TextMessage {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMessageType, msgType)
	}
	return msg, nil
}

func (c *websocketConn) WriteMessage(frame []byte) error {
	if err := c.wsConn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	return c.wsConn.WriteMessage(websocket.TextMessage, frame)
}

// Close sends a close frame and closes the underlying network connection.
func (c *websocketConn) Close() error {
	_ = c.wsConn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(closeGracePeriod))
	return c.wsConn.Close()
}
