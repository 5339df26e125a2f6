// Package transcript records every frame of a game session into a Redis stream.
package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/snakes-game/go-client/snakes"
)

type Kind string

const (
	KindOpen    Kind = "open"
	KindIn      Kind = "in"
	KindOut     Kind = "out"
	KindInvalid Kind = "invalid"
	KindDropped Kind = "dropped"
	KindClose   Kind = "close"
)

const recordTimeout = 2 * time.Second

// Entry is one recorded frame.
type Entry struct {
	ID    string
	Kind  Kind
	Frame string
}

type Recorder struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

// Connect opens a Redis client and checks that the server answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

func New(client *redis.Client, stream string, logger *slog.Logger) *Recorder {
	return &Recorder{
		client: client,
		stream: stream,
		logger: logger.With("component", "transcript", "stream", stream),
	}
}

// Record appends a frame to the stream.
func (that *Recorder) Record(ctx context.Context, kind Kind, frame string) error {
	err := that.client.XAdd(ctx, &redis.XAddArgs{
		Stream: that.stream,
		Values: map[string]any{
			"kind":  string(kind),
			"frame": frame,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to record %s frame: %w", kind, err)
	}

	return nil
}

// Entries returns everything recorded so far, oldest first.
func (that *Recorder) Entries(ctx context.Context) ([]Entry, error) {
	messages, err := that.client.XRange(ctx, that.stream, "-", "+").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	entries := make([]Entry, 0, len(messages))
	for _, msg := range messages {
		kind, _ := msg.Values["kind"].(string)
		frame, _ := msg.Values["frame"].(string)
		entries = append(entries, Entry{ID: msg.ID, Kind: Kind(kind), Frame: frame})
	}

	return entries, nil
}

// Listener records lifecycle notifications and inbound frames of a socket.
func (that *Recorder) Listener() snakes.Listener {
	return snakes.ListenerFuncs{
		Open: func(s *snakes.Socket) {
			that.record(KindOpen, s.URL())
		},
		Event: func(_ *snakes.Socket, event snakes.Event) {
			that.record(KindIn, string(event.Raw))
		},
		DecodeError: func(_ *snakes.Socket, err *snakes.DecodeError) {
			that.record(KindInvalid, string(err.Frame))
		},
		SendError: func(_ *snakes.Socket, cmd snakes.Command, _ error) {
			frame, err := snakes.Encode(cmd)
			if err != nil {
				that.logger.Error("could not encode dropped command", "error", err)
				return
			}
			that.record(KindDropped, string(frame))
		},
		Close: func(_ *snakes.Socket, err error) {
			reason := ""
			if err != nil {
				reason = err.Error()
			}
			that.record(KindClose, reason)
		},
	}
}

// SentHook records outbound frames.
func (that *Recorder) SentHook() snakes.SentHook {
	return func(_ snakes.Command, frame []byte) {
		that.record(KindOut, string(frame))
	}
}

func (that *Recorder) record(kind Kind, frame string) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := that.Record(ctx, kind, frame); err != nil {
		that.logger.Error("could not record frame", "kind", kind, "error", err)
	}
}
