package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/snakes-game/go-client/internal/config"
	"github.com/snakes-game/go-client/internal/strategy"
	"github.com/snakes-game/go-client/internal/transcript"
	"github.com/snakes-game/go-client/snakes"
)

var (
	ErrServerURLNotFound = errors.New("server url is empty and no profile remembers one")
	ErrNameNotFound      = errors.New("player name is empty and no profile remembers one")
)

// RunApp - connects to the server and plays until the connection ends or a signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return Play(ctx, logger, conf)
}

// Play runs one session until it ends or ctx is cancelled.
// A graceful close, including one caused by ctx, is not an error.
func Play(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	profile, err := resolveProfile(conf)
	if err != nil {
		return err
	}

	responder, err := strategy.ByName(conf.Player.Strategy)
	if err != nil {
		return err
	}

	opts := []snakes.Option{
		snakes.WithLogger(logger),
		snakes.WithResponder(responder),
		snakes.WithHandshakeTimeout(conf.Server.HandshakeTimeout),
		snakes.WithSendBuffer(conf.Server.SendBuffer),
		snakes.WithListener(snakes.ListenerFuncs{
			Open: func(s *snakes.Socket) {
				log.Info("Joined game", "name", s.Name(), "url", s.URL())
				if err := profile.Save(); err != nil {
					log.Warn("Failed to save profile", "profile", profile.Name, "error", err)
				}
			},
			DecodeError: func(_ *snakes.Socket, err *snakes.DecodeError) {
				log.Debug("Ignored frame", "frame", string(err.Frame), "error", err)
			},
		}),
	}
	if conf.Server.StrictEvents {
		opts = append(opts, snakes.WithStrictEvents())
	}

	if conf.Redis.Addr != "" {
		client, err := transcript.Connect(ctx, conf.Redis.Addr)
		if err != nil {
			return fmt.Errorf("could not connect to transcript storage: %w", err)
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("could not close transcript storage", "error", err)
			}
		}()

		recorder := transcript.New(client, conf.Redis.Stream, logger)
		opts = append(opts, snakes.WithListener(recorder.Listener()), snakes.WithSentHook(recorder.SentHook()))
		log.Info("Recording transcript", "addr", conf.Redis.Addr, "stream", conf.Redis.Stream)
	}

	socket, err := snakes.Connect(ctx, profile.URL, profile.Username, opts...)
	if err != nil {
		return err
	}

	// ctx cancellation closes the socket, so Done always fires.
	<-socket.Done()
	return socket.Err()
}

// resolveProfile merges the configuration with the remembered profile. Configured values win.
func resolveProfile(conf *config.Config) (snakes.Profile, error) {
	profile, err := snakes.RestoreProfile(conf.Player.Profile)
	if err != nil {
		profile = snakes.Profile{Name: conf.Player.Profile}
	}

	if conf.Server.URL != "" {
		profile.URL = conf.Server.URL
	}
	if conf.Player.Name != "" {
		profile.Username = conf.Player.Name
	}

	if profile.URL == "" {
		return profile, ErrServerURLNotFound
	}
	if profile.Username == "" {
		return profile, ErrNameNotFound
	}
	return profile, nil
}
