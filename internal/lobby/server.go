//go:build unix

package lobby

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"airhockey/internal/config"
	"airhockey/internal/hockey"
	"airhockey/internal/netwrk"
	"airhockey/internal/protocol"
	apperrors "airhockey/pkg/errors"
)

// Server accepts players, feeds their messages to the lobby and ticks every
// match, all from one loop.
type Server struct {
	cfg       config.Configuration
	poller    *netwrk.Poller
	listener  *netwrk.Listener
	lobby     *Lobby
	endpoints map[int]*netwrk.Endpoint
	tick      time.Duration
	nextTick  time.Time
	now       func() time.Time
	logger    *slog.Logger
}

type Option func(*Server)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// NewServer binds the listening socket. The server does nothing until Run or
// RunOnce is called.
func NewServer(cfg config.Configuration, logger *slog.Logger, opts ...Option) (*Server, error) {
	listener, err := netwrk.Listen(cfg.Server.Host, cfg.Server.Port, cfg.Server.Backlog)
	if err != nil {
		return nil, err
	}

	poller := netwrk.NewPoller()
	if err := poller.Register(listener.Fd(), netwrk.Readable); err != nil {
		listener.Close()
		return nil, err
	}

	table := hockey.NewTable(cfg.Table, cfg.Game.TickMillis())
	s := &Server{
		cfg:       cfg,
		poller:    poller,
		listener:  listener,
		lobby:     New(table, cfg.Game, logger),
		endpoints: map[int]*netwrk.Endpoint{},
		tick:      cfg.Game.TickDuration(),
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.nextTick = s.now().Add(s.tick)

	logger.Info("listening", slog.String("addr", listener.Addr()))
	return s, nil
}

func (s *Server) Addr() string {
	return s.listener.Addr()
}

func (s *Server) Lobby() *Lobby {
	return s.lobby
}

// Clients is the number of open player connections.
func (s *Server) Clients() int {
	return len(s.endpoints)
}

// Run serves until ctx is cancelled, then closes every connection.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	for ctx.Err() == nil {
		if err := s.RunOnce(); err != nil {
			return err
		}
	}

	s.logger.Info("shutting down", slog.Int("clients", len(s.endpoints)))
	return nil
}

// RunOnce runs the due match ticks and then waits for network readiness no
// longer than the time left until the next tick.
func (s *Server) RunOnce() error {
	now := s.now()
	if !now.Before(s.nextTick) {
		s.lobby.Tick(now)
		s.nextTick = s.nextTick.Add(s.tick)
		// Skip ticks we fell behind on rather than bursting them.
		if s.nextTick.Before(now) {
			s.nextTick = now.Add(s.tick)
		}
	}

	timeout := s.nextTick.Sub(now)
	if timeout < 0 {
		timeout = 0
	}
	if timeout > s.cfg.Server.PollTimeout() {
		timeout = s.cfg.Server.PollTimeout()
	}

	events, err := s.poller.Wait(timeout)
	if err != nil {
		return err
	}
	for _, ev := range events {
		s.dispatch(ev)
	}
	return nil
}

// Close shuts every endpoint and the listener. It is safe to call twice.
func (s *Server) Close() error {
	for fd, ep := range s.endpoints {
		ep.Flush()
		ep.Close()
		delete(s.endpoints, fd)
	}
	s.poller.Unregister(s.listener.Fd())
	return s.listener.Close()
}

func (s *Server) dispatch(ev netwrk.Event) {
	if ev.Fd == s.listener.Fd() {
		s.accept()
		return
	}

	ep, ok := s.endpoints[ev.Fd]
	if !ok {
		return
	}
	if err := ep.HandleEvent(ev); err != nil {
		s.drop(ep, err)
	}
}

func (s *Server) accept() {
	for {
		fd, addr, err := s.listener.Accept()
		if errors.Is(err, netwrk.ErrWouldBlock) {
			return
		}
		if err != nil {
			s.logger.Warn("accept failed", slog.Any("error", err))
			return
		}

		ep, err := netwrk.NewEndpoint(fd, addr, s.poller, s.cfg.Server.MaxFrameSize, s.handle, s.logger)
		if err != nil {
			s.logger.Warn("could not register connection", slog.String("addr", addr), slog.Any("error", err))
			continue
		}
		s.endpoints[fd] = ep
		s.lobby.Connect(ep)
		s.logger.Info("client connected", slog.String("endpoint", ep.ID()), slog.String("addr", addr))
	}
}

func (s *Server) handle(ep *netwrk.Endpoint, msg protocol.Message) error {
	return s.lobby.Handle(ep, msg)
}

// drop is the single place a client is thrown out.
func (s *Server) drop(ep *netwrk.Endpoint, err error) {
	attrs := []any{
		slog.String("endpoint", ep.ID()),
		slog.String("addr", ep.Addr()),
		slog.String("code", apperrors.Code(err)),
		slog.Any("error", err),
	}
	if apperrors.IsTransport(err) {
		s.logger.Info("client disconnected", attrs...)
	} else {
		s.logger.Warn("dropping misbehaving client", attrs...)
	}

	s.lobby.Disconnect(ep)
	ep.Close()
	delete(s.endpoints, ep.Fd())
}
