//go:build unix

// Package client is the player side of the game: an online session that
// mirrors what the server says, and an offline practice table.
package client

import (
	"log/slog"
	"time"

	"airhockey/internal/hockey"
	"airhockey/internal/netwrk"
	"airhockey/internal/protocol"
	apperrors "airhockey/pkg/errors"
)

// Session is a connection to a game server. It is polled from the frame loop
// and never blocks longer than the timeout it is given.
type Session struct {
	table  *hockey.Table
	poller *netwrk.Poller
	ep     *netwrk.Endpoint
	view   View
	logger *slog.Logger
}

// Connect dials addr and queues for a match.
func Connect(addr string, table *hockey.Table, maxFrameSize int, logger *slog.Logger) (*Session, error) {
	fd, peer, err := netwrk.Dial(addr)
	if err != nil {
		return nil, err
	}

	s := &Session{
		table:  table,
		poller: netwrk.NewPoller(),
		view:   startView(table, Waiting),
		logger: logger,
	}
	s.ep, err = netwrk.NewEndpoint(fd, peer, s.poller, maxFrameSize, s.handle, logger)
	if err != nil {
		return nil, err
	}
	if err := s.ep.Send(protocol.JoinGame{}); err != nil {
		s.ep.Close()
		return nil, err
	}

	logger.Info("connected", slog.String("server", peer))
	return s, nil
}

func (s *Session) View() View {
	return s.view
}

// Poll runs one pass of the multiplexer and applies whatever arrived.
func (s *Session) Poll(timeout time.Duration) View {
	if s.view.Phase == Menu {
		return s.view
	}

	events, err := s.poller.Wait(timeout)
	if err != nil {
		s.fail(err)
		return s.view
	}
	for _, ev := range events {
		if err := s.ep.HandleEvent(ev); err != nil {
			s.fail(err)
			break
		}
	}
	return s.view
}

// SendMove reports the local player's position and per-frame velocity. It is
// a no-op outside of play.
func (s *Session) SendMove(pos, vel hockey.Vector) {
	if s.view.Phase != Playing {
		return
	}
	s.view.Self = pos
	err := s.ep.Send(protocol.PlayerMove{
		Rect:     protocol.Pt(pos.X, pos.Y),
		Velocity: protocol.Pt(vel.X, vel.Y),
	})
	if err != nil {
		s.fail(err)
	}
}

// Rejoin queues for another match once the last one is over.
func (s *Session) Rejoin() {
	if s.view.Phase != Over {
		return
	}
	if err := s.ep.Send(protocol.JoinGame{}); err != nil {
		s.fail(err)
		return
	}
	s.view = startView(s.table, Waiting)
}

func (s *Session) Close() error {
	s.view.Phase = Menu
	return s.ep.Close()
}

func (s *Session) handle(_ *netwrk.Endpoint, msg protocol.Message) error {
	body, err := protocol.Parse(msg)
	if err != nil {
		return err
	}

	switch b := body.(type) {
	case protocol.PlayerPos:
		s.view.Self = hockey.V(b.Rect.X(), b.Rect.Y())
		s.view.Placements++
		s.view.Phase = Playing
	case protocol.GameUpdate:
		s.view.Ball = hockey.V(b.Ball.X(), b.Ball.Y())
		s.view.Opponent = hockey.V(b.Opponent.X(), b.Opponent.Y())
	case protocol.Goal:
		s.view.Scores = b.Scores
		s.view.Phase = GoalPause
	case protocol.GameOver:
		s.view.Won = b.Winner
		s.view.Phase = Over
	default:
		return apperrors.ErrUnknownHeader.WithDetails("%s is not sent by servers", msg.Header)
	}
	return nil
}

// fail drops the connection and falls back to the menu.
func (s *Session) fail(err error) {
	s.logger.Warn("connection lost", slog.String("code", apperrors.Code(err)), slog.Any("error", err))
	s.ep.Close()
	s.view.Phase = Menu
	s.view.Err = err
}
