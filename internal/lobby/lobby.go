// Package lobby pairs connected players into matches and routes their
// messages. It is driven from a single goroutine and holds no locks.
package lobby

import (
	"log/slog"
	"slices"
	"time"

	"airhockey/internal/config"
	"airhockey/internal/game"
	"airhockey/internal/hockey"
	"airhockey/internal/protocol"
	apperrors "airhockey/pkg/errors"

	"github.com/google/uuid"
)

type Status int

const (
	Idle Status = iota
	Waiting
	Playing
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Waiting:
		return "WAITING"
	case Playing:
		return "PLAYING"
	}
	return "UNKNOWN"
}

type session struct {
	peer   game.Peer
	status Status
	match  *game.Match
	// played is set once a match this session was in has ended.
	played bool
}

type Lobby struct {
	table    *hockey.Table
	rules    config.Game
	sessions map[string]*session
	queue    []*session
	matches  []*game.Match
	logger   *slog.Logger
}

func New(table *hockey.Table, rules config.Game, logger *slog.Logger) *Lobby {
	return &Lobby{
		table:    table,
		rules:    rules,
		sessions: map[string]*session{},
		logger:   logger,
	}
}

// Connect registers a freshly accepted peer as idle.
func (l *Lobby) Connect(p game.Peer) {
	l.sessions[p.ID()] = &session{peer: p, status: Idle}
	l.logger.Debug("peer connected", slog.String("peer", p.ID()))
}

// Handle routes one inbound message. Any error means the peer misbehaved and
// should be disconnected.
func (l *Lobby) Handle(p game.Peer, msg protocol.Message) error {
	s, ok := l.sessions[p.ID()]
	if !ok {
		return apperrors.ErrNotInMatch.WithDetails("unknown peer %s", p.ID())
	}

	body, err := protocol.Parse(msg)
	if err != nil {
		return err
	}

	switch b := body.(type) {
	case protocol.JoinGame:
		return l.join(s)
	case protocol.PlayerMove:
		return l.move(s, b)
	default:
		return apperrors.ErrUnknownHeader.WithDetails("%s is not accepted from clients", msg.Header)
	}
}

// Disconnect forgets p. A waiting peer leaves the queue and a playing peer
// forfeits its match.
func (l *Lobby) Disconnect(p game.Peer) {
	s, ok := l.sessions[p.ID()]
	if !ok {
		return
	}
	delete(l.sessions, p.ID())

	switch s.status {
	case Waiting:
		l.queue = slices.DeleteFunc(l.queue, func(q *session) bool { return q == s })
		l.logger.Debug("peer left the queue", slog.String("peer", p.ID()))
	case Playing:
		if err := s.match.Forfeit(p); err != nil {
			l.logger.Warn("forfeit failed", slog.String("peer", p.ID()), slog.Any("error", err))
		}
		l.release(s.match)
	}
}

// Tick advances every running match and releases the ones that ended.
func (l *Lobby) Tick(now time.Time) {
	var done []*game.Match
	for _, m := range l.matches {
		m.Tick(now)
		if m.Finished() {
			done = append(done, m)
		}
	}
	for _, m := range done {
		l.release(m)
	}
}

func (l *Lobby) Status(p game.Peer) (Status, bool) {
	s, ok := l.sessions[p.ID()]
	if !ok {
		return Idle, false
	}
	return s.status, true
}

// MatchOf returns the match p is playing in, if any.
func (l *Lobby) MatchOf(p game.Peer) *game.Match {
	s, ok := l.sessions[p.ID()]
	if !ok {
		return nil
	}
	return s.match
}

func (l *Lobby) Waiting() int {
	return len(l.queue)
}

func (l *Lobby) Matches() int {
	return len(l.matches)
}

func (l *Lobby) join(s *session) error {
	if s.status != Idle {
		return apperrors.ErrAlreadyJoined.WithDetails("%s is %s", s.peer.ID(), s.status)
	}

	s.status = Waiting
	l.queue = append(l.queue, s)
	l.logger.Debug("peer waiting", slog.String("peer", s.peer.ID()), slog.Int("queue", len(l.queue)))

	if len(l.queue) >= 2 {
		l.pair()
	}
	return nil
}

// pair starts a match between the two longest-waiting peers. The earlier one
// takes the bottom of the table.
func (l *Lobby) pair() {
	down, top := l.queue[0], l.queue[1]
	l.queue = l.queue[2:]

	m := game.New(uuid.NewString(), l.table, l.rules, top.peer, down.peer, l.logger)
	for _, s := range []*session{down, top} {
		s.status = Playing
		s.match = m
	}
	l.matches = append(l.matches, m)
	m.Start()
}

func (l *Lobby) move(s *session, mv protocol.PlayerMove) error {
	if s.status != Playing {
		if s.status == Idle && s.played {
			// Moves sent before the peer saw GAME_OVER.
			l.logger.Debug("dropping move after match end", slog.String("peer", s.peer.ID()))
			return nil
		}
		return apperrors.ErrNotInMatch.WithDetails("%s is %s", s.peer.ID(), s.status)
	}
	return s.match.ApplyMove(s.peer, mv)
}

// release returns the remaining players of a finished match to idle and
// forgets the match.
func (l *Lobby) release(m *game.Match) {
	for _, p := range m.Peers() {
		if s, ok := l.sessions[p.ID()]; ok && s.match == m {
			s.status = Idle
			s.match = nil
			s.played = true
		}
	}
	l.matches = slices.DeleteFunc(l.matches, func(x *game.Match) bool { return x == m })
}
