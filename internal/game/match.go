// Package game runs a single two-player match: it owns the ball and both
// players, steps the physics once per tick and tells each side what happened
// in that side's own coordinates.
package game

import (
	"log/slog"
	"time"

	"airhockey/internal/config"
	"airhockey/internal/hockey"
	"airhockey/internal/protocol"
	apperrors "airhockey/pkg/errors"
)

type Match struct {
	ID string

	table        *hockey.Table
	seats        [2]*Seat // indexed by hockey.Side
	ball         hockey.Body
	scores       [2]int // indexed by hockey.Side
	state        State
	goalAt       time.Time
	goalDelay    time.Duration
	winningScore int
	winner       *Seat
	ticks        uint64
	logger       *slog.Logger
}

// New seats top and down at their start positions. Nothing is sent until
// Start.
func New(id string, table *hockey.Table, rules config.Game, top, down Peer, logger *slog.Logger) *Match {
	m := &Match{
		ID:           id,
		table:        table,
		ball:         table.NewBall(),
		state:        Active,
		goalDelay:    rules.GoalDelay(),
		winningScore: rules.WinningScore,
		logger:       logger.With(slog.String("match", id)),
	}
	m.seats[hockey.Top] = &Seat{Peer: top, Side: hockey.Top, Body: table.NewPlayer(hockey.Top)}
	m.seats[hockey.Down] = &Seat{Peer: down, Side: hockey.Down, Body: table.NewPlayer(hockey.Down)}
	return m
}

// Start tells both players where they begin.
func (m *Match) Start() {
	m.logger.Info("match started",
		slog.String("top", m.seats[hockey.Top].Peer.ID()),
		slog.String("down", m.seats[hockey.Down].Peer.ID()))
	m.placePlayers()
}

// ApplyMove records the latest position and velocity reported by peer, given
// in the peer's own coordinates.
func (m *Match) ApplyMove(peer Peer, mv protocol.PlayerMove) error {
	seat := m.seatOf(peer)
	if seat == nil || m.state == Finished {
		return apperrors.ErrNotInMatch.WithDetails("move from %s in match %s", peer.ID(), m.ID)
	}

	pos := hockey.V(mv.Rect.X(), mv.Rect.Y())
	vel := hockey.V(mv.Velocity.X(), mv.Velocity.Y())
	seat.Body.Pos = m.table.Resolve(seat.Side, pos)
	seat.Body.Vel = m.table.ResolveVelocity(seat.Side, vel)
	return nil
}

// Tick advances the match by one fixed step at time now.
func (m *Match) Tick(now time.Time) {
	switch m.state {
	case Finished:
		return
	case GoalPause:
		if now.Sub(m.goalAt) < m.goalDelay {
			return
		}
		m.reset()
		return
	}

	m.ticks++
	scorer, goal := m.table.Step(&m.ball, m.seats[hockey.Top].Body, m.seats[hockey.Down].Body)
	m.broadcastState()

	if goal {
		m.score(scorer, now)
	}
}

// Forfeit ends the match because peer left. The remaining player is told it
// won.
func (m *Match) Forfeit(peer Peer) error {
	seat := m.seatOf(peer)
	if seat == nil {
		return apperrors.ErrNotInMatch.WithDetails("forfeit by %s in match %s", peer.ID(), m.ID)
	}
	if m.state == Finished {
		return nil
	}

	other := m.seats[seat.Side.Opponent()]
	m.state = Finished
	m.winner = other
	m.logger.Info("match forfeited", slog.String("by", peer.ID()), slog.String("winner", other.Peer.ID()))
	m.send(other, protocol.GameOver{Winner: true})
	return nil
}

func (m *Match) State() State {
	return m.state
}

func (m *Match) Finished() bool {
	return m.state == Finished
}

// Winner is nil until the match is finished.
func (m *Match) Winner() Peer {
	if m.winner == nil {
		return nil
	}
	return m.winner.Peer
}

func (m *Match) Peers() [2]Peer {
	return [2]Peer{m.seats[hockey.Top].Peer, m.seats[hockey.Down].Peer}
}

// Opponent returns the other player, or nil when peer is not seated here.
func (m *Match) Opponent(peer Peer) Peer {
	seat := m.seatOf(peer)
	if seat == nil {
		return nil
	}
	return m.seats[seat.Side.Opponent()].Peer
}

func (m *Match) Snapshot() Snapshot {
	return Snapshot{
		State:  m.state,
		Ball:   m.ball,
		Top:    m.seats[hockey.Top].Body,
		Down:   m.seats[hockey.Down].Body,
		Scores: m.scores,
		Ticks:  m.ticks,
	}
}

func (m *Match) seatOf(peer Peer) *Seat {
	for _, s := range m.seats {
		if s.Peer.ID() == peer.ID() {
			return s
		}
	}
	return nil
}

func (m *Match) score(scorer hockey.Side, now time.Time) {
	m.scores[scorer]++
	m.state = GoalPause
	m.goalAt = now
	m.logger.Info("goal", slog.String("scorer", scorer.String()), slog.Any("scores", m.scores))

	for _, s := range m.seats {
		m.send(s, protocol.Goal{Scores: [2]int{m.scores[s.Side], m.scores[s.Side.Opponent()]}})
	}

	if m.scores[scorer] >= m.winningScore {
		m.finish(m.seats[scorer])
	}
}

// finish sends GAME_OVER to both players. It runs at most once per match.
func (m *Match) finish(winner *Seat) {
	if m.state == Finished {
		return
	}
	m.state = Finished
	m.winner = winner
	m.logger.Info("match over", slog.String("winner", winner.Peer.ID()), slog.Any("scores", m.scores))

	for _, s := range m.seats {
		m.send(s, protocol.GameOver{Winner: s == winner})
	}
}

func (m *Match) reset() {
	m.ball = m.table.NewBall()
	for _, s := range m.seats {
		s.Body = m.table.NewPlayer(s.Side)
	}
	m.state = Active
	m.placePlayers()
}

func (m *Match) placePlayers() {
	for _, s := range m.seats {
		m.send(s, protocol.PlayerPos{Rect: m.point(s.Side, s.Body.Pos)})
	}
}

func (m *Match) broadcastState() {
	for _, s := range m.seats {
		other := m.seats[s.Side.Opponent()]
		m.send(s, protocol.GameUpdate{
			Ball:     m.point(s.Side, m.ball.Pos),
			Opponent: m.point(s.Side, other.Body.Pos),
		})
	}
}

func (m *Match) point(side hockey.Side, p hockey.Vector) protocol.Point {
	r := m.table.Resolve(side, p)
	return protocol.Pt(r.X, r.Y)
}

// send does not fail the match; a dead peer is noticed and dropped by whoever
// owns its connection.
func (m *Match) send(s *Seat, b protocol.Body) {
	if err := s.Peer.Send(b); err != nil {
		m.logger.Debug("send failed", slog.String("peer", s.Peer.ID()), slog.Any("header", b.Header()), slog.Any("error", err))
	}
}
