//go:build unix

package main

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"airhockey/internal/client"
	"airhockey/internal/config"
	"airhockey/internal/hockey"
	"airhockey/internal/renderer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var errScreenGone = errors.New("screen gone")

type brokenScreen struct{}

func (brokenScreen) Write([]byte) (int, error) {
	return 0, errScreenGone
}

func TestOpenChecksTerminalBeforeDialing(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := config.Default()
	cfg.Client.ServerAddr = ln.Addr().String()
	table := hockey.NewTable(cfg.Table, cfg.Game.TickMillis())

	m, err := open(cfg, false, table, discard, func() bool { return false })
	assert.Error(t, err)
	assert.Nil(t, m)

	require.NoError(t, ln.(*net.TCPListener).SetDeadline(time.Now().Add(200*time.Millisecond)))
	conn, err := ln.Accept()
	if conn != nil {
		conn.Close()
	}
	assert.Error(t, err, "nothing should have connected")
}

func TestOpenOffline(t *testing.T) {
	cfg := config.Default()
	table := hockey.NewTable(cfg.Table, cfg.Game.TickMillis())

	m, err := open(cfg, true, table, discard, func() bool { return true })
	require.NoError(t, err)
	defer m.Close()

	assert.IsType(t, &practice{}, m)
	assert.Equal(t, client.Playing, m.Poll().Phase)
}

func TestRunStopsWhenScreenFails(t *testing.T) {
	cfg := config.Default()
	table := hockey.NewTable(cfg.Table, cfg.Game.TickMillis())
	ai := hockey.NewHeuristic(cfg.AI.Difficulty, cfg.AI.Jitter, cfg.AI.Seed)
	m := &practice{p: client.NewPractice(table, cfg.Game, ai)}

	done := make(chan error, 1)
	go func() { done <- run(m, table, 200, make(chan renderer.UiAction), brokenScreen{}) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, errScreenGone)
	case <-time.After(5 * time.Second):
		t.Fatal("run kept going after the screen failed")
	}
}

func TestRunQuits(t *testing.T) {
	cfg := config.Default()
	table := hockey.NewTable(cfg.Table, cfg.Game.TickMillis())
	ai := hockey.NewHeuristic(cfg.AI.Difficulty, cfg.AI.Jitter, cfg.AI.Seed)
	m := &practice{p: client.NewPractice(table, cfg.Game, ai)}

	input := make(chan renderer.UiAction, 1)
	input <- renderer.Quit

	done := make(chan error, 1)
	go func() { done <- run(m, table, 200, input, io.Discard) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not quit")
	}
}
