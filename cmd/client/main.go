//go:build unix

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"airhockey/internal/ansii"
	"airhockey/internal/client"
	"airhockey/internal/config"
	"airhockey/internal/hockey"
	"airhockey/internal/renderer"
)

// cursorStep is how far one key press moves the aim point, in table pixels.
const cursorStep = 12

// mode is either an online session or the offline practice table.
type mode interface {
	Poll() client.View
	Step(now time.Time, ctl hockey.Controller) client.View
	Again()
	Close()
}

func main() {
	configPath := flag.String("config", "", "path to a JSON or YAML config file")
	addr := flag.String("addr", "", "server address, overrides the config")
	offline := flag.Bool("offline", false, "practice against the computer")
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()

	cfg := config.Load(*configPath)
	if *addr != "" {
		cfg.Client.ServerAddr = *addr
	}

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("could not open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, cfg.Log)

	table := hockey.NewTable(cfg.Table, cfg.Game.TickMillis())

	m, err := open(cfg, *offline, table, logger, ansii.IsTerminal)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	prev, err := ansii.MakeTermRaw()
	if err != nil {
		log.Fatalf("failed to make terminal raw: %v", err)
	}
	defer ansii.RestoreTerm(prev)

	os.Stdout.WriteString(string(ansii.Screen.HideCursor))
	defer os.Stdout.WriteString(string(ansii.Screen.ShowCursor))

	// Input handler
	input := make(chan renderer.UiAction, 64)
	go func() {
		buf := make([]byte, 16)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				logger.Debug("stdin closed", slog.Any("error", err))
				input <- renderer.Quit
				return
			}
			for _, a := range renderer.ProcessInput(buf[:n]) {
				input <- a
			}
		}
	}()

	if err := run(m, table, cfg.Client.FPS, input, os.Stdout); err != nil {
		logger.Error("render failed", slog.Any("error", err))
	}
}

// open picks the mode to play in. Nothing is dialled unless the client can run
// in a terminal.
func open(cfg config.Configuration, offline bool, table *hockey.Table, logger *slog.Logger, isTerminal func() bool) (mode, error) {
	if !isTerminal() {
		return nil, errors.New("the client needs an interactive terminal")
	}
	if offline {
		ai := hockey.NewHeuristic(cfg.AI.Difficulty, cfg.AI.Jitter, cfg.AI.Seed)
		return &practice{p: client.NewPractice(table, cfg.Game, ai)}, nil
	}

	fmt.Println("Connecting to", cfg.Client.ServerAddr)
	o := &online{addr: cfg.Client.ServerAddr, table: table, maxFrameSize: cfg.Server.MaxFrameSize, logger: logger}
	o.connect()
	return o, nil
}

// run draws frames until the player quits or the screen can no longer be
// written to.
func run(m mode, table *hockey.Table, fps int, input <-chan renderer.UiAction, out io.Writer) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	r := renderer.New(table, out)
	cursor := client.NewCursor(table, cursorStep)
	placed := 0

	for now := range ticker.C {
		for drained := false; !drained; {
			select {
			case a := <-input:
				switch a {
				case renderer.Quit:
					return nil
				case renderer.Confirm:
					m.Again()
				default:
					if dx, dy := a.Direction(); dx != 0 || dy != 0 {
						cursor.Nudge(dx, dy)
					}
				}
			default:
				drained = true
			}
		}

		v := m.Poll()
		if v.Placements != placed {
			cursor.Reset(v.Self)
			placed = v.Placements
		}
		v = m.Step(now, cursor.Controller())

		width, height, err := ansii.GetTermSize()
		if err != nil {
			width, height = 40, 30
		}
		if err := r.Render(v, width, height); err != nil {
			return err
		}
	}
	return nil
}

type online struct {
	addr         string
	table        *hockey.Table
	maxFrameSize int
	logger       *slog.Logger
	session      *client.Session
	err          error
}

func (o *online) connect() {
	o.session, o.err = client.Connect(o.addr, o.table, o.maxFrameSize, o.logger)
}

func (o *online) Poll() client.View {
	if o.session == nil {
		return client.View{Phase: client.Menu, Err: o.err}
	}
	return o.session.Poll(0)
}

func (o *online) Step(_ time.Time, ctl hockey.Controller) client.View {
	if o.session == nil {
		return client.View{Phase: client.Menu, Err: o.err}
	}
	v := o.session.View()
	if v.Phase == client.Playing {
		o.session.SendMove(client.Steer(o.table, v, ctl))
	}
	return o.session.View()
}

// Again rejoins after a finished match, or reconnects from the menu.
func (o *online) Again() {
	if o.session == nil || o.session.View().Phase == client.Menu {
		o.Close()
		o.connect()
		return
	}
	o.session.Rejoin()
}

func (o *online) Close() {
	if o.session != nil {
		o.session.Close()
	}
}

type practice struct {
	p *client.Practice
}

func (p *practice) Poll() client.View {
	return p.p.View()
}

func (p *practice) Step(now time.Time, ctl hockey.Controller) client.View {
	return p.p.Update(now, ctl)
}

func (p *practice) Again() {
	if p.p.View().Phase == client.Over {
		p.p.Restart()
	}
}

func (p *practice) Close() {}
