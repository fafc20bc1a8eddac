package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Configuration struct {
	Log    Log    `json:"log" yaml:"log"`
	Server Server `json:"server" yaml:"server"`
	Game   Game   `json:"game" yaml:"game"`
	Table  Table  `json:"table" yaml:"table"`
	AI     AI     `json:"ai" yaml:"ai"`
	Client Client `json:"client" yaml:"client"`
}

type Log struct {
	// Level follows slog.Level numbering: -4 debug, 0 info, 4 warn, 8 error.
	Level  int    `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

type Server struct {
	Host          string `json:"host" yaml:"host"`
	Port          int    `json:"port" yaml:"port"`
	Backlog       int    `json:"backlog" yaml:"backlog"`
	PollTimeoutMs int    `json:"pollTimeoutMs" yaml:"pollTimeoutMs"`
	MaxFrameSize  int    `json:"maxFrameSize" yaml:"maxFrameSize"`
}

type Game struct {
	TickRate     int `json:"tickRate" yaml:"tickRate"`
	GoalDelayMs  int `json:"goalDelayMs" yaml:"goalDelayMs"`
	WinningScore int `json:"winningScore" yaml:"winningScore"`
}

type Table struct {
	ScreenWidth          float64 `json:"screenWidth" yaml:"screenWidth"`
	ScreenHeight         float64 `json:"screenHeight" yaml:"screenHeight"`
	BoardTop             float64 `json:"boardTop" yaml:"boardTop"`
	GoalWidth            float64 `json:"goalWidth" yaml:"goalWidth"`
	PlayerRadius         float64 `json:"playerRadius" yaml:"playerRadius"`
	BallRadius           float64 `json:"ballRadius" yaml:"ballRadius"`
	MaxPlayerSpeed       float64 `json:"maxPlayerSpeed" yaml:"maxPlayerSpeed"`
	MaxBallSpeed         float64 `json:"maxBallSpeed" yaml:"maxBallSpeed"`
	WallRestitution      float64 `json:"wallRestitution" yaml:"wallRestitution"`
	CollisionRestitution float64 `json:"collisionRestitution" yaml:"collisionRestitution"`
	SeparationEpsilon    float64 `json:"separationEpsilon" yaml:"separationEpsilon"`
}

type AI struct {
	Difficulty int     `json:"difficulty" yaml:"difficulty"`
	Jitter     float64 `json:"jitter" yaml:"jitter"`
	Seed       uint64  `json:"seed" yaml:"seed"`
}

type Client struct {
	ServerAddr string `json:"serverAddr" yaml:"serverAddr"`
	FPS        int    `json:"fps" yaml:"fps"`
}

// Default returns the configuration the game was tuned with.
func Default() Configuration {
	return Configuration{
		Log: Log{Level: int(slog.LevelInfo), Format: "text"},
		Server: Server{
			Host:          "",
			Port:          22222,
			Backlog:       128,
			PollTimeoutMs: 1000,
			MaxFrameSize:  64 * 1024,
		},
		Game: Game{
			TickRate:     60,
			GoalDelayMs:  3000,
			WinningScore: 7,
		},
		Table: Table{
			ScreenWidth:          360,
			ScreenHeight:         600,
			BoardTop:             50,
			GoalWidth:            120,
			PlayerRadius:         26,
			BallRadius:           20,
			MaxPlayerSpeed:       0.8,
			MaxBallSpeed:         1.6,
			WallRestitution:      0.5,
			CollisionRestitution: 1.0,
			SeparationEpsilon:    2,
		},
		AI: AI{Difficulty: 1, Jitter: 0, Seed: 1},
		Client: Client{
			ServerAddr: "localhost:22222",
			FPS:        60,
		},
	}
}

// Load reads the configuration at path, or config.json when path is empty.
// Files ending in .yaml or .yml are parsed as YAML. Fields absent from the file
// keep their defaults, and an unreadable file yields the defaults.
func Load(path string) Configuration {
	c := Default()

	if path == "" {
		path = "config.json"
	}

	cf, err := os.ReadFile(path)
	if err != nil {
		slog.Info("failed to open config at path provided, using default config instead", slog.String("path", path))
		return c
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(cf, &c)
	default:
		err = json.Unmarshal(cf, &c)
	}
	if err != nil {
		slog.Info("failed to read configuration, using default config instead...", slog.Any("error", err))
		return Default()
	}

	return c
}

// TickDuration is the fixed simulation step.
func (g Game) TickDuration() time.Duration {
	if g.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(g.TickRate)
}

// TickMillis is the fixed simulation step in milliseconds; speeds in the
// table section are expressed per millisecond.
func (g Game) TickMillis() float64 {
	return float64(g.TickDuration()) / float64(time.Millisecond)
}

func (g Game) GoalDelay() time.Duration {
	return time.Duration(g.GoalDelayMs) * time.Millisecond
}

func (s Server) PollTimeout() time.Duration {
	return time.Duration(s.PollTimeoutMs) * time.Millisecond
}
