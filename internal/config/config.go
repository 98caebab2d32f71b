package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/minesweeper"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Redis      Redis  `yaml:"redis"`
	Board      Board  `yaml:"board"`
	Lock       Lock   `yaml:"lock"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	// idle games and players expire after TTL, 0 keeps them forever
	TTL time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"24h"`
}

// Board - defaults for new games.
type Board struct {
	Width   int    `yaml:"width" env:"BOARD_WIDTH" env-default:"9"`
	Height  int    `yaml:"height" env:"BOARD_HEIGHT" env-default:"9"`
	Mines   int    `yaml:"mines" env:"BOARD_MINES" env-default:"10"`
	WinRule string `yaml:"win-rule" env:"BOARD_WIN_RULE" env-default:"exact"`
	// 0 seeds mine placement from the clock
	Seed uint64 `yaml:"seed" env:"BOARD_SEED" env-default:"0"`
}

type Lock struct {
	Expiry time.Duration `yaml:"expiry" env:"LOCK_EXPIRY" env-default:"8s"`
	Tries  int           `yaml:"tries" env:"LOCK_TRIES" env-default:"32"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	if err := config.Validate(); err != nil {
		panic(err)
	}

	return config
}

// Validate - rejects defaults no game could be created with.
func (that *Config) Validate() error {
	if !minesweeper.WinRule(that.Board.WinRule).Valid() {
		return fmt.Errorf("%w: unknown win rule %q", ErrInvalidConfig, that.Board.WinRule)
	}

	b := that.Board
	if b.Width <= 0 || b.Height <= 0 || b.Width > minesweeper.MaxCells/b.Height || b.Mines <= 0 || b.Mines >= b.Width*b.Height {
		return fmt.Errorf("%w: board %dx%d with %d mines", ErrInvalidConfig, b.Width, b.Height, b.Mines)
	}

	if that.Redis.TTL < 0 {
		return fmt.Errorf("%w: negative redis ttl %s", ErrInvalidConfig, that.Redis.TTL)
	}

	if that.Lock.Tries < 0 || that.Lock.Expiry < 0 {
		return fmt.Errorf("%w: lock expiry %s tries %d", ErrInvalidConfig, that.Lock.Expiry, that.Lock.Tries)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Board) Settings() entity.Settings {
	return entity.Settings{
		Width:  that.Width,
		Height: that.Height,
		Mines:  that.Mines,
	}
}
