package internal

import (
	"fmt"
	"puppet-lab/validation"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type Config struct {
	Puppet          string        `env:"PUPPET,default=mock" validate:"oneof=mock telegram"`
	LimitMessages   *int          `env:"LIMIT_MESSAGES"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=1s"`
	BadgerFilepath  string        `env:"BADGER_FILEPATH,default=./data/badger" validate:"required"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	Host            string        `env:"HOST,default=localhost"`
	Port            int           `env:"PORT,default=8080" validate:"min=1,max=65535"`
	DebugPort       int           `env:"DEBUG_PORT,default=9090" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`

	TelegramToken       string        `env:"TELEGRAM_TOKEN" validate:"required_if=Puppet telegram"`
	TelegramAPIURL      string        `env:"TELEGRAM_API_URL,default=https://api.telegram.org" validate:"url"`
	TelegramPollTimeout int           `env:"TELEGRAM_POLL_TIMEOUT,default=30" validate:"min=0,max=50"`
	TelegramTimeout     time.Duration `env:"TELEGRAM_REQUEST_TIMEOUT,default=40s"`
	SendRPS             float64       `env:"SEND_RPS,default=1" validate:"gt=0"`
	SendBurst           int           `env:"SEND_BURST,default=3" validate:"min=1"`

	// Mock puppet account
	MockSelfID   string `env:"MOCK_SELF_ID,default=ding-dong-bot"`
	MockSelfName string `env:"MOCK_SELF_NAME,default=DingDong"`
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validation.Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// TelegramBaseURL is the bot API base the client calls methods on.
func (c Config) TelegramBaseURL() string {
	return fmt.Sprintf("%s/bot%s", c.TelegramAPIURL, c.TelegramToken)
}
