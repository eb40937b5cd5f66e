package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("PUPPET", "mock")

	config, err := LoadConfig()
	req.NoError(err)
	req.Equal("mock", config.Puppet)
	req.Equal(8080, config.Port)
	req.Equal(time.Second, config.RestartInterval)
	req.Nil(config.LimitMessages)
}

func TestLoadConfig_Telegram_Requires_A_Token(t *testing.T) {
	req := require.New(t)
	t.Setenv("PUPPET", "telegram")
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := LoadConfig()
	req.Error(err)

	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	config, err := LoadConfig()
	req.NoError(err)
	req.Equal("https://api.telegram.org/bot123:abc", config.TelegramBaseURL())
}

func TestLoadConfig_Rejects_Unknown_Puppet(t *testing.T) {
	t.Setenv("PUPPET", "carrier-pigeon")
	_, err := LoadConfig()
	require.Error(t, err)
}
