package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUsers(t *testing.T) {
	users, err := parseUsers("Deco:Deco, Rafa:s3:cret ,")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Deco": "Deco", "Rafa": "s3:cret"}, users)

	users, err = parseUsers("")
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = parseUsers("nopassword")
	assert.Error(t, err)
	_, err = parseUsers(":x")
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, time.Minute, cfg.CheckInterval)
	assert.Equal(t, 175.0, cfg.BRLToCLPRate)
	assert.False(t, cfg.TelegramEnabled())
	assert.False(t, cfg.CalDAVEnabled())
	assert.True(t, cfg.CheckLogin("Deco", "Deco"))
	assert.False(t, cfg.CheckLogin("Deco", "deco"))
	assert.False(t, cfg.CheckLogin("Ana", ""))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("OWNER_TELEGRAM_ID", "42")
	t.Setenv("PARTNER_TELEGRAM_ID", "43")
	t.Setenv("REMINDER_CHECK_INTERVAL", "30s")
	t.Setenv("LOGIN_USERS", "Ana:pw")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, 30*time.Second, cfg.CheckInterval)
	assert.Equal(t, []int64{42, 43}, cfg.FamilyChats())
	assert.True(t, cfg.IsAllowedUser(43))
	assert.False(t, cfg.IsAllowedUser(44))
	assert.True(t, cfg.CheckLogin("Ana", "pw"))
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("token without owner", func(t *testing.T) {
		t.Setenv("TIMEZONE", "UTC")
		t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("unknown timezone", func(t *testing.T) {
		t.Setenv("TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("zero interval", func(t *testing.T) {
		t.Setenv("TIMEZONE", "UTC")
		t.Setenv("REMINDER_CHECK_INTERVAL", "0s")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestFamilyChatsWithoutPartner(t *testing.T) {
	cfg := &Config{OwnerTelegramID: 42}
	assert.Equal(t, []int64{42}, cfg.FamilyChats())
	assert.True(t, cfg.IsAllowedUser(42))
	assert.False(t, cfg.IsAllowedUser(0))
}
