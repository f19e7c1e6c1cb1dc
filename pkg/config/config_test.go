package config

import (
	"testing"
	"time"

	"github.com/matryer/is"

	"reveil/pkg/models"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"REVEIL_DATA_FILE",
		"REVEIL_POLL_INTERVAL",
		"REVEIL_DEFAULT_SOUND",
		"REVEIL_CALENDAR_FILE",
		"REVEIL_AUTOSTART",
		"REVEIL_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	is := is.New(t)
	clearEnv(t)

	cfg := Load()
	is.Equal(cfg.DataFile, "alarms.json")
	is.Equal(cfg.PollInterval, 30*time.Second)
	is.Equal(cfg.DefaultSound, models.DefaultSoundFile)
	is.Equal(cfg.CalendarFile, "")
	is.Equal(cfg.Autostart, false)
	is.Equal(cfg.LogLevel, "info")
}

func TestLoadOverrides(t *testing.T) {
	is := is.New(t)
	clearEnv(t)

	t.Setenv("REVEIL_DATA_FILE", "/var/lib/reveil/alarms.json")
	t.Setenv("REVEIL_POLL_INTERVAL", "5")
	t.Setenv("REVEIL_DEFAULT_SOUND", "sounds/chime.wav")
	t.Setenv("REVEIL_CALENDAR_FILE", "alarms.ics")
	t.Setenv("REVEIL_AUTOSTART", "true")
	t.Setenv("REVEIL_LOG_LEVEL", "debug")

	cfg := Load()
	is.Equal(cfg.DataFile, "/var/lib/reveil/alarms.json")
	is.Equal(cfg.PollInterval, 5*time.Second)
	is.Equal(cfg.DefaultSound, "sounds/chime.wav")
	is.Equal(cfg.CalendarFile, "alarms.ics")
	is.Equal(cfg.Autostart, true)
	is.Equal(cfg.LogLevel, "debug")
}

func TestLoadRejectsBadInterval(t *testing.T) {
	is := is.New(t)
	clearEnv(t)

	t.Setenv("REVEIL_POLL_INTERVAL", "not-a-number")
	is.Equal(Load().PollInterval, 30*time.Second)

	t.Setenv("REVEIL_POLL_INTERVAL", "-5")
	is.Equal(Load().PollInterval, 30*time.Second)
}
