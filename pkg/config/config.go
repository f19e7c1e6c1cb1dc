package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"reveil/pkg/models"
)

// Config holds the daemon's runtime settings, read from the environment with
// an optional .env file.
type Config struct {
	DataFile     string
	PollInterval time.Duration
	DefaultSound string
	CalendarFile string // iCalendar export target; empty disables the export
	Autostart    bool
	LogLevel     string
}

// Load reads configuration from the environment. Every variable has a
// sensible default, so an empty environment yields a working config.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		DataFile:     getenv("REVEIL_DATA_FILE", "alarms.json"),
		PollInterval: time.Duration(getenvInt("REVEIL_POLL_INTERVAL", 30)) * time.Second,
		DefaultSound: getenv("REVEIL_DEFAULT_SOUND", models.DefaultSoundFile),
		CalendarFile: getenv("REVEIL_CALENDAR_FILE", ""),
		Autostart:    getenv("REVEIL_AUTOSTART", "false") == "true",
		LogLevel:     getenv("REVEIL_LOG_LEVEL", "info"),
	}
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
