package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

var env = newEnv()

func newEnv() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("APP_BASE_PATH", "")
	v.SetDefault("DEVELOPMENT", "0")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("JWT_TOKEN_LIFETIME", 24*time.Hour)
	v.SetDefault("MAX_CELLS", 10000)
	v.SetDefault("SESSION_TTL", time.Hour)
	v.SetDefault("SESSION_SWEEP_INTERVAL", time.Minute)
	v.SetDefault("COOKIES_DOMAIN", "")
	v.SetDefault("COOKIES_SECURE", "1")
	v.SetDefault("COOKIES_SAMESITE", "STRICT")
	return v
}

func Addr() string {
	return env.GetString("APP_ADDR")
}

// BasePath is the prefix every route is mounted under, without a trailing
// slash.
func BasePath() string {
	return strings.TrimRight(env.GetString("APP_BASE_PATH"), "/")
}

func Development() bool {
	return env.GetString("DEVELOPMENT") != "0"
}

func LogLevel() string {
	return env.GetString("LOG_LEVEL")
}

func LogFile() string {
	return env.GetString("LOG_FILE")
}

// MaxCells caps the board size a client may ask for.
func MaxCells() int {
	return env.GetInt("MAX_CELLS")
}

type Sessions struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

func NewSessions() Sessions {
	return Sessions{
		TTL:           env.GetDuration("SESSION_TTL"),
		SweepInterval: env.GetDuration("SESSION_SWEEP_INTERVAL"),
	}
}
