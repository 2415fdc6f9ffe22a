// Package config provides centralized configuration management: service
// settings, and environment overrides of the rule-set. The rule-set
// defaults themselves live in snapshot.DefaultGameConfig.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/snapshot"
)

// =============================================================================
// GAME RULE CONFIGURATION
// =============================================================================

// GameConfigFromEnv returns snapshot.DefaultGameConfig with environment
// variable overrides, so a tournament can retune period lengths without a
// rebuild.
func GameConfigFromEnv() snapshot.GameConfig {
	cfg := snapshot.DefaultGameConfig()

	if v := getEnvDuration("REFBOX_HALF_PLAY_DURATION", 0); v > 0 {
		cfg.HalfPlayDuration = v
	}
	if v := getEnvDuration("REFBOX_HALF_TIME_DURATION", 0); v > 0 {
		cfg.HalfTimeDuration = v
	}
	if v := getEnvDuration("REFBOX_TEAM_TIMEOUT_DURATION", 0); v > 0 {
		cfg.TeamTimeoutDuration = v
	}
	if v := getEnvDuration("REFBOX_PENALTY_SHOT_DURATION", 0); v > 0 {
		cfg.PenaltyShotDuration = v
	}
	if v := getEnvDuration("REFBOX_OVERTIME_HALF_PLAY_DURATION", 0); v > 0 {
		cfg.OvertimeHalfPlayDuration = v
	}
	if v := getEnvDuration("REFBOX_OVERTIME_HALF_TIME_DURATION", 0); v > 0 {
		cfg.OvertimeHalfTimeDuration = v
	}
	if v := getEnvDuration("REFBOX_PRE_OVERTIME_BREAK", 0); v > 0 {
		cfg.PreOvertimeBreak = v
	}
	if v := getEnvDuration("REFBOX_PRE_SUDDEN_DEATH_DURATION", 0); v > 0 {
		cfg.PreSuddenDeathDuration = v
	}
	if v := getEnvDuration("REFBOX_POST_GAME_DURATION", 0); v > 0 {
		cfg.PostGameDuration = v
	}
	if v := getEnvDuration("REFBOX_NOMINAL_BREAK", 0); v > 0 {
		cfg.NominalBreak = v
	}
	if v := getEnvDuration("REFBOX_MINIMUM_BREAK", 0); v > 0 {
		cfg.MinimumBreak = v
	}
	if v := getEnvInt("REFBOX_TEAM_TIMEOUTS_PER_HALF", -1); v >= 0 {
		cfg.TeamTimeoutsPerHalf = uint16(v)
	}
	if v, ok := getEnvBool("REFBOX_OVERTIME_ALLOWED"); ok {
		cfg.OvertimeAllowed = v
	}
	if v, ok := getEnvBool("REFBOX_SUDDEN_DEATH_ALLOWED"); ok {
		cfg.SuddenDeathAllowed = v
	}

	return cfg
}

// =============================================================================
// SERVICE ADDRESSES
// =============================================================================

// ServiceConfig holds every network address and file path the binaries need.
type ServiceConfig struct {
	PanelAddr      string // TCP listen address for the panel wire protocol
	RemoteAddr     string // UDP listen address for wireless remote packets
	HTTPAddr       string // read-only HTTP/WebSocket API
	DebugAddr      string // Prometheus/pprof debug server
	EventLogPath   string // newline-delimited JSON stats sink
	KnownRemoteIDs []uint32
}

// DefaultServiceConfig returns production-shaped defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		PanelAddr:    ":5800",
		RemoteAddr:   ":5810",
		HTTPAddr:     ":8080",
		DebugAddr:    "127.0.0.1:6060",
		EventLogPath: "refbox-events.jsonl",
	}
}

// ServiceConfigFromEnv returns ServiceConfig with environment overrides.
func ServiceConfigFromEnv() ServiceConfig {
	cfg := DefaultServiceConfig()

	if v := os.Getenv("REFBOX_PANEL_ADDR"); v != "" {
		cfg.PanelAddr = v
	}
	if v := os.Getenv("REFBOX_REMOTE_ADDR"); v != "" {
		cfg.RemoteAddr = v
	}
	if v := os.Getenv("REFBOX_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("REFBOX_DEBUG_ADDR"); v != "" {
		cfg.DebugAddr = v
	}
	if v := os.Getenv("REFBOX_EVENT_LOG_PATH"); v != "" {
		cfg.EventLogPath = v
	}
	if v := os.Getenv("REFBOX_KNOWN_REMOTE_IDS"); v != "" {
		cfg.KnownRemoteIDs = parseUint32List(v)
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Game    snapshot.GameConfig
	Service ServiceConfig
}

// Load reads a .env file if present (cmd binaries call this once at
// startup; its absence is not an error — most deployments set real
// environment variables instead) and returns the complete configuration
// with environment overrides applied.
func Load() AppConfig {
	_ = godotenv.Load() // optional; missing .env is the common case outside local dev

	return AppConfig{
		Game:    GameConfigFromEnv(),
		Service: ServiceConfigFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}

func getEnvBool(key string) (value bool, ok bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func parseUint32List(v string) []uint32 {
	var ids []uint32
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			if i > start {
				if n, err := strconv.ParseUint(v[start:i], 10, 32); err == nil {
					ids = append(ids, uint32(n))
				}
			}
			start = i + 1
		}
	}
	return ids
}
