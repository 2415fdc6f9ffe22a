package config

import (
	"testing"
	"time"
)

func TestGameConfigFromEnvDefaultsUnchangedWithNoEnv(t *testing.T) {
	for _, key := range []string{
		"REFBOX_HALF_PLAY_DURATION", "REFBOX_TEAM_TIMEOUTS_PER_HALF", "REFBOX_OVERTIME_ALLOWED",
	} {
		t.Setenv(key, "")
	}
	cfg := GameConfigFromEnv()
	if cfg.HalfPlayDuration != 900*time.Second {
		t.Errorf("HalfPlayDuration = %v, want default 900s", cfg.HalfPlayDuration)
	}
}

func TestGameConfigFromEnvOverridesDuration(t *testing.T) {
	t.Setenv("REFBOX_HALF_PLAY_DURATION", "10m")
	cfg := GameConfigFromEnv()
	if cfg.HalfPlayDuration != 10*time.Minute {
		t.Errorf("HalfPlayDuration = %v, want 10m", cfg.HalfPlayDuration)
	}
}

func TestGameConfigFromEnvOverridesDurationAsPlainSeconds(t *testing.T) {
	t.Setenv("REFBOX_TEAM_TIMEOUT_DURATION", "45")
	cfg := GameConfigFromEnv()
	if cfg.TeamTimeoutDuration != 45*time.Second {
		t.Errorf("TeamTimeoutDuration = %v, want 45s", cfg.TeamTimeoutDuration)
	}
}

func TestGameConfigFromEnvOverridesBool(t *testing.T) {
	t.Setenv("REFBOX_OVERTIME_ALLOWED", "false")
	cfg := GameConfigFromEnv()
	if cfg.OvertimeAllowed {
		t.Error("OvertimeAllowed = true, want false")
	}
}

func TestGameConfigFromEnvOverridesInt(t *testing.T) {
	t.Setenv("REFBOX_TEAM_TIMEOUTS_PER_HALF", "3")
	cfg := GameConfigFromEnv()
	if cfg.TeamTimeoutsPerHalf != 3 {
		t.Errorf("TeamTimeoutsPerHalf = %d, want 3", cfg.TeamTimeoutsPerHalf)
	}
}

func TestServiceConfigFromEnvOverridesAddr(t *testing.T) {
	t.Setenv("REFBOX_PANEL_ADDR", ":9999")
	cfg := ServiceConfigFromEnv()
	if cfg.PanelAddr != ":9999" {
		t.Errorf("PanelAddr = %q, want :9999", cfg.PanelAddr)
	}
}

func TestServiceConfigFromEnvParsesKnownRemoteIDs(t *testing.T) {
	t.Setenv("REFBOX_KNOWN_REMOTE_IDS", "1,2,42")
	cfg := ServiceConfigFromEnv()
	want := []uint32{1, 2, 42}
	if len(cfg.KnownRemoteIDs) != len(want) {
		t.Fatalf("KnownRemoteIDs = %v, want %v", cfg.KnownRemoteIDs, want)
	}
	for i, id := range want {
		if cfg.KnownRemoteIDs[i] != id {
			t.Errorf("KnownRemoteIDs[%d] = %d, want %d", i, cfg.KnownRemoteIDs[i], id)
		}
	}
}

func TestParseUint32ListIgnoresTrailingComma(t *testing.T) {
	got := parseUint32List("5,6,")
	if len(got) != 2 || got[0] != 5 || got[1] != 6 {
		t.Errorf("parseUint32List(\"5,6,\") = %v, want [5 6]", got)
	}
}
