package snapshot

import "time"

// GameConfig is immutable for the life of one game.
type GameConfig struct {
	TeamTimeoutsPerHalf uint16
	OvertimeAllowed     bool
	SuddenDeathAllowed  bool

	HalfPlayDuration         time.Duration
	HalfTimeDuration         time.Duration
	TeamTimeoutDuration      time.Duration
	PenaltyShotDuration      time.Duration
	OvertimeHalfPlayDuration time.Duration
	OvertimeHalfTimeDuration time.Duration
	PreOvertimeBreak         time.Duration
	PreSuddenDeathDuration   time.Duration
	PostGameDuration         time.Duration
	NominalBreak             time.Duration
	MinimumBreak             time.Duration
}

// DefaultGameConfig returns the stock rule set, matching the original
// implementation's Game::default().
func DefaultGameConfig() GameConfig {
	return GameConfig{
		TeamTimeoutsPerHalf:      1,
		OvertimeAllowed:          true,
		SuddenDeathAllowed:       true,
		HalfPlayDuration:         900 * time.Second,
		HalfTimeDuration:         180 * time.Second,
		TeamTimeoutDuration:      60 * time.Second,
		PenaltyShotDuration:      45 * time.Second,
		OvertimeHalfPlayDuration: 300 * time.Second,
		OvertimeHalfTimeDuration: 180 * time.Second,
		PreOvertimeBreak:         180 * time.Second,
		PreSuddenDeathDuration:   60 * time.Second,
		PostGameDuration:         120 * time.Second,
		NominalBreak:             900 * time.Second,
		MinimumBreak:             240 * time.Second,
	}
}
