package snapshot

import (
	"encoding/json"
	"fmt"
	"time"
)

// GamePeriod is one phase of a game's lifecycle.
type GamePeriod uint8

const (
	BetweenGames GamePeriod = iota
	FirstHalf
	HalfTime
	SecondHalf
	PreOvertime
	OvertimeFirstHalf
	OvertimeHalfTime
	OvertimeSecondHalf
	PreSuddenDeath
	SuddenDeath

	numGamePeriods = int(SuddenDeath) + 1
)

func (p GamePeriod) String() string {
	switch p {
	case BetweenGames:
		return "Between Games"
	case FirstHalf:
		return "First Half"
	case HalfTime:
		return "Half Time"
	case SecondHalf:
		return "Second Half"
	case PreOvertime:
		return "Pre Overtime"
	case OvertimeFirstHalf:
		return "Overtime First Half"
	case OvertimeHalfTime:
		return "Overtime Half Time"
	case OvertimeSecondHalf:
		return "Overtime Second Half"
	case PreSuddenDeath:
		return "Pre Sudden Death"
	case SuddenDeath:
		return "Sudden Death"
	default:
		return "Unknown Period"
	}
}

// variantName returns the bare tagged-variant name ("SecondHalf", not
// String's human-readable "Second Half"), matching the wire convention
// used by the stats export and the read-only HTTP API.
func (p GamePeriod) variantName() string {
	switch p {
	case BetweenGames:
		return "BetweenGames"
	case FirstHalf:
		return "FirstHalf"
	case HalfTime:
		return "HalfTime"
	case SecondHalf:
		return "SecondHalf"
	case PreOvertime:
		return "PreOvertime"
	case OvertimeFirstHalf:
		return "OvertimeFirstHalf"
	case OvertimeHalfTime:
		return "OvertimeHalfTime"
	case OvertimeSecondHalf:
		return "OvertimeSecondHalf"
	case PreSuddenDeath:
		return "PreSuddenDeath"
	case SuddenDeath:
		return "SuddenDeath"
	default:
		return "Unknown"
	}
}

// MarshalJSON encodes p as its bare variant name, e.g. "SecondHalf", so
// JSON consumers of the stats export and the snapshot API see a tagged
// variant name rather than the underlying uint8.
func (p GamePeriod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.variantName())
}

// UnmarshalJSON is the inverse of MarshalJSON: it accepts a bare variant
// name such as "SecondHalf".
func (p *GamePeriod) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for q := GamePeriod(0); int(q) < numGamePeriods; q++ {
		if q.variantName() == name {
			*p = q
			return nil
		}
	}
	return fmt.Errorf("snapshot: unknown game period %q", name)
}

// Valid reports whether p is one of the ten defined periods. The wire codec
// uses this to reject an out-of-range decoded value.
func (p GamePeriod) Valid() bool {
	return int(p) < numGamePeriods
}

// PenaltiesTick reports whether elapsed time in this period decrements
// active penalties. True only for the four half-play periods and sudden
// death (the "play periods" of the glossary).
func (p GamePeriod) PenaltiesTick() bool {
	switch p {
	case FirstHalf, SecondHalf, OvertimeFirstHalf, OvertimeSecondHalf, SuddenDeath:
		return true
	default:
		return false
	}
}

// IsBreak reports whether p is a non-play period.
func (p GamePeriod) IsBreak() bool {
	return !p.PenaltiesTick()
}

// ClockStoppedByDefault reports whether the clock is authoritatively
// stopped in this period (before any operator override): BetweenGames,
// HalfTime, OvertimeHalfTime, PreOvertime, PreSuddenDeath.
func (p GamePeriod) ClockStoppedByDefault() bool {
	switch p {
	case BetweenGames, HalfTime, OvertimeHalfTime, PreOvertime, PreSuddenDeath:
		return true
	default:
		return false
	}
}

// Duration returns the nominal duration of one pass through this period,
// looked up from cfg. BetweenGames and SuddenDeath have no fixed duration
// in cfg terms: BetweenGames uses max(nominal_break, minimum_break) (or an
// external schedule override, applied by the caller) and SuddenDeath has no
// natural expiry at all.
func (p GamePeriod) Duration(cfg GameConfig) time.Duration {
	switch p {
	case BetweenGames:
		return maxDuration(cfg.NominalBreak, cfg.MinimumBreak)
	case FirstHalf, SecondHalf:
		return cfg.HalfPlayDuration
	case HalfTime:
		return cfg.HalfTimeDuration
	case PreOvertime:
		return cfg.PreOvertimeBreak
	case OvertimeFirstHalf, OvertimeSecondHalf:
		return cfg.OvertimeHalfPlayDuration
	case OvertimeHalfTime:
		return cfg.OvertimeHalfTimeDuration
	case PreSuddenDeath:
		return cfg.PreSuddenDeathDuration
	case SuddenDeath:
		return 0
	default:
		return 0
	}
}

// Next returns the deterministic successor period under normal flow, given
// whether the score is currently tied. SuddenDeath has no natural successor
// (ok is false) — it ends only on a goal or an operator-forced transition.
func (p GamePeriod) Next(tied bool, cfg GameConfig) (next GamePeriod, ok bool) {
	switch p {
	case BetweenGames:
		return FirstHalf, true
	case FirstHalf:
		return HalfTime, true
	case HalfTime:
		return SecondHalf, true
	case SecondHalf:
		switch {
		case tied && cfg.OvertimeAllowed:
			return PreOvertime, true
		case tied && cfg.SuddenDeathAllowed:
			return PreSuddenDeath, true
		default:
			return BetweenGames, true
		}
	case PreOvertime:
		return OvertimeFirstHalf, true
	case OvertimeFirstHalf:
		return OvertimeHalfTime, true
	case OvertimeHalfTime:
		return OvertimeSecondHalf, true
	case OvertimeSecondHalf:
		if tied && cfg.SuddenDeathAllowed {
			return PreSuddenDeath, true
		}
		return BetweenGames, true
	case PreSuddenDeath:
		return SuddenDeath, true
	case SuddenDeath:
		return BetweenGames, false
	default:
		return BetweenGames, false
	}
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
