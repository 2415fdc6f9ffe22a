package snapshot

import (
	"slices"
	"time"
)

// MaxPenaltiesPerColor is the hard upper bound on penalty-list length
// surfaced in any snapshot projection (heap or no-heap).
const MaxPenaltiesPerColor = 8

// Score is the per-color goal tally, each 0..=99.
type Score = BlackWhiteBundle[uint8]

// GoalEvent is a transient UI hint identifying the most recent goal, so a
// renderer can flash. Excluded from GameSnapshot equality (open question
// (b): the heap snapshot compares RecentGoal in some places and not others
// in the source; this spec declares it excluded everywhere).
type GoalEvent struct {
	Color        Color
	PlayerNumber uint8
}

// GameSnapshot is the heap-backed form produced by the tournament manager:
// a value, free of back-pointers, trivially clonable, and the universal
// currency between the manager, the renderer, and (via conversion to
// GameSnapshotNoHeap) the wire codec.
type GameSnapshot struct {
	CurrentPeriod GamePeriod
	SecsInPeriod  uint32
	Timeout       TimeoutSnapshot
	Scores        Score

	Penalties BlackWhiteBundle[[]PenaltySnapshot]
	Warnings  BlackWhiteBundle[[]Infraction]
	Fouls     OptColorBundle[[]Infraction]

	IsOldGame      bool
	GameNumber     uint32
	NextGameNumber uint32

	EventID *string

	// RecentGoal is a transient UI hint; excluded from Equal.
	RecentGoal *GoalEvent

	// NextPeriodLenSecs hints at the upcoming period's nominal length, used
	// by renderers that preview the next phase.
	NextPeriodLenSecs uint32
}

// Equal compares two snapshots for round-trip and test purposes, ignoring
// RecentGoal since it is a transient UI hint rather than durable state.
func (s GameSnapshot) Equal(other GameSnapshot) bool {
	if s.CurrentPeriod != other.CurrentPeriod ||
		s.SecsInPeriod != other.SecsInPeriod ||
		s.Timeout != other.Timeout ||
		s.Scores != other.Scores ||
		s.IsOldGame != other.IsOldGame ||
		s.GameNumber != other.GameNumber ||
		s.NextGameNumber != other.NextGameNumber ||
		s.NextPeriodLenSecs != other.NextPeriodLenSecs {
		return false
	}
	if !penaltySlicesEqual(s.Penalties.Black, other.Penalties.Black) ||
		!penaltySlicesEqual(s.Penalties.White, other.Penalties.White) {
		return false
	}
	if !slices.Equal(s.Warnings.Black, other.Warnings.Black) ||
		!slices.Equal(s.Warnings.White, other.Warnings.White) ||
		!slices.Equal(s.Fouls.Black, other.Fouls.Black) ||
		!slices.Equal(s.Fouls.Equal, other.Fouls.Equal) ||
		!slices.Equal(s.Fouls.White, other.Fouls.White) {
		return false
	}
	if (s.EventID == nil) != (other.EventID == nil) ||
		(s.EventID != nil && *s.EventID != *other.EventID) {
		return false
	}
	return true
}

func penaltySlicesEqual(a, b []PenaltySnapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Less orders two snapshots by (GameNumber, CurrentPeriod, -SecsInPeriod)
// for UI sorting purposes only — not a gameplay invariant.
func (s GameSnapshot) Less(other GameSnapshot) bool {
	if s.GameNumber != other.GameNumber {
		return s.GameNumber < other.GameNumber
	}
	if s.CurrentPeriod != other.CurrentPeriod {
		return s.CurrentPeriod < other.CurrentPeriod
	}
	return s.SecsInPeriod > other.SecsInPeriod
}

// ToNoHeap projects the heap snapshot down to the fixed-capacity form the
// wire codec accepts. Penalties beyond MaxPenaltiesPerColor are assumed to
// have already been clamped by the manager; this conversion simply
// truncates defensively.
func (s GameSnapshot) ToNoHeap() GameSnapshotNoHeap {
	nh := GameSnapshotNoHeap{
		CurrentPeriod: s.CurrentPeriod,
		SecsInPeriod:  s.SecsInPeriod,
		Timeout:       s.Timeout,
		Scores:        s.Scores,
		IsOldGame:     s.IsOldGame,
	}
	nh.BlackPenalties = clampPenalties(s.Penalties.Black)
	nh.WhitePenalties = clampPenalties(s.Penalties.White)
	return nh
}

func clampPenalties(p []PenaltySnapshot) []PenaltySnapshot {
	if len(p) <= MaxPenaltiesPerColor {
		return p
	}
	return p[:MaxPenaltiesPerColor]
}

// GameSnapshotNoHeap is the source of truth for the wire codec: identical
// semantics to GameSnapshot's on-wire fields, but holding at most
// MaxPenaltiesPerColor penalties per side. The penalty lists are ordinary
// slices, not fixed-size arrays, so the cap is kept by ToNoHeap and checked
// by the codec rather than by the type. Game
// numbers and event metadata are not part of the wire contract and so are
// not carried here.
type GameSnapshotNoHeap struct {
	CurrentPeriod GamePeriod
	SecsInPeriod  uint32
	Timeout       TimeoutSnapshot
	Scores        Score

	BlackPenalties []PenaltySnapshot // len <= MaxPenaltiesPerColor
	WhitePenalties []PenaltySnapshot // len <= MaxPenaltiesPerColor

	IsOldGame bool
}

// Brightness is the panel's display brightness setting.
type Brightness uint8

const (
	BrightnessLow Brightness = iota
	BrightnessMedium
	BrightnessHigh
	BrightnessOutdoor

	numBrightnessLevels = int(BrightnessOutdoor) + 1
)

func (b Brightness) Valid() bool {
	return int(b) < numBrightnessLevels
}

// TransmittedData is the full payload shipped over the panel wire protocol:
// the heap-free snapshot plus the handful of display flags that govern how
// a panel renders it.
type TransmittedData struct {
	WhiteOnRight bool
	Flash        bool
	BeepTest     bool
	Brightness   Brightness
	Snapshot     GameSnapshotNoHeap
}

// nowToDeadlineSecs derives a saturating whole-second remaining time from a
// deadline: deadline - now, saturating at zero.
func nowToDeadlineSecs(deadline, now time.Time) uint32 {
	if deadline.IsZero() || !deadline.After(now) {
		return 0
	}
	d := deadline.Sub(now)
	// Ceiling to whole seconds so a clock reading never undercounts the
	// time actually left: a fresh period should show its full nominal
	// duration, not one tick short of it.
	secs := d / time.Second
	if d%time.Second != 0 {
		secs++
	}
	return uint32(secs)
}
