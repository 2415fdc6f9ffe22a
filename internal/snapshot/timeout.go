package snapshot

import "time"

// TimeoutKind identifies which variety of timeout is active.
type TimeoutKind uint8

const (
	TimeoutNone TimeoutKind = iota
	TimeoutTeam
	TimeoutRef
	TimeoutPenaltyShot
	TimeoutRugbyPenaltyShot

	numTimeoutKinds = int(TimeoutRugbyPenaltyShot) + 1
)

func (k TimeoutKind) Valid() bool {
	return int(k) < numTimeoutKinds
}

// CountsUp reports whether the timeout's displayed time counts up (Ref,
// PenaltyShot) rather than down (Team, RugbyPenaltyShot).
func (k TimeoutKind) CountsUp() bool {
	return k == TimeoutRef || k == TimeoutPenaltyShot
}

// TimeoutState is the tournament manager's authoritative record of any
// in-progress timeout.
type TimeoutState struct {
	Kind TimeoutKind

	// TeamColor is meaningful only when Kind == TimeoutTeam.
	TeamColor Color

	// Deadline is the instant a counting-down timeout ends (Team,
	// RugbyPenaltyShot). Zero when Kind counts up or Kind == TimeoutNone.
	Deadline time.Time

	// StartedAt is the instant a counting-up timeout began (Ref,
	// PenaltyShot). Zero when Kind counts down or Kind == TimeoutNone.
	StartedAt time.Time
}

// TimeoutSnapshot is the serializable projection of the current timeout.
type TimeoutSnapshot struct {
	Kind TimeoutKind
	// TeamColor is meaningful only when Kind == TimeoutTeam.
	TeamColor Color
	// Seconds is the countdown (Team, RugbyPenaltyShot) or count-up (Ref,
	// PenaltyShot) value to display, saturated to fit the wire field.
	Seconds uint16
}
