package tournament

import (
	"encoding/json"
	"time"

	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/snapshot"
)

// EventType classifies an entry in a game's stats stream: only Goal and
// Penalty variants are carried.
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeGoal
	EventTypePenalty
)

// EventVersion allows future stats consumers to detect a schema change.
const EventVersion uint8 = 1

// Event is one entry in a game's stats stream: a typed, JSON-encoded
// payload plus the bookkeeping the exporter needs to emit them in
// occurred-on order.
type Event struct {
	Version    uint8     `json:"version"`
	Type       EventType `json:"type"`
	Sequence   uint64    `json:"sequence"`
	GameNumber uint32    `json:"gameNumber"`
	OccurredOn time.Time `json:"occurredOn"`
	Payload    []byte    `json:"payload"`
}

func (t EventType) String() string {
	switch t {
	case EventTypeGoal:
		return "goal"
	case EventTypePenalty:
		return "penalty"
	default:
		return "unknown"
	}
}

// GoalPayload records one goal. PeriodTime is seconds (fractional),
// matching the stats export's wire shape rather than Go's nanosecond
// Duration encoding.
type GoalPayload struct {
	PlayerCapNumber uint8               `json:"playerCapNumber"`
	Side            string              `json:"side"` // "dark" or "light"
	GamePeriod      snapshot.GamePeriod `json:"gamePeriod"`
	PeriodTime      float64             `json:"periodTime"`
}

// PenaltyPayload records one penalty issuance.
type PenaltyPayload struct {
	PlayerCapNumber  uint8               `json:"playerCapNumber"`
	Side             string              `json:"side"`
	GamePeriod       snapshot.GamePeriod `json:"gamePeriod"`
	PeriodTime       float64             `json:"periodTime"`
	Duration         *uint64             `json:"duration,omitempty"` // seconds; nil for TotalDismissal
	IsTotalDismissal bool                `json:"isTotalDismissal"`
	Infraction       string              `json:"infraction"`
}

func sideName(c snapshot.Color) string {
	if c == snapshot.Black {
		return "dark"
	}
	return "light"
}

// EncodePayload marshals a typed payload to JSON bytes, returning nil on a
// marshal failure (a typed payload built from this package's own structs
// never fails to marshal in practice).
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewGoalEvent builds a goal stats entry for gameNumber, timestamped now.
func NewGoalEvent(gameNumber uint32, seq uint64, color snapshot.Color, player uint8, period snapshot.GamePeriod, periodTime time.Duration, now time.Time) Event {
	return Event{
		Version:    EventVersion,
		Type:       EventTypeGoal,
		Sequence:   seq,
		GameNumber: gameNumber,
		OccurredOn: now,
		Payload: EncodePayload(GoalPayload{
			PlayerCapNumber: player,
			Side:            sideName(color),
			GamePeriod:      period,
			PeriodTime:      periodTime.Seconds(),
		}),
	}
}

// NewPenaltyEvent builds a penalty stats entry for gameNumber, timestamped now.
func NewPenaltyEvent(gameNumber uint32, seq uint64, p snapshot.Penalty, now time.Time) Event {
	payload := PenaltyPayload{
		PlayerCapNumber: p.PlayerNumber,
		Side:            sideName(p.Color),
		GamePeriod:      p.StartPeriod,
		PeriodTime:      p.StartTime.Seconds(),
		Infraction:      p.Infraction.String(),
	}
	if d, ok := p.Kind.Duration(); ok {
		secs := uint64(d / time.Second)
		payload.Duration = &secs
	} else {
		payload.IsTotalDismissal = true
	}
	return Event{
		Version:    EventVersion,
		Type:       EventTypePenalty,
		Sequence:   seq,
		GameNumber: gameNumber,
		OccurredOn: now,
		Payload:    EncodePayload(payload),
	}
}
