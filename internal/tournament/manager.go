// Package tournament implements the referee console's core state machine:
// the period clock, penalty and timeout lifecycles, scoring, and snapshot
// projection. The manager is deadline-driven rather than tick-driven: it
// never runs its own ticker, only recomputes state against whatever
// monotonic time it is handed.
package tournament

import (
	"sort"
	"sync"
	"time"

	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/snapshot"
)

type Color = snapshot.Color
type GamePeriod = snapshot.GamePeriod
type PenaltyKind = snapshot.PenaltyKind
type Infraction = snapshot.Infraction
type TimeoutKind = snapshot.TimeoutKind

const (
	Black = snapshot.Black
	White = snapshot.White

	BetweenGames       = snapshot.BetweenGames
	FirstHalf          = snapshot.FirstHalf
	HalfTime           = snapshot.HalfTime
	SecondHalf         = snapshot.SecondHalf
	PreOvertime        = snapshot.PreOvertime
	OvertimeFirstHalf  = snapshot.OvertimeFirstHalf
	OvertimeHalfTime   = snapshot.OvertimeHalfTime
	OvertimeSecondHalf = snapshot.OvertimeSecondHalf
	PreSuddenDeath     = snapshot.PreSuddenDeath
	SuddenDeath        = snapshot.SuddenDeath

	TotalDismissal = snapshot.TotalDismissal

	TimeoutTeam             = snapshot.TimeoutTeam
	TimeoutRef              = snapshot.TimeoutRef
	TimeoutPenaltyShot      = snapshot.TimeoutPenaltyShot
	TimeoutRugbyPenaltyShot = snapshot.TimeoutRugbyPenaltyShot
)

// Manager owns one game's authoritative state. Every mutator takes the
// current instant; every query projects state as of that instant. It never
// ticks on a wall-clock goroutine of its own — the Updater (updater.go)
// drives Update at the cadence NanosToUpdate reports.
type Manager struct {
	mu sync.Mutex

	cfg snapshot.GameConfig

	currentPeriod GamePeriod
	deadline      time.Time     // end of period; zero if no natural deadline or clock stopped
	clockRunning  bool
	remaining     time.Duration // valid when !clockRunning: remaining time at the moment of stop

	scores snapshot.Score

	penalties snapshot.BlackWhiteBundle[[]snapshot.Penalty]

	teamTimeoutsUsed snapshot.BlackWhiteBundle[uint16]

	timeout *snapshot.TimeoutState

	gameNumber, nextGameNumber uint32
	isOldGame                  bool

	// pendingGameEnd is set by a SuddenDeath-ending goal: the instant at
	// which the SuddenDeath -> BetweenGames transition fires after
	// post_game_duration's grace. Zero when unset.
	pendingGameEnd time.Time

	// penClockBase/penClockAnchor accumulate wall-clock time elapsed while
	// penalties are ticking, so a Penalty never needs to store or mutate
	// its own remaining time.
	penClockBase   time.Duration
	penClockAnchor time.Time

	eventLog *EventLog
	eventSeq uint64

	// OnPenaltyOverflow is called when the active-penalty clamp (cap 8 per
	// color) drops an entry from the wire-facing snapshot.
	OnPenaltyOverflow func(color Color)

	// Strict makes a backward now step panic instead of being clamped and
	// logged — set by tests; there is no build-tag switch.
	Strict bool

	// OnTimeWentBackwards is invoked (when Strict is false) whenever a caller
	// passes a now earlier than the last one seen; the call is clamped to
	// the last seen instant instead of applied as given.
	OnTimeWentBackwards func(attempted, clampedTo time.Time)

	lastSeenNow time.Time
}

// clampNowLocked enforces the manager's monotonicity invariant: now must
// never regress behind the last now it was given. A backward step panics
// in Strict mode; otherwise it is clamped to the last seen instant and
// reported via OnTimeWentBackwards.
func (m *Manager) clampNowLocked(now time.Time) time.Time {
	if !m.lastSeenNow.IsZero() && now.Before(m.lastSeenNow) {
		if m.Strict {
			panic("tournament: time went backwards")
		}
		if m.OnTimeWentBackwards != nil {
			m.OnTimeWentBackwards(now, m.lastSeenNow)
		}
		now = m.lastSeenNow
	}
	m.lastSeenNow = now
	return now
}

// NewManager creates a Manager in BetweenGames, clock stopped, for
// gameNumber. eventLog may be nil to disable stats emission.
func NewManager(cfg snapshot.GameConfig, gameNumber uint32, eventLog *EventLog) *Manager {
	m := &Manager{
		cfg:            cfg,
		currentPeriod:  BetweenGames,
		remaining:      BetweenGames.Duration(cfg),
		gameNumber:     gameNumber,
		nextGameNumber: gameNumber + 1,
		eventLog:       eventLog,
	}
	return m
}

// --- penalty ticking clock -------------------------------------------------

func (m *Manager) tickingLocked() bool {
	return m.timeout == nil && m.clockRunning && m.currentPeriod.PenaltiesTick()
}

func (m *Manager) finalizePenaltyClockLocked(now time.Time) {
	if !m.penClockAnchor.IsZero() {
		m.penClockBase += now.Sub(m.penClockAnchor)
		m.penClockAnchor = time.Time{}
	}
}

func (m *Manager) resumePenaltyClockLocked(now time.Time) {
	if m.tickingLocked() {
		m.penClockAnchor = now
	}
}

func (m *Manager) penaltyClockNowLocked(now time.Time) time.Duration {
	if !m.penClockAnchor.IsZero() {
		return m.penClockBase + now.Sub(m.penClockAnchor)
	}
	return m.penClockBase
}

// --- time projection --------------------------------------------------------

func (m *Manager) remainingInPeriodLocked(now time.Time) time.Duration {
	if m.clockRunning {
		if m.deadline.IsZero() {
			return 0
		}
		d := m.deadline.Sub(now)
		if d < 0 {
			return 0
		}
		return d
	}
	return m.remaining
}

func ceilSeconds(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	secs := d / time.Second
	if d%time.Second != 0 {
		secs++
	}
	return uint32(secs)
}

func nextBoundary(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Nanosecond
	}
	rem := d % time.Second
	if rem == 0 {
		rem = time.Second
	}
	return rem
}

// --- clock control -----------------------------------------------------------

// StartClock resumes a manually stopped play-period clock.
func (m *Manager) StartClock(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now = m.clampNowLocked(now)
	if m.clockRunning {
		return actionErr("start_clock", ClockAlreadyRunning)
	}
	if m.timeout != nil {
		return actionErr("start_clock", AlreadyInTimeout)
	}
	m.clockRunning = true
	if d := m.currentPeriod.Duration(m.cfg); d > 0 {
		m.deadline = now.Add(m.remaining)
	} else {
		m.deadline = time.Time{}
	}
	m.resumePenaltyClockLocked(now)
	return nil
}

// StopClock pauses the period clock, re-anchoring on the next StartClock to
// now + remaining.
func (m *Manager) StopClock(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now = m.clampNowLocked(now)
	if !m.clockRunning {
		return actionErr("stop_clock", ClockAlreadyStopped)
	}
	rem := m.remainingInPeriodLocked(now)
	m.finalizePenaltyClockLocked(now)
	m.clockRunning = false
	m.remaining = rem
	m.deadline = time.Time{}
	return nil
}

// --- period advance (infallible) --------------------------------------------

// Update is the clock-advance tick: infallible, it either transitions a
// period (or ends the game after a SuddenDeath goal's grace) or does
// nothing.
func (m *Manager) Update(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now = m.clampNowLocked(now)

	if m.timeout != nil {
		m.updateTimeoutLocked(now)
		return
	}

	if m.currentPeriod == SuddenDeath && !m.pendingGameEnd.IsZero() && !now.Before(m.pendingGameEnd) {
		m.pendingGameEnd = time.Time{}
		m.enterPeriodLocked(BetweenGames, now)
		return
	}

	if !m.clockRunning || m.deadline.IsZero() {
		return
	}
	if now.Before(m.deadline) {
		return
	}

	tied := m.scores.Black == m.scores.White
	next, ok := m.currentPeriod.Next(tied, m.cfg)
	if !ok {
		return
	}
	m.enterPeriodLocked(next, now)
}

func (m *Manager) updateTimeoutLocked(now time.Time) {
	t := m.timeout
	if t.Kind.CountsUp() {
		return
	}
	if !now.Before(t.Deadline) {
		m.endTimeoutLocked(now)
	}
}

func isHalfStart(p GamePeriod) bool {
	switch p {
	case FirstHalf, SecondHalf, OvertimeFirstHalf, OvertimeSecondHalf:
		return true
	default:
		return false
	}
}

func (m *Manager) enterPeriodLocked(next GamePeriod, now time.Time) {
	m.finalizePenaltyClockLocked(now)
	m.currentPeriod = next

	if isHalfStart(next) {
		m.teamTimeoutsUsed = snapshot.BlackWhiteBundle[uint16]{}
	}

	m.clockRunning = !next.ClockStoppedByDefault()
	if m.clockRunning {
		if d := next.Duration(m.cfg); d > 0 {
			m.deadline = now.Add(d)
		} else {
			m.deadline = time.Time{}
		}
	} else {
		m.remaining = next.Duration(m.cfg)
		m.deadline = time.Time{}
	}
	m.resumePenaltyClockLocked(now)

	if next == BetweenGames {
		m.isOldGame = true
		m.gameNumber = m.nextGameNumber
		m.nextGameNumber++
		m.scores = snapshot.Score{}
		m.penalties = snapshot.BlackWhiteBundle[[]snapshot.Penalty]{}
		m.teamTimeoutsUsed = snapshot.BlackWhiteBundle[uint16]{}
	}
}

// EndSuddenDeath forces the SuddenDeath -> BetweenGames transition
// immediately, for when the operator ends the game by hand rather than
// waiting for a deciding goal.
func (m *Manager) EndSuddenDeath(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now = m.clampNowLocked(now)
	if m.currentPeriod != SuddenDeath {
		return actionErr("end_sudden_death", NoGameInProgress)
	}
	m.pendingGameEnd = time.Time{}
	m.enterPeriodLocked(BetweenGames, now)
	return nil
}

// --- scoring -----------------------------------------------------------------

// AddScore records a goal for color by player, pushing a stats event and,
// in SuddenDeath, arming the post-game grace before the game ends.
func (m *Manager) AddScore(color Color, player uint8, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now = m.clampNowLocked(now)

	if m.currentPeriod == BetweenGames {
		return actionErr("add_score", NoGameInProgress)
	}
	if player < 1 || player > 99 {
		return actionErr("add_score", InvalidPlayerNumber)
	}
	cur := m.scores.Get(color)
	if cur >= 99 {
		return actionErr("add_score", ScoreOutOfRange)
	}
	m.scores.Set(color, cur+1)

	m.eventSeq++
	if m.eventLog != nil {
		m.eventLog.Emit(NewGoalEvent(m.gameNumber, m.eventSeq, color, player, m.currentPeriod, m.remainingInPeriodLocked(now), now))
	}

	if m.currentPeriod == SuddenDeath {
		m.pendingGameEnd = now.Add(m.cfg.PostGameDuration)
	}
	return nil
}

// --- penalties -----------------------------------------------------------------

// IssuePenalty records a new penalty against color/player. Its remaining
// time is never stored — it is derived fresh on every snapshot from the
// manager's penalty-ticking clock.
func (m *Manager) IssuePenalty(color Color, player uint8, kind PenaltyKind, infraction Infraction, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now = m.clampNowLocked(now)

	if m.currentPeriod == BetweenGames {
		return actionErr("issue_penalty", NoGameInProgress)
	}
	if player < 1 || player > 99 {
		return actionErr("issue_penalty", InvalidPlayerNumber)
	}

	p := snapshot.Penalty{
		Color:        color,
		PlayerNumber: player,
		Kind:         kind,
		StartPeriod:  m.currentPeriod,
		StartTime:    m.remainingInPeriodLocked(now),
		StartInstant: now,
		ClockAtIssue: m.penaltyClockNowLocked(now),
		Infraction:   infraction,
	}
	list := append(m.penalties.Get(color), p)
	m.penalties.Set(color, list)

	m.eventSeq++
	if m.eventLog != nil {
		m.eventLog.Emit(NewPenaltyEvent(m.gameNumber, m.eventSeq, p, now))
	}
	return nil
}

// DeletePenalty removes the penalty at idx (within the full, unfiltered
// internal list for color) as an explicit operator edit — the only way a
// penalty's record changes after issuance.
func (m *Manager) DeletePenalty(color Color, idx int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.penalties.Get(color)
	if idx < 0 || idx >= len(list) {
		return actionErr("delete_penalty", InvalidPlayerNumber)
	}
	list = append(list[:idx:idx], list[idx+1:]...)
	m.penalties.Set(color, list)
	return nil
}

func (m *Manager) servedLocked(p snapshot.Penalty, now time.Time) bool {
	if p.Kind == TotalDismissal {
		return false
	}
	dur, _ := p.Kind.Duration()
	elapsed := m.penaltyClockNowLocked(now) - p.ClockAtIssue
	return elapsed >= dur
}

func (m *Manager) penaltyTimeLocked(p snapshot.Penalty, now time.Time) snapshot.PenaltyTime {
	if p.Kind == TotalDismissal {
		return snapshot.PenaltyTime{IsTotalDismissal: true}
	}
	dur, _ := p.Kind.Duration()
	elapsed := m.penaltyClockNowLocked(now) - p.ClockAtIssue
	rem := dur - elapsed
	if rem < 0 {
		rem = 0
	}
	return snapshot.PenaltyTime{Seconds: uint16(ceilSeconds(rem))}
}

// activePenaltiesLocked filters served penalties out, clamps to
// snapshot.MaxPenaltiesPerColor (dropping the oldest by StartInstant first,
// firing OnPenaltyOverflow when that clamp bites), and returns the
// remainder sorted by (start period, then larger StartTime first, i.e. the
// penalty issued earliest in the period first).
func (m *Manager) activePenaltiesLocked(color Color, now time.Time) []snapshot.PenaltySnapshot {
	all := m.penalties.Get(color)
	active := make([]snapshot.Penalty, 0, len(all))
	for _, p := range all {
		if !m.servedLocked(p, now) {
			active = append(active, p)
		}
	}

	if len(active) > snapshot.MaxPenaltiesPerColor {
		sort.Slice(active, func(i, j int) bool {
			return active[i].StartInstant.Before(active[j].StartInstant)
		})
		active = active[len(active)-snapshot.MaxPenaltiesPerColor:]
		if m.OnPenaltyOverflow != nil {
			m.OnPenaltyOverflow(color)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		if active[i].StartPeriod != active[j].StartPeriod {
			return active[i].StartPeriod < active[j].StartPeriod
		}
		return active[i].StartTime > active[j].StartTime
	})

	out := make([]snapshot.PenaltySnapshot, len(active))
	for i, p := range active {
		out[i] = snapshot.PenaltySnapshot{
			PlayerNumber: p.PlayerNumber,
			Kind:         p.Kind,
			Time:         m.penaltyTimeLocked(p, now),
			Infraction:   p.Infraction,
		}
	}
	return out
}

// --- timeouts -----------------------------------------------------------------

func (m *Manager) pauseForTimeoutLocked(now time.Time) {
	rem := m.remainingInPeriodLocked(now)
	m.finalizePenaltyClockLocked(now)
	m.clockRunning = false
	m.remaining = rem
	m.deadline = time.Time{}
}

// StartTeamTimeout starts a team timeout for color, provided play is
// ongoing and the team has a timeout remaining this half.
func (m *Manager) StartTeamTimeout(color Color, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now = m.clampNowLocked(now)
	if m.timeout != nil {
		return actionErr("start_team_timeout", AlreadyInTimeout)
	}
	if m.currentPeriod.IsBreak() {
		return actionErr("start_team_timeout", TimeoutNotAllowedNow)
	}
	used := m.teamTimeoutsUsed.Get(color)
	if used >= m.cfg.TeamTimeoutsPerHalf {
		return actionErr("start_team_timeout", TeamTimeoutsExhausted)
	}
	m.pauseForTimeoutLocked(now)
	m.teamTimeoutsUsed.Set(color, used+1)
	m.timeout = &snapshot.TimeoutState{
		Kind:      TimeoutTeam,
		TeamColor: color,
		Deadline:  now.Add(m.cfg.TeamTimeoutDuration),
	}
	return nil
}

// StartRefTimeout starts a referee timeout, allowed from any state.
func (m *Manager) StartRefTimeout(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now = m.clampNowLocked(now)
	if m.timeout != nil {
		return actionErr("start_ref_timeout", AlreadyInTimeout)
	}
	m.pauseForTimeoutLocked(now)
	m.timeout = &snapshot.TimeoutState{Kind: TimeoutRef, StartedAt: now}
	return nil
}

// StartPenaltyShot starts a penalty shot timeout: identical timing to a
// ref timeout (counts up, no bound) but renders with a distinct flag.
func (m *Manager) StartPenaltyShot(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now = m.clampNowLocked(now)
	if m.timeout != nil {
		return actionErr("start_penalty_shot", AlreadyInTimeout)
	}
	m.pauseForTimeoutLocked(now)
	m.timeout = &snapshot.TimeoutState{Kind: TimeoutPenaltyShot, StartedAt: now}
	return nil
}

// StartRugbyPenaltyShot starts a rugby-style penalty shot: counts down from
// penalty_shot_duration, unlike the count-up TimeoutPenaltyShot.
func (m *Manager) StartRugbyPenaltyShot(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now = m.clampNowLocked(now)
	if m.timeout != nil {
		return actionErr("start_rugby_penalty_shot", AlreadyInTimeout)
	}
	m.pauseForTimeoutLocked(now)
	m.timeout = &snapshot.TimeoutState{Kind: TimeoutRugbyPenaltyShot, Deadline: now.Add(m.cfg.PenaltyShotDuration)}
	return nil
}

func (m *Manager) endTimeoutLocked(now time.Time) {
	m.timeout = nil
	m.clockRunning = true
	if d := m.currentPeriod.Duration(m.cfg); d > 0 {
		m.deadline = now.Add(m.remaining)
	} else {
		m.deadline = time.Time{}
	}
	m.resumePenaltyClockLocked(now)
}

// EndTimeout ends whichever timeout is active, resuming the period clock
// from the remaining time snapshotted when the timeout began.
func (m *Manager) EndTimeout(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now = m.clampNowLocked(now)
	if m.timeout == nil {
		return actionErr("end_timeout", NotInTimeout)
	}
	m.endTimeoutLocked(now)
	return nil
}

func (m *Manager) timeoutSnapshotLocked(now time.Time) snapshot.TimeoutSnapshot {
	t := m.timeout
	if t == nil {
		return snapshot.TimeoutSnapshot{}
	}
	var secs uint32
	if t.Kind.CountsUp() {
		secs = ceilSeconds(now.Sub(t.StartedAt))
	} else {
		d := t.Deadline.Sub(now)
		if d < 0 {
			d = 0
		}
		secs = ceilSeconds(d)
	}
	return snapshot.TimeoutSnapshot{Kind: t.Kind, TeamColor: t.TeamColor, Seconds: uint16(secs)}
}

// --- snapshot + scheduling ----------------------------------------------------

// GenerateSnapshot is a projection of the manager's state as of now: the
// only state it changes is the last-seen now used by the monotonicity
// check.
func (m *Manager) GenerateSnapshot(now time.Time) snapshot.GameSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	now = m.clampNowLocked(now)

	var nextLen time.Duration
	if m.timeout == nil {
		tied := m.scores.Black == m.scores.White
		if next, ok := m.currentPeriod.Next(tied, m.cfg); ok {
			nextLen = next.Duration(m.cfg)
		}
	}

	return snapshot.GameSnapshot{
		CurrentPeriod: m.currentPeriod,
		SecsInPeriod:  ceilSeconds(m.remainingInPeriodLocked(now)),
		Timeout:       m.timeoutSnapshotLocked(now),
		Scores:        m.scores,
		Penalties: snapshot.BlackWhiteBundle[[]snapshot.PenaltySnapshot]{
			Black: m.activePenaltiesLocked(Black, now),
			White: m.activePenaltiesLocked(White, now),
		},
		IsOldGame:         m.isOldGame,
		GameNumber:        m.gameNumber,
		NextGameNumber:    m.nextGameNumber,
		NextPeriodLenSecs: ceilSeconds(nextLen),
	}
}

// NanosToUpdate returns the nanoseconds until the next whole-second change
// in any surfaced value, so a driving loop can sleep instead of polling.
func (m *Manager) NanosToUpdate(now time.Time) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	now = m.clampNowLocked(now)

	best := time.Second

	consider := func(d time.Duration) {
		b := nextBoundary(d)
		if b < best {
			best = b
		}
	}

	if m.clockRunning && !m.deadline.IsZero() {
		consider(m.deadline.Sub(now))
	}
	if m.timeout != nil {
		if m.timeout.Kind.CountsUp() {
			consider(now.Sub(m.timeout.StartedAt))
		} else {
			consider(m.timeout.Deadline.Sub(now))
		}
	}
	if !m.pendingGameEnd.IsZero() {
		consider(m.pendingGameEnd.Sub(now))
	}

	return int64(best)
}

// GameNumber returns the manager's current game number.
func (m *Manager) GameNumber() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gameNumber
}
