package matrix

import (
	"testing"

	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/snapshot"
)

func TestClockStringUnderAMinuteIsBareSeconds(t *testing.T) {
	if got := clockString(45); got != "45" {
		t.Errorf("clockString(45) = %q, want %q", got, "45")
	}
}

func TestClockStringAtOrOverAMinuteIsMMSS(t *testing.T) {
	tests := []struct {
		secs uint32
		want string
	}{
		{60, "01:00"},
		{90, "01:30"},
		{3600, "60:00"},
	}
	for _, tt := range tests {
		if got := clockString(tt.secs); got != tt.want {
			t.Errorf("clockString(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestPeriodBannerCoversEveryPeriod(t *testing.T) {
	periods := []snapshot.GamePeriod{
		snapshot.BetweenGames, snapshot.FirstHalf, snapshot.HalfTime, snapshot.SecondHalf,
		snapshot.PreOvertime, snapshot.OvertimeFirstHalf, snapshot.OvertimeHalfTime,
		snapshot.OvertimeSecondHalf, snapshot.PreSuddenDeath, snapshot.SuddenDeath,
	}
	for _, p := range periods {
		if got := periodBanner(p); got == "" {
			t.Errorf("periodBanner(%v) returned an empty banner", p)
		}
	}
}

func TestPenaltyEntryStringShowsTDForTotalDismissal(t *testing.T) {
	p := snapshot.PenaltySnapshot{PlayerNumber: 7, Time: snapshot.PenaltyTime{IsTotalDismissal: true}}
	if got := penaltyEntryString(p, 0); got != "07:TD" {
		t.Errorf("penaltyEntryString(total dismissal) = %q, want %q", got, "07:TD")
	}
}

func TestPenaltyEntryStringShowsRemainingSecondsOtherwise(t *testing.T) {
	p := snapshot.PenaltySnapshot{PlayerNumber: 3}
	if got := penaltyEntryString(p, 45); got != "03:45" {
		t.Errorf("penaltyEntryString(45s remaining) = %q, want %q", got, "03:45")
	}
}

func TestLargestFittingPicksTheBiggestThatFits(t *testing.T) {
	f := LargestFitting(4, 4*11, 25)
	if f.Width != 11 || f.Height != 25 {
		t.Errorf("LargestFitting = %+v, want the 11x25 font", f)
	}
}

func TestLargestFittingFallsBackToSmallestWhenNothingFits(t *testing.T) {
	f := LargestFitting(10, 5, 5)
	if f != Fonts[0] {
		t.Errorf("LargestFitting with an impossible budget = %+v, want smallest font %+v", f, Fonts[0])
	}
}

type recordingTarget struct {
	writes map[[2]int]RGB
}

func newRecordingTarget() *recordingTarget {
	return &recordingTarget{writes: make(map[[2]int]RGB)}
}

func (r *recordingTarget) SetPixel(x, y int, c RGB) {
	r.writes[[2]int{x, y}] = c
}

func baseNoHeapSnapshot() snapshot.GameSnapshotNoHeap {
	return snapshot.GameSnapshotNoHeap{
		CurrentPeriod: snapshot.FirstHalf,
		SecsInPeriod:  300,
		Scores:        snapshot.Score{Black: 3, White: 2},
	}
}

func TestDrawPanelsIsPureAndDeterministic(t *testing.T) {
	s := baseNoHeapSnapshot()
	remainingFor := func(p snapshot.PenaltySnapshot) uint32 { return 30 }

	a := newRecordingTarget()
	DrawPanels(a, s, false, false, false, 0, "", remainingFor)
	b := newRecordingTarget()
	DrawPanels(b, s, false, false, false, 0, "", remainingFor)

	if len(a.writes) != len(b.writes) {
		t.Fatalf("two renders of the same snapshot wrote different pixel counts: %d vs %d", len(a.writes), len(b.writes))
	}
	for px, c := range a.writes {
		if b.writes[px] != c {
			t.Fatalf("pixel %v differs between identical renders: %v vs %v", px, c, b.writes[px])
		}
	}
}

func TestDrawPanelsBeepTestShortCircuitsNormalLayout(t *testing.T) {
	s := baseNoHeapSnapshot()
	beep := newRecordingTarget()
	DrawPanels(beep, s, false, false, true, 3, "LOW", func(snapshot.PenaltySnapshot) uint32 { return 0 })

	normal := newRecordingTarget()
	DrawPanels(normal, s, false, false, false, 0, "", func(snapshot.PenaltySnapshot) uint32 { return 0 })

	identical := len(beep.writes) == len(normal.writes)
	if identical {
		for px, c := range beep.writes {
			if normal.writes[px] != c {
				identical = false
				break
			}
		}
	}
	if identical {
		t.Error("beep-test render is identical to the normal layout render")
	}
}

func TestDrawPanelsFlashTogglesBackgroundOnEvenSeconds(t *testing.T) {
	s := baseNoHeapSnapshot()
	s.SecsInPeriod = 10 // even -> flash inverts fg/bg per DrawPanels

	flashed := newRecordingTarget()
	DrawPanels(flashed, s, false, true, false, 0, "", func(snapshot.PenaltySnapshot) uint32 { return 0 })

	if flashed.writes[[2]int{0, 0}] != colorWhite {
		t.Errorf("corner pixel during an inverted flash frame = %+v, want white background", flashed.writes[[2]int{0, 0}])
	}
}

func TestDrawPanelsNoFlashKeepsBlackBackground(t *testing.T) {
	s := baseNoHeapSnapshot()
	plain := newRecordingTarget()
	DrawPanels(plain, s, false, false, false, 0, "", func(snapshot.PenaltySnapshot) uint32 { return 0 })

	if plain.writes[[2]int{0, 0}] != colorBlack {
		t.Errorf("corner pixel with flash off = %+v, want black background", plain.writes[[2]int{0, 0}])
	}
}

func TestDrawPanelsRendersTimeoutStripWhenTimeoutActive(t *testing.T) {
	s := baseNoHeapSnapshot()
	without := newRecordingTarget()
	DrawPanels(without, s, false, false, false, 0, "", func(snapshot.PenaltySnapshot) uint32 { return 0 })

	s.Timeout = snapshot.TimeoutSnapshot{Kind: snapshot.TimeoutTeam, TeamColor: snapshot.White, Seconds: 30}
	with := newRecordingTarget()
	DrawPanels(with, s, false, false, false, 0, "", func(snapshot.PenaltySnapshot) uint32 { return 0 })

	hasAmber := func(rt *recordingTarget) bool {
		for _, c := range rt.writes {
			if c == colorAmber {
				return true
			}
		}
		return false
	}
	if !hasAmber(with) {
		t.Error("no amber pixels found with an active timeout, want a visible timeout strip")
	}
	if hasAmber(without) {
		t.Error("amber pixels found with no active timeout")
	}
}
