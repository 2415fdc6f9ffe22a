package matrix

import (
	"fmt"

	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/snapshot"
)

const (
	colWidth     = 64
	centerWidth  = Width - 2*colWidth // 128
	centerOrigin = colWidth
)

// periodBanner maps a period to its one-line banner text.
func periodBanner(p snapshot.GamePeriod) string {
	switch p {
	case snapshot.BetweenGames:
		return "GAME"
	case snapshot.FirstHalf:
		return "1ST"
	case snapshot.HalfTime:
		return "HALF"
	case snapshot.SecondHalf:
		return "2ND"
	case snapshot.PreOvertime:
		return "PRE"
	case snapshot.OvertimeFirstHalf:
		return "OT-1"
	case snapshot.OvertimeHalfTime:
		return "OT-H"
	case snapshot.OvertimeSecondHalf:
		return "OT-2"
	case snapshot.PreSuddenDeath:
		return "PRE"
	case snapshot.SuddenDeath:
		return "SD"
	default:
		return "GAME"
	}
}

func timeoutLabel(k snapshot.TimeoutKind) string {
	switch k {
	case snapshot.TimeoutTeam:
		return "TEAM"
	case snapshot.TimeoutRef:
		return "REF"
	case snapshot.TimeoutPenaltyShot:
		return "PS"
	case snapshot.TimeoutRugbyPenaltyShot:
		return "RPS"
	default:
		return ""
	}
}

func clockString(secs uint32) string {
	if secs < 60 {
		return fmt.Sprintf("%d", secs)
	}
	m := secs / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

func penaltyEntryString(p snapshot.PenaltySnapshot, remainingSecs uint32) string {
	if p.Time.IsTotalDismissal {
		return fmt.Sprintf("%02d:TD", p.PlayerNumber)
	}
	return fmt.Sprintf("%02d:%02d", p.PlayerNumber, remainingSecs)
}

// DrawPanels renders one frame of the panel display into t. remainingFor
// reports the currently-remaining whole seconds for a penalty (the caller,
// normally the tournament manager, owns that computation — the renderer
// never re-derives clock state from wall time).
//
// Pure function of its inputs: the same arguments always produce the same
// pixels.
func DrawPanels(
	t Target,
	s snapshot.GameSnapshotNoHeap,
	whiteOnRight bool,
	flash bool,
	beepTest bool,
	beepCount uint32,
	beepLevel string,
	remainingFor func(snapshot.PenaltySnapshot) uint32,
) {
	if beepTest {
		drawBeepTest(t, beepCount, beepLevel)
		return
	}

	fg, bg := colorWhite, colorBlack
	if flash && s.SecsInPeriod%2 == 0 {
		fg, bg = colorBlack, colorWhite
	}
	fillRect(t, 0, 0, Width, Height, bg)

	leftColor, rightColor := snapshot.White, snapshot.Black
	if whiteOnRight {
		leftColor, rightColor = snapshot.Black, snapshot.White
	}
	drawPenaltyColumn(t, 0, leftColor, s, remainingFor, fg)
	drawPenaltyColumn(t, Width-colWidth, rightColor, s, remainingFor, fg)

	drawCenter(t, s, fg)
}

func drawCenter(t Target, s snapshot.GameSnapshotNoHeap, fg RGB) {
	banner := periodBanner(s.CurrentPeriod)
	bf := LargestFitting(len(banner), centerWidth, 15)
	drawText(t, centerOrigin+(centerWidth-bf.Width*len(banner))/2, 2, bf, banner, fg)

	clk := clockString(s.SecsInPeriod)
	cf := LargestFitting(len(clk), centerWidth, 40)
	drawText(t, centerOrigin+(centerWidth-cf.Width*len(clk))/2, 18, cf, clk, fg)

	scoreFont := Fonts[2] // 11x25, two-digit fields fit comfortably either side
	blackScore := fmt.Sprintf("%02d", s.Scores.Black)
	whiteScore := fmt.Sprintf("%02d", s.Scores.White)
	drawText(t, centerOrigin+4, Height-scoreFont.Height-2, scoreFont, blackScore, fg)
	drawText(t, centerOrigin+centerWidth-4-scoreFont.Width*2, Height-scoreFont.Height-2, scoreFont, whiteScore, fg)

	if s.Timeout.Kind != snapshot.TimeoutNone {
		drawTimeoutStrip(t, s.Timeout, fg)
	}
}

func drawTimeoutStrip(t Target, to snapshot.TimeoutSnapshot, fg RGB) {
	stripY := Height * 2 / 3
	fillRect(t, centerOrigin, stripY, centerWidth, Height-stripY, colorAmber)

	label := timeoutLabel(to.Kind)
	secs := fmt.Sprintf("%02d", to.Seconds)
	text := label + " " + secs
	f := LargestFitting(len(text), centerWidth, Height-stripY)
	drawText(t, centerOrigin+(centerWidth-f.Width*len(text))/2, stripY+1, f, text, fg)
}

const maxVisiblePenalties = 3

func drawPenaltyColumn(
	t Target,
	x int,
	color snapshot.Color,
	s snapshot.GameSnapshotNoHeap,
	remainingFor func(snapshot.PenaltySnapshot) uint32,
	fg RGB,
) {
	list := s.BlackPenalties
	if color == snapshot.White {
		list = s.WhitePenalties
	}
	pc := colorWhite
	if color == snapshot.Black {
		pc = RGB{200, 200, 200}
	}
	f := Fonts[1] // 8x15
	rowHeight := f.Height + 2
	visible := min(len(list), maxVisiblePenalties)
	for i := 0; i < visible; i++ {
		text := penaltyEntryString(list[i], remainingFor(list[i]))
		drawText(t, x+2, 2+i*rowHeight, f, text, pc)
	}
	if len(list) > maxVisiblePenalties {
		overflow := fmt.Sprintf("+%d", len(list)-maxVisiblePenalties)
		drawText(t, x+2, 2+maxVisiblePenalties*rowHeight, f, overflow, fg)
	}
}

func drawBeepTest(t Target, count uint32, level string) {
	fillRect(t, 0, 0, Width, Height, colorBlack)

	levelFont := Fonts[1]
	drawText(t, (Width-levelFont.Width*len(level))/2, 4, levelFont, level, colorAmber)

	countStr := fmt.Sprintf("%02d", count)
	cf := LargestFitting(len(countStr), Width, Height-levelFont.Height-8)
	drawText(t, (Width-cf.Width*len(countStr))/2, levelFont.Height+8, cf, countStr, colorWhite)
}
