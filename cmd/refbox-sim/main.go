// Command refbox-sim drives a tournament.Manager through a scripted match
// on a simulated clock and renders the resulting panel frames to PNG files,
// for previewing internal/matrix output without wiring up real LED
// hardware. A gg.Context is built per frame, filled with primitives, and
// its image is handed to an encoder.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"

	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/matrix"
	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/snapshot"
	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/tournament"
)

// scale is the pixel multiplier applied when rendering the 256x64 panel to
// a viewable PNG; the real panel has no notion of "pixel size" but a 1:1
// PNG is too small to inspect comfortably.
const scale = 4

func main() {
	outDir := flag.String("out", "refbox-sim-frames", "directory to write PNG frames into")
	everySecs := flag.Int("every", 10, "render a frame every N simulated seconds")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("refbox-sim: mkdir %s: %v", *outDir, err)
	}

	cfg := snapshot.DefaultGameConfig()
	eventLog := tournament.NewEventLog()
	manager := tournament.NewManager(cfg, 1, eventLog)

	now := time.Date(2026, 7, 31, 9, 0, 0, 0, time.UTC)

	run := newRunner(manager, &now, *outDir, *everySecs)

	run.advanceTo(now)
	run.must(manager.StartClock(now), "start clock")
	run.play(45 * time.Second)

	run.must(manager.AddScore(snapshot.White, 7, now), "white scores")
	run.play(20 * time.Second)

	run.must(manager.IssuePenalty(snapshot.Black, 4, snapshot.TwoMinute, snapshot.InfractionUnknown, now), "black penalty")
	run.play(90 * time.Second)

	run.must(manager.AddScore(snapshot.Black, 11, now), "black scores")
	run.play(cfg.HalfPlayDuration)

	run.must(manager.StartTeamTimeout(snapshot.White, now), "white timeout")
	run.play(cfg.TeamTimeoutDuration + time.Second)

	run.must(manager.StartClock(now), "resume clock")
	run.play(cfg.HalfTimeDuration + cfg.HalfPlayDuration + time.Minute)

	log.Printf("refbox-sim: wrote %d frames to %s", run.frameCount, *outDir)
}

type runner struct {
	manager    *tournament.Manager
	now        *time.Time
	outDir     string
	everySecs  int
	frameCount int
	elapsed    time.Duration
}

func newRunner(m *tournament.Manager, now *time.Time, outDir string, everySecs int) *runner {
	if everySecs <= 0 {
		everySecs = 10
	}
	return &runner{manager: m, now: now, outDir: outDir, everySecs: everySecs}
}

func (r *runner) must(err error, action string) {
	if err != nil {
		log.Printf("refbox-sim: %s: %v (continuing)", action, err)
	}
}

// play steps the simulated clock forward one second at a time for d,
// updating the manager and rendering a frame every r.everySecs seconds.
func (r *runner) play(d time.Duration) {
	steps := int(d / time.Second)
	for i := 0; i < steps; i++ {
		*r.now = r.now.Add(time.Second)
		r.manager.Update(*r.now)
		r.elapsed += time.Second
		if int(r.elapsed/time.Second)%r.everySecs == 0 {
			r.renderFrame()
		}
	}
}

func (r *runner) advanceTo(now time.Time) {
	r.manager.Update(now)
	r.renderFrame()
}

func (r *runner) renderFrame() {
	snap := r.manager.GenerateSnapshot(*r.now)
	noHeap := snap.ToNoHeap()

	fb := matrix.NewFramebuffer()
	remainingFor := func(p snapshot.PenaltySnapshot) uint32 {
		return uint32(p.Time.Seconds)
	}
	matrix.DrawPanels(fb, noHeap, false, snap.RecentGoal != nil, false, 0, "", remainingFor)

	dc := gg.NewContext(matrix.Width*scale, matrix.Height*scale)
	for y := 0; y < matrix.Height; y++ {
		for x := 0; x < matrix.Width; x++ {
			c := fb.At(x, y)
			dc.SetRGB255(int(c.R), int(c.G), int(c.B))
			dc.DrawRectangle(float64(x*scale), float64(y*scale), scale, scale)
			dc.Fill()
		}
	}

	path := filepath.Join(r.outDir, fmt.Sprintf("frame-%04d.png", r.frameCount))
	f, err := os.Create(path)
	if err != nil {
		log.Printf("refbox-sim: create %s: %v", path, err)
		return
	}
	defer f.Close()
	if err := png.Encode(f, dc.Image()); err != nil {
		log.Printf("refbox-sim: encode %s: %v", path, err)
	}
	r.frameCount++
}
