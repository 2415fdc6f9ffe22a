package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/snapshot"
	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/tournament"
)

type fakeManager struct {
	snap       snapshot.GameSnapshot
	gameNumber uint32
}

func (f *fakeManager) GenerateSnapshot(now time.Time) snapshot.GameSnapshot { return f.snap }
func (f *fakeManager) GameNumber() uint32                                  { return f.gameNumber }

type fakeEventLog struct {
	events []tournament.Event
}

func (f *fakeEventLog) Snapshot(gameNumber uint32) []tournament.Event { return f.events }

func newTestRouter() (*httptest.Server, *fakeManager, *fakeEventLog) {
	manager := &fakeManager{snap: snapshot.GameSnapshot{
		CurrentPeriod: snapshot.FirstHalf,
		SecsInPeriod:  300,
		Scores:        snapshot.Score{Black: 2, White: 1},
		GameNumber:    1,
	}}
	events := &fakeEventLog{}
	router := NewRouter(RouterConfig{
		Manager:  manager,
		Events:   events,
		Now:      func() time.Time { return time.Unix(0, 0) },
		NoLogger: true,
	})
	return httptest.NewServer(router), manager, events
}

func TestHealthzReturnsOK(t *testing.T) {
	srv, _, _ := newTestRouter()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestSnapshotReturnsManagerProjection(t *testing.T) {
	srv, manager, _ := newTestRouter()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/snapshot")
	if err != nil {
		t.Fatalf("GET /snapshot: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	var got snapshot.GameSnapshot
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.CurrentPeriod != manager.snap.CurrentPeriod || got.Scores != manager.snap.Scores {
		t.Errorf("snapshot = %+v, want %+v", got, manager.snap)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("decode raw response: %v", err)
	}
	if raw["CurrentPeriod"] != "FirstHalf" {
		t.Errorf(`raw CurrentPeriod = %v (%T), want the string "FirstHalf"`, raw["CurrentPeriod"], raw["CurrentPeriod"])
	}
}

func TestGameStatsReturnsSortedFlattenedEvents(t *testing.T) {
	srv, _, events := newTestRouter()
	defer srv.Close()

	base := time.Date(2026, 7, 31, 9, 0, 0, 0, time.UTC)
	later := tournament.NewGoalEvent(1, 2, snapshot.White, 9, snapshot.FirstHalf, 100*time.Second, base.Add(time.Minute))
	earlier := tournament.NewGoalEvent(1, 1, snapshot.Black, 4, snapshot.FirstHalf, 200*time.Second, base)
	events.events = []tournament.Event{later, earlier}

	resp, err := http.Get(srv.URL + "/games/1/stats")
	if err != nil {
		t.Fatalf("GET /games/1/stats: %v", err)
	}
	defer resp.Body.Close()

	var docs []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(docs))
	}
	if docs[0]["$type"] != "goal" {
		t.Errorf("docs[0][$type] = %v, want goal", docs[0]["$type"])
	}
	if docs[0]["playerCapNumber"].(float64) != 4 {
		t.Errorf("docs[0] should be the earlier event (player 4), got %+v", docs[0])
	}
	if docs[0]["gamePeriod"] != "FirstHalf" {
		t.Errorf(`docs[0][gamePeriod] = %v (%T), want the string "FirstHalf"`, docs[0]["gamePeriod"], docs[0]["gamePeriod"])
	}
	if docs[1]["playerCapNumber"].(float64) != 9 {
		t.Errorf("docs[1] should be the later event (player 9), got %+v", docs[1])
	}
}

func TestGameStatsRejectsNonNumericID(t *testing.T) {
	srv, _, _ := newTestRouter()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/games/not-a-number/stats")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
