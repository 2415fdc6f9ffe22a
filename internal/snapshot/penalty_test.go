package snapshot

import "testing"

func TestPenaltyTimeLess(t *testing.T) {
	tests := []struct {
		name string
		a, b PenaltyTime
		want bool
	}{
		{"finite vs finite, smaller first", PenaltyTime{Seconds: 30}, PenaltyTime{Seconds: 90}, true},
		{"finite vs finite, larger first", PenaltyTime{Seconds: 90}, PenaltyTime{Seconds: 30}, false},
		{"finite always less than total dismissal", PenaltyTime{Seconds: 300}, PenaltyTime{IsTotalDismissal: true}, true},
		{"total dismissal never less than finite", PenaltyTime{IsTotalDismissal: true}, PenaltyTime{Seconds: 1}, false},
		{"two total dismissals are never less than each other", PenaltyTime{IsTotalDismissal: true}, PenaltyTime{IsTotalDismissal: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.want {
				t.Errorf("%+v.Less(%+v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPenaltyKindDuration(t *testing.T) {
	tests := []struct {
		kind     PenaltyKind
		wantSecs float64
		wantOK   bool
	}{
		{ThirtySecond, 30, true},
		{OneMinute, 60, true},
		{TwoMinute, 120, true},
		{FourMinute, 240, true},
		{FiveMinute, 300, true},
		{TotalDismissal, 0, false},
	}

	for _, tt := range tests {
		d, ok := tt.kind.Duration()
		if ok != tt.wantOK {
			t.Fatalf("%s.Duration() ok = %v, want %v", tt.kind, ok, tt.wantOK)
		}
		if ok && d.Seconds() != tt.wantSecs {
			t.Errorf("%s.Duration() = %v, want %v seconds", tt.kind, d, tt.wantSecs)
		}
	}
}

func TestPenaltyKindValid(t *testing.T) {
	if !TotalDismissal.Valid() {
		t.Error("TotalDismissal.Valid() = false, want true")
	}
	if PenaltyKind(numPenaltyKinds).Valid() {
		t.Error("one past the last kind reported valid")
	}
}
