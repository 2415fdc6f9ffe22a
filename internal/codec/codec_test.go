package codec

import (
	"reflect"
	"testing"

	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/snapshot"
)

func sampleSnapshot() snapshot.GameSnapshotNoHeap {
	return snapshot.GameSnapshotNoHeap{
		CurrentPeriod: snapshot.FirstHalf,
		SecsInPeriod:  654,
		Timeout: snapshot.TimeoutSnapshot{
			Kind:      snapshot.TimeoutTeam,
			TeamColor: snapshot.White,
			Seconds:   30,
		},
		Scores: snapshot.Score{Black: 3, White: 5},
		BlackPenalties: []snapshot.PenaltySnapshot{
			{PlayerNumber: 4, Kind: snapshot.TwoMinute, Time: snapshot.PenaltyTime{Seconds: 45}},
		},
		WhitePenalties: nil,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data snapshot.TransmittedData
	}{
		{"plain", snapshot.TransmittedData{Snapshot: sampleSnapshot()}},
		{"white on right, flashing", snapshot.TransmittedData{
			WhiteOnRight: true,
			Flash:        true,
			Brightness:   snapshot.BrightnessHigh,
			Snapshot:     sampleSnapshot(),
		}},
		{"beep test", snapshot.TransmittedData{
			BeepTest: true,
			Snapshot: sampleSnapshot(),
		}},
		{"no timeout, no penalties", snapshot.TransmittedData{
			Snapshot: snapshot.GameSnapshotNoHeap{
				CurrentPeriod: snapshot.BetweenGames,
				Scores:        snapshot.Score{Black: 0, White: 0},
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Encode(tt.data)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if len(frame) != ENCODED_LEN {
				t.Fatalf("frame length = %d, want %d", len(frame), ENCODED_LEN)
			}

			got, err := Decode(frame)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.WhiteOnRight != tt.data.WhiteOnRight ||
				got.Flash != tt.data.Flash ||
				got.BeepTest != tt.data.BeepTest ||
				got.Brightness != tt.data.Brightness {
				t.Fatalf("flags round trip mismatch: got %+v, want %+v", got, tt.data)
			}
			if !reflect.DeepEqual(got.Snapshot, tt.data.Snapshot) {
				t.Fatalf("snapshot round trip mismatch:\ngot  %+v\nwant %+v", got.Snapshot, tt.data.Snapshot)
			}
		})
	}
}

func TestEncodedLenIsConstant(t *testing.T) {
	a, err := Encode(snapshot.TransmittedData{Snapshot: sampleSnapshot()})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := Encode(snapshot.TransmittedData{Snapshot: snapshot.GameSnapshotNoHeap{}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("ENCODED_LEN not constant across inputs: %d vs %d", len(a), len(b))
	}
}

func TestDecodeWrongLength(t *testing.T) {
	_, err := Decode(make([]byte, ENCODED_LEN-1))
	derr, ok := err.(*DecodingError)
	if !ok || derr.Kind != WrongLength {
		t.Fatalf("Decode(short frame) err = %v, want WrongLength", err)
	}
}

func TestDecodeReservedBitSet(t *testing.T) {
	frame, err := Encode(snapshot.TransmittedData{Snapshot: sampleSnapshot()})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	frame[0] |= 1 << 5

	_, err = Decode(frame)
	derr, ok := err.(*DecodingError)
	if !ok || derr.Kind != ReservedBitSet {
		t.Fatalf("Decode(reserved bit set) err = %v, want ReservedBitSet", err)
	}
}

func TestEncodeTooManyPenaltiesRejected(t *testing.T) {
	s := sampleSnapshot()
	for i := 0; i < maxPenaltySlots+1; i++ {
		s.BlackPenalties = append(s.BlackPenalties, snapshot.PenaltySnapshot{PlayerNumber: uint8(i)})
	}

	_, err := Encode(snapshot.TransmittedData{Snapshot: s})
	eerr, ok := err.(*EncodingError)
	if !ok || eerr.Kind != TooManyPenalties {
		t.Fatalf("Encode(too many penalties) err = %v, want TooManyPenalties", err)
	}
}

func TestEncodeSaturatesOutOfRangeValues(t *testing.T) {
	s := sampleSnapshot()
	s.SecsInPeriod = maxSecsInPeriod + 500
	s.Timeout.Seconds = maxTimeoutTime + 500

	frame, err := Encode(snapshot.TransmittedData{Snapshot: s})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Snapshot.SecsInPeriod != maxSecsInPeriod {
		t.Errorf("SecsInPeriod = %d, want saturated %d", got.Snapshot.SecsInPeriod, maxSecsInPeriod)
	}
	if got.Snapshot.Timeout.Seconds != maxTimeoutTime {
		t.Errorf("Timeout.Seconds = %d, want saturated %d", got.Snapshot.Timeout.Seconds, maxTimeoutTime)
	}
}

func TestEncodeScoreOutOfRangeRejected(t *testing.T) {
	s := sampleSnapshot()
	s.Scores.Black = maxScore + 1

	_, err := Encode(snapshot.TransmittedData{Snapshot: s})
	eerr, ok := err.(*EncodingError)
	if !ok || eerr.Kind != ScoreOutOfRange {
		t.Fatalf("Encode(score out of range) err = %v, want ScoreOutOfRange", err)
	}
}
