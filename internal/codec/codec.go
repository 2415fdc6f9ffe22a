// Package codec implements the refbox's fixed-length, bit-packed wire
// protocol: the byte contract shipped over the panel TCP link. It follows
// the same header-plus-typed-payload shape as the rest of this codebase's
// framing code (symmetric Encode/Decode, typed error kinds), but packs
// fields bit-by-bit with no padding to hit a compile-time-constant length.
package codec

import (
	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/snapshot"
)

const (
	maxPenaltySlots = snapshot.MaxPenaltiesPerColor

	flagsLen = 1

	periodBits      = 4
	secsBits        = 12
	timeoutKindBits = 3
	timeoutTimeBits = 12
	scoreBits       = 7
	isOldGameBits   = 1
	penCountBits    = 4
	penPlayerBits   = 7
	penKindBits     = 3
	penRemainBits   = 6
	penEntryBits    = penPlayerBits + penKindBits + penRemainBits

	fixedPayloadBits = periodBits + secsBits + timeoutKindBits + timeoutTimeBits +
		2*scoreBits + isOldGameBits + 2*penCountBits
	payloadBits = fixedPayloadBits + 2*maxPenaltySlots*penEntryBits

	snapshotLen = (payloadBits + 7) / 8

	// ENCODED_LEN is the compile-time-constant frame length every Encode
	// call produces and every Decode call expects: one flags byte plus the
	// fixed-capacity snapshot payload.
	ENCODED_LEN = flagsLen + snapshotLen

	maxSecsInPeriod = (1 << secsBits) - 1
	maxTimeoutTime  = (1 << timeoutTimeBits) - 1
	maxScore        = 99
	maxPlayerNumber = 99
	maxPenaltyRem   = (1 << penRemainBits) - 1
)

// wireTimeoutKind enumerates the 6 on-wire timeout variants, collapsing
// TimeoutTeam+Color into two distinct codes so decode never needs a
// separate color field for timeouts.
type wireTimeoutKind uint8

const (
	wireTimeoutNone wireTimeoutKind = iota
	wireTimeoutTeamBlack
	wireTimeoutTeamWhite
	wireTimeoutRef
	wireTimeoutPenaltyShot
	wireTimeoutRugbyPenaltyShot

	numWireTimeoutKinds = int(wireTimeoutRugbyPenaltyShot) + 1
)

func toWireTimeoutKind(t snapshot.TimeoutSnapshot) (wireTimeoutKind, error) {
	switch t.Kind {
	case snapshot.TimeoutNone:
		return wireTimeoutNone, nil
	case snapshot.TimeoutTeam:
		if t.TeamColor == snapshot.Black {
			return wireTimeoutTeamBlack, nil
		}
		return wireTimeoutTeamWhite, nil
	case snapshot.TimeoutRef:
		return wireTimeoutRef, nil
	case snapshot.TimeoutPenaltyShot:
		return wireTimeoutPenaltyShot, nil
	case snapshot.TimeoutRugbyPenaltyShot:
		return wireTimeoutRugbyPenaltyShot, nil
	default:
		return 0, &EncodingError{Kind: ScoreOutOfRange, Detail: "invalid timeout kind"}
	}
}

func fromWireTimeoutKind(w wireTimeoutKind) (snapshot.TimeoutKind, snapshot.Color, bool) {
	switch w {
	case wireTimeoutNone:
		return snapshot.TimeoutNone, snapshot.Black, true
	case wireTimeoutTeamBlack:
		return snapshot.TimeoutTeam, snapshot.Black, true
	case wireTimeoutTeamWhite:
		return snapshot.TimeoutTeam, snapshot.White, true
	case wireTimeoutRef:
		return snapshot.TimeoutRef, snapshot.Black, true
	case wireTimeoutPenaltyShot:
		return snapshot.TimeoutPenaltyShot, snapshot.Black, true
	case wireTimeoutRugbyPenaltyShot:
		return snapshot.TimeoutRugbyPenaltyShot, snapshot.Black, true
	default:
		return 0, snapshot.Black, false
	}
}

func saturate(v, max uint64) uint64 {
	if v > max {
		return max
	}
	return v
}

// Encode packs data into a fresh ENCODED_LEN-byte frame. It is pure and
// returns a newly allocated frame on every call.
func Encode(data snapshot.TransmittedData) ([]byte, error) {
	if err := validate(data.Snapshot); err != nil {
		return nil, err
	}

	buf := make([]byte, ENCODED_LEN)

	var flags byte
	if data.WhiteOnRight {
		flags |= 1 << 0
	}
	if data.Flash {
		flags |= 1 << 1
	}
	if data.BeepTest {
		flags |= 1 << 2
	}
	flags |= byte(data.Brightness&0x3) << 3
	buf[0] = flags

	w := newBitWriter(snapshotLen)
	s := data.Snapshot

	w.writeBits(uint64(s.CurrentPeriod), periodBits)
	w.writeBits(saturate(uint64(s.SecsInPeriod), maxSecsInPeriod), secsBits)

	wireKind, err := toWireTimeoutKind(s.Timeout)
	if err != nil {
		return nil, err
	}
	w.writeBits(uint64(wireKind), timeoutKindBits)
	w.writeBits(saturate(uint64(s.Timeout.Seconds), maxTimeoutTime), timeoutTimeBits)

	w.writeBits(uint64(s.Scores.Black), scoreBits)
	w.writeBits(uint64(s.Scores.White), scoreBits)

	if s.IsOldGame {
		w.writeBits(1, isOldGameBits)
	} else {
		w.writeBits(0, isOldGameBits)
	}

	w.writeBits(uint64(len(s.BlackPenalties)), penCountBits)
	w.writeBits(uint64(len(s.WhitePenalties)), penCountBits)

	if err := writePenalties(w, s.BlackPenalties); err != nil {
		return nil, err
	}
	if err := writePenalties(w, s.WhitePenalties); err != nil {
		return nil, err
	}

	copy(buf[flagsLen:], w.bytes())
	return buf, nil
}

func writePenalties(w *bitWriter, pens []snapshot.PenaltySnapshot) error {
	for i := 0; i < maxPenaltySlots; i++ {
		if i >= len(pens) {
			w.writeBits(0, penEntryBits)
			continue
		}
		p := pens[i]
		if p.PlayerNumber > maxPlayerNumber {
			return &EncodingError{Kind: PlayerNumberOutOfRange}
		}
		var remain uint64
		if !p.Time.IsTotalDismissal {
			remain = saturate(uint64(p.Time.Seconds), maxPenaltyRem)
		}
		w.writeBits(uint64(p.PlayerNumber), penPlayerBits)
		w.writeBits(uint64(p.Kind), penKindBits)
		w.writeBits(remain, penRemainBits)
	}
	return nil
}

func validate(s snapshot.GameSnapshotNoHeap) error {
	if len(s.BlackPenalties) > maxPenaltySlots || len(s.WhitePenalties) > maxPenaltySlots {
		return &EncodingError{Kind: TooManyPenalties}
	}
	if s.Scores.Black > maxScore || s.Scores.White > maxScore {
		return &EncodingError{Kind: ScoreOutOfRange}
	}
	for _, p := range append(append([]snapshot.PenaltySnapshot{}, s.BlackPenalties...), s.WhitePenalties...) {
		if p.PlayerNumber > maxPlayerNumber {
			return &EncodingError{Kind: PlayerNumberOutOfRange}
		}
	}
	return nil
}

// Decode parses an ENCODED_LEN-byte frame back into TransmittedData. A frame
// of the wrong length is a recoverable WrongLength error, matching the
// panel TCP protocol's "skip on wrong-length read" behavior.
func Decode(frame []byte) (snapshot.TransmittedData, error) {
	var out snapshot.TransmittedData
	if len(frame) != ENCODED_LEN {
		return out, &DecodingError{Kind: WrongLength}
	}

	flags := frame[0]
	if flags&(0b111<<5) != 0 {
		return out, &DecodingError{Kind: ReservedBitSet}
	}
	out.WhiteOnRight = flags&(1<<0) != 0
	out.Flash = flags&(1<<1) != 0
	out.BeepTest = flags&(1<<2) != 0
	out.Brightness = snapshot.Brightness((flags >> 3) & 0x3)

	r := newBitReader(frame[flagsLen:])

	period := snapshot.GamePeriod(r.readBits(periodBits))
	if !period.Valid() {
		return out, &DecodingError{Kind: InvalidPeriod}
	}
	secs := uint32(r.readBits(secsBits))

	wireKind := wireTimeoutKind(r.readBits(timeoutKindBits))
	timeoutKind, timeoutColor, ok := fromWireTimeoutKind(wireKind)
	if !ok {
		return out, &DecodingError{Kind: InvalidTimeoutKind}
	}
	timeoutTime := uint16(r.readBits(timeoutTimeBits))

	black := uint8(r.readBits(scoreBits))
	white := uint8(r.readBits(scoreBits))

	isOld := r.readBits(isOldGameBits) != 0

	blackCount := int(r.readBits(penCountBits))
	whiteCount := int(r.readBits(penCountBits))
	if blackCount > maxPenaltySlots || whiteCount > maxPenaltySlots {
		return out, &DecodingError{Kind: PenaltyOverflow}
	}

	blackPens := readPenalties(r, blackCount)
	whitePens := readPenalties(r, whiteCount)

	if !r.allZeroFrom(payloadBits, snapshotLen*8) {
		return out, &DecodingError{Kind: ReservedBitSet}
	}

	out.Snapshot = snapshot.GameSnapshotNoHeap{
		CurrentPeriod: period,
		SecsInPeriod:  secs,
		Timeout: snapshot.TimeoutSnapshot{
			Kind:      timeoutKind,
			TeamColor: timeoutColor,
			Seconds:   timeoutTime,
		},
		Scores:         snapshot.Score{Black: black, White: white},
		BlackPenalties: blackPens,
		WhitePenalties: whitePens,
		IsOldGame:      isOld,
	}
	return out, nil
}

func readPenalties(r *bitReader, count int) []snapshot.PenaltySnapshot {
	var out []snapshot.PenaltySnapshot
	for i := 0; i < maxPenaltySlots; i++ {
		player := uint8(r.readBits(penPlayerBits))
		kind := snapshot.PenaltyKind(r.readBits(penKindBits))
		remain := uint16(r.readBits(penRemainBits))
		if i >= count {
			continue
		}
		out = append(out, snapshot.PenaltySnapshot{
			PlayerNumber: player,
			Kind:         kind,
			Time: snapshot.PenaltyTime{
				IsTotalDismissal: kind == snapshot.TotalDismissal,
				Seconds:          remain,
			},
		})
	}
	return out
}
