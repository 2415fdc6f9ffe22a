package snapshot

import "testing"

func TestColorOther(t *testing.T) {
	if Black.Other() != White {
		t.Errorf("Black.Other() = %v, want White", Black.Other())
	}
	if White.Other() != Black {
		t.Errorf("White.Other() = %v, want Black", White.Other())
	}
}

func TestBlackWhiteBundleGetSet(t *testing.T) {
	var b BlackWhiteBundle[int]
	b.Set(Black, 3)
	b.Set(White, 5)

	if got := b.Get(Black); got != 3 {
		t.Errorf("Get(Black) = %d, want 3", got)
	}
	if got := b.Get(White); got != 5 {
		t.Errorf("Get(White) = %d, want 5", got)
	}
}

func TestOptColorBundleGetSet(t *testing.T) {
	var b OptColorBundle[string]
	black, white := Black, White
	b.Set(&black, "black foul")
	b.Set(&white, "white foul")
	b.Set(nil, "tied")

	if got := b.Get(&black); got != "black foul" {
		t.Errorf("Get(&Black) = %q, want %q", got, "black foul")
	}
	if got := b.Get(&white); got != "white foul" {
		t.Errorf("Get(&White) = %q, want %q", got, "white foul")
	}
	if got := b.Get(nil); got != "tied" {
		t.Errorf("Get(nil) = %q, want %q", got, "tied")
	}
}
