package matrix

// FontSize is one of the six fixed monospaced bitmap font cells the
// renderer draws with.
type FontSize struct {
	Width, Height int
}

// Fonts lists the six fixed glyph-cell sizes, largest-fits-first callers
// pick from when sizing the clock digits.
var Fonts = [6]FontSize{
	{6, 8},
	{8, 15},
	{11, 25},
	{16, 31},
	{22, 46},
	{32, 64},
}

// LargestFitting returns the largest font whose rendered width (cell width
// * glyph count, monospaced) fits within maxWidth and whose height fits
// within maxHeight.
func LargestFitting(glyphCount, maxWidth, maxHeight int) FontSize {
	best := Fonts[0]
	for _, f := range Fonts {
		if f.Width*glyphCount <= maxWidth && f.Height <= maxHeight {
			best = f
		}
	}
	return best
}

// glyphIndex implements the fixed offset table: space->0, '#'->1, '-'->2,
// '/'..':'->3..14, 'A'..'Z'->15..40, '['->41, ']'->42, '_'->43, else->44.
func glyphIndex(ch byte) int {
	switch {
	case ch == ' ':
		return 0
	case ch == '#':
		return 1
	case ch == '-':
		return 2
	case ch >= '/' && ch <= ':':
		return 3 + int(ch-'/')
	case ch >= 'A' && ch <= 'Z':
		return 15 + int(ch-'A')
	case ch == '[':
		return 41
	case ch == ']':
		return 42
	case ch == '_':
		return 43
	default:
		return 44
	}
}

// seven-segment bitmask bits, shared by digits and the seven-segment
// alphanumeric approximation used for A-Z (the same compromise real
// segment-display calculators make to spell words: legible, not
// typographically faithful).
const (
	segTop uint8 = 1 << iota
	segTopLeft
	segTopRight
	segMid
	segBottomLeft
	segBottomRight
	segBottom
)

var digitSegments = [10]uint8{
	0: segTop | segTopLeft | segTopRight | segBottomLeft | segBottomRight | segBottom,
	1: segTopRight | segBottomRight,
	2: segTop | segTopRight | segMid | segBottomLeft | segBottom,
	3: segTop | segTopRight | segMid | segBottomRight | segBottom,
	4: segTopLeft | segTopRight | segMid | segBottomRight,
	5: segTop | segTopLeft | segMid | segBottomRight | segBottom,
	6: segTop | segTopLeft | segMid | segBottomLeft | segBottomRight | segBottom,
	7: segTop | segTopRight | segBottomRight,
	8: segTop | segTopLeft | segTopRight | segMid | segBottomLeft | segBottomRight | segBottom,
	9: segTop | segTopLeft | segTopRight | segMid | segBottomRight | segBottom,
}

// letterSegments approximates A-Z on the same seven segments. Several
// letters (M, W, X, K) have no faithful seven-segment rendering and fall
// back to a recognizable-but-stylized shape, same as a calculator spelling
// words on a seven-segment readout.
var letterSegments = map[byte]uint8{
	'A': segTop | segTopLeft | segTopRight | segMid | segBottomLeft | segBottomRight,
	'B': segTopLeft | segMid | segBottomLeft | segBottomRight | segBottom,
	'C': segTop | segTopLeft | segBottomLeft | segBottom,
	'D': segTopRight | segMid | segBottomLeft | segBottomRight | segBottom,
	'E': segTop | segTopLeft | segMid | segBottomLeft | segBottom,
	'F': segTop | segTopLeft | segMid | segBottomLeft,
	'G': segTop | segTopLeft | segBottomLeft | segBottomRight | segBottom,
	'H': segTopLeft | segTopRight | segMid | segBottomLeft | segBottomRight,
	'I': segTopLeft | segBottomLeft,
	'J': segTopRight | segBottomRight | segBottom,
	'K': segTopLeft | segMid | segBottomLeft | segBottomRight,
	'L': segTopLeft | segBottomLeft | segBottom,
	'M': segTopLeft | segTopRight | segTop | segBottomLeft | segBottomRight,
	'N': segTopLeft | segTopRight | segBottomLeft | segBottomRight,
	'O': segTop | segTopLeft | segTopRight | segBottomLeft | segBottomRight | segBottom,
	'P': segTop | segTopLeft | segTopRight | segMid | segBottomLeft,
	'Q': segTop | segTopLeft | segTopRight | segMid | segBottomRight,
	'R': segTopLeft | segMid,
	'S': segTop | segTopLeft | segMid | segBottomRight | segBottom,
	'T': segTop | segTopLeft | segBottomLeft,
	'U': segTopLeft | segTopRight | segBottomLeft | segBottomRight | segBottom,
	'V': segTopLeft | segBottomLeft | segBottom | segBottomRight,
	'W': segTopLeft | segTopRight | segBottomLeft | segBottomRight | segBottom,
	'X': segTopLeft | segTopRight | segMid | segBottomLeft | segBottomRight,
	'Y': segTopLeft | segTopRight | segMid | segBottomRight | segBottom,
	'Z': segTop | segTopRight | segMid | segBottomLeft | segBottom,
}

// drawGlyph draws ch into the cell at (x, y) sized (w, h), monospaced.
func drawGlyph(t Target, x, y, w, h int, ch byte, c RGB) {
	idx := glyphIndex(ch)
	switch {
	case idx == 0: // space
		return
	case idx == 1: // '#'
		drawHash(t, x, y, w, h, c)
		return
	case idx == 2: // '-'
		drawSegments(t, x, y, w, h, segMid, c)
		return
	case idx >= 3 && idx <= 13 && ch >= '0' && ch <= '9':
		drawSegments(t, x, y, w, h, digitSegments[ch-'0'], c)
		return
	case idx == 3: // '/'
		drawSlash(t, x, y, w, h, c)
		return
	case idx == 14: // ':'
		drawColon(t, x, y, w, h, c)
		return
	case idx >= 15 && idx <= 40: // A-Z
		if segs, ok := letterSegments[ch]; ok {
			drawSegments(t, x, y, w, h, segs, c)
		}
		return
	case idx == 41: // '['
		drawBracket(t, x, y, w, h, c, true)
		return
	case idx == 42: // ']'
		drawBracket(t, x, y, w, h, c, false)
		return
	case idx == 43: // '_'
		thickness := max(1, h/8)
		fillRect(t, x, y+h-thickness, w, thickness, c)
		return
	default: // full-cell block fallback (glyph index 44, or any mapping failure)
		fillRect(t, x, y, w, h, c)
	}
}

func segThickness(w, h int) int {
	return max(1, min(w, h)/6)
}

// drawSegments renders a seven-segment glyph within (x,y,w,h).
func drawSegments(t Target, x, y, w, h int, segs uint8, c RGB) {
	th := segThickness(w, h)
	half := h / 2

	if segs&segTop != 0 {
		fillRect(t, x, y, w, th, c)
	}
	if segs&segBottom != 0 {
		fillRect(t, x, y+h-th, w, th, c)
	}
	if segs&segMid != 0 {
		fillRect(t, x, y+half-th/2, w, th, c)
	}
	if segs&segTopLeft != 0 {
		fillRect(t, x, y, th, half, c)
	}
	if segs&segTopRight != 0 {
		fillRect(t, x+w-th, y, th, half, c)
	}
	if segs&segBottomLeft != 0 {
		fillRect(t, x, y+half, th, half, c)
	}
	if segs&segBottomRight != 0 {
		fillRect(t, x+w-th, y+half, th, half, c)
	}
}

func drawHash(t Target, x, y, w, h int, c RGB) {
	th := segThickness(w, h)
	fillRect(t, x+w/3, y, th, h, c)
	fillRect(t, x+2*w/3, y, th, h, c)
	fillRect(t, x, y+h/3, w, th, c)
	fillRect(t, x, y+2*h/3, w, th, c)
}

func drawColon(t Target, x, y, w, h int, c RGB) {
	side := max(1, min(w, h)/5)
	cx := x + w/2 - side/2
	fillRect(t, cx, y+h/3-side/2, side, side, c)
	fillRect(t, cx, y+2*h/3-side/2, side, side, c)
}

// drawSlash approximates a '/' by stepping a short vertical stroke across
// each column, bottom-left to top-right.
func drawSlash(t Target, x, y, w, h int, c RGB) {
	th := segThickness(w, h)
	for col := 0; col < w; col++ {
		row := h - 1 - col*h/max(1, w)
		fillRect(t, x+col, y+row-th/2, 1, th, c)
	}
}

func drawBracket(t Target, x, y, w, h int, c RGB, open bool) {
	th := segThickness(w, h)
	if open {
		fillRect(t, x, y, w, th, c)
		fillRect(t, x, y, th, h, c)
		fillRect(t, x, y+h-th, w, th, c)
	} else {
		fillRect(t, x+w-th, y, th, h, c)
		fillRect(t, x, y, w, th, c)
		fillRect(t, x, y+h-th, w, th, c)
	}
}

// drawText draws s monospaced starting at (x, y) in font f, left to right.
func drawText(t Target, x, y int, f FontSize, s string, c RGB) {
	for i := 0; i < len(s); i++ {
		drawGlyph(t, x+i*f.Width, y, f.Width, f.Height, s[i], c)
	}
}
