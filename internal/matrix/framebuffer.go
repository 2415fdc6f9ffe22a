package matrix

// Framebuffer is the reference Target implementation: a flat RGB888 buffer
// over the panel's fixed 256x64 area, using direct indexed writes with
// bounds checks. A single contiguous slice rather than a [][]P grid, since
// the stride is fixed at compile time.
type Framebuffer struct {
	pix    []uint8 // len == Width*Height*3, row-major, 3 bytes per pixel
	stride int
}

// NewFramebuffer allocates a zeroed (black) framebuffer.
func NewFramebuffer() *Framebuffer {
	return &Framebuffer{
		pix:    make([]uint8, Width*Height*3),
		stride: Width * 3,
	}
}

// SetPixel implements Target.
func (f *Framebuffer) SetPixel(x, y int, c RGB) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	idx := y*f.stride + x*3
	f.pix[idx] = c.R
	f.pix[idx+1] = c.G
	f.pix[idx+2] = c.B
}

// At returns the pixel at (x, y), or the zero value if out of bounds.
func (f *Framebuffer) At(x, y int) RGB {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return RGB{}
	}
	idx := y*f.stride + x*3
	return RGB{f.pix[idx], f.pix[idx+1], f.pix[idx+2]}
}

// Pix returns the raw row-major RGB888 buffer, for a caller (e.g. the
// refbox-sim preview binary) that wants to hand it to an image encoder.
func (f *Framebuffer) Pix() []uint8 {
	return f.pix
}
