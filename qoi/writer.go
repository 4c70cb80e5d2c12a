package qoi

import (
	"fmt"
	"image/color"
)

// start is the previous pixel assumed before the first pixel of an image.
var start = color.NRGBA{0, 0, 0, 255}

type encoder struct {
	buf  []byte
	prev color.NRGBA
	run  int
	seen cache
}

func newEncoder(buf []byte) *encoder {
	return &encoder{
		buf:  buf,
		prev: start,
	}
}

func pixelAt(pix []byte, i, channels int) color.NRGBA {
	p := pix[i*channels : i*channels+channels]
	px := color.NRGBA{p[0], p[1], p[2], 0xff}
	if channels == 4 {
		px.A = p[3]
	}
	return px
}

func smallDiff(d int) bool {
	return d > -3 && d < 2
}

// classify picks the cheapest chunk for a pixel that differs from the
// previous one. i is the cache slot of px.
func (e *encoder) classify(px color.NRGBA, i uint8) chunkKind {
	if e.seen.lookup(i) == px {
		return chunkIndex
	}

	if px.A != e.prev.A {
		return chunkRGBA
	}

	dR, dG, dB := e.deltas(px)
	dRG, dBG := dR-dG, dB-dG

	switch {
	case smallDiff(dR) && smallDiff(dG) && smallDiff(dB):
		return chunkDiff
	case dG > -33 && dG < 32 &&
		dRG > -9 && dRG < 8 &&
		dBG > -9 && dBG < 8:
		return chunkLuma
	default:
		return chunkRGB
	}
}

// deltas returns the signed difference of each color channel from the
// previous pixel. Differences do not wrap, so a step across 0/255 is
// written as a literal.
func (e *encoder) deltas(px color.NRGBA) (int, int, int) {
	return int(px.R) - int(e.prev.R), int(px.G) - int(e.prev.G), int(px.B) - int(e.prev.B)
}

func (e *encoder) encode(px color.NRGBA, last bool) {
	if px == e.prev {
		e.run++
		if e.run == maxRun || last {
			e.flushRun()
		}
		return
	}

	e.flushRun()

	i := hash(px)
	kind := e.classify(px, i)
	if kind != chunkIndex {
		e.seen.store(i, px)
	}

	switch kind {
	case chunkIndex:
		e.buf = append(e.buf, opIndex|i)
	case chunkDiff:
		dR, dG, dB := e.deltas(px)
		e.buf = append(e.buf, opDiff|byte(dR+2)<<4|byte(dG+2)<<2|byte(dB+2))
	case chunkLuma:
		dR, dG, dB := e.deltas(px)
		e.buf = append(e.buf, opLuma|byte(dG+32), byte(dR-dG+8)<<4|byte(dB-dG+8))
	case chunkRGB:
		e.buf = append(e.buf, opRGB, px.R, px.G, px.B)
	case chunkRGBA:
		e.buf = append(e.buf, opRGBA, px.R, px.G, px.B, px.A)
	}

	e.prev = px
}

func (e *encoder) flushRun() {
	if e.run == 0 {
		return
	}
	e.buf = append(e.buf, opRun|byte(e.run-1))
	e.run = 0
}

func (e *encoder) finish() []byte {
	e.flushRun()
	return append(e.buf, endMarker[:]...)
}

// Encode compresses pix, which must hold h.Width * h.Height pixels of
// h.Channels samples each, and returns the complete stream including the
// header and end marker.
func Encode(pix []byte, h Header) ([]byte, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}
	if err := h.validateSize(); err != nil {
		return nil, err
	}

	n, channels := int(h.Pixels()), int(h.Channels)
	if len(pix) != n*channels {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrPixelBufferSizeMismatch, len(pix), n*channels)
	}

	// Worst case is a literal for every pixel
	e := newEncoder(make([]byte, 0, HeaderSize+n*(channels+1)+len(endMarker)))
	e.buf = h.appendTo(e.buf)

	for i := 0; i < n; i++ {
		e.encode(pixelAt(pix, i, channels), i == n-1)
	}

	return e.finish(), nil
}
