package qoi

import (
	"bytes"
	"fmt"
	"image/color"
)

type decoder struct {
	b    []byte
	off  int
	prev color.NRGBA
	run  int
	seen cache
}

func newDecoder(b []byte) *decoder {
	return &decoder{
		b:    b,
		prev: start,
	}
}

// next returns the next pixel, consuming a chunk unless a run is still
// being replayed.
func (d *decoder) next() (color.NRGBA, error) {
	if d.run > 0 {
		d.run--
		return d.prev, nil
	}

	if d.off >= len(d.b) {
		return color.NRGBA{}, ErrTruncated
	}

	tag := d.b[d.off]
	kind := kindOf(tag)
	if d.off+kind.size() > len(d.b) {
		return color.NRGBA{}, ErrTruncated
	}
	c := d.b[d.off : d.off+kind.size()]
	d.off += kind.size()

	px := d.prev
	switch kind {
	case chunkIndex:
		d.prev = d.seen.lookup(tag &^ opMask)
		return d.prev, nil
	case chunkRun:
		// This pixel is the first of the run
		d.run = int(tag &^ opMask)
		return d.prev, nil
	case chunkDiff:
		px.R += (tag>>4)&0x03 - 2
		px.G += (tag>>2)&0x03 - 2
		px.B += tag&0x03 - 2
	case chunkLuma:
		dG := c[0]&0x3f - 32
		px.R += dG + c[1]>>4 - 8
		px.G += dG
		px.B += dG + c[1]&0x0f - 8
	case chunkRGB:
		px.R, px.G, px.B = c[1], c[2], c[3]
	case chunkRGBA:
		px = color.NRGBA{c[1], c[2], c[3], c[4]}
	}

	d.seen.store(hash(px), px)
	d.prev = px

	return px, nil
}

func (d *decoder) finish() error {
	if len(d.b)-d.off < len(endMarker) {
		return ErrTruncated
	}
	if !bytes.Equal(d.b[d.off:d.off+len(endMarker)], endMarker[:]) {
		return ErrCorruptEndMarker
	}
	return nil
}

// Decode decompresses a complete stream and returns its header along with
// the pixels, h.Channels samples per pixel. Decoding stops after exactly
// h.Width * h.Height pixels; anything following the end marker is ignored.
func Decode(b []byte) (Header, []byte, error) {
	var h Header
	if err := h.UnmarshalBinary(b); err != nil {
		return Header{}, nil, err
	}
	if err := h.validateSize(); err != nil {
		return Header{}, nil, err
	}

	// Each chunk is at least one byte and covers at most maxRun pixels
	avail := len(b) - HeaderSize - len(endMarker)
	if avail < 0 || uint64(avail)*maxRun < h.Pixels() {
		return Header{}, nil, ErrTruncated
	}

	channels := int(h.Channels)
	pix := make([]byte, int(h.Pixels())*channels)

	d := newDecoder(b[HeaderSize:])
	for i := 0; i < len(pix); i += channels {
		px, err := d.next()
		if err != nil {
			return Header{}, nil, fmt.Errorf("%w at pixel %d", err, i/channels)
		}
		pix[i+0] = px.R
		pix[i+1] = px.G
		pix[i+2] = px.B
		if channels == 4 {
			pix[i+3] = px.A
		}
	}

	if err := d.finish(); err != nil {
		return Header{}, nil, err
	}

	return h, pix, nil
}
