/*
Package qoi implements a QOI ("Quite OK Image") decoder and encoder.

A stream is a 14 byte header followed by a sequence of tagged chunks and an
8 byte end marker. Each chunk describes one or more pixels relative to the
previously decoded pixel or to a 64 entry cache of recently seen pixels:

	0xfe r g b        RGB literal, alpha unchanged
	0xff r g b a      RGBA literal
	00iiiiii          index into the pixel cache
	01rrggbb          small difference, each delta biased by 2
	10gggggg rrrrbbbb luma difference, green biased by 32, red and blue
	                  relative to green biased by 8
	11llllll          run of l+1 copies of the previous pixel

Encoder and decoder update the cache identically so it forms part of the
format, not an optimisation.
*/
package qoi

import "errors"

const (
	// Magic is the four byte signature at the start of every stream
	Magic = "qoif"

	// HeaderSize is the size in bytes of the fixed header
	HeaderSize = 14

	// MaxPixels bounds width * height for both encoding and decoding
	MaxPixels = 400000000

	cacheSize = 64
	maxRun    = 62
)

var (
	ErrBadMagic                = errors.New("qoi: bad magic")
	ErrTruncated               = errors.New("qoi: truncated data")
	ErrCorruptEndMarker        = errors.New("qoi: corrupt end marker")
	ErrInvalidChannelCount     = errors.New("qoi: invalid channel count")
	ErrInvalidColorspace       = errors.New("qoi: invalid colorspace")
	ErrInvalidDimensions       = errors.New("qoi: invalid dimensions")
	ErrPixelBufferSizeMismatch = errors.New("qoi: pixel buffer size mismatch")

	endMarker = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}
)
