package qoi

import (
	"encoding/binary"
	"fmt"
)

// Colorspace records how the channel values are to be interpreted. It is
// informative only and does not change how pixels are encoded.
type Colorspace uint8

const (
	// SRGB is gamma encoded color with linear alpha
	SRGB Colorspace = iota
	// Linear means all channels are linear
	Linear
)

func (c Colorspace) String() string {
	switch c {
	case SRGB:
		return "sRGB"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("Colorspace(%d)", uint8(c))
	}
}

// Header describes the image held in a stream. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Header struct {
	Width, Height uint32
	Channels      uint8
	Colorspace    Colorspace
}

// Pixels returns the number of pixels in the image.
func (h Header) Pixels() uint64 {
	return uint64(h.Width) * uint64(h.Height)
}

func (h Header) validate() error {
	if h.Channels != 3 && h.Channels != 4 {
		return fmt.Errorf("%w: %d", ErrInvalidChannelCount, h.Channels)
	}
	if h.Colorspace > Linear {
		return fmt.Errorf("%w: %d", ErrInvalidColorspace, uint8(h.Colorspace))
	}
	return nil
}

func (h Header) validateSize() error {
	if h.Width == 0 || h.Height == 0 || h.Pixels() > MaxPixels {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, h.Width, h.Height)
	}
	return nil
}

func (h Header) appendTo(b []byte) []byte {
	b = append(b, Magic...)
	b = binary.BigEndian.AppendUint32(b, h.Width)
	b = binary.BigEndian.AppendUint32(b, h.Height)
	return append(b, h.Channels, uint8(h.Colorspace))
}

// MarshalBinary encodes the header into its fixed 14 byte form.
func (h Header) MarshalBinary() ([]byte, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}
	return h.appendTo(make([]byte, 0, HeaderSize)), nil
}

// UnmarshalBinary decodes the header from the first 14 bytes of b. Any
// further bytes are ignored.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < len(Magic) {
		return ErrTruncated
	}
	if string(b[:len(Magic)]) != Magic {
		return ErrBadMagic
	}
	if len(b) < HeaderSize {
		return ErrTruncated
	}

	dup := Header{
		Width:      binary.BigEndian.Uint32(b[4:8]),
		Height:     binary.BigEndian.Uint32(b[8:12]),
		Channels:   b[12],
		Colorspace: Colorspace(b[13]),
	}
	if err := dup.validate(); err != nil {
		return err
	}
	*h = dup
	return nil
}
