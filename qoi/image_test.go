package qoi

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(3, 4, 35, 28))
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			src.SetNRGBA(x, y, color.NRGBA{uint8(x * 7), uint8(y * 3), uint8(x ^ y), uint8(255 - x)})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeImage(&buf, src, SRGB))

	h, _, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, Header{Width: 32, Height: 24, Channels: 4}, h)

	m, format, err := image.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "qoi", format)
	require.Equal(t, image.Rect(0, 0, 32, 24), m.Bounds())

	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			require.Equal(t, src.At(x+3, y+4), m.At(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestEncodeImageOpaque(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 5, 3))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	src.SetRGBA(2, 1, color.RGBA{10, 20, 30, 255})

	var buf bytes.Buffer
	require.NoError(t, EncodeImage(&buf, src, Linear))

	h, pix, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, Header{Width: 5, Height: 3, Channels: 3, Colorspace: Linear}, h)
	assert.Equal(t, []byte{10, 20, 30}, pix[(1*5+2)*3:(1*5+2)*3+3])

	m, err := DecodeImage(&buf)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, m.At(2, 1))
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, m.At(0, 0))
}

func TestEncodeImageEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeImage(&buf, image.NewNRGBA(image.Rect(0, 0, 0, 10)), SRGB)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
	assert.Zero(t, buf.Len())
}

func TestDecodeConfig(t *testing.T) {
	b, err := Encode(testImage(17, 9, 3), Header{Width: 17, Height: 9, Channels: 3})
	require.NoError(t, err)

	c, err := DecodeConfig(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 17, c.Width)
	assert.Equal(t, 9, c.Height)
	assert.Equal(t, color.NRGBAModel, c.ColorModel)

	_, err = DecodeConfig(bytes.NewReader(b[:10]))
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = DecodeConfig(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = DecodeConfig(bytes.NewReader([]byte("GIF89a...")))
	assert.ErrorIs(t, err, ErrBadMagic)

	empty := Header{Width: 0, Height: 9, Channels: 3}.appendTo(nil)
	_, err = DecodeConfig(bytes.NewReader(empty))
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, _, err = Decode(append(empty, endMarker[:]...))
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestPixels(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 2, 1))
	m.Pix = []byte{0x10, 0x20}

	assert.Equal(t, []byte{0x10, 0x10, 0x10, 0x20, 0x20, 0x20}, Pixels(m, 3))
	assert.Equal(t, []byte{0x10, 0x10, 0x10, 0xff, 0x20, 0x20, 0x20, 0xff}, Pixels(m, 4))
}
