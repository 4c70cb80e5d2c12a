package qoi

import (
	"image"
	"image/color"
	"io"
)

func init() {
	image.RegisterFormat("qoi", Magic, DecodeImage, DecodeConfig)
}

// DecodeImage reads a QOI stream from r and returns it as an *image.NRGBA.
func DecodeImage(r io.Reader) (image.Image, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	h, pix, err := Decode(b)
	if err != nil {
		return nil, err
	}

	m := image.NewNRGBA(image.Rect(0, 0, int(h.Width), int(h.Height)))
	if h.Channels == 4 {
		copy(m.Pix, pix)
		return m, nil
	}

	for i, j := 0, 0; i < len(pix); i, j = i+3, j+4 {
		m.Pix[j+0] = pix[i+0]
		m.Pix[j+1] = pix[i+1]
		m.Pix[j+2] = pix[i+2]
		m.Pix[j+3] = 0xff
	}

	return m, nil
}

// DecodeConfig returns the color model and dimensions of a QOI image
// without decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var b [HeaderSize]byte
	n, err := io.ReadFull(r, b[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return image.Config{}, err
	}

	var h Header
	if err := h.UnmarshalBinary(b[:n]); err != nil {
		return image.Config{}, err
	}
	if err := h.validateSize(); err != nil {
		return image.Config{}, err
	}

	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

type opaquer interface {
	Opaque() bool
}

// Pixels flattens m into a pixel buffer with the given number of channels,
// with the top-left corner of m at index 0.
func Pixels(m image.Image, channels int) []byte {
	b := m.Bounds()
	pix := make([]byte, 0, b.Dx()*b.Dy()*channels)

	if nm, ok := m.(*image.NRGBA); ok && channels == 4 {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			i := nm.PixOffset(b.Min.X, y)
			pix = append(pix, nm.Pix[i:i+b.Dx()*4]...)
		}
		return pix
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			pix = append(pix, c.R, c.G, c.B)
			if channels == 4 {
				pix = append(pix, c.A)
			}
		}
	}
	return pix
}

// EncodeImage writes the Image m to w in QOI format. Images reporting
// themselves as opaque are written with 3 channels, everything else with
// 4.
func EncodeImage(w io.Writer, m image.Image, cs Colorspace) error {
	b := m.Bounds()

	h := Header{
		Width:      uint32(b.Dx()),
		Height:     uint32(b.Dy()),
		Channels:   4,
		Colorspace: cs,
	}
	if o, ok := m.(opaquer); ok && o.Opaque() {
		h.Channels = 3
	}

	out, err := Encode(Pixels(m, int(h.Channels)), h)
	if err != nil {
		return err
	}

	_, err = w.Write(out)
	return err
}
