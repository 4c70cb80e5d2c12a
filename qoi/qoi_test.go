package qoi

import (
	"math/rand"
)

type vector struct {
	name   string
	header Header
	pix    []byte
	chunks []byte
}

// Hand-assembled streams, header and end marker excluded.
var vectors = []vector{
	{
		name:   "luma then run",
		header: Header{Width: 2, Height: 1, Channels: 3},
		pix:    []byte{10, 10, 10, 10, 10, 10},
		chunks: []byte{0xaa, 0x88, 0xc0},
	},
	{
		name:   "white is not a diff",
		header: Header{Width: 1, Height: 1, Channels: 3},
		pix:    []byte{255, 255, 255},
		chunks: []byte{0xfe, 0xff, 0xff, 0xff},
	},
	{
		name:   "no wrap across 255",
		header: Header{Width: 2, Height: 1, Channels: 3},
		pix:    []byte{250, 250, 250, 1, 1, 1},
		chunks: []byte{0xfe, 0xfa, 0xfa, 0xfa, 0xfe, 0x01, 0x01, 0x01},
	},
	{
		name:   "run then rgb",
		header: Header{Width: 2, Height: 1, Channels: 3, Colorspace: Linear},
		pix:    []byte{0, 0, 0, 1, 255, 0},
		chunks: []byte{0xc0, 0xfe, 0x01, 0xff, 0x00},
	},
	{
		name:   "luma",
		header: Header{Width: 1, Height: 1, Channels: 3},
		pix:    []byte{25, 30, 35},
		chunks: []byte{0xbe, 0x3d},
	},
	{
		name:   "rgb",
		header: Header{Width: 1, Height: 1, Channels: 3},
		pix:    []byte{200, 10, 10},
		chunks: []byte{0xfe, 0xc8, 0x0a, 0x0a},
	},
	{
		name:   "index",
		header: Header{Width: 3, Height: 1, Channels: 3},
		pix:    []byte{200, 10, 10, 0, 0, 0, 200, 10, 10},
		chunks: []byte{0xfe, 0xc8, 0x0a, 0x0a, 0xfe, 0x00, 0x00, 0x00, 0x05},
	},
	{
		name:   "rgba",
		header: Header{Width: 1, Height: 1, Channels: 4},
		pix:    []byte{0, 0, 0, 128},
		chunks: []byte{0xff, 0x00, 0x00, 0x00, 0x80},
	},
	{
		name:   "alpha change beats diff",
		header: Header{Width: 2, Height: 1, Channels: 4},
		pix:    []byte{10, 10, 10, 200, 11, 10, 10, 201},
		chunks: []byte{0xff, 0x0a, 0x0a, 0x0a, 0xc8, 0xff, 0x0b, 0x0a, 0x0a, 0xc9},
	},
	{
		name:   "transparent black is cached",
		header: Header{Width: 1, Height: 1, Channels: 4},
		pix:    []byte{0, 0, 0, 0},
		chunks: []byte{0x00},
	},
	{
		name:   "run of 124",
		header: Header{Width: 124, Height: 1, Channels: 3},
		pix:    make([]byte, 124*3),
		chunks: []byte{0xfd, 0xfd},
	},
	{
		name:   "run of 130",
		header: Header{Width: 10, Height: 13, Channels: 3},
		pix:    make([]byte, 130*3),
		chunks: []byte{0xfd, 0xfd, 0xc5},
	},
}

// Threshold cases step from (100,100,100), which is written as a literal.
var thresholds = []struct {
	name   string
	px     [3]byte
	chunks []byte
}{
	{"diff red -2", [3]byte{98, 100, 100}, []byte{0x4a}},
	{"diff red +1", [3]byte{101, 100, 100}, []byte{0x7a}},
	{"diff blue -2", [3]byte{100, 100, 98}, []byte{0x68}},
	{"diff blue +1", [3]byte{100, 100, 101}, []byte{0x6b}},
	{"red -3 is luma", [3]byte{97, 100, 100}, []byte{0xa0, 0x58}},
	{"red +2 is luma", [3]byte{102, 100, 100}, []byte{0xa0, 0xa8}},
	{"luma green -32", [3]byte{68, 68, 68}, []byte{0x80, 0x88}},
	{"luma green +31", [3]byte{131, 131, 131}, []byte{0xbf, 0x88}},
	{"green +32 is rgb", [3]byte{132, 132, 132}, []byte{0xfe, 0x84, 0x84, 0x84}},
	{"green -33 is rgb", [3]byte{67, 67, 67}, []byte{0xfe, 0x43, 0x43, 0x43}},
	{"luma red-green -8", [3]byte{92, 100, 100}, []byte{0xa0, 0x08}},
	{"luma red-green +7", [3]byte{107, 100, 100}, []byte{0xa0, 0xf8}},
	{"red-green +8 is rgb", [3]byte{108, 100, 100}, []byte{0xfe, 0x6c, 0x64, 0x64}},
	{"red-green -9 is rgb", [3]byte{91, 100, 100}, []byte{0xfe, 0x5b, 0x64, 0x64}},
	{"luma blue-green -8", [3]byte{100, 100, 92}, []byte{0xa0, 0x80}},
	{"luma blue-green +7", [3]byte{100, 100, 107}, []byte{0xa0, 0x8f}},
	{"blue-green +8 is rgb", [3]byte{100, 100, 108}, []byte{0xfe, 0x64, 0x64, 0x6c}},
}

func init() {
	for _, table := range thresholds {
		vectors = append(vectors, vector{
			name:   table.name,
			header: Header{Width: 2, Height: 1, Channels: 3},
			pix:    []byte{100, 100, 100, table.px[0], table.px[1], table.px[2]},
			chunks: append([]byte{0xfe, 0x64, 0x64, 0x64}, table.chunks...),
		})
	}
}

func stream(h Header, chunks []byte) []byte {
	b := h.appendTo(nil)
	b = append(b, chunks...)
	return append(b, endMarker[:]...)
}

// testImage mixes flat areas, gradients, small noise and random pixels so
// that every chunk kind is exercised.
func testImage(width, height, channels int) []byte {
	r := rand.New(rand.NewSource(int64(width*height*channels + 1)))
	pix := make([]byte, width*height*channels)
	for i := 0; i < len(pix); i += channels {
		x, y := (i/channels)%width, (i/channels)/width
		switch (x/8 + y/8) % 4 {
		case 0:
			pix[i], pix[i+1], pix[i+2] = 40, 80, 120
		case 1:
			pix[i], pix[i+1], pix[i+2] = byte(x), byte(y), byte(x+y)
		case 2:
			pix[i], pix[i+1], pix[i+2] = byte(128+r.Intn(4)), byte(100+r.Intn(40)), byte(128+r.Intn(16))
		default:
			pix[i], pix[i+1], pix[i+2] = byte(r.Intn(256)), byte(r.Intn(256)), byte(r.Intn(256))
		}
		if channels == 4 {
			pix[i+3] = 0xff
			if y%5 == 0 {
				pix[i+3] = byte(r.Intn(4) * 64)
			}
		}
	}
	return pix
}
