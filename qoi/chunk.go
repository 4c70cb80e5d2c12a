package qoi

const (
	opIndex byte = 0x00 // 00xxxxxx
	opDiff  byte = 0x40 // 01xxxxxx
	opLuma  byte = 0x80 // 10xxxxxx
	opRun   byte = 0xc0 // 11xxxxxx
	opRGB   byte = 0xfe // 11111110
	opRGBA  byte = 0xff // 11111111

	opMask byte = 0xc0 // 11000000
)

type chunkKind int

const (
	chunkIndex chunkKind = iota
	chunkDiff
	chunkLuma
	chunkRun
	chunkRGB
	chunkRGBA
)

var chunkNames = [...]string{
	chunkIndex: "index",
	chunkDiff:  "diff",
	chunkLuma:  "luma",
	chunkRun:   "run",
	chunkRGB:   "rgb",
	chunkRGBA:  "rgba",
}

func (k chunkKind) String() string {
	return chunkNames[k]
}

// size returns the length of the chunk in bytes, including the tag.
func (k chunkKind) size() int {
	switch k {
	case chunkLuma:
		return 2
	case chunkRGB:
		return 4
	case chunkRGBA:
		return 5
	default:
		return 1
	}
}

// kindOf classifies a tag byte. The two 8-bit tags overlap the run tag so
// they are tested first.
func kindOf(tag byte) chunkKind {
	switch tag {
	case opRGB:
		return chunkRGB
	case opRGBA:
		return chunkRGBA
	}

	switch tag & opMask {
	case opIndex:
		return chunkIndex
	case opDiff:
		return chunkDiff
	case opLuma:
		return chunkLuma
	default:
		return chunkRun
	}
}
