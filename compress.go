package quiteok

import (
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ZstdExt is appended to the name of compressed output
const ZstdExt = ".zst"

// Both are safe for concurrent EncodeAll/DecodeAll calls
var (
	zstdEncoder = mustNewZstdEncoder()
	zstdDecoder = mustNewZstdDecoder()
)

func mustNewZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustNewZstdDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(0),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

func compress(b []byte) []byte {
	return zstdEncoder.EncodeAll(b, nil)
}

func decompress(b []byte) ([]byte, error) {
	return zstdDecoder.DecodeAll(b, nil)
}

func isCompressed(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ZstdExt)
}

// trimZstd removes a trailing ".zst" in any case.
func trimZstd(file string) string {
	if isCompressed(file) {
		return file[:len(file)-len(ZstdExt)]
	}
	return file
}
