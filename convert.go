package quiteok

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/quiteok/ctdd"
	"github.com/bodgit/quiteok/qoi"
	"github.com/ericpauley/go-quantize/quantize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const qoiExt = ".qoi"

var errOverwrite = errors.New("refusing to overwrite input")

// Anything image.Decode understands, plus field dumps. QOI files are
// deliberately absent so a scan never re-encodes its own output.
var extensions = map[string]struct{}{
	".bmp":   {},
	".gif":   {},
	".jpeg":  {},
	".jpg":   {},
	".png":   {},
	".tif":   {},
	".tiff":  {},
	".webp":  {},
	ctdd.Ext: {},
}

func supported(file string) bool {
	_, ok := extensions[strings.ToLower(filepath.Ext(file))]
	return ok
}

func readFile(file string) ([]byte, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	if isCompressed(file) {
		return decompress(b)
	}
	return b, nil
}

func writeFile(file string, b []byte) error {
	if isCompressed(file) {
		b = compress(b)
	}
	return os.WriteFile(file, b, 0666)
}

// Open decodes the image in file. Files ending in ".zst" are decompressed
// first.
func Open(file string) (image.Image, error) {
	b, err := readFile(file)
	if err != nil {
		return nil, err
	}
	m, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return m, nil
}

func readCTDD(file string) (*ctdd.File, error) {
	b, err := readFile(file)
	if err != nil {
		return nil, err
	}
	f := new(ctdd.File)
	if err := f.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return f, nil
}

func encode(m image.Image, cs qoi.Colorspace) ([]byte, error) {
	var buf bytes.Buffer
	if err := qoi.EncodeImage(&buf, m, cs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes m to file, choosing QOI or PNG from the extension. A trailing
// ".zst" compresses the result.
func Save(file string, m image.Image, cs qoi.Colorspace) error {
	var buf bytes.Buffer
	switch ext := strings.ToLower(filepath.Ext(trimZstd(file))); ext {
	case qoiExt:
		if err := qoi.EncodeImage(&buf, m, cs); err != nil {
			return err
		}
	case ".png":
		if err := png.Encode(&buf, m); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output format \"%s\"", ext)
	}
	return writeFile(file, buf.Bytes())
}

// reduce quantizes m to at most colors colors using median cut. Fewer
// distinct colors means more index and run chunks.
func reduce(m image.Image, colors int) image.Image {
	if colors <= 0 {
		return m
	}
	if colors > 256 {
		colors = 256
	}

	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return pm
}

func outputName(base string, opts Options) string {
	if opts.Zstd {
		return base + qoiExt + ZstdExt
	}
	return base + qoiExt
}

// Convert encodes file as QOI alongside the original. A field dump produces
// one image per field, numbered when there is more than one. The names of
// the files written are returned.
func (q *QuiteOK) Convert(file string, opts Options) ([]string, error) {
	name := trimZstd(file)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	if strings.EqualFold(ext, ctdd.Ext) {
		f, err := readCTDD(file)
		if err != nil {
			return nil, err
		}

		var written []string
		for i := range f.Fields {
			name := base
			if len(f.Fields) > 1 {
				name = fmt.Sprintf("%s_%d", base, i)
			}
			out := outputName(name, opts)
			if err := Save(out, reduce(f.Image(i), opts.Colors), qoi.Linear); err != nil {
				return written, err
			}
			q.logger.Printf("Converted field %d of \"%s\" to \"%s\"\n", i, file, out)
			written = append(written, out)
		}
		return written, nil
	}

	out := outputName(base, opts)
	if out == file {
		return nil, fmt.Errorf("%s: %w", file, errOverwrite)
	}

	m, err := Open(file)
	if err != nil {
		return nil, err
	}

	if err := Save(out, reduce(m, opts.Colors), opts.Colorspace); err != nil {
		return nil, err
	}
	q.logger.Printf("Converted \"%s\" to \"%s\"\n", file, out)

	return []string{out}, nil
}
