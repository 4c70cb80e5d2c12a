/*
Package quiteok is a library for converting images and simulation field
dumps into the QOI image format and keeping them in a small catalog.
*/
package quiteok

import (
	"bytes"
	"log"
	"path/filepath"
	"strings"

	"github.com/bodgit/quiteok/ctdd"
	"github.com/bodgit/quiteok/qoi"
)

const defaultWorkers = 10

// Options controls how files are converted.
type Options struct {
	// Colors, if non-zero, reduces each image to at most this many colors
	// before encoding
	Colors int
	// Colorspace is recorded in the header of encoded images. Field dumps
	// are always linear
	Colorspace qoi.Colorspace
	// Zstd compresses the output and appends ".zst" to its name
	Zstd bool
	// Workers is the number of files converted concurrently by Scan
	Workers int
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return defaultWorkers
	}
	return o.Workers
}

type QuiteOK struct {
	db     *Catalog
	logger *log.Logger
}

// New returns a QuiteOK using the given catalog, which may be nil if only
// file conversion is needed.
func New(db *Catalog, logger *log.Logger) *QuiteOK {
	return &QuiteOK{
		db:     db,
		logger: logger,
	}
}

// Import adds file to the catalog, dispatching on its extension.
func (q *QuiteOK) Import(file string, opts Options) error {
	if strings.EqualFold(filepath.Ext(trimZstd(file)), ctdd.Ext) {
		ids, err := q.db.ImportCTDD(file, opts.Colors)
		if err != nil {
			return err
		}
		q.logger.Printf("Imported %d field(s) from \"%s\"\n", len(ids), file)
		return nil
	}

	id, err := q.db.ImportImage(file, opts.Colors, opts.Colorspace)
	if err != nil {
		return err
	}
	q.logger.Printf("Imported \"%s\" as %d\n", file, id)
	return nil
}

// Export writes the named catalog image to file. The stored stream is
// written as is for QOI output, any other format is decoded first.
func (q *QuiteOK) Export(name, file string) error {
	stream, h, err := q.db.Find(name)
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(trimZstd(file)), qoiExt) {
		if err := writeFile(file, stream); err != nil {
			return err
		}
	} else {
		m, err := qoi.DecodeImage(bytes.NewReader(stream))
		if err != nil {
			return err
		}
		if err := Save(file, m, h.Colorspace); err != nil {
			return err
		}
	}
	q.logger.Printf("Exported \"%s\" (%dx%d) to \"%s\"\n", name, h.Width, h.Height, file)

	return nil
}
