/*
Package ctdd implements the CTDD field data file written by the simulation
and the colormap tooling.

The file starts with three little-endian 32-bit values; the number of
fields, the number of rows M and the number of columns N. Each field then
follows as M by N cells, row by row, with each cell holding three
little-endian float32 samples. A colormap is stored as a single field of
one row with a red, green and blue sample per cell, each in the range 0 to
1.
*/
package ctdd

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
)

const (
	// Ext is the usual file extension
	Ext = ".ctdd"

	samplesPerCell = 3
	headerSize     = 12
)

var (
	ErrTruncated = errors.New("ctdd: truncated data")
	ErrFieldSize = errors.New("ctdd: field size does not match dimensions")
)

// Field holds the samples of one field, three per cell.
type Field []float32

// File is a collection of equally sized fields. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type File struct {
	Rows, Columns int
	Fields        []Field
}

func (f *File) cells() int {
	return f.Rows * f.Columns
}

// MarshalBinary encodes the file into binary form and returns the result
func (f *File) MarshalBinary() ([]byte, error) {
	for i, field := range f.Fields {
		if len(field) != f.cells()*samplesPerCell {
			return nil, fmt.Errorf("%w: field %d has %d samples", ErrFieldSize, i, len(field))
		}
	}

	b := new(bytes.Buffer)

	header := [3]uint32{uint32(len(f.Fields)), uint32(f.Rows), uint32(f.Columns)}
	if err := binary.Write(b, binary.LittleEndian, &header); err != nil {
		return nil, err
	}

	for _, field := range f.Fields {
		if err := binary.Write(b, binary.LittleEndian, []float32(field)); err != nil {
			return nil, err
		}
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the file from binary form
func (f *File) UnmarshalBinary(b []byte) error {
	if len(b) < headerSize {
		return ErrTruncated
	}

	count := binary.LittleEndian.Uint32(b[0:4])
	rows := binary.LittleEndian.Uint32(b[4:8])
	columns := binary.LittleEndian.Uint32(b[8:12])

	cells := uint64(rows) * uint64(columns)
	if cells == 0 {
		return fmt.Errorf("%w: %dx%d", ErrFieldSize, rows, columns)
	}

	avail := uint64(len(b) - headerSize)
	if cells > avail/(samplesPerCell*4) || uint64(count) > avail/(cells*samplesPerCell*4) {
		return ErrTruncated
	}

	f.Rows, f.Columns = int(rows), int(columns)
	f.Fields = make([]Field, count)

	r := bytes.NewReader(b[headerSize:])
	for i := range f.Fields {
		f.Fields[i] = make(Field, f.cells()*samplesPerCell)
		if err := binary.Read(r, binary.LittleEndian, []float32(f.Fields[i])); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return ErrTruncated
			}
			return err
		}
	}

	return nil
}

// Read reads and decodes a complete file from r.
func Read(r io.Reader) (*File, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f := new(File)
	if err := f.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return f, nil
}

func toByte(v float32) byte {
	switch {
	case math.IsNaN(float64(v)) || v <= 0:
		return 0
	case v >= 1:
		return 0xff
	default:
		return byte(255 * float64(v))
	}
}

// Pixels returns field i as a buffer of 3 channel pixels, Columns wide
// and Rows high. Samples are scaled from 0-1 and truncated.
func (f *File) Pixels(i int) []byte {
	pix := make([]byte, len(f.Fields[i]))
	for j, v := range f.Fields[i] {
		pix[j] = toByte(v)
	}
	return pix
}

// Image returns field i as an image.
func (f *File) Image(i int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, f.Columns, f.Rows))
	for j, k := 0, 0; j < len(f.Fields[i]); j, k = j+samplesPerCell, k+4 {
		m.Pix[k+0] = toByte(f.Fields[i][j+0])
		m.Pix[k+1] = toByte(f.Fields[i][j+1])
		m.Pix[k+2] = toByte(f.Fields[i][j+2])
		m.Pix[k+3] = 0xff
	}
	return m
}
