package quiteok

import (
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/bodgit/quiteok/qoi"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no image has the requested name
var ErrNotFound = errors.New("image not found")

// Catalog is a sqlite database of QOI images keyed by name. Streams are
// stored compressed with zstd.
type Catalog struct {
	db *sql.DB
}

// Entry describes one image in the catalog.
type Entry struct {
	Name   string
	Header qoi.Header
	// Size is the stored, compressed, size in bytes
	Size int
}

func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, channels INTEGER NOT NULL, colorspace INTEGER NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// add stores stream under name, returning the row id. Storing identical
// content under an existing name is a no-op.
func (c *Catalog) add(name string, stream []byte) (int64, error) {
	var h qoi.Header
	if err := h.UnmarshalBinary(stream); err != nil {
		return 0, err
	}
	sha := fmt.Sprintf("%X", sha1.Sum(stream))

	var id int64
	var existing string
	switch err := c.db.QueryRow("SELECT id, sha1 FROM image WHERE name = ?", name).Scan(&id, &existing); err {
	case sql.ErrNoRows:
		result, err := c.db.Exec("INSERT INTO image (name, sha1, width, height, channels, colorspace, data) VALUES (?, ?, ?, ?, ?, ?, ?)", name, sha, h.Width, h.Height, h.Channels, h.Colorspace, compress(stream))
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		if existing == sha {
			return id, nil
		}
		if _, err := c.db.Exec("UPDATE image SET sha1 = ?, width = ?, height = ?, channels = ?, colorspace = ?, data = ? WHERE id = ?", sha, h.Width, h.Height, h.Channels, h.Colorspace, compress(stream), id); err != nil {
			return 0, err
		}
		return id, nil
	default:
		return 0, err
	}
}

func baseName(file string) string {
	name := filepath.Base(trimZstd(file))
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// ImportImage decodes file, optionally reducing its colors, and stores it
// under the file's base name.
func (c *Catalog) ImportImage(file string, colors int, cs qoi.Colorspace) (int64, error) {
	m, err := Open(file)
	if err != nil {
		return 0, err
	}
	return c.addImage(baseName(file), reduce(m, colors), cs)
}

func (c *Catalog) addImage(name string, m image.Image, cs qoi.Colorspace) (int64, error) {
	stream, err := encode(m, cs)
	if err != nil {
		return 0, err
	}
	return c.add(name, stream)
}

// ImportCTDD stores every field of a field dump as a linear image. With
// more than one field each name is suffixed with the field number.
func (c *Catalog) ImportCTDD(file string, colors int) ([]int64, error) {
	f, err := readCTDD(file)
	if err != nil {
		return nil, err
	}

	base := baseName(file)
	ids := make([]int64, 0, len(f.Fields))
	for i := range f.Fields {
		name := base
		if len(f.Fields) > 1 {
			name = fmt.Sprintf("%s_%d", base, i)
		}
		id, err := c.addImage(name, reduce(f.Image(i), colors), qoi.Linear)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// Find returns the QOI stream stored under name along with its header.
func (c *Catalog) Find(name string) ([]byte, qoi.Header, error) {
	var data []byte
	switch err := c.db.QueryRow("SELECT data FROM image WHERE name = ?", name).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, qoi.Header{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	case nil:
		stream, err := decompress(data)
		if err != nil {
			return nil, qoi.Header{}, err
		}
		var h qoi.Header
		if err := h.UnmarshalBinary(stream); err != nil {
			return nil, qoi.Header{}, err
		}
		return stream, h, nil
	default:
		return nil, qoi.Header{}, err
	}
}

// List returns every image in the catalog ordered by name.
func (c *Catalog) List() ([]Entry, error) {
	rows, err := c.db.Query("SELECT name, width, height, channels, colorspace, length(data) FROM image ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Header.Width, &e.Header.Height, &e.Header.Channels, &e.Header.Colorspace, &e.Size); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
