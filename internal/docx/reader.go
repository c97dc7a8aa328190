// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/beevik/etree"
	"github.com/klauspost/compress/zip"
)

// ErrNotDocx is returned when a package lacks the parts every DOCX has.
var ErrNotDocx = errors.New("not a DOCX package")

// maxPartSize bounds how much of a single part is decompressed.
const maxPartSize = 64 << 20

// Open reads the DOCX file at path.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	d, err := Read(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return d, nil
}

// Read parses a DOCX package of the given size. Only the main document
// part and the core properties are loaded; saving a read document writes
// this package's own styles part.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	for _, name := range []string{partContentTypes, partDocument} {
		if files[name] == nil {
			return nil, fmt.Errorf("%w: missing %s", ErrNotDocx, name)
		}
	}

	x, err := readPart(files[partDocument])
	if err != nil {
		return nil, err
	}
	root := x.Root()
	if root == nil || root.Tag != "document" {
		return nil, fmt.Errorf("%w: %s has no document element", ErrNotDocx, partDocument)
	}
	body := root.SelectElement("body")
	if body == nil {
		return nil, fmt.Errorf("%w: %s has no body", ErrNotDocx, partDocument)
	}

	d := &Document{xml: x, body: body}
	if f := files[partCore]; f != nil {
		if core, err := readPart(f); err == nil {
			d.Meta = parseCore(core)
		}
	}
	return d, nil
}

func readPart(f *zip.File) (*etree.Document, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening part %s: %w", f.Name, err)
	}
	defer rc.Close()

	x := etree.NewDocument()
	if _, err := x.ReadFrom(io.LimitReader(rc, maxPartSize)); err != nil {
		return nil, fmt.Errorf("parsing part %s: %w", f.Name, err)
	}
	return x, nil
}

func parseCore(x *etree.Document) Metadata {
	var m Metadata
	root := x.Root()
	if root == nil {
		return m
	}
	if e := root.SelectElement("title"); e != nil {
		m.Title = e.Text()
	}
	if e := root.SelectElement("subject"); e != nil {
		m.Subject = e.Text()
	}
	if e := root.SelectElement("creator"); e != nil {
		m.Creator = e.Text()
	}
	if e := root.SelectElement("created"); e != nil {
		if t, err := time.Parse(time.RFC3339, e.Text()); err == nil {
			m.Created = t
		}
	}
	return m
}
