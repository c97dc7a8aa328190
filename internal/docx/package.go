// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/beevik/etree"
	"github.com/klauspost/compress/zip"
)

// Package part names.
const (
	partContentTypes = "[Content_Types].xml"
	partRootRels     = "_rels/.rels"
	partDocument     = "word/document.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partStyles       = "word/styles.xml"
	partCore         = "docProps/core.xml"
	partApp          = "docProps/app.xml"
)

const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	nsRelationships   = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes    = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// MediaType is the MIME type of a DOCX file.
const MediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Save writes the document as a DOCX package.
func (d *Document) Save(w io.Writer) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		xml  *etree.Document
	}{
		{partContentTypes, contentTypesXML()},
		{partRootRels, rootRelsXML()},
		{partDocument, d.xml},
		{partDocumentRels, documentRelsXML()},
		{partStyles, stylesXML()},
		{partCore, coreXML(d.Meta)},
		{partApp, appXML()},
	}

	for _, p := range parts {
		fw, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("creating part %s: %w", p.name, err)
		}
		if _, err := p.xml.WriteTo(fw); err != nil {
			return fmt.Errorf("writing part %s: %w", p.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing package: %w", err)
	}
	return nil
}

// SaveFile writes the document to path. The package is written to a
// temporary file in the same directory and renamed into place, so path
// either holds a complete document or is left untouched.
func (d *Document) SaveFile(path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cardpress-*.docx")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = d.Save(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving document into place: %w", err)
	}
	return nil
}

func newPart() *etree.Document {
	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return x
}

func contentTypesXML() *etree.Document {
	x := newPart()
	types := x.CreateElement("Types")
	types.CreateAttr("xmlns", nsContentTypes)

	def := func(ext, ct string) {
		e := types.CreateElement("Default")
		e.CreateAttr("Extension", ext)
		e.CreateAttr("ContentType", ct)
	}
	override := func(part, ct string) {
		e := types.CreateElement("Override")
		e.CreateAttr("PartName", "/"+part)
		e.CreateAttr("ContentType", ct)
	}

	def("rels", "application/vnd.openxmlformats-package.relationships+xml")
	def("xml", "application/xml")
	override(partDocument, "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml")
	override(partStyles, "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml")
	override(partCore, "application/vnd.openxmlformats-package.core-properties+xml")
	override(partApp, "application/vnd.openxmlformats-officedocument.extended-properties+xml")
	return x
}

func relationshipsXML(rels ...[2]string) *etree.Document {
	x := newPart()
	root := x.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsRelationships)
	for i, r := range rels {
		e := root.CreateElement("Relationship")
		e.CreateAttr("Id", fmt.Sprintf("rId%d", i+1))
		e.CreateAttr("Type", r[0])
		e.CreateAttr("Target", r[1])
	}
	return x
}

func rootRelsXML() *etree.Document {
	return relationshipsXML(
		[2]string{relOfficeDocument, partDocument},
		[2]string{relCoreProps, partCore},
		[2]string{relExtendedProps, partApp},
	)
}

func documentRelsXML() *etree.Document {
	return relationshipsXML([2]string{relStyles, "styles.xml"})
}

func coreXML(m Metadata) *etree.Document {
	x := newPart()
	root := x.CreateElement("cp:coreProperties")
	root.CreateAttr("xmlns:cp", nsCP)
	root.CreateAttr("xmlns:dc", nsDC)
	root.CreateAttr("xmlns:dcterms", nsDT)
	root.CreateAttr("xmlns:xsi", nsXS)

	if m.Title != "" {
		root.CreateElement("dc:title").SetText(m.Title)
	}
	if m.Subject != "" {
		root.CreateElement("dc:subject").SetText(m.Subject)
	}
	if m.Creator != "" {
		root.CreateElement("dc:creator").SetText(m.Creator)
	}
	created := m.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}
	c := root.CreateElement("dcterms:created")
	c.CreateAttr("xsi:type", "dcterms:W3CDTF")
	c.SetText(created.UTC().Format(time.RFC3339))
	return x
}

func appXML() *etree.Document {
	x := newPart()
	root := x.CreateElement("Properties")
	root.CreateAttr("xmlns", nsEP)
	root.CreateElement("Application").SetText("cardpress")
	return x
}

// stylesXML defines the styles the documents reference: Normal, Title,
// Heading1 and the default table style.
func stylesXML() *etree.Document {
	x := newPart()
	root := x.CreateElement(wTag("styles"))
	root.CreateAttr("xmlns:w", nsW)

	defaults := root.CreateElement(wTag("docDefaults"))
	rPr := defaults.CreateElement(wTag("rPrDefault")).CreateElement(wTag("rPr"))
	fonts := rPr.CreateElement(wTag("rFonts"))
	for _, k := range []string{"ascii", "hAnsi", "cs", "eastAsia"} {
		fonts.CreateAttr(wTag(k), "Calibri")
	}
	rPr.CreateElement(wTag("sz")).CreateAttr(wTag("val"), "22")
	rPr.CreateElement(wTag("szCs")).CreateAttr(wTag("val"), "22")
	pPr := defaults.CreateElement(wTag("pPrDefault")).CreateElement(wTag("pPr"))
	sp := pPr.CreateElement(wTag("spacing"))
	sp.CreateAttr(wTag("after"), "160")
	sp.CreateAttr(wTag("line"), "259")
	sp.CreateAttr(wTag("lineRule"), "auto")

	style := func(kind, id, name string, isDefault bool) *etree.Element {
		s := root.CreateElement(wTag("style"))
		s.CreateAttr(wTag("type"), kind)
		if isDefault {
			s.CreateAttr(wTag("default"), "1")
		}
		s.CreateAttr(wTag("styleId"), id)
		s.CreateElement(wTag("name")).CreateAttr(wTag("val"), name)
		return s
	}

	normal := style("paragraph", "Normal", "Normal", true)
	normal.CreateElement(wTag("qFormat"))

	style("character", "DefaultParagraphFont", "Default Paragraph Font", true)

	for _, h := range []struct {
		id, name string
		size     string
		outline  string
	}{
		{"Title", "Title", "56", ""},
		{"Heading1", "heading 1", "32", "0"},
	} {
		s := style("paragraph", h.id, h.name, false)
		s.CreateElement(wTag("basedOn")).CreateAttr(wTag("val"), "Normal")
		s.CreateElement(wTag("next")).CreateAttr(wTag("val"), "Normal")
		s.CreateElement(wTag("qFormat"))
		sp := s.CreateElement(wTag("pPr"))
		if h.outline != "" {
			sp.CreateElement(wTag("keepNext"))
			sp.CreateElement(wTag("keepLines"))
			spacing := sp.CreateElement(wTag("spacing"))
			spacing.CreateAttr(wTag("before"), "240")
			spacing.CreateAttr(wTag("after"), "0")
			sp.CreateElement(wTag("outlineLvl")).CreateAttr(wTag("val"), h.outline)
		}
		sr := s.CreateElement(wTag("rPr"))
		sr.CreateElement(wTag("color")).CreateAttr(wTag("val"), "2F5496")
		sr.CreateElement(wTag("sz")).CreateAttr(wTag("val"), h.size)
		sr.CreateElement(wTag("szCs")).CreateAttr(wTag("val"), h.size)
	}

	tbl := style("table", "TableNormal", "Normal Table", true)
	tblPr := tbl.CreateElement(wTag("tblPr"))
	tblPr.CreateElement(wTag("tblInd")).CreateAttr(wTag("w"), "0")
	tblPr.SelectElement("tblInd").CreateAttr(wTag("type"), "dxa")
	mar := tblPr.CreateElement(wTag("tblCellMar"))
	for _, side := range []struct{ tag, w string }{{"top", "0"}, {"left", "108"}, {"bottom", "0"}, {"right", "108"}} {
		e := mar.CreateElement(wTag(side.tag))
		e.CreateAttr(wTag("w"), side.w)
		e.CreateAttr(wTag("type"), "dxa")
	}
	return x
}
