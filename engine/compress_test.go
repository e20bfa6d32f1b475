// docfold - merge, split and shrink PDF files
// Copyright (C) 2026  The docfold authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/docfold/pdf"
	"github.com/docfold/pdf/pagetree"
)

// makeRichSource builds a single-page PDF file which has all the
// structures the compress options target: info metadata, an XMP
// metadata stream, a link annotation, an outline, an embedded file,
// and an associated-files array.
func makeRichSource(t *testing.T) []byte {
	t.Helper()

	doc := pdf.NewDocument(pdf.V1_7)
	meta := doc.GetMeta()

	meta.Info = &pdf.Info{
		Title:        "Quarterly Report",
		Author:       "J. Doe",
		Subject:      "finances",
		Keywords:     "q3, internal",
		Creator:      "spreadsheet",
		Producer:     "exporter",
		CreationDate: time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC),
		ModDate:      time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC),
	}

	mdRef := doc.Alloc()
	w, err := doc.OpenStream(mdRef, pdf.Dict{
		"Type":    pdf.Name("Metadata"),
		"Subtype": pdf.Name("XML"),
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = w.Write([]byte("<x:xmpmeta xmlns:x=\"adobe:ns:meta/\"/>"))
	if err != nil {
		t.Fatal(err)
	}
	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}
	meta.Catalog.Metadata = mdRef

	outlineRef := doc.Alloc()
	err = doc.Put(outlineRef, pdf.Dict{
		"Type":  pdf.Name("Outlines"),
		"Count": pdf.Integer(0),
	})
	if err != nil {
		t.Fatal(err)
	}
	meta.Catalog.Outlines = outlineRef

	efRef := doc.Alloc()
	w, err = doc.OpenStream(efRef, pdf.Dict{"Type": pdf.Name("EmbeddedFile")})
	if err != nil {
		t.Fatal(err)
	}
	_, err = w.Write([]byte("attachment body"))
	if err != nil {
		t.Fatal(err)
	}
	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}
	fsRef := doc.Alloc()
	err = doc.Put(fsRef, pdf.Dict{
		"Type": pdf.Name("Filespec"),
		"F":    pdf.String("notes.txt"),
		"EF":   pdf.Dict{"F": efRef},
	})
	if err != nil {
		t.Fatal(err)
	}
	meta.Catalog.Names = pdf.Dict{
		"EmbeddedFiles": pdf.Dict{
			"Names": pdf.Array{pdf.String("notes.txt"), fsRef},
		},
	}
	meta.Catalog.AF = pdf.Array{fsRef}

	annotRef := doc.Alloc()
	err = doc.Put(annotRef, pdf.Dict{
		"Type":    pdf.Name("Annot"),
		"Subtype": pdf.Name("Link"),
		"Rect": pdf.Array{
			pdf.Integer(72), pdf.Integer(700),
			pdf.Integer(144), pdf.Integer(712),
		},
		"A": pdf.Dict{
			"S":   pdf.Name("URI"),
			"URI": pdf.String("https://example.com/"),
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	streamRef, err := newContentStream(doc, []byte("BT (PG-rich) Tj ET"))
	if err != nil {
		t.Fatal(err)
	}
	pageRef := doc.Alloc()
	err = doc.Put(pageRef, pdf.Dict{
		"Type": pdf.Name("Page"),
		"MediaBox": pdf.Array{
			pdf.Integer(0), pdf.Integer(0),
			pdf.Integer(612), pdf.Integer(792),
		},
		"Contents": pdf.Array{streamRef},
		"Annots":   pdf.Array{annotRef},
	})
	if err != nil {
		t.Fatal(err)
	}

	root, err := pagetree.Build(doc, []pdf.Reference{pageRef})
	if err != nil {
		t.Fatal(err)
	}
	meta.Catalog.Pages = root

	out, err := save(doc, false)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestCompressStripMetadata(t *testing.T) {
	src := makeRichSource(t)

	out, warnings, err := Compress(src, CompressOptions{StripMetadata: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	doc := mustLoad(t, out)
	meta := doc.GetMeta()
	info := meta.Info
	if info == nil {
		t.Fatal("info dictionary missing")
	}
	for field, val := range map[string]string{
		"Title":    info.Title,
		"Author":   info.Author,
		"Subject":  info.Subject,
		"Keywords": info.Keywords,
		"Creator":  info.Creator,
		"Producer": info.Producer,
	} {
		if val != "" {
			t.Errorf("%s not cleared: %q", field, val)
		}
	}
	epoch := time.Unix(0, 0).UTC()
	if !info.CreationDate.Equal(epoch) || !info.ModDate.Equal(epoch) {
		t.Errorf("timestamps not reset: %v, %v",
			info.CreationDate, info.ModDate)
	}
	if meta.Catalog.Metadata != 0 {
		t.Error("XMP metadata stream not removed")
	}
}

func TestCompressRemoveAnnotations(t *testing.T) {
	src := makeRichSource(t)

	out, warnings, err := Compress(src, CompressOptions{RemoveAnnotations: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	doc := mustLoad(t, out)
	page, err := pagetree.GetPage(doc, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := page["Annots"]; ok {
		t.Error("annotations not removed")
	}
}

func TestCompressRemoveBookmarks(t *testing.T) {
	src := makeRichSource(t)

	out, _, err := Compress(src, CompressOptions{RemoveBookmarks: true})
	if err != nil {
		t.Fatal(err)
	}

	doc := mustLoad(t, out)
	if doc.GetMeta().Catalog.Outlines != 0 {
		t.Error("outline not removed")
	}
}

func TestCompressRemoveAttachments(t *testing.T) {
	src := makeRichSource(t)

	out, warnings, err := Compress(src, CompressOptions{RemoveAttachments: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	doc := mustLoad(t, out)
	catalog := doc.GetMeta().Catalog
	if catalog.Names != nil {
		names, err := pdf.GetDict(doc, catalog.Names)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := names["EmbeddedFiles"]; ok {
			t.Error("embedded file registry not removed")
		}
	}
	if catalog.AF != nil {
		t.Error("associated files array not removed")
	}
}

func TestCompressNoOp(t *testing.T) {
	src := makeSource(t, "PG-1", "PG-2")

	out, warnings, err := Compress(src, CompressOptions{
		StripMetadata:     true,
		RemoveAnnotations: true,
		Flatten:           true,
		RemoveBookmarks:   true,
		RemoveAttachments: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	doc := mustLoad(t, out)
	if n := numPages(t, doc); n != 2 {
		t.Errorf("page count changed: %d", n)
	}
}

func TestCompressIdempotent(t *testing.T) {
	src := makeRichSource(t)
	opt := CompressOptions{
		StripMetadata:     true,
		RemoveAnnotations: true,
		RemoveBookmarks:   true,
		RemoveAttachments: true,
	}

	once, _, err := Compress(src, opt)
	if err != nil {
		t.Fatal(err)
	}
	twice, warnings, err := Compress(once, opt)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings on second run: %v", warnings)
	}

	doc := mustLoad(t, twice)
	meta := doc.GetMeta()
	if meta.Info.Title != "" {
		t.Error("title reappeared")
	}
	epoch := time.Unix(0, 0).UTC()
	if !meta.Info.CreationDate.Equal(epoch) {
		t.Error("creation date changed")
	}
	if meta.Catalog.Outlines != 0 {
		t.Error("outline reappeared")
	}
	if n := numPages(t, doc); n != 1 {
		t.Errorf("page count changed: %d", n)
	}
}

// makeFormSource builds a single-page PDF file with one text field
// widget whose normal appearance draws a filled box.
func makeFormSource(t *testing.T) []byte {
	t.Helper()

	doc := pdf.NewDocument(pdf.V1_7)
	meta := doc.GetMeta()

	formRef := doc.Alloc()
	w, err := doc.OpenStream(formRef, pdf.Dict{
		"Type":    pdf.Name("XObject"),
		"Subtype": pdf.Name("Form"),
		"BBox": pdf.Array{
			pdf.Integer(0), pdf.Integer(0),
			pdf.Integer(100), pdf.Integer(20),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = w.Write([]byte("0.9 g 0 0 100 20 re f"))
	if err != nil {
		t.Fatal(err)
	}
	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}

	widgetRef := doc.Alloc()
	err = doc.Put(widgetRef, pdf.Dict{
		"Type":    pdf.Name("Annot"),
		"Subtype": pdf.Name("Widget"),
		"FT":      pdf.Name("Tx"),
		"T":       pdf.String("name"),
		"Rect": pdf.Array{
			pdf.Integer(100), pdf.Integer(500),
			pdf.Integer(300), pdf.Integer(540),
		},
		"AP": pdf.Dict{"N": formRef},
	})
	if err != nil {
		t.Fatal(err)
	}

	streamRef, err := newContentStream(doc, []byte("BT (PG-form) Tj ET"))
	if err != nil {
		t.Fatal(err)
	}
	pageRef := doc.Alloc()
	err = doc.Put(pageRef, pdf.Dict{
		"Type": pdf.Name("Page"),
		"MediaBox": pdf.Array{
			pdf.Integer(0), pdf.Integer(0),
			pdf.Integer(612), pdf.Integer(792),
		},
		"Contents": pdf.Array{streamRef},
		"Annots":   pdf.Array{widgetRef},
	})
	if err != nil {
		t.Fatal(err)
	}

	root, err := pagetree.Build(doc, []pdf.Reference{pageRef})
	if err != nil {
		t.Fatal(err)
	}
	meta.Catalog.Pages = root
	meta.Catalog.AcroForm = pdf.Dict{"Fields": pdf.Array{widgetRef}}

	out, err := save(doc, false)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestCompressFlatten(t *testing.T) {
	src := makeFormSource(t)

	out, warnings, err := Compress(src, CompressOptions{Flatten: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	doc := mustLoad(t, out)
	catalog := doc.GetMeta().Catalog
	if catalog.AcroForm != nil {
		t.Error("form dictionary not removed")
	}

	page, err := pagetree.GetPage(doc, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := page["Annots"]; ok {
		t.Error("widget annotation not removed")
	}

	text := pageText(t, doc, 0)
	if !strings.Contains(text, "/Frm0 Do") {
		t.Errorf("appearance not drawn into page content: %q", text)
	}

	res, err := pdf.GetDict(doc, page["Resources"])
	if err != nil {
		t.Fatal(err)
	}
	xobj, err := pdf.GetDict(doc, res["XObject"])
	if err != nil {
		t.Fatal(err)
	}
	form, err := pdf.GetStream(doc, xobj["Frm0"])
	if err != nil {
		t.Fatal(err)
	}
	if form == nil {
		t.Fatal("form XObject missing from page resources")
	}
	if form.Dict["Subtype"] != pdf.Name("Form") {
		t.Errorf("wrong XObject subtype: %v", form.Dict["Subtype"])
	}
}
