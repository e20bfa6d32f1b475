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
	"io"
	"strings"
	"testing"

	"github.com/docfold/pdf"
	"github.com/docfold/pdf/content"
	"github.com/docfold/pdf/pagetree"
)

// makeSource builds a PDF file with one page per marker string.  Each
// page draws its marker as text; since the content streams are not
// compressed, the markers can also be located in the raw file bytes.
func makeSource(t *testing.T, markers ...string) []byte {
	t.Helper()

	doc := pdf.NewDocument(pdf.V1_7)

	fontRef := doc.Alloc()
	err := doc.Put(fontRef, pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name("Helvetica"),
	})
	if err != nil {
		t.Fatal(err)
	}

	pages := make([]pdf.Reference, len(markers))
	for i, marker := range markers {
		w := content.NewWriter()
		w.BeginText()
		w.SetFont("F1", 12)
		w.TextAt(72, 720)
		w.Show(marker)
		w.EndText()

		streamRef, err := newContentStream(doc, w.Bytes())
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
			"Resources": pdf.Dict{
				"Font": pdf.Dict{"F1": fontRef},
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		pages[i] = pageRef
	}

	root, err := pagetree.Build(doc, pages)
	if err != nil {
		t.Fatal(err)
	}
	doc.GetMeta().Catalog.Pages = root

	out, err := save(doc, false)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

// pageText returns the concatenated content streams of a page.
func pageText(t *testing.T, r pdf.Getter, pageNo int) string {
	t.Helper()

	page, err := pagetree.GetPage(r, pageNo)
	if err != nil {
		t.Fatal(err)
	}

	var parts []string
	var refs pdf.Array
	switch c := page["Contents"].(type) {
	case pdf.Array:
		refs = c
	default:
		refs = pdf.Array{c}
	}
	for _, ref := range refs {
		stream, err := pdf.GetStream(r, ref)
		if err != nil {
			t.Fatal(err)
		}
		if stream == nil {
			t.Fatal("missing content stream")
		}
		body, err := pdf.DecodeStream(r, stream, 0)
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(body)
		if err != nil {
			t.Fatal(err)
		}
		parts = append(parts, string(data))
	}
	return strings.Join(parts, "\n")
}

// mustLoad parses engine output.
func mustLoad(t *testing.T, data []byte) *pdf.Document {
	t.Helper()
	doc, err := load(data)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

// numPages returns the page count of engine output.
func numPages(t *testing.T, doc *pdf.Document) int {
	t.Helper()
	n, err := pagetree.NumPages(doc)
	if err != nil {
		t.Fatal(err)
	}
	return n
}
