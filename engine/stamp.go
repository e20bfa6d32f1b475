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
	"github.com/docfold/pdf"
	"github.com/docfold/pdf/content"
)

// Footer stamps are drawn in Helvetica at this size.
const stampFontSize = 8

// stampFontName is the resource name under which the shared stamp font
// is installed in each stamped page's font resources.
const stampFontName = pdf.Name("DF0")

type stampAlign int

const (
	alignLeft stampAlign = iota
	alignCenter
	alignRight
)

// stampFont returns a font dictionary for the stamp font.  Helvetica is
// one of the base fonts which viewers must provide, so no font program
// is embedded.
func stampFont(doc *pdf.Document) (pdf.Reference, error) {
	ref := doc.Alloc()
	err := doc.Put(ref, pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name("Helvetica"),
	})
	return ref, err
}

// stampText draws a line of text into the footer of a page.  The text is
// added as a separate content stream wrapped in q/Q, so that it can
// neither inherit graphics state from the page content nor leak state
// into content streams added later.
func stampText(doc *pdf.Document, pageRef pdf.Reference, fontRef pdf.Reference, text string, align stampAlign) error {
	page, err := pdf.GetDict(doc, pageRef)
	if err != nil {
		return err
	}

	box := mediaBox(doc, page)
	width := content.TextWidth(text, stampFontSize)
	var x float64
	switch align {
	case alignLeft:
		x = box.LLx + 36
	case alignCenter:
		x = (box.LLx+box.URx)/2 - width/2
	case alignRight:
		x = box.URx - 36 - width
	}
	y := box.LLy + 20

	w := content.NewWriter()
	w.PushGraphicsState()
	w.BeginText()
	w.SetFont(stampFontName, stampFontSize)
	w.TextAt(x, y)
	w.Show(text)
	w.EndText()
	w.PopGraphicsState()

	streamRef, err := newContentStream(doc, w.Bytes())
	if err != nil {
		return err
	}

	err = appendContent(doc, page, streamRef)
	if err != nil {
		return err
	}
	err = setResource(doc, page, "Font", stampFontName, fontRef)
	if err != nil {
		return err
	}
	return doc.Put(pageRef, page)
}
