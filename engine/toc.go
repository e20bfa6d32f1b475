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
	"strconv"

	"github.com/docfold/pdf"
	"github.com/docfold/pdf/content"
)

const (
	tocFontSize    = 12
	tocMargin      = 72
	tocLineSpacing = 20
)

// A tocLine describes one entry of the table of contents.
type tocLine struct {
	name      string
	displayed int           // 1-based page number shown to the user
	target    pdf.Reference // page the entry links to
}

// makeTOCPage creates the table of contents page.  Each line shows a
// source's display name and the page number where the source starts, and
// carries an invisible link annotation covering the name, which jumps to
// the target page.  Link targets are page references rather than page
// numbers, so inserting the TOC page at the front of the document does
// not invalidate them.
func makeTOCPage(doc *pdf.Document, fontRef pdf.Reference, box *pdf.Rectangle, entries []tocLine) (pdf.Reference, error) {
	w := content.NewWriter()
	w.PushGraphicsState()

	var annots pdf.Array
	y := box.URy - tocMargin
	for _, e := range entries {
		pageNoText := strconv.Itoa(e.displayed)

		w.BeginText()
		w.SetFont(stampFontName, tocFontSize)
		w.TextAt(box.LLx+tocMargin, y)
		w.Show(e.name)
		w.EndText()

		w.BeginText()
		w.SetFont(stampFontName, tocFontSize)
		w.TextAt(box.URx-tocMargin-content.TextWidth(pageNoText, tocFontSize), y)
		w.Show(pageNoText)
		w.EndText()

		nameWidth := content.TextWidth(e.name, tocFontSize)
		annotRef := doc.Alloc()
		err := doc.Put(annotRef, pdf.Dict{
			"Type":    pdf.Name("Annot"),
			"Subtype": pdf.Name("Link"),
			"Rect": pdf.Array{
				pdf.Real(box.LLx + tocMargin),
				pdf.Real(y - 3),
				pdf.Real(box.LLx + tocMargin + nameWidth),
				pdf.Real(y + tocFontSize),
			},
			"Border": pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(0)},
			"Dest":   pdf.Array{e.target, pdf.Name("XYZ"), nil, nil, nil},
		})
		if err != nil {
			return 0, err
		}
		annots = append(annots, annotRef)

		y -= tocLineSpacing
	}

	w.PopGraphicsState()

	streamRef, err := newContentStream(doc, w.Bytes())
	if err != nil {
		return 0, err
	}

	page := pdf.Dict{
		"Type":     pdf.Name("Page"),
		"MediaBox": box,
		"Contents": pdf.Array{streamRef},
		"Resources": pdf.Dict{
			"Font": pdf.Dict{stampFontName: fontRef},
		},
	}
	if len(annots) > 0 {
		page["Annots"] = annots
	}

	pageRef := doc.Alloc()
	err = doc.Put(pageRef, page)
	if err != nil {
		return 0, err
	}
	return pageRef, nil
}
