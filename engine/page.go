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
	"golang.org/x/exp/maps"

	"github.com/docfold/pdf"
	"github.com/docfold/pdf/pagetree"
)

// a4 is the fallback page size for documents which do not specify one.
var a4 = &pdf.Rectangle{URx: 595.276, URy: 841.89}

// copyPage copies page number pageNo of the source behind c into the
// document dst and returns the reference of the copy.
//
// Inherited attributes are materialized onto the copied page dictionary,
// and the /Parent and /StructParents entries are dropped: /Parent would
// drag the whole source page tree into dst, and structure tree parent
// indices are meaningless without the source's structure tree.
func copyPage(dst *pdf.Document, c *pdf.Copier, src pdf.Getter, pageNo int) (pdf.Reference, error) {
	page, err := pagetree.GetPage(src, pageNo)
	if err != nil {
		return 0, err
	}

	page = maps.Clone(page)
	delete(page, "Parent")
	delete(page, "StructParents")

	copied, err := c.CopyDict(page)
	if err != nil {
		return 0, err
	}

	ref := dst.Alloc()
	err = dst.Put(ref, copied)
	if err != nil {
		return 0, err
	}
	return ref, nil
}

// mediaBox returns the media box of a page, falling back to A4 if the
// page does not specify a usable one.
func mediaBox(r pdf.Getter, page pdf.Dict) *pdf.Rectangle {
	box, err := pdf.GetRectangle(r, page["MediaBox"])
	if err != nil || box == nil || box.URx <= box.LLx || box.URy <= box.LLy {
		return a4
	}
	return box
}

// appendContent appends a content stream to a page's /Contents entry,
// converting a single stream into an array as needed.
func appendContent(r pdf.Getter, page pdf.Dict, streamRef pdf.Reference) error {
	switch c := page["Contents"].(type) {
	case nil:
		page["Contents"] = pdf.Array{streamRef}
	case pdf.Array:
		page["Contents"] = append(append(pdf.Array{}, c...), streamRef)
	case pdf.Reference:
		// the reference may point to a stream or to an array of streams
		obj, err := pdf.Resolve(r, c)
		if err != nil {
			return err
		}
		if arr, ok := obj.(pdf.Array); ok {
			page["Contents"] = append(append(pdf.Array{}, arr...), streamRef)
		} else {
			page["Contents"] = pdf.Array{c, streamRef}
		}
	default:
		page["Contents"] = pdf.Array{streamRef}
	}
	return nil
}

// setResource installs an entry in the named sub-dictionary of the
// page's resource dictionary.  Resource dictionaries are often shared
// between pages, so the affected dictionaries are cloned rather than
// modified in place.
func setResource(r pdf.Getter, page pdf.Dict, class, name pdf.Name, val pdf.Object) error {
	res, err := pdf.GetDict(r, page["Resources"])
	if err != nil {
		return err
	}
	res = maps.Clone(res)
	if res == nil {
		res = pdf.Dict{}
	}

	sub, err := pdf.GetDict(r, res[class])
	if err != nil {
		return err
	}
	sub = maps.Clone(sub)
	if sub == nil {
		sub = pdf.Dict{}
	}

	sub[name] = val
	res[class] = sub
	page["Resources"] = res
	return nil
}
