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
	"github.com/docfold/pdf/pagerange"
	"github.com/docfold/pdf/pagetree"
)

// Split extracts pages from a document.  The range expression is a
// comma-separated list of page numbers and spans (see [pagerange.Resolve]);
// each part of the expression yields one output document.  An empty
// expression yields one single-page document per source page.  Parts which
// resolve to no pages produce no output; they are reported in the
// warnings list instead.  Packaging of multiple outputs is the caller's
// concern.
func Split(source []byte, rangeExpr string) ([][]byte, []string, error) {
	src, err := load(source)
	if err != nil {
		return nil, nil, err
	}
	numPages, err := pagetree.NumPages(src)
	if err != nil {
		return nil, nil, err
	}

	groups, warnings := pagerange.Resolve(rangeExpr, numPages)

	var outputs [][]byte
	for _, group := range groups {
		dst := pdf.NewDocument(src.GetMeta().Version)
		c := pdf.NewCopier(dst, src)

		pages := make([]pdf.Reference, len(group))
		for i, pageNo := range group {
			pages[i], err = copyPage(dst, c, src, pageNo)
			if err != nil {
				return nil, nil, err
			}
		}

		root, err := pagetree.Build(dst, pages)
		if err != nil {
			return nil, nil, err
		}
		dst.GetMeta().Catalog.Pages = root

		out, err := save(dst, false)
		if err != nil {
			return nil, nil, err
		}
		outputs = append(outputs, out)
	}

	return outputs, warnings, nil
}
