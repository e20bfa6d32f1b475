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

// Package pagetree implements PDF page trees.
package pagetree

import (
	"errors"

	"github.com/docfold/pdf"
)

// FindPages returns the references of all page objects in the document, in
// document order.  Pages which cannot be located, for example because a kid
// entry in the page tree is not an indirect reference, are represented by
// the reference 0.
func FindPages(r pdf.Getter) ([]pdf.Reference, error) {
	meta := r.GetMeta()
	if meta.Catalog.Pages == 0 {
		return nil, errInvalidPageTree
	}

	var pages []pdf.Reference

	seen := map[pdf.Reference]bool{}
	todo := []pdf.Reference{meta.Catalog.Pages}
	for len(todo) > 0 {
		ref := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if seen[ref] {
			continue
		}
		seen[ref] = true

		node, err := pdf.GetDict(r, ref)
		if err != nil {
			return nil, err
		}

		tp, err := pdf.GetName(r, node["Type"])
		if err != nil {
			return nil, err
		}
		switch tp {
		case "Page":
			pages = append(pages, ref)
		case "Pages":
			kids, err := pdf.GetArray(r, node["Kids"])
			if err != nil {
				return nil, err
			}
			// push in reverse order, so that the first kid is
			// processed first
			for i := len(kids) - 1; i >= 0; i-- {
				kidRef, ok := kids[i].(pdf.Reference)
				if !ok {
					pages = append(pages, 0)
					continue
				}
				todo = append(todo, kidRef)
			}
		default:
			return nil, errInvalidPageTree
		}
	}

	return pages, nil
}

var errInvalidPageTree = errors.New("invalid page tree")
