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

package pagetree

import (
	"github.com/docfold/pdf"
)

// maxDegree is the maximum number of children for an interior node
// of the page tree.
const maxDegree = 16

// File gives access to the objects of a PDF document which is being
// assembled.  Both *pdf.Document and the pair of a Reader and Writer
// sharing an object space satisfy this interface.
type File interface {
	pdf.Getter
	pdf.Putter
}

// Build assembles the page dictionaries given by pages into a balanced
// page tree.  The page dictionaries must already be present in f; Build
// overwrites their /Parent entries.  The returned reference points to the
// root node of the new tree, for use as the /Pages entry of the document
// catalog.
func Build(f File, pages []pdf.Reference) (pdf.Reference, error) {
	type node struct {
		ref   pdf.Reference
		dict  pdf.Dict
		count pdf.Integer
	}

	level := make([]node, len(pages))
	for i, ref := range pages {
		dict, err := pdf.GetDict(f, ref)
		if err != nil {
			return 0, err
		}
		if dict == nil {
			return 0, errInvalidPageTree
		}
		level[i] = node{ref: ref, dict: dict, count: 1}
	}

	if len(level) == 0 {
		root := f.Alloc()
		err := f.Put(root, pdf.Dict{
			"Type":  pdf.Name("Pages"),
			"Kids":  pdf.Array{},
			"Count": pdf.Integer(0),
		})
		return root, err
	}

	// Merge nodes into interior nodes of degree at most maxDegree,
	// until a single root remains.  The loop runs at least once, so
	// that the root is always a /Pages node even for a single page.
	for {
		next := make([]node, 0, (len(level)+maxDegree-1)/maxDegree)
		for start := 0; start < len(level); start += maxDegree {
			end := min(start+maxDegree, len(level))
			group := level[start:end]

			parentRef := f.Alloc()
			kids := make(pdf.Array, len(group))
			var total pdf.Integer
			for i, child := range group {
				child.dict["Parent"] = parentRef
				if err := f.Put(child.ref, child.dict); err != nil {
					return 0, err
				}
				kids[i] = child.ref
				total += child.count
			}
			parent := pdf.Dict{
				"Type":  pdf.Name("Pages"),
				"Kids":  kids,
				"Count": total,
			}
			next = append(next, node{ref: parentRef, dict: parent, count: total})
		}
		level = next
		if len(level) == 1 {
			break
		}
	}

	root := level[0]
	delete(root.dict, "Parent")
	err := f.Put(root.ref, root.dict)
	return root.ref, err
}
