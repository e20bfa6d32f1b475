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
	"fmt"
	"time"

	"golang.org/x/exp/maps"

	"github.com/docfold/pdf"
	"github.com/docfold/pdf/pagetree"
)

// CompressOptions selects which structures [Compress] removes.  Each
// option is independent and idempotent: applying it to a document which
// has none of the targeted structures is a no-op, never an error.
type CompressOptions struct {
	// StripMetadata clears the document information fields (title,
	// author, subject, keywords, creator, producer), resets both
	// timestamps to the Unix epoch, and drops the document-level XMP
	// metadata stream.  The timestamps use a fixed value rather than
	// the current time, so that the output does not leak when it was
	// processed.
	StripMetadata bool

	// RemoveAnnotations deletes every page's annotation list.
	RemoveAnnotations bool

	// Flatten renders interactive form fields into static page content
	// and removes the form.  Flattening is best-effort: fields which
	// cannot be flattened are reported as warnings and removed anyway.
	Flatten bool

	// RemoveBookmarks deletes the document outline.
	RemoveBookmarks bool

	// RemoveAttachments deletes the embedded-file name registry and
	// the document-level associated-files array.
	RemoveAttachments bool
}

// Compress rewrites a document, dropping the structures selected in opt,
// and serializes the result using object streams to reduce the file
// size.  Objects which become unreachable are not written to the output.
//
// Page count and page content never grow; the byte size of the output
// can still exceed the input's if the input was already minimal.
func Compress(source []byte, opt CompressOptions) ([]byte, []string, error) {
	doc, err := load(source)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string

	// Flatten runs before RemoveAnnotations, since it consumes the
	// widget annotations which RemoveAnnotations would delete.
	if opt.Flatten {
		flatten(doc, &warnings)
	}
	if opt.RemoveAnnotations {
		removeAnnotations(doc, &warnings)
	}
	if opt.RemoveBookmarks {
		catalog := doc.GetMeta().Catalog
		catalog.Outlines = 0
		if catalog.PageMode == "UseOutlines" {
			catalog.PageMode = ""
		}
	}
	if opt.RemoveAttachments {
		removeAttachments(doc, &warnings)
	}
	if opt.StripMetadata {
		stripMetadata(doc)
	}

	meta := doc.GetMeta()
	if meta.Version < pdf.V1_5 {
		// object streams need PDF 1.5
		meta.Version = pdf.V1_5
	}
	out, err := save(doc, true)
	if err != nil {
		return nil, nil, err
	}
	return out, warnings, nil
}

func removeAnnotations(doc *pdf.Document, warnings *[]string) {
	pages, err := pagetree.FindPages(doc)
	if err != nil {
		*warnings = append(*warnings,
			fmt.Sprintf("cannot remove annotations: %v", err))
		return
	}
	for i, pageRef := range pages {
		if pageRef == 0 {
			continue
		}
		page, err := pdf.GetDict(doc, pageRef)
		if err != nil {
			*warnings = append(*warnings,
				fmt.Sprintf("page %d: %v", i+1, err))
			continue
		}
		if _, ok := page["Annots"]; !ok {
			continue
		}
		delete(page, "Annots")
		err = doc.Put(pageRef, page)
		if err != nil {
			*warnings = append(*warnings,
				fmt.Sprintf("page %d: %v", i+1, err))
		}
	}
}

func removeAttachments(doc *pdf.Document, warnings *[]string) {
	catalog := doc.GetMeta().Catalog

	if catalog.Names != nil {
		names, err := pdf.GetDict(doc, catalog.Names)
		if err != nil {
			*warnings = append(*warnings,
				fmt.Sprintf("cannot remove embedded files: %v", err))
		} else if names != nil {
			if _, ok := names["EmbeddedFiles"]; ok {
				names = maps.Clone(names)
				delete(names, "EmbeddedFiles")
				if len(names) > 0 {
					catalog.Names = names
				} else {
					catalog.Names = nil
				}
			}
		}
	}

	catalog.AF = nil
}

func stripMetadata(doc *pdf.Document) {
	meta := doc.GetMeta()
	if meta.Info != nil {
		epoch := time.Unix(0, 0).UTC()
		info := meta.Info
		info.Title = ""
		info.Author = ""
		info.Subject = ""
		info.Keywords = ""
		info.Creator = ""
		info.Producer = ""
		info.CreationDate = epoch
		info.ModDate = epoch
	}
	meta.Catalog.Metadata = 0
}
