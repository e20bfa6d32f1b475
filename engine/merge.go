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

	"github.com/docfold/pdf"
	"github.com/docfold/pdf/pagetree"
)

// A Source is one input file for [Merge].
type Source struct {
	// Name is the display name of the source, shown by the filename
	// stamp and in the table of contents.
	Name string

	// Data is the PDF file contents.
	Data []byte
}

// MergeOptions selects the optional extras added while merging.
type MergeOptions struct {
	// TOC inserts a table of contents as the first page of the output,
	// with one clickable line per source.
	TOC bool

	// FilenameStamp draws each source's display name into the left
	// footer of its pages.
	FilenameStamp bool

	// OriginalPageNumbers draws "original - i/N" into the centered
	// footer of each page, where i is the page's 1-based position
	// within its source and N is the source's own page count.
	OriginalPageNumbers bool

	// FinalPageNumbers draws "Page k of N" into the right footer of
	// every page, using the final global numbering of the output.
	FinalPageNumbers bool
}

// Merge combines the given source files into a single document.
// The pages of each source appear in the output in input order.
func Merge(sources []Source, opt MergeOptions) ([]byte, error) {
	dst := pdf.NewDocument(pdf.V1_7)

	needFont := opt.TOC || opt.FilenameStamp || opt.OriginalPageNumbers ||
		opt.FinalPageNumbers
	var fontRef pdf.Reference
	if needFont {
		var err error
		fontRef, err = stampFont(dst)
		if err != nil {
			return nil, err
		}
	}

	type tocEntry struct {
		name    string
		pageRef pdf.Reference // first page of the source, in dst
		pageNo  int           // 0-based position among the content pages
	}
	var tocEntries []tocEntry

	var pages []pdf.Reference
	for _, source := range sources {
		src, err := load(source.Data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source.Name, err)
		}
		numPages, err := pagetree.NumPages(src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source.Name, err)
		}

		c := pdf.NewCopier(dst, src)
		for i := 0; i < numPages; i++ {
			pageRef, err := copyPage(dst, c, src, i)
			if err != nil {
				return nil, fmt.Errorf("%s: page %d: %w", source.Name, i+1, err)
			}
			if i == 0 {
				tocEntries = append(tocEntries, tocEntry{
					name:    source.Name,
					pageRef: pageRef,
					pageNo:  len(pages),
				})
			}
			pages = append(pages, pageRef)

			if opt.FilenameStamp {
				err = stampText(dst, pageRef, fontRef, source.Name, alignLeft)
				if err != nil {
					return nil, err
				}
			}
			if opt.OriginalPageNumbers {
				text := fmt.Sprintf("original - %d/%d", i+1, numPages)
				err = stampText(dst, pageRef, fontRef, text, alignCenter)
				if err != nil {
					return nil, err
				}
			}
		}
	}

	if opt.FinalPageNumbers {
		// The TOC page, if any, is inserted after this pass and is
		// deliberately not numbered, but it shifts every content page
		// by one.
		total := len(pages)
		if opt.TOC && len(tocEntries) > 0 {
			total++
		}
		for k, pageRef := range pages {
			displayed := k + 1
			if opt.TOC && len(tocEntries) > 0 {
				displayed++
			}
			text := fmt.Sprintf("Page %d of %d", displayed, total)
			err := stampText(dst, pageRef, fontRef, text, alignRight)
			if err != nil {
				return nil, err
			}
		}
	}

	if opt.TOC && len(tocEntries) > 0 {
		entries := make([]tocLine, len(tocEntries))
		for i, e := range tocEntries {
			entries[i] = tocLine{
				name: e.name,
				// page 1 is the TOC itself
				displayed: e.pageNo + 2,
				target:    e.pageRef,
			}
		}
		var firstPageBox *pdf.Rectangle
		if len(pages) > 0 {
			firstPage, err := pdf.GetDict(dst, pages[0])
			if err != nil {
				return nil, err
			}
			firstPageBox = mediaBox(dst, firstPage)
		} else {
			firstPageBox = a4
		}
		tocRef, err := makeTOCPage(dst, fontRef, firstPageBox, entries)
		if err != nil {
			return nil, err
		}
		pages = append([]pdf.Reference{tocRef}, pages...)
	}

	root, err := pagetree.Build(dst, pages)
	if err != nil {
		return nil, err
	}
	dst.GetMeta().Catalog.Pages = root

	return save(dst, false)
}
