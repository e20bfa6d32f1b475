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
	"errors"
	"fmt"

	"github.com/docfold/pdf"
	"github.com/docfold/pdf/content"
	"github.com/docfold/pdf/pagetree"
)

// flatten renders the normal appearance of every form field widget into
// the content of its page and removes the widget annotations and the
// form dictionary.  Fields whose appearance cannot be rendered are
// reported as warnings and removed without replacement.
func flatten(doc *pdf.Document, warnings *[]string) {
	catalog := doc.GetMeta().Catalog
	if catalog.AcroForm == nil {
		return
	}

	pages, err := pagetree.FindPages(doc)
	if err != nil {
		*warnings = append(*warnings,
			fmt.Sprintf("cannot flatten form fields: %v", err))
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
		annots, err := pdf.GetArray(doc, page["Annots"])
		if err != nil {
			*warnings = append(*warnings,
				fmt.Sprintf("page %d: %v", i+1, err))
			continue
		}
		if annots == nil {
			continue
		}

		var kept pdf.Array
		changed := false
		numDrawn := 0
		for _, a := range annots {
			annot, err := pdf.GetDict(doc, a)
			if err != nil || annot == nil {
				kept = append(kept, a)
				continue
			}
			subtype, _ := pdf.GetName(doc, annot["Subtype"])
			if subtype != "Widget" {
				kept = append(kept, a)
				continue
			}

			changed = true
			err = drawAppearance(doc, page, annot, numDrawn)
			if err != nil {
				*warnings = append(*warnings,
					fmt.Sprintf("page %d: cannot flatten form field: %v", i+1, err))
				continue
			}
			numDrawn++
		}

		if changed {
			if len(kept) > 0 {
				page["Annots"] = kept
			} else {
				delete(page, "Annots")
			}
			err = doc.Put(pageRef, page)
			if err != nil {
				*warnings = append(*warnings,
					fmt.Sprintf("page %d: %v", i+1, err))
			}
		}
	}

	catalog.AcroForm = nil
}

// flag bit 2 in the annotation /F entry marks hidden annotations
const flagHidden = 2

// drawAppearance draws the normal appearance stream of a widget
// annotation into the page content, as a form XObject positioned at the
// widget's rectangle.
func drawAppearance(doc *pdf.Document, page pdf.Dict, annot pdf.Dict, idx int) error {
	flags, err := pdf.GetInt(doc, annot["F"])
	if err != nil {
		return err
	}
	if flags&flagHidden != 0 {
		return nil
	}

	rect, err := pdf.GetRectangle(doc, annot["Rect"])
	if err != nil {
		return err
	}
	if rect == nil {
		return errors.New("widget has no /Rect")
	}

	ref, err := normalAppearance(doc, annot)
	if err != nil {
		return err
	}

	form, err := pdf.GetStream(doc, ref)
	if err != nil {
		return err
	}
	if form == nil {
		return errors.New("appearance is not a stream")
	}
	bbox, err := pdf.GetRectangle(doc, form.Dict["BBox"])
	if err != nil {
		return err
	}
	if bbox == nil {
		return errors.New("appearance stream has no /BBox")
	}
	if bbox.Width() <= 0 || bbox.Height() <= 0 {
		return errors.New("appearance stream has an empty /BBox")
	}
	if form.Dict["Subtype"] == nil {
		form.Dict["Subtype"] = pdf.Name("Form")
	}

	// map the appearance's bounding box onto the widget rectangle,
	// ignoring any /Matrix of the appearance stream
	sx := rect.Width() / bbox.Width()
	sy := rect.Height() / bbox.Height()
	e := rect.LLx - bbox.LLx*sx
	f := rect.LLy - bbox.LLy*sy

	name := pdf.Name(fmt.Sprintf("Frm%d", idx))
	w := content.NewWriter()
	w.PushGraphicsState()
	w.Transform(sx, 0, 0, sy, e, f)
	w.DrawXObject(name)
	w.PopGraphicsState()

	streamRef, err := newContentStream(doc, w.Bytes())
	if err != nil {
		return err
	}
	err = appendContent(doc, page, streamRef)
	if err != nil {
		return err
	}
	return setResource(doc, page, "XObject", name, ref)
}

// normalAppearance returns a reference to the normal appearance stream
// of an annotation.  For appearance dictionaries with several states,
// the state selected by /AS is used.
func normalAppearance(doc *pdf.Document, annot pdf.Dict) (pdf.Reference, error) {
	ap, err := pdf.GetDict(doc, annot["AP"])
	if err != nil {
		return 0, err
	}
	if ap == nil {
		return 0, errors.New("widget has no appearance dictionary")
	}

	n := ap["N"]
	obj, err := pdf.Resolve(doc, n)
	if err != nil {
		return 0, err
	}

	switch x := obj.(type) {
	case *pdf.Stream:
		if ref, ok := n.(pdf.Reference); ok {
			return ref, nil
		}
		// direct appearance streams need an object of their own
		// before they can be used as an XObject resource
		ref := doc.Alloc()
		err = doc.Put(ref, x)
		return ref, err

	case pdf.Dict:
		// a sub-dictionary of appearance states
		as, err := pdf.GetName(doc, annot["AS"])
		if err != nil {
			return 0, err
		}
		state, ok := x[as]
		if !ok {
			return 0, fmt.Errorf("no appearance for state %q", string(as))
		}
		ref, ok := state.(pdf.Reference)
		if !ok {
			return 0, errors.New("appearance state is not an indirect object")
		}
		return ref, nil

	default:
		return 0, errors.New("widget has no normal appearance")
	}
}
