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

package pdf

import (
	"errors"

	"golang.org/x/text/language"
)

// Catalog represents a PDF Document Catalog.  The only required field
// in this structure is Pages, which specifies the root of the
// document's page tree.
//
// The Document Catalog is documented in section 7.7.2 of
// PDF 32000-1:2008.
type Catalog struct {
	// Pages is the root of the document's page tree.
	Pages Reference

	// PageLabels (optional, PDF 1.3) defines the page labeling for the
	// document.
	PageLabels Object

	// Names (optional, PDF 1.2) is the document's name dictionary.
	Names Object

	// Dests (optional, PDF 1.1) contains a dictionary of names and
	// corresponding destinations.
	Dests Object

	// ViewerPreferences (optional, PDF 1.2) specifies how the document
	// should be displayed on screen.
	ViewerPreferences Object

	// PageLayout (optional) specifies the page layout to use when the
	// document is opened.
	PageLayout Name

	// PageMode (optional) specifies how the document should be
	// displayed when opened.
	PageMode Name

	// Outlines (optional) is the root of the document's outline
	// hierarchy.
	Outlines Reference

	// OpenAction (optional, PDF 1.1) specifies a destination to display
	// or action to perform when the document is opened.
	OpenAction Object

	// AcroForm (optional, PDF 1.2) is the document's interactive form
	// dictionary.
	AcroForm Object

	// Metadata (optional, PDF 1.4) is the document-level metadata
	// stream.
	Metadata Reference

	// StructTreeRoot (optional, PDF 1.3) is the document's structure
	// tree root dictionary.
	StructTreeRoot Object

	// MarkInfo (optional, PDF 1.4) contains information about the
	// document's usage of tagged PDF conventions.
	MarkInfo Object

	// Lang (optional, PDF 1.4) specifies the natural language for all
	// text in the document.
	Lang language.Tag

	// OCProperties (optional, PDF 1.5) contains the document's optional
	// content properties.
	OCProperties Object

	// AF (optional, PDF 2.0) contains an array of file specification
	// dictionaries denoting the associated files for this document.
	AF Object
}

// ExtractCatalog reads the document catalog from a PDF file.
func ExtractCatalog(r Getter, obj Object) (*Catalog, error) {
	dict, err := GetDictTyped(r, obj, "Catalog")
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, &MalformedFileError{
			Err: errors.New("catalog dictionary is missing"),
		}
	}

	pages, ok := dict["Pages"].(Reference)
	if !ok {
		return nil, &MalformedFileError{
			Err: errors.New("invalid /Pages entry in catalog"),
		}
	}

	pageLayout, _ := GetName(r, dict["PageLayout"])
	pageMode, _ := GetName(r, dict["PageMode"])

	outlines, _ := dict["Outlines"].(Reference)
	metadata, _ := dict["Metadata"].(Reference)

	var lang language.Tag
	if dict["Lang"] != nil {
		langStr, err := GetTextString(r, dict["Lang"])
		if err == nil && langStr != "" {
			lang, _ = language.Parse(langStr)
		}
	}

	return &Catalog{
		Pages:             pages,
		PageLabels:        dict["PageLabels"],
		Names:             dict["Names"],
		Dests:             dict["Dests"],
		ViewerPreferences: dict["ViewerPreferences"],
		PageLayout:        pageLayout,
		PageMode:          pageMode,
		Outlines:          outlines,
		OpenAction:        dict["OpenAction"],
		AcroForm:          dict["AcroForm"],
		Metadata:          metadata,
		StructTreeRoot:    dict["StructTreeRoot"],
		MarkInfo:          dict["MarkInfo"],
		Lang:              lang,
		OCProperties:      dict["OCProperties"],
		AF:                dict["AF"],
	}, nil
}

// AsDict returns the dictionary representation of the catalog.
func (c *Catalog) AsDict() Dict {
	dict := Dict{
		"Type":  Name("Catalog"),
		"Pages": c.Pages,
	}
	if c.PageLabels != nil {
		dict["PageLabels"] = c.PageLabels
	}
	if c.Names != nil {
		dict["Names"] = c.Names
	}
	if c.Dests != nil {
		dict["Dests"] = c.Dests
	}
	if c.ViewerPreferences != nil {
		dict["ViewerPreferences"] = c.ViewerPreferences
	}
	if c.PageLayout != "" {
		dict["PageLayout"] = c.PageLayout
	}
	if c.PageMode != "" {
		dict["PageMode"] = c.PageMode
	}
	if c.Outlines != 0 {
		dict["Outlines"] = c.Outlines
	}
	if c.OpenAction != nil {
		dict["OpenAction"] = c.OpenAction
	}
	if c.AcroForm != nil {
		dict["AcroForm"] = c.AcroForm
	}
	if c.Metadata != 0 {
		dict["Metadata"] = c.Metadata
	}
	if c.StructTreeRoot != nil {
		dict["StructTreeRoot"] = c.StructTreeRoot
	}
	if c.MarkInfo != nil {
		dict["MarkInfo"] = c.MarkInfo
	}
	if !c.Lang.IsRoot() {
		dict["Lang"] = TextString(c.Lang.String())
	}
	if c.OCProperties != nil {
		dict["OCProperties"] = c.OCProperties
	}
	if c.AF != nil {
		dict["AF"] = c.AF
	}
	return dict
}
