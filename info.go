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

import "time"

// Info represents a PDF Document Information Dictionary.
// All fields in this structure are optional.
//
// The Document Information Dictionary is documented in section 14.3.3
// of PDF 32000-1:2008.
type Info struct {
	Title    string
	Author   string
	Subject  string
	Keywords string

	// Creator gives the name of the application that created the
	// original document, if the document was converted to PDF from
	// another format.
	Creator string

	// Producer gives the name of the application that converted the
	// document to PDF.
	Producer string

	// CreationDate gives the date and time the document was created.
	CreationDate time.Time

	// ModDate gives the date and time the document was most recently
	// modified.
	ModDate time.Time

	// Trapped indicates whether the document has been modified to
	// include trapping information.  Valid values are "True", "False"
	// and "Unknown" (the default).
	Trapped Name

	// Custom contains all non-standard fields of the Info dictionary.
	Custom map[string]string
}

var infoStandardKeys = map[Name]bool{
	"Title":        true,
	"Author":       true,
	"Subject":      true,
	"Keywords":     true,
	"Creator":      true,
	"Producer":     true,
	"CreationDate": true,
	"ModDate":      true,
	"Trapped":      true,
}

// ExtractInfo reads a document information dictionary from a PDF file.
// If obj is nil, the function returns nil.
func ExtractInfo(r Getter, obj Object) (*Info, error) {
	dict, err := GetDict(r, obj)
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, nil
	}

	info := &Info{}
	info.Title, _ = GetTextString(r, dict["Title"])
	info.Author, _ = GetTextString(r, dict["Author"])
	info.Subject, _ = GetTextString(r, dict["Subject"])
	info.Keywords, _ = GetTextString(r, dict["Keywords"])
	info.Creator, _ = GetTextString(r, dict["Creator"])
	info.Producer, _ = GetTextString(r, dict["Producer"])

	if s, err := GetString(r, dict["CreationDate"]); err == nil {
		if t, err := s.AsDate(); err == nil {
			info.CreationDate = t
		}
	}
	if s, err := GetString(r, dict["ModDate"]); err == nil {
		if t, err := s.AsDate(); err == nil {
			info.ModDate = t
		}
	}

	trapped, _ := Resolve(r, dict["Trapped"])
	switch trapped := trapped.(type) {
	case Name:
		info.Trapped = trapped
	case String:
		// some writers use a string instead of a name
		info.Trapped = Name(trapped)
	}

	for key, val := range dict {
		if infoStandardKeys[key] {
			continue
		}
		if s, err := GetTextString(r, val); err == nil && s != "" {
			if info.Custom == nil {
				info.Custom = make(map[string]string)
			}
			info.Custom[string(key)] = s
		}
	}

	return info, nil
}

// AsDict returns the dictionary representation of the information
// dictionary.
func (info *Info) AsDict() Dict {
	dict := Dict{}
	if info.Title != "" {
		dict["Title"] = TextString(info.Title)
	}
	if info.Author != "" {
		dict["Author"] = TextString(info.Author)
	}
	if info.Subject != "" {
		dict["Subject"] = TextString(info.Subject)
	}
	if info.Keywords != "" {
		dict["Keywords"] = TextString(info.Keywords)
	}
	if info.Creator != "" {
		dict["Creator"] = TextString(info.Creator)
	}
	if info.Producer != "" {
		dict["Producer"] = TextString(info.Producer)
	}
	if !info.CreationDate.IsZero() {
		dict["CreationDate"] = Date(info.CreationDate)
	}
	if !info.ModDate.IsZero() {
		dict["ModDate"] = Date(info.ModDate)
	}
	if info.Trapped == "True" || info.Trapped == "False" {
		dict["Trapped"] = info.Trapped
	}
	for key, val := range info.Custom {
		dict[Name(key)] = TextString(val)
	}
	return dict
}
