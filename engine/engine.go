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

// Package engine implements the merge, split and compress operations.
//
// Each operation is a pure function from input bytes and an option set to
// output bytes.  Operations share no state, so independent calls can run
// concurrently.  Structural problems in the input are fatal and reported
// as errors; failures of individual best-effort steps are collected into
// a warnings list instead.
package engine

import (
	"bytes"

	"github.com/docfold/pdf"
)

// load parses a PDF file given as a byte slice.
func load(data []byte) (*pdf.Document, error) {
	return pdf.Read(bytes.NewReader(data), int64(len(data)))
}

// save serializes a document.  Object streams reduce the size of the
// output, but are only used where size matters, since they make the
// output harder to inspect.
func save(doc *pdf.Document, objectStreams bool) ([]byte, error) {
	buf := &bytes.Buffer{}
	opt := &pdf.WriterOptions{
		ObjectStreams: objectStreams,
	}
	err := doc.Write(buf, opt)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// newContentStream stores body as a new content stream and returns its
// reference.
func newContentStream(doc *pdf.Document, body []byte) (pdf.Reference, error) {
	ref := doc.Alloc()
	w, err := doc.OpenStream(ref, nil)
	if err != nil {
		return 0, err
	}
	_, err = w.Write(body)
	if err != nil {
		return 0, err
	}
	err = w.Close()
	if err != nil {
		return 0, err
	}
	return ref, nil
}
