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

// Package content constructs simple PDF content streams.
//
// The package supports just enough of the content stream operator set to
// draw short runs of text, for page stamps and generated pages.  There is
// no support for images, paths, or font embedding.
package content

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/docfold/pdf"
)

// A Writer builds the body of a content stream.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates a new content stream writer.
func NewWriter() *Writer {
	return &Writer{}
}

// PushGraphicsState saves the current graphics state ("q").
func (w *Writer) PushGraphicsState() {
	w.buf.WriteString("q\n")
}

// PopGraphicsState restores the previous graphics state ("Q").
func (w *Writer) PopGraphicsState() {
	w.buf.WriteString("Q\n")
}

// Transform concatenates the matrix [a b c d e f] onto the current
// transformation matrix ("cm").
func (w *Writer) Transform(a, b, c, d, e, f float64) {
	fmt.Fprintf(&w.buf, "%s %s %s %s %s %s cm\n",
		coord(a), coord(b), coord(c), coord(d), coord(e), coord(f))
}

// DrawXObject paints the external object with the given resource name
// ("Do").  The name refers to an entry in the /XObject sub-dictionary of
// the page's resource dictionary.
func (w *Writer) DrawXObject(name pdf.Name) {
	fmt.Fprintf(&w.buf, "%s Do\n", pdf.Format(name))
}

// BeginText starts a text object ("BT").
func (w *Writer) BeginText() {
	w.buf.WriteString("BT\n")
}

// EndText ends a text object ("ET").
func (w *Writer) EndText() {
	w.buf.WriteString("ET\n")
}

// SetFont selects the font with the given resource name at the given
// size ("Tf").  The name refers to an entry in the /Font sub-dictionary
// of the page's resource dictionary.
func (w *Writer) SetFont(name pdf.Name, size float64) {
	fmt.Fprintf(&w.buf, "%s %s Tf\n", pdf.Format(name), coord(size))
}

// TextAt moves the text position to the point (x, y) in user space
// ("Td").  Must be used inside a text object.
func (w *Writer) TextAt(x, y float64) {
	fmt.Fprintf(&w.buf, "%s %s Td\n", coord(x), coord(y))
}

// Show draws a string at the current text position ("Tj").  Only
// characters which can be represented in the standard Latin text
// encoding are supported; other characters are replaced by spaces.
func (w *Writer) Show(s string) {
	w.buf.WriteByte('(')
	for _, r := range s {
		switch {
		case r == '(' || r == ')' || r == '\\':
			w.buf.WriteByte('\\')
			w.buf.WriteByte(byte(r))
		case r >= 32 && r <= 126:
			w.buf.WriteByte(byte(r))
		default:
			w.buf.WriteByte(' ')
		}
	}
	w.buf.WriteString(") Tj\n")
}

// Bytes returns the content stream body accumulated so far.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

func coord(x float64) string {
	s := strconv.FormatFloat(x, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		s = "0"
	}
	return s
}
