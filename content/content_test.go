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

package content

import (
	"math"
	"testing"
)

func TestWriter(t *testing.T) {
	w := NewWriter()
	w.PushGraphicsState()
	w.BeginText()
	w.SetFont("F0", 10)
	w.TextAt(72, 30.5)
	w.Show("page (1) of 2\\")
	w.EndText()
	w.PopGraphicsState()

	expected := "q\n" +
		"BT\n" +
		"/F0 10 Tf\n" +
		"72 30.5 Td\n" +
		"(page \\(1\\) of 2\\\\) Tj\n" +
		"ET\n" +
		"Q\n"
	if got := string(w.Bytes()); got != expected {
		t.Errorf("wrong content stream:\n%q\nexpected:\n%q", got, expected)
	}
}

func TestShowNonASCII(t *testing.T) {
	w := NewWriter()
	w.BeginText()
	w.Show("aéb")
	w.EndText()

	expected := "BT\n(a b) Tj\nET\n"
	if got := string(w.Bytes()); got != expected {
		t.Errorf("wrong content stream: %q", got)
	}
}

func TestTextWidth(t *testing.T) {
	// "Hi" = 722 + 222 = 944/1000 em
	w := TextWidth("Hi", 10)
	if math.Abs(w-9.44) > 1e-9 {
		t.Errorf("wrong width: %g", w)
	}

	// unknown characters fall back to 500/1000 em
	w = TextWidth("é", 10)
	if math.Abs(w-5) > 1e-9 {
		t.Errorf("wrong fallback width: %g", w)
	}
}
