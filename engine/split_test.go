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
	"strings"
	"testing"

	"github.com/docfold/pdf"
)

func TestSplitEveryPage(t *testing.T) {
	markers := []string{"PG-one", "PG-two", "PG-three"}
	src := makeSource(t, markers...)

	outputs, warnings, err := Split(src, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(outputs) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(outputs))
	}

	for i, out := range outputs {
		doc := mustLoad(t, out)
		if n := numPages(t, doc); n != 1 {
			t.Errorf("output %d: expected 1 page, got %d", i, n)
		}
		text := pageText(t, doc, 0)
		if !strings.Contains(text, markers[i]) {
			t.Errorf("output %d: marker %q missing in %q", i, markers[i], text)
		}
	}
}

func TestSplitRanges(t *testing.T) {
	src := makeSource(t, "PG-1", "PG-2", "PG-3", "PG-4", "PG-5")

	outputs, warnings, err := Split(src, "1-3,5")
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(outputs))
	}

	first := mustLoad(t, outputs[0])
	if n := numPages(t, first); n != 3 {
		t.Errorf("first output: expected 3 pages, got %d", n)
	}
	for i, marker := range []string{"PG-1", "PG-2", "PG-3"} {
		if text := pageText(t, first, i); !strings.Contains(text, marker) {
			t.Errorf("first output, page %d: marker %q missing", i, marker)
		}
	}

	second := mustLoad(t, outputs[1])
	if n := numPages(t, second); n != 1 {
		t.Errorf("second output: expected 1 page, got %d", n)
	}
	if text := pageText(t, second, 0); !strings.Contains(text, "PG-5") {
		t.Errorf("second output: marker missing in %q", text)
	}
}

func TestSplitOutOfRange(t *testing.T) {
	src := makeSource(t, "PG-1", "PG-2")

	outputs, warnings, err := Split(src, "0,11")
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != 0 {
		t.Errorf("expected no outputs, got %d", len(outputs))
	}
	if len(warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", warnings)
	}
}

func TestSplitMalformed(t *testing.T) {
	_, _, err := Split([]byte("%PDF-1.7\ngarbage"), "")
	if err == nil {
		t.Fatal("expected error for malformed input")
	}
	var malformed *pdf.MalformedFileError
	if !errors.As(err, &malformed) {
		t.Errorf("expected *pdf.MalformedFileError, got %v", err)
	}
}
