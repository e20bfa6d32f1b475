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
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in  Object
		out string
	}{
		{nil, "null"},
		{Bool(true), "true"},
		{Integer(-12), "-12"},
		{Real(0.25), "0.25"},
		{String("a"), "(a)"},
		{String("a (test version)"), "(a (test version))"},
		{String("a (test version"), "(a \\(test version)"},
		{String(""), "()"},
		{String("\000"), "<00>"},
		{Name("a"), "/a"},
		{Name("F# minor"), "/F#23#20minor"},
		{Array{Integer(1), nil, Integer(3)}, "[1 null 3]"},
		{NewReference(3, 1), "3 1 R"},
	}
	for _, test := range cases {
		out := Format(test.in)
		if out != test.out {
			t.Errorf("wrongly formatted, expected %q but got %q",
				test.out, out)
		}
	}
}

func TestDictFormat(t *testing.T) {
	// keys must come out in alphabetical order
	d := Dict{
		"Beta":  Integer(2),
		"Alpha": Integer(1),
		"Gamma": Integer(3),
		"Empty": nil,
	}
	expected := "<<\n/Alpha 1\n/Beta 2\n/Gamma 3\n>>"
	if out := Format(d); out != expected {
		t.Errorf("expected %q but got %q", expected, out)
	}
}

func TestTextStringRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"hello",
		"\000\011\n\f\r",
		"ein Bär",
		"o țesătură",
		"中文",
		"日本語",
	}
	for _, test := range cases {
		enc := TextString(test)
		out := enc.AsTextString()
		if out != test {
			t.Errorf("wrong text: %q != %q", out, test)
		}
	}
}

func TestDateString(t *testing.T) {
	PST := time.FixedZone("PST", -8*60*60)
	cases := []time.Time{
		time.Date(1998, 12, 23, 19, 52, 0, 0, PST),
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 12, 24, 16, 30, 12, 0, time.FixedZone("", 90*60)),
	}
	for _, test := range cases {
		enc := Date(test)
		out, err := enc.AsDate()
		if err != nil {
			t.Error(err)
		} else if !test.Equal(out) {
			t.Errorf("wrong time: %s != %s", out, test)
		}
	}
}

func TestReferencePack(t *testing.T) {
	cases := []struct {
		number     uint32
		generation uint16
	}{
		{0, 0},
		{1, 0},
		{12, 5},
		{0xFFFF_FFFF, 0xFFFF},
	}
	for _, test := range cases {
		ref := NewReference(test.number, test.generation)
		if ref.Number() != test.number || ref.Generation() != test.generation {
			t.Errorf("reference %d/%d did not survive packing",
				test.number, test.generation)
		}
	}
}

func TestRectangleFormat(t *testing.T) {
	r := &Rectangle{LLx: 0, LLy: 0, URx: 612.2345, URy: 792}
	expected := "[0 0 612.23 792]"
	if out := Format(r); out != expected {
		t.Errorf("expected %q but got %q", expected, out)
	}
}

func TestNumberFormat(t *testing.T) {
	cases := []struct {
		in  Number
		out string
	}{
		{0, "0"},
		{1, "1"},
		{-2, "-2"},
		{0.5, "0.5"},
	}
	for _, test := range cases {
		if out := Format(test.in); out != test.out {
			t.Errorf("expected %q but got %q", test.out, out)
		}
	}
}
