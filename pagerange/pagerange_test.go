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

package pagerange

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolve(t *testing.T) {
	type testCase struct {
		expr        string
		pageCount   int
		groups      [][]int
		numWarnings int
	}
	cases := []testCase{
		{"1-3,5", 10, [][]int{{0, 1, 2}, {4}}, 0},
		{"0,11", 10, nil, 2},
		{"", 5, [][]int{{0}, {1}, {2}, {3}, {4}}, 0},
		{"  ", 5, [][]int{{0}, {1}, {2}, {3}, {4}}, 0},
		{"", 0, [][]int{}, 0},
		{"3", 10, [][]int{{2}}, 0},
		{"3,3", 10, [][]int{{2}, {2}}, 0},
		{"2-2", 10, [][]int{{1}}, 0},
		{"5-2", 10, nil, 0},
		{"1-100", 10, [][]int{{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}}, 1},
		{"8-12", 10, [][]int{{7, 8, 9}}, 1},
		{"1, 3 - 4 ,x", 10, [][]int{{0}, {2, 3}}, 1},
		{"1,,2", 10, [][]int{{0}, {1}}, 0},
		{"a-b", 10, nil, 1},
		{"10,1", 10, [][]int{{9}, {0}}, 0},
	}
	for _, test := range cases {
		groups, warnings := Resolve(test.expr, test.pageCount)
		if d := cmp.Diff(test.groups, groups); d != "" {
			t.Errorf("Resolve(%q, %d): wrong groups (-want +got):\n%s",
				test.expr, test.pageCount, d)
		}
		if len(warnings) != test.numWarnings {
			t.Errorf("Resolve(%q, %d): expected %d warnings, got %v",
				test.expr, test.pageCount, test.numWarnings, warnings)
		}
	}
}
