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

// Package pagerange resolves human-entered page range expressions.
//
// A range expression is a comma-separated list of parts.  Each part is
// either a single page number or a span "a-b" (1-based, inclusive).  Each
// part resolves to its own group of pages; overlapping parts are kept
// separate rather than merged, because callers use the groups to decide
// how many output files to produce.
package pagerange

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolve resolves a range expression against a document with pageCount
// pages.  The returned page indices are zero-based.
//
// An empty or all-whitespace expression resolves to one single-page group
// per page of the document.  Page numbers outside the valid range and
// unparsable parts are dropped; each drop is recorded in the returned
// warnings list.  Spans with start > end resolve to an empty group.
// Empty groups are omitted from the result.
func Resolve(expr string, pageCount int) ([][]int, []string) {
	if strings.TrimSpace(expr) == "" {
		groups := make([][]int, pageCount)
		for i := range groups {
			groups[i] = []int{i}
		}
		return groups, nil
	}

	var groups [][]int
	var warnings []string
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		var group []int
		if before, after, isSpan := strings.Cut(part, "-"); isSpan {
			start, err1 := strconv.Atoi(strings.TrimSpace(before))
			end, err2 := strconv.Atoi(strings.TrimSpace(after))
			if err1 != nil || err2 != nil {
				warnings = append(warnings,
					fmt.Sprintf("invalid page range %q", part))
				continue
			}

			lo := max(start, 1)
			hi := min(end, pageCount)
			if start <= end && (lo != start || hi != end) {
				warnings = append(warnings,
					fmt.Sprintf("range %q clipped to the document's %d pages",
						part, pageCount))
			}
			for p := lo; p <= hi; p++ {
				group = append(group, p-1)
			}
		} else {
			p, err := strconv.Atoi(part)
			if err != nil {
				warnings = append(warnings,
					fmt.Sprintf("invalid page number %q", part))
				continue
			}
			if p < 1 || p > pageCount {
				warnings = append(warnings,
					fmt.Sprintf("page %d does not exist (document has %d pages)",
						p, pageCount))
				continue
			}
			group = []int{p - 1}
		}

		if len(group) > 0 {
			groups = append(groups, group)
		}
	}
	return groups, warnings
}
