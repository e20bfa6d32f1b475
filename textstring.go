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

import "unicode/utf16"

func isUTF16(s string) bool {
	return len(s) >= 2 && s[0] == 0xFE && s[1] == 0xFF
}

func utf16Decode(s String) string {
	var u []uint16
	for i := 0; i < len(s)-1; i += 2 {
		u = append(u, uint16(s[i])<<8|uint16(s[i+1]))
	}
	return string(utf16.Decode(u))
}

func utf16Encode(s string) String {
	enc := utf16.Encode([]rune(s))
	buf := make(String, 2*len(enc)+2)
	buf[0] = 0xFE
	buf[1] = 0xFF
	for i, c := range enc {
		buf[2*i+2] = byte(c >> 8)
		buf[2*i+3] = byte(c)
	}
	return buf
}

// pdfDocDeviations lists the code points where PDFDocEncoding differs
// from Latin-1 (PDF 32000-1:2008, appendix D.2).  A zero entry marks an
// unassigned code.
var pdfDocDeviations = map[byte]rune{
	0x18: '˘', // breve
	0x19: 'ˇ', // caron
	0x1A: 'ˆ', // circumflex
	0x1B: '˙', // dot accent
	0x1C: '˝', // double acute
	0x1D: '˛', // ogonek
	0x1E: '˚', // ring
	0x1F: '˜', // tilde
	0x7F: 0,
	0x80: '•',
	0x81: '†',
	0x82: '‡',
	0x83: '…',
	0x84: '—',
	0x85: '–',
	0x86: 'ƒ',
	0x87: '⁄',
	0x88: '‹',
	0x89: '›',
	0x8A: '−',
	0x8B: '‰',
	0x8C: '„',
	0x8D: '“',
	0x8E: '”',
	0x8F: '‘',
	0x90: '’',
	0x91: '‚',
	0x92: '™',
	0x93: 'ﬁ',
	0x94: 'ﬂ',
	0x95: 'Ł',
	0x96: 'Œ',
	0x97: 'Š',
	0x98: 'Ÿ',
	0x99: 'Ž',
	0x9A: 'ı',
	0x9B: 'ł',
	0x9C: 'œ',
	0x9D: 'š',
	0x9E: 'ž',
	0x9F: 0,
	0xA0: '€',
	0xAD: 0,
}

var pdfDocReverse map[rune]byte

func init() {
	pdfDocReverse = make(map[rune]byte, len(pdfDocDeviations))
	for c, r := range pdfDocDeviations {
		if r != 0 {
			pdfDocReverse[r] = c
		}
	}
}

func pdfDocDecodeByte(c byte) rune {
	if r, ok := pdfDocDeviations[c]; ok {
		return r
	}
	return rune(c)
}

func pdfDocDecode(s String) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 || pdfDocDecodeByte(s[i]) != rune(s[i]) {
			goto Decode
		}
	}
	return string(s)

Decode:
	r := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		r[i] = pdfDocDecodeByte(s[i])
	}
	return string(r)
}

// pdfDocEncode tries to encode s using PDFDocEncoding.  The second
// return value is false if s contains characters outside the encoding.
func pdfDocEncode(s string) (String, bool) {
	rr := []rune(s)
	buf := make(String, len(rr))
	for i, r := range rr {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			buf[i] = byte(r)
		case r >= 0x20 && r <= 0x7E:
			buf[i] = byte(r)
		case r >= 0xA1 && r <= 0xFF && r != 0xAD:
			buf[i] = byte(r)
		default:
			if c, ok := pdfDocReverse[r]; ok {
				buf[i] = c
			} else {
				return nil, false
			}
		}
	}
	return buf, true
}
