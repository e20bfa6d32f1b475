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
	"strconv"
	"strings"
)

var (
	errVersion = errors.New("unsupported PDF version")
	errNoDate  = errors.New("not a valid PDF date string")
)

// MalformedFileError indicates that a file could not be used because the
// byte stream is not a structurally valid PDF file.  Operations which
// return this error produce no partial result.
type MalformedFileError struct {
	Err error

	// Loc describes where in the file structure the problem occurred,
	// innermost location last.
	Loc []string

	// Pos is the byte position of the error in the file, if known.
	Pos int64
}

func (err *MalformedFileError) Error() string {
	b := &strings.Builder{}
	b.WriteString("not a valid PDF file")
	if len(err.Loc) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(err.Loc, ": "))
		b.WriteString(")")
	}
	if err.Err != nil {
		b.WriteString(": ")
		b.WriteString(err.Err.Error())
	}
	if err.Pos > 0 {
		b.WriteString(" (at byte ")
		b.WriteString(strconv.FormatInt(err.Pos, 10))
		b.WriteString(")")
	}
	return b.String()
}

func (err *MalformedFileError) Unwrap() error {
	return err.Err
}

// Wrap adds location information to an error.  If err is a
// [MalformedFileError], loc is prepended to the error's location list.
// Other errors are returned unchanged.
func Wrap(err error, loc string) error {
	if err == nil {
		return nil
	}
	var mfe *MalformedFileError
	if errors.As(err, &mfe) {
		return &MalformedFileError{
			Err: mfe.Err,
			Loc: append([]string{loc}, mfe.Loc...),
			Pos: mfe.Pos,
		}
	}
	return err
}

// UnsupportedError indicates that a file uses a PDF feature which this
// library cannot process, for example encryption.  The input may be a
// conforming PDF file; the whole operation still fails.
type UnsupportedError struct {
	Feature string
}

func (err *UnsupportedError) Error() string {
	return "unsupported PDF feature: " + err.Feature
}
