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
	"fmt"
	"io"
)

// Getter provides read access to the objects of a PDF file.
type Getter interface {
	GetMeta() *MetaInfo

	// Get returns the object the given reference points to.  A missing
	// object is returned as nil, without an error.
	Get(Reference) (Object, error)
}

// Putter provides write access to the objects of a PDF file.
type Putter interface {
	GetMeta() *MetaInfo
	Alloc() Reference
	Put(ref Reference, obj Object) error
	OpenStream(ref Reference, dict Dict, filters ...Filter) (io.WriteCloser, error)
}

// Resolve resolves references to indirect objects.
//
// If obj is a [Reference], the function reads the corresponding object
// from the file and returns the result.  If obj is not a [Reference],
// it is returned unchanged.  The function recursively follows chains of
// references until it resolves to a non-reference object.
//
// If a reference loop is encountered, the function returns an error of
// type [MalformedFileError].
func Resolve(r Getter, obj Object) (Object, error) {
	count := 0
	for {
		ref, isRef := obj.(Reference)
		if !isRef {
			return obj, nil
		}
		if r == nil {
			return nil, &MalformedFileError{
				Err: errors.New("unexpected indirect object"),
			}
		}
		count++
		if count > 16 {
			return nil, &MalformedFileError{
				Err: errors.New("too many levels of indirection"),
			}
		}

		var err error
		obj, err = r.Get(ref)
		if err != nil {
			return nil, err
		}
	}
}

func resolveAndCast[T Object](r Getter, obj Object) (x T, err error) {
	obj, err = Resolve(r, obj)
	if err != nil {
		return x, err
	}

	if obj == nil {
		return x, nil
	}

	var isCorrectType bool
	x, isCorrectType = obj.(T)
	if isCorrectType {
		return x, nil
	}

	return x, &MalformedFileError{
		Err: fmt.Errorf("expected %T but got %T", x, obj),
	}
}

// Helper functions to resolve objects of a specific type.  In case of
// type mismatch an error of type [MalformedFileError] is returned, but
// a missing object (a nil value or an unpopulated reference) resolves
// to the type's zero value without an error.
var (
	GetArray   = resolveAndCast[Array]
	GetBool    = resolveAndCast[Bool]
	GetDict    = resolveAndCast[Dict]
	GetInteger = resolveAndCast[Integer]
	GetName    = resolveAndCast[Name]
	GetReal    = resolveAndCast[Real]
	GetStream  = resolveAndCast[*Stream]
	GetString  = resolveAndCast[String]
)

// GetInt resolves obj and returns its value as an int.
func GetInt(r Getter, obj Object) (int, error) {
	x, err := GetInteger(r, obj)
	return int(x), err
}

// GetNumber resolves obj and returns its numerical value, accepting
// both Integer and Real objects.
func GetNumber(r Getter, obj Object) (Number, error) {
	obj, err := Resolve(r, obj)
	if err != nil {
		return 0, err
	}
	switch x := obj.(type) {
	case Integer:
		return Number(x), nil
	case Real:
		return Number(x), nil
	case nil:
		return 0, nil
	default:
		return 0, &MalformedFileError{
			Err: fmt.Errorf("expected number but got %T", obj),
		}
	}
}

// GetRectangle resolves obj to a rectangle.
func GetRectangle(r Getter, obj Object) (*Rectangle, error) {
	arr, err := GetArray(r, obj)
	if err != nil {
		return nil, err
	}
	if arr == nil {
		return nil, nil
	}
	if len(arr) != 4 {
		return nil, &MalformedFileError{
			Err: errors.New("invalid rectangle"),
		}
	}

	var coords [4]float64
	for i, obj := range arr {
		x, err := GetNumber(r, obj)
		if err != nil {
			return nil, err
		}
		coords[i] = float64(x)
	}

	rect := &Rectangle{
		LLx: min(coords[0], coords[2]),
		LLy: min(coords[1], coords[3]),
		URx: max(coords[0], coords[2]),
		URy: max(coords[1], coords[3]),
	}
	return rect, nil
}

// GetTextString resolves obj and decodes the resulting string as a PDF
// text string.
func GetTextString(r Getter, obj Object) (string, error) {
	s, err := GetString(r, obj)
	if err != nil {
		return "", err
	}
	return s.AsTextString(), nil
}

// GetDictTyped resolves obj to a dictionary and verifies its /Type
// entry.  Dictionaries without a /Type entry are accepted.
func GetDictTyped(r Getter, obj Object, tp Name) (Dict, error) {
	dict, err := GetDict(r, obj)
	if err != nil || dict == nil {
		return nil, err
	}
	err = CheckDictType(r, dict, tp)
	if err != nil {
		return nil, err
	}
	return dict, nil
}

// CheckDictType verifies that the /Type entry of a dictionary, if
// present, has the given value.
func CheckDictType(r Getter, dict Dict, tp Name) error {
	haveTp, err := GetName(r, dict["Type"])
	if err != nil {
		return err
	}
	if haveTp != "" && haveTp != tp {
		return &MalformedFileError{
			Err: fmt.Errorf("expected dict type %q but got %q", tp, haveTp),
		}
	}
	return nil
}
