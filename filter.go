// docfold - merge, split and shrink PDF files
// Copyright (C) 2026  The docfold authors
//
// Some code here, e.g. the pngUpReader, is taken from
// https://pkg.go.dev/rsc.io/pdf .  Use of this source code is governed by a
// BSD-style license, which is reproduced here:
//
//     Copyright (c) 2009 The Go Authors. All rights reserved.
//
//     Redistribution and use in source and binary forms, with or without
//     modification, are permitted provided that the following conditions are
//     met:
//
//        * Redistributions of source code must retain the above copyright
//     notice, this list of conditions and the following disclaimer.
//        * Redistributions in binary form must reproduce the above
//     copyright notice, this list of conditions and the following disclaimer
//     in the documentation and/or other materials provided with the
//     distribution.
//        * Neither the name of Google Inc. nor the names of its
//     contributors may be used to endorse or promote products derived from
//     this software without specific prior written permission.
//
//     THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
//     "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
//     LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
//     A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
//     OWNER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
//     SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
//     LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
//     DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
//     THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
//     (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
//     OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package pdf

import (
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// Filter represents a PDF stream filter.
type Filter interface {
	// Info returns the name and parameter dictionary of the filter, as
	// they appear in the /Filter and /DecodeParms entries of a stream
	// dictionary.
	Info() (Name, Dict, error)

	// Encode wraps w so that data written to the returned writer is
	// encoded before being passed on to w.  Closing the returned writer
	// flushes all pending data, but does not close w.
	Encode(w io.Writer) (io.WriteCloser, error)

	// Decode wraps r so that data read from the returned reader is
	// decoded.
	Decode(r io.Reader) (io.Reader, error)
}

// FilterFlate is the FlateDecode filter.  A Predictor value of 1
// (the default) disables prediction; a value of 12 selects the PNG-Up
// predictor with the given number of Columns.
type FilterFlate struct {
	Predictor int
	Columns   int
}

// Info implements the [Filter] interface.
func (f *FilterFlate) Info() (Name, Dict, error) {
	var parms Dict
	switch f.Predictor {
	case 0, 1:
		// no prediction
	case 12:
		columns := f.Columns
		if columns <= 0 {
			columns = 1
		}
		parms = Dict{
			"Predictor": Integer(12),
			"Columns":   Integer(columns),
		}
	default:
		return "", nil, fmt.Errorf("unsupported predictor %d", f.Predictor)
	}
	return "FlateDecode", parms, nil
}

// Encode implements the [Filter] interface.
func (f *FilterFlate) Encode(w io.Writer) (io.WriteCloser, error) {
	zw := zlib.NewWriter(w)
	switch f.Predictor {
	case 0, 1:
		return zw, nil
	case 12:
		columns := f.Columns
		if columns <= 0 {
			columns = 1
		}
		return &pngUpWriter{
			w:   zw,
			row: make([]byte, 0, columns),
			out: make([]byte, 1+columns),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported predictor %d", f.Predictor)
	}
}

// Decode implements the [Filter] interface.
func (f *FilterFlate) Decode(r io.Reader) (io.Reader, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, err
	}
	switch f.Predictor {
	case 0, 1:
		return zr, nil
	case 12:
		columns := f.Columns
		if columns <= 0 {
			columns = 1
		}
		return &pngUpReader{
			r:    zr,
			hist: make([]byte, 1+columns),
			tmp:  make([]byte, 1+columns),
			pend: []byte{},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported predictor %d", f.Predictor)
	}
}

// getFilters returns the filters of a stream dictionary, outermost
// first.
func getFilters(r Getter, dict Dict) ([]Filter, error) {
	filter, err := Resolve(r, dict["Filter"])
	if err != nil {
		return nil, err
	}
	parms, err := Resolve(r, dict["DecodeParms"])
	if err != nil {
		return nil, err
	}

	var names []Name
	var parmsList []Object
	switch filter := filter.(type) {
	case nil:
		return nil, nil
	case Name:
		names = []Name{filter}
		parmsList = []Object{parms}
	case Array:
		for _, obj := range filter {
			obj, err = Resolve(r, obj)
			if err != nil {
				return nil, err
			}
			name, ok := obj.(Name)
			if !ok {
				return nil, &MalformedFileError{
					Err: fmt.Errorf("invalid filter name %s", Format(obj)),
				}
			}
			names = append(names, name)
		}
		parmsArray, _ := parms.(Array)
		for i := range names {
			if i < len(parmsArray) {
				parmsList = append(parmsList, parmsArray[i])
			} else {
				parmsList = append(parmsList, nil)
			}
		}
	default:
		return nil, &MalformedFileError{
			Err: fmt.Errorf("invalid /Filter entry %s", Format(filter)),
		}
	}

	var filters []Filter
	for i, name := range names {
		parms, err := GetDict(r, parmsList[i])
		if err != nil {
			return nil, err
		}
		switch name {
		case "FlateDecode":
			f := &FilterFlate{Predictor: 1, Columns: 1}
			if x, ok := parms["Predictor"].(Integer); ok {
				f.Predictor = int(x)
			}
			if x, ok := parms["Columns"].(Integer); ok {
				f.Columns = int(x)
			}
			if x, ok := parms["Colors"].(Integer); ok && x != 1 {
				return nil, &UnsupportedError{
					Feature: "FlateDecode with Colors != 1",
				}
			}
			if x, ok := parms["BitsPerComponent"].(Integer); ok && x != 8 {
				return nil, &UnsupportedError{
					Feature: "FlateDecode with BitsPerComponent != 8",
				}
			}
			filters = append(filters, f)
		case "ASCII85Decode":
			filters = append(filters, FilterASCII85{})
		default:
			return nil, &UnsupportedError{
				Feature: fmt.Sprintf("stream filter %q", name),
			}
		}
	}
	return filters, nil
}

// DecodeStream returns a reader for the decoded stream data.  The first
// numFilters filters are skipped; use 0 to decode the data completely.
func DecodeStream(r Getter, x *Stream, numFilters int) (io.Reader, error) {
	filters, err := getFilters(r, x.Dict)
	if err != nil {
		return nil, err
	}
	out := x.R
	for i, filter := range filters {
		if i < numFilters {
			continue
		}
		out, err = filter.Decode(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

type pngUpReader struct {
	r    io.Reader
	hist []byte
	tmp  []byte
	pend []byte
}

func (r *pngUpReader) Read(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if len(r.pend) > 0 {
			m := copy(b, r.pend)
			n += m
			b = b[m:]
			r.pend = r.pend[m:]
			continue
		}
		_, err := io.ReadFull(r.r, r.tmp)
		if err != nil {
			return n, err
		}
		if r.tmp[0] != 2 {
			return n, errors.New("malformed PNG-Up encoding")
		}
		for i, b := range r.tmp {
			r.hist[i] += b
		}
		r.pend = r.hist[1:]
	}
	return n, nil
}

// pngUpWriter applies the PNG-Up predictor to rows of fixed width
// before passing them on.
type pngUpWriter struct {
	w    io.WriteCloser
	prev []byte
	row  []byte
	out  []byte
}

func (w *pngUpWriter) Write(b []byte) (int, error) {
	n := 0
	columns := cap(w.row)
	for len(b) > 0 {
		k := copy(w.row[len(w.row):columns], b)
		w.row = w.row[:len(w.row)+k]
		b = b[k:]
		n += k
		if len(w.row) < columns {
			break
		}

		w.out[0] = 2
		for i, c := range w.row {
			d := c
			if w.prev != nil {
				d -= w.prev[i]
			}
			w.out[1+i] = d
		}
		if w.prev == nil {
			w.prev = make([]byte, columns)
		}
		copy(w.prev, w.row)
		w.row = w.row[:0]

		_, err := w.w.Write(w.out)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (w *pngUpWriter) Close() error {
	if len(w.row) != 0 {
		return errors.New("incomplete predictor row")
	}
	return w.w.Close()
}
