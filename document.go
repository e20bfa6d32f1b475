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
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"golang.org/x/exp/maps"
)

// Document is an in-memory representation of a PDF document.
//
// Document implements both the [Getter] and the [Putter] interface.
// Objects can be added, replaced and inspected in any order; the
// document is serialized by calling [Document.Write].
type Document struct {
	meta    MetaInfo
	objects map[Reference]Object
	lastRef uint32
}

// NewDocument creates a new, empty PDF document.
func NewDocument(v Version) *Document {
	return &Document{
		meta: MetaInfo{
			Version: v,
			Catalog: &Catalog{},
		},
		objects: map[Reference]Object{},
	}
}

// Read reads a complete PDF document into memory.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	pdf, err := NewReader(r, size)
	if err != nil {
		return nil, err
	}

	res := &Document{
		meta:    pdf.meta,
		objects: map[Reference]Object{},
	}

	isObjectStream := make(map[Reference]bool)
	for _, entry := range pdf.xref {
		if entry.InStream != 0 {
			isObjectStream[entry.InStream] = true
		}
	}

	for number, entry := range pdf.xref {
		if number == 0 {
			continue
		}
		if number > res.lastRef {
			res.lastRef = number
		}
		ref := NewReference(number, entry.Generation)
		if entry.IsFree() {
			// keep free entries, so that stale references resolve to
			// null instead of looking like file corruption
			res.objects[ref] = nil
			continue
		}
		if isObjectStream[ref] {
			continue
		}

		obj, err := pdf.Get(ref)
		if err != nil {
			return nil, err
		}
		if ref == pdf.trailerRoot || ref == pdf.trailerInfo {
			// held in the MetaInfo instead
			continue
		}
		if s, isStream := obj.(*Stream); isStream {
			if s.Dict["Type"] == Name("XRef") {
				continue
			}
			data, err := io.ReadAll(s.R)
			if err != nil {
				return nil, err
			}
			s.Dict["Length"] = Integer(len(data))
			obj = &Stream{
				Dict: s.Dict,
				R:    bytes.NewReader(data),
			}
		}
		res.objects[ref] = obj
	}

	return res, nil
}

// ReadFile reads the named PDF file into memory.
func ReadFile(fname string) (*Document, error) {
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	fi, err := fd.Stat()
	if err != nil {
		return nil, err
	}
	return Read(fd, fi.Size())
}

// GetMeta returns the meta information of the document.
func (d *Document) GetMeta() *MetaInfo {
	return &d.meta
}

// Alloc allocates a new object number for an indirect object.
func (d *Document) Alloc() Reference {
	for {
		d.lastRef++
		ref := NewReference(d.lastRef, 0)
		if _, ok := d.objects[ref]; !ok {
			return ref
		}
	}
}

// Get returns the object the given reference points to.  References to
// missing objects resolve to nil, without an error.
func (d *Document) Get(ref Reference) (Object, error) {
	obj := d.objects[ref]
	if s, ok := obj.(*Stream); ok {
		if ss, ok := s.R.(io.Seeker); ok {
			_, err := ss.Seek(0, io.SeekStart)
			if err != nil {
				return nil, err
			}
		}
	}
	return obj, nil
}

// Put stores an object in the document.  Storing nil records an
// explicit null object; the reference then resolves to nil without
// counting as dangling.
func (d *Document) Put(ref Reference, obj Object) error {
	d.objects[ref] = obj
	return nil
}

// OpenStream adds a stream object to the document and returns a writer
// for the stream contents.  The data is passed through the given
// filters before being stored.  The stream is finished by closing the
// returned writer.
func (d *Document) OpenStream(ref Reference, dict Dict, filters ...Filter) (io.WriteCloser, error) {
	streamDict := maps.Clone(dict)
	if streamDict == nil {
		streamDict = Dict{}
	}

	var filterNames Array
	var filterParms Array
	needParms := false
	for _, filter := range filters {
		name, parms, err := filter.Info()
		if err != nil {
			return nil, err
		}
		filterNames = append(filterNames, name)
		filterParms = append(filterParms, parms)
		if len(parms) > 0 {
			needParms = true
		}
	}
	switch len(filterNames) {
	case 0:
		// pass
	case 1:
		streamDict["Filter"] = filterNames[0]
		if needParms {
			streamDict["DecodeParms"] = filterParms[0]
		}
	default:
		streamDict["Filter"] = filterNames
		if needParms {
			streamDict["DecodeParms"] = filterParms
		}
	}

	s := &Stream{
		Dict: streamDict,
	}
	d.objects[ref] = s

	var w io.WriteCloser = &docStreamWriter{s: s}
	var err error
	for i := len(filters) - 1; i >= 0; i-- {
		w, err = encodeAndClose(filters[i], w)
		if err != nil {
			return nil, err
		}
	}
	return w, nil
}

// encodeAndClose chains an encoding filter in front of w, so that
// closing the result also closes w.
func encodeAndClose(f Filter, w io.WriteCloser) (io.WriteCloser, error) {
	enc, err := f.Encode(w)
	if err != nil {
		return nil, err
	}
	return &closeChain{enc, w}, nil
}

type closeChain struct {
	io.WriteCloser
	next io.Closer
}

func (c *closeChain) Close() error {
	err := c.WriteCloser.Close()
	if err != nil {
		return err
	}
	return c.next.Close()
}

type docStreamWriter struct {
	bytes.Buffer
	s *Stream
}

func (w *docStreamWriter) Close() error {
	w.s.R = bytes.NewReader(w.Bytes())
	w.s.Dict["Length"] = Integer(w.Len())
	return nil
}

// Write serializes the document to w.
//
// Objects which cannot be reached from the document catalog, the
// information dictionary or the trailer are omitted from the output.
// References to objects which were never stored cause an error of type
// [MalformedFileError].
func (d *Document) Write(w io.Writer, opt *WriterOptions) error {
	if opt == nil {
		opt = &WriterOptions{}
	}
	if opt.ID == nil {
		opt.ID = d.meta.ID
	}

	reachable, err := d.markReachable()
	if err != nil {
		return err
	}

	pdf, err := NewWriter(w, d.meta.Version, opt)
	if err != nil {
		return err
	}
	meta := pdf.GetMeta()
	meta.Catalog = d.meta.Catalog
	meta.Info = d.meta.Info
	meta.Trailer = d.meta.Trailer

	refs := maps.Keys(d.objects)
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Number() < refs[j].Number()
	})

	for _, ref := range refs {
		if !reachable[ref] {
			continue
		}
		obj, err := d.Get(ref)
		if err != nil {
			return err
		}
		err = pdf.Put(ref, obj)
		if err != nil {
			return err
		}
	}

	return pdf.Close()
}

// WriteFile serializes the document to the named file.
func (d *Document) WriteFile(fname string, opt *WriterOptions) error {
	fd, err := os.Create(fname)
	if err != nil {
		return err
	}
	err = d.Write(fd, opt)
	if err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

// markReachable walks the object graph starting at the document catalog
// and returns the set of referenced objects.
func (d *Document) markReachable() (map[Reference]bool, error) {
	known := make(map[uint32]bool, len(d.objects))
	for ref := range d.objects {
		known[ref.Number()] = true
	}

	reachable := make(map[Reference]bool)
	var todo []Object
	if d.meta.Catalog != nil {
		todo = append(todo, d.meta.Catalog.AsDict())
	}
	if d.meta.Info != nil {
		todo = append(todo, d.meta.Info.AsDict())
	}
	if d.meta.Trailer != nil {
		todo = append(todo, d.meta.Trailer)
	}

	for len(todo) > 0 {
		obj := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		switch obj := obj.(type) {
		case Reference:
			if reachable[obj] {
				continue
			}
			if !known[obj.Number()] {
				return nil, &MalformedFileError{
					Err: fmt.Errorf("dangling reference %s", obj),
				}
			}
			reachable[obj] = true
			if next, ok := d.objects[obj]; ok && next != nil {
				todo = append(todo, next)
			}
		case Dict:
			for _, val := range obj {
				if val != nil {
					todo = append(todo, val)
				}
			}
		case Array:
			for _, val := range obj {
				if val != nil {
					todo = append(todo, val)
				}
			}
		case *Stream:
			todo = append(todo, obj.Dict)
		}
	}

	return reachable, nil
}
