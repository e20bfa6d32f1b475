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
	"io"
	"os"
)

// Reader represents a PDF file opened for reading.  Use [Open] or
// [NewReader] to create a Reader.
//
// Reader implements the [Getter] interface.
type Reader struct {
	meta MetaInfo

	size int64
	r    io.ReaderAt

	xref map[uint32]*xRefEntry

	// trailerRoot and trailerInfo record where the document catalog and
	// information dictionary are stored in the file.
	trailerRoot Reference
	trailerInfo Reference

	// level guards against loops of indirect /Length references.
	level int
}

// Open opens the named PDF file for reading.  After use, [Reader.Close]
// must be called to release the underlying file.
func Open(fname string) (*Reader, error) {
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	fi, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, err
	}
	r, err := NewReader(fd, fi.Size())
	if err != nil {
		fd.Close()
		return nil, err
	}
	return r, nil
}

// NewReader creates a new Reader for a PDF file.
//
// Encrypted files are rejected with an [UnsupportedError].
func NewReader(data io.ReaderAt, size int64) (*Reader, error) {
	r := &Reader{
		size: size,
		r:    data,
	}

	s := r.scannerAt(0)
	version, err := s.readHeaderVersion()
	if err != nil {
		return nil, err
	}
	r.meta.Version = version

	xref, trailer, err := r.readXRef()
	if err != nil {
		return nil, err
	}
	r.xref = xref

	if _, ok := trailer["Encrypt"]; ok {
		return nil, &UnsupportedError{Feature: "encrypted PDF files"}
	}

	ID, ok := trailer["ID"].(Array)
	if ok && len(ID) >= 2 {
		for i := 0; i < 2; i++ {
			s, ok := ID[i].(String)
			if !ok {
				break
			}
			r.meta.ID = append(r.meta.ID, []byte(s))
		}
		if len(r.meta.ID) != 2 {
			r.meta.ID = nil
		}
	}

	r.trailerRoot, _ = trailer["Root"].(Reference)
	r.trailerInfo, _ = trailer["Info"].(Reference)

	catalog, err := ExtractCatalog(r, trailer["Root"])
	if err != nil {
		return nil, err
	}
	r.meta.Catalog = catalog

	info, err := ExtractInfo(r, trailer["Info"])
	if err == nil {
		// A broken Info dictionary does not prevent reading the file.
		r.meta.Info = info
	}

	r.meta.Trailer = Dict{}
	for key, val := range trailer {
		switch key {
		case "Root", "Info", "ID", "Size", "Prev", "XRefStm":
			// skip entries managed by the library
		default:
			r.meta.Trailer[key] = val
		}
	}

	return r, nil
}

// Close closes the file underlying the reader.  This call only has an
// effect if the io.ReaderAt passed to [NewReader] has a Close method,
// or if the Reader was created using [Open].  Otherwise, Close has no
// effect and returns nil.
func (r *Reader) Close() error {
	closer, ok := r.r.(io.Closer)
	if ok {
		return closer.Close()
	}
	return nil
}

// GetMeta returns the meta information of the file.
func (r *Reader) GetMeta() *MetaInfo {
	return &r.meta
}

// Get reads an indirect object from the PDF file.  If the object is not
// present, nil is returned without an error.
func (r *Reader) Get(ref Reference) (Object, error) {
	return r.doGet(ref, true)
}

func (r *Reader) doGet(ref Reference, canStream bool) (Object, error) {
	entry := r.xref[ref.Number()]
	if entry.IsFree() || entry.Generation != ref.Generation() {
		return nil, nil
	}

	if entry.InStream != 0 {
		if !canStream {
			return nil, &MalformedFileError{
				Err: errors.New("object streams inside streams not allowed"),
			}
		}
		return r.getFromObjectStream(ref.Number(), entry.InStream)
	}

	s := r.scannerAt(entry.Pos)
	obj, fileRef, err := s.ReadIndirectObject()
	if err != nil {
		return nil, err
	}

	if ref != fileRef {
		return nil, &MalformedFileError{
			Pos: entry.Pos,
			Err: errors.New("xref corrupted"),
		}
	}

	return obj, nil
}

type objStm struct {
	s   *scanner
	idx []stmObj
}

type stmObj struct {
	number uint32
	offs   int
}

func (r *Reader) objStmScanner(stream *Stream, errPos int64) (*objStm, error) {
	N, err := GetInt(r, stream.Dict["N"])
	if err != nil {
		return nil, err
	}
	if N < 0 || N > 10000 {
		return nil, &MalformedFileError{
			Pos: errPos,
			Err: errors.New("no valid /N for ObjStm"),
		}
	}

	decoded, err := DecodeStream(r, stream, 0)
	if err != nil {
		return nil, &MalformedFileError{
			Pos: errPos,
			Err: err,
		}
	}
	s := newScanner(decoded, 0, r.safeGetInt)

	idx := make([]stmObj, N)
	for i := range idx {
		no, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}
		offs, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}
		if no < 0 || no > 0xFFFF_FFFF || offs < 0 {
			return nil, &MalformedFileError{
				Pos: errPos,
				Err: errors.New("invalid ObjStm index"),
			}
		}
		idx[i].number = uint32(no)
		idx[i].offs = int(offs)
	}

	first, err := GetInt(r, stream.Dict["First"])
	if err != nil {
		return nil, err
	}
	if first < int(s.bytesRead()) {
		return nil, &MalformedFileError{
			Pos: errPos,
			Err: errors.New("no valid /First for ObjStm"),
		}
	}
	for i := range idx {
		idx[i].offs += first
	}

	return &objStm{s: s, idx: idx}, nil
}

func (r *Reader) getFromObjectStream(number uint32, sRef Reference) (Object, error) {
	container, err := r.doGet(sRef, false)
	if err != nil {
		return nil, err
	}
	stream, ok := container.(*Stream)
	if !ok {
		return nil, &MalformedFileError{
			Pos: r.errPos(sRef),
			Err: errors.New("wrong type for object stream"),
		}
	}

	contents, err := r.objStmScanner(stream, r.errPos(sRef))
	if err != nil {
		return nil, err
	}

	found := false
	for _, info := range contents.idx {
		if info.number == number {
			err = contents.s.Discard(int64(info.offs) - contents.s.bytesRead())
			if err != nil {
				return nil, err
			}
			found = true
			break
		}
	}
	if !found {
		return nil, &MalformedFileError{
			Pos: r.errPos(sRef),
			Err: errors.New("object missing from stream"),
		}
	}

	return contents.s.ReadObject()
}

// safeGetInt resolves indirect /Length entries.  The recursion level is
// limited, to prevent infinite loops in malformed files.
func (r *Reader) safeGetInt(obj Object) (Integer, error) {
	if x, ok := obj.(Integer); ok {
		return x, nil
	}

	if r.level > 2 {
		return 0, &MalformedFileError{
			Err: errors.New("too many levels of indirect /Length entries"),
		}
	}
	r.level++
	val, err := GetInteger(r, obj)
	r.level--
	return val, err
}

func (r *Reader) scannerAt(pos int64) *scanner {
	return newScanner(io.NewSectionReader(r.r, pos, r.size-pos), pos,
		r.safeGetInt)
}

func (r *Reader) errPos(obj Object) int64 {
	ref, ok := obj.(Reference)
	if !ok || r.xref == nil {
		return 0
	}

	seen := make(map[Reference]bool)
	for !seen[ref] {
		seen[ref] = true
		entry := r.xref[ref.Number()]
		if entry.IsFree() || entry.Generation != ref.Generation() {
			return 0
		}

		if entry.InStream == 0 {
			return entry.Pos
		}
		ref = entry.InStream
	}
	return 0
}
