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
	"errors"
	"fmt"
	"io"
	"os"
)

// WriterOptions allows to influence the way a PDF file is generated.
type WriterOptions struct {
	// ID is the file identifier, a slice of two byte slices.  If this
	// is nil, the file is written without an /ID entry.
	ID [][]byte

	// ObjectStreams enables the use of object streams and cross
	// reference streams.  This requires PDF 1.5 or higher.
	ObjectStreams bool
}

// maxObjStmLen is the maximum number of objects stored in a single
// object stream.
const maxObjStmLen = 100

// Writer represents a PDF file open for writing.
//
// Writer implements the [Putter] interface.  Objects must be written in
// one pass; the file is finished by calling [Writer.Close].
type Writer struct {
	meta MetaInfo

	w    *posWriter
	opt  WriterOptions
	xref map[uint32]*xRefEntry

	nextRef  uint32
	inStream bool
	closed   bool

	objStm *objStmWriter
}

// NewWriter prepares a PDF file for writing.
func NewWriter(w io.Writer, ver Version, opt *WriterOptions) (*Writer, error) {
	if opt == nil {
		opt = &WriterOptions{}
	}
	if opt.ObjectStreams && ver < V1_5 {
		return nil, &UnsupportedError{
			Feature: "object streams in PDF " + ver.String(),
		}
	}
	if opt.ID != nil && len(opt.ID) != 2 {
		return nil, errors.New("invalid file ID")
	}

	verString, err := ver.ToString()
	if err != nil {
		return nil, err
	}

	pdf := &Writer{
		meta: MetaInfo{
			Version: ver,
			ID:      opt.ID,
		},

		w:       &posWriter{w: w},
		opt:     *opt,
		xref:    make(map[uint32]*xRefEntry),
		nextRef: 1,
	}
	pdf.xref[0] = &xRefEntry{
		Pos:        -1,
		Generation: 65535,
	}

	// A comment with non-ASCII bytes after the header marks the file as
	// binary for legacy transfer tools.
	_, err = fmt.Fprintf(pdf.w, "%%PDF-%s\n%%\x80\x80\x80\x80\n", verString)
	if err != nil {
		return nil, err
	}

	return pdf, nil
}

// Create creates the named PDF file and opens it for output.  A
// previous file with the same name is overwritten.  After writing is
// complete, [Writer.Close] must be called to write the trailer, and the
// underlying file must be closed by the caller.
func Create(name string, ver Version, opt *WriterOptions) (*Writer, *os.File, error) {
	fd, err := os.Create(name)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := NewWriter(fd, ver, opt)
	if err != nil {
		fd.Close()
		return nil, nil, err
	}
	return pdf, fd, nil
}

// GetMeta returns the meta information for the file.  The Catalog and
// Info fields can be modified until [Writer.Close] is called.
func (pdf *Writer) GetMeta() *MetaInfo {
	return &pdf.meta
}

// Alloc allocates an object number for an indirect object.
func (pdf *Writer) Alloc() Reference {
	res := NewReference(pdf.nextRef, 0)
	pdf.nextRef++
	return res
}

// Put writes an object to the PDF file, as an indirect object.  A nil
// object marks the reference as unused.
func (pdf *Writer) Put(ref Reference, obj Object) error {
	err := pdf.checkOpen(ref)
	if err != nil {
		return err
	}

	if obj == nil {
		pdf.xref[ref.Number()] = &xRefEntry{
			Pos:        -1,
			Generation: ref.Generation(),
		}
		return nil
	}

	_, isStream := obj.(*Stream)
	if pdf.opt.ObjectStreams && !isStream && ref.Generation() == 0 {
		return pdf.putCompressed(ref, obj)
	}
	return pdf.writeIndirect(ref, obj)
}

// OpenStream adds a PDF stream to the file and returns a writer which
// can be used to add the stream contents.  The stream is finished by
// closing the returned writer.
//
// The stream data is passed through the given filters, in order, before
// being stored in the file.
func (pdf *Writer) OpenStream(ref Reference, dict Dict, filters ...Filter) (io.WriteCloser, error) {
	err := pdf.checkOpen(ref)
	if err != nil {
		return nil, err
	}

	streamDict := Dict{}
	for key, val := range dict {
		streamDict[key] = val
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

	sw := &streamWriter{
		pdf:  pdf,
		ref:  ref,
		dict: streamDict,
	}
	sw.w = &sw.buf
	// The first filter in the list is the outermost encoder, so wrap
	// the buffer in reverse order.
	for i := len(filters) - 1; i >= 0; i-- {
		enc, err := filters[i].Encode(sw.w)
		if err != nil {
			return nil, err
		}
		sw.chain = append([]io.WriteCloser{enc}, sw.chain...)
		sw.w = enc
	}

	pdf.inStream = true
	return sw, nil
}

type streamWriter struct {
	pdf  *Writer
	ref  Reference
	dict Dict
	buf  bytes.Buffer

	// w receives the user's writes; chain holds the encoders, outermost
	// first.
	w     io.Writer
	chain []io.WriteCloser
}

func (w *streamWriter) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

func (w *streamWriter) Close() error {
	for _, enc := range w.chain {
		err := enc.Close()
		if err != nil {
			return err
		}
	}
	w.pdf.inStream = false
	w.dict["Length"] = Integer(w.buf.Len())
	return w.pdf.writeIndirect(w.ref, &Stream{
		Dict: w.dict,
		R:    &w.buf,
	})
}

func (pdf *Writer) checkOpen(ref Reference) error {
	if pdf.closed {
		return errors.New("writer is closed")
	}
	if pdf.inStream {
		return errors.New("stream is still open")
	}
	if ref.Number() >= pdf.nextRef {
		pdf.nextRef = ref.Number() + 1
	}
	if _, seen := pdf.xref[ref.Number()]; seen {
		return fmt.Errorf("object %s already written", ref)
	}
	return nil
}

func (pdf *Writer) writeIndirect(ref Reference, obj Object) error {
	pdf.xref[ref.Number()] = &xRefEntry{
		Pos:        pdf.w.pos,
		Generation: ref.Generation(),
	}

	_, err := fmt.Fprintf(pdf.w, "%d %d obj\n", ref.Number(), ref.Generation())
	if err != nil {
		return err
	}
	err = obj.PDF(pdf.w)
	if err != nil {
		return err
	}
	_, err = pdf.w.Write([]byte("\nendobj\n"))
	return err
}

type objStmWriter struct {
	refs []Reference
	head bytes.Buffer
	body bytes.Buffer
}

func (pdf *Writer) putCompressed(ref Reference, obj Object) error {
	if pdf.objStm == nil {
		pdf.objStm = &objStmWriter{}
	}
	stm := pdf.objStm

	_, err := fmt.Fprintf(&stm.head, "%d %d ", ref.Number(), stm.body.Len())
	if err != nil {
		return err
	}
	err = obj.PDF(&stm.body)
	if err != nil {
		return err
	}
	err = stm.body.WriteByte('\n')
	if err != nil {
		return err
	}

	// Record a placeholder, so that double writes are detected.  The
	// index is fixed when the object stream is flushed.
	pdf.xref[ref.Number()] = &xRefEntry{
		InStream: NewReference(0xFFFF_FFFF, 0),
		Pos:      int64(len(stm.refs)),
	}
	stm.refs = append(stm.refs, ref)

	if len(stm.refs) >= maxObjStmLen {
		return pdf.flushObjStm()
	}
	return nil
}

func (pdf *Writer) flushObjStm() error {
	stm := pdf.objStm
	if stm == nil || len(stm.refs) == 0 {
		return nil
	}
	pdf.objStm = nil

	containerRef := pdf.Alloc()
	for i, ref := range stm.refs {
		pdf.xref[ref.Number()] = &xRefEntry{
			InStream: containerRef,
			Pos:      int64(i),
		}
	}

	filter := &FilterFlate{}
	compressed := &bytes.Buffer{}
	fw, err := filter.Encode(compressed)
	if err != nil {
		return err
	}
	_, err = fw.Write(stm.head.Bytes())
	if err != nil {
		return err
	}
	_, err = fw.Write(stm.body.Bytes())
	if err != nil {
		return err
	}
	err = fw.Close()
	if err != nil {
		return err
	}
	filterName, _, err := filter.Info()
	if err != nil {
		return err
	}

	dict := Dict{
		"Type":   Name("ObjStm"),
		"N":      Integer(len(stm.refs)),
		"First":  Integer(stm.head.Len()),
		"Filter": filterName,
		"Length": Integer(compressed.Len()),
	}
	return pdf.writeIndirect(containerRef, &Stream{Dict: dict, R: compressed})
}

// Close writes the document catalog, the cross reference data and the
// file trailer.  Close does not close the underlying io.Writer.
func (pdf *Writer) Close() error {
	if pdf.closed {
		return errors.New("writer is closed")
	}
	if pdf.inStream {
		return errors.New("stream is still open")
	}
	if pdf.meta.Catalog == nil || pdf.meta.Catalog.Pages == 0 {
		return errors.New("missing page tree")
	}

	err := pdf.flushObjStm()
	if err != nil {
		return err
	}

	catalogRef := pdf.Alloc()
	err = pdf.writeIndirect(catalogRef, pdf.meta.Catalog.AsDict())
	if err != nil {
		return err
	}

	var infoRef Reference
	if pdf.meta.Info != nil {
		infoDict := pdf.meta.Info.AsDict()
		if len(infoDict) > 0 {
			infoRef = pdf.Alloc()
			err = pdf.writeIndirect(infoRef, infoDict)
			if err != nil {
				return err
			}
		}
	}

	xRefDict := Dict{
		"Root": catalogRef,
	}
	if infoRef != 0 {
		xRefDict["Info"] = infoRef
	}
	if pdf.meta.ID != nil {
		xRefDict["ID"] = Array{
			String(pdf.meta.ID[0]),
			String(pdf.meta.ID[1]),
		}
	}
	for key, val := range pdf.meta.Trailer {
		if _, present := xRefDict[key]; !present {
			xRefDict[key] = val
		}
	}

	xRefPos := pdf.w.pos
	if pdf.opt.ObjectStreams {
		err = pdf.writeXRefStream(xRefDict)
	} else {
		xRefDict["Size"] = Integer(pdf.nextRef)
		err = pdf.writeXRefTable(xRefDict)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(pdf.w, "startxref\n%d\n%%%%EOF\n", xRefPos)
	if err != nil {
		return err
	}

	pdf.closed = true
	return nil
}

type posWriter struct {
	w   io.Writer
	pos int64
}

func (w *posWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	return n, err
}
