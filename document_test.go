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

package pdf_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/docfold/pdf"
	"github.com/docfold/pdf/internal/debug/memfile"
)

// makeMinimalDoc creates a document with a single empty page.
func makeMinimalDoc(t *testing.T, v pdf.Version) (*pdf.Document, pdf.Reference) {
	t.Helper()

	doc := pdf.NewDocument(v)
	pagesRef := doc.Alloc()
	pageRef := doc.Alloc()
	err := doc.Put(pageRef, pdf.Dict{
		"Type":     pdf.Name("Page"),
		"Parent":   pagesRef,
		"MediaBox": &pdf.Rectangle{URx: 612, URy: 792},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = doc.Put(pagesRef, pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  pdf.Array{pageRef},
		"Count": pdf.Integer(1),
	})
	if err != nil {
		t.Fatal(err)
	}
	doc.GetMeta().Catalog.Pages = pagesRef
	return doc, pageRef
}

func TestDocumentRoundTrip(t *testing.T) {
	for _, objStreams := range []bool{false, true} {
		t.Run(fmt.Sprintf("objStreams=%t", objStreams), func(t *testing.T) {
			doc, pageRef := makeMinimalDoc(t, pdf.V1_7)
			doc.GetMeta().Info = &pdf.Info{
				Title:  "Test Document",
				Author: "Jane Doe",
			}

			buf := memfile.New()
			err := doc.Write(buf, &pdf.WriterOptions{
				ObjectStreams: objStreams,
			})
			if err != nil {
				t.Fatal(err)
			}

			doc2, err := pdf.Read(buf, int64(len(buf.Data)))
			if err != nil {
				t.Fatal(err)
			}

			meta := doc2.GetMeta()
			if meta.Info == nil || meta.Info.Title != "Test Document" {
				t.Errorf("info dictionary lost: %+v", meta.Info)
			}

			pages, err := pdf.GetDictTyped(doc2, meta.Catalog.Pages, "Pages")
			if err != nil {
				t.Fatal(err)
			}
			kids, err := pdf.GetArray(doc2, pages["Kids"])
			if err != nil {
				t.Fatal(err)
			}
			if len(kids) != 1 {
				t.Fatalf("expected 1 page, got %d", len(kids))
			}
			page, err := pdf.GetDictTyped(doc2, kids[0], "Page")
			if err != nil {
				t.Fatal(err)
			}
			if page["Parent"] != meta.Catalog.Pages {
				t.Errorf("page parent corrupted: %v", page["Parent"])
			}
			_ = pageRef
		})
	}
}

func TestDocumentStream(t *testing.T) {
	doc, pageRef := makeMinimalDoc(t, pdf.V1_7)

	contents := "0 0 m 100 100 l S"
	ref := doc.Alloc()
	w, err := doc.OpenStream(ref, nil, &pdf.FilterFlate{})
	if err != nil {
		t.Fatal(err)
	}
	_, err = io.WriteString(w, contents)
	if err != nil {
		t.Fatal(err)
	}
	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}

	page, err := pdf.GetDict(doc, pageRef)
	if err != nil {
		t.Fatal(err)
	}
	page["Contents"] = ref
	doc.Put(pageRef, page)

	buf := memfile.New()
	err = doc.Write(buf, nil)
	if err != nil {
		t.Fatal(err)
	}

	doc2, err := pdf.Read(buf, int64(len(buf.Data)))
	if err != nil {
		t.Fatal(err)
	}
	stream, err := pdf.GetStream(doc2, ref)
	if err != nil {
		t.Fatal(err)
	}
	if stream == nil {
		t.Fatal("stream lost")
	}
	r, err := pdf.DecodeStream(doc2, stream, 0)
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(contents, string(body)); d != "" {
		t.Error(d)
	}
}

func TestDocumentGC(t *testing.T) {
	doc, _ := makeMinimalDoc(t, pdf.V1_7)

	// an object not reachable from the catalog
	orphan := doc.Alloc()
	doc.Put(orphan, pdf.String("unused data"))

	buf := memfile.New()
	err := doc.Write(buf, nil)
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Contains(buf.Data, []byte("unused data")) {
		t.Error("unreachable object was written")
	}

	doc2, err := pdf.Read(buf, int64(len(buf.Data)))
	if err != nil {
		t.Fatal(err)
	}
	obj, err := doc2.Get(orphan)
	if err != nil {
		t.Fatal(err)
	}
	if obj != nil {
		t.Errorf("orphan survived: %v", obj)
	}
}

func TestDocumentDanglingRef(t *testing.T) {
	doc, pageRef := makeMinimalDoc(t, pdf.V1_7)

	page, _ := pdf.GetDict(doc, pageRef)
	page["Contents"] = pdf.NewReference(999, 0)
	doc.Put(pageRef, page)

	buf := memfile.New()
	err := doc.Write(buf, nil)
	if err == nil {
		t.Fatal("expected error for dangling reference")
	}
	var mfe *pdf.MalformedFileError
	if !errors.As(err, &mfe) {
		t.Errorf("expected MalformedFileError, got %v", err)
	}
}

func TestDocumentNullObject(t *testing.T) {
	doc, pageRef := makeMinimalDoc(t, pdf.V1_7)

	// a reference to an explicit null object is not dangling
	nullRef := doc.Alloc()
	doc.Put(nullRef, nil)
	page, _ := pdf.GetDict(doc, pageRef)
	page["Thumb"] = nullRef
	doc.Put(pageRef, page)

	buf := memfile.New()
	err := doc.Write(buf, nil)
	if err != nil {
		t.Fatal(err)
	}

	doc2, err := pdf.Read(buf, int64(len(buf.Data)))
	if err != nil {
		t.Fatal(err)
	}
	obj, err := doc2.Get(nullRef)
	if err != nil {
		t.Fatal(err)
	}
	if obj != nil {
		t.Errorf("expected null object, got %v", obj)
	}
}

func TestReaderRejectsEncrypted(t *testing.T) {
	doc, _ := makeMinimalDoc(t, pdf.V1_7)
	buf := memfile.New()
	err := doc.Write(buf, nil)
	if err != nil {
		t.Fatal(err)
	}

	// crudely splice an /Encrypt entry into the trailer
	data := bytes.Replace(buf.Data,
		[]byte("trailer\n<<"),
		[]byte("trailer\n<<\n/Encrypt 99 0 R"), 1)
	if bytes.Equal(data, buf.Data) {
		t.Fatal("could not patch trailer")
	}

	_, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	var unsupported *pdf.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Errorf("expected UnsupportedError, got %v", err)
	}
}
