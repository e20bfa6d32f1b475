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

package pagetree_test

import (
	"testing"

	"github.com/docfold/pdf"
	"github.com/docfold/pdf/internal/debug/memfile"
	"github.com/docfold/pdf/pagetree"
)

// makeDoc creates a document with numPages pages.  Each page dictionary
// carries its page number in a "Test.PageNo" entry, so that tests can
// verify the order of pages in the tree.
func makeDoc(t *testing.T, numPages int) *pdf.Document {
	t.Helper()

	doc := pdf.NewDocument(pdf.V1_7)
	pages := make([]pdf.Reference, numPages)
	for i := range pages {
		ref := doc.Alloc()
		err := doc.Put(ref, pdf.Dict{
			"Type":        pdf.Name("Page"),
			"MediaBox":    &pdf.Rectangle{URx: 612, URy: 792},
			"Test.PageNo": pdf.Integer(i),
		})
		if err != nil {
			t.Fatal(err)
		}
		pages[i] = ref
	}

	root, err := pagetree.Build(doc, pages)
	if err != nil {
		t.Fatal(err)
	}
	doc.GetMeta().Catalog.Pages = root

	return doc
}

func TestBuild(t *testing.T) {
	for _, numPages := range []int{1, 2, 16, 17, 100} {
		doc := makeDoc(t, numPages)

		n, err := pagetree.NumPages(doc)
		if err != nil {
			t.Fatal(err)
		}
		if n != numPages {
			t.Errorf("wrong page count: expected %d, got %d", numPages, n)
		}

		refs, err := pagetree.FindPages(doc)
		if err != nil {
			t.Fatal(err)
		}
		if len(refs) != numPages {
			t.Fatalf("expected %d pages, got %d", numPages, len(refs))
		}
		for i, ref := range refs {
			dict, err := pdf.GetDict(doc, ref)
			if err != nil {
				t.Fatal(err)
			}
			if dict["Test.PageNo"] != pdf.Integer(i) {
				t.Errorf("page %d out of order: %v", i, dict["Test.PageNo"])
			}
		}
	}
}

func TestBuildDegree(t *testing.T) {
	doc := makeDoc(t, 100)

	// Walk the tree and check that no interior node has more than
	// 16 children, and that the /Count entries are consistent.
	var walk func(ref pdf.Reference) (pdf.Integer, error)
	walk = func(ref pdf.Reference) (pdf.Integer, error) {
		node, err := pdf.GetDict(doc, ref)
		if err != nil {
			return 0, err
		}
		if node["Type"] == pdf.Name("Page") {
			return 1, nil
		}

		kids, err := pdf.GetArray(doc, node["Kids"])
		if err != nil {
			return 0, err
		}
		if len(kids) > 16 {
			t.Errorf("interior node has %d children", len(kids))
		}
		var total pdf.Integer
		for _, kid := range kids {
			kidRef, ok := kid.(pdf.Reference)
			if !ok {
				t.Fatal("kid is not a reference")
			}
			kidDict, err := pdf.GetDict(doc, kidRef)
			if err != nil {
				return 0, err
			}
			if kidDict["Parent"] != ref {
				t.Errorf("wrong /Parent on child of %s", ref)
			}
			n, err := walk(kidRef)
			if err != nil {
				return 0, err
			}
			total += n
		}
		if node["Count"] != total {
			t.Errorf("node %s: /Count is %v, expected %d",
				ref, node["Count"], total)
		}
		return total, nil
	}

	root := doc.GetMeta().Catalog.Pages
	rootDict, err := pdf.GetDict(doc, root)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := rootDict["Parent"]; ok {
		t.Error("root node has a /Parent entry")
	}
	total, err := walk(root)
	if err != nil {
		t.Fatal(err)
	}
	if total != 100 {
		t.Errorf("expected 100 pages, got %d", total)
	}
}

func TestBuildEmpty(t *testing.T) {
	doc := pdf.NewDocument(pdf.V1_7)
	root, err := pagetree.Build(doc, nil)
	if err != nil {
		t.Fatal(err)
	}
	doc.GetMeta().Catalog.Pages = root

	n, err := pagetree.NumPages(doc)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected 0 pages, got %d", n)
	}
}

func TestRoundTrip(t *testing.T) {
	doc := makeDoc(t, 20)

	buf := memfile.New()
	err := doc.Write(buf, nil)
	if err != nil {
		t.Fatal(err)
	}

	r, err := pdf.NewReader(buf, int64(len(buf.Data)))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	n, err := pagetree.NumPages(r)
	if err != nil {
		t.Fatal(err)
	}
	if n != 20 {
		t.Errorf("expected 20 pages, got %d", n)
	}

	for i := 0; i < 20; i++ {
		page, err := pagetree.GetPage(r, i)
		if err != nil {
			t.Fatal(err)
		}
		if page["Test.PageNo"] != pdf.Integer(i) {
			t.Errorf("page %d: got %v", i, page["Test.PageNo"])
		}
	}
}

func TestInheritedAttributes(t *testing.T) {
	doc := pdf.NewDocument(pdf.V1_7)

	mediaBox := pdf.Array{
		pdf.Integer(0), pdf.Integer(0), pdf.Integer(612), pdf.Integer(792),
	}
	resources := pdf.Dict{"ProcSet": pdf.Array{pdf.Name("PDF")}}

	rootRef := doc.Alloc()
	pageRef := doc.Alloc()
	err := doc.Put(pageRef, pdf.Dict{
		"Type":   pdf.Name("Page"),
		"Parent": rootRef,
	})
	if err != nil {
		t.Fatal(err)
	}
	err = doc.Put(rootRef, pdf.Dict{
		"Type":      pdf.Name("Pages"),
		"Kids":      pdf.Array{pageRef},
		"Count":     pdf.Integer(1),
		"MediaBox":  mediaBox,
		"Resources": resources,
	})
	if err != nil {
		t.Fatal(err)
	}
	doc.GetMeta().Catalog.Pages = rootRef

	page, err := pagetree.GetPage(doc, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := page["MediaBox"]; !ok {
		t.Error("MediaBox not inherited")
	}
	if _, ok := page["Resources"]; !ok {
		t.Error("Resources not inherited")
	}
}

func TestGetPageOutOfRange(t *testing.T) {
	doc := makeDoc(t, 3)

	_, err := pagetree.GetPage(doc, 3)
	if err == nil {
		t.Error("expected error for page number past the end")
	}
	_, err = pagetree.GetPage(doc, -1)
	if err == nil {
		t.Error("expected error for negative page number")
	}
}
