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

// Docfold merges, splits and shrinks PDF files.
//
// Usage:
//
//	docfold merge [-o out.pdf] [-toc] [-filename] [-orig-pages] [-final-pages] file...
//	docfold split [-o base] [-r ranges] file
//	docfold compress [-o out.pdf] [flags] file
//
// The split command writes one file per output, named base-1.pdf,
// base-2.pdf and so on.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docfold/pdf/engine"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "merge":
		err = cmdMerge(os.Args[2:])
	case "split":
		err = cmdSplit(os.Args[2:])
	case "compress":
		err = cmdCompress(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: docfold merge|split|compress [flags] file...")
}

func cmdMerge(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	out := fs.String("o", "out.pdf", "output file name")
	toc := fs.Bool("toc", false, "insert a linked table of contents")
	filename := fs.Bool("filename", false, "stamp each page with its source file name")
	origPages := fs.Bool("orig-pages", false, "stamp each page with its original page number")
	finalPages := fs.Bool("final-pages", false, "stamp each page with its final page number")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("no input files given")
	}

	var sources []engine.Source
	for _, fname := range fs.Args() {
		data, err := os.ReadFile(fname)
		if err != nil {
			return err
		}
		sources = append(sources, engine.Source{
			Name: filepath.Base(fname),
			Data: data,
		})
	}

	merged, err := engine.Merge(sources, engine.MergeOptions{
		TOC:                 *toc,
		FilenameStamp:       *filename,
		OriginalPageNumbers: *origPages,
		FinalPageNumbers:    *finalPages,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(*out, merged, 0644)
}

func cmdSplit(args []string) error {
	fs := flag.NewFlagSet("split", flag.ExitOnError)
	out := fs.String("o", "", "base name for output files (default: input name)")
	ranges := fs.String("r", "", "page ranges, e.g. \"1-3,7\" (default: every page)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("need exactly one input file")
	}
	fname := fs.Arg(0)

	data, err := os.ReadFile(fname)
	if err != nil {
		return err
	}

	outputs, warnings, err := engine.Split(data, *ranges)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	base := *out
	if base == "" {
		base = strings.TrimSuffix(fname, filepath.Ext(fname))
	}
	for i, part := range outputs {
		partName := fmt.Sprintf("%s-%d.pdf", base, i+1)
		err = os.WriteFile(partName, part, 0644)
		if err != nil {
			return err
		}
	}
	if len(outputs) == 0 {
		fmt.Fprintln(os.Stderr, "no pages selected, no output written")
	}
	return nil
}

func cmdCompress(args []string) error {
	fs := flag.NewFlagSet("compress", flag.ExitOnError)
	out := fs.String("o", "out.pdf", "output file name")
	stripMeta := fs.Bool("strip-metadata", false, "clear document metadata")
	rmAnnots := fs.Bool("remove-annotations", false, "remove all annotations")
	flatten := fs.Bool("flatten", false, "flatten form fields into page content")
	rmBookmarks := fs.Bool("remove-bookmarks", false, "remove the document outline")
	rmAttachments := fs.Bool("remove-attachments", false, "remove embedded files")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("need exactly one input file")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	compressed, warnings, err := engine.Compress(data, engine.CompressOptions{
		StripMetadata:     *stripMeta,
		RemoveAnnotations: *rmAnnots,
		Flatten:           *flatten,
		RemoveBookmarks:   *rmBookmarks,
		RemoveAttachments: *rmAttachments,
	})
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	err = os.WriteFile(*out, compressed, 0644)
	if err != nil {
		return err
	}

	delta := len(data) - len(compressed)
	fmt.Fprintf(os.Stderr, "%d bytes in, %d bytes out (%+d)\n",
		len(data), len(compressed), -delta)
	return nil
}
