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

// Package pdf provides the document model used by the docfold engine,
// together with the machinery to parse PDF files into this model and to
// serialize the model back to bytes.
//
// A PDF file is a graph of objects of nine native types: [Array], [Bool],
// [Dict], [Integer], [Name], [Real], [Reference], [*Stream], and [String].
// All nine implement the [Object] interface.  Indirect objects are
// addressed by [Reference] values; the [Resolve] function and the typed
// accessors ([GetDict], [GetArray], ...) follow references explicitly, so
// that missing or wrongly-typed entries surface as errors instead of
// silent zero values.
//
// The central type is [Document], a complete in-memory copy of a PDF
// file's object table.  Use [Read] to load a Document from bytes, mutate
// it, and [Document.Write] to serialize it again.  Reading and writing go
// through [Reader] and [Writer], which can also be used on their own for
// streaming access.
package pdf
