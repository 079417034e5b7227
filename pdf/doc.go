// Package pdf implements the low-level object model and incremental writer
// used to produce lineprinter-emulation PDF documents.
//
// This package treats a PDF file as a sequence of indirect objects, each
// framed as "N 0 obj\n...\nendobj\n\n", followed by a classic cross-reference
// table and a trailer dictionary. Objects are written strictly in append
// order and an object, once flushed, is never re-serialized in place. Two
// devices stand in for mutation: a Placeholder (see Writer.NewPlaceholder),
// the one in-place write, which back-patches a fixed-width /Parent field
// once the referenced Pages node has a number, and Writer.Rewrite, which
// reuses an already-used object number at a fresh offset and repoints
// xref at it, orphaning the number's previous bytes rather than touching
// them.
//
// A Writer is used to produce a new file or to continue appending to one
// this package itself previously wrote:
//
//	w := pdf.NewWriter(f, 0, pdf.NewXRefTable())
//	ref := w.Alloc()
//	err := w.Put(ref, pdf.Dict{"Type": pdf.Name("Page")})
//	off, err := w.WriteXRef()
//	err = w.WriteTrailer(trailer, off)
//
// A Reader is used only to scan the trailer and xref table of a file this
// package wrote, in order to resume appending to it (see the Append
// Coordinator in the parent lptpdf package). It is not a general-purpose PDF
// parser: reading a file this engine did not write is undefined.
//
// The following types implement the Object interface and are the only
// native PDF value types this package needs:
//
//	Array
//	Bool
//	Dict
//	HexString
//	Integer
//	Name
//	Real
//	Reference
//	Stream
//	String
package pdf
