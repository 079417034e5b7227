package lptpdf

import (
	"io"
	"os"
	"time"

	"github.com/lptpdf/lptpdf/pdf"
)

// Checkpoint flushes any accumulated text to a page, writes a complete
// trailer, and leaves the session open: pages printed afterwards go into a
// fresh Pages leaf and anchor at the next Checkpoint or Close, exactly as
// if the file had just been reopened with APPEND. At every return from
// Checkpoint the file on disk is a standalone, valid PDF.
func (ctx *Context) Checkpoint() error {
	if ctx.f == nil || ctx.closed {
		return ctx.setErr(&Error{Code: ErrNotOpen})
	}
	if err := ctx.writeFooter(); err != nil {
		return ctx.setErr(err)
	}
	return nil
}

// Close checkpoints the session, truncates the file at the final
// %%EOF, and releases the file handle.
func (ctx *Context) Close() error {
	if ctx.f == nil || ctx.closed {
		return ctx.setErr(&Error{Code: ErrNotOpen})
	}
	if err := ctx.writeFooter(); err != nil {
		return ctx.setErr(err)
	}
	if err := ctx.f.Truncate(ctx.w.Pos()); err != nil {
		ctx.f.Close()
		ctx.closed = true
		return ctx.setErr(ioErr(err))
	}
	if err := ctx.f.Close(); err != nil {
		ctx.closed = true
		return ctx.setErr(ioErr(err))
	}
	ctx.closed = true
	return nil
}

// Snapshot checkpoints the session, then copies the file's current
// bytes to a freshly created file at path, leaving the session open.
func (ctx *Context) Snapshot(path string) error {
	if ctx.f == nil || ctx.closed {
		return ctx.setErr(&Error{Code: ErrNotOpen})
	}
	if err := ctx.writeFooter(); err != nil {
		return ctx.setErr(err)
	}
	if _, err := ctx.f.Seek(0, io.SeekStart); err != nil {
		return ctx.setErr(ioErr(err))
	}
	dst, err := os.Create(path)
	if err != nil {
		return ctx.setErr(ioErr(err))
	}
	defer dst.Close()
	if _, err := io.Copy(dst, io.LimitReader(ctx.f, ctx.w.Pos())); err != nil {
		return ctx.setErr(ioErr(err))
	}
	if _, err := ctx.f.Seek(ctx.w.Pos(), io.SeekStart); err != nil {
		return ctx.setErr(ioErr(err))
	}
	return nil
}

// writeFooter finishes the Pages leaf for this checkpoint cycle's pages,
// wraps it (and the prior anchor, if one exists) under a fresh Pages
// anchor, writes the Catalog and Info objects, and emits the
// cross-reference table and trailer.
//
// The prior anchor, if any, is not left as a read-only child: per the
// append coordinator's core trick, it is rewritten (same object number,
// via Writer.Rewrite, at a fresh offset) with a newly reserved /Parent
// placeholder and its Kids/Count otherwise unchanged, then wrapped as
// Kids[0] of the new anchor, whose own reference backpatches that
// placeholder once allocated. This is how the engine "re-enters append
// mode" on its own output at every checkpoint, not just across process
// restarts.
func (ctx *Context) writeFooter() error {
	if ctx.buf.CurrentLine() > 0 {
		if err := ctx.flushPage(); err != nil {
			return err
		}
	}

	leafRef := ctx.w.Alloc()
	kids := make(pdf.Array, len(ctx.sessionPages))
	for i, ref := range ctx.sessionPages {
		kids[i] = ref
	}
	leafParentPH := ctx.w.NewPlaceholder(10)
	leafDict := pdf.Dict{
		"Type":   pdf.Name("Pages"),
		"Parent": leafParentPH,
		"Kids":   kids,
		"Count":  pdf.Integer(len(ctx.sessionPages)),
	}
	if err := ctx.w.Put(leafRef, leafDict); err != nil {
		return ioErr(err)
	}
	if ctx.pendingParentPH != nil {
		if err := ctx.pendingParentPH.Set(leafRef); err != nil {
			return ioErr(err)
		}
		ctx.pendingParentPH = nil
	}

	var anchorKids pdf.Array
	total := len(ctx.sessionPages)
	var priorParentPH *pdf.Placeholder
	if ctx.pagesRef != 0 {
		priorParentPH = ctx.w.NewPlaceholder(10)
		priorDict := pdf.Dict{
			"Type":   pdf.Name("Pages"),
			"Parent": priorParentPH,
			"Kids":   ctx.pagesKids,
			"Count":  pdf.Integer(ctx.pagesCount),
		}
		if err := ctx.w.Rewrite(ctx.pagesRef, priorDict); err != nil {
			return ioErr(err)
		}
		anchorKids = append(anchorKids, ctx.pagesRef)
		total += ctx.pagesCount
	}
	anchorKids = append(anchorKids, leafRef)

	anchorRef := ctx.w.Alloc()
	anchorDict := pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  anchorKids,
		"Count": pdf.Integer(total),
	}
	if err := ctx.w.Put(anchorRef, anchorDict); err != nil {
		return ioErr(err)
	}
	if err := leafParentPH.Set(anchorRef); err != nil {
		return ioErr(err)
	}
	if priorParentPH != nil {
		if err := priorParentPH.Set(anchorRef); err != nil {
			return ioErr(err)
		}
	}

	catalogRef := ctx.w.Alloc()
	catalogDict := pdf.Dict{
		"Type":  pdf.Name("Catalog"),
		"Pages": anchorRef,
	}
	if err := ctx.w.Put(catalogRef, catalogDict); err != nil {
		return ioErr(err)
	}

	infoDict := pdf.Dict{
		"Title":        pdf.String(ctx.cfg.title),
		"Producer":     pdf.String(producerString),
		"CreationDate": pdf.Date(ctx.creationDate),
		"ModDate":      pdf.Date(time.Now()),
	}
	infoRef := ctx.w.Alloc()
	if err := ctx.w.Put(infoRef, infoDict); err != nil {
		return ioErr(err)
	}

	if ctx.fileID0 == nil {
		ctx.fileID0 = append([]byte(nil), ctx.fp.Sum()...)
	}
	trailer := pdf.Dict{
		"Root": catalogRef,
		"Size": pdf.Integer(ctx.xref.Len() + 1),
		"Info": infoRef,
		"ID":   pdf.Array{pdf.HexString(ctx.fileID0), ctx.fp.HexID()},
	}
	xrefStart, err := ctx.w.WriteXRef()
	if err != nil {
		return ioErr(err)
	}
	if err := ctx.w.WriteTrailer(trailer, xrefStart); err != nil {
		return ioErr(err)
	}

	ctx.pagesRef = anchorRef
	ctx.pagesKids = anchorKids
	ctx.pagesCount = total
	ctx.sessionPages = nil
	return nil
}
