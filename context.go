package lptpdf

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lptpdf/lptpdf/control"
	"github.com/lptpdf/lptpdf/form"
	"github.com/lptpdf/lptpdf/layout"
	"github.com/lptpdf/lptpdf/lzw"
	"github.com/lptpdf/lptpdf/pdf"
)

const producerString = "LPTPDF"

// Context is one open session: a file, its configuration, and the
// accumulated state of the page currently being written. It is not safe
// for concurrent use; exactly one goroutine should drive a Context at a
// time, the same way a single file handle is owned by one caller.
type Context struct {
	path string
	f    *os.File

	cfg    config
	active bool
	closed bool
	err    *Error

	xref *pdf.XRefTable
	fp   *pdf.Fingerprint
	w    *pdf.Writer

	priorID      []byte
	fileID0      []byte
	creationDate time.Time

	// pagesRef is the object number of the top-level Pages anchor
	// currently referenced by the Catalog on disk: 0 until the first
	// writeFooter call of a brand-new file, otherwise always valid,
	// whether seeded from an appended file's Catalog or from this
	// session's own previous checkpoint. pagesKids/pagesCount are that
	// node's Kids/Count as last written, kept so writeFooter can
	// rewrite it unchanged except for a newly reserved /Parent.
	pagesRef   pdf.Reference
	pagesKids  pdf.Array
	pagesCount int

	ctrl *control.Parser
	buf  *layout.Buffer
	geo  layout.Geometry

	formGeo   form.Geometry
	formBytes []byte
	imageRef  pdf.Reference

	fontDictRef pdf.Reference

	pendingLPI int
	lpiPending bool

	sessionPages    []pdf.Reference
	pendingParentPH *pdf.Placeholder
}

// NewContext returns an unopened Context with the option table's
// defaults. Configure it with Set, then call Open.
func NewContext() *Context {
	return &Context{cfg: defaultConfig()}
}

// Open creates or opens path according to the configured file-require
// mode (NEW by default). path must end in ".pdf".
func (ctx *Context) Open(path string) error {
	if ctx.f != nil {
		return ctx.setErr(&Error{Code: ErrBadHandle, Detail: "context already open"})
	}
	if !strings.HasSuffix(path, ".pdf") {
		return ctx.setErr(&Error{Code: ErrBadFilename})
	}

	ctx.path = path
	ctx.fp = pdf.NewFingerprint()
	ctx.ctrl = control.NewParser(ctx.fp)

	var err error
	switch ctx.cfg.fileRequire {
	case RequireAppend:
		err = ctx.openAppend(path)
	case RequireReplace:
		err = ctx.openReplace(path)
	default:
		err = ctx.openNew(path)
	}
	if err != nil {
		return ctx.setErr(err)
	}
	return nil
}

func (ctx *Context) openNew(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return ioErr(err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return ioErr(err)
	}
	if info.Size() > 0 {
		f.Close()
		return &Error{Code: ErrNotEmpty}
	}
	return ctx.startFresh(f)
}

func (ctx *Context) openReplace(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return ioErr(err)
	}
	return ctx.startFresh(f)
}

func (ctx *Context) startFresh(f *os.File) error {
	ctx.f = f
	ctx.xref = pdf.NewXRefTable()
	ctx.w = pdf.NewWriter(f, 0, ctx.xref)
	if err := ctx.w.WriteRaw([]byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")); err != nil {
		f.Close()
		return ioErr(err)
	}
	ctx.creationDate = time.Now()
	ctx.startPage()
	return nil
}

// openAppend resumes a file this engine wrote, per the append
// coordinator: locate the trailer, validate the Producer, capture the
// prior session's ID, creation date, Pages anchor and page count, then
// preload a fresh cross-reference table with the prior objects' real
// offsets so new objects continue the numbering forward.
func (ctx *Context) openAppend(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return ioErr(err)
	}
	r, err := pdf.OpenReader(f)
	if err != nil {
		f.Close()
		return &Error{Code: ErrNoAppend, Cause: err}
	}

	rootRef, ok := r.Trailer["Root"].(pdf.Reference)
	if !ok {
		f.Close()
		return &Error{Code: ErrNoAppend, Detail: "trailer has no /Root"}
	}
	catalog, err := resolveDict(r, rootRef)
	if err != nil {
		f.Close()
		return &Error{Code: ErrNoAppend, Cause: err}
	}
	pagesRef, ok := catalog["Pages"].(pdf.Reference)
	if !ok {
		f.Close()
		return &Error{Code: ErrNoAppend, Detail: "catalog has no /Pages"}
	}
	pagesDict, err := resolveDict(r, pagesRef)
	if err != nil {
		f.Close()
		return &Error{Code: ErrNoAppend, Cause: err}
	}
	count, _ := pagesDict["Count"].(pdf.Integer)
	kids, _ := pagesDict["Kids"].(pdf.Array)

	if err := ctx.checkProducer(r); err != nil {
		f.Close()
		return err
	}

	var priorID []byte
	if idArr, ok := r.Trailer["ID"].(pdf.Array); ok && len(idArr) > 0 {
		if hs, ok := idArr[0].(pdf.HexString); ok {
			priorID = append([]byte(nil), hs...)
		}
	}

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		f.Close()
		return ioErr(err)
	}

	xref := pdf.NewXRefTable()
	maxNum := r.MaxObjectNumber()
	for n := uint32(1); n <= maxNum; n++ {
		off, _ := r.Offset(n)
		xref.Reserve(off)
	}

	ctx.f = f
	ctx.xref = xref
	ctx.w = pdf.NewWriter(f, size, xref)
	ctx.pagesRef = pagesRef
	ctx.pagesKids = kids
	ctx.pagesCount = int(count)
	ctx.priorID = priorID
	ctx.fileID0 = priorID
	ctx.startPage()
	return nil
}

func (ctx *Context) checkProducer(r *pdf.Reader) error {
	infoRef, ok := r.Trailer["Info"].(pdf.Reference)
	if !ok {
		return &Error{Code: ErrNotProduced, Detail: "trailer has no /Info"}
	}
	info, err := resolveDict(r, infoRef)
	if err != nil {
		return &Error{Code: ErrNotProduced, Cause: err}
	}
	prod, ok := info["Producer"].(pdf.String)
	if !ok || !strings.HasPrefix(string(prod), producerString) {
		return &Error{Code: ErrNotProduced}
	}
	if cd, ok := info["CreationDate"].(pdf.String); ok {
		if t, err := pdf.ParseDate(cd); err == nil {
			ctx.creationDate = t
		}
	}
	return nil
}

func resolveDict(r *pdf.Reader, ref pdf.Reference) (pdf.Dict, error) {
	obj, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}
	d, ok := obj.(pdf.Dict)
	if !ok {
		return nil, &pdf.UnexpectedTypeError{Want: "dict", Got: "other"}
	}
	return d, nil
}

func (ctx *Context) startPage() {
	ctx.geo = ctx.buildGeometry()
	ctx.buf = layout.NewBuffer(ctx.geo)
	ctx.formGeo = ctx.buildFormGeometry()
}

func (ctx *Context) buildGeometry() layout.Geometry {
	c := ctx.cfg
	return layout.Geometry{
		PageWidthIn:       c.pageWidthIn,
		PageLengthIn:      c.pageLengthIn,
		TopMarginIn:       c.topMarginIn,
		BottomMarginIn:    c.bottomMarginIn,
		SideMarginIn:      c.sideMarginIn,
		CPI:               c.cpi,
		LPI:               c.lpi,
		Cols:              c.cols,
		LineNumberWidthIn: c.lineNumberWidthIn,
		TOFOverride:       c.tofOffset,
	}
}

func (ctx *Context) buildFormGeometry() form.Geometry {
	c := ctx.cfg
	return form.Geometry{
		PageWidthIn:       c.pageWidthIn,
		PageLengthIn:      c.pageLengthIn,
		TopMarginIn:       c.topMarginIn,
		BottomMarginIn:    c.bottomMarginIn,
		SideMarginIn:      c.sideMarginIn,
		LineNumberWidthIn: c.lineNumberWidthIn,
		BarHeightIn:       c.barHeightIn,
		FormType:          c.formType,
		LabelFontName:     "/F2",
	}
}

// Print feeds data through the control parser, accumulating text into
// the current page and flushing pages on line-feed overflow or form
// feed.
func (ctx *Context) Print(data []byte) error {
	if ctx.f == nil || ctx.closed {
		return ctx.setErr(&Error{Code: ErrNotOpen})
	}
	ctx.active = true
	for _, b := range data {
		for _, ev := range ctx.ctrl.Feed(b) {
			if err := ctx.handleEvent(ev); err != nil {
				return ctx.setErr(err)
			}
		}
	}
	if ctx.w.Err() != nil {
		return ctx.setErr(ioErr(ctx.w.Err()))
	}
	return nil
}

func (ctx *Context) handleEvent(ev control.Event) error {
	switch ev.Kind {
	case control.EventChar:
		ctx.buf.WriteChar(ev.Code)
	case control.EventLF:
		if ctx.buf.LineFeed() {
			return ctx.flushPage()
		}
	case control.EventFF:
		return ctx.flushPage()
	case control.EventCR:
		ctx.buf.CarriageReturn()
	case control.EventSetLPI:
		ctx.pendingLPI = ev.LPI
		ctx.lpiPending = true
	}
	return nil
}

// Where reports the current, 1-based page (counting previous sessions'
// pages) and the current line relative to top-of-form.
func (ctx *Context) Where() (page, line int) {
	page = ctx.pagesCount + len(ctx.sessionPages) + 1
	rel := ctx.buf.CurrentLine() - ctx.geo.TOF()
	if rel < 0 {
		rel = 0
	}
	return page, rel
}

func ioErr(err error) *Error {
	return &Error{Code: ErrIO, Cause: err}
}

func (ctx *Context) setErr(err error) error {
	if e, ok := err.(*Error); ok {
		ctx.err = e
		return e
	}
	ctx.err = &Error{Code: ErrOtherIO, Cause: err}
	return ctx.err
}

// Err returns the last sticky error, or nil if none is outstanding.
func (ctx *Context) Err() *Error {
	return ctx.err
}

// ClearErr clears the sticky error.
func (ctx *Context) ClearErr() {
	ctx.err = nil
}

// PError writes prefix followed by the last error's message to stderr,
// matching the C convention of perror.
func (ctx *Context) PError(prefix string) {
	msg := "no error"
	if ctx.err != nil {
		msg = ctx.err.Error()
	}
	os.Stderr.WriteString(prefix + ": " + msg + "\n")
}

// FileIsPDF reports whether path's first bytes look like a PDF header
// ("%PDF-1.<digit>"); it performs no further parsing.
func FileIsPDF(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	var buf [8]byte
	n, err := io.ReadFull(f, buf[:])
	if err != nil && err != io.ErrUnexpectedEOF {
		return false
	}
	head := string(buf[:n])
	if !strings.HasPrefix(head, "%PDF-1.") {
		return false
	}
	d := head[len("%PDF-1.")]
	return d >= '0' && d <= '9'
}

func (ctx *Context) ensureFontDict() error {
	if ctx.fontDictRef != 0 {
		return nil
	}
	ctx.fontDictRef = ctx.w.Alloc()
	dict := pdf.Dict{
		"F1": pdf.Dict{"Type": pdf.Name("Font"), "Subtype": pdf.Name("Type1"), "BaseFont": pdf.Name(ctx.cfg.textFont)},
		"F2": pdf.Dict{"Type": pdf.Name("Font"), "Subtype": pdf.Name("Type1"), "BaseFont": pdf.Name(ctx.cfg.labelFont)},
		"F3": pdf.Dict{"Type": pdf.Name("Font"), "Subtype": pdf.Name("Type1"), "BaseFont": pdf.Name(ctx.cfg.numberFont)},
	}
	return ctx.w.Put(ctx.fontDictRef, dict)
}

func (ctx *Context) ensureFormBytes() error {
	if ctx.formBytes != nil {
		return nil
	}
	var buf bytes.Buffer
	buf.Write(form.Render(ctx.formGeo))
	if ctx.cfg.formImage != "" {
		data, err := os.ReadFile(ctx.cfg.formImage)
		if err != nil {
			return &Error{Code: ErrBadJPEG, Cause: err}
		}
		printWidthIn := ctx.cfg.pageWidthIn - 2*ctx.cfg.sideMarginIn - 2*ctx.cfg.lineNumberWidthIn
		ref, invoke, err := form.EmbedJPEG(ctx.w, "Im0", data, printWidthIn, ctx.cfg.pageLengthIn, ctx.cfg.sideMarginIn)
		if err != nil {
			return &Error{Code: ErrBadJPEG, Cause: err}
		}
		ctx.imageRef = ref
		buf.WriteString(invoke)
	}
	ctx.formBytes = buf.Bytes()
	return nil
}

// flushPage renders the accumulated page, compresses it if beneficial,
// and writes its content-stream and page objects. The page's /Parent is
// a placeholder if this session's Pages leaf has not been allocated yet
// (it is allocated lazily at the next checkpoint or close).
func (ctx *Context) flushPage() error {
	if err := ctx.ensureFontDict(); err != nil {
		return err
	}
	if err := ctx.ensureFormBytes(); err != nil {
		return err
	}

	lines, maxLine := ctx.buf.Flush()

	var content bytes.Buffer
	content.Write(ctx.formBytes)
	layout.Render(&content, ctx.geo, "/F1", lines, maxLine)
	raw := content.Bytes()

	data, filter := ctx.compress(raw)

	contentRef := ctx.w.Alloc()
	if err := ctx.w.PutStream(contentRef, pdf.Dict{}, data, filter); err != nil {
		return ioErr(err)
	}

	// A page's Pages leaf is only allocated at the next checkpoint or
	// close, so every page's /Parent is a placeholder backpatched then.
	if ctx.pendingParentPH == nil {
		ctx.pendingParentPH = ctx.w.NewPlaceholder(10)
	}

	resources := pdf.Dict{"Font": ctx.fontDictRef}
	if ctx.imageRef != 0 {
		resources["XObject"] = pdf.Dict{"Im0": ctx.imageRef}
	}

	rect := pdf.Rectangle{LLx: 0, LLy: 0, URx: ctx.cfg.pageWidthIn * 72, URy: ctx.cfg.pageLengthIn * 72}
	pageRef := ctx.w.Alloc()
	pageDict := pdf.Dict{
		"Type":      pdf.Name("Page"),
		"Parent":    ctx.pendingParentPH,
		"MediaBox":  rect.AsArray(),
		"Resources": resources,
		"Contents":  contentRef,
	}
	if err := ctx.w.Put(pageRef, pageDict); err != nil {
		return ioErr(err)
	}
	ctx.sessionPages = append(ctx.sessionPages, pageRef)

	if ctx.lpiPending {
		ctx.geo.LPI = ctx.pendingLPI
		ctx.buf.SetGeometry(ctx.geo)
		ctx.lpiPending = false
	}
	return nil
}

// compress returns the LZW-encoded form of raw together with its
// /LZWDecode filter descriptor, unless the encoding is not strictly
// shorter or compression is disabled, in which case it returns raw
// unfiltered.
func (ctx *Context) compress(raw []byte) ([]byte, *pdf.FilterInfo) {
	if ctx.cfg.noLZW {
		return raw, nil
	}
	var buf bytes.Buffer
	lw, err := lzw.NewWriter(&buf, false)
	if err != nil {
		return raw, nil
	}
	if _, err := lw.Write(raw); err != nil {
		return raw, nil
	}
	if err := lw.Close(); err != nil {
		return raw, nil
	}
	if buf.Len() >= len(raw) {
		return raw, nil
	}
	return buf.Bytes(), &pdf.FilterInfo{Name: pdf.Name("LZWDecode"), Parms: pdf.Dict{"EarlyChange": pdf.Integer(0)}}
}
