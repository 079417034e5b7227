// Package layout accumulates one page's worth of logical lines and renders
// them into the text portion of a page's content stream. Lines persist
// across a page flush only through the top-of-form overflow-swap rule;
// everything else about a page's text is transient once rendered.
package layout

// Geometry carries the page and pitch parameters a Buffer and the
// renderer need. It is a plain value, not a Buffer field that can change
// mid-page: an LPI change (control.EventSetLPI) takes effect on the next
// page, per the page-granular decision recorded for that control.
type Geometry struct {
	PageWidthIn, PageLengthIn float64
	TopMarginIn               float64
	BottomMarginIn            float64
	SideMarginIn              float64
	CPI                       float64
	LPI                       int
	Cols                      int
	LineNumberWidthIn         float64

	// TOFOverride, when positive, replaces the top-margin-derived default
	// for TOF.
	TOFOverride int
}

// LPP returns the number of logical lines on a physical page at this
// geometry's pitch.
func (g Geometry) LPP() int {
	return int(g.PageLengthIn * float64(g.LPI))
}

// TOF returns the top-of-form offset: the 1-based logical line to which
// a form feed advances. Defaults to top-margin * LPI unless TOFOverride
// was set.
func (g Geometry) TOF() int {
	if g.TOFOverride > 0 {
		return g.TOFOverride
	}
	return int(g.TopMarginIn * float64(g.LPI))
}

// FontSize returns the point size at which body text is set: one line's
// height in 72nds-of-an-inch points.
func (g Geometry) FontSize() float64 {
	return 72.0 / float64(g.LPI)
}

// LeftMargin returns the horizontal text origin, in points, that centers
// a Cols-wide, CPI-pitched block of text within the printable width
// (page width less both side margins and, if present, the line-number
// columns on either side).
func (g Geometry) LeftMargin() float64 {
	textWidthPt := float64(g.Cols) / g.CPI * 72
	printableWidthPt := (g.PageWidthIn - 2*g.SideMarginIn - 2*g.LineNumberWidthIn) * 72
	return g.SideMarginIn*72 + g.LineNumberWidthIn*72 + (printableWidthPt-textWidthPt)/2
}

// Line is a single logical line: a sequence of chunks separated by
// carriage-return overstrikes. A fresh line has exactly one, empty,
// chunk.
type Line struct {
	chunks [][]uint16
}

func newLine() *Line {
	return &Line{chunks: [][]uint16{nil}}
}

// AppendChar appends a character code to the line's current chunk.
func (l *Line) AppendChar(code uint16) {
	last := len(l.chunks) - 1
	l.chunks[last] = append(l.chunks[last], code)
}

// Overstrike starts a new chunk at the line's start column, for the
// carriage-return-without-linefeed overprint idiom.
func (l *Line) Overstrike() {
	l.chunks = append(l.chunks, nil)
}

// Empty reports whether the line has received no characters at all.
func (l *Line) Empty() bool {
	for _, c := range l.chunks {
		if len(c) > 0 {
			return false
		}
	}
	return true
}

// Buffer accumulates one page's logical lines, including the overflow
// region [LPP+1, LPP+TOF] that survives a page flush via the swap rule.
type Buffer struct {
	geo         Geometry
	lines       []*Line // index 0 == logical line 1
	currentLine int     // 0 means no output yet this page
	maxLine     int     // highest 1-based line index touched
}

// NewBuffer returns an empty buffer sized for geo.
func NewBuffer(geo Geometry) *Buffer {
	return &Buffer{geo: geo, lines: make([]*Line, geo.LPP()+geo.TOF())}
}

func (b *Buffer) lineAt(n int) *Line {
	for n > len(b.lines) {
		b.lines = append(b.lines, nil)
	}
	if b.lines[n-1] == nil {
		b.lines[n-1] = newLine()
	}
	return b.lines[n-1]
}

func (b *Buffer) ensureStarted() {
	if b.currentLine == 0 {
		b.currentLine = b.geo.TOF() + 1
		b.touch(b.currentLine)
	}
}

func (b *Buffer) touch(n int) {
	if n > b.maxLine {
		b.maxLine = n
	}
}

// CurrentLine returns the 1-based line the next character will be
// written to (0 if nothing has been written yet this page).
func (b *Buffer) CurrentLine() int {
	return b.currentLine
}

// SetGeometry replaces the buffer's geometry for subsequent pages. It
// must only be called right after Flush, before any new writes: an LPI
// change recorded mid-page takes effect on the next page (the decision
// recorded on Geometry), and Flush is the one point where no line is
// partway through being written.
func (b *Buffer) SetGeometry(geo Geometry) {
	b.geo = geo
}

// WriteChar appends an ordinary character at the current line.
func (b *Buffer) WriteChar(code uint16) {
	b.ensureStarted()
	b.lineAt(b.currentLine).AppendChar(code)
	b.touch(b.currentLine)
}

// LineFeed advances to the next logical line and reports whether the
// physical page is now full (current line exceeds LPP+TOF, the extent
// of the overflow zone that can still survive into the next page), which
// the caller must respond to with an implicit flush before further
// writes. Lines in (LPP, LPP+TOF] are past the physical page but still
// addressable: Flush's swap rule carries them forward instead of
// discarding them.
func (b *Buffer) LineFeed() bool {
	b.ensureStarted()
	b.currentLine++
	b.touch(b.currentLine)
	return b.currentLine > b.geo.LPP()+b.geo.TOF()
}

// CarriageReturn starts an overstrike chunk on the current line.
func (b *Buffer) CarriageReturn() {
	b.ensureStarted()
	b.lineAt(b.currentLine).Overstrike()
}

// Flush returns the lines to render for the physical page (1..LPP,
// padded with nils for untouched lines) and the highest touched line
// within that range, then applies the overflow-swap rule: lines in
// [LPP+1, LPP+TOF] survive into the new page's [1, TOF], and the new
// page's current line starts at TOF+1 if any of them were non-empty.
func (b *Buffer) Flush() (rendered []*Line, maxRendered int) {
	lpp := b.geo.LPP()
	tof := b.geo.TOF()

	rendered = make([]*Line, lpp)
	maxRendered = b.maxLine
	if maxRendered > lpp {
		maxRendered = lpp
	}
	avail := lpp
	if len(b.lines) < avail {
		avail = len(b.lines)
	}
	copy(rendered, b.lines[:avail])

	next := make([]*Line, lpp+tof)
	anyNonEmpty := false
	for i := 0; i < tof; i++ {
		src := lpp + i
		if src < len(b.lines) && b.lines[src] != nil && !b.lines[src].Empty() {
			next[i] = b.lines[src]
			anyNonEmpty = true
		}
	}
	b.lines = next
	b.maxLine = 0
	for i := 0; i < tof; i++ {
		if next[i] != nil {
			b.maxLine = i + 1
		}
	}
	if anyNonEmpty {
		b.currentLine = tof + 1
		b.touch(b.currentLine)
	} else {
		b.currentLine = 0
	}
	return rendered, maxRendered
}
