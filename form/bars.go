package form

import (
	"bytes"
	"fmt"
)

// Type names a background style. PLAIN omits bars and the enclosing
// rectangle entirely; the other four select a band color.
type Type int

const (
	Plain Type = iota
	Greenbar
	Bluebar
	Graybar
	Yellowbar
)

// barColor gives the fill for the even-indexed (shaded) bands of each
// form type. These are representative values, not the product's tuned
// palette; exact bar-color constants are a presentation detail this tree
// does not reproduce.
func barColor(t Type) (r, g, b float64) {
	switch t {
	case Greenbar:
		return 0.80, 0.94, 0.80
	case Bluebar:
		return 0.80, 0.88, 0.96
	case Graybar:
		return 0.88, 0.88, 0.88
	case Yellowbar:
		return 0.98, 0.95, 0.78
	default:
		return 1, 1, 1
	}
}

// writeBars fills alternating horizontal bands across the printable
// region (even-indexed bands shaded, odd left white), draws an enclosing
// rounded rectangle, and, if lineNumberWidthIn > 0, inner dividers
// separating the line-number columns from the text area. Plain forms
// draw nothing.
func writeBars(buf *bytes.Buffer, t Type, pageWidthIn, pageLengthIn, sideMarginIn, barHeightIn, lineNumberWidthIn float64) {
	if t == Plain {
		return
	}

	left := sideMarginIn * 72
	right := (pageWidthIn - sideMarginIn) * 72
	top := (pageLengthIn - sideMarginIn) * 72
	bottom := sideMarginIn * 72
	width := right - left
	height := top - bottom

	r, g, b := barColor(t)
	buf.WriteString("q\n")
	fmt.Fprintf(buf, "%s %s %s rg\n", num(r), num(g), num(b))
	bandH := barHeightIn * 72
	for y, i := top, 0; y > bottom; y, i = y-bandH, i+1 {
		if i%2 != 0 {
			continue
		}
		h := bandH
		if y-h < bottom {
			h = y - bottom
		}
		fmt.Fprintf(buf, "%s %s %s %s re f\n", num(left), num(y-h), num(width), num(h))
	}

	corner := lineNumberWidthIn / 2 * 72
	buf.WriteString("0 0 0 RG 0.5 w\n")
	writeRoundedRect(buf, left, bottom, width, height, corner)

	if lineNumberWidthIn > 0 {
		lw := lineNumberWidthIn * 72
		fmt.Fprintf(buf, "%s %s m %s %s l S\n", num(left+lw), num(bottom), num(left+lw), num(top))
		fmt.Fprintf(buf, "%s %s m %s %s l S\n", num(right-lw), num(bottom), num(right-lw), num(top))
	}
	buf.WriteString("Q\n")
}

// writeRoundedRect draws a rectangle of the given corner radius using
// four straight edges and four quarter-circle Bézier corners, stroked
// but not filled.
func writeRoundedRect(buf *bytes.Buffer, x, y, w, h, r float64) {
	if r <= 0 {
		fmt.Fprintf(buf, "%s %s %s %s re S\n", num(x), num(y), num(w), num(h))
		return
	}
	k := r * sprocketKappa
	x0, y0, x1, y1 := x, y, x+w, y+h

	fmt.Fprintf(buf, "%s %s m\n", num(x0+r), num(y0))
	fmt.Fprintf(buf, "%s %s l\n", num(x1-r), num(y0))
	fmt.Fprintf(buf, "%s %s %s %s %s %s c\n", num(x1-r+k), num(y0), num(x1), num(y0+r-k), num(x1), num(y0+r))
	fmt.Fprintf(buf, "%s %s l\n", num(x1), num(y1-r))
	fmt.Fprintf(buf, "%s %s %s %s %s %s c\n", num(x1), num(y1-r+k), num(x1-r+k), num(y1), num(x1-r), num(y1))
	fmt.Fprintf(buf, "%s %s l\n", num(x0+r), num(y1))
	fmt.Fprintf(buf, "%s %s %s %s %s %s c\n", num(x0+r-k), num(y1), num(x0), num(y1-r+k), num(x0), num(y1-r))
	fmt.Fprintf(buf, "%s %s l\n", num(x0), num(y0+r))
	fmt.Fprintf(buf, "%s %s %s %s %s %s c\n", num(x0), num(y0+r-k), num(x0+r-k), num(y0), num(x0+r), num(y0))
	buf.WriteString("S\n")
}

// Name returns the form type's option-table spelling.
func (t Type) Name() string {
	switch t {
	case Plain:
		return "PLAIN"
	case Greenbar:
		return "GREENBAR"
	case Bluebar:
		return "BLUEBAR"
	case Graybar:
		return "GRAYBAR"
	case Yellowbar:
		return "YELLOWBAR"
	default:
		return ""
	}
}

// ParseType maps an option-table spelling to a Type, reporting ok=false
// for anything else.
func ParseType(name string) (Type, bool) {
	switch name {
	case "PLAIN":
		return Plain, true
	case "GREENBAR":
		return Greenbar, true
	case "BLUEBAR":
		return Bluebar, true
	case "GRAYBAR":
		return Graybar, true
	case "YELLOWBAR":
		return Yellowbar, true
	default:
		return Plain, false
	}
}
