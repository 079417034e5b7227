package form

import (
	"bytes"
	"fmt"
)

// writeLineNumberColumns emits the two line-number label columns: a left
// column counting 1..N at 6 LPI scaled to 55% of that pitch's line
// height, and a right column counting 1..M at 8 LPI scaled to 65%. Both
// run from the top margin down, independent of the body text's own LPI.
func writeLineNumberColumns(buf *bytes.Buffer, fontName string, pageWidthIn, pageLengthIn, topMarginIn, bottomMarginIn, sideMarginIn, lineNumberWidthIn float64) {
	if lineNumberWidthIn <= 0 {
		return
	}
	printableIn := pageLengthIn - topMarginIn - bottomMarginIn
	n := int(printableIn * 6)
	m := int(printableIn * 8)

	leftX := sideMarginIn * 72
	rightX := (pageWidthIn - sideMarginIn - lineNumberWidthIn) * 72

	writeNumberColumn(buf, fontName, leftX, pageLengthIn-topMarginIn, n, 6, 0.55)
	writeNumberColumn(buf, fontName, rightX, pageLengthIn-topMarginIn, m, 8, 0.65)
}

// writeNumberColumn writes count labels downward from one line below
// topYIn, the height of the top margin above the page bottom.
func writeNumberColumn(buf *bytes.Buffer, fontName string, x, topYIn float64, count, lpi int, scale float64) {
	if count <= 0 {
		return
	}
	lineHeight := 72.0 / float64(lpi)
	size := lineHeight * scale
	top := topYIn*72 - lineHeight

	buf.WriteString("q 0 Tr 0 0 0 rg BT\n")
	fmt.Fprintf(buf, "%s %s Tf 1 0 0 1 %s %s Tm %s TL\n",
		fontName, num(size), num(x), num(top), num(lineHeight))
	for i := 1; i <= count; i++ {
		if i > 1 {
			buf.WriteString("T*\n")
		}
		fmt.Fprintf(buf, "(%d) Tj\n", i)
	}
	buf.WriteString("ET Q\n")
}
