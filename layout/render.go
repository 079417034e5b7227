package layout

import (
	"bytes"
	"fmt"
)

// Render writes the text portion of a page's content stream: the BT/ET
// text block laid over whatever static form bytes the caller has already
// written to buf. fontName is the resource name the page's font
// dictionary binds to the body-text font (e.g. "/F1").
func Render(buf *bytes.Buffer, geo Geometry, fontName string, lines []*Line, maxLine int) {
	size := geo.FontSize()
	lm := geo.LeftMargin()
	top := geo.PageLengthIn*72 - geo.TopMarginIn*72

	fmt.Fprintf(buf, "q 0 Tr 0 0 0 rg BT %s %s Tf 1 0 0 1 %s 0 Tm %s TL 0 Tc 100 Tz 0 %s Td\n",
		fontName, formatNum(size), formatNum(lm), formatNum(size), formatNum(top))

	for i := 0; i < maxLine; i++ {
		buf.WriteString("T*\n")
		var l *Line
		if i < len(lines) {
			l = lines[i]
		}
		writeLineChunks(buf, l)
	}

	buf.WriteString("ET Q\n")
}

func writeLineChunks(buf *bytes.Buffer, l *Line) {
	if l == nil || len(l.chunks) == 0 {
		buf.WriteString("() Tj\n")
		return
	}
	buf.WriteByte('(')
	for i, chunk := range l.chunks {
		if i > 0 {
			buf.WriteString(") Tj 0 0 Td (")
		}
		writeEscapedCodes(buf, chunk)
	}
	buf.WriteString(") Tj\n")
}

// writeEscapedCodes writes character codes as literal-string bytes,
// backslash-escaping '(', ')' and '\\' as the content-stream grammar
// requires. Codes above 0xFF cannot occur: the control parser only ever
// passes through single input bytes.
func writeEscapedCodes(buf *bytes.Buffer, codes []uint16) {
	for _, c := range codes {
		b := byte(c)
		switch b {
		case '(', ')', '\\':
			buf.WriteByte('\\')
		}
		buf.WriteByte(b)
	}
}

func formatNum(x float64) string {
	s := fmt.Sprintf("%.4f", x)
	// trim trailing zeros (and a trailing '.') for a tidier stream.
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	if i == 0 || (i == 1 && s[0] == '-') {
		return "0"
	}
	return s[:i]
}
