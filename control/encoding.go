package control

import "golang.org/x/text/encoding/charmap"

// validDocByte treats b as a PDFDocEncoding-compatible codepoint: bytes
// below 0xA0 pass through unchanged (they agree with plain ASCII and
// Latin-1 in that range), and bytes from 0xA0 up are accepted only if
// charmap.Windows1252 — the closest widely available stand-in for
// PDFDocEncoding's upper half — defines them; an undefined byte renders
// as a space rather than an arbitrary codepoint.
func validDocByte(b byte) byte {
	if b < 0xA0 {
		return b
	}
	if _, err := charmap.Windows1252.NewDecoder().Bytes([]byte{b}); err != nil {
		return ' '
	}
	return b
}
