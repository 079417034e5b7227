package pdf

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"golang.org/x/exp/maps"
)

// Object is implemented by every native PDF value type this package knows
// how to serialize.
type Object interface {
	// PDF writes the object's wire representation to w.
	PDF(w io.Writer) error
}

// Reference is an indirect reference to an object, "N 0 R". Generation
// numbers are always 0: even Writer.Rewrite, which re-emits an object under
// a number that is already in use, keeps generation 0.
type Reference uint32

func (ref Reference) PDF(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d 0 R", uint32(ref))
	return err
}

// Number returns the object number, 1-based.
func (ref Reference) Number() uint32 { return uint32(ref) }

func (ref Reference) String() string {
	return strconv.FormatUint(uint64(ref), 10) + " 0 R"
}

// Name is a PDF name object, "/Foo".
type Name string

func (n Name) PDF(w io.Writer) error {
	_, err := io.WriteString(w, "/"+escapeName(string(n)))
	return err
}

// Integer is a PDF integer object.
type Integer int64

func (x Integer) PDF(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d", int64(x))
	return err
}

// Real is a PDF real-number object.
type Real float64

func (x Real) PDF(w io.Writer) error {
	_, err := io.WriteString(w, formatReal(float64(x)))
	return err
}

// Bool is a PDF boolean object.
type Bool bool

func (b Bool) PDF(w io.Writer) error {
	if b {
		_, err := io.WriteString(w, "true")
		return err
	}
	_, err := io.WriteString(w, "false")
	return err
}

// String is a PDF literal string object. Bytes are PDFDocEncoding-compatible
// codepoints; this package never transcodes them.
type String []byte

func (s String) PDF(w io.Writer) error {
	if err := writeByte(w, '('); err != nil {
		return err
	}
	if err := escapeLiteralString(w, s); err != nil {
		return err
	}
	return writeByte(w, ')')
}

// HexString is a PDF hexadecimal string object, "<...>". Used for the
// trailer's /ID array, which carries a pair of hex-encoded fingerprints.
type HexString []byte

func (s HexString) PDF(w io.Writer) error {
	if err := writeByte(w, '<'); err != nil {
		return err
	}
	if _, err := io.WriteString(w, hexEncode(s)); err != nil {
		return err
	}
	return writeByte(w, '>')
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, 2*len(b))
	for i, c := range b {
		out[2*i] = digits[c>>4]
		out[2*i+1] = digits[c&0xf]
	}
	return string(out)
}

// Array is a PDF array object.
type Array []Object

func (a Array) PDF(w io.Writer) error {
	if err := writeByte(w, '['); err != nil {
		return err
	}
	for i, obj := range a {
		if i > 0 {
			if err := writeByte(w, ' '); err != nil {
				return err
			}
		}
		if obj == nil {
			if _, err := io.WriteString(w, "null"); err != nil {
				return err
			}
			continue
		}
		if err := obj.PDF(w); err != nil {
			return err
		}
	}
	return writeByte(w, ']')
}

// Dict is a PDF dictionary object. Keys are written in sorted order so that
// output is deterministic and diffable across runs.
type Dict map[Name]Object

func (d Dict) PDF(w io.Writer) error {
	if _, err := io.WriteString(w, "<< "); err != nil {
		return err
	}
	keys := maps.Keys(d)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		v := d[k]
		if v == nil {
			continue
		}
		if err := k.PDF(w); err != nil {
			return err
		}
		if err := writeByte(w, ' '); err != nil {
			return err
		}
		if err := v.PDF(w); err != nil {
			return err
		}
		if err := writeByte(w, ' '); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ">>")
	return err
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func escapeName(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '#' || c <= 0x20 || c >= 0x7f || c == '/' || c == '(' || c == ')' || c == '<' || c == '>' || c == '[' || c == ']' || c == '{' || c == '}' || c == '%' {
			out = append(out, '#', hexDigit(c>>4), hexDigit(c&0xf))
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

func hexDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'a' + n - 10
}

// escapeLiteralString writes s between the parentheses of a PDF literal
// string, backslash-escaping '(', ')' and '\\' as the PDF literal-string
// grammar requires, for both content-stream text and string objects.
func escapeLiteralString(w io.Writer, s []byte) error {
	for _, c := range s {
		switch c {
		case '(', ')', '\\':
			if err := writeByte(w, '\\'); err != nil {
				return err
			}
		}
		if err := writeByte(w, c); err != nil {
			return err
		}
	}
	return nil
}

func formatReal(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	return s
}
