package pdf

import (
	"fmt"
	"io"
)

// XRefTable is an ordered, append-only sequence of file offsets indexed by
// object-number minus one. Entry 0 is reserved for the free-list head and
// is never assigned an offset by Alloc.
type XRefTable struct {
	offsets []int64
}

// NewXRefTable returns an empty table; object number 1 is the first object
// Alloc will hand out.
func NewXRefTable() *XRefTable {
	return &XRefTable{}
}

// Len returns the number of objects allocated so far (object numbers 1..Len).
func (t *XRefTable) Len() int { return len(t.offsets) }

// Reserve grows the table by one entry and returns the new object number.
func (t *XRefTable) Reserve(offset int64) uint32 {
	t.offsets = append(t.offsets, offset)
	return uint32(len(t.offsets))
}

// Set overwrites the recorded offset for an already-reserved object number,
// used once the object's actual framing position is known.
func (t *XRefTable) Set(num uint32, offset int64) {
	t.offsets[num-1] = offset
}

// Offset returns the recorded file offset for object number num.
func (t *XRefTable) Offset(num uint32) (int64, bool) {
	if num == 0 || int(num) > len(t.offsets) {
		return 0, false
	}
	return t.offsets[num-1], true
}

// WriteTable writes a classic PDF cross-reference section listing every
// object from 1 through Len, in the exact 20-byte-per-entry format required
// by PDF 32000-1:2008 §7.5.4: "oooooooooo ggggg n \n", with entry 0 being
// the free-list head "0000000000 65535 f \n". Returns the offset at which
// "xref" begins, for use as the startxref value.
func (t *XRefTable) WriteTable(w io.Writer, pos int64) (int64, error) {
	start := pos
	n, err := io.WriteString(w, "xref\n")
	if err != nil {
		return 0, err
	}
	pos += int64(n)

	m := len(t.offsets) + 1
	n, err = fmt.Fprintf(w, "0 %d\n", m)
	if err != nil {
		return 0, err
	}
	pos += int64(n)

	if _, err := io.WriteString(w, "0000000000 65535 f \n"); err != nil {
		return 0, err
	}
	for _, off := range t.offsets {
		if _, err := fmt.Fprintf(w, "%010d 00000 n \n", off); err != nil {
			return 0, err
		}
	}
	return start, nil
}
