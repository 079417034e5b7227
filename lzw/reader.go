package lzw

import (
	"errors"
	"io"
)

var errInvalidCode = errors.New("lzw: invalid code in input")

// Reader is an io.ReadCloser that decodes an LZW-encoded stream produced by
// Writer. earlyChange must match the value the encoder used.
type Reader struct {
	br          *bitReader
	earlyChange bool

	table    map[uint16][]byte
	nextCode uint16
	width    uint
	prev     []byte

	pending []byte
	err     error
}

// NewReader returns a Reader decoding r.
func NewReader(r io.Reader, earlyChange bool) *Reader {
	lr := &Reader{br: newBitReader(r), earlyChange: earlyChange}
	lr.resetTable()
	return lr
}

func (lr *Reader) resetTable() {
	lr.table = make(map[uint16][]byte, maxCode)
	for i := 0; i < 256; i++ {
		lr.table[uint16(i)] = []byte{byte(i)}
	}
	lr.nextCode = firstCode
	lr.width = minCodeWidth
	lr.prev = nil
}

func (lr *Reader) growWidth() {
	if lr.width >= maxCodeWidth {
		return
	}
	boundary := uint16(1) << lr.width
	if lr.earlyChange {
		boundary--
	}
	if lr.nextCode >= boundary {
		lr.width++
	}
}

// Read implements io.Reader.
func (lr *Reader) Read(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		if len(lr.pending) > 0 {
			n := copy(p[total:], lr.pending)
			lr.pending = lr.pending[n:]
			total += n
			continue
		}
		if lr.err != nil {
			if total > 0 {
				return total, nil
			}
			return 0, lr.err
		}
		if !lr.decodeOne() {
			if total > 0 {
				return total, nil
			}
			return 0, lr.err
		}
	}
	return total, nil
}

// decodeOne decodes a single code into lr.pending, handling clear codes
// transparently. It returns false once end-of-data or an error is reached.
func (lr *Reader) decodeOne() bool {
	for {
		code, err := lr.br.readBits(lr.width)
		if err != nil {
			lr.err = err
			return false
		}
		switch {
		case code == clearCode:
			lr.resetTable()
			continue
		case code == eodCode:
			lr.err = io.EOF
			return false
		}

		var entry []byte
		switch {
		case lr.table[code] != nil || code < 256:
			entry = lr.table[code]
		case code == lr.nextCode && lr.prev != nil:
			entry = append(append([]byte{}, lr.prev...), lr.prev[0])
		default:
			lr.err = errInvalidCode
			return false
		}
		if entry == nil {
			lr.err = errInvalidCode
			return false
		}

		if lr.prev != nil && lr.nextCode < maxCode {
			newEntry := append(append([]byte{}, lr.prev...), entry[0])
			lr.table[lr.nextCode] = newEntry
			lr.nextCode++
			lr.growWidth()
		}
		lr.prev = entry
		lr.pending = entry
		return true
	}
}

// Close implements io.Closer. The reader holds no resources beyond the
// underlying io.Reader, which it does not own.
func (lr *Reader) Close() error {
	return nil
}
