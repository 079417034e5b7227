// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2022  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package lzw implements the variable-width LZW encoding used by PDF's
// LZWDecode filter (PDF 32000-1:2008 §7.4.4), not the GIF/TIFF variants the
// standard library's compress/lzw implements. Codes are packed MSB-first
// into 9-to-12-bit fields; 256 is the clear-table code, 257 is end-of-data,
// and 258 is the first code available for the dictionary. The boundary at
// which the code width grows is controlled by earlyChange, matching the
// filter's /EarlyChange decode parameter.
package lzw

import (
	"errors"
	"io"
)

var errClosed = errors.New("lzw: write after close")

const (
	clearCode    = 256
	eodCode      = 257
	firstCode    = 258
	maxCode      = 4096
	minCodeWidth = 9
	maxCodeWidth = 12
)

// Writer is an io.WriteCloser that LZW-encodes bytes written to it and
// writes the packed codes to the underlying writer. Close must be called to
// flush the final codes and any partial byte.
type Writer struct {
	bw          *bitWriter
	earlyChange bool

	table    map[uint32]uint16
	nextCode uint16
	width    uint

	prefix int32 // -1 when no pending prefix
	closed bool
}

// NewWriter returns a Writer that encodes to w. earlyChange selects whether
// the code width grows one code early, matching the filter's /EarlyChange
// decode parameter; the encoder and any decoder reading its output must
// agree on this flag.
func NewWriter(w io.Writer, earlyChange bool) (*Writer, error) {
	lw := &Writer{bw: newBitWriter(w), earlyChange: earlyChange}
	lw.resetTable()
	if err := lw.bw.writeBits(clearCode, lw.width); err != nil {
		return nil, err
	}
	return lw, nil
}

func (lw *Writer) resetTable() {
	lw.table = make(map[uint32]uint16)
	lw.nextCode = firstCode
	lw.width = minCodeWidth
	lw.prefix = -1
}

// Write implements io.Writer.
func (lw *Writer) Write(p []byte) (int, error) {
	if lw.closed {
		return 0, errClosed
	}
	for _, b := range p {
		if lw.prefix < 0 {
			lw.prefix = int32(b)
			continue
		}
		key := uint32(lw.prefix)<<8 | uint32(b)
		if code, ok := lw.table[key]; ok {
			lw.prefix = int32(code)
			continue
		}
		if err := lw.bw.writeBits(uint16(lw.prefix), lw.width); err != nil {
			return 0, err
		}
		if lw.nextCode < maxCode {
			lw.table[key] = lw.nextCode
			lw.nextCode++
			lw.growWidth()
		} else {
			if err := lw.bw.writeBits(clearCode, lw.width); err != nil {
				return 0, err
			}
			lw.resetTable()
		}
		lw.prefix = int32(b)
	}
	return len(p), nil
}

// growWidth widens the code once a code that no longer fits has been
// assigned: code 1<<width without earlyChange, one code earlier with it.
// The encoder runs one table entry ahead of the decoder, so this is the
// same point at which Reader.growWidth widens.
func (lw *Writer) growWidth() {
	if lw.width >= maxCodeWidth {
		return
	}
	boundary := uint16(1) << lw.width
	if lw.earlyChange {
		boundary--
	}
	if lw.nextCode > boundary {
		lw.width++
	}
}

// Close flushes the pending prefix, the end-of-data code, and any partial
// byte. It does not close the underlying writer.
func (lw *Writer) Close() error {
	if lw.closed {
		return nil
	}
	lw.closed = true
	if lw.prefix >= 0 {
		if err := lw.bw.writeBits(uint16(lw.prefix), lw.width); err != nil {
			return err
		}
		lw.prefix = -1
	}
	if err := lw.bw.writeBits(eodCode, lw.width); err != nil {
		return err
	}
	return lw.bw.flush()
}
