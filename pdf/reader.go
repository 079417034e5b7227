package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Reader resumes an append session on a file this package wrote. It is
// deliberately not a general PDF parser: it understands exactly the single,
// complete classic cross-reference section and trailer this package's own
// Writer produces at every close, and nothing else (no /Prev chains, no
// cross-reference streams, no object streams). Opening a file this package
// did not write returns a *MalformedFileError.
type Reader struct {
	f       *os.File
	xref    map[uint32]int64
	Trailer Dict
}

const tailScanWindow = 2048

// OpenReader locates the most recent trailer and cross-reference table in
// f and prepares to resolve the indirect references it names.
func OpenReader(f *os.File) (*Reader, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	startxref, err := findStartXref(f, size)
	if err != nil {
		return nil, &MalformedFileError{Err: err, Pos: size}
	}

	xref, trailerOff, err := readXRefSection(f, startxref)
	if err != nil {
		return nil, &MalformedFileError{Err: err, Pos: startxref}
	}
	trailer, err := readTrailerDict(f, trailerOff)
	if err != nil {
		return nil, &MalformedFileError{Err: err, Pos: trailerOff}
	}

	return &Reader{f: f, xref: xref, Trailer: trailer}, nil
}

func findStartXref(f *os.File, size int64) (int64, error) {
	window := int64(tailScanWindow)
	if window > size {
		window = size
	}
	buf := make([]byte, window)
	if _, err := f.ReadAt(buf, size-window); err != nil && err != io.EOF {
		return 0, err
	}
	idx := bytes.LastIndex(buf, []byte("startxref"))
	if idx < 0 {
		return 0, errNoStartXref
	}
	if !bytes.Contains(buf[idx:], []byte("%%EOF")) {
		return 0, errNoEOF
	}
	rest := buf[idx+len("startxref"):]
	p := newParser(rest)
	p.skipWS()
	v, _, err := p.parseNumberToken()
	if err != nil {
		return 0, errNoStartXref
	}
	return v, nil
}

// readXRefSection reads the "xref\n0 N\n<entries>" section at off and
// returns the object-number-to-offset map together with the file offset
// immediately after the section, where the "trailer" keyword and dictionary
// follow.
func readXRefSection(f *os.File, off int64) (map[uint32]int64, int64, error) {
	tail, err := readTail(f, off)
	if err != nil {
		return nil, 0, err
	}
	p := newParser(tail)
	if !p.match("xref") {
		return nil, 0, fmt.Errorf("pdf: expected \"xref\" at offset %d", off)
	}
	p.skipWS()
	_, _, err = p.parseNumberToken() // first object number, always 0
	if err != nil {
		return nil, 0, err
	}
	p.skipWS()
	count, _, err := p.parseNumberToken()
	if err != nil {
		return nil, 0, err
	}

	result := make(map[uint32]int64, count)
	for i := int64(0); i < count; i++ {
		p.skipWS()
		if p.pos+20 > len(p.data) {
			return nil, 0, fmt.Errorf("pdf: truncated cross-reference entry %d", i)
		}
		entry := p.data[p.pos : p.pos+20]
		p.pos += 20
		var offset int64
		var gen int
		if _, err := fmt.Sscanf(string(entry[:10]), "%d", &offset); err != nil {
			return nil, 0, err
		}
		if _, err := fmt.Sscanf(string(entry[11:16]), "%d", &gen); err != nil {
			return nil, 0, err
		}
		_ = gen
		kind := entry[17]
		if i > 0 && kind == 'n' {
			result[uint32(i)] = offset
		}
	}
	return result, off + int64(p.pos), nil
}

func readTrailerDict(f *os.File, off int64) (Dict, error) {
	tail, err := readTail(f, off)
	if err != nil {
		return nil, err
	}
	p := newParser(tail)
	p.skipWS()
	if !p.match("trailer") {
		return nil, fmt.Errorf("pdf: expected \"trailer\" at offset %d", off)
	}
	d, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	dict, ok := d.(Dict)
	if !ok {
		return nil, &UnexpectedTypeError{Want: "dict", Got: fmt.Sprintf("%T", d)}
	}
	return dict, nil
}

// readTail reads from off to end of file.
func readTail(f *os.File, off int64) ([]byte, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if off > size {
		return nil, fmt.Errorf("pdf: offset %d beyond end of file (%d)", off, size)
	}
	buf := make([]byte, size-off)
	if _, err := f.ReadAt(buf, off); err != nil && err != io.EOF {
		return nil, err
	}
	return buf, nil
}

// Resolve reads and parses the dictionary (or stream dictionary) for ref.
// Streams are returned as a *Stream with Data populated from the /Length
// bytes following the "stream" keyword.
func (r *Reader) Resolve(ref Reference) (Object, error) {
	off, ok := r.xref[ref.Number()]
	if !ok {
		return nil, fmt.Errorf("pdf: object %d not present in cross-reference table", ref.Number())
	}
	tail, err := readTail(r.f, off)
	if err != nil {
		return nil, err
	}
	p := newParser(tail)
	p.skipWS()
	if _, _, err := p.parseNumberToken(); err != nil {
		return nil, err
	}
	p.skipWS()
	if _, _, err := p.parseNumberToken(); err != nil {
		return nil, err
	}
	p.skipWS()
	if !p.match("obj") {
		return nil, fmt.Errorf("pdf: expected \"obj\" at offset %d", off)
	}
	val, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	dict, isDict := val.(Dict)
	if !isDict {
		return val, nil
	}
	p.skipWS()
	if !p.match("stream") {
		return dict, nil
	}
	// "stream" is followed by CRLF or LF, then exactly /Length data bytes.
	if p.pos < len(p.data) && p.data[p.pos] == '\r' {
		p.pos++
	}
	if p.pos < len(p.data) && p.data[p.pos] == '\n' {
		p.pos++
	}
	length, ok := dict["Length"].(Integer)
	if !ok {
		return nil, &UnexpectedTypeError{Want: "Integer", Got: fmt.Sprintf("%T", dict["Length"])}
	}
	if p.pos+int(length) > len(p.data) {
		return nil, fmt.Errorf("pdf: stream shorter than /Length at offset %d", off)
	}
	data := p.data[p.pos : p.pos+int(length)]
	return &Stream{Dict: dict, Data: data}, nil
}

// MaxObjectNumber returns the highest object number referenced in the
// cross-reference table, i.e. the last number new objects must continue
// after.
func (r *Reader) MaxObjectNumber() uint32 {
	var max uint32
	for n := range r.xref {
		if n > max {
			max = n
		}
	}
	return max
}

// Offset returns the raw file offset recorded for object number num, for
// preloading a fresh XRefTable when resuming an append session.
func (r *Reader) Offset(num uint32) (int64, bool) {
	off, ok := r.xref[num]
	return off, ok
}
