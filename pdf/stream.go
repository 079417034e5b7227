package pdf

import "io"

// FilterInfo names a single stream filter and its decode parameters. This
// engine only ever produces /LZWDecode with /EarlyChange 0, or no filter
// at all.
type FilterInfo struct {
	Name  Name
	Parms Dict
}

// Stream is a PDF stream object: a dictionary plus raw, already-encoded
// byte content. Build one with NewStream, which fills in /Length (and
// /Filter, /DecodeParms) automatically.
type Stream struct {
	Dict Dict
	Data []byte
}

func (s *Stream) PDF(w io.Writer) error {
	if err := s.Dict.PDF(w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\nstream\n"); err != nil {
		return err
	}
	if _, err := w.Write(s.Data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\nendstream")
	return err
}

// NewStream builds a stream object, optionally compressed. If filter is
// non-nil, data is assumed to already be encoded with that filter.
func NewStream(dict Dict, data []byte, filter *FilterInfo) *Stream {
	if dict == nil {
		dict = Dict{}
	}
	d := Dict{}
	for k, v := range dict {
		d[k] = v
	}
	d["Length"] = Integer(len(data))
	if filter != nil {
		d["Filter"] = filter.Name
		if filter.Parms != nil {
			d["DecodeParms"] = filter.Parms
		}
	}
	return &Stream{Dict: d, Data: data}
}
