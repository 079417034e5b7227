package pdf

import "time"

// Rectangle represents a PDF rectangle, used here only for /MediaBox.
type Rectangle struct {
	LLx, LLy, URx, URy float64
}

// Dx returns the width of the rectangle.
func (r *Rectangle) Dx() float64 { return r.URx - r.LLx }

// Dy returns the height of the rectangle.
func (r *Rectangle) Dy() float64 { return r.URy - r.LLy }

// AsArray returns the rectangle as a PDF array object.
func (r *Rectangle) AsArray() Array {
	return Array{Real(r.LLx), Real(r.LLy), Real(r.URx), Real(r.URy)}
}

// Date formats a time.Time as a PDF date string, "D:20060102150405-0700"
// with the timezone's last two digits set off by a quote, per PDF 32000-1:2008
// §7.9.4.
func Date(t time.Time) String {
	s := t.Format("D:20060102150405-0700")
	k := len(s) - 2
	s = s[:k] + "'" + s[k:]
	return String(s)
}

// ParseDate parses a PDF date string produced by Date, falling back to a
// zero time.Time if the format is unrecognized (this package only ever
// parses dates it wrote itself, as part of resuming an append session).
func ParseDate(s String) (time.Time, error) {
	str := string(s)
	str = stripQuote(str)
	formats := []string{
		"D:20060102150405-0700",
		"D:20060102150405Z",
		"D:20060102150405",
		"D:20060102",
	}
	var lastErr error
	for _, f := range formats {
		t, err := time.Parse(f, str)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func stripQuote(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
