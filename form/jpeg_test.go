package form

import "testing"

// fakeJPEG builds a minimal SOI + SOF0 + EOI byte stream with the given
// pixel dimensions, enough for jpegDimensions to parse.
func fakeJPEG(width, height int) []byte {
	b := []byte{0xFF, 0xD8} // SOI
	// SOF0, length 8 (len field includes itself), precision 8 bits.
	seg := []byte{
		0xFF, 0xC0,
		0x00, 0x08,
		0x08,
		byte(height >> 8), byte(height),
		byte(width >> 8), byte(width),
	}
	b = append(b, seg...)
	b = append(b, 0xFF, 0xD9) // EOI
	return b
}

func TestJPEGDimensions(t *testing.T) {
	data := fakeJPEG(1275, 150)
	w, h, err := jpegDimensions(data)
	if err != nil {
		t.Fatalf("jpegDimensions: %v", err)
	}
	if w != 1275 || h != 150 {
		t.Errorf("got (%d, %d), want (1275, 150)", w, h)
	}
}

func TestJPEGDimensionsRejectsNonJPEG(t *testing.T) {
	if _, _, err := jpegDimensions([]byte("not a jpeg")); err != ErrBadJPEG {
		t.Errorf("err = %v, want ErrBadJPEG", err)
	}
}

func TestJPEGDimensionsRejectsTruncated(t *testing.T) {
	data := []byte{0xFF, 0xD8, 0xFF, 0xC0, 0x00, 0x08}
	if _, _, err := jpegDimensions(data); err != ErrBadJPEG {
		t.Errorf("err = %v, want ErrBadJPEG", err)
	}
}
