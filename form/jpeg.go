package form

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/lptpdf/lptpdf/pdf"
)

// ErrBadJPEG reports that a form-image file failed the SOI/SOFn marker
// scan: either it is not a JPEG, or its marker chain is truncated before a
// frame header is reached.
var ErrBadJPEG = errors.New("lptpdf: not a usable JPEG")

// jpegDimensions scans a JPEG byte stream for its start-of-frame marker
// (SOF0-SOF3, the non-progressive, non-arithmetic frame kinds a viewer's
// baseline decoder can always handle) and returns the pixel width and
// height it declares, without decoding any image data.
func jpegDimensions(data []byte) (width, height int, err error) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return 0, 0, ErrBadJPEG
	}
	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			return 0, 0, ErrBadJPEG
		}
		marker := data[pos+1]
		pos += 2
		if marker == 0xD8 || marker == 0xD9 || (marker >= 0xD0 && marker <= 0xD7) {
			continue // markers with no length field
		}
		if pos+2 > len(data) {
			return 0, 0, ErrBadJPEG
		}
		segLen := int(data[pos])<<8 | int(data[pos+1])
		if segLen < 2 || pos+segLen > len(data) {
			return 0, 0, ErrBadJPEG
		}
		if marker >= 0xC0 && marker <= 0xC3 {
			if segLen < 7 {
				return 0, 0, ErrBadJPEG
			}
			height = int(data[pos+3])<<8 | int(data[pos+4])
			width = int(data[pos+5])<<8 | int(data[pos+6])
			return width, height, nil
		}
		pos += segLen
	}
	return 0, 0, ErrBadJPEG
}

// EmbedJPEG writes a /DCTDecode image XObject carrying data verbatim,
// and returns the PDF snippet (a cm transform plus a "/name Do" call)
// that scales it to printWidthIn and centers it vertically within
// pageLengthIn, for splicing into a form's content stream.
func EmbedJPEG(w *pdf.Writer, resourceName string, data []byte, printWidthIn, pageLengthIn, sideMarginIn float64) (ref pdf.Reference, invoke string, err error) {
	width, height, err := jpegDimensions(data)
	if err != nil {
		return 0, "", err
	}

	dict := pdf.Dict{
		"Type":             pdf.Name("XObject"),
		"Subtype":          pdf.Name("Image"),
		"Width":            pdf.Integer(width),
		"Height":           pdf.Integer(height),
		"BitsPerComponent": pdf.Integer(8),
		"ColorSpace":       pdf.Name("DeviceRGB"),
	}
	ref = w.Alloc()
	filter := pdf.FilterInfo{Name: pdf.Name("DCTDecode")}
	if err := w.PutStream(ref, dict, data, &filter); err != nil {
		return 0, "", err
	}

	printWidthPt := printWidthIn * 72
	imgHeightPt := printWidthPt * float64(height) / float64(width)
	yOffset := (pageLengthIn*72-imgHeightPt)/2

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "q %s 0 0 %s %s %s cm /%s Do Q\n",
		num(printWidthPt), num(imgHeightPt), num(sideMarginIn*72), num(yOffset), resourceName)
	return ref, buf.String(), nil
}
