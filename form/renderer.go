// Package form renders the static, per-page background that imitates
// continuous-feed lineprinter stationery: tractor-feed sprocket holes,
// an optional bar pattern or embedded JPEG backdrop, and optional
// line-number label columns. A form's bytes are the same for every page
// in a session, so the renderer computes them once and the caller
// splices the result ahead of each page's own text block.
package form

import "bytes"

// Geometry carries the page dimensions and form-specific parameters the
// renderer needs, independent of the pitch/line state layout.Geometry
// tracks for body text.
type Geometry struct {
	PageWidthIn, PageLengthIn   float64
	TopMarginIn, BottomMarginIn float64
	SideMarginIn                float64
	LineNumberWidthIn           float64
	BarHeightIn                 float64
	FormType                    Type
	LabelFontName               string // resource name bound to the label font, e.g. "/F2"
}

// Render returns the static background content-stream bytes for one
// page: sprocket holes, bars/enclosure (unless FormType is Plain), and
// line-number columns (unless LineNumberWidthIn is 0). An image
// background, when present, is appended separately by the caller via
// the invocation string EmbedJPEG returns, since that requires a
// Writer to allocate the XObject.
func Render(geo Geometry) []byte {
	var buf bytes.Buffer

	writeSprockets(&buf, geo.PageWidthIn, geo.PageLengthIn)
	writeBars(&buf, geo.FormType, geo.PageWidthIn, geo.PageLengthIn, geo.SideMarginIn, geo.BarHeightIn, geo.LineNumberWidthIn)
	writeLineNumberColumns(&buf, geo.LabelFontName, geo.PageWidthIn, geo.PageLengthIn,
		geo.TopMarginIn, geo.BottomMarginIn, geo.SideMarginIn, geo.LineNumberWidthIn)

	return buf.Bytes()
}
