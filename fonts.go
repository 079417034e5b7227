package lptpdf

// Font names one of the 14 standard PDF core fonts. These are the only
// fonts this engine ever references: it names them in a page's font
// dictionary and relies on every conforming viewer to supply the glyphs,
// the same way the original system's global font table did, now as
// constants rather than mutable state.
type Font string

const (
	FontCourier              Font = "Courier"
	FontCourierBold          Font = "Courier-Bold"
	FontCourierOblique       Font = "Courier-Oblique"
	FontCourierBoldOblique   Font = "Courier-BoldOblique"
	FontHelvetica            Font = "Helvetica"
	FontHelveticaBold        Font = "Helvetica-Bold"
	FontHelveticaOblique     Font = "Helvetica-Oblique"
	FontHelveticaBoldOblique Font = "Helvetica-BoldOblique"
	FontTimesRoman           Font = "Times-Roman"
	FontTimesBold            Font = "Times-Bold"
	FontTimesItalic          Font = "Times-Italic"
	FontTimesBoldItalic      Font = "Times-BoldItalic"
	FontSymbol               Font = "Symbol"
	FontZapfDingbats         Font = "ZapfDingbats"
)

// coreFonts lists every valid Font value, in the table order get_fontlist
// documents.
var coreFonts = []Font{
	FontCourier, FontCourierBold, FontCourierOblique, FontCourierBoldOblique,
	FontHelvetica, FontHelveticaBold, FontHelveticaOblique, FontHelveticaBoldOblique,
	FontTimesRoman, FontTimesBold, FontTimesItalic, FontTimesBoldItalic,
	FontSymbol, FontZapfDingbats,
}

// isCoreFont reports whether name is one of the 14 standard fonts.
func isCoreFont(name Font) bool {
	for _, f := range coreFonts {
		if f == name {
			return true
		}
	}
	return false
}

// FontList returns the names of the 14 standard PDF core fonts this
// engine can reference by name.
func FontList() []string {
	out := make([]string, len(coreFonts))
	for i, f := range coreFonts {
		out[i] = string(f)
	}
	return out
}

// FormList returns the names of the five background form styles.
func FormList() []string {
	return []string{"PLAIN", "GREENBAR", "BLUEBAR", "GRAYBAR", "YELLOWBAR"}
}
