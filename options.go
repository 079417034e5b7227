package lptpdf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lptpdf/lptpdf/form"
)

// FileRequire selects how Open treats the target path's existing
// contents.
type FileRequire int

const (
	// RequireNew demands an empty or absent file.
	RequireNew FileRequire = iota
	// RequireAppend demands a valid PDF this engine produced, to extend.
	RequireAppend
	// RequireReplace truncates any existing file before writing.
	RequireReplace
)

// Option names one configurable aspect of a session. Values are set
// through Context.Set before the first byte is printed; set returns
// *Error{Code: ErrActive} once output has begun.
type Option int

const (
	OptFileRequire Option = iota
	OptPageWidth
	OptPageLength
	OptTopMargin
	OptBottomMargin
	OptSideMargin
	OptCPI
	OptLPI
	OptCols
	OptTOFOffset
	OptLineNumberWidth
	OptBarHeight
	OptFormType
	OptFormImage
	OptTextFont
	OptNumberFont
	OptLabelFont
	OptTitle
	OptNoLZW
)

// config holds every session parameter Set can change, with the
// option table's defaults.
type config struct {
	fileRequire FileRequire

	pageWidthIn, pageLengthIn                 float64
	topMarginIn, bottomMarginIn, sideMarginIn float64
	cpi                                       float64
	lpi                                       int
	cols                                      int
	tofOffset                                 int // 0 means "use top margin * LPI"
	lineNumberWidthIn                         float64
	barHeightIn                               float64

	formType  form.Type
	formImage string

	textFont, numberFont, labelFont Font
	title                           string
	noLZW                           bool
}

func defaultConfig() config {
	return config{
		fileRequire:        RequireNew,
		pageWidthIn:        14.875,
		pageLengthIn:       11.000,
		topMarginIn:        1.000,
		bottomMarginIn:     0.500,
		sideMarginIn:       0.470,
		cpi:                10,
		lpi:                6,
		cols:               132,
		lineNumberWidthIn:  0.100,
		barHeightIn:        0.500,
		formType:           form.Greenbar,
		textFont:           FontCourier,
		numberFont:         FontTimesRoman,
		labelFont:          FontTimesBold,
		title:              "Lineprinter data",
	}
}

// parseLength parses a linear-measurement value in "in", "cm" or "mm"
// (unit defaults to "in" if omitted) and returns inches.
func parseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	unit := "in"
	for _, u := range []string{"cm", "mm", "in"} {
		if strings.HasSuffix(s, u) {
			unit = u
			s = strings.TrimSuffix(s, u)
			break
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	switch unit {
	case "cm":
		return v / 2.54, nil
	case "mm":
		return v / 25.4, nil
	default:
		return v, nil
	}
}

// Set configures one option on ctx. It fails with ErrActive if any
// output has already been produced this session, and with ErrInvalid or
// ErrNegativeValue if val doesn't parse or is out of range for opt.
func (ctx *Context) Set(opt Option, val string) error {
	if ctx.active {
		return &Error{Code: ErrActive}
	}

	switch opt {
	case OptFileRequire:
		switch val {
		case "NEW":
			ctx.cfg.fileRequire = RequireNew
		case "APPEND":
			ctx.cfg.fileRequire = RequireAppend
		case "REPLACE":
			ctx.cfg.fileRequire = RequireReplace
		default:
			return &Error{Code: ErrInvalid, Detail: fmt.Sprintf("unknown file-require %q", val)}
		}
	case OptPageWidth:
		return ctx.setLength(&ctx.cfg.pageWidthIn, val)
	case OptPageLength:
		return ctx.setLength(&ctx.cfg.pageLengthIn, val)
	case OptTopMargin:
		return ctx.setLength(&ctx.cfg.topMarginIn, val)
	case OptBottomMargin:
		return ctx.setLength(&ctx.cfg.bottomMarginIn, val)
	case OptSideMargin:
		return ctx.setLength(&ctx.cfg.sideMarginIn, val)
	case OptLineNumberWidth:
		return ctx.setLength(&ctx.cfg.lineNumberWidthIn, val)
	case OptBarHeight:
		return ctx.setLength(&ctx.cfg.barHeightIn, val)
	case OptCPI:
		v, err := strconv.ParseFloat(val, 64)
		if err != nil || v <= 0 {
			return &Error{Code: ErrInvalid, Detail: "cpi must be a positive number"}
		}
		ctx.cfg.cpi = v
	case OptLPI:
		v, err := strconv.Atoi(val)
		if err != nil || (v != 6 && v != 8) {
			return &Error{Code: ErrInvalid, Detail: "lpi must be 6 or 8"}
		}
		ctx.cfg.lpi = v
	case OptCols:
		v, err := strconv.Atoi(val)
		if err != nil || v <= 0 {
			return &Error{Code: ErrNegativeValue}
		}
		ctx.cfg.cols = v
	case OptTOFOffset:
		v, err := strconv.Atoi(val)
		if err != nil || v < 0 {
			return &Error{Code: ErrNegativeValue}
		}
		ctx.cfg.tofOffset = v
	case OptFormType:
		t, ok := form.ParseType(val)
		if !ok {
			return &Error{Code: ErrUnknownForm, Detail: val}
		}
		ctx.cfg.formType = t
		ctx.cfg.formImage = ""
	case OptFormImage:
		ctx.cfg.formImage = val
	case OptTextFont:
		f, err := parseFont(val)
		if err != nil {
			return err
		}
		ctx.cfg.textFont = f
	case OptNumberFont:
		f, err := parseFont(val)
		if err != nil {
			return err
		}
		ctx.cfg.numberFont = f
	case OptLabelFont:
		f, err := parseFont(val)
		if err != nil {
			return err
		}
		ctx.cfg.labelFont = f
	case OptTitle:
		ctx.cfg.title = val
	case OptNoLZW:
		ctx.cfg.noLZW = val == "true" || val == "1"
	default:
		return &Error{Code: ErrInvalid, Detail: "unknown option"}
	}
	return nil
}

func (ctx *Context) setLength(field *float64, val string) error {
	v, err := parseLength(val)
	if err != nil {
		return &Error{Code: ErrInvalid, Detail: err.Error()}
	}
	if v <= 0 {
		return &Error{Code: ErrNegativeValue}
	}
	*field = v
	return nil
}

func parseFont(name string) (Font, error) {
	f := Font(name)
	if !isCoreFont(f) {
		return "", &Error{Code: ErrUnknownFont, Detail: name}
	}
	return f, nil
}
