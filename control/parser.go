// Package control implements the byte-oriented escape/control-sequence
// state machine that turns raw lineprinter output into a filtered event
// sequence: ordinary characters, line feeds, form feeds, carriage returns
// and line-pitch changes. It understands just enough of ANSI/ECMA-48 C0/C1
// controls and CSI sequences to recognize the one control this engine
// acts on (DEC "set lines per inch"); everything else it discards cleanly.
package control

import "github.com/lptpdf/lptpdf/pdf"

// State names the parser's position in the control-sequence grammar.
type State int

const (
	StateIdle State = iota
	StateEscSeq
	StateCSI
	StateCSIParam
	StateCSIIntermediate
	StateBadCSI
	StateBadESC
	StateBadString
)

// EventKind identifies what, if anything, a fed byte produced.
type EventKind int

const (
	EventNone EventKind = iota
	EventChar
	EventLF
	EventFF
	EventCR
	EventSetLPI
)

// Event is emitted by Feed for bytes (or byte sequences) that survive
// filtering.
type Event struct {
	Kind EventKind
	Code uint16 // valid for EventChar: the surviving character code
	LPI  int    // valid for EventSetLPI: 6 or 8
}

const (
	paramDefault = -1
	paramBad     = -2
	maxParams    = 16
)

// Parser is the control-sequence state machine. It is not safe for
// concurrent use; one Parser processes one input stream.
type Parser struct {
	state State
	fp    *pdf.Fingerprint

	// true once the initial page-positioning sequence is over: after the
	// leading form feed has been swallowed, or as soon as any byte other
	// than a leading CR or that form feed arrives.
	initialDone bool

	// true once an intermediate byte has been seen in the current ESC
	// sequence; the 7-bit C1 remap only applies to a bare "ESC x".
	escHadIntermediate bool

	private  byte
	params   []int
	curVal   int
	curHas   bool
	curBad   bool
	nParamsOverflowed bool
}

// NewParser returns a fresh parser in state IDLE. fp, if non-nil, receives
// every raw byte fed to the parser before any filtering, so that identical
// input streams always produce identical document fingerprints.
func NewParser(fp *pdf.Fingerprint) *Parser {
	return &Parser{fp: fp}
}

// Feed processes one raw input byte and returns the events it produced:
// none or one (a 7-bit ESC sequence re-dispatched as a C1 byte produces
// none).
func (p *Parser) Feed(b byte) []Event {
	if p.fp != nil {
		p.fp.Write([]byte{b})
	}
	if b == 0x18 || b == 0x1A { // CAN, SUB: abort any in-progress sequence
		p.state = StateIdle
		return nil
	}
	return p.dispatch(b)
}

func (p *Parser) dispatch(b byte) []Event {
	switch p.state {
	case StateIdle:
		return p.feedIdle(b)
	case StateEscSeq:
		return p.feedEscSeq(b)
	case StateCSI, StateCSIParam:
		return p.feedCSIParam(b)
	case StateCSIIntermediate:
		return p.feedCSIIntermediate(b)
	case StateBadCSI:
		return p.feedBadCSI(b)
	case StateBadESC:
		return p.feedBadESC(b)
	case StateBadString:
		return p.feedBadString(b)
	}
	return nil
}

func (p *Parser) feedIdle(b byte) []Event {
	if !p.initialDone && b != 0x0C && b != 0x0D {
		// Any other byte ends the initial positioning sequence; later
		// form feeds and CRs pass through.
		p.initialDone = true
	}
	switch b {
	case 0x0A: // LF
		return []Event{{Kind: EventLF}}
	case 0x0C: // FF
		if !p.initialDone {
			p.initialDone = true
			return nil
		}
		return []Event{{Kind: EventFF}}
	case 0x0D: // CR
		if !p.initialDone {
			// CRs preceding the first swallowed FF are artifacts of the
			// same initial page-positioning sequence.
			return nil
		}
		return []Event{{Kind: EventCR}}
	case 0x1B: // ESC
		p.state = StateEscSeq
		p.escHadIntermediate = false
		return nil
	case 0x9B: // CSI
		p.resetCSI()
		p.state = StateCSI
		return nil
	case 0x9C, 0x9D, 0x9E, 0x9F: // ST, OSC, PM, APC
		p.state = StateBadString
		return nil
	}
	if b < 0x20 || (b >= 0x7F && b <= 0x9F) {
		return nil // other C0/C1: discard
	}
	return []Event{{Kind: EventChar, Code: uint16(validDocByte(b))}}
}

func (p *Parser) feedEscSeq(b byte) []Event {
	switch {
	case b >= 0x20 && b <= 0x2F:
		// intermediate, accumulated but ignored by this engine
		p.escHadIntermediate = true
		return nil
	case !p.escHadIntermediate && b >= 0x40 && b <= 0x5F:
		// bare "ESC x": the 7-bit two-byte C1 equivalent. Remap to the
		// single-byte C1 and re-dispatch it through IDLE.
		p.state = StateIdle
		return p.feedIdle(b + 0x40)
	case b >= 0x30 && b <= 0x7E:
		p.state = StateIdle
		return nil
	default:
		p.state = StateBadESC
		return nil
	}
}

func (p *Parser) feedBadESC(b byte) []Event {
	if b >= 0x30 && b <= 0x7E {
		p.state = StateIdle
	}
	return nil
}

func (p *Parser) feedBadString(b byte) []Event {
	if b == 0x9C || b == 0x07 { // ST (8-bit), or BEL as a common OSC terminator
		p.state = StateIdle
	}
	return nil
}

func (p *Parser) resetCSI() {
	p.private = 0
	p.params = p.params[:0]
	p.curVal = 0
	p.curHas = false
	p.curBad = false
	p.nParamsOverflowed = false
}

func (p *Parser) feedCSIParam(b byte) []Event {
	if p.state == StateCSI && b >= 0x3C && b <= 0x3F {
		p.private = b
		p.state = StateCSIParam
		return nil
	}
	switch {
	case b >= 0x30 && b <= 0x39:
		p.state = StateCSIParam
		p.curHas = true
		if p.curVal > 9999 {
			p.curBad = true
		} else {
			p.curVal = p.curVal*10 + int(b-'0')
		}
		return nil
	case b == 0x3B:
		p.pushParam()
		p.state = StateCSIParam
		return nil
	case b >= 0x20 && b <= 0x2F:
		p.pushParam()
		p.state = StateCSIIntermediate
		return nil
	case b >= 0x40 && b <= 0x7E:
		p.pushParam()
		ev := p.dispatchFinal(b, false)
		p.state = StateIdle
		return ev
	default:
		p.state = StateBadCSI
		return nil
	}
}

func (p *Parser) feedCSIIntermediate(b byte) []Event {
	switch {
	case b >= 0x20 && b <= 0x2F:
		return nil
	case b >= 0x40 && b <= 0x7E:
		ev := p.dispatchFinal(b, true)
		p.state = StateIdle
		return ev
	default:
		p.state = StateBadCSI
		return nil
	}
}

func (p *Parser) feedBadCSI(b byte) []Event {
	if b >= 0x40 && b <= 0x7E {
		p.state = StateIdle
	}
	return nil
}

func (p *Parser) pushParam() {
	if len(p.params) >= maxParams {
		p.nParamsOverflowed = true
		p.curVal = 0
		p.curHas = false
		p.curBad = false
		return
	}
	switch {
	case !p.curHas:
		p.params = append(p.params, paramDefault)
	case p.curBad:
		p.params = append(p.params, paramBad)
	default:
		p.params = append(p.params, p.curVal)
	}
	p.curVal = 0
	p.curHas = false
	p.curBad = false
}

// dispatchFinal acts on the one CSI final byte this engine understands:
// "z" with no private marker and no intermediates is the DEC set-lines-
// per-inch control. Every other final is discarded.
func (p *Parser) dispatchFinal(final byte, hadIntermediate bool) []Event {
	if final != 'z' || p.private != 0 || hadIntermediate || p.nParamsOverflowed {
		return nil
	}
	pn := paramDefault
	if len(p.params) > 0 {
		pn = p.params[0]
	}
	switch pn {
	case 1:
		return []Event{{Kind: EventSetLPI, LPI: 6}}
	case 2:
		return []Event{{Kind: EventSetLPI, LPI: 8}}
	}
	return nil
}
