package layout

import "testing"

func testGeo() Geometry {
	return Geometry{
		PageWidthIn: 14.875, PageLengthIn: 11, TopMarginIn: 1, BottomMarginIn: 0.5,
		SideMarginIn: 0.47, CPI: 10, LPI: 6, Cols: 132, LineNumberWidthIn: 0.1,
	}
}

func TestFirstWriteStartsAtTOFPlusOne(t *testing.T) {
	b := NewBuffer(testGeo())
	b.WriteChar('A')
	if got, want := b.CurrentLine(), b.geo.TOF()+1; got != want {
		t.Errorf("CurrentLine() = %d, want %d", got, want)
	}
}

func TestFormFeedScenario(t *testing.T) {
	// "A\nB\fC\n": A and B land on page 1 at TOF+1 and TOF+2; after the
	// flush, C starts fresh at TOF+1 of page 2.
	b := NewBuffer(testGeo())
	b.WriteChar('A')
	overflow := b.LineFeed()
	if overflow {
		t.Fatal("unexpected overflow on first line feed")
	}
	b.WriteChar('B')

	rendered, maxLine := b.Flush()
	tof := b.geo.TOF()
	if maxLine < tof+2 {
		t.Fatalf("maxLine = %d, want at least %d", maxLine, tof+2)
	}
	lineA := rendered[tof]   // 0-based index for logical line TOF+1
	lineB := rendered[tof+1] // logical line TOF+2
	if lineA == nil || lineA.Empty() {
		t.Error("expected line TOF+1 to carry 'A'")
	}
	if lineB == nil || lineB.Empty() {
		t.Error("expected line TOF+2 to carry 'B'")
	}

	if got := b.CurrentLine(); got != 0 {
		t.Errorf("CurrentLine() after flush with no overflow survivors = %d, want 0", got)
	}
	b.WriteChar('C')
	if got, want := b.CurrentLine(), tof+1; got != want {
		t.Errorf("CurrentLine() for page 2's first write = %d, want %d", got, want)
	}
}

func TestOverstrikeProducesMultipleChunks(t *testing.T) {
	b := NewBuffer(testGeo())
	b.WriteChar('A')
	b.WriteChar('B')
	b.WriteChar('C')
	b.CarriageReturn()
	b.WriteChar('X')
	b.WriteChar('Y')
	b.WriteChar('Z')

	line := b.lineAt(b.CurrentLine())
	if len(line.chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(line.chunks))
	}
	if string(uint16sToBytes(line.chunks[0])) != "ABC" {
		t.Errorf("first chunk = %q, want %q", line.chunks[0], "ABC")
	}
	if string(uint16sToBytes(line.chunks[1])) != "XYZ" {
		t.Errorf("second chunk = %q, want %q", line.chunks[1], "XYZ")
	}
}

func uint16sToBytes(codes []uint16) []byte {
	out := make([]byte, len(codes))
	for i, c := range codes {
		out[i] = byte(c)
	}
	return out
}

func TestLineFeedReportsOverflow(t *testing.T) {
	geo := testGeo()
	b := NewBuffer(geo)
	lpp, tof := geo.LPP(), geo.TOF()
	b.WriteChar('A') // lands at TOF+1
	overflowed := false
	for i := b.CurrentLine(); i <= lpp+tof; i++ {
		overflowed = b.LineFeed()
	}
	if !overflowed {
		t.Error("expected LineFeed to report overflow once past LPP+TOF")
	}
}

// Lines written into the overflow zone (LPP, LPP+TOF] are not lost: they
// survive Flush's swap rule into positions [1, TOF] of the next page,
// and the next page's first write continues at TOF+1 rather than 1.
func TestLineFeedOverflowZoneSurvivesFlush(t *testing.T) {
	geo := testGeo()
	b := NewBuffer(geo)
	lpp, tof := geo.LPP(), geo.TOF()

	b.WriteChar('A') // TOF+1
	for b.CurrentLine() < lpp {
		b.LineFeed()
	}
	// Now at line lpp. Advance one more line, into the overflow zone,
	// and write a marker there; LineFeed must not yet report overflow.
	if overflowed := b.LineFeed(); overflowed {
		t.Fatalf("LineFeed reported overflow entering the overflow zone (line %d, LPP=%d, TOF=%d)", b.CurrentLine(), lpp, tof)
	}
	b.WriteChar('X')

	rendered, _ := b.Flush()
	if len(rendered) != lpp {
		t.Fatalf("Flush returned %d rendered lines, want %d", len(rendered), lpp)
	}

	if got := b.CurrentLine(); got != tof+1 {
		t.Fatalf("CurrentLine() after flush with a surviving overflow line = %d, want %d", got, tof+1)
	}
	survivor := b.lineAt(1)
	if survivor.Empty() || string(uint16sToBytes(survivor.chunks[0])) != "X" {
		t.Errorf("overflow line did not survive into line 1 of the new page")
	}
}
