package control

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func feedAll(p *Parser, input []byte) []Event {
	var events []Event
	for _, b := range input {
		events = append(events, p.Feed(b)...)
	}
	return events
}

func TestOrdinaryCharsAndLF(t *testing.T) {
	p := NewParser(nil)
	got := feedAll(p, []byte("AB\n"))
	want := []Event{
		{Kind: EventChar, Code: 'A'},
		{Kind: EventChar, Code: 'B'},
		{Kind: EventLF},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestFirstFormFeedIsSwallowed(t *testing.T) {
	p := NewParser(nil)
	got := feedAll(p, []byte{0x0D, 0x0C, 'A', 0x0C})
	want := []Event{
		{Kind: EventChar, Code: 'A'},
		{Kind: EventFF},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestCROnceFormFeedSeen(t *testing.T) {
	p := NewParser(nil)
	feedAll(p, []byte{0x0C}) // swallow the first FF
	got := feedAll(p, []byte{'A', 0x0D, 'B'})
	want := []Event{
		{Kind: EventChar, Code: 'A'},
		{Kind: EventCR},
		{Kind: EventChar, Code: 'B'},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestCSISetLPI(t *testing.T) {
	cases := []struct {
		name  string
		input []byte
		want  int
	}{
		{"6lpi", []byte{0x9B, '1', 'z'}, 6},
		{"8lpi", []byte{0x9B, '2', 'z'}, 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewParser(nil)
			feedAll(p, []byte{0x0C}) // clear the swallow-first-FF state
			got := feedAll(p, tc.input)
			want := []Event{{Kind: EventSetLPI, LPI: tc.want}}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCSIOtherFinalsDiscarded(t *testing.T) {
	p := NewParser(nil)
	got := feedAll(p, []byte{0x9B, '3', 'm'}) // SGR, not acted on
	if len(got) != 0 {
		t.Errorf("expected no events, got %v", got)
	}
}

func TestCSIUnknownParamIgnored(t *testing.T) {
	p := NewParser(nil)
	got := feedAll(p, []byte{0x9B, '9', 'z'})
	if len(got) != 0 {
		t.Errorf("expected no events for Pn=9, got %v", got)
	}
}

func TestCSIWithIntermediateNotActedOn(t *testing.T) {
	// "z" with an intermediate byte present must not be treated as set-LPI.
	p := NewParser(nil)
	got := feedAll(p, []byte{0x9B, '1', ' ', 'z'})
	if len(got) != 0 {
		t.Errorf("expected no events, got %v", got)
	}
}

func TestEscSequenceDiscarded(t *testing.T) {
	p := NewParser(nil)
	got := feedAll(p, []byte{0x1B, '(', 'B', 'C'})
	want := []Event{{Kind: EventChar, Code: 'C'}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestEscRedispatchesAsC1(t *testing.T) {
	// ESC 'Z' (0x5A) is the 7-bit equivalent of the single-byte C1 0x9A,
	// which this engine treats as an ordinary discarded C1 control.
	p := NewParser(nil)
	got := feedAll(p, []byte{0x1B, 'Z', 'A'})
	want := []Event{{Kind: EventChar, Code: 'A'}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestCANResetsMidEscape(t *testing.T) {
	p := NewParser(nil)
	got := feedAll(p, []byte{0x1B, 0x18, 'A'})
	want := []Event{{Kind: EventChar, Code: 'A'}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}
