package form

import (
	"bytes"
	"strings"
	"testing"
)

func TestLineNumberColumnCounts(t *testing.T) {
	// printable height = 11 - 1 - 0.5 = 9.5in; N = floor(9.5*6) = 57,
	// M = floor(9.5*8) = 76.
	var buf bytes.Buffer
	writeLineNumberColumns(&buf, "/F3", 14.875, 11, 1, 0.5, 0.47, 0.1)
	out := buf.String()

	if n := strings.Count(out, "(57) Tj"); n != 1 {
		t.Errorf("left column's last label (57) appeared %d times, want 1", n)
	}
	if n := strings.Count(out, "(76) Tj"); n != 1 {
		t.Errorf("right column's last label (76) appeared %d times, want 1", n)
	}
	if strings.Contains(out, "(58) Tj") {
		t.Error("left column overran its computed count of 57")
	}
	if strings.Contains(out, "(77) Tj") {
		t.Error("right column overran its computed count of 76")
	}
}

func TestLineNumberColumnsOmittedWhenWidthZero(t *testing.T) {
	var buf bytes.Buffer
	writeLineNumberColumns(&buf, "/F3", 14.875, 11, 1, 0.5, 0.47, 0)
	if buf.Len() != 0 {
		t.Errorf("expected no output for zero line-number width, got %d bytes", buf.Len())
	}
}
