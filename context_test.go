package lptpdf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lptpdf/lptpdf/pdf"
)

func openTemp(t *testing.T, name string) (*Context, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	ctx := NewContext()
	if err := ctx.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	return ctx, path
}

func pagesCount(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open produced file: %v", err)
	}
	defer f.Close()
	r, err := pdf.OpenReader(f)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	rootRef, ok := r.Trailer["Root"].(pdf.Reference)
	if !ok {
		t.Fatalf("trailer has no /Root")
	}
	catalog, err := resolveDict(r, rootRef)
	if err != nil {
		t.Fatalf("resolve catalog: %v", err)
	}
	pagesRef, ok := catalog["Pages"].(pdf.Reference)
	if !ok {
		t.Fatalf("catalog has no /Pages")
	}
	pages, err := resolveDict(r, pagesRef)
	if err != nil {
		t.Fatalf("resolve pages: %v", err)
	}
	count, ok := pages["Count"].(pdf.Integer)
	if !ok {
		t.Fatalf("pages has no /Count")
	}
	return int(count)
}

// Scenario 1 (spec.md §8): minimal HELLO print, default config.
func TestMinimalScenario(t *testing.T) {
	ctx, path := openTemp(t, "minimal.pdf")
	if err := ctx.Print([]byte("HELLO\n")); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if page, line := ctx.Where(); page != 1 || line != 2 {
		t.Errorf("Where() = (%d, %d), want (1, 2)", page, line)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if !FileIsPDF(path) {
		t.Errorf("FileIsPDF(%q) = false, want true", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open produced file: %v", err)
	}
	defer f.Close()
	r, err := pdf.OpenReader(f)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	if got, want := r.MaxObjectNumber(), uint32(7); got != want {
		t.Errorf("MaxObjectNumber() = %d, want %d (content, page, fontdir, pagelist, anchor, catalog, info)", got, want)
	}
	if n := pagesCount(t, path); n != 1 {
		t.Errorf("page count = %d, want 1", n)
	}
}

// Scenario 2: a form feed splits the session into two pages, and text
// landing right after FF is reported at the TOF line.
func TestFormFeedScenario(t *testing.T) {
	ctx, path := openTemp(t, "formfeed.pdf")
	if err := ctx.Print([]byte("A\nB\fC\n")); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if page, line := ctx.Where(); page != 2 || line != 2 {
		t.Errorf("Where() = (%d, %d), want (2, 2)", page, line)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n := pagesCount(t, path); n != 2 {
		t.Errorf("page count = %d, want 2", n)
	}
}

// Scenario 3: a CR before more text on the same line renders as an
// overstrike, spliced in via ") Tj 0 0 Td (".
func TestOverstrikeScenario(t *testing.T) {
	ctx, path := openTemp(t, "overstrike.pdf")
	if err := ctx.Print([]byte("ABC\rXYZ\n")); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read produced file: %v", err)
	}
	// The stream is almost certainly LZW-compressed by default, so look
	// for the overstrike splice in the uncompressed form instead.
	ctx2, path2 := openTemp(t, "overstrike_raw.pdf")
	if err := ctx2.Set(OptNoLZW, "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := ctx2.Print([]byte("ABC\rXYZ\n")); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if err := ctx2.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	raw2, err := os.ReadFile(path2)
	if err != nil {
		t.Fatalf("read second file: %v", err)
	}
	if !bytes.Contains(raw2, []byte(") Tj 0 0 Td (")) {
		t.Errorf("uncompressed content stream has no overstrike splice")
	}
	_ = raw
}

// Scenario 4: a CSI LPI-switch control read mid-page is recorded but does
// not retroactively re-pitch the page already in progress; it takes
// effect starting the next page. X and Y both land on the 6-LPI (12pt)
// page; Z, after the form feed, lands on the 8-LPI (9pt) page.
func TestLPISwitchAppliesStartingNextPage(t *testing.T) {
	ctx, path := openTemp(t, "lpiswitch.pdf")
	if err := ctx.Set(OptNoLZW, "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := ctx.Print([]byte("X\n")); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if err := ctx.Print([]byte{0x9B, '2', 'z'}); err != nil { // CSI: set 8 LPI
		t.Fatalf("Print (CSI): %v", err)
	}
	if err := ctx.Print([]byte("Y\fZ\n")); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n := pagesCount(t, path); n != 2 {
		t.Fatalf("page count = %d, want 2", n)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read produced file: %v", err)
	}
	i6 := bytes.Index(raw, []byte(" 12 Tf"))
	i8 := bytes.Index(raw, []byte(" 9 Tf"))
	if i6 < 0 {
		t.Fatalf("no 6-LPI (12pt) text block found for the page holding X and Y")
	}
	if i8 < 0 {
		t.Fatalf("no 8-LPI (9pt) text block found for the page holding Z")
	}
	if i8 < i6 {
		t.Errorf("8-LPI block appears before the 6-LPI block: the pending LPI change took effect too early")
	}
}

// Scenario 5: append preserves the first /ID element and the original
// CreationDate while advancing the page count and the second /ID
// element.
func TestAppendScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "append.pdf")

	first := NewContext()
	if err := first.Open(path); err != nil {
		t.Fatalf("Open (new): %v", err)
	}
	if err := first.Print([]byte("A\n")); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	id0Before, idBefore1, creationBefore := readTrailerID(t, path)

	second := NewContext()
	if err := second.Set(OptFileRequire, "APPEND"); err != nil {
		t.Fatalf("Set file-require: %v", err)
	}
	if err := second.Open(path); err != nil {
		t.Fatalf("Open (append): %v", err)
	}
	if err := second.Print([]byte("B\n")); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if err := second.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	id0After, id1After, creationAfter := readTrailerID(t, path)
	if !bytes.Equal(id0Before, id0After) {
		t.Errorf("/ID first element changed across append: %x -> %x", id0Before, id0After)
	}
	if bytes.Equal(idBefore1, id1After) {
		t.Errorf("/ID second element did not change across append")
	}
	if creationBefore != creationAfter {
		t.Errorf("CreationDate changed across append: %q -> %q", creationBefore, creationAfter)
	}
	if n := pagesCount(t, path); n != 2 {
		t.Errorf("page count after append = %d, want 2", n)
	}
}

func readTrailerID(t *testing.T, path string) (id0, id1 []byte, creationDate string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	r, err := pdf.OpenReader(f)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	idArr, ok := r.Trailer["ID"].(pdf.Array)
	if !ok || len(idArr) != 2 {
		t.Fatalf("trailer /ID = %#v, want a 2-element array", r.Trailer["ID"])
	}
	hs0, ok0 := idArr[0].(pdf.HexString)
	hs1, ok1 := idArr[1].(pdf.HexString)
	if !ok0 || !ok1 {
		t.Fatalf("/ID elements are not hex strings")
	}
	infoRef, ok := r.Trailer["Info"].(pdf.Reference)
	if !ok {
		t.Fatalf("trailer has no /Info")
	}
	info, err := resolveDict(r, infoRef)
	if err != nil {
		t.Fatalf("resolve info: %v", err)
	}
	cd, _ := info["CreationDate"].(pdf.String)
	return []byte(hs0), []byte(hs1), string(cd)
}

// Compression monotonicity: a buffer that does not compress is written
// without a /Filter entry.
func TestCompressMonotonicity(t *testing.T) {
	ctx := &Context{}
	incompressible := []byte{0x1f, 0x8b, 0x4a, 0x91, 0x02, 0x77, 0xe4, 0x3c, 0x09, 0xaa,
		0x5d, 0x61, 0xf0, 0x0c, 0x13, 0x88, 0x2e, 0x76, 0xb3, 0x4f}
	data, filter := ctx.compress(incompressible)
	if filter != nil {
		t.Errorf("compress chose a filter for incompressible input")
	}
	if !bytes.Equal(data, incompressible) {
		t.Errorf("uncompressed branch must return the input unchanged")
	}

	repetitive := bytes.Repeat([]byte("AAAAAAAAAA"), 50)
	data2, filter2 := ctx.compress(repetitive)
	if filter2 == nil {
		t.Errorf("compress did not choose LZW for highly repetitive input")
	}
	if len(data2) >= len(repetitive) {
		t.Errorf("compressed output (%d bytes) not shorter than input (%d bytes)", len(data2), len(repetitive))
	}
}

func TestFileIsPDFRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if FileIsPDF(path) {
		t.Errorf("FileIsPDF accepted a non-PDF file")
	}
}

func TestOpenRejectsBadExtension(t *testing.T) {
	ctx := NewContext()
	err := ctx.Open(filepath.Join(t.TempDir(), "out.txt"))
	var perr *Error
	if !errorsAs(err, &perr) || perr.Code != ErrBadFilename {
		t.Errorf("Open with non-.pdf extension = %v, want ErrBadFilename", err)
	}
}

func TestSetRejectedOnceActive(t *testing.T) {
	ctx, _ := openTemp(t, "active.pdf")
	if err := ctx.Print([]byte("x\n")); err != nil {
		t.Fatalf("Print: %v", err)
	}
	err := ctx.Set(OptTitle, "too late")
	var perr *Error
	if !errorsAs(err, &perr) || perr.Code != ErrActive {
		t.Errorf("Set after Print = %v, want ErrActive", err)
	}
}

func errorsAs(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}

func TestCheckpointThenContinue(t *testing.T) {
	ctx, path := openTemp(t, "checkpoint.pdf")
	if err := ctx.Print([]byte("first\n")); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if err := ctx.Checkpoint(); err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}
	if !FileIsPDF(path) {
		t.Fatalf("file is not a valid standalone PDF right after checkpoint")
	}
	if n := pagesCount(t, path); n != 1 {
		t.Fatalf("page count after checkpoint = %d, want 1", n)
	}
	if err := ctx.Print([]byte("second\n")); err != nil {
		t.Fatalf("Print after checkpoint: %v", err)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// A checkpoint finalizes the in-progress page: the next print
	// re-enters append mode fresh, on a new page, exactly as if the
	// file had just been reopened (spec's RESUMED -> DIRTY_APPEND
	// transition), rather than resuming the same physical page.
	if n := pagesCount(t, path); n != 2 {
		t.Fatalf("page count after close = %d, want 2 (checkpoint finalized page 1, close added page 2)", n)
	}
}

func TestFontListAndFormList(t *testing.T) {
	if got := len(FontList()); got != 14 {
		t.Errorf("len(FontList()) = %d, want 14", got)
	}
	if got := strings.Join(FormList(), ","); got != "PLAIN,GREENBAR,BLUEBAR,GRAYBAR,YELLOWBAR" {
		t.Errorf("FormList() = %q", got)
	}
}
