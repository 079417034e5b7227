// Command lpt2pdf converts ASCII line-printer output into a PDF that
// emulates continuous-feed lineprinter stationery. One flag maps to one
// session option; remaining arguments are input files (or "-" for
// stdin) followed by the output file (or "-" for stdout).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/lptpdf/lptpdf"
)

const (
	exitOK           = 0
	exitInputOpen    = 1
	exitOpenOutput   = 2
	exitBadArg       = 3
	exitPrintOrClose = 4
	exitInternal     = 7
)

// optFlag pairs a flag name with the Option it sets, so a single table
// drives both flag registration and the Set calls after parsing.
type optFlag struct {
	name string
	opt  lptpdf.Option
	val  *string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("lpt2pdf", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	flags := []optFlag{
		{"file-require", lptpdf.OptFileRequire, nil},
		{"page-width", lptpdf.OptPageWidth, nil},
		{"page-length", lptpdf.OptPageLength, nil},
		{"top-margin", lptpdf.OptTopMargin, nil},
		{"bottom-margin", lptpdf.OptBottomMargin, nil},
		{"side-margin", lptpdf.OptSideMargin, nil},
		{"cpi", lptpdf.OptCPI, nil},
		{"lpi", lptpdf.OptLPI, nil},
		{"cols", lptpdf.OptCols, nil},
		{"tof-offset", lptpdf.OptTOFOffset, nil},
		{"line-number-width", lptpdf.OptLineNumberWidth, nil},
		{"bar-height", lptpdf.OptBarHeight, nil},
		{"form-type", lptpdf.OptFormType, nil},
		{"form-image", lptpdf.OptFormImage, nil},
		{"text-font", lptpdf.OptTextFont, nil},
		{"number-font", lptpdf.OptNumberFont, nil},
		{"label-font", lptpdf.OptLabelFont, nil},
		{"title", lptpdf.OptTitle, nil},
		{"no-lzw", lptpdf.OptNoLZW, nil},
	}
	for i := range flags {
		flags[i].val = fs.String(flags[i].name, "", "")
	}

	if err := fs.Parse(args); err != nil {
		return exitBadArg
	}
	rest := fs.Args()
	if len(rest) < 1 {
		fmt.Fprintf(os.Stderr, "usage: lpt2pdf [flags] [inputs...] output\n")
		fs.PrintDefaults()
		return exitBadArg
	}
	inputs, output := rest[:len(rest)-1], rest[len(rest)-1]

	ctx := lptpdf.NewContext()
	for _, f := range flags {
		if *f.val == "" {
			continue
		}
		if err := ctx.Set(f.opt, *f.val); err != nil {
			fmt.Fprintf(os.Stderr, "lpt2pdf: -%s: %v\n", f.name, err)
			return exitBadArg
		}
	}

	outPath, finish, err := resolveOutput(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lpt2pdf: %v\n", err)
		return exitOpenOutput
	}
	defer finish()

	if err := ctx.Open(outPath); err != nil {
		fmt.Fprintf(os.Stderr, "lpt2pdf: open %s: %v\n", outPath, err)
		return exitOpenOutput
	}

	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	for _, in := range inputs {
		data, err := readInput(in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lpt2pdf: %s: %v\n", in, err)
			return exitInputOpen
		}
		if err := ctx.Print(data); err != nil {
			fmt.Fprintf(os.Stderr, "lpt2pdf: %s: %v\n", in, err)
			return exitPrintOrClose
		}
	}

	if err := ctx.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "lpt2pdf: close: %v\n", err)
		return exitPrintOrClose
	}
	return exitOK
}

// readInput reads path whole, or stdin for "-". Its errors are reported
// under exitInputOpen, distinct from a Print or Close failure.
func readInput(path string) ([]byte, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return io.ReadAll(r)
}

// resolveOutput returns the path Open should use and a finish func that
// must run after Close: for a real path these are no-ops, but "-" routes
// through a temp file (the engine needs a seekable handle for its
// deferred /Parent backpatches) and streams it to stdout on finish.
func resolveOutput(output string) (path string, finish func(), err error) {
	if output != "-" {
		return output, func() {}, nil
	}
	tmp, err := os.CreateTemp("", "lpt2pdf-*.pdf")
	if err != nil {
		return "", nil, err
	}
	tmpPath := tmp.Name()
	tmp.Close()
	os.Remove(tmpPath)
	return tmpPath, func() {
		f, err := os.Open(tmpPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lpt2pdf: reopen %s: %v\n", tmpPath, err)
			return
		}
		defer f.Close()
		defer os.Remove(tmpPath)
		if _, err := io.Copy(os.Stdout, f); err != nil {
			fmt.Fprintf(os.Stderr, "lpt2pdf: write stdout: %v\n", err)
		}
	}, nil
}
