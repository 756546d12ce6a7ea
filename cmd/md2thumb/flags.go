package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrInvalidFlag wraps flag parsing and flag value errors.
var ErrInvalidFlag = errors.New("invalid flag")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds deck rendering flags.
type renderFlags struct {
	backend string
	theme   string
	header  string
	footer  string
}

// captureFlags holds browser capture flags.
type captureFlags struct {
	timeout      string
	reuseBrowser bool
}

// outputFlags holds PNG output flags.
type outputFlags struct {
	width     int
	collision string
}

// generateFlags holds all flags for the default generate command.
type generateFlags struct {
	common  commonFlags
	root    string
	file    string
	workers int
	strict  bool
	render  renderFlags
	capture captureFlags
	output  outputFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.backend, "renderer", "", "deck renderer: builtin, marp")
	fs.StringVar(&f.theme, "theme", "", "theme stylesheet path (default theme/custom.css)")
	fs.StringVar(&f.header, "header", "", "slide header text ({date} and {date:FORMAT} expand)")
	fs.StringVar(&f.footer, "footer", "", "slide footer text ({date} and {date:FORMAT} expand)")
}

// addCaptureFlags adds capture flags to a FlagSet.
func addCaptureFlags(fs *flag.FlagSet, f *captureFlags) {
	fs.StringVarP(&f.timeout, "timeout", "t", "", "page load timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.reuseBrowser, "reuse-browser", false, "keep one browser per worker")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.IntVar(&f.width, "width", 0, "resize thumbnails to this width (0 = capture size)")
	fs.StringVar(&f.collision, "collision", "", "same-name policy: overwrite, error")
}

// parseGenerateFlags parses generate flags and returns positional titles.
// Help requests return flag.ErrHelp unwrapped.
func parseGenerateFlags(args []string, usage io.Writer) (*generateFlags, []string, error) {
	fs := flag.NewFlagSet("md2thumb", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &generateFlags{}

	fs.StringVar(&f.root, "root", "", "base directory for articles/, thumbnails/, temp/")
	fs.StringVarP(&f.file, "file", "f", "", "read titles from file, one per line (- = stdin)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.strict, "strict", false, "exit 1 when any title fails")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addCaptureFlags(fs, &f.capture)
	addOutputFlags(fs, &f.output)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printGenerateUsage(usage)
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFlag, err)
	}

	if f.workers < 0 {
		return nil, nil, fmt.Errorf("%w: --workers must be >= 0, got %d", ErrInvalidFlag, f.workers)
	}
	if f.output.width < 0 {
		return nil, nil, fmt.Errorf("%w: --width must be >= 0, got %d", ErrInvalidFlag, f.output.width)
	}

	return f, fs.Args(), nil
}
