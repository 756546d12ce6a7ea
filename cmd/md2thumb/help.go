package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2thumb [flags] <title>...")
	fmt.Fprintln(w, "       md2thumb <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a 1280x720 slide thumbnail for each title.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  doctor     Check Chrome, renderer, theme and directories")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2thumb help <command>' for details on a specific command.")
}

// printGenerateUsage prints usage for the default command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2thumb [flags] <title>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Each title becomes a one-slide deck rendered and captured as")
	fmt.Fprintln(w, "thumbnails/<romaji>.png. Scratch files go to articles/ and temp/.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input:")
	fmt.Fprintln(w, "  -f, --file <path>         Read titles from file, one per line (- = stdin)")
	fmt.Fprintln(w, "      --root <dir>          Base directory for articles/, thumbnails/, temp/")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --renderer <s>        Deck renderer: builtin (default), marp")
	fmt.Fprintln(w, "      --theme <path>        Theme stylesheet (default theme/custom.css)")
	fmt.Fprintln(w, "      --header <text>       Slide header, {date} or {date:ja} expand")
	fmt.Fprintln(w, "      --footer <text>       Slide footer, {date} or {date:ja} expand")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture:")
	fmt.Fprintln(w, "  -t, --timeout <d>         Page load timeout (default 30s)")
	fmt.Fprintln(w, "      --reuse-browser       Keep one browser per worker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --width <px>          Resize thumbnails to this width")
	fmt.Fprintln(w, "      --collision <s>       Same-name policy: overwrite (default), error")
	fmt.Fprintln(w, "      --strict              Exit 1 when any title fails")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show timing per title")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2THUMB_CONFIG, MD2THUMB_ROOT, MD2THUMB_WORKERS, MD2THUMB_TIMEOUT,")
	fmt.Fprintln(w, "  MD2THUMB_RENDERER, MD2THUMB_THEME, MD2THUMB_COLLISION")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN, ROD_NO_SANDBOX (Chrome)")
	fmt.Fprintln(w, "  A .env file in the working directory is loaded first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  md2thumb 東京タワー \"Go 入門\"")
	fmt.Fprintln(w, "  md2thumb --file titles.txt --width 640")
	fmt.Fprintln(w, "  md2thumb --renderer marp --theme theme/custom.css テスト")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2thumb doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that thumbnails can be generated on this machine.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Output as JSON")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --root <dir>          Base directory")
	fmt.Fprintln(w, "      --theme <path>        Theme stylesheet")
	fmt.Fprintln(w, "      --renderer <s>        Deck renderer: builtin, marp")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 ready, 1 errors, 4 Chrome not found.")
}

// printVersionUsage prints usage for the version command.
func printVersionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2thumb version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show version information.")
}

// printHelp prints help for a command, or the main usage.
// Returns false for an unknown command.
func printHelp(w io.Writer, command string) bool {
	switch command {
	case "":
		printUsage(w)
	case "generate":
		printGenerateUsage(w)
	case "doctor":
		printDoctorUsage(w)
	case "version":
		printVersionUsage(w)
	default:
		return false
	}
	return true
}
