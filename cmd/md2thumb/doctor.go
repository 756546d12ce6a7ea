package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2thumb/internal/assets"
	"github.com/alnah/go-md2thumb/internal/config"
	"github.com/alnah/go-md2thumb/internal/fileutil"
	"github.com/alnah/go-md2thumb/internal/hints"
)

// ErrBrowserNotFound is reported by doctor when no Chrome/Chromium is found.
var ErrBrowserNotFound = errors.New("browser not found")

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status     string       `json:"status"` // "ready", "warnings", "errors"
	Chrome     chromeInfo   `json:"chrome"`
	Renderer   rendererInfo `json:"renderer"`
	Theme      themeInfo    `json:"theme"`
	Dictionary bool         `json:"dictionary"`
	Env        envInfo      `json:"environment"`
	System     systemInfo   `json:"system"`
	Warnings   []string     `json:"warnings,omitempty"`
	Errors     []string     `json:"errors,omitempty"`

	browserMissing bool
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// rendererInfo holds deck renderer detection results.
type rendererInfo struct {
	Backend  string `json:"backend"`
	MarpPath string `json:"marp_path,omitempty"`
}

// themeInfo holds theme stylesheet resolution results.
type themeInfo struct {
	Name     string `json:"name,omitempty"`
	Path     string `json:"path,omitempty"`
	Embedded bool   `json:"embedded"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	Root         string `json:"root"`
	RootWritable bool   `json:"root_writable"`
	TempWritable bool   `json:"temp_writable"`
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json     bool
	config   string
	root     string
	theme    string
	renderer string
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 4 = no browser, 1 = other errors.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &doctorFlags{}
	fs.BoolVar(&f.json, "json", false, "output as JSON")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.root, "root", "", "base directory")
	fs.StringVar(&f.theme, "theme", "", "theme stylesheet path")
	fs.StringVar(&f.renderer, "renderer", "", "deck renderer: builtin, marp")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "%v: %v\n", ErrInvalidFlag, err)
		printDoctorUsage(env.Stderr)
		return ExitUsage
	}

	gf := &generateFlags{root: f.root}
	gf.common.config = f.config
	gf.render.theme = f.theme
	gf.render.backend = f.renderer

	cfg, err := resolveConfig(gf, loadEnvConfig(), env)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	result := runDoctor(cfg, env.Warmer)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	switch {
	case result.browserMissing:
		return exitCodeFor(ErrBrowserNotFound)
	case result.Status == statusErrors:
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config, warmer Warmer) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result)
	checkEnvironment(result)
	checkRenderer(result, cfg)
	checkTheme(result, cfg.Resolve(cfg.Paths.Theme))
	checkDictionary(result, warmer)
	checkSystem(result, cfg.Root)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.browserMissing = true
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.browserMissing = true
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- browser path from env or launcher
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()
	result.Env.CI = hints.InCI()

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("MD2THUMB_CONTAINER") == "1" {
		return true, "MD2THUMB_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkRenderer looks for the marp CLI. Missing marp is an error only when
// the marp backend is selected.
func checkRenderer(result *doctorResult, cfg *config.Config) {
	backend := cfg.Render.Backend
	if backend == "" {
		backend = config.BackendBuiltin
	}
	result.Renderer.Backend = backend

	bin := cfg.Render.MarpBin
	if bin == "" {
		bin = config.DefaultMarpBin
	}
	path, err := exec.LookPath(bin)
	if err == nil {
		result.Renderer.MarpPath = path
		return
	}
	if backend == config.BackendMarp {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s not found in PATH. Install @marp-team/marp-cli or use --renderer builtin", bin))
	}
}

// checkTheme resolves the theme stylesheet.
func checkTheme(result *doctorResult, themePath string) {
	theme, err := assets.ResolveTheme(themePath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Theme: %v", err))
		return
	}
	result.Theme = themeInfo{Name: theme.Name, Path: theme.Path, Embedded: theme.Path == ""}
	if themePath != "" && theme.Path == "" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s not found, using the embedded %s theme", themePath, theme.Name))
	}
}

// checkDictionary loads the transliteration dictionary.
func checkDictionary(result *doctorResult, warmer Warmer) {
	if err := prewarm(warmer); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	result.Dictionary = true
}

// checkSystem verifies that the root and temp directories are writable.
func checkSystem(result *doctorResult, root string) {
	if root == "" {
		root = "."
	}
	result.System.Root = root
	result.System.RootWritable = probeWritable(root)
	if !result.System.RootWritable {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Root directory not writable: %s", root))
	}

	tmpDir := os.TempDir()
	result.System.TempWritable = probeWritable(tmpDir)
	if !result.System.TempWritable {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	}
}

// probeWritable writes and removes a scratch file in dir.
func probeWritable(dir string) bool {
	probe := filepath.Join(dir, fileutil.TempName("md2thumb-doctor"))
	if err := os.WriteFile(probe, []byte("test"), 0o600); err != nil {
		return false
	}
	fileutil.RemoveQuietly(probe)
	return true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintf(w, "md2thumb doctor\n\n")

	fmt.Fprintln(w, "Chrome/Chromium")
	printCheck(w, r.Chrome.Found, "Found at "+r.Chrome.Path, "Not found")
	if r.Chrome.Version != "" {
		printCheck(w, true, "Version: "+r.Chrome.Version, "")
	}
	if r.Chrome.Found {
		sandbox := "Sandbox: enabled"
		if !r.Chrome.Sandbox {
			sandbox = "Sandbox: disabled (ROD_NO_SANDBOX=1)"
		}
		printCheck(w, true, sandbox, "")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Rendering")
	printCheck(w, true, "Renderer: "+r.Renderer.Backend, "")
	if r.Renderer.MarpPath != "" {
		printCheck(w, true, "marp: "+r.Renderer.MarpPath, "")
	}
	themeOK := "Theme: " + r.Theme.Name + " (" + r.Theme.Path + ")"
	if r.Theme.Embedded {
		themeOK = "Theme: " + r.Theme.Name + " (embedded)"
	}
	printCheck(w, r.Theme.Name != "", themeOK, "Theme: unresolved")
	printCheck(w, r.Dictionary, "Dictionary: loaded", "Dictionary: not loaded")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	printCheck(w, true, "Platform: "+r.Env.OS+"/"+r.Env.Arch, "")
	if r.Env.Container {
		printCheck(w, true, "Container: detected ("+r.Env.ContainerHint+")", "")
	}
	if r.Env.CI {
		printCheck(w, true, "CI: detected", "")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	printCheck(w, r.System.RootWritable,
		"Root directory: "+r.System.Root+" writable",
		"Root directory: "+r.System.Root+" not writable")
	printCheck(w, r.System.TempWritable, "Temp directory: writable", "Temp directory: not writable")
	fmt.Fprintln(w)

	listSection(w, "Warnings:", "WARN", r.Warnings)
	listSection(w, "Errors:", "ERROR", r.Errors)

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to generate")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

// printCheck prints one "[OK]" or "[ERROR]" check line.
func printCheck(w io.Writer, ok bool, okMsg, errMsg string) {
	if ok {
		fmt.Fprintf(w, "  [OK] %s\n", okMsg)
		return
	}
	fmt.Fprintf(w, "  [ERROR] %s\n", errMsg)
}

func listSection(w io.Writer, heading, tag string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, heading)
	for _, item := range items {
		fmt.Fprintf(w, "  [%s] %s\n", tag, item)
	}
	fmt.Fprintln(w)
}
