package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	md2thumb "github.com/alnah/go-md2thumb"
	"github.com/alnah/go-md2thumb/internal/config"
	"github.com/alnah/go-md2thumb/internal/dateutil"
	"github.com/alnah/go-md2thumb/internal/fileutil"
	"github.com/alnah/go-md2thumb/internal/hints"
)

// Sentinel errors for the generate command.
var (
	ErrNoTitles   = errors.New("no titles given")
	ErrReadTitles = errors.New("failed to read titles file")
	ErrWarmup     = errors.New("failed to initialize transliterator")
	ErrSetupDirs  = errors.New("failed to create working directories")
)

// dirPermissions is used for articles/, thumbnails/ and temp/.
const dirPermissions = 0o750 // rwxr-x---: owner full, group read+execute

// runGenerate runs the default command: one thumbnail per title.
// Returns the process exit code.
func runGenerate(ctx context.Context, args []string, env *Environment) int {
	flags, titles, err := parseGenerateFlags(args, env.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		printGenerateUsage(env.Stderr)
		return ExitUsage
	}

	if flags.file != "" {
		fromFile, err := readTitles(flags.file, env.Stdin)
		if err != nil {
			fmt.Fprintln(env.Stderr, err)
			return ExitGeneral
		}
		titles = append(titles, fromFile...)
	}

	// Nothing is created on disk before this check.
	if len(titles) == 0 {
		fmt.Fprintf(env.Stderr, "%v\n\n", ErrNoTitles)
		printGenerateUsage(env.Stderr)
		return ExitGeneral
	}

	warnUnknownEnvVars(env.Stderr)
	configureMaxprocs(flags.common.verbose, env.Stderr)

	envCfg := loadEnvConfig()
	cfg, err := resolveConfig(flags, envCfg, env)
	if err != nil {
		hint := ""
		if errors.Is(err, config.ErrConfigNotFound) {
			hint = configHint(configName(flags, envCfg))
		}
		fmt.Fprintf(env.Stderr, "%v%s\n", err, hint)
		return exitCodeFor(err)
	}
	if err := expandDeckDates(cfg, env.Now()); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	opts = append(opts, env.Options...)

	if err := prewarm(env.Warmer); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitGeneral
	}

	dirs := []string{
		cfg.Resolve(cfg.Paths.Articles),
		cfg.Resolve(cfg.Paths.Thumbnails),
		cfg.Resolve(cfg.Paths.Temp),
	}
	if err := fileutil.EnsureDirs(dirPermissions, dirs...); err != nil {
		fmt.Fprintf(env.Stderr, "%v: %v%s\n", ErrSetupDirs, err, hints.ForOutputDirectory())
		return ExitGeneral
	}

	poolSize := md2thumb.ResolvePoolSize(cfg.Workers)
	if poolSize > len(titles) {
		poolSize = len(titles)
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}

	pool := md2thumb.NewGeneratorPool(poolSize, opts...)
	defer func() {
		if err := pool.Close(); err != nil && flags.common.verbose {
			fmt.Fprintf(env.Stderr, "warning: closing browsers: %v\n", err)
		}
	}()

	ctx, stop := notifyContext(ctx)
	defer stop()

	results := generateBatch(ctx, pool, titles, env.Now)

	failed := printResults(results, flags.common.quiet, flags.common.verbose, cfg.Resolve(cfg.Paths.Theme), env)
	if failed > 0 && flags.strict {
		return ExitGeneral
	}
	return ExitSuccess
}

// configureMaxprocs sets GOMAXPROCS from the container CPU quota.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func configureMaxprocs(verbose bool, w io.Writer) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}

// prewarm loads the dictionary once so that no title pays for it.
func prewarm(w Warmer) error {
	if w == nil {
		return nil
	}
	if err := w.Init(); err != nil {
		return fmt.Errorf("%w: %v", ErrWarmup, err)
	}
	return nil
}

// readTitles reads one title per line from path, or from stdin when path is "-".
// Blank lines and lines starting with # are skipped.
func readTitles(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader
	if path == "-" {
		if stdin == nil {
			return nil, fmt.Errorf("%w: stdin unavailable", ErrReadTitles)
		}
		r = stdin
	} else {
		f, err := os.Open(path) // #nosec G304 -- path is user-provided
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadTitles, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var titles []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		titles = append(titles, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadTitles, err)
	}
	return titles, nil
}

// configName returns the config requested by flag or environment.
func configName(flags *generateFlags, envCfg *envConfig) string {
	if flags.common.config != "" {
		return flags.common.config
	}
	return envCfg.ConfigPath
}

// configHint suggests where a named config would be found.
func configHint(name string) string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil && name != "" && !fileutil.IsFilePath(name) {
		paths = append(paths, filepath.Join(dir, "go-md2thumb", name+".yaml"))
	}
	return hints.ForConfigNotFound(paths)
}

// resolveConfig loads the config file and layers env vars and flags on top.
func resolveConfig(flags *generateFlags, envCfg *envConfig, env *Environment) (*config.Config, error) {
	name := configName(flags, envCfg)

	var cfg *config.Config
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else if env.Config != nil {
		c := *env.Config
		c.Capture.Hide = append([]string(nil), env.Config.Capture.Hide...)
		cfg = &c
	} else {
		cfg = config.DefaultConfig()
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *generateFlags, cfg *config.Config) {
	if flags.root != "" {
		cfg.Root = flags.root
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.render.backend != "" {
		cfg.Render.Backend = flags.render.backend
	}
	if flags.render.theme != "" {
		cfg.Paths.Theme = flags.render.theme
	}
	if flags.render.header != "" {
		cfg.Render.Header = flags.render.header
	}
	if flags.render.footer != "" {
		cfg.Render.Footer = flags.render.footer
	}
	if flags.capture.timeout != "" {
		cfg.Capture.Timeout = flags.capture.timeout
	}
	if flags.capture.reuseBrowser {
		cfg.Capture.ReuseBrowser = true
	}
	if flags.output.width > 0 {
		cfg.Output.Width = flags.output.width
	}
	if flags.output.collision != "" {
		cfg.Output.Collision = flags.output.collision
	}
}

// expandDeckDates replaces {date} placeholders in the slide header and footer.
func expandDeckDates(cfg *config.Config, now time.Time) error {
	header, err := dateutil.Expand(cfg.Render.Header, now)
	if err != nil {
		return fmt.Errorf("%w: render.header: %v", config.ErrInvalidValue, err)
	}
	footer, err := dateutil.Expand(cfg.Render.Footer, now)
	if err != nil {
		return fmt.Errorf("%w: render.footer: %v", config.ErrInvalidValue, err)
	}
	cfg.Render.Header = header
	cfg.Render.Footer = footer
	return nil
}

// buildOptions maps a validated config to Generator options.
// Zero capture sizes keep the default viewport.
func buildOptions(cfg *config.Config) ([]md2thumb.Option, error) {
	timeout, err := cfg.Capture.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	viewport := md2thumb.DefaultViewport
	if cfg.Capture.Width > 0 {
		viewport.Width = cfg.Capture.Width
	}
	if cfg.Capture.Height > 0 {
		viewport.Height = cfg.Capture.Height
	}
	if cfg.Capture.Scale > 0 {
		viewport.Scale = cfg.Capture.Scale
	}

	// The default theme name follows the stylesheet file name.
	theme := cfg.Render.Theme
	if theme == config.DefaultThemeName {
		theme = ""
	}

	collision := md2thumb.CollisionOverwrite
	if cfg.Output.Collision == config.CollisionError {
		collision = md2thumb.CollisionError
	}

	opts := []md2thumb.Option{
		md2thumb.WithDirs(md2thumb.Dirs{
			Articles:   cfg.Resolve(cfg.Paths.Articles),
			Thumbnails: cfg.Resolve(cfg.Paths.Thumbnails),
			Temp:       cfg.Resolve(cfg.Paths.Temp),
		}),
		md2thumb.WithThemePath(cfg.Resolve(cfg.Paths.Theme)),
		md2thumb.WithDeck(md2thumb.Deck{
			Theme:    theme,
			Paginate: cfg.Render.Paginate,
			Header:   cfg.Render.Header,
			Footer:   cfg.Render.Footer,
			Size:     cfg.Render.Size,
		}),
		md2thumb.WithViewport(viewport),
		md2thumb.WithTimeout(timeout),
		md2thumb.WithHideSelectors(cfg.Capture.Hide),
		md2thumb.WithOutputWidth(cfg.Output.Width),
		md2thumb.WithCollisionPolicy(collision),
		md2thumb.WithReuseBrowser(cfg.Capture.ReuseBrowser),
	}

	if cfg.Render.Backend == config.BackendMarp {
		bin := cfg.Render.MarpBin
		if bin == "" {
			bin = config.DefaultMarpBin
		}
		opts = append(opts, md2thumb.WithRenderer(md2thumb.NewMarpRenderer(bin)))
	}

	return opts, nil
}
