package md2thumb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-md2thumb/internal/pipeline"
	"github.com/alnah/go-md2thumb/internal/process"
)

// Capturer rasterizes an HTML file into a PNG file.
type Capturer interface {
	Capture(ctx context.Context, htmlPath, pngPath string) error
	Close() error
}

// Compile-time interface check.
var _ Capturer = (*rodCapturer)(nil)

// browserSession is one launched headless browser.
type browserSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// close shuts the browser down and kills the launcher process group.
func (s *browserSession) close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.launcher != nil {
		process.KillProcessGroup(s.launcher.PID())
		s.launcher.Kill()
		s.launcher.Cleanup()
	}
	return err
}

// rodCapturer implements Capturer using go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodCapturer struct {
	viewport Viewport
	timeout  time.Duration
	hideCSS  string
	reuse    bool

	launch  func() (*browserSession, error)
	mu      sync.Mutex
	session *browserSession
}

// newRodCapturer creates a capturer. With reuse, one browser serves every
// Capture call until Close, and is relaunched if it stops opening pages;
// otherwise each call launches its own browser.
func newRodCapturer(viewport Viewport, timeout time.Duration, hide []string, reuse bool) *rodCapturer {
	return &rodCapturer{
		viewport: viewport,
		timeout:  timeout,
		hideCSS:  pipeline.HideSelectorsCSS(hide),
		reuse:    reuse,
		launch:   launchBrowser,
	}
}

// launchBrowser starts an isolated headless browser and connects to it.
func launchBrowser() (*browserSession, error) {
	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	s := &browserSession{launcher: l}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		_ = s.close()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	s.browser = browser
	return s, nil
}

// acquire returns a browser session for one capture and the function
// releasing it.
func (c *rodCapturer) acquire() (*browserSession, func(), error) {
	if !c.reuse {
		s, err := c.launch()
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.close() }, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		s, err := c.launch()
		if err != nil {
			return nil, nil, err
		}
		c.session = s
	}
	return c.session, func() {}, nil
}

// discard drops a shared session that can no longer open pages, so the
// next capture launches a new browser.
func (c *rodCapturer) discard(s *browserSession) {
	if !c.reuse {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == s {
		_ = s.close()
		c.session = nil
	}
}

// Capture loads htmlPath in a fresh page and writes a viewport screenshot
// to pngPath, creating its directory.
func (c *rodCapturer) Capture(ctx context.Context, htmlPath, pngPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pageURL, err := pipeline.FileURL(htmlPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	session, release, err := c.acquire()
	if err != nil {
		return err
	}
	defer release()

	page, err := session.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		if ctx.Err() == nil {
			c.discard(session)
		}
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             c.viewport.Width,
		Height:            c.viewport.Height,
		DeviceScaleFactor: c.viewport.Scale,
	}); err != nil {
		if ctx.Err() == nil {
			c.discard(session)
		}
		return fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	// Page load timeout, bounded by the context deadline.
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return context.DeadlineExceeded
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	loadPage := page.Timeout(timeout)
	defer loadPage.CancelTimeout()
	if err := loadPage.Navigate(pageURL); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := loadPage.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if c.hideCSS != "" {
		if err := page.AddStyleTag("", c.hideCSS); err != nil {
			return fmt.Errorf("%w: hiding controls: %v", ErrPageLoad, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(pngPath), 0o750); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteThumbnail, err)
	}

	img, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScreenshot, err)
	}

	if err := os.WriteFile(pngPath, img, 0o644); err != nil { // #nosec G306 -- thumbnails are public artifacts
		return fmt.Errorf("%w: %v", ErrWriteThumbnail, err)
	}
	return nil
}

// Close releases the shared browser, if any.
func (c *rodCapturer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	err := c.session.close()
	c.session = nil
	return err
}
