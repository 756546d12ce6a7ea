package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Paths.Articles != "articles" {
		t.Errorf("Paths.Articles = %q, want %q", cfg.Paths.Articles, "articles")
	}
	if cfg.Paths.Thumbnails != "thumbnails" {
		t.Errorf("Paths.Thumbnails = %q, want %q", cfg.Paths.Thumbnails, "thumbnails")
	}
	if cfg.Paths.Temp != "temp" {
		t.Errorf("Paths.Temp = %q, want %q", cfg.Paths.Temp, "temp")
	}
	if cfg.Paths.Theme != "theme/custom.css" {
		t.Errorf("Paths.Theme = %q, want %q", cfg.Paths.Theme, "theme/custom.css")
	}
	if cfg.Capture.Width != 1280 || cfg.Capture.Height != 720 || cfg.Capture.Scale != 2 {
		t.Errorf("Capture = %dx%d@%v, want 1280x720@2", cfg.Capture.Width, cfg.Capture.Height, cfg.Capture.Scale)
	}
	if cfg.Capture.ReuseBrowser {
		t.Error("Capture.ReuseBrowser = true, want false")
	}
	if len(cfg.Capture.Hide) != len(DefaultHideSelectors) {
		t.Errorf("Capture.Hide = %v, want %v", cfg.Capture.Hide, DefaultHideSelectors)
	}
	if cfg.Output.Collision != CollisionOverwrite {
		t.Errorf("Output.Collision = %q, want %q", cfg.Output.Collision, CollisionOverwrite)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestDefaultConfig_HideIsCopied(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Capture.Hide[0] = ".changed"
	if DefaultHideSelectors[0] == ".changed" {
		t.Error("DefaultConfig shares the DefaultHideSelectors backing array")
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	if err := validateFieldLength("f", "1234567890", 10); err != nil {
		t.Errorf("value at limit: unexpected error %v", err)
	}
	err := validateFieldLength("f", "12345678901", 10)
	if !errors.Is(err, ErrFieldTooLong) {
		t.Errorf("error = %v, want ErrFieldTooLong", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid defaults", func(c *Config) {}, nil},
		{"empty enums use defaults", func(c *Config) {
			c.Render.Backend = ""
			c.Render.Size = ""
			c.Output.Collision = ""
		}, nil},
		{"marp backend", func(c *Config) { c.Render.Backend = BackendMarp }, nil},
		{"unknown backend", func(c *Config) { c.Render.Backend = "pandoc" }, ErrInvalidValue},
		{"theme with slash", func(c *Config) { c.Render.Theme = "../x" }, ErrInvalidValue},
		{"unknown size", func(c *Config) { c.Render.Size = "21:9" }, ErrInvalidValue},
		{"header too long", func(c *Config) { c.Render.Header = strings.Repeat("a", MaxTextLength+1) }, ErrFieldTooLong},
		{"negative width", func(c *Config) { c.Capture.Width = -1 }, ErrInvalidValue},
		{"huge height", func(c *Config) { c.Capture.Height = MaxViewportSide + 1 }, ErrInvalidValue},
		{"scale too big", func(c *Config) { c.Capture.Scale = 5 }, ErrInvalidValue},
		{"bad timeout", func(c *Config) { c.Capture.Timeout = "soon" }, ErrInvalidValue},
		{"zero timeout", func(c *Config) { c.Capture.Timeout = "0s" }, ErrInvalidValue},
		{"selector with brace", func(c *Config) { c.Capture.Hide = []string{"a{}"} }, ErrInvalidValue},
		{"negative output width", func(c *Config) { c.Output.Width = -5 }, ErrInvalidValue},
		{"unknown collision", func(c *Config) { c.Output.Collision = "rename" }, ErrInvalidValue},
		{"negative workers", func(c *Config) { c.Workers = -1 }, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCaptureConfig_TimeoutDuration(t *testing.T) {
	t.Parallel()

	d, err := CaptureConfig{}.TimeoutDuration()
	if err != nil || d != 30*time.Second {
		t.Errorf("empty timeout = %v, %v; want 30s, nil", d, err)
	}

	d, err = CaptureConfig{Timeout: "1m30s"}.TimeoutDuration()
	if err != nil || d != 90*time.Second {
		t.Errorf("1m30s = %v, %v; want 90s, nil", d, err)
	}
}

func TestConfig_Resolve(t *testing.T) {
	t.Parallel()

	abs, _ := filepath.Abs("/elsewhere")
	cfg := &Config{Root: "/srv/site"}

	if got := cfg.Resolve("thumbnails"); got != filepath.Join("/srv/site", "thumbnails") {
		t.Errorf("Resolve(relative) = %q", got)
	}
	if got := cfg.Resolve(abs); got != abs {
		t.Errorf("Resolve(absolute) = %q, want %q", got, abs)
	}
	if got := (&Config{}).Resolve("temp"); got != "temp" {
		t.Errorf("Resolve without root = %q, want %q", got, "temp")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "thumbs.yaml")
		content := "render:\n  backend: marp\ncapture:\n  timeout: 45s\noutput:\n  width: 640\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Render.Backend != BackendMarp {
			t.Errorf("Render.Backend = %q, want marp", cfg.Render.Backend)
		}
		if cfg.Capture.Timeout != "45s" {
			t.Errorf("Capture.Timeout = %q, want 45s", cfg.Capture.Timeout)
		}
		if cfg.Output.Width != 640 {
			t.Errorf("Output.Width = %d, want 640", cfg.Output.Width)
		}
		if cfg.Capture.Width != DefaultWidth {
			t.Errorf("Capture.Width = %d, want default %d", cfg.Capture.Width, DefaultWidth)
		}
		if cfg.Paths.Thumbnails != DefaultThumbnailsDir {
			t.Errorf("Paths.Thumbnails = %q, want default", cfg.Paths.Thumbnails)
		}
	})

	t.Run("unknown field is a parse error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("bogus: true\n"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value fails validation", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "invalid.yaml")
		if err := os.WriteFile(path, []byte("output:\n  collision: rename\n"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("unknown name lists tried paths", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("no-such-config-name-xyz")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "no-such-config-name-xyz.yaml") {
			t.Errorf("error %q should list tried paths", err)
		}
	})
}
