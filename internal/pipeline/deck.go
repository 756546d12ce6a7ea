package pipeline

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-md2thumb/internal/yamlutil"
)

// Sentinel errors for deck handling.
var (
	ErrDeckWrite = errors.New("writing deck failed")
	ErrDeckParse = errors.New("parsing deck failed")
	ErrNotADeck  = errors.New("front matter does not enable marp")
)

// Slide sizes understood by the built-in renderer.
const (
	Size16x9 = "16:9"
	Size4x3  = "4:3"
)

// SlideSize is a deck size directive such as "16:9".
// It decodes from the raw scalar so YAML number rules never apply.
type SlideSize string

// UnmarshalYAML implements the goccy/go-yaml BytesUnmarshaler interface.
func (s *SlideSize) UnmarshalYAML(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if unq, err := strconv.Unquote(raw); err == nil {
		raw = unq
	} else if len(raw) >= 2 && raw[0] == '\'' && raw[len(raw)-1] == '\'' {
		raw = strings.ReplaceAll(raw[1:len(raw)-1], "''", "'")
	}
	*s = SlideSize(raw)
	return nil
}

// Dimensions returns the slide canvas in CSS pixels.
// Unknown sizes fall back to 16:9.
func (s SlideSize) Dimensions() (width, height int) {
	if string(s) == Size4x3 {
		return 960, 720
	}
	return 1280, 720
}

// DeckMeta holds the front matter directives of a deck.
type DeckMeta struct {
	Marp     bool      `yaml:"marp"`
	Theme    string    `yaml:"theme"`
	Paginate bool      `yaml:"paginate"`
	Header   string    `yaml:"header"`
	Footer   string    `yaml:"footer"`
	Size     SlideSize `yaml:"size"`
}

// DefaultDeckMeta returns the directives used for title thumbnails.
func DefaultDeckMeta() DeckMeta {
	return DeckMeta{
		Marp:  true,
		Theme: "custom",
		Size:  Size16x9,
	}
}

// FormatDeck returns the deck document for a title: front matter, a blank
// line, then the title as a level-one heading. The title is written verbatim.
func FormatDeck(title string, meta DeckMeta) string {
	theme := meta.Theme
	if theme == "" {
		theme = DefaultDeckMeta().Theme
	}
	size := meta.Size
	if size == "" {
		size = Size16x9
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString("marp: true\n")
	sb.WriteString("theme: " + strconv.Quote(theme) + "\n")
	sb.WriteString("paginate: " + strconv.FormatBool(meta.Paginate) + "\n")
	sb.WriteString("header: " + strconv.Quote(meta.Header) + "\n")
	sb.WriteString("footer: " + strconv.Quote(meta.Footer) + "\n")
	sb.WriteString("size: " + string(size) + "\n")
	sb.WriteString("---\n\n")
	sb.WriteString("# " + title)
	return sb.String()
}

// WriteDeck writes the deck document for title to path, UTF-8 encoded.
func WriteDeck(path, title string, meta DeckMeta) error {
	if err := os.WriteFile(path, []byte(FormatDeck(title, meta)), 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrDeckWrite, err)
	}
	return nil
}

// ParseDeck extracts deck directives and the slide body from a document.
// Missing directives keep their DefaultDeckMeta values except Marp, which
// must be set explicitly.
func ParseDeck(content string) (DeckMeta, string, error) {
	meta := DefaultDeckMeta()
	meta.Marp = false

	body, err := yamlutil.DecodeFrontMatter(content, &meta)
	if err != nil {
		return DeckMeta{}, "", fmt.Errorf("%w: %v", ErrDeckParse, err)
	}
	if !meta.Marp {
		return DeckMeta{}, "", ErrNotADeck
	}
	return meta, body, nil
}
