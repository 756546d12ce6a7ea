package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrDeckRender indicates the deck template could not be executed.
var ErrDeckRender = errors.New("deck rendering failed")

// DeckRenderOptions configures DeckRenderer.Render.
type DeckRenderOptions struct {
	// ThemeCSS is inlined into the page head.
	ThemeCSS string
	// SourceDir resolves relative image references. Empty disables rewriting.
	SourceDir string
}

// slideData is one slide in the deck template.
type slideData struct {
	Number  int
	Content template.HTML
}

// deckData feeds the deck template.
type deckData struct {
	Title    string
	Theme    string
	Size     string
	Width    int
	Height   int
	Paginate bool
	Header   string
	Footer   string
	Progress int
	Slides   []slideData
}

// DeckRenderer renders a deck document into a standalone HTML page.
type DeckRenderer struct {
	tmpl      *template.Template
	converter HTMLConverter
	pre       MarkdownPreprocessor
	css       CSSInjector
}

// NewDeckRenderer parses the deck template. A nil converter selects the
// Goldmark converter.
func NewDeckRenderer(tmplContent string, converter HTMLConverter) (*DeckRenderer, error) {
	tmpl, err := template.New("deck").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing deck template: %w", err)
	}
	if converter == nil {
		converter = NewGoldmarkConverter()
	}
	return &DeckRenderer{
		tmpl:      tmpl,
		converter: converter,
		pre:       &SlidePreprocessor{},
		css:       &CSSInjection{},
	}, nil
}

// Render converts a deck document to HTML.
func (r *DeckRenderer) Render(ctx context.Context, content string, opts DeckRenderOptions) (string, error) {
	meta, body, err := ParseDeck(content)
	if err != nil {
		return "", err
	}

	parts := SplitSlides(body)
	slides := make([]slideData, 0, len(parts))
	for i, part := range parts {
		fragment, err := r.converter.ToHTML(ctx, r.pre.PreprocessMarkdown(ctx, part))
		if err != nil {
			return "", err
		}
		fragment = ConvertMarkPlaceholders(fragment)
		fragment, err = RewriteSlideAssets(fragment, opts.SourceDir)
		if err != nil {
			return "", fmt.Errorf("%w: slide %d: %v", ErrDeckRender, i+1, err)
		}
		// #nosec G203 -- goldmark escapes raw HTML; fragment is trusted output
		slides = append(slides, slideData{Number: i + 1, Content: template.HTML(fragment)})
	}

	width, height := meta.Size.Dimensions()
	data := deckData{
		Title:    deckTitle(body),
		Theme:    meta.Theme,
		Size:     string(meta.Size),
		Width:    width,
		Height:   height,
		Paginate: meta.Paginate,
		Header:   meta.Header,
		Footer:   meta.Footer,
		Progress: 100 / len(slides),
		Slides:   slides,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDeckRender, err)
	}

	return r.css.InjectCSS(ctx, buf.String(), opts.ThemeCSS), nil
}

// deckTitle returns the text of the first level-one heading, or "Slides".
func deckTitle(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if t, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			if t = strings.TrimSpace(t); t != "" {
				return t
			}
		}
	}
	return "Slides"
}
