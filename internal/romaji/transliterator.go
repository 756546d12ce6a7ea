package romaji

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"golang.org/x/text/unicode/norm"
)

// ErrInit indicates the analyzer could not be initialized.
// Every conversion on a Transliterator whose initialization failed returns it.
var ErrInit = errors.New("transliterator initialization failed")

// Segment is one token produced by an Analyzer.
// Reading is empty when the analyzer knows no reading for the surface.
type Segment struct {
	Surface string
	Reading string
}

// Analyzer splits text into segments carrying kana readings.
type Analyzer interface {
	Segments(text string) []Segment
}

// Loader builds an Analyzer. It is called at most once per Transliterator.
type Loader func() (Analyzer, error)

// Option configures a Transliterator.
type Option func(*Transliterator)

// WithLoader replaces the default kagome/IPA loader.
func WithLoader(l Loader) Option {
	return func(t *Transliterator) {
		t.load = l
	}
}

// Transliterator converts text to romaji. Safe for concurrent use.
type Transliterator struct {
	load     Loader
	analyzer func() (Analyzer, error)
}

var shared = New()

// Shared returns the process-wide Transliterator.
func Shared() *Transliterator {
	return shared
}

// New creates a Transliterator. The analyzer is not loaded until Init or
// ToRomaji is first called.
func New(opts ...Option) *Transliterator {
	t := &Transliterator{load: loadKagome}
	for _, opt := range opts {
		opt(t)
	}
	t.analyzer = sync.OnceValues(func() (Analyzer, error) {
		return t.load()
	})
	return t
}

// Init loads the analyzer. Concurrent callers wait for the same load and
// observe the same result; later calls return immediately.
func (t *Transliterator) Init() error {
	_, err := t.ready()
	return err
}

func (t *Transliterator) ready() (Analyzer, error) {
	a, err := t.analyzer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: loader returned no analyzer", ErrInit)
	}
	return a, nil
}

// ToRomaji returns the lowercase romanization of text with all whitespace removed.
// Segment readings are joined with spaces and romanized in one pass: word
// boundaries stop long-vowel folding, while a っ or ん ending one segment
// still affects the first syllable of the next (待っ|て -> matte).
func (t *Transliterator) ToRomaji(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	a, err := t.ready()
	if err != nil {
		return "", err
	}

	segments := a.Segments(norm.NFKC.String(text))
	words := make([]string, 0, len(segments))
	for _, s := range segments {
		src := s.Reading
		if src == "" {
			src = s.Surface
		}
		words = append(words, src)
	}

	return compact(KanaToRomaji(strings.Join(words, " "))), nil
}

// compact lowercases s and drops every whitespace rune.
func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// kagomeAnalyzer adapts a kagome tokenizer to Analyzer.
type kagomeAnalyzer struct {
	tk *tokenizer.Tokenizer
}

func (k *kagomeAnalyzer) Segments(text string) []Segment {
	tokens := k.tk.Tokenize(text)
	out := make([]Segment, 0, len(tokens))
	for _, tok := range tokens {
		seg := Segment{Surface: tok.Surface}
		if r, ok := tok.Reading(); ok && r != "*" {
			seg.Reading = r
		}
		out = append(out, seg)
	}
	return out
}

// loadKagome builds a tokenizer over the embedded IPA dictionary.
// The dictionary package panics on a corrupt embed, which is reported as an error.
func loadKagome() (a Analyzer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("loading IPA dictionary: %v", r)
		}
	}()

	tk, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("creating tokenizer: %w", err)
	}
	return &kagomeAnalyzer{tk: tk}, nil
}
