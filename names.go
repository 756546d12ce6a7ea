package md2thumb

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/alnah/go-md2thumb/internal/fileutil"
	"github.com/alnah/go-md2thumb/internal/romaji"
)

// fallbackHashLen is the number of hex digits kept in fallback names.
const fallbackHashLen = 12

// ThumbnailName derives the file name (without extension) for a title:
// the sanitized romaji, or "title-" plus a short SHA-256 of the title when
// nothing survives sanitization. fallback reports the latter case.
func ThumbnailName(ctx context.Context, t Transliterator, title string) (name string, fallback bool, err error) {
	rom, err := t.ToRomaji(ctx, title)
	if err != nil {
		return "", false, err
	}
	if name = romaji.Sanitize(rom); name != "" {
		return name, false, nil
	}
	return FallbackName(title), true, nil
}

// FallbackName returns "title-<first 12 hex digits of SHA-256(title)>".
func FallbackName(title string) string {
	sum := sha256.Sum256([]byte(title))
	return "title-" + hex.EncodeToString(sum[:])[:fallbackHashLen]
}

// NameRegistry tracks thumbnail paths claimed during a run.
// It is only consulted under CollisionError.
type NameRegistry struct {
	mu      sync.Mutex
	claimed map[string]string // path -> title
}

// NewNameRegistry creates an empty registry.
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{claimed: make(map[string]string)}
}

// Claim reserves path for title. It fails with ErrNameCollision when path was
// already claimed, or already exists on disk.
func (r *NameRegistry) Claim(path, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.claimed[path]; ok {
		return fmt.Errorf("%w: %s (already used by %q)", ErrNameCollision, path, prev)
	}
	if fileutil.FileExists(path) {
		return fmt.Errorf("%w: %s exists", ErrNameCollision, path)
	}
	r.claimed[path] = title
	return nil
}

// Release frees path so a later title may claim it.
func (r *NameRegistry) Release(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.claimed, path)
}
