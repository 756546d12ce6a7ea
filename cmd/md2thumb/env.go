package main

import (
	"io"
	"os"
	"time"

	md2thumb "github.com/alnah/go-md2thumb"
	"github.com/alnah/go-md2thumb/internal/config"
	"github.com/alnah/go-md2thumb/internal/romaji"
)

// Warmer loads expensive shared state before the batch starts.
type Warmer interface {
	Init() error
}

// Environment holds injectable dependencies for testability.
// Includes I/O, time, configuration, and the transliterator to pre-warm.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader // Titles for --file -
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config // Used when neither --config nor MD2THUMB_CONFIG is set
	Warmer Warmer
	// Options are appended after the options built from configuration.
	Options []md2thumb.Option
}

// DefaultEnv returns production environment with the shared kagome transliterator.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: config.DefaultConfig(),
		Warmer: romaji.Shared(),
	}
}
