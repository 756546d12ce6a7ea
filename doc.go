// Package md2thumb renders title thumbnails: each title becomes a one-slide
// deck, the deck becomes an HTML page, and a headless browser captures the
// page as a PNG named after the romanized title.
//
// # Quick Start
//
//	gen, err := md2thumb.NewGenerator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gen.Close()
//
//	res, err := gen.Generate(ctx, "東京タワー")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Path) // thumbnails/tokyotawa.png
//
// # Pipeline
//
// Generate moves each title through these stages:
//
//  1. pending: romanize (kagome IPA dictionary, passport Hepburn) and sanitize to [a-z0-9]
//  2. markdown-written: scratch deck articles/md-<id>.md
//  3. rendered: scratch page temp/output-<id>.html (built-in Goldmark renderer or marp CLI)
//  4. captured: viewport PNG at 1280x720, device scale 2 (go-rod)
//  5. saved: optional downsizing (imaging)
//  6. cleaned-up: scratch files removed
//
// Scratch files are removed whatever the outcome. Failures are reported as
// *StageError.
//
// # Naming
//
// Titles whose romaji sanitizes to an empty string are named
// "title-<12 hex digits of SHA-256(title)>". With CollisionError, a second
// title mapping to a claimed or existing file fails with ErrNameCollision;
// the default CollisionOverwrite lets the last writer win.
//
// # Parallel Processing
//
// GeneratorPool hands out up to n Generators. Size it with ResolvePoolSize:
//
//	pool := md2thumb.NewGeneratorPool(md2thumb.ResolvePoolSize(0))
//	defer pool.Close()
//
//	gen, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(gen)
//	res, err := gen.Generate(ctx, title)
//
// By default each capture launches its own browser. WithReuseBrowser keeps
// one browser per Generator until Close.
package md2thumb
