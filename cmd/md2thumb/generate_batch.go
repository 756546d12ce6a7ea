package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	md2thumb "github.com/alnah/go-md2thumb"
	"github.com/alnah/go-md2thumb/internal/assets"
	"github.com/alnah/go-md2thumb/internal/hints"
)

// Pool abstracts generator pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (*md2thumb.Generator, error)
	Release(*md2thumb.Generator)
	Size() int
}

// Compile-time interface implementation check.
var _ Pool = (*md2thumb.GeneratorPool)(nil)

// TitleResult holds the outcome of a single title.
type TitleResult struct {
	Title    string
	Result   *md2thumb.Result
	Err      error
	Duration time.Duration
}

// generateBatch processes titles concurrently, one Generator per worker.
// Results keep the order of titles. One title's failure never affects others.
func generateBatch(ctx context.Context, pool Pool, titles []string, now func() time.Time) []TitleResult {
	if len(titles) == 0 {
		return nil
	}
	if now == nil {
		now = time.Now
	}

	concurrency := pool.Size()
	if concurrency > len(titles) {
		concurrency = len(titles)
	}

	results := make([]TitleResult, len(titles))
	var wg sync.WaitGroup
	jobs := make(chan int, len(titles))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			gen, err := pool.Acquire(ctx)
			if err != nil {
				// No generator for this worker; fail the jobs it takes.
				for idx := range jobs {
					results[idx] = TitleResult{Title: titles[idx], Err: err}
				}
				return
			}
			defer pool.Release(gen)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = TitleResult{Title: titles[idx], Err: ctx.Err()}
					continue
				}
				results[idx] = generateTitle(ctx, gen, titles[idx], now)
			}
		}()
	}

	for i := range titles {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// generateTitle runs one title and times it.
func generateTitle(ctx context.Context, gen *md2thumb.Generator, title string, now func() time.Time) TitleResult {
	start := now()
	res, err := gen.Generate(ctx, title)
	return TitleResult{
		Title:    title,
		Result:   res,
		Err:      err,
		Duration: now().Sub(start),
	}
}

// ResultSummary holds the count of succeeded and failed titles.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed titles.
func countResults(results []TitleResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs per-title results and a summary.
// Returns the number of failed titles.
func printResults(results []TitleResult, quiet, verbose bool, themePath string, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %q: %v%s\n", r.Title, r.Err, hintFor(r.Err, themePath))
			continue
		}

		if r.Result.Fallback {
			fmt.Fprintf(env.Stderr, "warning: %q has no romaji, named %s\n", r.Title, r.Result.Name)
		}

		if quiet {
			continue
		}

		fmt.Fprintf(env.Stdout, "Created %s\n", r.Result.Path)
		if verbose {
			fmt.Fprintf(env.Stdout, "  %q -> %s (%v)\n", r.Title, r.Result.Name, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "  %q -> %s\n", r.Title, r.Result.Name)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, themePath string) string {
	switch {
	case errors.Is(err, md2thumb.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, md2thumb.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, md2thumb.ErrMarpNotFound):
		return hints.ForMarpNotFound()
	case errors.Is(err, md2thumb.ErrNameCollision):
		return hints.ForNameCollision()
	case errors.Is(err, assets.ErrThemeNotFound):
		return hints.ForThemeNotFound(themePath)
	case errors.Is(err, md2thumb.ErrWriteThumbnail):
		return hints.ForOutputDirectory()
	}
	return ""
}
