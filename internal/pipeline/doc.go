// Package pipeline turns a single-slide deck into a standalone HTML page.
//
// Stages:
//   - Deck emission and parsing (front matter via internal/yamlutil)
//   - Slide splitting and Markdown preprocessing
//   - Markdown to HTML conversion via Goldmark
//   - Relative asset rewriting to file:// URLs
//   - Deck templating and theme CSS injection
//
// Rasterization is handled separately by the root md2thumb package using
// headless Chrome (go-rod). The pipeline only produces HTML; it never
// touches a browser.
package pipeline
