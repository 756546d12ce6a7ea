package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FileURL converts a path to a file:// URL, resolving it to an absolute
// path first. Windows separators are converted.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		// C:/x must become /C:/x to form file:///C:/x.
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String(), nil
}

// RewriteSlideAssets rewrites relative img[src] and video[poster] references
// in a slide fragment to file:// URLs under sourceDir. The HTML page lives
// in a different directory than the deck, so relative paths would otherwise
// resolve against the wrong place. References escaping sourceDir are left
// untouched. An empty sourceDir returns the fragment unchanged.
func RewriteSlideAssets(fragment, sourceDir string) (string, error) {
	if sourceDir == "" || !strings.Contains(fragment, "<") {
		return fragment, nil
	}

	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	changed := false
	for _, n := range nodes {
		changed = rewriteAssetNode(n, absDir) || changed
	}
	if !changed {
		return fragment, nil
	}

	var buf strings.Builder
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rewriteAssetNode(n *html.Node, dir string) bool {
	changed := false
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			changed = rewriteAssetAttr(n, "src", dir)
		case atom.Video:
			changed = rewriteAssetAttr(n, "poster", dir)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		changed = rewriteAssetNode(c, dir) || changed
	}
	return changed
}

func rewriteAssetAttr(n *html.Node, key, dir string) bool {
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelativeRef(attr.Val) {
			continue
		}

		// Goldmark percent-encodes link destinations.
		ref := attr.Val
		if unescaped, err := url.PathUnescape(ref); err == nil {
			ref = unescaped
		}

		abs := filepath.Join(dir, filepath.FromSlash(ref))
		if !isPathUnderDir(abs, dir) {
			continue
		}
		u, err := FileURL(abs)
		if err != nil {
			continue
		}
		n.Attr[i].Val = u
		return true
	}
	return false
}

// isRelativeRef reports whether ref is a relative filesystem reference.
func isRelativeRef(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return false
	}
	return !filepath.IsAbs(ref) && !strings.HasPrefix(ref, "/")
}

// isPathUnderDir reports whether absPath is dir or inside it.
func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}
