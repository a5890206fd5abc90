package docx2html

import (
	"encoding/base64"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/alnah/go-docx2html/internal/dom"
)

// printable returns a copy of doc that renders from a temporary file:
// the stylesheet link becomes an inline style element, images extracted
// from the archive become data URLs and other relative references become
// file URLs under baseDir. doc is not modified.
func printable(doc *dom.Document, css, href, baseDir string, media map[string][]byte) *dom.Document {
	out := doc.Clone()
	inlineStylesheet(out, css, href)
	inlineMedia(out.Root(), media)
	if baseDir != "" {
		rewriteRelativePaths(out.Root(), baseDir)
	}
	return out
}

// inlineStylesheet replaces the link to href with a style element holding
// css. Without a matching link the rules are appended to the head.
func inlineStylesheet(doc *dom.Document, css, href string) {
	if css == "" {
		return
	}
	head := doc.Head()
	if head == nil {
		return
	}
	style := dom.NewElement("style", dom.NewText(sanitizeCSS(css)))
	link := dom.FindFirst(head, func(n *dom.Node) bool {
		return n.IsElement("link") && n.GetAttr("rel") == "stylesheet" && n.GetAttr("href") == href
	})
	if link != nil {
		_ = dom.ReplaceChild(link.Parent(), link, style)
		return
	}
	_ = dom.AppendChild(head, style)
}

// inlineMedia replaces img sources naming an extracted image with a data
// URL of its bytes.
func inlineMedia(root *dom.Node, media map[string][]byte) {
	if len(media) == 0 {
		return
	}
	for n := range dom.FindAll(root, dom.ByTag("img")) {
		data, ok := media[n.GetAttr("src")]
		if !ok {
			continue
		}
		typ := mime.TypeByExtension(path.Ext(n.GetAttr("src")))
		if typ == "" {
			typ = "application/octet-stream"
		}
		n.SetAttr("src", "data:"+typ+";base64,"+base64.StdEncoding.EncodeToString(data))
	}
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// urlAttrs lists the attributes holding references per element.
var urlAttrs = map[string]string{
	"img":  "src",
	"a":    "href",
	"link": "href",
}

// rewriteRelativePaths turns relative references into file URLs. Paths that
// escape baseDir are left alone.
func rewriteRelativePaths(root *dom.Node, baseDir string) {
	absDir, err := filepath.Abs(baseDir)
	if err != nil {
		return
	}
	for n := range dom.FindAll(root, dom.Elements) {
		attr, ok := urlAttrs[n.Tag]
		if !ok {
			continue
		}
		val, ok := n.Attr(attr)
		if !ok || !isRelativePath(val) {
			continue
		}
		ref, frag, _ := strings.Cut(val, "#")
		if ref == "" {
			continue
		}
		abs := filepath.Join(absDir, filepath.FromSlash(ref))
		if !isPathUnderDir(abs, absDir) {
			continue
		}
		u := fileURL(abs)
		if frag != "" {
			u += "#" + frag
		}
		n.SetAttr(attr, u)
	}
}

// isRelativePath reports whether path is a reference to rewrite.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}
	for _, prefix := range []string{"http://", "https://", "file://", "data:", "mailto:", "//", "#"} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return !filepath.IsAbs(path)
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// fileURL converts an absolute path to a file:// URL.
func fileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	if !strings.HasPrefix(u.Path, "/") {
		// Windows drive letters.
		u.Path = "/" + u.Path
	}
	return u.String()
}
