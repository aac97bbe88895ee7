package checker

import (
	"net/url"
	"path"
	"strings"
)

// IsExternalLink reports whether a raw attribute value points outside the
// site: it has a URL scheme, is protocol-relative ("//host/..."), or is a
// mailto link. Ported from the scheme-scanning loop in the original
// hyperlink implementation (src/urls.rs), which this behavior is grounded
// on directly.
func IsExternalLink(raw string) bool {
	if raw == "" {
		return false
	}
	if strings.HasPrefix(raw, "//") {
		return true
	}
	first := raw[0]
	if !isASCIIAlpha(first) {
		return false
	}
	for i := 1; i < len(raw); i++ {
		c := raw[i]
		switch {
		case isASCIIAlpha(c) || (c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.':
			continue
		case c == ':':
			return true
		default:
			return false
		}
	}
	return false
}

func isASCIIAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ResolvedHref is a normalized internal link target: a DocumentId plus an
// optional anchor (see spec §3, "Href").
type ResolvedHref struct {
	Path      string
	Anchor    string
	HasAnchor bool
}

// splitRawHref splits a raw href into its path (everything before the
// first "?" or "#") and its anchor (everything after the first "#").
// An empty rawPath is the "" / "#x" self-reference case in spec §8.
func splitRawHref(raw string) (rawPath, rawAnchor string, hasAnchor bool) {
	hashIdx := strings.IndexByte(raw, '#')
	qIdx := strings.IndexByte(raw, '?')

	qsStart := len(raw)
	if qIdx >= 0 && qIdx < qsStart {
		qsStart = qIdx
	}
	if hashIdx >= 0 && hashIdx < qsStart {
		qsStart = hashIdx
	}

	if hashIdx >= 0 {
		hasAnchor = true
		rawAnchor = raw[hashIdx+1:]
	}
	rawPath = raw[:qsStart]
	return rawPath, rawAnchor, hasAnchor
}

func percentDecode(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// ResolveHref normalizes a raw href/src attribute value found in
// containingDoc (a DocumentId) into a ResolvedHref. docDir is the
// containing document's directory, root-relative with a leading and
// trailing slash (e.g. "/blog/"). ok is false when the href is external,
// escapes the site root, or is otherwise not a valid internal link — the
// caller should silently drop it (spec §8: "escaping the site root...
// dropped silently").
func ResolveHref(containingDoc, docDir, raw string) (ResolvedHref, bool) {
	trimmed := strings.TrimFunc(raw, isASCIISpace)
	if IsExternalLink(trimmed) {
		return ResolvedHref{}, false
	}

	rawPath, rawAnchor, hasAnchor := splitRawHref(trimmed)
	decodedPath := percentDecode(rawPath)
	decodedAnchor := ""
	if hasAnchor {
		decodedAnchor = percentDecode(rawAnchor)
	}

	if decodedPath == "" {
		// href="" or "#x": resolves against the containing document itself.
		return ResolvedHref{Path: containingDoc, Anchor: decodedAnchor, HasAnchor: hasAnchor}, true
	}

	base := docDir
	if strings.HasPrefix(decodedPath, "/") {
		base = "/"
	}

	resolved, ok := resolvePath(base, decodedPath)
	if !ok {
		return ResolvedHref{}, false
	}

	return ResolvedHref{Path: resolved, Anchor: decodedAnchor, HasAnchor: hasAnchor}, true
}

// resolvePath resolves a decoded relative-or-absolute path against base
// (a root-relative directory, leading+trailing slash), collapsing "."
// and ".." components. Directory-form results ("" or trailing "/") are
// canonicalized to an "index.html" file per spec §3/§4.3. ok is false if
// the path climbs past the site root.
func resolvePath(base, p string) (string, bool) {
	segments := strings.Split(p, "/")

	// A path names a directory, not a file, when its last component
	// doesn't name anything itself: an empty component (trailing "/"),
	// "." (same directory), or ".." (parent directory) — e.g. "foo/",
	// "foo/.", and ".." are all directory references, but "foo/.."
	// collapses to a directory reference too since the trailing ".."
	// is itself the last segment.
	last := segments[len(segments)-1]
	isDir := last == "" || last == "." || last == ".."

	var stack []string
	if base != "/" {
		for _, c := range strings.Split(strings.Trim(base, "/"), "/") {
			if c != "" {
				stack = append(stack, c)
			}
		}
	}

	for _, c := range segments {
		switch c {
		case "", ".":
			// skip
		case "..":
			if len(stack) == 0 {
				return "", false
			}
			stack = stack[:len(stack)-1]
		default:
			stack = append(stack, c)
		}
	}

	if isDir {
		stack = append(stack, "index.html")
	}

	return "/" + path.Join(stack...), true
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// DocumentDir returns the root-relative directory containing docID, with
// a leading and trailing slash, suitable as the base argument to
// ResolveHref.
func DocumentDir(docID string) string {
	i := strings.LastIndexByte(docID, '/')
	if i <= 0 {
		return "/"
	}
	return docID[:i+1]
}

// NormalizeDocumentID converts a slash-separated path, relative to the
// site root, into a DocumentId: absolute-style, forward slashes only.
func NormalizeDocumentID(relPath string) string {
	rel := filepathToSlash(relPath)
	rel = strings.TrimPrefix(rel, "/")
	return "/" + rel
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// IsHTMLPath reports whether path has an .html or .htm suffix,
// case-insensitively.
func IsHTMLPath(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}

// DirectoryFormOf returns the trailing-slash directory alias of an
// index.html DocumentId, e.g. "/blog/index.html" -> "/blog/". Returns
// "" if docID does not name an index.html/index.htm file.
func DirectoryFormOf(docID string) string {
	lower := strings.ToLower(docID)
	switch {
	case strings.HasSuffix(lower, "/index.html"):
		return docID[:len(docID)-len("index.html")]
	case strings.HasSuffix(lower, "/index.htm"):
		return docID[:len(docID)-len("index.htm")]
	default:
		return ""
	}
}
