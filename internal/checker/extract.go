package checker

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// linkAttr maps each recognized element to the attribute that carries
// its outbound link target, per spec §4.3's table.
var linkAttr = map[atom.Atom]string{
	atom.A:       "href",
	atom.Link:    "href",
	atom.Img:     "src",
	atom.Script:  "src",
	atom.Iframe:  "src",
	atom.Audio:   "src",
	atom.Video:   "src",
	atom.Source:  "src",
	atom.Embed:   "src",
	atom.Track:   "src",
	atom.Object:  "data",
	atom.Area:    "href",
}

// srcsetElements additionally split a "srcset" attribute into candidate
// URLs (spec §4.3's img/source row, exercised by the original
// implementation's test_document_links srcset case).
var srcsetElements = map[atom.Atom]bool{
	atom.Img:    true,
	atom.Source: true,
}

// anchorNameAttr names the extra attribute, per element, that declares
// an anchor besides "id" (spec §4.3: "a" -> name); "id" itself is
// checked on every element in ExtractDocument.
var anchorNameAttr = map[atom.Atom]string{
	atom.A: "name",
}

// paragraphTags bound the surrounding-text window hashed for the
// source-mapper (original_source/src/html/mod.rs's PARAGRAPH_TAGS).
var paragraphTags = map[atom.Atom]bool{
	atom.P:  true,
	atom.Li: true,
}

// ExtractOptions controls what the extractor records.
type ExtractOptions struct {
	CheckAnchors    bool
	TrackParagraphs bool
}

// pendingUse defers attaching a ParagraphHash until the enclosing
// paragraph tag closes.
type pendingUse struct {
	target string
	use    Use
}

// ExtractDocument tokenizes the HTML document named docID (read from r)
// and records its links and anchors into store, per spec §4.3. It never
// returns an error for malformed markup — the tokenizer recovers
// permissively, per spec §6 ("ill-formed input never aborts the run") —
// only for I/O failures on r.
func ExtractDocument(store *LinkStore, docID string, r io.Reader, opts ExtractOptions) error {
	docDir := DocumentDir(docID)
	z := html.NewTokenizer(r)

	anchors := NewAnchorSet()
	var pending []pendingUse
	hasher := newParagraphHasher()
	inParagraph := false

	flushParagraph := func() {
		if len(pending) == 0 {
			return
		}
		var hash ParagraphHash
		haveHash := opts.TrackParagraphs && !hasher.empty()
		if haveHash {
			hash = hasher.finish()
		} else if opts.TrackParagraphs {
			hasher.finish()
		}
		for _, pu := range pending {
			use := pu.use
			if haveHash {
				use.Context = hash
				use.HasContext = true
			}
			store.InsertUse(pu.target, use)
		}
		pending = pending[:0]
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			err := z.Err()
			flushParagraph()
			store.InsertDefined(docID, anchors)
			if dirForm := DirectoryFormOf(docID); dirForm != "" {
				store.InsertDefined(dirForm, anchors)
			}
			if err == io.EOF {
				return nil
			}
			return err

		case html.TextToken:
			if opts.TrackParagraphs && inParagraph {
				hasher.update(string(z.Text()))
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			a := tok.DataAtom

			if paragraphTags[a] {
				flushParagraph()
				inParagraph = true
			}

			if attrName, ok := linkAttr[a]; ok {
				if v, present := getAttr(tok, attrName); present {
					pending = appendUse(pending, docID, docDir, v)
				}
				if srcsetElements[a] {
					if v, present := getAttr(tok, "srcset"); present {
						for _, cand := range splitSrcset(v) {
							pending = appendUse(pending, docID, docDir, cand)
						}
					}
				}
			}

			if a == atom.Meta {
				if httpEquiv, _ := getAttr(tok, "http-equiv"); strings.EqualFold(httpEquiv, "refresh") {
					if content, present := getAttr(tok, "content"); present {
						if url, ok := parseRefreshURL(content); ok {
							pending = appendUse(pending, docID, docDir, url)
						}
					}
				}
			}

			if opts.CheckAnchors {
				if nameAttr, ok := anchorNameAttr[a]; ok {
					if v, present := getAttr(tok, nameAttr); present && v != "" {
						anchors.Add(store.Arena().Intern(v))
					}
				}
				if v, present := getAttr(tok, "id"); present && v != "" {
					anchors.Add(store.Arena().Intern(v))
				}
			}

		case html.EndTagToken:
			tok := z.Token()
			if paragraphTags[tok.DataAtom] {
				flushParagraph()
				inParagraph = false
			}
		}
	}
}

// CollectExternalLinks scans a single HTML document for every link-like
// attribute value that ResolveHref would drop as external (the same
// href/src/data table ExtractDocument uses, plus srcset candidates and
// meta-refresh targets), returning each raw external URL encountered.
// The checker itself never stores what it silently drops; this exists
// only to serve the "dump-external-links" debug subcommand's report of
// what a run isn't checking.
func CollectExternalLinks(r io.Reader) ([]string, error) {
	z := html.NewTokenizer(r)
	var out []string
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return out, err
			}
			return out, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			a := tok.DataAtom

			if attrName, ok := linkAttr[a]; ok {
				if v, present := getAttr(tok, attrName); present {
					out = appendIfExternal(out, v)
				}
				if srcsetElements[a] {
					if v, present := getAttr(tok, "srcset"); present {
						for _, cand := range splitSrcset(v) {
							out = appendIfExternal(out, cand)
						}
					}
				}
			}

			if a == atom.Meta {
				if httpEquiv, _ := getAttr(tok, "http-equiv"); strings.EqualFold(httpEquiv, "refresh") {
					if content, present := getAttr(tok, "content"); present {
						if url, ok := parseRefreshURL(content); ok {
							out = appendIfExternal(out, url)
						}
					}
				}
			}
		}
	}
}

func appendIfExternal(out []string, raw string) []string {
	trimmed := strings.TrimFunc(raw, isASCIISpace)
	if trimmed == "" || !IsExternalLink(trimmed) {
		return out
	}
	return append(out, trimmed)
}

func appendUse(pending []pendingUse, docID, docDir, raw string) []pendingUse {
	resolved, ok := ResolveHref(docID, docDir, raw)
	if !ok {
		return pending
	}
	return append(pending, pendingUse{
		target: resolved.Path,
		use: Use{
			Source:    docID,
			Anchor:    resolved.Anchor,
			HasAnchor: resolved.HasAnchor,
		},
	})
}

func getAttr(tok html.Token, name string) (string, bool) {
	for _, at := range tok.Attr {
		if strings.EqualFold(at.Key, name) {
			return at.Val, true
		}
	}
	return "", false
}

// splitSrcset splits a srcset attribute value into candidate URLs,
// dropping each entry's width/density descriptor.
func splitSrcset(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if idx := strings.LastIndexByte(p, ' '); idx >= 0 {
			p = p[:idx]
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseRefreshURL extracts the URL substring after ";url=" in a
// meta[http-equiv=refresh] content attribute, e.g. "5;url=/next.html".
func parseRefreshURL(content string) (string, bool) {
	lower := strings.ToLower(content)
	idx := strings.Index(lower, ";url=")
	if idx < 0 {
		return "", false
	}
	url := strings.TrimSpace(content[idx+len(";url="):])
	url = strings.Trim(url, `'"`)
	if url == "" {
		return "", false
	}
	return url, true
}
