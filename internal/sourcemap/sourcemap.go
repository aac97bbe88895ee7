// Package sourcemap implements the optional fuzzy-match pass of spec.md
// §4.6: it hashes every paragraph/list-item block of the Markdown
// sources behind a rendered site and offers a best-effort (path, line)
// location for a ParagraphHash a broken link's surrounding HTML prose
// hashed to. Matching is heuristic by design (spec §9's open question
// on normalization); an Index entry may hold more than one candidate
// location for the same hash, and a caller should treat any of them as
// an acceptable answer.
package sourcemap

import (
	"bytes"
	"fmt"

	billy "github.com/go-git/go-billy/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/hgs3/linkcheck/internal/checker"
	"github.com/hgs3/linkcheck/internal/walkfs"
)

// Location names a paragraph's origin: the Markdown file it came from
// and the 1-based line its last line of text ends on, mirroring the
// original implementation's (path, lineno) pairs in
// original_source/src/markdown.rs.
type Location struct {
	Path string
	Line int
}

// Index maps a ParagraphHash to every Markdown location whose
// normalized text produced that hash.
type Index struct {
	byHash map[checker.ParagraphHash][]Location
}

// Lookup returns every known location for hash. ok is false if no
// Markdown paragraph hashed to it.
func (idx *Index) Lookup(hash checker.ParagraphHash) ([]Location, bool) {
	locs, ok := idx.byHash[hash]
	return locs, ok
}

// Len reports how many distinct paragraph hashes are indexed.
func (idx *Index) Len() int { return len(idx.byHash) }

var md = goldmark.New()

// BuildIndex walks every ".md"/".markdown" file under root on fs and
// indexes its paragraph and list-item blocks by ParagraphHash.
func BuildIndex(fs billy.Filesystem, root string) (*Index, error) {
	files, err := walkfs.Walk(fs, root)
	if err != nil {
		return nil, fmt.Errorf("walk markdown sources %s: %w", root, err)
	}

	idx := &Index{byHash: make(map[checker.ParagraphHash][]Location)}
	for _, f := range files {
		path := f.DocumentID()
		if !isMarkdownPath(path) {
			continue
		}
		if err := indexFile(fs, f, idx); err != nil {
			return nil, fmt.Errorf("index %s: %w", path, err)
		}
	}
	return idx, nil
}

func indexFile(fs billy.Filesystem, f checker.FileSource, idx *Index) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return err
	}
	source := buf.Bytes()

	doc := md.Parser().Parse(gmtext.NewReader(source))
	path := f.DocumentID()

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindParagraph, ast.KindTextBlock:
			text, line, ok := blockTextAndLine(n, source)
			if !ok {
				return ast.WalkSkipChildren, nil
			}
			for _, hash := range checker.ParagraphHashSpans(text) {
				idx.byHash[hash] = append(idx.byHash[hash], Location{Path: path, Line: line})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return err
}

// blockTextAndLine concatenates every text segment directly owned by
// block (its Lines(), which for a Paragraph or a TextBlock — the text
// of a tight list item — cover its immediate textual content) and returns the 1-based line number the
// block's last line ends on, matching original_source/src/markdown.rs's
// line_numbers.binary_search(&range.end) behavior.
func blockTextAndLine(block ast.Node, source []byte) (text string, line int, ok bool) {
	lines := block.Lines()
	if lines.Len() == 0 {
		return "", 0, false
	}

	var buf bytes.Buffer
	var lastStop int
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
		lastStop = seg.Stop
	}

	return buf.String(), lineNumberAt(source, lastStop), true
}

func lineNumberAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte("\n")) + 1
}

func isMarkdownPath(p string) bool {
	for _, ext := range []string{".md", ".markdown"} {
		if len(p) >= len(ext) && p[len(p)-len(ext):] == ext {
			return true
		}
	}
	return false
}
