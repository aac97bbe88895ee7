package checker

import (
	"regexp"
	"strings"

	"github.com/zeebo/blake3"
)

// ParagraphHash is a 128-bit BLAKE3 digest of normalized prose,
// spec §3, used only by the source-mapper (internal/sourcemap) to
// correlate a broken HTML link with the Markdown paragraph it likely
// came from.
type ParagraphHash [16]byte

// paragraphHasher accumulates text for one paragraph and finalizes it
// into a ParagraphHash. Grounded on original_source/src/paragraph.rs's
// ParagraphHasher, which wraps a blake3.Hasher the same way; the 128-bit
// truncation (vs. the original's full 256-bit digest) is spec §3's own
// choice, drawn via the XOF interface zeebo/blake3 exposes through
// Hasher.Digest().
type paragraphHasher struct {
	h *blake3.Hasher
	n int
}

func newParagraphHasher() *paragraphHasher {
	return &paragraphHasher{h: blake3.New()}
}

func (p *paragraphHasher) update(text string) {
	norm := NormalizeParagraphText(text)
	if norm == "" {
		return
	}
	if p.n > 0 {
		_, _ = p.h.Write([]byte(" "))
	}
	_, _ = p.h.Write([]byte(norm))
	p.n++
}

func (p *paragraphHasher) empty() bool {
	return p.n == 0
}

func (p *paragraphHasher) finish() ParagraphHash {
	var out ParagraphHash
	d := p.h.Digest()
	_, _ = d.Read(out[:])
	p.h.Reset()
	p.n = 0
	return out
}

// HashParagraphText hashes a single already-assembled block of prose
// the same way the HTML extractor hashes a paragraph tag's accumulated
// text, so a source-mapper reading a different document format (e.g.
// Markdown) computes comparable hashes without duplicating the
// paragraphHasher machinery.
func HashParagraphText(s string) ParagraphHash {
	h := newParagraphHasher()
	h.update(s)
	return h.finish()
}

// ParagraphHashSpans returns the robustness set of hashes for a block of
// prose: one for the whole normalized paragraph, and one for each span
// formed by dropping a single word from either end (spec §4.6). The
// source-mapper indexes every span so that an HTML paragraph which is a
// truncated or shifted slice of the true Markdown paragraph — a
// template wrapping only part of it in a "p" tag, or eating a leading
// or trailing word — still matches one of the recorded hashes. A block
// of one word or fewer, or an empty block, yields just the whole-block
// hash (or none at all).
func ParagraphHashSpans(s string) []ParagraphHash {
	norm := NormalizeParagraphText(s)
	if norm == "" {
		return nil
	}

	texts := []string{norm}
	words := strings.Fields(norm)
	if len(words) > 1 {
		texts = append(texts, strings.Join(words[1:], " "), strings.Join(words[:len(words)-1], " "))
	}

	seen := make(map[ParagraphHash]bool, len(texts))
	hashes := make([]ParagraphHash, 0, len(texts))
	for _, t := range texts {
		h := HashParagraphText(t)
		if seen[h] {
			continue
		}
		seen[h] = true
		hashes = append(hashes, h)
	}
	return hashes
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeParagraphText collapses whitespace and trims, the shared
// normalization the HTML extractor and the Markdown source-mapper both
// apply before hashing so identical prose hashes identically regardless
// of which side re-flowed it (spec §4.6, §9 "the exact normalization...
// is implementation-defined").
func NormalizeParagraphText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
