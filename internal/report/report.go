// Package report renders a checker.Result for a terminal or for GitHub
// Actions, and decides the process exit code, per spec.md §6.
package report

import (
	"fmt"
	"io"

	"github.com/hgs3/linkcheck/internal/checker"
	"github.com/hgs3/linkcheck/internal/sourcemap"
)

// Exit codes, spec §6.
const (
	ExitOK             = 0
	ExitBrokenLinks    = 1
	ExitBrokenAnchors  = 2
	ExitInfrastructure = 3
)

// ExitCode implements spec §6's policy: broken links (errors) outrank
// broken anchors (warnings); no findings at all is success.
func ExitCode(c checker.Classification) int {
	switch {
	case len(c.BrokenLinks) > 0:
		return ExitBrokenLinks
	case len(c.BrokenAnchors) > 0:
		return ExitBrokenAnchors
	default:
		return ExitOK
	}
}

// Plain writes one broken link/anchor per line in the format
// "<target> referenced from <source>[ (anchor <a>)]" (spec §6).
func Plain(w io.Writer, c checker.Classification) {
	for _, bl := range c.BrokenLinks {
		fmt.Fprintf(w, "%s referenced from %s\n", bl.Target, bl.Source)
	}
	for _, ba := range c.BrokenAnchors {
		fmt.Fprintf(w, "%s referenced from %s (anchor %s)\n", ba.Target, ba.Source, ba.Anchor)
	}
}

// GithubActions writes the `::error file=...,line=...::...` annotation
// format (spec §6) for broken links and `::warning ...` for broken
// anchors, consulting idx (which may be nil) for a Markdown
// (file, line) location; falling back to the HTML path at line 1 when
// no source-map match exists.
func GithubActions(w io.Writer, c checker.Classification, idx *sourcemap.Index) {
	for _, bl := range c.BrokenLinks {
		file, line := annotationLocation(bl.Source, bl.Context, bl.HasContext, idx)
		fmt.Fprintf(w, "::error file=%s,line=%d::broken link to %s\n", file, line, bl.Target)
	}
	for _, ba := range c.BrokenAnchors {
		file, line := annotationLocation(ba.Source, ba.Context, ba.HasContext, idx)
		fmt.Fprintf(w, "::warning file=%s,line=%d::broken anchor #%s in link to %s\n", file, line, ba.Anchor, ba.Target)
	}
}

// annotationLocation resolves the best (file, line) to annotate: the
// source-mapper's Markdown location for the link's surrounding
// paragraph when available, otherwise the HTML document itself at
// line 1.
func annotationLocation(htmlSource string, ctx checker.ParagraphHash, hasCtx bool, idx *sourcemap.Index) (string, int) {
	if hasCtx && idx != nil {
		if locs, ok := idx.Lookup(ctx); ok && len(locs) > 0 {
			return locs[0].Path[1:], locs[0].Line
		}
	}
	return htmlSource[1:], 1
}
