package checker

import "sort"

// BrokenLink is a use whose target DocumentId was never defined (spec
// §4.5: "a target document id that has no Defined entry").
type BrokenLink struct {
	Source     string
	Target     string
	Context    ParagraphHash
	HasContext bool
}

// BrokenAnchor is a use whose target document exists but does not
// declare the required anchor (spec §4.5, only produced when
// --check-anchors is set).
type BrokenAnchor struct {
	Source     string
	Target     string
	Anchor     string
	Context    ParagraphHash
	HasContext bool
}

// Classification is the result of walking a fully-reduced LinkStore:
// every use partitioned into ok / broken-link / broken-anchor, per
// spec §4.5's classifier.
type Classification struct {
	BrokenLinks    []BrokenLink
	BrokenAnchors  []BrokenAnchor
	TotalDocuments int
	TotalUses      int
}

// Classify walks store and partitions every recorded Use. checkAnchors
// must match the ExtractOptions used to build store — if anchors were
// never recorded, the anchor sets are empty and every anchored use of a
// defined document is reported as a broken anchor.
func Classify(store *LinkStore, checkAnchors bool) Classification {
	var c Classification

	// seenLinks/seenAnchors dedup on (Source, Target[, Anchor]) so that
	// two identical <a href> tags in the same document (or across
	// documents) produce one reported error, not one per occurrence
	// (spec §4.5: "Duplicate (source, target, anchor) triples are
	// deduplicated before reporting"). The first occurrence encountered
	// wins its Context, since store.Walk's use order is otherwise
	// arbitrary and any single representative context is as good as
	// another for the report.
	seenLinks := make(map[[2]string]bool)
	seenAnchors := make(map[[3]string]bool)

	store.Walk(func(docID string, e *docEntry) {
		c.TotalDocuments++
		for _, use := range e.uses {
			c.TotalUses++
			if !e.defined {
				key := [2]string{use.Source, docID}
				if seenLinks[key] {
					continue
				}
				seenLinks[key] = true
				c.BrokenLinks = append(c.BrokenLinks, BrokenLink{
					Source:     use.Source,
					Target:     docID,
					Context:    use.Context,
					HasContext: use.HasContext,
				})
				continue
			}
			if checkAnchors && use.HasAnchor && use.Anchor != "" {
				id, ok := store.Arena().lookup(use.Anchor)
				if !ok || !e.anchors.Contains(id) {
					key := [3]string{use.Source, docID, use.Anchor}
					if seenAnchors[key] {
						continue
					}
					seenAnchors[key] = true
					c.BrokenAnchors = append(c.BrokenAnchors, BrokenAnchor{
						Source:     use.Source,
						Target:     docID,
						Anchor:     use.Anchor,
						Context:    use.Context,
						HasContext: use.HasContext,
					})
				}
			}
		}
	})

	sort.Slice(c.BrokenLinks, func(i, j int) bool {
		a, b := c.BrokenLinks[i], c.BrokenLinks[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Target < b.Target
	})
	sort.Slice(c.BrokenAnchors, func(i, j int) bool {
		a, b := c.BrokenAnchors[i], c.BrokenAnchors[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Anchor < b.Anchor
	})

	return c
}
