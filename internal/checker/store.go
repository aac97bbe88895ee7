package checker

import (
	radix "github.com/armon/go-radix"
)

// Use records one reference to a DocumentId: the document that made the
// reference, the anchor it requires (if any), and — when the
// source-mapper is enabled — a hash of the surrounding prose used to
// fuzzy-match the reference back to a Markdown source file.
type Use struct {
	Source     string
	Anchor     string
	HasAnchor  bool
	Context    ParagraphHash
	HasContext bool
}

// docEntry is the value held per DocumentId key in a LinkStore's radix
// tree. The two states from spec §3 — Defined(anchors) and Used(uses) —
// are collapsed into one struct because a Defined key must keep
// accumulating its pending uses list for later anchor validation (spec
// §9: "Partial anchor records carried on Used -> Defined transitions").
type docEntry struct {
	defined bool
	anchors AnchorSet
	uses    []Use
}

// LinkStore is the per-worker link bookkeeper of spec §3/§4.4. It owns
// an Arena for anchor-name interning and a radix tree keyed by
// DocumentId — the "radix tree keyed by DocumentId... to exploit the
// long common prefixes typical of site paths" memory optimization from
// spec §5, backed by github.com/armon/go-radix, a Go analog of the
// original Rust implementation's patricia_tree crate (see
// original_source/src/collector.rs).
//
// A LinkStore is not safe for concurrent use; each worker owns exactly
// one for the duration of the map phase.
type LinkStore struct {
	arena *Arena
	tree  *radix.Tree
}

// NewLinkStore allocates an empty store with its own Arena.
func NewLinkStore() *LinkStore {
	return &LinkStore{arena: NewArena(), tree: radix.New()}
}

// Arena returns the store's backing arena, used by the extractor to
// intern anchor names before calling InsertDefined.
func (s *LinkStore) Arena() *Arena {
	return s.arena
}

// Len returns the number of distinct DocumentIds tracked.
func (s *LinkStore) Len() int {
	return s.tree.Len()
}

func (s *LinkStore) get(docID string) *docEntry {
	if v, ok := s.tree.Get(docID); ok {
		return v.(*docEntry)
	}
	return nil
}

// InsertDefined records that docID exists, declaring the given anchor
// set. Repeated calls for the same key union the anchor sets (spec
// §4.4: "If K = Defined(A0) -> set to Defined(A0 ∪ A1)"). A prior
// Used(U) transitions to Defined but keeps U for anchor validation.
func (s *LinkStore) InsertDefined(docID string, anchors AnchorSet) {
	if e := s.get(docID); e != nil {
		if e.defined {
			e.anchors = e.anchors.Union(anchors)
		} else {
			e.defined = true
			e.anchors = anchors
		}
		return
	}
	s.tree.Insert(docID, &docEntry{defined: true, anchors: anchors})
}

// InsertUse records a reference to targetDocID. If targetDocID is
// already Defined, the reference is retained on the entry (not
// discarded) so anchor validation can run once every worker's results
// are reduced; otherwise the entry accumulates in Used state.
func (s *LinkStore) InsertUse(targetDocID string, use Use) {
	if e := s.get(targetDocID); e != nil {
		e.uses = append(e.uses, use)
		return
	}
	s.tree.Insert(targetDocID, &docEntry{uses: []Use{use}})
}

// Merge folds other into s using the commutative, associative algebra
// of spec §4.4: Defined absorbs Used, anchor sets union, use lists
// concatenate. Strings referenced by other's entries are re-interned
// into s's arena so the merged store never holds dangling arena
// references (spec §5: "two arenas are combined by re-interning the
// smaller into the larger").
func (s *LinkStore) Merge(other *LinkStore) {
	other.tree.Walk(func(docID string, v interface{}) bool {
		oe := v.(*docEntry)
		translated := docEntry{
			defined: oe.defined,
			anchors: s.translateAnchors(other.arena, oe.anchors),
			uses:    oe.uses,
		}

		if e := s.get(docID); e != nil {
			if translated.defined {
				if e.defined {
					e.anchors = e.anchors.Union(translated.anchors)
				} else {
					e.defined = true
					e.anchors = translated.anchors
				}
			}
			e.uses = append(e.uses, translated.uses...)
			return false
		}

		cp := translated
		s.tree.Insert(docID, &cp)
		return false
	})
}

// translateAnchors re-interns every anchor id in a foreign AnchorSet
// (drawn from srcArena) into s's own arena, returning an equivalent set
// whose ids are valid in s.
func (s *LinkStore) translateAnchors(srcArena *Arena, set AnchorSet) AnchorSet {
	if set.IsEmpty() {
		return NewAnchorSet()
	}
	out := NewAnchorSet()
	it := set.bits.Iterator()
	for it.HasNext() {
		id := it.Next()
		name := srcArena.String(id)
		out.Add(s.arena.Intern(name))
	}
	return out
}

// Walk visits every DocumentId in the store. The callback must not
// mutate the store.
func (s *LinkStore) Walk(fn func(docID string, e *docEntry)) {
	s.tree.Walk(func(docID string, v interface{}) bool {
		fn(docID, v.(*docEntry))
		return false
	})
}
