package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArenaInternIsStable(t *testing.T) {
	a := NewArena()
	id1 := a.Intern("top")
	id2 := a.Intern("top")
	assert.Equal(t, id1, id2)
	assert.Equal(t, "top", a.String(id1))
}

func TestArenaInternDistinctStrings(t *testing.T) {
	a := NewArena()
	id1 := a.Intern("a")
	id2 := a.Intern("b")
	assert.NotEqual(t, id1, id2)
}

func TestAnchorSetUnion(t *testing.T) {
	a := NewArena()
	s1 := NewAnchorSet()
	s1.Add(a.Intern("top"))
	s2 := NewAnchorSet()
	s2.Add(a.Intern("bottom"))

	merged := s1.Union(s2)
	assert.True(t, merged.Contains(a.Intern("top")))
	assert.True(t, merged.Contains(a.Intern("bottom")))
}

func TestAnchorSetIsEmpty(t *testing.T) {
	s := NewAnchorSet()
	assert.True(t, s.IsEmpty())
	a := NewArena()
	s.Add(a.Intern("x"))
	assert.False(t, s.IsEmpty())
}

func TestAnchorSetClone(t *testing.T) {
	a := NewArena()
	s := NewAnchorSet()
	s.Add(a.Intern("x"))
	clone := s.Clone()
	clone.Add(a.Intern("y"))
	assert.False(t, s.Contains(a.Intern("y")))
	assert.True(t, clone.Contains(a.Intern("y")))
}
