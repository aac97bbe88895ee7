package checker

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stringFile implements ReadCloserWithSize over an in-memory string, for
// tests that exercise MapReduce without a real filesystem.
type stringFile struct {
	io.Reader
}

func (stringFile) Close() error { return nil }

type stubSource struct {
	docID   string
	isHTML  bool
	content string
	openErr error
}

func (s stubSource) DocumentID() string { return s.docID }
func (s stubSource) IsHTML() bool       { return s.isHTML }
func (s stubSource) Open() (ReadCloserWithSize, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return stringFile{strings.NewReader(s.content)}, nil
}

func TestMapReduce_ScenarioTwoFilesNoErrors(t *testing.T) {
	files := []FileSource{
		stubSource{docID: "/a.html", isHTML: true, content: `<a href="/b.html">b</a>`},
		stubSource{docID: "/b.html", isHTML: true, content: ``},
	}
	store, err := MapReduce(context.Background(), files, MapReduceOptions{Jobs: 2})
	require.NoError(t, err)

	c := Classify(store, false)
	assert.Empty(t, c.BrokenLinks)
}

func TestMapReduce_ScenarioMissingTarget(t *testing.T) {
	files := []FileSource{
		stubSource{docID: "/a.html", isHTML: true, content: `<a href="/missing.html">b</a>`},
	}
	store, err := MapReduce(context.Background(), files, MapReduceOptions{Jobs: 1})
	require.NoError(t, err)

	c := Classify(store, false)
	require.Len(t, c.BrokenLinks, 1)
	assert.Equal(t, "/missing.html", c.BrokenLinks[0].Target)
}

func TestMapReduce_PerFileErrorDoesNotAbortRun(t *testing.T) {
	files := []FileSource{
		stubSource{docID: "/a.html", isHTML: true, content: `<a href="/b.html">b</a>`},
		stubSource{docID: "/b.html", isHTML: true, openErr: errors.New("permission denied")},
	}
	var reported []*FileError
	store, err := MapReduce(context.Background(), files, MapReduceOptions{
		Jobs:        1,
		OnFileError: func(fe *FileError) { reported = append(reported, fe) },
	})
	require.NoError(t, err)
	require.Len(t, reported, 1)
	assert.Equal(t, "/b.html", reported[0].DocumentID)

	// /b.html was never opened, so it's still Used, not Defined -> broken.
	c := Classify(store, false)
	require.Len(t, c.BrokenLinks, 1)
}

func TestMapReduce_ResultIndependentOfJobCount(t *testing.T) {
	files := []FileSource{
		stubSource{docID: "/a.html", isHTML: true, content: `<a href="/b.html">x</a><a href="/missing.html">y</a>`},
		stubSource{docID: "/b.html", isHTML: true, content: `<a href="/a.html">back</a>`},
		stubSource{docID: "/c.html", isHTML: true, content: `<a href="/a.html">c</a>`},
	}

	store1, err := MapReduce(context.Background(), files, MapReduceOptions{Jobs: 1})
	require.NoError(t, err)
	store4, err := MapReduce(context.Background(), files, MapReduceOptions{Jobs: 4})
	require.NoError(t, err)

	c1 := Classify(store1, false)
	c4 := Classify(store4, false)
	require.Len(t, c1.BrokenLinks, 1)
	require.Len(t, c4.BrokenLinks, 1)
	assert.Equal(t, c1.BrokenLinks[0], c4.BrokenLinks[0])
}

func TestMapReduce_InvalidUTF8IsPerFileError(t *testing.T) {
	files := []FileSource{
		stubSource{docID: "/a.html", isHTML: true, content: `<a href="/b.html">b</a>`},
		stubSource{docID: "/b.html", isHTML: true, content: ``},
		stubSource{docID: "/bad.html", isHTML: true, content: "<a href=\"/a.html\">\xff\xfe</a>"},
	}
	var reported []*FileError
	store, err := MapReduce(context.Background(), files, MapReduceOptions{
		Jobs:        1,
		OnFileError: func(fe *FileError) { reported = append(reported, fe) },
	})
	require.NoError(t, err)
	require.Len(t, reported, 1)
	assert.Equal(t, "/bad.html", reported[0].DocumentID)
	assert.ErrorIs(t, reported[0], errNotUTF8)

	// /bad.html was skipped entirely, so it never contributed its own
	// href to /a.html, and it was never Defined -> the run still
	// completes without treating it as a broken target either.
	c := Classify(store, false)
	assert.Empty(t, c.BrokenLinks)
}

func TestMapReduce_NonHTMLFileIsDefinedNotParsed(t *testing.T) {
	files := []FileSource{
		stubSource{docID: "/a.html", isHTML: true, content: `<img src="/logo.png">`},
		stubSource{docID: "/logo.png", isHTML: false},
	}
	store, err := MapReduce(context.Background(), files, MapReduceOptions{Jobs: 2})
	require.NoError(t, err)

	c := Classify(store, false)
	assert.Empty(t, c.BrokenLinks)
}
