package walkfs

import (
	"io"
	"sort"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalk_EnumeratesFilesSortedByDocumentID(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "b.html", []byte("<html></html>"), 0o644))
	require.NoError(t, util.WriteFile(fs, "a/c.html", []byte("<html></html>"), 0o644))
	require.NoError(t, util.WriteFile(fs, "a/logo.png", []byte("\x89PNG"), 0o644))

	sources, err := Walk(fs, "/")
	require.NoError(t, err)

	var ids []string
	for _, s := range sources {
		ids = append(ids, s.DocumentID())
	}
	assert.True(t, sort.StringsAreSorted(ids))
	assert.Contains(t, ids, "/a/c.html")
	assert.Contains(t, ids, "/a/logo.png")
	assert.Contains(t, ids, "/b.html")
}

func TestWalk_IsHTMLReflectsExtension(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "a.html", []byte(""), 0o644))
	require.NoError(t, util.WriteFile(fs, "a.png", []byte(""), 0o644))

	sources, err := Walk(fs, "/")
	require.NoError(t, err)

	byID := map[string]bool{}
	for _, s := range sources {
		byID[s.DocumentID()] = s.IsHTML()
	}
	assert.True(t, byID["/a.html"])
	assert.False(t, byID["/a.png"])
}

func TestWalk_FollowsSymlinkedDirectory(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "real/a.html", []byte("<html></html>"), 0o644))
	require.NoError(t, fs.Symlink("real", "alias"))

	sources, err := Walk(fs, "/")
	require.NoError(t, err)

	var ids []string
	for _, s := range sources {
		ids = append(ids, s.DocumentID())
	}
	assert.Contains(t, ids, "/real/a.html")
	assert.Contains(t, ids, "/alias/a.html")
}

func TestWalk_FollowsSymlinkedFile(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "real.html", []byte("hi"), 0o644))
	require.NoError(t, fs.Symlink("real.html", "alias.html"))

	sources, err := Walk(fs, "/")
	require.NoError(t, err)

	var ids []string
	for _, s := range sources {
		ids = append(ids, s.DocumentID())
	}
	assert.Contains(t, ids, "/real.html")
	assert.Contains(t, ids, "/alias.html")
}

func TestWalk_BrokenSymlinkIsSkipped(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, fs.Symlink("does-not-exist", "dangling"))

	sources, err := Walk(fs, "/")
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestWalk_OpenReadsContent(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "a.html", []byte("hello"), 0o644))

	sources, err := Walk(fs, "/")
	require.NoError(t, err)
	require.Len(t, sources, 1)

	r, err := sources[0].Open()
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
