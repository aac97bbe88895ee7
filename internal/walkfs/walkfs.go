// Package walkfs enumerates the files under a site root, producing the
// checker.FileSource sequence the map phase consumes (spec §4.1: "path
// enumeration... walks the tree once, in any order"). It is explicitly
// outside the core's map-reduce algebra, so it is free to depend on a
// concrete filesystem rather than an abstract stream of bytes.
package walkfs

import (
	"fmt"
	"os"
	"path"
	"sort"

	billy "github.com/go-git/go-billy/v5"

	"github.com/hgs3/linkcheck/internal/checker"
)

// maxSymlinkDepth is the directory depth (counting every directory
// level, symlinked or not) beyond which symlinks are no longer followed,
// so a symlink cycle (a directory linking back to one of its own
// ancestors) cannot walk forever.
const maxSymlinkDepth = 40

// billyFile adapts billy.File to checker.ReadCloserWithSize (which only
// needs Read/Close).
type billyFile struct {
	billy.File
}

// fileSource is the walker's checker.FileSource implementation: a
// captured billy.Filesystem plus the file's normalized DocumentId and
// its filesystem-relative path.
type fileSource struct {
	fs     billy.Filesystem
	relDoc string // DocumentId, e.g. "/blog/post.html"
	relFS  string // billy-relative path, e.g. "blog/post.html"
}

func (f *fileSource) DocumentID() string { return f.relDoc }
func (f *fileSource) IsHTML() bool       { return checker.IsHTMLPath(f.relFS) }
func (f *fileSource) Open() (checker.ReadCloserWithSize, error) {
	file, err := f.fs.Open(f.relFS)
	if err != nil {
		return nil, err
	}
	return billyFile{file}, nil
}

// Walk enumerates every regular file under root on fs, following
// symlinks into the directories and files they point at (spec §4.1:
// "Symlinks are followed"). The result is sorted by DocumentId so that
// enumeration order is deterministic regardless of the underlying
// filesystem's directory order, satisfying §8 invariant 2 ("the set of
// broken links reported is independent of... file-enumeration order
// after canonical sort").
func Walk(fs billy.Filesystem, root string) ([]checker.FileSource, error) {
	var out []*fileSource
	if err := walkDir(fs, root, &out, 0); err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].relDoc < out[j].relDoc })

	sources := make([]checker.FileSource, len(out))
	for i, f := range out {
		sources[i] = f
	}
	return sources, nil
}

func walkDir(fs billy.Filesystem, dir string, out *[]*fileSource, depth int) error {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		full := path.Join(dir, entry.Name())

		info := entry
		if info.Mode()&os.ModeSymlink != 0 {
			if depth >= maxSymlinkDepth {
				continue
			}
			resolved, err := fs.Stat(full)
			if err != nil {
				// Broken symlink: skip it.
				continue
			}
			info = resolved
		}

		if info.IsDir() {
			if err := walkDir(fs, full, out, depth+1); err != nil {
				return err
			}
			continue
		}
		*out = append(*out, &fileSource{
			fs:     fs,
			relDoc: checker.NormalizeDocumentID(full),
			relFS:  full,
		})
	}
	return nil
}
