package checker

import "context"

// Options configures a full checking run (spec §6's CLI surface,
// modulo the flags that belong to the driver rather than the core:
// the site root and --sources are resolved into a FileSource slice
// and a *sourcemap.Index respectively before Run is called).
type Options struct {
	Jobs         int
	CheckAnchors bool
	// TrackParagraphs enables paragraph hashing during extraction. The
	// driver sets this when a source-mapper is in play; the core
	// otherwise skips the hashing work entirely.
	TrackParagraphs bool
	OnFileError     func(*FileError)
}

// Result is what the classifier plus the map-reduce pass hand back to
// the driver for reporting and exit-code selection.
type Result struct {
	Classification Classification
	// TotalReferences is the supplemented used_links_count diagnostic
	// (original_source/src/collector.rs's used_link_count): every
	// resolved internal href/src the extractor recorded, broken or not.
	TotalReferences int
}

// Run drives the full map-reduce-classify pipeline (spec §2) over
// files and returns the classified result. It does not decide exit
// codes or print anything; that policy lives in internal/report.
func Run(ctx context.Context, files []FileSource, opts Options) (Result, error) {
	store, err := MapReduce(ctx, files, MapReduceOptions{
		Jobs:            opts.Jobs,
		CheckAnchors:    opts.CheckAnchors,
		TrackParagraphs: opts.TrackParagraphs,
		OnFileError:     opts.OnFileError,
	})
	if err != nil {
		return Result{}, err
	}

	c := Classify(store, opts.CheckAnchors)
	return Result{Classification: c, TotalReferences: c.TotalUses}, nil
}
