package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/hgs3/linkcheck/internal/checker"
	"github.com/hgs3/linkcheck/internal/sourcemap"
	"github.com/hgs3/linkcheck/internal/walkfs"
)

// sourcemapDebugCmd supplements the distilled spec with the original
// implementation's --match-all-paragraphs diagnostic (main.rs): rather
// than listing broken links, it reports how many candidate source
// paragraphs each broken link's ParagraphHash matched, useful for tuning
// the mapper without disturbing the default exit-code contract. Links
// that resolve are not counted, and anchors are not checked.
var sourcemapDebugCmd = &cobra.Command{
	Use:           "sourcemap-debug SOURCES_DIR SITE_DIR",
	Short:         "Report source-map match counts for broken links, without listing them",
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		sourcesDir, siteDir := args[0], args[1]

		idx, err := sourcemap.BuildIndex(osfs.New(sourcesDir), "/")
		if err != nil {
			return err
		}

		files, err := walkfs.Walk(osfs.New(siteDir), "/")
		if err != nil {
			return err
		}

		result, err := checker.Run(context.Background(), files, checker.Options{
			TrackParagraphs: true,
		})
		if err != nil {
			return err
		}

		zero, one, many := 0, 0, 0
		tally := func(hasCtx bool, ctx checker.ParagraphHash) {
			if !hasCtx {
				zero++
				return
			}
			locs, ok := idx.Lookup(ctx)
			switch {
			case !ok || len(locs) == 0:
				zero++
			case len(locs) == 1:
				one++
			default:
				many++
			}
		}
		for _, bl := range result.Classification.BrokenLinks {
			tally(bl.HasContext, bl.Context)
		}
		for _, ba := range result.Classification.BrokenAnchors {
			tally(ba.HasContext, ba.Context)
		}

		fmt.Fprintf(os.Stdout, "paragraphs indexed: %d\n", idx.Len())
		fmt.Fprintf(os.Stdout, "broken references: zero candidates=%d, one candidate=%d, multiple candidates=%d\n", zero, one, many)
		return nil
	},
}
