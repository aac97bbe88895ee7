package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/hgs3/linkcheck/internal/checker"
	"github.com/hgs3/linkcheck/internal/walkfs"
)

// dumpExternalLinksCmd supplements the distilled spec with the original
// implementation's dump-external-links diagnostic (main.rs): linkcheck
// never checks external links, but this reports what a run would have
// silently dropped, deduplicated per source document.
var dumpExternalLinksCmd = &cobra.Command{
	Use:           "dump-external-links SITE_ROOT",
	Short:         "List external links found in the site, without checking internal links",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dumpExternalLinks(args[0], os.Stdout)
	},
}

func dumpExternalLinks(root string, out io.Writer) error {
	files, err := walkfs.Walk(osfs.New(root), "/")
	if err != nil {
		return err
	}

	byDoc := make(map[string]map[string]bool)
	for _, f := range files {
		if !f.IsHTML() {
			continue
		}
		if err := collectDocExternalLinks(f, byDoc); err != nil {
			return err
		}
	}

	docIDs := make([]string, 0, len(byDoc))
	for docID := range byDoc {
		docIDs = append(docIDs, docID)
	}
	sort.Strings(docIDs)

	total := 0
	for _, docID := range docIDs {
		links := make([]string, 0, len(byDoc[docID]))
		for l := range byDoc[docID] {
			links = append(links, l)
		}
		sort.Strings(links)

		fmt.Fprintln(out, docID)
		for _, l := range links {
			fmt.Fprintf(out, "  info: external link %s\n", l)
			total++
		}
	}
	fmt.Fprintf(out, "%d external links found\n", total)
	return nil
}

func collectDocExternalLinks(f checker.FileSource, byDoc map[string]map[string]bool) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()

	links, err := checker.CollectExternalLinks(r)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}

	docID := f.DocumentID()
	set := byDoc[docID]
	if set == nil {
		set = make(map[string]bool)
		byDoc[docID] = set
	}
	for _, l := range links {
		set[l] = true
	}
	return nil
}
