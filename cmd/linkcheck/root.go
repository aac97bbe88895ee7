package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/hgs3/linkcheck/internal/checker"
	"github.com/hgs3/linkcheck/internal/config"
	"github.com/hgs3/linkcheck/internal/report"
	"github.com/hgs3/linkcheck/internal/sourcemap"
	"github.com/hgs3/linkcheck/internal/walkfs"
)

var (
	jobsFlag          int
	checkAnchorsFlag  bool
	sourcesFlag       string
	githubActionsFlag bool
	configFlag        string
)

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.Flags().IntVarP(&jobsFlag, "jobs", "j", 0, "worker count (default: number of logical CPUs)")
	rootCmd.Flags().BoolVar(&checkAnchorsFlag, "check-anchors", false, "validate that fragment anchors exist")
	rootCmd.Flags().StringVar(&sourcesFlag, "sources", "", "directory of Markdown sources for the source-mapper")
	rootCmd.Flags().BoolVar(&githubActionsFlag, "github-actions", false, "emit GitHub Actions annotations instead of plain text")
	rootCmd.Flags().StringVar(&configFlag, "config", ".linkcheck.yaml", "optional YAML config file")

	rootCmd.AddCommand(sourcemapDebugCmd)
	rootCmd.AddCommand(dumpExternalLinksCmd)
}

var rootCmd = &cobra.Command{
	Use:   "linkcheck SITE_ROOT",
	Short: "Check a rendered static site for broken internal links and anchors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := runCheck(cmd, args[0], os.Stdout, log.New(os.Stderr, "linkcheck: ", 0))
		if err != nil {
			return &exitError{code: report.ExitInfrastructure, err: err}
		}
		return &exitError{code: code}
	},
}

// runCheck performs the full check and writes the report to out,
// returning the process exit code report.ExitCode computes. It never
// calls os.Exit itself so it can be exercised directly in tests.
func runCheck(cmd *cobra.Command, root string, out io.Writer, logger *log.Logger) (int, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return 0, err
	}
	applyConfigDefaults(cmd, cfg)

	info, err := os.Stat(root)
	if err != nil {
		return 0, fmt.Errorf("site root %s: %w", root, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("site root %s is not a directory", root)
	}

	files, err := walkfs.Walk(osfs.New(root), "/")
	if err != nil {
		return 0, err
	}

	var idx *sourcemap.Index
	trackParagraphs := sourcesFlag != ""
	if trackParagraphs {
		idx, err = sourcemap.BuildIndex(osfs.New(sourcesFlag), "/")
		if err != nil {
			return 0, err
		}
	}

	jobs := jobsFlag
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	result, err := checker.Run(context.Background(), files, checker.Options{
		Jobs:            jobs,
		CheckAnchors:    checkAnchorsFlag,
		TrackParagraphs: trackParagraphs,
		OnFileError: func(fe *checker.FileError) {
			logger.Println(fe.Error())
		},
	})
	if err != nil {
		return 0, err
	}

	if githubActionsFlag {
		report.GithubActions(out, result.Classification, idx)
	} else {
		report.Plain(out, result.Classification)
		fmt.Fprintf(out, "%d links checked, %d broken\n",
			result.TotalReferences, len(result.Classification.BrokenLinks)+len(result.Classification.BrokenAnchors))
	}

	return report.ExitCode(result.Classification), nil
}

// exitError carries the process exit code a completed or aborted run
// should terminate with. When err is nil (a completed run, code
// determined by report.ExitCode) Execute exits silently; otherwise it
// prints err first (spec §7 "Fatal configuration").
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}
func (e *exitError) Unwrap() error { return e.err }

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if cmd.Flags().Changed("config") {
		return config.Load(configFlag)
	}
	return config.LoadDefault(configFlag)
}

// applyConfigDefaults fills in flags not given on the command line from cfg,
// so that explicit CLI flags always win over the config file (§11.1).
func applyConfigDefaults(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("jobs") && cfg.Jobs > 0 {
		jobsFlag = cfg.Jobs
	}
	if !cmd.Flags().Changed("check-anchors") && cfg.CheckAnchors {
		checkAnchorsFlag = true
	}
	if !cmd.Flags().Changed("sources") && cfg.Sources != "" {
		sourcesFlag = cfg.Sources
	}
	if !cmd.Flags().Changed("github-actions") && cfg.GithubActions {
		githubActionsFlag = true
	}
}

// Execute runs the root command, translating a fatal *exitError into
// its declared process exit code and any other cobra-level error
// (bad flags, unknown subcommand) into an infrastructure failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if ee, ok := err.(*exitError); ok {
			if ee.err != nil {
				fmt.Fprintln(os.Stderr, "linkcheck:", ee.err)
			}
			os.Exit(ee.code)
		}
		os.Exit(report.ExitInfrastructure)
	}
}
