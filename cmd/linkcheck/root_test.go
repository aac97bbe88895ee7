package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgs3/linkcheck/internal/report"
)

func resetFlags() {
	jobsFlag = 0
	checkAnchorsFlag = false
	sourcesFlag = ""
	githubActionsFlag = false
	configFlag = ".linkcheck.yaml"
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestRunCheck_NoErrorsExitsZero(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	writeFile(t, dir, "a.html", `<a href="/b.html">b</a>`)
	writeFile(t, dir, "b.html", ``)

	var out bytes.Buffer
	code, err := runCheck(rootCmd, dir, &out, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	assert.Equal(t, report.ExitOK, code)
}

func TestRunCheck_BrokenLinkExitsOne(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	writeFile(t, dir, "a.html", `<a href="/missing.html">b</a>`)

	var out bytes.Buffer
	code, err := runCheck(rootCmd, dir, &out, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	assert.Equal(t, report.ExitBrokenLinks, code)
	assert.Contains(t, out.String(), "/missing.html referenced from /a.html")
}

func TestRunCheck_BrokenAnchorExitsTwo(t *testing.T) {
	resetFlags()
	checkAnchorsFlag = true
	dir := t.TempDir()
	writeFile(t, dir, "a.html", `<a href="/b.html#nope">b</a>`)
	writeFile(t, dir, "b.html", `<p id="top">hi</p>`)

	var out bytes.Buffer
	code, err := runCheck(rootCmd, dir, &out, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	assert.Equal(t, report.ExitBrokenAnchors, code)
}

func TestDumpExternalLinks_ListsAndDedupsPerDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.html", `<a href="https://example.com/x">x</a><a href="https://example.com/x">x again</a>`)
	writeFile(t, dir, "b.html", `<a href="/local.html">local</a>`)

	var out bytes.Buffer
	require.NoError(t, dumpExternalLinks(dir, &out))

	text := out.String()
	assert.Contains(t, text, "/a.html")
	assert.Contains(t, text, "info: external link https://example.com/x")
	assert.NotContains(t, text, "/b.html")
	assert.Contains(t, text, "1 external links found")
}

func TestRunCheck_MissingRootIsAnError(t *testing.T) {
	resetFlags()
	var out bytes.Buffer
	_, err := runCheck(rootCmd, filepath.Join(t.TempDir(), "does-not-exist"), &out, log.New(io.Discard, "", 0))
	assert.Error(t, err)
}
